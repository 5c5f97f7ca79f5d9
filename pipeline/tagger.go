package pipeline

import (
	"fmt"

	"text2phenotype.com/postag/baseline"
	"text2phenotype.com/postag/hmm"
	"text2phenotype.com/postag/logger"
	"text2phenotype.com/postag/types"
)

// Tagger assigns one tag per token. Implementations must be safe for concurrent use.
type Tagger interface {
	Tag(tokens []string) (types.TaggedSentence, error)
}

type Scorer interface {
	JointLogProb(sentence types.TaggedSentence) (float64, error)
}

// ModelLoader returns the trained model for the corpus a configuration points to.
type ModelLoader func(cfg types.Configuration) (*hmm.Model, error)

// Component is a configuration bound to its tagger. Scorer is nil unless the
// configuration asks for joint log-probabilities.
type Component struct {
	Config types.Configuration
	Tagger Tagger
	Scorer Scorer
}

// NewTagger selects the tagging algorithm by name.
func NewTagger(kind string, model *hmm.Model, seed int64) (Tagger, error) {
	switch kind {
	case types.HMMTagger:
		return model, nil
	case types.BaselineTagger:
		if seed == 0 {
			seed = baseline.DefaultSeed
		}
		return baseline.New(model.Counts, seed), nil
	}
	return nil, fmt.Errorf("%w %q", types.ErrUnknownTagger, kind)
}

// NewComponents loads one model per distinct corpus and binds every configuration to
// a tagger built from it.
func NewComponents(cfgs []types.Configuration, load ModelLoader) ([]Component, error) {
	fdlLogger := logger.NewLogger("Components")
	models := make(map[string]*hmm.Model)

	components := make([]Component, 0, len(cfgs))
	for _, cfg := range cfgs {
		cfgLogger := fdlLogger.With().Str("config_name", cfg.Name).Logger()

		model, ok := models[cfg.Corpus]
		if !ok {
			var err error
			model, err = load(cfg)
			if err != nil {
				return nil, fmt.Errorf("failed to load model for configuration %s: %w", cfg.Name, err)
			}
			models[cfg.Corpus] = model
			cfgLogger.Info().
				Int("tags", len(model.Tags())).
				Int("sentences", model.Counts.Sentences).
				Int("tokens", model.Counts.Tokens).
				Msg("Model trained")
		}

		tagger, err := NewTagger(cfg.Tagger, model, cfg.Seed)
		if err != nil {
			return nil, err
		}
		component := Component{Config: cfg, Tagger: tagger}
		if cfg.Score {
			if cfg.Tagger == types.HMMTagger {
				component.Scorer = model
			} else {
				cfgLogger.Warn().Msg("Scores are only produced by the hmm tagger, ignoring 'score'")
			}
		}
		components = append(components, component)
	}
	return components, nil
}

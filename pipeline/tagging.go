package pipeline

import (
	"sync"

	"text2phenotype.com/postag/logger"
	"text2phenotype.com/postag/types"
)

// NewTaggingStage tags every sentence in its own goroutine. A sentence that cannot be
// tagged keeps its index and carries the error message instead of tokens; a failed
// score only drops the score.
func NewTaggingStage(component Component) func(in <-chan types.Sentence, request Request) <-chan types.SentenceResult {
	stageLogger := logger.NewLogger("Tagging").With().Str("config_name", component.Config.Name).Logger()

	return func(in <-chan types.Sentence, request Request) <-chan types.SentenceResult {
		out := make(chan types.SentenceResult)
		sentLogger := stageLogger.With().Str("tid", request.Tid).Logger()

		go func() {
			defer close(out)
			var wg sync.WaitGroup
			for sent := range in {
				wg.Add(1)
				go func(sent types.Sentence) {
					defer wg.Done()
					res := types.SentenceResult{Index: sent.Index}

					tagged, err := component.Tagger.Tag(sent.Tokens)
					if err != nil {
						sentLogger.Err(err).Int("sentence", sent.Index).Msg("Could not tag sentence")
						res.Error = err.Error()
						out <- res
						return
					}
					res.Tokens = tagged

					if component.Scorer != nil {
						logProb, err := component.Scorer.JointLogProb(tagged)
						if err != nil {
							sentLogger.Warn().Err(err).Int("sentence", sent.Index).Msg("Dropping sentence score")
						} else {
							res.LogProb = &logProb
						}
					}
					out <- res
				}(sent)
			}
			wg.Wait()
		}()
		return out
	}
}

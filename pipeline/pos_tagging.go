package pipeline

import (
	"encoding/json"
	"errors"

	"text2phenotype.com/postag/logger"
	"text2phenotype.com/postag/types"
)

// PosTagging builds the tagging pipeline: text is split into sentences, every
// configuration tags its own copy of them concurrently and the per-configuration
// responses are merged into one JSON object.
func PosTagging(components []Component) (Pipeline, error) {
	fdlLogger := logger.NewLogger("POS tagging pipeline")
	if len(components) == 0 {
		return nil, errors.New("pipeline needs at least one configuration")
	}

	configs := make([]types.Configuration, len(components))
	for i, comp := range components {
		configs[i] = comp.Config
	}
	fdlLogger.Info().
		Interface("configurations", configs).
		Msg("Starting POS tagging pipeline (see parameters in 'configurations' field)")

	sentenceDetector := NewSentenceDetector()
	splitter := NewSentenceChannelSplitter(len(components))
	taggingResult := NewTaggingResult()
	stages := make([]func(in <-chan types.Sentence, request Request) <-chan types.SentenceResult, len(components))
	for i, comp := range components {
		stages[i] = NewTaggingStage(comp)
	}

	return func(request Request) <-chan string {
		responseChan := make(chan string, 1)
		pplnLog := fdlLogger.With().Str("tid", request.Tid).Logger()
		pplnLog.Info().Msg("Started POS tagging pipeline")

		go func() {
			var in = make(chan string)
			sd := sentenceDetector(in)
			split := splitter(sd)

			resultChannel := make(chan Result)
			for i, comp := range components {
				tagged := stages[i](split[i], request)
				connect(taggingResult(tagged, comp.Config, request), resultChannel)
			}

			in <- request.Text
			close(in)

			response := make(map[string]interface{}, len(components))
			for i := 0; i < len(components); i++ {
				res := <-resultChannel
				pplnLog.Info().
					Str("config_name", res.ConfigName).
					Msg("Finished pipeline for configuration")
				response[res.ConfigName] = res.Data
			}

			buf, err := json.Marshal(response)
			if err != nil {
				pplnLog.Err(err).Caller().Msg("Failed to marshall response")
			}
			pplnLog.Info().Msg("Finished POS tagging pipeline")
			responseChan <- string(buf)
		}()
		return responseChan
	}, nil
}

func connect(from <-chan Result, to chan<- Result) {
	go func() {
		for v := range from {
			to <- v
		}
	}()
}

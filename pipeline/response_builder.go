package pipeline

import (
	"sort"

	"text2phenotype.com/postag/types"
)

type Result struct {
	ConfigName string
	Data       interface{}
}

// NewTaggingResult collects the results of one configuration in sentence order.
func NewTaggingResult() func(in <-chan types.SentenceResult, cfg types.Configuration, request Request) <-chan Result {
	return func(in <-chan types.SentenceResult, cfg types.Configuration, request Request) <-chan Result {
		out := make(chan Result)
		go func() {
			defer close(out)

			response := types.TaggingResponse{
				DocId:     request.Tid,
				Tagger:    cfg.Tagger,
				Sentences: []types.SentenceResult{},
			}
			for res := range in {
				response.Sentences = append(response.Sentences, res)
			}
			sort.Slice(response.Sentences, func(i, j int) bool {
				return response.Sentences[i].Index < response.Sentences[j].Index
			})

			out <- Result{
				ConfigName: cfg.Name,
				Data:       response,
			}
		}()
		return out
	}
}

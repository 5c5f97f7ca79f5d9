package pipeline

import (
	"strings"
	"sync"

	"text2phenotype.com/postag/types"
)

// NewSentenceDetector emits one sentence per non-blank line, tokenized on whitespace.
func NewSentenceDetector() func(in <-chan string) <-chan types.Sentence {
	return func(in <-chan string) <-chan types.Sentence {
		out := make(chan types.Sentence)
		go func() {
			defer close(out)
			index := 0
			for text := range in {
				for _, line := range strings.Split(text, "\n") {
					tokens := strings.Fields(line)
					if len(tokens) == 0 {
						continue
					}
					out <- types.Sentence{Index: index, Tokens: tokens}
					index++
				}
			}
		}()
		return out
	}
}

// NewSentenceChannelSplitter copies every sentence to n output channels.
func NewSentenceChannelSplitter(n int) func(in <-chan types.Sentence) []chan types.Sentence {
	return func(in <-chan types.Sentence) []chan types.Sentence {
		outs := make([]chan types.Sentence, n)
		for i := 0; i < n; i++ {
			outs[i] = make(chan types.Sentence)
		}

		go func() {
			defer closeAllChannels(outs)
			var wg sync.WaitGroup

			for sent := range in {
				wg.Add(1)
				go func(sent types.Sentence) {
					defer wg.Done()
					for _, out := range outs {
						out <- sent
					}
				}(sent)
			}

			wg.Wait()
		}()
		return outs
	}
}

func closeAllChannels(outs []chan types.Sentence) {
	for _, out := range outs {
		close(out)
	}
}

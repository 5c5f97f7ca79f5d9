package corpus

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"text2phenotype.com/postag/types"
)

var ErrMalformedLine = errors.New("corpus: line is not a word/tag pair")

// Stream parses an annotated corpus: one "word<TAB>tag" pair per line, sentences
// separated by blank lines. Sentences are sent in file order; the error channel
// receives at most one error and is closed after the sentence channel.
func Stream(r io.Reader) (<-chan types.TaggedSentence, <-chan error) {
	out := make(chan types.TaggedSentence)
	errCh := make(chan error, 1)

	go func() {
		defer close(errCh)
		defer close(out)

		reader := bufio.NewReader(r)
		var sentence types.TaggedSentence
		lineNo := 0
		for {
			line, err := reader.ReadString('\n')
			if len(line) == 0 && err != nil {
				if err != io.EOF {
					errCh <- err
					return
				}
				break
			}
			lineNo++

			line = strings.TrimRight(line, "\r\n")
			if strings.TrimSpace(line) == "" {
				if len(sentence) > 0 {
					out <- sentence
					sentence = nil
				}
				continue
			}

			tw, parseErr := parseLine(line)
			if parseErr != nil {
				errCh <- fmt.Errorf("%w: line %d: %q", parseErr, lineNo, line)
				return
			}
			sentence = append(sentence, tw)
		}
		if len(sentence) > 0 {
			out <- sentence
		}
	}()

	return out, errCh
}

func parseLine(line string) (types.TaggedWord, error) {
	cols := strings.Split(line, "\t")
	if len(cols) != 2 {
		cols = strings.Fields(line)
	}
	if len(cols) != 2 || cols[0] == "" || cols[1] == "" {
		return types.TaggedWord{}, ErrMalformedLine
	}
	return types.TaggedWord{Word: cols[0], Tag: strings.TrimSpace(cols[1])}, nil
}

func Read(r io.Reader) ([]types.TaggedSentence, error) {
	sentences, errCh := Stream(r)
	var res []types.TaggedSentence
	for sent := range sentences {
		res = append(res, sent)
	}
	if err := <-errCh; err != nil {
		return nil, err
	}
	return res, nil
}

func Parse(data []byte) ([]types.TaggedSentence, error) {
	return Read(bytes.NewReader(data))
}

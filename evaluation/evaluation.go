package evaluation

import (
	"errors"
	"fmt"

	"text2phenotype.com/postag/types"
)

var ErrLengthMismatch = errors.New("evaluation: gold and predicted sentences differ in length")

// Vocabulary tells whether a word was seen in training. *hmm.Model satisfies it.
type Vocabulary interface {
	Known(word string) bool
}

type Result struct {
	Correct    int `json:"correct"`
	CorrectOOV int `json:"correct_oov"`
	OOV        int `json:"oov"`
}

// CountCorrect compares predicted tags with gold tags position by position.
// OOV counts every gold word absent from vocab, whether it was tagged correctly or not.
func CountCorrect(gold types.TaggedSentence, predicted types.TaggedSentence, vocab Vocabulary) (Result, error) {
	var res Result
	if len(gold) != len(predicted) {
		return res, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(gold), len(predicted))
	}

	for i, g := range gold {
		oov := !vocab.Known(g.Word)
		if oov {
			res.OOV++
		}
		if g.Tag != predicted[i].Tag {
			continue
		}
		res.Correct++
		if oov {
			res.CorrectOOV++
		}
	}
	return res, nil
}

package evaluation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"text2phenotype.com/postag/hmm"
	"text2phenotype.com/postag/types"
)

type vocabulary map[string]bool

func (v vocabulary) Known(word string) bool {
	return v[word]
}

func sentence(pairs ...string) types.TaggedSentence {
	res := make(types.TaggedSentence, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		res = append(res, types.TaggedWord{Word: pairs[i], Tag: pairs[i+1]})
	}
	return res
}

func TestCountCorrectIdentical(t *testing.T) {
	vocab := vocabulary{"the": true, "dog": true, "runs": true}
	gold := sentence("the", "DET", "dog", "NOUN", "runs", "VERB")

	res, err := CountCorrect(gold, gold, vocab)
	require.NoError(t, err)
	assert.Equal(t, Result{Correct: 3}, res)
}

func TestCountCorrectOOV(t *testing.T) {
	vocab := vocabulary{"the": true, "runs": true}
	gold := sentence("the", "DET", "cat", "NOUN", "runs", "VERB")

	mistagged := sentence("the", "DET", "cat", "DET", "runs", "VERB")
	res, err := CountCorrect(gold, mistagged, vocab)
	require.NoError(t, err)
	assert.Equal(t, Result{Correct: 2, CorrectOOV: 0, OOV: 1}, res)

	res, err = CountCorrect(gold, gold, vocab)
	require.NoError(t, err)
	assert.Equal(t, Result{Correct: 3, CorrectOOV: 1, OOV: 1}, res)
}

func TestCountCorrectLengthMismatch(t *testing.T) {
	gold := sentence("the", "DET", "dog", "NOUN")
	_, err := CountCorrect(gold, gold[:1], vocabulary{})
	assert.True(t, errors.Is(err, ErrLengthMismatch))
}

func TestCountCorrectWithDecodedSentence(t *testing.T) {
	model, err := hmm.Train([]types.TaggedSentence{
		sentence("the", "DET", "dog", "NOUN", "runs", "VERB"),
	})
	require.NoError(t, err)

	gold := sentence("the", "DET", "cat", "NOUN", "runs", "VERB")
	predicted, err := model.Decode(gold.Words())
	require.NoError(t, err)

	res, err := CountCorrect(gold, predicted, model)
	require.NoError(t, err)
	assert.Equal(t, 1, res.OOV)
	assert.GreaterOrEqual(t, res.Correct, 2)
	assert.LessOrEqual(t, res.CorrectOOV, 1)
}

func TestReport(t *testing.T) {
	vocab := vocabulary{"the": true, "dog": true}
	var report Report

	gold := sentence("the", "DET", "dog", "NOUN")
	require.NoError(t, report.Add(gold, gold, vocab))

	gold = sentence("the", "DET", "cat", "NOUN")
	require.NoError(t, report.Add(gold, sentence("the", "DET", "cat", "VERB"), vocab))

	assert.Error(t, report.Add(gold, gold[:1], vocab))

	assert.Equal(t, 2, report.Sentences)
	assert.Equal(t, 4, report.Tokens)
	assert.Equal(t, 1, report.Failed)
	assert.InDelta(t, 0.75, report.Accuracy(), 1e-9)
	assert.InDelta(t, 0.0, report.OOVAccuracy(), 1e-9)
}

func TestEvaluate(t *testing.T) {
	train := []types.TaggedSentence{
		sentence("the", "DET", "dog", "NOUN", "runs", "VERB"),
		sentence("a", "DET", "cat", "NOUN", "sleeps", "VERB"),
	}
	model, err := hmm.Train(train)
	require.NoError(t, err)

	test := []types.TaggedSentence{
		sentence("the", "DET", "cat", "NOUN", "runs", "VERB"),
		sentence("a", "DET", "dog", "NOUN", "sleeps", "VERB"),
		{},
	}
	report := Evaluate(model, model, test)

	assert.Equal(t, 2, report.Sentences)
	assert.Equal(t, 6, report.Tokens)
	assert.Equal(t, 6, report.Correct)
	assert.Equal(t, 0, report.OOV)
	assert.Equal(t, 1, report.Failed)
	assert.InDelta(t, 1.0, report.Accuracy(), 1e-9)
}

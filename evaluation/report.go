package evaluation

import "text2phenotype.com/postag/types"

type Report struct {
	Result
	Sentences int `json:"sentences"`
	Tokens    int `json:"tokens"`
	Failed    int `json:"failed"`
}

func (r *Report) Add(gold types.TaggedSentence, predicted types.TaggedSentence, vocab Vocabulary) error {
	res, err := CountCorrect(gold, predicted, vocab)
	if err != nil {
		r.Failed++
		return err
	}
	r.Sentences++
	r.Tokens += len(gold)
	r.Correct += res.Correct
	r.CorrectOOV += res.CorrectOOV
	r.OOV += res.OOV
	return nil
}

func (r Report) Accuracy() float64 {
	if r.Tokens == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Tokens)
}

func (r Report) OOVAccuracy() float64 {
	if r.OOV == 0 {
		return 0
	}
	return float64(r.CorrectOOV) / float64(r.OOV)
}

type Tagger interface {
	Tag(tokens []string) (types.TaggedSentence, error)
}

// Evaluate tags the words of every gold sentence in order and accumulates the
// comparison. Sentences the tagger rejects are counted as failed.
func Evaluate(tagger Tagger, vocab Vocabulary, gold []types.TaggedSentence) Report {
	var report Report
	for _, sent := range gold {
		predicted, err := tagger.Tag(sent.Words())
		if err != nil {
			report.Failed++
			continue
		}
		_ = report.Add(sent, predicted, vocab)
	}
	return report
}

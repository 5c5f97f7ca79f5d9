package hmm

import (
	"fmt"
	"math"

	"text2phenotype.com/postag/types"
)

// JointLogProb returns log P(words, tags) of the sentence under the model, framed by
// the Start and End pseudo-tags. Words never seen in training are scored as Unknown.
// A result that is not finite and strictly negative means the tables are inconsistent
// and is reported as ErrProbabilityContract.
func (m *Model) JointLogProb(sentence types.TaggedSentence) (float64, error) {
	if len(sentence) == 0 {
		return 0, ErrEmptySentence
	}

	p := 0.0
	prev := Start
	for _, tw := range sentence {
		p += m.Transitions.LogProb(prev, tw.Tag)
		p += m.Emissions.LogProb(tw.Tag, m.observation(tw.Word))
		prev = tw.Tag
	}
	p += m.Transitions.LogProb(prev, End)

	if math.IsNaN(p) || math.IsInf(p, 0) || p >= 0 {
		return p, fmt.Errorf("%w: got %v", ErrProbabilityContract, p)
	}
	return p, nil
}

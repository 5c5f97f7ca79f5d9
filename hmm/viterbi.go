package hmm

import (
	"math"

	"text2phenotype.com/postag/types"
)

const startPointer = -1

// trellis is the working state of a single Decode call. Cells are indexed by
// (position, tag index); unreachable cells keep a -Inf score.
type trellis struct {
	scores [][]float64
	back   [][]int

	endScore float64
	endBack  int
}

func newTrellis(positions int, tags int) *trellis {
	t := trellis{
		scores:   make([][]float64, positions),
		back:     make([][]int, positions),
		endScore: math.Inf(-1),
		endBack:  startPointer,
	}
	negInf := math.Inf(-1)
	for pos := 0; pos < positions; pos++ {
		t.scores[pos] = make([]float64, tags)
		t.back[pos] = make([]int, tags)
		for tag := 0; tag < tags; tag++ {
			t.scores[pos][tag] = negInf
			t.back[pos][tag] = startPointer
		}
	}
	return &t
}

// bestPredecessor scans the reachable cells of column pos in ascending tag order and
// returns the maximal score + transition into next. On ties the lowest tag index wins.
// A negative index means no cell of the column is reachable.
func (m *Model) bestPredecessor(t *trellis, pos int, next string) (float64, int) {
	best := math.Inf(-1)
	from := startPointer
	for prev, score := range t.scores[pos] {
		if math.IsInf(score, -1) {
			continue
		}
		candidate := score + m.Transitions.LogProb(m.Counts.Tags[prev], next)
		if from == startPointer || candidate > best {
			best = candidate
			from = prev
		}
	}
	return best, from
}

// Decode returns the most probable tag sequence for tokens.
//
// Tokens never seen in training are decoded as Unknown and may take any tag; known
// tokens only consider the tags they were observed with. The returned sentence has
// exactly one tag per input token and never contains pseudo-tags.
func (m *Model) Decode(tokens []string) (types.TaggedSentence, error) {
	if len(tokens) == 0 {
		return nil, ErrEmptySentence
	}

	n := len(tokens)
	t := newTrellis(n, len(m.Counts.Tags))

	for pos, token := range tokens {
		observation := m.observation(token)
		for _, idx := range m.tagsFor(observation) {
			tag := m.Counts.Tags[idx]
			emission := m.Emissions.LogProb(tag, observation)

			if pos == 0 {
				t.scores[0][idx] = m.Transitions.LogProb(Start, tag) + emission
				continue
			}

			best, from := m.bestPredecessor(t, pos-1, tag)
			if from == startPointer {
				continue
			}
			t.scores[pos][idx] = best + emission
			t.back[pos][idx] = from
		}
	}

	t.endScore, t.endBack = m.bestPredecessor(t, n-1, End)
	if t.endBack == startPointer || math.IsInf(t.endScore, -1) {
		return nil, ErrNoPath
	}

	tags := make([]string, n)
	idx := t.endBack
	for pos := n - 1; pos >= 0; pos-- {
		tags[pos] = m.Counts.Tags[idx]
		idx = t.back[pos][idx]
	}
	return types.Zip(tokens, tags), nil
}

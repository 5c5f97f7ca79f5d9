package hmm

import (
	"fmt"
	"math"

	"text2phenotype.com/postag/types"
)

// Train accumulates counts over the corpus and estimates the model from them.
func Train(sentences []types.TaggedSentence) (*Model, error) {
	return Estimate(Accumulate(sentences))
}

// Estimate converts raw counts into log-space transition and emission tables.
//
// Rows keyed by Start or End are normalized by the number of sentences, every other
// row by the frequency of its tag. A tag with zero frequency yields -Inf (impossible)
// rather than a fake log value of 0.
func Estimate(counts Counts) (*Model, error) {
	if counts.Sentences == 0 || counts.Tokens == 0 {
		return nil, ErrEmptyCorpus
	}

	transitions := make(TransitionTable, len(counts.Transitions))
	for prev, row := range counts.Transitions {
		denom := counts.TagFrequency[prev]
		if isBoundary(prev) {
			denom = counts.Sentences
		}
		logRow := make(map[string]float64, len(row))
		for next, count := range row {
			logRow[next] = logRatio(count, denom)
		}
		transitions[prev] = logRow
	}

	emissions := make(EmissionTable, len(counts.Emissions))
	for tag, row := range counts.Emissions {
		denom := counts.TagFrequency[tag]
		unknown := logRatio(denom, counts.Tokens)
		if isBoundary(tag) {
			denom = counts.Sentences
			unknown = math.Inf(-1)
		}
		words := make(map[string]float64, len(row))
		for word, count := range row {
			words[word] = logRatio(count, denom)
		}
		emissions[tag] = EmissionRow{Words: words, Unknown: unknown}
	}

	m := &Model{
		Counts:      counts,
		Transitions: transitions,
		Emissions:   emissions,
		candidates:  make(map[string][]int, len(counts.WordTags)),
		allTags:     make([]int, len(counts.Tags)),
	}
	for i, tag := range counts.Tags {
		if isBoundary(tag) || tag == Unknown {
			return nil, fmt.Errorf("hmm: reserved tag %q found in corpus", tag)
		}
		m.allTags[i] = i
	}
	for word, tags := range counts.WordTags {
		idx := make([]int, 0, len(tags))
		for i, tag := range counts.Tags {
			if tags[tag] > 0 {
				idx = append(idx, i)
			}
		}
		m.candidates[word] = idx
	}
	return m, nil
}

func logRatio(count int, total int) float64 {
	if count <= 0 || total <= 0 {
		return math.Inf(-1)
	}
	return math.Log(float64(count) / float64(total))
}

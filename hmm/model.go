package hmm

import (
	"math"

	"text2phenotype.com/postag/types"
)

// TransitionTable maps previous tag -> next tag -> log P(next | previous).
type TransitionTable map[string]map[string]float64

// LogProb returns the stored log-probability of prev -> next. A pair never observed
// falls back to a uniform probability over the successors actually observed after prev.
func (a TransitionTable) LogProb(prev string, next string) float64 {
	row := a[prev]
	if p, ok := row[next]; ok {
		return p
	}
	return uniform(len(row))
}

type EmissionRow struct {
	Words map[string]float64
	// Unknown is log(freq(tag) / tokens), used for words never seen in training.
	Unknown float64
}

// EmissionTable maps tag -> emission row.
type EmissionTable map[string]EmissionRow

// LogProb returns log P(word | tag). Unknown resolves to the row's unknown-word value;
// a word the tag never emitted falls back to a uniform probability over the tag's
// observed words. Tags outside the table are impossible.
func (b EmissionTable) LogProb(tag string, word string) float64 {
	row, ok := b[tag]
	if !ok {
		return math.Inf(-1)
	}
	if word == Unknown {
		return row.Unknown
	}
	if p, ok := row.Words[word]; ok {
		return p
	}
	return uniform(len(row.Words))
}

func uniform(n int) float64 {
	if n == 0 {
		return math.Inf(-1)
	}
	return -math.Log(float64(n))
}

// Model is a trained HMM. It is never modified after Estimate returns and may be
// shared by any number of concurrent Decode and JointLogProb calls.
type Model struct {
	Counts      Counts
	Transitions TransitionTable
	Emissions   EmissionTable

	candidates map[string][]int
	allTags    []int
}

func (m *Model) Tags() []string {
	return m.Counts.Tags
}

// Known reports whether word occurred in the training corpus.
func (m *Model) Known(word string) bool {
	_, ok := m.Counts.WordTags[word]
	return ok
}

// Tag is Decode under the name shared by every tagger.
func (m *Model) Tag(tokens []string) (types.TaggedSentence, error) {
	return m.Decode(tokens)
}

func (m *Model) observation(word string) string {
	if m.Known(word) {
		return word
	}
	return Unknown
}

// tagsFor returns tag indexes allowed at a position holding the given observation,
// in ascending index order.
func (m *Model) tagsFor(observation string) []int {
	if observation == Unknown {
		return m.allTags
	}
	return m.candidates[observation]
}

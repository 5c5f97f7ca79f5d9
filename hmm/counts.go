package hmm

import "text2phenotype.com/postag/types"

const (
	Start   = "<DUMMY_START_TAG>"
	End     = "<DUMMY_END_TAG>"
	Unknown = "<UNKNOWN>"
)

func isBoundary(tag string) bool {
	return tag == Start || tag == End
}

// Counts holds the raw frequencies observed in a training corpus.
// TagFrequency and WordTags never contain pseudo-tags; Transitions has Start as a
// previous tag and End as a next tag; Emissions has Start/End self-emission rows.
type Counts struct {
	Tags         []string                  `json:"tags"`
	TagFrequency map[string]int            `json:"tag_frequency"`
	WordTags     map[string]map[string]int `json:"word_tags"`
	Transitions  map[string]map[string]int `json:"transitions"`
	Emissions    map[string]map[string]int `json:"emissions"`
	Sentences    int                       `json:"sentences"`
	Tokens       int                       `json:"tokens"`
}

type Accumulator struct {
	counts Counts
}

func NewAccumulator() *Accumulator {
	return &Accumulator{
		counts: Counts{
			TagFrequency: make(map[string]int),
			WordTags:     make(map[string]map[string]int),
			Transitions:  make(map[string]map[string]int),
			Emissions:    make(map[string]map[string]int),
		},
	}
}

func (acc *Accumulator) Add(sentence types.TaggedSentence) {
	if len(sentence) == 0 {
		return
	}
	c := &acc.counts
	c.Sentences++

	prev := Start
	for _, tw := range sentence {
		c.Tokens++
		if _, seen := c.TagFrequency[tw.Tag]; !seen {
			c.Tags = append(c.Tags, tw.Tag)
		}
		c.TagFrequency[tw.Tag]++
		increment(c.WordTags, tw.Word, tw.Tag)
		increment(c.Transitions, prev, tw.Tag)
		increment(c.Emissions, tw.Tag, tw.Word)
		prev = tw.Tag
	}
	increment(c.Transitions, prev, End)
}

// Counts returns the accumulated frequencies with the boundary self-emissions filled in.
// The result shares storage with the accumulator, so stop adding sentences before using it.
func (acc *Accumulator) Counts() Counts {
	res := acc.counts
	res.Emissions = make(map[string]map[string]int, len(acc.counts.Emissions)+2)
	for tag, row := range acc.counts.Emissions {
		res.Emissions[tag] = row
	}
	res.Emissions[Start] = map[string]int{Start: res.Sentences}
	res.Emissions[End] = map[string]int{End: res.Sentences}
	return res
}

func Accumulate(sentences []types.TaggedSentence) Counts {
	acc := NewAccumulator()
	for _, sent := range sentences {
		acc.Add(sent)
	}
	return acc.Counts()
}

func AccumulateChannel(in <-chan types.TaggedSentence) Counts {
	acc := NewAccumulator()
	for sent := range in {
		acc.Add(sent)
	}
	return acc.Counts()
}

func increment(table map[string]map[string]int, outer string, inner string) {
	row, ok := table[outer]
	if !ok {
		row = make(map[string]int)
		table[outer] = row
	}
	row[inner]++
}

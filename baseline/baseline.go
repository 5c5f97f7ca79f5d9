package baseline

import (
	"math/rand"
	"sort"
	"sync"

	"text2phenotype.com/postag/hmm"
	"text2phenotype.com/postag/types"
)

const DefaultSeed int64 = 1512021

// Tagger assigns each known word its most frequent training tag and samples a tag for
// unknown words from the overall tag distribution.
type Tagger struct {
	best       map[string]string
	tags       []string
	cumulative []int
	total      int

	mu  sync.Mutex
	rnd *rand.Rand
}

func New(counts hmm.Counts, seed int64) *Tagger {
	tagger := Tagger{
		best:       make(map[string]string, len(counts.WordTags)),
		tags:       counts.Tags,
		cumulative: make([]int, len(counts.Tags)),
		rnd:        rand.New(rand.NewSource(seed)),
	}

	for i, tag := range counts.Tags {
		tagger.total += counts.TagFrequency[tag]
		tagger.cumulative[i] = tagger.total
	}

	for word, freq := range counts.WordTags {
		bestCount := 0
		for _, tag := range counts.Tags {
			if freq[tag] > bestCount {
				bestCount = freq[tag]
				tagger.best[word] = tag
			}
		}
	}
	return &tagger
}

func (t *Tagger) Tag(tokens []string) (types.TaggedSentence, error) {
	if len(tokens) == 0 {
		return nil, hmm.ErrEmptySentence
	}

	res := make(types.TaggedSentence, len(tokens))
	for i, word := range tokens {
		tag, ok := t.best[word]
		if !ok {
			tag = t.sample()
		}
		res[i] = types.TaggedWord{Word: word, Tag: tag}
	}
	return res, nil
}

func (t *Tagger) Known(word string) bool {
	_, ok := t.best[word]
	return ok
}

func (t *Tagger) sample() string {
	if t.total == 0 {
		return ""
	}
	t.mu.Lock()
	n := t.rnd.Intn(t.total)
	t.mu.Unlock()
	return t.tags[sort.SearchInts(t.cumulative, n+1)]
}

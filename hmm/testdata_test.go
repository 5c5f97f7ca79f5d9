package hmm

import (
	"strings"

	"text2phenotype.com/postag/types"
)

// parse builds a sentence from "word/TAG" pairs separated by spaces.
func parse(s string) types.TaggedSentence {
	fields := strings.Fields(s)
	sent := make(types.TaggedSentence, len(fields))
	for i, f := range fields {
		idx := strings.LastIndex(f, "/")
		sent[i] = types.TaggedWord{Word: f[:idx], Tag: f[idx+1:]}
	}
	return sent
}

func corpus(lines ...string) []types.TaggedSentence {
	res := make([]types.TaggedSentence, len(lines))
	for i, l := range lines {
		res[i] = parse(l)
	}
	return res
}

var smallCorpus = corpus(
	"the/DET dog/NOUN runs/VERB",
	"the/DET cat/NOUN sleeps/VERB",
	"a/DET dog/NOUN barks/VERB loudly/ADV",
	"dogs/NOUN run/VERB",
	"the/DET run/NOUN ends/VERB",
	"I/PRON run/VERB fast/ADV",
)

package types

type TaggedWord struct {
	Word string `json:"word"`
	Tag  string `json:"tag"`
}

type TaggedSentence []TaggedWord

func (sent TaggedSentence) Words() []string {
	words := make([]string, len(sent))
	for i, tw := range sent {
		words[i] = tw.Word
	}
	return words
}

func (sent TaggedSentence) Tags() []string {
	tags := make([]string, len(sent))
	for i, tw := range sent {
		tags[i] = tw.Tag
	}
	return tags
}

// Zip pairs words with tags. Both slices must have the same length.
func Zip(words []string, tags []string) TaggedSentence {
	sent := make(TaggedSentence, len(words))
	for i := range words {
		sent[i] = TaggedWord{Word: words[i], Tag: tags[i]}
	}
	return sent
}

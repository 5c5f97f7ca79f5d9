package types

// Sentence is one line of request text split on whitespace. Index is the position of
// the sentence in the request and is used to restore order after concurrent stages.
type Sentence struct {
	Index  int
	Tokens []string
}

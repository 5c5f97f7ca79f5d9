package types

type SentenceResult struct {
	Index   int            `json:"index"`
	Tokens  TaggedSentence `json:"tokens"`
	LogProb *float64       `json:"log_prob,omitempty"`
	Error   string         `json:"error,omitempty"`
}

type TaggingResponse struct {
	DocId     string           `json:"docId"`
	Tagger    string           `json:"tagger"`
	Sentences []SentenceResult `json:"sentences"`
}

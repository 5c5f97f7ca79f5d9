package hmm

import "errors"

var (
	ErrEmptyCorpus         = errors.New("hmm: corpus has no tagged tokens")
	ErrEmptySentence       = errors.New("hmm: sentence is empty")
	ErrNoPath              = errors.New("hmm: no tag sequence reaches the end of the sentence")
	ErrProbabilityContract = errors.New("hmm: joint log-probability must be finite and negative")
)

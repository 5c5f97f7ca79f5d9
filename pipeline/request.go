package pipeline

type Request struct {
	Text string `json:"text"`
	Tid  string `json:"tid"`
}

// Pipeline tags the request text and sends a single JSON document on the returned
// channel: an object keyed by configuration name.
type Pipeline func(request Request) <-chan string

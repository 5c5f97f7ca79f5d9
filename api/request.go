package api

import (
	"fmt"
	"io"
	"net/http"

	"text2phenotype.com/postag/pipeline"
	"text2phenotype.com/postag/utils"
)

// maxBodySize bounds the text accepted in one request.
const maxBodySize = 10 << 20

type Request struct {
	Pipeline pipeline.Pipeline
}

// Routes serves the tagging endpoint on "/" and a liveness probe on "/healthz".
func (req *Request) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", req.ProcessData)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// ProcessData tags the raw text of a POST body. The "tid" query parameter names the
// request in logs and in the response; without it one is derived from the text.
func (req *Request) ProcessData(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	logger := makeRequestLogger(r)

	if r.Method != http.MethodPost {
		logger.Warn().Int("status", http.StatusMethodNotAllowed).Msg("Only 'POST' method is allowed here")
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}

	msg, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		logger.Err(err).Int("status", http.StatusBadRequest).Msg("Could not read request body")
		http.Error(w, "", http.StatusBadRequest)
		return
	}

	request := pipeline.Request{
		Tid:  r.URL.Query().Get("tid"),
		Text: string(msg),
	}
	if request.Tid == "" {
		request.Tid = fmt.Sprintf("api-%016x", utils.HashBytes(msg))
	}

	logger.Info().Str("tid", request.Tid).Msg("Starting pipeline for request from API")
	resp, ok := <-req.Pipeline(request)
	if !ok {
		logger.Error().Str("tid", request.Tid).Int("status", http.StatusInternalServerError).Msg("Pipeline returned nothing")
		http.Error(w, "", http.StatusInternalServerError)
		return
	}
	_, _ = w.Write([]byte(resp))
	logger.Info().Int("status", http.StatusOK).Msg("Finished processing request")
}

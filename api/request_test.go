package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"text2phenotype.com/postag/hmm"
	"text2phenotype.com/postag/pipeline"
	"text2phenotype.com/postag/types"
)

func newTestServer(t *testing.T) *httptest.Server {
	model, err := hmm.Train([]types.TaggedSentence{
		types.Zip([]string{"the", "dog", "runs"}, []string{"DET", "NOUN", "VERB"}),
	})
	require.NoError(t, err)

	ppln, err := pipeline.PosTagging([]pipeline.Component{{
		Config: types.Configuration{Name: "hmm", Tagger: types.HMMTagger},
		Tagger: model,
	}})
	require.NoError(t, err)

	server := httptest.NewServer((&Request{Pipeline: ppln}).Routes())
	t.Cleanup(server.Close)
	return server
}

func TestProcessData(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Post(server.URL+"/?tid=req-1", "text/plain", strings.NewReader("the dog runs"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body strings.Builder
	_, err = io.Copy(&body, resp.Body)
	require.NoError(t, err)

	expected := `{"hmm": {"docId": "req-1", "tagger": "hmm", "sentences": [
		{"index": 0, "tokens": [
			{"word": "the", "tag": "DET"}, {"word": "dog", "tag": "NOUN"}, {"word": "runs", "tag": "VERB"}]}
	]}}`
	assert.True(t, jsonpatch.Equal([]byte(expected), []byte(body.String())), "unexpected response: %s", body.String())
}

func TestProcessDataRejectsGet(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

package corpus

import (
	"errors"
	"os"
	"path"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"text2phenotype.com/postag/types"
)

func TestRead(t *testing.T) {
	text := "The\tDET\ndog\tNOUN\r\nbarks\tVERB\n\n\n\nI PRON\nrun\tVERB"

	got, err := Read(strings.NewReader(text))
	require.NoError(t, err)

	expected := []types.TaggedSentence{
		types.Zip([]string{"The", "dog", "barks"}, []string{"DET", "NOUN", "VERB"}),
		types.Zip([]string{"I", "run"}, []string{"PRON", "VERB"}),
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("unexpected sentences (-expected +got):\n%s", diff)
	}
}

func TestReadKeepsPunctuationWords(t *testing.T) {
	got, err := Parse([]byte(",\t,\n.\t.\n"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{",", "."}, got[0].Words())
}

func TestReadMalformedLine(t *testing.T) {
	_, err := Parse([]byte("the\tDET\nlonely\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedLine))
	assert.Contains(t, err.Error(), "line 2")

	_, err = Parse([]byte("a\tb\tc\n"))
	assert.True(t, errors.Is(err, ErrMalformedLine))
}

func TestReadEmpty(t *testing.T) {
	got, err := Parse([]byte("\n \n"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStreamStopsAtError(t *testing.T) {
	sentences, errCh := Stream(strings.NewReader("a\tDET\n\nbroken\n\nb\tDET\n"))

	var got []types.TaggedSentence
	for sent := range sentences {
		got = append(got, sent)
	}
	assert.Len(t, got, 1)
	assert.True(t, errors.Is(<-errCh, ErrMalformedLine))
}

type fakeDownloader struct {
	bucket string
	key    string
	data   []byte
}

func (d *fakeDownloader) DownloadObject(bucket string, key string) ([]byte, error) {
	d.bucket = bucket
	d.key = key
	return d.data, nil
}

func TestFetch(t *testing.T) {
	local := path.Join(t.TempDir(), "train.tsv")
	require.NoError(t, os.WriteFile(local, []byte("a\tDET\n"), 0o644))

	data, err := Fetch(local, nil)
	require.NoError(t, err)
	assert.Equal(t, "a\tDET\n", string(data))

	downloader := &fakeDownloader{data: []byte("b\tNOUN\n")}
	data, err = Fetch("s3://corpora/brown/train.tsv", downloader)
	require.NoError(t, err)
	assert.Equal(t, "b\tNOUN\n", string(data))
	assert.Equal(t, "corpora", downloader.bucket)
	assert.Equal(t, "brown/train.tsv", downloader.key)

	_, err = Fetch("s3://corpora/train.tsv", nil)
	assert.Error(t, err)
}

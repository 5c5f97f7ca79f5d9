package modelstore

import (
	"encoding/json"
	"errors"
	"os"
	"path"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"text2phenotype.com/postag/hmm"
	"text2phenotype.com/postag/redis"
)

const trainingCorpus = "the\tDET\ndog\tNOUN\nruns\tVERB\n\na\tDET\ncat\tNOUN\nsleeps\tVERB\n"

type memoryCache struct {
	values map[string][]byte
	gets   int
	sets   int
	setErr error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: make(map[string][]byte)}
}

func (c *memoryCache) Get(key string) ([]byte, error) {
	c.gets++
	v, ok := c.values[key]
	if !ok {
		return nil, redis.ErrNotFound
	}
	return v, nil
}

func (c *memoryCache) Set(key string, value []byte) error {
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	c.values[key] = value
	return nil
}

func TestKey(t *testing.T) {
	a := Key([]byte(trainingCorpus))
	assert.Equal(t, a, Key([]byte(trainingCorpus)))
	assert.NotEqual(t, a, Key([]byte(trainingCorpus+"\n")))
	assert.Regexp(t, `^postag:counts:[0-9a-f]{16}$`, a)
}

func TestCountCorpus(t *testing.T) {
	counts, err := CountCorpus([]byte(trainingCorpus))
	require.NoError(t, err)
	assert.Equal(t, 2, counts.Sentences)
	assert.Equal(t, 6, counts.Tokens)
	assert.Equal(t, []string{"DET", "NOUN", "VERB"}, counts.Tags)

	_, err = CountCorpus([]byte("the DET extra\n"))
	assert.Error(t, err)
}

func TestStoreCachesCounts(t *testing.T) {
	cache := newMemoryCache()
	store := New(cache)

	first, err := store.Counts([]byte(trainingCorpus))
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
	require.Contains(t, cache.values, Key([]byte(trainingCorpus)))

	second, err := store.Counts([]byte(trainingCorpus))
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 2, cache.gets)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("cached counts differ (-counted +cached):\n%s", diff)
	}
}

func TestStoreUsesCachedCountsWithoutParsing(t *testing.T) {
	counts, err := CountCorpus([]byte(trainingCorpus))
	require.NoError(t, err)
	raw, err := json.Marshal(counts)
	require.NoError(t, err)

	// not a valid corpus, so only a cache hit can produce a model
	data := []byte("not\ta\tcorpus\n")
	cache := newMemoryCache()
	cache.values[Key(data)] = raw

	model, err := New(cache).Model(data)
	require.NoError(t, err)
	tagged, err := model.Decode([]string{"the", "dog", "runs"})
	require.NoError(t, err)
	assert.Equal(t, []string{"DET", "NOUN", "VERB"}, tagged.Tags())
}

func TestStoreIgnoresCacheFailures(t *testing.T) {
	cache := newMemoryCache()
	cache.setErr = errors.New("read only")
	cache.values[Key([]byte(trainingCorpus))] = []byte("{broken")

	counts, err := New(cache).Counts([]byte(trainingCorpus))
	require.NoError(t, err)
	assert.Equal(t, 2, counts.Sentences)
	assert.Equal(t, 1, cache.sets)
}

func TestStoreWithoutCache(t *testing.T) {
	model, err := New(nil).Model([]byte(trainingCorpus))
	require.NoError(t, err)
	assert.Equal(t, []string{"DET", "NOUN", "VERB"}, model.Tags())
}

func TestStoreEmptyCorpus(t *testing.T) {
	_, err := New(nil).Model([]byte("\n\n"))
	assert.True(t, errors.Is(err, hmm.ErrEmptyCorpus))
}

func TestStoreLoadLocalCorpus(t *testing.T) {
	location := path.Join(t.TempDir(), "train.tsv")
	require.NoError(t, os.WriteFile(location, []byte(trainingCorpus), 0o644))

	model, err := New(nil).Load(location, nil)
	require.NoError(t, err)
	assert.True(t, model.Known("sleeps"))

	_, err = New(nil).Load(path.Join(t.TempDir(), "missing.tsv"), nil)
	assert.Error(t, err)
}

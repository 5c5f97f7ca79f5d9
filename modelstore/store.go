package modelstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"text2phenotype.com/postag/corpus"
	"text2phenotype.com/postag/hmm"
	"text2phenotype.com/postag/logger"
	"text2phenotype.com/postag/redis"
	"text2phenotype.com/postag/utils"
)

const ModelsDB redis.DB = 3

// Cache is the key/value storage for trained counts; redis.Client implements it.
type Cache interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
}

// Store trains models from corpora. When a cache is configured the counts of every
// corpus are kept there, so a corpus is read only once across restarts. Estimation
// always runs locally because the log tables hold -Inf values JSON cannot encode.
type Store struct {
	cache     Cache
	fdlLogger zerolog.Logger
}

// New creates a store; a nil cache disables caching.
func New(cache Cache) *Store {
	return &Store{
		cache:     cache,
		fdlLogger: logger.NewLogger("Model store"),
	}
}

// Key is the cache key of a corpus, derived from its content.
func Key(corpusData []byte) string {
	return fmt.Sprintf("postag:counts:%016x", utils.HashBytes(corpusData))
}

// CountCorpus parses the corpus and accumulates its counts in one pass.
func CountCorpus(corpusData []byte) (hmm.Counts, error) {
	sentences, errCh := corpus.Stream(bytes.NewReader(corpusData))
	counts := hmm.AccumulateChannel(sentences)
	if err := <-errCh; err != nil {
		return hmm.Counts{}, err
	}
	return counts, nil
}

func (s *Store) Counts(corpusData []byte) (hmm.Counts, error) {
	key := Key(corpusData)
	keyLogger := s.fdlLogger.With().Str("key", key).Logger()

	if s.cache != nil {
		counts, err := s.cached(key)
		if err == nil {
			keyLogger.Debug().Msg("Using cached counts")
			return counts, nil
		}
		if !errors.Is(err, redis.ErrNotFound) {
			keyLogger.Warn().Err(err).Msg("Could not read cached counts, counting corpus")
		}
	}

	counts, err := CountCorpus(corpusData)
	if err != nil {
		return hmm.Counts{}, err
	}

	if s.cache != nil {
		if err := s.save(key, counts); err != nil {
			keyLogger.Warn().Err(err).Msg("Could not cache counts")
		}
	}
	return counts, nil
}

// Model returns the model estimated from the corpus counts.
func (s *Store) Model(corpusData []byte) (*hmm.Model, error) {
	counts, err := s.Counts(corpusData)
	if err != nil {
		return nil, err
	}
	return hmm.Estimate(counts)
}

// Load fetches the corpus at location (local path or s3://bucket/key) and returns its model.
func (s *Store) Load(location string, downloader corpus.ObjectDownloader) (*hmm.Model, error) {
	data, err := corpus.Fetch(location, downloader)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch corpus %s: %w", location, err)
	}
	model, err := s.Model(data)
	if err != nil {
		return nil, fmt.Errorf("failed to train on corpus %s: %w", location, err)
	}
	return model, nil
}

func (s *Store) cached(key string) (hmm.Counts, error) {
	raw, err := s.cache.Get(key)
	if err != nil {
		return hmm.Counts{}, err
	}
	var counts hmm.Counts
	if err := json.Unmarshal(raw, &counts); err != nil {
		return hmm.Counts{}, err
	}
	return counts, nil
}

func (s *Store) save(key string, counts hmm.Counts) error {
	raw, err := json.Marshal(counts)
	if err != nil {
		return err
	}
	return s.cache.Set(key, raw)
}

package main

import (
	"strings"

	"text2phenotype.com/postag/corpus"
	"text2phenotype.com/postag/hmm"
	"text2phenotype.com/postag/logger"
	"text2phenotype.com/postag/modelstore"
	"text2phenotype.com/postag/pipeline"
	"text2phenotype.com/postag/redis"
	"text2phenotype.com/postag/s3client"
	"text2phenotype.com/postag/types"
)

// models bundles the clients needed to turn corpus locations into trained models.
type models struct {
	store      *modelstore.Store
	downloader corpus.ObjectDownloader
	closers    []func()
}

// newModels connects to Redis when useCache is set and to S3 when any location is an
// s3:// URL.
func newModels(useCache bool, locations ...string) (*models, error) {
	fdlLogger := logger.NewLogger("Models")
	m := models{}

	var cache modelstore.Cache
	if useCache {
		client, err := redis.NewClient(modelstore.ModelsDB)
		if err != nil {
			return nil, err
		}
		cache = client
		m.closers = append(m.closers, func() { _ = client.Close() })
		fdlLogger.Info().Msg("Caching corpus counts in Redis")
	}
	m.store = modelstore.New(cache)

	for _, location := range locations {
		if !strings.HasPrefix(location, "s3://") {
			continue
		}
		client, err := s3client.New()
		if err != nil {
			m.close()
			return nil, err
		}
		m.downloader = client
		m.closers = append(m.closers, client.Close)
		break
	}
	return &m, nil
}

func (m *models) load(location string) (*hmm.Model, error) {
	return m.store.Load(location, m.downloader)
}

func (m *models) loader() pipeline.ModelLoader {
	return func(cfg types.Configuration) (*hmm.Model, error) {
		return m.load(cfg.Corpus)
	}
}

func (m *models) close() {
	for _, c := range m.closers {
		c()
	}
}

func corpusLocations(cfgs []types.Configuration) []string {
	locations := make([]string, len(cfgs))
	for i, cfg := range cfgs {
		locations[i] = cfg.Corpus
	}
	return locations
}

// buildPipeline trains every configured model and assembles the tagging pipeline.
func buildPipeline(configPath string, useCache bool) (pipeline.Pipeline, func(), error) {
	cfgs, err := types.LoadConfigurations(configPath)
	if err != nil {
		return nil, nil, err
	}
	m, err := newModels(useCache, corpusLocations(cfgs)...)
	if err != nil {
		return nil, nil, err
	}
	components, err := pipeline.NewComponents(cfgs, m.loader())
	if err != nil {
		m.close()
		return nil, nil, err
	}
	ppln, err := pipeline.PosTagging(components)
	if err != nil {
		m.close()
		return nil, nil, err
	}
	return ppln, m.close, nil
}

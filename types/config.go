package types

import (
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"text2phenotype.com/postag/logger"
)

const (
	// tagger kinds
	HMMTagger      = "hmm"
	BaselineTagger = "baseline"
)

var ErrUnknownTagger = errors.New("unknown tagger kind")

// Configuration describes one tagger served by the pipeline. It is read from a
// <name>.yaml file, the name being the file name without extension.
type Configuration struct {
	Name     string `yaml:"-" json:"name"`
	FilePath string `yaml:"-" json:"file_path"`
	Tagger   string `yaml:"tagger" json:"tagger"`
	Corpus   string `yaml:"corpus" json:"corpus"`
	Seed     int64  `yaml:"seed" json:"seed"`
	Score    bool   `yaml:"score" json:"score"`
}

func (cfg Configuration) Validate() error {
	if cfg.Tagger != HMMTagger && cfg.Tagger != BaselineTagger {
		return fmt.Errorf("%w %q in configuration %s", ErrUnknownTagger, cfg.Tagger, cfg.Name)
	}
	if cfg.Corpus == "" {
		return fmt.Errorf("configuration %s has no corpus", cfg.Name)
	}
	return nil
}

// ParseConfiguration reads a configuration from YAML. A missing tagger kind means hmm.
func ParseConfiguration(name string, buf []byte) (Configuration, error) {
	cfg := Configuration{Name: name, Tagger: HMMTagger}
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return Configuration{}, fmt.Errorf("configuration %s: %w", name, err)
	}
	return cfg, cfg.Validate()
}

// LoadConfigurations reads every *.yaml file of dirPath. Invalid files are logged and
// skipped; the result is sorted by name.
func LoadConfigurations(dirPath string) ([]Configuration, error) {
	fdlLogger := logger.NewLogger("LoadConfigurations")

	files, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, err
	}

	var wg sync.WaitGroup
	configChan := make(chan Configuration, len(files))

	for _, f := range files {
		// Skip dirs and non-yaml files
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".yaml") {
			continue
		}

		wg.Add(1)
		go func(file os.DirEntry) {
			defer wg.Done()

			filePath := path.Join(dirPath, file.Name())
			buf, err := os.ReadFile(filePath)
			if err != nil {
				fdlLogger.Err(err).Str("file_path", filePath).Msg("Could not read configuration")
				return
			}

			cfg, err := ParseConfiguration(strings.TrimSuffix(file.Name(), ".yaml"), buf)
			if err != nil {
				fdlLogger.Err(err).Str("file_path", filePath).Msg("Skipping invalid configuration")
				return
			}
			cfg.FilePath = filePath
			configChan <- cfg
		}(f)
	}

	wg.Wait()
	close(configChan)

	configs := make([]Configuration, 0, len(configChan))
	for cfg := range configChan {
		configs = append(configs, cfg)
	}
	sort.Slice(configs, func(i, j int) bool {
		return configs[i].Name < configs[j].Name
	})
	return configs, nil
}

package main

import (
	"encoding/json"
	"sort"

	"github.com/spf13/cobra"

	"text2phenotype.com/postag/corpus"
	"text2phenotype.com/postag/modelstore"
)

type trainSummary struct {
	Corpus    string         `json:"corpus"`
	Key       string         `json:"key"`
	Sentences int            `json:"sentences"`
	Tokens    int            `json:"tokens"`
	Words     int            `json:"words"`
	Tags      []string       `json:"tags"`
	TagCounts map[string]int `json:"tag_counts"`
}

func newTrainCommand() *cobra.Command {
	var useCache bool
	cmd := &cobra.Command{
		Use:   "train <corpus>",
		Short: "Count a tagged corpus, optionally caching the counts in Redis, and print a summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			location := args[0]
			m, err := newModels(useCache, location)
			if err != nil {
				return err
			}
			defer m.close()

			data, err := corpus.Fetch(location, m.downloader)
			if err != nil {
				return err
			}
			counts, err := m.store.Counts(data)
			if err != nil {
				return err
			}
			// Estimation validates the counts the same way serving would.
			if _, err := m.store.Model(data); err != nil {
				return err
			}

			tags := append([]string(nil), counts.Tags...)
			sort.Strings(tags)
			summary := trainSummary{
				Corpus:    location,
				Key:       modelstore.Key(data),
				Sentences: counts.Sentences,
				Tokens:    counts.Tokens,
				Words:     len(counts.WordTags),
				Tags:      tags,
				TagCounts: counts.TagFrequency,
			}
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(summary)
		},
	}
	cmd.Flags().BoolVar(&useCache, "cache", false, "cache the corpus counts in Redis")
	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"text2phenotype.com/postag/corpus"
	"text2phenotype.com/postag/evaluation"
	"text2phenotype.com/postag/logger"
	"text2phenotype.com/postag/pipeline"
	"text2phenotype.com/postag/types"
)

func newEvaluateCommand() *cobra.Command {
	var (
		trainPath string
		testPath  string
		kind      string
		seed      int64
		useCache  bool
	)
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Train on one corpus and report tagging accuracy on another",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fdlLogger := logger.NewLogger("Evaluate")

			m, err := newModels(useCache, trainPath, testPath)
			if err != nil {
				return err
			}
			defer m.close()

			model, err := m.load(trainPath)
			if err != nil {
				return err
			}
			tagger, err := pipeline.NewTagger(kind, model, seed)
			if err != nil {
				return err
			}

			data, err := corpus.Fetch(testPath, m.downloader)
			if err != nil {
				return err
			}
			gold, err := corpus.Parse(data)
			if err != nil {
				return fmt.Errorf("failed to parse test corpus %s: %w", testPath, err)
			}

			report := evaluation.Evaluate(tagger, model, gold)
			if report.Failed > 0 {
				fdlLogger.Warn().Int("failed", report.Failed).Msg("Some sentences could not be tagged")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Tagger:        %s\n", kind)
			fmt.Fprintf(out, "Sentences:     %d\n", report.Sentences)
			fmt.Fprintf(out, "Tokens:        %d\n", report.Tokens)
			fmt.Fprintf(out, "Accuracy:      %.2f%% (%d/%d)\n", 100*report.Accuracy(), report.Correct, report.Tokens)
			fmt.Fprintf(out, "OOV accuracy:  %.2f%% (%d/%d)\n", 100*report.OOVAccuracy(), report.CorrectOOV, report.OOV)
			return nil
		},
	}
	cmd.Flags().StringVar(&trainPath, "train", "", "training corpus (path or s3://bucket/key)")
	cmd.Flags().StringVar(&testPath, "test", "", "test corpus (path or s3://bucket/key)")
	cmd.Flags().StringVar(&kind, "tagger", types.HMMTagger, "tagger kind: hmm or baseline")
	cmd.Flags().Int64Var(&seed, "seed", 0, "seed for sampling unknown-word tags (baseline only)")
	cmd.Flags().BoolVar(&useCache, "cache", false, "cache the training corpus counts in Redis")
	_ = cmd.MarkFlagRequired("train")
	_ = cmd.MarkFlagRequired("test")
	return cmd
}

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"text2phenotype.com/postag/pipeline"
	"text2phenotype.com/postag/utils"
)

func newTagCommand() *cobra.Command {
	var (
		configDir string
		input     string
		useCache  bool
	)
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Tag text read from stdin or a file with every configured tagger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var text []byte
			var err error
			if input == "" || input == "-" {
				text, err = io.ReadAll(cmd.InOrStdin())
			} else {
				text, err = os.ReadFile(input)
			}
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}

			ppln, closeModels, err := buildPipeline(configDir, useCache)
			if err != nil {
				return err
			}
			defer closeModels()

			request := pipeline.Request{
				Text: string(text),
				Tid:  fmt.Sprintf("cli-%016x", utils.HashBytes(text)),
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), <-ppln(request))
			return err
		},
	}
	cmd.Flags().StringVar(&configDir, "config-dir", "", "directory of tagger configuration YAML files")
	cmd.Flags().StringVarP(&input, "input", "i", "", "text file to tag (default stdin)")
	cmd.Flags().BoolVar(&useCache, "cache", false, "cache the corpus counts in Redis")
	_ = cmd.MarkFlagRequired("config-dir")
	return cmd
}

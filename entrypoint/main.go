package main

import (
	"os"

	"github.com/spf13/cobra"

	"text2phenotype.com/postag/logger"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "postag",
		Short:         "Part-of-speech tagging service backed by hidden Markov models",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetupLogging()
		},
	}

	root.AddCommand(newServeCommand())
	root.AddCommand(newTrainCommand())
	root.AddCommand(newTagCommand())
	root.AddCommand(newEvaluateCommand())
	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fdlLogger := logger.NewLogger("Main")
		fdlLogger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

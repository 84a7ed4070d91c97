package cmd

import (
	"fmt"
	"time"

	"github.com/nbspam/spam-filter/pkg/corpus"
	"github.com/nbspam/spam-filter/pkg/profiler"
	"github.com/spf13/cobra"
)

var (
	trainSpam string
	trainHam  string
	trainTop  int
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train a model and show what it learned",
	Long: `Train the Bernoulli Naive Bayes model on a spam and a ham corpus and print
message counts, vocabulary size and the most indicative words.

Models are not saved; every run retrains.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		top := appConfig.Report.TopWords
		if cmd.Flags().Changed("top") {
			top = trainTop
		}

		if trainSpam == corpus.StdinIdentifier && trainHam == corpus.StdinIdentifier {
			return fmt.Errorf("only one corpus can be read from standard input")
		}

		opts := corpusOptions(appConfig)
		opts.Stdin = cmd.InOrStdin()
		streams, err := openCorpora(cmd.Context(), []string{trainSpam, trainHam}, opts)
		if err != nil {
			return fmt.Errorf("failed to open corpora: %v", err)
		}
		defer closeCorpora(streams)

		fmt.Fprintf(out, "🧠 Naive Bayes Training\n")
		fmt.Fprintf(out, "═══════════════════════════════════════\n")
		fmt.Fprintf(out, "📁 Spam corpus: %s\n", trainSpam)
		fmt.Fprintf(out, "📁 Ham corpus: %s\n\n", trainHam)

		prof := profiler.NewProfiler()
		defer prof.LogReport(logger)

		start := time.Now()
		model, err := trainModel(cmd.Context(), newSegmenter(appConfig), streams[0], streams[1], prof)
		if err != nil {
			return fmt.Errorf("training failed: %v", err)
		}
		fmt.Fprintf(out, "⏱️  Time taken: %v\n\n", time.Since(start).Round(time.Microsecond))

		model.PrintStats(out, top)
		return nil
	},
}

func init() {
	trainCmd.Flags().StringVar(&trainSpam, "spam", "", "Spam training corpus (file path, redis:// URL or - for stdin)")
	trainCmd.Flags().StringVar(&trainHam, "ham", "", "Ham training corpus")
	trainCmd.Flags().IntVar(&trainTop, "top", 10, "Number of top spam and ham words to show (0 hides them)")
	_ = trainCmd.MarkFlagRequired("spam")
	_ = trainCmd.MarkFlagRequired("ham")
}

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/nbspam/spam-filter/pkg/corpus"
	"github.com/nbspam/spam-filter/pkg/learning"
	"github.com/nbspam/spam-filter/pkg/profiler"
	"github.com/nbspam/spam-filter/pkg/report"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	runSpamTrain string
	runHamTrain  string
	runSpamTest  string
	runHamTest   string
	runStats     bool
)

// corpusPrompt pairs a corpus identifier with the question asking for it
type corpusPrompt struct {
	question string
	value    *string
}

func runPrompts() []corpusPrompt {
	return []corpusPrompt{
		{"Enter spam training file name:", &runSpamTrain},
		{"Enter ham training file name:", &runHamTrain},
		{"Enter spam testing file name:", &runSpamTest},
		{"Enter ham testing file name:", &runHamTest},
	}
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Train on labeled corpora and classify test corpora",
	Long: `Train a model on a spam and a ham corpus, then classify every message of a
spam test corpus and a ham test corpus.

One line is printed per test message:

  TEST <n> <present>/<vocabulary> features true <spam> <ham> <outcome>

followed by the number of correctly classified messages. Corpora not given as
flags are asked for on standard input.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		prompts := runPrompts()
		if err := checkStdinCorpus(prompts); err != nil {
			return err
		}
		if err := promptIdentifiers(cmd.InOrStdin(), cmd.OutOrStdout(), prompts); err != nil {
			return fmt.Errorf("failed to read corpus names: %v", err)
		}

		ids := make([]string, len(prompts))
		for i, p := range prompts {
			ids[i] = *p.value
		}

		return runClassification(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), ids)
	},
}

// checkStdinCorpus allows one corpus on standard input, and only when no
// identifier has to be prompted for on it.
func checkStdinCorpus(prompts []corpusPrompt) error {
	stdin, missing := 0, 0
	for _, p := range prompts {
		switch *p.value {
		case corpus.StdinIdentifier:
			stdin++
		case "":
			missing++
		}
	}

	if stdin > 1 {
		return fmt.Errorf("only one corpus can be read from standard input")
	}
	if stdin == 1 && missing > 0 {
		return fmt.Errorf("reading a corpus from standard input requires the other corpora as flags")
	}
	return nil
}

// promptIdentifiers asks for every identifier still empty, in order. A
// missing answer leaves the identifier empty.
func promptIdentifiers(in io.Reader, out io.Writer, prompts []corpusPrompt) error {
	scanner := bufio.NewScanner(in)
	for _, p := range prompts {
		if *p.value != "" {
			continue
		}
		fmt.Fprintln(out, p.question)
		if scanner.Scan() {
			*p.value = scanner.Text()
		}
	}
	return scanner.Err()
}

// runClassification trains on ids[0] (spam) and ids[1] (ham), then tests
// ids[2] (spam) and ids[3] (ham). Every corpus is resolved before training.
func runClassification(ctx context.Context, in io.Reader, out, errOut io.Writer, ids []string) error {
	prof := profiler.NewProfiler()
	defer prof.LogReport(logger)

	var streams []corpus.Stream
	err := prof.Phase("open corpora", func() error {
		var err error
		opts := corpusOptions(appConfig)
		opts.Stdin = in
		streams, err = openCorpora(ctx, ids, opts)
		return err
	})
	if err != nil {
		var badID *corpus.BadIdentifierError
		if errors.As(err, &badID) {
			logger.Debug("Corpus not found", zap.String("identifier", badID.Identifier), zap.Error(badID.Err))
			fmt.Fprintf(errOut, "Bad filename: %s\n", badID.Identifier)
			return &ExitError{Code: 1, Err: err}
		}
		return fmt.Errorf("failed to open corpora: %v", err)
	}
	defer closeCorpora(streams)

	seg := newSegmenter(appConfig)
	model, err := trainModel(ctx, seg, streams[0], streams[1], prof)
	if err != nil {
		return fmt.Errorf("training failed: %v", err)
	}

	if runStats {
		model.PrintStats(out, appConfig.Report.TopWords)
	}

	classifier, err := learning.NewClassifier(model, seg, logger)
	if err != nil {
		return fmt.Errorf("failed to create classifier: %v", err)
	}

	reporter := report.New(out)

	err = prof.Phase("test spam", func() error {
		_, err := classifier.Test(ctx, streams[2], learning.Spam, reporter)
		return err
	})
	if err != nil {
		return fmt.Errorf("testing failed: %v", err)
	}

	err = prof.Phase("test ham", func() error {
		_, err := classifier.Test(ctx, streams[3], learning.Ham, reporter)
		return err
	})
	if err != nil {
		return fmt.Errorf("testing failed: %v", err)
	}

	if err := reporter.Summary(); err != nil {
		return err
	}

	logger.Info("Run complete",
		zap.Int("total", reporter.Total()),
		zap.Int("correct", reporter.Correct()),
		zap.Float64("accuracy", reporter.Accuracy()))

	return nil
}

func init() {
	runCmd.Flags().StringVar(&runSpamTrain, "spam-train", "", "Spam training corpus (file path, redis:// URL or - for stdin)")
	runCmd.Flags().StringVar(&runHamTrain, "ham-train", "", "Ham training corpus")
	runCmd.Flags().StringVar(&runSpamTest, "spam-test", "", "Spam testing corpus")
	runCmd.Flags().StringVar(&runHamTest, "ham-test", "", "Ham testing corpus")
	runCmd.Flags().BoolVar(&runStats, "stats", false, "Print model statistics after training")
}

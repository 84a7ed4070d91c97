package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nbspam/spam-filter/pkg/config"
	"github.com/nbspam/spam-filter/pkg/logging"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	logLevel   string
	logFormat  string
	cpuProfile string

	appConfig   *config.Config
	stopProfile func()
)

var logger = zap.NewNop()

// ExitError ends the process with Code after the command has already
// reported the failure itself.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

var rootCmd = &cobra.Command{
	Use:   "nbspam",
	Short: "Bernoulli Naive Bayes spam filter",
	Long: `nbspam trains a Bernoulli Naive Bayes model on a spam corpus and a ham
corpus, then classifies two test corpora and reports its accuracy.

Corpora are flat text files (or Redis lists) where each message starts with a
<SUBJECT> line and ends with a </BODY> line.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// setup loads configuration, builds the logger and starts CPU profiling
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %v", err)
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Logging.Format = logFormat
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %v", err)
	}

	l, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}

	appConfig = cfg
	logger = l

	if cpuProfile != "" {
		p := profile.Start(profile.CPUProfile, profile.ProfilePath(cpuProfile), profile.Quiet, profile.NoShutdownHook)
		stopProfile = p.Stop
		logger.Debug("CPU profiling enabled", zap.String("dir", cpuProfile))
	}

	return nil
}

// Execute runs the root command until it finishes or the process is interrupted
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return execute(ctx)
}

func execute(ctx context.Context) error {
	defer func() {
		if stopProfile != nil {
			stopProfile()
			stopProfile = nil
		}
		_ = logger.Sync()
	}()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&cpuProfile, "cpuprofile", "", "Write a CPU profile into this directory")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(generateCmd)
}

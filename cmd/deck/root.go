package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bethropolis/deck/internal/app"
	"github.com/bethropolis/deck/internal/config"
	"github.com/bethropolis/deck/internal/logger"
	"github.com/bethropolis/deck/internal/metrics"
)

var (
	flags    config.Flags
	cfg      *config.Config
	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "deck",
	Short: "deck is a scriptable slide-presentation editing engine",
	Long: `deck edits slide presentations through action tokens such as ADD_TEXT or
SLIDE_BACKGROUND:#ff0000, with full undo/redo history. Run scripts of tokens
with 'deck run' or drive a live session over HTTP with 'deck serve'.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error { return closeLog() },
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags.DefineFlags(rootCmd.PersistentFlags())
}

// setup loads the configuration and starts logging. Config problems are
// reported once the logger is up.
func setup(cmd *cobra.Command, args []string) error {
	c, cfgErr := config.LoadConfig(flags.ConfigFilePath, &flags, cmd.Flags())
	cfg = c

	out, closer, err := logger.OpenOutput(cfg.Logger.LogFilePath)
	if err != nil {
		return err
	}
	closeLog = closer
	logger.Init(cfg.Logger, out)

	if cfgErr != nil {
		logger.Warnf("Ignoring config file: %v", cfgErr)
	}
	logger.Debugf("deck %s starting: %s", version, cmd.CommandPath())
	return nil
}

// newSession builds a session from the loaded config.
func newSession(cmd *cobra.Command, rec metrics.Recorder) (*app.App, error) {
	session, err := app.New(cfg, app.Deps{Metrics: rec, Out: cmd.ErrOrStderr()})
	if err != nil {
		return nil, fmt.Errorf("starting session: %w", err)
	}
	return session, nil
}

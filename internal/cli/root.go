package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/seanmcc/taskbucket/internal/claudemd"
	"github.com/seanmcc/taskbucket/internal/command"
	"github.com/seanmcc/taskbucket/internal/config"
	"github.com/seanmcc/taskbucket/internal/journal"
	"github.com/seanmcc/taskbucket/internal/logging"
	"github.com/seanmcc/taskbucket/internal/storage"
)

var (
	dataDir string
	verbose bool
	rootCmd *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "tb",
		Short: "tb - personal task tracking",
		Long: `tb tracks tasks and projects in flat JSON files.

Tasks belong to projects, carry priorities, deadlines, tags, and time logs,
and can be activated into a project's CLAUDE.md for the current working
session.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Data directory (default $TASKBUCKET_DATA or ~/.taskbucket)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

// Execute runs the root command.
func Execute(version string) error {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(logTimeCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(activateCmd)

	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// app holds the wired core for one CLI invocation.
type app struct {
	cfg     *config.Config
	svc     *command.Service
	closers []io.Closer
}

// newApp loads configuration and wires storage, logging, the journal, and
// the CLAUDE.md hook into a command service.
func newApp() (*app, error) {
	cfg, err := config.Load(dataDir)
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	logger, logCloser := logging.New(cfg)
	a := &app{cfg: cfg, closers: []io.Closer{logCloser}}

	opts := []command.Option{command.WithHook(claudemd.New())}
	if jnl, err := journal.Open(cfg.DataDir); err == nil {
		opts = append(opts, command.WithRecorder(jnl))
		a.closers = append(a.closers, jnl)
	} else {
		logger.Warn("operations journal unavailable", "error", err)
	}

	store := storage.New(cfg, logger)
	a.svc = command.NewService(cfg, store, logger, opts...)
	return a, nil
}

func (a *app) Close() {
	for _, c := range a.closers {
		c.Close()
	}
}

package commands

import (
	"fmt"

	"utest/internal/cli"
	"utest/internal/config"
	"utest/internal/registry"
	"utest/internal/storage"
	"utest/internal/ui"

	"github.com/spf13/cobra"
)

// Commands holds all CLI commands
type Commands struct {
	Run   *RunCommand
	List  *ListCommand
	Fails *FailsCommand
	Logs  *LogsCommand

	restoreLogger func()
}

// NewCommands creates all commands with dependencies. Storage is opened when
// a command executes, after flags have been applied to cfg.
func NewCommands(cfg *config.Config, reg *registry.Registry) *Commands {
	openStorage := func() (storage.Storage, error) {
		return storage.New(cfg)
	}
	formatter := ui.NewFormatter(nil)

	return &Commands{
		Run:   NewRunCommand(cfg, reg, openStorage, formatter),
		List:  NewListCommand(cfg, reg, formatter),
		Fails: NewFailsCommand(openStorage),
		Logs:  NewLogsCommand(cfg, openStorage),
	}
}

// Close restores the global logger installed by a command's PreRunE.
func (c *Commands) Close() {
	if c.restoreLogger != nil {
		c.restoreLogger()
		c.restoreLogger = nil
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	// Update config with flags after parsing
	preRun := func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("workers") {
			flags.Workers = -1
		} else if flags.Workers < 0 {
			return fmt.Errorf("workers must not be negative, got %d", flags.Workers)
		}
		loaded, err := config.Load(flags.ToConfigFlags())
		if err != nil {
			return err
		}
		*cfg = *loaded

		restore, err := cli.InstallLogger(cfg.Level())
		if err != nil {
			return err
		}
		c.restoreLogger = restore
		return nil
	}

	rootCmd.PersistentFlags().StringVar(&flags.ConfigFile, "config", "", "Path to a YAML config file (default utest.yaml in the project path)")
	rootCmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "", "Console log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flags.Storage, "storage", "", "Report storage: json or mysql")

	// Run command
	runCmd := &cobra.Command{
		Use:     "run",
		Short:   "Run a built-in test suite",
		Long:    "Run the cases of a registered suite, sequentially or on a worker pool, capturing each case's logs",
		RunE:    c.Run.Execute,
		PreRunE: preRun,
	}
	runCmd.Flags().IntVarP(&flags.Workers, "workers", "w", config.DefaultWorkers, "Number of worker goroutines (0 runs sequentially)")
	runCmd.Flags().StringVarP(&flags.Suite, "suite", "s", "", "Suite to run")
	runCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter cases by name pattern (supports wildcards, e.g., 'capture_*' or '*overflow*')")
	runCmd.Flags().IntVar(&flags.LogCapacity, "log-capacity", 0, "Capture buffer size per case in bytes")
	runCmd.Flags().StringVar(&flags.Overflow, "overflow", "", "What a full capture buffer drops: drop-newest or drop-oldest")
	runCmd.Flags().StringVar(&flags.Replay, "replay", "", "Replay captured logs after the run: all, failed, passed or none")
	runCmd.Flags().StringVar(&flags.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this file after the run")
	runCmd.Flags().BoolVar(&flags.LiveLogs, "live-logs", false, "Merge each case's logs into the console as it completes instead of showing a progress bar")
	runCmd.Flags().BoolVar(&flags.OpenFails, "open-fails", false, "Open the fails viewer when the run finishes with failures")
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:     "list [suite]",
		Short:   "List suites or the cases of a suite",
		Long:    "Without arguments list the registered suites; with a suite name list its cases and the group each one runs in",
		Args:    cobra.MaximumNArgs(1),
		RunE:    c.List.Execute,
		PreRunE: preRun,
	}
	listCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter cases by name pattern (supports wildcards, e.g., 'capture_*' or '*overflow*')")
	rootCmd.AddCommand(listCmd)

	// Fails command
	failsCmd := &cobra.Command{
		Use:     "fails",
		Short:   "View failed cases interactively",
		Long:    "Display the failed cases of the last run and their captured logs in an interactive viewer",
		RunE:    c.Fails.Execute,
		PreRunE: preRun,
	}
	rootCmd.AddCommand(failsCmd)

	// Logs command
	logsCmd := &cobra.Command{
		Use:     "logs",
		Short:   "Replay captured logs of the last run",
		Long:    "Write the captured logs of the selected cases of the last saved run to the console",
		RunE:    c.Logs.Execute,
		PreRunE: preRun,
	}
	logsCmd.Flags().StringVar(&flags.Select, "select", "failed", "Cases to replay: all, failed or passed")
	rootCmd.AddCommand(logsCmd)
}

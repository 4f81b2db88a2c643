package main

import (
	"context"
	"errors"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"utest/internal/cli"
	"utest/internal/cli/commands"
	"utest/internal/config"
	"utest/internal/exitcodes"
	"utest/internal/registry"
	"utest/internal/selftest"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// Create root command
	rootCmd := &cobra.Command{
		Use:           "utest",
		Short:         "Unit-test runner with per-case log capture",
		Long:          `Runs registered test suites sequentially or on a worker pool. Every case logs into its own bounded buffer, so parallel cases never interleave their output; captured logs are replayed after the run and saved with the report.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Create initial config with defaults
	cfg := config.New()

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	reg := registry.New()
	if err := selftest.Register(reg); err != nil {
		color.Red("Error: %v", err)
		return exitcodes.RuntimeErr
	}

	// Create commands with dependencies
	cmds := commands.NewCommands(cfg, reg)
	defer cmds.Close()

	// Register all commands
	cmds.Register(rootCmd, &flags, cfg)

	// Execute root command
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil && !errors.Is(err, exitcodes.ErrTestsFailed) {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return exitcodes.Code(err)
}

package commands

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"utest/internal/config"
	"utest/internal/domain"
	"utest/internal/exitcodes"
	"utest/internal/metrics"
	"utest/internal/registry"
	"utest/internal/storage"
	"utest/internal/ui"
	"utest/pkg/unittest"
)

// RunCommand handles the run command
type RunCommand struct {
	config      *config.Config
	registry    *registry.Registry
	openStorage func() (storage.Storage, error)
	formatter   *ui.Formatter
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(
	cfg *config.Config,
	reg *registry.Registry,
	openStorage func() (storage.Storage, error),
	formatter *ui.Formatter,
) *RunCommand {
	return &RunCommand{
		config:      cfg,
		registry:    reg,
		openStorage: openStorage,
		formatter:   formatter,
	}
}

// newRunner returns a basic runner for sequential runs and a threaded one otherwise.
func (rc *RunCommand) newRunner(opts ...unittest.Option) (unittest.Runner, error) {
	if rc.config.Workers == 0 {
		return unittest.NewBasicRunner(opts...), nil
	}
	budget := unittest.NewBudget(int64(rc.config.Budget))
	return unittest.NewThreadedRunner(budget, &unittest.ThreadedParams{Workers: rc.config.Workers}, opts...)
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg := rc.config
	prm := cfg.CaseParams()
	suite, err := rc.registry.Build(cfg.Suite, registry.BuildOptions{
		Pattern:  cfg.Flags.NameFilter,
		Capacity: cfg.LogCapacity,
		Policy:   cfg.Policy(),
		Params:   &prm,
	})
	if err != nil {
		return err
	}

	st, err := rc.openStorage()
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer st.Close()

	m := metrics.New()
	var bar *ui.ProgressBar
	var completions []unittest.CompletionFunc
	if cfg.Flags.LiveLogs {
		completions = append(completions, unittest.MergeLogs)
	} else {
		bar = ui.NewProgressBar(suite.Len())
		completions = append(completions, bar.Completion())
	}
	completions = append(completions, m.ObserveCase(cfg.Suite))

	runner, err := rc.newRunner(unittest.WithCompletion(completions...))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	runErr := runner.Run(ctx, suite)
	if err := runner.Close(); err != nil {
		return err
	}
	if bar != nil {
		bar.Finish()
	}

	stats := unittest.StatsOf(suite)
	m.RecordRun(cfg.Suite, stats)
	if cfg.MetricsFile != "" {
		if err := m.WriteFile(cfg.MetricsFile); err != nil {
			return err
		}
	}

	if sel, ok := cfg.ReplaySelection(); ok && !cfg.Flags.LiveLogs {
		unittest.Replay(suite, sel, zap.L())
	}

	report := domain.NewRunReport(suite, domain.ReportOptions{
		RunID:   runner.RunID(),
		Suite:   cfg.Suite,
		Workers: cfg.Workers,
		Policy:  cfg.Policy().String(),
	})
	if err := st.Save(report); err != nil {
		return fmt.Errorf("failed to save test results: %w", err)
	}

	rc.formatter.PrintStats(report)

	if cfg.Flags.OpenFails && stats.Failed > 0 {
		if err := ui.NewErrorViewer(st).View(report); err != nil {
			return err
		}
	}

	if runErr != nil {
		return runErr
	}
	if stats.Failed > 0 {
		color.Red("%d of %d case(s) failed", stats.Failed, stats.Total)
		return fmt.Errorf("suite %s: %w", cfg.Suite, exitcodes.ErrTestsFailed)
	}
	return nil
}

package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"utest/internal/config"
	"utest/internal/storage"
	"utest/internal/ui"
	"utest/pkg/unittest"
)

// LogsCommand handles the logs command
type LogsCommand struct {
	config      *config.Config
	openStorage func() (storage.Storage, error)
}

// NewLogsCommand creates a new LogsCommand
func NewLogsCommand(cfg *config.Config, openStorage func() (storage.Storage, error)) *LogsCommand {
	return &LogsCommand{config: cfg, openStorage: openStorage}
}

// Execute runs the command
func (lc *LogsCommand) Execute(cmd *cobra.Command, args []string) error {
	sel, ok := unittest.ParseSelection(lc.config.Flags.Select)
	if !ok {
		return fmt.Errorf("unknown selection %q", lc.config.Flags.Select)
	}

	st, err := lc.openStorage()
	if err != nil {
		return err
	}
	defer st.Close()
	report, err := st.Load()
	if err != nil {
		return err
	}

	if n := ui.ReplayReport(report, sel, zap.L()); n == 0 {
		color.Yellow("No captured logs for %s cases of run %s", sel, report.Meta.RunID)
	}
	return nil
}

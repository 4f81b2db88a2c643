package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"utest/internal/config"
	"utest/internal/registry"
	"utest/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	config    *config.Config
	registry  *registry.Registry
	formatter *ui.Formatter
}

// NewListCommand creates a new ListCommand
func NewListCommand(
	cfg *config.Config,
	reg *registry.Registry,
	formatter *ui.Formatter,
) *ListCommand {
	return &ListCommand{
		config:    cfg,
		registry:  reg,
		formatter: formatter,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		lc.formatter.PrintSuites(lc.registry)
		return nil
	}

	cases, err := lc.registry.Cases(args[0], lc.config.Flags.NameFilter)
	if err != nil {
		return err
	}
	if len(cases) == 0 {
		color.Yellow("No cases found")
		return nil
	}

	lc.formatter.PrintCaseList(args[0], cases)
	return nil
}

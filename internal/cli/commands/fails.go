package commands

import (
	"github.com/spf13/cobra"

	"utest/internal/storage"
	"utest/internal/ui"
)

// FailsCommand handles the fails command
type FailsCommand struct {
	openStorage func() (storage.Storage, error)
}

// NewFailsCommand creates a new FailsCommand
func NewFailsCommand(openStorage func() (storage.Storage, error)) *FailsCommand {
	return &FailsCommand{openStorage: openStorage}
}

// Execute runs the command
func (fc *FailsCommand) Execute(cmd *cobra.Command, args []string) error {
	st, err := fc.openStorage()
	if err != nil {
		return err
	}
	defer st.Close()
	report, err := st.Load()
	if err != nil {
		return err
	}

	return ui.NewErrorViewer(st).View(report)
}

package ui

import "utest/internal/domain"

// Viewer displays a saved run in an interactive TUI
type Viewer interface {
	View(report *domain.RunReport) error
}

package ui

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"utest/internal/domain"
	"utest/internal/storage"
)

// maxDetailLogs bounds how many captured lines the details pane shows
const maxDetailLogs = 200

// ErrorViewer displays failed cases of a run in an interactive TUI
type ErrorViewer struct {
	storage storage.Storage
}

// NewErrorViewer creates a new ErrorViewer
func NewErrorViewer(st storage.Storage) *ErrorViewer {
	return &ErrorViewer{storage: st}
}

// View displays failed cases and their captured logs
func (ev *ErrorViewer) View(report *domain.RunReport) error {
	failures := report.Failures()
	if len(failures) == 0 {
		color.Green("✓ No test failures found!")
		return nil
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)

	listItemText := func(index int) string {
		c := failures[index]
		if c.Resolved {
			return fmt.Sprintf("[gray]✓ [yellow]%d.[gray] %s[white]", index+1, c.Name)
		}
		return fmt.Sprintf("[yellow]%d.[white] %s", index+1, c.Name)
	}

	for i := range failures {
		list.AddItem(listItemText(i), "", 0, nil)
	}

	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan).
		SetSecondaryTextColor(tview.Styles.SecondaryTextColor)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false).
		SetWordWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	detailsContainer := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(detailsView, 0, 1, false).
		AddItem(tview.NewBox(), 2, 0, false)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsContainer, 0, 1, false)

	// list on left (1/3), details on right (2/3)
	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	updateHeader := func() {
		headerView.SetText(fmt.Sprintf(" Failed cases of %s (%d total, %d unresolved) | Use ↑↓ to navigate, [yellow]R[white] to mark resolved, → to view logs, ← to go back, Ctrl+C to exit ",
			report.Meta.Suite, len(failures), report.UnresolvedFailures()))
	}
	updateHeader()

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index >= 0 && index < len(failures) {
			statsView.SetText(formatCaseStats(report.Meta, failures[index]))
			detailsView.SetText(formatCaseDetails(failures[index])).ScrollToBeginning()
		}
	}

	var saveErr error
	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyUp, tcell.KeyDown:
			return event
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'r' || event.Rune() == 'R' {
				index := list.GetCurrentItem()
				if index >= 0 && index < len(failures) {
					failures[index].Resolved = !failures[index].Resolved
					list.SetItemText(index, listItemText(index), "")
					updateHeader()
					updateDetails()
					if ev.storage != nil {
						saveErr = ev.storage.Save(report)
					}
				}
				return nil
			}
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	list.SetChangedFunc(func(int, string, string, rune) {
		updateDetails()
	})
	updateDetails()

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if saveErr != nil {
		return fmt.Errorf("save resolved status: %w", saveErr)
	}
	return nil
}

// levelTag maps a level name to a tview color tag
func levelTag(level string) string {
	switch level {
	case "debug":
		return "[gray]"
	case "info":
		return "[white]"
	case "warn":
		return "[yellow]"
	default:
		return "[red]"
	}
}

// formatCaseDetails formats a failed case and its captured logs using tview color tags
func formatCaseDetails(c *domain.CaseReport) string {
	var builder strings.Builder
	w := tabwriter.NewWriter(&builder, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "[red]✗ Case: %s[white]\n\n", tview.Escape(c.Name))
	fmt.Fprintf(w, "[cyan]Result:[white]\t%d\n", c.Result)
	fmt.Fprintf(w, "[cyan]Flags:[white]\t%s\n", c.Flags)
	fmt.Fprintf(w, "[cyan]Duration:[white]\t%.3fs\n", c.DurationSeconds)
	if c.DroppedLogs > 0 {
		fmt.Fprintf(w, "[yellow]Dropped log entries:[white]\t%d\n", c.DroppedLogs)
	}
	fmt.Fprintf(w, "\n")

	if len(c.Logs) == 0 {
		fmt.Fprintf(w, "[gray]No captured logs[white]\n")
		w.Flush()
		return builder.String()
	}

	fmt.Fprintf(w, "[yellow]Captured Logs:[white]\n")
	for i, l := range c.Logs {
		if i == maxDetailLogs {
			fmt.Fprintf(w, "  [gray]... and %d more lines[white]\n", len(c.Logs)-maxDetailLogs)
			break
		}
		fmt.Fprintf(w, "  %s%-5s[white] %s%s\n", levelTag(l.Level), strings.ToUpper(l.Level), tview.Escape(l.Message), formatFields(l.Fields))
	}

	w.Flush()
	return builder.String()
}

// formatFields renders fields as sorted key=value pairs
func formatFields(fields map[string]any) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(" [gray]")
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(tview.Escape(fmt.Sprintf("%s=%v", k, fields[k])))
	}
	b.WriteString("[white]")
	return b.String()
}

// formatCaseStats formats the stats header for a failed case
func formatCaseStats(meta domain.RunMeta, c *domain.CaseReport) string {
	return fmt.Sprintf("[cyan]suite:[white] [yellow]%s[white]::[yellow]%s[white] [gray](%d/%d, run %s)[white]\n",
		meta.Suite, tview.Escape(c.Name), c.Index+1, meta.TotalCases, meta.RunID)
}

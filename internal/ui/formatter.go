package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"utest/internal/domain"
	"utest/internal/registry"
	"utest/pkg/unittest"
)

// Formatter formats and displays output
type Formatter struct {
	out io.Writer
}

// NewFormatter creates a new Formatter writing to out, or stdout when out is nil
func NewFormatter(out io.Writer) *Formatter {
	if out == nil {
		out = os.Stdout
	}
	return &Formatter{out: out}
}

var (
	cyan   = color.New(color.FgCyan)
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
)

func (f *Formatter) header(title string) {
	fmt.Fprintln(f.out)
	cyan.Fprintln(f.out, "╔═══════════════════════════════════════════════════════════════╗")
	cyan.Fprintf(f.out, "║%s║\n", text.AlignCenter.Apply(title, 63))
	cyan.Fprintln(f.out, "╚═══════════════════════════════════════════════════════════════╝")
}

// PrintStats displays the statistics of a run followed by the failing case names
func (f *Formatter) PrintStats(report *domain.RunReport) {
	meta := report.Meta

	f.header("Test Execution Statistics")

	t := table.NewWriter()
	t.SetOutputMirror(f.out)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	t.AppendRows([]table.Row{
		{"Suite", meta.Suite},
		{"Run ID", meta.RunID},
		{"Total Cases", meta.TotalCases},
		{"Executed Cases", meta.ExecutedCases},
		{"Passed Cases", green.Sprint(meta.PassedCases)},
		{"Failed Cases", red.Sprint(meta.FailedCases)},
		{"Duration", fmt.Sprintf("%.2fs", meta.DurationSeconds)},
		{"Workers", meta.Workers},
		{"Overflow Policy", meta.OverflowPolicy},
		{"Timestamp", meta.Timestamp},
	})
	t.Render()

	fmt.Fprintln(f.out)
	switch {
	case meta.ExecutedCases < meta.TotalCases:
		yellow.Fprintf(f.out, "! run interrupted: %d of %d case(s) executed\n", meta.ExecutedCases, meta.TotalCases)
	case meta.FailedCases == 0:
		green.Fprintln(f.out, "✓ All tests passed!")
		return
	}
	if meta.FailedCases == 0 {
		return
	}

	red.Fprintf(f.out, "✗ %d test case(s) failed\n", meta.FailedCases)
	for _, name := range meta.FailedNames {
		red.Fprintf(f.out, "  |_%s\n", name)
	}
	if more := meta.FailedCases - len(meta.FailedNames); more > 0 {
		yellow.Fprintf(f.out, "  ... and %d more\n", more)
	}
}

// PrintSuites lists the registered suites
func (f *Formatter) PrintSuites(r *registry.Registry) {
	t := table.NewWriter()
	t.SetOutputMirror(f.out)
	t.AppendHeader(table.Row{"Suite", "Cases", "Description"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Cases", Align: text.AlignRight},
		{Name: "Description", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
	})
	for _, name := range r.Names() {
		def, _ := r.Lookup(name)
		t.AppendRow(table.Row{name, len(def.Cases), def.Description})
	}
	t.Render()
}

// PrintCaseList prints the cases of a suite with the group each one runs in.
// A group starts at every case without the parallel flag.
func (f *Formatter) PrintCaseList(suite string, cases []registry.CaseDef) {
	f.header(fmt.Sprintf("Suite %s", suite))

	t := table.NewWriter()
	t.SetOutputMirror(f.out)
	t.AppendHeader(table.Row{"#", "Group", "Name", "Flags"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "#", Align: text.AlignRight},
		{Name: "Group", Align: text.AlignRight},
	})
	group := 0
	for i, c := range cases {
		if i == 0 || !c.Flags.Has(unittest.Parallel) {
			group++
		}
		t.AppendRow(table.Row{i + 1, group, c.Name, c.Flags.String()})
	}
	t.Render()
}

// Package report prints rename decisions and journal sessions.
package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Digital-Shane/otr-tidy/internal/core"
	"github.com/Digital-Shane/otr-tidy/internal/log"
	"github.com/Digital-Shane/otr-tidy/internal/tui/theme"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-runewidth"
)

// Status classifies a decision.
type Status int

const (
	StatusRenamed Status = iota
	StatusPlanned
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusRenamed:
		return "renamed"
	case StatusPlanned:
		return "planned"
	case StatusSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

func (s Status) badge() theme.BadgeKind {
	switch s {
	case StatusRenamed:
		return theme.BadgeSuccess
	case StatusPlanned:
		return theme.BadgeInfo
	case StatusSkipped:
		return theme.BadgeMuted
	default:
		return theme.BadgeError
	}
}

// StatusOf classifies d.
func StatusOf(d core.Decision) Status {
	switch {
	case d.Err != nil:
		return StatusFailed
	case d.Performed:
		return StatusRenamed
	case d.Skipped != "":
		return StatusSkipped
	default:
		return StatusPlanned
	}
}

// Line renders one decision for live output.
func Line(d core.Decision, th theme.Theme) string {
	status := StatusOf(d)
	badge := th.BadgeStyle(status.badge()).Render(strings.ToUpper(status.String()))
	source := th.MutedStyle().Render(filepath.Base(d.Source))

	switch status {
	case StatusFailed:
		return fmt.Sprintf("%s %s %s", badge, source, d.Err)
	case StatusSkipped:
		return fmt.Sprintf("%s %s (%s)", badge, source, d.Skipped)
	default:
		return fmt.Sprintf("%s %s %s %s", badge, source, th.Icon("arrow"), d.Destination)
	}
}

// Summary counts decisions per status.
type Summary struct {
	Renamed int
	Planned int
	Skipped int
	Failed  int
}

func Summarize(decisions []core.Decision) Summary {
	var s Summary
	for _, d := range decisions {
		switch StatusOf(d) {
		case StatusRenamed:
			s.Renamed++
		case StatusPlanned:
			s.Planned++
		case StatusSkipped:
			s.Skipped++
		case StatusFailed:
			s.Failed++
		}
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("%d renamed, %d planned, %d skipped, %d failed", s.Renamed, s.Planned, s.Skipped, s.Failed)
}

// Table renders decisions as a table whose name columns are cut to
// nameWidth cells. A nameWidth of zero disables truncation.
func Table(decisions []core.Decision, nameWidth int) string {
	if len(decisions) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Status", "Recording", "Result"})

	for _, d := range decisions {
		status := StatusOf(d)
		result := d.Destination
		switch status {
		case StatusFailed:
			result = d.Err.Error()
		case StatusSkipped:
			result = d.Skipped
		}
		tw.AppendRow(table.Row{
			status.String(),
			truncate(filepath.Base(d.Source), nameWidth),
			truncate(result, nameWidth),
		})
	}

	s := Summarize(decisions)
	tw.AppendFooter(table.Row{"", "", s.String()})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft, AlignHeader: text.AlignLeft, AlignFooter: text.AlignRight},
	})
	return tw.Render()
}

// Sessions renders journal sessions, newest first, for undo --list.
func Sessions(summaries []log.SessionSummary) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "When", "Renames", "Failed", "Command", "Undone"})

	for i, s := range summaries {
		meta := s.Session.Metadata
		undone := ""
		if meta.UndoneAt != nil {
			undone = meta.UndoneAt.Local().Format("2006-01-02 15:04")
		}
		tw.AppendRow(table.Row{
			i + 1,
			s.RelativeTime,
			meta.SuccessfulOps,
			meta.FailedOps,
			truncate(strings.Join(meta.CommandArgs, " "), 48),
			undone,
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	return tw.Render()
}

func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

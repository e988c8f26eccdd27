package controllers

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

const summaryLabelWidth = 22

type summaryRow struct {
	label string
	value string
	warn  bool
}

type summaryStyles struct {
	title lipgloss.Style
	label lipgloss.Style
	value lipgloss.Style
	warn  lipgloss.Style
	rule  lipgloss.Style
}

func newSummaryStyles(color bool) summaryStyles {
	if !color {
		plain := lipgloss.NewStyle()
		return summaryStyles{
			title: plain,
			label: plain.Width(summaryLabelWidth),
			value: plain,
			warn:  plain,
			rule:  plain,
		}
	}

	return summaryStyles{
		title: lipgloss.NewStyle().Foreground(lipgloss.Color("#64b5f6")).Bold(true),
		label: lipgloss.NewStyle().Width(summaryLabelWidth),
		value: lipgloss.NewStyle().Bold(true),
		warn:  lipgloss.NewStyle().Foreground(lipgloss.Color("#fff59d")).Bold(true),
		rule:  lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
	}
}

// renderSummary lays rows out as a two-column label/value table under a title.
func renderSummary(title string, rows []summaryRow, color bool) string {
	styles := newSummaryStyles(color)

	width := len(title)
	for _, row := range rows {
		width = max(width, summaryLabelWidth+len(row.value))
	}

	var sb strings.Builder
	sb.WriteString(styles.title.Render(title))
	sb.WriteString("\n")
	sb.WriteString(styles.rule.Render(strings.Repeat("─", width)))
	sb.WriteString("\n")
	for _, row := range rows {
		valueStyle := styles.value
		if row.warn {
			valueStyle = styles.warn
		}
		sb.WriteString(styles.label.Render(row.label))
		sb.WriteString(valueStyle.Render(row.value))
		sb.WriteString("\n")
	}
	return sb.String()
}

func printSummary(w io.Writer, title string, rows []summaryRow) {
	_, _ = fmt.Fprint(w, "\n"+renderSummary(title, rows, isTerminal(w)))
}

// isTerminal is false for anything but a terminal-backed file, so redirected output stays plain.
func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

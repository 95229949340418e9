package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const keyWidth = 26

// Styles used by the text renderer
type Styles struct {
	Title lipgloss.Style
	Key   lipgloss.Style
	Value lipgloss.Style
	Muted lipgloss.Style
	Error lipgloss.Style
	Code  lipgloss.Style
}

// DefaultStyles returns the terminal palette
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A")).MarginBottom(1),
		Key:   lipgloss.NewStyle().Bold(true).Width(keyWidth),
		Value: lipgloss.NewStyle(),
		Muted: lipgloss.NewStyle().Foreground(lipgloss.Color("#8b949e")),
		Error: lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935")),
		Code:  lipgloss.NewStyle().PaddingLeft(2),
	}
}

// RenderText writes the job spec page to w
func RenderText(w io.Writer, page Page, styles Styles) error {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render("Job Spec Detail"))
	sb.WriteString("\n")

	if page.Fetching {
		sb.WriteString(styles.Muted.Render(FetchingText))
		sb.WriteString("\n")
		_, err := io.WriteString(w, sb.String())
		return err
	}

	writeRows(&sb, page.Summary, styles)

	sb.WriteString("\n")
	sb.WriteString(styles.Title.Render("Definition"))
	sb.WriteString("\n")
	sb.WriteString(styles.Code.Render(page.Definition))
	sb.WriteString("\n\n")

	sb.WriteString(styles.Title.Render("Last Run"))
	sb.WriteString("\n")
	if len(page.LatestRuns) == 0 {
		sb.WriteString(styles.Muted.Render("No runs"))
		sb.WriteString("\n")
	}
	for _, r := range page.LatestRuns {
		line := fmt.Sprintf("%-36s  %-22s  %s", r.ID, r.Status, r.CreatedAt)
		if r.Error != "" {
			line += "  " + styles.Error.Render(r.Error)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// RenderDetailsText writes the job run details to w
func RenderDetailsText(w io.Writer, d Details, styles Styles) error {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render("Job Run Detail"))
	sb.WriteString("\n")
	writeRows(&sb, d.Rows, styles)

	sb.WriteString(styles.Key.Render(LabelTasks))
	sb.WriteString("\n")
	if len(d.Tasks) == 0 {
		sb.WriteString(styles.Muted.Render("  no tasks"))
		sb.WriteString("\n")
	}
	for _, t := range d.Tasks {
		line := fmt.Sprintf("  %d. %-16s %-22s", t.Position, t.Type, t.Status)
		if t.Confirmations != "" {
			line += " " + t.Confirmations
		}
		if t.TxHash != "" {
			line += " " + t.TxHash
		}
		sb.WriteString(strings.TrimRight(line, " "))
		if t.Error != nil {
			sb.WriteString(" " + styles.Error.Render(*t.Error))
		}
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeRows(sb *strings.Builder, rows []Row, styles Styles) {
	for _, r := range rows {
		value := styles.Value
		if r.Key == LabelError {
			value = styles.Error
		}
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, styles.Key.Render(r.Key), value.Render(r.Value)))
		sb.WriteString("\n")
	}
}

package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/ntsearch/internal/search"
)

// renderHeader returns a styled header with an optional muted subtitle.
func renderHeader(title, subtitle string, width int) string {
	title = truncateEnd(title, width-2)
	subtitle = truncateMiddle(subtitle, width-2)
	rows := []string{HeaderStyle.Render(title)}
	if subtitle != "" {
		rows = append(rows, renderMuted(subtitle))
	}
	return lipgloss.JoinVertical(lipgloss.Top, rows...)
}

// renderFormRow lays out a label, an input and an optional error on one line.
func renderFormRow(label, input string, focused bool, err error) string {
	marker := "  "
	if focused {
		marker = lipgloss.NewStyle().Foreground(AccentColor).Render("› ")
	}
	row := marker + LabelStyle.Render(label) + input
	if err != nil {
		row += "  " + FieldErrorStyle.Render(err.Error())
	}
	return row
}

// renderChips renders selected labels as chips.
func renderChips(labels []string) string {
	if len(labels) == 0 {
		return ""
	}
	chips := make([]string, len(labels))
	for i, l := range labels {
		chips[i] = ChipStyle.Render(l)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}

// renderPageLinks renders the visible window of page numbers with the
// current page highlighted, e.g. "‹ 3 4 [5] 6 7 ›".
func renderPageLinks(p search.Paging, numPages int) string {
	first, last := p.Window(numPages)
	if first == 0 {
		return ""
	}
	parts := make([]string, 0, last-first+3)
	if first > 1 {
		parts = append(parts, renderMuted("‹"))
	}
	for n := first; n <= last; n++ {
		label := strconv.Itoa(n)
		if n == p.CurrentPage {
			parts = append(parts, CurrentPageStyle.Render(label))
		} else {
			parts = append(parts, renderMuted(label))
		}
	}
	if last < numPages {
		parts = append(parts, renderMuted("›"))
	}
	return strings.Join(parts, " ")
}

func renderMuted(text string) string {
	return lipgloss.NewStyle().Foreground(MutedColor).Render(text)
}

func renderHelp(text string) string {
	return HelpStyle.Render(text)
}

// renderCentered centers content within the given box.
func renderCentered(width, height int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

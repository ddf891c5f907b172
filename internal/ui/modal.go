package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderModal centers a bordered box over a blank backdrop. Every popover
// (type/price filters, sort menu, help, sign-in) goes through here so they
// all share one look.
func (m Model) renderModal(title, content string, width int) string {
	styles := m.theme.Styles()

	// Width covers the padded block, so the rule is four cells narrower.
	var body string
	if title != "" {
		header := styles.Text.Bold(true).Render(title)
		rule := styles.FaintText.Render(strings.Repeat("─", max(0, width-4)))
		body = header + "\n" + rule + "\n\n" + content
	} else {
		body = content
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Padding(1, 2).
		Width(width)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(body),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

package ui

import (
	"strings"
)

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	sections := []helpSection{
		{
			title: "Navigation",
			items: []helpItem{
				{"j/k", "Move up/down"},
				{"g/G", "Go to top/bottom"},
				{"tab", "Switch table/detail pane"},
				{"esc", "Close or go back"},
			},
		},
		{
			title: "Query",
			items: []helpItem{
				{"/", "Search listing text"},
				{"t", "Filter property types"},
				{"p", "Filter price range"},
				{"s", "Sort columns"},
				{"x", "Reset filters"},
				{"R", "Refresh now"},
			},
		},
		{
			title: "Pages",
			items: []helpItem{
				{"←/→ or [/]", "Previous/next page"},
				{"+/-", "Bigger/smaller pages"},
			},
		},
		{
			title: "General",
			items: []helpItem{
				{"l", "Client log"},
				{"u", "Sign out / sign in"},
				{"T", "Cycle theme"},
				{"?", "Toggle help"},
				{"q/ctrl+c", "Quit"},
			},
		},
	}

	var b strings.Builder

	title := styles.Text.Bold(true).Render("Keyboard Shortcuts")
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 32)))
	b.WriteString("\n\n")

	for i, section := range sections {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")

		for _, item := range section.items {
			b.WriteString(styles.WarningText.Width(14).Render(item.key))
			b.WriteString(styles.Text.Render(item.desc))
			b.WriteString("\n")
		}

		if i < len(sections)-1 {
			b.WriteString("\n")
		}
	}

	return m.renderModal("", b.String(), 44)
}

type helpSection struct {
	title string
	items []helpItem
}

type helpItem struct {
	key  string
	desc string
}

package ui

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/raovat-dev/raovat/internal/bangtin"
)

// typeFilterState holds the property-type checkbox modal.
type typeFilterState struct {
	cursor  int
	checked map[bangtin.PropertyType]bool
}

// openTypeFilter seeds the modal from the applied filter and shows it.
func (m *Model) openTypeFilter() {
	checked := make(map[bangtin.PropertyType]bool, len(m.filter.Types))
	for _, t := range m.filter.Types {
		checked[t] = true
	}
	m.typeFilter = typeFilterState{checked: checked}
	m.showTypeFilter = true
}

// handleTypeFilterKey processes keyboard input for the type filter modal.
func (m Model) handleTypeFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	types := bangtin.AllPropertyTypes()

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.showTypeFilter = false
		return m, nil

	case "j", "down":
		if m.typeFilter.cursor < len(types)-1 {
			m.typeFilter.cursor++
		}
		return m, nil

	case "k", "up":
		if m.typeFilter.cursor > 0 {
			m.typeFilter.cursor--
		}
		return m, nil

	case " ":
		t := types[m.typeFilter.cursor]
		m.typeFilter.checked[t] = !m.typeFilter.checked[t]
		return m, nil

	case "x":
		clear(m.typeFilter.checked)
		return m, nil

	case "enter":
		m.showTypeFilter = false
		selected := m.typeFilter.selection()
		if slices.Equal(selected, m.filter.Types) {
			return m, nil
		}
		f := m.filter
		f.Types = selected
		return m, m.applyFilter(f)
	}

	return m, nil
}

// selection returns the checked types in canonical order. An empty result
// means no restriction.
func (s typeFilterState) selection() []bangtin.PropertyType {
	var out []bangtin.PropertyType
	for _, t := range bangtin.AllPropertyTypes() {
		if s.checked[t] {
			out = append(out, t)
		}
	}
	return out
}

// renderTypeFilter renders the property-type checkbox modal.
func (m Model) renderTypeFilter() string {
	styles := m.theme.Styles()

	var b strings.Builder
	for i, t := range bangtin.AllPropertyTypes() {
		selected := i == m.typeFilter.cursor

		cursor := "  "
		if selected {
			cursor = styles.AccentText.Render("› ")
		}

		box := "[ ]"
		if m.typeFilter.checked[t] {
			box = "[x]"
		}

		boxStyle := styles.Text.Bold(selected)
		labelStyle := styles.TypeText(string(t)).Bold(selected)

		b.WriteString(cursor)
		b.WriteString(boxStyle.Render(box + " "))
		b.WriteString(labelStyle.Render(padRight(TypeLabel(t), 10)))
		b.WriteString(styles.FaintText.Render(string(t)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("Nothing checked means every type."))
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("Space: Toggle · x: Clear · enter: Apply · esc: Cancel"))

	return m.renderModal("Property types", b.String(), 56)
}

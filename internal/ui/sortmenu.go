package ui

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/raovat-dev/raovat/internal/query"
)

// sortMenuState holds the sort-key modal.
type sortMenuState struct {
	cursor int
	errMsg string
}

// fieldLabels name the sortable columns in the menu and the grid header.
var fieldLabels = map[query.Field]string{
	query.FieldCreatedAt:     "Created",
	query.FieldPriceTotalVND: "Price",
	query.FieldLocationCity:  "City",
	query.FieldAreaTotalM2:   "Area",
	query.FieldType:          "Type",
}

func fieldLabel(f query.Field) string {
	if label, ok := fieldLabels[f]; ok {
		return label
	}
	return string(f)
}

// openSortMenu shows the sort modal.
func (m *Model) openSortMenu() {
	m.sortMenu = sortMenuState{}
	m.showSortMenu = true
}

// sortKeyFor returns the rank (1-based) and direction of a field in the
// applied sort order, or 0 when the field is unsorted.
func (m Model) sortKeyFor(f query.Field) (int, query.SortDir) {
	for i, key := range m.filter.Sorts {
		if key.Field == f {
			return i + 1, key.Dir
		}
	}
	return 0, ""
}

// cycleSort advances a field through unsorted, ascending, descending and
// back, applying the result immediately. Each change goes out as a fresh
// first-page fetch; responses to older queries are discarded by sequence.
func (m *Model) cycleSort(f query.Field) tea.Cmd {
	sorts := slices.Clone(m.filter.Sorts)

	idx := slices.IndexFunc(sorts, func(k query.SortKey) bool { return k.Field == f })
	switch {
	case idx < 0:
		if len(sorts) >= query.MaxSortKeys {
			m.sortMenu.errMsg = fmt.Sprintf("at most %d sort keys", query.MaxSortKeys)
			return nil
		}
		sorts = append(sorts, query.SortKey{Field: f, Dir: query.SortAsc})
	case sorts[idx].Dir == query.SortAsc:
		sorts[idx].Dir = query.SortDesc
	default:
		sorts = slices.Delete(sorts, idx, idx+1)
	}

	m.sortMenu.errMsg = ""
	filter := m.filter
	filter.Sorts = sorts
	return m.applyFilter(filter)
}

// handleSortMenuKey processes keyboard input for the sort modal.
func (m Model) handleSortMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	fields := query.SortableFields()

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc", "enter":
		m.showSortMenu = false
		return m, nil

	case "j", "down":
		if m.sortMenu.cursor < len(fields)-1 {
			m.sortMenu.cursor++
		}
		return m, nil

	case "k", "up":
		if m.sortMenu.cursor > 0 {
			m.sortMenu.cursor--
		}
		return m, nil

	case " ":
		return m, m.cycleSort(fields[m.sortMenu.cursor])

	case "x":
		if len(m.filter.Sorts) == 0 {
			return m, nil
		}
		m.sortMenu.errMsg = ""
		filter := m.filter
		filter.Sorts = nil
		return m, m.applyFilter(filter)
	}

	return m, nil
}

// renderSortMenu renders the sort modal.
func (m Model) renderSortMenu() string {
	styles := m.theme.Styles()

	var b strings.Builder
	for i, f := range query.SortableFields() {
		selected := i == m.sortMenu.cursor

		cursor := "  "
		if selected {
			cursor = styles.AccentText.Render("› ")
		}

		state := styles.FaintText.Render("·")
		if rank, dir := m.sortKeyFor(f); rank > 0 {
			arrow := "↑"
			if dir == query.SortDesc {
				arrow = "↓"
			}
			state = styles.WarningText.Render(fmt.Sprintf("%s%d", arrow, rank))
		}

		b.WriteString(cursor)
		b.WriteString(styles.Text.Bold(selected).Render(padRight(fieldLabel(f), 12)))
		b.WriteString(state)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.sortMenu.errMsg != "" {
		b.WriteString(styles.DangerText.Render(m.sortMenu.errMsg))
	} else {
		b.WriteString(styles.FaintText.Render("Keys apply in the order added; rows without a value sort last."))
	}
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("Space: Cycle asc/desc/off · x: Clear · esc: Close"))

	return m.renderModal("Sort order", b.String(), 64)
}

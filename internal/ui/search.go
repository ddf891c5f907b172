package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// searchState holds the inline text-search input. The generation counter
// identifies the latest keystroke so that earlier scheduled debounce
// firings can be recognized as stale and dropped.
type searchState struct {
	active bool
	input  textinput.Model
	gen    int
}

func newSearchState() searchState {
	ti := textinput.New()
	ti.Placeholder = "tìm theo nội dung"
	ti.Prompt = "/ "
	ti.CharLimit = 120
	return searchState{input: ti}
}

// searchDebounceMsg fires after a typing pause. gen names the keystroke
// that scheduled it.
type searchDebounceMsg struct {
	gen int
}

func debounceCmd(gen int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return searchDebounceMsg{gen: gen}
	})
}

// openSearch activates the inline search input, seeded with the filter
// currently applied.
func (m Model) openSearch() (tea.Model, tea.Cmd) {
	styles := m.theme.Styles()
	m.search.active = true
	m.search.input.PromptStyle = styles.AccentText
	m.search.input.TextStyle = styles.Text
	m.search.input.SetValue(m.filter.Search)
	m.search.input.CursorEnd()
	return m, m.search.input.Focus()
}

// handleSearchKey processes keyboard input while the search input is active.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		// Cancel editing; whatever filter was applied stays applied.
		m.search.active = false
		m.search.input.Blur()
		m.search.input.SetValue(m.filter.Search)
		m.search.gen++
		return m, nil

	case "enter":
		m.search.active = false
		m.search.input.Blur()
		m.search.gen++
		if value := m.search.input.Value(); value != m.filter.Search {
			f := m.filter
			f.Search = value
			return m, m.applyFilter(f)
		}
		return m, nil
	}

	before := m.search.input.Value()
	var cmd tea.Cmd
	m.search.input, cmd = m.search.input.Update(msg)
	if m.search.input.Value() != before {
		m.search.gen++
		return m, tea.Batch(cmd, debounceCmd(m.search.gen, SearchDebounce))
	}
	return m, cmd
}

// handleSearchDebounce applies the search text once typing has paused.
func (m Model) handleSearchDebounce(msg searchDebounceMsg) (tea.Model, tea.Cmd) {
	if !m.search.active || msg.gen != m.search.gen {
		// Superseded by later typing, enter, or esc.
		return m, nil
	}
	value := m.search.input.Value()
	if value == m.filter.Search {
		return m, nil
	}
	f := m.filter
	f.Search = value
	return m, m.applyFilter(f)
}

// renderSearchBar renders the inline search input in place of the command bar.
func (m Model) renderSearchBar() string {
	bg := NewBgStyle(m.theme.Surface)
	styles := m.theme.Styles().WithBackground(m.theme.Surface)

	line := bg.Space() + m.search.input.View() +
		bg.Spaces(2) +
		styles.FaintText.Render("enter: Apply · esc: Cancel")
	return bg.FillLine(line, m.width)
}

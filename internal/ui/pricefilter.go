package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/raovat-dev/raovat/internal/query"
)

// Price bounds are entered in triệu (millions of đồng), the unit listings
// quote. 500 means 500.000.000 ₫.
const trieuPerVND = 1_000_000

// priceFilterState holds the price-range modal.
type priceFilterState struct {
	minInput        textinput.Model
	maxInput        textinput.Model
	excludeUnpriced bool
	focusIdx        int // 0 = min, 1 = max, 2 = toggle
	errMsg          string
}

func newPriceFilterState() priceFilterState {
	minInput := textinput.New()
	minInput.Placeholder = "min"
	minInput.Prompt = ""
	minInput.CharLimit = 9
	minInput.Width = 10

	maxInput := textinput.New()
	maxInput.Placeholder = "max"
	maxInput.Prompt = ""
	maxInput.CharLimit = 9
	maxInput.Width = 10

	return priceFilterState{minInput: minInput, maxInput: maxInput}
}

// openPriceFilter seeds the modal from the applied filter and shows it.
func (m *Model) openPriceFilter() {
	s := newPriceFilterState()
	if v := m.filter.Price.MinVND; v != nil {
		s.minInput.SetValue(strconv.FormatInt(*v/trieuPerVND, 10))
	}
	if v := m.filter.Price.MaxVND; v != nil {
		s.maxInput.SetValue(strconv.FormatInt(*v/trieuPerVND, 10))
	}
	s.excludeUnpriced = m.filter.Price.ExcludeUnpriced
	s.minInput.Focus()
	m.priceFilter = s
	m.showPriceFilter = true
}

// setFocus moves focus to the given slot, blurring the inputs as needed.
func (s *priceFilterState) setFocus(idx int) {
	s.focusIdx = (idx + 3) % 3
	s.minInput.Blur()
	s.maxInput.Blur()
	switch s.focusIdx {
	case 0:
		s.minInput.Focus()
	case 1:
		s.maxInput.Focus()
	}
}

// parse converts the form into a PriceRange. The error text is shown inline
// next to the inputs.
func (s priceFilterState) parse() (query.PriceRange, error) {
	var r query.PriceRange
	r.ExcludeUnpriced = s.excludeUnpriced

	minVND, err := parseTrieu(s.minInput.Value())
	if err != nil {
		return r, fmt.Errorf("min: %w", err)
	}
	maxVND, err := parseTrieu(s.maxInput.Value())
	if err != nil {
		return r, fmt.Errorf("max: %w", err)
	}
	r.MinVND = minVND
	r.MaxVND = maxVND

	if err := r.Validate(); err != nil {
		return r, fmt.Errorf("minimum exceeds maximum")
	}
	return r, nil
}

// parseTrieu parses a whole number of triệu into đồng. Blank means unbounded.
func parseTrieu(s string) (*int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("enter a whole number of triệu")
	}
	vnd := n * trieuPerVND
	return &vnd, nil
}

// handlePriceFilterKey processes keyboard input for the price filter modal.
func (m Model) handlePriceFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.showPriceFilter = false
		return m, nil

	case "tab", "down":
		m.priceFilter.setFocus(m.priceFilter.focusIdx + 1)
		return m, nil

	case "shift+tab", "up":
		m.priceFilter.setFocus(m.priceFilter.focusIdx - 1)
		return m, nil

	case " ":
		if m.priceFilter.focusIdx == 2 {
			m.priceFilter.excludeUnpriced = !m.priceFilter.excludeUnpriced
			return m, nil
		}

	case "enter":
		r, err := m.priceFilter.parse()
		if err != nil {
			// Invalid bounds never reach the applied filter.
			m.priceFilter.errMsg = err.Error()
			return m, nil
		}
		m.showPriceFilter = false
		f := m.filter
		f.Price = r
		return m, m.applyFilter(f)
	}

	// Route remaining keys to the focused input.
	var cmd tea.Cmd
	switch m.priceFilter.focusIdx {
	case 0:
		m.priceFilter.minInput, cmd = m.priceFilter.minInput.Update(msg)
	case 1:
		m.priceFilter.maxInput, cmd = m.priceFilter.maxInput.Update(msg)
	}
	if m.priceFilter.errMsg != "" && msg.Type == tea.KeyRunes {
		m.priceFilter.errMsg = ""
	}
	return m, cmd
}

// renderPriceFilter renders the price-range modal.
func (m Model) renderPriceFilter() string {
	styles := m.theme.Styles()

	label := func(text string, idx int) string {
		if m.priceFilter.focusIdx == idx {
			return styles.AccentText.Bold(true).Render(padRight(text, 14))
		}
		return styles.MutedText.Render(padRight(text, 14))
	}

	var b strings.Builder
	b.WriteString(label("Min (triệu)", 0))
	b.WriteString(m.priceFilter.minInput.View())
	b.WriteString("\n")
	b.WriteString(label("Max (triệu)", 1))
	b.WriteString(m.priceFilter.maxInput.View())
	b.WriteString("\n\n")

	box := "[ ]"
	if m.priceFilter.excludeUnpriced {
		box = "[x]"
	}
	toggle := box + " Hide posts without a price"
	if m.priceFilter.focusIdx == 2 {
		b.WriteString(styles.AccentText.Bold(true).Render(toggle))
	} else {
		b.WriteString(styles.Text.Render(toggle))
	}
	b.WriteString("\n\n")

	if m.priceFilter.errMsg != "" {
		b.WriteString(styles.DangerText.Render(m.priceFilter.errMsg))
	} else {
		b.WriteString(styles.FaintText.Render("500 triệu = 0,5 tỷ. Blank means unbounded."))
	}
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("tab: Next field · Space: Toggle · enter: Apply · esc: Cancel"))

	return m.renderModal("Price range", b.String(), 60)
}

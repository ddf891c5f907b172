package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/raovat-dev/raovat/internal/bangtin"
	"github.com/raovat-dev/raovat/internal/query"
)

// postColumn describes one grid column. Sortable columns carry the query
// field so the header can show the active sort marker.
type postColumn struct {
	label string
	width int
	field query.Field // empty when the column is not sortable
	value func(m Model, p bangtin.Post) string
}

// visibleColumns returns the columns that fit the table pane, widest first
// to drop. The body column always comes last and takes the rest of the line.
func visibleColumns(paneWidth int) []postColumn {
	cols := []postColumn{
		{label: "ID", width: 6, value: func(_ Model, p bangtin.Post) string {
			return fmt.Sprintf("#%d", p.ID)
		}},
		{label: "TYPE", width: 10, field: query.FieldType, value: func(_ Model, p bangtin.Post) string {
			return TypeLabel(p.Type)
		}},
		{label: "PRICE", width: 15, field: query.FieldPriceTotalVND, value: func(_ Model, p bangtin.Post) string {
			return FormatPrice(p.Price)
		}},
	}

	if paneWidth >= 66 {
		cols = append(cols, postColumn{label: "AREA", width: 11, field: query.FieldAreaTotalM2, value: func(_ Model, p bangtin.Post) string {
			return FormatAreaDims(p.Area)
		}})
	}
	if paneWidth >= 52 {
		cols = append(cols, postColumn{label: "CITY", width: 12, field: query.FieldLocationCity, value: func(_ Model, p bangtin.Post) string {
			if p.Location != nil && p.Location.City != nil {
				return *p.Location.City
			}
			return missingMark
		}})
	}
	if paneWidth >= 88 {
		cols = append(cols, postColumn{label: "CREATED", width: 11, field: query.FieldCreatedAt, value: func(_ Model, p bangtin.Post) string {
			if t := p.ParsedCreatedAt(); !t.IsZero() {
				return t.Format("2006-01-02")
			}
			return missingMark
		}})
	}

	return cols
}

// Selection helpers

func (m Model) selectedPost() *bangtin.Post {
	if m.selectedRow < 0 || m.selectedRow >= len(m.posts) {
		return nil
	}
	return &m.posts[m.selectedRow]
}

func (m Model) selectedPostID() int64 {
	if p := m.selectedPost(); p != nil {
		return p.ID
	}
	return 0
}

// restoreSelection keeps the cursor on the same post across a reload when it
// survived, otherwise clamps to the new row count.
func (m *Model) restoreSelection(id int64) {
	if len(m.posts) == 0 {
		m.selectedRow = 0
		return
	}
	if id > 0 {
		for i := range m.posts {
			if m.posts[i].ID == id {
				m.selectedRow = i
				return
			}
		}
	}
	if m.selectedRow >= len(m.posts) {
		m.selectedRow = len(m.posts) - 1
	}
}

// paneWidths splits the content area between the table and the detail pane.
// The table carries the data so it gets the larger share.
func (m Model) paneWidths() (tableWidth, detailWidth int) {
	if m.width >= LayoutExtraWideWidth {
		tableWidth = m.width * 55 / 100
	} else {
		tableWidth = m.width * 60 / 100
	}
	return tableWidth, m.width - tableWidth
}

// renderPosts renders the grid view with split layout (table + detail).
func (m Model) renderPosts() string {
	styles := m.theme.Styles()
	contentHeight := m.height - 2 // account for header + cmdbar

	if !m.loaded {
		var msg string
		switch {
		case m.fetchErr != "":
			msg = styles.DangerText.Render(truncate(m.fetchErr, max(20, m.width-8)))
		case m.loading:
			msg = styles.MutedText.Render("Fetching posts...")
		default:
			msg = styles.MutedText.Render("No data yet")
		}
		return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, msg)
	}

	tableWidth, detailWidth := m.paneWidths()

	// === Table pane ===
	tableFocused := m.focusedPane == 0
	tableBg := m.theme.SurfaceAlt
	if tableFocused {
		tableBg = m.theme.FocusBg
	}
	tableContent := m.renderPostsTable(tableWidth-2, contentHeight-2, tableBg)
	tablePane := m.renderTitledBox(m.postsTitle(), tableContent, tableWidth, contentHeight, tableFocused)

	// === Detail pane ===
	detailFocused := m.focusedPane == 1
	var detailContent string
	if m.selectedPost() != nil {
		detailContent = m.detailViewport.View()
	} else {
		detailBg := m.theme.SurfaceAlt
		if detailFocused {
			detailBg = m.theme.FocusBg
		}
		detailContent = lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.theme.Muted)).
			Background(lipgloss.Color(detailBg)).
			Render("Select a post")
	}
	detailPane := m.renderTitledBox("Details", detailContent, detailWidth, contentHeight, detailFocused)

	return lipgloss.JoinHorizontal(lipgloss.Top, tablePane, detailPane)
}

// postsTitle returns the table pane title with the match count and an
// indicator when a filter narrows the results.
func (m Model) postsTitle() string {
	title := fmt.Sprintf("Posts (%d)", m.total)
	if !m.filter.IsZero() {
		title += " · filtered"
	}
	if m.loading {
		title += " …"
	}
	return title
}

// renderPostsTable renders the column header and one line per post, keeping
// the selected row in view.
func (m Model) renderPostsTable(width, height int, bgColor string) string {
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()
	cols := visibleColumns(width)

	lines := []string{m.renderColumnHeader(cols, width, bgColor)}

	if len(m.posts) == 0 {
		lines = append(lines, "", bg.Render("  No posts match the current filters.", styles.MutedText))
		if !m.filter.IsZero() {
			lines = append(lines, bg.Render("  x resets them.", styles.FaintText))
		}
		return strings.Join(lines, "\n")
	}

	// Window the rows so the selection stays visible.
	visible := max(1, height-1) // header line
	start := 0
	if m.selectedRow >= visible {
		start = m.selectedRow - visible + 1
	}
	end := min(len(m.posts), start+visible)

	for i := start; i < end; i++ {
		lines = append(lines, m.formatPostRow(m.posts[i], cols, width, bgColor, i == m.selectedRow))
	}

	return strings.Join(lines, "\n")
}

// renderColumnHeader renders the column labels with sort markers.
func (m Model) renderColumnHeader(cols []postColumn, width int, bgColor string) string {
	bg := NewBgStyle(bgColor)
	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Muted)).Bold(true)
	markerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Warning)).Bold(true)

	var b strings.Builder
	used := 0
	for _, col := range cols {
		label := col.label
		marker := ""
		if col.field != "" {
			marker = m.sortMarker(col.field)
		}
		cell := padRight(label+marker, col.width)
		if marker != "" {
			// Split the cell so the marker gets its own color.
			b.WriteString(bg.Render(label, headerStyle))
			b.WriteString(bg.Render(padRight(marker, col.width-runeCount(label)), markerStyle))
		} else {
			b.WriteString(bg.Render(cell, headerStyle))
		}
		used += col.width
	}
	if rest := width - used; rest > 0 {
		b.WriteString(bg.Render(padRight("BODY", rest), headerStyle))
	}
	return b.String()
}

// sortMarker renders the direction arrow and, when several keys are active,
// the key's rank.
func (m Model) sortMarker(f query.Field) string {
	rank, dir := m.sortKeyFor(f)
	if rank == 0 {
		return ""
	}
	arrow := "↑"
	if dir == query.SortDesc {
		arrow = "↓"
	}
	if len(m.filter.Sorts) == 1 {
		return arrow
	}
	return fmt.Sprintf("%s%d", arrow, rank)
}

// formatPostRow formats one grid row with inline colors. When selected is
// true, all text uses SelectionText to keep contrast on the selection bar.
func (m Model) formatPostRow(post bangtin.Post, cols []postColumn, width int, bgColor string, selected bool) string {
	rowBg := bgColor
	if selected {
		rowBg = m.theme.SelectionBg
	}
	bg := NewBgStyle(rowBg)

	styles := m.theme.Styles()
	selText := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))

	cellStyle := func(col postColumn) lipgloss.Style {
		if selected {
			return selText
		}
		switch col.label {
		case "ID":
			return styles.MutedText
		case "TYPE":
			return styles.TypeText(string(post.Type))
		case "PRICE":
			return styles.Text
		default:
			return styles.MutedText
		}
	}

	var b strings.Builder
	used := 0
	for _, col := range cols {
		b.WriteString(bg.Render(padRight(col.value(m, post), col.width), cellStyle(col)))
		used += col.width
	}

	if rest := width - used; rest > 0 {
		bodyStyle := styles.Text
		if selected {
			bodyStyle = selText
		}
		b.WriteString(bg.Render(padRight(collapseSpace(post.Body), rest), bodyStyle))
	}

	// Explicitly fill the trailing gap so the selection bar spans the pane.
	content := b.String()
	if gap := width - lipgloss.Width(content); gap > 0 {
		content += bg.Spaces(gap)
	}
	return content
}

// renderTitledBox renders content in a box with the title embedded in the
// top border: ┌─── Title ───┐. Focus switches the border and fill colors.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	var borderColorStr, bgColorStr string
	if focused {
		borderColorStr = m.theme.BorderFocus
		bgColorStr = m.theme.FocusBg
	} else {
		borderColorStr = m.theme.Border
		bgColorStr = m.theme.SurfaceAlt
	}
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	// Top border with the title centered in it.
	innerWidth := width - 2
	titleWidth := lipgloss.Width(title)
	leftPad := max(0, (innerWidth-titleWidth-2)/2)
	rightPad := max(0, innerWidth-titleWidth-2-leftPad)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).Background(lipgloss.Color(bgColorStr))

	contentLines := strings.Split(content, "\n")
	boxHeight := height - 2

	var paddedLines []string
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		paddedLines = append(paddedLines,
			bg.Render("│", borderStyle)+
				contentStyle.Render(line)+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(paddedLines, "\n") + "\n" + bottomBorder
}

func runeCount(s string) int {
	return len([]rune(s))
}

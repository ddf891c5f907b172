package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"

	"github.com/raovat-dev/raovat/internal/bangtin"
)

func (m *Model) initDetailViewport() {
	m.detailViewport = viewport.New(0, 0)
}

// resizeViewports fits the detail and log viewports to the current window.
func (m *Model) resizeViewports() {
	contentHeight := m.height - 2

	_, detailWidth := m.paneWidths()
	m.detailViewport.Width = max(10, detailWidth-4)
	m.detailViewport.Height = max(1, contentHeight-2)

	m.logView.viewport.Width = max(10, m.width-4)
	m.logView.viewport.Height = max(1, contentHeight-2)
}

// updateDetailViewport re-renders the detail pane for the current selection.
// The scroll position survives re-renders of the same post so tabbing into
// the pane or a background refresh does not jump back to the top.
func (m *Model) updateDetailViewport() {
	if !m.ready {
		return
	}

	post := m.selectedPost()
	if post == nil {
		m.detailViewport.SetContent("")
		m.lastDetailID = 0
		return
	}

	bgColor := m.theme.SurfaceAlt
	if m.focusedPane == 1 {
		bgColor = m.theme.FocusBg
	}

	m.detailViewport.SetContent(m.renderDetailContent(*post, m.detailViewport.Width, bgColor))
	if post.ID != m.lastDetailID {
		m.detailViewport.GotoTop()
		m.lastDetailID = post.ID
	}
}

// renderDetailContent renders the full record for one post.
func (m Model) renderDetailContent(post bangtin.Post, width int, bgColor string) string {
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()

	valueWidth := max(10, width-10)
	label := func(s string) string { return bg.Render(padRight(s, 10), styles.MutedText) }
	value := func(s string) string { return bg.Render(truncate(s, valueWidth), styles.Text) }

	var lines []string

	// Identity line: type badge and id.
	badge := styles.TypeBadge(string(post.Type)).Render(TypeLabel(post.Type))
	lines = append(lines, badge+bg.Space()+bg.Render(fmt.Sprintf("#%d", post.ID), styles.MutedText))
	lines = append(lines, "")

	// Listing text.
	for _, l := range wrapText(post.Body, width) {
		lines = append(lines, bg.Render(l, styles.Text))
	}
	lines = append(lines, "")

	// Price block. The grid shows the abbreviated form; here the exact
	// figure leads and the abbreviation follows for orientation.
	if p := post.Price; p != nil && p.TotalVND != nil {
		lines = append(lines, label("Price")+
			bg.Render(FormatVNDExact(*p.TotalVND), styles.Text)+
			bg.Space()+
			bg.Render("("+FormatVND(*p.TotalVND)+")", styles.FaintText))
	} else {
		lines = append(lines, label("Price")+bg.Render(missingMark, styles.FaintText))
	}
	if p := post.Price; p != nil {
		if p.PerM2VND != nil {
			lines = append(lines, label("Per m²")+value(FormatVNDExact(*p.PerM2VND)))
		}
		if p.PerMeterVND != nil {
			lines = append(lines, label("Per meter")+value(FormatVNDExact(*p.PerMeterVND)))
		}
		if p.Negotiable {
			lines = append(lines, label("")+bg.Render("thương lượng", styles.InfoText))
		}
	}

	// Area block.
	if a := post.Area; a != nil {
		var parts []string
		if a.WidthM != nil && a.LengthM != nil {
			parts = append(parts, FormatAreaDims(a))
		}
		if a.TotalM2 != nil {
			parts = append(parts, FormatM2(*a.TotalM2))
		}
		if len(parts) > 0 {
			lines = append(lines, label("Area")+value(strings.Join(parts, " · ")))
		}
		if a.ResidentialM2 != nil {
			lines = append(lines, label("Thổ cư")+value(FormatM2(*a.ResidentialM2)))
		}
		if a.OtherLandType != nil {
			lines = append(lines, label("Land type")+value(*a.OtherLandType))
		}
	}

	// Location block.
	if loc := post.Location; loc != nil {
		var parts []string
		if loc.District != nil {
			parts = append(parts, *loc.District)
		}
		if loc.City != nil {
			parts = append(parts, *loc.City)
		}
		if len(parts) > 0 {
			lines = append(lines, label("Location")+value(strings.Join(parts, ", ")))
		}
		if len(loc.Roads) > 0 {
			lines = append(lines, label("Roads")+value(strings.Join(loc.Roads, ", ")))
		}
		if loc.Proximity != nil {
			lines = append(lines, label("Near")+value(*loc.Proximity))
		}
		if loc.MapURL != nil {
			lines = append(lines, label("Map")+bg.Render(truncateMiddle(*loc.MapURL, valueWidth), styles.AccentText))
		}
	}

	if len(post.SpecialThings) > 0 {
		lines = append(lines, label("Tags")+value(strings.Join(post.SpecialThings, ", ")))
	}

	// Provenance.
	lines = append(lines, "")
	if post.Author != nil {
		lines = append(lines, label("Author")+value(*post.Author))
	}
	if post.SourceURL != nil {
		lines = append(lines, label("Source")+bg.Render(truncateMiddle(*post.SourceURL, valueWidth), styles.AccentText))
	}
	if t := post.ParsedCreatedAt(); !t.IsZero() {
		lines = append(lines, label("Posted")+bg.Render(t.Format("2006-01-02 15:04"), styles.MutedText))
	}
	if t := post.ParsedFetchedAt(); !t.IsZero() {
		lines = append(lines, label("Fetched")+bg.Render(t.Format("2006-01-02 15:04"), styles.MutedText))
	}

	return strings.Join(lines, "\n")
}

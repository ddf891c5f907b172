package ui

import (
	"fmt"
	"strings"
	"time"
)

// renderHeader renders the status bar: identity, session, result counts,
// freshness and the current error if any.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	compact := m.width < LayoutCompactWidth

	var parts []string

	// Logo
	parts = append(parts, bg.Render("rao vặt", styles.Logo))

	// Session indicator
	if m.session.SignedIn() {
		parts = append(parts, bg.Render("● "+m.session.User.Email, styles.SuccessText))
	} else {
		parts = append(parts, bg.Render("● anonymous", styles.WarningText))
	}

	// Result counts
	if m.loaded {
		parts = append(parts,
			bg.Render("Posts:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", m.total), styles.Text),
		)
		parts = append(parts,
			bg.Render("Page:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d/%d", m.page.Index+1, m.totalPages()), styles.Text),
		)
	}

	// Applied search text
	if m.filter.Search != "" {
		parts = append(parts, bg.Render("/"+truncate(m.filter.Search, 18), styles.AccentText))
	}

	// Fetch activity
	if m.loading {
		parts = append(parts, bg.Render("⟳ fetching", styles.InfoText))
	}

	// Freshness
	if timeStr := m.formatTimestamp(); timeStr != "" && !compact {
		parts = append(parts, bg.Render(timeStr, styles.MutedText))
	}

	// Auto refresh indicator
	if m.refreshEvery > 0 && !compact {
		parts = append(parts, bg.Render("auto "+m.refreshEvery.String(), styles.FaintText))
	}

	// Error indicator. The grid keeps showing the last good rows; this is
	// where a failed refresh becomes visible.
	if m.fetchErr != "" {
		maxErr := 60
		if compact {
			maxErr = 30
		}
		parts = append(parts,
			bg.Render(classifyFetchError(m.fetchErr), styles.DangerText.Bold(true))+bg.Space()+
				bg.Render(truncate(m.fetchErr, maxErr), styles.DangerText),
		)
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// formatTimestamp formats the last fetch time with a relative indicator.
func (m Model) formatTimestamp() string {
	if m.lastFetched.IsZero() {
		return ""
	}

	since := time.Since(m.lastFetched)
	timeStr := m.lastFetched.Format("15:04:05")

	switch {
	case since < time.Minute:
		timeStr += " (now)"
	case since < time.Hour:
		timeStr += fmt.Sprintf(" (%dm ago)", int(since.Minutes()))
	case since < 24*time.Hour:
		timeStr += fmt.Sprintf(" (%dh ago)", int(since.Hours()))
	}

	return timeStr
}

// classifyFetchError maps a fetch failure onto a short badge.
func classifyFetchError(msg string) string {
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	case strings.Contains(msg, "status 401"), strings.Contains(msg, "status 403"):
		return "AUTH"
	default:
		return "ERROR"
	}
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	sessionVerb := "Sign in"
	if m.session.SignedIn() {
		sessionVerb = "Sign out"
	}

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewLogs:
		followLabel := "Follow"
		if m.logView.follow {
			followLabel = "Pause"
		}
		commands = []cmd{
			{"Space", followLabel},
			{"j/k", "Scroll"},
			{"r", "Reload"},
			{"esc", "Back"},
			{"?", "More"},
		}
	default: // ViewPosts
		commands = []cmd{
			{"/", "Search"},
			{"t", "Types"},
			{"p", "Price"},
			{"s", "Sort"},
			{"←/→", "Page"},
			{"+/-", fmt.Sprintf("%d/page", m.page.Size)},
			{"u", sessionVerb},
			{"?", "More"},
		}
		if !m.filter.IsZero() {
			commands = append(commands, cmd{"x", "Reset"})
		}
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	// Theme indicator
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}

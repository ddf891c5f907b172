package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/raovat-dev/raovat/internal/logtail"
)

// logViewState holds the client log viewer.
type logViewState struct {
	viewport viewport.Model
	lines    []string
	follow   bool
	loaded   bool
	errMsg   string
}

func (m *Model) initLogViewport() {
	m.logView.viewport = viewport.New(0, 0)
	m.logView.follow = true
}

// logLinesMsg carries a reload of the client log file.
type logLinesMsg struct {
	lines []string
	err   error
}

// reloadLogCmd reads the tail of the client log file.
func (m Model) reloadLogCmd() tea.Cmd {
	path := m.logFile
	if path == "" {
		return func() tea.Msg { return logLinesMsg{err: fmt.Errorf("no log file configured")} }
	}
	return func() tea.Msg {
		lines, err := logtail.Read(path, LogBufferLimit)
		return logLinesMsg{lines: lines, err: err}
	}
}

// handleLogLines applies a log reload.
func (m *Model) handleLogLines(msg logLinesMsg) {
	m.logView.loaded = true
	if msg.err != nil {
		m.logView.errMsg = msg.err.Error()
		return
	}
	m.logView.errMsg = ""
	m.logView.lines = msg.lines
	m.updateLogViewport()
}

// updateLogViewport re-renders the buffered lines into the viewport.
func (m *Model) updateLogViewport() {
	if !m.ready {
		return
	}

	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	width := m.logView.viewport.Width

	rendered := make([]string, 0, len(m.logView.lines))
	for _, line := range m.logView.lines {
		rendered = append(rendered, m.logLineStyle(line, styles).Render(truncate(line, width)))
	}

	m.logView.viewport.SetContent(strings.Join(rendered, "\n"))
	if m.logView.follow {
		m.logView.viewport.GotoBottom()
	}
}

// logLineStyle colors a line by the slog level embedded in it.
func (m Model) logLineStyle(line string, styles Styles) lipgloss.Style {
	switch {
	case strings.Contains(line, "level=ERROR"):
		return styles.DangerText
	case strings.Contains(line, "level=WARN"):
		return styles.WarningText
	case strings.Contains(line, "level=DEBUG"):
		return styles.FaintText
	default:
		return styles.Text
	}
}

// handleLogsKey processes keyboard input for the log view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		m.logView.follow = !m.logView.follow
		if m.logView.follow {
			m.logView.viewport.GotoBottom()
		}
		return m, nil

	case "r":
		return m, m.reloadLogCmd()

	case "j", "down":
		m.logView.viewport.LineDown(1)
		return m, nil

	case "k", "up":
		// Scrolling up means the user wants to read; stop following.
		m.logView.follow = false
		m.logView.viewport.LineUp(1)
		return m, nil

	case "g", "home":
		m.logView.follow = false
		m.logView.viewport.GotoTop()
		return m, nil

	case "G", "end":
		m.logView.viewport.GotoBottom()
		return m, nil
	}

	return m, nil
}

// renderLogView renders the client log pane.
func (m Model) renderLogView() string {
	styles := m.theme.Styles()
	contentHeight := m.height - 2

	title := "Client log"
	if m.logFile != "" {
		title = "Client log · " + truncateMiddle(m.logFile, 48)
	}
	if !m.logView.follow {
		title += " (paused)"
	}

	var content string
	switch {
	case m.logView.errMsg != "":
		content = styles.DangerText.Render(truncate(m.logView.errMsg, max(10, m.width-6)))
	case !m.logView.loaded:
		content = styles.MutedText.Render("Loading log...")
	case len(m.logView.lines) == 0:
		content = styles.MutedText.Render("Log is empty")
	default:
		content = m.logView.viewport.View()
	}

	return m.renderTitledBox(title, content, m.width, contentHeight, true)
}

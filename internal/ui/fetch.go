package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/raovat-dev/raovat/internal/bangtin"
	"github.com/raovat-dev/raovat/internal/query"
)

// Messages

// refreshTickMsg drives the optional auto-refresh interval.
type refreshTickMsg time.Time

// postsMsg carries one fetch result tagged with the sequence number of the
// request that produced it.
type postsMsg struct {
	seq  uint64
	page bangtin.PostPage
	err  error
}

// Commands

func refreshTickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return refreshTickMsg(t)
	})
}

// issueFetch starts a new fetch for the current filter and page. Bumping the
// sequence number first turns every response still in flight stale.
func (m *Model) issueFetch() tea.Cmd {
	m.fetchSeq++
	m.loading = true
	m.logger.Debug("fetching posts", "seq", m.fetchSeq, "page", m.page.Index, "size", m.page.Size)
	return m.fetchCmdFor(m.fetchSeq)
}

// fetchCmdFor builds the fetch command for the given sequence number from
// the current query state.
func (m Model) fetchCmdFor(seq uint64) tea.Cmd {
	req, err := query.Build(m.filter, m.page)
	if err != nil {
		return func() tea.Msg { return postsMsg{seq: seq, err: err} }
	}

	ctx := m.ctx
	fetcher := m.fetcher
	session := m.session
	return func() tea.Msg {
		page, err := fetcher.FetchPosts(ctx, session, req)
		return postsMsg{seq: seq, page: page, err: err}
	}
}

// applyFilter replaces the filter, rewinds to the first page, and reloads.
func (m *Model) applyFilter(f query.Filter) tea.Cmd {
	m.filter = f
	m.page.Index = 0
	m.selectedRow = 0
	return m.issueFetch()
}

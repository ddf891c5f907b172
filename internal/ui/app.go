// Package ui provides the Bubble Tea TUI for the raovat dashboard.
package ui

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/raovat-dev/raovat/internal/bangtin"
	"github.com/raovat-dev/raovat/internal/config"
	"github.com/raovat-dev/raovat/internal/prefs"
	"github.com/raovat-dev/raovat/internal/query"
)

// View represents the current active view.
type View int

const (
	ViewSignIn View = iota
	ViewPosts
	ViewLogs
)

// pageSizes are the selectable page sizes, smallest to largest.
var pageSizes = []int{10, 20, 50, 100}

// Options configures the UI.
type Options struct {
	Context context.Context
	Fetcher bangtin.PostFetcher
	Auth    bangtin.Authenticator
	Config  *config.Config
	Logger  *slog.Logger

	// Session, when non-nil, skips the sign-in view. The app layer sets it
	// after signing in with configured credentials.
	Session *bangtin.Session

	ThemeName    string
	PrefsPath    string
	PageSize     int
	RefreshEvery time.Duration
	LogFile      string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx          context.Context
	fetcher      bangtin.PostFetcher
	auth         bangtin.Authenticator
	config       *config.Config
	logger       *slog.Logger
	prefsPath    string
	refreshEvery time.Duration
	logFile      string

	// Session state
	session bangtin.Session

	// UI state
	theme       Theme
	keys        keyMap
	currentView View
	width       int
	height      int
	ready       bool
	focusedPane int // 0 = table, 1 = detail

	// Query state
	filter query.Filter
	page   query.Page

	// Data state
	posts       []bangtin.Post
	total       int
	loaded      bool // first page arrived
	loading     bool
	fetchSeq    uint64
	fetchErr    string
	lastFetched time.Time

	// Grid state
	selectedRow    int
	detailViewport viewport.Model
	lastDetailID   int64

	// Sign-in state
	signIn signInState

	// Search state
	search searchState

	// Filter modals
	showTypeFilter  bool
	typeFilter      typeFilterState
	showPriceFilter bool
	priceFilter     priceFilterState
	showSortMenu    bool
	sortMenu        sortMenuState

	// Log view state
	logView logViewState

	// Help overlay
	showHelp bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Nightfox"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	m := Model{
		ctx:          ctx,
		fetcher:      opts.Fetcher,
		auth:         opts.Auth,
		config:       opts.Config,
		logger:       logger,
		prefsPath:    prefsPath,
		refreshEvery: opts.RefreshEvery,
		logFile:      opts.LogFile,
		theme:        GetTheme(themeName),
		keys:         DefaultKeyMap(),
		currentView:  ViewSignIn,
		page:         query.Page{Index: 0, Size: snapPageSize(opts.PageSize)},
		signIn:       newSignInState(opts.Config),
		search:       newSearchState(),
		priceFilter:  newPriceFilterState(),
	}

	if opts.Session != nil {
		m.session = *opts.Session
		m.currentView = ViewPosts
		// Init issues the first fetch; mark it in flight here so the
		// first frame shows the loading placeholder.
		m.fetchSeq = 1
		m.loading = true
	}

	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnterAltScreen}

	switch m.currentView {
	case ViewPosts:
		cmds = append(cmds, m.fetchCmdFor(m.fetchSeq))
	case ViewSignIn:
		cmds = append(cmds, m.signIn.focusCmd())
	}

	if m.refreshEvery > 0 {
		cmds = append(cmds, refreshTickCmd(m.refreshEvery))
	}

	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.initDetailViewport()
			m.initLogViewport()
		}
		m.ready = true
		m.resizeViewports()
		m.updateDetailViewport()
		m.updateLogViewport()
		return m, nil

	case refreshTickMsg:
		return m.handleRefreshTick()

	case postsMsg:
		return m.handlePostsMsg(msg)

	case searchDebounceMsg:
		return m.handleSearchDebounce(msg)

	case signInMsg:
		return m.handleSignInMsg(msg)

	case signOutMsg:
		if msg.err != nil {
			m.logger.Warn("sign-out request failed", "error", msg.err)
		}
		return m, nil

	case logLinesMsg:
		m.handleLogLines(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.currentView == ViewSignIn {
		return m.renderSignIn()
	}

	if m.showTypeFilter {
		return m.renderTypeFilter()
	}
	if m.showPriceFilter {
		return m.renderPriceFilter()
	}
	if m.showSortMenu {
		return m.renderSortMenu()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Help overlay: any key closes
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	// The sign-in form owns the keyboard until a session exists.
	if m.currentView == ViewSignIn {
		return m.handleSignInKey(msg)
	}

	// Active text input and modals take priority over global bindings.
	if m.search.active {
		return m.handleSearchKey(msg)
	}
	if m.showTypeFilter {
		return m.handleTypeFilterKey(msg)
	}
	if m.showPriceFilter {
		return m.handlePriceFilterKey(msg)
	}
	if m.showSortMenu {
		return m.handleSortMenuKey(msg)
	}

	// Global keys
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "?":
		m.showHelp = true
		return m, nil

	case "T":
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case "l":
		m.currentView = ViewLogs
		return m, m.reloadLogCmd()

	case "R":
		return m, m.issueFetch()

	case "u":
		return m.signOut()

	case "esc":
		m.currentView = ViewPosts
		return m, nil
	}

	// View-specific keys
	switch m.currentView {
	case ViewPosts:
		return m.handlePostsKey(msg)
	case ViewLogs:
		return m.handleLogsKey(msg)
	}

	return m, nil
}

// handlePostsKey processes keyboard input for the posts grid.
func (m Model) handlePostsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		m.focusedPane = (m.focusedPane + 1) % 2
		// The detail background tracks focus, so re-render its content.
		m.updateDetailViewport()
		return m, nil

	case "/":
		return m.openSearch()

	case "t":
		m.openTypeFilter()
		return m, nil

	case "p":
		m.openPriceFilter()
		return m, nil

	case "s":
		m.openSortMenu()
		return m, nil

	case "x":
		return m.resetQuery()

	case "right", "]":
		return m.gotoPage(m.page.Index + 1)

	case "left", "[":
		return m.gotoPage(m.page.Index - 1)

	case "+", "=":
		return m.stepPageSize(1)

	case "-":
		return m.stepPageSize(-1)
	}

	// Detail pane focused: navigation scrolls the detail viewport.
	if m.focusedPane == 1 {
		switch msg.String() {
		case "j", "down":
			m.detailViewport.LineDown(1)
		case "k", "up":
			m.detailViewport.LineUp(1)
		case "g", "home":
			m.detailViewport.GotoTop()
		case "G", "end":
			m.detailViewport.GotoBottom()
		}
		return m, nil
	}

	// Table focused: navigation moves the selection.
	if len(m.posts) == 0 {
		return m, nil
	}
	switch msg.String() {
	case "j", "down":
		if m.selectedRow < len(m.posts)-1 {
			m.selectedRow++
			m.updateDetailViewport()
		}
	case "k", "up":
		if m.selectedRow > 0 {
			m.selectedRow--
			m.updateDetailViewport()
		}
	case "g", "home":
		m.selectedRow = 0
		m.updateDetailViewport()
	case "G", "end":
		m.selectedRow = len(m.posts) - 1
		m.updateDetailViewport()
	}

	return m, nil
}

// handleRefreshTick re-issues the current query on the configured interval.
func (m Model) handleRefreshTick() (tea.Model, tea.Cmd) {
	if m.refreshEvery <= 0 {
		return m, nil
	}

	cmds := []tea.Cmd{refreshTickCmd(m.refreshEvery)}

	// Only refresh the grid when it is on screen and idle; a refresh
	// mid-modal or mid-fetch would be wasted or shift rows underneath
	// the user.
	if m.currentView == ViewPosts && m.loaded && !m.loading && !m.modalOpen() {
		cmds = append(cmds, m.issueFetch())
	}

	return m, tea.Batch(cmds...)
}

// handlePostsMsg applies a fetch result, discarding stale responses.
func (m Model) handlePostsMsg(msg postsMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.fetchSeq {
		// A newer request is already in flight; this response lost the race.
		m.logger.Debug("discarding stale posts response", "seq", msg.seq, "current", m.fetchSeq)
		return m, nil
	}

	m.loading = false

	if msg.err != nil {
		m.fetchErr = msg.err.Error()
		m.logger.Error("posts fetch failed", "error", msg.err, "page", m.page.Index, "size", m.page.Size)
		return m, nil
	}

	selectedID := m.selectedPostID()

	m.fetchErr = ""
	m.posts = msg.page.Posts
	m.total = msg.page.Total
	m.loaded = true
	m.lastFetched = time.Now()

	m.restoreSelection(selectedID)
	m.updateDetailViewport()

	// The window can land past the end when rows disappear upstream
	// between fetches. Step back to the last page that still has rows.
	if len(m.posts) == 0 && m.total > 0 && m.page.Index > 0 {
		m.page.Index = (m.total - 1) / m.page.Size
		m.logger.Debug("page past end of results, stepping back", "page", m.page.Index)
		return m, m.issueFetch()
	}

	return m, nil
}

// modalOpen reports whether any modal or inline input owns the keyboard.
func (m Model) modalOpen() bool {
	return m.showHelp || m.search.active || m.showTypeFilter || m.showPriceFilter || m.showSortMenu
}

// signOut clears the session and returns to the sign-in view. The revocation
// request runs in the background; its outcome only matters to the log.
func (m Model) signOut() (tea.Model, tea.Cmd) {
	session := m.session
	m.session = bangtin.Session{}
	m.posts = nil
	m.total = 0
	m.loaded = false
	m.loading = false
	m.fetchErr = ""
	m.selectedRow = 0
	m.currentView = ViewSignIn
	m.signIn = newSignInState(m.config)

	cmds := []tea.Cmd{m.signIn.focusCmd()}
	if m.auth != nil && session.SignedIn() {
		cmds = append(cmds, signOutCmd(m.ctx, m.auth, session))
	}
	return m, tea.Batch(cmds...)
}

// resetQuery drops every filter and sort and reloads the first page.
func (m Model) resetQuery() (tea.Model, tea.Cmd) {
	if m.filter.IsZero() && m.page.Index == 0 {
		return m, nil
	}
	m.search.input.SetValue("")
	m.search.gen++
	return m, m.applyFilter(query.Filter{})
}

// gotoPage moves to the given page index if it exists.
func (m Model) gotoPage(index int) (tea.Model, tea.Cmd) {
	if index < 0 || index >= m.totalPages() || index == m.page.Index {
		return m, nil
	}
	m.page.Index = index
	m.selectedRow = 0
	return m, m.issueFetch()
}

// stepPageSize moves up or down the page-size ladder and reloads from the
// first page so the window stays aligned to size boundaries.
func (m Model) stepPageSize(delta int) (tea.Model, tea.Cmd) {
	idx := pageSizeIndex(m.page.Size) + delta
	if idx < 0 || idx >= len(pageSizes) {
		return m, nil
	}
	if pageSizes[idx] == m.page.Size {
		return m, nil
	}
	m.page.Size = pageSizes[idx]
	m.page.Index = 0
	m.selectedRow = 0
	m.savePrefs()
	return m, m.issueFetch()
}

// totalPages derives the page count from the last known total.
func (m Model) totalPages() int {
	if m.total <= 0 || m.page.Size <= 0 {
		return 1
	}
	return (m.total + m.page.Size - 1) / m.page.Size
}

// savePrefs persists the current theme and page size. Failures are not worth
// interrupting the user over.
func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, PageSize: m.page.Size}); err != nil {
		m.logger.Warn("saving preferences failed", "path", m.prefsPath, "error", err)
	}
}

// snapPageSize maps an arbitrary configured size onto the nearest selectable
// page size, preferring the smaller on ties.
func snapPageSize(n int) int {
	if n <= 0 {
		return 20
	}
	best := pageSizes[0]
	for _, s := range pageSizes[1:] {
		if abs(n-s) < abs(n-best) {
			best = s
		}
	}
	return best
}

func pageSizeIndex(size int) int {
	for i, s := range pageSizes {
		if s == size {
			return i
		}
	}
	return 1 // default slot (20)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	// Header line 1: logo + session + status
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	// Header line 2: command bar or active search input
	if m.search.active {
		b.WriteString(m.renderSearchBar())
	} else {
		b.WriteString(m.renderCommandBar())
	}
	b.WriteString("\n")

	// Main content
	switch m.currentView {
	case ViewPosts:
		b.WriteString(m.renderPosts())
	case ViewLogs:
		b.WriteString(m.renderLogView())
	}

	return b.String()
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

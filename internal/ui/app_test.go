package ui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/raovat-dev/raovat/internal/bangtin"
	"github.com/raovat-dev/raovat/internal/config"
	"github.com/raovat-dev/raovat/internal/prefs"
	"github.com/raovat-dev/raovat/internal/query"
)

// stubFetcher records fetch calls and returns a canned page.
type stubFetcher struct {
	page  bangtin.PostPage
	err   error
	calls int
}

func (s *stubFetcher) FetchPosts(context.Context, bangtin.Session, bangtin.Request) (bangtin.PostPage, error) {
	s.calls++
	return s.page, s.err
}

// stubAuth returns a canned session without touching the network.
type stubAuth struct {
	session  bangtin.Session
	err      error
	signIns  int
	signOuts int
}

func (s *stubAuth) SignIn(context.Context, string, string) (bangtin.Session, error) {
	s.signIns++
	return s.session, s.err
}

func (s *stubAuth) SignOut(context.Context, bangtin.Session) error {
	s.signOuts++
	return nil
}

func signedInSession() *bangtin.Session {
	return &bangtin.Session{
		AccessToken: "token",
		User:        bangtin.User{ID: "u1", Email: "chi@example.com"},
	}
}

func testPosts(ids ...int64) []bangtin.Post {
	posts := make([]bangtin.Post, 0, len(ids))
	for _, id := range ids {
		posts = append(posts, bangtin.Post{
			ID:     id,
			Type:   bangtin.TypeHouse,
			Body:   fmt.Sprintf("bán nhà số %d", id),
			Status: bangtin.StatusPublished,
		})
	}
	return posts
}

// newTestModel builds a model with a window size applied so views render.
func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	if opts.PrefsPath == "" {
		opts.PrefsPath = filepath.Join(t.TempDir(), "prefs.toml")
	}
	m := New(opts)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	return updated.(Model)
}

// loadedModel is a signed-in model that already received its first page.
func loadedModel(t *testing.T, fetcher *stubFetcher, posts []bangtin.Post, total int) Model {
	t.Helper()
	m := newTestModel(t, Options{Fetcher: fetcher, Session: signedInSession()})
	updated, _ := m.Update(postsMsg{seq: m.fetchSeq, page: bangtin.PostPage{Posts: posts, Total: total}})
	return updated.(Model)
}

func press(t *testing.T, m Model, key string) (Model, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "left":
		msg = tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func typeRunes(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m, _ = press(t, m, string(r))
	}
	return m
}

func TestSearchDebounce_OnlyLatestGenerationApplies(t *testing.T) {
	m := loadedModel(t, &stubFetcher{}, testPosts(1, 2), 2)

	m, _ = press(t, m, "/")
	if !m.search.active {
		t.Fatal("search should be active after /")
	}

	// Three keystrokes, three generations; the first two debounce timers
	// fire late and must be ignored.
	m = typeRunes(t, m, "abc")
	if m.search.gen != 3 {
		t.Fatalf("search.gen = %d, want 3", m.search.gen)
	}

	seqBefore := m.fetchSeq

	updated, cmd := m.Update(searchDebounceMsg{gen: 1})
	m = updated.(Model)
	if cmd != nil || m.filter.Search != "" {
		t.Fatalf("stale debounce applied: filter.Search = %q", m.filter.Search)
	}
	updated, cmd = m.Update(searchDebounceMsg{gen: 2})
	m = updated.(Model)
	if cmd != nil || m.filter.Search != "" {
		t.Fatalf("stale debounce applied: filter.Search = %q", m.filter.Search)
	}

	updated, cmd = m.Update(searchDebounceMsg{gen: 3})
	m = updated.(Model)
	if m.filter.Search != "abc" {
		t.Fatalf("filter.Search = %q, want abc", m.filter.Search)
	}
	if cmd == nil {
		t.Fatal("current debounce should trigger a fetch")
	}
	if m.fetchSeq != seqBefore+1 {
		t.Fatalf("fetchSeq = %d, want exactly one new fetch (%d)", m.fetchSeq, seqBefore+1)
	}
	if m.page.Index != 0 {
		t.Fatalf("page.Index = %d, want 0 after filter change", m.page.Index)
	}

	// A duplicate firing of the same generation finds the value already
	// applied and must not refetch.
	updated, cmd = m.Update(searchDebounceMsg{gen: 3})
	m = updated.(Model)
	if cmd != nil || m.fetchSeq != seqBefore+1 {
		t.Fatal("duplicate debounce refetched")
	}
}

func TestSearchEnter_AppliesImmediately(t *testing.T) {
	m := loadedModel(t, &stubFetcher{}, testPosts(1), 1)

	m, _ = press(t, m, "/")
	m = typeRunes(t, m, "gò vấp")
	genBefore := m.search.gen

	m, cmd := press(t, m, "enter")
	if m.search.active {
		t.Fatal("search should close on enter")
	}
	if m.filter.Search != "gò vấp" {
		t.Fatalf("filter.Search = %q, want %q", m.filter.Search, "gò vấp")
	}
	if cmd == nil {
		t.Fatal("enter should trigger a fetch")
	}

	// The pending debounce from the last keystroke fires after enter and
	// must be a no-op.
	seqBefore := m.fetchSeq
	updated, cmd := m.Update(searchDebounceMsg{gen: genBefore})
	m = updated.(Model)
	if cmd != nil || m.fetchSeq != seqBefore {
		t.Fatal("debounce fired after enter")
	}
}

func TestSearchEsc_RevertsDraft(t *testing.T) {
	m := loadedModel(t, &stubFetcher{}, testPosts(1), 1)
	_ = m.applyFilter(query.Filter{Search: "abc"})

	m, _ = press(t, m, "/")
	if got := m.search.input.Value(); got != "abc" {
		t.Fatalf("search input seeded with %q, want abc", got)
	}
	m = typeRunes(t, m, "xyz")
	seqBefore := m.fetchSeq

	m, cmd := press(t, m, "esc")
	if m.search.active {
		t.Fatal("search should close on esc")
	}
	if cmd != nil || m.fetchSeq != seqBefore {
		t.Fatal("esc must not fetch")
	}
	if m.filter.Search != "abc" {
		t.Fatalf("filter.Search = %q, want abc (unchanged)", m.filter.Search)
	}
	if got := m.search.input.Value(); got != "abc" {
		t.Fatalf("input value = %q, want reverted to abc", got)
	}
}

func TestStalePostsResponseDiscarded(t *testing.T) {
	m := newTestModel(t, Options{Fetcher: &stubFetcher{}, Session: signedInSession()})
	firstSeq := m.fetchSeq

	// A manual refresh supersedes the initial fetch while it is in flight.
	_ = m.issueFetch()
	if m.fetchSeq != firstSeq+1 {
		t.Fatalf("fetchSeq = %d, want %d", m.fetchSeq, firstSeq+1)
	}

	updated, _ := m.Update(postsMsg{seq: firstSeq, page: bangtin.PostPage{Posts: testPosts(1, 2), Total: 2}})
	m = updated.(Model)
	if m.loaded || len(m.posts) != 0 {
		t.Fatalf("stale response applied: loaded=%v posts=%d", m.loaded, len(m.posts))
	}
	if !m.loading {
		t.Fatal("loading should stay true until the current response arrives")
	}

	updated, _ = m.Update(postsMsg{seq: m.fetchSeq, page: bangtin.PostPage{Posts: testPosts(3), Total: 1}})
	m = updated.(Model)
	if !m.loaded || len(m.posts) != 1 || m.posts[0].ID != 3 {
		t.Fatalf("current response not applied: loaded=%v posts=%v", m.loaded, m.posts)
	}
	if m.loading {
		t.Fatal("loading should clear once the current response arrives")
	}
}

func TestFetchError_KeepsLastRows(t *testing.T) {
	m := loadedModel(t, &stubFetcher{}, testPosts(1, 2), 2)

	_ = m.issueFetch()
	updated, _ := m.Update(postsMsg{seq: m.fetchSeq, err: errors.New("posts query returned status 500")})
	m = updated.(Model)

	if len(m.posts) != 2 || !m.loaded {
		t.Fatalf("error wiped rows: posts=%d loaded=%v", len(m.posts), m.loaded)
	}
	if m.fetchErr == "" {
		t.Fatal("fetchErr should record the failure")
	}

	_ = m.issueFetch()
	updated, _ = m.Update(postsMsg{seq: m.fetchSeq, page: bangtin.PostPage{Posts: testPosts(1, 2), Total: 2}})
	m = updated.(Model)
	if m.fetchErr != "" {
		t.Fatalf("fetchErr = %q, want cleared after success", m.fetchErr)
	}
}

func TestPagePastEnd_StepsBackToLastPage(t *testing.T) {
	m := loadedModel(t, &stubFetcher{}, testPosts(1), 41)
	m.page.Index = 4
	m.page.Size = 10

	_ = m.issueFetch()
	updated, cmd := m.Update(postsMsg{seq: m.fetchSeq, page: bangtin.PostPage{Posts: nil, Total: 25}})
	m = updated.(Model)

	if m.page.Index != 2 {
		t.Fatalf("page.Index = %d, want 2 (last page of 25/10)", m.page.Index)
	}
	if cmd == nil {
		t.Fatal("stepping back should refetch")
	}
	if !m.loading {
		t.Fatal("refetch should be in flight")
	}
}

func TestEmptyResultOnFirstPage_StaysPut(t *testing.T) {
	m := loadedModel(t, &stubFetcher{}, testPosts(1), 1)

	_ = m.issueFetch()
	updated, cmd := m.Update(postsMsg{seq: m.fetchSeq, page: bangtin.PostPage{Posts: nil, Total: 0}})
	m = updated.(Model)

	if cmd != nil {
		t.Fatal("empty first page must not refetch")
	}
	if m.page.Index != 0 || m.total != 0 || len(m.posts) != 0 {
		t.Fatalf("state = index %d total %d posts %d, want empty first page", m.page.Index, m.total, len(m.posts))
	}
}

func TestGotoPage_StopsAtBounds(t *testing.T) {
	m := loadedModel(t, &stubFetcher{}, testPosts(1, 2), 45)
	if got := m.totalPages(); got != 3 {
		t.Fatalf("totalPages() = %d, want 3", got)
	}

	m, cmd := press(t, m, "]")
	if m.page.Index != 1 || cmd == nil {
		t.Fatalf("page.Index = %d after ], want 1 with fetch", m.page.Index)
	}
	m, _ = press(t, m, "]")
	m, cmd = press(t, m, "]")
	if m.page.Index != 2 || cmd != nil {
		t.Fatalf("page.Index = %d, want clamped at 2 with no fetch", m.page.Index)
	}

	m, _ = press(t, m, "[")
	m, _ = press(t, m, "[")
	m, cmd = press(t, m, "[")
	if m.page.Index != 0 || cmd != nil {
		t.Fatalf("page.Index = %d, want clamped at 0 with no fetch", m.page.Index)
	}
}

func TestStepPageSize_ResetsToFirstPage(t *testing.T) {
	m := loadedModel(t, &stubFetcher{}, testPosts(1, 2, 3), 120)
	m.page.Index = 2
	m.selectedRow = 2

	m, cmd := press(t, m, "+")
	if m.page.Size != 50 {
		t.Fatalf("page.Size = %d, want 50", m.page.Size)
	}
	if m.page.Index != 0 || m.selectedRow != 0 {
		t.Fatalf("index/selection = %d/%d, want both reset to 0", m.page.Index, m.selectedRow)
	}
	if cmd == nil {
		t.Fatal("page size change should refetch")
	}

	m, _ = press(t, m, "+")
	m, cmd = press(t, m, "+")
	if m.page.Size != 100 || cmd != nil {
		t.Fatalf("page.Size = %d, want clamped at 100 with no fetch", m.page.Size)
	}

	for i := 0; i < 3; i++ {
		m, _ = press(t, m, "-")
	}
	m, cmd = press(t, m, "-")
	if m.page.Size != 10 || cmd != nil {
		t.Fatalf("page.Size = %d, want clamped at 10 with no fetch", m.page.Size)
	}
}

func TestSnapPageSize(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{0, 20},
		{-5, 20},
		{10, 10},
		{14, 10},
		{15, 10}, // tie prefers the smaller size
		{16, 20},
		{35, 20},
		{49, 50},
		{100, 100},
		{500, 100},
	}
	for _, tc := range cases {
		if got := snapPageSize(tc.in); got != tc.want {
			t.Fatalf("snapPageSize(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total, size int
		want        int
	}{
		{0, 20, 1},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{45, 20, 3},
	}
	for _, tc := range cases {
		m := Model{total: tc.total, page: query.Page{Size: tc.size}}
		if got := m.totalPages(); got != tc.want {
			t.Fatalf("totalPages(total=%d size=%d) = %d, want %d", tc.total, tc.size, got, tc.want)
		}
	}
}

func TestReload_KeepsSelectionByID(t *testing.T) {
	m := loadedModel(t, &stubFetcher{}, testPosts(11, 22, 33), 3)
	m.selectedRow = 1 // post 22

	// Post 22 moved to the top of the reloaded page.
	_ = m.issueFetch()
	updated, _ := m.Update(postsMsg{seq: m.fetchSeq, page: bangtin.PostPage{Posts: testPosts(22, 33, 44), Total: 3}})
	m = updated.(Model)
	if m.selectedRow != 0 {
		t.Fatalf("selectedRow = %d, want 0 (following post 22)", m.selectedRow)
	}

	// Post 22 disappeared; the cursor stays in range.
	m.selectedRow = 2
	_ = m.issueFetch()
	updated, _ = m.Update(postsMsg{seq: m.fetchSeq, page: bangtin.PostPage{Posts: testPosts(55), Total: 1}})
	m = updated.(Model)
	if m.selectedRow != 0 {
		t.Fatalf("selectedRow = %d, want clamped to 0", m.selectedRow)
	}
}

func TestSignIn_SubmitAndLand(t *testing.T) {
	auth := &stubAuth{session: *signedInSession()}
	m := newTestModel(t, Options{Fetcher: &stubFetcher{}, Auth: auth})

	if m.currentView != ViewSignIn {
		t.Fatalf("currentView = %d, want ViewSignIn", m.currentView)
	}

	m = typeRunes(t, m, "chi@example.com")
	m, _ = press(t, m, "enter") // moves to the password field
	if m.signIn.focusIdx != 1 {
		t.Fatalf("focusIdx = %d, want 1 after enter on email", m.signIn.focusIdx)
	}
	m = typeRunes(t, m, "hunter2")

	m, cmd := press(t, m, "enter")
	if !m.signIn.busy {
		t.Fatal("submit should mark the form busy")
	}
	if cmd == nil {
		t.Fatal("submit should return the sign-in command")
	}

	updated, fetchCmd := m.Update(cmd())
	m = updated.(Model)
	if auth.signIns != 1 {
		t.Fatalf("auth.signIns = %d, want 1", auth.signIns)
	}
	if m.currentView != ViewPosts {
		t.Fatalf("currentView = %d, want ViewPosts", m.currentView)
	}
	if !m.session.SignedIn() {
		t.Fatal("session should be signed in")
	}
	if fetchCmd == nil {
		t.Fatal("landing on the grid should fetch")
	}
}

func TestSignIn_RequiresBothFields(t *testing.T) {
	m := newTestModel(t, Options{Auth: &stubAuth{}})

	m, _ = press(t, m, "tab") // focus password
	m, cmd := press(t, m, "enter")
	if cmd != nil {
		t.Fatal("empty submit must not call the service")
	}
	if m.signIn.errMsg != "email and password are required" {
		t.Fatalf("errMsg = %q", m.signIn.errMsg)
	}
}

func TestSignIn_FailureShowsError(t *testing.T) {
	auth := &stubAuth{err: errors.New("sign-in returned status 400: invalid login credentials")}
	m := newTestModel(t, Options{Auth: auth})

	m = typeRunes(t, m, "chi@example.com")
	m, _ = press(t, m, "tab")
	m = typeRunes(t, m, "wrong")
	m, cmd := press(t, m, "enter")

	updated, _ := m.Update(cmd())
	m = updated.(Model)
	if m.currentView != ViewSignIn {
		t.Fatal("failed sign-in must stay on the form")
	}
	if m.signIn.busy {
		t.Fatal("busy should clear on failure")
	}
	if m.signIn.errMsg == "" {
		t.Fatal("errMsg should carry the failure")
	}
}

func TestSignInResponse_IgnoredAfterLeavingForm(t *testing.T) {
	m := newTestModel(t, Options{Fetcher: &stubFetcher{}, Auth: &stubAuth{}})

	// The user gives up on a slow sign-in and browses anonymously.
	m, _ = press(t, m, "esc")
	if m.currentView != ViewPosts || !m.session.Anonymous {
		t.Fatal("esc should start anonymous browsing")
	}

	updated, cmd := m.Update(signInMsg{session: *signedInSession()})
	m = updated.(Model)
	if cmd != nil || m.session.SignedIn() {
		t.Fatal("late sign-in response must be ignored after leaving the form")
	}
}

func TestAnonymousBrowsing_FollowsConfig(t *testing.T) {
	blocked := newTestModel(t, Options{
		Auth:   &stubAuth{},
		Config: &config.Config{AllowAnonymous: false},
	})
	blocked, cmd := press(t, blocked, "esc")
	if blocked.currentView != ViewSignIn || cmd != nil {
		t.Fatal("esc must be inert when anonymous browsing is disabled")
	}

	allowed := newTestModel(t, Options{
		Fetcher: &stubFetcher{},
		Auth:    &stubAuth{},
		Config:  &config.Config{AllowAnonymous: true},
	})
	allowed, cmd = press(t, allowed, "esc")
	if allowed.currentView != ViewPosts || cmd == nil {
		t.Fatal("esc should enter the grid and fetch when anonymous browsing is allowed")
	}
	if !allowed.session.Anonymous {
		t.Fatal("session should be anonymous")
	}
}

func TestSignOut_ClearsSessionAndData(t *testing.T) {
	m := loadedModel(t, &stubFetcher{}, testPosts(1, 2), 2)

	m, cmd := press(t, m, "u")
	if m.currentView != ViewSignIn {
		t.Fatalf("currentView = %d, want ViewSignIn", m.currentView)
	}
	if m.session.SignedIn() || len(m.posts) != 0 || m.loaded {
		t.Fatal("sign-out should clear the session and the grid")
	}
	if cmd == nil {
		t.Fatal("sign-out should at least restart the cursor blink")
	}
}

func TestResetQuery(t *testing.T) {
	m := loadedModel(t, &stubFetcher{}, testPosts(1), 1)
	_ = m.applyFilter(query.Filter{
		Search: "nhà",
		Types:  []bangtin.PropertyType{bangtin.TypeHouse},
	})
	m.page.Index = 2

	m, cmd := press(t, m, "x")
	if !m.filter.IsZero() {
		t.Fatalf("filter = %+v, want zero", m.filter)
	}
	if m.page.Index != 0 || cmd == nil {
		t.Fatal("reset should reload the first page")
	}

	m, cmd = press(t, m, "x")
	if cmd != nil {
		t.Fatal("reset with nothing applied must be a no-op")
	}
}

func TestRefreshTick_SkipsWhileModalOpen(t *testing.T) {
	m := loadedModel(t, &stubFetcher{}, testPosts(1), 1)
	m.refreshEvery = 1 // any positive interval

	seqBefore := m.fetchSeq
	updated, _ := m.Update(refreshTickMsg(time.Now()))
	m = updated.(Model)
	if m.fetchSeq != seqBefore+1 {
		t.Fatal("idle tick should refetch")
	}

	// Mid-fetch and mid-modal ticks must not pile on.
	updated, _ = m.Update(refreshTickMsg(time.Now()))
	m = updated.(Model)
	if m.fetchSeq != seqBefore+1 {
		t.Fatal("tick while loading must not refetch")
	}

	updated, _ = m.Update(postsMsg{seq: m.fetchSeq, page: bangtin.PostPage{Posts: testPosts(1), Total: 1}})
	m = updated.(Model)
	m.showTypeFilter = true
	updated, _ = m.Update(refreshTickMsg(time.Now()))
	m = updated.(Model)
	if m.fetchSeq != seqBefore+1 {
		t.Fatal("tick while a modal is open must not refetch")
	}
}

func TestThemeCycling_PersistsPrefs(t *testing.T) {
	prefsPath := filepath.Join(t.TempDir(), "prefs.toml")
	m := newTestModel(t, Options{Fetcher: &stubFetcher{}, Session: signedInSession(), PrefsPath: prefsPath})

	m, _ = press(t, m, "T")
	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", m.theme.Name)
	}

	saved, err := prefs.Load(prefsPath)
	if err != nil {
		t.Fatalf("Load prefs: %v", err)
	}
	if saved.Theme != "Kanagawa" {
		t.Fatalf("saved theme = %q, want Kanagawa", saved.Theme)
	}
	if saved.PageSize != 20 {
		t.Fatalf("saved page size = %d, want 20", saved.PageSize)
	}
}

func TestHelpOverlay_AnyKeyCloses(t *testing.T) {
	m := loadedModel(t, &stubFetcher{}, testPosts(1), 1)

	m, _ = press(t, m, "?")
	if !m.showHelp {
		t.Fatal("? should open help")
	}
	m, cmd := press(t, m, "j")
	if m.showHelp || cmd != nil {
		t.Fatal("any key should close help without side effects")
	}
}

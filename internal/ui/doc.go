// Package ui provides the terminal user interface for the rao vặt dashboard.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program: a single Model value holds all state,
// Update handles messages (key presses, window sizes, fetch results, timer
// ticks), and View renders the whole screen from scratch each frame. All
// remote I/O happens inside tea.Cmd closures so Update never blocks.
//
// # Package Structure
//
//   - app.go: Root model, message dispatch, pagination, and the Run entry point
//   - fetch.go: Post fetching with per-request sequence numbers
//   - posts.go: Post grid rendering with responsive columns
//   - detail.go: Scrollable detail pane for the selected post
//   - search.go: Debounced full-text search input
//   - typefilter.go, pricefilter.go, sortmenu.go: Query modals
//   - signin.go: Sign-in form and anonymous browsing
//   - logs.go: Client log viewer backed by logtail
//   - header.go: Status header and command bar
//   - format.go: Vietnamese currency, area, and text helpers
//   - theme.go: Color themes and the lipgloss style builder
//
// # View Types
//
//   - Sign-in view: Email/password form, or Esc to browse anonymously
//   - Posts view: Listing grid on the left, detail pane on the right
//   - Log view: Tail of the client's own log file
//
// Query modals (search, types, price, sort) and the help overlay float above
// the posts view and capture input while open.
//
// # Query Flow
//
// Every filter or page change funnels through applyFilter/issueFetch, which
// bumps a sequence number and launches a fetch command. Responses carry the
// sequence they were issued under; the model discards any response whose
// sequence is not the latest, so a slow page-1 response can never clobber a
// fast page-2 response. Text search is debounced: keystrokes schedule a timer
// and only the newest timer applies its value.
//
// # External Dependencies
//
//   - bangtin: Remote post fetching and identity sessions
//   - query: Filter and page state compiled to request parameters
//   - config, prefs: Startup configuration and persisted UI preferences
//   - logtail: Reads the tail of the client log file
//
// # Usage Example
//
//	opts := ui.Options{
//		Fetcher: client,
//		Auth:    client,
//		Config:  cfg,
//		Logger:  logger,
//	}
//	if err := ui.Run(opts); err != nil {
//		log.Fatal(err)
//	}
//
// # Key Bindings
//
//   - /: Search listing text
//   - t, p, s: Property type, price range, and sort modals
//   - x: Reset all filters
//   - Left/Right or [/]: Previous/next page, +/-: page size
//   - j/k, g/G: Move selection, Tab: switch to the detail pane
//   - l: Client log view, u: sign out, T: cycle theme
//   - ?: Help overlay, q or Ctrl+C: quit
package ui

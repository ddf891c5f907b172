// Package app provides the orchestration layer for the raovat dashboard.
//
// # Overview
//
// This package wires together configuration, logging, preferences, the
// service client, and the UI to create the complete raovat TUI. It serves
// as the composition root where all dependencies are initialized and
// connected; business logic lives in the domain packages.
//
// # Architecture
//
// Run follows a simple initialization sequence:
//
//  1. Load configuration from ~/.config/raovat/config.toml plus environment
//  2. Open the file logger (the terminal belongs to the TUI)
//  3. Load saved preferences (theme, page size)
//  4. Build the bangtin client for the hosted service
//  5. Sign in with configured credentials, when present
//  6. Start the TUI and block until the user quits or the context cancels
//
// # Startup Sign-In
//
// When the config carries an email and the RAOVAT_PASSWORD environment
// variable is set, Run signs in before the UI starts so the dashboard
// opens directly on the posts grid. A rejected credential pair is logged
// and the UI falls back to its interactive sign-in form; it never aborts
// startup.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Configuration file unreadable or invalid
//   - Log file cannot be opened
//   - Service URL cannot be parsed
//
// Recoverable conditions (logged, startup continues):
//   - Preferences file missing or malformed
//   - Configured credentials rejected by the identity endpoint
//
// Fetch failures after startup are the UI's concern: the grid keeps its
// last rows and shows the error inline.
package app

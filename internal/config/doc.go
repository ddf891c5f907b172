// Package config handles loading and parsing raovat configuration.
//
// # Overview
//
// This package reads raovat's TOML configuration to discover the hosted
// listings service, the credentials to present, and local behavior knobs
// (page size, refresh cadence, log file). Environment variables layer on
// top of the file so secrets never have to live in it.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/raovat/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing/empty, use defaults
//  5. Apply environment overrides (a .env file is honored when present)
//
// # Default Values
//
//   - Config file: ~/.config/raovat/config.toml
//   - Service URL: http://127.0.0.1:8000 (the local stub)
//   - Anonymous browsing: allowed
//   - Page size: 20
//   - Auto refresh: off
//   - Log file: ~/.local/share/raovat/raovat.log
//
// # TOML Format
//
// Example config.toml:
//
//	service_url = "https://listings.example.com"
//	anon_key = "public-anon-key"
//	allow_anonymous = true
//	email = "an@example.com"
//	page_size = 20
//	refresh_every = "30s"
//	log_file = "~/.local/share/raovat/raovat.log"
//
// All fields are optional. Tilde expansion is performed automatically.
//
// # Environment Overrides
//
//   - RAOVAT_SERVICE_URL overrides service_url
//   - RAOVAT_ANON_KEY overrides anon_key
//   - RAOVAT_EMAIL overrides email
//   - RAOVAT_PASSWORD supplies the sign-in password (env-only on purpose;
//     there is no password field in the file format)
//
// # Error Handling
//
// Load returns errors for path expansion failures, file read errors
// (except os.ErrNotExist, which triggers defaults), TOML parsing errors,
// and out-of-range values (negative page_size, unparseable or negative
// refresh_every).
//
// Missing config files are NOT an error. Pointing raovat at the local
// stub requires no configuration at all.
package config

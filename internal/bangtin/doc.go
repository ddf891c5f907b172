// Package bangtin provides an HTTP client for the hosted listings service.
//
// # Overview
//
// The bangtin service exposes two surfaces the dashboard uses: the posts
// collection under /rest/v1/posts, and the identity endpoints under
// /auth/v1. This package handles HTTP transport, JSON serialization, and
// the type-safe representation of listing records and sessions. It does
// not build queries; that is the query package's job.
//
// # Architecture
//
// The package is split into three files:
//
//   - client.go: posts transport, request/response handling, error mapping
//   - auth.go: sign-in/sign-out against the identity endpoints, Session
//   - types.go: data structures mirroring the posts collection schema
//
// # Posts Protocol
//
// The posts collection speaks a PostgREST-flavored protocol:
//
//   - filters arrive as query parameters ("status=eq.published",
//     "body=ilike.*ngõ*", "type=in.(house,land)")
//   - ordering arrives as a single "order=" parameter
//   - the page window travels in the Range header ("Range: 0-19",
//     "Range-Unit: items")
//   - "Prefer: count=exact" asks for the exact filtered total, which the
//     service reports in the Content-Range response header ("0-19/57")
//
// FetchPosts transports an already-encoded Request and returns the page
// plus the exact total. The service performs all filtering, ordering, and
// slicing; the client never re-derives any of it.
//
// # Authentication
//
// Sign-in posts {email, password} to /auth/v1/token?grant_type=password
// and receives an opaque bearer token. Sign-out posts to /auth/v1/logout.
// Everything else about the token lifecycle (refresh, MFA, revocation
// windows) belongs to the hosted provider.
//
// Sessions are explicit values. Every FetchPosts call takes the Session to
// act under; there is no package-level current user. Anonymous browsing is
// a Session too (AnonymousSession), under which requests carry only the
// service's public anon key.
//
// # Headers
//
// All requests set Accept, User-Agent, and the apikey header. Requests
// under a signed-in session add "Authorization: Bearer <token>"; anonymous
// requests fall back to the anon key as the bearer, matching how the
// hosted service expects public reads.
//
// # Error Handling
//
// Errors are wrapped with fmt.Errorf context. HTTP failures include the
// status code and, when the service sent a JSON error document, its
// message:
//
//   - "execute request: dial tcp: connection refused"
//   - "posts query returned status 416: requested range not satisfiable"
//   - "sign-in returned status 400: invalid login credentials"
//
// Absent extraction fields (price, area, location) are NOT errors; they
// decode to nil pointers and the UI renders them as missing.
//
// # Testing Considerations
//
// PostFetcher and Authenticator are small interfaces implemented by
// *Client so tests can substitute fakes. Round-trip tests use
// httptest.Server and assert on the exact query parameters and headers
// the client emits.
package bangtin

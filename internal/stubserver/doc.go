// Package stubserver implements a local stand-in for the hosted bangtin
// service, used for development and integration tests.
//
// The stub speaks the same wire grammar as the hosted deployment: the
// posts collection under /rest/v1/posts with PostgREST-style filter
// parameters and item-range pagination headers, and the identity
// endpoints under /auth/v1 with the password grant. The dashboard's
// client runs against it unchanged; only the service URL differs.
//
// # Components
//
//   - Store: mutex-guarded in-memory posts, users, and issued tokens
//   - Dataset: the seed fixture, validated against an embedded JSON Schema
//   - decodePostsQuery: the exact inverse of the client's query encoding
//   - Server: chi router wiring the handlers with request logging, CORS,
//     optional artificial latency, and apikey enforcement
//
// # Fidelity
//
// Query decoding is strict: unknown parameters, repeated parameters, and
// malformed operator syntax are rejected with the same error body shape
// the real service uses. Drift between the client's encoder and this
// decoder therefore surfaces as a failing request, not a silently empty
// result set.
//
// The bundled dataset includes posts in non-published states. They are
// only reachable through a status filter the dashboard never sends, which
// keeps the published-only rule honest end to end.
package stubserver

// Package query translates dashboard filter state into posts requests and
// evaluates the same filters locally.
//
// # Overview
//
// The dashboard holds one Filter (search text, property types, price
// range, sort keys) and one Page. Build maps them to the wire protocol
// the hosted posts collection speaks; it is a pure function, so the
// request for a given state can be recomputed at any time and never
// drifts from what the UI shows.
//
// # Wire Mapping
//
//	Search "ngõ"              body=ilike.*ngõ*      (metacharacters escaped)
//	Types {house, land}       type=in.(house,land)
//	Types {}                  (no parameter; empty means unrestricted)
//	Price min 500_000_000     or=(price->total_vnd.gte.500000000,price->total_vnd.is.null)
//	Price min+max             or=(and(price->total_vnd.gte.N,price->total_vnd.lte.M),price->total_vnd.is.null)
//	Exclude unpriced          price=not.is.null (bounds then go bare: price->total_vnd=gte.N)
//	Sorts [city asc, price desc]
//	                          order=location->>city.asc,price->total_vnd.desc.nullslast,id.desc
//	Page {2, 20}              Range: 40-59
//
// Every request also pins status=eq.published and select=*.
//
// # Closed Condition Set
//
// Filters expand into tagged Condition values of exactly three kinds:
// text-contains, set-membership, and numeric-range-with-null-policy.
// Build switches over the kinds to encode, Match switches over them to
// evaluate, and the stub server reuses both, so client and stub cannot
// disagree about what a filter means. A new behavior means a new kind and
// the compiler points at every switch that must learn it.
//
// # Null Policy
//
// Price bounds constrain only posts that carry a total price; a post with
// no total survives a bounded query. The remote database would drop such
// rows from a bare comparison, so Build wraps bounds in an or-group with
// an is-null escape. Setting the unpriced exclusion flips this: bounds go
// out bare and posts without a price record are dropped by
// price=not.is.null. Sort keys rank missing values last in both
// directions, which is why descending keys are encoded with an explicit
// nullslast.
package query

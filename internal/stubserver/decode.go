package stubserver

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/raovat-dev/raovat/internal/bangtin"
	"github.com/raovat-dev/raovat/internal/query"
)

// postsQuery is one decoded posts request: the status clause the client
// pinned plus the regular filter state.
type postsQuery struct {
	Status string
	Filter query.Filter
}

// decodePostsQuery parses the wire parameters back into filter state. The
// grammar is exactly what the dashboard's query builder emits; anything
// else is rejected so client drift surfaces as a 400 instead of silently
// matching everything.
func decodePostsQuery(params url.Values) (postsQuery, error) {
	q := postsQuery{}
	var bareBounds, groupedBounds bool

	for key, values := range params {
		switch key {
		case "select":
			// The stub always returns whole rows.

		case "status":
			value, err := single(key, values)
			if err != nil {
				return q, err
			}
			status, ok := strings.CutPrefix(value, "eq.")
			if !ok {
				return q, fmt.Errorf("status supports only eq, got %q", value)
			}
			q.Status = status

		case "body":
			value, err := single(key, values)
			if err != nil {
				return q, err
			}
			needle, err := decodeContains(value)
			if err != nil {
				return q, err
			}
			q.Filter.Search = needle

		case "type":
			value, err := single(key, values)
			if err != nil {
				return q, err
			}
			types, err := decodeTypeIn(value)
			if err != nil {
				return q, err
			}
			q.Filter.Types = types

		case "price->total_vnd":
			bareBounds = true
			for _, value := range values {
				if err := decodePriceBound(value, &q.Filter.Price); err != nil {
					return q, err
				}
			}

		case "or":
			groupedBounds = true
			value, err := single(key, values)
			if err != nil {
				return q, err
			}
			if err := decodePriceOr(value, &q.Filter.Price); err != nil {
				return q, err
			}

		case "price":
			value, err := single(key, values)
			if err != nil {
				return q, err
			}
			if value != "not.is.null" {
				return q, fmt.Errorf("price supports only not.is.null, got %q", value)
			}
			q.Filter.Price.ExcludeUnpriced = true

		case "order":
			value, err := single(key, values)
			if err != nil {
				return q, err
			}
			sorts, err := decodeOrder(value)
			if err != nil {
				return q, err
			}
			q.Filter.Sorts = sorts

		default:
			return q, fmt.Errorf("unexpected parameter %q", key)
		}
	}

	// The client emits bare bounds only alongside the unpriced exclusion;
	// without it, bounds arrive inside the or group.
	if bareBounds && !q.Filter.Price.ExcludeUnpriced {
		return q, fmt.Errorf("price bound without price=not.is.null")
	}
	if groupedBounds && (bareBounds || q.Filter.Price.ExcludeUnpriced) {
		return q, fmt.Errorf("or group combined with bare price parameters")
	}

	if err := q.Filter.Validate(); err != nil {
		return q, err
	}
	return q, nil
}

// single rejects repeated query parameters. The client never sends them,
// so duplicates mean a hand-built request worth flagging.
func single(key string, values []string) (string, error) {
	if len(values) != 1 {
		return "", fmt.Errorf("parameter %q given %d times", key, len(values))
	}
	return values[0], nil
}

// decodeContains unwraps "ilike.*needle*" and unescapes the needle.
func decodeContains(value string) (string, error) {
	inner, ok := strings.CutPrefix(value, "ilike.*")
	if !ok {
		return "", fmt.Errorf("body supports only ilike.*...*, got %q", value)
	}
	inner, ok = strings.CutSuffix(inner, "*")
	if !ok {
		return "", fmt.Errorf("body pattern %q is missing its closing wildcard", value)
	}
	return unescapeLike(inner)
}

// decodeTypeIn unwraps "in.(a,b,c)" into property types.
func decodeTypeIn(value string) ([]bangtin.PropertyType, error) {
	inner, ok := strings.CutPrefix(value, "in.(")
	if !ok {
		return nil, fmt.Errorf("type supports only in.(...), got %q", value)
	}
	inner, ok = strings.CutSuffix(inner, ")")
	if !ok {
		return nil, fmt.Errorf("type list %q is not closed", value)
	}
	var types []bangtin.PropertyType
	for _, name := range strings.Split(inner, ",") {
		pt := bangtin.PropertyType(strings.TrimSpace(name))
		if !pt.Valid() {
			return nil, fmt.Errorf("unknown property type %q", name)
		}
		types = append(types, pt)
	}
	return types, nil
}

// decodePriceBound applies one gte./lte. clause to the range.
func decodePriceBound(value string, r *query.PriceRange) error {
	op, rest, found := strings.Cut(value, ".")
	if !found {
		return fmt.Errorf("malformed price bound %q", value)
	}
	n, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return fmt.Errorf("malformed price bound %q", value)
	}
	switch op {
	case "gte":
		r.MinVND = &n
	case "lte":
		r.MaxVND = &n
	default:
		return fmt.Errorf("price bound supports gte/lte, got %q", op)
	}
	return nil
}

// decodePriceOr unwraps the or group carrying price bounds together with
// their is-null escape: "(BOUND,price->total_vnd.is.null)", where BOUND is
// one qualified gte/lte clause or "and(...)" wrapping both.
func decodePriceOr(value string, r *query.PriceRange) error {
	const isNullArm = "price->total_vnd.is.null"

	inner, ok := strings.CutPrefix(value, "(")
	if !ok {
		return fmt.Errorf("malformed or group %q", value)
	}
	inner, ok = strings.CutSuffix(inner, ")")
	if !ok {
		return fmt.Errorf("or group %q is not closed", value)
	}
	bounds, ok := strings.CutSuffix(inner, ","+isNullArm)
	if !ok {
		return fmt.Errorf("or group %q is missing the is-null arm", value)
	}

	if andInner, found := strings.CutPrefix(bounds, "and("); found {
		andInner, ok = strings.CutSuffix(andInner, ")")
		if !ok {
			return fmt.Errorf("or group %q has an unclosed and", value)
		}
		parts := strings.Split(andInner, ",")
		if len(parts) != 2 {
			return fmt.Errorf("or group %q must carry exactly two bounds", value)
		}
		for _, part := range parts {
			if err := decodeQualifiedBound(part, r); err != nil {
				return err
			}
		}
		if r.MinVND == nil || r.MaxVND == nil {
			return fmt.Errorf("or group %q must carry one gte and one lte bound", value)
		}
		return nil
	}
	return decodeQualifiedBound(bounds, r)
}

// decodeQualifiedBound strips the column prefix from one or-group arm and
// applies the bound.
func decodeQualifiedBound(expr string, r *query.PriceRange) error {
	rest, ok := strings.CutPrefix(expr, "price->total_vnd.")
	if !ok {
		return fmt.Errorf("or group supports only price->total_vnd bounds, got %q", expr)
	}
	return decodePriceBound(rest, r)
}

// decodeOrder parses the order clause back into sort keys, dropping the
// id.desc tiebreaker the client always appends.
func decodeOrder(value string) ([]query.SortKey, error) {
	parts := strings.Split(value, ",")
	if parts[len(parts)-1] != "id.desc" {
		return nil, fmt.Errorf("order %q is missing the id.desc tiebreaker", value)
	}
	parts = parts[:len(parts)-1]

	var sorts []query.SortKey
	for _, part := range parts {
		// Wire columns never contain dots, so the first segment is the
		// column and the rest are modifiers.
		segs := strings.Split(part, ".")
		if len(segs) < 2 || len(segs) > 3 {
			return nil, fmt.Errorf("malformed order key %q", part)
		}
		field, ok := query.FieldFromWire(segs[0])
		if !ok {
			return nil, fmt.Errorf("unknown order column %q", segs[0])
		}
		dir := query.SortDir(segs[1])
		if dir != query.SortAsc && dir != query.SortDesc {
			return nil, fmt.Errorf("unknown order direction %q", segs[1])
		}
		if len(segs) == 3 && segs[2] != "nullslast" {
			return nil, fmt.Errorf("unknown order modifier %q", segs[2])
		}
		sorts = append(sorts, query.SortKey{Field: field, Dir: dir})
	}
	return sorts, nil
}

// unescapeLike undoes the pattern escaping the client applies to search
// text: a backslash makes the next character literal.
func unescapeLike(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		if strings.ContainsAny(s, `%_*`) {
			return "", fmt.Errorf("unescaped pattern character in %q", s)
		}
		return s, nil
	}
	var b strings.Builder
	escaped := false
	for _, r := range s {
		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		if r == '%' || r == '_' || r == '*' {
			return "", fmt.Errorf("unescaped pattern character in %q", s)
		}
		b.WriteRune(r)
	}
	if escaped {
		return "", fmt.Errorf("dangling escape in %q", s)
	}
	return b.String(), nil
}

// parseItemRange parses a "from-to" Range header. A missing header means
// the whole set.
func parseItemRange(header string, total int) (from, to int, err error) {
	if strings.TrimSpace(header) == "" {
		if total == 0 {
			return 0, 0, nil
		}
		return 0, total - 1, nil
	}
	first, second, found := strings.Cut(header, "-")
	if !found {
		return 0, 0, fmt.Errorf("malformed Range %q", header)
	}
	from, err = strconv.Atoi(first)
	if err != nil || from < 0 {
		return 0, 0, fmt.Errorf("malformed Range %q", header)
	}
	to, err = strconv.Atoi(second)
	if err != nil || to < from {
		return 0, 0, fmt.Errorf("malformed Range %q", header)
	}
	return from, to, nil
}

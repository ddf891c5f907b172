package query

import (
	"fmt"
	"strings"

	"github.com/raovat-dev/raovat/internal/bangtin"
)

// MaxSortKeys bounds how many sort keys a query may carry at once.
const MaxSortKeys = 3

// SortDir is the direction of one sort key.
type SortDir string

// Sort directions.
const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// Field identifies one sortable column of the posts collection. Nested
// extraction fields use a dotted path; price_total_vnd is the computed
// alias the dashboard exposes for the total price.
type Field string

// Sortable fields.
const (
	FieldCreatedAt     Field = "created_at"
	FieldPriceTotalVND Field = "price_total_vnd"
	FieldLocationCity  Field = "location.city"
	FieldAreaTotalM2   Field = "area.total_m2"
	FieldType          Field = "type"
)

// SortableFields lists every sortable field in display order.
func SortableFields() []Field {
	return []Field{FieldCreatedAt, FieldPriceTotalVND, FieldLocationCity, FieldAreaTotalM2, FieldType}
}

// WireColumn resolves the field to its remote column expression. Nested
// numeric fields use the json arrow, nested text fields the text arrow.
func (f Field) WireColumn() (string, bool) {
	switch f {
	case FieldCreatedAt:
		return "created_at", true
	case FieldPriceTotalVND:
		return "price->total_vnd", true
	case FieldLocationCity:
		return "location->>city", true
	case FieldAreaTotalM2:
		return "area->total_m2", true
	case FieldType:
		return "type", true
	}
	return "", false
}

// FieldFromWire is the inverse of WireColumn.
func FieldFromWire(column string) (Field, bool) {
	for _, f := range SortableFields() {
		if col, ok := f.WireColumn(); ok && col == column {
			return f, true
		}
	}
	return "", false
}

// SortKey is one ordering instruction. Keys apply in the order the user
// added them.
type SortKey struct {
	Field Field
	Dir   SortDir
}

// PriceRange bounds the total price in VND. Bounds are independent; a nil
// bound is absent. Bounds constrain only posts that carry a total price:
// a post with no total survives any bound. ExcludeUnpriced drops records
// with no extracted price, and combined with a bound it also drops records
// whose total is missing.
type PriceRange struct {
	MinVND          *int64
	MaxVND          *int64
	ExcludeUnpriced bool
}

// IsZero reports whether the range imposes no restriction.
func (r PriceRange) IsZero() bool {
	return r.MinVND == nil && r.MaxVND == nil && !r.ExcludeUnpriced
}

// Validate rejects inverted bounds.
func (r PriceRange) Validate() error {
	if r.MinVND != nil && r.MaxVND != nil && *r.MinVND > *r.MaxVND {
		return fmt.Errorf("price range minimum %d exceeds maximum %d", *r.MinVND, *r.MaxVND)
	}
	return nil
}

// Filter is the complete client-side filter state for the posts view.
// The zero value imposes no restriction beyond the published-only rule.
type Filter struct {
	// Search is a case-insensitive substring match on the post body.
	Search string
	// Types restricts to the listed property types. Empty means no
	// restriction, not "match nothing".
	Types []bangtin.PropertyType
	// Price bounds the extracted total price.
	Price PriceRange
	// Sorts apply in order; at most MaxSortKeys entries.
	Sorts []SortKey
}

// Page is a zero-based page window.
type Page struct {
	Index int
	Size  int
}

// ConditionKind tags the closed set of filter behaviors.
type ConditionKind int

// Filter behaviors. The set is closed: encoding and evaluation both
// switch over it exhaustively, so adding a kind forces both sides to
// handle it.
const (
	KindTextContains ConditionKind = iota
	KindTypeIn
	KindPriceRange
)

// Condition is one filter clause in tagged-variant form. Only the fields
// for its kind are populated.
type Condition struct {
	Kind ConditionKind

	// KindTextContains
	Needle string

	// KindTypeIn
	Types []bangtin.PropertyType

	// KindPriceRange
	MinVND       *int64
	MaxVND       *int64
	RequirePrice bool
}

// Conditions expands the filter into its active clauses. Inactive clauses
// (blank search, empty type set, zero price range) produce nothing.
func (f Filter) Conditions() []Condition {
	var conds []Condition
	if needle := strings.TrimSpace(f.Search); needle != "" {
		conds = append(conds, Condition{Kind: KindTextContains, Needle: needle})
	}
	if types := dedupeTypes(f.Types); len(types) > 0 {
		conds = append(conds, Condition{Kind: KindTypeIn, Types: types})
	}
	if !f.Price.IsZero() {
		conds = append(conds, Condition{
			Kind:         KindPriceRange,
			MinVND:       f.Price.MinVND,
			MaxVND:       f.Price.MaxVND,
			RequirePrice: f.Price.ExcludeUnpriced,
		})
	}
	return conds
}

// IsZero reports whether the filter applies no conditions and no sorts.
func (f Filter) IsZero() bool {
	return len(f.Conditions()) == 0 && len(f.Sorts) == 0
}

// Validate checks the filter against the query invariants: bounded sort
// key count, known fields and directions, coherent price bounds.
func (f Filter) Validate() error {
	if err := f.Price.Validate(); err != nil {
		return err
	}
	if len(f.Sorts) > MaxSortKeys {
		return fmt.Errorf("%d sort keys exceed the maximum of %d", len(f.Sorts), MaxSortKeys)
	}
	for _, key := range f.Sorts {
		if _, ok := key.Field.WireColumn(); !ok {
			return fmt.Errorf("unknown sort field %q", key.Field)
		}
		if key.Dir != SortAsc && key.Dir != SortDesc {
			return fmt.Errorf("unknown sort direction %q", key.Dir)
		}
	}
	for _, pt := range f.Types {
		if !pt.Valid() {
			return fmt.Errorf("unknown property type %q", pt)
		}
	}
	return nil
}

func dedupeTypes(types []bangtin.PropertyType) []bangtin.PropertyType {
	if len(types) == 0 {
		return nil
	}
	seen := make(map[bangtin.PropertyType]struct{}, len(types))
	out := make([]bangtin.PropertyType, 0, len(types))
	for _, pt := range types {
		if _, dup := seen[pt]; dup {
			continue
		}
		seen[pt] = struct{}{}
		out = append(out, pt)
	}
	return out
}

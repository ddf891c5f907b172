package query

import (
	"sort"
	"strings"

	"github.com/raovat-dev/raovat/internal/bangtin"
)

// MatchFilter reports whether the post belongs to the filtered set. Only
// published posts ever qualify, matching the pinned status clause Build
// emits.
func MatchFilter(f Filter, post bangtin.Post) bool {
	if post.Status != bangtin.StatusPublished {
		return false
	}
	for _, cond := range f.Conditions() {
		if !Match(cond, post) {
			return false
		}
	}
	return true
}

// Match evaluates one condition against a post. The semantics mirror the
// wire encoding exactly: bounds measure the total price and keep posts
// without one, the unpriced toggle tests the price record as a whole, and
// the toggle makes bounds strict for missing totals.
func Match(cond Condition, post bangtin.Post) bool {
	switch cond.Kind {
	case KindTextContains:
		return strings.Contains(strings.ToLower(post.Body), strings.ToLower(cond.Needle))
	case KindTypeIn:
		for _, pt := range cond.Types {
			if post.Type == pt {
				return true
			}
		}
		return false
	case KindPriceRange:
		if cond.RequirePrice && post.Price == nil {
			return false
		}
		total := totalVND(post)
		if total == nil {
			return !cond.RequirePrice || (cond.MinVND == nil && cond.MaxVND == nil)
		}
		if cond.MinVND != nil && *total < *cond.MinVND {
			return false
		}
		if cond.MaxVND != nil && *total > *cond.MaxVND {
			return false
		}
		return true
	}
	return false
}

// SortPosts stable-sorts posts the way the service orders them for the
// same keys: keys apply in order, missing values rank last in both
// directions, and descending id breaks remaining ties.
func SortPosts(posts []bangtin.Post, sorts []SortKey) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		for _, key := range sorts {
			if cmp := compareByKey(a, b, key); cmp != 0 {
				return cmp < 0
			}
		}
		return a.ID > b.ID
	})
}

func compareByKey(a, b bangtin.Post, key SortKey) int {
	var cmp int
	var aMissing, bMissing bool

	switch key.Field {
	case FieldCreatedAt:
		at, bt := a.ParsedCreatedAt(), b.ParsedCreatedAt()
		aMissing, bMissing = at.IsZero(), bt.IsZero()
		switch {
		case at.Before(bt):
			cmp = -1
		case at.After(bt):
			cmp = 1
		}
	case FieldPriceTotalVND:
		av, bv := totalVND(a), totalVND(b)
		aMissing, bMissing = av == nil, bv == nil
		if !aMissing && !bMissing {
			switch {
			case *av < *bv:
				cmp = -1
			case *av > *bv:
				cmp = 1
			}
		}
	case FieldLocationCity:
		av, bv := city(a), city(b)
		aMissing, bMissing = av == nil, bv == nil
		if !aMissing && !bMissing {
			cmp = strings.Compare(*av, *bv)
		}
	case FieldAreaTotalM2:
		av, bv := areaM2(a), areaM2(b)
		aMissing, bMissing = av == nil, bv == nil
		if !aMissing && !bMissing {
			switch {
			case *av < *bv:
				cmp = -1
			case *av > *bv:
				cmp = 1
			}
		}
	case FieldType:
		cmp = strings.Compare(string(a.Type), string(b.Type))
	}

	// Missing values rank last regardless of direction.
	switch {
	case aMissing && bMissing:
		return 0
	case aMissing:
		return 1
	case bMissing:
		return -1
	}
	if key.Dir == SortDesc {
		cmp = -cmp
	}
	return cmp
}

func totalVND(p bangtin.Post) *int64 {
	if p.Price == nil {
		return nil
	}
	return p.Price.TotalVND
}

func city(p bangtin.Post) *string {
	if p.Location == nil {
		return nil
	}
	return p.Location.City
}

func areaM2(p bangtin.Post) *float64 {
	if p.Area == nil {
		return nil
	}
	return p.Area.TotalM2
}

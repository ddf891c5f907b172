package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/raovat-dev/raovat/internal/bangtin"
)

// Build translates filter state and a page window into one posts request.
// It is a pure function of its arguments: the same filter and page always
// produce the same request, and nothing is accumulated between calls.
// Every request pins status=eq.published; no other status ever leaves
// this function.
func Build(f Filter, p Page) (bangtin.Request, error) {
	if err := f.Validate(); err != nil {
		return bangtin.Request{}, err
	}
	if p.Index < 0 {
		return bangtin.Request{}, fmt.Errorf("page index %d is negative", p.Index)
	}
	if p.Size <= 0 {
		return bangtin.Request{}, fmt.Errorf("page size %d is not positive", p.Size)
	}

	params := url.Values{}
	params.Set("select", "*")
	params.Set("status", "eq."+bangtin.StatusPublished)

	for _, cond := range f.Conditions() {
		switch cond.Kind {
		case KindTextContains:
			params.Add("body", "ilike.*"+escapeLike(cond.Needle)+"*")
		case KindTypeIn:
			names := make([]string, len(cond.Types))
			for i, pt := range cond.Types {
				names[i] = string(pt)
			}
			params.Add("type", "in.("+strings.Join(names, ",")+")")
		case KindPriceRange:
			encodePriceRange(params, cond)
		default:
			return bangtin.Request{}, fmt.Errorf("unhandled condition kind %d", cond.Kind)
		}
	}

	params.Set("order", orderParam(f.Sorts))

	from := p.Index * p.Size
	return bangtin.Request{
		Params: params,
		From:   from,
		To:     from + p.Size - 1,
	}, nil
}

// encodePriceRange renders the price clauses. Bounds measure the total
// price, and a post with no total must survive them unless the unpriced
// exclusion is on; without the exclusion, bounds therefore ride in an
// or-group with an is-null escape instead of bare comparisons, which the
// remote database would fail for missing values.
func encodePriceRange(params url.Values, cond Condition) {
	const total = "price->total_vnd"

	var bounds []string
	if cond.MinVND != nil {
		bounds = append(bounds, total+".gte."+strconv.FormatInt(*cond.MinVND, 10))
	}
	if cond.MaxVND != nil {
		bounds = append(bounds, total+".lte."+strconv.FormatInt(*cond.MaxVND, 10))
	}

	switch {
	case cond.RequirePrice:
		for _, b := range bounds {
			params.Add(total, strings.TrimPrefix(b, total+"."))
		}
		params.Add("price", "not.is.null")
	case len(bounds) == 1:
		params.Add("or", "("+bounds[0]+","+total+".is.null)")
	case len(bounds) == 2:
		params.Add("or", "(and("+bounds[0]+","+bounds[1]+"),"+total+".is.null)")
	}
}

// orderParam renders the order clause. User keys keep their given order;
// descending keys pin nulls last to match ascending behavior (the remote
// database would otherwise float missing values to the top). A descending
// id key is always appended so pages stay stable between fetches even
// when user keys tie.
func orderParam(sorts []SortKey) string {
	parts := make([]string, 0, len(sorts)+1)
	for _, key := range sorts {
		col, ok := key.Field.WireColumn()
		if !ok {
			continue
		}
		part := col + "." + string(key.Dir)
		if key.Dir == SortDesc {
			part += ".nullslast"
		}
		parts = append(parts, part)
	}
	parts = append(parts, "id.desc")
	return strings.Join(parts, ",")
}

// escapeLike neutralizes pattern metacharacters in user search text so the
// remote ilike sees them literally. The surrounding wildcards are added by
// the caller.
func escapeLike(needle string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`%`, `\%`,
		`_`, `\_`,
		`*`, `\*`,
	)
	return replacer.Replace(needle)
}

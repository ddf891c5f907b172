package ui

import (
	"testing"

	"github.com/raovat-dev/raovat/internal/bangtin"
	"github.com/raovat-dev/raovat/internal/query"
)

func TestTypeFilter_ApplyInCanonicalOrder(t *testing.T) {
	m := loadedModel(t, &stubFetcher{}, testPosts(1), 1)

	m, _ = press(t, m, "t")
	if !m.showTypeFilter {
		t.Fatal("t should open the type filter")
	}

	// Check land (row 2) first, then house (row 1); the applied filter
	// still lists house before land.
	m, _ = press(t, m, "j")
	m, _ = press(t, m, " ")
	m, _ = press(t, m, "k")
	m, _ = press(t, m, " ")

	m, cmd := press(t, m, "enter")
	if m.showTypeFilter {
		t.Fatal("enter should close the modal")
	}
	if cmd == nil {
		t.Fatal("a changed selection should fetch")
	}
	want := []bangtin.PropertyType{bangtin.TypeHouse, bangtin.TypeLand}
	if len(m.filter.Types) != 2 || m.filter.Types[0] != want[0] || m.filter.Types[1] != want[1] {
		t.Fatalf("filter.Types = %v, want %v", m.filter.Types, want)
	}
	if m.page.Index != 0 {
		t.Fatalf("page.Index = %d, want 0 after filter change", m.page.Index)
	}
}

func TestTypeFilter_UnchangedSelectionDoesNotFetch(t *testing.T) {
	m := loadedModel(t, &stubFetcher{}, testPosts(1), 1)
	_ = m.applyFilter(query.Filter{Types: []bangtin.PropertyType{bangtin.TypeRent}})
	seqBefore := m.fetchSeq

	m, _ = press(t, m, "t")
	if !m.typeFilter.checked[bangtin.TypeRent] {
		t.Fatal("modal should seed from the applied filter")
	}
	m, cmd := press(t, m, "enter")
	if cmd != nil || m.fetchSeq != seqBefore {
		t.Fatal("closing without changes must not fetch")
	}
}

func TestTypeFilter_ClearChecksNothing(t *testing.T) {
	m := loadedModel(t, &stubFetcher{}, testPosts(1), 1)
	_ = m.applyFilter(query.Filter{Types: []bangtin.PropertyType{bangtin.TypeHouse, bangtin.TypeHostel}})

	m, _ = press(t, m, "t")
	m, _ = press(t, m, "x")
	m, cmd := press(t, m, "enter")
	if cmd == nil {
		t.Fatal("clearing an applied restriction should fetch")
	}
	if len(m.filter.Types) != 0 {
		t.Fatalf("filter.Types = %v, want empty (no restriction)", m.filter.Types)
	}
}

func TestTypeFilter_EscKeepsAppliedFilter(t *testing.T) {
	m := loadedModel(t, &stubFetcher{}, testPosts(1), 1)
	_ = m.applyFilter(query.Filter{Types: []bangtin.PropertyType{bangtin.TypeLand}})
	seqBefore := m.fetchSeq

	m, _ = press(t, m, "t")
	m, _ = press(t, m, " ") // check house in the draft
	m, cmd := press(t, m, "esc")
	if m.showTypeFilter || cmd != nil || m.fetchSeq != seqBefore {
		t.Fatal("esc must discard the draft without fetching")
	}
	if len(m.filter.Types) != 1 || m.filter.Types[0] != bangtin.TypeLand {
		t.Fatalf("filter.Types = %v, want [land]", m.filter.Types)
	}
}

func TestPriceFilter_AppliesBoundsInTrieu(t *testing.T) {
	m := loadedModel(t, &stubFetcher{}, testPosts(1), 1)

	m, _ = press(t, m, "p")
	if !m.showPriceFilter {
		t.Fatal("p should open the price filter")
	}

	m = typeRunes(t, m, "500")
	m, _ = press(t, m, "tab")
	m = typeRunes(t, m, "1500")
	m, _ = press(t, m, "tab") // toggle slot
	m, _ = press(t, m, " ")

	m, cmd := press(t, m, "enter")
	if m.showPriceFilter {
		t.Fatal("enter with valid bounds should close the modal")
	}
	if cmd == nil {
		t.Fatal("applying bounds should fetch")
	}

	p := m.filter.Price
	if p.MinVND == nil || *p.MinVND != 500_000_000 {
		t.Fatalf("MinVND = %v, want 500000000", p.MinVND)
	}
	if p.MaxVND == nil || *p.MaxVND != 1_500_000_000 {
		t.Fatalf("MaxVND = %v, want 1500000000", p.MaxVND)
	}
	if !p.ExcludeUnpriced {
		t.Fatal("ExcludeUnpriced should be set")
	}
}

func TestPriceFilter_InvertedBoundsStayInModal(t *testing.T) {
	m := loadedModel(t, &stubFetcher{}, testPosts(1), 1)
	seqBefore := m.fetchSeq

	m, _ = press(t, m, "p")
	m = typeRunes(t, m, "900")
	m, _ = press(t, m, "tab")
	m = typeRunes(t, m, "100")

	m, cmd := press(t, m, "enter")
	if !m.showPriceFilter {
		t.Fatal("invalid bounds must keep the modal open")
	}
	if cmd != nil || m.fetchSeq != seqBefore {
		t.Fatal("invalid bounds must not fetch")
	}
	if m.priceFilter.errMsg != "minimum exceeds maximum" {
		t.Fatalf("errMsg = %q", m.priceFilter.errMsg)
	}
	if !m.filter.Price.IsZero() {
		t.Fatalf("filter.Price = %+v, want untouched", m.filter.Price)
	}

	// Fixing the max clears the message and applies.
	m.priceFilter.maxInput.SetValue("9000")
	m, cmd = press(t, m, "enter")
	if m.showPriceFilter || cmd == nil {
		t.Fatal("corrected bounds should apply")
	}
}

func TestParseTrieu(t *testing.T) {
	cases := []struct {
		in      string
		wantVND int64
		wantNil bool
		wantErr bool
	}{
		{in: "", wantNil: true},
		{in: "  ", wantNil: true},
		{in: "500", wantVND: 500_000_000},
		{in: "0", wantVND: 0},
		{in: "-3", wantErr: true},
		{in: "1.5", wantErr: true},
		{in: "abc", wantErr: true},
	}
	for _, tc := range cases {
		got, err := parseTrieu(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("parseTrieu(%q) expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("parseTrieu(%q) unexpected error: %v", tc.in, err)
		}
		if tc.wantNil {
			if got != nil {
				t.Fatalf("parseTrieu(%q) = %d, want nil", tc.in, *got)
			}
			continue
		}
		if got == nil || *got != tc.wantVND {
			t.Fatalf("parseTrieu(%q) = %v, want %d", tc.in, got, tc.wantVND)
		}
	}
}

func TestSortMenu_CyclesThroughStates(t *testing.T) {
	m := loadedModel(t, &stubFetcher{}, testPosts(1), 1)

	m, _ = press(t, m, "s")
	if !m.showSortMenu {
		t.Fatal("s should open the sort menu")
	}

	// created_at: off -> asc -> desc -> off.
	m, cmd := press(t, m, " ")
	if cmd == nil {
		t.Fatal("adding a sort key should fetch")
	}
	if len(m.filter.Sorts) != 1 || m.filter.Sorts[0] != (query.SortKey{Field: query.FieldCreatedAt, Dir: query.SortAsc}) {
		t.Fatalf("Sorts = %v, want [created_at asc]", m.filter.Sorts)
	}

	m, _ = press(t, m, " ")
	if m.filter.Sorts[0].Dir != query.SortDesc {
		t.Fatalf("Dir = %q, want desc", m.filter.Sorts[0].Dir)
	}

	m, _ = press(t, m, " ")
	if len(m.filter.Sorts) != 0 {
		t.Fatalf("Sorts = %v, want empty after third cycle", m.filter.Sorts)
	}
}

func TestSortMenu_OrderFollowsAdditionAndCaps(t *testing.T) {
	m := loadedModel(t, &stubFetcher{}, testPosts(1), 1)

	m, _ = press(t, m, "s")

	// Add price, then created, then city: ranks follow addition order.
	m, _ = press(t, m, "j") // price
	m, _ = press(t, m, " ")
	m, _ = press(t, m, "k") // created
	m, _ = press(t, m, " ")
	m, _ = press(t, m, "j")
	m, _ = press(t, m, "j") // city
	m, _ = press(t, m, " ")

	want := []query.Field{query.FieldPriceTotalVND, query.FieldCreatedAt, query.FieldLocationCity}
	if len(m.filter.Sorts) != 3 {
		t.Fatalf("Sorts = %v, want 3 keys", m.filter.Sorts)
	}
	for i, f := range want {
		if m.filter.Sorts[i].Field != f {
			t.Fatalf("Sorts[%d].Field = %q, want %q", i, m.filter.Sorts[i].Field, f)
		}
	}

	// A fourth key exceeds the cap and reports instead of applying.
	seqBefore := m.fetchSeq
	m, _ = press(t, m, "j") // area
	m, cmd := press(t, m, " ")
	if cmd != nil || m.fetchSeq != seqBefore {
		t.Fatal("exceeding the sort cap must not fetch")
	}
	if m.sortMenu.errMsg == "" {
		t.Fatal("exceeding the sort cap should set an error message")
	}
	if len(m.filter.Sorts) != 3 {
		t.Fatalf("Sorts = %v, want unchanged 3 keys", m.filter.Sorts)
	}
}

func TestSortMenu_ClearRemovesAllKeys(t *testing.T) {
	m := loadedModel(t, &stubFetcher{}, testPosts(1), 1)
	_ = m.applyFilter(query.Filter{Sorts: []query.SortKey{
		{Field: query.FieldCreatedAt, Dir: query.SortDesc},
		{Field: query.FieldPriceTotalVND, Dir: query.SortAsc},
	}})

	m, _ = press(t, m, "s")
	m, cmd := press(t, m, "x")
	if cmd == nil {
		t.Fatal("clearing applied sorts should fetch")
	}
	if len(m.filter.Sorts) != 0 {
		t.Fatalf("Sorts = %v, want empty", m.filter.Sorts)
	}

	m, cmd = press(t, m, "x")
	if cmd != nil {
		t.Fatal("clearing an empty sort order must be a no-op")
	}
}

func TestSortMarker_ShowsRankOnlyWithMultipleKeys(t *testing.T) {
	m := loadedModel(t, &stubFetcher{}, testPosts(1), 1)

	_ = m.applyFilter(query.Filter{Sorts: []query.SortKey{
		{Field: query.FieldCreatedAt, Dir: query.SortAsc},
	}})
	if got := m.sortMarker(query.FieldCreatedAt); got != "↑" {
		t.Fatalf("marker = %q, want plain arrow for a single key", got)
	}

	_ = m.applyFilter(query.Filter{Sorts: []query.SortKey{
		{Field: query.FieldCreatedAt, Dir: query.SortAsc},
		{Field: query.FieldPriceTotalVND, Dir: query.SortDesc},
	}})
	if got := m.sortMarker(query.FieldPriceTotalVND); got != "↓2" {
		t.Fatalf("marker = %q, want arrow with rank", got)
	}
	if got := m.sortMarker(query.FieldType); got != "" {
		t.Fatalf("marker = %q, want empty for an unsorted field", got)
	}
}

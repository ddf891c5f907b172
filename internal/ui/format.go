package ui

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/raovat-dev/raovat/internal/bangtin"
)

// missingMark stands in for absent optional fields in the grid and detail pane.
const missingMark = "—"

// VND magnitudes used by the abbreviated price form.
const (
	tyVND    int64 = 1_000_000_000
	trieuVND int64 = 1_000_000
	nghinVND int64 = 1_000
)

// vndPrinter groups digits the Vietnamese way (1.500.000.000).
var vndPrinter = message.NewPrinter(language.Vietnamese)

// typeLabels maps wire property types to the Vietnamese labels shown in the grid.
var typeLabels = map[bangtin.PropertyType]string{
	bangtin.TypeHouse:  "Nhà",
	bangtin.TypeLand:   "Đất",
	bangtin.TypeRent:   "Cho thuê",
	bangtin.TypeHostel: "Phòng trọ",
	bangtin.TypeOther:  "Khác",
}

// TypeLabel returns the Vietnamese display label for a property type.
func TypeLabel(t bangtin.PropertyType) string {
	if label, ok := typeLabels[t]; ok {
		return label
	}
	return "Khác"
}

// FormatVND renders an amount in the abbreviated Vietnamese form used in
// listings: the two largest adjacent magnitudes, smaller remainders dropped.
// 1_500_000_000 becomes "1 tỷ 500 triệu", 950_000_000 becomes "950 triệu".
func FormatVND(amount int64) string {
	if amount < 0 {
		return FormatVNDExact(amount)
	}
	switch {
	case amount >= tyVND:
		return formatVNDPair(amount, tyVND, "tỷ", trieuVND, "triệu")
	case amount >= trieuVND:
		return formatVNDPair(amount, trieuVND, "triệu", nghinVND, "nghìn")
	case amount >= nghinVND:
		return fmt.Sprintf("%d nghìn", amount/nghinVND)
	default:
		return FormatVNDExact(amount)
	}
}

func formatVNDPair(amount, major int64, majorUnit string, minor int64, minorUnit string) string {
	out := fmt.Sprintf("%d %s", amount/major, majorUnit)
	if rem := (amount % major) / minor; rem > 0 {
		out += fmt.Sprintf(" %d %s", rem, minorUnit)
	}
	return out
}

// FormatVNDExact renders the full amount with Vietnamese digit grouping
// and the đồng sign, e.g. "1.500.000.000 ₫".
func FormatVNDExact(amount int64) string {
	return vndPrinter.Sprintf("%d ₫", amount)
}

// FormatPrice renders the abbreviated total for a listing, or the missing
// marker when no total is stated.
func FormatPrice(p *bangtin.PriceInfo) string {
	if p == nil || p.TotalVND == nil {
		return missingMark
	}
	return FormatVND(*p.TotalVND)
}

// FormatAreaDims renders lot dimensions as "width × length", e.g. "5m × 4m".
// Falls back to the total area when dimensions are not stated.
func FormatAreaDims(a *bangtin.AreaInfo) string {
	if a == nil {
		return missingMark
	}
	if a.WidthM != nil && a.LengthM != nil {
		return fmt.Sprintf("%sm × %sm", formatDim(*a.WidthM), formatDim(*a.LengthM))
	}
	if a.TotalM2 != nil {
		return FormatM2(*a.TotalM2)
	}
	return missingMark
}

// FormatM2 renders a square-meter figure, e.g. "75 m²".
func FormatM2(v float64) string {
	return formatDim(v) + " m²"
}

// formatDim trims trailing zeros so 5.0 renders as "5" and 4.5 as "4.5".
func formatDim(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// truncate shortens a string to at most max runes, ending with an ellipsis
// when anything was cut. Operates on runes so Vietnamese text is never cut
// mid-character.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}

// padRight pads or truncates a string to exactly width cells. Rune count is
// used as the cell width; the Vietnamese alphabet has no wide runes.
func padRight(s string, width int) string {
	r := []rune(s)
	if len(r) > width {
		return truncate(s, width)
	}
	if len(r) == width {
		return s
	}
	return s + strings.Repeat(" ", width-len(r))
}

// collapseSpace flattens runs of whitespace (including newlines) into single
// spaces so multi-line listing bodies fit on one grid row.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncateMiddle shortens a string by cutting the middle, keeping both ends.
// Useful for URLs where the host and the trailing slug carry the meaning.
func truncateMiddle(s string, max int) string {
	r := []rune(s)
	if max <= 0 {
		return ""
	}
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return truncate(s, max)
	}
	head := (max - 1) / 2
	tail := max - 1 - head
	return string(r[:head]) + "…" + string(r[len(r)-tail:])
}

// wrapText greedily word-wraps text to the given width in runes. Words
// longer than a full line are split hard.
func wrapText(s string, width int) []string {
	if width <= 0 {
		return nil
	}

	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		line := ""
		for _, word := range words {
			for len([]rune(word)) > width {
				if line != "" {
					lines = append(lines, line)
					line = ""
				}
				r := []rune(word)
				lines = append(lines, string(r[:width]))
				word = string(r[width:])
			}
			switch {
			case line == "":
				line = word
			case len([]rune(line))+1+len([]rune(word)) <= width:
				line += " " + word
			default:
				lines = append(lines, line)
				line = word
			}
		}
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

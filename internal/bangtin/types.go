package bangtin

import (
	"time"
)

// StatusPublished is the only post status this client ever requests.
// Records in other states belong to the ingestion pipeline and are
// invisible to the dashboard.
const StatusPublished = "published"

// PropertyType is the closed category set used by the posts collection.
type PropertyType string

// Known property types.
const (
	TypeHouse  PropertyType = "house"
	TypeLand   PropertyType = "land"
	TypeRent   PropertyType = "rent"
	TypeHostel PropertyType = "hostel"
	TypeOther  PropertyType = "other"
)

// AllPropertyTypes lists every known property type in display order.
func AllPropertyTypes() []PropertyType {
	return []PropertyType{TypeHouse, TypeLand, TypeRent, TypeHostel, TypeOther}
}

// Valid reports whether t is one of the known property types.
func (t PropertyType) Valid() bool {
	switch t {
	case TypeHouse, TypeLand, TypeRent, TypeHostel, TypeOther:
		return true
	}
	return false
}

// Post mirrors one row of the hosted posts collection. Extraction fields
// are pointers: the upstream parser frequently cannot recover a price,
// area, or location from free text, and absence is expected data, not an
// error.
type Post struct {
	ID            int64         `json:"id"`
	Author        *string       `json:"author"`
	Body          string        `json:"body"`
	SourceURL     *string       `json:"source_url"`
	Type          PropertyType  `json:"type"`
	Price         *PriceInfo    `json:"price"`
	Area          *AreaInfo     `json:"area"`
	Location      *LocationInfo `json:"location"`
	Status        string        `json:"status"`
	SpecialThings []string      `json:"special_things"`
	CreatedAt     string        `json:"created_at"`
	FetchedAt     string        `json:"fetched_at"`
}

// PriceInfo carries the price figures extracted from a post, in VND.
type PriceInfo struct {
	TotalVND    *int64 `json:"total_vnd"`
	PerM2VND    *int64 `json:"per_m2_vnd"`
	PerMeterVND *int64 `json:"per_meter_vnd"`
	Negotiable  bool   `json:"negotiable"`
}

// AreaInfo carries the plot dimensions extracted from a post, in meters.
type AreaInfo struct {
	LengthM       *float64 `json:"length_m"`
	WidthM        *float64 `json:"width_m"`
	TotalM2       *float64 `json:"total_m2"`
	ResidentialM2 *float64 `json:"residential_m2"`
	OtherLandType *string  `json:"other_land_type"`
}

// LocationInfo carries whatever location detail the parser recovered.
type LocationInfo struct {
	City      *string  `json:"city"`
	District  *string  `json:"district"`
	Roads     []string `json:"roads"`
	Proximity *string  `json:"proximity"`
	MapURL    *string  `json:"map_url"`
}

// ParsedCreatedAt returns the parsed CreatedAt timestamp.
func (p Post) ParsedCreatedAt() time.Time {
	return parseTime(p.CreatedAt)
}

// ParsedFetchedAt returns the parsed FetchedAt timestamp.
func (p Post) ParsedFetchedAt() time.Time {
	return parseTime(p.FetchedAt)
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

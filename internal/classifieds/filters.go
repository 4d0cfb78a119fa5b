package classifieds

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/danhewitt/motorline-backend/pkg/enums"
	"github.com/danhewitt/motorline-backend/pkg/pagination"
)

// ListFilters describe the supported filter knobs for the public browse
// endpoint. A nil field means "no constraint" for that dimension.
type ListFilters struct {
	MakeID         *int64                `json:"make_id,omitempty"`
	ModelID        *int64                `json:"model_id,omitempty"`
	ModelVariantID *int64                `json:"model_variant_id,omitempty"`
	YearMin        *int                  `json:"year_min,omitempty"`
	YearMax        *int                  `json:"year_max,omitempty"`
	PriceMin       *int64                `json:"price_min,omitempty"`
	PriceMax       *int64                `json:"price_max,omitempty"`
	OdometerMin    *int                  `json:"odometer_min,omitempty"`
	OdometerMax    *int                  `json:"odometer_max,omitempty"`
	Transmission   *enums.Transmission   `json:"transmission,omitempty"`
	FuelType       *enums.FuelType       `json:"fuel_type,omitempty"`
	BodyType       *enums.BodyType       `json:"body_type,omitempty"`
	ULEZ           *enums.ULEZCompliance `json:"ulez,omitempty"`
	Colour         *string               `json:"colour,omitempty"`
	Doors          *int                  `json:"doors,omitempty"`
	Seats          *int                  `json:"seats,omitempty"`
	Query          string                `json:"q,omitempty"`
}

// ListQuery captures the inputs needed to paginate/filter public listings.
type ListQuery struct {
	Filters    ListFilters
	Pagination pagination.Params
	// Statuses widens the visibility scope for admin callers. Empty means
	// LIVE only.
	Statuses []enums.ClassifiedStatus
}

// ParseListFilters maps flat query parameters onto typed filters. It is a
// pure transformation: absent, empty, or malformed values leave the
// corresponding field unset rather than producing an error. Inverted ranges
// (minX > maxX) pass through untouched; the persistence layer applies them
// literally.
func ParseListFilters(values url.Values) ListFilters {
	filters := ListFilters{
		MakeID:         parseID(values.Get("make")),
		ModelID:        parseID(values.Get("model")),
		ModelVariantID: parseID(values.Get("variant")),
		YearMin:        parseInt(values.Get("minYear")),
		YearMax:        parseInt(values.Get("maxYear")),
		PriceMin:       parseID(values.Get("minPrice")),
		PriceMax:       parseID(values.Get("maxPrice")),
		OdometerMin:    parseInt(values.Get("minOdometer")),
		OdometerMax:    parseInt(values.Get("maxOdometer")),
		Doors:          parseInt(values.Get("doors")),
		Seats:          parseInt(values.Get("seats")),
		Query:          strings.TrimSpace(values.Get("q")),
	}

	if parsed, err := enums.ParseTransmission(values.Get("transmission")); err == nil {
		filters.Transmission = &parsed
	}
	if parsed, err := enums.ParseFuelType(values.Get("fuelType")); err == nil {
		filters.FuelType = &parsed
	}
	if parsed, err := enums.ParseBodyType(values.Get("bodyType")); err == nil {
		filters.BodyType = &parsed
	}
	if parsed, err := enums.ParseULEZCompliance(values.Get("ulez")); err == nil {
		filters.ULEZ = &parsed
	}
	if colour := strings.TrimSpace(values.Get("colour")); colour != "" {
		filters.Colour = &colour
	}

	return filters
}

func parseID(raw string) *int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value < 0 {
		return nil
	}
	return &value
}

func parseInt(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return nil
	}
	return &value
}

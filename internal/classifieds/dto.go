package classifieds

import (
	"time"

	"github.com/danhewitt/motorline-backend/pkg/db/models"
)

// Summary is the listing-card payload returned by browse endpoints.
type Summary struct {
	ID           int64     `json:"id"`
	Slug         string    `json:"slug"`
	Title        string    `json:"title"`
	Year         int       `json:"year"`
	PriceMinor   int64     `json:"price_minor"`
	Currency     string    `json:"currency"`
	Odometer     int       `json:"odometer"`
	OdometerUnit string    `json:"odometer_unit"`
	Transmission string    `json:"transmission"`
	FuelType     string    `json:"fuel_type"`
	BodyType     string    `json:"body_type"`
	Colour       string    `json:"colour"`
	MakeName     string    `json:"make_name"`
	ModelName    string    `json:"model_name"`
	VariantName  *string   `json:"variant_name,omitempty"`
	ThumbnailURL *string   `json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ListResult wraps one page of summaries with the cursor for the next page.
type ListResult struct {
	Classifieds []Summary `json:"classifieds"`
	NextCursor  string    `json:"next_cursor,omitempty"`
}

// ImageDTO captures one gallery entry.
type ImageDTO struct {
	ID       int64  `json:"id"`
	URL      string `json:"url"`
	Position int    `json:"position"`
}

// DetailDTO is the full vehicle payload for the detail page and admin reads.
type DetailDTO struct {
	ID           int64      `json:"id"`
	Slug         string     `json:"slug"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Year         int        `json:"year"`
	PriceMinor   int64      `json:"price_minor"`
	Currency     string     `json:"currency"`
	Odometer     int        `json:"odometer"`
	OdometerUnit string     `json:"odometer_unit"`
	Colour       string     `json:"colour"`
	Transmission string     `json:"transmission"`
	FuelType     string     `json:"fuel_type"`
	BodyType     string     `json:"body_type"`
	ULEZ         string     `json:"ulez"`
	Doors        int        `json:"doors"`
	Seats        int        `json:"seats"`
	Status       string     `json:"status"`
	MakeID       int64      `json:"make_id"`
	ModelID      int64      `json:"model_id"`
	VariantID    *int64     `json:"variant_id,omitempty"`
	MakeName     string     `json:"make_name,omitempty"`
	ModelName    string     `json:"model_name,omitempty"`
	VariantName  *string    `json:"variant_name,omitempty"`
	Views        int64      `json:"views"`
	Images       []ImageDTO `json:"images"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewDetailDTO builds a DTO from the persisted model with its preloads.
func NewDetailDTO(classified *models.Classified) *DetailDTO {
	dto := &DetailDTO{
		ID:           classified.ID,
		Slug:         classified.Slug,
		Title:        classified.Title,
		Description:  classified.Description,
		Year:         classified.Year,
		PriceMinor:   classified.PriceMinor,
		Currency:     classified.Currency.String(),
		Odometer:     classified.Odometer,
		OdometerUnit: classified.OdometerUnit.String(),
		Colour:       classified.Colour,
		Transmission: classified.Transmission.String(),
		FuelType:     classified.FuelType.String(),
		BodyType:     classified.BodyType.String(),
		ULEZ:         classified.ULEZ.String(),
		Doors:        classified.Doors,
		Seats:        classified.Seats,
		Status:       classified.Status.String(),
		MakeID:       classified.MakeID,
		ModelID:      classified.ModelID,
		VariantID:    classified.ModelVariantID,
		Views:        classified.Views,
		Images:       make([]ImageDTO, 0, len(classified.Images)),
		CreatedAt:    classified.CreatedAt,
		UpdatedAt:    classified.UpdatedAt,
	}

	if classified.Make != nil {
		dto.MakeName = classified.Make.Name
	}
	if classified.Model != nil {
		dto.ModelName = classified.Model.Name
	}
	if classified.ModelVariant != nil {
		name := classified.ModelVariant.Name
		dto.VariantName = &name
	}
	for _, image := range classified.Images {
		dto.Images = append(dto.Images, ImageDTO{
			ID:       image.ID,
			URL:      image.URL,
			Position: image.Position,
		})
	}
	return dto
}

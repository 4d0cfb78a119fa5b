package controllers

import (
	"net/http"
	"strings"

	"github.com/danhewitt/motorline-backend/api/responses"
	"github.com/danhewitt/motorline-backend/api/validators"
	"github.com/danhewitt/motorline-backend/internal/classifieds"
	"github.com/danhewitt/motorline-backend/pkg/enums"
	pkgerrors "github.com/danhewitt/motorline-backend/pkg/errors"
	"github.com/danhewitt/motorline-backend/pkg/logger"
	"github.com/danhewitt/motorline-backend/pkg/pagination"
)

type classifiedWriteRequest struct {
	Title          string   `json:"title" validate:"required"`
	Description    string   `json:"description"`
	Year           int      `json:"year" validate:"required,gt=0"`
	PriceMinor     int64    `json:"price_minor" validate:"min=0"`
	Currency       string   `json:"currency" validate:"required"`
	Odometer       int      `json:"odometer" validate:"min=0"`
	OdometerUnit   string   `json:"odometer_unit" validate:"required"`
	Colour         string   `json:"colour"`
	Transmission   string   `json:"transmission" validate:"required"`
	FuelType       string   `json:"fuel_type" validate:"required"`
	BodyType       string   `json:"body_type" validate:"required"`
	ULEZ           string   `json:"ulez" validate:"required"`
	Doors          int      `json:"doors" validate:"min=0"`
	Seats          int      `json:"seats" validate:"min=0"`
	Status         string   `json:"status" validate:"required"`
	MakeID         int64    `json:"make_id" validate:"required,gt=0"`
	ModelID        int64    `json:"model_id" validate:"required,gt=0"`
	ModelVariantID *int64   `json:"model_variant_id"`
	ImageURLs      []string `json:"image_urls"`
}

func (req classifiedWriteRequest) toInput() classifieds.CreateInput {
	return classifieds.CreateInput{
		Title:          req.Title,
		Description:    req.Description,
		Year:           req.Year,
		PriceMinor:     req.PriceMinor,
		Currency:       enums.Currency(req.Currency),
		Odometer:       req.Odometer,
		OdometerUnit:   enums.OdometerUnit(req.OdometerUnit),
		Colour:         req.Colour,
		Transmission:   enums.Transmission(req.Transmission),
		FuelType:       enums.FuelType(req.FuelType),
		BodyType:       enums.BodyType(req.BodyType),
		ULEZ:           enums.ULEZCompliance(req.ULEZ),
		Doors:          req.Doors,
		Seats:          req.Seats,
		Status:         enums.ClassifiedStatus(req.Status),
		MakeID:         req.MakeID,
		ModelID:        req.ModelID,
		ModelVariantID: req.ModelVariantID,
		ImageURLs:      req.ImageURLs,
	}
}

// AdminClassifiedList serves the panel inventory view across all statuses.
func AdminClassifiedList(svc classifieds.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		statuses, err := parseStatuses(r.URL.Query().Get("status"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := classifieds.ListQuery{
			Filters: classifieds.ParseListFilters(r.URL.Query()),
			Pagination: pagination.Params{
				Limit:  limit,
				Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
			},
			Statuses: statuses,
		}

		result, err := svc.List(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// AdminClassifiedDetail loads one listing by id regardless of status.
func AdminClassifiedDetail(svc classifieds.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "classifiedId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.GetDetail(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, detail)
	}
}

// AdminClassifiedCreate inserts a new listing.
func AdminClassifiedCreate(svc classifieds.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req classifiedWriteRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Create(r.Context(), req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, detail)
	}
}

// AdminClassifiedUpdate replaces a listing's mutable fields and gallery.
func AdminClassifiedUpdate(svc classifieds.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "classifiedId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req classifiedWriteRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Update(r.Context(), classifieds.UpdateInput{CreateInput: req.toInput(), ID: id})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, detail)
	}
}

type classifiedStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdminClassifiedStatus applies a listing status transition.
func AdminClassifiedStatus(svc classifieds.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "classifiedId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req classifiedStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ChangeStatus(r.Context(), id, enums.ClassifiedStatus(req.Status)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": req.Status})
	}
}

// AdminClassifiedDelete removes a listing and its gallery.
func AdminClassifiedDelete(svc classifieds.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "classifiedId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

func parseStatuses(raw string) ([]enums.ClassifiedStatus, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	statuses := make([]enums.ClassifiedStatus, 0, len(parts))
	for _, part := range parts {
		status, err := enums.ParseClassifiedStatus(strings.TrimSpace(part))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

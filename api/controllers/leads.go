package controllers

import (
	"net/http"

	"github.com/danhewitt/motorline-backend/api/middleware"
	"github.com/danhewitt/motorline-backend/api/responses"
	"github.com/danhewitt/motorline-backend/api/validators"
	"github.com/danhewitt/motorline-backend/internal/customers"
	"github.com/danhewitt/motorline-backend/pkg/logger"
)

const (
	maxNameLen    = 100
	maxPhoneLen   = 30
	maxMessageLen = 2000
)

type leadRequest struct {
	FirstName    string `json:"first_name" validate:"required"`
	LastName     string `json:"last_name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone"`
	Message      string `json:"message"`
	ClassifiedID *int64 `json:"classified_id"`
}

func (req leadRequest) toInput(sourceID string) customers.LeadInput {
	return customers.LeadInput{
		FirstName:    validators.SanitizeString(req.FirstName, maxNameLen),
		LastName:     validators.SanitizeString(req.LastName, maxNameLen),
		Email:        req.Email,
		Phone:        validators.SanitizeString(req.Phone, maxPhoneLen),
		Message:      validators.SanitizeString(req.Message, maxMessageLen),
		SourceID:     sourceID,
		ClassifiedID: req.ClassifiedID,
	}
}

// LeadReservation records a reservation enquiry for a specific vehicle.
func LeadReservation(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req leadRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.CreateReservation(r.Context(), req.toInput(middleware.SourceIDFromContext(r.Context())))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, customer)
	}
}

// LeadTradeIn records a trade-in enquiry; the vehicle link is optional.
func LeadTradeIn(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req leadRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.CreateTradeIn(r.Context(), req.toInput(middleware.SourceIDFromContext(r.Context())))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, customer)
	}
}

type newsletterRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// NewsletterSubscribe records a newsletter signup, once per email.
func NewsletterSubscribe(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req newsletterRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.SubscribeNewsletter(r.Context(), req.Email, middleware.SourceIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, customer)
	}
}

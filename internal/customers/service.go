package customers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/danhewitt/motorline-backend/internal/classifieds"
	"github.com/danhewitt/motorline-backend/internal/favourites"
	"github.com/danhewitt/motorline-backend/pkg/db/models"
	"github.com/danhewitt/motorline-backend/pkg/enums"
	pkgerrors "github.com/danhewitt/motorline-backend/pkg/errors"
	"github.com/danhewitt/motorline-backend/pkg/logger"
	"gorm.io/gorm"
)

// LeadInput carries a reservation or trade-in enquiry from the public site.
type LeadInput struct {
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	Message      string
	SourceID     string
	ClassifiedID *int64
}

// CustomerDTO is the admin-facing customer payload.
type CustomerDTO struct {
	ID           int64     `json:"id"`
	Kind         string    `json:"kind"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Message      string    `json:"message"`
	SourceID     *string   `json:"source_id,omitempty"`
	ClassifiedID *int64    `json:"classified_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// CustomerPage is one cursor page of customers.
type CustomerPage struct {
	Customers  []CustomerDTO `json:"customers"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// SavedCarsDTO pairs a customer with their mirrored favourites.
type SavedCarsDTO struct {
	Customer CustomerDTO           `json:"customer"`
	Cars     []classifieds.Summary `json:"cars"`
}

// Service captures public lead submission and admin browsing.
type Service interface {
	CreateReservation(ctx context.Context, input LeadInput) (*CustomerDTO, error)
	CreateTradeIn(ctx context.Context, input LeadInput) (*CustomerDTO, error)
	SubscribeNewsletter(ctx context.Context, email, sourceID string) (*CustomerDTO, error)
	List(ctx context.Context, query ListQuery) (*CustomerPage, error)
	SavedCars(ctx context.Context, customerID int64) (*SavedCarsDTO, error)
}

// ServiceParams groups dependencies for the customers service.
type ServiceParams struct {
	Repo            *Repository
	FavouritesSvc   favourites.Service
	FavouritesRepo  *favourites.Repository
	ClassifiedsRepo *classifieds.Repository
	Logger          *logger.Logger
}

type service struct {
	repo            *Repository
	favouritesSvc   favourites.Service
	favouritesRepo  *favourites.Repository
	classifiedsRepo *classifieds.Repository
	logg            *logger.Logger
}

// NewService builds a customers service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customers repo is required")
	}
	if params.FavouritesRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "favourites repo is required")
	}
	if params.ClassifiedsRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "classifieds repo is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		repo:            params.Repo,
		favouritesSvc:   params.FavouritesSvc,
		favouritesRepo:  params.FavouritesRepo,
		classifiedsRepo: params.ClassifiedsRepo,
		logg:            params.Logger,
	}, nil
}

// CreateReservation records a reservation enquiry for a specific vehicle.
func (s *service) CreateReservation(ctx context.Context, input LeadInput) (*CustomerDTO, error) {
	if input.ClassifiedID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "classified id is required")
	}
	return s.createLead(ctx, enums.CustomerKindReservation, input)
}

// CreateTradeIn records a trade-in enquiry; the vehicle link is optional.
func (s *service) CreateTradeIn(ctx context.Context, input LeadInput) (*CustomerDTO, error) {
	return s.createLead(ctx, enums.CustomerKindTradeIn, input)
}

// SubscribeNewsletter records a newsletter signup, once per email.
func (s *service) SubscribeNewsletter(ctx context.Context, email, sourceID string) (*CustomerDTO, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	exists, err := s.repo.newsletterExists(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check newsletter subscription")
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already subscribed")
	}

	return s.createLead(ctx, enums.CustomerKindNewsletter, LeadInput{Email: email, SourceID: sourceID})
}

func (s *service) createLead(ctx context.Context, kind enums.CustomerKind, input LeadInput) (*CustomerDTO, error) {
	email := normalizeEmail(input.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	customer := &models.Customer{
		Kind:         kind,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        email,
		Phone:        strings.TrimSpace(input.Phone),
		Message:      strings.TrimSpace(input.Message),
		ClassifiedID: input.ClassifiedID,
	}
	if sourceID := strings.TrimSpace(input.SourceID); sourceID != "" {
		customer.SourceID = &sourceID
	}

	created, err := s.repo.Create(ctx, customer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create customer")
	}

	// seed the new row with the visitor's current favourites so the admin
	// view is populated immediately, not only after the next toggle
	if created.SourceID != nil && s.favouritesSvc != nil {
		if err := s.favouritesSvc.SyncSource(ctx, *created.SourceID); err != nil {
			s.logg.Error(s.logg.WithSourceID(ctx, *created.SourceID), "seeding favourites for new customer", err)
		}
	}

	dto := toDTO(created)
	return &dto, nil
}

// List returns one page of customers for the admin browse view.
func (s *service) List(ctx context.Context, query ListQuery) (*CustomerPage, error) {
	result, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}

	dtos := make([]CustomerDTO, 0, len(result.Customers))
	for _, customer := range result.Customers {
		dtos = append(dtos, toDTO(&customer))
	}
	return &CustomerPage{Customers: dtos, NextCursor: result.NextCursor}, nil
}

// SavedCars returns the customer's mirrored favourites as listing cards.
func (s *service) SavedCars(ctx context.Context, customerID int64) (*SavedCarsDTO, error) {
	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}

	ids, err := s.favouritesRepo.FavouriteIDsByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load saved cars")
	}

	cars, err := s.classifiedsRepo.ListSummariesByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load saved car summaries")
	}

	return &SavedCarsDTO{Customer: toDTO(customer), Cars: cars}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toDTO(customer *models.Customer) CustomerDTO {
	return CustomerDTO{
		ID:           customer.ID,
		Kind:         customer.Kind.String(),
		FirstName:    customer.FirstName,
		LastName:     customer.LastName,
		Email:        customer.Email,
		Phone:        customer.Phone,
		Message:      customer.Message,
		SourceID:     customer.SourceID,
		ClassifiedID: customer.ClassifiedID,
		CreatedAt:    customer.CreatedAt,
	}
}

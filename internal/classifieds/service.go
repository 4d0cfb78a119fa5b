package classifieds

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/danhewitt/motorline-backend/pkg/db/models"
	"github.com/danhewitt/motorline-backend/pkg/enums"
	pkgerrors "github.com/danhewitt/motorline-backend/pkg/errors"
	"github.com/danhewitt/motorline-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateInput carries the admin payload for a new listing.
type CreateInput struct {
	Title          string
	Description    string
	Year           int
	PriceMinor     int64
	Currency       enums.Currency
	Odometer       int
	OdometerUnit   enums.OdometerUnit
	Colour         string
	Transmission   enums.Transmission
	FuelType       enums.FuelType
	BodyType       enums.BodyType
	ULEZ           enums.ULEZCompliance
	Doors          int
	Seats          int
	Status         enums.ClassifiedStatus
	MakeID         int64
	ModelID        int64
	ModelVariantID *int64
	ImageURLs      []string
}

// UpdateInput mirrors CreateInput for edits of an existing listing.
type UpdateInput struct {
	CreateInput
	ID int64
}

// Service exposes classified listing business rules.
type Service interface {
	List(ctx context.Context, query ListQuery) (*ListResult, error)
	GetBySlug(ctx context.Context, slug string) (*DetailDTO, error)
	GetDetail(ctx context.Context, id int64) (*DetailDTO, error)
	Create(ctx context.Context, input CreateInput) (*DetailDTO, error)
	Update(ctx context.Context, input UpdateInput) (*DetailDTO, error)
	ChangeStatus(ctx context.Context, id int64, status enums.ClassifiedStatus) error
	Delete(ctx context.Context, id int64) error
}

// ServiceParams groups dependencies for the classifieds service.
type ServiceParams struct {
	Repo   *Repository
	Logger *logger.Logger
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService builds a classifieds service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "classifieds repo is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{repo: params.Repo, logg: params.Logger}, nil
}

// List returns one page of listing summaries for the given query.
func (s *service) List(ctx context.Context, query ListQuery) (*ListResult, error) {
	result, err := s.repo.ListSummaries(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list classifieds")
	}
	return result, nil
}

// GetBySlug loads a LIVE listing by slug and bumps its view counter. A
// failed counter bump is logged but never fails the read.
func (s *service) GetBySlug(ctx context.Context, slug string) (*DetailDTO, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}

	classified, err := s.repo.FindLiveBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "classified not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load classified")
	}

	if err := s.repo.IncrementViews(ctx, classified.ID); err != nil {
		s.logg.Error(s.logg.WithField(ctx, "classified_id", classified.ID), "incrementing classified views", err)
	} else {
		classified.Views++
	}

	return NewDetailDTO(classified), nil
}

// GetDetail loads a listing by id regardless of status (admin read path).
func (s *service) GetDetail(ctx context.Context, id int64) (*DetailDTO, error) {
	classified, err := s.repo.FindDetail(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "classified not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load classified")
	}
	return NewDetailDTO(classified), nil
}

// Create validates taxonomy references and inserts the listing.
func (s *service) Create(ctx context.Context, input CreateInput) (*DetailDTO, error) {
	if err := s.validateInput(ctx, input); err != nil {
		return nil, err
	}

	classified := buildModel(input)
	classified.Slug = s.uniqueSlug(ctx, input.Title, input.Year)

	created, err := s.repo.Create(ctx, classified)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create classified")
	}
	return s.GetDetail(ctx, created.ID)
}

// Update replaces the mutable fields and the image gallery.
func (s *service) Update(ctx context.Context, input UpdateInput) (*DetailDTO, error) {
	if err := s.validateInput(ctx, input.CreateInput); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "classified not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load classified")
	}

	updated := buildModel(input.CreateInput)
	updated.ID = existing.ID
	updated.Slug = existing.Slug
	updated.Views = existing.Views
	updated.CreatedAt = existing.CreatedAt
	// gallery is replaced separately below
	updated.Images = nil

	if _, err := s.repo.Update(ctx, updated); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update classified")
	}

	images := make([]models.ClassifiedImage, 0, len(input.ImageURLs))
	for position, url := range input.ImageURLs {
		images = append(images, models.ClassifiedImage{
			ClassifiedID: existing.ID,
			URL:          url,
			Position:     position,
		})
	}
	if err := s.repo.ReplaceImages(ctx, existing.ID, images); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace classified images")
	}

	return s.GetDetail(ctx, existing.ID)
}

// ChangeStatus applies a listing status transition.
func (s *service) ChangeStatus(ctx context.Context, id int64, status enums.ClassifiedStatus) error {
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid classified status")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "classified not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load classified")
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update classified status")
	}
	return nil
}

// Delete removes a listing and its gallery.
func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete classified")
	}
	return nil
}

func (s *service) validateInput(ctx context.Context, input CreateInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if input.Year <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "year is required")
	}
	if input.PriceMinor < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if !input.Currency.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid currency")
	}
	if !input.OdometerUnit.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid odometer unit")
	}
	if !input.Transmission.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid transmission")
	}
	if !input.FuelType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid fuel type")
	}
	if !input.BodyType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid body type")
	}
	if !input.ULEZ.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid ulez compliance")
	}
	if !input.Status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid classified status")
	}
	if err := s.repo.EnsureTaxonomy(ctx, input.MakeID, input.ModelID, input.ModelVariantID); err != nil {
		return err
	}
	return nil
}

func buildModel(input CreateInput) *models.Classified {
	classified := &models.Classified{
		Title:          strings.TrimSpace(input.Title),
		Description:    input.Description,
		Year:           input.Year,
		PriceMinor:     input.PriceMinor,
		Currency:       input.Currency,
		Odometer:       input.Odometer,
		OdometerUnit:   input.OdometerUnit,
		Colour:         strings.TrimSpace(input.Colour),
		Transmission:   input.Transmission,
		FuelType:       input.FuelType,
		BodyType:       input.BodyType,
		ULEZ:           input.ULEZ,
		Doors:          input.Doors,
		Seats:          input.Seats,
		Status:         input.Status,
		MakeID:         input.MakeID,
		ModelID:        input.ModelID,
		ModelVariantID: input.ModelVariantID,
	}
	for position, url := range input.ImageURLs {
		classified.Images = append(classified.Images, models.ClassifiedImage{
			URL:      url,
			Position: position,
		})
	}
	return classified
}

var slugStripRe = regexp.MustCompile(`[^a-z0-9]+`)

func (s *service) uniqueSlug(ctx context.Context, title string, year int) string {
	base := strings.ToLower(strings.TrimSpace(title))
	base = slugStripRe.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")
	if base == "" {
		base = "classified"
	}
	slug := base
	if year > 0 {
		slug = base + "-" + strconv.Itoa(year)
	}

	taken, err := s.repo.SlugExists(ctx, slug)
	if err != nil || taken {
		// collision or lookup failure: suffix keeps inserts unblocked
		slug = slug + "-" + uuid.NewString()[:8]
	}
	return slug
}

package classifieds

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/danhewitt/motorline-backend/pkg/db/models"
	"github.com/danhewitt/motorline-backend/pkg/enums"
	pkgerrors "github.com/danhewitt/motorline-backend/pkg/errors"
	"github.com/danhewitt/motorline-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository wires together classified persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the classified without associations.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Classified, error) {
	var classified models.Classified
	if err := r.db.WithContext(ctx).First(&classified, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &classified, nil
}

// FindDetail fetches a classified with taxonomy names and ordered images.
func (r *Repository) FindDetail(ctx context.Context, id int64) (*models.Classified, error) {
	var classified models.Classified
	err := r.db.WithContext(ctx).
		Preload("Make").
		Preload("Model").
		Preload("ModelVariant").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&classified, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &classified, nil
}

// FindLiveBySlug fetches a LIVE classified by slug with its preloads.
func (r *Repository) FindLiveBySlug(ctx context.Context, slug string) (*models.Classified, error) {
	var classified models.Classified
	err := r.db.WithContext(ctx).
		Preload("Make").
		Preload("Model").
		Preload("ModelVariant").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("slug = ? AND status = ?", slug, enums.ClassifiedStatusLive).
		First(&classified).
		Error
	if err != nil {
		return nil, err
	}
	return &classified, nil
}

// IncrementViews bumps the view counter without touching updated_at.
func (r *Repository) IncrementViews(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&models.Classified{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).
		Error
}

// Create inserts a new classified row with its images.
func (r *Repository) Create(ctx context.Context, classified *models.Classified) (*models.Classified, error) {
	if err := r.db.WithContext(ctx).Create(classified).Error; err != nil {
		return nil, err
	}
	return classified, nil
}

// Update persists an existing classified row.
func (r *Repository) Update(ctx context.Context, classified *models.Classified) (*models.Classified, error) {
	if err := r.db.WithContext(ctx).Save(classified).Error; err != nil {
		return nil, err
	}
	return classified, nil
}

// UpdateStatus applies a status transition.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status enums.ClassifiedStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Classified{}).
		Where("id = ?", id).
		Update("status", status).
		Error
}

// Delete removes a classified by id; images cascade.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Classified{}).Error
}

// ReplaceImages replaces the gallery for a classified.
func (r *Repository) ReplaceImages(ctx context.Context, classifiedID int64, images []models.ClassifiedImage) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("classified_id = ?", classifiedID).Delete(&models.ClassifiedImage{}).Error; err != nil {
		return err
	}
	if len(images) == 0 {
		return nil
	}
	return tx.Create(&images).Error
}

// SlugExists reports whether a slug is already taken.
func (r *Repository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Classified{}).
		Where("slug = ?", slug).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// EnsureTaxonomy verifies the make/model/variant references form a valid
// chain: the model must belong to the make and the variant to the model.
func (r *Repository) EnsureTaxonomy(ctx context.Context, makeID, modelID int64, variantID *int64) error {
	var model models.Model
	err := r.db.WithContext(ctx).First(&model, "id = ?", modelID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "model not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load model")
	}
	if model.MakeID != makeID {
		return pkgerrors.New(pkgerrors.CodeValidation, "model does not belong to make")
	}
	if variantID != nil {
		var variant models.ModelVariant
		err := r.db.WithContext(ctx).First(&variant, "id = ?", *variantID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "model variant not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load model variant")
		}
		if variant.ModelID != modelID {
			return pkgerrors.New(pkgerrors.CodeValidation, "variant does not belong to model")
		}
	}
	return nil
}

// LiveIDs returns the subset of the provided ids that reference LIVE
// classifieds. Order is not guaranteed.
func (r *Repository) LiveIDs(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return []int64{}, nil
	}
	var live []int64
	err := r.db.WithContext(ctx).
		Model(&models.Classified{}).
		Where("id IN ? AND status = ?", ids, enums.ClassifiedStatusLive).
		Pluck("id", &live).
		Error
	if err != nil {
		return nil, err
	}
	return live, nil
}

// ListSummariesByIDs returns listing cards for the given ids, LIVE only,
// newest first.
func (r *Repository) ListSummariesByIDs(ctx context.Context, ids []int64) ([]Summary, error) {
	if len(ids) == 0 {
		return []Summary{}, nil
	}

	qb := r.summaryQuery(ctx).
		Where("c.id IN ?", ids).
		Where("c.status = ?", enums.ClassifiedStatusLive).
		Order("c.created_at DESC").Order("c.id DESC")

	var records []summaryRecord
	if err := qb.Scan(&records).Error; err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(records))
	for _, record := range records {
		summaries = append(summaries, record.toSummary())
	}
	return summaries, nil
}

// ListSummaries applies the typed filters as AND-ed predicates over the
// listing table and returns one cursor page. Public queries are always
// scoped to LIVE status; range filters apply inclusively and literally,
// inverted bounds included.
func (r *Repository) ListSummaries(ctx context.Context, query ListQuery) (*ListResult, error) {
	pageSize := pagination.NormalizeLimit(query.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(query.Pagination.Limit)

	cursor, err := pagination.ParseCursor(query.Pagination.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.summaryQuery(ctx)

	filter := query.Filters
	if filter.MakeID != nil {
		qb = qb.Where("c.make_id = ?", *filter.MakeID)
	}
	if filter.ModelID != nil {
		qb = qb.Where("c.model_id = ?", *filter.ModelID)
	}
	if filter.ModelVariantID != nil {
		qb = qb.Where("c.model_variant_id = ?", *filter.ModelVariantID)
	}
	if filter.YearMin != nil {
		qb = qb.Where("c.year >= ?", *filter.YearMin)
	}
	if filter.YearMax != nil {
		qb = qb.Where("c.year <= ?", *filter.YearMax)
	}
	if filter.PriceMin != nil {
		qb = qb.Where("c.price_minor >= ?", *filter.PriceMin)
	}
	if filter.PriceMax != nil {
		qb = qb.Where("c.price_minor <= ?", *filter.PriceMax)
	}
	if filter.OdometerMin != nil {
		qb = qb.Where("c.odometer >= ?", *filter.OdometerMin)
	}
	if filter.OdometerMax != nil {
		qb = qb.Where("c.odometer <= ?", *filter.OdometerMax)
	}
	if filter.Transmission != nil {
		qb = qb.Where("c.transmission = ?", *filter.Transmission)
	}
	if filter.FuelType != nil {
		qb = qb.Where("c.fuel_type = ?", *filter.FuelType)
	}
	if filter.BodyType != nil {
		qb = qb.Where("c.body_type = ?", *filter.BodyType)
	}
	if filter.ULEZ != nil {
		qb = qb.Where("c.ulez = ?", *filter.ULEZ)
	}
	if filter.Colour != nil {
		qb = qb.Where("LOWER(c.colour) = ?", strings.ToLower(*filter.Colour))
	}
	if filter.Doors != nil {
		qb = qb.Where("c.doors = ?", *filter.Doors)
	}
	if filter.Seats != nil {
		qb = qb.Where("c.seats = ?", *filter.Seats)
	}
	if search := strings.TrimSpace(filter.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(c.title) LIKE ? OR LOWER(c.description) LIKE ?)", pattern, pattern)
	}

	if len(query.Statuses) > 0 {
		qb = qb.Where("c.status IN ?", query.Statuses)
	} else {
		qb = qb.Where("c.status = ?", enums.ClassifiedStatusLive)
	}

	if cursor != nil {
		qb = qb.Where("(c.created_at < ?) OR (c.created_at = ? AND c.id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	qb = qb.Order("c.created_at DESC").Order("c.id DESC").Limit(limitWithBuffer)

	var records []summaryRecord
	if err := qb.Scan(&records).Error; err != nil {
		return nil, err
	}

	resultRows := records
	nextCursor := ""
	if len(records) > pageSize {
		resultRows = records[:pageSize]
		last := resultRows[len(resultRows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	summaries := make([]Summary, 0, len(resultRows))
	for _, record := range resultRows {
		summaries = append(summaries, record.toSummary())
	}

	return &ListResult{
		Classifieds: summaries,
		NextCursor:  nextCursor,
	}, nil
}

const thumbnailSubquery = `(
  SELECT ci.url
  FROM classified_images ci
  WHERE ci.classified_id = c.id
  ORDER BY ci.position ASC, ci.id ASC
  LIMIT 1
) AS thumbnail_url`

func (r *Repository) summaryQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("classifieds c").
		Select(strings.Join([]string{
			"c.id",
			"c.slug",
			"c.title",
			"c.year",
			"c.price_minor",
			"c.currency",
			"c.odometer",
			"c.odometer_unit",
			"c.transmission",
			"c.fuel_type",
			"c.body_type",
			"c.colour",
			"c.created_at",
			"mk.name AS make_name",
			"md.name AS model_name",
			"mv.name AS variant_name",
			thumbnailSubquery,
		}, ", ")).
		Joins("JOIN makes mk ON mk.id = c.make_id").
		Joins("JOIN models md ON md.id = c.model_id").
		Joins("LEFT JOIN model_variants mv ON mv.id = c.model_variant_id")
}

type summaryRecord struct {
	ID           int64          `gorm:"column:id"`
	Slug         string         `gorm:"column:slug"`
	Title        string         `gorm:"column:title"`
	Year         int            `gorm:"column:year"`
	PriceMinor   int64          `gorm:"column:price_minor"`
	Currency     string         `gorm:"column:currency"`
	Odometer     int            `gorm:"column:odometer"`
	OdometerUnit string         `gorm:"column:odometer_unit"`
	Transmission string         `gorm:"column:transmission"`
	FuelType     string         `gorm:"column:fuel_type"`
	BodyType     string         `gorm:"column:body_type"`
	Colour       string         `gorm:"column:colour"`
	MakeName     string         `gorm:"column:make_name"`
	ModelName    string         `gorm:"column:model_name"`
	VariantName  sql.NullString `gorm:"column:variant_name"`
	ThumbnailURL sql.NullString `gorm:"column:thumbnail_url"`
	CreatedAt    time.Time      `gorm:"column:created_at"`
}

func (r summaryRecord) toSummary() Summary {
	return Summary{
		ID:           r.ID,
		Slug:         r.Slug,
		Title:        r.Title,
		Year:         r.Year,
		PriceMinor:   r.PriceMinor,
		Currency:     r.Currency,
		Odometer:     r.Odometer,
		OdometerUnit: r.OdometerUnit,
		Transmission: r.Transmission,
		FuelType:     r.FuelType,
		BodyType:     r.BodyType,
		Colour:       r.Colour,
		MakeName:     r.MakeName,
		ModelName:    r.ModelName,
		VariantName:  nullStringPtr(r.VariantName),
		ThumbnailURL: nullStringPtr(r.ThumbnailURL),
		CreatedAt:    r.CreatedAt,
	}
}

func nullStringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	v := value.String
	return &v
}

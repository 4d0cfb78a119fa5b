package customers

import (
	"context"
	"strings"

	"github.com/danhewitt/motorline-backend/pkg/db/models"
	"github.com/danhewitt/motorline-backend/pkg/enums"
	"github.com/danhewitt/motorline-backend/pkg/pagination"
	"gorm.io/gorm"
)

// ListQuery filters the admin customer browse view.
type ListQuery struct {
	Kind       *enums.CustomerKind
	Search     string
	Pagination pagination.Params
}

// Repository encapsulates customer lead persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new customer row.
func (r *Repository) Create(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

// FindByID loads a customer by id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// ListResult wraps one page of customers with the next-page cursor.
type ListResult struct {
	Customers  []models.Customer
	NextCursor string
}

// List returns one cursor page of customers, newest first.
func (r *Repository) List(ctx context.Context, query ListQuery) (*ListResult, error) {
	pageSize := pagination.NormalizeLimit(query.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(query.Pagination.Limit)

	cursor, err := pagination.ParseCursor(query.Pagination.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).Model(&models.Customer{})

	if query.Kind != nil {
		qb = qb.Where("kind = ?", *query.Kind)
	}
	if search := strings.TrimSpace(query.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?)", pattern, pattern, pattern)
	}
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Customer
	err = qb.Order("created_at DESC").Order("id DESC").
		Limit(limitWithBuffer).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	return &ListResult{Customers: rows, NextCursor: nextCursor}, nil
}

// newsletterExists reports whether the email already subscribed.
func (r *Repository) newsletterExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("kind = ? AND email = ?", enums.CustomerKindNewsletter, email).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

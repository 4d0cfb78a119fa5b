package admins

import (
	"context"
	"strings"

	"github.com/danhewitt/motorline-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository encapsulates admin user persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByEmail loads an admin by normalized email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var admin models.AdminUser
	err := r.db.WithContext(ctx).
		First(&admin, "email = ?", strings.ToLower(strings.TrimSpace(email))).
		Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// FindByID loads an admin by id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := r.db.WithContext(ctx).First(&admin, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

// Create inserts a new admin row.
func (r *Repository) Create(ctx context.Context, admin *models.AdminUser) (*models.AdminUser, error) {
	if err := r.db.WithContext(ctx).Create(admin).Error; err != nil {
		return nil, err
	}
	return admin, nil
}

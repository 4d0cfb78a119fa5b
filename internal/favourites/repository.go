package favourites

import (
	"context"

	"github.com/danhewitt/motorline-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository mirrors favourites sets onto relational customer records.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CustomerIDsBySource returns every customer row linked to the source id.
func (r *Repository) CustomerIDsBySource(ctx context.Context, sourceID string) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("source_id = ?", sourceID).
		Pluck("id", &ids).
		Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// SyncCustomers overwrites the saved-cars rows of every customer sharing
// the source id with the final id set, atomically for the whole fan-out.
// The cache write that precedes this is NOT part of the transaction; a
// crash in between leaves the two briefly divergent until the next sync.
func (r *Repository) SyncCustomers(ctx context.Context, sourceID string, ids []int64) error {
	customerIDs, err := r.CustomerIDsBySource(ctx, sourceID)
	if err != nil {
		return err
	}
	if len(customerIDs) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, customerID := range customerIDs {
			if err := tx.Where("customer_id = ?", customerID).Delete(&models.CustomerFavourite{}).Error; err != nil {
				return err
			}
			if len(ids) == 0 {
				continue
			}
			rows := make([]models.CustomerFavourite, 0, len(ids))
			for _, classifiedID := range ids {
				rows = append(rows, models.CustomerFavourite{
					CustomerID:   customerID,
					ClassifiedID: classifiedID,
				})
			}
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FavouriteIDsByCustomer returns the saved-cars ids mirrored onto one
// customer, for the admin view.
func (r *Repository) FavouriteIDsByCustomer(ctx context.Context, customerID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&models.CustomerFavourite{}).
		Where("customer_id = ?", customerID).
		Order("classified_id ASC").
		Pluck("classified_id", &ids).
		Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// SourceIDsWithCustomers lists the distinct source ids that have at least
// one customer row, for the scheduled reconcile job.
func (r *Repository) SourceIDsWithCustomers(ctx context.Context) ([]string, error) {
	var sourceIDs []string
	err := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Distinct().
		Where("source_id IS NOT NULL").
		Order("source_id ASC").
		Pluck("source_id", &sourceIDs).
		Error
	if err != nil {
		return nil, err
	}
	return sourceIDs, nil
}

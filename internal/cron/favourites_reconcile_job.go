package cron

import (
	"context"
	"errors"

	"github.com/danhewitt/motorline-backend/internal/favourites"
	"github.com/danhewitt/motorline-backend/pkg/logger"
	"go.uber.org/multierr"
)

// FavouritesReconcileJob re-pushes cached favourite sets onto customer
// rows for every source id that has at least one customer record. It
// heals the divergence left behind when the inline fan-out after a
// toggle failed.
type FavouritesReconcileJob struct {
	favourites favourites.Service
	repo       *favourites.Repository
	logg       *logger.Logger
}

// NewFavouritesReconcileJob wires the job to the favourites layer.
func NewFavouritesReconcileJob(svc favourites.Service, repo *favourites.Repository, logg *logger.Logger) (*FavouritesReconcileJob, error) {
	if svc == nil {
		return nil, errors.New("favourites service required")
	}
	if repo == nil {
		return nil, errors.New("favourites repository required")
	}
	if logg == nil {
		return nil, errors.New("logger required")
	}
	return &FavouritesReconcileJob{favourites: svc, repo: repo, logg: logg}, nil
}

func (j *FavouritesReconcileJob) Name() string {
	return "favourites_reconcile"
}

// Run syncs every known source id. One failing source does not stop the
// sweep; failures are logged per source and aggregated into the result.
func (j *FavouritesReconcileJob) Run(ctx context.Context) error {
	sourceIDs, err := j.repo.SourceIDsWithCustomers(ctx)
	if err != nil {
		return err
	}

	var result error
	for _, sourceID := range sourceIDs {
		if err := j.favourites.SyncSource(ctx, sourceID); err != nil {
			j.logg.Error(j.logg.WithSourceID(ctx, sourceID), "reconciling favourites for source", err)
			result = multierr.Append(result, err)
		}
	}
	return result
}

package cron

import (
	"context"
	"errors"

	"github.com/danhewitt/motorline-backend/internal/taxonomy"
)

// TaxonomyRefreshJob regenerates the taxonomy snapshot so the cached
// filter options track overnight inventory changes.
type TaxonomyRefreshJob struct {
	taxonomy taxonomy.Service
}

// NewTaxonomyRefreshJob wires the job to the taxonomy service.
func NewTaxonomyRefreshJob(svc taxonomy.Service) (*TaxonomyRefreshJob, error) {
	if svc == nil {
		return nil, errors.New("taxonomy service required")
	}
	return &TaxonomyRefreshJob{taxonomy: svc}, nil
}

func (j *TaxonomyRefreshJob) Name() string {
	return "taxonomy_refresh"
}

// Run forces a snapshot rebuild. A nil snapshot without an error means
// another instance held the generation lock, which counts as done.
func (j *TaxonomyRefreshJob) Run(ctx context.Context) error {
	_, err := j.taxonomy.Refresh(ctx)
	return err
}

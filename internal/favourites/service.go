package favourites

import (
	"context"
	"sort"
	"strings"

	"github.com/danhewitt/motorline-backend/internal/classifieds"
	pkgerrors "github.com/danhewitt/motorline-backend/pkg/errors"
	"github.com/danhewitt/motorline-backend/pkg/logger"
	"github.com/danhewitt/motorline-backend/pkg/pagination"
)

const defaultPageSize = 12

// Page is one fixed-size slice of the visitor's live favourites.
type Page struct {
	Items      []classifieds.Summary `json:"items"`
	Page       int                   `json:"page"`
	TotalPages int                   `json:"total_pages"`
	Total      int                   `json:"total"`
}

// Service maintains per-visitor favourites across the cache and the
// relational customer records.
type Service interface {
	Toggle(ctx context.Context, sourceID string, classifiedID int64) ([]int64, error)
	ListLive(ctx context.Context, sourceID string, page int) (Page, error)
	SyncSource(ctx context.Context, sourceID string) error
}

// ServiceParams groups dependencies for the favourites service.
type ServiceParams struct {
	Store           *Store
	Repo            *Repository
	ClassifiedsRepo *classifieds.Repository
	Logger          *logger.Logger
	PageSize        int
}

type service struct {
	store           *Store
	repo            *Repository
	classifiedsRepo *classifieds.Repository
	logg            *logger.Logger
	pageSize        int
}

// NewService builds a favourites service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "favourites store is required")
	}
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "favourites repo is required")
	}
	if params.ClassifiedsRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "classifieds repo is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &service{
		store:           params.Store,
		repo:            params.Repo,
		classifiedsRepo: params.ClassifiedsRepo,
		logg:            params.Logger,
		pageSize:        pageSize,
	}, nil
}

// Toggle flips the presence of classifiedID in the visitor's set and
// returns the updated set. The cache write is authoritative; the fan-out
// to customer rows is best effort and its failure is only logged. The
// read-modify-write carries no concurrency token, so two simultaneous
// toggles from the same visitor can lose one update.
func (s *service) Toggle(ctx context.Context, sourceID string, classifiedID int64) ([]int64, error) {
	sourceID = strings.TrimSpace(sourceID)
	if sourceID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "source id is required")
	}
	if classifiedID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "classified id is required")
	}

	ids, err := s.store.Get(ctx, sourceID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load favourites")
	}

	updated := toggleID(ids, classifiedID)
	if err := s.store.Put(ctx, sourceID, updated); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store favourites")
	}

	if err := s.repo.SyncCustomers(ctx, sourceID, updated); err != nil {
		s.logg.Error(s.logg.WithSourceID(ctx, sourceID), "syncing favourites to customers", err)
	}

	return updated, nil
}

// ListLive returns one page of the visitor's favourites restricted to
// currently LIVE classifieds. When the stored set contains dead ids it is
// rewritten to the live subset: cleanup happens lazily on read, not on
// inventory writes. A second read without inventory changes is a no-op.
func (s *service) ListLive(ctx context.Context, sourceID string, page int) (Page, error) {
	sourceID = strings.TrimSpace(sourceID)
	if sourceID == "" {
		return Page{}, pkgerrors.New(pkgerrors.CodeValidation, "source id is required")
	}
	page = pagination.NormalizePage(page)

	stored, err := s.store.Get(ctx, sourceID)
	if err != nil {
		return Page{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load favourites")
	}
	if len(stored) == 0 {
		return Page{Items: []classifieds.Summary{}, Page: page}, nil
	}

	live, err := s.classifiedsRepo.LiveIDs(ctx, stored)
	if err != nil {
		return Page{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve live favourites")
	}

	if len(live) < len(stored) {
		cleaned := orderedIntersection(stored, live)
		if err := s.store.Put(ctx, sourceID, cleaned); err != nil {
			s.logg.Error(s.logg.WithSourceID(ctx, sourceID), "rewriting favourites after cleanup", err)
		}
	}

	summaries, err := s.classifiedsRepo.ListSummariesByIDs(ctx, live)
	if err != nil {
		return Page{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load favourite summaries")
	}

	total := len(summaries)
	totalPages := pagination.TotalPages(total, s.pageSize)
	start := (page - 1) * s.pageSize
	if start >= total {
		return Page{Items: []classifieds.Summary{}, Page: page, TotalPages: totalPages, Total: total}, nil
	}
	end := start + s.pageSize
	if end > total {
		end = total
	}

	return Page{
		Items:      summaries[start:end],
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
	}, nil
}

// SyncSource re-pushes the visitor's current cache set onto their customer
// rows. Used by the scheduled reconcile job to heal divergence left by
// failed inline fan-outs.
func (s *service) SyncSource(ctx context.Context, sourceID string) error {
	ids, err := s.store.Get(ctx, sourceID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load favourites")
	}
	if err := s.repo.SyncCustomers(ctx, sourceID, ids); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sync favourites to customers")
	}
	return nil
}

func toggleID(ids []int64, id int64) []int64 {
	updated := make([]int64, 0, len(ids)+1)
	removed := false
	for _, existing := range ids {
		if existing == id {
			removed = true
			continue
		}
		updated = append(updated, existing)
	}
	if !removed {
		updated = append(updated, id)
	}
	return updated
}

// orderedIntersection keeps the stored order while dropping ids absent
// from the live subset.
func orderedIntersection(stored, live []int64) []int64 {
	liveSet := make(map[int64]bool, len(live))
	for _, id := range live {
		liveSet[id] = true
	}
	cleaned := make([]int64, 0, len(live))
	for _, id := range stored {
		if liveSet[id] {
			cleaned = append(cleaned, id)
		}
	}
	return cleaned
}

// sortIDs is used by tests and admin reads that want deterministic output.
func sortIDs(ids []int64) []int64 {
	sorted := append([]int64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return sorted
}

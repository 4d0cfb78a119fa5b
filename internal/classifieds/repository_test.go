package classifieds

import (
	"context"
	"testing"

	"github.com/danhewitt/motorline-backend/pkg/db/models"
	"github.com/danhewitt/motorline-backend/pkg/enums"
	"github.com/danhewitt/motorline-backend/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListSummaries_ScopesToLive(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	mk, md := mustCreateTaxonomy(t, db, "Ford", "Focus")

	live := mustCreateClassified(t, db, mk.ID, md.ID, nil)
	mustCreateClassified(t, db, mk.ID, md.ID, func(c *models.Classified) {
		c.Status = enums.ClassifiedStatusSold
	})
	mustCreateClassified(t, db, mk.ID, md.ID, func(c *models.Classified) {
		c.Status = enums.ClassifiedStatusDraft
	})

	result, err := repo.ListSummaries(context.Background(), ListQuery{})
	require.NoError(t, err)
	require.Len(t, result.Classifieds, 1)
	assert.Equal(t, live.ID, result.Classifieds[0].ID)
	assert.Equal(t, "Ford", result.Classifieds[0].MakeName)
	assert.Equal(t, "Focus", result.Classifieds[0].ModelName)
	assert.Empty(t, result.NextCursor)
}

func TestListSummaries_EmptyFiltersMatchEveryLiveRow(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	mk, md := mustCreateTaxonomy(t, db, "Audi", "A4")

	for i := 0; i < 3; i++ {
		mustCreateClassified(t, db, mk.ID, md.ID, nil)
	}

	result, err := repo.ListSummaries(context.Background(), ListQuery{Filters: ListFilters{}})
	require.NoError(t, err)
	assert.Len(t, result.Classifieds, 3)
}

func TestListSummaries_AppliesRangeAndEqualityFilters(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	mk, md := mustCreateTaxonomy(t, db, "BMW", "320d")

	match := mustCreateClassified(t, db, mk.ID, md.ID, func(c *models.Classified) {
		c.Year = 2020
		c.PriceMinor = 2000000
		c.Transmission = enums.TransmissionAutomatic
		c.FuelType = enums.FuelTypeDiesel
	})
	mustCreateClassified(t, db, mk.ID, md.ID, func(c *models.Classified) {
		c.Year = 2012
		c.PriceMinor = 800000
		c.Transmission = enums.TransmissionAutomatic
		c.FuelType = enums.FuelTypeDiesel
	})

	yearMin := 2018
	transmission := enums.TransmissionAutomatic
	result, err := repo.ListSummaries(context.Background(), ListQuery{
		Filters: ListFilters{
			YearMin:      &yearMin,
			Transmission: &transmission,
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Classifieds, 1)
	assert.Equal(t, match.ID, result.Classifieds[0].ID)
}

func TestListSummaries_FreeTextMatchesTitleAndDescription(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	mk, md := mustCreateTaxonomy(t, db, "Mini", "Cooper")

	byTitle := mustCreateClassified(t, db, mk.ID, md.ID, func(c *models.Classified) {
		c.Title = "Mini Cooper S Panoramic Roof"
	})
	byDescription := mustCreateClassified(t, db, mk.ID, md.ID, func(c *models.Classified) {
		c.Title = "Mini Cooper"
		c.Description = "One owner, panoramic sunroof fitted from new."
	})
	mustCreateClassified(t, db, mk.ID, md.ID, func(c *models.Classified) {
		c.Title = "Mini One"
	})

	result, err := repo.ListSummaries(context.Background(), ListQuery{
		Filters: ListFilters{Query: "PANORAMIC"},
	})
	require.NoError(t, err)
	require.Len(t, result.Classifieds, 2)

	ids := []int64{result.Classifieds[0].ID, result.Classifieds[1].ID}
	assert.ElementsMatch(t, []int64{byTitle.ID, byDescription.ID}, ids)
}

// Inverted bounds are applied literally, so nothing can satisfy both.
func TestListSummaries_InvertedPriceRangeMatchesNothing(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	mk, md := mustCreateTaxonomy(t, db, "Kia", "Sportage")

	mustCreateClassified(t, db, mk.ID, md.ID, func(c *models.Classified) {
		c.PriceMinor = 3000000
	})

	priceMin := int64(5000000)
	priceMax := int64(2000000)
	result, err := repo.ListSummaries(context.Background(), ListQuery{
		Filters: ListFilters{PriceMin: &priceMin, PriceMax: &priceMax},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Classifieds)
}

func TestListSummaries_CursorPagination(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	mk, md := mustCreateTaxonomy(t, db, "Skoda", "Octavia")

	for i := 0; i < 5; i++ {
		mustCreateClassified(t, db, mk.ID, md.ID, nil)
	}

	first, err := repo.ListSummaries(context.Background(), ListQuery{
		Pagination: pagination.Params{Limit: 2},
	})
	require.NoError(t, err)
	require.Len(t, first.Classifieds, 2)
	require.NotEmpty(t, first.NextCursor)

	second, err := repo.ListSummaries(context.Background(), ListQuery{
		Pagination: pagination.Params{Limit: 2, Cursor: first.NextCursor},
	})
	require.NoError(t, err)
	require.Len(t, second.Classifieds, 2)

	seen := map[int64]bool{}
	for _, summary := range append(first.Classifieds, second.Classifieds...) {
		assert.False(t, seen[summary.ID], "duplicate id %d across pages", summary.ID)
		seen[summary.ID] = true
	}
}

func TestLiveIDs_FiltersDeadReferences(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	mk, md := mustCreateTaxonomy(t, db, "Toyota", "Yaris")

	live := mustCreateClassified(t, db, mk.ID, md.ID, nil)
	sold := mustCreateClassified(t, db, mk.ID, md.ID, func(c *models.Classified) {
		c.Status = enums.ClassifiedStatusSold
	})

	ids, err := repo.LiveIDs(context.Background(), []int64{live.ID, sold.ID, 99999})
	require.NoError(t, err)
	assert.Equal(t, []int64{live.ID}, ids)
}

func TestLiveIDs_EmptyInput(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)

	ids, err := repo.LiveIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestEnsureTaxonomy_RejectsMismatchedChain(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	mkA, mdA := mustCreateTaxonomy(t, db, "Honda", "Civic")
	_, mdB := mustCreateTaxonomy(t, db, "Mazda", "3")
	variant := mustCreateVariant(t, db, mdA.ID, "Type R")

	require.NoError(t, repo.EnsureTaxonomy(context.Background(), mkA.ID, mdA.ID, &variant.ID))

	err := repo.EnsureTaxonomy(context.Background(), mkA.ID, mdB.ID, nil)
	require.Error(t, err)

	err = repo.EnsureTaxonomy(context.Background(), mkA.ID, mdA.ID, func() *int64 { v := int64(12345); return &v }())
	require.Error(t, err)
}

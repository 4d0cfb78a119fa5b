package controllers_test

import (
	"net/http"
	"testing"

	"github.com/danhewitt/motorline-backend/internal/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaxonomyOptions_EmptyInventory(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/taxonomy", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var snapshot taxonomy.Snapshot
	decodeData(t, rec, &snapshot)
	assert.Zero(t, snapshot.Total)
	assert.Empty(t, snapshot.Makes)
}

func TestTaxonomyOptions_ReflectsLiveInventory(t *testing.T) {
	f := newFixture(t)
	f.seedClassified(t, "corsa-live", nil)

	rec := f.do(t, http.MethodGet, "/api/v1/taxonomy", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var snapshot taxonomy.Snapshot
	decodeData(t, rec, &snapshot)
	assert.EqualValues(t, 1, snapshot.Total)
	require.Len(t, snapshot.Makes, 1)
	assert.Equal(t, "Vauxhall", snapshot.Makes[0].Label)
	require.Len(t, snapshot.Makes[0].Models, 1)
	assert.Equal(t, "Corsa", snapshot.Makes[0].Models[0].Label)
	assert.Contains(t, snapshot.FuelTypes, "petrol")
}

func TestTaxonomyOptions_ServedFromCacheOnRepeat(t *testing.T) {
	f := newFixture(t)
	f.seedClassified(t, "corsa-live", nil)

	rec := f.do(t, http.MethodGet, "/api/v1/taxonomy", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// inventory changes do not show until the next refresh
	f.seedClassified(t, "astra-live", nil)

	rec = f.do(t, http.MethodGet, "/api/v1/taxonomy", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var snapshot taxonomy.Snapshot
	decodeData(t, rec, &snapshot)
	assert.EqualValues(t, 1, snapshot.Total)
}

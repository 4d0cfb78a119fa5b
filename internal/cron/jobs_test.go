package cron

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/danhewitt/motorline-backend/internal/classifieds"
	"github.com/danhewitt/motorline-backend/internal/favourites"
	"github.com/danhewitt/motorline-backend/internal/taxonomy"
	"github.com/danhewitt/motorline-backend/pkg/db/models"
	"github.com/danhewitt/motorline-backend/pkg/enums"
	"github.com/danhewitt/motorline-backend/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

type fakeTaxonomyService struct {
	refreshed int
	err       error
}

func (f *fakeTaxonomyService) GetOrGenerate(context.Context) (*taxonomy.Snapshot, error) {
	return nil, nil
}

func (f *fakeTaxonomyService) Refresh(context.Context) (*taxonomy.Snapshot, error) {
	f.refreshed++
	return nil, f.err
}

func TestTaxonomyRefreshJob(t *testing.T) {
	svc := &fakeTaxonomyService{}
	job, err := NewTaxonomyRefreshJob(svc)
	require.NoError(t, err)

	assert.Equal(t, "taxonomy_refresh", job.Name())
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 1, svc.refreshed)

	svc.err = errors.New("db down")
	require.Error(t, job.Run(context.Background()))
}

// favCache satisfies the favourites store interface without Redis.
type favCache struct {
	mu     sync.Mutex
	values map[string]string
}

func newFavCache() *favCache {
	return &favCache{values: map[string]string{}}
}

func (c *favCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value.(string)
	return nil
}

func (c *favCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.values[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (c *favCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.values, key)
	}
	return nil
}

func newJobTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)
	err = conn.AutoMigrate(
		&models.Make{},
		&models.Model{},
		&models.ModelVariant{},
		&models.Classified{},
		&models.ClassifiedImage{},
		&models.Customer{},
		&models.CustomerFavourite{},
	)
	require.NoError(t, err)
	return conn
}

func TestFavouritesReconcileJob(t *testing.T) {
	db := newJobTestDB(t)
	ctx := context.Background()

	mk := &models.Make{Name: "Skoda"}
	require.NoError(t, db.Create(mk).Error)
	md := &models.Model{MakeID: mk.ID, Name: "Octavia"}
	require.NoError(t, db.Create(md).Error)
	classified := &models.Classified{
		Slug:          "skoda-octavia-2019",
		Title:         "Skoda Octavia",
		Year:          2019,
		PriceMinor:    1400000,
		Currency:      enums.CurrencyGBP,
		Odometer:      41000,
		OdometerUnit:  enums.OdometerUnitMiles,
		Transmission:  enums.TransmissionManual,
		FuelType:      enums.FuelTypePetrol,
		BodyType:      enums.BodyTypeEstate,
		Status:        enums.ClassifiedStatusLive,
		MakeID:        mk.ID,
		ModelID:       md.ID,
	}
	require.NoError(t, db.Create(classified).Error)

	sourceID := "visitor-1"
	customer := &models.Customer{
		Kind:     enums.CustomerKindReservation,
		Email:    "lead@example.com",
		SourceID: &sourceID,
	}
	require.NoError(t, db.Create(customer).Error)

	favStore, err := favourites.NewStore(newFavCache(), func(id string) string { return "ml:favourites:" + id })
	require.NoError(t, err)
	repo := favourites.NewRepository(db)
	svc, err := favourites.NewService(favourites.ServiceParams{
		Store:           favStore,
		Repo:            repo,
		ClassifiedsRepo: classifieds.NewRepository(db),
		Logger:          testLogger(),
	})
	require.NoError(t, err)

	// cached set diverged from the customer rows
	require.NoError(t, favStore.Put(ctx, sourceID, []int64{classified.ID}))

	job, err := NewFavouritesReconcileJob(svc, repo, testLogger())
	require.NoError(t, err)
	assert.Equal(t, "favourites_reconcile", job.Name())
	require.NoError(t, job.Run(ctx))

	var rows []models.CustomerFavourite
	require.NoError(t, db.Where("customer_id = ?", customer.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, classified.ID, rows[0].ClassifiedID)
}

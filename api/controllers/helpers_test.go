package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/danhewitt/motorline-backend/api/middleware"
	"github.com/danhewitt/motorline-backend/api/routes"
	"github.com/danhewitt/motorline-backend/internal/admins"
	"github.com/danhewitt/motorline-backend/internal/classifieds"
	"github.com/danhewitt/motorline-backend/internal/currency"
	"github.com/danhewitt/motorline-backend/internal/customers"
	"github.com/danhewitt/motorline-backend/internal/favourites"
	"github.com/danhewitt/motorline-backend/internal/taxonomy"
	"github.com/danhewitt/motorline-backend/pkg/config"
	"github.com/danhewitt/motorline-backend/pkg/db/models"
	"github.com/danhewitt/motorline-backend/pkg/enums"
	"github.com/danhewitt/motorline-backend/pkg/logger"
	"github.com/danhewitt/motorline-backend/pkg/redis"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

// memStore is an in-memory stand-in for the redis client used by the
// taxonomy cache, the favourites store, and the generation lock.
type memStore struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemStore() *memStore {
	return &memStore{values: map[string]string{}}
}

func (m *memStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value.(string)
	return nil
}

func (m *memStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (m *memStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.values[key]; exists {
		return false, nil
	}
	m.values[key] = value.(string)
	return true, nil
}

func (m *memStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

type fixture struct {
	handler http.Handler
	db      *gorm.DB
	store   *memStore
	cfg     *config.Config
	admins  admins.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.Make{},
		&models.Model{},
		&models.ModelVariant{},
		&models.Classified{},
		&models.ClassifiedImage{},
		&models.Customer{},
		&models.CustomerFavourite{},
		&models.AdminUser{},
	))

	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT = config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "motorline-test",
		ExpirationMinutes: 60,
	}

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	store := newMemStore()

	classifiedsRepo := classifieds.NewRepository(conn)
	classifiedsSvc, err := classifieds.NewService(classifieds.ServiceParams{Repo: classifiedsRepo, Logger: logg})
	require.NoError(t, err)

	taxonomyCache, err := taxonomy.NewCache(taxonomy.CacheParams{
		Store:  store,
		Logger: logg,
		Key:    "ml:taxonomy:snapshot",
		TTL:    24 * time.Hour,
	})
	require.NoError(t, err)
	taxonomySvc, err := taxonomy.NewService(taxonomy.ServiceParams{
		Repo:    taxonomy.NewRepository(conn),
		Cache:   taxonomyCache,
		Store:   store,
		Logger:  logg,
		LockKey: "ml:lock:taxonomy",
		LockTTL: time.Minute,
	})
	require.NoError(t, err)

	favouritesStore, err := favourites.NewStore(store, func(id string) string { return "ml:favourites:" + id })
	require.NoError(t, err)
	favouritesRepo := favourites.NewRepository(conn)
	favouritesSvc, err := favourites.NewService(favourites.ServiceParams{
		Store:           favouritesStore,
		Repo:            favouritesRepo,
		ClassifiedsRepo: classifiedsRepo,
		Logger:          logg,
		PageSize:        2,
	})
	require.NoError(t, err)

	customersSvc, err := customers.NewService(customers.ServiceParams{
		Repo:            customers.NewRepository(conn),
		FavouritesSvc:   favouritesSvc,
		FavouritesRepo:  favouritesRepo,
		ClassifiedsRepo: classifiedsRepo,
		Logger:          logg,
	})
	require.NoError(t, err)

	adminsSvc, err := admins.NewService(admins.ServiceParams{
		Repo:      admins.NewRepository(conn),
		JWTConfig: cfg.JWT,
	})
	require.NoError(t, err)

	converter, err := currency.NewConverter(config.CurrencyConfig{Base: "GBP", Rates: "EUR=2"})
	require.NoError(t, err)

	handler := routes.NewRouter(routes.RouterParams{
		Config:             cfg,
		Logger:             logg,
		ClassifiedsService: classifiedsSvc,
		TaxonomyService:    taxonomySvc,
		FavouritesService:  favouritesSvc,
		CustomersService:   customersSvc,
		AdminsService:      adminsSvc,
		Converter:          converter,
	})

	return &fixture{
		handler: handler,
		db:      conn,
		store:   store,
		cfg:     cfg,
		admins:  adminsSvc,
	}
}

// seedClassified inserts a make/model pair and one listing, applying mutate
// before the insert when provided.
func (f *fixture) seedClassified(t *testing.T, slug string, mutate func(*models.Classified)) *models.Classified {
	t.Helper()

	mk := &models.Make{Name: "Vauxhall"}
	require.NoError(t, f.db.Where("name = ?", mk.Name).FirstOrCreate(mk).Error)
	md := &models.Model{MakeID: mk.ID, Name: "Corsa"}
	require.NoError(t, f.db.Where("make_id = ? AND name = ?", mk.ID, md.Name).FirstOrCreate(md).Error)

	classified := &models.Classified{
		Slug:         slug,
		Title:        "Vauxhall Corsa SRi",
		Year:         2021,
		PriceMinor:   1500000,
		Currency:     enums.CurrencyGBP,
		Odometer:     32000,
		OdometerUnit: enums.OdometerUnitMiles,
		Transmission: enums.TransmissionManual,
		FuelType:     enums.FuelTypePetrol,
		BodyType:     enums.BodyTypeHatchback,
		ULEZ:         enums.ULEZCompliant,
		Status:       enums.ClassifiedStatusLive,
		MakeID:       mk.ID,
		ModelID:      md.ID,
	}
	if mutate != nil {
		mutate(classified)
	}
	require.NoError(t, f.db.Create(classified).Error)
	return classified
}

func (f *fixture) do(t *testing.T, method, path string, body any, modify func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if modify != nil {
		modify(req)
	}

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) adminToken(t *testing.T) string {
	t.Helper()

	_, err := f.admins.CreateAdmin(context.Background(), admins.CreateAdminInput{
		Email:    "panel@motorline.co.uk",
		Password: "super-secret-1",
	})
	require.NoError(t, err)

	result, err := f.admins.Login(context.Background(), "panel@motorline.co.uk", "super-secret-1")
	require.NoError(t, err)
	return result.Token
}

func withSourceCookie(sourceID string) func(*http.Request) {
	return func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: middleware.SourceCookieName, Value: sourceID})
	}
}

func withBearer(token string) func(*http.Request) {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

func itoa64(id int64) string {
	return strconv.FormatInt(id, 10)
}

// decodeData unmarshals the success envelope's data field into dest.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, dest))
}

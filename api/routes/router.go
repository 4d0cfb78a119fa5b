package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danhewitt/motorline-backend/api/controllers"
	"github.com/danhewitt/motorline-backend/api/middleware"
	"github.com/danhewitt/motorline-backend/internal/admins"
	"github.com/danhewitt/motorline-backend/internal/classifieds"
	"github.com/danhewitt/motorline-backend/internal/currency"
	"github.com/danhewitt/motorline-backend/internal/customers"
	"github.com/danhewitt/motorline-backend/internal/favourites"
	"github.com/danhewitt/motorline-backend/internal/taxonomy"
	"github.com/danhewitt/motorline-backend/pkg/config"
	"github.com/danhewitt/motorline-backend/pkg/db"
	"github.com/danhewitt/motorline-backend/pkg/logger"
	"github.com/danhewitt/motorline-backend/pkg/metrics"
	"github.com/danhewitt/motorline-backend/pkg/redis"
)

// RouterParams carries everything the HTTP surface depends on.
type RouterParams struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    redis.Pinger
	Registry *prometheus.Registry

	ClassifiedsService classifieds.Service
	TaxonomyService    taxonomy.Service
	FavouritesService  favourites.Service
	CustomersService   customers.Service
	AdminsService      admins.Service
	Converter          *currency.Converter
}

func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	var httpMetrics *metrics.HTTPMetrics
	if params.Registry != nil {
		httpMetrics = metrics.NewHTTPMetrics(params.Registry)
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, params.DB, params.Redis))
	})

	if params.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(params.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Visitor(logg))

		r.Route("/classifieds", func(r chi.Router) {
			r.Get("/", controllers.ClassifiedList(params.ClassifiedsService, params.Converter, logg))
			r.Get("/{slug}", controllers.ClassifiedDetail(params.ClassifiedsService, params.Converter, logg))
		})

		r.Get("/taxonomy", controllers.TaxonomyOptions(params.TaxonomyService, logg))

		r.Route("/favourites", func(r chi.Router) {
			r.Get("/", controllers.FavouriteList(params.FavouritesService, logg))
			r.Post("/toggle", controllers.FavouriteToggle(params.FavouritesService, logg))
		})

		r.Route("/leads", func(r chi.Router) {
			r.Post("/reservation", controllers.LeadReservation(params.CustomersService, logg))
			r.Post("/trade-in", controllers.LeadTradeIn(params.CustomersService, logg))
		})
		r.Post("/newsletter", controllers.NewsletterSubscribe(params.CustomersService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", controllers.AdminLogin(params.AdminsService, logg))
			if !cfg.App.IsProd() {
				r.Post("/register", controllers.AdminRegister(params.AdminsService, logg))
			}
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminAuth(cfg.JWT, logg))

			r.Route("/classifieds", func(r chi.Router) {
				r.Get("/", controllers.AdminClassifiedList(params.ClassifiedsService, logg))
				r.Post("/", controllers.AdminClassifiedCreate(params.ClassifiedsService, logg))
				r.Get("/{classifiedId}", controllers.AdminClassifiedDetail(params.ClassifiedsService, logg))
				r.Put("/{classifiedId}", controllers.AdminClassifiedUpdate(params.ClassifiedsService, logg))
				r.Post("/{classifiedId}/status", controllers.AdminClassifiedStatus(params.ClassifiedsService, logg))
				r.Delete("/{classifiedId}", controllers.AdminClassifiedDelete(params.ClassifiedsService, logg))
			})

			r.Route("/customers", func(r chi.Router) {
				r.Get("/", controllers.AdminCustomerList(params.CustomersService, logg))
				r.Get("/{customerId}/saved-cars", controllers.AdminCustomerSavedCars(params.CustomersService, logg))
			})
		})
	})

	return r
}

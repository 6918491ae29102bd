package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/memberhub/backend/api/controllers"
	"github.com/memberhub/backend/api/middleware"
	"github.com/memberhub/backend/internal/requests"
	"github.com/memberhub/backend/internal/review"
	"github.com/memberhub/backend/pkg/config"
	"github.com/memberhub/backend/pkg/db"
	"github.com/memberhub/backend/pkg/enums"
	"github.com/memberhub/backend/pkg/logger"
	"github.com/memberhub/backend/pkg/redis"
)

// NewRouter assembles the HTTP surface. Submission is public; listing,
// fetching and reviewing requests require an authenticated platform
// admin.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	requestService requests.Service,
	reviewService review.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.With(middleware.Idempotency(redisClient, logg)).
		Post("/api/v1/admin-requests", controllers.SubmitAdminRequest(requestService, logg))

	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(enums.PlatformRoleAdmin.String(), logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/requests", func(r chi.Router) {
			r.Get("/", controllers.ListAdminRequests(requestService, logg))
			r.Get("/{requestId}", controllers.GetAdminRequest(requestService, logg))
			r.Post("/{requestId}/review", controllers.ReviewAdminRequest(reviewService, logg))
		})
	})

	return r
}

package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/memberhub/backend/api/responses"
	"github.com/memberhub/backend/pkg/config"
	"github.com/memberhub/backend/pkg/db"
	"github.com/memberhub/backend/pkg/logger"
	"github.com/memberhub/backend/pkg/redis"
)

const readinessTimeout = 3 * time.Second

// HealthLive reports process liveness without touching dependencies.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-MemberHub-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady verifies the database and redis before reporting ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-MemberHub-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		if dbP != nil {
			if err := dbP.Ping(ctx); err != nil {
				logg.Error(ctx, "database readiness check failed", err)
				checks["database"] = "down"
				healthy = false
			} else {
				checks["database"] = "ok"
			}
		}
		if redisClient != nil {
			if err := redisClient.Ping(ctx); err != nil {
				logg.Error(ctx, "redis readiness check failed", err)
				checks["redis"] = "down"
				healthy = false
			} else {
				checks["redis"] = "ok"
			}
		}

		if !healthy {
			responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, checks)
			return
		}
		checks["status"] = "ready"
		responses.WriteSuccess(w, checks)
	}
}

package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/davidhuanca/mayorista-backend/api/responses"
	"github.com/davidhuanca/mayorista-backend/pkg/config"
	pkgerrors "github.com/davidhuanca/mayorista-backend/pkg/errors"
	"github.com/davidhuanca/mayorista-backend/pkg/logger"
)

const envHeader = "X-Mayorista-Env"

// Pinger is any dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the hard dependencies. Nil pingers are skipped so the
// probe works for partially wired deployments.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]string{}
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				checks[name] = "down"
				responses.WriteError(ctx, logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "dependency unavailable").
						WithDetails(map[string]any{"dependency": name}))
				return
			}
			checks[name] = "up"
		}
		checks["status"] = "ready"
		responses.WriteSuccess(w, checks)
	}
}

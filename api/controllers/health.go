package controllers

import (
	"context"
	"net/http"

	"github.com/dkurilenko/freshmart-backend/api/responses"
	"github.com/dkurilenko/freshmart-backend/pkg/config"
	pkgerrors "github.com/dkurilenko/freshmart-backend/pkg/errors"
	"github.com/dkurilenko/freshmart-backend/pkg/logger"
)

// Probe matches the db and redis clients' health checks.
type Probe interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Freshmart-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when every registered dependency responds.
func HealthReady(cfg *config.Config, probes map[string]Probe, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Freshmart-Env", cfg.App.Env)

		for name, probe := range probes {
			if probe == nil {
				continue
			}
			if err := probe.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}

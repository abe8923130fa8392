package http

import (
	"net/http"
	"time"

	"github.com/aaplusconsultants/policytrain/internal/portal/store"
	"github.com/aaplusconsultants/policytrain/pkg/httpx"
	"github.com/aaplusconsultants/policytrain/pkg/portalapi"
)

// LivezHandler godoc
//
//	@Summary		Health Check Endpoint
//	@Description	Liveness probe returning basic service health, uptime, and version
//	@Description	Always returns 200 OK while the process is running
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	portalapi.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, portalapi.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe checking the database plus identity-provider and mailer configuration
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	portalapi.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	portalapi.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	idpConfigured, mailerConfigured bool,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &portalapi.HealthChecks{
			Database: "ok",
			Identity: "ok",
			Mailer:   "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		if !idpConfigured {
			checks.Identity = "error: identity provider not configured"
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		// Missing mail degrades invites but the rest of the API still works.
		if !mailerConfigured {
			checks.Mailer = "warning: mail delivery not configured"
		}

		httpx.WriteJSON(w, statusCode, portalapi.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}

package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aaplusconsultants/policytrain/internal/portal/domain"
	"github.com/aaplusconsultants/policytrain/internal/portal/service"
	"github.com/aaplusconsultants/policytrain/internal/portal/store"
	"github.com/aaplusconsultants/policytrain/pkg/httpx"
	"github.com/aaplusconsultants/policytrain/pkg/slogx"

	_ "github.com/aaplusconsultants/policytrain/api/portal" // Swagger docs
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	jwtSecret        string
	buildVersion     string
	startTime        time.Time
	logger           *slog.Logger
	idpConfigured    bool
	mailerConfigured bool

	store               store.Store
	InviteService       *service.InviteService
	SessionService      *service.SessionService
	SafeLinkService     *service.SafeLinkService
	OrganizationService *service.OrganizationService
	TrainingService     *service.TrainingService
}

func NewRouter(
	jwtSecret, buildVersion string,
	st store.Store,
	logger *slog.Logger,
	idpConfigured, mailerConfigured bool,
) *Router {
	r := &Router{
		Mux:              http.NewServeMux(),
		jwtSecret:        jwtSecret,
		buildVersion:     buildVersion,
		startTime:        time.Now(),
		store:            st,
		logger:           logger,
		idpConfigured:    idpConfigured,
		mailerConfigured: mailerConfigured,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerInvites()
	r.registerOrgs()
	r.registerTraining()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			PolicyTrain Portal API
//	@version		0.1.0
//	@description	Invitation, account provisioning, and training-progress API for the multi-tenant compliance training portal.
//	@description
//	@description				Accounts live in an external identity provider; this service owns the invitation ledger, organization membership, and the training catalog.
//
//	@contact.name				AA+ Consultants Engineering
//	@contact.url				https://github.com/aaplusconsultants/policytrain
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Identity-provider access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	claimHandler := &ClaimHandler{SafeLinkService: r.SafeLinkService}
	sessionHandler := &SessionHandler{SessionService: r.SessionService}

	// POST /auth/claim - strict rate limit by IP (public, guessable token space)
	r.Mux.Handle("POST /v1/auth/claim",
		httpx.Chain(claimHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /auth/session - strict rate limit by IP (credential exchange)
	r.Mux.Handle("POST /v1/auth/session",
		httpx.Chain(sessionHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerInvites() {
	h := &InviteHandler{InviteService: r.InviteService}

	// POST /invites - moderate rate limit by user (admin operation)
	r.Mux.Handle("POST /v1/invites",
		httpx.Chain(http.HandlerFunc(h.HandleSingle),
			httpx.AuthnMiddleware(r.jwtSecret),
			r.requireRole(domain.RoleAdmin),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// POST /invites/bulk - strict rate limit by user (fan-out operation)
	r.Mux.Handle("POST /v1/invites/bulk",
		httpx.Chain(http.HandlerFunc(h.HandleBulk),
			httpx.AuthnMiddleware(r.jwtSecret),
			r.requireRole(domain.RoleAdmin),
			httpx.RateLimitByUser(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerOrgs() {
	h := &OrgsHandler{
		OrganizationService: r.OrganizationService,
		TrainingService:     r.TrainingService,
	}

	// Superadmin-only tenant management
	r.Mux.Handle("POST /v1/orgs",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			httpx.AuthnMiddleware(r.jwtSecret),
			r.requireRole(domain.RoleSuperadmin),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /v1/orgs",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.AuthnMiddleware(r.jwtSecret),
			r.requireRole(domain.RoleSuperadmin),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// Public branding lookup for the sign-in page
	r.Mux.Handle("GET /v1/orgs/by-code/{code}",
		httpx.Chain(http.HandlerFunc(h.HandleGetByCode),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// Member-visible organization data; handlers enforce org scoping
	r.Mux.Handle("GET /v1/orgs/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.AuthnMiddleware(r.jwtSecret),
			r.requireRole(domain.RoleLearner, domain.RoleAdmin),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("PATCH /v1/orgs/{id}/branding",
		httpx.Chain(http.HandlerFunc(h.HandleBranding),
			httpx.AuthnMiddleware(r.jwtSecret),
			r.requireRole(domain.RoleAdmin),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /v1/orgs/{id}/progress",
		httpx.Chain(http.HandlerFunc(h.HandleProgress),
			httpx.AuthnMiddleware(r.jwtSecret),
			r.requireRole(domain.RoleAdmin),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerTraining() {
	h := &ModulesHandler{TrainingService: r.TrainingService}

	r.Mux.Handle("GET /v1/modules",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.AuthnMiddleware(r.jwtSecret),
			r.requireRole(domain.RoleLearner, domain.RoleAdmin),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("POST /v1/modules",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			httpx.AuthnMiddleware(r.jwtSecret),
			r.requireRole(domain.RoleSuperadmin),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /v1/modules/{id}/complete",
		httpx.Chain(http.HandlerFunc(h.HandleComplete),
			httpx.AuthnMiddleware(r.jwtSecret),
			r.requireRole(domain.RoleLearner, domain.RoleAdmin),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.idpConfigured, r.mailerConfigured),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("GET /metrics", promhttp.Handler())
}

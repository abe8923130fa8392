package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/aaplusconsultants/policytrain/internal/portal/domain"
	"github.com/aaplusconsultants/policytrain/internal/portal/store"
	"github.com/aaplusconsultants/policytrain/pkg/httpx"
	"github.com/aaplusconsultants/policytrain/pkg/portalapi"
	"github.com/aaplusconsultants/policytrain/pkg/slogx"
)

type profileCtxKey struct{}

// ProfileFromContext returns the caller's profile stored by requireRole.
func ProfileFromContext(ctx context.Context) (domain.Profile, bool) {
	p, ok := ctx.Value(profileCtxKey{}).(domain.Profile)
	return p, ok
}

// requireRole loads the caller's profile and enforces a role. Token claims
// are not trusted for authorization; the profile row is the source of truth.
// Superadmins pass every check.
func (r *Router) requireRole(roles ...string) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := req.Context()
			log := slogx.FromContext(ctx)

			userID := httpx.UserIDFromContext(ctx)
			if userID == "" {
				httpx.WriteJSON(w, http.StatusUnauthorized, portalapi.ErrorResponse{
					Error:            "unauthorized",
					ErrorDescription: "Authentication required",
				})
				return
			}

			profile, err := r.store.Profiles().GetProfileByID(ctx, userID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					httpx.WriteJSON(w, http.StatusForbidden, portalapi.ErrorResponse{
						Error:            "unaffiliated",
						ErrorDescription: "No profile is associated with this account",
					})
					return
				}
				log.Error("failed to load caller profile", "err", err)
				httpx.WriteJSON(w, http.StatusInternalServerError, portalapi.ErrorResponse{
					Error: "server_error",
				})
				return
			}

			if !roleAllowed(profile.Role, roles) {
				httpx.WriteJSON(w, http.StatusForbidden, portalapi.ErrorResponse{
					Error:            "forbidden",
					ErrorDescription: "Insufficient role",
				})
				return
			}

			next.ServeHTTP(w, req.WithContext(
				context.WithValue(ctx, profileCtxKey{}, profile),
			))
		})
	}
}

func roleAllowed(have string, want []string) bool {
	if have == domain.RoleSuperadmin {
		return true
	}
	for _, r := range want {
		if have == r {
			return true
		}
	}
	return false
}

// canManageOrg reports whether the caller may administer the given
// organization: superadmins anywhere, admins only in their home org.
func canManageOrg(p domain.Profile, orgID string) bool {
	if p.Role == domain.RoleSuperadmin {
		return true
	}
	return p.Role == domain.RoleAdmin && p.OrganizationID == orgID
}

func writeForbiddenOrg(w http.ResponseWriter) {
	httpx.WriteJSON(w, http.StatusForbidden, portalapi.ErrorResponse{
		Error:            "forbidden",
		ErrorDescription: "You do not administer this organization",
	})
}

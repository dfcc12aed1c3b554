package http

import (
	"fmt"
	"net/http"

	"github.com/utafrali/marketplace/internal/policy"
	"github.com/utafrali/marketplace/pkg/httputil"
	"github.com/utafrali/marketplace/pkg/middleware"
)

// principalFromRequest resolves the calling principal from the context set by
// the auth middleware. A missing principal means the route was wired without
// the middleware; respond 401 rather than act on an empty identity.
func principalFromRequest(w http.ResponseWriter, r *http.Request) (policy.Principal, bool) {
	userID := middleware.UserIDFromContext(r.Context())
	role := middleware.RoleFromContext(r.Context())
	if userID == "" || role == "" {
		httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "UNAUTHORIZED", Message: "user not authenticated"},
		})
		return policy.Principal{}, false
	}
	return policy.Principal{ID: userID, Role: role}, true
}

func writeBadBody(w http.ResponseWriter, err error) {
	httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
		Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
	})
}

func errInvalidQueryParam(name string) error {
	return fmt.Errorf("invalid value for query parameter %q", name)
}

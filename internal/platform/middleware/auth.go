package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	platformjwt "bestbosses/internal/platform/jwt"
	id "bestbosses/pkg/domain"
	"bestbosses/pkg/requestcontext"
)

// TokenValidator validates an access token issued by the identity provider.
type TokenValidator interface {
	ValidateToken(tokenString string) (*platformjwt.Claims, error)
}

// RequireAuth rejects requests without a valid bearer token and injects the
// viewer identity into the request context.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			viewer, ok := viewerFromRequest(r, validator, logger)
			if !ok {
				writeUnauthorized(w)
				return
			}
			next.ServeHTTP(w, r.WithContext(requestcontext.WithViewer(r.Context(), viewer)))
		})
	}
}

// OptionalAuth attaches the viewer identity when a valid token is present and
// lets anonymous requests through untouched. Directory and profile routes use
// this: denial is the access gate's call, not the transport's.
func OptionalAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if viewer, ok := viewerFromRequest(r, validator, logger); ok {
				r = r.WithContext(requestcontext.WithViewer(r.Context(), viewer))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func viewerFromRequest(r *http.Request, validator TokenValidator, logger *slog.Logger) (requestcontext.ViewerIdentity, bool) {
	authHeader := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || token == "" {
		return requestcontext.ViewerIdentity{}, false
	}

	claims, err := validator.ValidateToken(token)
	if err != nil {
		logger.WarnContext(r.Context(), "invalid access token",
			"error", err,
			"request_id", requestcontext.RequestID(r.Context()),
		)
		return requestcontext.ViewerIdentity{}, false
	}

	userID, err := id.ParseUserID(claims.UserID)
	if err != nil {
		logger.WarnContext(r.Context(), "token carries malformed user id",
			"request_id", requestcontext.RequestID(r.Context()),
		)
		return requestcontext.ViewerIdentity{}, false
	}

	return requestcontext.ViewerIdentity{UserID: userID, Email: claims.Email}, true
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"Missing or invalid Authorization header"}`))
}

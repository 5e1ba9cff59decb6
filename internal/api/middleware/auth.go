package middleware

import (
	"context"
	"errors"
	"net/http"

	"flight_api/internal/common"
	"flight_api/internal/common/security"
	"flight_api/internal/domain/model"
	"flight_api/internal/domain/repository"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const userCtxKey contextKey = "user"

// AuthMiddleware resolves request identity from the verified access token.
// jwtauth.Verifier must run earlier in the chain; it parses the bearer
// token and stashes the outcome in the request context.
type AuthMiddleware struct {
	userRepo repository.UserRepository
}

func NewAuthMiddleware(userRepo repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{userRepo: userRepo}
}

// Authenticator is the strict mode: a missing, invalid or expired token
// fails the request before any downstream handler runs.
func (m *AuthMiddleware) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			// jwtauth never returns a token alongside an error, so the
			// message is picked from the error alone.
			if err != nil && !errors.Is(err, jwtauth.ErrNoTokenFound) {
				common.RespondWithError(w, http.StatusUnauthorized, "invalid or expired token")
			} else {
				common.RespondWithError(w, http.StatusUnauthorized, "you are not logged in; please log in to get access")
			}
			return
		}

		user, err := m.resolveUser(r.Context(), claims)
		if err != nil {
			common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// OptionalAuthenticator is the permissive mode: no token means the request
// continues anonymously. A token that was supplied but does not verify is
// still a hard failure.
func (m *AuthMiddleware) OptionalAuthenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			if errors.Is(err, jwtauth.ErrNoTokenFound) {
				next.ServeHTTP(w, r)
				return
			}
			common.RespondWithError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		if token == nil {
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.resolveUser(r.Context(), claims)
		if err != nil {
			common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func (m *AuthMiddleware) resolveUser(ctx context.Context, claims map[string]interface{}) (*model.User, error) {
	userID, err := security.GetUserIDFromClaims(jwt.MapClaims(claims))
	if err != nil {
		return nil, common.E(common.ErrUnauthorized, "invalid token claims: %s", err.Error())
	}

	user, err := m.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.E(common.ErrUnauthorized, "the user belonging to this token no longer exists")
		}
		return nil, err
	}
	return user, nil
}

// RestrictTo allows only the given roles through. Running it without a
// resolved identity is a checked precondition, not a crash: the request is
// rejected as unauthenticated.
func RestrictTo(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUserFromContext(r.Context())
			if !ok {
				common.RespondWithError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			common.RespondWithError(w, http.StatusForbidden, "you do not have permission to perform this action")
		})
	}
}

func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userCtxKey, user)
}

// GetUserFromContext returns the resolved request identity, if any.
func GetUserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userCtxKey).(*model.User)
	return user, ok && user != nil
}

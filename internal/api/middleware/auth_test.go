package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"flight_api/internal/common"
	"flight_api/internal/common/security"
	"flight_api/internal/domain/model"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUserRepo struct {
	users map[string]*model.User
}

func (r *stubUserRepo) Create(ctx context.Context, user *model.User) error { return nil }

func (r *stubUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, common.ErrNotFound
}

func (r *stubUserRepo) FindByLogin(ctx context.Context, usernameOrEmail string) (*model.User, error) {
	return nil, common.ErrNotFound
}

func (r *stubUserRepo) List(ctx context.Context, limit, offset int) ([]model.User, int, error) {
	return nil, 0, nil
}

func (r *stubUserRepo) Update(ctx context.Context, user *model.User) error { return nil }

func (r *stubUserRepo) Delete(ctx context.Context, id string) error { return nil }

func newAuthTestRouter(t *testing.T) (*chi.Mux, *security.TokenService) {
	t.Helper()

	tokens := security.NewTokenService(security.TokenConfig{
		AccessKey:  []byte("test-access-key"),
		RefreshKey: []byte("test-refresh-key"),
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	})

	repo := &stubUserRepo{users: map[string]*model.User{
		"user-admin": {ID: "user-admin", Username: "root", Role: model.RoleAdmin, IsActive: true},
		"user-staff": {ID: "user-staff", Username: "crew", Role: model.RoleStaff, IsActive: true},
	}}
	authMW := NewAuthMiddleware(repo)

	identityEcho := func(w http.ResponseWriter, r *http.Request) {
		if user, ok := GetUserFromContext(r.Context()); ok {
			w.Write([]byte(user.ID))
			return
		}
		w.Write([]byte("anonymous"))
	}

	r := chi.NewRouter()
	r.Use(jwtauth.Verifier(tokens.AccessAuth()))

	r.Group(func(strict chi.Router) {
		strict.Use(authMW.Authenticator)
		strict.Get("/strict", identityEcho)
	})
	r.Group(func(permissive chi.Router) {
		permissive.Use(authMW.OptionalAuthenticator)
		permissive.Get("/permissive", identityEcho)
	})
	r.Group(func(admin chi.Router) {
		admin.Use(authMW.Authenticator)
		admin.Use(RestrictTo(model.RoleAdmin))
		admin.Get("/admin", identityEcho)
	})
	// Misconfigured on purpose: the gate runs without identity resolution.
	r.Group(func(bare chi.Router) {
		bare.Use(RestrictTo(model.RoleAdmin))
		bare.Get("/bare", identityEcho)
	})

	return r, tokens
}

func doRequest(t *testing.T, router http.Handler, path, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestStrictModeRejectsMissingToken(t *testing.T) {
	router, _ := newAuthTestRouter(t)

	rec := doRequest(t, router, "/strict", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":true`)
	assert.Contains(t, rec.Body.String(), "you are not logged in")
}

// A supplied-but-bad token gets the invalid-token message, not the
// not-logged-in one.
func TestStrictModeRejectsInvalidToken(t *testing.T) {
	router, _ := newAuthTestRouter(t)

	rec := doRequest(t, router, "/strict", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid or expired token")
}

func TestStrictModeResolvesIdentity(t *testing.T) {
	router, tokens := newAuthTestRouter(t)

	token, err := tokens.IssueAccess("user-admin", model.RoleAdmin)
	require.NoError(t, err)

	rec := doRequest(t, router, "/strict", token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-admin", rec.Body.String())
}

func TestStrictModeRejectsUnknownSubject(t *testing.T) {
	router, tokens := newAuthTestRouter(t)

	token, err := tokens.IssueAccess("ghost", model.RoleUser)
	require.NoError(t, err)

	rec := doRequest(t, router, "/strict", token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "no longer exists")
}

func TestPermissiveModeAllowsAnonymous(t *testing.T) {
	router, _ := newAuthTestRouter(t)

	rec := doRequest(t, router, "/permissive", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())
}

// A token that was supplied but does not verify is a hard failure even in
// permissive mode.
func TestPermissiveModeRejectsInvalidToken(t *testing.T) {
	router, _ := newAuthTestRouter(t)

	rec := doRequest(t, router, "/permissive", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPermissiveModeResolvesIdentity(t *testing.T) {
	router, tokens := newAuthTestRouter(t)

	token, err := tokens.IssueAccess("user-staff", model.RoleStaff)
	require.NoError(t, err)

	rec := doRequest(t, router, "/permissive", token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-staff", rec.Body.String())
}

func TestRestrictToAcceptsAllowedRole(t *testing.T) {
	router, tokens := newAuthTestRouter(t)

	token, err := tokens.IssueAccess("user-admin", model.RoleAdmin)
	require.NoError(t, err)

	rec := doRequest(t, router, "/admin", token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRestrictToRejectsOtherRole(t *testing.T) {
	router, tokens := newAuthTestRouter(t)

	token, err := tokens.IssueAccess("user-staff", model.RoleStaff)
	require.NoError(t, err)

	rec := doRequest(t, router, "/admin", token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// Without identity resolution the gate rejects as unauthenticated instead
// of panicking on a nil identity.
func TestRestrictToWithoutIdentityResolution(t *testing.T) {
	router, tokens := newAuthTestRouter(t)

	token, err := tokens.IssueAccess("user-admin", model.RoleAdmin)
	require.NoError(t, err)

	rec := doRequest(t, router, "/bare", token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

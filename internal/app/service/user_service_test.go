package service

import (
	"context"
	"testing"

	"flight_api/internal/common"
	"flight_api/internal/common/security"
	"flight_api/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{"all requirements met", "aA1?bcde", true},
		{"multi-byte characters count toward length", "aA1?éééé", true},
		{"too short", "aA1?bcd", false},
		{"multi-byte runes do not pad the length", "aA1?éé", false},
		{"no lowercase", "AA1?BCDE", false},
		{"no uppercase", "aa1?bcde", false},
		{"no digit", "aAb?bcde", false},
		{"no special character", "aA1bbcde", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePassword(tt.password)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, 400, common.HTTPStatusFromError(err))
			}
		})
	}
}

func TestCreateUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	user, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Username:  "alice",
		Email:     "alice@site.com",
		Password:  "aA1?bcde",
		FirstName: "Alice",
		LastName:  "Doe",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.True(t, user.IsActive)
	assert.Empty(t, user.HashedPassword)

	stored, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, security.CheckPasswordHash("aA1?bcde", stored.HashedPassword))
}

// Registration never grants anything beyond a regular active user, whatever
// the request body carries.
func TestCreateUserIgnoresPrivilegeFields(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	user, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Username: "mallory",
		Email:    "mallory@site.com",
		Password: "aA1?bcde",
	})
	require.NoError(t, err)

	stored, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, stored.Role)
	assert.True(t, stored.IsActive)
}

func TestCreateUserMissingFields(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())

	_, err := svc.CreateUser(context.Background(), CreateUserRequest{Username: "alice"})
	require.Error(t, err)
	assert.Equal(t, 400, common.HTTPStatusFromError(err))
}

func TestCreateUserWeakPassword(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())

	_, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Username: "alice",
		Email:    "alice@site.com",
		Password: "aA1?éé",
	})
	require.Error(t, err)
	assert.Equal(t, 400, common.HTTPStatusFromError(err))
}

func TestUpdateUserChangesRole(t *testing.T) {
	digest, err := security.HashPassword("aA1?bcde")
	require.NoError(t, err)
	repo := newFakeUserRepo(&model.User{
		ID:             "user-bob",
		Username:       "bob",
		Email:          "bob@site.com",
		HashedPassword: digest,
		IsActive:       true,
		Role:           model.RoleUser,
	})
	svc := NewUserService(repo)

	user, err := svc.UpdateUser(context.Background(), "user-bob", UpdateUserRequest{Role: model.RoleStaff})
	require.NoError(t, err)
	assert.Equal(t, model.RoleStaff, user.Role)

	stored, err := repo.FindByID(context.Background(), "user-bob")
	require.NoError(t, err)
	assert.Equal(t, model.RoleStaff, stored.Role)
	// Untouched fields survive, including the digest.
	assert.Equal(t, digest, stored.HashedPassword)
}

func TestUpdateUserRehashesPassword(t *testing.T) {
	oldDigest, err := security.HashPassword("aA1?bcde")
	require.NoError(t, err)
	repo := newFakeUserRepo(&model.User{
		ID:             "user-bob",
		Username:       "bob",
		Email:          "bob@site.com",
		HashedPassword: oldDigest,
		IsActive:       true,
		Role:           model.RoleUser,
	})
	svc := NewUserService(repo)

	user, err := svc.UpdateUser(context.Background(), "user-bob", UpdateUserRequest{Password: "bB2!cdef"})
	require.NoError(t, err)
	assert.Empty(t, user.HashedPassword)

	stored, err := repo.FindByID(context.Background(), "user-bob")
	require.NoError(t, err)
	assert.NotEqual(t, oldDigest, stored.HashedPassword)
	assert.True(t, security.CheckPasswordHash("bB2!cdef", stored.HashedPassword))
}

func TestUpdateUserRejectsWeakPassword(t *testing.T) {
	digest, err := security.HashPassword("aA1?bcde")
	require.NoError(t, err)
	repo := newFakeUserRepo(&model.User{
		ID:             "user-bob",
		Username:       "bob",
		HashedPassword: digest,
		IsActive:       true,
		Role:           model.RoleUser,
	})
	svc := NewUserService(repo)

	_, err = svc.UpdateUser(context.Background(), "user-bob", UpdateUserRequest{Password: "short1!"})
	require.Error(t, err)
	assert.Equal(t, 400, common.HTTPStatusFromError(err))

	stored, err := repo.FindByID(context.Background(), "user-bob")
	require.NoError(t, err)
	assert.Equal(t, digest, stored.HashedPassword)
}

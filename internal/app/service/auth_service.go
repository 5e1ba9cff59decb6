package service

import (
	"context"
	"errors"
	"fmt"

	"flight_api/internal/common"
	"flight_api/internal/common/security"
	"flight_api/internal/domain/model"
	"flight_api/internal/domain/repository"
)

// AuthService implements the login and refresh flows. Tokens are stateless;
// every failure below is terminal for the request and never retried here.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   *security.TokenService
}

func NewAuthService(userRepo repository.UserRepository, tokens *security.TokenService) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens}
}

type LoginRequest struct {
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	User         *model.User
	AccessToken  string
	RefreshToken string
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	login := req.UserName
	if login == "" {
		login = req.Email
	}
	if login == "" || req.Password == "" {
		return nil, common.E(common.ErrValidation, "username / email and password are required")
	}

	user, err := s.userRepo.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// Same outcome as a wrong password so callers cannot probe
			// which identifiers exist.
			return nil, common.E(common.ErrUnauthorized, "incorrect credentials")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.E(common.ErrUnauthorized, "incorrect credentials")
	}

	// Identity is confirmed at this point, so the more specific message
	// is safe to disclose.
	if !user.IsActive {
		return nil, common.E(common.ErrUnauthorized, "this account is not active")
	}

	accessToken, err := s.tokens.IssueAccess(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := s.tokens.IssueRefresh(user.ID, user.HashedPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	user.HashedPassword = "" // Clear digest before returning
	return &LoginResult{User: user, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh mints a new access token from a valid refresh token. The refresh
// token itself is not rotated. The embedded password snapshot must still
// match the stored digest, which forces re-login after a password change.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", common.E(common.ErrUnauthorized, "refresh token required")
	}

	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return "", common.E(common.ErrUnauthorized, "invalid refresh token")
	}

	userID, err := security.GetUserIDFromClaims(claims)
	if err != nil {
		return "", common.E(common.ErrUnauthorized, "invalid refresh token")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.E(common.ErrUnauthorized, "the user belonging to this token no longer exists")
		}
		return "", fmt.Errorf("failed to find user: %w", err)
	}

	digest, err := security.GetPasswordDigestFromClaims(claims)
	if err != nil || digest != user.HashedPassword {
		return "", common.E(common.ErrUnauthorized, "invalid refresh token")
	}

	if !user.IsActive {
		return "", common.E(common.ErrUnauthorized, "this account is not active")
	}

	accessToken, err := s.tokens.IssueAccess(user.ID, user.Role)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}
	return accessToken, nil
}

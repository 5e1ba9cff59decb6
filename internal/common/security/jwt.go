package security

import (
	"errors"
	"time"

	"flight_api/internal/common"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

// TokenConfig carries the full signing contract of the auth core: two
// independent secrets and two independent lifetimes. Access and refresh
// tokens never share a key, so possession of one cannot forge the other.
type TokenConfig struct {
	AccessKey  []byte
	RefreshKey []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// TokenService issues and verifies signed, time-bounded tokens. It holds
// no state about issued tokens; validity is entirely signature + expiry.
type TokenService struct {
	accessAuth  *jwtauth.JWTAuth
	refreshAuth *jwtauth.JWTAuth
	accessTTL   time.Duration
	refreshTTL  time.Duration
}

func NewTokenService(cfg TokenConfig) *TokenService {
	return &TokenService{
		accessAuth:  jwtauth.New("HS256", cfg.AccessKey, nil),
		refreshAuth: jwtauth.New("HS256", cfg.RefreshKey, nil),
		accessTTL:   cfg.AccessTTL,
		refreshTTL:  cfg.RefreshTTL,
	}
}

// AccessAuth exposes the access-side verifier for jwtauth.Verifier in the router.
func (s *TokenService) AccessAuth() *jwtauth.JWTAuth { return s.accessAuth }

func (s *TokenService) RefreshTTL() time.Duration { return s.refreshTTL }

func (s *TokenService) IssueAccess(userID, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     now.Add(s.accessTTL).Unix(),
		"iat":     now.Unix(),
	}
	_, tokenString, err := s.accessAuth.Encode(claims)
	return tokenString, err
}

// IssueRefresh embeds a snapshot of the user's current password digest.
// Refresh verification compares it against the stored digest, which
// invalidates every outstanding refresh token the moment a password changes.
func (s *TokenService) IssueRefresh(userID, passwordDigest string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"pwd":     passwordDigest,
		"exp":     now.Add(s.refreshTTL).Unix(),
		"iat":     now.Unix(),
	}
	_, tokenString, err := s.refreshAuth.Encode(claims)
	return tokenString, err
}

func (s *TokenService) VerifyAccess(tokenString string) (jwt.MapClaims, error) {
	return verify(s.accessAuth, tokenString)
}

func (s *TokenService) VerifyRefresh(tokenString string) (jwt.MapClaims, error) {
	return verify(s.refreshAuth, tokenString)
}

// verify collapses bad signature, malformed input and expiry into a single
// unauthorized outcome; callers treat them uniformly.
func verify(ja *jwtauth.JWTAuth, tokenString string) (jwt.MapClaims, error) {
	token, err := jwtauth.VerifyToken(ja, tokenString)
	if err != nil {
		return nil, common.ErrUnauthorized
	}
	return jwt.MapClaims(token.PrivateClaims()), nil
}

// Helper functions to extract claims, usable from middleware or services.
func GetUserIDFromClaims(claims jwt.MapClaims) (string, error) {
	id, ok := claims["user_id"].(string)
	if !ok {
		return "", errors.New("user_id claim is missing or not a string")
	}
	return id, nil
}

func GetUserRoleFromClaims(claims jwt.MapClaims) (string, error) {
	role, ok := claims["role"].(string)
	if !ok {
		return "", errors.New("role claim is missing or not a string")
	}
	return role, nil
}

func GetPasswordDigestFromClaims(claims jwt.MapClaims) (string, error) {
	digest, ok := claims["pwd"].(string)
	if !ok {
		return "", errors.New("pwd claim is missing or not a string")
	}
	return digest, nil
}

package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"flight_api/internal/app/service"
	"flight_api/internal/common"
	"flight_api/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

const refreshCookieName = "refresh_token"

type AuthHandler struct {
	authService  *service.AuthService
	refreshTTL   time.Duration
	secureCookie bool
}

func NewAuthHandler(authService *service.AuthService, refreshTTL time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: authService, refreshTTL: refreshTTL, secureCookie: secureCookie}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/login", h.login)
	r.Get("/refresh", h.refresh)
	r.Post("/logout", h.logout)
}

type bearerPayload struct {
	AccessToken string `json:"accessToken"`
}

type loginResponse struct {
	Error  bool          `json:"error"`
	Bearer bearerPayload `json:"bearer"`
	Data   *model.User   `json:"data,omitempty"`
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	result, err := h.authService.Login(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	// The refresh token travels only in an HttpOnly same-site cookie so
	// page scripts never see it; its lifetime matches the refresh TTL.
	h.setRefreshCookie(w, result.RefreshToken, int(h.refreshTTL.Seconds()))

	common.RespondWithJSON(w, http.StatusOK, loginResponse{
		Bearer: bearerPayload{AccessToken: result.AccessToken},
		Data:   result.User,
	})
}

func (h *AuthHandler) refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil {
		common.RespondWithError(w, http.StatusUnauthorized, "refresh token required")
		return
	}

	accessToken, err := h.authService.Refresh(r.Context(), cookie.Value)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	common.RespondWithJSON(w, http.StatusOK, loginResponse{
		Bearer: bearerPayload{AccessToken: accessToken},
	})
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	h.setRefreshCookie(w, "", -1)
	common.RespondWithJSON(w, http.StatusOK, common.ResultResponse{Result: "logged out"})
}

func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    value,
		Path:     "/auth",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}

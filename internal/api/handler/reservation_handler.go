package handler

import (
	"encoding/json"
	"net/http"

	"flight_api/internal/api/middleware"
	"flight_api/internal/app/service"
	"flight_api/internal/common"

	"github.com/go-chi/chi/v5"
)

type ReservationHandler struct {
	reservationService *service.ReservationService
}

func NewReservationHandler(reservationService *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationService: reservationService}
}

func (h *ReservationHandler) RegisterRoutes(r chi.Router, auth *middleware.AuthMiddleware) {
	// Guest bookings are allowed: creation resolves identity permissively
	// and falls back to explicit passenger details.
	r.Group(func(create chi.Router) {
		create.Use(auth.OptionalAuthenticator)
		create.Post("/", h.createReservation)
	})

	r.Group(func(authed chi.Router) {
		authed.Use(auth.Authenticator)
		authed.Get("/", h.listReservations)
		authed.Get("/{id}", h.getReservation)
		authed.Put("/{id}", h.updateReservation)
		authed.Patch("/{id}", h.updateReservation)
		authed.Delete("/{id}", h.deleteReservation)
	})
}

func (h *ReservationHandler) createReservation(w http.ResponseWriter, r *http.Request) {
	var req service.CreateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	identity, _ := middleware.GetUserFromContext(r.Context())

	reservation, err := h.reservationService.CreateReservation(r.Context(), identity, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithResult(w, http.StatusCreated, reservation)
}

func (h *ReservationHandler) listReservations(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r)
	identity, _ := middleware.GetUserFromContext(r.Context())

	reservations, total, err := h.reservationService.ListReservations(r.Context(), identity, page, limit)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithList(w, reservations, common.ListDetails{Total: total, Page: page, Limit: limit})
}

func (h *ReservationHandler) getReservation(w http.ResponseWriter, r *http.Request) {
	reservation, err := h.reservationService.GetReservation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithResult(w, http.StatusOK, reservation)
}

func (h *ReservationHandler) updateReservation(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	reservation, err := h.reservationService.UpdateReservation(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithResult(w, http.StatusAccepted, reservation)
}

func (h *ReservationHandler) deleteReservation(w http.ResponseWriter, r *http.Request) {
	if err := h.reservationService.DeleteReservation(r.Context(), chi.URLParam(r, "id")); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

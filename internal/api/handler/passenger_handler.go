package handler

import (
	"encoding/json"
	"net/http"

	"flight_api/internal/api/middleware"
	"flight_api/internal/app/service"
	"flight_api/internal/common"
	"flight_api/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type PassengerHandler struct {
	passengerService *service.PassengerService
}

func NewPassengerHandler(passengerService *service.PassengerService) *PassengerHandler {
	return &PassengerHandler{passengerService: passengerService}
}

func (h *PassengerHandler) RegisterRoutes(r chi.Router, auth *middleware.AuthMiddleware) {
	r.Group(func(create chi.Router) {
		create.Use(auth.OptionalAuthenticator)
		create.Post("/", h.createPassenger)
	})

	r.Group(func(admin chi.Router) {
		admin.Use(auth.Authenticator)
		admin.Use(middleware.RestrictTo(model.RoleAdmin))
		admin.Get("/", h.listPassengers)
		admin.Get("/{id}", h.getPassenger)
		admin.Put("/{id}", h.updatePassenger)
		admin.Patch("/{id}", h.updatePassenger)
		admin.Delete("/{id}", h.deletePassenger)
	})
}

func (h *PassengerHandler) createPassenger(w http.ResponseWriter, r *http.Request) {
	var req service.PassengerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	createdBy := ""
	if user, ok := middleware.GetUserFromContext(r.Context()); ok {
		createdBy = user.ID
	}

	passenger, err := h.passengerService.CreatePassenger(r.Context(), createdBy, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithResult(w, http.StatusCreated, passenger)
}

func (h *PassengerHandler) listPassengers(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r)

	passengers, total, err := h.passengerService.ListPassengers(r.Context(), page, limit)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithList(w, passengers, common.ListDetails{Total: total, Page: page, Limit: limit})
}

func (h *PassengerHandler) getPassenger(w http.ResponseWriter, r *http.Request) {
	passenger, err := h.passengerService.GetPassenger(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithResult(w, http.StatusOK, passenger)
}

func (h *PassengerHandler) updatePassenger(w http.ResponseWriter, r *http.Request) {
	var req service.PassengerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	passenger, err := h.passengerService.UpdatePassenger(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithResult(w, http.StatusAccepted, passenger)
}

func (h *PassengerHandler) deletePassenger(w http.ResponseWriter, r *http.Request) {
	if err := h.passengerService.DeletePassenger(r.Context(), chi.URLParam(r, "id")); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

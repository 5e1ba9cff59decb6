package handler

import (
	"encoding/json"
	"net/http"

	"flight_api/internal/api/middleware"
	"flight_api/internal/app/service"
	"flight_api/internal/common"
	"flight_api/internal/domain/model"
	"flight_api/internal/domain/repository"

	"github.com/go-chi/chi/v5"
)

type FlightHandler struct {
	flightService *service.FlightService
}

func NewFlightHandler(flightService *service.FlightService) *FlightHandler {
	return &FlightHandler{flightService: flightService}
}

func (h *FlightHandler) RegisterRoutes(r chi.Router, auth *middleware.AuthMiddleware) {
	r.Get("/", h.listFlights)
	r.Get("/{flightRef}", h.getFlight) // ID or slug

	// Creation is open to anonymous callers; a present identity is stamped
	// onto the created record.
	r.Group(func(create chi.Router) {
		create.Use(auth.OptionalAuthenticator)
		create.Post("/", h.createFlight)
	})

	r.Group(func(staff chi.Router) {
		staff.Use(auth.Authenticator)
		staff.Use(middleware.RestrictTo(model.RoleAdmin, model.RoleStaff))
		staff.Put("/{id}", h.updateFlight)
		staff.Patch("/{id}", h.updateFlight)
		staff.Delete("/{id}", h.deleteFlight)
	})
}

func (h *FlightHandler) createFlight(w http.ResponseWriter, r *http.Request) {
	var req service.FlightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	createdBy := ""
	if user, ok := middleware.GetUserFromContext(r.Context()); ok {
		createdBy = user.ID
	}

	flight, err := h.flightService.CreateFlight(r.Context(), createdBy, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithResult(w, http.StatusCreated, flight)
}

func (h *FlightHandler) listFlights(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r)
	filter := repository.FlightFilter{
		Airline:   r.URL.Query().Get("airline"),
		Departure: r.URL.Query().Get("departure"),
		Arrival:   r.URL.Query().Get("arrival"),
	}

	flights, total, err := h.flightService.ListFlights(r.Context(), page, limit, filter)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithList(w, flights, common.ListDetails{Total: total, Page: page, Limit: limit})
}

func (h *FlightHandler) getFlight(w http.ResponseWriter, r *http.Request) {
	flight, err := h.flightService.GetFlight(r.Context(), chi.URLParam(r, "flightRef"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithResult(w, http.StatusOK, flight)
}

func (h *FlightHandler) updateFlight(w http.ResponseWriter, r *http.Request) {
	var req service.FlightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	flight, err := h.flightService.UpdateFlight(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithResult(w, http.StatusAccepted, flight)
}

func (h *FlightHandler) deleteFlight(w http.ResponseWriter, r *http.Request) {
	if err := h.flightService.DeleteFlight(r.Context(), chi.URLParam(r, "id")); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

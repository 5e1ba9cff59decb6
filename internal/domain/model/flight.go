package model

import (
	"time"
)

type Flight struct {
	ID            string    `json:"id"`
	FlightNumber  string    `json:"flight_number"`
	Airline       string    `json:"airline"`
	Departure     string    `json:"departure"`
	DepartureDate time.Time `json:"departure_date"`
	Arrival       string    `json:"arrival"`
	ArrivalDate   time.Time `json:"arrival_date"`
	Slug          string    `json:"slug"`
	CreatedByID   *string   `json:"created_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

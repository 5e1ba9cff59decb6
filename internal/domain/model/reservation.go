package model

import (
	"time"
)

// Reservation links a flight to one or more passengers. Flight and
// Passengers are populated on reads; only the IDs are persisted.
type Reservation struct {
	ID          string      `json:"id"`
	FlightID    string      `json:"flight_id"`
	Flight      *Flight     `json:"flight,omitempty"`
	Passengers  []Passenger `json:"passengers"`
	CreatedByID string      `json:"created_by"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

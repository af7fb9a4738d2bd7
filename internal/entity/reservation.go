package entity

import "time"

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationCancelled ReservationStatus = "cancelled"
	// ReservationFulfilled is accepted on read for forward compatibility;
	// nothing in the service produces it yet.
	ReservationFulfilled ReservationStatus = "fulfilled"
)

// Reservation is a request to be served when an unavailable book frees up.
// It never holds a copy, so it never affects Book counters.
type Reservation struct {
	ID              string            `json:"id"`
	BookID          string            `json:"bookId"`
	UserID          string            `json:"userId"`
	ReservationDate time.Time         `json:"reservationDate"`
	Status          ReservationStatus `json:"status"`
}

package models

import (
	"time"

	"seatreserve/internal/domain"
	"seatreserve/internal/occupancy"
)

// SeatReservation is an admitted request: one seat over the inclusive stop range
// [FromStopIndex, ToStopIndex] of a trip. It is never mutated after creation.
type SeatReservation struct {
	ID            int64         `json:"id"`
	Code          string        `json:"code"`
	TripID        domain.TripID `json:"trip_id"`
	SeatIndex     int           `json:"seat_index"`
	FromStopIndex int           `json:"from_stop_index"`
	ToStopIndex   int           `json:"to_stop_index"`
	CreatedAt     time.Time     `json:"created_at"`

	matrix *occupancy.Matrix
}

// NewSeatReservation builds the record and its occupancy matrix for a trip of
// the given dimensions.
func NewSeatReservation(tripID domain.TripID, seat, from, to, seats, stops int) (SeatReservation, error) {
	r := SeatReservation{
		TripID:        tripID,
		SeatIndex:     seat,
		FromStopIndex: from,
		ToStopIndex:   to,
	}
	m, err := r.Occupancy(seats, stops)
	if err != nil {
		return SeatReservation{}, err
	}
	r.matrix = m
	return r, nil
}

// Occupancy returns the record's matrix sized seats x stops. Records loaded from
// storage carry no matrix and get one built on demand.
func (r SeatReservation) Occupancy(seats, stops int) (*occupancy.Matrix, error) {
	if r.matrix != nil && r.matrix.Height() == seats && r.matrix.Width() == stops {
		return r.matrix, nil
	}
	m := occupancy.New(stops, seats)
	if err := m.SetRowRange(r.SeatIndex, r.FromStopIndex, r.ToStopIndex, true); err != nil {
		return nil, err
	}
	return m, nil
}

package services

import (
	"errors"
	"fmt"

	"seatreserve/internal/domain"
	"seatreserve/internal/domain/models"
	"seatreserve/internal/occupancy"
)

// BuildTripOccupancy folds every stored reservation of tripID into one seats x
// stops matrix. Stored reservations were admitted one by one against the same
// check, so an overlap here means the store itself is inconsistent.
func BuildTripOccupancy(tripID domain.TripID, seats, stops int, reservations []models.SeatReservation) (*occupancy.Matrix, error) {
	acc := occupancy.New(stops, seats)
	for _, r := range reservations {
		if r.TripID != tripID {
			continue
		}
		m, err := r.Occupancy(seats, stops)
		if err != nil {
			return nil, domain.InternalError{
				Msg: fmt.Sprintf("reservation %s does not fit trip %d", r.Code, tripID),
				Err: fmt.Errorf("%w: %w", domain.ErrInconsistentOccupancy, err),
			}
		}
		merged, err := occupancy.TryAdd(acc, m)
		if err != nil {
			if errors.Is(err, occupancy.ErrOverlap) {
				return nil, domain.InternalError{
					Msg: fmt.Sprintf("stored reservations overlap on trip %d", tripID),
					Err: fmt.Errorf("%w: reservation %s", domain.ErrInconsistentOccupancy, r.Code),
				}
			}
			return nil, domain.InternalError{Msg: "failed to merge occupancy", Err: err}
		}
		acc = merged
	}
	return acc, nil
}

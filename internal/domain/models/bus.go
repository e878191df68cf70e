package models

import "seatreserve/internal/domain"

// BusModel fixes the seat capacity of every bus built on it.
type BusModel struct {
	ID            domain.BusModelID `json:"id" yaml:"id"`
	Name          string            `json:"name" yaml:"name" validate:"required"`
	NumberOfSeats int               `json:"number_of_seats" yaml:"number_of_seats" validate:"gt=0,lte=255"`
}

type Bus struct {
	ID         domain.BusID      `json:"id" yaml:"id"`
	BusModelID domain.BusModelID `json:"bus_model_id" yaml:"bus_model_id" validate:"required"`
}

type Stop struct {
	ID   domain.StopID `json:"id" yaml:"id"`
	Name string        `json:"name" yaml:"name" validate:"required"`
}

package models

import "seatreserve/internal/domain"

// Trip is one scheduled run of a bus along a route.
type Trip struct {
	ID      domain.TripID  `json:"id" yaml:"id"`
	RouteID domain.RouteID `json:"route_id" yaml:"route_id" validate:"required"`
	BusID   domain.BusID   `json:"bus_id" yaml:"bus_id" validate:"required"`
}

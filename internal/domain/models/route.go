package models

import (
	"sort"

	"seatreserve/internal/domain"
)

type Route struct {
	ID   domain.RouteID `json:"id" yaml:"id"`
	Name string         `json:"name" yaml:"name"`
}

// RouteStop places a stop at position Index along a route.
type RouteStop struct {
	ID      domain.RouteStopID `json:"id" yaml:"id"`
	RouteID domain.RouteID     `json:"route_id" yaml:"route_id"`
	StopID  domain.StopID      `json:"stop_id" yaml:"stop_id" validate:"required"`
	Index   int                `json:"index" yaml:"index" validate:"gte=0"`
}

// SortRouteStops orders stops by Index in place.
func SortRouteStops(stops []RouteStop) {
	sort.SliceStable(stops, func(i, j int) bool { return stops[i].Index < stops[j].Index })
}

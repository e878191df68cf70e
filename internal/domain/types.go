package domain

// ID is used across domain entities.
type ID int64

// Entity identifiers. Zero means "not assigned yet" on create.
type (
	BusModelID  ID
	BusID       ID
	StopID      ID
	RouteID     ID
	RouteStopID ID
	TripID      ID
)

// RequestContext carries authenticated user info when available.
type RequestContext struct {
	Subject string `json:"subject"`
	Role    string `json:"role"`
}

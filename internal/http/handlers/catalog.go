package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"seatreserve/internal/domain"
	"seatreserve/internal/domain/models"
	"seatreserve/internal/http/middleware"
	"seatreserve/internal/services"
)

func (h Handlers) catalog(c *gin.Context) services.CatalogService {
	return services.CatalogService{Store: h.Store, RequestID: middleware.GetRequestID(c)}
}

// respond writes out with status, or the domain error when err is set.
func respond[T any](c *gin.Context, status int, out T, err error) {
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(status, out)
}

// POST /api/bus-models
func (h Handlers) CreateBusModel(c *gin.Context) {
	var in models.BusModel
	if !BindJSONOrError(c, &in) {
		return
	}
	out, err := h.catalog(c).CreateBusModel(c.Request.Context(), in)
	respond(c, http.StatusCreated, out, err)
}

// GET /api/bus-models/:id
func (h Handlers) GetBusModel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	out, err := h.catalog(c).ShowBusModel(c.Request.Context(), domain.BusModelID(id))
	respond(c, http.StatusOK, out, err)
}

// POST /api/buses
func (h Handlers) CreateBus(c *gin.Context) {
	var in models.Bus
	if !BindJSONOrError(c, &in) {
		return
	}
	out, err := h.catalog(c).CreateBus(c.Request.Context(), in)
	respond(c, http.StatusCreated, out, err)
}

// GET /api/buses/:id
func (h Handlers) GetBus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	out, err := h.catalog(c).ShowBus(c.Request.Context(), domain.BusID(id))
	respond(c, http.StatusOK, out, err)
}

// POST /api/stops
func (h Handlers) CreateStop(c *gin.Context) {
	var in models.Stop
	if !BindJSONOrError(c, &in) {
		return
	}
	out, err := h.catalog(c).CreateStop(c.Request.Context(), in)
	respond(c, http.StatusCreated, out, err)
}

// GET /api/stops/:id
func (h Handlers) GetStop(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	out, err := h.catalog(c).ShowStop(c.Request.Context(), domain.StopID(id))
	respond(c, http.StatusOK, out, err)
}

type routeRequest struct {
	models.Route
	Stops []models.RouteStop `json:"stops"`
}

// POST /api/bus-routes
func (h Handlers) CreateRoute(c *gin.Context) {
	var in routeRequest
	if !BindJSONOrError(c, &in) {
		return
	}
	out, err := h.catalog(c).CreateRoute(c.Request.Context(), in.Route, in.Stops)
	respond(c, http.StatusCreated, out, err)
}

// GET /api/bus-routes/:id
func (h Handlers) GetRoute(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	out, err := h.catalog(c).ShowRoute(c.Request.Context(), domain.RouteID(id))
	respond(c, http.StatusOK, out, err)
}

// POST /api/trips
func (h Handlers) CreateTrip(c *gin.Context) {
	var in models.Trip
	if !BindJSONOrError(c, &in) {
		return
	}
	out, err := h.catalog(c).CreateTrip(c.Request.Context(), in)
	respond(c, http.StatusCreated, out, err)
}

// GET /api/trips/:id
func (h Handlers) GetTrip(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	out, err := h.catalog(c).ShowTrip(c.Request.Context(), domain.TripID(id))
	respond(c, http.StatusOK, out, err)
}

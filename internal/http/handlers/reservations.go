package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"seatreserve/internal/domain"
	"seatreserve/internal/http/middleware"
	"seatreserve/internal/services"
)

func (h Handlers) reservations(c *gin.Context) services.ReservationService {
	return services.ReservationService{
		Store:     h.Store,
		Locker:    h.Locker,
		RequestID: middleware.GetRequestID(c),
		Actor:     middleware.CurrentUser(c).Subject,
	}
}

// Pointers tell a missing index apart from index 0.
type reserveSeatRequest struct {
	SeatIndex     *int `json:"seat_index" binding:"required"`
	FromStopIndex *int `json:"from_stop_index" binding:"required"`
	ToStopIndex   *int `json:"to_stop_index" binding:"required"`
}

// POST /api/trips/:id/reservations
func (h Handlers) ReserveSeat(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req reserveSeatRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	out, err := h.reservations(c).ReserveSeat(c.Request.Context(), services.ReserveSeatForm{
		TripID:        domain.TripID(id),
		SeatIndex:     *req.SeatIndex,
		FromStopIndex: *req.FromStopIndex,
		ToStopIndex:   *req.ToStopIndex,
	})
	respond(c, http.StatusCreated, out, err)
}

// GET /api/trips/:id/reservations
func (h Handlers) ListReservations(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	out, err := h.reservations(c).ListReservations(c.Request.Context(), domain.TripID(id))
	respond(c, http.StatusOK, gin.H{"reservations": out}, err)
}

// GET /api/trips/:id/seat-map
func (h Handlers) SeatMap(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	out, err := h.reservations(c).SeatMap(c.Request.Context(), domain.TripID(id))
	respond(c, http.StatusOK, out, err)
}

// GET /api/trips/:id/available-seats?from=&to=
func (h Handlers) AvailableSeats(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	from, ok := queryInt(c, "from")
	if !ok {
		return
	}
	to, ok := queryInt(c, "to")
	if !ok {
		return
	}
	seats, err := h.reservations(c).AvailableSeats(c.Request.Context(), domain.TripID(id), from, to)
	respond(c, http.StatusOK, gin.H{"trip_id": id, "from": from, "to": to, "seats": seats}, err)
}

// GET /api/reservations/:code
func (h Handlers) GetReservation(c *gin.Context) {
	out, err := h.reservations(c).ShowReservation(c.Request.Context(), c.Param("code"))
	respond(c, http.StatusOK, out, err)
}

// GET /api/reservations/:code/ticket returns the ticket PDF inline.
func (h Handlers) GetReservationTicket(c *gin.Context) {
	svc := services.DocsService{Store: h.Store, RequestID: middleware.GetRequestID(c)}
	pdfBytes, filename, err := svc.GenerateTicket(c.Request.Context(), c.Param("code"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

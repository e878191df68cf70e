package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"

	"seatreserve/internal/domain"
	"seatreserve/internal/utils"
)

// DocsService renders printable documents for admitted reservations.
type DocsService struct {
	Store     Store
	RequestID string
	Loader    func(ctx context.Context, code string) (ticketData, error)
}

type ticketData struct {
	Code      string
	TripID    domain.TripID
	RouteName string
	SeatIndex int
	FromStop  string
	ToStop    string
	FromIndex int
	ToIndex   int
	IssuedAt  string
}

// GenerateTicket returns a one-page PDF ticket for the reservation with code.
func (s DocsService) GenerateTicket(ctx context.Context, code string) ([]byte, string, error) {
	data, err := s.loadTicketData(ctx, code)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_ticket", "ticket generated", "code", code)
	return buildTicketPDF(data)
}

func (s DocsService) loadTicketData(ctx context.Context, code string) (ticketData, error) {
	if s.Loader != nil {
		return s.Loader(ctx, code)
	}
	r, err := ReservationService{Store: s.Store}.ShowReservation(ctx, code)
	if err != nil {
		return ticketData{}, err
	}
	agg, err := ResolveTripAggregate(ctx, s.Store, r.TripID)
	if err != nil {
		return ticketData{}, err
	}

	out := ticketData{
		Code:      r.Code,
		TripID:    r.TripID,
		RouteName: agg.Route.Name,
		SeatIndex: r.SeatIndex,
		FromIndex: r.FromStopIndex,
		ToIndex:   r.ToStopIndex,
		IssuedAt:  utils.FormatDateTime(r.CreatedAt),
	}
	out.FromStop = s.stopName(ctx, agg, r.FromStopIndex)
	out.ToStop = s.stopName(ctx, agg, r.ToStopIndex)
	return out, nil
}

// stopName falls back to the position when the stop row is gone.
func (s DocsService) stopName(ctx context.Context, agg TripAggregate, index int) string {
	if index < 0 || index >= len(agg.RouteStops) {
		return fmt.Sprintf("stop #%d", index)
	}
	st, err := s.Store.FindStop(ctx, agg.RouteStops[index].StopID)
	if err != nil || strings.TrimSpace(st.Name) == "" {
		return fmt.Sprintf("stop #%d", index)
	}
	return st.Name
}

func buildTicketPDF(d ticketData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BUS TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Ticket code : %s", safe(d.Code, "-")),
		fmt.Sprintf("Trip        : #%d", d.TripID),
		fmt.Sprintf("Route       : %s", safe(d.RouteName, "-")),
		fmt.Sprintf("Seat        : %d", d.SeatIndex+1),
		fmt.Sprintf("Board at    : %s (stop %d)", safe(d.FromStop, "-"), d.FromIndex),
		fmt.Sprintf("Alight at   : %s (stop %d)", safe(d.ToStop, "-"), d.ToIndex),
		fmt.Sprintf("Issued      : %s UTC", safe(d.IssuedAt, "-")),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Valid for one passenger on the seat and stops shown above.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("TICKET_%d_%s.pdf", d.TripID, safeFilenamePart(d.Code))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}

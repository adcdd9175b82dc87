package service

import (
	"context"
	"math"

	"github.com/VBRVijay/Event-Management-Web-Application/internal/model"
)

// ticketPrice is the flat per-ticket price used as a revenue proxy; events
// carry no price field of their own.
const ticketPrice = 100

// SalesReport aggregates ticket sales across all events. It is computed from
// one ListEvents read, so it reflects a single committed snapshot: no event
// can appear mid-registration with its counter out of step with its capacity.
func (s *EventService) SalesReport(ctx context.Context) (*model.SalesReport, error) {
	events, err := s.store.ListEvents(ctx, model.EventFilter{})
	if err != nil {
		return nil, err
	}

	report := &model.SalesReport{
		TotalEvents: len(events),
		Events:      make([]model.EventSales, 0, len(events)),
	}
	for _, e := range events {
		report.TotalCapacity += e.Capacity
		report.TotalTicketsSold += e.TicketsSold
		report.TotalRevenue += e.TicketsSold * ticketPrice
		report.Events = append(report.Events, model.EventSales{
			Event:         e,
			Revenue:       e.TicketsSold * ticketPrice,
			OccupancyRate: occupancy(e.TicketsSold, e.Capacity),
		})
	}
	report.OverallOccupancy = occupancy(report.TotalTicketsSold, report.TotalCapacity)
	return report, nil
}

// occupancy returns sold/capacity as a percentage rounded to two decimals.
// A zero-capacity event reports 0 rather than dividing by zero.
func occupancy(sold, capacity int) float64 {
	if capacity == 0 {
		return 0
	}
	return math.Round(float64(sold)/float64(capacity)*100*100) / 100
}

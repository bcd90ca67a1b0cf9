package usecase

import (
	"context"
	"fmt"
	"time"

	"tourism-cert-service/internal/domain/entity"
	"tourism-cert-service/internal/domain/repository"
	"tourism-cert-service/pkg/logger"
)

// ticketListLimit caps one listing query.
const ticketListLimit = 500

// TicketView is a ticket with its derived display status attached for one
// render. The label is never written back to the store.
type TicketView struct {
	Ticket        *entity.Ticket `json:"ticket"`
	DisplayStatus string         `json:"displayStatus"`
}

// TicketQuery answers display-status questions about tickets and appends
// scan events. The classification itself is the entity's pure function; this
// layer only fetches and stamps "now".
type TicketQuery struct {
	ticketRepo repository.TicketRepository
	logger     logger.Logger
	now        func() time.Time
}

// NewTicketQuery creates a new ticket query service
func NewTicketQuery(ticketRepo repository.TicketRepository, logger logger.Logger) *TicketQuery {
	return &TicketQuery{
		ticketRepo: ticketRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// Status returns the current display status of one ticket
func (q *TicketQuery) Status(ctx context.Context, ticketID string) (string, error) {
	ticket, err := q.ticketRepo.FindByID(ctx, ticketID)
	if err != nil {
		return "", err
	}
	return ticket.DisplayStatus(q.now()), nil
}

// List returns tickets with their display statuses computed at a single
// instant, so one page of results is internally consistent.
func (q *TicketQuery) List(ctx context.Context) ([]TicketView, error) {
	tickets, err := q.ticketRepo.FindAll(ctx, ticketListLimit)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}

	now := q.now()
	views := make([]TicketView, 0, len(tickets))
	for _, t := range tickets {
		views = append(views, TicketView{
			Ticket:        t,
			DisplayStatus: t.DisplayStatus(now),
		})
	}
	return views, nil
}

// RecordScan appends a scan event to the ticket. This is the only mutation
// tickets receive after the scheduling flow creates them.
func (q *TicketQuery) RecordScan(ctx context.Context, ticketID, eventStatus string) (*entity.Ticket, error) {
	event := entity.ScanEvent{
		EventStatus: eventStatus,
		Timestamp:   q.now(),
	}

	if err := q.ticketRepo.AppendScan(ctx, ticketID, event); err != nil {
		return nil, err
	}

	q.logger.Info("Scan event recorded", "ticketId", ticketID, "eventStatus", eventStatus)
	return q.ticketRepo.FindByID(ctx, ticketID)
}

package repository

import (
	"context"

	"tourism-cert-service/internal/domain/entity"
)

// TicketRepository defines the interface for ticket storage. Tickets are
// created by the scheduling flow and mutated only by appending scan events.
type TicketRepository interface {
	Save(ctx context.Context, ticket *entity.Ticket) (string, error)
	FindByID(ctx context.Context, id string) (*entity.Ticket, error)
	FindAll(ctx context.Context, limit int) ([]*entity.Ticket, error)

	// AppendScan pushes one scan event and updates the raw status in a
	// single update.
	AppendScan(ctx context.Context, id string, event entity.ScanEvent) error
}

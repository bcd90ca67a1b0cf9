package repository

import (
	"context"

	"tourism-cert-service/internal/domain/entity"
)

// Notifier defines the interface for outbound approval notifications.
// Delivery is fire-and-forget: a failed send is logged by the caller and
// never rolls back the transition that triggered it.
type Notifier interface {
	SendApprovalNotice(ctx context.Context, app *entity.Application, cert *entity.Certificate) error
}

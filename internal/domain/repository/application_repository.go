package repository

import (
	"context"

	"tourism-cert-service/internal/domain/entity"
)

// ApplicationRepository defines the interface for application storage
// operations. The transition manager is the only writer of status, history,
// and certificate links after registration.
type ApplicationRepository interface {
	Save(ctx context.Context, app *entity.Application) (string, error)
	FindByID(ctx context.Context, id string) (*entity.Application, error)

	// AppendTransition sets the status and pushes one history entry in a
	// single update.
	AppendTransition(ctx context.Context, id string, entry entity.StatusHistoryEntry) error

	// AppendTransitionWithCertificate additionally links a freshly issued
	// certificate (id append + latest-summary overwrite) in the same update,
	// so an approval is one write against the application document.
	AppendTransitionWithCertificate(ctx context.Context, id string, entry entity.StatusHistoryEntry, certID string, summary entity.CertificateSummary) error

	// LinkCertificate backfills a certificate reference onto an application.
	// Used by the reconciler when an earlier approval half-finished. A nil
	// summary leaves the latest-certificate copy untouched, so repairing an
	// old certificate cannot regress the display fields.
	LinkCertificate(ctx context.Context, id string, certID string, summary *entity.CertificateSummary) error

	FindByStatus(ctx context.Context, status string, limit int) ([]*entity.Application, error)
}

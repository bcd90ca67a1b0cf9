package repository

import (
	"context"

	"tourism-cert-service/internal/domain/entity"
)

// CertificateRepository defines the interface for certificate storage.
// Certificates are write-once; there is no update or delete here.
type CertificateRepository interface {
	Save(ctx context.Context, cert *entity.Certificate) error
	FindByID(ctx context.Context, id string) (*entity.Certificate, error)

	// FindByApprovalEvent returns the certificate already minted for one
	// approval event, or nil when none exists. This is the issuer's
	// idempotency check.
	FindByApprovalEvent(ctx context.Context, applicationID, approvalEventID string) (*entity.Certificate, error)

	FindByApplication(ctx context.Context, applicationID string) ([]*entity.Certificate, error)
}

// CounterRepository hands out the next sequence number for a calendar year.
// Next must run as a linearizable read-modify-write: under any number of
// concurrent callers every returned number for a year is distinct.
type CounterRepository interface {
	Next(ctx context.Context, year int) (int, error)
}

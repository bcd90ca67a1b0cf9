package usecase

import (
	"context"
	"fmt"
	"time"

	"tourism-cert-service/internal/domain/entity"
	"tourism-cert-service/internal/domain/repository"
	"tourism-cert-service/pkg/logger"
	"tourism-cert-service/pkg/metrics"
)

// CertificateIssuer builds and persists a certificate for an approved
// application. Issuance is idempotent per approval event: replaying the same
// (application, approval event) pair returns the certificate already minted
// instead of burning another sequence number.
type CertificateIssuer struct {
	certRepo        repository.CertificateRepository
	designationRepo repository.DesignationRepository
	allocator       *SequentialAllocator
	metrics         *metrics.Metrics
	logger          logger.Logger
	now             func() time.Time
}

// NewCertificateIssuer creates a new certificate issuer
func NewCertificateIssuer(
	certRepo repository.CertificateRepository,
	designationRepo repository.DesignationRepository,
	allocator *SequentialAllocator,
	metrics *metrics.Metrics,
	logger logger.Logger,
) *CertificateIssuer {
	return &CertificateIssuer{
		certRepo:        certRepo,
		designationRepo: designationRepo,
		allocator:       allocator,
		metrics:         metrics,
		logger:          logger,
		now:             time.Now,
	}
}

// Issue mints a certificate for the application. Nothing is committed when
// allocation fails; the caller decides how the application write proceeds.
func (i *CertificateIssuer) Issue(ctx context.Context, app *entity.Application, approvingVerifierID, approvalEventID string) (*entity.Certificate, error) {
	existing, err := i.certRepo.FindByApprovalEvent(ctx, app.ID, approvalEventID)
	if err != nil {
		return nil, fmt.Errorf("check existing certificate: %w", err)
	}
	if existing != nil {
		i.logger.Info("Certificate already issued for approval event, reusing",
			"applicationId", app.ID, "certificateId", existing.ID)
		return existing, nil
	}

	certType := i.selectType(ctx, app)

	issuedAt := i.now()
	certID, err := i.allocator.Allocate(ctx, issuedAt.Year())
	if err != nil {
		return nil, err
	}

	cert := &entity.Certificate{
		ID:                certID,
		Type:              certType,
		IssuedAt:          issuedAt,
		ExpiresAt:         entity.EndOfYear(issuedAt),
		ApplicationID:     app.ID,
		IssuingVerifierID: approvingVerifierID,
		ApprovalEventID:   approvalEventID,
	}

	if err := i.certRepo.Save(ctx, cert); err != nil {
		return nil, err
	}

	i.metrics.CertificatesIssued.WithLabelValues(certType).Inc()
	i.logger.Info("Certificate issued",
		"certificateId", cert.ID, "type", certType, "applicationId", app.ID)

	return cert, nil
}

// selectType picks Endorsement when the application has a training
// certificate on file, Recommendation otherwise. The designation reference
// table only informs the warning for roles that should have trained.
func (i *CertificateIssuer) selectType(ctx context.Context, app *entity.Application) string {
	if app.TrainingCertRef != "" {
		return entity.CertTypeEndorsement
	}

	if app.Designation != "" && i.designationRepo != nil {
		designation, err := i.designationRepo.GetByCode(ctx, app.Designation)
		if err != nil {
			i.logger.Warn("Designation lookup failed", "code", app.Designation, "error", err)
		} else if !designation.TrainingExempt {
			i.logger.Warn("Non-exempt designation approved without training certificate",
				"applicationId", app.ID, "designation", app.Designation)
		}
	}

	return entity.CertTypeRecommendation
}

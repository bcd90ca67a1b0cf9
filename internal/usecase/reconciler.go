package usecase

import (
	"context"
	"fmt"

	"tourism-cert-service/internal/domain/entity"
	"tourism-cert-service/internal/domain/repository"
	"tourism-cert-service/pkg/logger"
	"tourism-cert-service/pkg/metrics"
)

// sweepBatchSize caps how many approved applications one sweep examines.
const sweepBatchSize = 200

// Reconciler repairs the partial-failure window in the approval flow. The
// counter, certificate, and application writes are three separate commits, so
// a crash between the last two leaves a certificate minted but never linked
// back to its application. The sweep finds those and completes the link.
type Reconciler struct {
	appRepo  repository.ApplicationRepository
	certRepo repository.CertificateRepository
	metrics  *metrics.Metrics
	logger   logger.Logger
}

// NewReconciler creates a new certificate-link reconciler
func NewReconciler(
	appRepo repository.ApplicationRepository,
	certRepo repository.CertificateRepository,
	metrics *metrics.Metrics,
	logger logger.Logger,
) *Reconciler {
	return &Reconciler{
		appRepo:  appRepo,
		certRepo: certRepo,
		metrics:  metrics,
		logger:   logger,
	}
}

// Sweep scans approved applications and backfills any certificate the
// application document does not reference. Returns the number of repairs.
func (r *Reconciler) Sweep(ctx context.Context) (int, error) {
	apps, err := r.appRepo.FindByStatus(ctx, entity.StatusApproved, sweepBatchSize)
	if err != nil {
		return 0, fmt.Errorf("list approved applications: %w", err)
	}

	repaired := 0
	for _, app := range apps {
		n, err := r.reconcileApplication(ctx, app)
		if err != nil {
			r.metrics.ErrorsCount.WithLabelValues("reconcile").Inc()
			r.logger.Error("Reconciliation failed", "applicationId", app.ID, "error", err)
			continue
		}
		repaired += n
	}

	if repaired > 0 {
		r.logger.Info("Reconciliation sweep repaired certificate links", "count", repaired)
	}
	return repaired, nil
}

func (r *Reconciler) reconcileApplication(ctx context.Context, app *entity.Application) (int, error) {
	certs, err := r.certRepo.FindByApplication(ctx, app.ID)
	if err != nil {
		return 0, err
	}

	repaired := 0
	for _, cert := range certs {
		if app.HasCertificate(cert.ID) {
			continue
		}

		r.logger.Warn("Found unlinked certificate",
			"applicationId", app.ID, "certificateId", cert.ID,
			"error", entity.ErrCertificateLinkMissing)

		// Only promote the summary when the repaired certificate is newer
		// than whatever the application currently shows.
		var summary *entity.CertificateSummary
		if app.LatestCertificate == nil || cert.IssuedAt.After(app.LatestCertificate.IssuedAt) {
			summary = &entity.CertificateSummary{
				ID:        cert.ID,
				Type:      cert.Type,
				IssuedAt:  cert.IssuedAt,
				ExpiresAt: cert.ExpiresAt,
			}
		}
		if err := r.appRepo.LinkCertificate(ctx, app.ID, cert.ID, summary); err != nil {
			return repaired, err
		}
		if summary != nil {
			app.LatestCertificate = summary
		}

		r.metrics.ReconcilerRepairs.Inc()
		repaired++
	}

	return repaired, nil
}

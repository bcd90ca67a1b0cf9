package usecase

import (
	"context"
	"fmt"
	"time"

	"tourism-cert-service/internal/domain/entity"
	"tourism-cert-service/internal/domain/repository"
	"tourism-cert-service/pkg/logger"
	"tourism-cert-service/pkg/metrics"

	"github.com/google/uuid"
)

// TransitionManager validates and applies status changes to applications.
// It is the only writer of status, history, and certificate links after
// registration. Approvals trigger certificate issuance; the issuer's results
// are folded into the same application update.
type TransitionManager struct {
	appRepo  repository.ApplicationRepository
	issuer   *CertificateIssuer
	notifier repository.Notifier
	metrics  *metrics.Metrics
	logger   logger.Logger
	now      func() time.Time
}

// NewTransitionManager creates a new status transition manager
func NewTransitionManager(
	appRepo repository.ApplicationRepository,
	issuer *CertificateIssuer,
	notifier repository.Notifier,
	metrics *metrics.Metrics,
	logger logger.Logger,
) *TransitionManager {
	return &TransitionManager{
		appRepo:  appRepo,
		issuer:   issuer,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

// Transition applies newStatus to the application, appending one audit entry.
// A transition to the application's current status is still recorded; the
// portal treats a re-confirmation as an auditable act.
//
// Validation failures and unknown ids are rejected before any write. An
// approval runs allocate, then certificate write, then application write as
// three commits; issuance is idempotent per approval event so a crashed or
// replayed approval cannot mint twice, and the reconciler repairs a missing
// back-link.
//
// approvalEventID identifies one logical approval across retries. Callers
// that retry (clients resubmitting after a timeout) should send the same key
// with every attempt; when it is empty the manager derives one from the
// application's current history position, which only advances once the
// application write lands, so a retry after a crash lands on the same event.
func (m *TransitionManager) Transition(ctx context.Context, applicationID, newStatus, actorID, remarks, approvalEventID string) (*entity.Application, error) {
	start := m.now()

	if !entity.IsValidStatus(newStatus) {
		return nil, fmt.Errorf("%w: %q", entity.ErrInvalidStatus, newStatus)
	}

	app, err := m.appRepo.FindByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	entry := entity.StatusHistoryEntry{
		Status:    newStatus,
		Timestamp: m.now(),
		Remarks:   remarks,
		ActorID:   actorID,
	}

	var issued *entity.Certificate
	if newStatus == entity.StatusApproved {
		if approvalEventID == "" {
			seed := fmt.Sprintf("%s:%d", app.ID, len(app.StatusHistory))
			approvalEventID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed)).String()
		}

		issued, err = m.issuer.Issue(ctx, app, actorID, approvalEventID)
		if err != nil {
			m.metrics.ErrorsCount.WithLabelValues("issue_certificate").Inc()
			return nil, fmt.Errorf("approve %s: %w", applicationID, err)
		}

		summary := entity.CertificateSummary{
			ID:        issued.ID,
			Type:      issued.Type,
			IssuedAt:  issued.IssuedAt,
			ExpiresAt: issued.ExpiresAt,
		}
		if err := m.appRepo.AppendTransitionWithCertificate(ctx, applicationID, entry, issued.ID, summary); err != nil {
			return nil, err
		}
		app.LatestCertificate = &summary
		app.CertificateIDs = append(app.CertificateIDs, issued.ID)
	} else {
		if err := m.appRepo.AppendTransition(ctx, applicationID, entry); err != nil {
			return nil, err
		}
	}

	app.Status = newStatus
	app.StatusHistory = append(app.StatusHistory, entry)
	app.UpdatedAt = entry.Timestamp

	m.metrics.TransitionsApplied.WithLabelValues(newStatus).Inc()
	m.metrics.TransitionTime.Observe(m.now().Sub(start).Seconds())
	m.logger.Info("Status transition applied",
		"applicationId", applicationID, "status", newStatus, "actorId", actorID)

	if issued != nil && m.notifier != nil {
		// Fire-and-forget: a failed notice never rolls back the approval.
		if err := m.notifier.SendApprovalNotice(ctx, app, issued); err != nil {
			m.metrics.ErrorsCount.WithLabelValues("send_notice").Inc()
			m.logger.Error("Failed to send approval notice",
				"applicationId", applicationID, "error", err)
		}
	}

	return app, nil
}

package usecase

import (
	"context"
	"errors"
	"sync"

	"tourism-cert-service/internal/domain/entity"
	"tourism-cert-service/pkg/logger"
	"tourism-cert-service/pkg/metrics"
)

// Shared across the package's tests; promauto metrics register globally and
// must only be created once per test binary.
var testMetrics = metrics.NewMetrics("usecase_test")

// nopLogger keeps test output quiet.
type nopLogger struct{}

func (nopLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}
func (nopLogger) Fatal(msg string, keysAndValues ...interface{}) {}
func (l nopLogger) With(keysAndValues ...interface{}) logger.Logger {
	return l
}

// ----- test doubles -----

// mockAppRepo implements repository.ApplicationRepository.
type mockAppRepo struct {
	SaveFn                            func(ctx context.Context, app *entity.Application) (string, error)
	FindByIDFn                        func(ctx context.Context, id string) (*entity.Application, error)
	AppendTransitionFn                func(ctx context.Context, id string, entry entity.StatusHistoryEntry) error
	AppendTransitionWithCertificateFn func(ctx context.Context, id string, entry entity.StatusHistoryEntry, certID string, summary entity.CertificateSummary) error
	LinkCertificateFn                 func(ctx context.Context, id string, certID string, summary *entity.CertificateSummary) error
	FindByStatusFn                    func(ctx context.Context, status string, limit int) ([]*entity.Application, error)
}

func (m *mockAppRepo) Save(ctx context.Context, app *entity.Application) (string, error) {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, app)
	}
	return "", errors.New("not implemented")
}

func (m *mockAppRepo) FindByID(ctx context.Context, id string) (*entity.Application, error) {
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppRepo) AppendTransition(ctx context.Context, id string, entry entity.StatusHistoryEntry) error {
	if m.AppendTransitionFn != nil {
		return m.AppendTransitionFn(ctx, id, entry)
	}
	return errors.New("not implemented")
}

func (m *mockAppRepo) AppendTransitionWithCertificate(ctx context.Context, id string, entry entity.StatusHistoryEntry, certID string, summary entity.CertificateSummary) error {
	if m.AppendTransitionWithCertificateFn != nil {
		return m.AppendTransitionWithCertificateFn(ctx, id, entry, certID, summary)
	}
	return errors.New("not implemented")
}

func (m *mockAppRepo) LinkCertificate(ctx context.Context, id string, certID string, summary *entity.CertificateSummary) error {
	if m.LinkCertificateFn != nil {
		return m.LinkCertificateFn(ctx, id, certID, summary)
	}
	return errors.New("not implemented")
}

func (m *mockAppRepo) FindByStatus(ctx context.Context, status string, limit int) ([]*entity.Application, error) {
	if m.FindByStatusFn != nil {
		return m.FindByStatusFn(ctx, status, limit)
	}
	return nil, errors.New("not implemented")
}

// mockCertRepo implements repository.CertificateRepository.
type mockCertRepo struct {
	SaveFn                func(ctx context.Context, cert *entity.Certificate) error
	FindByIDFn            func(ctx context.Context, id string) (*entity.Certificate, error)
	FindByApprovalEventFn func(ctx context.Context, applicationID, approvalEventID string) (*entity.Certificate, error)
	FindByApplicationFn   func(ctx context.Context, applicationID string) ([]*entity.Certificate, error)
}

func (m *mockCertRepo) Save(ctx context.Context, cert *entity.Certificate) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, cert)
	}
	return errors.New("not implemented")
}

func (m *mockCertRepo) FindByID(ctx context.Context, id string) (*entity.Certificate, error) {
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockCertRepo) FindByApprovalEvent(ctx context.Context, applicationID, approvalEventID string) (*entity.Certificate, error) {
	if m.FindByApprovalEventFn != nil {
		return m.FindByApprovalEventFn(ctx, applicationID, approvalEventID)
	}
	return nil, nil
}

func (m *mockCertRepo) FindByApplication(ctx context.Context, applicationID string) ([]*entity.Certificate, error) {
	if m.FindByApplicationFn != nil {
		return m.FindByApplicationFn(ctx, applicationID)
	}
	return nil, errors.New("not implemented")
}

// mockNotifier implements repository.Notifier.
type mockNotifier struct {
	SendApprovalNoticeFn func(ctx context.Context, app *entity.Application, cert *entity.Certificate) error
	calls                int
}

func (m *mockNotifier) SendApprovalNotice(ctx context.Context, app *entity.Application, cert *entity.Certificate) error {
	m.calls++
	if m.SendApprovalNoticeFn != nil {
		return m.SendApprovalNoticeFn(ctx, app, cert)
	}
	return nil
}

// memCounterRepo is an in-memory CounterRepository with the same contract as
// the Mongo one: callers racing on a year still get distinct numbers.
type memCounterRepo struct {
	mu   sync.Mutex
	last map[int]int
	// failWith, when set, makes every Next call fail.
	failWith error
}

func newMemCounterRepo() *memCounterRepo {
	return &memCounterRepo{last: make(map[int]int)}
}

func (m *memCounterRepo) Next(ctx context.Context, year int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return 0, m.failWith
	}
	m.last[year]++
	return m.last[year], nil
}

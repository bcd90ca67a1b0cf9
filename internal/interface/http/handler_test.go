package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tourism-cert-service/internal/domain/entity"
	"tourism-cert-service/internal/usecase"
	"tourism-cert-service/pkg/logger"
	"tourism-cert-service/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMetrics = metrics.NewMetrics("http_test")

type nopLogger struct{}

func (nopLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}
func (nopLogger) Fatal(msg string, keysAndValues ...interface{}) {}
func (l nopLogger) With(keysAndValues ...interface{}) logger.Logger {
	return l
}

// stubTicketRepo serves a fixed set of tickets.
type stubTicketRepo struct {
	tickets map[string]*entity.Ticket
}

func (s *stubTicketRepo) Save(ctx context.Context, ticket *entity.Ticket) (string, error) {
	return "", nil
}

func (s *stubTicketRepo) FindByID(ctx context.Context, id string) (*entity.Ticket, error) {
	t, ok := s.tickets[id]
	if !ok {
		return nil, entity.ErrTicketNotFound
	}
	return t, nil
}

func (s *stubTicketRepo) FindAll(ctx context.Context, limit int) ([]*entity.Ticket, error) {
	var out []*entity.Ticket
	for _, t := range s.tickets {
		out = append(out, t)
	}
	return out, nil
}

func (s *stubTicketRepo) AppendScan(ctx context.Context, id string, event entity.ScanEvent) error {
	t, ok := s.tickets[id]
	if !ok {
		return entity.ErrTicketNotFound
	}
	t.ScanLog = append(t.ScanLog, event)
	t.RawStatus = event.EventStatus
	return nil
}

// stubAppRepo only knows one application.
type stubAppRepo struct {
	app *entity.Application
}

func (s *stubAppRepo) Save(ctx context.Context, app *entity.Application) (string, error) {
	return "", nil
}

func (s *stubAppRepo) FindByID(ctx context.Context, id string) (*entity.Application, error) {
	if s.app == nil || s.app.ID != id {
		return nil, entity.ErrApplicationNotFound
	}
	return s.app, nil
}

func (s *stubAppRepo) AppendTransition(ctx context.Context, id string, entry entity.StatusHistoryEntry) error {
	return nil
}

func (s *stubAppRepo) AppendTransitionWithCertificate(ctx context.Context, id string, entry entity.StatusHistoryEntry, certID string, summary entity.CertificateSummary) error {
	return nil
}

func (s *stubAppRepo) LinkCertificate(ctx context.Context, id string, certID string, summary *entity.CertificateSummary) error {
	return nil
}

func (s *stubAppRepo) FindByStatus(ctx context.Context, status string, limit int) ([]*entity.Application, error) {
	return nil, nil
}

type stubCertRepo struct{}

func (stubCertRepo) Save(ctx context.Context, cert *entity.Certificate) error { return nil }
func (stubCertRepo) FindByID(ctx context.Context, id string) (*entity.Certificate, error) {
	return nil, nil
}
func (stubCertRepo) FindByApprovalEvent(ctx context.Context, applicationID, approvalEventID string) (*entity.Certificate, error) {
	return nil, nil
}
func (stubCertRepo) FindByApplication(ctx context.Context, applicationID string) ([]*entity.Certificate, error) {
	return nil, nil
}

type stubCounterRepo struct{ n int }

func (s *stubCounterRepo) Next(ctx context.Context, year int) (int, error) {
	s.n++
	return s.n, nil
}

func newTestServer(appRepo *stubAppRepo, ticketRepo *stubTicketRepo) *echo.Echo {
	log := nopLogger{}
	allocator := usecase.NewSequentialAllocator(&stubCounterRepo{}, log)
	issuer := usecase.NewCertificateIssuer(stubCertRepo{}, nil, allocator, testMetrics, log)
	transitions := usecase.NewTransitionManager(appRepo, issuer, nil, testMetrics, log)
	ticketQuery := usecase.NewTicketQuery(ticketRepo, log)

	e := echo.New()
	RegisterRoutes(e,
		NewApplicationHandler(transitions, appRepo, log),
		NewTicketHandler(ticketQuery, log),
	)
	return e
}

func TestTicketStatusEndpoint(t *testing.T) {
	repo := &stubTicketRepo{tickets: map[string]*entity.Ticket{
		"t-1": {ID: "t-1", RawStatus: entity.RawCanceled},
	}}
	e := newTestServer(&stubAppRepo{}, repo)

	req := httptest.NewRequest(http.MethodGet, "/api/tickets/t-1/status", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), entity.LabelCanceled)
}

func TestTicketStatusEndpoint_NotFound(t *testing.T) {
	e := newTestServer(&stubAppRepo{}, &stubTicketRepo{tickets: map[string]*entity.Ticket{}})

	req := httptest.NewRequest(http.MethodGet, "/api/tickets/ghost/status", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTransitionEndpoint_InvalidStatus(t *testing.T) {
	appRepo := &stubAppRepo{app: &entity.Application{ID: "app-1", Status: entity.StatusPending}}
	e := newTestServer(appRepo, &stubTicketRepo{})

	body := strings.NewReader(`{"status":"archived","actorId":"v-1"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/applications/app-1/transition", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTransitionEndpoint_UnknownApplication(t *testing.T) {
	e := newTestServer(&stubAppRepo{}, &stubTicketRepo{})

	body := strings.NewReader(`{"status":"under review","actorId":"v-1"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/applications/ghost/transition", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScanEndpoint_AppendsEvent(t *testing.T) {
	repo := &stubTicketRepo{tickets: map[string]*entity.Ticket{
		"t-1": {ID: "t-1", RawStatus: entity.RawCreated},
	}}
	e := newTestServer(&stubAppRepo{}, repo)

	body := strings.NewReader(`{"eventStatus":"scanned"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/tickets/t-1/scan", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, entity.RawScanned, repo.tickets["t-1"].RawStatus)
	assert.Len(t, repo.tickets["t-1"].ScanLog, 1)
}

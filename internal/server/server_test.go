package server_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shaharia-lab/notificator/internal/api"
	"github.com/shaharia-lab/notificator/internal/server"
	"github.com/shaharia-lab/notificator/internal/service"
	svcmocks "github.com/shaharia-lab/notificator/internal/service/mocks"
)

func newServer(t *testing.T, origins []string) (*server.Server, *svcmocks.MockDispatchService) {
	t.Helper()
	svc := new(svcmocks.MockDispatchService)
	logger := slog.New(slog.DiscardHandler)
	return server.New(api.New(svc, logger), server.Config{Port: 0, CORSOrigins: origins}, logger), svc
}

func TestHealth(t *testing.T) {
	srv, _ := newServer(t, nil)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newServer(t, nil)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "notificator_pending_notifications")
}

func TestAPIIsMountedUnderPrefix(t *testing.T) {
	srv, svc := newServer(t, nil)
	svc.On("DispatchPending", mock.Anything, service.TriggerAPI).Return(&service.RunSummary{RunID: "r1"}, nil).Once()

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/dispatch", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("Content-Type"))
	svc.AssertExpectations(t)
}

func TestCORS(t *testing.T) {
	srv, _ := newServer(t, []string{"https://admin.example.com"})

	req := httptest.NewRequest(http.MethodOptions, "/api/dispatch", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, "https://admin.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRun_StopsOnCancel(t *testing.T) {
	srv, _ := newServer(t, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

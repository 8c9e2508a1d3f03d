package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailpulse/internal/config"
	"retailpulse/internal/infrastructure"
)

func newTestApp(t *testing.T) *Application {
	t.Helper()
	infrastructure.ResetLoggerForTesting()

	cfg := config.Default()
	cfg.Logging.Output = "stderr"
	cfg.RateLimit.Enabled = false

	application, err := New(cfg)
	require.NoError(t, err)
	return application
}

func TestNewWiresAllRoutes(t *testing.T) {
	application := newTestApp(t)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"upload page", http.MethodGet, "/", http.StatusOK},
		{"health", http.MethodGet, "/api/health", http.StatusOK},
		{"preview without body", http.MethodPost, "/api/report/preview", http.StatusBadRequest},
		{"download without body", http.MethodPost, "/api/report/download", http.StatusBadRequest},
		{"unknown route", http.MethodGet, "/api/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			application.Handler().ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	infrastructure.ResetLoggerForTesting()

	cfg := config.Default()
	cfg.Logging.Output = "file"
	cfg.Logging.FilePath = "/dev/null/not-a-dir/app.log"

	_, err := New(cfg)
	assert.Error(t, err)
}

func TestListenAddrFollowsConfig(t *testing.T) {
	application := newTestApp(t)
	assert.Equal(t, "127.0.0.1:8510", application.server.Addr)
}

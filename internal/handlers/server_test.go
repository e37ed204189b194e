package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/0X4227/Arina/internal/backend"
	"github.com/0X4227/Arina/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func metricsStub() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("# metrics"))
	})
}

func TestNewServer(t *testing.T) {
	config := testutil.TestConfig()
	mockStatus := testutil.MockStatusReporter()
	mockLogger := testutil.MockLogger()
	mockLoggerWith := testutil.MockLogger()

	mockLogger.On("With", []any{"component", "server"}).Return(mockLoggerWith)

	server := NewServer(config, mockStatus, metricsStub(), mockLogger)

	assert.NotNil(t, server)
	assert.Equal(t, config, server.config)
	assert.Equal(t, mockStatus, server.status)
	assert.Equal(t, mockLoggerWith, server.logger)
	assert.Nil(t, server.httpServer)

	mockLogger.AssertExpectations(t)
}

func TestServer_Routes(t *testing.T) {
	mockStatus := testutil.MockStatusReporter()
	mockStatus.On("Status").Return([]backend.AppStatus{{Name: backend.DefaultAppName, Handles: []string{"database"}}})

	server := NewServer(testutil.TestConfig(), mockStatus, metricsStub(), testutil.NopLogger())
	routes := server.Routes()

	t.Run("Health", func(t *testing.T) {
		w := httptest.NewRecorder()
		routes.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	})

	t.Run("Metrics", func(t *testing.T) {
		w := httptest.NewRecorder()
		routes.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "# metrics", w.Body.String())
	})

	t.Run("Unknown path", func(t *testing.T) {
		w := httptest.NewRecorder()
		routes.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestServer_Routes_MetricsDisabled(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		handler http.Handler
	}{
		{name: "Disabled in config", enabled: false, handler: metricsStub()},
		{name: "No handler", enabled: true, handler: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := testutil.TestConfig()
			config.Metrics.Enabled = tt.enabled

			server := NewServer(config, testutil.MockStatusReporter(), tt.handler, testutil.NopLogger())

			w := httptest.NewRecorder()
			server.Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

			assert.Equal(t, http.StatusNotFound, w.Code)
		})
	}
}

func TestServer_withLogging(t *testing.T) {
	mockLogger := testutil.MockLogger()
	mockLoggerWith := testutil.MockLogger()
	mockLogger.On("With", []any{"component", "server"}).Return(mockLoggerWith)
	mockLoggerWith.On("Debug", "HTTP request",
		"method", http.MethodGet,
		"path", "/teapot",
		"status", http.StatusTeapot,
		"duration", mock.Anything,
		"remote_addr", mock.Anything).Once()

	server := NewServer(testutil.TestConfig(), testutil.MockStatusReporter(), nil, mockLogger)

	handler := server.withLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/teapot", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
	mockLoggerWith.AssertExpectations(t)
}

func TestServer_StopWithoutStart(t *testing.T) {
	mockLogger := testutil.MockLogger()
	mockLoggerWith := testutil.MockLogger()
	mockLogger.On("With", []any{"component", "server"}).Return(mockLoggerWith)
	mockLoggerWith.On("Info", "stopping HTTP server").Once()

	server := NewServer(testutil.TestConfig(), testutil.MockStatusReporter(), nil, mockLogger)

	assert.NoError(t, server.Stop(context.Background()))
	mockLoggerWith.AssertExpectations(t)
}

func TestServer_Routes_MetricsDisabledByConfigFile(t *testing.T) {
	config := testutil.TestConfig()
	config.Metrics = backend.MetricsConfig{Enabled: false, Path: "/metrics"}

	server := NewServer(config, testutil.MockStatusReporter(), metricsStub(), testutil.NopLogger())

	w := httptest.NewRecorder()
	server.Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

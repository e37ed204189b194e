// Package testutil provides common utilities and helpers for testing
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/0X4227/Arina/internal/backend"

	"cloud.google.com/go/firestore"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// TestClientConfig creates a fully populated configuration record
func TestClientConfig() backend.ClientConfig {
	return backend.ClientConfig{
		APIKey:            "AIzaSyTest-Key-1234",
		AuthDomain:        "demo-arina.firebaseapp.com",
		ProjectID:         "demo-arina",
		StorageBucket:     "demo-arina.appspot.com",
		MessagingSenderID: "123456789012",
		AppID:             "1:123456789012:web:abcdef123456",
		MeasurementID:     "G-TEST1234",
		WithoutAuth:       true,
	}
}

// TestConfig creates a Config with defaults filled in
func TestConfig() *backend.Config {
	return &backend.Config{
		AppName: backend.DefaultAppName,
		Server: backend.ServerConfig{
			Port:            "8080",
			Host:            "127.0.0.1",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Logging: backend.LoggingConfig{Level: "info", Format: "json"},
		Metrics: backend.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

// MockApp is a mock implementation of backend.App
type MockApp struct {
	mock.Mock
}

func (m *MockApp) Firestore(ctx context.Context) (*firestore.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*firestore.Client), args.Error(1)
}

func (m *MockApp) Storage(ctx context.Context) (*storage.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Client), args.Error(1)
}

func (m *MockApp) Auth(ctx context.Context) (*auth.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Client), args.Error(1)
}

// MockAppFactory is a mock implementation of backend.AppFactory
type MockAppFactory struct {
	mock.Mock
}

func (m *MockAppFactory) NewApp(ctx context.Context, config backend.ClientConfig) (backend.App, error) {
	args := m.Called(ctx, config)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(backend.App), args.Error(1)
}

// MockMetricsImpl is a mock implementation of backend.Metrics
type MockMetricsImpl struct {
	mock.Mock
}

// MockMetrics creates a mock metrics for testing
func MockMetrics() *MockMetricsImpl {
	return &MockMetricsImpl{}
}

// AllowAll accepts any metrics call, for tests that are not about metrics
func (m *MockMetricsImpl) AllowAll() *MockMetricsImpl {
	m.On("IncBootstrapAttempts", mock.Anything).Maybe()
	m.On("IncAppConstructions").Maybe()
	m.On("ObserveBootstrapDuration", mock.Anything).Maybe()
	m.On("IncHandleRequests", mock.Anything, mock.Anything).Maybe()
	m.On("SetRegisteredApps", mock.Anything).Maybe()
	return m
}

func (m *MockMetricsImpl) IncBootstrapAttempts(result string) {
	m.Called(result)
}

func (m *MockMetricsImpl) IncAppConstructions() {
	m.Called()
}

func (m *MockMetricsImpl) ObserveBootstrapDuration(duration time.Duration) {
	m.Called(duration)
}

func (m *MockMetricsImpl) IncHandleRequests(service string, result string) {
	m.Called(service, result)
}

func (m *MockMetricsImpl) SetRegisteredApps(count int) {
	m.Called(count)
}

// MockLoggerImpl is a mock implementation of backend.Logger
type MockLoggerImpl struct {
	mock.Mock
}

// MockLogger creates a mock logger for testing
func MockLogger() *MockLoggerImpl {
	return &MockLoggerImpl{}
}

func (m *MockLoggerImpl) Info(msg string, keysAndValues ...any) {
	args := []any{msg}
	args = append(args, keysAndValues...)
	m.Called(args...)
}

func (m *MockLoggerImpl) Debug(msg string, keysAndValues ...any) {
	args := []any{msg}
	args = append(args, keysAndValues...)
	m.Called(args...)
}

func (m *MockLoggerImpl) Error(msg string, keysAndValues ...any) {
	args := []any{msg}
	args = append(args, keysAndValues...)
	m.Called(args...)
}

func (m *MockLoggerImpl) Warn(msg string, keysAndValues ...any) {
	args := []any{msg}
	args = append(args, keysAndValues...)
	m.Called(args...)
}

func (m *MockLoggerImpl) With(keysAndValues ...any) backend.Logger {
	args := m.Called(keysAndValues)
	return args.Get(0).(backend.Logger)
}

// NopLogger returns a logger that drops everything
func NopLogger() backend.Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

func (l nopLogger) With(...any) backend.Logger { return l }

// MockConfigLoaderImpl is a mock implementation of backend.ConfigLoader
type MockConfigLoaderImpl struct {
	mock.Mock
}

// MockConfigLoader creates a mock config loader for testing
func MockConfigLoader() *MockConfigLoaderImpl {
	return &MockConfigLoaderImpl{}
}

func (m *MockConfigLoaderImpl) Get(key string) (string, bool) {
	args := m.Called(key)
	return args.String(0), args.Bool(1)
}

func (m *MockConfigLoaderImpl) GetWithDefault(key, defaultValue string) string {
	args := m.Called(key, defaultValue)
	return args.String(0)
}

func (m *MockConfigLoaderImpl) GetBoolWithDefault(key string, defaultValue bool) bool {
	args := m.Called(key, defaultValue)
	return args.Bool(0)
}

// MockStatusReporterImpl is a mock implementation of handlers.StatusReporter
type MockStatusReporterImpl struct {
	mock.Mock
}

// MockStatusReporter creates a mock status reporter for testing
func MockStatusReporter() *MockStatusReporterImpl {
	return &MockStatusReporterImpl{}
}

func (m *MockStatusReporterImpl) Status() []backend.AppStatus {
	args := m.Called()
	return args.Get(0).([]backend.AppStatus)
}

// MustNotPanic ensures that a function doesn't panic
func MustNotPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("Function panicked: %v", r)
		}
	}()
	fn()
}

// AssertSameHandle checks that two handle pointers refer to the same value
func AssertSameHandle(t *testing.T, expected, actual any, msgAndArgs ...any) {
	t.Helper()
	assert.NotNil(t, actual, msgAndArgs...)
	assert.Same(t, expected, actual, msgAndArgs...)
}

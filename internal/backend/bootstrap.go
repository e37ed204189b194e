package backend

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	gcs "cloud.google.com/go/storage"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/storage"
)

// Bootstrapper makes sure a single client instance exists in its registry and hands out
// service handles bound to it
type Bootstrapper struct {
	name     string
	config   ClientConfig
	registry *Registry
	factory  AppFactory
	logger   Logger
	metrics  Metrics
}

// NewBootstrapper creates a bootstrapper that registers its instance under name. An empty
// name selects DefaultAppName and a nil registry selects DefaultRegistry().
func NewBootstrapper(name string, config ClientConfig, registry *Registry, factory AppFactory, logger Logger, metrics Metrics) *Bootstrapper {
	if name == "" {
		name = DefaultAppName
	}
	if registry == nil {
		registry = DefaultRegistry()
	}

	return &Bootstrapper{
		name:     name,
		config:   config,
		registry: registry,
		factory:  factory,
		logger:   logger.With("app", name),
		metrics:  metrics,
	}
}

// Name returns the app name the bootstrapper registers under
func (b *Bootstrapper) Name() string {
	return b.name
}

// Config returns a copy of the configuration record
func (b *Bootstrapper) Config() ClientConfig {
	return b.config
}

// EnsureInitialized constructs the client instance if the registry holds none, and returns
// the registered instance otherwise, whatever name it was registered under. Factory errors
// are returned as they are and leave the registry untouched.
func (b *Bootstrapper) EnsureInitialized(ctx context.Context) (App, error) {
	start := time.Now()
	defer func() {
		b.metrics.ObserveBootstrapDuration(time.Since(start))
	}()

	app, created, err := b.registry.GetOrCreate(ctx, b.name, b.construct)
	if err != nil {
		b.metrics.IncBootstrapAttempts("failure")
		b.logger.Error("backend client construction failed", "error", err)
		return nil, err
	}

	b.metrics.SetRegisteredApps(b.registry.Len())

	if created {
		b.metrics.IncBootstrapAttempts("created")
		b.logger.Info("backend client initialized",
			"project_id", b.config.ProjectID,
			"storage_bucket", b.config.StorageBucket)
		return app, nil
	}

	b.metrics.IncBootstrapAttempts("reused")
	if registered := b.registry.Name(); registered != b.name {
		b.logger.Warn("backend client already initialized under another name", "registered_as", registered)
	} else {
		b.logger.Debug("backend client already initialized")
	}

	return app, nil
}

// Close releases the registry's handles and empties it
func (b *Bootstrapper) Close() error {
	err := b.registry.Close()
	b.metrics.SetRegisteredApps(b.registry.Len())
	return err
}

func (b *Bootstrapper) construct(ctx context.Context) (App, error) {
	if missing := b.config.Missing(); len(missing) > 0 {
		b.logger.Warn("client configuration has empty fields", "fields", missing)
	}

	b.metrics.IncAppConstructions()
	b.logger.Debug("constructing backend client", "api_key", b.config.MaskedAPIKey())

	return b.factory.NewApp(ctx, b.config)
}

// Handles returns the accessors for the service handles of the registered instance
func (b *Bootstrapper) Handles() *Handles {
	return &Handles{
		registry: b.registry,
		metrics:  b.metrics,
	}
}

// Handles gives access to the service handles of the registered instance. It does not
// initialize anything: before EnsureInitialized has run, the registry's error comes back.
type Handles struct {
	registry *Registry
	metrics  Metrics
}

// App returns the underlying client instance
func (h *Handles) App() (App, error) {
	return h.registry.App()
}

// Database returns the document database handle
func (h *Handles) Database(ctx context.Context) (*firestore.Client, error) {
	client, err := h.registry.Firestore(ctx)
	h.observe("database", err)
	return client, err
}

// Storage returns the object storage handle
func (h *Handles) Storage(ctx context.Context) (*storage.Client, error) {
	client, err := h.registry.Storage(ctx)
	h.observe("storage", err)
	return client, err
}

// Auth returns the authentication handle
func (h *Handles) Auth(ctx context.Context) (*auth.Client, error) {
	client, err := h.registry.Auth(ctx)
	h.observe("auth", err)
	return client, err
}

// DefaultBucket returns the bucket named by the configuration record's storage bucket
func (h *Handles) DefaultBucket(ctx context.Context) (*gcs.BucketHandle, error) {
	client, err := h.Storage(ctx)
	if err != nil {
		return nil, err
	}
	return client.DefaultBucket()
}

func (h *Handles) observe(service string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	h.metrics.IncHandleRequests(service, result)
}

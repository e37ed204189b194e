package backend

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/0X4227/Arina/pkg/concurrency"

	"cloud.google.com/go/firestore"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/storage"
)

// Lock keys. Construction and each handle kind are serialized independently.
const (
	constructKey = "construct"
	databaseKey  = "database"
	storageKey   = "storage"
	authKey      = "auth"
)

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Registry holds the process's client instance, at most one at a time, together with the
// service handles derived from it. The instance keeps the name it was first registered under.
type Registry struct {
	mu    sync.RWMutex
	name  string
	inst  *instance
	locks *concurrency.KeyedMutex
}

type instance struct {
	app App

	firestore atomic.Pointer[firestore.Client]
	storage   atomic.Pointer[storage.Client]
	auth      atomic.Pointer[auth.Client]
}

// AppStatus describes the registered instance
type AppStatus struct {
	Name    string   `json:"name"`
	Handles []string `json:"handles"`
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		locks: concurrency.NewKeyedMutex(),
	}
}

// Len returns the number of registered instances, 0 or 1
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.inst == nil {
		return 0
	}
	return 1
}

// Name returns the name the instance was registered under, or "" when there is none
func (r *Registry) Name() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.name
}

// App returns the registered instance
func (r *Registry) App() (App, error) {
	inst, err := r.lookup()
	if err != nil {
		return nil, err
	}
	return inst.app, nil
}

// GetOrCreate returns the registered instance, calling construct to build and register one
// under name if the registry is empty. An existing instance is returned whatever name it
// carries. created reports whether this call built it.
func (r *Registry) GetOrCreate(ctx context.Context, name string, construct func(ctx context.Context) (App, error)) (app App, created bool, err error) {
	r.locks.Lock(constructKey)
	defer r.locks.Unlock(constructKey)

	if inst, err := r.lookup(); err == nil {
		return inst.app, false, nil
	}

	app, err = construct(ctx)
	if err != nil {
		return nil, false, err
	}

	r.mu.Lock()
	r.name = name
	r.inst = &instance{app: app}
	r.mu.Unlock()

	return app, true, nil
}

// Firestore returns the database handle, deriving it on first use
func (r *Registry) Firestore(ctx context.Context) (*firestore.Client, error) {
	inst, err := r.lookup()
	if err != nil {
		return nil, err
	}
	return memoize(r.locks, databaseKey, &inst.firestore, func() (*firestore.Client, error) {
		return inst.app.Firestore(ctx)
	})
}

// Storage returns the object storage handle, deriving it on first use
func (r *Registry) Storage(ctx context.Context) (*storage.Client, error) {
	inst, err := r.lookup()
	if err != nil {
		return nil, err
	}
	return memoize(r.locks, storageKey, &inst.storage, func() (*storage.Client, error) {
		return inst.app.Storage(ctx)
	})
}

// Auth returns the auth handle, deriving it on first use
func (r *Registry) Auth(ctx context.Context) (*auth.Client, error) {
	inst, err := r.lookup()
	if err != nil {
		return nil, err
	}
	return memoize(r.locks, authKey, &inst.auth, func() (*auth.Client, error) {
		return inst.app.Auth(ctx)
	})
}

// Status reports the registered instance and which handles have been derived from it
func (r *Registry) Status() []AppStatus {
	statuses := make([]AppStatus, 0, 1)

	r.mu.RLock()
	name, inst := r.name, r.inst
	r.mu.RUnlock()

	if inst == nil {
		return statuses
	}

	status := AppStatus{Name: name, Handles: make([]string, 0, 3)}
	if inst.firestore.Load() != nil {
		status.Handles = append(status.Handles, databaseKey)
	}
	if inst.storage.Load() != nil {
		status.Handles = append(status.Handles, storageKey)
	}
	if inst.auth.Load() != nil {
		status.Handles = append(status.Handles, authKey)
	}

	return append(statuses, status)
}

// Close releases the handles that hold connections and empties the registry
func (r *Registry) Close() error {
	r.locks.Lock(constructKey)
	defer r.locks.Unlock(constructKey)

	r.mu.Lock()
	name, inst := r.name, r.inst
	r.name, r.inst = "", nil
	r.mu.Unlock()

	if inst == nil {
		return nil
	}

	if db := inst.firestore.Swap(nil); db != nil {
		if err := db.Close(); err != nil {
			return fmt.Errorf("failed to close firestore client of %s: %w", name, err)
		}
	}

	return nil
}

func (r *Registry) lookup() (*instance, error) {
	r.mu.RLock()
	inst := r.inst
	r.mu.RUnlock()

	if inst == nil {
		return nil, ErrAppNotFound
	}
	return inst, nil
}

// memoize stores the first successful result of build in slot
func memoize[T any](locks *concurrency.KeyedMutex, key string, slot *atomic.Pointer[T], build func() (*T, error)) (*T, error) {
	if v := slot.Load(); v != nil {
		return v, nil
	}

	locks.Lock(key)
	defer locks.Unlock(key)

	if v := slot.Load(); v != nil {
		return v, nil
	}

	v, err := build()
	if err != nil {
		return nil, err
	}
	slot.Store(v)
	return v, nil
}

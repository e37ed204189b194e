package backend

import (
	"context"

	"cloud.google.com/go/firestore"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/storage"
)

// DefaultAppName is the name an instance is registered under when none is given
const DefaultAppName = "[DEFAULT]"

// App is a constructed backend client instance. *firebase.App satisfies it.
type App interface {
	Firestore(ctx context.Context) (*firestore.Client, error)
	Storage(ctx context.Context) (*storage.Client, error)
	Auth(ctx context.Context) (*auth.Client, error)
}

// AppFactory constructs a client instance from a configuration record
type AppFactory interface {
	NewApp(ctx context.Context, config ClientConfig) (App, error)
}

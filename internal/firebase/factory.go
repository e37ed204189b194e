package firebase

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/0X4227/Arina/internal/backend"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

var _ backend.App = (*firebase.App)(nil)

// Factory builds client instances with the Firebase Admin SDK
type Factory struct {
	logger backend.Logger
}

// NewFactory creates a Firebase app factory
func NewFactory(logger backend.Logger) *Factory {
	return &Factory{
		logger: logger.With("component", "firebase"),
	}
}

// NewApp creates a Firebase app from the configuration record. SDK errors are returned unchanged.
func (f *Factory) NewApp(ctx context.Context, config backend.ClientConfig) (backend.App, error) {
	opts, err := ClientOptions(config)
	if err != nil {
		return nil, err
	}

	app, err := firebase.NewApp(ctx, SDKConfig(config), opts...)
	if err != nil {
		return nil, err
	}

	f.logger.Info("firebase app created",
		"project_id", config.ProjectID,
		"credentials_source", CredentialsSource(config))
	return app, nil
}

// SDKConfig maps the configuration record onto the fields the Admin SDK understands
func SDKConfig(config backend.ClientConfig) *firebase.Config {
	return &firebase.Config{
		ProjectID:        config.ProjectID,
		StorageBucket:    config.StorageBucket,
		DatabaseURL:      config.DatabaseURL,
		ServiceAccountID: config.ServiceAccountID,
	}
}

// ClientOptions builds the credential options for the SDK. Base64 credentials win over raw
// JSON, which wins over a file path. With none set the SDK falls back to Application
// Default Credentials (GOOGLE_APPLICATION_CREDENTIALS).
func ClientOptions(config backend.ClientConfig) ([]option.ClientOption, error) {
	var opts []option.ClientOption

	switch {
	case config.CredentialsBase64 != "":
		credentialsJSON, err := base64.StdEncoding.DecodeString(config.CredentialsBase64)
		if err != nil {
			return nil, fmt.Errorf("failed to decode Firebase credentials: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(credentialsJSON))
	case config.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(config.CredentialsJSON)))
	case config.CredentialsPath != "":
		opts = append(opts, option.WithCredentialsFile(config.CredentialsPath))
	}

	if config.WithoutAuth {
		opts = append(opts, option.WithoutAuthentication())
	}

	return opts, nil
}

// CredentialsSource names where the credentials of config come from
func CredentialsSource(config backend.ClientConfig) string {
	switch {
	case config.CredentialsBase64 != "":
		return "base64"
	case config.CredentialsJSON != "":
		return "json"
	case config.CredentialsPath != "":
		return "file"
	case config.WithoutAuth:
		return "none"
	default:
		return "default"
	}
}

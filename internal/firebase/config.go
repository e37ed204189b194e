package firebase

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/0X4227/Arina/internal/backend"
)

// LoadClientConfig reads the client configuration record from the "firebase." keys of loader
func LoadClientConfig(loader backend.ConfigLoader) backend.ClientConfig {
	config := backend.ClientConfig{
		APIKey:            loader.GetWithDefault("firebase.api_key", ""),
		AuthDomain:        loader.GetWithDefault("firebase.auth_domain", ""),
		ProjectID:         loader.GetWithDefault("firebase.project_id", ""),
		StorageBucket:     loader.GetWithDefault("firebase.storage_bucket", ""),
		MessagingSenderID: loader.GetWithDefault("firebase.messaging_sender_id", ""),
		AppID:             loader.GetWithDefault("firebase.app_id", ""),
		MeasurementID:     loader.GetWithDefault("firebase.measurement_id", ""),
		DatabaseURL:       loader.GetWithDefault("firebase.database_url", ""),
		ServiceAccountID:  loader.GetWithDefault("firebase.service_account_id", ""),
		CredentialsPath:   loader.GetWithDefault("firebase.credentials_path", ""),
		CredentialsBase64: loader.GetWithDefault("firebase.credentials_base64", ""),
		CredentialsJSON:   loader.GetWithDefault("firebase.credentials_json", ""),
		WithoutAuth:       loader.GetBoolWithDefault("firebase.without_auth", false),
	}

	// Service account keys carry the project they belong to
	if config.ProjectID == "" && config.CredentialsBase64 != "" {
		if projectID, err := extractProjectIDFromCredentials(config.CredentialsBase64); err == nil {
			config.ProjectID = projectID
		}
	}

	return config
}

// extractProjectIDFromCredentials extracts project_id from base64 encoded credentials JSON
func extractProjectIDFromCredentials(credentialsBase64 string) (string, error) {
	credentialsJSON, err := base64.StdEncoding.DecodeString(credentialsBase64)
	if err != nil {
		return "", fmt.Errorf("failed to decode credentials: %w", err)
	}

	var credentials struct {
		ProjectID string `json:"project_id"`
	}

	if err := json.Unmarshal(credentialsJSON, &credentials); err != nil {
		return "", fmt.Errorf("failed to parse credentials JSON: %w", err)
	}

	if credentials.ProjectID == "" {
		return "", ErrProjectIDNotInCredentials
	}

	return credentials.ProjectID, nil
}

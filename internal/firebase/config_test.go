package firebase

import (
	"encoding/base64"
	"testing"

	"github.com/0X4227/Arina/internal/backend"
	"github.com/0X4227/Arina/internal/config"
	"github.com/0X4227/Arina/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLoadClientConfig_FromYAMLTree(t *testing.T) {
	yamlData := map[string]any{
		"firebase": map[string]any{
			"api_key":             "AIzaSyTest",
			"auth_domain":         "demo-arina.firebaseapp.com",
			"project_id":          "demo-arina",
			"storage_bucket":      "demo-arina.appspot.com",
			"messaging_sender_id": "123456789012",
			"app_id":              "1:123456789012:web:abcdef",
			"measurement_id":      "G-TEST",
			"without_auth":        true,
		},
	}

	cfg := LoadClientConfig(config.NewEnvConfigLoader("ARINA_TEST", yamlData))

	assert.Equal(t, backend.ClientConfig{
		APIKey:            "AIzaSyTest",
		AuthDomain:        "demo-arina.firebaseapp.com",
		ProjectID:         "demo-arina",
		StorageBucket:     "demo-arina.appspot.com",
		MessagingSenderID: "123456789012",
		AppID:             "1:123456789012:web:abcdef",
		MeasurementID:     "G-TEST",
		WithoutAuth:       true,
	}, cfg)
	assert.Empty(t, cfg.Missing())
}

func TestLoadClientConfig_EnvironmentWins(t *testing.T) {
	t.Setenv("ARINA_TEST_FIREBASE_PROJECT_ID", "from-env")
	t.Setenv("ARINA_TEST_FIREBASE_CREDENTIALS_PATH", "/var/secrets/sa.json")

	yamlData := map[string]any{
		"firebase": map[string]any{"project_id": "from-yaml"},
	}

	cfg := LoadClientConfig(config.NewEnvConfigLoader("ARINA_TEST", yamlData))

	assert.Equal(t, "from-env", cfg.ProjectID)
	assert.Equal(t, "/var/secrets/sa.json", cfg.CredentialsPath)
}

func TestLoadClientConfig_Empty(t *testing.T) {
	cfg := LoadClientConfig(config.NewEnvConfigLoader("ARINA_EMPTY", nil))

	assert.Equal(t, backend.ClientConfig{}, cfg)
}

func TestLoadClientConfig_ProjectIDFromCredentials(t *testing.T) {
	credentials := base64.StdEncoding.EncodeToString([]byte(`{"type":"service_account","project_id":"sa-project"}`))
	t.Setenv("ARINA_SA_FIREBASE_CREDENTIALS_BASE64", credentials)

	cfg := LoadClientConfig(config.NewEnvConfigLoader("ARINA_SA", nil))

	assert.Equal(t, "sa-project", cfg.ProjectID)
	assert.Equal(t, credentials, cfg.CredentialsBase64)
}

func TestExtractProjectIDFromCredentials(t *testing.T) {
	encode := func(s string) string {
		return base64.StdEncoding.EncodeToString([]byte(s))
	}

	tests := []struct {
		name        string
		input       string
		expected    string
		errContains string
	}{
		{
			name:     "valid service account",
			input:    encode(`{"project_id":"demo-arina","client_email":"sa@demo-arina.iam.gserviceaccount.com"}`),
			expected: "demo-arina",
		},
		{
			name:        "not base64",
			input:       "%%%",
			errContains: "failed to decode credentials",
		},
		{
			name:        "not JSON",
			input:       encode("plain text"),
			errContains: "failed to parse credentials JSON",
		},
		{
			name:        "no project id",
			input:       encode(`{"type":"service_account"}`),
			errContains: ErrProjectIDNotInCredentials.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			projectID, err := extractProjectIDFromCredentials(tt.input)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, projectID)
		})
	}
}

func TestLoadClientConfig_ReadsEveryKey(t *testing.T) {
	loader := testutil.MockConfigLoader()
	loader.On("GetWithDefault", "firebase.project_id", "").Return("demo-arina")
	loader.On("GetWithDefault", "firebase.measurement_id", "").Return("G-TEST1234")
	loader.On("GetWithDefault", mock.Anything, "").Return("")
	loader.On("GetBoolWithDefault", "firebase.without_auth", false).Return(true)

	cfg := LoadClientConfig(loader)

	assert.Equal(t, "demo-arina", cfg.ProjectID)
	assert.Equal(t, "G-TEST1234", cfg.MeasurementID)
	assert.True(t, cfg.WithoutAuth)
	assert.Empty(t, cfg.APIKey)
	loader.AssertNumberOfCalls(t, "GetWithDefault", 12)
	loader.AssertExpectations(t)
}

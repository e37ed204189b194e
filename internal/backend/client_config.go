package backend

// ClientConfig is the configuration record a backend client instance is built from.
// The first seven fields mirror the web SDK record; the rest are only meaningful to
// the server SDK.
type ClientConfig struct {
	APIKey            string `yaml:"api_key"`
	AuthDomain        string `yaml:"auth_domain"`
	ProjectID         string `yaml:"project_id"`
	StorageBucket     string `yaml:"storage_bucket"`
	MessagingSenderID string `yaml:"messaging_sender_id"`
	AppID             string `yaml:"app_id"`
	MeasurementID     string `yaml:"measurement_id"`

	DatabaseURL       string `yaml:"database_url"`
	ServiceAccountID  string `yaml:"service_account_id"`
	CredentialsPath   string `yaml:"credentials_path"`
	CredentialsBase64 string `yaml:"credentials_base64"`
	CredentialsJSON   string `yaml:"credentials_json"`
	WithoutAuth       bool   `yaml:"without_auth"`
}

// Missing returns the names of the record fields that are empty.
// Nothing refuses to construct a client because of them.
func (c ClientConfig) Missing() []string {
	fields := []struct {
		name  string
		value string
	}{
		{"api_key", c.APIKey},
		{"auth_domain", c.AuthDomain},
		{"project_id", c.ProjectID},
		{"storage_bucket", c.StorageBucket},
		{"messaging_sender_id", c.MessagingSenderID},
		{"app_id", c.AppID},
		{"measurement_id", c.MeasurementID},
	}

	var missing []string
	for _, f := range fields {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// MaskedAPIKey returns the API key with all but its last four characters hidden
func (c ClientConfig) MaskedAPIKey() string {
	const visible = 4
	if c.APIKey == "" {
		return ""
	}
	if len(c.APIKey) <= visible {
		return "****"
	}
	return "****" + c.APIKey[len(c.APIKey)-visible:]
}

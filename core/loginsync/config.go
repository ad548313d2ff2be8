package loginsync

// Config holds configuration for the login-sync service.
type Config struct {
	// Backend selects the implementation (sql, s3, http).
	Backend string `mapstructure:"backend" default:"sql"`
	// Endpoint is the base URL of the HTTP backend.
	Endpoint string `mapstructure:"endpoint" default:"http://localhost:8080"`
	// APIKey is sent as X-API-Key to the HTTP backend.
	APIKey string `mapstructure:"api_key" default:""`
	// Prefix is the object key prefix of the s3 backend.
	Prefix string `mapstructure:"prefix" default:"logins"`
	// CredentialHost is the URL host marking the sync-account credential.
	CredentialHost string `mapstructure:"credential_host" default:"firefox.com"`
	// TimeoutSeconds bounds each HTTP request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

const (
	BackendSQL  = "sql"
	BackendS3   = "s3"
	BackendHTTP = "http"
)

// IsValidBackend checks if the configured backend is known.
func (c Config) IsValidBackend() bool {
	switch c.Backend {
	case BackendSQL, BackendS3, BackendHTTP:
		return true
	default:
		return false
	}
}

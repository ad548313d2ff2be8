package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"pass-fxa/core/database"
	"pass-fxa/core/keyring"
	"pass-fxa/core/loginsync"
	"pass-fxa/core/logger"
	"pass-fxa/core/passstore"
	"pass-fxa/core/server"
	"pass-fxa/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileName is the optional configuration file looked up in the config path.
const FileName = "pass-fxa"

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Store holds configuration for the local password store.
	Store passstore.Config `mapstructure:"store"`
	// Sync holds configuration for the login-sync service.
	Sync loginsync.Config `mapstructure:"sync"`
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the database connection.
	Database database.Config `mapstructure:"database"`
}

// LoadConfig loads configuration from pass-fxa.yaml, environment variables and
// a .env file, in increasing order of precedence.
func LoadConfig(path string) (*Config, error) {
	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(filepath.Join(path, ".env"))

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SYNC_BACKEND -> sync.backend)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("store.dir", "STORE_DIR", "PASSWORD_STORE_DIR"); err != nil {
		return nil, err
	}

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.resolveSecrets()
	return &config, nil
}

// resolveSecrets fills empty secret values from the OS keyring.
func (c *Config) resolveSecrets() {
	c.Sync.APIKey = keyring.Resolve(c.Sync.APIKey, "sync.api_key")
	c.Storage.SecretKey = keyring.Resolve(c.Storage.SecretKey, "storage.secret_key")
	c.Database.Password = keyring.Resolve(c.Database.Password, "database.password")
	c.Server.ApiKey = keyring.Resolve(c.Server.ApiKey, "server.api_key")
}

// Validate checks values that have a closed set of options.
func (c *Config) Validate() error {
	if !c.Sync.IsValidBackend() {
		return fmt.Errorf("invalid sync.backend %q (want %s, %s or %s)",
			c.Sync.Backend, loginsync.BackendSQL, loginsync.BackendS3, loginsync.BackendHTTP)
	}
	switch c.Database.Driver {
	case database.DriverMySQL, database.DriverSQLite:
	default:
		return fmt.Errorf("invalid database.driver %q", c.Database.Driver)
	}
	return nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}

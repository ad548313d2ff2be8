package passstore

import (
	"os"
	"path/filepath"
)

// Config holds configuration for the password store.
type Config struct {
	// Dir is the store root. Empty means PASSWORD_STORE_DIR or ~/.password-store.
	Dir string `mapstructure:"dir" default:""`
	// GPGBinary is the gpg executable used for decryption.
	GPGBinary string `mapstructure:"gpg_binary" default:"gpg"`
}

// DefaultDirName is the store directory under the home directory.
const DefaultDirName = ".password-store"

// Root resolves the store root directory.
func (c Config) Root() (string, error) {
	if c.Dir != "" {
		return c.Dir, nil
	}
	if dir := os.Getenv("PASSWORD_STORE_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultDirName), nil
}

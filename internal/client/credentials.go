package client

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrNoCredentials is returned when no credentials file exists.
var ErrNoCredentials = errors.New("not logged in")

// Credentials are what `secondbrain login` remembers between invocations.
type Credentials struct {
	ServerURL string    `yaml:"server_url"`
	Token     string    `yaml:"token"`
	UserID    string    `yaml:"user_id"`
	Email     string    `yaml:"email"`
	Name      string    `yaml:"name"`
	SavedAt   time.Time `yaml:"saved_at"`
}

// LoadCredentials reads credentials from path.
func LoadCredentials(path string) (Credentials, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Credentials{}, ErrNoCredentials
	}
	if err != nil {
		return Credentials{}, fmt.Errorf("read credentials: %w", err)
	}

	var c Credentials
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Credentials{}, fmt.Errorf("parse credentials %s: %w", path, err)
	}
	if c.Token == "" {
		return Credentials{}, ErrNoCredentials
	}
	return c, nil
}

// SaveCredentials writes credentials to path, readable only by the owner.
func SaveCredentials(path string, c Credentials) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create credentials directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

// DeleteCredentials removes the credentials file. A missing file is not an error.
func DeleteCredentials(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}

package testsupport

import (
	"path/filepath"
	"testing"

	"cratepress/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Drive.FolderID = "test-folder"
	cfg.Gemini.APIKey = "test"
	cfg.Instagram.AccountID = "test-account"
	cfg.Instagram.AccessToken = "test-token"

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

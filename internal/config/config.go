package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Drive contains configuration for the Google Drive image source.
type Drive struct {
	FolderID        string `toml:"folder_id"`
	CredentialsFile string `toml:"credentials_file"`
}

// Gemini contains configuration for the caption generator.
type Gemini struct {
	APIKey         string `toml:"api_key"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Instagram contains configuration for the publish collaborator.
type Instagram struct {
	AccountID      string `toml:"account_id"`
	AccessToken    string `toml:"access_token"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for cratepress.
//
// Sections by subsystem:
//   - Paths: data directory (ledger database, run lock) and log directory
//   - Drive: source folder and service-account credentials
//   - Gemini: caption generation API key and model
//   - Instagram: publish account, token, and endpoint
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Drive     Drive     `toml:"drive"`
	Gemini    Gemini    `toml:"gemini"`
	Instagram Instagram `toml:"instagram"`
	Logging   Logging   `toml:"logging"`
}

// SampleConfig returns the embedded sample configuration file contents.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes the embedded sample configuration to path.
func CreateSample(path string) error {
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/cratepress/config.toml")
}

// Load locates, parses, and validates a configuration file. Secrets may also
// arrive through the environment (a .env file is honoured when present); env
// values override file values. The returned config has all path fields
// expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	// Best effort; a missing .env simply means secrets come from the
	// process environment or the config file.
	_ = godotenv.Load()
	cfg.applyEnvOverrides()

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("cratepress.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func (c *Config) applyEnvOverrides() {
	if value := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); value != "" {
		c.Gemini.APIKey = value
	}
	if value := strings.TrimSpace(os.Getenv("INSTAGRAM_ACCOUNT_ID")); value != "" {
		c.Instagram.AccountID = value
	}
	if value := strings.TrimSpace(os.Getenv("INSTAGRAM_ACCESS_TOKEN")); value != "" {
		c.Instagram.AccessToken = value
	}
	if value := strings.TrimSpace(os.Getenv("GOOGLE_DRIVE_FOLDER_ID")); value != "" {
		c.Drive.FolderID = value
	}
	if value := strings.TrimSpace(os.Getenv("GOOGLE_CREDENTIALS_FILE")); value != "" {
		c.Drive.CredentialsFile = value
	}
}

func (c *Config) normalize() error {
	var err error
	if c.Paths.DataDir, err = ExpandPath(c.Paths.DataDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = ExpandPath(c.Paths.LogDir); err != nil {
		return err
	}
	if c.Drive.CredentialsFile != "" {
		if c.Drive.CredentialsFile, err = ExpandPath(c.Drive.CredentialsFile); err != nil {
			return err
		}
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = defaultGeminiModel
	}
	if c.Instagram.BaseURL == "" {
		c.Instagram.BaseURL = defaultInstagramBaseURL
	}
	return nil
}

// Validate checks structural configuration values. Collaborator credentials
// are deliberately not required here; each command verifies the credentials
// it actually needs so read-only commands work without secrets.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must not be empty")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must not be empty")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	if c.Gemini.TimeoutSeconds < 0 {
		return errors.New("gemini.timeout_seconds must not be negative")
	}
	if c.Instagram.TimeoutSeconds < 0 {
		return errors.New("instagram.timeout_seconds must not be negative")
	}
	return nil
}

// EnsureDirectories creates the directories the pipeline needs.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DriveConfigured reports whether the image source has the settings it needs.
func (c *Config) DriveConfigured() bool {
	return strings.TrimSpace(c.Drive.FolderID) != ""
}

// GeminiConfigured reports whether caption generation has an API key.
func (c *Config) GeminiConfigured() bool {
	return strings.TrimSpace(c.Gemini.APIKey) != ""
}

// InstagramConfigured reports whether publishing has account and token.
func (c *Config) InstagramConfigured() bool {
	return strings.TrimSpace(c.Instagram.AccountID) != "" && strings.TrimSpace(c.Instagram.AccessToken) != ""
}

// ExpandPath resolves ~ prefixes and returns an absolute, cleaned path.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

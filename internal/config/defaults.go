package config

const (
	defaultDataDir          = "~/.local/share/cratepress"
	defaultLogDir           = "~/.local/share/cratepress/logs"
	defaultGeminiModel      = "gemini-2.5-flash"
	defaultGeminiTimeout    = 120
	defaultInstagramBaseURL = "https://graph.facebook.com/v19.0"
	defaultInstagramTimeout = 60
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a configuration populated with built-in defaults. Paths are
// left unexpanded; Load normalizes them.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Gemini: Gemini{
			Model:          defaultGeminiModel,
			TimeoutSeconds: defaultGeminiTimeout,
		},
		Instagram: Instagram{
			BaseURL:        defaultInstagramBaseURL,
			TimeoutSeconds: defaultInstagramTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

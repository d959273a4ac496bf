package interfaces

// Config represents the application configuration
type Config struct {
	Editor           string `toml:"editor"`
	Template         string `toml:"template"`
	EditorEnv        string `toml:"editor_env"`
	InstalledRoot    string `toml:"installed_root"`
	DevelRoot        string `toml:"devel_root"`
	GeneratedExt     string `toml:"generated_ext"`
	SourceExt        string `toml:"source_ext"`
	GenerationMarker string `toml:"generation_marker"`
	HeaderLines      int    `toml:"header_lines"`
	Background       string `toml:"background"`
	LogVerbosity     int    `toml:"log_verbosity"`
}

// ConfigManager handles configuration loading and resolution
type ConfigManager interface {
	// Load loads configuration from the specified path
	Load(path string) (*Config, error)

	// Resolve applies precedence rules (flags > env > config > defaults)
	Resolve() (*Config, error)

	// Validate validates the configuration values
	Validate(config *Config) error
}

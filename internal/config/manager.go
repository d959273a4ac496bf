package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"srcedit-cli/internal/editor"
	"srcedit-cli/internal/interfaces"
	"srcedit-cli/internal/locator"
	"srcedit-cli/internal/template"
)

// Manager implements the ConfigManager interface
type Manager struct {
	v     *viper.Viper
	flags map[string]interface{} // Store flag values for precedence
}

// NewManager creates a new configuration manager
func NewManager() *Manager {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix("SRCEDIT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults
	setDefaults(v)

	return &Manager{
		v:     v,
		flags: make(map[string]interface{}),
	}
}

// DefaultPath returns ~/.config/srcedit/config.toml
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "srcedit", "config.toml"), nil
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("editor", "")
	v.SetDefault("template", "")
	v.SetDefault("editor_env", editor.DefaultEditorEnv)
	v.SetDefault("installed_root", "")
	v.SetDefault("devel_root", "")
	v.SetDefault("generated_ext", locator.DefaultGeneratedExt)
	v.SetDefault("source_ext", locator.DefaultSourceExt)
	v.SetDefault("generation_marker", locator.DefaultGenerationMarker)
	v.SetDefault("header_lines", locator.DefaultHeaderLines)
	v.SetDefault("background", "")
	v.SetDefault("log_verbosity", 0)
}

// Load loads configuration from the specified path. A missing file at the
// default location is not an error; defaults and environment apply.
func (m *Manager) Load(path string) (*interfaces.Config, error) {
	if path == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	path = expandPath(path)

	// Check if config file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// Config file doesn't exist, use defaults
		return m.getConfigFromViper(), nil
	}

	m.v.SetConfigFile(path)

	if err := m.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return m.getConfigFromViper(), nil
}

// SetFlag sets a flag value for precedence resolution
func (m *Manager) SetFlag(key string, value interface{}) {
	m.flags[key] = value
}

// Resolve applies precedence rules (flags > env > config > defaults)
func (m *Manager) Resolve() (*interfaces.Config, error) {
	config := m.getConfigFromViper()

	// Apply flag overrides (highest precedence)
	if err := m.applyFlagOverrides(config); err != nil {
		return nil, err
	}

	return config, nil
}

// applyFlagOverrides applies flag values over the configuration
func (m *Manager) applyFlagOverrides(config *interfaces.Config) error {
	stringFlags := map[string]*string{
		"editor":            &config.Editor,
		"template":          &config.Template,
		"editor_env":        &config.EditorEnv,
		"installed_root":    &config.InstalledRoot,
		"devel_root":        &config.DevelRoot,
		"generated_ext":     &config.GeneratedExt,
		"source_ext":        &config.SourceExt,
		"generation_marker": &config.GenerationMarker,
		"background":        &config.Background,
	}

	for key, dst := range stringFlags {
		val, exists := m.flags[key]
		if !exists || val == nil {
			continue
		}
		str, ok := val.(string)
		if !ok {
			return fmt.Errorf("flag %s: expected string, got %T", key, val)
		}
		if str != "" {
			*dst = str
		}
	}

	if config.InstalledRoot != "" {
		config.InstalledRoot = expandPath(config.InstalledRoot)
	}
	if config.DevelRoot != "" {
		config.DevelRoot = expandPath(config.DevelRoot)
	}

	intFlags := map[string]*int{
		"header_lines":  &config.HeaderLines,
		"log_verbosity": &config.LogVerbosity,
	}

	for key, dst := range intFlags {
		val, exists := m.flags[key]
		if !exists || val == nil {
			continue
		}
		n, ok := val.(int)
		if !ok {
			return fmt.Errorf("flag %s: expected int, got %T", key, val)
		}
		*dst = n
	}

	return nil
}

// Validate validates the configuration values
func (m *Manager) Validate(config *interfaces.Config) error {
	if config == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if config.Template != "" {
		if err := editor.ValidateTemplate(template.New(config.Template)); err != nil {
			return fmt.Errorf("invalid template: %w", err)
		}
	}

	if config.Editor != "" {
		name, _, _ := editor.ParseEditorCommand(config.Editor)
		if _, ok := editor.Default(name); !ok {
			return fmt.Errorf("invalid editor: %s (must be one of %s)", name, strings.Join(editor.EditorNames(), ", "))
		}
	}

	for key, ext := range map[string]string{
		"generated_ext": config.GeneratedExt,
		"source_ext":    config.SourceExt,
	} {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("invalid %s: %s (must start with '.')", key, ext)
		}
	}

	if config.HeaderLines < 0 {
		return fmt.Errorf("invalid header_lines: %d (must not be negative)", config.HeaderLines)
	}

	if _, err := ParseBackground(config.Background); err != nil {
		return err
	}

	return nil
}

// ParseBackground converts the background setting to a tri-state: nil
// leaves the template's own choice alone.
func ParseBackground(value string) (*bool, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("invalid background: %s (must be 'true', 'false' or empty)", value)
	}
	return &b, nil
}

// LocatorOptions converts the configuration to locator options
func LocatorOptions(config *interfaces.Config) locator.Options {
	return locator.Options{
		InstalledRoot:    config.InstalledRoot,
		DevelRoot:        config.DevelRoot,
		GeneratedExt:     config.GeneratedExt,
		SourceExt:        config.SourceExt,
		GenerationMarker: config.GenerationMarker,
		HeaderLines:      config.HeaderLines,
	}
}

// getConfigFromViper converts viper configuration to Config struct
// This handles env > config > defaults precedence (flags are applied separately)
func (m *Manager) getConfigFromViper() *interfaces.Config {
	return &interfaces.Config{
		Editor:           m.v.GetString("editor"),
		Template:         m.v.GetString("template"),
		EditorEnv:        m.v.GetString("editor_env"),
		InstalledRoot:    expandPath(m.v.GetString("installed_root")),
		DevelRoot:        expandPath(m.v.GetString("devel_root")),
		GeneratedExt:     m.v.GetString("generated_ext"),
		SourceExt:        m.v.GetString("source_ext"),
		GenerationMarker: m.v.GetString("generation_marker"),
		HeaderLines:      m.v.GetInt("header_lines"),
		Background:       m.v.GetString("background"),
		LogVerbosity:     m.v.GetInt("log_verbosity"),
	}
}

// MergeConfig merges another configuration into this manager
func (m *Manager) MergeConfig(other *interfaces.Config) {
	if other == nil {
		return
	}

	if other.Editor != "" {
		m.v.Set("editor", other.Editor)
	}
	if other.Template != "" {
		m.v.Set("template", other.Template)
	}
	if other.InstalledRoot != "" {
		m.v.Set("installed_root", other.InstalledRoot)
	}
	if other.DevelRoot != "" {
		m.v.Set("devel_root", other.DevelRoot)
	}
	if other.Background != "" {
		m.v.Set("background", other.Background)
	}
}

// Unset clears a string key so it no longer takes effect
func (m *Manager) Unset(key string) {
	m.v.Set(key, "")
}

// Save writes the current configuration to path, creating parent
// directories as needed.
func (m *Manager) Save(path string) error {
	if path == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			return err
		}
		path = defaultPath
	}
	path = expandPath(path)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := m.v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}

// expandPath expands ~ to user home directory
func expandPath(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path // Return original path if we can't get home dir
	}

	return filepath.Join(homeDir, path[2:])
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"srcedit-cli/internal/interfaces"
)

func TestNewManager(t *testing.T) {
	manager := NewManager()
	if manager == nil {
		t.Fatal("NewManager() returned nil")
	}
	if manager.v == nil {
		t.Fatal("NewManager() created manager with nil viper instance")
	}
}

func TestManager_Load_MissingFileUsesDefaults(t *testing.T) {
	manager := NewManager()

	config, err := manager.Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if config.EditorEnv != "EDITOR" {
		t.Errorf("Expected EditorEnv to be 'EDITOR', got %s", config.EditorEnv)
	}
	if config.GeneratedExt != ".py" || config.SourceExt != ".sage" {
		t.Errorf("Unexpected extension defaults %s -> %s", config.GeneratedExt, config.SourceExt)
	}
	if config.GenerationMarker != "*autogenerated*" {
		t.Errorf("Expected marker '*autogenerated*', got %s", config.GenerationMarker)
	}
	if config.HeaderLines != 3 {
		t.Errorf("Expected HeaderLines 3, got %d", config.HeaderLines)
	}
	if config.Template != "" || config.Editor != "" {
		t.Errorf("Expected no editor or template by default, got %q / %q", config.Editor, config.Template)
	}
}

func TestManager_Load_CustomFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	configContent := `
template = "echo EDIT ${file}:${line}"
installed_root = "/usr/lib/python3/site-packages"
devel_root = "/home/dev/sage/src"
header_lines = 4
background = "true"
`

	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	manager := NewManager()
	config, err := manager.Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "echo EDIT ${file}:${line}", config.Template)
	assert.Equal(t, "/usr/lib/python3/site-packages", config.InstalledRoot)
	assert.Equal(t, "/home/dev/sage/src", config.DevelRoot)
	assert.Equal(t, 4, config.HeaderLines)
	assert.Equal(t, "true", config.Background)
}

func TestManager_Load_BrokenFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("template = \"unterminated\n"), 0644))

	_, err := NewManager().Load(configPath)
	assert.Error(t, err)
}

func TestManager_Validate(t *testing.T) {
	manager := NewManager()

	tests := []struct {
		name    string
		config  *interfaces.Config
		wantErr bool
	}{
		{
			name:    "nil config",
			config:  nil,
			wantErr: true,
		},
		{
			name:    "empty config",
			config:  &interfaces.Config{},
			wantErr: false,
		},
		{
			name: "valid template",
			config: &interfaces.Config{
				Template: "vi -c ${line} ${file}",
			},
		},
		{
			name: "template without file",
			config: &interfaces.Config{
				Template: "vi -c ${line}",
			},
			wantErr: true,
		},
		{
			name: "known editor with options",
			config: &interfaces.Config{
				Editor: "emacs -nw",
			},
		},
		{
			name: "unknown editor",
			config: &interfaces.Config{
				Editor: "code",
			},
			wantErr: true,
		},
		{
			name: "extension without dot",
			config: &interfaces.Config{
				GeneratedExt: "py",
			},
			wantErr: true,
		},
		{
			name: "negative header lines",
			config: &interfaces.Config{
				HeaderLines: -1,
			},
			wantErr: true,
		},
		{
			name: "bad background",
			config: &interfaces.Config{
				Background: "sometimes",
			},
			wantErr: true,
		},
		{
			name: "background false",
			config: &interfaces.Config{
				Background: "false",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := manager.Validate(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestManager_SetFlag(t *testing.T) {
	manager := NewManager()

	manager.SetFlag("editor", "vim")
	manager.SetFlag("header_lines", 2)

	if manager.flags["editor"] != "vim" {
		t.Errorf("Expected flag 'editor' to be 'vim', got %v", manager.flags["editor"])
	}
	if manager.flags["header_lines"] != 2 {
		t.Errorf("Expected flag 'header_lines' to be 2, got %v", manager.flags["header_lines"])
	}
}

func TestManager_Resolve_FlagPrecedence(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	configContent := `
editor = "gedit"
devel_root = "/from/file"
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	manager := NewManager()
	_, err := manager.Load(configPath)
	require.NoError(t, err)

	manager.SetFlag("editor", "vim")
	manager.SetFlag("log_verbosity", 2)
	// Empty string flags do not override
	manager.SetFlag("devel_root", "")

	config, err := manager.Resolve()
	require.NoError(t, err)

	assert.Equal(t, "vim", config.Editor)
	assert.Equal(t, "/from/file", config.DevelRoot)
	assert.Equal(t, 2, config.LogVerbosity)
}

func TestManager_Resolve_WrongFlagType(t *testing.T) {
	manager := NewManager()
	manager.SetFlag("editor", 3)

	_, err := manager.Resolve()
	assert.Error(t, err)
}

func TestManager_Resolve_EnvironmentVariables(t *testing.T) {
	t.Setenv("SRCEDIT_EDITOR", "emacs")
	t.Setenv("SRCEDIT_INSTALLED_ROOT", "/opt/sage/lib")

	manager := NewManager()

	config, err := manager.Resolve()
	require.NoError(t, err)

	assert.Equal(t, "emacs", config.Editor)
	assert.Equal(t, "/opt/sage/lib", config.InstalledRoot)
}

func TestManager_MergeConfigAndSave(t *testing.T) {
	manager := NewManager()

	manager.MergeConfig(&interfaces.Config{
		Editor:     "vim",
		Background: "false",
	})

	config := manager.getConfigFromViper()
	assert.Equal(t, "vim", config.Editor)
	assert.Equal(t, "false", config.Background)

	configPath := filepath.Join(t.TempDir(), "nested", "config.toml")
	require.NoError(t, manager.Save(configPath))

	reloaded, err := NewManager().Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "vim", reloaded.Editor)
	assert.Equal(t, "false", reloaded.Background)
}

func TestParseBackground(t *testing.T) {
	b, err := ParseBackground("")
	require.NoError(t, err)
	assert.Nil(t, b)

	b, err = ParseBackground("true")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.True(t, *b)

	b, err = ParseBackground(" false ")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.False(t, *b)

	_, err = ParseBackground("maybe")
	assert.Error(t, err)
}

func TestLocatorOptions(t *testing.T) {
	opts := LocatorOptions(&interfaces.Config{
		InstalledRoot:    "/a",
		DevelRoot:        "/b",
		GeneratedExt:     ".py",
		SourceExt:        ".sage",
		GenerationMarker: "*autogenerated*",
		HeaderLines:      3,
	})

	assert.Equal(t, "/a", opts.InstalledRoot)
	assert.Equal(t, "/b", opts.DevelRoot)
	assert.Equal(t, 3, opts.HeaderLines)
}

func TestExpandPath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{
			name:     "absolute path",
			path:     "/absolute/path",
			expected: "/absolute/path",
		},
		{
			name:     "relative path",
			path:     "relative/path",
			expected: "relative/path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.path)
			if result != tt.expected {
				t.Errorf("expandPath(%s) = %s, expected %s", tt.path, result, tt.expected)
			}
		})
	}

	// Test tilde expansion separately since it depends on user home
	homeDir, err := os.UserHomeDir()
	if err == nil {
		result := expandPath("~/test/path")
		expected := filepath.Join(homeDir, "test/path")
		if result != expected {
			t.Errorf("expandPath(~/test/path) = %s, expected %s", result, expected)
		}
	}
}

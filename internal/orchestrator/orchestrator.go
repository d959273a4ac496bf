package orchestrator

import (
	"errors"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"srcedit-cli/internal/config"
	"srcedit-cli/internal/editor"
	"srcedit-cli/internal/interfaces"
	"srcedit-cli/internal/launcher"
	"srcedit-cli/internal/locator"
	"srcedit-cli/internal/logging"
	"srcedit-cli/internal/template"
)

// BackgroundMarker is the trailing shell token that detaches a command
const BackgroundMarker = "&"

// EditOptions controls a single edit request
type EditOptions struct {
	// Editor, when set, replaces the active template with this editor's default.
	Editor string
	// Background forces (true) or suppresses (false) a trailing "&". Nil
	// keeps the template as written.
	Background *bool
}

// Orchestrator coordinates template resolution, source location and
// editor launch
type Orchestrator struct {
	configManager interfaces.ConfigManager
	store         interfaces.TemplateStore
	locator       interfaces.SourceLocator
	launcher      interfaces.Launcher
	outputHandler interfaces.OutputHandler
	editorEnv     string
	logger        zerolog.Logger
}

// New creates a new orchestrator with all required components
func New() *Orchestrator {
	return &Orchestrator{
		configManager: config.NewManager(),
		store:         editor.NewStore(),
		locator:       locator.New(locator.DefaultOptions()),
		launcher:      launcher.NewShellSpawner(),
		outputHandler: NewOutputHandler(),
		editorEnv:     editor.DefaultEditorEnv,
		logger:        logging.GetLogger("orchestrator"),
	}
}

// NewWithComponents creates an orchestrator from explicit parts. Nil
// arguments fall back to the defaults used by New.
func NewWithComponents(store interfaces.TemplateStore, loc interfaces.SourceLocator, l interfaces.Launcher, out interfaces.OutputHandler) *Orchestrator {
	o := New()
	if store != nil {
		o.store = store
	}
	if loc != nil {
		o.locator = loc
	}
	if l != nil {
		o.launcher = l
	}
	if out != nil {
		o.outputHandler = out
	}
	return o
}

// Store returns the template store
func (o *Orchestrator) Store() interfaces.TemplateStore {
	return o.store
}

// LoadConfiguration loads, resolves and validates configuration, applies
// the given flag overrides, and configures the orchestrator from it.
func (o *Orchestrator) LoadConfiguration(configPath string, flags map[string]interface{}) (*interfaces.Config, error) {
	if _, err := o.configManager.Load(configPath); err != nil {
		return nil, NewConfigurationError("failed to load configuration", err)
	}

	if manager, ok := o.configManager.(*config.Manager); ok {
		for key, value := range flags {
			manager.SetFlag(key, value)
		}
	}

	cfg, err := o.configManager.Resolve()
	if err != nil {
		return nil, NewConfigurationError("failed to resolve configuration", err)
	}

	if err := o.configManager.Validate(cfg); err != nil {
		return nil, NewConfigurationError("invalid configuration", err)
	}

	if err := o.Configure(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Configure applies a resolved configuration: locator options, the editor
// environment variable, and any configured template or editor.
func (o *Orchestrator) Configure(cfg *interfaces.Config) error {
	if cfg == nil {
		return NewConfigurationError("config cannot be nil", nil)
	}

	// Locators that cannot be reconfigured are kept as given
	if configurable, ok := o.locator.(interfaces.ConfigurableLocator); ok {
		configurable.SetOptions(config.LocatorOptions(cfg))
	}
	if cfg.EditorEnv != "" {
		o.editorEnv = cfg.EditorEnv
	}

	// An explicit template wins over an editor name
	switch {
	case cfg.Template != "":
		if err := o.store.SetEditTemplate(cfg.Template); err != nil {
			return NewTemplateError(cfg.Template, err)
		}
	case cfg.Editor != "":
		name, opts, _ := editor.ParseEditorCommand(cfg.Editor)
		if err := o.store.SetEditor(name, opts); err != nil {
			return o.editorError(name, err)
		}
	}

	return nil
}

// SetEditTemplate validates and installs an edit template
func (o *Orchestrator) SetEditTemplate(tmpl string) error {
	if err := o.store.SetEditTemplate(tmpl); err != nil {
		return NewTemplateError(tmpl, err)
	}
	return nil
}

// ResolveTemplate returns the template an edit would use. A non-empty
// editorName replaces the active template; with no active template the
// editor environment variable is consulted.
func (o *Orchestrator) ResolveTemplate(editorName string) (template.Template, error) {
	if editorName != "" {
		name, opts, _ := editor.ParseEditorCommand(editorName)
		if err := o.store.SetEditor(name, opts); err != nil {
			return template.Template{}, o.editorError(name, err)
		}
	} else if _, ok := o.store.Template(); !ok {
		if err := o.store.SetEditorFromEnv(o.editorEnv); err != nil {
			return template.Template{}, NewNoEditorError(o.editorEnv, err)
		}
	}

	tmpl, ok := o.store.Template()
	if !ok {
		return template.Template{}, NewNoEditorError(o.editorEnv, nil)
	}
	return tmpl, nil
}

// Locate resolves obj to its development-tree source location
func (o *Orchestrator) Locate(obj interface{}) (locator.Location, error) {
	loc, err := o.locator.Locate(obj)
	if err != nil {
		return locator.Location{}, NewSourceError(obj, err)
	}
	return loc, nil
}

// BuildCommand resolves the template, locates obj and returns the shell
// command that would open it.
func (o *Orchestrator) BuildCommand(obj interface{}, opts EditOptions) (string, locator.Location, error) {
	tmpl, err := o.ResolveTemplate(opts.Editor)
	if err != nil {
		return "", locator.Location{}, err
	}

	loc, err := o.Locate(obj)
	if err != nil {
		return "", locator.Location{}, err
	}

	command, err := tmpl.Substitute(template.Bindings{
		editor.FieldFile: loc.File,
		editor.FieldLine: strconv.Itoa(loc.Line),
	})
	if err != nil {
		return "", locator.Location{}, NewTemplateError(tmpl.String(), err)
	}

	command = ApplyBackground(command, opts.Background)
	o.logger.Debug().
		Str("template", tmpl.String()).
		Str("command", command).
		Msg("Built edit command")
	return command, loc, nil
}

// Edit opens the source of obj in the configured editor. The editor is
// started detached; its outcome is not observed. The command run is
// returned.
func (o *Orchestrator) Edit(obj interface{}, opts EditOptions) (string, error) {
	command, _, err := o.BuildCommand(obj, opts)
	if err != nil {
		return "", err
	}

	if err := o.launcher.Spawn(command); err != nil {
		return command, NewLaunchError(command, err)
	}

	o.logger.Info().Str("command", command).Msg("Editor launched")
	return command, nil
}

// OutputLocation prints loc and optionally copies it to the clipboard
func (o *Orchestrator) OutputLocation(loc locator.Location, copyToClipboard bool) error {
	return o.output(loc.String(), copyToClipboard)
}

// OutputCommand prints a command instead of running it
func (o *Orchestrator) OutputCommand(command string) error {
	return o.output(command, false)
}

func (o *Orchestrator) output(content string, copyToClipboard bool) error {
	if err := o.outputHandler.WriteToStdout(content); err != nil {
		return NewOutputError("stdout", err)
	}
	if copyToClipboard {
		if err := o.outputHandler.WriteToClipboard(content); err != nil {
			return NewOutputError("clipboard", err)
		}
	}
	return nil
}

// ApplyBackground appends the background marker when background is true
// and absent, strips one when background is false and present, and
// otherwise returns command unchanged.
func ApplyBackground(command string, background *bool) string {
	if background == nil {
		return command
	}

	hasMarker := strings.HasSuffix(command, BackgroundMarker)
	switch {
	case *background && !hasMarker:
		return command + BackgroundMarker
	case !*background && hasMarker:
		return strings.TrimSuffix(command, BackgroundMarker)
	}
	return command
}

func (o *Orchestrator) editorError(name string, err error) error {
	if errors.Is(err, editor.ErrUnknownEditor) {
		return NewUnknownEditorError(name, err)
	}
	return NewTemplateError(name, err)
}


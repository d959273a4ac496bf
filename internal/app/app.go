package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"srcedit-cli/internal/config"
	"srcedit-cli/internal/editor"
	"srcedit-cli/internal/interactive"
	"srcedit-cli/internal/interfaces"
	"srcedit-cli/internal/logging"
	"srcedit-cli/internal/orchestrator"
	"srcedit-cli/pkg/models"
)

// Run opens the request's target in the configured editor
func Run(request *models.EditRequest) error {
	orch, cfg, err := setup(request)
	if err != nil {
		return err
	}

	opts, err := editOptions(request, cfg)
	if err != nil {
		return err
	}

	if request.DryRun {
		command, _, err := orch.BuildCommand(request.Target, opts)
		if err != nil {
			return err
		}
		return orch.OutputCommand(command)
	}

	if _, err := orch.Edit(request.Target, opts); err != nil {
		return err
	}
	return nil
}

// Locate prints the development-tree file:line for the request's target
func Locate(request *models.EditRequest) error {
	orch, _, err := setup(request)
	if err != nil {
		return err
	}

	loc, err := orch.Locate(request.Target)
	if err != nil {
		return err
	}
	return orch.OutputLocation(loc, request.Copy)
}

// ShowTemplate prints the template an edit would use, resolving it the
// same way an edit does.
func ShowTemplate(request *models.EditRequest) error {
	orch, _, err := setup(request)
	if err != nil {
		return err
	}

	tmpl, err := orch.ResolveTemplate(request.Editor)
	if err != nil {
		return err
	}
	return orch.OutputCommand(tmpl.String())
}

// ListEditors writes the built-in editor templates to w
func ListEditors(w io.Writer) error {
	width := 0
	for _, name := range editor.EditorNames() {
		if len(name) > width {
			width = len(name)
		}
	}

	for _, name := range editor.EditorNames() {
		tmpl, _ := editor.Default(name)
		if _, err := fmt.Fprintf(w, "%-*s  %s\n", width, name, tmpl.String()); err != nil {
			return err
		}
	}
	return nil
}

// Setup interactively chooses an editor and saves it to the config file
func Setup(request *models.EditRequest) error {
	logging.SetupLogger(request.Verbosity)

	manager := config.NewManager()
	cfg, err := manager.Load(request.ConfigPath)
	if err != nil {
		return orchestrator.NewConfigurationError("failed to load configuration", err)
	}

	current, _, _ := editor.ParseEditorCommand(cfg.Editor)
	choice, err := interactive.NewPrompter().ChooseEditor(current)
	if err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}

	return saveChoice(manager, request.ConfigPath, choice)
}

// saveChoice stores an editor choice, clearing whichever of editor and
// template the choice does not use.
func saveChoice(manager *config.Manager, path string, choice *models.EditorChoice) error {
	manager.MergeConfig(&interfaces.Config{
		Editor:   choice.Editor,
		Template: choice.Template,
	})
	if choice.Template != "" {
		manager.Unset("editor")
	} else {
		manager.Unset("template")
	}

	if err := manager.Save(path); err != nil {
		return orchestrator.NewConfigurationError("failed to save configuration", err)
	}

	log.Info().Str("editor", choice.Editor).Str("template", choice.Template).Msg("Configuration saved")
	return nil
}

// setup configures logging and builds an orchestrator from configuration
func setup(request *models.EditRequest) (*orchestrator.Orchestrator, *interfaces.Config, error) {
	if request == nil {
		return nil, nil, orchestrator.NewConfigurationError("request cannot be nil", nil)
	}

	logging.SetupLogger(request.Verbosity)

	orch := orchestrator.New()
	cfg, err := orch.LoadConfiguration(request.ConfigPath, request.Flags())
	if err != nil {
		return nil, nil, err
	}

	// Config file verbosity applies when no -v was given
	if request.Verbosity == 0 && cfg.LogVerbosity > 0 {
		logging.SetupLogger(cfg.LogVerbosity)
	}

	return orch, cfg, nil
}

// editOptions merges CLI and configured background preferences
func editOptions(request *models.EditRequest, cfg *interfaces.Config) (orchestrator.EditOptions, error) {
	opts := orchestrator.EditOptions{
		Editor:     strings.TrimSpace(request.Editor),
		Background: request.Background,
	}

	if opts.Background == nil {
		background, err := config.ParseBackground(cfg.Background)
		if err != nil {
			return opts, orchestrator.NewConfigurationError("invalid configuration", err)
		}
		opts.Background = background
	}

	return opts, nil
}


package orchestrator

import (
	"errors"
	"fmt"
	"strings"

	"srcedit-cli/internal/editor"
	"srcedit-cli/internal/locator"
)

// Error types for different categories of failures
var (
	ErrInvalidTemplate      = editor.ErrInvalidTemplate
	ErrUnknownEditor        = editor.ErrUnknownEditor
	ErrNoEditorConfigured   = editor.ErrNoEditorConfigured
	ErrSourceNotFound       = locator.ErrSourceNotFound
	ErrConfigurationInvalid = errors.New("configuration error")
	ErrLaunchFailed         = errors.New("launch error")
	ErrOutputFailed         = errors.New("output error")
)

// EditError represents a structured error with actionable guidance
type EditError struct {
	Type     error
	Message  string
	Guidance string
	Cause    error
}

func (e *EditError) Error() string {
	if e.Guidance != "" {
		return fmt.Sprintf("%s: %s\n\nSuggestion: %s", e.Type, e.Message, e.Guidance)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *EditError) Unwrap() error {
	return e.Cause
}

// Is matches the error category even when there is no cause
func (e *EditError) Is(target error) bool {
	return e.Type == target
}

// Error constructors with actionable guidance

func NewConfigurationError(message string, cause error) *EditError {
	guidance := "Check your configuration file syntax. " +
		"Use 'srcedit --config /path/to/config.toml' to specify a different config file."

	if cause != nil && strings.Contains(cause.Error(), "permission") {
		guidance = "Check file permissions for ~/.config/srcedit/ and the config file."
	}

	return &EditError{
		Type:     ErrConfigurationInvalid,
		Message:  describe(message, cause),
		Guidance: guidance,
		Cause:    cause,
	}
}

func NewTemplateError(tmpl string, cause error) *EditError {
	return &EditError{
		Type:    ErrInvalidTemplate,
		Message: describe(fmt.Sprintf("cannot use edit template %q", tmpl), cause),
		Guidance: "An edit template must contain ${file} and may contain ${line}, e.g. " +
			"'vi -c ${line} ${file}'. Use $$ for a literal dollar sign.",
		Cause: cause,
	}
}

func NewUnknownEditorError(name string, cause error) *EditError {
	return &EditError{
		Type:    ErrUnknownEditor,
		Message: fmt.Sprintf("no built-in template for editor %q", name),
		Guidance: fmt.Sprintf("Known editors: %s. For any other editor set a full template "+
			"with --template 'myeditor +${line} ${file}'.", strings.Join(editor.EditorNames(), ", ")),
		Cause: cause,
	}
}

func NewNoEditorError(envVar string, cause error) *EditError {
	return &EditError{
		Type:    ErrNoEditorConfigured,
		Message: describe("no edit template is set", cause),
		Guidance: fmt.Sprintf("Set $%s to one of %s, pass --editor, set a template with --template, "+
			"or run 'srcedit setup'.", envVar, strings.Join(editor.EditorNames(), ", ")),
		Cause: cause,
	}
}

func NewSourceError(obj interface{}, cause error) *EditError {
	message := fmt.Sprintf("cannot find the source of %v", obj)
	if _, ok := obj.(string); !ok {
		message = fmt.Sprintf("cannot find the source of %T", obj)
	}

	guidance := "Pass a file path, path:line, or path#Name for a Go declaration."
	if cause != nil && strings.Contains(cause.Error(), "no declaration") {
		guidance = "The file parsed but has no top-level declaration by that name. " +
			"Methods are written Type.Method."
	}

	return &EditError{
		Type:     ErrSourceNotFound,
		Message:  describe(message, cause),
		Guidance: guidance,
		Cause:    cause,
	}
}

func NewLaunchError(command string, cause error) *EditError {
	return &EditError{
		Type:     ErrLaunchFailed,
		Message:  describe(fmt.Sprintf("failed to run %q", command), cause),
		Guidance: "Check that /bin/sh exists. Use --dry-run to print the command instead.",
		Cause:    cause,
	}
}

func NewOutputError(target string, cause error) *EditError {
	guidance := "Check that the output target is valid and accessible."
	if target == "clipboard" {
		guidance = "Clipboard access failed. Ensure you're running in a graphical environment " +
			"or drop --copy."
	}

	return &EditError{
		Type:     ErrOutputFailed,
		Message:  describe(fmt.Sprintf("failed to output to %s", target), cause),
		Guidance: guidance,
		Cause:    cause,
	}
}

func describe(message string, cause error) string {
	if cause == nil {
		return message
	}
	return fmt.Sprintf("%s: %v", message, cause)
}

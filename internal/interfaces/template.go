package interfaces

import (
	"srcedit-cli/internal/locator"
	"srcedit-cli/internal/template"
)

// TemplateStore holds the active edit template
type TemplateStore interface {
	// SetEditTemplate validates and installs a string or template.Template
	SetEditTemplate(tmpl interface{}) error

	// SetEditor installs the default template of a known editor
	SetEditor(name, opts string) error

	// SetEditorFromEnv installs the editor named by an environment variable
	SetEditorFromEnv(envVar string) error

	// Template returns the active template, if any
	Template() (template.Template, bool)
}

// SourceLocator resolves objects to source locations
type SourceLocator interface {
	// Locate returns the file and 1-based line where obj is defined
	Locate(obj interface{}) (locator.Location, error)
}

// ConfigurableLocator is a SourceLocator whose options can be replaced
// after construction
type ConfigurableLocator interface {
	SourceLocator

	// SetOptions replaces path rewriting and generated-file settings
	SetOptions(opts locator.Options)
}

// Package editor holds the editor command template used to open source
// files, and the table of templates for well-known editors.
package editor

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"srcedit-cli/internal/logging"
	"srcedit-cli/internal/template"
)

// Placeholder names understood by edit templates
const (
	FieldFile = "file"
	FieldLine = "line"
	FieldOpts = "opts"
)

// DefaultEditorEnv is the environment variable consulted when no template is set
const DefaultEditorEnv = "EDITOR"

var (
	ErrInvalidTemplate    = errors.New("invalid edit template")
	ErrUnknownEditor      = errors.New("unknown editor")
	ErrNoEditorConfigured = errors.New("no editor configured")
)

var defaults = map[string]string{
	"vi":           "vi -c ${line} ${file}",
	"vim":          "vim -c ${line} ${file}",
	"emacs":        "emacs ${opts} +${line} ${file}",
	"nedit-nc":     "nedit-nc -line ${line} ${file}",
	"nedit-client": "nedit-client -line ${line} ${file}",
	"ncl":          "ncl -line ${line} ${file}",
	"gedit":        "gedit +${line} ${file} &",
	"kate":         "kate -u --line +${line} ${file} &",
}

// Default returns the built-in template for a known editor
func Default(name string) (template.Template, bool) {
	text, ok := defaults[name]
	if !ok {
		return template.Template{}, false
	}
	return template.New(text), true
}

// EditorNames returns the known editor names, sorted
func EditorNames() []string {
	names := make([]string, 0, len(defaults))
	for name := range defaults {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Store holds the active edit template. The zero value has no template.
// A Store is not safe for concurrent use.
type Store struct {
	active template.Template
	set    bool
	logger zerolog.Logger
}

// NewStore creates a store with no active template
func NewStore() *Store {
	return &Store{logger: logging.GetLogger("editor")}
}

// Template returns the active template and whether one has been set
func (s *Store) Template() (template.Template, bool) {
	return s.active, s.set
}

// IsSet reports whether an active template exists
func (s *Store) IsSet() bool {
	return s.set
}

// SetEditTemplate validates tmpl and makes it the active template.
// tmpl may be a string or a template.Template.
func (s *Store) SetEditTemplate(tmpl interface{}) error {
	var t template.Template
	switch v := tmpl.(type) {
	case string:
		t = template.New(v)
	case template.Template:
		t = v
	case *template.Template:
		if v == nil {
			return fmt.Errorf("%w: nil template", ErrInvalidTemplate)
		}
		t = *v
	default:
		return fmt.Errorf("%w: unsupported template type %T", ErrInvalidTemplate, tmpl)
	}

	if err := ValidateTemplate(t); err != nil {
		return err
	}

	s.active = t
	s.set = true
	s.logger.Debug().Str("template", t.String()).Msg("Edit template set")
	return nil
}

// SetEditor installs the default template for a known editor, with opts
// filled into its ${opts} placeholder if it has one.
func (s *Store) SetEditor(name, opts string) error {
	t, ok := Default(name)
	if !ok {
		return fmt.Errorf("%w: %q (known editors: %s)", ErrUnknownEditor, name, strings.Join(EditorNames(), ", "))
	}

	filled := template.New(t.SafeSubstitute(template.Bindings{FieldOpts: opts}))
	s.logger.Debug().Str("editor", name).Str("opts", opts).Msg("Resolved editor")
	return s.SetEditTemplate(filled)
}

// SetEditorFromEnv sets the editor named by the first word of the
// environment variable envVar, passing the remaining words as opts.
func (s *Store) SetEditorFromEnv(envVar string) error {
	if envVar == "" {
		envVar = DefaultEditorEnv
	}

	name, opts, ok := ParseEditorCommand(os.Getenv(envVar))
	if !ok {
		return fmt.Errorf("%w: $%s is not set", ErrNoEditorConfigured, envVar)
	}

	if err := s.SetEditor(name, opts); err != nil {
		if errors.Is(err, ErrUnknownEditor) {
			return fmt.Errorf("%w: $%s names %q: %v", ErrNoEditorConfigured, envVar, name, err)
		}
		return err
	}
	return nil
}

// ParseEditorCommand splits an editor command line into the editor name
// and the rest of its words joined by single spaces.
func ParseEditorCommand(command string) (name, opts string, ok bool) {
	words := strings.Fields(command)
	if len(words) == 0 {
		return "", "", false
	}
	return words[0], strings.Join(words[1:], " "), true
}

// ValidateTemplate checks that t references ${file}, nothing besides
// ${file} and ${line}, and contains no malformed placeholder.
func ValidateTemplate(t template.Template) error {
	hasFile := false
	for _, field := range t.Fields() {
		switch field {
		case FieldFile:
			hasFile = true
		case FieldLine:
		default:
			return fmt.Errorf("%w: placeholder ${%s} is not allowed; only ${file} and ${line} may be used", ErrInvalidTemplate, field)
		}
	}

	if !hasFile {
		return fmt.Errorf("%w: %q must reference ${file}", ErrInvalidTemplate, t.String())
	}

	// A stray "$" only shows up when substituting
	if _, err := t.Substitute(template.Bindings{FieldFile: "", FieldLine: ""}); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}
	return nil
}

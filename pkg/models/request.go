package models

// EditRequest represents the state of a single srcedit invocation
type EditRequest struct {
	Target     string
	Editor     string
	Template   string
	Background *bool
	ConfigPath string
	DryRun     bool
	Copy       bool
	Verbosity  int
}

// NewEditRequest creates an empty request
func NewEditRequest() *EditRequest {
	return &EditRequest{}
}

// Flags returns the request's configuration overrides, keyed by config key
func (r *EditRequest) Flags() map[string]interface{} {
	flags := map[string]interface{}{}
	if r.Template != "" {
		flags["template"] = r.Template
	}
	if r.Verbosity > 0 {
		flags["log_verbosity"] = r.Verbosity
	}
	return flags
}

// EditorChoice is the outcome of interactive setup: either an editor
// command line or a full template.
type EditorChoice struct {
	Editor   string
	Template string
}

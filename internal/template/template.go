package template

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Delimiter introduces a placeholder. A doubled delimiter is a literal "$".
const Delimiter = "$"

var (
	// ErrMissingKey is returned by Substitute when a placeholder has no binding.
	ErrMissingKey = errors.New("missing template binding")

	// ErrInvalidPlaceholder is returned by Substitute when a "$" is not
	// followed by "$", an identifier or a braced identifier.
	ErrInvalidPlaceholder = errors.New("invalid placeholder")
)

// placeholderPattern matches, in order: an escaped delimiter, a bare
// identifier, a braced identifier, or a lone delimiter (invalid).
var placeholderPattern = regexp.MustCompile(`\$(?:(\$)|([_a-zA-Z][_a-zA-Z0-9]*)|\{([_a-zA-Z][_a-zA-Z0-9]*)\}|())`)

// Bindings maps placeholder names to their replacement text
type Bindings map[string]string

// Template is a shell command template with $name / ${name} placeholders
type Template struct {
	text string
}

// New wraps text as a command template. It never fails; placeholder
// problems surface from Fields, Substitute or the editor store's validation.
func New(text string) Template {
	return Template{text: text}
}

// String returns the raw template text
func (t Template) String() string {
	return t.text
}

// IsZero reports whether the template has no text
func (t Template) IsZero() bool {
	return t.text == ""
}

// Fields returns the distinct placeholder names in order of first appearance
func (t Template) Fields() []string {
	seen := make(map[string]bool)
	var fields []string

	for _, m := range placeholderPattern.FindAllStringSubmatch(t.text, -1) {
		name := placeholderName(m)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		fields = append(fields, name)
	}

	return fields
}

// Substitute replaces every placeholder with its binding. It fails on the
// first unbound or malformed placeholder.
func (t Template) Substitute(bindings Bindings) (string, error) {
	var firstErr error

	result := t.expand(func(match []string, offset int, raw string) string {
		if firstErr != nil {
			return raw
		}
		if match[1] != "" {
			return Delimiter
		}
		name := placeholderName(match)
		if name == "" {
			firstErr = fmt.Errorf("%w at offset %d in %q", ErrInvalidPlaceholder, offset, t.text)
			return raw
		}
		value, ok := bindings[name]
		if !ok {
			firstErr = fmt.Errorf("%w: %s", ErrMissingKey, name)
			return raw
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// SafeSubstitute replaces bound placeholders and leaves unbound or
// malformed ones exactly as written.
func (t Template) SafeSubstitute(bindings Bindings) string {
	return t.expand(func(match []string, _ int, raw string) string {
		if match[1] != "" {
			return Delimiter
		}
		if value, ok := bindings[placeholderName(match)]; ok {
			return value
		}
		return raw
	})
}

// expand walks all delimiter matches, passing each to replace along with
// its byte offset and raw text.
func (t Template) expand(replace func(match []string, offset int, raw string) string) string {
	indexes := placeholderPattern.FindAllStringSubmatchIndex(t.text, -1)
	if len(indexes) == 0 {
		return t.text
	}

	var b strings.Builder
	last := 0
	for _, idx := range indexes {
		start, end := idx[0], idx[1]
		b.WriteString(t.text[last:start])

		match := make([]string, len(idx)/2)
		for i := range match {
			if idx[2*i] >= 0 {
				match[i] = t.text[idx[2*i]:idx[2*i+1]]
			}
		}

		b.WriteString(replace(match, start, t.text[start:end]))
		last = end
	}
	b.WriteString(t.text[last:])

	return b.String()
}

func placeholderName(match []string) string {
	if match[2] != "" {
		return match[2]
	}
	return match[3]
}

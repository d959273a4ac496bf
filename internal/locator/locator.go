// Package locator finds the file and line where a program object is defined
// and maps installed-library paths back to the development source tree.
package locator

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"srcedit-cli/internal/logging"
)

// ErrSourceNotFound is returned when an object's source cannot be determined
var ErrSourceNotFound = errors.New("source not found")

// Defaults for generated-file detection
const (
	DefaultGeneratedExt     = ".py"
	DefaultSourceExt        = ".sage"
	DefaultGenerationMarker = "*autogenerated*"
	DefaultHeaderLines      = 3
)

// Location is a resolved source position. Line is 1-based.
type Location struct {
	File string
	Line int
}

// String formats the location as file:line
func (l Location) String() string {
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// SourcePosition lets an already resolved Location be located again
func (l Location) SourcePosition() (string, int, error) {
	return l.File, l.Line, nil
}

// Positioner is implemented by objects that carry their own source
// position. The returned line is 1-based.
type Positioner interface {
	SourcePosition() (file string, line int, err error)
}

// Options controls path rewriting and generated-file detection
type Options struct {
	// InstalledRoot is the prefix of installed library paths. Empty disables rewriting.
	InstalledRoot string
	// DevelRoot replaces InstalledRoot in rewritten paths.
	DevelRoot string

	GeneratedExt     string
	SourceExt        string
	GenerationMarker string
	// HeaderLines is the number of lines the generator prepends.
	HeaderLines int
}

// DefaultOptions returns options with generated-file detection defaults
// and no path rewriting.
func DefaultOptions() Options {
	return Options{
		GeneratedExt:     DefaultGeneratedExt,
		SourceExt:        DefaultSourceExt,
		GenerationMarker: DefaultGenerationMarker,
		HeaderLines:      DefaultHeaderLines,
	}
}

// Locator resolves objects to source locations
type Locator struct {
	opts   Options
	logger zerolog.Logger
}

// New creates a locator with the given options
func New(opts Options) *Locator {
	return &Locator{
		opts:   opts,
		logger: logging.GetLogger("locator"),
	}
}

// Options returns the locator's configuration
func (l *Locator) Options() Options {
	return l.opts
}

// SetOptions replaces the locator's configuration
func (l *Locator) SetOptions(opts Options) {
	l.opts = opts
}

// Locate returns the development-tree file and 1-based line where obj is
// defined. obj may be a Positioner, a Target, a target string, or a Go
// func value.
func (l *Locator) Locate(obj interface{}) (Location, error) {
	file, line, err := l.rawPosition(obj)
	if err != nil {
		return Location{}, err
	}

	file, line = l.undoGeneration(file, line)
	rewritten := l.RewritePath(file)

	loc := Location{File: rewritten, Line: line + 1}
	if loc.Line < 1 {
		// The marker sat inside the generated header
		loc.Line = 1
	}
	l.logger.Debug().
		Str("raw", file).
		Str("file", loc.File).
		Int("line", loc.Line).
		Msg("Located source")
	return loc, nil
}

// rawPosition returns the file and zero-based line recorded for obj
func (l *Locator) rawPosition(obj interface{}) (string, int, error) {
	switch v := obj.(type) {
	case nil:
		return "", 0, fmt.Errorf("%w: nil object", ErrSourceNotFound)
	case string:
		target, err := ParseTarget(v)
		if err != nil {
			return "", 0, err
		}
		return l.rawPosition(target)
	case Positioner:
		file, line, err := v.SourcePosition()
		if err != nil {
			if errors.Is(err, ErrSourceNotFound) {
				return "", 0, err
			}
			return "", 0, fmt.Errorf("%w: %v", ErrSourceNotFound, err)
		}
		if file == "" {
			return "", 0, fmt.Errorf("%w: %T has no source file", ErrSourceNotFound, obj)
		}
		if line < 1 {
			line = 1
		}
		return file, line - 1, nil
	}

	rv := reflect.ValueOf(obj)
	if rv.Kind() == reflect.Func {
		return funcPosition(rv)
	}

	return "", 0, fmt.Errorf("%w: cannot determine source of %T", ErrSourceNotFound, obj)
}

// funcPosition reads a func value's declaration site from the runtime
// symbol table.
func funcPosition(rv reflect.Value) (string, int, error) {
	if rv.IsNil() {
		return "", 0, fmt.Errorf("%w: nil func", ErrSourceNotFound)
	}

	fn := runtime.FuncForPC(rv.Pointer())
	if fn == nil {
		return "", 0, fmt.Errorf("%w: no symbol information for %s", ErrSourceNotFound, rv.Type())
	}

	file, line := fn.FileLine(fn.Entry())
	if file == "" || strings.HasPrefix(file, "<") {
		// Method values and other wrappers have no real source
		return "", 0, fmt.Errorf("%w: %s is compiler generated", ErrSourceNotFound, fn.Name())
	}

	// The entry PC of a leaf function sits on its first statement, so
	// prefer the declaration itself when the file still parses.
	if symbol := funcSymbol(fn.Name()); symbol != "" {
		if declLine, err := findDeclaration(file, symbol); err == nil {
			return file, declLine - 1, nil
		}
	}
	return file, line - 1, nil
}

// funcSymbol turns a runtime function name such as
// "example.com/pkg.(*T).M" into the declaration name "T.M". Dots in the
// last import path element are escaped by the linker, so the first dot
// after the last slash ends the package path.
func funcSymbol(name string) string {
	// Generic instantiations: F[...] or T[...].M
	if i := strings.Index(name, "["); i >= 0 {
		if j := strings.LastIndex(name, "]"); j > i {
			name = name[:i] + name[j+1:]
		}
	}

	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	i := strings.Index(name, ".")
	if i < 0 {
		return ""
	}
	name = name[i+1:]

	name = strings.TrimSuffix(name, "-fm")
	name = strings.ReplaceAll(name, "(*", "")
	name = strings.ReplaceAll(name, ")", "")
	return name
}

// undoGeneration maps a generated file back to the file it was produced
// from, when its second line carries the generation marker.
func (l *Locator) undoGeneration(file string, line int) (string, int) {
	if l.opts.GeneratedExt == "" || l.opts.GenerationMarker == "" {
		return file, line
	}
	if !strings.HasSuffix(file, l.opts.GeneratedExt) {
		return file, line
	}
	if !hasMarkerOnSecondLine(file, l.opts.GenerationMarker) {
		return file, line
	}

	original := strings.TrimSuffix(file, l.opts.GeneratedExt) + l.opts.SourceExt
	l.logger.Debug().
		Str("generated", file).
		Str("source", original).
		Int("offset", l.opts.HeaderLines).
		Msg("Mapped generated file to source")
	return original, line - l.opts.HeaderLines
}

func hasMarkerOnSecondLine(path, marker string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for i := 0; i < 2; i++ {
		if !scanner.Scan() {
			return false
		}
	}
	return strings.Contains(scanner.Text(), marker)
}

// RewritePath replaces a leading installed-library root with the
// development source root. Other paths are returned unchanged.
func (l *Locator) RewritePath(file string) string {
	root := l.opts.InstalledRoot
	if root == "" || !strings.HasPrefix(file, root) {
		return file
	}
	return l.opts.DevelRoot + strings.TrimPrefix(file, root)
}

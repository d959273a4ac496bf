package locator

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"
)

// Target names a source location from the command line:
//
//	path           first line of path
//	path:line      the given line
//	path#Name      the top-level Go declaration Name in path
//	path#Type.Meth a method declaration
type Target struct {
	Path   string
	Line   int
	Symbol string
}

// ParseTarget parses a command-line target specification
func ParseTarget(spec string) (Target, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Target{}, fmt.Errorf("%w: empty target", ErrSourceNotFound)
	}

	// A "#" only separates a symbol when what follows names one; paths
	// may contain "#" too.
	if i := strings.LastIndex(spec, "#"); i >= 0 {
		path, symbol := spec[:i], spec[i+1:]
		if path == "" || symbol == "" {
			return Target{}, fmt.Errorf("%w: malformed target %q, want path#Name", ErrSourceNotFound, spec)
		}
		if isSymbol(symbol) {
			return Target{Path: path, Symbol: symbol}, nil
		}
	}

	if i := strings.LastIndex(spec, ":"); i > 0 {
		if line, err := strconv.Atoi(spec[i+1:]); err == nil {
			if line < 1 {
				return Target{}, fmt.Errorf("%w: line must be positive in %q", ErrSourceNotFound, spec)
			}
			return Target{Path: spec[:i], Line: line}, nil
		}
	}

	return Target{Path: spec, Line: 1}, nil
}

// isSymbol reports whether s is Name or Type.Method
func isSymbol(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return false
	}
	for _, part := range parts {
		if !token.IsIdentifier(part) {
			return false
		}
	}
	return true
}

// SourcePosition resolves the target. Symbol targets are looked up by
// parsing the file as Go source.
func (t Target) SourcePosition() (string, int, error) {
	if t.Path == "" {
		return "", 0, fmt.Errorf("%w: target has no path", ErrSourceNotFound)
	}
	if t.Symbol == "" {
		line := t.Line
		if line < 1 {
			line = 1
		}
		return t.Path, line, nil
	}

	line, err := findDeclaration(t.Path, t.Symbol)
	if err != nil {
		return "", 0, err
	}
	return t.Path, line, nil
}

// findDeclaration returns the 1-based line of the top-level declaration
// named symbol in the Go file at path.
func findDeclaration(path, symbol string) (int, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.SkipObjectResolution)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrSourceNotFound, err)
	}

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if declName(d) == symbol {
				return fset.Position(d.Pos()).Line, nil
			}
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *ast.TypeSpec:
					if s.Name.Name == symbol {
						return fset.Position(s.Pos()).Line, nil
					}
				case *ast.ValueSpec:
					for _, name := range s.Names {
						if name.Name == symbol {
							return fset.Position(name.Pos()).Line, nil
						}
					}
				}
			}
		}
	}

	return 0, fmt.Errorf("%w: no declaration of %s in %s", ErrSourceNotFound, symbol, path)
}

// declName returns Name for functions and Type.Name for methods
func declName(d *ast.FuncDecl) string {
	if d.Recv == nil || len(d.Recv.List) == 0 {
		return d.Name.Name
	}

	expr := d.Recv.List[0].Type
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	// Strip type parameters from generic receivers
	switch x := expr.(type) {
	case *ast.IndexExpr:
		expr = x.X
	case *ast.IndexListExpr:
		expr = x.X
	}
	if ident, ok := expr.(*ast.Ident); ok {
		return ident.Name + "." + d.Name.Name
	}
	return d.Name.Name
}

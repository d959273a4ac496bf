package locator

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		name     string
		spec     string
		expected Target
		wantErr  bool
	}{
		{name: "path only", spec: "src/sage/all.py", expected: Target{Path: "src/sage/all.py", Line: 1}},
		{name: "path and line", spec: "src/sage/all.py:120", expected: Target{Path: "src/sage/all.py", Line: 120}},
		{name: "surrounding space", spec: "  a.py:3 ", expected: Target{Path: "a.py", Line: 3}},
		{name: "symbol", spec: "pkg/server.go#Serve", expected: Target{Path: "pkg/server.go", Symbol: "Serve"}},
		{name: "method symbol", spec: "pkg/server.go#Server.Close", expected: Target{Path: "pkg/server.go", Symbol: "Server.Close"}},
		{name: "colon without number", spec: "notes:draft.txt", expected: Target{Path: "notes:draft.txt", Line: 1}},
		{name: "zero line", spec: "a.py:0", wantErr: true},
		{name: "empty", spec: "", wantErr: true},
		{name: "missing symbol", spec: "a.go#", wantErr: true},
		{name: "missing path", spec: "#Serve", wantErr: true},
		{name: "hash in directory with line", spec: "dir#x/file.go:3", expected: Target{Path: "dir#x/file.go", Line: 3}},
		{name: "hash in file name", spec: "notes#1.txt", expected: Target{Path: "notes#1.txt", Line: 1}},
		{name: "too many dots after hash", spec: "a.go#pkg.Type.Method", expected: Target{Path: "a.go#pkg.Type.Method", Line: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTarget(tt.spec)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrSourceNotFound))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

const declSource = `package shapes

import "math"

// Pi is here
const Pi = math.Pi

var (
	unit, zero = 1.0, 0.0
)

type Circle struct {
	R float64
}

type Box[T any] struct{ v T }

func Area(c Circle) float64 {
	return Pi * c.R * c.R
}

func (c *Circle) Grow(by float64) {
	c.R += by
}

func (b Box[T]) Get() T { return b.v }
`

func TestTarget_SourcePosition_Symbols(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shapes.go")
	writeFile(t, path, declSource)

	tests := []struct {
		symbol string
		line   int
	}{
		{symbol: "Pi", line: 6},
		{symbol: "zero", line: 9},
		{symbol: "Circle", line: 12},
		{symbol: "Area", line: 18},
		{symbol: "Circle.Grow", line: 22},
		{symbol: "Box.Get", line: 26},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			file, line, err := Target{Path: path, Symbol: tt.symbol}.SourcePosition()
			require.NoError(t, err)
			assert.Equal(t, path, file)
			assert.Equal(t, tt.line, line)
		})
	}

	_, _, err := Target{Path: path, Symbol: "Grow"}.SourcePosition()
	assert.True(t, errors.Is(err, ErrSourceNotFound))
}

func TestTarget_SourcePosition_Line(t *testing.T) {
	file, line, err := Target{Path: "a.py", Line: 0}.SourcePosition()
	require.NoError(t, err)
	assert.Equal(t, "a.py", file)
	assert.Equal(t, 1, line)

	_, _, err = Target{}.SourcePosition()
	assert.True(t, errors.Is(err, ErrSourceNotFound))
}

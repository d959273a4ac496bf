package template

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplate_Fields(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "no placeholders",
			text:     "echo hello",
			expected: nil,
		},
		{
			name:     "braced and bare",
			text:     "a ${x} $y $$z",
			expected: []string{"x", "y"},
		},
		{
			name:     "duplicates collapse",
			text:     "${file} ${line} ${file}",
			expected: []string{"file", "line"},
		},
		{
			name:     "editor default",
			text:     "emacs ${opts} +${line} ${file}",
			expected: []string{"opts", "line", "file"},
		},
		{
			name:     "lone delimiter is not a field",
			text:     "cost $ 5 ${file}",
			expected: []string{"file"},
		},
		{
			name:     "bare name stops at non identifier",
			text:     "$file:$line",
			expected: []string{"file", "line"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, New(tt.text).Fields())
		})
	}
}

func TestTemplate_Substitute(t *testing.T) {
	tmpl := New("vi -c ${line} ${file}")

	got, err := tmpl.Substitute(Bindings{"file": "/src/a.py", "line": "12"})
	require.NoError(t, err)
	assert.Equal(t, "vi -c 12 /src/a.py", got)

	_, err = tmpl.Substitute(Bindings{"file": "/src/a.py"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingKey))
	assert.Contains(t, err.Error(), "line")
}

func TestTemplate_Substitute_Escapes(t *testing.T) {
	got, err := New("echo $$HOME ${file}").Substitute(Bindings{"file": "x"})
	require.NoError(t, err)
	assert.Equal(t, "echo $HOME x", got)
}

func TestTemplate_Substitute_InvalidPlaceholder(t *testing.T) {
	_, err := New("echo ${file} $ {line}").Substitute(Bindings{"file": "x", "line": "1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidPlaceholder))
}

func TestTemplate_SafeSubstitute(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		bindings Bindings
		expected string
	}{
		{
			name:     "fills opts only",
			text:     "emacs ${opts} +${line} ${file}",
			bindings: Bindings{"opts": "-nw"},
			expected: "emacs -nw +${line} ${file}",
		},
		{
			name:     "empty opts",
			text:     "emacs ${opts} +${line} ${file}",
			bindings: Bindings{"opts": ""},
			expected: "emacs  +${line} ${file}",
		},
		{
			name:     "no opts placeholder",
			text:     "vi -c ${line} ${file}",
			bindings: Bindings{"opts": "-R"},
			expected: "vi -c ${line} ${file}",
		},
		{
			name:     "invalid placeholder kept",
			text:     "a $ b $file",
			bindings: Bindings{},
			expected: "a $ b $file",
		},
		{
			name:     "escape collapses",
			text:     "$$opts",
			bindings: Bindings{"opts": "x"},
			expected: "$opts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, New(tt.text).SafeSubstitute(tt.bindings))
		})
	}
}

func TestTemplate_String(t *testing.T) {
	tmpl := New("kate -u --line +${line} ${file} &")
	assert.Equal(t, "kate -u --line +${line} ${file} &", tmpl.String())
	assert.False(t, tmpl.IsZero())
	assert.True(t, New("").IsZero())
}

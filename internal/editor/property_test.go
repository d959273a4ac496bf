package editor

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"srcedit-cli/internal/template"
)

// placeholderGen produces templates assembled from literal words and
// placeholders drawn from a small vocabulary.
func placeholderGen() gopter.Gen {
	vocabulary := []string{"vi", "-c", "+", "${file}", "${line}", "${opts}", "$file", "$line", "${col}", "$$", "&"}
	return gen.SliceOf(gen.IntRange(0, len(vocabulary)-1)).Map(func(picks []int) string {
		parts := make([]string, len(picks))
		for i, p := range picks {
			parts[i] = vocabulary[p]
		}
		return strings.Join(parts, " ")
	})
}

func TestStoreProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("accepted templates only use file and line, and always file", prop.ForAll(
		func(text string) bool {
			store := NewStore()
			if err := store.SetEditTemplate(text); err != nil {
				return !store.IsSet()
			}

			hasFile := false
			for _, field := range template.New(text).Fields() {
				if field != FieldFile && field != FieldLine {
					return false
				}
				if field == FieldFile {
					hasFile = true
				}
			}
			return hasFile
		},
		placeholderGen(),
	))

	properties.Property("re-setting the active template with its own text is stable", prop.ForAll(
		func(text string) bool {
			store := NewStore()
			if err := store.SetEditTemplate(text); err != nil {
				return true
			}

			first, _ := store.Template()
			if err := store.SetEditTemplate(first.String()); err != nil {
				return false
			}
			second, _ := store.Template()
			return first.String() == second.String()
		},
		placeholderGen(),
	))

	properties.Property("every known editor yields a valid template for any opts", prop.ForAll(
		func(name, opts string) bool {
			store := NewStore()
			return store.SetEditor(name, opts) == nil
		},
		gen.OneConstOf("vi", "vim", "emacs", "nedit-nc", "nedit-client", "ncl", "gedit", "kate"),
		gen.AlphaString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

package interactive

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"golang.org/x/term"
	"srcedit-cli/internal/editor"
	"srcedit-cli/internal/template"
	"srcedit-cli/pkg/models"
)

// CustomOption is the picker entry for entering a full template
const CustomOption = "Custom template"

// ErrNotInteractive is returned when stdin is not a terminal
var ErrNotInteractive = errors.New("setup needs an interactive terminal")

// Prompter handles interactive editor selection
type Prompter struct {
	isTerminal func() bool
}

// NewPrompter creates a new interactive prompter bound to stdin
func NewPrompter() *Prompter {
	return &Prompter{
		isTerminal: func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
	}
}

// ChooseEditor asks the user for an editor, its options, or a custom
// template. current preselects an editor name when it is known.
func (p *Prompter) ChooseEditor(current string) (*models.EditorChoice, error) {
	if !p.isTerminal() {
		return nil, ErrNotInteractive
	}

	options := EditorOptions()
	prompt := &survey.Select{
		Message: "Which editor should open source files?",
		Options: options,
		Help:    "Built-in editors know how to jump to a line. Pick the custom entry for anything else.",
	}
	if _, ok := editor.Default(current); ok {
		prompt.Default = current
	}

	var selected string
	if err := survey.AskOne(prompt, &selected); err != nil {
		return nil, err
	}

	var input string
	if selected == CustomOption {
		templatePrompt := &survey.Input{
			Message: "Edit template:",
			Help:    "Use ${file} and optionally ${line}, e.g. code --goto ${file}:${line}",
		}
		validator := func(ans interface{}) error {
			s, _ := ans.(string)
			return editor.ValidateTemplate(template.New(s))
		}
		if err := survey.AskOne(templatePrompt, &input, survey.WithValidator(validator)); err != nil {
			return nil, err
		}
	} else if hasOpts(selected) {
		optsPrompt := &survey.Input{
			Message: fmt.Sprintf("Options for %s (optional):", selected),
		}
		if err := survey.AskOne(optsPrompt, &input); err != nil {
			return nil, err
		}
	}

	return BuildChoice(selected, input)
}

// EditorOptions lists the picker entries: known editors, then CustomOption
func EditorOptions() []string {
	return append(editor.EditorNames(), CustomOption)
}

// BuildChoice turns a picker selection and the follow-up input into a
// validated editor choice.
func BuildChoice(selected, input string) (*models.EditorChoice, error) {
	input = strings.TrimSpace(input)

	if selected == CustomOption {
		if err := editor.ValidateTemplate(template.New(input)); err != nil {
			return nil, err
		}
		return &models.EditorChoice{Template: input}, nil
	}

	if _, ok := editor.Default(selected); !ok {
		return nil, fmt.Errorf("%w: %q", editor.ErrUnknownEditor, selected)
	}

	name := selected
	if input != "" {
		name = selected + " " + input
	}
	return &models.EditorChoice{Editor: name}, nil
}

func hasOpts(name string) bool {
	tmpl, ok := editor.Default(name)
	if !ok {
		return false
	}
	for _, field := range tmpl.Fields() {
		if field == editor.FieldOpts {
			return true
		}
	}
	return false
}

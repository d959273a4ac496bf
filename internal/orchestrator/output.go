package orchestrator

import (
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"srcedit-cli/internal/interfaces"
)

// OutputHandler implements the OutputHandler interface
type OutputHandler struct {
	out io.Writer
}

// NewOutputHandler creates a new output handler writing to os.Stdout
func NewOutputHandler() interfaces.OutputHandler {
	return &OutputHandler{out: os.Stdout}
}

// NewOutputHandlerTo creates an output handler writing to w
func NewOutputHandlerTo(w io.Writer) interfaces.OutputHandler {
	return &OutputHandler{out: w}
}

// WriteToStdout writes content followed by a newline
func (h *OutputHandler) WriteToStdout(content string) error {
	_, err := fmt.Fprintln(h.out, content)
	return err
}

// WriteToClipboard copies content to the system clipboard
func (h *OutputHandler) WriteToClipboard(content string) error {
	return clipboard.WriteAll(content)
}

// Package launcher hands editor command lines to the system shell.
package launcher

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/rs/zerolog"
	"srcedit-cli/internal/logging"
)

// DefaultShell runs command strings
const DefaultShell = "/bin/sh"

// Spawner starts a shell command without waiting for it
type Spawner interface {
	Spawn(command string) error
}

// ShellSpawner runs commands with `sh -c`, attached to the caller's
// terminal, and releases the process immediately after start.
type ShellSpawner struct {
	Shell  string
	logger zerolog.Logger
}

// NewShellSpawner creates a spawner using DefaultShell
func NewShellSpawner() *ShellSpawner {
	return &ShellSpawner{
		Shell:  DefaultShell,
		logger: logging.GetLogger("launcher"),
	}
}

// Spawn starts command and returns once the shell process exists. The
// editor's exit status and output are never observed.
func (s *ShellSpawner) Spawn(command string) error {
	shell := s.Shell
	if shell == "" {
		shell = DefaultShell
	}

	cmd := exec.Command(shell, "-c", command)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", shell, err)
	}

	s.logger.Debug().
		Str("command", command).
		Int("pid", cmd.Process.Pid).
		Msg("Spawned editor")

	if err := cmd.Process.Release(); err != nil {
		return fmt.Errorf("failed to release editor process: %w", err)
	}
	return nil
}

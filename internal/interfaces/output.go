package interfaces

// OutputHandler manages where resolved locations and commands are reported
type OutputHandler interface {
	// WriteToStdout writes content to standard output
	WriteToStdout(content string) error

	// WriteToClipboard copies content to the system clipboard
	WriteToClipboard(content string) error
}

// Launcher starts editor commands
type Launcher interface {
	// Spawn starts command in the shell without waiting for it
	Spawn(command string) error
}

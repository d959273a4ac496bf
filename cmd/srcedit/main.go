package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"srcedit-cli/internal/app"
	"srcedit-cli/pkg/models"
)

// Build-time variables injected via ldflags
var (
	version   = "dev"
	commit    = "unknown"
	date      = "unknown"
	goVersion = runtime.Version()
)

var rootCmd = &cobra.Command{
	Use:   "srcedit <target>",
	Short: "Open the source of a definition in your editor",
	Long: `srcedit opens a source file in your editor at the line where something is
defined.

A target is a file path, path:line, or path#Name for a top-level Go
declaration (methods are written path#Type.Method). Files under the
configured installed_root are opened from devel_root instead, and
generated files carrying the generation marker on their second line are
mapped back to the file they were generated from.

The editor command comes from, in order: --editor, --template or the
config file, then the EDITOR environment variable. Known editors are
listed by 'srcedit editors'.

The editor is started and srcedit exits without waiting for it. GUI
editors such as gedit and kate are unaffected, but a terminal editor
(vi, vim, emacs -nw) loses the terminal once the shell prompt returns
and is stopped by the shell. For terminal editors run the printed
command yourself:

  $(srcedit --dry-run path/to/file.go#Name)

or configure a GUI editor.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Check if version flag is set
		if versionFlag, _ := cmd.Flags().GetBool("version"); versionFlag {
			versionCmd.Run(cmd, args)
			return nil
		}

		if len(args) == 0 {
			return fmt.Errorf("missing target; see 'srcedit --help'")
		}

		request, err := buildRequestFromFlags(cmd, args)
		if err != nil {
			return fmt.Errorf("invalid arguments: %w", err)
		}

		return app.Run(request)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print detailed version information including build version, commit, date, and platform details.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("srcedit version %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built: %s\n", date)
		fmt.Printf("  go version: %s\n", goVersion)
		fmt.Printf("  platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

var locateCmd = &cobra.Command{
	Use:   "locate <target>",
	Short: "Print the file:line a target resolves to",
	Long:  "Resolve a target the same way an edit would, including path rewriting and generated-file mapping, and print file:line without starting an editor.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		request, err := buildRequestFromFlags(cmd, args)
		if err != nil {
			return fmt.Errorf("invalid arguments: %w", err)
		}

		if request.Copy, err = cmd.Flags().GetBool("copy"); err != nil {
			return fmt.Errorf("invalid copy flag: %w", err)
		}

		return app.Locate(request)
	},
}

var editorsCmd = &cobra.Command{
	Use:   "editors",
	Short: "List editors with built-in templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.ListEditors(cmd.OutOrStdout())
	},
}

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Print the edit template that would be used",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		request, err := buildRequestFromFlags(cmd, args)
		if err != nil {
			return fmt.Errorf("invalid arguments: %w", err)
		}

		return app.ShowTemplate(request)
	},
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Choose an editor interactively and save it to the config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		request, err := buildRequestFromFlags(cmd, args)
		if err != nil {
			return fmt.Errorf("invalid arguments: %w", err)
		}

		return app.Setup(request)
	},
}

func init() {
	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(locateCmd)
	rootCmd.AddCommand(editorsCmd)
	rootCmd.AddCommand(templateCmd)
	rootCmd.AddCommand(setupCmd)

	// Add command specific flags
	locateCmd.Flags().Bool("copy", false, "also copy file:line to the clipboard")

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file path (default ~/.config/srcedit/config.toml)")
	rootCmd.PersistentFlags().StringP("editor", "e", "", "editor to use, e.g. vim or 'emacs -nw' (remembered for this run)")
	rootCmd.PersistentFlags().StringP("template", "t", "", "edit template, e.g. 'vi -c ${line} ${file}'")
	rootCmd.PersistentFlags().CountP("verbose", "v", "increase log verbosity (-v info, -vv debug, -vvv trace)")
	rootCmd.Flags().Bool("version", false, "print version information")

	// Main command flags
	rootCmd.Flags().BoolP("background", "b", false, "run the editor in the background (append &)")
	rootCmd.Flags().BoolP("foreground", "f", false, "run the editor in the foreground (strip a trailing &)")
	rootCmd.Flags().BoolP("dry-run", "n", false, "print the editor command instead of running it")
}

// buildRequestFromFlags constructs an EditRequest from command flags and arguments
func buildRequestFromFlags(cmd *cobra.Command, args []string) (*models.EditRequest, error) {
	request := models.NewEditRequest()

	if len(args) > 0 {
		request.Target = strings.TrimSpace(args[0])
	}

	var err error

	if request.ConfigPath, err = cmd.Flags().GetString("config"); err != nil {
		return nil, fmt.Errorf("invalid config flag: %w", err)
	}

	if request.Editor, err = cmd.Flags().GetString("editor"); err != nil {
		return nil, fmt.Errorf("invalid editor flag: %w", err)
	}

	if request.Template, err = cmd.Flags().GetString("template"); err != nil {
		return nil, fmt.Errorf("invalid template flag: %w", err)
	}

	if request.Verbosity, err = cmd.Flags().GetCount("verbose"); err != nil {
		return nil, fmt.Errorf("invalid verbose flag: %w", err)
	}

	// Only the root command runs editors
	if cmd.Flags().Lookup("background") == nil {
		return request, nil
	}

	if request.Background, err = backgroundFromFlags(cmd); err != nil {
		return nil, err
	}

	if request.DryRun, err = cmd.Flags().GetBool("dry-run"); err != nil {
		return nil, fmt.Errorf("invalid dry-run flag: %w", err)
	}

	return request, nil
}

// backgroundFromFlags returns nil unless --background or --foreground was given
func backgroundFromFlags(cmd *cobra.Command) (*bool, error) {
	background := cmd.Flags().Changed("background")
	foreground := cmd.Flags().Changed("foreground")

	if background && foreground {
		return nil, fmt.Errorf("cannot use both --background and --foreground flags")
	}

	var value bool
	var err error
	switch {
	case background:
		value, err = cmd.Flags().GetBool("background")
	case foreground:
		value, err = cmd.Flags().GetBool("foreground")
		value = !value
	default:
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("invalid background flag: %w", err)
	}
	return &value, nil
}

func main() {
	// Disable usage on error to show only our custom error messages
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

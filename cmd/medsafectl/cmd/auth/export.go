package auth

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Gianmy02/MedSafe/cmd/medsafectl/internal/config"
	"github.com/Gianmy02/MedSafe/cmd/medsafectl/internal/ui"
)

var shellFormat string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the session bearer token as MEDSAFE_TOKEN",
	Long: `Prints shell commands that set MEDSAFE_TOKEN to the bearer token of the
current session, so scripts can call medsafectl without the stored cookie.

Supported shells:
  - posix (bash, zsh, sh) - default
  - fish
  - powershell

Usage:
  eval $(medsafectl auth export)
  eval (medsafectl auth export --shell fish)
  medsafectl auth export --shell powershell | Invoke-Expression`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())
		provider := cfg.ClientProvider

		principal, err := provider.WaitReady(cmd.Context())
		if err != nil {
			return err
		}
		if principal == nil {
			return fmt.Errorf("not logged in\n\nPlease run 'medsafectl auth login' first")
		}
		session, err := provider.Session()
		if err != nil {
			return err
		}
		tok := session.CachedToken()
		if tok == nil {
			return fmt.Errorf("the current session carries no bearer token")
		}

		shell := strings.ToLower(shellFormat)
		if shell == "" {
			shell = detectShell()
		}
		return printExport(os.Stdout, os.Stderr, shell, tok.AccessToken)
	},
}

func init() {
	exportCmd.Flags().StringVar(&shellFormat, "shell", "", "Shell format: posix, fish, powershell (auto-detected if not specified)")
}

// detectShell guesses the shell from $SHELL, defaulting to posix.
func detectShell() string {
	switch filepath.Base(os.Getenv("SHELL")) {
	case "fish":
		return "fish"
	case "pwsh", "powershell":
		return "powershell"
	default:
		return "posix"
	}
}

func printExport(out, hint io.Writer, shell, token string) error {
	var line, usage string
	switch shell {
	case "posix", "bash", "zsh", "sh":
		line = fmt.Sprintf("export %s=%q", config.EnvToken, token)
		usage = "eval $(medsafectl auth export)"
	case "fish":
		line = fmt.Sprintf("set -x %s %q", config.EnvToken, token)
		usage = "eval (medsafectl auth export --shell fish)"
	case "powershell", "pwsh", "ps1":
		line = fmt.Sprintf("$env:%s=%q", config.EnvToken, token)
		usage = "medsafectl auth export --shell powershell | Invoke-Expression"
	default:
		return fmt.Errorf("unsupported shell format: %s\n\nSupported formats: posix, fish, powershell", shell)
	}

	// Only hint when a human is looking, not when the output is eval'd.
	if ui.IsTerminal(os.Stdout) {
		fmt.Fprintln(hint, "# Run this command to configure your shell:")
		fmt.Fprintf(hint, "#   %s\n\n", usage)
	}
	fmt.Fprintln(out, line)
	return nil
}

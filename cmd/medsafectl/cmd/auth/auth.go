package auth

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/zitadel/oidc/v3/pkg/client/rp/cli"

	"github.com/Gianmy02/MedSafe/cmd/medsafectl/internal/config"
)

// AuthCmd is the parent command for sign-in operations
var AuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication",
	Long:  `Commands for signing in to MedSafe, signing out and checking the session.`,
}

var noBrowser bool

func init() {
	AuthCmd.PersistentFlags().BoolVar(&noBrowser, "no-browser", false, "Print URLs instead of opening them")

	AuthCmd.AddCommand(loginCmd)
	AuthCmd.AddCommand(logoutCmd)
	AuthCmd.AddCommand(statusCmd)
	AuthCmd.AddCommand(exportCmd)
}

// openURL prints url and, when allowed, opens it in the browser.
func openURL(cfg *config.GlobalConfig, url string) {
	pterm.Info.Printf("Apri questo indirizzo nel browser:\n  %s\n", url)
	if noBrowser || cfg.NonInteractive {
		return
	}
	// OpenBrowser is best effort and reports nothing.
	cli.OpenBrowser(url)
}

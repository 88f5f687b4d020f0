package auth

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Gianmy02/MedSafe/cmd/medsafectl/internal/config"
	"github.com/Gianmy02/MedSafe/pkg/sdk"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display authentication status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())
		provider := cfg.ClientProvider

		principal, err := provider.WaitReady(cmd.Context())
		if err != nil {
			return fmt.Errorf("session check did not finish: %w", err)
		}

		pterm.DefaultSection.Println("Authentication Status")
		pterm.Info.Printf("Environment: %s (%s)\n", cfg.Settings.Name, cfg.Settings.APIURL)
		if !cfg.Settings.Auth.Enabled {
			pterm.Info.Println("Authentication disabled; requests run as the local user")
		}
		if creds, err := provider.Credentials(); err == nil && creds != nil {
			pterm.Info.Printf("Credentials saved at: %s\n", creds.SavedAt.Local().Format(time.RFC1123))
		}

		if principal == nil {
			return fmt.Errorf("not logged in (run 'medsafectl auth login')")
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PROVIDER\tUSER\tROLES")
		fmt.Fprintf(w, "%s\t%s\t%s\n", principal.IdentityProvider, principal.UserDetails, strings.Join(principal.Roles, ", "))
		w.Flush()

		session, err := provider.Session()
		if err != nil {
			return err
		}
		tok := session.CachedToken()
		if tok == nil {
			pterm.Info.Println("No bearer token cached; API calls rely on the session cookie")
			return nil
		}

		info, err := sdk.InspectToken(tok.AccessToken)
		if err != nil {
			pterm.Warning.Printf("Bearer token is not a JWT: %v\n", err)
			return nil
		}
		pterm.DefaultSection.Println("Bearer Token")
		pterm.Info.Printf("Subject: %s\n", info.Subject)
		if info.Email != "" {
			pterm.Info.Printf("Email: %s\n", info.Email)
		}
		if len(info.Roles) > 0 {
			pterm.Info.Printf("Roles: %s\n", strings.Join(info.Roles, ", "))
		}
		if !info.ExpiresAt.IsZero() {
			if info.Expired(time.Now()) {
				pterm.Warning.Printf("Expired at: %s\n", info.ExpiresAt.Local().Format(time.RFC1123))
			} else {
				pterm.Info.Printf("Expires at: %s\n", info.ExpiresAt.Local().Format(time.RFC1123))
			}
		}
		return nil
	},
}

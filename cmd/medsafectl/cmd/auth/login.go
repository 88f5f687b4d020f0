package auth

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Gianmy02/MedSafe/cmd/medsafectl/internal/client"
	"github.com/Gianmy02/MedSafe/cmd/medsafectl/internal/config"
	"github.com/Gianmy02/MedSafe/cmd/medsafectl/internal/ui"
	"github.com/Gianmy02/MedSafe/pkg/sdk"
)

var direct bool

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to MedSafe",
	Long: `Signs in through the App Service authentication of the deployment.

By default the browser goes through the EasyAuth sign-in; afterwards, copy
the value of the AppServiceAuthSession cookie from the browser and paste
it here. It is stored in ~/.medsafe/credentials.json.

With --direct the CLI signs in against Microsoft Entra ID itself: paste
the full URL the browser lands on after sign-in, and the token it carries
is stored instead.`,
	Annotations: map[string]string{config.AnnotationSkipBootstrap: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())
		settings := cfg.Settings

		if !settings.Auth.Enabled {
			pterm.Info.Printf("Authentication is disabled for environment %q; nothing to do.\n", settings.Name)
			return nil
		}
		if cfg.NonInteractive {
			return fmt.Errorf("login needs an interactive terminal; use --token or %s for scripted use", config.EnvToken)
		}

		store, err := cfg.ClientProvider.Store()
		if err != nil {
			return err
		}

		creds := &sdk.Credentials{Environment: settings.Name, SavedAt: time.Now().UTC()}
		if direct {
			token, err := directLogin(cfg)
			if err != nil {
				return err
			}
			creds.BearerToken = token
		} else {
			openURL(cfg, sdk.LoginURL(settings, settings.IdentityOrigin()+sdk.IdentityPath))
			pterm.Info.Printf("Dopo l'accesso copia il valore del cookie %s.\n", sdk.SessionCookieName)
			cookie, err := ui.Secret(os.Stderr, "Cookie di sessione")
			if err != nil {
				return fmt.Errorf("failed to read session cookie: %w", err)
			}
			cookie = strings.TrimPrefix(strings.TrimSpace(cookie), sdk.SessionCookieName+"=")
			if cookie == "" {
				return fmt.Errorf("no session cookie given")
			}
			creds.SessionCookie = cookie
			creds.CookieName = sdk.SessionCookieName
		}

		if err := store.SaveCredentials(creds); err != nil {
			return fmt.Errorf("failed to save credentials: %w", err)
		}

		// Check the new credentials with a fresh session.
		verify := client.NewProvider(settings, store, cfg.Logger)
		principal, err := verify.WaitReady(cmd.Context())
		if err != nil {
			return err
		}
		if principal == nil {
			pterm.Warning.Println("Credenziali salvate, ma il server non riconosce la sessione.")
			return nil
		}

		fmt.Println("------------------------------------------------------------")
		pterm.Success.Println("Accesso effettuato!")
		fmt.Printf("Authenticated as: %s (%s)\n", principal.UserDetails, principal.IdentityProvider)
		return nil
	},
}

func directLogin(cfg *config.GlobalConfig) (string, error) {
	login, err := sdk.NewDirectLogin(cfg.Settings)
	if err != nil {
		return "", err
	}
	openURL(cfg, login.URL)
	pterm.Info.Println("Dopo l'accesso incolla l'indirizzo completo a cui il browser è stato reindirizzato.")

	redirected, err := ui.Secret(os.Stderr, "URL di ritorno")
	if err != nil {
		return "", fmt.Errorf("failed to read redirect url: %w", err)
	}
	token, err := login.ParseRedirect(redirected)
	if err != nil {
		return "", err
	}

	if info, err := sdk.InspectToken(token); err == nil {
		pterm.Info.Printf("Token per %s, valido fino a %s\n", info.Email, info.ExpiresAt.Local().Format(time.RFC1123))
	}
	return token, nil
}

func init() {
	loginCmd.Flags().BoolVar(&direct, "direct", false, "Sign in against Entra ID directly and store the returned token")
}

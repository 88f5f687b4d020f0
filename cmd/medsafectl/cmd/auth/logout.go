package auth

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Gianmy02/MedSafe/cmd/medsafectl/internal/config"
	"github.com/Gianmy02/MedSafe/pkg/sdk"
)

var localOnly bool

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out from MedSafe",
	Long: `Deletes the stored credentials and, unless --local-only is given, ends
the App Service and Entra ID browser sessions as well.`,
	Annotations: map[string]string{config.AnnotationSkipBootstrap: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		store, err := cfg.ClientProvider.Store()
		if err != nil {
			return err
		}
		if err := store.DeleteCredentials(); err != nil {
			return fmt.Errorf("failed to delete credentials: %w", err)
		}

		settings := cfg.Settings
		if settings.Auth.Enabled && !localOnly {
			providerLogout := sdk.ProviderLogoutURL(settings, settings.IdentityOrigin())
			openURL(cfg, sdk.EasyAuthLogoutURL(settings, providerLogout))
		}

		pterm.Success.Println("Logged out successfully")
		return nil
	},
}

func init() {
	logoutCmd.Flags().BoolVar(&localOnly, "local-only", false, "Only delete the stored credentials")
}

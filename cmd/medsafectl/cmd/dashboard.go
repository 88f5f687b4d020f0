package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Gianmy02/MedSafe/cmd/medsafectl/internal/ui"
	"github.com/Gianmy02/MedSafe/cmd/medsafectl/internal/view"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show who you are and what you can do",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := ui.Load(cmd.Context())
		if err != nil {
			return err
		}

		d := view.NewDashboard(env.API, env.Ready)
		env.Spin("Caricamento...", func() { d.Load(cmd.Context()) })
		if d.Failed() {
			return d.Err()
		}

		pterm.DefaultSection.Println(env.Config.Settings.AppName)
		pterm.Info.Printf("Benvenuto, %s (%s)\n", d.User.DisplayName(), d.User.Role.Label())
		if !d.User.Enabled {
			pterm.Warning.Println("Il tuo account è disabilitato: contatta un amministratore")
		}

		items := make([]pterm.BulletListItem, 0, len(d.Cards))
		for _, c := range d.Cards {
			items = append(items, pterm.BulletListItem{
				Level: 0,
				Text:  fmt.Sprintf("%s: %s (medsafectl %s)", c.Title, c.Description, c.Command),
			})
		}
		return pterm.DefaultBulletList.WithItems(items).Render()
	},
}

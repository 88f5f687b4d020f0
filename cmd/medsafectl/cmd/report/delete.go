package report

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Gianmy02/MedSafe/cmd/medsafectl/internal/dirctx"
	"github.com/Gianmy02/MedSafe/cmd/medsafectl/internal/ui"
	"github.com/Gianmy02/MedSafe/cmd/medsafectl/internal/view"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete one of your reports",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := reportID(cmd.Context(), args)
		if err != nil {
			return err
		}
		env, err := ui.Load(cmd.Context())
		if err != nil {
			return err
		}

		m := view.NewMyReports(env.API, env.API, env.Ready)
		env.Spin("Caricamento referti...", func() { m.Load(cmd.Context()) })
		if m.Failed() {
			return m.Err()
		}
		r, err := m.Select(id)
		if err != nil {
			return err
		}

		if !deleteYes {
			ok, err := ui.Confirm(env.Config, fmt.Sprintf("Eliminare il referto %d di %s?", r.ID, r.PatientName), false)
			if err != nil {
				return err
			}
			if !ok {
				pterm.Info.Println("Eliminazione annullata")
				return nil
			}
		}

		if err := m.Delete(cmd.Context(), id); err != nil {
			return err
		}
		if m.Failed() {
			return m.Err()
		}

		if sel, _ := dirctx.Read(); sel != nil && sel.ReportID == id {
			_ = dirctx.Clear()
		}
		return ui.Result(&m.Status)
	},
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Do not ask for confirmation")
}

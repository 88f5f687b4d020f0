package report

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Gianmy02/MedSafe/cmd/medsafectl/internal/ui"
	"github.com/Gianmy02/MedSafe/cmd/medsafectl/internal/view"
	"github.com/Gianmy02/MedSafe/pkg/sdk"
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "List the reports you wrote",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := ui.Load(cmd.Context())
		if err != nil {
			return err
		}

		m := view.NewMyReports(env.API, env.API, env.Ready)
		env.Spin("Caricamento referti...", func() { m.Load(cmd.Context()) })
		if m.Failed() {
			return m.Err()
		}
		if len(m.Reports) == 0 {
			pterm.Info.Println(m.Message)
			return nil
		}
		return ui.ReportTable(m.Reports, func(sdk.Report) bool { return true })
	},
}

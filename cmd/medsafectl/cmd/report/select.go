package report

import (
	"fmt"
	"slices"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Gianmy02/MedSafe/cmd/medsafectl/internal/dirctx"
	"github.com/Gianmy02/MedSafe/cmd/medsafectl/internal/ui"
	"github.com/Gianmy02/MedSafe/pkg/sdk"
)

var clearSelection bool

var selectCmd = &cobra.Command{
	Use:   "select [id]",
	Short: "Remember a report for the following commands in this directory",
	Long: `Writes the report ID to a .medsafe file in the current directory, so that
edit, delete and download can be run without repeating it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if clearSelection {
			if err := dirctx.Clear(); err != nil {
				return err
			}
			pterm.Success.Println("Selezione rimossa")
			return nil
		}
		if len(args) == 0 {
			sel, err := dirctx.Read()
			if err != nil {
				return err
			}
			if sel == nil {
				pterm.Info.Println("Nessun referto selezionato")
				return nil
			}
			pterm.Info.Printf("Referto selezionato: %d (%s)\n", sel.ReportID, sel.FiscalCode)
			return nil
		}

		id, err := reportID(cmd.Context(), args)
		if err != nil {
			return err
		}
		env, err := ui.Load(cmd.Context())
		if err != nil {
			return err
		}
		if _, err := env.Ready.Wait(cmd.Context()); err != nil {
			return err
		}

		reports, err := env.API.ListReports(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list reports: %w", err)
		}
		i := slices.IndexFunc(reports, func(r sdk.Report) bool { return r.ID == id })
		if i < 0 {
			return fmt.Errorf("referto %d non trovato", id)
		}

		settings := env.Config.Settings
		sel := &dirctx.Selection{
			Version:     dirctx.FileVersion,
			ReportID:    id,
			FiscalCode:  reports[i].FiscalCode,
			FileName:    reports[i].FileName,
			Environment: settings.Name,
			APIURL:      settings.APIURL,
			SelectedAt:  time.Now().UTC(),
		}
		if err := dirctx.Write(sel); err != nil {
			return err
		}
		pterm.Success.Printf("Referto %d selezionato\n", id)
		return nil
	},
}

func init() {
	selectCmd.Flags().BoolVar(&clearSelection, "clear", false, "Forget the selected report")
}

package patient

import (
	"errors"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Gianmy02/MedSafe/cmd/medsafectl/internal/ui"
	"github.com/Gianmy02/MedSafe/cmd/medsafectl/internal/view"
)

// PatientCmd is the parent command for patient lookups
var PatientCmd = &cobra.Command{
	Use:     "patient",
	Aliases: []string{"pazienti"},
	Short:   "Look up patients",
}

var searchCmd = &cobra.Command{
	Use:   "search <fiscal-code>",
	Short: "Find the patients matching a fiscal code",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := ui.Load(cmd.Context())
		if err != nil {
			return err
		}

		p := view.NewPatientSearch(env.API, env.Ready)
		if len(args) > 0 {
			p.Term = args[0]
		}
		var runErr error
		env.Spin("Ricerca pazienti...", func() { runErr = p.Run(cmd.Context()) })

		var verr *view.ValidationError
		if errors.As(runErr, &verr) {
			return verr
		}
		if p.Failed() {
			return p.Err()
		}

		data := pterm.TableData{{"CODICE FISCALE", "REFERTI", "ULTIMO CARICAMENTO"}}
		for _, pt := range p.Patients {
			last := "-"
			if !pt.LatestUpload.IsZero() {
				last = pt.LatestUpload.Local().Format("02/01/2006 15:04")
			}
			data = append(data, []string{pt.FiscalCode, strconv.Itoa(pt.ReportCount), last})
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
			return err
		}
		pterm.Info.Printf("Per i dettagli: medsafectl report search --cf %s\n", p.Patients[0].FiscalCode)
		return nil
	},
}

func init() {
	PatientCmd.AddCommand(searchCmd)
}

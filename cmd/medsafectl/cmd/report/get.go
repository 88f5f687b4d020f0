package report

import (
	"errors"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Gianmy02/MedSafe/cmd/medsafectl/internal/ui"
	"github.com/Gianmy02/MedSafe/pkg/sdk"
)

var getCmd = &cobra.Command{
	Use:   "get <file-name>",
	Short: "Show the report stored under a file name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := ui.Load(cmd.Context())
		if err != nil {
			return err
		}
		if _, err := env.Ready.Wait(cmd.Context()); err != nil {
			return err
		}

		r, err := env.API.ReportByFileName(cmd.Context(), args[0])
		if err != nil {
			if errors.Is(err, sdk.ErrNotFound) {
				return fmt.Errorf("nessun referto con nome file %q", args[0])
			}
			return err
		}
		printReport(r)
		return nil
	},
}

func printReport(r *sdk.Report) {
	pterm.DefaultSection.Printf("Referto %d\n", r.ID)
	rows := [][2]string{
		{"Paziente", r.PatientName},
		{"Codice fiscale", r.FiscalCode},
		{"Esame", r.ExamType.Label()},
		{"Autore", r.AuthorEmail},
		{"Caricato", ui.FormatTime(r.UploadedAt)},
		{"File", r.FileName},
		{"Referto", r.ReportText},
		{"Conclusioni", r.Conclusions},
	}
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		fmt.Printf("%-15s %s\n", row[0]+":", row[1])
	}
}

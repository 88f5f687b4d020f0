package report

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Gianmy02/MedSafe/cmd/medsafectl/internal/ui"
	"github.com/Gianmy02/MedSafe/cmd/medsafectl/internal/view"
	"github.com/Gianmy02/MedSafe/pkg/sdk"
)

var editFields struct {
	patient     string
	fiscalCode  string
	exam        string
	text        string
	conclusions string
}

var editCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit one of your reports",
	Long: `Edits a report you wrote. Fields given as flags are replaced; in an
interactive terminal the remaining fields are asked for, with the current
value kept on an empty answer.`,
	Args: cobra.MaximumNArgs(1),
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

		flags := cmd.Flags()
		apply := []struct {
			flag  string
			value string
			dst   *string
		}{
			{"patient", editFields.patient, &r.PatientName},
			{"cf", editFields.fiscalCode, &r.FiscalCode},
			{"text", editFields.text, &r.ReportText},
			{"conclusions", editFields.conclusions, &r.Conclusions},
		}
		changed := flags.Changed("exam")
		for _, a := range apply {
			if flags.Changed(a.flag) {
				*a.dst = a.value
				changed = true
			}
		}
		if flags.Changed("exam") {
			et, err := sdk.ParseExamType(editFields.exam)
			if err != nil {
				return err
			}
			r.ExamType = et
		}

		if !env.Config.NonInteractive && !changed {
			if err := promptEdit(&r); err != nil {
				return err
			}
		}

		if err := m.Save(cmd.Context(), r); err != nil {
			return err
		}
		return ui.Result(&m.Status)
	},
}

func promptEdit(r *sdk.Report) error {
	in := bufio.NewReader(os.Stdin)
	for _, f := range []struct {
		label string
		value *string
	}{
		{"Nome paziente", &r.PatientName},
		{"Codice fiscale", &r.FiscalCode},
		{"Testo referto", &r.ReportText},
		{"Conclusioni", &r.Conclusions},
	} {
		v, err := ui.Prompt(in, os.Stderr, f.label, *f.value)
		if err != nil {
			return err
		}
		*f.value = v
	}

	exam, err := ui.Prompt(in, os.Stderr, "Tipo esame", string(r.ExamType))
	if err != nil {
		return err
	}
	et, err := sdk.ParseExamType(exam)
	if err != nil {
		return fmt.Errorf("tipo esame non valido: %s", exam)
	}
	r.ExamType = et
	return nil
}

func init() {
	f := editCmd.Flags()
	f.StringVar(&editFields.patient, "patient", "", "New patient name")
	f.StringVar(&editFields.fiscalCode, "cf", "", "New fiscal code")
	f.StringVar(&editFields.exam, "exam", "", "New exam type")
	f.StringVar(&editFields.text, "text", "", "New report text")
	f.StringVar(&editFields.conclusions, "conclusions", "", "New conclusions")
}

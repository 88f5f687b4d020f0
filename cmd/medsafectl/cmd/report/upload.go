package report

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Gianmy02/MedSafe/cmd/medsafectl/internal/ui"
	"github.com/Gianmy02/MedSafe/cmd/medsafectl/internal/view"
)

var uploadForm view.UploadForm

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload a new report with its image or PDF",
	Long: `Uploads a report. The attachment must be a .png, .jpg, .jpeg or .pdf
file. Missing fields are asked for interactively unless --non-interactive
is set. The author is always the signed-in user.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := ui.Load(cmd.Context())
		if err != nil {
			return err
		}

		form := uploadForm
		if !env.Config.NonInteractive {
			if err := promptUpload(&form); err != nil {
				return err
			}
		}
		if form.FileName == "" && form.FilePath != "" {
			base := filepath.Base(form.FilePath)
			form.FileName = strings.TrimSuffix(base, filepath.Ext(base))
		}

		u := view.NewUpload(env.API, env.API, env.Ready, env.Config.Settings.Features)
		var submitErr error
		env.Spin("Caricamento referto...", func() { submitErr = u.Submit(cmd.Context(), form) })

		var verr *view.ValidationError
		if errors.As(submitErr, &verr) {
			return fmt.Errorf("%s: %s", verr.Field, verr.Message)
		}
		return ui.Result(&u.Status)
	},
}

func promptUpload(form *view.UploadForm) error {
	r := bufio.NewReader(os.Stdin)
	fields := []struct {
		label string
		value *string
	}{
		{"Nome paziente", &form.PatientName},
		{"Codice fiscale", &form.FiscalCode},
		{"Tipo esame (TAC, Radiografia, Ecografia, Risonanza, Esami_Laboratorio)", &form.ExamType},
		{"Testo referto", &form.ReportText},
		{"Conclusioni", &form.Conclusions},
		{"File (png, jpg, jpeg, pdf)", &form.FilePath},
	}
	for _, f := range fields {
		if *f.value != "" {
			continue
		}
		v, err := ui.Prompt(r, os.Stderr, f.label, "")
		if err != nil {
			return err
		}
		*f.value = v
	}
	return nil
}

func init() {
	f := uploadCmd.Flags()
	f.StringVar(&uploadForm.PatientName, "patient", "", "Patient full name")
	f.StringVar(&uploadForm.FiscalCode, "cf", "", "Patient fiscal code")
	f.StringVar(&uploadForm.ExamType, "exam", "", "Exam type")
	f.StringVar(&uploadForm.ReportText, "text", "", "Report text")
	f.StringVar(&uploadForm.Conclusions, "conclusions", "", "Conclusions")
	f.StringVar(&uploadForm.FileName, "name", "", "Name the report is stored under (defaults to the file name)")
	f.StringVar(&uploadForm.FilePath, "file", "", "Image or PDF to attach")
}

package view

import (
	"context"
	"os"
	"strings"

	"github.com/Gianmy02/MedSafe/pkg/sdk"
)

// UploadForm is what the user fills in to create a report.
type UploadForm struct {
	PatientName string
	FiscalCode  string
	ExamType    string
	ReportText  string
	Conclusions string
	// FileName is the name the report is stored under.
	FileName string
	// FilePath points at the image or PDF to attach.
	FilePath string
}

// Upload creates new reports on behalf of the current user.
type Upload struct {
	Status
	User *sdk.User

	// ReadFile loads the attachment. Defaults to os.ReadFile.
	ReadFile func(name string) ([]byte, error)

	reports  ReportAPI
	users    UserAPI
	ready    Bootstrap
	features sdk.FeatureSettings
}

func NewUpload(reports ReportAPI, users UserAPI, ready Bootstrap, features sdk.FeatureSettings) *Upload {
	return &Upload{
		ReadFile: os.ReadFile,
		reports:  reports,
		users:    users,
		ready:    ready,
		features: features,
	}
}

// ValidateUpload checks the form without touching the network or the file.
func ValidateUpload(form UploadForm) (sdk.ExamType, error) {
	if strings.TrimSpace(form.FilePath) == "" {
		return "", &ValidationError{Field: "file", Message: msgSelectFile}
	}
	if !sdk.ValidUploadName(form.FilePath) {
		return "", &ValidationError{Field: "file", Message: msgUnsupportedFile}
	}
	required := []struct{ field, value, msg string }{
		{"nomePaziente", form.PatientName, "Il nome del paziente è obbligatorio"},
		{"codiceFiscale", form.FiscalCode, "Il codice fiscale è obbligatorio"},
		{"tipoEsame", form.ExamType, "Il tipo di esame è obbligatorio"},
		{"nomeFile", form.FileName, "Il nome del file è obbligatorio"},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return "", &ValidationError{Field: r.field, Message: r.msg}
		}
	}
	examType, err := sdk.ParseExamType(form.ExamType)
	if err != nil {
		return "", &ValidationError{Field: "tipoEsame", Message: "Tipo di esame non valido: " + form.ExamType}
	}
	return examType, nil
}

// Submit validates the form, then uploads it with the caller as author.
// Validation errors are returned and leave the backend untouched.
func (u *Upload) Submit(ctx context.Context, form UploadForm) error {
	if !u.features.FileUpload {
		u.fail(msgUploadDisabled)
		return nil
	}

	examType, err := ValidateUpload(form)
	if err != nil {
		u.fail(err.Error())
		return err
	}

	u.loading()
	principal, err := u.ready.Wait(ctx)
	if err != nil {
		u.fail(errorText(err))
		return nil
	}
	if principal == nil {
		u.fail(msgNotLoggedIn)
		return nil
	}

	user, err := u.users.CurrentUser(ctx)
	if err != nil {
		u.fail(msgUserLoadFailed)
		return nil
	}
	u.User = user
	if !user.Enabled {
		u.fail(msgUserDisabled)
		return nil
	}

	data, err := u.ReadFile(form.FilePath)
	if err != nil {
		u.fail("Impossibile leggere il file: " + err.Error())
		return nil
	}

	err = u.reports.UploadReport(ctx, sdk.UploadReportInput{
		PatientName: strings.TrimSpace(form.PatientName),
		FiscalCode:  strings.ToUpper(strings.TrimSpace(form.FiscalCode)),
		ExamType:    examType,
		ReportText:  form.ReportText,
		Conclusions: form.Conclusions,
		AuthorEmail: user.Email,
		FileName:    strings.TrimSpace(form.FileName),
		SourceName:  form.FilePath,
		File:        data,
	})
	if err != nil {
		u.fail(msgUploadFailed)
		return nil
	}
	u.succeed(msgUploadOK)
	return nil
}

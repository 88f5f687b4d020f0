// Package view holds the page controllers of medsafectl. Each controller
// owns one screen's state, waits for the session bootstrap before any
// user-scoped read, and turns every failure into a user-facing message.
package view

import (
	"context"
	"errors"

	"github.com/Gianmy02/MedSafe/pkg/sdk"
)

// Phase is the lifecycle state of a view.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseError
	PhaseSuccess
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseError:
		return "error"
	case PhaseSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// Status is the phase plus the message shown to the user. Message is set on
// Error and optionally on Success.
type Status struct {
	Phase   Phase
	Message string
}

func (s *Status) loading() {
	s.Phase = PhaseLoading
	s.Message = ""
}

func (s *Status) fail(msg string) {
	s.Phase = PhaseError
	s.Message = msg
}

func (s *Status) succeed(msg string) {
	s.Phase = PhaseSuccess
	s.Message = msg
}

// Failed reports whether the view ended in the Error phase.
func (s *Status) Failed() bool {
	return s.Phase == PhaseError
}

// Err returns the view's error message as an error, or nil.
func (s *Status) Err() error {
	if s.Phase != PhaseError {
		return nil
	}
	return errors.New(s.Message)
}

// ValidationError is raised by local checks before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ReportAPI is the report half of the backend.
type ReportAPI interface {
	ListReports(ctx context.Context) ([]sdk.Report, error)
	ReportsByFiscalCode(ctx context.Context, fiscalCode string) ([]sdk.Report, error)
	ReportByFileName(ctx context.Context, fileName string) (*sdk.Report, error)
	ReportsByExamType(ctx context.Context, examType sdk.ExamType) ([]sdk.Report, error)
	ReportsByAuthor(ctx context.Context, email string) ([]sdk.Report, error)
	UploadReport(ctx context.Context, input sdk.UploadReportInput) error
	EditReport(ctx context.Context, report sdk.Report) error
	DeleteReport(ctx context.Context, id int64) error
	DownloadPDF(ctx context.Context, id int64) (*sdk.Download, error)
	DownloadImage(ctx context.Context, id int64) (*sdk.Download, error)
}

// UserAPI is the account half of the backend.
type UserAPI interface {
	CurrentUser(ctx context.Context) (*sdk.User, error)
	ListUsers(ctx context.Context) ([]sdk.User, error)
	EnableUser(ctx context.Context, id int64) error
	DisableUser(ctx context.Context, id int64) error
	UpdateProfile(ctx context.Context, user sdk.User) (*sdk.User, error)
	Genders(ctx context.Context) ([]sdk.Gender, error)
	Specializations(ctx context.Context) ([]string, error)
}

// API is everything the views call. *sdk.Client implements it.
type API interface {
	ReportAPI
	UserAPI
}

// Bootstrap is the one-shot session readiness signal. *sdk.Ready implements it.
type Bootstrap interface {
	Wait(ctx context.Context) (*sdk.Principal, error)
}

var _ API = (*sdk.Client)(nil)
var _ Bootstrap = (*sdk.Ready)(nil)

// Messages shown to the user.
const (
	msgNotLoggedIn       = "Utente non autenticato"
	msgUserLoadFailed    = "Errore nel recupero utente"
	msgReportsLoadFailed = "Errore durante il caricamento dei referti"
	msgSearchByCFFailed  = "Errore durante la ricerca per codice fiscale"
	msgSearchByExamFail  = "Errore durante la ricerca per tipo esame"
	msgNoReportsYet      = "Non hai ancora creato nessun referto"
	msgFiscalCodeNeeded  = "Inserisci un codice fiscale"
	msgNoPatientFound    = "Nessun paziente trovato con questo codice fiscale"
	msgSelectFile        = "Selezionare un file"
	msgUnsupportedFile   = "Formato file non supportato. Estensioni consentite: PNG, JPG, JPEG, PDF"
	msgUploadFailed      = "Errore durante il caricamento del referto"
	msgUploadOK          = "Referto caricato con successo!"
	msgUploadDisabled    = "Il caricamento dei referti è disabilitato in questo ambiente"
	msgUserDisabled      = "Il tuo account è disabilitato: non puoi caricare referti"
	msgEditOK            = "Referto modificato con successo"
	msgDeleteOK          = "Referto eliminato con successo"
	msgGenderRequired    = "Il genere è obbligatorio"
	msgSpecRequired      = "La specializzazione è obbligatoria"
	msgProfileLoadFailed = "Errore nel caricamento del profilo"
	msgProfileSaveFailed = "Errore nell'aggiornamento del profilo"
	msgProfileOK         = "Profilo aggiornato con successo!"
	msgUsersLoadFailed   = "Errore nel caricamento degli utenti"
	msgToggleFailed      = "Errore nel cambio stato dell'utente"
	msgPDFFailed         = "Errore durante il download del PDF"
	msgImageFailed       = "Errore durante il download dell'immagine"
	msgDownloadDisabled  = "Il download è disabilitato in questo ambiente"
)

func errorText(err error) string {
	if err == nil {
		return "Errore sconosciuto"
	}
	var apiErr *sdk.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

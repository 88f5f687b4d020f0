package view

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Gianmy02/MedSafe/pkg/sdk"
)

// MyReports lists the caller's own reports and edits or deletes them.
type MyReports struct {
	Status
	User    *sdk.User
	Reports []sdk.Report

	reports ReportAPI
	users   UserAPI
	ready   Bootstrap
}

func NewMyReports(reports ReportAPI, users UserAPI, ready Bootstrap) *MyReports {
	return &MyReports{reports: reports, users: users, ready: ready}
}

// Load waits for the bootstrap, resolves the caller and fetches the
// reports they authored. An empty list is not an error.
func (m *MyReports) Load(ctx context.Context) {
	m.loading()
	m.Reports = nil

	principal, err := m.ready.Wait(ctx)
	if err != nil {
		m.fail(errorText(err))
		return
	}
	if principal == nil {
		m.fail(msgNotLoggedIn)
		return
	}

	user, err := m.users.CurrentUser(ctx)
	if err != nil {
		m.fail(msgUserLoadFailed)
		return
	}
	if user.Email == "" {
		m.fail(msgNotLoggedIn)
		return
	}
	m.User = user

	reports, err := m.reports.ReportsByAuthor(ctx, user.Email)
	if err != nil {
		// The backend answers 500 when the author has no reports.
		if sdk.StatusCode(err) == http.StatusInternalServerError {
			m.succeed(msgNoReportsYet)
			return
		}
		m.fail(msgReportsLoadFailed + ": " + errorText(err))
		return
	}

	m.Reports = reports
	if len(reports) == 0 {
		m.succeed(msgNoReportsYet)
		return
	}
	m.succeed("")
}

// Select returns the loaded report with the given ID.
func (m *MyReports) Select(id int64) (sdk.Report, error) {
	r, ok := findReport(m.Reports, id)
	if !ok {
		return sdk.Report{}, &ValidationError{Field: "id", Message: fmt.Sprintf("Referto %d non trovato tra i tuoi referti", id)}
	}
	return r, nil
}

// Save sends the edited report and, once the backend accepts it, replaces
// the local copy.
func (m *MyReports) Save(ctx context.Context, updated sdk.Report) error {
	if _, err := m.Select(updated.ID); err != nil {
		m.fail(err.Error())
		return err
	}
	if m.User != nil {
		updated.AuthorEmail = m.User.Email
	}

	m.loading()
	if err := m.reports.EditReport(ctx, updated); err != nil {
		m.fail("Errore durante la modifica: " + errorText(err))
		return nil
	}
	replaceReport(m.Reports, updated)
	m.succeed(msgEditOK)
	return nil
}

// Delete removes the report remotely, then from the local list.
func (m *MyReports) Delete(ctx context.Context, id int64) error {
	if _, err := m.Select(id); err != nil {
		m.fail(err.Error())
		return err
	}

	m.loading()
	if err := m.reports.DeleteReport(ctx, id); err != nil {
		m.fail("Errore durante l'eliminazione: " + errorText(err))
		return nil
	}
	m.Reports = removeReport(m.Reports, id)
	m.succeed(msgDeleteOK)
	return nil
}

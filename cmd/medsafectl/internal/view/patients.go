package view

import (
	"context"
	"strings"
)

// PatientSearch finds the patients matching a fiscal code.
type PatientSearch struct {
	Status
	Term     string
	Patients []Patient

	reports ReportAPI
	ready   Bootstrap
}

func NewPatientSearch(reports ReportAPI, ready Bootstrap) *PatientSearch {
	return &PatientSearch{reports: reports, ready: ready}
}

// Run validates the term locally, then queries the reports of the fiscal
// code and groups them per patient.
func (p *PatientSearch) Run(ctx context.Context) error {
	p.Patients = nil
	term := strings.TrimSpace(p.Term)
	if term == "" {
		p.fail(msgFiscalCodeNeeded)
		return &ValidationError{Field: "codiceFiscale", Message: msgFiscalCodeNeeded}
	}

	p.loading()
	if _, err := p.ready.Wait(ctx); err != nil {
		p.fail(errorText(err))
		return nil
	}

	reports, err := p.reports.ReportsByFiscalCode(ctx, term)
	if err != nil {
		p.fail("Errore durante la ricerca: " + errorText(err))
		return nil
	}
	if len(reports) == 0 {
		p.fail(msgNoPatientFound)
		return nil
	}

	p.Patients = GroupByPatient(reports)
	p.succeed("")
	return nil
}

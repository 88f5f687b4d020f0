package view

import (
	"slices"
	"strings"
	"time"

	"github.com/Gianmy02/MedSafe/pkg/sdk"
)

// IntersectByID keeps the reports of first whose ID appears in every other
// set, in the order of first.
func IntersectByID(first []sdk.Report, others ...[]sdk.Report) []sdk.Report {
	out := make([]sdk.Report, 0, len(first))
outer:
	for _, r := range first {
		for _, set := range others {
			if !slices.ContainsFunc(set, func(o sdk.Report) bool { return o.ID == r.ID }) {
				continue outer
			}
		}
		out = append(out, r)
	}
	return out
}

// SortMineFirst moves the reports authored by email to the front. The sort
// is stable: reports of the same group keep their relative order. An empty
// email leaves the slice as it is.
func SortMineFirst(reports []sdk.Report, email string) {
	if email == "" {
		return
	}
	slices.SortStableFunc(reports, func(a, b sdk.Report) int {
		aMine, bMine := a.AuthorEmail == email, b.AuthorEmail == email
		switch {
		case aMine && !bMine:
			return -1
		case !aMine && bMine:
			return 1
		}
		return 0
	})
}

// FilterByPrefix returns the values starting with prefix, ignoring case.
func FilterByPrefix(values []string, prefix string) []string {
	prefix = strings.ToLower(prefix)
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.HasPrefix(strings.ToLower(v), prefix) {
			out = append(out, v)
		}
	}
	return out
}

// Patient summarizes the reports of one fiscal code.
type Patient struct {
	FiscalCode  string
	ReportCount int
	// LatestUpload is zero when no report carries a date.
	LatestUpload time.Time
}

// GroupByPatient groups reports by fiscal code, in order of first
// appearance.
func GroupByPatient(reports []sdk.Report) []Patient {
	index := map[string]int{}
	var out []Patient
	for _, r := range reports {
		i, ok := index[r.FiscalCode]
		if !ok {
			i = len(out)
			index[r.FiscalCode] = i
			out = append(out, Patient{FiscalCode: r.FiscalCode})
		}
		p := &out[i]
		p.ReportCount++
		if r.UploadedAt.After(p.LatestUpload) {
			p.LatestUpload = r.UploadedAt.Time
		}
	}
	return out
}

// replaceReport swaps the report with the same ID in place.
func replaceReport(reports []sdk.Report, updated sdk.Report) {
	i := slices.IndexFunc(reports, func(r sdk.Report) bool { return r.ID == updated.ID })
	if i >= 0 {
		reports[i] = updated
	}
}

func removeReport(reports []sdk.Report, id int64) []sdk.Report {
	return slices.DeleteFunc(reports, func(r sdk.Report) bool { return r.ID == id })
}

func findReport(reports []sdk.Report, id int64) (sdk.Report, bool) {
	i := slices.IndexFunc(reports, func(r sdk.Report) bool { return r.ID == id })
	if i < 0 {
		return sdk.Report{}, false
	}
	return reports[i], true
}

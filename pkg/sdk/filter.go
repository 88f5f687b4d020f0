package sdk

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/go-bexpr"
)

// FilterReports keeps the reports matching a go-bexpr expression, for
// example:
//
//	exam_type == "TAC" and author matches "@ospedale.it$"
//
// Selectors: id, patient, fiscal_code, exam_type, author, file, uploaded.
// An empty expression keeps everything.
func FilterReports(reports []Report, expr string) ([]Report, error) {
	if strings.TrimSpace(expr) == "" {
		return reports, nil
	}

	evaluator, err := bexpr.CreateEvaluator(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", expr, err)
	}

	out := make([]Report, 0, len(reports))
	for _, r := range reports {
		ok, err := evaluator.Evaluate(reportSelectors(r))
		if err != nil {
			return nil, fmt.Errorf("evaluate filter on report %d: %w", r.ID, err)
		}
		if ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func reportSelectors(r Report) map[string]any {
	uploaded := ""
	if !r.UploadedAt.IsZero() {
		uploaded = r.UploadedAt.Format(LocalDateTimeLayout)
	}
	return map[string]any{
		"id":          strconv.FormatInt(r.ID, 10),
		"patient":     r.PatientName,
		"fiscal_code": r.FiscalCode,
		"exam_type":   string(r.ExamType),
		"author":      r.AuthorEmail,
		"file":        r.FileName,
		"uploaded":    uploaded,
	}
}

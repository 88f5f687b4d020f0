package sdk_test

import (
	"testing"

	"github.com/Gianmy02/MedSafe/pkg/sdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterReports(t *testing.T) {
	reports := []sdk.Report{
		{ID: 1, PatientName: "Mario Rossi", ExamType: sdk.ExamTAC, AuthorEmail: "a@medsafe.it"},
		{ID: 2, PatientName: "Anna Bianchi", ExamType: sdk.ExamEcografia, AuthorEmail: "b@medsafe.it"},
		{ID: 3, PatientName: "Luca Rossi", ExamType: sdk.ExamTAC, AuthorEmail: "b@medsafe.it"},
	}

	tests := []struct {
		name string
		expr string
		want []int64
	}{
		{name: "empty keeps all", expr: "", want: []int64{1, 2, 3}},
		{name: "equality", expr: `exam_type == "TAC"`, want: []int64{1, 3}},
		{name: "conjunction", expr: `exam_type == "TAC" and author == "b@medsafe.it"`, want: []int64{3}},
		{name: "regex", expr: `patient matches "Rossi$"`, want: []int64{1, 3}},
		{name: "id", expr: `id != "2"`, want: []int64{1, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sdk.FilterReports(reports, tt.expr)
			require.NoError(t, err)

			ids := make([]int64, 0, len(got))
			for _, r := range got {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestFilterReports_InvalidExpression(t *testing.T) {
	_, err := sdk.FilterReports([]sdk.Report{{ID: 1}}, `exam_type ==`)
	assert.Error(t, err)
}

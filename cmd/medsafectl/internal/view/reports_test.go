package view_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gianmy02/MedSafe/cmd/medsafectl/internal/view"
	"github.com/Gianmy02/MedSafe/pkg/sdk"
)

func ids(reports []sdk.Report) []int64 {
	out := make([]int64, len(reports))
	for i, r := range reports {
		out[i] = r.ID
	}
	return out
}

func TestIntersectByID(t *testing.T) {
	first := []sdk.Report{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}
	second := []sdk.Report{{ID: 4}, {ID: 2}, {ID: 9}}

	assert.Equal(t, []int64{2, 4}, ids(view.IntersectByID(first, second)))
	assert.Empty(t, view.IntersectByID(first, nil))
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(view.IntersectByID(first)))
}

func TestSortMineFirst(t *testing.T) {
	const me = "dr@medsafe.it"

	t.Run("stable within groups", func(t *testing.T) {
		reports := []sdk.Report{
			{ID: 2, AuthorEmail: me},
			{ID: 1, AuthorEmail: me},
			{ID: 3, AuthorEmail: "other@medsafe.it"},
		}
		view.SortMineFirst(reports, me)
		assert.Equal(t, []int64{2, 1, 3}, ids(reports))
	})

	t.Run("mine move to front", func(t *testing.T) {
		reports := []sdk.Report{
			{ID: 3, AuthorEmail: "other@medsafe.it"},
			{ID: 2, AuthorEmail: me},
			{ID: 5, AuthorEmail: "x@medsafe.it"},
			{ID: 1, AuthorEmail: me},
		}
		view.SortMineFirst(reports, me)
		assert.Equal(t, []int64{2, 1, 3, 5}, ids(reports))
	})

	t.Run("empty email is a no-op", func(t *testing.T) {
		reports := []sdk.Report{{ID: 3}, {ID: 1, AuthorEmail: me}}
		view.SortMineFirst(reports, "")
		assert.Equal(t, []int64{3, 1}, ids(reports))
	})
}

func TestFilterByPrefix(t *testing.T) {
	specs := []string{"CARDIOLOGIA", "Chirurgia_Generale", "DERMATOLOGIA", "cardiochirurgia"}

	assert.Equal(t, []string{"CARDIOLOGIA", "cardiochirurgia"}, view.FilterByPrefix(specs, "card"))
	assert.Equal(t, []string{"Chirurgia_Generale"}, view.FilterByPrefix(specs, "CHI"))
	assert.Equal(t, specs, view.FilterByPrefix(specs, ""))
	assert.Empty(t, view.FilterByPrefix(specs, "zz"))
}

func TestGroupByPatient(t *testing.T) {
	older := sdk.Timestamp{Time: time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)}
	newer := sdk.Timestamp{Time: time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)}

	patients := view.GroupByPatient([]sdk.Report{
		{ID: 1, FiscalCode: "RSSMRA80A01H501U", UploadedAt: older},
		{ID: 2, FiscalCode: "BNCLGU75B02F205X"},
		{ID: 3, FiscalCode: "RSSMRA80A01H501U", UploadedAt: newer},
	})

	require.Len(t, patients, 2)
	assert.Equal(t, "RSSMRA80A01H501U", patients[0].FiscalCode)
	assert.Equal(t, 2, patients[0].ReportCount)
	assert.True(t, patients[0].LatestUpload.Equal(newer.Time))
	assert.Equal(t, 1, patients[1].ReportCount)
	assert.True(t, patients[1].LatestUpload.IsZero())
}

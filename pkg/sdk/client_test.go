package sdk_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Gianmy02/MedSafe/pkg/sdk"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleReports = []sdk.Report{
	{ID: 1, PatientName: "Mario Rossi", FiscalCode: "RSSMRA80A01H501U", ExamType: sdk.ExamTAC, AuthorEmail: "a@medsafe.it", FileName: "tac1"},
	{ID: 2, PatientName: "Anna Bianchi", FiscalCode: "BNCNNA85B41F205X", ExamType: sdk.ExamEcografia, AuthorEmail: "b@medsafe.it", FileName: "eco1"},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, r chi.Router) *sdk.Client {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return sdk.NewClient(srv.URL, sdk.WithHTTPClient(srv.Client()))
}

func TestClient_ReportQueries(t *testing.T) {
	var gotValues []string
	r := chi.NewRouter()
	r.Get("/referti", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, sampleReports)
	})
	for _, path := range []string{"/referti/codiceFiscale", "/referti/tipoEsame", "/referti/email"} {
		r.Get(path, func(w http.ResponseWriter, r *http.Request) {
			gotValues = append(gotValues, r.URL.Path+"="+r.URL.Query().Get("value"))
			writeJSON(w, http.StatusOK, sampleReports[:1])
		})
	}
	r.Get("/referti/nomeFile", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("value") != "tac1" {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, http.StatusOK, sampleReports[0])
	})

	client := newTestClient(t, r)
	ctx := context.Background()

	all, err := client.ListReports(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleReports, all)

	_, err = client.ReportsByFiscalCode(ctx, "RSSMRA80A01H501U")
	require.NoError(t, err)
	_, err = client.ReportsByExamType(ctx, sdk.ExamLaboratorio)
	require.NoError(t, err)
	_, err = client.ReportsByAuthor(ctx, "a+b@medsafe.it")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/referti/codiceFiscale=RSSMRA80A01H501U",
		"/referti/tipoEsame=Esami_Laboratorio",
		"/referti/email=a+b@medsafe.it",
	}, gotValues)

	one, err := client.ReportByFileName(ctx, "tac1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), one.ID)

	_, err = client.ReportByFileName(ctx, "missing")
	assert.ErrorIs(t, err, sdk.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, sdk.StatusCode(err))
}

func TestClient_UploadReport(t *testing.T) {
	var (
		fieldOrder []string
		values     = map[string]string{}
		fileName   string
		fileBody   string
	)
	r := chi.NewRouter()
	r.Post("/referti", func(w http.ResponseWriter, r *http.Request) {
		mr, err := r.MultipartReader()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			data, _ := io.ReadAll(part)
			fieldOrder = append(fieldOrder, part.FormName())
			if part.FileName() != "" {
				fileName = part.FileName()
				fileBody = string(data)
				continue
			}
			values[part.FormName()] = string(data)
		}
		w.WriteHeader(http.StatusCreated)
	})

	client := newTestClient(t, r)

	err := client.UploadReport(context.Background(), sdk.UploadReportInput{
		PatientName: "Mario Rossi",
		FiscalCode:  "rssmra80a01h501u",
		ExamType:    sdk.ExamTAC,
		ReportText:  "Nessuna anomalia",
		AuthorEmail: "doc@medsafe.it",
		FileName:    "tac-rossi",
		SourceName:  "/tmp/scans/Scan.JPG",
		File:        []byte("jpeg-bytes"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"nomePaziente", "codiceFiscale", "tipoEsame", "testoReferto", "conclusioni", "autoreEmail", "nomeFile", "file"}, fieldOrder)
	assert.Equal(t, "RSSMRA80A01H501U", values["codiceFiscale"])
	assert.Equal(t, "", values["conclusioni"])
	assert.Equal(t, "Scan.JPG", fileName)
	assert.Equal(t, "jpeg-bytes", fileBody)
}

func TestClient_UploadReportRejectsExtension(t *testing.T) {
	client := sdk.NewClient("http://127.0.0.1:0")

	err := client.UploadReport(context.Background(), sdk.UploadReportInput{
		PatientName: "x", FiscalCode: "y", ExamType: sdk.ExamTAC, FileName: "z",
		SourceName: "notes.docx",
	})
	assert.ErrorIs(t, err, sdk.ErrUnsupportedFile)
}

func TestClient_EditAndDelete(t *testing.T) {
	var edited sdk.Report
	var deleted string
	r := chi.NewRouter()
	r.Put("/referti", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&edited); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	r.Delete("/referti/{id}", func(w http.ResponseWriter, r *http.Request) {
		deleted = chi.URLParam(r, "id")
		if deleted == "404" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	client := newTestClient(t, r)
	ctx := context.Background()

	report := sampleReports[0]
	report.Conclusions = "Aggiornato"
	report.UploadedAt = sdk.Timestamp{Time: time.Date(2024, 1, 15, 10, 0, 0, 0, time.Local)}
	require.NoError(t, client.EditReport(ctx, report))
	assert.Equal(t, "Aggiornato", edited.Conclusions)
	assert.True(t, report.UploadedAt.Equal(edited.UploadedAt.Time))

	require.NoError(t, client.DeleteReport(ctx, 7))
	assert.Equal(t, "7", deleted)

	err := client.DeleteReport(ctx, 404)
	assert.ErrorIs(t, err, sdk.ErrNotFound)
}

func TestClient_Downloads(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/referti/download/pdf/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="tac-rossi.pdf"`)
		_, _ = w.Write([]byte("%PDF"))
	})
	r.Get("/referti/download/immagine/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png"))
	})

	client := newTestClient(t, r)

	pdf, err := client.DownloadPDF(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "tac-rossi.pdf", pdf.FileName)
	assert.Equal(t, []byte("%PDF"), pdf.Data)

	img, err := client.DownloadImage(context.Background(), 3)
	require.NoError(t, err)
	assert.Empty(t, img.FileName)
	assert.Equal(t, "image/png", img.ContentType)
}

func TestClient_Users(t *testing.T) {
	var toggled []string
	var enumHits atomic.Int32
	r := chi.NewRouter()
	r.Get("/users/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"id": 5, "email": "doc@medsafe.it", "fullName": "Laura Verdi", "role": "MEDICO",
			"genere": "FEMMINA", "enabled": true, "createdAt": "2024-01-15T10:00:00",
		})
	})
	r.Get("/users", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]string{"message": "Accesso negato"})
	})
	r.Put("/users/{id}/{action}", func(w http.ResponseWriter, r *http.Request) {
		toggled = append(toggled, chi.URLParam(r, "id")+":"+chi.URLParam(r, "action"))
	})
	r.Put("/users/profile", func(w http.ResponseWriter, r *http.Request) {
		var u sdk.User
		_ = json.NewDecoder(r.Body).Decode(&u)
		writeJSON(w, http.StatusOK, u)
	})
	r.Get("/users/specializzazioni", func(w http.ResponseWriter, r *http.Request) {
		enumHits.Add(1)
		writeJSON(w, http.StatusOK, []string{"CARDIOLOGIA", "MEDICINA_GENERALE"})
	})
	r.Get("/users/generi", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []string{"MASCHIO", "FEMMINA", "NON_SPECIFICATO"})
	})

	client := newTestClient(t, r)
	ctx := context.Background()

	me, err := client.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, sdk.GenderFemale, me.Gender)
	assert.Equal(t, "Dott.ssa Laura Verdi", me.DisplayName())
	assert.Equal(t, 2024, me.CreatedAt.Year())

	_, err = client.ListUsers(ctx)
	assert.ErrorIs(t, err, sdk.ErrForbidden)
	assert.Contains(t, err.Error(), "Accesso negato")

	require.NoError(t, client.EnableUser(ctx, 3))
	require.NoError(t, client.DisableUser(ctx, 4))
	assert.Equal(t, []string{"3:enable", "4:disable"}, toggled)

	me.Specialization = "CARDIOLOGIA"
	updated, err := client.UpdateProfile(ctx, *me)
	require.NoError(t, err)
	assert.Equal(t, "CARDIOLOGIA", updated.Specialization)

	for range 3 {
		specs, err := client.Specializations(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"CARDIOLOGIA", "MEDICINA_GENERALE"}, specs)
	}
	assert.EqualValues(t, 1, enumHits.Load())

	genders, err := client.Genders(ctx)
	require.NoError(t, err)
	assert.Equal(t, []sdk.Gender{sdk.GenderMale, sdk.GenderFemale, sdk.GenderUnspecified}, genders)
}

func TestTimestamp_Decode(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{in: `"2024-01-15T10:00:00"`, want: time.Date(2024, 1, 15, 10, 0, 0, 0, time.Local)},
		{in: `"2024-01-15T10:00:00.123"`, want: time.Date(2024, 1, 15, 10, 0, 0, 123000000, time.Local)},
		{in: `"2024-01-15T10:00:00Z"`, want: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)},
		{in: `null`, want: time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var ts sdk.Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.in), &ts))
			assert.True(t, tt.want.Equal(ts.Time), "got %s", ts.Time)
		})
	}

	var ts sdk.Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

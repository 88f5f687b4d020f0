package view_test

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gianmy02/MedSafe/cmd/medsafectl/internal/view"
	"github.com/Gianmy02/MedSafe/pkg/sdk"
)

func cardTitles(cards []view.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Title
	}
	return out
}

func TestDashboard(t *testing.T) {
	t.Run("enabled doctor", func(t *testing.T) {
		api := &fakeAPI{user: doctor(true)}
		d := view.NewDashboard(api, signedIn)
		d.Load(context.Background())

		require.Equal(t, view.PhaseSuccess, d.Phase)
		assert.Equal(t, []string{"Nuovo Referto", "I miei Referti", "Cerca Referti"}, cardTitles(d.Cards))
	})

	t.Run("disabled admin", func(t *testing.T) {
		admin := doctor(false)
		admin.Role = sdk.RoleAdmin
		api := &fakeAPI{user: admin}
		d := view.NewDashboard(api, signedIn)
		d.Load(context.Background())

		assert.Equal(t, []string{"I miei Referti", "Cerca Referti", "Elenco Utenti"}, cardTitles(d.Cards))
	})

	t.Run("no principal", func(t *testing.T) {
		api := &fakeAPI{user: doctor(true)}
		d := view.NewDashboard(api, readyWith{})
		d.Load(context.Background())

		assert.True(t, d.Failed())
		assert.Equal(t, "Utente non autenticato", d.Message)
		assert.Zero(t, api.total())
	})

	t.Run("user lookup fails", func(t *testing.T) {
		api := &fakeAPI{userErr: apiErr(http.StatusInternalServerError, "")}
		d := view.NewDashboard(api, signedIn)
		d.Load(context.Background())

		assert.Equal(t, "Errore nel recupero utente", d.Message)
		assert.EqualError(t, d.Err(), "Errore nel recupero utente")
	})
}

func TestMyReportsLoad(t *testing.T) {
	t.Run("server error means no reports", func(t *testing.T) {
		api := &fakeAPI{user: doctor(true), byAuthorEr: apiErr(http.StatusInternalServerError, "")}
		m := view.NewMyReports(api, api, signedIn)
		m.Load(context.Background())

		assert.Equal(t, view.PhaseSuccess, m.Phase)
		assert.Equal(t, "Non hai ancora creato nessun referto", m.Message)
		assert.Empty(t, m.Reports)
		assert.Equal(t, 1, api.count("ReportsByAuthor:dr@medsafe.it"))
	})

	t.Run("empty list", func(t *testing.T) {
		api := &fakeAPI{user: doctor(true)}
		m := view.NewMyReports(api, api, signedIn)
		m.Load(context.Background())

		assert.Equal(t, view.PhaseSuccess, m.Phase)
		assert.Equal(t, "Non hai ancora creato nessun referto", m.Message)
	})

	t.Run("other errors surface", func(t *testing.T) {
		api := &fakeAPI{user: doctor(true), byAuthorEr: apiErr(http.StatusForbidden, "vietato")}
		m := view.NewMyReports(api, api, signedIn)
		m.Load(context.Background())

		assert.True(t, m.Failed())
		assert.Equal(t, "Errore durante il caricamento dei referti: vietato", m.Message)
	})
}

func TestMyReportsEditAndDelete(t *testing.T) {
	api := &fakeAPI{
		user:     doctor(true),
		byAuthor: []sdk.Report{{ID: 1, PatientName: "Mario"}, {ID: 2, PatientName: "Luigi"}},
	}
	m := view.NewMyReports(api, api, signedIn)
	m.Load(context.Background())
	require.Equal(t, view.PhaseSuccess, m.Phase)

	r, err := m.Select(2)
	require.NoError(t, err)
	r.Conclusions = "Nessuna anomalia"
	require.NoError(t, m.Save(context.Background(), r))
	assert.Equal(t, "Referto modificato con successo", m.Message)
	require.Len(t, api.edited, 1)
	assert.Equal(t, "dr@medsafe.it", api.edited[0].AuthorEmail)
	assert.Equal(t, "Nessuna anomalia", m.Reports[1].Conclusions)

	require.NoError(t, m.Delete(context.Background(), 1))
	assert.Equal(t, "Referto eliminato con successo", m.Message)
	assert.Equal(t, []int64{2}, ids(m.Reports))

	_, err = m.Select(99)
	assert.Error(t, err)
	assert.Error(t, m.Delete(context.Background(), 99))
	assert.Equal(t, 1, api.count("DeleteReport"))
}

func TestMyReportsDeleteFailureKeepsReport(t *testing.T) {
	api := &fakeAPI{
		user:      doctor(true),
		byAuthor:  []sdk.Report{{ID: 1}},
		deleteErr: apiErr(http.StatusInternalServerError, "bloccato"),
	}
	m := view.NewMyReports(api, api, signedIn)
	m.Load(context.Background())

	require.NoError(t, m.Delete(context.Background(), 1))
	assert.Equal(t, "Errore durante l'eliminazione: bloccato", m.Message)
	assert.Len(t, m.Reports, 1)
}

func validForm() view.UploadForm {
	return view.UploadForm{
		PatientName: "Mario Rossi",
		FiscalCode:  "rssmra80a01h501u",
		ExamType:    "tac",
		ReportText:  "Esame nella norma",
		FileName:    "tac-rossi",
		FilePath:    "/tmp/scan.PNG",
	}
}

func TestUploadValidationSkipsBackend(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*view.UploadForm)
		field string
		msg   string
	}{
		{"no file", func(f *view.UploadForm) { f.FilePath = "" }, "file", "Selezionare un file"},
		{"bad extension", func(f *view.UploadForm) { f.FilePath = "notes.docx" }, "file", "Formato file non supportato. Estensioni consentite: PNG, JPG, JPEG, PDF"},
		{"no patient", func(f *view.UploadForm) { f.PatientName = " " }, "nomePaziente", "Il nome del paziente è obbligatorio"},
		{"unknown exam", func(f *view.UploadForm) { f.ExamType = "PET" }, "tipoEsame", "Tipo di esame non valido: PET"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{user: doctor(true)}
			u := view.NewUpload(api, api, signedIn, sdk.FeatureSettings{FileUpload: true})
			u.ReadFile = func(string) ([]byte, error) {
				t.Fatal("file read before validation")
				return nil, nil
			}
			form := validForm()
			tt.edit(&form)

			err := u.Submit(context.Background(), form)

			var verr *view.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.msg, u.Message)
			assert.Zero(t, api.total())
		})
	}
}

func TestUploadSubmit(t *testing.T) {
	api := &fakeAPI{user: doctor(true)}
	u := view.NewUpload(api, api, signedIn, sdk.FeatureSettings{FileUpload: true})
	u.ReadFile = func(name string) ([]byte, error) {
		assert.Equal(t, "/tmp/scan.PNG", name)
		return []byte("png"), nil
	}

	require.NoError(t, u.Submit(context.Background(), validForm()))

	assert.Equal(t, view.PhaseSuccess, u.Phase)
	assert.Equal(t, "Referto caricato con successo!", u.Message)
	require.Len(t, api.uploaded, 1)
	in := api.uploaded[0]
	assert.Equal(t, "RSSMRA80A01H501U", in.FiscalCode)
	assert.Equal(t, sdk.ExamTAC, in.ExamType)
	assert.Equal(t, "dr@medsafe.it", in.AuthorEmail)
	assert.Equal(t, []byte("png"), in.File)
}

func TestUploadRefusals(t *testing.T) {
	t.Run("feature off", func(t *testing.T) {
		api := &fakeAPI{user: doctor(true)}
		u := view.NewUpload(api, api, signedIn, sdk.FeatureSettings{})
		require.NoError(t, u.Submit(context.Background(), validForm()))
		assert.True(t, u.Failed())
		assert.Zero(t, api.total())
	})

	t.Run("disabled account", func(t *testing.T) {
		api := &fakeAPI{user: doctor(false)}
		u := view.NewUpload(api, api, signedIn, sdk.FeatureSettings{FileUpload: true})
		u.ReadFile = func(string) ([]byte, error) { return []byte("x"), nil }
		require.NoError(t, u.Submit(context.Background(), validForm()))
		assert.Equal(t, "Il tuo account è disabilitato: non puoi caricare referti", u.Message)
		assert.Zero(t, api.count("UploadReport"))
	})

	t.Run("backend failure", func(t *testing.T) {
		api := &fakeAPI{user: doctor(true), uploadErr: apiErr(http.StatusBadRequest, "")}
		u := view.NewUpload(api, api, signedIn, sdk.FeatureSettings{FileUpload: true})
		u.ReadFile = func(string) ([]byte, error) { return []byte("x"), nil }
		require.NoError(t, u.Submit(context.Background(), validForm()))
		assert.Equal(t, "Errore durante il caricamento del referto", u.Message)
	})
}

func TestProfile(t *testing.T) {
	api := &fakeAPI{
		user:    doctor(true),
		genders: []sdk.Gender{sdk.GenderMale, sdk.GenderFemale, sdk.GenderUnspecified},
		specs:   []string{"CARDIOLOGIA", "CHIRURGIA_GENERALE", "RADIOLOGIA"},
	}
	p := view.NewProfile(api, signedIn, nil)
	p.Load(context.Background())
	require.Equal(t, view.PhaseSuccess, p.Phase)
	assert.Equal(t, []string{"CARDIOLOGIA", "CHIRURGIA_GENERALE"}, p.Suggest("c"))

	err := p.Save(context.Background(), "", "RADIOLOGIA")
	var verr *view.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Il genere è obbligatorio", p.Message)

	err = p.Save(context.Background(), "FEMMINA", " ")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "La specializzazione è obbligatoria", p.Message)
	assert.Zero(t, api.count("UpdateProfile"))

	require.NoError(t, p.Save(context.Background(), "maschio", "RADIOLOGIA"))
	assert.Equal(t, "Profilo aggiornato con successo!", p.Message)
	require.Len(t, api.profiles, 1)
	assert.Equal(t, sdk.GenderMale, api.profiles[0].Gender)
	assert.Equal(t, "RADIOLOGIA", p.User.Specialization)
	assert.Equal(t, int64(7), api.profiles[0].ID)
}

func TestProfileEnumerantsAreOptional(t *testing.T) {
	api := &fakeAPI{user: doctor(true), enumErr: errors.New("offline")}
	p := view.NewProfile(api, signedIn, nil)
	p.Load(context.Background())

	assert.Equal(t, view.PhaseSuccess, p.Phase)
	assert.Empty(t, p.Genders)
	assert.Empty(t, p.Suggest(""))
}

func TestUsersToggle(t *testing.T) {
	api := &fakeAPI{users: []sdk.User{{ID: 1, FullName: "Anna", Enabled: true}, {ID: 2, FullName: "Luca"}}}
	u := view.NewUsers(api, signedIn)
	u.Load(context.Background())
	require.Equal(t, view.PhaseSuccess, u.Phase)

	user, err := u.Toggle(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, user.Enabled)
	assert.Equal(t, 1, api.count("DisableUser"))

	user, err = u.Toggle(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, user.Enabled)
	assert.Equal(t, 1, api.count("EnableUser"))

	api.toggleErr = apiErr(http.StatusInternalServerError, "")
	user, err = u.Toggle(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, user.Enabled, "flag must not flip when the backend refuses")
	assert.Equal(t, "Errore nel cambio stato dell'utente", u.Message)

	_, err = u.Toggle(context.Background(), 42)
	assert.Error(t, err)
}

func TestUsersLoadFailure(t *testing.T) {
	api := &fakeAPI{usersErr: apiErr(http.StatusForbidden, "")}
	u := view.NewUsers(api, signedIn)
	u.Load(context.Background())

	assert.Equal(t, "Errore nel caricamento degli utenti", u.Message)
}

func TestUsersLoadRequiresPrincipal(t *testing.T) {
	api := &fakeAPI{users: []sdk.User{*doctor(true)}}
	u := view.NewUsers(api, readyWith{})
	u.Load(context.Background())

	assert.True(t, u.Failed())
	assert.Equal(t, "Utente non autenticato", u.Message)
	assert.Empty(t, u.Users)
	assert.Zero(t, api.count("ListUsers"))
}

func TestDownloads(t *testing.T) {
	api := &fakeAPI{
		pdf:   &sdk.Download{Data: []byte("%PDF"), ContentType: "application/pdf"},
		image: &sdk.Download{Data: []byte("img"), FileName: "scan.png"},
	}
	blobs := sdk.NewBlobRegistry("http://localhost:4200")
	d := view.NewDownloads(api, blobs, sdk.FeatureSettings{PDFDownload: true, ImageDownload: true})
	written := map[string][]byte{}
	d.WriteFile = func(name string, data []byte) error {
		assert.Equal(t, 1, blobs.Len(), "blob must be live while writing")
		written[name] = data
		return nil
	}

	path := d.PDF(context.Background(), 12, "out")
	assert.Equal(t, filepath.Join("out", "referto_12.pdf"), path)
	assert.Equal(t, []byte("%PDF"), written[path])
	assert.Zero(t, blobs.Len())

	path = d.Image(context.Background(), 12, "out")
	assert.Equal(t, filepath.Join("out", "scan.png"), path)
	assert.Zero(t, blobs.Len())

	api.image.FileName = ""
	path = d.Image(context.Background(), 13, "out")
	assert.Equal(t, filepath.Join("out", "immagine_13"), path)

	require.NoError(t, d.Close())
}

func TestDownloadsRevokeOnWriteFailure(t *testing.T) {
	api := &fakeAPI{pdf: &sdk.Download{Data: []byte("%PDF")}}
	blobs := sdk.NewBlobRegistry("http://localhost:4200")
	d := view.NewDownloads(api, blobs, sdk.FeatureSettings{PDFDownload: true})
	d.WriteFile = func(string, []byte) error { return errors.New("disk full") }

	assert.Empty(t, d.PDF(context.Background(), 1, t.TempDir()))
	assert.True(t, d.Failed())
	assert.Equal(t, "Errore durante il download del PDF: disk full", d.Message)
	assert.Zero(t, blobs.Len())
}

func TestDownloadsDisabled(t *testing.T) {
	api := &fakeAPI{}
	d := view.NewDownloads(api, sdk.NewBlobRegistry("x"), sdk.FeatureSettings{})

	assert.Empty(t, d.PDF(context.Background(), 1, ""))
	assert.Equal(t, "Il download è disabilitato in questo ambiente", d.Message)
	assert.Empty(t, d.Image(context.Background(), 1, ""))
	assert.Zero(t, api.total())
}

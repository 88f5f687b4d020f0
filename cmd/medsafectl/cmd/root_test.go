package cmd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// localBackend answers like a development backend with auth disabled.
func localBackend(t *testing.T) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/users/me", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":1,"email":"dev@local","fullName":"Dev","role":"ADMIN","enabled":true}`))
	})
	r.Get("/referti/email", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"nessun referto"}`, http.StatusInternalServerError)
	})
	r.Get("/referti/codiceFiscale", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})
	r.Get("/referti/download/pdf/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4"))
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("MEDSAFE_TOKEN", "")
	t.Setenv("MEDSAFE_ENV", "")
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}

func TestMyReportsWithoutReportsSucceeds(t *testing.T) {
	srv := localBackend(t)
	err := run(t, "--env", "local", "--api-url", srv.URL, "--non-interactive", "report", "mine")
	assert.NoError(t, err)
}

func TestPatientSearchWithoutMatchFails(t *testing.T) {
	srv := localBackend(t)
	err := run(t, "--env", "local", "--api-url", srv.URL, "--non-interactive", "patient", "search", "RSSMRA80A01H501U")
	assert.EqualError(t, err, "Nessun paziente trovato con questo codice fiscale")
}

func TestDownloadWritesPDF(t *testing.T) {
	srv := localBackend(t)
	dir := t.TempDir()
	err := run(t, "--env", "local", "--api-url", srv.URL, "--non-interactive", "report", "download", "3", "--dir", dir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "referto_3.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))
}

func TestUnknownEnvironmentFails(t *testing.T) {
	err := run(t, "--env", "staging", "dashboard")
	assert.ErrorContains(t, err, "unknown environment")
}

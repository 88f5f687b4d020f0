// Package ui renders view state on the terminal with pterm and bridges
// cobra commands to the shared client provider.
package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"golang.org/x/term"

	"github.com/Gianmy02/MedSafe/cmd/medsafectl/internal/config"
	"github.com/Gianmy02/MedSafe/cmd/medsafectl/internal/view"
	"github.com/Gianmy02/MedSafe/pkg/sdk"
)

// Env is what a command needs to drive a view.
type Env struct {
	Config *config.GlobalConfig
	API    *sdk.Client
	Ready  *sdk.Ready
}

// Load pulls the config out of ctx and returns the SDK client and the
// bootstrap future.
func Load(ctx context.Context) (*Env, error) {
	cfg := config.MustFromContext(ctx)
	api, err := cfg.ClientProvider.SDKClient(ctx)
	if err != nil {
		return nil, err
	}
	ready, err := cfg.ClientProvider.Bootstrap(ctx)
	if err != nil {
		return nil, err
	}
	return &Env{Config: cfg, API: api, Ready: ready}, nil
}

// Spin runs fn behind a spinner. Non-interactive runs get no spinner.
func (e *Env) Spin(text string, fn func()) {
	if e.Config.NonInteractive || !IsTerminal(os.Stdout) {
		fn()
		return
	}
	spinner, err := pterm.DefaultSpinner.WithRemoveWhenDone(true).Start(text)
	fn()
	if err == nil {
		_ = spinner.Stop()
	}
}

// Result prints the outcome of a view. The Error phase becomes the
// command's error, so the process exits non-zero.
func Result(s *view.Status) error {
	if s.Failed() {
		return s.Err()
	}
	if s.Message != "" {
		pterm.Success.Println(s.Message)
	}
	return nil
}

// ReportTable prints reports, marking the ones mine reports true for.
func ReportTable(reports []sdk.Report, mine func(sdk.Report) bool) error {
	data := pterm.TableData{{"ID", "PAZIENTE", "CODICE FISCALE", "ESAME", "AUTORE", "CARICATO", ""}}
	for _, r := range reports {
		mark := ""
		if mine != nil && mine(r) {
			mark = "★"
		}
		data = append(data, []string{
			strconv.FormatInt(r.ID, 10),
			r.PatientName,
			r.FiscalCode,
			r.ExamType.Label(),
			r.AuthorEmail,
			FormatTime(r.UploadedAt),
			mark,
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// FormatTime renders a backend timestamp, or "-" when it is missing.
func FormatTime(ts sdk.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format("02/01/2006 15:04")
}

// Confirm asks a yes/no question. Non-interactive runs answer def.
func Confirm(cfg *config.GlobalConfig, question string, def bool) (bool, error) {
	if cfg.NonInteractive {
		return def, nil
	}
	ok, err := pterm.DefaultInteractiveConfirm.WithDefaultValue(def).Show(question)
	if err != nil {
		return false, fmt.Errorf("failed to show confirmation prompt: %w", err)
	}
	return ok, nil
}

// Prompt reads one line. The current value is kept on empty input.
func Prompt(r *bufio.Reader, w io.Writer, label, current string) (string, error) {
	if current != "" {
		fmt.Fprintf(w, "%s [%s]: ", label, current)
	} else {
		fmt.Fprintf(w, "%s: ", label)
	}
	line, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if line = strings.TrimSpace(line); line == "" {
		return current, nil
	}
	return line, nil
}

// Secret reads a value without echo when stdin is a terminal, or a plain
// line otherwise (pipes and tests).
func Secret(w io.Writer, label string) (string, error) {
	fmt.Fprint(w, label+": ")
	if term.IsTerminal(int(os.Stdin.Fd())) {
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(w)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	return Prompt(bufio.NewReader(os.Stdin), io.Discard, label, "")
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

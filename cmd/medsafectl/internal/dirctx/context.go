package dirctx

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

const (
	// FileName is the name of the selection file in the working directory.
	FileName = ".medsafe"
	// FileVersion is the current schema version.
	FileVersion = "1"
)

// Selection remembers the report a directory is working on, so that
// follow-up commands can omit the ID.
type Selection struct {
	Version     string    `json:"version"`
	ReportID    int64     `json:"report_id"`
	FiscalCode  string    `json:"codice_fiscale,omitempty"`
	FileName    string    `json:"nome_file,omitempty"`
	Environment string    `json:"environment"`
	APIURL      string    `json:"api_url"`
	SelectedAt  time.Time `json:"selected_at"`
}

// Validate checks if the Selection is valid.
func (s *Selection) Validate() error {
	if s.Version != FileVersion {
		return fmt.Errorf("unsupported .medsafe file version: %s (expected %s)", s.Version, FileVersion)
	}
	if s.ReportID <= 0 {
		return fmt.Errorf("report_id must be positive")
	}
	if s.APIURL == "" {
		return fmt.Errorf("api_url is required")
	}
	return nil
}

// Read loads the .medsafe file from the current directory.
// Returns nil, nil if the file doesn't exist.
func Read() (*Selection, error) {
	data, err := os.ReadFile(FileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read .medsafe file: %w", err)
	}

	var sel Selection
	if err := json.Unmarshal(data, &sel); err != nil {
		return nil, fmt.Errorf("corrupted .medsafe file (invalid JSON): %w", err)
	}
	if err := sel.Validate(); err != nil {
		return nil, fmt.Errorf("invalid .medsafe file: %w", err)
	}
	return &sel, nil
}

// Write stores the selection atomically through a temp file and a rename.
func Write(sel *Selection) error {
	if err := sel.Validate(); err != nil {
		return fmt.Errorf("invalid selection: %w", err)
	}

	data, err := json.MarshalIndent(sel, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal selection: %w", err)
	}
	data = append(data, '\n')

	tmpPath := FileName + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write .medsafe.tmp: %w", err)
	}
	if err := os.Rename(tmpPath, FileName); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename .medsafe.tmp to .medsafe: %w", err)
	}
	return nil
}

// Clear removes the selection. A missing file is fine.
func Clear() error {
	if err := os.Remove(FileName); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove .medsafe file: %w", err)
	}
	return nil
}

// ResolveReportID returns explicit when set, else the selected report of
// the current directory when it belongs to apiURL.
func ResolveReportID(explicit int64, apiURL string) (int64, error) {
	if explicit > 0 {
		return explicit, nil
	}
	sel, err := Read()
	if err != nil {
		return 0, err
	}
	if sel == nil {
		return 0, fmt.Errorf("no report id given and no report selected (run 'medsafectl report select <id>')")
	}
	if sel.APIURL != apiURL {
		return 0, fmt.Errorf("selected report %d belongs to %s, not %s", sel.ReportID, sel.APIURL, apiURL)
	}
	return sel.ReportID, nil
}

package sdk

import (
	"fmt"
	"strings"
	"time"
)

// LocalDateTimeLayout is the zone-less timestamp format the backend emits.
const LocalDateTimeLayout = "2006-01-02T15:04:05"

// Timestamp decodes both zone-less local date-times (with or without a
// fractional part) and RFC 3339 values.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		t.Time = time.Time{}
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		t.Time = parsed
		return nil
	}
	parsed, err := time.ParseInLocation("2006-01-02T15:04:05.999999999", raw, time.Local)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", raw, err)
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(LocalDateTimeLayout) + `"`), nil
}

// ExamType is the kind of clinical exam a report belongs to.
type ExamType string

const (
	ExamTAC         ExamType = "TAC"
	ExamRadiografia ExamType = "Radiografia"
	ExamEcografia   ExamType = "Ecografia"
	ExamRisonanza   ExamType = "Risonanza"
	ExamLaboratorio ExamType = "Esami_Laboratorio"
)

// ExamTypes lists every exam type in display order.
var ExamTypes = []ExamType{ExamTAC, ExamRadiografia, ExamEcografia, ExamRisonanza, ExamLaboratorio}

// ParseExamType matches s case-insensitively against the known exam types.
func ParseExamType(s string) (ExamType, error) {
	s = strings.TrimSpace(s)
	for _, et := range ExamTypes {
		if strings.EqualFold(string(et), s) {
			return et, nil
		}
	}
	return "", fmt.Errorf("unknown exam type %q", s)
}

// Label is the Italian display name.
func (e ExamType) Label() string {
	switch e {
	case ExamLaboratorio:
		return "Esami di laboratorio"
	case ExamRisonanza:
		return "Risonanza magnetica"
	case "":
		return "N/A"
	default:
		return string(e)
	}
}

// BadgeClass is the style bucket used when rendering the exam type.
func (e ExamType) BadgeClass() string {
	switch e {
	case ExamTAC:
		return "badge-tac"
	case ExamRadiografia:
		return "badge-radiografia"
	case ExamEcografia:
		return "badge-ecografia"
	case ExamRisonanza:
		return "badge-risonanza"
	case ExamLaboratorio:
		return "badge-laboratorio"
	default:
		return "badge-default"
	}
}

// Report is a medical report record.
type Report struct {
	ID          int64     `json:"id"`
	PatientName string    `json:"nomePaziente"`
	FiscalCode  string    `json:"codiceFiscale"`
	ExamType    ExamType  `json:"tipoEsame"`
	ReportText  string    `json:"testoReferto,omitempty"`
	Conclusions string    `json:"conclusioni,omitempty"`
	ImageURL    string    `json:"fileUrlImmagine,omitempty"`
	PDFURL      string    `json:"urlPdfGenerato,omitempty"`
	FileName    string    `json:"nomeFile,omitempty"`
	AuthorEmail string    `json:"autoreEmail"`
	UploadedAt  Timestamp `json:"dataCaricamento"`
}

// UploadReportInput is the form submitted when creating a report.
type UploadReportInput struct {
	PatientName string
	FiscalCode  string
	ExamType    ExamType
	ReportText  string
	Conclusions string
	AuthorEmail string
	FileName    string
	// SourceName is the original name of the attached file; its extension
	// decides whether the backend accepts it.
	SourceName string
	File       []byte
}

// Download is a binary payload fetched from the backend.
type Download struct {
	Data        []byte
	ContentType string
	// FileName comes from Content-Disposition; empty when the server sent none.
	FileName string
}

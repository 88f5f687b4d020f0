package sdk

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

const reportsPath = "/referti"

// AllowedUploadExtensions are the file extensions the backend stores.
var AllowedUploadExtensions = []string{".png", ".jpg", ".jpeg", ".pdf"}

// ErrUnsupportedFile is returned for uploads with a disallowed extension.
var ErrUnsupportedFile = errors.New("formato file non supportato, estensioni consentite: PNG, JPG, JPEG, PDF")

// ValidUploadName reports whether name ends in an allowed extension,
// ignoring case.
func ValidUploadName(name string) bool {
	return slices.Contains(AllowedUploadExtensions, strings.ToLower(filepath.Ext(name)))
}

// ListReports returns every report.
func (c *Client) ListReports(ctx context.Context) ([]Report, error) {
	var out []Report
	if err := c.getJSON(ctx, reportsPath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReportsByFiscalCode returns the reports of one patient.
func (c *Client) ReportsByFiscalCode(ctx context.Context, fiscalCode string) ([]Report, error) {
	var out []Report
	if err := c.getJSON(ctx, reportsPath+"/codiceFiscale", valueQuery(fiscalCode), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReportByFileName returns the single report stored under fileName.
// A missing record yields an error matching ErrNotFound.
func (c *Client) ReportByFileName(ctx context.Context, fileName string) (*Report, error) {
	var out Report
	if err := c.getJSON(ctx, reportsPath+"/nomeFile", valueQuery(fileName), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ReportsByExamType returns every report of the given exam type.
func (c *Client) ReportsByExamType(ctx context.Context, examType ExamType) ([]Report, error) {
	var out []Report
	if err := c.getJSON(ctx, reportsPath+"/tipoEsame", valueQuery(string(examType)), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReportsByAuthor returns the reports written by the doctor with the given email.
func (c *Client) ReportsByAuthor(ctx context.Context, email string) ([]Report, error) {
	var out []Report
	if err := c.getJSON(ctx, reportsPath+"/email", valueQuery(email), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UploadReport creates a report with its attached image or PDF as a
// multipart form. The request keeps the multipart content type; the
// authorizer never overrides it.
func (c *Client) UploadReport(ctx context.Context, input UploadReportInput) error {
	if input.PatientName == "" {
		return fmt.Errorf("patient name is required")
	}
	if input.FiscalCode == "" {
		return fmt.Errorf("fiscal code is required")
	}
	if input.ExamType == "" {
		return fmt.Errorf("exam type is required")
	}
	if input.FileName == "" {
		return fmt.Errorf("file name is required")
	}
	if !ValidUploadName(input.SourceName) {
		return ErrUnsupportedFile
	}

	body, contentType, err := encodeUploadForm(input)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(reportsPath, nil), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	return c.do(req, nil)
}

func encodeUploadForm(input UploadReportInput) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{"nomePaziente", input.PatientName},
		{"codiceFiscale", strings.ToUpper(input.FiscalCode)},
		{"tipoEsame", string(input.ExamType)},
		{"testoReferto", input.ReportText},
		{"conclusioni", input.Conclusions},
		{"autoreEmail", input.AuthorEmail},
		{"nomeFile", input.FileName},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("write form field %s: %w", f.name, err)
		}
	}

	part, err := w.CreateFormFile("file", filepath.Base(input.SourceName))
	if err != nil {
		return nil, "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(input.File); err != nil {
		return nil, "", fmt.Errorf("write file part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// EditReport replaces a report with the given record (PUT /referti).
func (c *Client) EditReport(ctx context.Context, report Report) error {
	if report.ID == 0 {
		return fmt.Errorf("report ID is required")
	}
	return c.sendJSON(ctx, http.MethodPut, reportsPath, report, nil)
}

// DeleteReport removes a report by ID.
func (c *Client) DeleteReport(ctx context.Context, id int64) error {
	return c.sendJSON(ctx, http.MethodDelete, reportsPath+"/"+strconv.FormatInt(id, 10), nil, nil)
}

// DownloadPDF fetches the generated PDF of a report.
func (c *Client) DownloadPDF(ctx context.Context, id int64) (*Download, error) {
	return c.download(ctx, "pdf", id)
}

// DownloadImage fetches the diagnostic image attached to a report.
func (c *Client) DownloadImage(ctx context.Context, id int64) (*Download, error) {
	return c.download(ctx, "immagine", id)
}

func (c *Client) download(ctx context.Context, kind string, id int64) (*Download, error) {
	path := fmt.Sprintf("%s/download/%s/%d", reportsPath, kind, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, nil), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(req, resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read download: %w", err)
	}

	return &Download{
		Data:        data,
		ContentType: resp.Header.Get("Content-Type"),
		FileName:    dispositionFileName(resp.Header.Get("Content-Disposition")),
	}, nil
}

func dispositionFileName(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil || params["filename"] == "" {
		return ""
	}
	return filepath.Base(params["filename"])
}

package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Gianmy02/MedSafe/pkg/sdk"
)

// Downloads saves report attachments to disk through short-lived blob URLs.
type Downloads struct {
	Status

	// WriteFile stores a payload. Defaults to os.WriteFile with 0644.
	WriteFile func(name string, data []byte) error

	reports  ReportAPI
	blobs    *sdk.BlobRegistry
	features sdk.FeatureSettings
}

func NewDownloads(reports ReportAPI, blobs *sdk.BlobRegistry, features sdk.FeatureSettings) *Downloads {
	return &Downloads{
		WriteFile: func(name string, data []byte) error { return os.WriteFile(name, data, 0644) },
		reports:   reports,
		blobs:     blobs,
		features:  features,
	}
}

// PDF saves the generated PDF of report id into dir as referto_<id>.pdf and
// returns the saved path. Failures are reported through Status and yield "".
func (d *Downloads) PDF(ctx context.Context, id int64, dir string) string {
	if !d.features.PDFDownload {
		d.fail(msgDownloadDisabled)
		return ""
	}
	return d.fetch(ctx, dir, msgPDFFailed, func() (*sdk.Download, string, error) {
		dl, err := d.reports.DownloadPDF(ctx, id)
		return dl, fmt.Sprintf("referto_%d.pdf", id), err
	})
}

// Image saves the diagnostic image of report id into dir, under the
// server-provided name when there is one and immagine_<id> otherwise.
func (d *Downloads) Image(ctx context.Context, id int64, dir string) string {
	if !d.features.ImageDownload {
		d.fail(msgDownloadDisabled)
		return ""
	}
	return d.fetch(ctx, dir, msgImageFailed, func() (*sdk.Download, string, error) {
		dl, err := d.reports.DownloadImage(ctx, id)
		name := fmt.Sprintf("immagine_%d", id)
		if dl != nil && dl.FileName != "" {
			name = dl.FileName
		}
		return dl, name, err
	})
}

func (d *Downloads) fetch(ctx context.Context, dir, failMsg string, get func() (*sdk.Download, string, error)) string {
	d.loading()

	dl, name, err := get()
	if err != nil {
		d.fail(failMsg)
		return ""
	}

	url := d.blobs.Create(dl)
	defer d.blobs.Revoke(url)

	blob, ok := d.blobs.Resolve(url)
	if !ok {
		d.fail(failMsg)
		return ""
	}

	path := filepath.Join(dir, filepath.Base(name))
	if err := d.WriteFile(path, blob.Data); err != nil {
		d.fail(failMsg + ": " + err.Error())
		return ""
	}
	d.succeed("File salvato in " + path)
	return path
}

// Close revokes any blob URL still outstanding.
func (d *Downloads) Close() error {
	return d.blobs.Close()
}

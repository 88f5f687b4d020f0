package report

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Gianmy02/MedSafe/cmd/medsafectl/internal/ui"
	"github.com/Gianmy02/MedSafe/cmd/medsafectl/internal/view"
)

var (
	downloadImage bool
	downloadDir   string
)

var downloadCmd = &cobra.Command{
	Use:   "download [id]",
	Short: "Download the PDF of a report, or its image with --image",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := reportID(cmd.Context(), args)
		if err != nil {
			return err
		}
		env, err := ui.Load(cmd.Context())
		if err != nil {
			return err
		}
		if _, err := env.Ready.Wait(cmd.Context()); err != nil {
			return err
		}

		d := view.NewDownloads(env.API, env.Config.ClientProvider.Blobs(), env.Config.Settings.Features)
		defer d.Close()

		what := "PDF"
		fetch := d.PDF
		if downloadImage {
			what = "immagine"
			fetch = d.Image
		}
		env.Spin(fmt.Sprintf("Download %s...", what), func() { fetch(cmd.Context(), id, downloadDir) })
		return ui.Result(&d.Status)
	},
}

func init() {
	downloadCmd.Flags().BoolVar(&downloadImage, "image", false, "Download the diagnostic image instead of the PDF")
	downloadCmd.Flags().StringVarP(&downloadDir, "dir", "o", ".", "Directory to save into")
}

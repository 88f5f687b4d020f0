package report

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Gianmy02/MedSafe/cmd/medsafectl/internal/config"
	"github.com/Gianmy02/MedSafe/cmd/medsafectl/internal/dirctx"
)

// ReportCmd is the parent command for report operations
var ReportCmd = &cobra.Command{
	Use:     "report",
	Aliases: []string{"referti"},
	Short:   "Search, upload and manage medical reports",
}

func init() {
	ReportCmd.AddCommand(listCmd)
	ReportCmd.AddCommand(searchCmd)
	ReportCmd.AddCommand(getCmd)
	ReportCmd.AddCommand(mineCmd)
	ReportCmd.AddCommand(selectCmd)
	ReportCmd.AddCommand(uploadCmd)
	ReportCmd.AddCommand(editCmd)
	ReportCmd.AddCommand(deleteCmd)
	ReportCmd.AddCommand(downloadCmd)
}

// reportID takes the ID from the first argument, falling back to the
// report selected in the current directory.
func reportID(ctx context.Context, args []string) (int64, error) {
	var explicit int64
	if len(args) > 0 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			return 0, fmt.Errorf("invalid report id %q", args[0])
		}
		explicit = id
	}
	cfg := config.MustFromContext(ctx)
	return dirctx.ResolveReportID(explicit, cfg.Settings.APIURL)
}

package report

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Gianmy02/MedSafe/cmd/medsafectl/internal/ui"
	"github.com/Gianmy02/MedSafe/cmd/medsafectl/internal/view"
	"github.com/Gianmy02/MedSafe/pkg/sdk"
)

var (
	listFilter   string
	searchCF     string
	searchExam   string
	searchFilter string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all reports, yours first",
	Long: `Lists every report, with the ones you wrote first.

--filter takes a bexpr expression over the selectors id, patient,
fiscal_code, exam_type, author, file and uploaded, for example:
  medsafectl report list --filter 'exam_type == "TAC" and patient matches "Ros"'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSearch(cmd, "", "", listFilter)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search reports by fiscal code and/or exam type",
	Long: `Searches reports by fiscal code, exam type or both. With both criteria
only the reports matching each of them are shown. Without criteria every
report is listed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSearch(cmd, searchCF, searchExam, searchFilter)
	},
}

func runSearch(cmd *cobra.Command, fiscalCode, exam, filter string) error {
	env, err := ui.Load(cmd.Context())
	if err != nil {
		return err
	}

	s := view.NewSearch(env.API, env.API, env.Ready)
	s.FiscalCode = fiscalCode
	if exam != "" {
		et, err := sdk.ParseExamType(exam)
		if err != nil {
			return fmt.Errorf("%w (expected one of %v)", err, sdk.ExamTypes)
		}
		s.ExamType = et
	}

	env.Spin("Ricerca referti...", func() { s.Run(cmd.Context()) })
	if s.Failed() {
		return s.Err()
	}

	results := s.Results
	if filter != "" {
		results, err = sdk.FilterReports(results, filter)
		if err != nil {
			return err
		}
	}
	if len(results) == 0 {
		pterm.Info.Println("Nessun referto trovato")
		return nil
	}
	return ui.ReportTable(results, s.IsMine)
}

func init() {
	listCmd.Flags().StringVar(&listFilter, "filter", "", "bexpr filter expression (e.g. author == \"dr@medsafe.it\")")

	searchCmd.Flags().StringVar(&searchCF, "cf", "", "Patient fiscal code")
	searchCmd.Flags().StringVar(&searchExam, "exam", "", "Exam type (TAC, Radiografia, Ecografia, Risonanza, Esami_Laboratorio)")
	searchCmd.Flags().StringVar(&searchFilter, "filter", "", "bexpr filter expression applied to the results")
}

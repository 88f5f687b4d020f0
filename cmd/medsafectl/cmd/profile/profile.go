package profile

import (
	"errors"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Gianmy02/MedSafe/cmd/medsafectl/internal/ui"
	"github.com/Gianmy02/MedSafe/cmd/medsafectl/internal/view"
	"github.com/Gianmy02/MedSafe/pkg/sdk"
)

// ProfileCmd is the parent command for the caller's own profile
var ProfileCmd = &cobra.Command{
	Use:     "profile",
	Aliases: []string{"profilo"},
	Short:   "Show or edit your profile",
}

var (
	editGender         string
	editSpecialization string
	specPrefix         string
)

func init() {
	ProfileCmd.AddCommand(showCmd)
	ProfileCmd.AddCommand(editCmd)
	ProfileCmd.AddCommand(specializationsCmd)

	editCmd.Flags().StringVar(&editGender, "gender", "", "MASCHIO, FEMMINA or NON_SPECIFICATO")
	editCmd.Flags().StringVar(&editSpecialization, "specialization", "", "Specialization (see 'profile specializations')")
	specializationsCmd.Flags().StringVar(&specPrefix, "prefix", "", "Only show specializations starting with this text")
}

func loadProfile(cmd *cobra.Command) (*ui.Env, *view.Profile, error) {
	env, err := ui.Load(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	p := view.NewProfile(env.API, env.Ready, env.Config.Logger)
	env.Spin("Caricamento profilo...", func() { p.Load(cmd.Context()) })
	if p.Failed() {
		return nil, nil, p.Err()
	}
	return env, p, nil
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, p, err := loadProfile(cmd)
		if err != nil {
			return err
		}
		printProfile(p.User)
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Change your gender and specialization",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, p, err := loadProfile(cmd)
		if err != nil {
			return err
		}

		gender, spec := editGender, editSpecialization
		if !env.Config.NonInteractive {
			if gender == "" && len(p.Genders) > 0 {
				options := make([]string, len(p.Genders))
				for i, g := range p.Genders {
					options[i] = string(g)
				}
				gender, err = pterm.DefaultInteractiveSelect.WithOptions(options).Show("Genere")
				if err != nil {
					return fmt.Errorf("failed to show selection prompt: %w", err)
				}
			}
			if spec == "" && len(p.Specializations) > 0 {
				spec, err = pterm.DefaultInteractiveSelect.WithOptions(p.Specializations).WithFilter(true).Show("Specializzazione")
				if err != nil {
					return fmt.Errorf("failed to show selection prompt: %w", err)
				}
			}
		}

		var verr *view.ValidationError
		if err := p.Save(cmd.Context(), gender, spec); errors.As(err, &verr) {
			return verr
		}
		if err := ui.Result(&p.Status); err != nil {
			return err
		}
		printProfile(p.User)
		return nil
	},
}

var specializationsCmd = &cobra.Command{
	Use:   "specializations",
	Short: "List the available specializations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, p, err := loadProfile(cmd)
		if err != nil {
			return err
		}
		matches := p.Suggest(specPrefix)
		if len(matches) == 0 {
			pterm.Info.Println("Nessuna specializzazione trovata")
			return nil
		}
		items := make([]pterm.BulletListItem, len(matches))
		for i, s := range matches {
			items[i] = pterm.BulletListItem{Text: fmt.Sprintf("%s (%s)", sdk.FormatSpecialization(s), s)}
		}
		return pterm.DefaultBulletList.WithItems(items).Render()
	},
}

func printProfile(u *sdk.User) {
	if u == nil {
		return
	}
	pterm.DefaultSection.Println(u.DisplayName())
	fmt.Printf("%-18s %s\n", "Email:", u.Email)
	fmt.Printf("%-18s %s\n", "Ruolo:", u.Role.Label())
	fmt.Printf("%-18s %s\n", "Genere:", u.Gender.Label())
	fmt.Printf("%-18s %s\n", "Specializzazione:", sdk.FormatSpecialization(u.Specialization))
	if !u.CreatedAt.IsZero() {
		fmt.Printf("%-18s %s\n", "Registrato:", ui.FormatTime(u.CreatedAt))
	}
}

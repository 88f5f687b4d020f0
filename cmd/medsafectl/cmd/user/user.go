package user

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Gianmy02/MedSafe/cmd/medsafectl/internal/ui"
	"github.com/Gianmy02/MedSafe/cmd/medsafectl/internal/view"
	"github.com/Gianmy02/MedSafe/pkg/sdk"
)

// UserCmd is the parent command for account administration
var UserCmd = &cobra.Command{
	Use:     "user",
	Aliases: []string{"utenti"},
	Short:   "Manage doctor accounts (administrators only)",
}

func init() {
	UserCmd.AddCommand(listCmd)
	UserCmd.AddCommand(enableCmd)
	UserCmd.AddCommand(disableCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all accounts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, u, err := loadUsers(cmd)
		if err != nil {
			return err
		}

		data := pterm.TableData{{"ID", "NOME", "EMAIL", "RUOLO", "SPECIALIZZAZIONE", "STATO"}}
		for _, x := range u.Users {
			state := pterm.Green("abilitato")
			if !x.Enabled {
				state = pterm.Red("disabilitato")
			}
			data = append(data, []string{
				strconv.FormatInt(x.ID, 10),
				x.DisplayName(),
				x.Email,
				x.Role.Label(),
				sdk.FormatSpecialization(x.Specialization),
				state,
			})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

var enableCmd = &cobra.Command{
	Use:   "enable <id>",
	Short: "Enable an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setEnabled(cmd, args[0], true)
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable <id>",
	Short: "Disable an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setEnabled(cmd, args[0], false)
	},
}

func loadUsers(cmd *cobra.Command) (*ui.Env, *view.Users, error) {
	env, err := ui.Load(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	u := view.NewUsers(env.API, env.Ready)
	env.Spin("Caricamento utenti...", func() { u.Load(cmd.Context()) })
	if u.Failed() {
		return nil, nil, u.Err()
	}
	return env, u, nil
}

func setEnabled(cmd *cobra.Command, arg string, enabled bool) error {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid user id %q", arg)
	}
	_, u, err := loadUsers(cmd)
	if err != nil {
		return err
	}

	i := slices.IndexFunc(u.Users, func(x sdk.User) bool { return x.ID == id })
	if i >= 0 && u.Users[i].Enabled == enabled {
		pterm.Info.Printf("Utente %s già nello stato richiesto\n", u.Users[i].FullName)
		return nil
	}

	if _, err := u.Toggle(cmd.Context(), id); err != nil {
		return err
	}
	return ui.Result(&u.Status)
}

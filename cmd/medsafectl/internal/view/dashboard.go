package view

import (
	"context"

	"github.com/Gianmy02/MedSafe/pkg/sdk"
)

// Card is one entry point offered on the dashboard.
type Card struct {
	Title       string
	Description string
	Command     string
}

// Dashboard greets the signed-in user and lists what they can do.
type Dashboard struct {
	Status
	Principal *sdk.Principal
	User      *sdk.User
	Cards     []Card

	api   UserAPI
	ready Bootstrap
}

func NewDashboard(api UserAPI, ready Bootstrap) *Dashboard {
	return &Dashboard{api: api, ready: ready}
}

// Load waits for the bootstrap, then fetches the current user.
func (d *Dashboard) Load(ctx context.Context) {
	d.loading()

	principal, err := d.ready.Wait(ctx)
	if err != nil {
		d.fail(errorText(err))
		return
	}
	if principal == nil {
		d.fail(msgNotLoggedIn)
		return
	}
	d.Principal = principal

	user, err := d.api.CurrentUser(ctx)
	if err != nil {
		d.fail(msgUserLoadFailed)
		return
	}
	d.User = user
	d.Cards = cardsFor(user)
	d.succeed("")
}

func cardsFor(user *sdk.User) []Card {
	var cards []Card
	if user.Enabled {
		cards = append(cards, Card{
			Title:       "Nuovo Referto",
			Description: "Carica un nuovo referto medico con i relativi file",
			Command:     "report upload",
		})
	}
	cards = append(cards,
		Card{
			Title:       "I miei Referti",
			Description: "Modifica o elimina un referto esistente",
			Command:     "report mine",
		},
		Card{
			Title:       "Cerca Referti",
			Description: "Cerca e visualizza referti per codice fiscale o tipo esame",
			Command:     "report search",
		},
	)
	if user.IsAdmin() {
		cards = append(cards, Card{
			Title:       "Elenco Utenti",
			Description: "Abilita o disabilita gli account dei medici",
			Command:     "user list",
		})
	}
	return cards
}

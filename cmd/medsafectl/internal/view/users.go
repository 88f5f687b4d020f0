package view

import (
	"context"
	"fmt"
	"slices"

	"github.com/Gianmy02/MedSafe/pkg/sdk"
)

// Users is the admin account list.
type Users struct {
	Status
	Users []sdk.User

	api   UserAPI
	ready Bootstrap
}

func NewUsers(api UserAPI, ready Bootstrap) *Users {
	return &Users{api: api, ready: ready}
}

func (u *Users) Load(ctx context.Context) {
	u.loading()
	principal, err := u.ready.Wait(ctx)
	if err != nil {
		u.fail(errorText(err))
		return
	}
	if principal == nil {
		u.fail(msgNotLoggedIn)
		return
	}

	users, err := u.api.ListUsers(ctx)
	if err != nil {
		u.fail(msgUsersLoadFailed)
		return
	}
	u.Users = users
	u.succeed("")
}

// Toggle enables a disabled account or disables an enabled one. The local
// flag flips only after the backend confirms.
func (u *Users) Toggle(ctx context.Context, id int64) (*sdk.User, error) {
	i := slices.IndexFunc(u.Users, func(x sdk.User) bool { return x.ID == id })
	if i < 0 {
		err := &ValidationError{Field: "id", Message: fmt.Sprintf("Utente %d non trovato", id)}
		u.fail(err.Message)
		return nil, err
	}
	user := &u.Users[i]

	var err error
	if user.Enabled {
		err = u.api.DisableUser(ctx, id)
	} else {
		err = u.api.EnableUser(ctx, id)
	}
	if err != nil {
		u.fail(msgToggleFailed)
		return user, nil
	}

	user.Enabled = !user.Enabled
	state := "disabilitato"
	if user.Enabled {
		state = "abilitato"
	}
	u.succeed(fmt.Sprintf("Utente %s %s", user.FullName, state))
	return user, nil
}

package view

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/Gianmy02/MedSafe/pkg/sdk"
	"golang.org/x/sync/errgroup"
)

// Profile shows and edits the caller's gender and specialization.
type Profile struct {
	Status
	User            *sdk.User
	Genders         []sdk.Gender
	Specializations []string

	api    UserAPI
	ready  Bootstrap
	logger *slog.Logger
}

func NewProfile(api UserAPI, ready Bootstrap, logger *slog.Logger) *Profile {
	if logger == nil {
		logger = slog.Default()
	}
	return &Profile{api: api, ready: ready, logger: logger}
}

// Load fetches the user and, concurrently, the two enumerant lists. The
// lists are optional: a failure leaves them empty.
func (p *Profile) Load(ctx context.Context) {
	p.loading()

	principal, err := p.ready.Wait(ctx)
	if err != nil {
		p.fail(errorText(err))
		return
	}
	if principal == nil {
		p.fail(msgNotLoggedIn)
		return
	}

	var g errgroup.Group
	g.Go(func() error {
		user, err := p.api.CurrentUser(ctx)
		if err != nil {
			return err
		}
		p.User = user
		return nil
	})
	g.Go(func() error {
		genders, err := p.api.Genders(ctx)
		if err != nil {
			p.logger.Warn("load genders", "error", err)
			return nil
		}
		p.Genders = genders
		return nil
	})
	g.Go(func() error {
		specs, err := p.api.Specializations(ctx)
		if err != nil {
			p.logger.Warn("load specializations", "error", err)
			return nil
		}
		p.Specializations = specs
		return nil
	})
	if err := g.Wait(); err != nil {
		p.fail(msgProfileLoadFailed)
		return
	}
	p.succeed("")
}

// Suggest lists the specializations starting with prefix, ignoring case.
func (p *Profile) Suggest(prefix string) []string {
	return FilterByPrefix(p.Specializations, prefix)
}

// ValidateProfile checks the edit locally.
func ValidateProfile(gender, specialization string, known []sdk.Gender) error {
	if strings.TrimSpace(gender) == "" {
		return &ValidationError{Field: "genere", Message: msgGenderRequired}
	}
	if strings.TrimSpace(specialization) == "" {
		return &ValidationError{Field: "specializzazione", Message: msgSpecRequired}
	}
	if len(known) > 0 && !slices.Contains(known, sdk.Gender(strings.ToUpper(strings.TrimSpace(gender)))) {
		return &ValidationError{Field: "genere", Message: "Genere non valido: " + gender}
	}
	return nil
}

// Save validates and stores the new profile. Validation failures never
// reach the backend.
func (p *Profile) Save(ctx context.Context, gender, specialization string) error {
	if err := ValidateProfile(gender, specialization, p.Genders); err != nil {
		p.fail(err.Error())
		return err
	}
	if p.User == nil {
		p.fail(msgNotLoggedIn)
		return nil
	}

	updated := *p.User
	updated.Gender = sdk.Gender(strings.ToUpper(strings.TrimSpace(gender)))
	updated.Specialization = strings.TrimSpace(specialization)

	p.loading()
	saved, err := p.api.UpdateProfile(ctx, updated)
	if err != nil {
		p.fail(msgProfileSaveFailed)
		return nil
	}
	p.User = saved
	p.succeed(msgProfileOK)
	return nil
}

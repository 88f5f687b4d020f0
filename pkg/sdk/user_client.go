package sdk

import (
	"context"
	"fmt"
	"net/http"
	"slices"
)

const usersPath = "/users"

// CurrentUser returns the account of the authenticated caller.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var out User
	if err := c.getJSON(ctx, usersPath+"/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListUsers returns every account. Admin only.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var out []User
	if err := c.getJSON(ctx, usersPath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EnableUser re-enables an account. Admin only.
func (c *Client) EnableUser(ctx context.Context, id int64) error {
	return c.sendJSON(ctx, http.MethodPut, fmt.Sprintf("%s/%d/enable", usersPath, id), struct{}{}, nil)
}

// DisableUser disables an account. Admin only.
func (c *Client) DisableUser(ctx context.Context, id int64) error {
	return c.sendJSON(ctx, http.MethodPut, fmt.Sprintf("%s/%d/disable", usersPath, id), struct{}{}, nil)
}

// UpdateProfile saves gender and specialization of the caller and returns
// the stored account.
func (c *Client) UpdateProfile(ctx context.Context, user User) (*User, error) {
	var out User
	if err := c.sendJSON(ctx, http.MethodPut, usersPath+"/profile", user, &out); err != nil {
		return nil, err
	}
	if out.Email == "" {
		// Some deployments answer with an empty body.
		return &user, nil
	}
	return &out, nil
}

// Genders returns the gender enumerants. Results are cached for a few minutes.
func (c *Client) Genders(ctx context.Context) ([]Gender, error) {
	names, err := c.enumerant(ctx, usersPath+"/generi")
	if err != nil {
		return nil, err
	}
	out := make([]Gender, len(names))
	for i, n := range names {
		out[i] = Gender(n)
	}
	return out, nil
}

// Specializations returns the specialization enumerants. Results are cached
// for a few minutes.
func (c *Client) Specializations(ctx context.Context) ([]string, error) {
	return c.enumerant(ctx, usersPath+"/specializzazioni")
}

func (c *Client) enumerant(ctx context.Context, path string) ([]string, error) {
	if cached, ok := c.enumerants.Get(path); ok {
		return slices.Clone(cached), nil
	}
	var out []string
	if err := c.getJSON(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	c.enumerants.Add(path, out)
	return slices.Clone(out), nil
}

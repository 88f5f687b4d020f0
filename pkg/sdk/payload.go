package sdk

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

var errEmptyIdentity = errors.New("identity response holds no entries")

// rawPayload is one of the shapes /.auth/me is known to return.
// Each variant has its own decoder; principalFromPayload switches over all of them.
type rawPayload interface {
	isRawPayload()
}

// claimsPayload is the EasyAuth token-store shape:
//
//	[{"provider_name":"aad","user_id":"...","id_token":"...","user_claims":[{"typ":"roles","val":"ADMIN"}]}]
type claimsPayload struct {
	ProviderName string       `mapstructure:"provider_name"`
	UserID       string       `mapstructure:"user_id"`
	AccessToken  string       `mapstructure:"access_token"`
	IDToken      string       `mapstructure:"id_token"`
	Claims       []claimEntry `mapstructure:"user_claims"`
}

type claimEntry struct {
	Type  string `mapstructure:"typ"`
	Value string `mapstructure:"val"`
}

// principalFields is the already-normalized principal shape.
type principalFields struct {
	IdentityProvider string   `mapstructure:"identityProvider"`
	UserID           string   `mapstructure:"userId"`
	UserDetails      string   `mapstructure:"userDetails"`
	UserRoles        []string `mapstructure:"userRoles"`
	AccessToken      string   `mapstructure:"access_token"`
	IDToken          string   `mapstructure:"id_token"`
}

// clientPrincipalEnvelope wraps a principal: {"clientPrincipal": {...}}.
type clientPrincipalEnvelope struct {
	ClientPrincipal principalFields `mapstructure:"clientPrincipal"`
	AccessToken     string          `mapstructure:"access_token"`
	IDToken         string          `mapstructure:"id_token"`
}

// principalPayload is any other object, taken as a principal as-is.
type principalPayload struct {
	Fields principalFields `mapstructure:",squash"`
}

func (*claimsPayload) isRawPayload()           {}
func (*clientPrincipalEnvelope) isRawPayload() {}
func (*principalPayload) isRawPayload()        {}

// decodePayload unwraps a single-element collection and classifies the
// object into a rawPayload variant.
func decodePayload(body []byte) (rawPayload, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode identity response: %w", err)
	}

	if list, ok := doc.([]any); ok {
		if len(list) == 0 {
			return nil, errEmptyIdentity
		}
		doc = list[0]
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("identity response is %T, expected an object", doc)
	}

	var out rawPayload
	switch {
	case obj["user_claims"] != nil:
		out = &claimsPayload{}
	case obj["clientPrincipal"] != nil:
		out = &clientPrincipalEnvelope{}
	default:
		out = &principalPayload{}
	}

	if err := decodeInto(obj, out); err != nil {
		return nil, fmt.Errorf("decode %T: %w", out, err)
	}
	return out, nil
}

func decodeInto(input map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// principalFromPayload builds the principal and picks the bearer token:
// ID token first, then access token, then the nested principal's ID token.
func principalFromPayload(payload rawPayload) (*Principal, string) {
	switch p := payload.(type) {
	case *claimsPayload:
		roles := make([]string, 0, len(p.Claims))
		for _, c := range p.Claims {
			if c.Type == "roles" {
				roles = append(roles, c.Value)
			}
		}
		provider := p.ProviderName
		if provider == "" {
			provider = "aad"
		}
		return &Principal{
			IdentityProvider: provider,
			UserID:           p.UserID,
			UserDetails:      p.UserID,
			Roles:            normalizeRoles(roles),
			AccessToken:      p.AccessToken,
			IDToken:          p.IDToken,
		}, firstNonEmpty(p.IDToken, p.AccessToken)

	case *clientPrincipalEnvelope:
		principal := p.ClientPrincipal.principal()
		return principal, firstNonEmpty(p.IDToken, p.AccessToken, p.ClientPrincipal.IDToken)

	case *principalPayload:
		return p.Fields.principal(), firstNonEmpty(p.Fields.IDToken, p.Fields.AccessToken)

	default:
		panic(fmt.Sprintf("sdk: unhandled identity payload %T", payload))
	}
}

func (f principalFields) principal() *Principal {
	return &Principal{
		IdentityProvider: f.IdentityProvider,
		UserID:           f.UserID,
		UserDetails:      f.UserDetails,
		Roles:            normalizeRoles(f.UserRoles),
		AccessToken:      f.AccessToken,
		IDToken:          f.IDToken,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

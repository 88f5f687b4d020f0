package sdk_test

import (
	"testing"
	"time"

	"github.com/Gianmy02/MedSafe/pkg/sdk"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":                "subject-1",
		"iss":                "https://login.microsoftonline.com/tenant/v2.0",
		"aud":                "client-id",
		"preferred_username": "doc@medsafe.it",
		"name":               "Laura Verdi",
		"roles":              []string{"MEDICO"},
		"tid":                "tenant",
		"exp":                exp.Unix(),
	}).SignedString([]byte("unknown-to-the-client"))
	require.NoError(t, err)

	info, err := sdk.InspectToken(raw)
	require.NoError(t, err)

	assert.Equal(t, "subject-1", info.Subject)
	assert.Equal(t, []string{"client-id"}, info.Audience)
	assert.Equal(t, "doc@medsafe.it", info.Email)
	assert.Equal(t, "Laura Verdi", info.Name)
	assert.Equal(t, []string{"MEDICO"}, info.Roles)
	assert.Equal(t, "tenant", info.TenantID)
	assert.True(t, exp.Equal(info.ExpiresAt))
	assert.False(t, info.Expired(time.Now()))
	assert.True(t, info.Expired(exp.Add(time.Minute)))
}

func TestInspectToken_Malformed(t *testing.T) {
	_, err := sdk.InspectToken("not-a-jwt")
	assert.Error(t, err)
}

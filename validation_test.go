package jwt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateClaimsAcceptsNormalInput(t *testing.T) {
	claims := testClaims()
	claims.Audience = []string{"api", "web"}
	claims.Extra["scopes"] = []string{"read", "write"}

	require.NoError(t, validateClaims(&claims))
}

func TestValidateClaimsStringLimits(t *testing.T) {
	claims := testClaims()
	claims.Subject = strings.Repeat("a", maxStringLength+1)

	err := validateClaims(&claims)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "sub", vErr.Field)
}

func TestValidateClaimsControlCharacters(t *testing.T) {
	for _, value := range []string{"user\x00id", "user\x01id", "user\x1bid"} {
		claims := testClaims()
		claims.Subject = value
		assert.Error(t, validateClaims(&claims), "value %q", value)
	}

	// Tabs and newlines are tolerated.
	claims := testClaims()
	claims.Subject = "line one\nline two"
	assert.NoError(t, validateClaims(&claims))
}

func TestValidateClaimsExtraLimits(t *testing.T) {
	claims := testClaims()
	for i := 0; i < maxExtraSize+1; i++ {
		claims.Extra[strings.Repeat("k", i+1)] = "v"
	}
	assert.Error(t, validateClaims(&claims))

	claims = testClaims()
	claims.Extra["nested"] = map[string]any{"not": "allowed"}
	assert.Error(t, validateClaims(&claims))
}

func TestValidateClaimsAudienceLimits(t *testing.T) {
	claims := testClaims()
	claims.Audience = make([]string, maxArraySize+1)
	for i := range claims.Audience {
		claims.Audience[i] = "aud"
	}
	assert.Error(t, validateClaims(&claims))
}

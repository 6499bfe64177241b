package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvenienceIssueAndVerify(t *testing.T) {
	t.Cleanup(ClearCache)

	token, err := Issue(testSecretKey, testClaims())
	require.NoError(t, err)

	claims, err := Verify(testSecretKey, token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.Subject)
}

func TestConvenienceRejectsWeakKey(t *testing.T) {
	t.Cleanup(ClearCache)

	_, err := Issue("short", testClaims())
	assert.Error(t, err)

	_, err = Verify("short", "x.y.z")
	assert.Error(t, err)
}

func TestConvenienceWrongKey(t *testing.T) {
	t.Cleanup(ClearCache)

	token, err := Issue(testSecretKey, testClaims())
	require.NoError(t, err)

	otherKey := "q2W#e4R%t6Y&u8I*o0P(a1S)d3F_g5Hj"
	_, err = Verify(otherKey, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestConvenienceRevoke(t *testing.T) {
	t.Cleanup(ClearCache)

	token, err := Issue(testSecretKey, testClaims())
	require.NoError(t, err)

	require.NoError(t, Revoke(testSecretKey, token))

	_, err = Verify(testSecretKey, token)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestConvenienceProcessorReuse(t *testing.T) {
	t.Cleanup(ClearCache)

	// Same key reuses the cached processor, so revocations persist across
	// calls.
	first, err := Issue(testSecretKey, testClaims())
	require.NoError(t, err)
	second, err := Issue(testSecretKey, testClaims())
	require.NoError(t, err)

	require.NoError(t, Revoke(testSecretKey, first))

	_, err = Verify(testSecretKey, first)
	assert.ErrorIs(t, err, ErrTokenRevoked)
	_, err = Verify(testSecretKey, second)
	assert.NoError(t, err)
}

func TestClearCache(t *testing.T) {
	token, err := Issue(testSecretKey, testClaims())
	require.NoError(t, err)
	require.NoError(t, Revoke(testSecretKey, token))

	ClearCache()

	// A fresh processor has an empty revocation store.
	_, err = Verify(testSecretKey, token)
	assert.NoError(t, err)
}

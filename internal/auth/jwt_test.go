package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	j := NewJWT("test-secret")

	in := Identity{
		UserID:   "u1",
		TenantID: "t1",
		Email:    "ana@escritorio.com",
		Role:     RoleAdvogado,
	}
	token, err := j.Sign(in)
	require.NoError(t, err)

	out, err := j.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	token, err := NewJWT("secret-a").Sign(Identity{UserID: "u1", TenantID: "t1"})
	require.NoError(t, err)

	_, err = NewJWT("secret-b").Verify(token)
	assert.Error(t, err)
}

func TestJWTRejectsGarbage(t *testing.T) {
	_, err := NewJWT("s").Verify("not.a.token")
	assert.Error(t, err)
}

func TestPasswordHashAndCompare(t *testing.T) {
	hash, err := HashPassword("correta123")
	require.NoError(t, err)
	assert.NotEqual(t, "correta123", hash)

	assert.True(t, ComparePassword(hash, "correta123"))
	assert.False(t, ComparePassword(hash, "errada456"))
}

func TestHashTokenIsStable(t *testing.T) {
	a := HashToken("abc")
	b := HashToken("abc")
	c := HashToken("abd")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

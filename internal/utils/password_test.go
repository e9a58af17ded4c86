package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("café-crema-2024")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	ok, err := VerifyPassword("café-crema-2024", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("mauvais-mot-de-passe", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashIsSaltedPerCall(t *testing.T) {
	h1, err := HashPassword("même-mot-de-passe")
	require.NoError(t, err)
	h2, err := HashPassword("même-mot-de-passe")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)

	ok, err := VerifyPassword("même-mot-de-passe", h1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("même-mot-de-passe", h2)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyPasswordRejectsGarbageHash(t *testing.T) {
	_, err := VerifyPassword("peu importe", "pas-un-hash")
	assert.Error(t, err)

	_, err = VerifyPassword("peu importe", "$argon2id$v=19$m=32768,t=1,p=4$tronqué")
	assert.Error(t, err)
}

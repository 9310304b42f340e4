package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse(t *testing.T) {
	tok, err := Generate("s3cret", "u1", "vendedor", "ventas-ledger", 5)
	require.NoError(t, err)

	userID, role, err := Parse("s3cret", tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
	assert.Equal(t, "vendedor", role)
}

func TestParse_Errores(t *testing.T) {
	tok, err := Generate("s3cret", "u1", "admin", "x", 5)
	require.NoError(t, err)

	_, _, err = Parse("otro", tok)
	assert.Error(t, err, "firma incorrecta")

	expired, err := Generate("s3cret", "u1", "admin", "x", -1)
	require.NoError(t, err)
	_, _, err = Parse("s3cret", expired)
	assert.Error(t, err, "expirado")

	_, err = Generate("", "u1", "admin", "x", 5)
	assert.Error(t, err)
}

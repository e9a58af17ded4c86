package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCardNumber(t *testing.T) {
	assert.Equal(t, "4242", FormatCardNumber("4242"))
	assert.Equal(t, "4242 4", FormatCardNumber("42424"))
	assert.Equal(t, "4242 4242 4242 4242", FormatCardNumber("4242424242424242"))
	// les non-chiffres sont ignorés
	assert.Equal(t, "4242 4242", FormatCardNumber("4242-4242"))
	// tronqué à 16 chiffres
	assert.Equal(t, "4242 4242 4242 4242", FormatCardNumber("42424242424242429999"))
	assert.Equal(t, "", FormatCardNumber("abc"))
}

func TestFormatExpiry(t *testing.T) {
	assert.Equal(t, "1", FormatExpiry("1"))
	assert.Equal(t, "12", FormatExpiry("12"))
	assert.Equal(t, "12/2", FormatExpiry("122"))
	assert.Equal(t, "12/27", FormatExpiry("1227"))
	assert.Equal(t, "12/27", FormatExpiry("12/27"))
	assert.Equal(t, "12/27", FormatExpiry("122789"))
}

func TestLastDigits(t *testing.T) {
	assert.Equal(t, "4242", lastDigits("4242 4242 4242 4242", 4))
	assert.Equal(t, "42", lastDigits("42", 4))
}

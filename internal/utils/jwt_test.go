package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccessToken(t *testing.T) {
	tok, err := NewAccessToken("s3cret", "staff-9", "MANAGER", time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.Exp, 5*time.Second)

	parsed, err := jwt.Parse(tok.Token, func(*jwt.Token) (interface{}, error) { return []byte("s3cret"), nil })
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "staff-9", claims["sub"])
	assert.Equal(t, "MANAGER", claims["role"])
}

func TestNewAccessTokenNeedsSecret(t *testing.T) {
	_, err := NewAccessToken("", "staff-9", "STAFF", time.Hour)
	assert.Error(t, err)
}

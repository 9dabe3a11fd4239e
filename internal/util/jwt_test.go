package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret-unit-test-secret"

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := SignSessionToken("session-123", testSecret, time.Hour)
	require.NoError(t, err)

	id, err := ParseSessionToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "session-123", id)
}

func TestSessionTokenWrongSecret(t *testing.T) {
	token, err := SignSessionToken("session-123", testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseSessionToken(token, "a-different-secret-entirely-here")
	assert.Error(t, err)
}

func TestSessionTokenExpired(t *testing.T) {
	token, err := SignSessionToken("session-123", testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseSessionToken(token, testSecret)
	assert.Error(t, err)
}

func TestSessionTokenGarbage(t *testing.T) {
	_, err := ParseSessionToken("not.a.token", testSecret)
	assert.Error(t, err)

	_, err = ParseSessionToken("", testSecret)
	assert.Error(t, err)
}

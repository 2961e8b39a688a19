package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionRoundtrip(t *testing.T) {
	manager := NewSessionManager("test-secret", time.Hour)

	token, err := manager.Issue("665f1a2b3c4d5e6f7a8b9c01")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	userID, err := manager.Verify(token)
	assert.NoError(t, err)
	assert.Equal(t, "665f1a2b3c4d5e6f7a8b9c01", userID)
}

func TestSessionEmptyUser(t *testing.T) {
	manager := NewSessionManager("test-secret", time.Hour)

	_, err := manager.Issue("")
	assert.Error(t, err)
}

func TestSessionWrongSecret(t *testing.T) {
	issuer := NewSessionManager("test-secret", time.Hour)
	verifier := NewSessionManager("other-secret", time.Hour)

	token, err := issuer.Issue("665f1a2b3c4d5e6f7a8b9c01")
	assert.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestSessionExpired(t *testing.T) {
	manager := NewSessionManager("test-secret", -time.Minute)

	token, err := manager.Issue("665f1a2b3c4d5e6f7a8b9c01")
	assert.NoError(t, err)

	_, err = manager.Verify(token)
	assert.Error(t, err)
}

func TestSessionGarbageToken(t *testing.T) {
	manager := NewSessionManager("test-secret", time.Hour)

	_, err := manager.Verify("совсем не токен")
	assert.Error(t, err)
}

package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var testSecret = []byte("test-secret")

func TestTokenRoundTrip(t *testing.T) {
	id := primitive.NewObjectID()

	token, err := GenerateToken(testSecret, id, RoleAdmin, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, id.Hex(), claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestExpiredTokenIsDistinguished(t *testing.T) {
	token, err := GenerateToken(testSecret, primitive.NewObjectID(), RoleAdmin, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(testSecret, token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestGarbageTokenIsInvalid(t *testing.T) {
	_, err := ParseToken(testSecret, "not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenSignedWithOtherSecretIsInvalid(t *testing.T) {
	token, err := GenerateToken([]byte("other-secret"), primitive.NewObjectID(), RoleAdmin, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(testSecret, token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("admin123")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("admin123", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

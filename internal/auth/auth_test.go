package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/notevault/notevault-server/internal/auth"
	"github.com/notevault/notevault-server/internal/domain"
)

func TestHashPassword_VerifyRoundTrip(t *testing.T) {
	hash, err := auth.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$"))

	ok, err := auth.VerifyPassword(hash, "correct horse battery staple")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = auth.VerifyPassword(hash, "wrong password")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHashPassword_Empty(t *testing.T) {
	_, err := auth.HashPassword("")
	require.Error(t, err)
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	ok, err := auth.VerifyPassword("not-a-real-hash", "anything")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLoadOrGenerateKey_Persists(t *testing.T) {
	dir := t.TempDir()

	key1, err := auth.LoadOrGenerateKey(dir)
	require.NoError(t, err)
	require.Len(t, key1, 64)

	// Second call loads the same key.
	key2, err := auth.LoadOrGenerateKey(dir)
	require.NoError(t, err)
	require.Equal(t, key1, key2)
}

func testTokenService(t *testing.T, duration time.Duration) *auth.TokenService {
	t.Helper()

	keyHex, err := auth.LoadOrGenerateKey(t.TempDir())
	require.NoError(t, err)

	svc, err := auth.NewTokenService(keyHex, duration)
	require.NoError(t, err)
	return svc
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc := testTokenService(t, time.Hour)

	user := &domain.User{
		Entity:   domain.Entity{ID: "user_abc"},
		Username: "ada",
		Email:    "ada@example.com",
	}

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.VerifyAccessToken(token)
	require.NoError(t, err)
	require.Equal(t, "user_abc", claims.UserID)
	require.Equal(t, "ada", claims.Username)
	require.Equal(t, "user_abc", claims.Subject)
}

func TestTokenService_RejectsExpired(t *testing.T) {
	svc := testTokenService(t, -time.Minute)

	user := &domain.User{
		Entity:   domain.Entity{ID: "user_abc"},
		Username: "ada",
	}

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(token)
	require.Error(t, err)
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	svc := testTokenService(t, time.Hour)

	_, err := svc.VerifyAccessToken("v4.local.garbage")
	require.Error(t, err)
}

func TestNewTokenService_BadKey(t *testing.T) {
	_, err := auth.NewTokenService("tooshort", time.Hour)
	require.Error(t, err)

	_, err = auth.NewTokenService(strings.Repeat("z", 64), time.Hour)
	require.Error(t, err)
}

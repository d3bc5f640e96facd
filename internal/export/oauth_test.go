package export

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestAuthorizerTokenCacheRoundTrip(t *testing.T) {
	tokenFile := filepath.Join(t.TempDir(), "nested", "token.json")
	a := NewAuthorizer("id", "secret", tokenFile)

	a.cacheToken(&oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(time.Hour),
	})

	got, err := a.loadCachedToken()
	require.NoError(t, err)
	assert.Equal(t, "access", got.AccessToken)
	assert.Equal(t, "refresh", got.RefreshToken)
	assert.True(t, got.Valid())
}

func TestAuthorizerUsesValidCachedToken(t *testing.T) {
	tokenFile := filepath.Join(t.TempDir(), "token.json")
	a := NewAuthorizer("id", "secret", tokenFile)

	a.cacheToken(&oauth2.Token{
		AccessToken: "cached",
		Expiry:      time.Now().Add(time.Hour),
	})

	// A valid cached token must be returned without any network calls.
	got, err := a.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cached", got.AccessToken)
}

func TestAuthorizerMissingCache(t *testing.T) {
	a := NewAuthorizer("id", "secret", filepath.Join(t.TempDir(), "absent.json"))

	_, err := a.loadCachedToken()
	assert.Error(t, err)
}

func TestAuthorizerCorruptCache(t *testing.T) {
	tokenFile := filepath.Join(t.TempDir(), "token.json")
	a := NewAuthorizer("id", "secret", tokenFile)

	require.NoError(t, os.WriteFile(tokenFile, []byte("not json"), 0600))

	_, err := a.loadCachedToken()
	assert.ErrorContains(t, err, "corrupt token cache")
}

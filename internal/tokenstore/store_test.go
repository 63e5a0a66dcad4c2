package tokenstore_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"comanda-client/internal/tokenstore"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := tokenstore.NewFileStore(path)

	// Missing file means logged out, not an error.
	sess, err := store.Load()
	require.NoError(t, err)
	assert.False(t, sess.LoggedIn())

	saved := tokenstore.Session{
		AccessToken:  "access-123",
		RefreshToken: "refresh-456",
		UserID:       "7",
		Role:         "admin_staff",
		Email:        "staff@example.com",
		Username:     "staff",
	}
	require.NoError(t, store.Save(saved))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
	assert.True(t, loaded.LoggedIn())
	assert.True(t, loaded.IsAdmin())

	token, ok := store.AccessToken()
	assert.True(t, ok)
	assert.Equal(t, "access-123", token)
}

func TestFileStoreClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := tokenstore.NewFileStore(path)

	require.NoError(t, store.Save(tokenstore.Session{AccessToken: "tok"}))
	require.NoError(t, store.Clear())

	_, ok := store.AccessToken()
	assert.False(t, ok)

	// Clearing an already-clear store must not fail.
	require.NoError(t, store.Clear())
}

func TestFileStoreCorruptFileMeansLoggedOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store := tokenstore.NewFileStore(path)
	sess, err := store.Load()
	require.NoError(t, err)
	assert.False(t, sess.LoggedIn())
}

func TestFileStoreConcurrentAccess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := tokenstore.NewFileStore(path)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Save(tokenstore.Session{AccessToken: "tok"})
		}()
		go func() {
			defer wg.Done()
			_, _ = store.Load()
		}()
	}
	wg.Wait()

	token, ok := store.AccessToken()
	assert.True(t, ok)
	assert.Equal(t, "tok", token)
}

func TestMemoryStore(t *testing.T) {
	store := tokenstore.NewMemoryStore()

	_, ok := store.AccessToken()
	assert.False(t, ok)

	require.NoError(t, store.Save(tokenstore.Session{AccessToken: "tok", Role: "client"}))
	sess, err := store.Load()
	require.NoError(t, err)
	assert.False(t, sess.IsAdmin())

	require.NoError(t, store.Clear())
	_, ok = store.AccessToken()
	assert.False(t, ok)
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()
	sign := func(exp time.Time) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"exp": exp.Unix(),
		})
		signed, err := token.SignedString([]byte("secret"))
		if err != nil {
			t.Fatal(err)
		}
		return signed
	}

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{name: "valid token", token: sign(now.Add(time.Hour)), want: false},
		{name: "expired token", token: sign(now.Add(-time.Hour)), want: true},
		{name: "empty token", token: "", want: true},
		{name: "garbage token", token: "not.a.jwt", want: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, tokenstore.TokenExpired(testCase.token, now))
		})
	}
}

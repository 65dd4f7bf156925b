package oauth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var appleNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

// fakeApple 模擬 Apple 的 keys 端點，可以在測試中輪替金鑰
type fakeApple struct {
	mu       sync.Mutex
	keys     map[string]*rsa.PrivateKey
	requests atomic.Int32
	srv      *httptest.Server
}

func newFakeApple(t *testing.T) *fakeApple {
	t.Helper()
	f := &fakeApple{keys: map[string]*rsa.PrivateKey{}}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/keys" {
			http.NotFound(w, r)
			return
		}
		f.requests.Add(1)
		f.mu.Lock()
		defer f.mu.Unlock()
		set := jose.JSONWebKeySet{}
		for kid, key := range f.keys {
			set.Keys = append(set.Keys, jose.JSONWebKey{Key: &key.PublicKey, KeyID: kid, Algorithm: "RS256", Use: "sig"})
		}
		_ = json.NewEncoder(w).Encode(set)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeApple) addKey(t *testing.T, kid string) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	f.mu.Lock()
	f.keys[kid] = key
	f.mu.Unlock()
	return key
}

func (f *fakeApple) provider() *AppleProvider {
	return NewApple(AppleConfig{ClientConfig: ClientConfig{
		ClientID: "com.moodiary.app",
		AuthURL:  f.srv.URL + "/auth",
	}}, StaticSecret("s"), f.srv.Client(), WithAppleClock(func() time.Time { return appleNow }))
}

func signIDToken(t *testing.T, key *rsa.PrivateKey, kid string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func appleClaims(overrides jwt.MapClaims) jwt.MapClaims {
	claims := jwt.MapClaims{
		"iss":   AppleIssuer,
		"aud":   "com.moodiary.app",
		"sub":   "001234.abcdef",
		"email": "x@privaterelay.appleid.com",
		"iat":   appleNow.Add(-time.Minute).Unix(),
		"exp":   appleNow.Add(10 * time.Minute).Unix(),
	}
	for k, v := range overrides {
		claims[k] = v
	}
	return claims
}

func atHash(accessToken string) string {
	sum := sha256.Sum256([]byte(accessToken))
	return base64.RawURLEncoding.EncodeToString(sum[:len(sum)/2])
}

func TestApple_VerifyIDToken(t *testing.T) {
	fake := newFakeApple(t)
	key := fake.addKey(t, "k1")
	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	tests := []struct {
		name        string
		token       string
		accessToken string
		wantErr     bool
	}{
		{
			name:  "valid",
			token: signIDToken(t, key, "k1", appleClaims(nil)),
		},
		{
			name:        "valid_with_at_hash",
			token:       signIDToken(t, key, "k1", appleClaims(jwt.MapClaims{"at_hash": atHash("apple-access")})),
			accessToken: "apple-access",
		},
		{
			name:        "at_hash_mismatch",
			token:       signIDToken(t, key, "k1", appleClaims(jwt.MapClaims{"at_hash": atHash("apple-access")})),
			accessToken: "other-access",
			wantErr:     true,
		},
		{
			name:    "wrong_audience",
			token:   signIDToken(t, key, "k1", appleClaims(jwt.MapClaims{"aud": "com.other.app"})),
			wantErr: true,
		},
		{
			name:    "wrong_issuer",
			token:   signIDToken(t, key, "k1", appleClaims(jwt.MapClaims{"iss": "https://evil.example.com"})),
			wantErr: true,
		},
		{
			name:    "expired",
			token:   signIDToken(t, key, "k1", appleClaims(jwt.MapClaims{"exp": appleNow.Add(-time.Minute).Unix()})),
			wantErr: true,
		},
		{
			name:    "bad_signature",
			token:   signIDToken(t, other, "k1", appleClaims(nil)),
			wantErr: true,
		},
		{
			name:    "unknown_kid",
			token:   signIDToken(t, key, "nope", appleClaims(nil)),
			wantErr: true,
		},
		{
			name:    "not_a_jwt",
			token:   "garbage",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := fake.provider().VerifyIDToken(context.Background(), tt.token, tt.accessToken)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidProviderToken)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "001234.abcdef", claims.Sub)
			assert.Equal(t, "x@privaterelay.appleid.com", claims.Email)
		})
	}
}

func TestApple_KeyCacheAndRotation(t *testing.T) {
	fake := newFakeApple(t)
	k1 := fake.addKey(t, "k1")
	apple := fake.provider()
	ctx := context.Background()

	_, err := apple.VerifyIDToken(ctx, signIDToken(t, k1, "k1", appleClaims(nil)), "")
	require.NoError(t, err)
	_, err = apple.VerifyIDToken(ctx, signIDToken(t, k1, "k1", appleClaims(nil)), "")
	require.NoError(t, err)
	assert.Equal(t, int32(1), fake.requests.Load())

	// 新的 kid 會觸發一次重新抓取
	k2 := fake.addKey(t, "k2")
	_, err = apple.VerifyIDToken(ctx, signIDToken(t, k2, "k2", appleClaims(nil)), "")
	require.NoError(t, err)
	assert.Equal(t, int32(2), fake.requests.Load())
}

func TestApple_Identify(t *testing.T) {
	fake := newFakeApple(t)
	key := fake.addKey(t, "k1")

	identity, err := fake.provider().Identify(context.Background(), &TokenBundle{
		AccessToken: "apple-access",
		IDToken:     signIDToken(t, key, "k1", appleClaims(nil)),
	})
	require.NoError(t, err)
	assert.Equal(t, Apple, identity.Provider)
	assert.Equal(t, "001234.abcdef", identity.Subject)
	require.NotNil(t, identity.Email)
	assert.Equal(t, "x@privaterelay.appleid.com", *identity.Email)

	_, err = fake.provider().Identify(context.Background(), &TokenBundle{AccessToken: "apple-access"})
	assert.ErrorIs(t, err, ErrInvalidProviderToken)
}

func TestApple_FetchPublicKeysUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	apple := NewApple(AppleConfig{ClientConfig: ClientConfig{AuthURL: srv.URL}}, StaticSecret("s"), srv.Client())
	_, err := apple.FetchPublicKeys(context.Background())
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

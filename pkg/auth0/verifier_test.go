package auth0

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leftys-backend/domain"
)

const (
	testAudience = "https://api.leftys.test"
	testIssuer   = "https://leftys.test/"
)

type jwksServer struct {
	*httptest.Server
	key      *rsa.PrivateKey
	kid      string
	requests int
}

func newJWKSServer(t *testing.T) *jwksServer {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	s := &jwksServer{key: key, kid: "test-key-1"}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests++
		set := jsonWebKeySet{
			Keys: []jsonWebKey{{
				Kty: "RSA",
				Kid: s.kid,
				Use: "sig",
				Alg: "RS256",
				N:   base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
				E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.PublicKey.E)).Bytes()),
			}},
		}
		_ = json.NewEncoder(w).Encode(set)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *jwksServer) sign(t *testing.T, kid string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(s.key)
	require.NoError(t, err)
	return signed
}

func defaultClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":   "auth0|user123",
		"aud":   testAudience,
		"iss":   testIssuer,
		"exp":   time.Now().Add(time.Hour).Unix(),
		"iat":   time.Now().Add(-time.Minute).Unix(),
		"scope": "openid profile",
		"email": "user@example.com",
		"name":  "Test User",
	}
}

func newTestVerifier(s *jwksServer) Verifier {
	return NewVerifier(Settings{
		Domain:   "leftys.test",
		Audience: testAudience,
		Issuer:   testIssuer,
		JWKSURL:  s.URL,
	})
}

func TestVerifyValidToken(t *testing.T) {
	server := newJWKSServer(t)
	verifier := newTestVerifier(server)

	principal, err := verifier.Verify(server.sign(t, server.kid, defaultClaims()))
	require.NoError(t, err)

	assert.Equal(t, "auth0|user123", principal.Sub)
	assert.Equal(t, "openid profile", principal.Scope)
	assert.Equal(t, "user@example.com", principal.Email)
	assert.Equal(t, "Test User", principal.Name)
}

func TestVerifyExpiredToken(t *testing.T) {
	server := newJWKSServer(t)
	verifier := newTestVerifier(server)

	claims := defaultClaims()
	claims["exp"] = time.Now().Add(-time.Hour).Unix()

	_, err := verifier.Verify(server.sign(t, server.kid, claims))
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestVerifyAudienceMismatch(t *testing.T) {
	server := newJWKSServer(t)
	verifier := newTestVerifier(server)

	claims := defaultClaims()
	claims["aud"] = "https://other-api.test"

	_, err := verifier.Verify(server.sign(t, server.kid, claims))
	assert.ErrorIs(t, err, domain.ErrAudienceMismatch)
}

func TestVerifyIssuerMismatch(t *testing.T) {
	server := newJWKSServer(t)
	verifier := newTestVerifier(server)

	claims := defaultClaims()
	claims["iss"] = "https://evil.test/"

	_, err := verifier.Verify(server.sign(t, server.kid, claims))
	assert.ErrorIs(t, err, domain.ErrIssuerMismatch)
}

func TestVerifyUnknownKidRefreshesOnce(t *testing.T) {
	server := newJWKSServer(t)
	verifier := newTestVerifier(server)

	// Warm the cache with a valid token.
	_, err := verifier.Verify(server.sign(t, server.kid, defaultClaims()))
	require.NoError(t, err)
	require.Equal(t, 1, server.requests)

	// A token signed under an unknown kid forces exactly one refresh before
	// failing.
	_, err = verifier.Verify(server.sign(t, "rotated-key", defaultClaims()))
	assert.ErrorIs(t, err, domain.ErrSigningKeyNotFound)
	assert.Equal(t, 2, server.requests)
}

func TestVerifyRotatedKeyFoundAfterRefresh(t *testing.T) {
	server := newJWKSServer(t)
	verifier := newTestVerifier(server)

	// Warm the cache, then rotate the key id on the server.
	_, err := verifier.Verify(server.sign(t, server.kid, defaultClaims()))
	require.NoError(t, err)

	server.kid = "rotated-key"
	_, err = verifier.Verify(server.sign(t, "rotated-key", defaultClaims()))
	assert.NoError(t, err)
}

func TestVerifyMissingKid(t *testing.T) {
	server := newJWKSServer(t)
	verifier := newTestVerifier(server)

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, defaultClaims())
	delete(token.Header, "kid")
	signed, err := token.SignedString(server.key)
	require.NoError(t, err)

	_, err = verifier.Verify(signed)
	assert.ErrorIs(t, err, domain.ErrTokenMissingKid)
}

func TestVerifyRejectsNonRSAAlgorithm(t *testing.T) {
	server := newJWKSServer(t)
	verifier := newTestVerifier(server)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, defaultClaims())
	token.Header["kid"] = server.kid
	signed, err := token.SignedString([]byte("shared-secret"))
	require.NoError(t, err)

	_, err = verifier.Verify(signed)
	assert.ErrorIs(t, err, domain.ErrTokenMalformed)
}

func TestVerifyGarbageToken(t *testing.T) {
	server := newJWKSServer(t)
	verifier := newTestVerifier(server)

	_, err := verifier.Verify("not-a-jwt")
	assert.Error(t, err)
}

func TestSettingsFromConfigDefaults(t *testing.T) {
	t.Setenv("AUTH0_DOMAIN", "leftys.auth0.com")
	t.Setenv("AUTH0_AUDIENCE", testAudience)
	t.Setenv("AUTH0_ISSUER", "")

	s, err := SettingsFromConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://leftys.auth0.com/", s.Issuer)
	assert.Equal(t, "https://leftys.auth0.com/.well-known/jwks.json", s.jwksURL())
}

func TestSettingsFromConfigMissing(t *testing.T) {
	t.Setenv("AUTH0_DOMAIN", "")
	t.Setenv("AUTH0_AUDIENCE", "")

	_, err := SettingsFromConfig()
	assert.ErrorIs(t, err, domain.ErrAuthNotConfigured)
}

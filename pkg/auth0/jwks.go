package auth0

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"
)

const jwksCacheTTL = time.Hour

type (
	jsonWebKey struct {
		Kty string `json:"kty"`
		Kid string `json:"kid"`
		Use string `json:"use"`
		Alg string `json:"alg"`
		N   string `json:"n"`
		E   string `json:"e"`
	}

	jsonWebKeySet struct {
		Keys []jsonWebKey `json:"keys"`
	}

	// keyCache holds the most recently fetched signing-key set. It is owned by
	// a verifier instance rather than shared as package state, and refreshes
	// lazily once the TTL elapses or a lookup misses.
	keyCache struct {
		url        string
		httpClient *http.Client

		mu        sync.RWMutex
		keys      []jsonWebKey
		fetchedAt time.Time
	}
)

func newKeyCache(url string) *keyCache {
	return &keyCache{
		url:        url,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *keyCache) load(force bool) ([]jsonWebKey, error) {
	c.mu.RLock()
	if !force && c.keys != nil && time.Since(c.fetchedAt) < jwksCacheTTL {
		keys := c.keys
		c.mu.RUnlock()
		return keys, nil
	}
	c.mu.RUnlock()

	resp, err := c.httpClient.Get(c.url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jwks endpoint returned %s", resp.Status)
	}

	var keySet jsonWebKeySet
	if err := json.NewDecoder(resp.Body).Decode(&keySet); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.keys = keySet.Keys
	c.fetchedAt = time.Now()
	c.mu.Unlock()

	return keySet.Keys, nil
}

// find returns the key matching kid, forcing one refresh on a miss to cover
// recently rotated signing keys.
func (c *keyCache) find(kid string) (*jsonWebKey, error) {
	keys, err := c.load(false)
	if err != nil {
		return nil, err
	}
	for i := range keys {
		if keys[i].Kid == kid {
			return &keys[i], nil
		}
	}

	keys, err = c.load(true)
	if err != nil {
		return nil, err
	}
	for i := range keys {
		if keys[i].Kid == kid {
			return &keys[i], nil
		}
	}
	return nil, nil
}

func (k *jsonWebKey) publicKey() (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, fmt.Errorf("invalid jwk modulus: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, fmt.Errorf("invalid jwk exponent: %w", err)
	}

	e := 0
	for _, b := range eBytes {
		e = e<<8 | int(b)
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: e,
	}, nil
}

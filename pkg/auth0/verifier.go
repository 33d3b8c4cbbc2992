package auth0

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"

	"leftys-backend/domain"
)

type (
	// Verifier validates bearer access tokens issued by the identity provider
	// and returns the authenticated principal.
	Verifier interface {
		Verify(token string) (domain.Principal, error)
	}

	verifier struct {
		settings Settings
		cache    *keyCache
	}
)

func NewVerifier(settings Settings) Verifier {
	return &verifier{
		settings: settings,
		cache:    newKeyCache(settings.jwksURL()),
	}
}

func (v *verifier) Verify(tokenString string) (domain.Principal, error) {
	token, err := jwt.Parse(tokenString, v.signingKey)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Principal{}, domain.ErrTokenExpired
		}
		var sentinel error
		for _, candidate := range []error{
			domain.ErrTokenMalformed,
			domain.ErrTokenMissingKid,
			domain.ErrSigningKeyNotFound,
		} {
			if errors.Is(err, candidate) {
				sentinel = candidate
				break
			}
		}
		if sentinel != nil {
			return domain.Principal{}, sentinel
		}
		return domain.Principal{}, domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return domain.Principal{}, domain.ErrTokenInvalid
	}

	if !claims.VerifyAudience(v.settings.Audience, true) {
		return domain.Principal{}, domain.ErrAudienceMismatch
	}
	if !claims.VerifyIssuer(v.settings.Issuer, true) {
		return domain.Principal{}, domain.ErrIssuerMismatch
	}

	return principalFromClaims(claims), nil
}

func (v *verifier) signingKey(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
		return nil, fmt.Errorf("%w: unexpected signing method %v", domain.ErrTokenMalformed, token.Header["alg"])
	}

	kid, _ := token.Header["kid"].(string)
	if kid == "" {
		return nil, domain.ErrTokenMissingKid
	}

	key, err := v.cache.find(kid)
	if err != nil {
		return nil, err
	}
	if key == nil {
		return nil, domain.ErrSigningKeyNotFound
	}

	return key.publicKey()
}

func principalFromClaims(claims jwt.MapClaims) domain.Principal {
	principal := domain.Principal{
		Sub: fmt.Sprintf("%v", claims["sub"]),
	}

	if scope, ok := claims["scope"].(string); ok {
		principal.Scope = scope
	}
	if email, ok := claims["email"].(string); ok {
		principal.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		principal.Name = name
	}
	if raw, ok := claims["permissions"].([]interface{}); ok {
		for _, p := range raw {
			if s, ok := p.(string); ok {
				principal.Permissions = append(principal.Permissions, s)
			}
		}
	}

	return principal
}

package auth0

import (
	"fmt"

	"leftys-backend/domain"
	"leftys-backend/internal/utils"
)

// Settings holds the identity-provider configuration the verifier needs.
type Settings struct {
	Domain   string
	Audience string
	Issuer   string

	// JWKSURL overrides the default discovery endpoint, used by tests.
	JWKSURL string
}

func SettingsFromConfig() (Settings, error) {
	s := Settings{
		Domain:   utils.GetConfig("AUTH0_DOMAIN"),
		Audience: utils.GetConfig("AUTH0_AUDIENCE"),
		Issuer:   utils.GetConfig("AUTH0_ISSUER"),
	}

	if s.Domain == "" || s.Audience == "" {
		return Settings{}, domain.ErrAuthNotConfigured
	}

	if s.Issuer == "" {
		s.Issuer = fmt.Sprintf("https://%s/", s.Domain)
	}
	return s, nil
}

func (s Settings) jwksURL() string {
	if s.JWKSURL != "" {
		return s.JWKSURL
	}
	return fmt.Sprintf("https://%s/.well-known/jwks.json", s.Domain)
}

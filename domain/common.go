package domain

import (
	"errors"
)

var (
	MessageFailedBodyRequest    = "failed to process request body"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"

	ErrParseUUID          = errors.New("failed to parse UUID")
	ErrTokenNotFound      = errors.New("authorization header missing")
	ErrTokenInvalid       = errors.New("invalid or expired token")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenMalformed     = errors.New("invalid token header")
	ErrTokenMissingKid    = errors.New("missing token kid")
	ErrSigningKeyNotFound = errors.New("unable to find a matching signing key")
	ErrAudienceMismatch   = errors.New("token audience mismatch")
	ErrIssuerMismatch     = errors.New("token issuer mismatch")
	ErrAuthNotConfigured  = errors.New("AUTH0_DOMAIN and AUTH0_AUDIENCE must be configured")
)

// Allergens accepted on postings and scan records.
var Allergens = []string{
	"gluten",
	"dairy",
	"nuts",
	"peanuts",
	"soy",
	"eggs",
	"fish",
	"shellfish",
	"sesame",
}

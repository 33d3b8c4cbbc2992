package domain

import (
	"errors"
)

var (
	MessageSuccessUpdatePushTokens = "push tokens updated successfully"
	MessageFailedUpdatePushTokens  = "failed to update push tokens"

	ErrAccountNotFound = errors.New("account not found")
	ErrAccountBanned   = errors.New("account is banned")
)

type (
	// Principal is the authenticated identity-provider subject attached to a
	// request before an account is resolved.
	Principal struct {
		Sub         string
		Scope       string
		Permissions []string
		Email       string
		Name        string
	}

	UpdatePushTokensRequest struct {
		Tokens []string `json:"tokens" validate:"required"`
	}
)

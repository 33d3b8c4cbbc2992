package account

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"leftys-backend/domain"
	"leftys-backend/entities"
)

func setupAccountService(t *testing.T) (AccountService, AccountRepository, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Account{}))

	repo := NewAccountRepository(db)
	return NewAccountService(repo), repo, db
}

func TestResolveAccountCreatesOnFirstSight(t *testing.T) {
	svc, _, _ := setupAccountService(t)

	principal := domain.Principal{
		Sub:   "auth0|newcomer",
		Email: "new@example.com",
		Name:  "New Person",
	}

	acct, err := svc.ResolveAccount(context.Background(), principal)
	require.NoError(t, err)

	assert.Equal(t, "auth0|newcomer", acct.Auth0ID)
	assert.Equal(t, "new@example.com", acct.Email)
	assert.Equal(t, "New Person", acct.Name)
	assert.NotEqual(t, uuid.Nil, acct.ID)
}

func TestResolveAccountIsIdempotent(t *testing.T) {
	svc, _, _ := setupAccountService(t)

	principal := domain.Principal{Sub: "auth0|repeat"}

	first, err := svc.ResolveAccount(context.Background(), principal)
	require.NoError(t, err)
	second, err := svc.ResolveAccount(context.Background(), principal)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
}

func TestResolveAccountRejectsBanned(t *testing.T) {
	svc, _, db := setupAccountService(t)

	require.NoError(t, db.Create(&entities.Account{
		ID:      uuid.New(),
		Auth0ID: "auth0|banned",
		Banned:  true,
	}).Error)

	_, err := svc.ResolveAccount(context.Background(), domain.Principal{Sub: "auth0|banned"})
	assert.ErrorIs(t, err, domain.ErrAccountBanned)
}

func TestUpdatePushTokens(t *testing.T) {
	svc, repo, _ := setupAccountService(t)

	acct, err := svc.ResolveAccount(context.Background(), domain.Principal{Sub: "auth0|tokens"})
	require.NoError(t, err)

	tokens := []string{"ExponentPushToken[abc]", "ExponentPushToken[def]"}
	require.NoError(t, svc.UpdatePushTokens(context.Background(), acct.ID.String(), domain.UpdatePushTokensRequest{Tokens: tokens}))

	stored, err := repo.FindByID(context.Background(), acct.ID.String())
	require.NoError(t, err)
	assert.Equal(t, tokens, []string(stored.ExpoPushTokens))
}

func TestUpdatePushTokensUnknownAccount(t *testing.T) {
	svc, _, _ := setupAccountService(t)

	err := svc.UpdatePushTokens(context.Background(), uuid.NewString(), domain.UpdatePushTokensRequest{
		Tokens: []string{"ExponentPushToken[abc]"},
	})
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

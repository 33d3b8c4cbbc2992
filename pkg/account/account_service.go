package account

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"leftys-backend/domain"
	"leftys-backend/entities"
)

type (
	AccountService interface {
		// ResolveAccount returns the caller's account, creating it lazily on
		// the first authenticated request.
		ResolveAccount(ctx context.Context, principal domain.Principal) (*entities.Account, error)
		UpdatePushTokens(ctx context.Context, accountID string, req domain.UpdatePushTokensRequest) error
	}

	accountService struct {
		accountRepository AccountRepository
	}
)

func NewAccountService(accountRepository AccountRepository) AccountService {
	return &accountService{accountRepository: accountRepository}
}

func (s *accountService) ResolveAccount(ctx context.Context, principal domain.Principal) (*entities.Account, error) {
	account := &entities.Account{
		ID:      uuid.New(),
		Auth0ID: principal.Sub,
		Name:    principal.Name,
		Email:   principal.Email,
	}

	account, _, err := s.accountRepository.GetOrCreate(ctx, account)
	if err != nil {
		return nil, err
	}

	if account.Banned {
		return nil, domain.ErrAccountBanned
	}

	return account, nil
}

func (s *accountService) UpdatePushTokens(ctx context.Context, accountID string, req domain.UpdatePushTokensRequest) error {
	if _, err := s.accountRepository.FindByID(ctx, accountID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrAccountNotFound
		}
		return err
	}

	return s.accountRepository.UpdatePushTokens(ctx, accountID, req.Tokens)
}

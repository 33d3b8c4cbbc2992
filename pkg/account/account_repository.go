package account

import (
	"context"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"leftys-backend/entities"
)

type (
	AccountRepository interface {
		FindByAuth0ID(ctx context.Context, auth0ID string) (*entities.Account, error)
		FindByID(ctx context.Context, id string) (*entities.Account, error)
		// GetOrCreate inserts the account unless one already exists for the
		// same auth0_id, and reports whether a new row was created. The
		// conflict clause keeps concurrent first-time logins idempotent.
		GetOrCreate(ctx context.Context, account *entities.Account) (*entities.Account, bool, error)
		UpdatePushTokens(ctx context.Context, id string, tokens []string) error
	}

	accountRepository struct {
		db *gorm.DB
	}
)

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) FindByAuth0ID(ctx context.Context, auth0ID string) (*entities.Account, error) {
	var account entities.Account
	if err := r.db.WithContext(ctx).Where("auth0_id = ?", auth0ID).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) FindByID(ctx context.Context, id string) (*entities.Account, error) {
	var account entities.Account
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) GetOrCreate(ctx context.Context, account *entities.Account) (*entities.Account, bool, error) {
	existing, err := r.FindByAuth0ID(ctx, account.Auth0ID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "auth0_id"}},
			DoNothing: true,
		}).
		Create(account)
	if result.Error != nil {
		return nil, false, result.Error
	}

	if result.RowsAffected == 0 {
		// A concurrent request won the insert race.
		existing, err := r.FindByAuth0ID(ctx, account.Auth0ID)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	return account, true, nil
}

func (r *accountRepository) UpdatePushTokens(ctx context.Context, id string, tokens []string) error {
	return r.db.WithContext(ctx).Model(&entities.Account{}).
		Where("id = ?", id).
		Update("expo_push_tokens", datatypes.NewJSONSlice(tokens)).Error
}

package notification

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"leftys-backend/domain"
	"leftys-backend/entities"
	"leftys-backend/pkg/inventory"
)

type stubGemini struct {
	configured bool
	text       string
	err        error
}

func (s *stubGemini) Configured() bool { return s.configured }

func (s *stubGemini) Generate(ctx context.Context, prompt string) (string, error) {
	return s.text, s.err
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func setupNotifier(t *testing.T, g *stubGemini) (*notificationService, *gorm.DB, *[]sentMail) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entities.Account{},
		&entities.InventoryItem{},
		&entities.UserMetrics{},
	))

	svc, err := NewNotificationService(db, inventory.NewInventoryRepository(db), g)
	require.NoError(t, err)

	notifier := svc.(*notificationService)
	sent := &[]sentMail{}
	notifier.mailer = func(toEmail, subject, body string) error {
		*sent = append(*sent, sentMail{to: toEmail, subject: subject, body: body})
		return nil
	}
	return notifier, db, sent
}

func seedAccountWithItem(t *testing.T, db *gorm.DB, email string, daysOut int, banned bool) uuid.UUID {
	t.Helper()

	accountID := uuid.New()
	require.NoError(t, db.Create(&entities.Account{
		ID:      accountID,
		Auth0ID: "auth0|" + accountID.String(),
		Email:   email,
		Banned:  banned,
	}).Error)

	require.NoError(t, db.Create(&entities.InventoryItem{
		ID:                uuid.New(),
		OwnerID:           accountID,
		Name:              "milk",
		Quantity:          1,
		RemainingQuantity: 1,
		BaseUnit:          "L",
		InputDate:         time.Now(),
		EstExpiryDate:     time.Now().AddDate(0, 0, daysOut),
		Status:            domain.InventoryStatusActive,
	}).Error)

	return accountID
}

func TestDigestSentForExpiringItems(t *testing.T) {
	notifier, db, sent := setupNotifier(t, &stubGemini{configured: false})
	seedAccountWithItem(t, db, "user@example.com", 3, false)

	require.NoError(t, notifier.SendExpiryDigests(context.Background()))

	require.Len(t, *sent, 1)
	assert.Equal(t, "user@example.com", (*sent)[0].to)
	assert.Contains(t, (*sent)[0].body, "milk")
}

func TestDigestSkipsDistantExpiry(t *testing.T) {
	notifier, db, sent := setupNotifier(t, &stubGemini{configured: false})
	seedAccountWithItem(t, db, "user@example.com", 30, false)

	require.NoError(t, notifier.SendExpiryDigests(context.Background()))
	assert.Empty(t, *sent)
}

func TestDigestSkipsAccountsWithoutEmail(t *testing.T) {
	notifier, db, sent := setupNotifier(t, &stubGemini{configured: false})
	seedAccountWithItem(t, db, "", 3, false)

	require.NoError(t, notifier.SendExpiryDigests(context.Background()))
	assert.Empty(t, *sent)
}

func TestDigestSkipsBannedAccounts(t *testing.T) {
	notifier, db, sent := setupNotifier(t, &stubGemini{configured: false})
	seedAccountWithItem(t, db, "banned@example.com", 3, true)

	require.NoError(t, notifier.SendExpiryDigests(context.Background()))
	assert.Empty(t, *sent)
}

func TestDigestUsesModelCopyWhenAvailable(t *testing.T) {
	notifier, db, sent := setupNotifier(t, &stubGemini{
		configured: true,
		text:       "<p>Hi! Your milk needs attention.</p>",
	})
	seedAccountWithItem(t, db, "user@example.com", 3, false)

	require.NoError(t, notifier.SendExpiryDigests(context.Background()))

	require.Len(t, *sent, 1)
	assert.Equal(t, "<p>Hi! Your milk needs attention.</p>", (*sent)[0].body)
}

func TestDigestFallsBackOnModelError(t *testing.T) {
	notifier, db, sent := setupNotifier(t, &stubGemini{configured: true, err: domain.ErrGeminiAPIFailed})
	seedAccountWithItem(t, db, "user@example.com", 3, false)

	require.NoError(t, notifier.SendExpiryDigests(context.Background()))

	require.Len(t, *sent, 1)
	assert.Contains(t, (*sent)[0].body, "milk")
}

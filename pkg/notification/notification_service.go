package notification

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"

	"leftys-backend/domain"
	"leftys-backend/entities"
	"leftys-backend/internal/utils/mailing"
	"leftys-backend/pkg/gemini"
	"leftys-backend/pkg/inventory"
)

// expiryHorizon is how far ahead the digest looks for items worth flagging.
const expiryHorizon = 10 * 24 * time.Hour

type (
	// Mailer is satisfied by mailing.SendMail and swapped out in tests.
	Mailer func(toEmail, subject, body string) error

	NotificationService interface {
		Start() error
		Stop() error
		// SendExpiryDigests emails every account that has active items nearing
		// expiry. Per-account failures are logged and skipped so one bad
		// address never blocks the rest of the run.
		SendExpiryDigests(ctx context.Context) error
	}

	notificationService struct {
		db                  *gorm.DB
		inventoryRepository inventory.InventoryRepository
		gemini              gemini.Client
		mailer              Mailer
		scheduler           gocron.Scheduler
	}
)

func NewNotificationService(db *gorm.DB, inventoryRepository inventory.InventoryRepository, geminiClient gemini.Client) (NotificationService, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	return &notificationService{
		db:                  db,
		inventoryRepository: inventoryRepository,
		gemini:              geminiClient,
		mailer:              mailing.SendMail,
		scheduler:           scheduler,
	}, nil
}

func (s *notificationService) Start() error {
	_, err := s.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(9, 0, 0))),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			if err := s.SendExpiryDigests(ctx); err != nil {
				log.Printf("expiry digest run failed: %v", err)
			}
		}),
	)
	if err != nil {
		return err
	}

	s.scheduler.Start()
	return nil
}

func (s *notificationService) Stop() error {
	return s.scheduler.Shutdown()
}

func (s *notificationService) SendExpiryDigests(ctx context.Context) error {
	accounts, err := s.accountsWithExpiringItems(ctx)
	if err != nil {
		return err
	}

	for _, account := range accounts {
		if account.Email == "" {
			continue
		}

		items, err := s.inventoryRepository.FindExpiringItemsByOwner(ctx, account.ID.String(), expiryHorizon)
		if err != nil {
			log.Printf("failed to load expiring items for %s: %v", account.ID, err)
			continue
		}
		if len(items) == 0 {
			continue
		}

		body := s.digestBody(ctx, account, items)
		if err := s.mailer(account.Email, "Food in your pantry is expiring soon", body); err != nil {
			log.Printf("failed to send digest to %s: %v", account.ID, err)
		}
	}

	return nil
}

func (s *notificationService) accountsWithExpiringItems(ctx context.Context) ([]*entities.Account, error) {
	var accounts []*entities.Account
	err := s.db.WithContext(ctx).
		Distinct("accounts.*").
		Joins("JOIN inventory_items ON inventory_items.owner_id = accounts.id").
		Where("inventory_items.status = ? AND inventory_items.est_expiry_date <= ?",
			domain.InventoryStatusActive, time.Now().Add(expiryHorizon)).
		Where("accounts.banned = ?", false).
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// digestBody prefers model-written copy and falls back to a plain list.
func (s *notificationService) digestBody(ctx context.Context, account *entities.Account, items []*entities.InventoryItem) string {
	if s.gemini.Configured() {
		text, err := s.gemini.Generate(ctx, digestPrompt(account.Name, items))
		if err == nil && strings.TrimSpace(text) != "" {
			return text
		}
		if err != nil {
			log.Printf("digest copy generation failed for %s: %v", account.ID, err)
		}
	}

	var b strings.Builder
	b.WriteString("<p>Some items in your pantry are expiring soon:</p><ul>")
	for _, item := range items {
		b.WriteString(fmt.Sprintf("<li>%s (%.1f %s) expires %s</li>",
			item.Name, item.RemainingQuantity, item.BaseUnit, item.EstExpiryDate.Format("Jan 2")))
	}
	b.WriteString("</ul><p>Use them up or share them with a neighbor before they go to waste.</p>")
	return b.String()
}

func digestPrompt(name string, items []*entities.InventoryItem) string {
	summaries := make([]string, 0, len(items))
	for _, item := range items {
		summaries = append(summaries, fmt.Sprintf("%s (%.1f %s, expires %s)",
			item.Name, item.RemainingQuantity, item.BaseUnit, item.EstExpiryDate.Format("2006-01-02")))
	}

	greeting := name
	if greeting == "" {
		greeting = "there"
	}

	return fmt.Sprintf(
		"Write a short, friendly HTML email body (no subject line) for %s, "+
			"whose pantry items are expiring soon: %s. "+
			"Encourage them to use the items or share them with a neighbor. "+
			"Use one short paragraph and a bullet list of the items. "+
			"Respond with only the HTML body, no markdown fences.",
		greeting, strings.Join(summaries, "; "),
	)
}

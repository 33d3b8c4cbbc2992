package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"leftys-backend/domain"
	"leftys-backend/entities"
)

type (
	InventoryRepository interface {
		CreateItem(ctx context.Context, item *entities.InventoryItem) error
		FindItemByID(ctx context.Context, id string) (*entities.InventoryItem, error)
		// FindItemsByOwner lists the owner's items, optionally filtered by
		// status when status is non-empty.
		FindItemsByOwner(ctx context.Context, ownerID string, status string) ([]*entities.InventoryItem, error)
		FindActiveItemsByOwner(ctx context.Context, ownerID string) ([]*entities.InventoryItem, error)
		// FindExpiringItemsByOwner returns active items whose estimated expiry
		// falls within the given horizon, soonest first.
		FindExpiringItemsByOwner(ctx context.Context, ownerID string, within time.Duration) ([]*entities.InventoryItem, error)
		UpdateItem(ctx context.Context, id string, updates map[string]interface{}) error
		DeleteItem(ctx context.Context, id string) error

		GetMetrics(ctx context.Context, ownerID string) (*entities.UserMetrics, error)
		// AddImpact increments the additive counters, creating the row on first
		// use. Counters only ever grow.
		AddImpact(ctx context.Context, ownerID string, impact Impact, items int) error
	}

	inventoryRepository struct {
		db *gorm.DB
	}
)

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) CreateItem(ctx context.Context, item *entities.InventoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *inventoryRepository) FindItemByID(ctx context.Context, id string) (*entities.InventoryItem, error) {
	var item entities.InventoryItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepository) FindItemsByOwner(ctx context.Context, ownerID string, status string) ([]*entities.InventoryItem, error) {
	query := r.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var items []*entities.InventoryItem
	if err := query.Order("created_at desc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *inventoryRepository) FindActiveItemsByOwner(ctx context.Context, ownerID string) ([]*entities.InventoryItem, error) {
	var items []*entities.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND status = ?", ownerID, domain.InventoryStatusActive).
		Order("est_expiry_date asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *inventoryRepository) FindExpiringItemsByOwner(ctx context.Context, ownerID string, within time.Duration) ([]*entities.InventoryItem, error) {
	var items []*entities.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND status = ? AND est_expiry_date <= ?",
			ownerID, domain.InventoryStatusActive, time.Now().Add(within)).
		Order("est_expiry_date asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *inventoryRepository) UpdateItem(ctx context.Context, id string, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&entities.InventoryItem{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *inventoryRepository) DeleteItem(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.InventoryItem{}).Error
}

func (r *inventoryRepository) GetMetrics(ctx context.Context, ownerID string) (*entities.UserMetrics, error) {
	var metrics entities.UserMetrics
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&metrics).Error; err != nil {
		return nil, err
	}
	return &metrics, nil
}

func (r *inventoryRepository) AddImpact(ctx context.Context, ownerID string, impact Impact, items int) error {
	result := r.db.WithContext(ctx).Model(&entities.UserMetrics{}).
		Where("owner_id = ?", ownerID).
		Updates(map[string]interface{}{
			"food_saved_lbs":   gorm.Expr("food_saved_lbs + ?", impact.FoodSavedLbs),
			"co2_prevented_kg": gorm.Expr("co2_prevented_kg + ?", impact.CO2PreventedKg),
			"money_saved_usd":  gorm.Expr("money_saved_usd + ?", impact.MoneySavedUSD),
			"items_rescued":    gorm.Expr("items_rescued + ?", items),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	ownerUUID, err := uuid.Parse(ownerID)
	if err != nil {
		return domain.ErrParseUUID
	}
	metrics := &entities.UserMetrics{
		ID:             uuid.New(),
		OwnerID:        ownerUUID,
		FoodSavedLbs:   impact.FoodSavedLbs,
		CO2PreventedKg: impact.CO2PreventedKg,
		MoneySavedUSD:  impact.MoneySavedUSD,
		ItemsRescued:   items,
	}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "owner_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"food_saved_lbs":   gorm.Expr("user_metrics.food_saved_lbs + ?", impact.FoodSavedLbs),
				"co2_prevented_kg": gorm.Expr("user_metrics.co2_prevented_kg + ?", impact.CO2PreventedKg),
				"money_saved_usd":  gorm.Expr("user_metrics.money_saved_usd + ?", impact.MoneySavedUSD),
				"items_rescued":    gorm.Expr("user_metrics.items_rescued + ?", items),
			}),
		}).
		Create(metrics).Error
	return err
}

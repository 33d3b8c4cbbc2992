package entities

import (
	"time"

	"github.com/google/uuid"
)

type InventoryItem struct {
	ID                uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID           uuid.UUID  `gorm:"index:idx_inventory_owner_status" json:"owner_id"`
	Name              string     `json:"name"`
	Quantity          float64    `json:"quantity"`
	RemainingQuantity float64    `json:"remaining_quantity"`
	BaseUnit          string     `json:"base_unit"` // g, kg, oz, lb, ml, L, pieces
	InputDate         time.Time  `json:"input_date"`
	EstExpiryDate     time.Time  `gorm:"index" json:"est_expiry_date"`
	CostEstimate      float64    `json:"cost_estimate"`
	Status            string     `gorm:"index:idx_inventory_owner_status" json:"status"` // active, consumed, expired, discarded
	UsedAt            *time.Time `json:"used_at,omitempty"`
	DiscardedAt       *time.Time `json:"discarded_at,omitempty"`

	Owner *Account `gorm:"foreignKey:OwnerID"`
	Timestamp
}

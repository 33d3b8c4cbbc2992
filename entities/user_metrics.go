package entities

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UserMetrics holds one row of strictly additive counters per account.
type UserMetrics struct {
	ID             uuid.UUID                   `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID        uuid.UUID                   `gorm:"uniqueIndex" json:"owner_id"`
	FoodSavedLbs   float64                     `json:"food_saved_lbs"`
	CO2PreventedKg float64                     `gorm:"column:co2_prevented_kg" json:"co2_emissions_prevented_kg"`
	MoneySavedUSD  float64                     `gorm:"column:money_saved_usd" json:"money_saved_usd"`
	ItemsRescued   int                         `json:"items_rescued"`
	Streak         int                         `json:"streak"`
	Badges         datatypes.JSONSlice[string] `json:"badges"`

	Owner *Account `gorm:"foreignKey:OwnerID"`
	Timestamp
}

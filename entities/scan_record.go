package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ScanRecord is immutable after creation.
type ScanRecord struct {
	ID         uuid.UUID                   `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID    uuid.UUID                   `gorm:"index" json:"owner_id"`
	Title      string                      `json:"title"`
	Allergens  datatypes.JSONSlice[string] `json:"allergens"`
	ExpiryDate *time.Time                  `json:"expiry_date,omitempty"`
	RawText    string                      `gorm:"type:text" json:"raw_text"`
	Notes      string                      `json:"notes,omitempty"`
	MimeType   string                      `json:"mime_type,omitempty"`
	ImageURL   string                      `json:"image_url,omitempty"`

	Owner *Account `gorm:"foreignKey:OwnerID"`
	Timestamp
}

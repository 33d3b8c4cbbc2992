package entities

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Account struct {
	ID             uuid.UUID                   `gorm:"type:uuid;primary_key" json:"id"`
	Auth0ID        string                      `gorm:"uniqueIndex" json:"auth0_id"`
	Name           string                      `json:"name,omitempty"`
	Email          string                      `gorm:"index" json:"email,omitempty"`
	Phone          string                      `gorm:"index" json:"phone"`
	PhoneVerified  bool                        `json:"phone_verified"`
	ExpoPushTokens datatypes.JSONSlice[string] `json:"expo_push_tokens"`
	Strikes        int                         `json:"strikes"`
	Banned         bool                        `json:"banned"`

	Timestamp
}

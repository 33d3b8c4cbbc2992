package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Posting struct {
	ID                 uuid.UUID                   `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID            uuid.UUID                   `gorm:"index:idx_postings_owner_status" json:"owner_id"`
	Title              string                      `json:"title"`
	Allergens          datatypes.JSONSlice[string] `json:"allergens"`
	QuantityLabel      string                      `json:"quantity_label"`
	PictureURL         string                      `json:"picture_url,omitempty"`
	PickupStart        time.Time                   `json:"pickup_start"`
	PickupEnd          time.Time                   `json:"pickup_end"`
	Latitude           float64                     `json:"latitude"`
	Longitude          float64                     `json:"longitude"`
	ApproxGeohash5     string                      `json:"approx_geohash5"`
	PickupLocationHint string                      `json:"pickup_location_hint"`
	Status             string                      `gorm:"index:idx_postings_owner_status;index:idx_postings_status_expires" json:"status"` // open, reserved, picked_up, expired, canceled
	ClaimedBy          *uuid.UUID                  `json:"claimed_by,omitempty"`
	ClaimDeadline      *time.Time                  `json:"claim_deadline,omitempty"`
	ExpiresAt          time.Time                   `gorm:"index:idx_postings_status_expires" json:"expires_at"`
	ImpactNarrative    string                      `json:"impact_narrative,omitempty"`
	Tags               datatypes.JSONSlice[string] `json:"tags"`

	Owner    *Account   `gorm:"foreignKey:OwnerID"`
	Claims   []*Claim   `gorm:"foreignKey:PostingID"`
	Messages []*Message `gorm:"foreignKey:PostingID"`
	Timestamp
}

type Claim struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	PostingID  uuid.UUID  `gorm:"index" json:"posting_id"`
	ClaimerID  uuid.UUID  `gorm:"index:idx_claims_claimer_status" json:"claimer_id"`
	Status     string     `gorm:"index:idx_claims_claimer_status" json:"status"` // pending, accepted, expired, rejected
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`

	Posting *Posting `gorm:"foreignKey:PostingID"`
	Claimer *Account `gorm:"foreignKey:ClaimerID"`
	Timestamp
}

type Message struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	PostingID uuid.UUID `gorm:"index:idx_messages_posting_created" json:"posting_id"`
	SenderID  uuid.UUID `json:"sender_id"`
	Text      string    `json:"text"`

	Posting *Posting `gorm:"foreignKey:PostingID"`
	Sender  *Account `gorm:"foreignKey:SenderID"`
	Timestamp
}

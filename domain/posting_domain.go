package domain

import (
	"errors"
	"time"
)

const (
	PostingStatusOpen     = "open"
	PostingStatusReserved = "reserved"
	PostingStatusPickedUp = "picked_up"
	PostingStatusExpired  = "expired"
	PostingStatusCanceled = "canceled"

	ClaimStatusPending  = "pending"
	ClaimStatusAccepted = "accepted"
	ClaimStatusExpired  = "expired"
	ClaimStatusRejected = "rejected"

	// MaxOpenPostingsPerOwner caps simultaneously open postings per account.
	MaxOpenPostingsPerOwner = 3

	// ClaimAcceptWindow is how long an accepted claim stays valid.
	ClaimAcceptWindow = 45 * time.Minute
)

var (
	MessageSuccessGetPostings   = "postings retrieved successfully"
	MessageSuccessCreatePosting = "posting created successfully"
	MessageSuccessClaimPosting  = "claim submitted successfully"
	MessageSuccessGetClaims     = "claims retrieved successfully"
	MessageSuccessAcceptClaim   = "claim accepted successfully"
	MessageSuccessRejectClaim   = "claim rejected successfully"
	MessageSuccessGetMessages   = "messages retrieved successfully"
	MessageSuccessSendMessage   = "message sent successfully"

	MessageFailedGetPostings   = "failed to retrieve postings"
	MessageFailedCreatePosting = "failed to create posting"
	MessageFailedClaimPosting  = "failed to claim posting"
	MessageFailedGetClaims     = "failed to retrieve claims"
	MessageFailedAcceptClaim   = "failed to accept claim"
	MessageFailedRejectClaim   = "failed to reject claim"
	MessageFailedGetMessages   = "failed to retrieve messages"
	MessageFailedSendMessage   = "failed to send message"

	ErrPostingNotFound       = errors.New("posting not found")
	ErrPostingLimitExceeded  = errors.New("maximum 3 open postings allowed")
	ErrPostingNotOpen        = errors.New("posting is not open")
	ErrClaimNotFound         = errors.New("claim not found")
	ErrClaimNotPending       = errors.New("claim is not pending")
	ErrOwnClaimNotAllowed    = errors.New("cannot claim your own posting")
	ErrNotPostingOwner       = errors.New("only the posting owner may do this")
	ErrNotPostingParticipant = errors.New("only the owner or claimant may do this")
	ErrMissingCoordinates    = errors.New("lat and lng are required")
	ErrInvalidCoordinates    = errors.New("lat must be in [-90, 90] and lng in [-180, 180]")
)

type (
	Coordinates struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}

	GetPostingsRequest struct {
		Latitude  *float64 `query:"lat"`
		Longitude *float64 `query:"lng"`
		RadiusKm  float64  `query:"radius_km"`
	}

	CreatePostingRequest struct {
		Title         string `json:"title" validate:"required"`
		QuantityLabel string `json:"quantityLabel" validate:"required"`
		// Coordinates usually arrive as lat/lng query parameters; these body
		// fields are a fallback. Pointers keep 0 (equator, prime meridian)
		// distinguishable from absent.
		Latitude           *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
		Longitude          *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
		PickupWindowLabel  string   `json:"pickupWindowLabel" validate:"omitempty"`
		PickupLocationHint string   `json:"pickupLocationHint" validate:"omitempty"`
		PictureURL         string   `json:"pictureUrl" validate:"omitempty,url"`
		Allergens          []string `json:"allergens" validate:"dive,oneof=gluten dairy nuts peanuts soy eggs fish shellfish sesame"`
		ImpactNarrative    string   `json:"impactNarrative" validate:"omitempty"`
		Tags               []string `json:"tags" validate:"omitempty"`
	}

	PostingResponse struct {
		ID                 string       `json:"id"`
		Title              string       `json:"title"`
		QuantityLabel      string       `json:"quantityLabel"`
		PickupWindowLabel  string       `json:"pickupWindowLabel,omitempty"`
		PickupLocationHint string       `json:"pickupLocationHint"`
		PictureURL         string       `json:"pictureUrl,omitempty"`
		Status             string       `json:"status"`
		Allergens          []string     `json:"allergens"`
		DistanceKm         *float64     `json:"distanceKm,omitempty"`
		Coordinates        *Coordinates `json:"coordinates,omitempty"`
		CreatedAt          string       `json:"createdAt"`
		ImpactNarrative    string       `json:"impactNarrative,omitempty"`
		Tags               []string     `json:"tags,omitempty"`
	}

	ClaimResponse struct {
		ID         string     `json:"id"`
		PostingID  string     `json:"posting_id"`
		ClaimerID  string     `json:"claimer_id"`
		Status     string     `json:"status"`
		AcceptedAt *time.Time `json:"accepted_at,omitempty"`
		ExpiresAt  *time.Time `json:"expires_at,omitempty"`
		CreatedAt  time.Time  `json:"created_at"`
	}

	SendMessageRequest struct {
		Text string `json:"text" validate:"required,max=2000"`
	}

	MessageResponse struct {
		ID        string    `json:"id"`
		PostingID string    `json:"posting_id"`
		SenderID  string    `json:"sender_id"`
		Text      string    `json:"text"`
		CreatedAt time.Time `json:"created_at"`
	}
)

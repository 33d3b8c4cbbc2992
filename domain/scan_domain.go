package domain

import (
	"errors"
	"mime/multipart"
)

var (
	MessageSuccessGetScans   = "scans retrieved successfully"
	MessageSuccessUploadScan = "scan uploaded successfully"

	MessageFailedGetScans   = "failed to retrieve scans"
	MessageFailedUploadScan = "failed to upload scan"

	ErrInvalidImageFormat = errors.New("only jpeg/png/webp are allowed")
)

type (
	UploadScanRequest struct {
		Image      *multipart.FileHeader `json:"image" form:"image" validate:"required"`
		Title      string                `json:"title" form:"title" validate:"omitempty"`
		Notes      string                `json:"notes" form:"notes" validate:"omitempty"`
		RawText    string                `json:"rawText" form:"rawText" validate:"omitempty"`
		ExpiryDate string                `json:"expiryDate" form:"expiryDate" validate:"omitempty"`
		// Unknown allergen values are dropped during upload, not rejected.
		Allergens []string `json:"allergens" form:"allergens" validate:"omitempty"`
	}

	ScanRecordResponse struct {
		ID         string   `json:"id"`
		Title      string   `json:"title"`
		Allergens  []string `json:"allergens"`
		ExpiryDate *string  `json:"expiryDate,omitempty"`
		RawText    string   `json:"rawText"`
		Notes      string   `json:"notes,omitempty"`
		MimeType   string   `json:"mimeType,omitempty"`
		ImageURL   string   `json:"imageUrl,omitempty"`
		CreatedAt  string   `json:"createdAt"`
	}
)

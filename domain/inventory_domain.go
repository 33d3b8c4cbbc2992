package domain

import (
	"errors"
	"time"
)

const (
	InventoryStatusActive    = "active"
	InventoryStatusConsumed  = "consumed"
	InventoryStatusExpired   = "expired"
	InventoryStatusDiscarded = "discarded"

	ConsumeReasonUsed      = "used"
	ConsumeReasonDiscarded = "discarded"
)

var (
	MessageSuccessGetInventory     = "inventory retrieved successfully"
	MessageSuccessAddInventoryItem = "inventory item added successfully"
	MessageSuccessUpdateQuantity   = "inventory quantity updated successfully"
	MessageSuccessConsumeItem      = "inventory item consumed successfully"
	MessageSuccessDeleteItem       = "inventory item deleted successfully"
	MessageSuccessScanBarcode      = "barcode processed successfully"
	MessageSuccessGetImpact        = "impact metrics retrieved successfully"

	MessageFailedGetInventory     = "failed to retrieve inventory"
	MessageFailedAddInventoryItem = "failed to add inventory item"
	MessageFailedUpdateQuantity   = "failed to update inventory quantity"
	MessageFailedConsumeItem      = "failed to consume inventory item"
	MessageFailedDeleteItem       = "failed to delete inventory item"
	MessageFailedScanBarcode      = "failed to process barcode"
	MessageFailedGetImpact        = "failed to retrieve impact metrics"

	ErrInventoryItemNotFound = errors.New("inventory item not found")
	ErrItemNotActive         = errors.New("inventory item is not active")
	ErrInvalidQuantity       = errors.New("quantity must be positive")
	ErrInvalidConsumeReason  = errors.New("reason must be used or discarded")
	ErrInvalidExpiryDate     = errors.New("invalid expiry date")
)

type (
	AddInventoryItemRequest struct {
		Name          string  `json:"name" validate:"required"`
		Quantity      float64 `json:"quantity" validate:"required,gt=0"`
		BaseUnit      string  `json:"base_unit" validate:"required,oneof=g kg oz lb ml L pieces"`
		EstExpiryDate string  `json:"est_expiry_date" validate:"required"`
		CostEstimate  float64 `json:"cost_estimate" validate:"omitempty,gte=0"`
	}

	UpdateQuantityRequest struct {
		Quantity float64 `json:"quantity" validate:"required,gt=0"`
	}

	ConsumeItemRequest struct {
		QuantityDelta float64 `json:"quantity_delta" validate:"required,gt=0"`
		Reason        string  `json:"reason" validate:"required,oneof=used discarded"`
	}

	InventoryItemResponse struct {
		ID                string     `json:"id"`
		Name              string     `json:"name"`
		Quantity          float64    `json:"quantity"`
		RemainingQuantity float64    `json:"remaining_quantity"`
		BaseUnit          string     `json:"base_unit"`
		InputDate         time.Time  `json:"input_date"`
		EstExpiryDate     time.Time  `json:"est_expiry_date"`
		CostEstimate      float64    `json:"cost_estimate"`
		Status            string     `json:"status"`
		UsedAt            *time.Time `json:"used_at,omitempty"`
		DiscardedAt       *time.Time `json:"discarded_at,omitempty"`
		CreatedAt         time.Time  `json:"created_at"`
	}

	ScanBarcodeRequest struct {
		BarcodeData map[string]interface{} `json:"barcode_data" validate:"required"`
	}

	ImpactMetric struct {
		ID         string `json:"id"`
		Label      string `json:"label"`
		Value      string `json:"value"`
		HelperText string `json:"helperText"`
		Icon       string `json:"icon"`
	}

	ImpactResponse struct {
		Metrics []ImpactMetric `json:"metrics"`
		Source  string         `json:"source"` // live or fallback
	}
)

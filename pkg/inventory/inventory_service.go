package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"leftys-backend/domain"
	"leftys-backend/entities"
)

type (
	// BarcodeResolver turns raw barcode payloads into a structured item.
	BarcodeResolver interface {
		BarcodeToItem(ctx context.Context, barcodeData map[string]interface{}) (domain.BarcodeItem, error)
	}

	InventoryService interface {
		GetInventory(ctx context.Context, ownerID string, status string) ([]domain.InventoryItemResponse, error)
		AddItem(ctx context.Context, ownerID string, req domain.AddInventoryItemRequest) (domain.InventoryItemResponse, error)
		SetQuantity(ctx context.Context, ownerID, itemID string, req domain.UpdateQuantityRequest) (domain.InventoryItemResponse, error)
		ConsumeItem(ctx context.Context, ownerID, itemID string, req domain.ConsumeItemRequest) (domain.InventoryItemResponse, error)
		DeleteItem(ctx context.Context, ownerID, itemID string) error
		ScanBarcode(ctx context.Context, ownerID string, req domain.ScanBarcodeRequest) (domain.InventoryItemResponse, error)
		GetImpact(ctx context.Context, ownerID string) (domain.ImpactResponse, error)
	}

	inventoryService struct {
		inventoryRepository InventoryRepository
		barcodeResolver     BarcodeResolver
	}
)

func NewInventoryService(inventoryRepository InventoryRepository, barcodeResolver BarcodeResolver) InventoryService {
	return &inventoryService{
		inventoryRepository: inventoryRepository,
		barcodeResolver:     barcodeResolver,
	}
}

func (s *inventoryService) GetInventory(ctx context.Context, ownerID string, status string) ([]domain.InventoryItemResponse, error) {
	items, err := s.inventoryRepository.FindItemsByOwner(ctx, ownerID, status)
	if err != nil {
		return nil, err
	}

	response := make([]domain.InventoryItemResponse, 0, len(items))
	for _, item := range items {
		response = append(response, itemToResponse(item))
	}
	return response, nil
}

func (s *inventoryService) AddItem(ctx context.Context, ownerID string, req domain.AddInventoryItemRequest) (domain.InventoryItemResponse, error) {
	ownerUUID, err := uuid.Parse(ownerID)
	if err != nil {
		return domain.InventoryItemResponse{}, domain.ErrParseUUID
	}

	expiry, err := parseExpiryDate(req.EstExpiryDate)
	if err != nil {
		return domain.InventoryItemResponse{}, domain.ErrInvalidExpiryDate
	}

	item := &entities.InventoryItem{
		ID:                uuid.New(),
		OwnerID:           ownerUUID,
		Name:              req.Name,
		Quantity:          req.Quantity,
		RemainingQuantity: req.Quantity,
		BaseUnit:          req.BaseUnit,
		InputDate:         time.Now(),
		EstExpiryDate:     expiry,
		CostEstimate:      req.CostEstimate,
		Status:            domain.InventoryStatusActive,
	}

	if err := s.inventoryRepository.CreateItem(ctx, item); err != nil {
		return domain.InventoryItemResponse{}, err
	}
	return itemToResponse(item), nil
}

// SetQuantity overwrites both quantity and remaining quantity without
// touching status. A zero-remaining item stays active until an explicit
// consume or delete.
func (s *inventoryService) SetQuantity(ctx context.Context, ownerID, itemID string, req domain.UpdateQuantityRequest) (domain.InventoryItemResponse, error) {
	if req.Quantity <= 0 {
		return domain.InventoryItemResponse{}, domain.ErrInvalidQuantity
	}

	item, err := s.loadOwnedItem(ctx, ownerID, itemID)
	if err != nil {
		return domain.InventoryItemResponse{}, err
	}

	updates := map[string]interface{}{
		"quantity":           req.Quantity,
		"remaining_quantity": req.Quantity,
	}
	if err := s.inventoryRepository.UpdateItem(ctx, itemID, updates); err != nil {
		return domain.InventoryItemResponse{}, err
	}

	item.Quantity = req.Quantity
	item.RemainingQuantity = req.Quantity
	return itemToResponse(item), nil
}

func (s *inventoryService) ConsumeItem(ctx context.Context, ownerID, itemID string, req domain.ConsumeItemRequest) (domain.InventoryItemResponse, error) {
	if req.QuantityDelta <= 0 {
		return domain.InventoryItemResponse{}, domain.ErrInvalidQuantity
	}
	if req.Reason != domain.ConsumeReasonUsed && req.Reason != domain.ConsumeReasonDiscarded {
		return domain.InventoryItemResponse{}, domain.ErrInvalidConsumeReason
	}

	item, err := s.loadOwnedItem(ctx, ownerID, itemID)
	if err != nil {
		return domain.InventoryItemResponse{}, err
	}

	if item.Status != domain.InventoryStatusActive {
		return domain.InventoryItemResponse{}, domain.ErrItemNotActive
	}

	delta := req.QuantityDelta
	if delta > item.RemainingQuantity {
		delta = item.RemainingQuantity
	}
	remaining := item.RemainingQuantity - delta

	updates := map[string]interface{}{
		"remaining_quantity": remaining,
	}

	now := time.Now()
	if remaining <= 0 {
		switch req.Reason {
		case domain.ConsumeReasonUsed:
			updates["status"] = domain.InventoryStatusConsumed
			updates["used_at"] = now
			item.Status = domain.InventoryStatusConsumed
			item.UsedAt = &now
		case domain.ConsumeReasonDiscarded:
			updates["status"] = domain.InventoryStatusDiscarded
			updates["discarded_at"] = now
			item.Status = domain.InventoryStatusDiscarded
			item.DiscardedAt = &now
		}
	}

	if err := s.inventoryRepository.UpdateItem(ctx, itemID, updates); err != nil {
		return domain.InventoryItemResponse{}, err
	}
	item.RemainingQuantity = remaining

	// Only quantities actually put to use count toward impact.
	if req.Reason == domain.ConsumeReasonUsed && delta > 0 {
		impact := EstimateImpact(item.Name, delta, item.BaseUnit)
		items := 0
		if remaining <= 0 {
			items = 1
		}
		if err := s.inventoryRepository.AddImpact(ctx, ownerID, impact, items); err != nil {
			return domain.InventoryItemResponse{}, err
		}
	}

	return itemToResponse(item), nil
}

// DeleteItem removes an item; any remaining quantity on an active item is
// treated as rescued food for impact purposes.
func (s *inventoryService) DeleteItem(ctx context.Context, ownerID, itemID string) error {
	item, err := s.loadOwnedItem(ctx, ownerID, itemID)
	if err != nil {
		return err
	}

	if item.Status == domain.InventoryStatusActive && item.RemainingQuantity > 0 {
		impact := EstimateImpact(item.Name, item.RemainingQuantity, item.BaseUnit)
		if err := s.inventoryRepository.AddImpact(ctx, ownerID, impact, 1); err != nil {
			return err
		}
	}

	return s.inventoryRepository.DeleteItem(ctx, itemID)
}

func (s *inventoryService) ScanBarcode(ctx context.Context, ownerID string, req domain.ScanBarcodeRequest) (domain.InventoryItemResponse, error) {
	resolved, err := s.barcodeResolver.BarcodeToItem(ctx, req.BarcodeData)
	if err != nil {
		return domain.InventoryItemResponse{}, err
	}

	return s.AddItem(ctx, ownerID, domain.AddInventoryItemRequest{
		Name:          resolved.Name,
		Quantity:      resolved.Quantity,
		BaseUnit:      resolved.BaseUnit,
		EstExpiryDate: resolved.EstExpiryDate,
		CostEstimate:  resolved.CostEstimate,
	})
}

func (s *inventoryService) GetImpact(ctx context.Context, ownerID string) (domain.ImpactResponse, error) {
	metrics, err := s.inventoryRepository.GetMetrics(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ImpactResponse{
				Metrics: metricCards(&entities.UserMetrics{}),
				Source:  "fallback",
			}, nil
		}
		return domain.ImpactResponse{}, err
	}

	return domain.ImpactResponse{
		Metrics: metricCards(metrics),
		Source:  "live",
	}, nil
}

func (s *inventoryService) loadOwnedItem(ctx context.Context, ownerID, itemID string) (*entities.InventoryItem, error) {
	item, err := s.inventoryRepository.FindItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInventoryItemNotFound
		}
		return nil, err
	}
	if item.OwnerID.String() != ownerID {
		return nil, domain.ErrInventoryItemNotFound
	}
	return item, nil
}

func metricCards(m *entities.UserMetrics) []domain.ImpactMetric {
	return []domain.ImpactMetric{
		{
			ID:         "food_saved",
			Label:      "Food Saved",
			Value:      fmt.Sprintf("%.1f lbs", m.FoodSavedLbs),
			HelperText: "Total weight kept out of the trash",
			Icon:       "leaf",
		},
		{
			ID:         "co2_prevented",
			Label:      "CO₂ Prevented",
			Value:      fmt.Sprintf("%.1f kg", m.CO2PreventedKg),
			HelperText: "Emissions avoided by rescuing food",
			Icon:       "cloud",
		},
		{
			ID:         "money_saved",
			Label:      "Money Saved",
			Value:      fmt.Sprintf("$%.2f", m.MoneySavedUSD),
			HelperText: "Estimated grocery value rescued",
			Icon:       "wallet",
		},
		{
			ID:         "items_rescued",
			Label:      "Items Rescued",
			Value:      fmt.Sprintf("%d", m.ItemsRescued),
			HelperText: "Items fully used before expiry",
			Icon:       "package",
		},
	}
}

func itemToResponse(item *entities.InventoryItem) domain.InventoryItemResponse {
	return domain.InventoryItemResponse{
		ID:                item.ID.String(),
		Name:              item.Name,
		Quantity:          item.Quantity,
		RemainingQuantity: item.RemainingQuantity,
		BaseUnit:          item.BaseUnit,
		InputDate:         item.InputDate,
		EstExpiryDate:     item.EstExpiryDate,
		CostEstimate:      item.CostEstimate,
		Status:            item.Status,
		UsedAt:            item.UsedAt,
		DiscardedAt:       item.DiscardedAt,
		CreatedAt:         item.CreatedAt,
	}
}

func parseExpiryDate(raw string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, domain.ErrInvalidExpiryDate
}

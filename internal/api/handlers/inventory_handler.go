package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"leftys-backend/domain"
	"leftys-backend/internal/api/presenters"
	"leftys-backend/pkg/inventory"
)

type (
	InventoryHandler interface {
		GetInventory(c *fiber.Ctx) error
		AddItem(c *fiber.Ctx) error
		SetQuantity(c *fiber.Ctx) error
		ConsumeItem(c *fiber.Ctx) error
		DeleteItem(c *fiber.Ctx) error
		ScanBarcode(c *fiber.Ctx) error
		GetImpact(c *fiber.Ctx) error
	}

	inventoryHandler struct {
		inventoryService inventory.InventoryService
		validator        *validator.Validate
	}
)

func NewInventoryHandler(inventoryService inventory.InventoryService, validator *validator.Validate) InventoryHandler {
	return &inventoryHandler{
		inventoryService: inventoryService,
		validator:        validator,
	}
}

func (h *inventoryHandler) GetInventory(c *fiber.Ctx) error {
	accountID := c.Locals("account_id").(string)

	res, err := h.inventoryService.GetInventory(c.Context(), accountID, c.Query("status"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetInventory, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetInventory)
}

func (h *inventoryHandler) AddItem(c *fiber.Ctx) error {
	accountID := c.Locals("account_id").(string)

	req := new(domain.AddInventoryItemRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.inventoryService.AddItem(c.Context(), accountID, *req)
	if err != nil {
		return presenters.ErrorResponse(c, inventoryErrorStatus(err), domain.MessageFailedAddInventoryItem, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddInventoryItem)
}

func (h *inventoryHandler) SetQuantity(c *fiber.Ctx) error {
	accountID := c.Locals("account_id").(string)
	itemID := c.Params("id")

	req := new(domain.UpdateQuantityRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.inventoryService.SetQuantity(c.Context(), accountID, itemID, *req)
	if err != nil {
		return presenters.ErrorResponse(c, inventoryErrorStatus(err), domain.MessageFailedUpdateQuantity, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateQuantity)
}

func (h *inventoryHandler) ConsumeItem(c *fiber.Ctx) error {
	accountID := c.Locals("account_id").(string)
	itemID := c.Params("id")

	req := new(domain.ConsumeItemRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.inventoryService.ConsumeItem(c.Context(), accountID, itemID, *req)
	if err != nil {
		return presenters.ErrorResponse(c, inventoryErrorStatus(err), domain.MessageFailedConsumeItem, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessConsumeItem)
}

func (h *inventoryHandler) DeleteItem(c *fiber.Ctx) error {
	accountID := c.Locals("account_id").(string)
	itemID := c.Params("id")

	if err := h.inventoryService.DeleteItem(c.Context(), accountID, itemID); err != nil {
		return presenters.ErrorResponse(c, inventoryErrorStatus(err), domain.MessageFailedDeleteItem, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteItem)
}

func (h *inventoryHandler) ScanBarcode(c *fiber.Ctx) error {
	accountID := c.Locals("account_id").(string)

	req := new(domain.ScanBarcodeRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.inventoryService.ScanBarcode(c.Context(), accountID, *req)
	if err != nil {
		return presenters.ErrorResponse(c, inventoryErrorStatus(err), domain.MessageFailedScanBarcode, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessScanBarcode)
}

func (h *inventoryHandler) GetImpact(c *fiber.Ctx) error {
	accountID := c.Locals("account_id").(string)

	res, err := h.inventoryService.GetImpact(c.Context(), accountID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetImpact, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetImpact)
}

func inventoryErrorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrInventoryItemNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrItemNotActive):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidConsumeReason),
		errors.Is(err, domain.ErrInvalidExpiryDate),
		errors.Is(err, domain.ErrParseUUID):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrGeminiAPIFailed), errors.Is(err, domain.ErrGeminiInvalidJSON):
		return fiber.StatusBadGateway
	case errors.Is(err, domain.ErrGeminiNotConfigured):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

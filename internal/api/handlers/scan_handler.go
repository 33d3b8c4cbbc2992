package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"leftys-backend/domain"
	"leftys-backend/internal/api/presenters"
	"leftys-backend/pkg/scan"
)

type (
	ScanHandler interface {
		UploadScan(c *fiber.Ctx) error
		GetScans(c *fiber.Ctx) error
	}

	scanHandler struct {
		scanService scan.ScanService
		validator   *validator.Validate
	}
)

func NewScanHandler(scanService scan.ScanService, validator *validator.Validate) ScanHandler {
	return &scanHandler{
		scanService: scanService,
		validator:   validator,
	}
}

func (h *scanHandler) UploadScan(c *fiber.Ctx) error {
	accountID := c.Locals("account_id").(string)

	image, err := c.FormFile("image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	req := domain.UploadScanRequest{
		Image:      image,
		Title:      c.FormValue("title"),
		Notes:      c.FormValue("notes"),
		RawText:    c.FormValue("rawText"),
		ExpiryDate: c.FormValue("expiryDate"),
	}
	if form, err := c.MultipartForm(); err == nil {
		req.Allergens = form.Value["allergens"]
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.scanService.UploadScan(c.Context(), accountID, req)
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, domain.ErrInvalidImageFormat) || errors.Is(err, domain.ErrInvalidExpiryDate) {
			status = fiber.StatusBadRequest
		}
		return presenters.ErrorResponse(c, status, domain.MessageFailedUploadScan, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessUploadScan)
}

func (h *scanHandler) GetScans(c *fiber.Ctx) error {
	accountID := c.Locals("account_id").(string)

	res, err := h.scanService.GetScans(c.Context(), accountID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetScans, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetScans)
}

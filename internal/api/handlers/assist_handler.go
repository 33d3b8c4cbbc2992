package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"leftys-backend/domain"
	"leftys-backend/internal/api/presenters"
	"leftys-backend/pkg/assist"
)

type (
	AssistHandler interface {
		GetNudges(c *fiber.Ctx) error
		SuggestListing(c *fiber.Ctx) error
		GenerateRecipes(c *fiber.Ctx) error
	}

	assistHandler struct {
		assistService assist.AssistService
		validator     *validator.Validate
	}
)

func NewAssistHandler(assistService assist.AssistService, validator *validator.Validate) AssistHandler {
	return &assistHandler{
		assistService: assistService,
		validator:     validator,
	}
}

func (h *assistHandler) GetNudges(c *fiber.Ctx) error {
	accountID := c.Locals("account_id").(string)

	res, err := h.assistService.GetNudges(c.Context(), accountID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetNudges, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetNudges)
}

func (h *assistHandler) SuggestListing(c *fiber.Ctx) error {
	req := new(domain.ListingAssistRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.assistService.SuggestListing(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedListingAssistant, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessListingAssistant)
}

func (h *assistHandler) GenerateRecipes(c *fiber.Ctx) error {
	accountID := c.Locals("account_id").(string)

	res, err := h.assistService.GenerateRecipes(c.Context(), accountID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoActiveInventoryItems):
			// An empty pantry is not an error from the client's point of view.
			return presenters.SuccessResponse(c, []domain.Recipe{}, fiber.StatusOK, domain.MessageSuccessGenerateRecipe)
		case errors.Is(err, domain.ErrGeminiNotConfigured):
			return presenters.ErrorResponse(c, fiber.StatusServiceUnavailable, domain.MessageFailedGenerateRecipe, err)
		case errors.Is(err, domain.ErrGeminiAPIFailed), errors.Is(err, domain.ErrGeminiInvalidJSON):
			return presenters.ErrorResponse(c, fiber.StatusBadGateway, domain.MessageFailedGenerateRecipe, err)
		default:
			return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGenerateRecipe, err)
		}
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGenerateRecipe)
}

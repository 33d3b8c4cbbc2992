package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"leftys-backend/domain"
	"leftys-backend/internal/api/presenters"
	"leftys-backend/pkg/account"
)

type (
	AccountHandler interface {
		UpdatePushTokens(c *fiber.Ctx) error
	}

	accountHandler struct {
		accountService account.AccountService
		validator      *validator.Validate
	}
)

func NewAccountHandler(accountService account.AccountService, validator *validator.Validate) AccountHandler {
	return &accountHandler{
		accountService: accountService,
		validator:      validator,
	}
}

func (h *accountHandler) UpdatePushTokens(c *fiber.Ctx) error {
	accountID := c.Locals("account_id").(string)

	req := new(domain.UpdatePushTokensRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.accountService.UpdatePushTokens(c.Context(), accountID, *req); err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, domain.ErrAccountNotFound) {
			status = fiber.StatusNotFound
		}
		return presenters.ErrorResponse(c, status, domain.MessageFailedUpdatePushTokens, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessUpdatePushTokens)
}

package handlers

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"leftys-backend/domain"
	"leftys-backend/internal/api/presenters"
	"leftys-backend/pkg/posting"
)

type (
	PostingHandler interface {
		GetPostings(c *fiber.Ctx) error
		CreatePosting(c *fiber.Ctx) error
		ClaimPosting(c *fiber.Ctx) error
		GetClaims(c *fiber.Ctx) error
		AcceptClaim(c *fiber.Ctx) error
		RejectClaim(c *fiber.Ctx) error
		GetMessages(c *fiber.Ctx) error
		SendMessage(c *fiber.Ctx) error
	}

	postingHandler struct {
		postingService posting.PostingService
		validator      *validator.Validate
	}
)

func NewPostingHandler(postingService posting.PostingService, validator *validator.Validate) PostingHandler {
	return &postingHandler{
		postingService: postingService,
		validator:      validator,
	}
}

func (h *postingHandler) GetPostings(c *fiber.Ctx) error {
	accountID := c.Locals("account_id").(string)

	req := new(domain.GetPostingsRequest)
	if err := c.QueryParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetPostings, err)
	}

	res, err := h.postingService.GetNearbyPostings(c.Context(), *req, accountID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetPostings, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetPostings)
}

func (h *postingHandler) CreatePosting(c *fiber.Ctx) error {
	accountID := c.Locals("account_id").(string)

	req := new(domain.CreatePostingRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	lat, lng, err := postingCoordinates(c, req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.postingService.CreatePosting(c.Context(), *req, accountID, lat, lng)
	if err != nil {
		return presenters.ErrorResponse(c, postingErrorStatus(err), domain.MessageFailedCreatePosting, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreatePosting)
}

// postingCoordinates reads the lat/lng query parameters, falling back to the
// body coordinates when the query is absent.
func postingCoordinates(c *fiber.Ctx, req *domain.CreatePostingRequest) (float64, float64, error) {
	if c.Query("lat") != "" || c.Query("lng") != "" {
		lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
		lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
		if latErr != nil || lngErr != nil {
			return 0, 0, domain.ErrInvalidCoordinates
		}
		if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
			return 0, 0, domain.ErrInvalidCoordinates
		}
		return lat, lng, nil
	}
	if req.Latitude != nil && req.Longitude != nil {
		return *req.Latitude, *req.Longitude, nil
	}
	return 0, 0, domain.ErrMissingCoordinates
}

func (h *postingHandler) ClaimPosting(c *fiber.Ctx) error {
	accountID := c.Locals("account_id").(string)
	postingID := c.Params("id")

	res, err := h.postingService.ClaimPosting(c.Context(), postingID, accountID)
	if err != nil {
		return presenters.ErrorResponse(c, postingErrorStatus(err), domain.MessageFailedClaimPosting, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessClaimPosting)
}

func (h *postingHandler) GetClaims(c *fiber.Ctx) error {
	accountID := c.Locals("account_id").(string)
	postingID := c.Params("id")

	res, err := h.postingService.ListClaims(c.Context(), postingID, accountID)
	if err != nil {
		return presenters.ErrorResponse(c, postingErrorStatus(err), domain.MessageFailedGetClaims, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetClaims)
}

func (h *postingHandler) AcceptClaim(c *fiber.Ctx) error {
	accountID := c.Locals("account_id").(string)
	claimID := c.Params("id")

	res, err := h.postingService.AcceptClaim(c.Context(), claimID, accountID)
	if err != nil {
		return presenters.ErrorResponse(c, postingErrorStatus(err), domain.MessageFailedAcceptClaim, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessAcceptClaim)
}

func (h *postingHandler) RejectClaim(c *fiber.Ctx) error {
	accountID := c.Locals("account_id").(string)
	claimID := c.Params("id")

	if err := h.postingService.RejectClaim(c.Context(), claimID, accountID); err != nil {
		return presenters.ErrorResponse(c, postingErrorStatus(err), domain.MessageFailedRejectClaim, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessRejectClaim)
}

func (h *postingHandler) GetMessages(c *fiber.Ctx) error {
	accountID := c.Locals("account_id").(string)
	postingID := c.Params("id")

	res, err := h.postingService.GetMessages(c.Context(), postingID, accountID)
	if err != nil {
		return presenters.ErrorResponse(c, postingErrorStatus(err), domain.MessageFailedGetMessages, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetMessages)
}

func (h *postingHandler) SendMessage(c *fiber.Ctx) error {
	accountID := c.Locals("account_id").(string)
	postingID := c.Params("id")

	req := new(domain.SendMessageRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.postingService.SendMessage(c.Context(), postingID, *req, accountID)
	if err != nil {
		return presenters.ErrorResponse(c, postingErrorStatus(err), domain.MessageFailedSendMessage, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessSendMessage)
}

func postingErrorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrPostingNotFound), errors.Is(err, domain.ErrClaimNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrNotPostingOwner),
		errors.Is(err, domain.ErrNotPostingParticipant),
		errors.Is(err, domain.ErrOwnClaimNotAllowed):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrPostingLimitExceeded),
		errors.Is(err, domain.ErrPostingNotOpen),
		errors.Is(err, domain.ErrClaimNotPending):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrParseUUID):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

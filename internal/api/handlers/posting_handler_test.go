package handlers

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"leftys-backend/domain"
)

type stubPostingService struct {
	lat, lng float64
	called   bool
}

func (s *stubPostingService) GetNearbyPostings(ctx context.Context, req domain.GetPostingsRequest, accountID string) ([]domain.PostingResponse, error) {
	return nil, nil
}

func (s *stubPostingService) CreatePosting(ctx context.Context, req domain.CreatePostingRequest, accountID string, lat, lng float64) (domain.PostingResponse, error) {
	s.called = true
	s.lat = lat
	s.lng = lng
	return domain.PostingResponse{Title: req.Title}, nil
}

func (s *stubPostingService) ClaimPosting(ctx context.Context, postingID string, accountID string) (domain.ClaimResponse, error) {
	return domain.ClaimResponse{}, nil
}

func (s *stubPostingService) ListClaims(ctx context.Context, postingID string, accountID string) ([]domain.ClaimResponse, error) {
	return nil, nil
}

func (s *stubPostingService) AcceptClaim(ctx context.Context, claimID string, accountID string) (domain.ClaimResponse, error) {
	return domain.ClaimResponse{}, nil
}

func (s *stubPostingService) RejectClaim(ctx context.Context, claimID string, accountID string) error {
	return nil
}

func (s *stubPostingService) GetMessages(ctx context.Context, postingID string, accountID string) ([]domain.MessageResponse, error) {
	return nil, nil
}

func (s *stubPostingService) SendMessage(ctx context.Context, postingID string, req domain.SendMessageRequest, accountID string) (domain.MessageResponse, error) {
	return domain.MessageResponse{}, nil
}

func newCreatePostingApp(svc *stubPostingService) *fiber.App {
	handler := NewPostingHandler(svc, validator.New())
	app := fiber.New()
	app.Post("/api/postings", func(c *fiber.Ctx) error {
		c.Locals("account_id", "11111111-1111-1111-1111-111111111111")
		return c.Next()
	}, handler.CreatePosting)
	return app
}

func postJSON(t *testing.T, app *fiber.App, target string, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, target, bytes.NewBufferString(body))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	return resp
}

func TestCreatePostingQueryCoordinates(t *testing.T) {
	svc := &stubPostingService{}
	app := newCreatePostingApp(svc)

	resp := postJSON(t, app, "/api/postings?lat=40&lng=-75",
		`{"title": "Bread", "quantityLabel": "2 loaves"}`)

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.True(t, svc.called)
	assert.Equal(t, 40.0, svc.lat)
	assert.Equal(t, -75.0, svc.lng)
}

func TestCreatePostingZeroCoordinates(t *testing.T) {
	svc := &stubPostingService{}
	app := newCreatePostingApp(svc)

	resp := postJSON(t, app, "/api/postings?lat=0&lng=0",
		`{"title": "Bread", "quantityLabel": "2 loaves"}`)

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, 0.0, svc.lat)
	assert.Equal(t, 0.0, svc.lng)
}

func TestCreatePostingBodyCoordinatesFallback(t *testing.T) {
	svc := &stubPostingService{}
	app := newCreatePostingApp(svc)

	resp := postJSON(t, app, "/api/postings",
		`{"title": "Bread", "quantityLabel": "2 loaves", "latitude": 37.7749, "longitude": -122.4194}`)

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, 37.7749, svc.lat)
	assert.Equal(t, -122.4194, svc.lng)
}

func TestCreatePostingMissingCoordinates(t *testing.T) {
	svc := &stubPostingService{}
	app := newCreatePostingApp(svc)

	resp := postJSON(t, app, "/api/postings",
		`{"title": "Bread", "quantityLabel": "2 loaves"}`)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.False(t, svc.called)
}

func TestCreatePostingCoordinatesOutOfRange(t *testing.T) {
	svc := &stubPostingService{}
	app := newCreatePostingApp(svc)

	resp := postJSON(t, app, "/api/postings?lat=91&lng=0",
		`{"title": "Bread", "quantityLabel": "2 loaves"}`)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.False(t, svc.called)
}

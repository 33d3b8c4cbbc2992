package posting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcloughlin/geohash"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"leftys-backend/domain"
	"leftys-backend/entities"
)

const nearbyLimit = 50

type (
	PostingService interface {
		GetNearbyPostings(ctx context.Context, req domain.GetPostingsRequest, accountID string) ([]domain.PostingResponse, error)
		CreatePosting(ctx context.Context, req domain.CreatePostingRequest, accountID string, lat, lng float64) (domain.PostingResponse, error)
		ClaimPosting(ctx context.Context, postingID string, accountID string) (domain.ClaimResponse, error)
		ListClaims(ctx context.Context, postingID string, accountID string) ([]domain.ClaimResponse, error)
		AcceptClaim(ctx context.Context, claimID string, accountID string) (domain.ClaimResponse, error)
		RejectClaim(ctx context.Context, claimID string, accountID string) error
		GetMessages(ctx context.Context, postingID string, accountID string) ([]domain.MessageResponse, error)
		SendMessage(ctx context.Context, postingID string, req domain.SendMessageRequest, accountID string) (domain.MessageResponse, error)
	}

	postingService struct {
		postingRepository PostingRepository
	}
)

func NewPostingService(postingRepository PostingRepository) PostingService {
	return &postingService{postingRepository: postingRepository}
}

func (s *postingService) GetNearbyPostings(ctx context.Context, req domain.GetPostingsRequest, accountID string) ([]domain.PostingResponse, error) {
	if req.Latitude == nil || req.Longitude == nil {
		return []domain.PostingResponse{}, nil
	}

	radius := req.RadiusKm
	if radius <= 0 {
		radius = 2.0
	}

	postings, err := s.postingRepository.FindNearby(ctx, *req.Latitude, *req.Longitude, radius, nearbyLimit)
	if err != nil {
		return nil, err
	}

	response := make([]domain.PostingResponse, 0, len(postings))
	for _, p := range postings {
		isOwner := p.OwnerID.String() == accountID
		isClaimer := p.ClaimedBy != nil && p.ClaimedBy.String() == accountID
		response = append(response, postingToResponse(p, req.Latitude, req.Longitude, isOwner, isClaimer))
	}

	return response, nil
}

func (s *postingService) CreatePosting(ctx context.Context, req domain.CreatePostingRequest, accountID string, lat, lng float64) (domain.PostingResponse, error) {
	ownerUUID, err := uuid.Parse(accountID)
	if err != nil {
		return domain.PostingResponse{}, domain.ErrParseUUID
	}

	openCount, err := s.postingRepository.CountOpenByOwner(ctx, accountID)
	if err != nil {
		return domain.PostingResponse{}, err
	}
	// Checked immediately before insert, not transactionally. A race between
	// concurrent requests can exceed the cap by a small margin.
	if openCount >= domain.MaxOpenPostingsPerOwner {
		return domain.PostingResponse{}, domain.ErrPostingLimitExceeded
	}

	now := time.Now().UTC()
	pickupStart := now.Add(1 * time.Hour)
	pickupEnd := now.Add(3 * time.Hour)

	narrative := req.ImpactNarrative
	if narrative == "" {
		narrative = impactNarrative(req.QuantityLabel)
	}

	posting := &entities.Posting{
		ID:                 uuid.New(),
		OwnerID:            ownerUUID,
		Title:              req.Title,
		Allergens:          datatypes.NewJSONSlice(req.Allergens),
		QuantityLabel:      req.QuantityLabel,
		PickupStart:        pickupStart,
		PickupEnd:          pickupEnd,
		Latitude:           lat,
		Longitude:          lng,
		ApproxGeohash5:     geohash.EncodeWithPrecision(lat, lng, 5),
		PickupLocationHint: req.PickupLocationHint,
		PictureURL:         req.PictureURL,
		Status:             domain.PostingStatusOpen,
		ExpiresAt:          pickupEnd,
		ImpactNarrative:    narrative,
		Tags:               datatypes.NewJSONSlice(req.Tags),
	}

	if err := s.postingRepository.CreatePosting(ctx, posting); err != nil {
		return domain.PostingResponse{}, err
	}

	return postingToResponse(posting, &lat, &lng, true, false), nil
}

func (s *postingService) ClaimPosting(ctx context.Context, postingID string, accountID string) (domain.ClaimResponse, error) {
	posting, err := s.postingRepository.FindPostingByID(ctx, postingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ClaimResponse{}, domain.ErrPostingNotFound
		}
		return domain.ClaimResponse{}, err
	}

	if posting.OwnerID.String() == accountID {
		return domain.ClaimResponse{}, domain.ErrOwnClaimNotAllowed
	}
	if posting.Status != domain.PostingStatusOpen || posting.ExpiresAt.Before(time.Now()) {
		return domain.ClaimResponse{}, domain.ErrPostingNotOpen
	}

	claimerUUID, err := uuid.Parse(accountID)
	if err != nil {
		return domain.ClaimResponse{}, domain.ErrParseUUID
	}

	claim := &entities.Claim{
		ID:        uuid.New(),
		PostingID: posting.ID,
		ClaimerID: claimerUUID,
		Status:    domain.ClaimStatusPending,
	}

	if err := s.postingRepository.CreateClaim(ctx, claim); err != nil {
		return domain.ClaimResponse{}, err
	}

	return claimToResponse(claim), nil
}

// ListClaims returns every claim on a posting, oldest first. Only the owner
// can see them.
func (s *postingService) ListClaims(ctx context.Context, postingID string, accountID string) ([]domain.ClaimResponse, error) {
	posting, err := s.postingRepository.FindPostingByID(ctx, postingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPostingNotFound
		}
		return nil, err
	}
	if posting.OwnerID.String() != accountID {
		return nil, domain.ErrNotPostingOwner
	}

	claims, err := s.postingRepository.FindClaimsByPosting(ctx, postingID)
	if err != nil {
		return nil, err
	}

	response := make([]domain.ClaimResponse, 0, len(claims))
	for _, c := range claims {
		response = append(response, claimToResponse(c))
	}
	return response, nil
}

func (s *postingService) AcceptClaim(ctx context.Context, claimID string, accountID string) (domain.ClaimResponse, error) {
	claim, posting, err := s.loadClaimForOwner(ctx, claimID, accountID)
	if err != nil {
		return domain.ClaimResponse{}, err
	}

	if claim.Status != domain.ClaimStatusPending {
		return domain.ClaimResponse{}, domain.ErrClaimNotPending
	}

	// One deadline shared by the claim and the posting, so expires_at and
	// claim_deadline never drift apart.
	acceptedAt := time.Now()
	deadline := acceptedAt.Add(domain.ClaimAcceptWindow)

	if err := s.postingRepository.AcceptClaim(ctx, claimID, acceptedAt, deadline); err != nil {
		return domain.ClaimResponse{}, err
	}

	if err := s.postingRepository.UpdatePostingStatus(ctx, posting.ID.String(),
		domain.PostingStatusReserved, &claim.ClaimerID, &deadline); err != nil {
		return domain.ClaimResponse{}, err
	}

	updated, err := s.postingRepository.FindClaimByID(ctx, claimID)
	if err != nil {
		return domain.ClaimResponse{}, err
	}
	return claimToResponse(updated), nil
}

func (s *postingService) RejectClaim(ctx context.Context, claimID string, accountID string) error {
	claim, _, err := s.loadClaimForOwner(ctx, claimID, accountID)
	if err != nil {
		return err
	}

	if claim.Status != domain.ClaimStatusPending {
		return domain.ErrClaimNotPending
	}

	return s.postingRepository.UpdateClaimStatus(ctx, claimID, domain.ClaimStatusRejected)
}

func (s *postingService) GetMessages(ctx context.Context, postingID string, accountID string) ([]domain.MessageResponse, error) {
	if _, err := s.loadPostingForParticipant(ctx, postingID, accountID); err != nil {
		return nil, err
	}

	messages, err := s.postingRepository.FindMessagesByPosting(ctx, postingID, 50)
	if err != nil {
		return nil, err
	}

	response := make([]domain.MessageResponse, 0, len(messages))
	for _, m := range messages {
		response = append(response, messageToResponse(m))
	}
	return response, nil
}

func (s *postingService) SendMessage(ctx context.Context, postingID string, req domain.SendMessageRequest, accountID string) (domain.MessageResponse, error) {
	posting, err := s.loadPostingForParticipant(ctx, postingID, accountID)
	if err != nil {
		return domain.MessageResponse{}, err
	}

	senderUUID, err := uuid.Parse(accountID)
	if err != nil {
		return domain.MessageResponse{}, domain.ErrParseUUID
	}

	message := &entities.Message{
		ID:        uuid.New(),
		PostingID: posting.ID,
		SenderID:  senderUUID,
		Text:      req.Text,
	}

	if err := s.postingRepository.CreateMessage(ctx, message); err != nil {
		return domain.MessageResponse{}, err
	}

	return messageToResponse(message), nil
}

func (s *postingService) loadClaimForOwner(ctx context.Context, claimID string, accountID string) (*entities.Claim, *entities.Posting, error) {
	claim, err := s.postingRepository.FindClaimByID(ctx, claimID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, domain.ErrClaimNotFound
		}
		return nil, nil, err
	}

	posting, err := s.postingRepository.FindPostingByID(ctx, claim.PostingID.String())
	if err != nil {
		return nil, nil, err
	}

	if posting.OwnerID.String() != accountID {
		return nil, nil, domain.ErrNotPostingOwner
	}

	return claim, posting, nil
}

func (s *postingService) loadPostingForParticipant(ctx context.Context, postingID string, accountID string) (*entities.Posting, error) {
	posting, err := s.postingRepository.FindPostingByID(ctx, postingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPostingNotFound
		}
		return nil, err
	}

	isOwner := posting.OwnerID.String() == accountID
	isClaimer := posting.ClaimedBy != nil && posting.ClaimedBy.String() == accountID
	if !isOwner && !isClaimer {
		return nil, domain.ErrNotPostingParticipant
	}

	return posting, nil
}

// postingToResponse translates a stored posting into its wire shape. Exact
// coordinates are included only for the owner or the accepted claimant;
// everyone else gets distance and the location hint.
func postingToResponse(p *entities.Posting, userLat, userLng *float64, isOwner, isClaimer bool) domain.PostingResponse {
	var distanceKm *float64
	if userLat != nil && userLng != nil {
		d := HaversineKm(*userLat, *userLng, p.Latitude, p.Longitude)
		d = float64(int(d*10+0.5)) / 10
		distanceKm = &d
	}

	var coordinates *domain.Coordinates
	if isOwner || isClaimer {
		coordinates = &domain.Coordinates{
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
		}
	}

	status := p.Status
	if status == domain.PostingStatusPickedUp {
		status = domain.PostingStatusReserved
	}

	return domain.PostingResponse{
		ID:                 p.ID.String(),
		Title:              p.Title,
		QuantityLabel:      p.QuantityLabel,
		PickupWindowLabel:  formatPickupWindow(p.PickupStart, p.PickupEnd),
		PickupLocationHint: p.PickupLocationHint,
		PictureURL:         p.PictureURL,
		Status:             status,
		Allergens:          p.Allergens,
		DistanceKm:         distanceKm,
		Coordinates:        coordinates,
		CreatedAt:          p.CreatedAt.Format(time.RFC3339),
		ImpactNarrative:    p.ImpactNarrative,
		Tags:               p.Tags,
	}
}

func claimToResponse(c *entities.Claim) domain.ClaimResponse {
	return domain.ClaimResponse{
		ID:         c.ID.String(),
		PostingID:  c.PostingID.String(),
		ClaimerID:  c.ClaimerID.String(),
		Status:     c.Status,
		AcceptedAt: c.AcceptedAt,
		ExpiresAt:  c.ExpiresAt,
		CreatedAt:  c.CreatedAt,
	}
}

func messageToResponse(m *entities.Message) domain.MessageResponse {
	return domain.MessageResponse{
		ID:        m.ID.String(),
		PostingID: m.PostingID.String(),
		SenderID:  m.SenderID.String(),
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
	}
}

func formatPickupWindow(start, end time.Time) string {
	return fmt.Sprintf("%s - %s", start.Format("03:04 PM"), end.Format("03:04 PM"))
}

// impactNarrative synthesizes a short narrative when the caller supplies none.
func impactNarrative(quantityLabel string) string {
	if quantityLabel == "" {
		quantityLabel = "1 item"
	}

	messages := []string{
		fmt.Sprintf("Redirects %s from waste", quantityLabel),
		"Saves ~2.5 lbs CO₂ equivalent",
		"Helps a neighbor nearby",
	}

	return strings.Join(messages[:2], " • ")
}

package posting

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"leftys-backend/domain"
	"leftys-backend/entities"
)

type (
	PostingRepository interface {
		CreatePosting(ctx context.Context, posting *entities.Posting) error
		FindPostingByID(ctx context.Context, id string) (*entities.Posting, error)
		// FindNearby returns open, non-expired postings within radiusKm of the
		// given point, closest first.
		FindNearby(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]*entities.Posting, error)
		CountOpenByOwner(ctx context.Context, ownerID string) (int64, error)
		UpdatePostingStatus(ctx context.Context, id string, status string, claimedBy *uuid.UUID, claimDeadline *time.Time) error
		GetExpiredPostings(ctx context.Context) ([]*entities.Posting, error)

		CreateClaim(ctx context.Context, claim *entities.Claim) error
		FindClaimByID(ctx context.Context, id string) (*entities.Claim, error)
		FindClaimsByPosting(ctx context.Context, postingID string) ([]*entities.Claim, error)
		AcceptClaim(ctx context.Context, id string, acceptedAt, expiresAt time.Time) error
		UpdateClaimStatus(ctx context.Context, id string, status string) error
		GetExpiredClaims(ctx context.Context) ([]*entities.Claim, error)

		CreateMessage(ctx context.Context, message *entities.Message) error
		FindMessagesByPosting(ctx context.Context, postingID string, limit int) ([]*entities.Message, error)
	}

	postingRepository struct {
		db *gorm.DB
	}
)

func NewPostingRepository(db *gorm.DB) PostingRepository {
	return &postingRepository{db: db}
}

func (r *postingRepository) CreatePosting(ctx context.Context, posting *entities.Posting) error {
	return r.db.WithContext(ctx).Create(posting).Error
}

func (r *postingRepository) FindPostingByID(ctx context.Context, id string) (*entities.Posting, error) {
	var posting entities.Posting
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&posting).Error; err != nil {
		return nil, err
	}
	return &posting, nil
}

func (r *postingRepository) FindNearby(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]*entities.Posting, error) {
	var postings []*entities.Posting

	// Uses the PostgreSQL earthdistance extension, enabled during migration:
	// CREATE EXTENSION IF NOT EXISTS "earthdistance" CASCADE;
	// CREATE EXTENSION IF NOT EXISTS "cube";
	query := `
		SELECT *,
		       earth_distance(ll_to_earth(?, ?), ll_to_earth(latitude, longitude)) as distance
		FROM postings
		WHERE earth_box(ll_to_earth(?, ?), ?) @> ll_to_earth(latitude, longitude)
		  AND earth_distance(ll_to_earth(?, ?), ll_to_earth(latitude, longitude)) <= ?
		  AND status = ?
		  AND expires_at > ?
		ORDER BY distance ASC
		LIMIT ?
	`

	radiusMeters := radiusKm * 1000

	if err := r.db.WithContext(ctx).
		Raw(query, lat, lng, lat, lng, radiusMeters, lat, lng, radiusMeters,
			domain.PostingStatusOpen, time.Now(), limit).
		Scan(&postings).Error; err != nil {
		return nil, err
	}

	return postings, nil
}

func (r *postingRepository) CountOpenByOwner(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.Posting{}).
		Where("owner_id = ? AND status = ?", ownerID, domain.PostingStatusOpen).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *postingRepository) UpdatePostingStatus(ctx context.Context, id string, status string, claimedBy *uuid.UUID, claimDeadline *time.Time) error {
	updates := map[string]interface{}{
		"status": status,
	}
	if claimedBy != nil {
		updates["claimed_by"] = claimedBy
	}
	if claimDeadline != nil {
		updates["claim_deadline"] = claimDeadline
	}
	if status == domain.PostingStatusOpen {
		// Reopening clears the previous claimant.
		updates["claimed_by"] = nil
		updates["claim_deadline"] = nil
	}

	return r.db.WithContext(ctx).Model(&entities.Posting{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *postingRepository) GetExpiredPostings(ctx context.Context) ([]*entities.Posting, error) {
	var postings []*entities.Posting
	if err := r.db.WithContext(ctx).
		Where("status IN ? AND expires_at < ?",
			[]string{domain.PostingStatusOpen, domain.PostingStatusReserved}, time.Now()).
		Find(&postings).Error; err != nil {
		return nil, err
	}
	return postings, nil
}

func (r *postingRepository) CreateClaim(ctx context.Context, claim *entities.Claim) error {
	return r.db.WithContext(ctx).Create(claim).Error
}

func (r *postingRepository) FindClaimByID(ctx context.Context, id string) (*entities.Claim, error) {
	var claim entities.Claim
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&claim).Error; err != nil {
		return nil, err
	}
	return &claim, nil
}

func (r *postingRepository) FindClaimsByPosting(ctx context.Context, postingID string) ([]*entities.Claim, error) {
	var claims []*entities.Claim
	if err := r.db.WithContext(ctx).
		Where("posting_id = ?", postingID).
		Order("created_at asc").
		Find(&claims).Error; err != nil {
		return nil, err
	}
	return claims, nil
}

func (r *postingRepository) AcceptClaim(ctx context.Context, id string, acceptedAt, expiresAt time.Time) error {
	return r.db.WithContext(ctx).Model(&entities.Claim{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      domain.ClaimStatusAccepted,
			"accepted_at": acceptedAt,
			"expires_at":  expiresAt,
		}).Error
}

func (r *postingRepository) UpdateClaimStatus(ctx context.Context, id string, status string) error {
	return r.db.WithContext(ctx).Model(&entities.Claim{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *postingRepository) GetExpiredClaims(ctx context.Context) ([]*entities.Claim, error) {
	var claims []*entities.Claim
	if err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at < ?", domain.ClaimStatusAccepted, time.Now()).
		Find(&claims).Error; err != nil {
		return nil, err
	}
	return claims, nil
}

func (r *postingRepository) CreateMessage(ctx context.Context, message *entities.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *postingRepository) FindMessagesByPosting(ctx context.Context, postingID string, limit int) ([]*entities.Message, error) {
	var messages []*entities.Message
	if err := r.db.WithContext(ctx).
		Where("posting_id = ?", postingID).
		Order("created_at asc").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

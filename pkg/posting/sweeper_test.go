package posting

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leftys-backend/domain"
	"leftys-backend/entities"
)

func TestSweepExpiresLapsedPostings(t *testing.T) {
	svc, repo, db := setupPostingService(t)
	ownerID := createAccount(t, db)
	posting := createPosting(t, svc, ownerID)

	// Push the pickup window into the past.
	require.NoError(t, db.Model(&entities.Posting{}).
		Where("id = ?", posting.ID).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	sweeper, err := NewSweeper(repo)
	require.NoError(t, err)
	require.NoError(t, sweeper.SweepOnce(context.Background()))

	stored, err := repo.FindPostingByID(context.Background(), posting.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PostingStatusExpired, stored.Status)
}

func TestSweepReopensPostingOnClaimTimeout(t *testing.T) {
	svc, repo, db := setupPostingService(t)
	ownerID := createAccount(t, db)
	claimerID := createAccount(t, db)
	posting := createPosting(t, svc, ownerID)

	claim, err := svc.ClaimPosting(context.Background(), posting.ID, claimerID)
	require.NoError(t, err)
	_, err = svc.AcceptClaim(context.Background(), claim.ID, ownerID)
	require.NoError(t, err)

	// Backdate the accept deadline so the claim has lapsed.
	require.NoError(t, db.Model(&entities.Claim{}).
		Where("id = ?", claim.ID).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	sweeper, err := NewSweeper(repo)
	require.NoError(t, err)
	require.NoError(t, sweeper.SweepOnce(context.Background()))

	storedClaim, err := repo.FindClaimByID(context.Background(), claim.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ClaimStatusExpired, storedClaim.Status)

	storedPosting, err := repo.FindPostingByID(context.Background(), posting.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PostingStatusOpen, storedPosting.Status)
	assert.Nil(t, storedPosting.ClaimedBy)
	assert.Nil(t, storedPosting.ClaimDeadline)
}

func TestSweepExpiresPostingWhenWindowAlsoLapsed(t *testing.T) {
	svc, repo, db := setupPostingService(t)
	ownerID := createAccount(t, db)
	claimerID := createAccount(t, db)
	posting := createPosting(t, svc, ownerID)

	claim, err := svc.ClaimPosting(context.Background(), posting.ID, claimerID)
	require.NoError(t, err)
	_, err = svc.AcceptClaim(context.Background(), claim.ID, ownerID)
	require.NoError(t, err)

	require.NoError(t, db.Model(&entities.Claim{}).
		Where("id = ?", claim.ID).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)
	require.NoError(t, db.Model(&entities.Posting{}).
		Where("id = ?", posting.ID).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	sweeper, err := NewSweeper(repo)
	require.NoError(t, err)
	require.NoError(t, sweeper.SweepOnce(context.Background()))

	storedPosting, err := repo.FindPostingByID(context.Background(), posting.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PostingStatusExpired, storedPosting.Status)
}

func TestSweepLeavesHealthyPostingsAlone(t *testing.T) {
	svc, repo, db := setupPostingService(t)
	ownerID := createAccount(t, db)
	posting := createPosting(t, svc, ownerID)

	sweeper, err := NewSweeper(repo)
	require.NoError(t, err)
	require.NoError(t, sweeper.SweepOnce(context.Background()))

	stored, err := repo.FindPostingByID(context.Background(), posting.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PostingStatusOpen, stored.Status)
}

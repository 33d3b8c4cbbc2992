package posting

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"

	"leftys-backend/domain"
)

type (
	// Sweeper moves postings and claims past their deadlines into terminal
	// states. It runs on a fixed interval so listings never depend on a read
	// path to notice expiry.
	Sweeper interface {
		Start() error
		Stop() error
		SweepOnce(ctx context.Context) error
	}

	sweeper struct {
		postingRepository PostingRepository
		scheduler         gocron.Scheduler
	}
)

func NewSweeper(postingRepository PostingRepository) (Sweeper, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	return &sweeper{
		postingRepository: postingRepository,
		scheduler:         scheduler,
	}, nil
}

func (s *sweeper) Start() error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := s.SweepOnce(ctx); err != nil {
				log.Printf("sweep failed: %v", err)
			}
		}),
	)
	if err != nil {
		return err
	}

	s.scheduler.Start()
	return nil
}

func (s *sweeper) Stop() error {
	return s.scheduler.Shutdown()
}

func (s *sweeper) SweepOnce(ctx context.Context) error {
	if err := s.expirePostings(ctx); err != nil {
		return err
	}
	return s.expireClaims(ctx)
}

func (s *sweeper) expirePostings(ctx context.Context) error {
	postings, err := s.postingRepository.GetExpiredPostings(ctx)
	if err != nil {
		return err
	}

	for _, p := range postings {
		if err := s.postingRepository.UpdatePostingStatus(ctx, p.ID.String(),
			domain.PostingStatusExpired, nil, nil); err != nil {
			log.Printf("failed to expire posting %s: %v", p.ID, err)
		}
	}
	return nil
}

// expireClaims marks overdue accepted claims expired and reopens their
// postings, unless the posting itself has already lapsed.
func (s *sweeper) expireClaims(ctx context.Context) error {
	claims, err := s.postingRepository.GetExpiredClaims(ctx)
	if err != nil {
		return err
	}

	for _, c := range claims {
		if err := s.postingRepository.UpdateClaimStatus(ctx, c.ID.String(), domain.ClaimStatusExpired); err != nil {
			log.Printf("failed to expire claim %s: %v", c.ID, err)
			continue
		}

		posting, err := s.postingRepository.FindPostingByID(ctx, c.PostingID.String())
		if err != nil {
			log.Printf("failed to load posting for claim %s: %v", c.ID, err)
			continue
		}
		if posting.Status != domain.PostingStatusReserved {
			continue
		}

		status := domain.PostingStatusOpen
		if posting.ExpiresAt.Before(time.Now()) {
			status = domain.PostingStatusExpired
		}
		if err := s.postingRepository.UpdatePostingStatus(ctx, posting.ID.String(), status, nil, nil); err != nil {
			log.Printf("failed to reopen posting %s: %v", posting.ID, err)
		}
	}
	return nil
}

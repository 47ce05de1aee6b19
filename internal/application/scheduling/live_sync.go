package scheduling

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/clinicdesk/booking-platform/internal/domain/entities"
	"github.com/clinicdesk/booking-platform/internal/domain/providers"
	"github.com/clinicdesk/booking-platform/internal/domain/repositories"
	apperrors "github.com/clinicdesk/booking-platform/pkg/errors"
	"github.com/clinicdesk/booking-platform/pkg/retry"
)

// LiveSync keeps one viewer's booking replica consistent with the
// authoritative store. On Start it subscribes to the clinic's feed channel,
// seeds the replica with one full range fetch, then applies deltas in arrival
// order; no further full fetches happen while the feed stays up.
//
// Subscribing happens before seeding so no event can fall between the two;
// events that arrive during the seed are applied afterwards, which is safe
// because application is idempotent.
type LiveSync struct {
	clinicID string
	from, to time.Time
	repo     repositories.BookingRepository
	bus      providers.EventBus
	set      *BookingSet

	cancel    context.CancelFunc
	done      chan struct{}
	stale     atomic.Bool
	startOnce sync.Once
	stopOnce  sync.Once
}

// NewLiveSync creates a coordinator for one (clinic, viewed date range) pair
func NewLiveSync(clinicID string, from, to time.Time, repo repositories.BookingRepository, bus providers.EventBus) *LiveSync {
	return &LiveSync{
		clinicID: clinicID,
		from:     from,
		to:       to,
		repo:     repo,
		bus:      bus,
		set:      NewBookingSet(),
		done:     make(chan struct{}),
	}
}

// Set returns the replica, to be shared with a BookingService for the same
// viewer session
func (s *LiveSync) Set() *BookingSet {
	return s.set
}

// Bookings returns a snapshot of the replica
func (s *LiveSync) Bookings() []*entities.Booking {
	return s.set.Snapshot()
}

// Covers reports whether [from, to] lies inside the replica's tracked range.
// Outside it the replica holds none of the committed bookings for those
// dates, so any computation over it would be wrong, not merely stale.
func (s *LiveSync) Covers(from, to time.Time) bool {
	return !from.Before(s.from) && !to.After(s.to)
}

// Stale reports whether the feed was lost and the reconnect cycle failed.
// Availability computed from a stale replica must be flagged to the user,
// never served silently as current.
func (s *LiveSync) Stale() bool {
	return s.stale.Load()
}

// Start subscribes and seeds in the background; it never blocks the caller.
// Calling Start more than once has no effect.
func (s *LiveSync) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		runCtx, cancel := context.WithCancel(ctx)
		s.cancel = cancel
		go s.run(runCtx)
	})
}

// Stop tears the subscription down and stops event delivery. The feed
// consumer is released; a viewer that changes its range builds a new LiveSync.
func (s *LiveSync) Stop() {
	s.stopOnce.Do(func() {
		if s.cancel == nil {
			return
		}
		s.cancel()
		<-s.done
	})
}

func (s *LiveSync) run(ctx context.Context) {
	defer close(s.done)

	events, err := s.connect(ctx)
	if err != nil {
		// The initial attempt gets the same one retry cycle a mid-stream
		// loss does before the replica is declared stale.
		events, err = s.reconnect(ctx)
		if err != nil {
			s.markStale(err)
			return
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				// Feed lost. One reconnect-and-reseed cycle; beyond
				// that we flag staleness instead of serving old data.
				if ctx.Err() != nil {
					return
				}
				events, err = s.reconnect(ctx)
				if err != nil {
					s.markStale(err)
					return
				}
				continue
			}
			s.set.Apply(event, s.from, s.to)
		}
	}
}

// connect subscribes first, then seeds the replica
func (s *LiveSync) connect(ctx context.Context) (<-chan *entities.BookingEvent, error) {
	events, err := s.bus.Subscribe(ctx, providers.BookingChannel(s.clinicID))
	if err != nil {
		return nil, apperrors.NewSubscriptionError("failed to subscribe to booking feed", err)
	}

	bookings, err := s.repo.ListByClinicRange(ctx, s.clinicID, s.from, s.to)
	if err != nil {
		return nil, apperrors.NewSubscriptionError("failed to seed booking replica", err)
	}
	s.set.Seed(bookings)

	log.Debug().
		Str("clinic_id", s.clinicID).
		Time("from", s.from).
		Time("to", s.to).
		Int("seeded", len(bookings)).
		Msg("booking replica seeded")

	return events, nil
}

func (s *LiveSync) reconnect(ctx context.Context) (<-chan *entities.BookingEvent, error) {
	log.Warn().Str("clinic_id", s.clinicID).Msg("booking feed lost, reconnecting")

	var events <-chan *entities.BookingEvent
	cfg := retry.Config{
		MaxAttempts:     3,
		InitialDelay:    200 * time.Millisecond,
		MaxDelay:        2 * time.Second,
		BackoffFactor:   2.0,
		MaxTotalTimeout: 10 * time.Second,
	}
	err := retry.Do(ctx, cfg, func() error {
		var connErr error
		events, connErr = s.connect(ctx)
		return connErr
	})
	if err != nil {
		return nil, apperrors.NewSubscriptionError("booking feed reconnect failed", err)
	}
	return events, nil
}

func (s *LiveSync) markStale(err error) {
	s.stale.Store(true)
	log.Warn().Err(err).
		Str("clinic_id", s.clinicID).
		Msg("booking replica is stale")
}

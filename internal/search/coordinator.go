// Package search runs profile searches with last-search-wins semantics:
// a new search cancels the one in flight, and results of superseded
// searches are never delivered.
package search

import (
	"context"
	"fmt"
	"sync"
	"time"

	apierrors "github.com/OPGLOL/opgl-profile-service/internal/errors"
	"github.com/OPGLOL/opgl-profile-service/internal/models"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// DefaultTimeout bounds a whole search
const DefaultTimeout = 60 * time.Second

// ProfileFetcher is the pipeline a search runs
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, riotID string) (*models.PlayerProfile, error)
}

// Result is the single handoff of one search: a profile, or an error code with a message
type Result struct {
	SearchID string                `json:"searchId"`
	RiotID   string                `json:"riotId"`
	Profile  *models.PlayerProfile `json:"profile,omitempty"`
	Code     apierrors.ErrorCode   `json:"code,omitempty"`
	Message  string                `json:"message,omitempty"`
}

// Coordinator owns the current search of one session
type Coordinator struct {
	fetcher ProfileFetcher
	timeout time.Duration
	logger  zerolog.Logger

	mutex      sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	inFlight   sync.WaitGroup
}

// NewCoordinator creates a new Coordinator instance
func NewCoordinator(fetcher ProfileFetcher, timeout time.Duration, logger zerolog.Logger) *Coordinator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Coordinator{
		fetcher: fetcher,
		timeout: timeout,
		logger:  logger,
	}
}

// Search starts a search for riotID and returns its id. deliver is called at most
// once, only if no newer search or Cancel happened in the meantime. deliver runs
// while the coordinator is locked and must not call back into it.
func (coordinator *Coordinator) Search(ctx context.Context, riotID string, deliver func(Result)) (string, error) {
	searchID, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("failed to generate search id: %w", err)
	}

	coordinator.mutex.Lock()
	if coordinator.cancel != nil {
		coordinator.cancel()
	}
	coordinator.generation++
	generation := coordinator.generation
	searchCtx, cancel := context.WithTimeout(ctx, coordinator.timeout)
	coordinator.cancel = cancel
	coordinator.mutex.Unlock()

	logger := coordinator.logger.With().Str("search_id", searchID).Str("riot_id", riotID).Logger()
	logger.Debug().Msg("Search started")

	coordinator.inFlight.Add(1)
	go func() {
		defer coordinator.inFlight.Done()
		defer cancel()

		result := Result{SearchID: searchID, RiotID: riotID}

		playerProfile, err := coordinator.fetcher.FetchProfile(searchCtx, riotID)
		if err != nil {
			apiError := apierrors.FromError(err)
			result.Code = apiError.Code
			result.Message = apiError.Message
		} else {
			result.Profile = playerProfile
		}

		coordinator.mutex.Lock()
		defer coordinator.mutex.Unlock()

		if generation != coordinator.generation {
			logger.Debug().Msg("Dropping result of superseded search")
			return
		}
		coordinator.cancel = nil

		deliver(result)
	}()

	return searchID, nil
}

// Cancel aborts the current search; its result will not be delivered
func (coordinator *Coordinator) Cancel() {
	coordinator.mutex.Lock()
	defer coordinator.mutex.Unlock()

	if coordinator.cancel != nil {
		coordinator.cancel()
		coordinator.cancel = nil
	}
	coordinator.generation++
}

// Wait blocks until every started search goroutine has finished
func (coordinator *Coordinator) Wait() {
	coordinator.inFlight.Wait()
}

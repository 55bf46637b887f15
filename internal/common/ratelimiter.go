package common

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Analysis struct {
	allowed bool          // If the request is allowed
	wait    time.Duration // The minimal time to wait before the request is allowed
}

// Penalty applied when the remote end answers with a rate limit
// without the limiter having predicted it
const RATE_LIMIT_PENALTY = 5 * time.Second

type RateLimiter struct {
	mutex                sync.Mutex
	restrictions         []Restriction          // Restrictions to consider
	history              []time.Time            // History of requests
	duration             time.Duration          // Min duration to wait for all restrictions to be lifted
	pendingVitalRequests map[uuid.UUID]struct{} // Set of pending vital requests
	stopwatch            Stopwatch              // Started when the remote end rate limits us
}

func NewRateLimiter(restrictions []Restriction) *RateLimiter {
	rl := RateLimiter{pendingVitalRequests: map[uuid.UUID]struct{}{}}
	// Restrictions are just a copy of the valid provided ones
	for _, restriction := range restrictions {
		if restriction.Requests <= 0 || restriction.Duration <= 0 {
			log.Warn().Msg(fmt.Sprintf("Ignoring invalid restriction: %s", restriction))
			continue
		}
		rl.restrictions = append(rl.restrictions, restriction)
		// Duration
		if restriction.Duration > rl.duration {
			rl.duration = restriction.Duration
		}
	}
	// Initialise a stopwatch
	rl.stopwatch = NewStopwatch(RATE_LIMIT_PENALTY)

	return &rl
}

// Decide if request is allowed.
// If the request is not allowed but vital, execution
// will block here until it is allowed or the context is done
func (rl *RateLimiter) Allowed(ctx context.Context, vital bool) bool {

	// Give this request a unique identifier
	thisuuid := uuid.New()
	for {
		rl.mutex.Lock()
		// Trim history first
		rl.trim()
		// Check if the restrictions allow this request
		analysis := rl.analyse()
		if analysis.allowed {
			if vital || len(rl.pendingVitalRequests) == 0 {
				log.Debug().Msg("Allowing request")
				// Remove the uuid in case it is there
				delete(rl.pendingVitalRequests, thisuuid)
				// Include this request in the history as it is allowed
				rl.history = append(rl.history, time.Now())
				rl.mutex.Unlock()
				return true
			}
			// Request is not vital and the queue is not empty,
			// so we have to reject the request
			rl.mutex.Unlock()
			log.Warn().Msg("Rejecting non vital request because restrictions allow it but vital queue is not empty")
			return false
		} else if !vital {
			rl.mutex.Unlock()
			log.Warn().Msg("Rejecting a non vital request because restrictions do not allow it")
			return false
		}

		// Request is vital and not allowed, so we need
		// to add it to the queue if not there
		rl.pendingVitalRequests[thisuuid] = struct{}{}
		rl.mutex.Unlock()

		// and sleep for some time
		log.Warn().Msg(fmt.Sprint("Vital request ", thisuuid, " delayed ", analysis.wait.Seconds(), " seconds"))
		select {
		case <-ctx.Done():
			rl.mutex.Lock()
			delete(rl.pendingVitalRequests, thisuuid)
			rl.mutex.Unlock()
			return false
		case <-time.After(analysis.wait):
		}
	}
}

// The remote end told us we are over the limit, so refuse everything
// until the penalty has passed
func (rl *RateLimiter) ReceivedRateLimit() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	log.Warn().Msg(fmt.Sprintf("Rate limit received, pausing requests for %s", rl.stopwatch.Timeout))
	rl.stopwatch.Start()
}

// Trim the current history, leaving only the requests
// that are young enough to be affected by at least one restriction
func (rl *RateLimiter) trim() {
	currentTime := time.Now()
	// Find the index from which we need to keep the history.
	// Start searching at the end of the slice.
	// I assume times are stored in chronological order
	index := 0
	for i := len(rl.history) - 1; i >= 0; i-- {
		if currentTime.Sub(rl.history[i]) > rl.duration {
			index = i + 1
			break
		}
	}
	rl.history = rl.history[index:]
}

func (rl *RateLimiter) analyse() Analysis {

	// Penalty imposed by the remote end goes first
	if stopped, remaining := rl.stopwatch.Stopped(); !stopped {
		return Analysis{false, remaining}
	}

	// Merge the analysis of each of the restrictions
	var wait time.Duration = 0
	allowed := true
	for _, restriction := range rl.restrictions {
		analysis := restriction.Analyse(rl.history)
		allowed = allowed && analysis.allowed
		if analysis.wait > wait {
			wait = analysis.wait
		}
	}
	return Analysis{allowed, wait}
}

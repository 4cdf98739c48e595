package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"imagehound/models"
	"imagehound/selector"
)

const (
	// defaultMaxEmptyAttempts bounds how many consecutive polls may yield
	// nothing new before collection gives up.
	defaultMaxEmptyAttempts = 10

	// defaultScrollSettle is how long a scroll gets to trigger lazy rendering
	// before the next poll.
	defaultScrollSettle = 1500 * time.Millisecond
)

// Session is the slice of the browser session the collector drives.
type Session interface {
	selector.Page
	ScrollToBottom() error
}

// TimeoutError is returned when polling exhausted the empty-attempt budget
// without ever finding a candidate. The page loaded but produced nothing
// extractable, which also covers CAPTCHA and blocking pages.
type TimeoutError struct {
	Attempts int
	Elapsed  time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("no image results extracted after %d polling attempts (%v); page may be empty, blocked, or CAPTCHA-gated",
		e.Attempts, e.Elapsed.Round(time.Second))
}

// IsTimeout checks if an error is a TimeoutError.
func IsTimeout(err error) (*TimeoutError, bool) {
	var toErr *TimeoutError
	if errors.As(err, &toErr) {
		return toErr, true
	}
	return nil, false
}

// Collector accumulates unique candidate URLs from a rendered results page.
type Collector struct {
	MaxEmptyAttempts int
	ScrollSettle     time.Duration
}

// New returns a collector with the default polling budget.
func New() *Collector {
	return &Collector{
		MaxEmptyAttempts: defaultMaxEmptyAttempts,
		ScrollSettle:     defaultScrollSettle,
	}
}

// Collect polls the page through resolver until requestedCount unique image
// URLs are gathered or the empty-attempt budget runs out. A short set is
// returned without error as long as at least one candidate was found; finding
// none at all is a TimeoutError.
func (c *Collector) Collect(ctx context.Context, session Session, resolver *selector.Resolver, requestedCount int) (*models.CandidateSet, error) {
	set := models.NewCandidateSet(requestedCount)
	if set.Full() {
		return set, nil
	}

	start := time.Now()
	emptyAttempts := 0

	for {
		if err := ctx.Err(); err != nil {
			return set, err
		}

		added := 0
		for _, extracted := range resolver.Extract(session) {
			if set.Add(extracted) {
				added++
			}
			if set.Full() {
				break
			}
		}

		if set.Full() {
			log.Printf("[Collector] ✓ Collected %d/%d candidates", set.Len(), requestedCount)
			return set, nil
		}

		if added > 0 {
			log.Printf("[Collector] %d new candidates (%d/%d)", added, set.Len(), requestedCount)
			emptyAttempts = 0
			continue
		}

		emptyAttempts++
		if emptyAttempts >= c.MaxEmptyAttempts {
			if set.Len() == 0 {
				return nil, &TimeoutError{Attempts: emptyAttempts, Elapsed: time.Since(start)}
			}
			log.Printf("[Collector] Giving up short: %d/%d candidates after %d empty polls",
				set.Len(), requestedCount, emptyAttempts)
			return set, nil
		}

		if err := session.ScrollToBottom(); err != nil {
			log.Printf("[Collector] Scroll failed: %v", err)
		}

		select {
		case <-ctx.Done():
			return set, ctx.Err()
		case <-time.After(c.ScrollSettle):
		}
	}
}

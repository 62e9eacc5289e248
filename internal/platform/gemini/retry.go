package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/phrazzld/posterdrop/internal/generation"
)

// Defaults applied when the configured retry values are out of range.
const (
	defaultMaxRetries        = 3
	defaultRetryDelaySeconds = 2
)

// credentialErrorMarkers are substrings of API errors that mean the selected
// key is unknown, malformed or not allowed to use the model.
var credentialErrorMarkers = []string{
	"Requested entity was not found",
	"API key not valid",
	"API_KEY_INVALID",
	"PERMISSION_DENIED",
}

// sleepFunc waits for d or until ctx is done.
type sleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// retrier runs Gemini calls with exponential backoff and jitter.
type retrier struct {
	maxRetries int
	baseDelay  time.Duration
	sleep      sleepFunc
	logger     *slog.Logger
}

func newRetrier(maxRetries, retryDelaySeconds int, logger *slog.Logger) *retrier {
	if maxRetries < 0 {
		logger.Warn("invalid max retries value, using default", "max_retries", defaultMaxRetries)
		maxRetries = defaultMaxRetries
	}
	if retryDelaySeconds < 1 {
		logger.Warn("invalid retry delay value, using default", "base_delay_seconds", defaultRetryDelaySeconds)
		retryDelaySeconds = defaultRetryDelaySeconds
	}

	return &retrier{
		maxRetries: maxRetries,
		baseDelay:  time.Duration(retryDelaySeconds) * time.Second,
		sleep:      sleepContext,
		logger:     logger,
	}
}

// do calls fn until it succeeds, fails permanently or the retry budget is
// spent. Errors already mapped to ErrContentBlocked, ErrInvalidResponse or
// ErrCredentialInvalid are permanent; anything else is treated as transient.
func (r *retrier) do(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; ; attempt++ {
		attemptNum := attempt + 1
		r.logger.DebugContext(ctx, "making Gemini API call",
			"operation", operation,
			"attempt", attemptNum,
			"max_attempts", r.maxRetries+1)

		err := fn(ctx)
		if err == nil {
			return nil
		}

		if isPermanent(err) {
			r.logger.WarnContext(ctx, "permanent error occurred, not retrying",
				"operation", operation,
				"error", err)
			return err
		}

		if attempt >= r.maxRetries {
			r.logger.WarnContext(ctx, "maximum retry attempts reached",
				"operation", operation,
				"max_retries", r.maxRetries)
			return fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				generation.ErrTransientFailure, r.maxRetries, err)
		}

		// delay = baseDelay * (2^attempt) * (0.5 + rand(0, 0.5))
		backoff := float64(r.baseDelay) * math.Pow(2, float64(attempt))
		delay := time.Duration(backoff * (0.5 + rng.Float64()*0.5))

		r.logger.InfoContext(ctx, "retrying after delay",
			"operation", operation,
			"attempt", attemptNum,
			"delay", delay,
			"error", err)

		if err := r.sleep(ctx, delay); err != nil {
			return fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
		}
	}
}

func isPermanent(err error) bool {
	return errors.Is(err, generation.ErrContentBlocked) ||
		errors.Is(err, generation.ErrInvalidResponse) ||
		errors.Is(err, generation.ErrCredentialInvalid) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func isCredentialError(message string) bool {
	for _, marker := range credentialErrorMarkers {
		if strings.Contains(message, marker) {
			return true
		}
	}
	return false
}

// classifyAPIError maps a raw client error onto the generation errors.
func classifyAPIError(err error) error {
	if err == nil {
		return nil
	}
	if isCredentialError(err.Error()) {
		return fmt.Errorf("%w: %v", generation.ErrCredentialInvalid, err)
	}
	return err
}

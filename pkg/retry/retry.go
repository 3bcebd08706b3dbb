package retry

import (
	"errors"
	"fmt"
	"time"

	errs "github.com/press-rouch/twitter-archive-parser/pkg/errors"
	"github.com/press-rouch/twitter-archive-parser/pkg/logger"
)

// Operation is a function that may need retrying
type Operation func() error

// Config holds retry configuration
type Config struct {
	// MaxAttempts is the total number of attempts, including the first
	MaxAttempts int
	// Delay is the fixed pause between attempts
	Delay time.Duration
	// RetryIf decides whether an error is worth another attempt
	RetryIf func(error) bool
	// Logger records retry attempts
	Logger logger.Logger
}

// DefaultConfig returns a retry configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts: 3,
		Delay:       2 * time.Second,
		RetryIf:     DefaultRetryIf,
		Logger:      logger.GetLogger(),
	}
}

// DefaultRetryIf retries network failures and retryable HTTP statuses
func DefaultRetryIf(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *errs.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Type {
		case errs.ErrorTypeNetwork:
			return true
		case errs.ErrorTypeHTTP:
			return errs.IsRetryableStatusCode(apiErr.Code)
		}
		return false
	}
	return true
}

// Do executes an operation, retrying per the configuration
func Do(op Operation, cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	retryIf := cfg.RetryIf
	if retryIf == nil {
		retryIf = DefaultRetryIf
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			time.Sleep(cfg.Delay)
		}

		err := op()
		if err == nil {
			if attempt > 1 && cfg.Logger != nil {
				cfg.Logger.DebugWithFields("operation succeeded after retry", map[string]interface{}{
					"attempt": attempt,
				})
			}
			return nil
		}
		lastErr = err

		if !retryIf(err) {
			return err
		}
		if cfg.Logger != nil && attempt < cfg.MaxAttempts {
			cfg.Logger.WarnWithFields("retrying operation", map[string]interface{}{
				"attempt": attempt,
				"error":   err.Error(),
			})
		}
	}

	return fmt.Errorf("max retry attempts (%d) exceeded: %w", cfg.MaxAttempts, lastErr)
}

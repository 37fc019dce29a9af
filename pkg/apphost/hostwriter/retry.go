package hostwriter

import (
	"time"

	"github.com/hashicorp/go-hclog"
)

// RetryPolicy re-executes a fallible operation on transient failures.
// Retryability is decided by the classifier, which keeps the loop itself
// generic: fatal errors propagate on the first attempt, transient ones are
// absorbed until the attempt budget runs out, after which the last error is
// returned unchanged.
type RetryPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	Retryable    func(error) bool
}

// fileRetryPolicy covers generic file I/O: template copy, mapped patching,
// signature stripping and timestamp refresh. Sharing violations from
// scanners and indexers usually clear within a few hundred milliseconds.
func fileRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  5,
		InitialDelay: 100 * time.Millisecond,
		Retryable:    isTransientIOError,
	}
}

// resourceRetryPolicy covers the native resource-copy step, which rewrites
// the whole image and holds the destination longer.
func resourceRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  3,
		InitialDelay: 200 * time.Millisecond,
		Retryable:    isTransientIOError,
	}
}

// Run executes op under the policy. Delays double between attempts.
func (p RetryPolicy) Run(logger hclog.Logger, what string, op func() error) error {
	delay := p.InitialDelay

	var err error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		err = op()
		if err == nil {
			if attempt > 1 {
				logger.Debug("Operation succeeded after retry", "what", what, "attempt", attempt)
			}
			return nil
		}

		if !p.Retryable(err) {
			return err
		}
		if attempt == p.MaxAttempts {
			logger.Error("Transient failure persisted after retries",
				"what", what,
				"attempts", p.MaxAttempts,
				"error", err)
			break
		}

		logger.Debug("Retrying after transient failure",
			"what", what,
			"attempt", attempt,
			"next_delay_ms", delay.Milliseconds(),
			"error", err)

		time.Sleep(delay)
		delay *= 2
	}

	return err
}

package ws2300

import "time"

const (
	DefaultReadAttempts  = 50
	DefaultResetAttempts = 100
	DefaultResetBackoff  = 100 * time.Millisecond
)

// Options tunes the retry budgets of a Device. Zero values take the
// defaults above.
type Options struct {
	// ReadAttempts bounds the reset+transaction attempts per cell.
	ReadAttempts int

	// ResetAttempts bounds the reset handshake attempts per transaction.
	ResetAttempts int

	// ResetBackoff is multiplied by the failed attempt's index to get the
	// pause before the next reset attempt.
	ResetBackoff time.Duration

	// StrictReset makes an exhausted reset handshake an error instead of
	// proceeding with the transaction anyway.
	StrictReset bool

	// Sleep replaces time.Sleep for the reset backoff.
	Sleep func(time.Duration)

	// OnRetry, if set, is called after every failed read attempt that will
	// be retried.
	OnRetry func(cell MemoryCell, attempt int, err error)
}

func (o Options) withDefaults() Options {
	if o.ReadAttempts <= 0 {
		o.ReadAttempts = DefaultReadAttempts
	}
	if o.ResetAttempts <= 0 {
		o.ResetAttempts = DefaultResetAttempts
	}
	if o.ResetBackoff < 0 {
		o.ResetBackoff = 0
	} else if o.ResetBackoff == 0 {
		o.ResetBackoff = DefaultResetBackoff
	}
	if o.Sleep == nil {
		o.Sleep = time.Sleep
	}
	return o
}

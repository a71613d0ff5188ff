package ws2300

import "fmt"

// ReadPipeline retries whole transactions for a memory cell. The link is
// noisy, so a failed transaction says little about the station itself.
type ReadPipeline struct {
	session  *LinkSession
	attempts int
	onRetry  func(cell MemoryCell, attempt int, err error)
}

// NewReadPipeline wraps session with the read retry budget from opts.
func NewReadPipeline(session *LinkSession, opts Options) *ReadPipeline {
	opts = opts.withDefaults()
	return &ReadPipeline{
		session:  session,
		attempts: opts.ReadAttempts,
		onRetry:  opts.OnRetry,
	}
}

// Read returns the validated payload of cell, or an error wrapping
// ErrUnreadable once every attempt has failed.
func (p *ReadPipeline) Read(cell MemoryCell) ([]byte, error) {
	if cell.Size < 1 || cell.Size > MaxCellSize {
		return nil, fmt.Errorf("%w: 0x%03X has size %d", ErrInvalidCell, cell.Address, cell.Size)
	}

	command := EncodeAddress(cell)

	var backoff func(int, error)
	if p.onRetry != nil {
		backoff = func(attempt int, err error) {
			p.onRetry(cell, attempt, err)
		}
	}

	payload, err := retry(p.attempts, backoff, func(int) ([]byte, error) {
		return p.session.Transact(command, cell.Size)
	})
	if err != nil {
		return nil, fmt.Errorf("%w 0x%03X after %d attempts: %w", ErrUnreadable, cell.Address, p.attempts, err)
	}

	return payload, nil
}

package ws2300

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// Channel is the byte-oriented duplex link to the station. Reads should
// time out rather than block forever; a read returning no data and no error
// is treated as a timeout.
type Channel interface {
	io.Reader
	io.Writer

	// Flush pushes out pending output and discards stale input.
	Flush() error
}

// maxBusyPolls caps how many consecutive busy answers a single reset
// attempt waits through before giving up on that attempt.
const maxBusyPolls = 256

// LinkSession performs the reset handshake and raw read transactions. It
// owns its Channel; only one transaction may be in flight at a time and a
// LinkSession must not be shared between goroutines.
type LinkSession struct {
	ch            Channel
	resetAttempts int
	resetBackoff  time.Duration
	strictReset   bool
	sleep         func(time.Duration)
	buf           [1]byte
}

// NewLinkSession returns a session that takes ownership of ch.
func NewLinkSession(ch Channel, opts Options) *LinkSession {
	opts = opts.withDefaults()
	return &LinkSession{
		ch:            ch,
		resetAttempts: opts.ResetAttempts,
		resetBackoff:  opts.ResetBackoff,
		strictReset:   opts.StrictReset,
		sleep:         opts.Sleep,
	}
}

// Reset returns the station to idle. Each attempt flushes, sends the reset
// command and polls for an answer: busy means keep polling, idle means done,
// anything else means back off and try again. Channel failures are returned
// immediately. Running out of attempts is not an error unless the session
// is strict.
func (s *LinkSession) Reset() error {
	_, err := retry(s.resetAttempts, s.backoff, func(int) (struct{}, error) {
		if err := s.ch.Flush(); err != nil {
			return struct{}{}, permanent(fmt.Errorf("%w: flush: %w", ErrIO, err))
		}
		if err := s.writeByte(ResetCommand); err != nil {
			return struct{}{}, permanent(fmt.Errorf("reset: %w", err))
		}

		for polls := 0; polls < maxBusyPolls; polls++ {
			answer, err := s.readByte()
			if err != nil {
				return struct{}{}, permanent(fmt.Errorf("reset: %w", err))
			}

			switch answer {
			case resetBusy:
				continue
			case resetIdle:
				return struct{}{}, nil
			default:
				return struct{}{}, errNotIdle
			}
		}
		return struct{}{}, errNotIdle
	})

	if errors.Is(err, errNotIdle) {
		if s.strictReset {
			return fmt.Errorf("%w after %d attempts", ErrResetFailed, s.resetAttempts)
		}
		return nil
	}
	return err
}

func (s *LinkSession) backoff(attempt int, _ error) {
	if d := s.resetBackoff * time.Duration(attempt); d > 0 {
		s.sleep(d)
	}
}

// Transact resets the station, sends command one byte at a time checking
// each echo, then reads size payload bytes and the trailing checksum.
func (s *LinkSession) Transact(command []byte, size int) ([]byte, error) {
	if err := s.Reset(); err != nil {
		return nil, err
	}

	for i, c := range command {
		if i == commandLength {
			break
		}
		if err := s.writeByte(c); err != nil {
			return nil, fmt.Errorf("command byte %d: %w", i, err)
		}
		echo, err := s.readByte()
		if err != nil {
			return nil, fmt.Errorf("echo %d: %w", i, err)
		}
		if !Check(c, i, echo) {
			return nil, fmt.Errorf("%w: byte %d sent 0x%02X, got 0x%02X, expected 0x%02X",
				ErrEchoMismatch, i, c, echo, expectedEcho(c, i))
		}
	}

	payload := make([]byte, size)
	for i := range payload {
		b, err := s.readByte()
		if err != nil {
			return nil, fmt.Errorf("payload byte %d of %d: %w", i, size, err)
		}
		payload[i] = b
	}

	trailer, err := s.readByte()
	if err != nil {
		return nil, fmt.Errorf("checksum byte: %w", err)
	}
	if !CheckData(trailer, payload) {
		return nil, fmt.Errorf("%w: got 0x%02X, computed 0x%02X", ErrChecksum, trailer, checksum(payload))
	}

	return payload, nil
}

func (s *LinkSession) writeByte(b byte) error {
	s.buf[0] = b
	n, err := s.ch.Write(s.buf[:])
	if err != nil {
		return fmt.Errorf("%w: write: %w", ErrIO, err)
	}
	if n != 1 {
		return fmt.Errorf("%w: short write", ErrIO)
	}
	return nil
}

func (s *LinkSession) readByte() (byte, error) {
	n, err := s.ch.Read(s.buf[:])
	if n == 1 {
		return s.buf[0], nil
	}
	if err == nil {
		return 0, fmt.Errorf("%w: read timed out", ErrIO)
	}
	return 0, fmt.Errorf("%w: read: %w", ErrIO, err)
}

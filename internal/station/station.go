// Package station gives a single WS2300 device a single owner. The device
// and its link are used from one goroutine only; everybody else asks for
// readings through Snapshot and Field.
package station

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/chrissnell/ws2300/pkg/ws2300"
	"go.uber.org/zap"
)

// ErrStopped is returned when the owner goroutine is no longer running.
var ErrStopped = errors.New("station stopped")

// Reader reads from the station. *ws2300.Device satisfies it.
type Reader interface {
	ReadAll() (*ws2300.Snapshot, error)
	ReadField(name string) (any, error)
}

// Status summarizes recent link health.
type Status struct {
	Reads       int       `json:"reads" yaml:"reads"`
	Failures    int       `json:"failures" yaml:"failures"`
	LastSuccess time.Time `json:"last_success,omitempty" yaml:"last_success,omitempty"`
	LastError   string    `json:"last_error,omitempty" yaml:"last_error,omitempty"`
}

type request struct {
	field string // empty for a full snapshot
	reply chan result
}

type result struct {
	snapshot *ws2300.Snapshot
	value    any
	err      error
}

// Station serializes access to a Reader.
type Station struct {
	reader   Reader
	requests chan request
	done     chan struct{}
	logger   *zap.SugaredLogger

	mu     sync.Mutex
	status Status
}

// New creates a station around reader. Nothing is read until Run is called.
func New(reader Reader, logger *zap.SugaredLogger) *Station {
	return &Station{
		reader:   reader,
		requests: make(chan request),
		done:     make(chan struct{}),
		logger:   logger,
	}
}

// Run serves requests until ctx is cancelled.
func (s *Station) Run(ctx context.Context) error {
	defer close(s.done)

	s.logger.Info("station ready")
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("cancellation request received, stopping station")
			return nil
		case req := <-s.requests:
			req.reply <- s.serve(req)
		}
	}
}

func (s *Station) serve(req request) result {
	var res result
	start := time.Now()

	if req.field == "" {
		res.snapshot, res.err = s.reader.ReadAll()
	} else {
		res.value, res.err = s.reader.ReadField(req.field)
	}

	if errors.Is(res.err, ws2300.ErrUnknownField) {
		return res
	}
	s.record(res.err)

	if res.err != nil {
		s.logger.Errorf("error reading station: %v", res.err)
	} else {
		s.logger.Debugf("station read took %v", time.Since(start))
	}
	return res
}

func (s *Station) record(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status.Reads++
	if err != nil {
		s.status.Failures++
		s.status.LastError = err.Error()
		return
	}
	s.status.LastSuccess = time.Now()
	s.status.LastError = ""
}

func (s *Station) do(ctx context.Context, req request) (result, error) {
	req.reply = make(chan result, 1)

	select {
	case s.requests <- req:
	case <-s.done:
		return result{}, ErrStopped
	case <-ctx.Done():
		return result{}, ctx.Err()
	}

	select {
	case res := <-req.reply:
		return res, res.err
	case <-ctx.Done():
		return result{}, ctx.Err()
	}
}

// Snapshot reads every field.
func (s *Station) Snapshot(ctx context.Context) (*ws2300.Snapshot, error) {
	res, err := s.do(ctx, request{})
	return res.snapshot, err
}

// Field reads one field by its snapshot key.
func (s *Station) Field(ctx context.Context, name string) (any, error) {
	res, err := s.do(ctx, request{field: name})
	return res.value, err
}

// Status returns a copy of the current link status.
func (s *Station) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

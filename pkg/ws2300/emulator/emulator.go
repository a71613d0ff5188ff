// Package emulator simulates a WS2300 station at the byte level. It answers
// reset and read requests from an in-memory image and can be told to
// misbehave the way a real serial link does.
package emulator

import (
	"bytes"
	"io"
	"math/rand"
	"sync"

	"github.com/chrissnell/ws2300/pkg/ws2300"
)

// FlakyConfig holds probabilities (0.0-1.0) for simulated link problems.
type FlakyConfig struct {
	Enabled         bool
	DropByteRate    float64 // a response byte is never sent
	CorruptByteRate float64 // a response byte is replaced by a random one
	BadChecksumRate float64 // the payload trailer is wrong
	BusyRate        float64 // a reset is answered with busy polls first
	DesyncRate      float64 // a reset is answered with garbage
}

// Config sets up a Station.
type Config struct {
	Flaky FlakyConfig
	Seed  int64

	// FailFirst gives the first FailFirst read requests a wrong checksum.
	FailFirst int

	// BusyPolls is the number of busy answers sent before idle on every reset.
	BusyPolls int

	// DesyncResets makes the first DesyncResets resets answer garbage.
	DesyncResets int
}

// Station is the shared memory image and fault state. Sessions created from
// the same Station see the same memory.
type Station struct {
	mu           sync.Mutex
	cells        map[uint32][]byte
	cfg          Config
	rng          *rand.Rand
	resets       int
	transactions int
}

// NewStation returns an empty station.
func NewStation(cfg Config) *Station {
	return &Station{
		cells: make(map[uint32][]byte),
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Set stores payload at address.
func (s *Station) Set(address uint32, payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cells[address] = append([]byte(nil), payload...)
}

// Transactions returns the number of read requests answered so far.
func (s *Station) Transactions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transactions
}

// Resets returns the number of reset commands received so far.
func (s *Station) Resets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resets
}

func (s *Station) read(address uint32, n int) []byte {
	payload := make([]byte, n)
	copy(payload, s.cells[address])
	return payload
}

func (s *Station) chance(rate float64) bool {
	return s.cfg.Flaky.Enabled && s.rng.Float64() < rate
}

func (s *Station) resetAnswer() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resets++
	if s.resets <= s.cfg.DesyncResets || s.chance(s.cfg.Flaky.DesyncRate) {
		return []byte{byte(s.rng.Intn(0x100)) | 0x80}
	}

	answer := bytes.Repeat([]byte{0x01}, s.cfg.BusyPolls)
	if s.chance(s.cfg.Flaky.BusyRate) {
		answer = append(answer, bytes.Repeat([]byte{0x01}, 1+s.rng.Intn(3))...)
	}
	return append(answer, 0x02)
}

func (s *Station) readAnswer(address uint32, n int) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transactions++
	payload := s.read(address, n)

	var sum byte
	for _, b := range payload {
		sum += b
	}
	if s.transactions <= s.cfg.FailFirst || s.chance(s.cfg.Flaky.BadChecksumRate) {
		sum++
	}
	return append(payload, sum)
}

func (s *Station) mangle(response []byte) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := response[:0]
	for _, b := range response {
		if s.chance(s.cfg.Flaky.DropByteRate) {
			continue
		}
		if s.chance(s.cfg.Flaky.CorruptByteRate) {
			b = byte(s.rng.Intn(0x100))
		}
		out = append(out, b)
	}
	return out
}

// Session is one connection to the station. It implements the byte channel
// a ws2300.LinkSession expects: bytes written are commands, and Read returns
// the station's answers. Read returns io.EOF when nothing is pending, which
// a reader sees as a timeout.
type Session struct {
	station  *Station
	out      bytes.Buffer
	address  uint32
	position int
}

// NewSession opens a connection to the station.
func (s *Station) NewSession() *Session {
	return &Session{station: s}
}

func (c *Session) Write(p []byte) (int, error) {
	for _, b := range p {
		c.handle(b)
	}
	return len(p), nil
}

func (c *Session) Read(p []byte) (int, error) {
	if c.out.Len() == 0 {
		return 0, io.EOF
	}
	return c.out.Read(p)
}

// Flush discards answers that have not been read, like clearing the input
// buffer of a serial port.
func (c *Session) Flush() error {
	c.out.Reset()
	return nil
}

// WriteTo sends every pending answer to w.
func (c *Session) WriteTo(w io.Writer) (int64, error) {
	return c.out.WriteTo(w)
}

// Pending returns the number of answer bytes not yet read.
func (c *Session) Pending() int {
	return c.out.Len()
}

func (c *Session) handle(b byte) {
	switch {
	case b == ws2300.ResetCommand:
		c.address, c.position = 0, 0
		c.respond(c.station.resetAnswer()...)

	case c.position < 4 && b >= 0x82 && b <= 0xBE && (b-0x82)%4 == 0:
		nibble := (b - 0x82) / 4
		c.address = c.address<<4 | uint32(nibble)
		c.respond(byte(c.position)*16 + nibble)
		c.position++

	case c.position == 4 && b >= 0xC2 && b <= 0xFE && (b-0xC2)%4 == 0:
		n := int(b-0xC2) / 4
		c.respond(0x30 + byte(n))
		c.respond(c.station.readAnswer(c.address, n)...)
		c.address, c.position = 0, 0

	default:
		// Out of sequence; the real station goes quiet until the next reset.
		c.address, c.position = 0, 0
	}
}

func (c *Session) respond(b ...byte) {
	c.out.Write(c.station.mangle(b))
}

// Package serialport opens the byte channel to a WS2300 station: a local
// serial device through one of two drivers, or a serial-over-IP bridge.
package serialport

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chrissnell/ws2300/internal/log"
)

const (
	DriverBugst    = "bugst"
	DriverGoserial = "goserial"

	networkPrefix = "tcp://"
)

// Port is an open link to the station.
type Port interface {
	io.ReadWriteCloser

	// Flush waits for pending output to go out and drops unread input.
	Flush() error
}

// Config describes the link. Device is a serial device path or
// tcp://host:port.
type Config struct {
	Device      string
	Baud        int
	Driver      string
	ReadTimeout time.Duration

	// Trace logs every byte sent and received at debug level.
	Trace bool
}

// Open opens the port described by cfg. The serial line is set to 8N1
// with no flow control, RTS asserted and DTR cleared.
func Open(cfg Config) (Port, error) {
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 500 * time.Millisecond
	}

	var port Port
	var err error

	switch {
	case strings.HasPrefix(cfg.Device, networkPrefix):
		port, err = openNetwork(strings.TrimPrefix(cfg.Device, networkPrefix), cfg.ReadTimeout)
	case cfg.Driver == "" || cfg.Driver == DriverBugst:
		port, err = openBugst(cfg)
	case cfg.Driver == DriverGoserial:
		port, err = openGoserial(cfg)
	default:
		return nil, fmt.Errorf("unknown serial driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Trace {
		port = &tracePort{Port: port, name: cfg.Device}
	}
	return port, nil
}

// tracePort logs traffic in hex.
type tracePort struct {
	Port
	name string
}

func (t *tracePort) Write(p []byte) (int, error) {
	if len(p) > 0 {
		log.Debugf("writing to %s: %s", t.name, hex.EncodeToString(p))
	}

	n, err := t.Port.Write(p)
	if err != nil {
		log.Errorf("error writing to %s: %v", t.name, err)
	}
	return n, err
}

func (t *tracePort) Read(p []byte) (int, error) {
	n, err := t.Port.Read(p)
	if n > 0 {
		log.Debugf("read from %s: %s", t.name, hex.EncodeToString(p[:n]))
	}
	return n, err
}

func (t *tracePort) Flush() error {
	log.Debugf("flushing %s", t.name)
	return t.Port.Flush()
}

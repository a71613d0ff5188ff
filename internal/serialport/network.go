package serialport

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"
)

const (
	dialTimeout = 10 * time.Second

	// drainWindow is how long Flush waits for stale bytes to arrive.
	drainWindow = 5 * time.Millisecond
)

// networkPort talks to a serial-over-IP bridge.
type networkPort struct {
	conn        net.Conn
	readTimeout time.Duration
	scratch     [64]byte
}

func openNetwork(address string, readTimeout time.Duration) (Port, error) {
	conn, err := net.DialTimeout("tcp", address, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("could not connect to %v: %w", address, err)
	}
	return &networkPort{conn: conn, readTimeout: readTimeout}, nil
}

func (n *networkPort) Read(p []byte) (int, error) {
	if err := n.conn.SetReadDeadline(time.Now().Add(n.readTimeout)); err != nil {
		return 0, err
	}
	return n.conn.Read(p)
}

func (n *networkPort) Write(p []byte) (int, error) {
	return n.conn.Write(p)
}

// Flush reads and drops whatever arrives within drainWindow.
func (n *networkPort) Flush() error {
	for {
		if err := n.conn.SetReadDeadline(time.Now().Add(drainWindow)); err != nil {
			return err
		}
		_, err := n.conn.Read(n.scratch[:])
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (n *networkPort) Close() error {
	return n.conn.Close()
}

//go:build linux

package serialport

import (
	"time"

	"golang.org/x/sys/unix"
)

func (g *goserialPort) fd() (int, bool) {
	f, ok := g.rwc.(interface{ Fd() uintptr })
	if !ok {
		return 0, false
	}
	return int(f.Fd()), true
}

// configure switches the line to timed reads (VMIN 0, VTIME in tenths of a
// second), raises RTS and clears DTR.
func (g *goserialPort) configure(cfg Config) error {
	fd, ok := g.fd()
	if !ok {
		return nil
	}

	t, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return err
	}
	t.Cc[unix.VMIN] = 0
	t.Cc[unix.VTIME] = vtime(cfg.ReadTimeout)
	if err := unix.IoctlSetTermios(fd, unix.TCSETS, t); err != nil {
		return err
	}

	if err := unix.IoctlSetPointerInt(fd, unix.TIOCMBIS, unix.TIOCM_RTS); err != nil {
		return err
	}
	return unix.IoctlSetPointerInt(fd, unix.TIOCMBIC, unix.TIOCM_DTR)
}

func vtime(d time.Duration) uint8 {
	tenths := d / (100 * time.Millisecond)
	switch {
	case tenths < 1:
		return 1
	case tenths > 255:
		return 255
	}
	return uint8(tenths)
}

// Flush drains output (tcdrain) and discards input (tcflush).
func (g *goserialPort) Flush() error {
	fd, ok := g.fd()
	if !ok {
		return nil
	}
	if err := unix.IoctlSetInt(fd, unix.TCSBRK, 1); err != nil {
		return err
	}
	return unix.IoctlSetInt(fd, unix.TCFLSH, unix.TCIFLUSH)
}

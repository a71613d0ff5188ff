package serialport

import (
	"fmt"
	"io"

	"github.com/chrissnell/ws2300/internal/log"
	goserial "github.com/tarm/goserial"
)

// goserialPort uses the goserial opener. Line control and timeouts that
// goserial does not expose are set on the file descriptor where the
// platform allows it.
type goserialPort struct {
	rwc io.ReadWriteCloser
}

func openGoserial(cfg Config) (Port, error) {
	sc := &goserial.Config{Name: cfg.Device, Baud: cfg.Baud}
	log.Debugf("attempting to open serial port %s at %d baud", cfg.Device, cfg.Baud)

	rwc, err := goserial.OpenPort(sc)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Device, err)
	}

	p := &goserialPort{rwc: rwc}
	if err := p.configure(cfg); err != nil {
		rwc.Close()
		return nil, fmt.Errorf("configuring %s: %w", cfg.Device, err)
	}
	return p, nil
}

func (g *goserialPort) Read(p []byte) (int, error) {
	return g.rwc.Read(p)
}

func (g *goserialPort) Write(p []byte) (int, error) {
	return g.rwc.Write(p)
}

func (g *goserialPort) Close() error {
	return g.rwc.Close()
}

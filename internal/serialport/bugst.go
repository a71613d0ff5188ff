package serialport

import (
	"fmt"

	"go.bug.st/serial"
)

type bugstPort struct {
	port serial.Port
}

func openBugst(cfg Config) (Port, error) {
	mode := &serial.Mode{
		BaudRate: cfg.Baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
		InitialStatusBits: &serial.ModemOutputBits{
			RTS: true,
			DTR: false,
		},
	}

	port, err := serial.Open(cfg.Device, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Device, err)
	}

	if err := port.SetReadTimeout(cfg.ReadTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("setting read timeout on %s: %w", cfg.Device, err)
	}

	// Not every platform honours InitialStatusBits.
	if err := port.SetRTS(true); err != nil {
		port.Close()
		return nil, fmt.Errorf("raising RTS on %s: %w", cfg.Device, err)
	}
	if err := port.SetDTR(false); err != nil {
		port.Close()
		return nil, fmt.Errorf("clearing DTR on %s: %w", cfg.Device, err)
	}

	return &bugstPort{port: port}, nil
}

// Read returns 0, nil when the read timeout expires.
func (b *bugstPort) Read(p []byte) (int, error) {
	return b.port.Read(p)
}

func (b *bugstPort) Write(p []byte) (int, error) {
	return b.port.Write(p)
}

func (b *bugstPort) Flush() error {
	if err := b.port.Drain(); err != nil {
		return err
	}
	return b.port.ResetInputBuffer()
}

func (b *bugstPort) Close() error {
	return b.port.Close()
}

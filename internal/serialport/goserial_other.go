//go:build !linux

package serialport

// Outside Linux the goserial driver runs with its own defaults: blocking
// reads and whatever control lines the OS leaves set.
func (g *goserialPort) configure(Config) error {
	return nil
}

func (g *goserialPort) Flush() error {
	return nil
}

package config

import (
	"errors"
	"fmt"
	"net"
	"slices"
	"time"

	"github.com/chrissnell/ws2300/pkg/ws2300"
)

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Get specific configuration sections
	GetDevice() (*DeviceData, error)
	GetProtocol() (*ProtocolData, error)

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Device   DeviceData   `json:"device" yaml:"device"`
	Protocol ProtocolData `json:"protocol" yaml:"protocol"`
	Output   OutputData   `json:"output" yaml:"output"`
	Server   ServerData   `json:"server" yaml:"server"`
	Log      LogData      `json:"log" yaml:"log"`
}

// DeviceData describes how to reach the station. Either SerialDevice or
// Hostname and Port must be set.
type DeviceData struct {
	SerialDevice string        `json:"serial_device,omitempty" yaml:"serial-device,omitempty"`
	Hostname     string        `json:"hostname,omitempty" yaml:"hostname,omitempty"`
	Port         string        `json:"port,omitempty" yaml:"port,omitempty"`
	Baud         int           `json:"baud,omitempty" yaml:"baud,omitempty"`
	Driver       string        `json:"driver,omitempty" yaml:"driver,omitempty"`
	ReadTimeout  time.Duration `json:"read_timeout,omitempty" yaml:"read-timeout,omitempty"`
}

// ProtocolData holds the retry budgets of the link protocol.
type ProtocolData struct {
	ReadAttempts  int           `json:"read_attempts,omitempty" yaml:"read-attempts,omitempty"`
	ResetAttempts int           `json:"reset_attempts,omitempty" yaml:"reset-attempts,omitempty"`
	ResetBackoff  time.Duration `json:"reset_backoff,omitempty" yaml:"reset-backoff,omitempty"`
	StrictReset   bool          `json:"strict_reset,omitempty" yaml:"strict-reset,omitempty"`
}

// OutputData selects what a one-shot read prints. An empty Field prints
// the whole snapshot.
type OutputData struct {
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
	Field  string `json:"field,omitempty" yaml:"field,omitempty"`
}

// ServerData enables serve mode when ListenAddr is set.
type ServerData struct {
	ListenAddr string `json:"listen_addr,omitempty" yaml:"listen-addr,omitempty"`
}

type LogData struct {
	Debug bool   `json:"debug,omitempty" yaml:"debug,omitempty"`
	File  string `json:"file,omitempty" yaml:"file,omitempty"`
}

const (
	DriverBugst    = "bugst"
	DriverGoserial = "goserial"
)

var (
	validDrivers = map[string]bool{DriverBugst: true, DriverGoserial: true}
	validFormats = map[string]bool{"json": true, "msgpack": true, "yaml": true, "cbor": true}
)

// Defaults returns the configuration used when nothing else is given.
func Defaults() *ConfigData {
	return &ConfigData{
		Device: DeviceData{
			Baud:        2400,
			Driver:      DriverBugst,
			ReadTimeout: 500 * time.Millisecond,
		},
		Protocol: ProtocolData{
			ReadAttempts:  50,
			ResetAttempts: 100,
			ResetBackoff:  100 * time.Millisecond,
		},
		Output: OutputData{Format: "json"},
	}
}

// ApplyDefaults fills unset fields of c from Defaults.
func (c *ConfigData) ApplyDefaults() {
	d := Defaults()
	if c.Device.Baud == 0 {
		c.Device.Baud = d.Device.Baud
	}
	if c.Device.Driver == "" {
		c.Device.Driver = d.Device.Driver
	}
	if c.Device.ReadTimeout == 0 {
		c.Device.ReadTimeout = d.Device.ReadTimeout
	}
	if c.Protocol.ReadAttempts == 0 {
		c.Protocol.ReadAttempts = d.Protocol.ReadAttempts
	}
	if c.Protocol.ResetAttempts == 0 {
		c.Protocol.ResetAttempts = d.Protocol.ResetAttempts
	}
	if c.Protocol.ResetBackoff == 0 {
		c.Protocol.ResetBackoff = d.Protocol.ResetBackoff
	}
	if c.Output.Format == "" {
		c.Output.Format = d.Output.Format
	}
}

// Validate reports every problem with c at once.
func (c *ConfigData) Validate() error {
	var errs []error

	if c.Device.SerialDevice == "" && c.Device.Hostname == "" {
		errs = append(errs, errors.New("device: serial-device or hostname is required"))
	}
	if c.Device.Hostname != "" && c.Device.Port == "" {
		errs = append(errs, errors.New("device: port is required with hostname"))
	}
	if c.Device.Baud <= 0 {
		errs = append(errs, fmt.Errorf("device: invalid baud rate %d", c.Device.Baud))
	}
	if !validDrivers[c.Device.Driver] {
		errs = append(errs, fmt.Errorf("device: unknown driver %q", c.Device.Driver))
	}
	if c.Device.ReadTimeout < 0 {
		errs = append(errs, errors.New("device: read-timeout must not be negative"))
	}
	if c.Protocol.ReadAttempts < 1 {
		errs = append(errs, fmt.Errorf("protocol: read-attempts must be at least 1, got %d", c.Protocol.ReadAttempts))
	}
	if c.Protocol.ResetAttempts < 1 {
		errs = append(errs, fmt.Errorf("protocol: reset-attempts must be at least 1, got %d", c.Protocol.ResetAttempts))
	}
	if !validFormats[c.Output.Format] {
		errs = append(errs, fmt.Errorf("output: unknown format %q", c.Output.Format))
	}
	if c.Output.Field != "" && !slices.Contains(ws2300.Fields(), c.Output.Field) {
		errs = append(errs, fmt.Errorf("output: unknown field %q", c.Output.Field))
	}

	return errors.Join(errs...)
}

// Target returns the device to open: the serial device path, or a
// tcp://host:port address when only a hostname is configured.
func (d DeviceData) Target() string {
	if d.SerialDevice != "" {
		return d.SerialDevice
	}
	return "tcp://" + net.JoinHostPort(d.Hostname, d.Port)
}

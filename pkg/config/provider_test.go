package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ws2300.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestYAMLProvider(t *testing.T) {
	path := writeConfig(t, `
device:
  serial-device: /dev/ttyUSB0
  read-timeout: 250ms
protocol:
  read-attempts: 10
  strict-reset: true
output:
  format: cbor
server:
  listen-addr: ":8080"
log:
  debug: true
`)

	p := NewYAMLProvider(path)
	cfg, err := p.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyUSB0", cfg.Device.SerialDevice)
	assert.Equal(t, 250*time.Millisecond, cfg.Device.ReadTimeout)
	assert.Equal(t, 2400, cfg.Device.Baud)
	assert.Equal(t, DriverBugst, cfg.Device.Driver)
	assert.Equal(t, 10, cfg.Protocol.ReadAttempts)
	assert.Equal(t, 100, cfg.Protocol.ResetAttempts)
	assert.Equal(t, 100*time.Millisecond, cfg.Protocol.ResetBackoff)
	assert.True(t, cfg.Protocol.StrictReset)
	assert.Equal(t, "cbor", cfg.Output.Format)
	assert.Equal(t, ":8080", cfg.Server.ListenAddr)
	assert.True(t, cfg.Log.Debug)
	assert.NoError(t, cfg.Validate())

	protocol, err := p.GetProtocol()
	require.NoError(t, err)
	assert.Equal(t, 10, protocol.ReadAttempts)
	assert.True(t, p.IsReadOnly())
}

func TestYAMLProviderErrors(t *testing.T) {
	_, err := NewYAMLProvider(filepath.Join(t.TempDir(), "missing.yaml")).LoadConfig()
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = NewYAMLProvider(writeConfig(t, "device: [")).LoadConfig()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ConfigData)
		wantErr string
	}{
		{"serial device", func(c *ConfigData) { c.Device.SerialDevice = "/dev/ttyS0" }, ""},
		{"network", func(c *ConfigData) { c.Device.Hostname, c.Device.Port = "bridge", "4001" }, ""},
		{"no device", func(c *ConfigData) {}, "serial-device or hostname is required"},
		{"hostname without port", func(c *ConfigData) { c.Device.Hostname = "bridge" }, "port is required"},
		{"bad driver", func(c *ConfigData) {
			c.Device.SerialDevice = "/dev/ttyS0"
			c.Device.Driver = "ftdi"
		}, `unknown driver "ftdi"`},
		{"bad format", func(c *ConfigData) {
			c.Device.SerialDevice = "/dev/ttyS0"
			c.Output.Format = "xml"
		}, `unknown format "xml"`},
		{"field", func(c *ConfigData) {
			c.Device.SerialDevice = "/dev/ttyS0"
			c.Output.Field = "rain_24h"
		}, ""},
		{"bad field", func(c *ConfigData) {
			c.Device.SerialDevice = "/dev/ttyS0"
			c.Output.Field = "uv_index"
		}, `unknown field "uv_index"`},
		{"no read attempts", func(c *ConfigData) {
			c.Device.SerialDevice = "/dev/ttyS0"
			c.Protocol.ReadAttempts = -1
		}, "read-attempts must be at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Defaults()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTarget(t *testing.T) {
	assert.Equal(t, "/dev/ttyUSB0", DeviceData{SerialDevice: "/dev/ttyUSB0", Hostname: "ignored"}.Target())
	assert.Equal(t, "tcp://bridge:4001", DeviceData{Hostname: "bridge", Port: "4001"}.Target())
}

func TestOverrideProvider(t *testing.T) {
	path := writeConfig(t, `
device:
  serial-device: /dev/ttyUSB0
output:
  format: yaml
`)

	p := NewOverrideProvider(NewYAMLProvider(path), func(c *ConfigData) {
		c.Output.Format = "msgpack"
		c.Device.Driver = DriverGoserial
	})

	cfg, err := p.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", cfg.Device.SerialDevice)
	assert.Equal(t, "msgpack", cfg.Output.Format)

	device, err := p.GetDevice()
	require.NoError(t, err)
	assert.Equal(t, DriverGoserial, device.Driver)
	assert.NoError(t, p.Close())
}

func TestOverrideProviderWithoutFile(t *testing.T) {
	p := NewOverrideProvider(nil, func(c *ConfigData) {
		c.Device.SerialDevice = "/dev/ttyS1"
	})

	cfg, err := p.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyS1", cfg.Device.SerialDevice)
	assert.Equal(t, "json", cfg.Output.Format)

	_, err = NewOverrideProvider(nil).LoadConfig()
	assert.Error(t, err)
}

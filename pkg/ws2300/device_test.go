package ws2300_test

import (
	"testing"
	"time"

	"github.com/chrissnell/ws2300/pkg/ws2300"
	"github.com/chrissnell/ws2300/pkg/ws2300/emulator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testReadings = emulator.Readings{
	TemperatureIndoor:  21.4,
	TemperatureOutdoor: -3.7,
	Dewpoint:           -8.2,
	WindChill:          -6.1,
	HumidityIndoor:     45,
	HumidityOutdoor:    82,
	WindSpeed:          5.3,
	WindDirIndex:       4,
	Rain1h:             0.3,
	Rain24h:            12.6,
	RainTotal:          1234.5,
	Pressure:           1013.2,
	Tendency:           1,
	Forecast:           2,
}

var testSnapshot = ws2300.Snapshot{
	TemperatureIndoor:  21.4,
	TemperatureOutdoor: -3.7,
	Dewpoint:           -8.2,
	HumidityIndoor:     45,
	HumidityOutdoor:    82,
	WindSpeed:          5.3,
	WindDir:            90.0,
	WindDirection:      "E",
	WindChill:          -6.1,
	Rain1h:             0.3,
	Rain24h:            12.6,
	RainTotal:          1234.5,
	Pressure:           1013.2,
	Tendency:           "Rising",
	Forecast:           "Sunny",
}

type retryCounter struct {
	retries int
}

func newDevice(t *testing.T, cfg emulator.Config) (*ws2300.Device, *emulator.Station, *retryCounter) {
	t.Helper()

	station := emulator.NewStation(cfg)
	station.Load(testReadings)

	counter := &retryCounter{}
	dev := ws2300.NewDevice(station.NewSession(), ws2300.Options{
		Sleep: func(time.Duration) {},
		OnRetry: func(ws2300.MemoryCell, int, error) {
			counter.retries++
		},
	})
	return dev, station, counter
}

func TestReadSucceedsFirstAttempt(t *testing.T) {
	dev, station, counter := newDevice(t, emulator.Config{})

	v, err := dev.TemperatureIndoor()
	require.NoError(t, err)
	assert.Equal(t, 21.4, v)
	assert.Equal(t, 1, station.Transactions())
	assert.Equal(t, 1, station.Resets())
	assert.Zero(t, counter.retries)
}

func TestReadAll(t *testing.T) {
	dev, station, counter := newDevice(t, emulator.Config{BusyPolls: 2})

	snap, err := dev.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, testSnapshot, *snap)
	assert.Equal(t, 15, station.Transactions())
	assert.Zero(t, counter.retries)
}

func TestReadSucceedsOnLastAttempt(t *testing.T) {
	dev, station, counter := newDevice(t, emulator.Config{FailFirst: ws2300.DefaultReadAttempts - 1})

	v, err := dev.Pressure()
	require.NoError(t, err)
	assert.Equal(t, 1013.2, v)
	assert.Equal(t, ws2300.DefaultReadAttempts, station.Transactions())
	assert.Equal(t, ws2300.DefaultReadAttempts-1, counter.retries)
}

func TestReadExhaustsRetries(t *testing.T) {
	dev, station, _ := newDevice(t, emulator.Config{FailFirst: ws2300.DefaultReadAttempts})

	_, err := dev.Pressure()
	require.ErrorIs(t, err, ws2300.ErrUnreadable)
	assert.ErrorIs(t, err, ws2300.ErrChecksum)
	assert.Equal(t, ws2300.DefaultReadAttempts, station.Transactions())
}

func TestReadAllStopsAtFirstError(t *testing.T) {
	dev, station, _ := newDevice(t, emulator.Config{})
	station.Set(ws2300.DefaultMemoryMap.Tendency.Address, []byte{0x30})

	snap, err := dev.ReadAll()
	assert.Nil(t, snap)
	require.ErrorIs(t, err, ws2300.ErrDecode)
	assert.Contains(t, err.Error(), "tendency")
}

func TestReadAllThroughFlakyLink(t *testing.T) {
	dev, _, counter := newDevice(t, emulator.Config{
		Seed:         7,
		DesyncResets: 3,
		Flaky: emulator.FlakyConfig{
			Enabled:         true,
			DropByteRate:    0.01,
			CorruptByteRate: 0.01,
			BadChecksumRate: 0.1,
			BusyRate:        0.2,
			DesyncRate:      0.05,
		},
	})

	snap, err := dev.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, testSnapshot, *snap)
	t.Logf("flaky link needed %d retries", counter.retries)
}

func TestReadField(t *testing.T) {
	dev, _, _ := newDevice(t, emulator.Config{})

	v, err := dev.ReadField("rain_24h")
	require.NoError(t, err)
	assert.Equal(t, 12.6, v)

	v, err = dev.ReadField("humidity_outdoor")
	require.NoError(t, err)
	assert.Equal(t, 82, v)

	v, err = dev.ReadField("wind_direction")
	require.NoError(t, err)
	assert.Equal(t, "E", v)

	_, err = dev.ReadField("uv_index")
	assert.ErrorIs(t, err, ws2300.ErrUnknownField)
}

func TestFields(t *testing.T) {
	names := ws2300.Fields()
	assert.Len(t, names, 15)
	assert.IsIncreasing(t, names)
	assert.Contains(t, names, "temperature_indoor")
	assert.Contains(t, names, "forecast")
}

func TestInvalidCell(t *testing.T) {
	station := emulator.NewStation(emulator.Config{})
	session := ws2300.NewLinkSession(station.NewSession(), ws2300.Options{})
	pipeline := ws2300.NewReadPipeline(session, ws2300.Options{})

	_, err := pipeline.Read(ws2300.MemoryCell{Address: 0x100, Size: 4})
	assert.ErrorIs(t, err, ws2300.ErrInvalidCell)
	assert.Zero(t, station.Resets())
}

package emulator

import (
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/chrissnell/ws2300/pkg/ws2300"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, c *Session) []byte {
	t.Helper()
	out, err := io.ReadAll(c)
	require.NoError(t, err)
	return out
}

func TestSessionAnswersRead(t *testing.T) {
	station := NewStation(Config{BusyPolls: 1})
	station.Set(0x346, []byte{0x50, 0x32})
	c := station.NewSession()

	_, err := c.Write([]byte{ws2300.ResetCommand})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02}, drain(t, c))

	_, err = c.Write(ws2300.EncodeAddress(ws2300.MemoryCell{Address: 0x346, Size: 2}))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x13, 0x24, 0x36, 0x32, 0x50, 0x32, 0x82}, drain(t, c))

	assert.Equal(t, 1, station.Resets())
	assert.Equal(t, 1, station.Transactions())
}

func TestSessionIgnoresOutOfSequenceBytes(t *testing.T) {
	station := NewStation(Config{})
	c := station.NewSession()

	_, err := c.Write([]byte{0xC6, 0x10})
	require.NoError(t, err)
	assert.Zero(t, c.Pending())
	assert.Zero(t, station.Transactions())
}

func TestSessionFlushDiscardsAnswers(t *testing.T) {
	station := NewStation(Config{BusyPolls: 3})
	c := station.NewSession()

	_, err := c.Write([]byte{ws2300.ResetCommand})
	require.NoError(t, err)
	assert.Equal(t, 4, c.Pending())

	require.NoError(t, c.Flush())
	assert.Zero(t, c.Pending())

	_, err = c.Read(make([]byte, 1))
	assert.ErrorIs(t, err, io.EOF)
}

func TestDesyncResets(t *testing.T) {
	station := NewStation(Config{DesyncResets: 2})
	c := station.NewSession()

	for i := 0; i < 2; i++ {
		_, err := c.Write([]byte{ws2300.ResetCommand})
		require.NoError(t, err)
		answer := drain(t, c)
		require.Len(t, answer, 1)
		assert.NotEqual(t, byte(0x01), answer[0])
		assert.NotEqual(t, byte(0x02), answer[0])
	}

	_, err := c.Write([]byte{ws2300.ResetCommand})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02}, drain(t, c))
}

func TestEncodersMatchDecoders(t *testing.T) {
	temp, err := ws2300.DecodeTemperature(EncodeTemperature(-12.3))
	require.NoError(t, err)
	assert.Equal(t, -12.3, temp)

	hum, err := ws2300.DecodeHumidity(EncodeHumidity(67))
	require.NoError(t, err)
	assert.Equal(t, 67, hum)

	speed, err := ws2300.DecodeWindSpeed(EncodeWindSpeed(17.9))
	require.NoError(t, err)
	assert.Equal(t, 17.9, speed)

	dir, err := ws2300.DecodeWindDirection(EncodeWindDir(15))
	require.NoError(t, err)
	assert.Equal(t, "NNW", dir)

	rain, err := ws2300.DecodeRain(EncodeRain(987.6))
	require.NoError(t, err)
	assert.Equal(t, 987.6, rain)

	pressure, err := ws2300.DecodePressure(EncodePressure(998.7))
	require.NoError(t, err)
	assert.Equal(t, 998.7, pressure)

	tendency, err := ws2300.DecodeTendency(EncodeTendency(2, 1))
	require.NoError(t, err)
	assert.Equal(t, "Falling", tendency)

	forecast, err := ws2300.DecodeForecast(EncodeTendency(2, 1))
	require.NoError(t, err)
	assert.Equal(t, "Cloudy", forecast)
}

func TestGenerateIsLoadable(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	r := Generate(time.Date(2024, 1, 15, 6, 0, 0, 0, time.UTC), rng)

	assert.GreaterOrEqual(t, r.HumidityOutdoor, 10)
	assert.LessOrEqual(t, r.HumidityOutdoor, 99)
	assert.GreaterOrEqual(t, r.WindDirIndex, 0)
	assert.Less(t, r.WindDirIndex, 16)

	station := NewStation(Config{})
	station.Load(r)
	dev := ws2300.NewDevice(station.NewSession(), ws2300.Options{})

	snap, err := dev.ReadAll()
	require.NoError(t, err)
	assert.InDelta(t, r.TemperatureOutdoor, snap.TemperatureOutdoor, 0.06)
	assert.InDelta(t, r.Pressure, snap.Pressure, 0.06)
	assert.Equal(t, r.HumidityOutdoor, snap.HumidityOutdoor)
}

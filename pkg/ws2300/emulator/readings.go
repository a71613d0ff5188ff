package emulator

import (
	"math"
	"math/rand"
	"time"

	"github.com/chrissnell/ws2300/pkg/ws2300"
)

// Readings are the values a Station serves, in station units.
type Readings struct {
	TemperatureIndoor  float64 // °C
	TemperatureOutdoor float64
	Dewpoint           float64
	WindChill          float64
	HumidityIndoor     int // %
	HumidityOutdoor    int
	WindSpeed          float64 // m/s
	WindDirIndex       int     // 0-15, N clockwise
	Rain1h             float64 // mm
	Rain24h            float64
	RainTotal          float64
	Pressure           float64 // hPa
	Tendency           int     // 0 steady, 1 rising, 2 falling
	Forecast           int     // 0 rainy, 1 cloudy, 2 sunny
}

// Load writes r into the station memory at the WS2300 addresses.
func (s *Station) Load(r Readings) {
	m := ws2300.DefaultMemoryMap
	s.Set(m.TemperatureIndoor.Address, EncodeTemperature(r.TemperatureIndoor))
	s.Set(m.TemperatureOutdoor.Address, EncodeTemperature(r.TemperatureOutdoor))
	s.Set(m.Dewpoint.Address, EncodeTemperature(r.Dewpoint))
	s.Set(m.WindChill.Address, EncodeTemperature(r.WindChill))
	s.Set(m.HumidityIndoor.Address, EncodeHumidity(r.HumidityIndoor))
	s.Set(m.HumidityOutdoor.Address, EncodeHumidity(r.HumidityOutdoor))
	s.Set(m.WindSpeed.Address, EncodeWindSpeed(r.WindSpeed))
	s.Set(m.WindDir.Address, EncodeWindDir(r.WindDirIndex))
	s.Set(m.Rain1h.Address, EncodeRain(r.Rain1h))
	s.Set(m.Rain24h.Address, EncodeRain(r.Rain24h))
	s.Set(m.RainTotal.Address, EncodeRain(r.RainTotal))
	s.Set(m.Pressure.Address, EncodePressure(r.Pressure))
	s.Set(m.Tendency.Address, EncodeTendency(r.Tendency, r.Forecast))
}

// digits splits v into n decimal digits, least significant first.
func digits(v, n int) []byte {
	d := make([]byte, n)
	for i := range d {
		d[i] = byte(v % 10)
		v /= 10
	}
	return d
}

func pack(high, low byte) byte {
	return high<<4 | low&0x0F
}

func scaled(v, factor float64) int {
	n := int(math.Round(v * factor))
	if n < 0 {
		return 0
	}
	return n
}

// EncodeTemperature stores °C with the station's +30 offset, in hundredths.
func EncodeTemperature(c float64) []byte {
	d := digits(scaled(c+30, 100), 4)
	return []byte{pack(d[1], d[0]), pack(d[3], d[2])}
}

func EncodeHumidity(h int) []byte {
	d := digits(h, 2)
	return []byte{pack(d[1], d[0])}
}

// EncodeWindSpeed stores m/s as a 12-bit count of tenths.
func EncodeWindSpeed(v float64) []byte {
	tenths := scaled(v, 10)
	if tenths > 0xFFF {
		tenths = 0xFFF
	}
	return []byte{byte(tenths), byte(tenths>>8) & 0x0F, 0}
}

func EncodeWindDir(index int) []byte {
	return []byte{byte(index&0x0F) << 4}
}

// EncodeRain stores mm in hundredths across six digits.
func EncodeRain(mm float64) []byte {
	d := digits(scaled(mm, 100), 6)
	return []byte{pack(d[1], d[0]), pack(d[3], d[2]), pack(d[5], d[4])}
}

// EncodePressure stores hPa in tenths across five digits.
func EncodePressure(hpa float64) []byte {
	d := digits(scaled(hpa, 10), 5)
	return []byte{pack(d[1], d[0]), pack(d[3], d[2]), d[4]}
}

func EncodeTendency(tendency, forecast int) []byte {
	return []byte{pack(byte(tendency), byte(forecast))}
}

// Generate produces plausible readings for t with daily temperature swing
// and random noise.
func Generate(t time.Time, rng *rand.Rand) Readings {
	hourOfDay := float64(t.Hour()) + float64(t.Minute())/60.0
	dayOfYear := float64(t.YearDay())

	seasonal := 10.0 * math.Sin(2*math.Pi*(dayOfYear-80)/365.0)
	daily := 6.0 * math.Sin(2*math.Pi*(hourOfDay-9)/24.0)
	outdoor := 10.0 + seasonal + daily + (rng.Float64()-0.5)*1.0

	humidity := 60 - int((outdoor-10)*1.5) + rng.Intn(10)
	if humidity < 10 {
		humidity = 10
	}
	if humidity > 99 {
		humidity = 99
	}

	wind := 1.0 + rng.Float64()*8.0
	chill := outdoor
	if outdoor < 10 && wind > 1.3 {
		kmh := wind * 3.6
		chill = 13.12 + 0.6215*outdoor - 11.37*math.Pow(kmh, 0.16) + 0.3965*outdoor*math.Pow(kmh, 0.16)
	}

	return Readings{
		TemperatureIndoor:  21.0 + rng.Float64(),
		TemperatureOutdoor: outdoor,
		Dewpoint:           outdoor - (100-float64(humidity))/5.0,
		WindChill:          chill,
		HumidityIndoor:     40 + rng.Intn(15),
		HumidityOutdoor:    humidity,
		WindSpeed:          wind,
		WindDirIndex:       rng.Intn(16),
		Rain1h:             float64(rng.Intn(3)) * 0.3,
		Rain24h:            float64(rng.Intn(40)) * 0.3,
		RainTotal:          1234.5 + float64(rng.Intn(100)),
		Pressure:           1013.2 + (rng.Float64()-0.5)*20,
		Tendency:           rng.Intn(3),
		Forecast:           rng.Intn(3),
	}
}

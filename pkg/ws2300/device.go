package ws2300

import (
	"fmt"
	"sort"
)

// Snapshot holds one reading of every field the Device decodes.
type Snapshot struct {
	TemperatureIndoor  float64 `json:"temperature_indoor" yaml:"temperature_indoor"`
	TemperatureOutdoor float64 `json:"temperature_outdoor" yaml:"temperature_outdoor"`
	Dewpoint           float64 `json:"dewpoint" yaml:"dewpoint"`
	HumidityIndoor     int     `json:"humidity_indoor" yaml:"humidity_indoor"`
	HumidityOutdoor    int     `json:"humidity_outdoor" yaml:"humidity_outdoor"`
	WindSpeed          float64 `json:"wind_speed" yaml:"wind_speed"`
	WindDir            float64 `json:"wind_dir" yaml:"wind_dir"`
	WindDirection      string  `json:"wind_direction" yaml:"wind_direction"`
	WindChill          float64 `json:"wind_chill" yaml:"wind_chill"`
	Rain1h             float64 `json:"rain_1h" yaml:"rain_1h"`
	Rain24h            float64 `json:"rain_24h" yaml:"rain_24h"`
	RainTotal          float64 `json:"rain_total" yaml:"rain_total"`
	Pressure           float64 `json:"pressure" yaml:"pressure"`
	Tendency           string  `json:"tendency" yaml:"tendency"`
	Forecast           string  `json:"forecast" yaml:"forecast"`
}

// Device reads decoded measurements from a WS2300 station. Like the
// LinkSession underneath it, a Device is not safe for concurrent use.
type Device struct {
	memory   MemoryMap
	pipeline *ReadPipeline
}

// NewDevice returns a Device that takes ownership of ch. The channel must
// already be configured for the station (2400 baud 8N1, RTS on, DTR off).
func NewDevice(ch Channel, opts Options) *Device {
	return &Device{
		memory:   DefaultMemoryMap,
		pipeline: NewReadPipeline(NewLinkSession(ch, opts), opts),
	}
}

func (d *Device) TemperatureIndoor() (float64, error) {
	return read(d, d.memory.TemperatureIndoor, DecodeTemperature)
}

func (d *Device) TemperatureOutdoor() (float64, error) {
	return read(d, d.memory.TemperatureOutdoor, DecodeTemperature)
}

func (d *Device) Dewpoint() (float64, error) {
	return read(d, d.memory.Dewpoint, DecodeTemperature)
}

func (d *Device) HumidityIndoor() (int, error) {
	return read(d, d.memory.HumidityIndoor, DecodeHumidity)
}

func (d *Device) HumidityOutdoor() (int, error) {
	return read(d, d.memory.HumidityOutdoor, DecodeHumidity)
}

func (d *Device) WindSpeed() (float64, error) {
	return read(d, d.memory.WindSpeed, DecodeWindSpeed)
}

// WindDir returns the wind direction in degrees.
func (d *Device) WindDir() (float64, error) {
	return read(d, d.memory.WindDir, DecodeWindDir)
}

// WindDirection returns the wind direction as a compass point.
func (d *Device) WindDirection() (string, error) {
	return read(d, d.memory.WindDir, DecodeWindDirection)
}

func (d *Device) WindChill() (float64, error) {
	return read(d, d.memory.WindChill, DecodeTemperature)
}

func (d *Device) Rain1h() (float64, error) {
	return read(d, d.memory.Rain1h, DecodeRain)
}

func (d *Device) Rain24h() (float64, error) {
	return read(d, d.memory.Rain24h, DecodeRain)
}

func (d *Device) RainTotal() (float64, error) {
	return read(d, d.memory.RainTotal, DecodeRain)
}

func (d *Device) Pressure() (float64, error) {
	return read(d, d.memory.Pressure, DecodePressure)
}

func (d *Device) Tendency() (string, error) {
	return read(d, d.memory.Tendency, DecodeTendency)
}

func (d *Device) Forecast() (string, error) {
	return read(d, d.memory.Tendency, DecodeForecast)
}

// ReadAll reads every field in turn. It stops at the first error; no
// partial snapshot is returned.
func (d *Device) ReadAll() (*Snapshot, error) {
	var s Snapshot
	for _, f := range fields {
		if err := f.read(d, &s); err != nil {
			return nil, fmt.Errorf("%s: %w", f.name, err)
		}
	}
	return &s, nil
}

// ReadField reads a single field by its snapshot key, e.g. "rain_24h".
func (d *Device) ReadField(name string) (any, error) {
	f, ok := fieldsByName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}

	var s Snapshot
	if err := f.read(d, &s); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return f.value(&s), nil
}

// Fields returns the snapshot keys in sorted order.
func Fields() []string {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.name)
	}
	sort.Strings(names)
	return names
}

func read[T any](d *Device, cell MemoryCell, decode func([]byte) (T, error)) (T, error) {
	payload, err := d.pipeline.Read(cell)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode(payload)
}

type field struct {
	name  string
	read  func(*Device, *Snapshot) error
	value func(*Snapshot) any
}

func floatField(name string, get func(*Device) (float64, error), dst func(*Snapshot) *float64) field {
	return field{
		name: name,
		read: func(d *Device, s *Snapshot) (err error) {
			*dst(s), err = get(d)
			return err
		},
		value: func(s *Snapshot) any { return *dst(s) },
	}
}

func intField(name string, get func(*Device) (int, error), dst func(*Snapshot) *int) field {
	return field{
		name: name,
		read: func(d *Device, s *Snapshot) (err error) {
			*dst(s), err = get(d)
			return err
		},
		value: func(s *Snapshot) any { return *dst(s) },
	}
}

func stringField(name string, get func(*Device) (string, error), dst func(*Snapshot) *string) field {
	return field{
		name: name,
		read: func(d *Device, s *Snapshot) (err error) {
			*dst(s), err = get(d)
			return err
		},
		value: func(s *Snapshot) any { return *dst(s) },
	}
}

// fields lists the snapshot in read order.
var fields = []field{
	floatField("temperature_indoor", (*Device).TemperatureIndoor, func(s *Snapshot) *float64 { return &s.TemperatureIndoor }),
	floatField("temperature_outdoor", (*Device).TemperatureOutdoor, func(s *Snapshot) *float64 { return &s.TemperatureOutdoor }),
	floatField("dewpoint", (*Device).Dewpoint, func(s *Snapshot) *float64 { return &s.Dewpoint }),
	intField("humidity_indoor", (*Device).HumidityIndoor, func(s *Snapshot) *int { return &s.HumidityIndoor }),
	intField("humidity_outdoor", (*Device).HumidityOutdoor, func(s *Snapshot) *int { return &s.HumidityOutdoor }),
	floatField("wind_speed", (*Device).WindSpeed, func(s *Snapshot) *float64 { return &s.WindSpeed }),
	floatField("wind_dir", (*Device).WindDir, func(s *Snapshot) *float64 { return &s.WindDir }),
	stringField("wind_direction", (*Device).WindDirection, func(s *Snapshot) *string { return &s.WindDirection }),
	floatField("wind_chill", (*Device).WindChill, func(s *Snapshot) *float64 { return &s.WindChill }),
	floatField("rain_1h", (*Device).Rain1h, func(s *Snapshot) *float64 { return &s.Rain1h }),
	floatField("rain_24h", (*Device).Rain24h, func(s *Snapshot) *float64 { return &s.Rain24h }),
	floatField("rain_total", (*Device).RainTotal, func(s *Snapshot) *float64 { return &s.RainTotal }),
	floatField("pressure", (*Device).Pressure, func(s *Snapshot) *float64 { return &s.Pressure }),
	stringField("tendency", (*Device).Tendency, func(s *Snapshot) *string { return &s.Tendency }),
	stringField("forecast", (*Device).Forecast, func(s *Snapshot) *string { return &s.Forecast }),
}

var fieldsByName = func() map[string]field {
	m := make(map[string]field, len(fields))
	for _, f := range fields {
		m[f.name] = f
	}
	return m
}()

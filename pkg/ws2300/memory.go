package ws2300

// MemoryCell is a readable region of station memory: a nibble address and
// the number of bytes returned when it is read.
type MemoryCell struct {
	Address uint32
	Size    int
}

// MaxCellSize is the largest payload a single read request may ask for.
const MaxCellSize = 3

// MemoryMap locates every measurement the Device knows how to decode.
// The Tendency cell carries both the pressure tendency (high nibble) and
// the forecast (low nibble).
type MemoryMap struct {
	TemperatureIndoor  MemoryCell
	TemperatureOutdoor MemoryCell
	Dewpoint           MemoryCell
	HumidityIndoor     MemoryCell
	HumidityOutdoor    MemoryCell
	WindSpeed          MemoryCell
	WindDir            MemoryCell
	WindChill          MemoryCell
	Rain1h             MemoryCell
	Rain24h            MemoryCell
	RainTotal          MemoryCell
	Pressure           MemoryCell
	Tendency           MemoryCell
}

// DefaultMemoryMap is the WS2300 layout.
var DefaultMemoryMap = MemoryMap{
	TemperatureIndoor:  MemoryCell{Address: 0x346, Size: 2},
	TemperatureOutdoor: MemoryCell{Address: 0x373, Size: 2},
	Dewpoint:           MemoryCell{Address: 0x3CE, Size: 2},
	HumidityIndoor:     MemoryCell{Address: 0x3FB, Size: 1},
	HumidityOutdoor:    MemoryCell{Address: 0x419, Size: 1},
	WindSpeed:          MemoryCell{Address: 0x529, Size: 3},
	WindDir:            MemoryCell{Address: 0x52C, Size: 1},
	WindChill:          MemoryCell{Address: 0x3A0, Size: 2},
	Rain1h:             MemoryCell{Address: 0x4B4, Size: 3},
	Rain24h:            MemoryCell{Address: 0x497, Size: 3},
	RainTotal:          MemoryCell{Address: 0x4D2, Size: 3},
	Pressure:           MemoryCell{Address: 0x5E2, Size: 3},
	Tendency:           MemoryCell{Address: 0x26B, Size: 1},
}

// Cells returns every distinct cell in the map.
func (m MemoryMap) Cells() []MemoryCell {
	return []MemoryCell{
		m.TemperatureIndoor,
		m.TemperatureOutdoor,
		m.Dewpoint,
		m.HumidityIndoor,
		m.HumidityOutdoor,
		m.WindSpeed,
		m.WindDir,
		m.WindChill,
		m.Rain1h,
		m.Rain24h,
		m.RainTotal,
		m.Pressure,
		m.Tendency,
	}
}

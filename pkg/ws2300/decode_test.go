package ws2300

import (
	"errors"
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		x        float64
		n        int
		expected float64
	}{
		{100.0, 2, 100.00},
		{100.12345, 2, 100.12},
		{-100.12345, 2, -100.12},
		{100.12345, 5, 100.12345},
		{2.25, 1, 2.3},
		{-2.25, 1, -2.3},
		{0.04, 1, 0.0},
	}

	for _, tt := range tests {
		if got := Round(tt.x, tt.n); got != tt.expected {
			t.Errorf("Round(%v, %d) = %v, expected %v", tt.x, tt.n, got, tt.expected)
		}
	}
}

func TestDecodeFloat(t *testing.T) {
	tests := []struct {
		name     string
		decode   func([]byte) (float64, error)
		payload  []byte
		expected float64
	}{
		{"temperature zero", DecodeTemperature, []byte{0x00, 0x30}, 0.0},
		{"temperature positive", DecodeTemperature, []byte{0x50, 0x32}, 2.5},
		{"temperature negative", DecodeTemperature, []byte{0x50, 0x27}, -2.5},
		{"temperature rounds", DecodeTemperature, []byte{0x37, 0x52}, 22.4},
		{"wind speed", DecodeWindSpeed, []byte{0x2C, 0x01, 0x00}, 30.0},
		{"wind speed high nibble ignored", DecodeWindSpeed, []byte{0xFF, 0xF3, 0x00}, 102.3},
		{"wind dir east", DecodeWindDir, []byte{0x40}, 90.0},
		{"wind dir last point", DecodeWindDir, []byte{0xF0}, 337.5},
		{"rain", DecodeRain, []byte{0x12, 0x34, 0x00}, 34.1},
		{"rain thousands", DecodeRain, []byte{0x00, 0x00, 0x12}, 1200.0},
		{"pressure", DecodePressure, []byte{0x25, 0x01, 0x01}, 1012.5},
		{"pressure ignores high nibble of third byte", DecodePressure, []byte{0x00, 0x99, 0x90}, 990.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.decode(tt.payload)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("decode(% X) = %v, expected %v", tt.payload, got, tt.expected)
			}
		})
	}
}

func TestDecodeHumidity(t *testing.T) {
	got, err := DecodeHumidity([]byte{0x45})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 45 {
		t.Errorf("DecodeHumidity = %d, expected 45", got)
	}
}

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name     string
		decode   func([]byte) (string, error)
		payload  []byte
		expected string
		wantErr  bool
	}{
		{"compass east", DecodeWindDirection, []byte{0x40}, "E", false},
		{"compass north", DecodeWindDirection, []byte{0x0F}, "N", false},
		{"compass north north west", DecodeWindDirection, []byte{0xF0}, "NNW", false},
		{"tendency rising", DecodeTendency, []byte{0x12}, "Rising", false},
		{"forecast sunny", DecodeForecast, []byte{0x12}, "Sunny", false},
		{"tendency steady", DecodeTendency, []byte{0x01}, "Steady", false},
		{"forecast rainy", DecodeForecast, []byte{0x20}, "Rainy", false},
		{"tendency out of range", DecodeTendency, []byte{0x30}, "", true},
		{"forecast out of range", DecodeForecast, []byte{0x03}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.decode(tt.payload)
			if tt.wantErr {
				if !errors.Is(err, ErrDecode) {
					t.Fatalf("error = %v, expected ErrDecode", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("decode(% X) = %q, expected %q", tt.payload, got, tt.expected)
			}
		})
	}
}

func TestCompassOutOfRange(t *testing.T) {
	if _, err := lookup("wind direction", compassPoints, 16); !errors.Is(err, ErrDecode) {
		t.Errorf("lookup(16) error = %v, expected ErrDecode", err)
	}
}

func TestDecodeShortPayload(t *testing.T) {
	if _, err := DecodeRain([]byte{0x12}); !errors.Is(err, ErrDecode) {
		t.Errorf("DecodeRain short payload error = %v, expected ErrDecode", err)
	}
	if _, err := DecodeTemperature(nil); !errors.Is(err, ErrDecode) {
		t.Errorf("DecodeTemperature nil payload error = %v, expected ErrDecode", err)
	}
}

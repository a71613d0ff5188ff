package ws2300

import (
	"fmt"
	"math"
)

// Every payload byte holds two decimal digits, one per nibble. Nibbles
// above 9 are not rejected; the checksum has already vouched for the bytes.

var compassPoints = []string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

var tendencies = []string{"Steady", "Rising", "Falling"}

var forecasts = []string{"Rainy", "Cloudy", "Sunny"}

func hi(b byte) int { return int(b >> 4) }
func lo(b byte) int { return int(b & 0x0F) }

// Round rounds x to n decimal places. The integer part is kept as is and
// only the signed fractional part is rounded, half away from zero.
func Round(x float64, n int) float64 {
	factor := math.Pow(10, float64(n))
	whole, fract := math.Modf(x)
	return (whole*factor + math.Round(fract*factor)) / factor
}

func checkLength(payload []byte, want int) error {
	if len(payload) < want {
		return fmt.Errorf("%w: need %d bytes, got %d", ErrDecode, want, len(payload))
	}
	return nil
}

// DecodeTemperature decodes a two-byte temperature in °C. The station
// stores it with a +30 offset in hundredths.
func DecodeTemperature(payload []byte) (float64, error) {
	if err := checkLength(payload, 2); err != nil {
		return 0, err
	}
	hundredths := 1000*hi(payload[1]) + 100*lo(payload[1]) + 10*hi(payload[0]) + lo(payload[0]) - 3000
	return Round(float64(hundredths)/100, 1), nil
}

// DecodeHumidity decodes a one-byte relative humidity in percent.
func DecodeHumidity(payload []byte) (int, error) {
	if err := checkLength(payload, 1); err != nil {
		return 0, err
	}
	return 10*hi(payload[0]) + lo(payload[0]), nil
}

// DecodeWindSpeed decodes wind speed in m/s. The low nibble of the second
// byte supplies the top four bits of a 12-bit count of tenths.
func DecodeWindSpeed(payload []byte) (float64, error) {
	if err := checkLength(payload, 2); err != nil {
		return 0, err
	}
	tenths := lo(payload[1])<<8 | int(payload[0])
	return float64(tenths) / 10, nil
}

// DecodeWindDir decodes the wind direction in degrees.
func DecodeWindDir(payload []byte) (float64, error) {
	if err := checkLength(payload, 1); err != nil {
		return 0, err
	}
	return Round(float64(hi(payload[0]))*22.5, 1), nil
}

// DecodeWindDirection decodes the wind direction as a compass point.
func DecodeWindDirection(payload []byte) (string, error) {
	if err := checkLength(payload, 1); err != nil {
		return "", err
	}
	return lookup("wind direction", compassPoints, hi(payload[0]))
}

// DecodeRain decodes a three-byte rain accumulator in mm.
func DecodeRain(payload []byte) (float64, error) {
	if err := checkLength(payload, 3); err != nil {
		return 0, err
	}
	hundredths := 10*hi(payload[0]) + lo(payload[0]) +
		1000*hi(payload[1]) + 100*lo(payload[1]) +
		100000*hi(payload[2]) + 10000*lo(payload[2])
	return Round(float64(hundredths)/100, 1), nil
}

// DecodePressure decodes the relative air pressure in hPa.
func DecodePressure(payload []byte) (float64, error) {
	if err := checkLength(payload, 3); err != nil {
		return 0, err
	}
	tenths := 10*hi(payload[0]) + lo(payload[0]) +
		1000*hi(payload[1]) + 100*lo(payload[1]) +
		10000*lo(payload[2])
	return Round(float64(tenths)/10, 1), nil
}

// DecodeTendency decodes the pressure tendency from the high nibble of the
// shared tendency/forecast cell.
func DecodeTendency(payload []byte) (string, error) {
	if err := checkLength(payload, 1); err != nil {
		return "", err
	}
	return lookup("tendency", tendencies, hi(payload[0]))
}

// DecodeForecast decodes the forecast from the low nibble of the shared
// tendency/forecast cell.
func DecodeForecast(payload []byte) (string, error) {
	if err := checkLength(payload, 1); err != nil {
		return "", err
	}
	return lookup("forecast", forecasts, lo(payload[0]))
}

func lookup(what string, table []string, index int) (string, error) {
	if index < 0 || index >= len(table) {
		return "", fmt.Errorf("%w: %s index %d out of range", ErrDecode, what, index)
	}
	return table[index], nil
}

package ads1256

import "fmt"

// Convert24To32 interprets a 3-byte, 24-bit signed value
// in two's complement form, MSB first, as a 32-bit int.
func Convert24To32(data []byte) int32 {
	// data[0] is MSB. If top bit set => negative
	var u32 uint32
	u32 |= uint32(data[0]) << 16
	u32 |= uint32(data[1]) << 8
	u32 |= uint32(data[2])

	// sign extension
	if (u32 & 0x800000) != 0 {
		u32 |= 0xFF000000
	}
	return int32(u32)
}

// ConvertADCtoVolts converts the signed 24-bit code to a voltage.
// full-scale range = ±2 * Vref / PGA. For a code of 0x7FFFFF => +FS.
func ConvertADCtoVolts(code int32, vRef float64, pga int) float64 {
	fullScale := (2.0 * vRef) / float64(pga)
	return (float64(code) / FullScaleCode) * fullScale
}

// GainMultiplier returns the PGA multiplier for code, 2^code.
func GainMultiplier(code Gain) int {
	return 1 << code
}

// GainFor returns the PGA code for a multiplier of 1, 2, 4 ... 64.
func GainFor(multiplier int) (Gain, error) {
	for code := Gain1; code <= MaxGain; code++ {
		if GainMultiplier(code) == multiplier {
			return code, nil
		}
	}
	return 0, fmt.Errorf("%w: multiplier %d", ErrInvalidGain, multiplier)
}

package ads1256

import (
	"errors"
	"math"
	"testing"
)

func TestConvert24To32(t *testing.T) {
	t.Run("PositiveValue", func(t *testing.T) {
		data := []byte{0x7F, 0xFF, 0xFF}
		result := Convert24To32(data)
		if result != int32(8388607) {
			t.Errorf("expected 8388607, got %d", result)
		}
	})

	t.Run("NegativeValue", func(t *testing.T) {
		data := []byte{0x80, 0x00, 0x00}
		result := Convert24To32(data)
		if result != int32(-8388608) {
			t.Errorf("expected -8388608, got %d", result)
		}
	})

	t.Run("MinusOne", func(t *testing.T) {
		data := []byte{0xFF, 0xFF, 0xFF}
		result := Convert24To32(data)
		if result != int32(-1) {
			t.Errorf("expected -1, got %d", result)
		}
	})

	t.Run("ZeroValue", func(t *testing.T) {
		data := []byte{0x00, 0x00, 0x00}
		result := Convert24To32(data)
		if result != int32(0) {
			t.Errorf("expected 0, got %d", result)
		}
	})

	t.Run("AllPatterns", func(t *testing.T) {
		// every 4096th pattern plus the boundaries around the sign bit
		check := func(u uint32) {
			data := []byte{byte(u >> 16), byte(u >> 8), byte(u)}
			want := int32(u)
			if u&0x800000 != 0 {
				want = int32(u) - 0x1000000
			}
			if got := Convert24To32(data); got != want {
				t.Fatalf("0x%06X: expected %d, got %d", u, want, got)
			}
		}
		for u := uint32(0); u <= 0xFFFFFF; u += 0x1000 {
			check(u)
		}
		for _, u := range []uint32{0x7FFFFE, 0x7FFFFF, 0x800000, 0x800001, 0xFFFFFE, 0xFFFFFF} {
			check(u)
		}
	})
}

func TestConvertADCtoVolts(t *testing.T) {
	t.Run("MaxPositiveCode", func(t *testing.T) {
		result := ConvertADCtoVolts(8388607, 2.5, 1)
		if result != 5.0 {
			t.Errorf("expected 5.0, got %f", result)
		}
	})

	t.Run("MaxNegativeCode", func(t *testing.T) {
		code := int32(-8388608)
		expected := -5.0
		result := ConvertADCtoVolts(code, 2.5, 1)
		// tolerance allowed to account for lack of floating point precision.
		if result < (expected-0.000001) || result > (expected+0.000001) {
			t.Errorf("expected -5.0, got %f", result)
		}
	})

	t.Run("ZeroCode", func(t *testing.T) {
		result := ConvertADCtoVolts(0, 2.5, 1)
		if result != 0.0 {
			t.Errorf("expected 0.0, got %f", result)
		}
	})

	t.Run("NonZeroCode", func(t *testing.T) {
		code := int32(0x400000)
		expected := 2.5
		result := ConvertADCtoVolts(code, 2.5, 1)
		// tolerance allowed to account for lack of floating point precision.
		if result > (expected+0.000001) || result < (expected-0.000001) {
			t.Errorf("expected 2.5, got %f", result)
		}
	})

	t.Run("QuarterScale", func(t *testing.T) {
		result := ConvertADCtoVolts(0x200000, 2.5, 1)
		if math.Abs(result-1.25) > 0.000001 {
			t.Errorf("expected 1.25, got %f", result)
		}
	})

	t.Run("Linear", func(t *testing.T) {
		for pga := 1; pga <= 64; pga <<= 1 {
			base := ConvertADCtoVolts(1000, 2.5, pga)
			for _, k := range []int32{-4000, -3, 2, 7, 8000} {
				got := ConvertADCtoVolts(1000*k, 2.5, pga)
				if math.Abs(got-base*float64(k)) > 1e-9 {
					t.Errorf("pga %d, k %d: expected %g, got %g", pga, k, base*float64(k), got)
				}
			}
		}
	})
}

func TestGainMultiplier(t *testing.T) {
	for code := Gain1; code <= MaxGain; code++ {
		want := int(math.Pow(2, float64(code)))
		if got := GainMultiplier(code); got != want {
			t.Errorf("gain code %d: expected %d, got %d", code, want, got)
		}
	}
}

func TestMuxByte(t *testing.T) {
	t.Run("SingleEndedMatchesAINCOM", func(t *testing.T) {
		for ch := CH_AIN0; ch <= CH_AIN7; ch++ {
			a, err := SubstituteCommon.MuxByte(ch, CH_AINCOM)
			if err != nil {
				t.Fatal(err)
			}
			if a != byte(ch)<<4|MuxAINCOM {
				t.Errorf("%s: unexpected mux byte %08b", ch, a)
			}
		}
	})

	t.Run("OutOfRangeNegativeIsAINCOM", func(t *testing.T) {
		for _, neg := range []Channel{-1, -100, 8, 9, 15, 255} {
			b, err := SubstituteCommon.MuxByte(CH_AIN5, neg)
			if err != nil {
				t.Fatalf("%d: %v", neg, err)
			}
			if b&0x0F != MuxAINCOM {
				t.Errorf("negative %d: expected AINCOM nibble, got %04b", neg, b&0x0F)
			}
		}
	})

	t.Run("OutOfRangePositiveIsAINCOM", func(t *testing.T) {
		b, err := SubstituteCommon.MuxByte(42, CH_AIN3)
		if err != nil {
			t.Fatal(err)
		}
		if b != 0x83 {
			t.Errorf("expected 0x83, got 0x%02X", b)
		}
	})

	t.Run("RejectInvalid", func(t *testing.T) {
		if _, err := RejectInvalid.MuxByte(CH_AIN0, -1); err == nil {
			t.Error("expected error")
		}
		if _, err := RejectInvalid.MuxByte(9, CH_AINCOM); err == nil {
			t.Error("expected error")
		}
		b, err := RejectInvalid.MuxByte(CH_AIN2, CH_AINCOM)
		if err != nil {
			t.Fatal(err)
		}
		if b != 0x28 {
			t.Errorf("expected 0x28, got 0x%02X", b)
		}
	})
}

func TestGainFor(t *testing.T) {
	for code := Gain1; code <= MaxGain; code++ {
		got, err := GainFor(GainMultiplier(code))
		if err != nil || got != code {
			t.Errorf("multiplier %d: expected %d, got %d (%v)", GainMultiplier(code), code, got, err)
		}
	}
	for _, bad := range []int{0, 3, 128, -1} {
		if _, err := GainFor(bad); !errors.Is(err, ErrInvalidGain) {
			t.Errorf("multiplier %d: expected ErrInvalidGain, got %v", bad, err)
		}
	}
}

func TestDataRateFor(t *testing.T) {
	for code, sps := range dataRateSPS {
		got, ok := DataRateFor(sps)
		if !ok || got != code {
			t.Errorf("%g SPS: expected 0x%02X, got 0x%02X", sps, byte(code), byte(got))
		}
	}
	if _, ok := DataRateFor(42); ok {
		t.Error("expected no code for 42 SPS")
	}
}

package ft232h

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/l0nax/go-spew/spew"
	"github.com/yunginnanet/ft232h"

	"github.com/yunginnanet/ads1256/pkg/ads1256"
)

var pprint = spew.ConfigState{
	Indent:                  "\t",
	MaxDepth:                0,
	DisableMethods:          false,
	DisablePointerMethods:   false,
	DisablePointerAddresses: false,
	DisableCapacities:       false,
	ContinueOnMethod:        true,
	SortKeys:                true,
	SpewKeys:                true,
	HighlightValues:         true,
	HighlightHex:            true,
}

func TestFT232HDescriptor(t *testing.T) {
	t.Run("ByIndex", func(t *testing.T) {
		desc := ByIndex(0)
		if err := desc.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		t.Run("Invalid", func(t *testing.T) {
			desc = ByIndex(-1)
			if err := desc.Validate(); !errors.Is(err, ErrBadDescriptor) {
				t.Errorf("expected ErrBadDescriptor, got %v", err)
			}
		})
	})
	t.Run("BySerial", func(t *testing.T) {
		desc := BySerial("123456")
		if err := desc.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		t.Run("Invalid", func(t *testing.T) {
			desc = BySerial("")
			if err := desc.Validate(); err == nil {
				t.Error("expected error")
			}
		})
	})
	t.Run("ByMask", func(t *testing.T) {
		mask := new(ft232h.Mask)
		mask.Index = "0"
		desc := ByMask(mask)
		if err := desc.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		t.Run("Invalid", func(t *testing.T) {
			desc = ByMask(nil)
			if err := desc.Validate(); err == nil {
				t.Error("expected error")
			}
			desc = ByMask(new(ft232h.Mask))
			if err := desc.Validate(); err == nil {
				t.Error("expected error for empty mask")
			}
		})
	})
	t.Run("Mask", func(t *testing.T) {
		if ByIndex(5).Mask().Index != "5" {
			t.Error("unexpected mask index")
		}
		if BySerial("5").Mask().Serial != "5" {
			t.Error("unexpected mask serial")
		}
		if BySerial("5").Mask().Index != "" {
			t.Error("serial descriptor should not pin an index")
		}
	})
	t.Run("MaskCopied", func(t *testing.T) {
		orig := &ft232h.Mask{Desc: "Single RS232-HS"}
		desc := ByMask(orig)
		desc.Serial = "FT1234"
		m := desc.Mask()
		if m.Serial != "FT1234" || m.Desc != "Single RS232-HS" {
			t.Errorf("unexpected mask: %+v", m)
		}
		if orig.Serial != "" {
			t.Error("caller's mask was modified")
		}
	})
}

func TestValidateBusConfig(t *testing.T) {
	if err := validateBusConfig(ads1256.DefaultBusConfig()); err != nil {
		t.Errorf("default config rejected: %v", err)
	}
	for name, cfg := range map[string]ads1256.BusConfig{
		"LSBFirst": {Clock: ads1256.DefaultClock, Order: ads1256.LSBFirst, Mode: ads1256.Mode1},
		"NoClock":  {Clock: 0, Mode: ads1256.Mode1},
		"TooFast":  {Clock: MaxClock + 1, Mode: ads1256.Mode1},
		"BadMode":  {Clock: ads1256.DefaultClock, Mode: 4},
	} {
		t.Run(name, func(t *testing.T) {
			if err := validateBusConfig(cfg); !errors.Is(err, ErrUnsupportedBC) {
				t.Errorf("expected ErrUnsupportedBC, got %v", err)
			}
		})
	}
}

func TestHex16(t *testing.T) {
	if got := hex16(0x0403); got != "0403" {
		t.Errorf("expected 0403, got %s", got)
	}
	if got := hex16(0x6014); got != "6014" {
		t.Errorf("expected 6014, got %s", got)
	}
}

func testConnect(t *testing.T, desc *Descriptor, validMask bool) DeviceInfo {
	t.Helper()

	var (
		ftdi *FT232H
		err  error
	)

	if validMask {
		if desc == nil {
			t.Fatalf("descriptor is nil")
		}
		if err = desc.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if desc == nil {
		ftdi, err = ConnectFT232h()
	} else {
		ftdi, err = ConnectFT232h(*desc)
	}

	if err != nil {
		t.Fatalf("failed to connect to FT232H: %v", err)
	}

	info := ftdi.Info()
	t.Logf("Connected to FT232H: %s", pprint.Sdump(info))

	if err = ftdi.Close(); err != nil {
		t.Errorf("failed to close FT232H: %v", err)
	}

	return info
}

func TestConnectFT232h(t *testing.T) {
	if os.Getenv("TEST_FT232H") == "" {
		t.Skip("set 'TEST_FT232H' in environment to run this test")
	}

	testInfo := testConnect(t, nil, false)

	t.Run("ByIndex", func(t *testing.T) {
		desc := ByIndex(0)
		if os.Getenv("TEST_FT232H_INDEX") != "" {
			idx, err := strconv.Atoi(strings.TrimSpace(os.Getenv("TEST_FT232H_INDEX")))
			if err != nil {
				t.Fatalf(
					"bad 'TEST_FT232H_INDEX' environment variable: %v\nvalue: %s",
					err, os.Getenv("TEST_FT232H_INDEX"),
				)
			}
			desc = ByIndex(idx)
		}

		_ = testConnect(t, &desc, true)
	})

	t.Run("BySerial", func(t *testing.T) {
		serial := strings.TrimSpace(os.Getenv("TEST_FT232H_SERIAL"))
		if serial == "" {
			serial = testInfo.Serial
		}
		if serial == "" {
			t.Skip("no serial number provided, try setting 'TEST_FT232H_SERIAL' in environment")
		}

		desc := BySerial(serial)
		_ = testConnect(t, &desc, true)
	})
}

// TestADS1256 talks to a real chip wired as DRDY=C0, CS=C4, PWDN=C6.
func TestADS1256(t *testing.T) {
	if os.Getenv("TEST_FT232H_ADS1256") == "" {
		t.Skip("set 'TEST_FT232H_ADS1256' in environment to run this test")
	}

	ftdi, err := ConnectFT232h()
	if err != nil {
		t.Fatalf("failed to connect to FT232H: %v", err)
	}

	pins := ads1256.Pins{CS: 0x10, DRDY: 0x01, PWDN: 0x40}
	adc, err := ads1256.NewADS1256(ftdi, ftdi, pins)
	if err != nil {
		t.Fatalf("failed to set up ADS1256: %v", err)
	}
	defer func() {
		if err := adc.Close(); err != nil {
			t.Errorf("failed to close: %v", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err = adc.Begin(ctx, ads1256.DefaultConfig()); err != nil {
		t.Fatalf("failed to initialize ADS1256: %v", err)
	}

	status, err := adc.GetStatus(ctx)
	if err != nil {
		t.Fatalf("failed to read status: %v", err)
	}
	if status>>4 != 3 {
		t.Errorf("unexpected chip ID in STATUS 0x%02X", status)
	}

	regs, err := adc.ReadAllRegisters()
	if err != nil {
		t.Fatalf("failed to read registers: %v", err)
	}
	t.Log(pprint.Sdump(regs))

	for ch := ads1256.CH_AIN0; ch <= ads1256.CH_AIN7; ch++ {
		v, err := adc.ReadChannel(ctx, ch, ads1256.CH_AINCOM)
		if err != nil {
			t.Fatalf("%s: %v", ch, err)
		}
		t.Logf("%s: %.6f V", ch, v)
	}
}

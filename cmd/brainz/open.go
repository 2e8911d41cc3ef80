package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/warthog618/config"
	"github.com/warthog618/go-gpiocdev/device/rpi"

	"github.com/yunginnanet/ads1256/pkg/ads1256"
	"github.com/yunginnanet/ads1256/pkg/adssim"
	"github.com/yunginnanet/ads1256/pkg/ft232h"
	"github.com/yunginnanet/ads1256/pkg/spidev"
)

// Default wiring per transport. FT232H pins are C bus masks, spidev pins are
// BCM line offsets of the Waveshare High-Precision AD/DA board.
var (
	ft232hPins = ads1256.Pins{CS: 0x10, DRDY: 0x01, PWDN: 0x40}
	spidevPins = ads1256.Pins{
		CS:       rpi.GPIO22,
		DRDY:     rpi.GPIO17,
		PWDN:     rpi.GPIO27,
		Reset:    rpi.GPIO18,
		UseReset: true,
	}
)

func pinsFrom(cfg *config.Config, def ads1256.Pins) ads1256.Pins {
	p := def
	for key, dst := range map[string]*ads1256.Pin{
		"cs":    &p.CS,
		"drdy":  &p.DRDY,
		"pwdn":  &p.PWDN,
		"reset": &p.Reset,
	} {
		if v := cfg.MustGet(key).Int(); v >= 0 {
			*dst = ads1256.Pin(v)
		}
	}
	if cfg.MustGet("usereset").Bool() {
		p.UseReset = true
	}
	return p
}

// simulatedChip is wired with a ramp across the inputs so scans show
// something.
func simulatedChip(pins ads1256.Pins, vref float64) *adssim.Chip {
	chip := adssim.New(adssim.WithPins(pins), adssim.WithVRef(vref))
	for ch := ads1256.CH_AIN0; ch <= ads1256.CH_AIN7; ch++ {
		chip.SetInput(ch, 0.5*float64(ch)-1.5)
	}
	return chip
}

func openTransport(cfg *config.Config) (ads1256.Bus, ads1256.DigitalIO, ads1256.Pins, error) {
	switch bus := cfg.MustGet("bus").String(); bus {
	case "sim":
		pins := pinsFrom(cfg, adssim.DefaultPins)
		chip := simulatedChip(pins, cfg.MustGet("vref").Float())
		return chip, chip, pins, nil

	case "ft232h":
		var desc []ft232h.Descriptor
		if serial := cfg.MustGet("ftserial").String(); serial != "" {
			desc = append(desc, ft232h.BySerial(serial))
		} else {
			desc = append(desc, ft232h.ByIndex(cfg.MustGet("ftindex").Int()))
		}
		ft, err := ft232h.Connect(desc, []ft232h.Option{
			ft232h.WithLogger(log.With().Str("caller", "ft232h").Logger()),
		})
		if err != nil {
			return nil, nil, ads1256.Pins{}, err
		}
		log.Info().Any("info", ft.Info()).Msgf("connected to FT232H: %s", ft)
		return ft, ft, pinsFrom(cfg, ft232hPins), nil

	case "spidev":
		b, g, err := spidev.Open(
			cfg.MustGet("port").String(),
			cfg.MustGet("chip").String(),
			spidev.WithLogger(log.With().Str("caller", "spidev").Logger()),
		)
		if err != nil {
			return nil, nil, ads1256.Pins{}, err
		}
		return b, g, pinsFrom(cfg, spidevPins), nil

	default:
		return nil, nil, ads1256.Pins{}, fmt.Errorf("unknown bus %q", bus)
	}
}

// openADC connects the configured transport and initializes the chip.
func openADC(ctx context.Context, cfg *config.Config) (*ads1256.ADS1256, error) {
	sps := cfg.MustGet("drate").Float()
	rate, ok := ads1256.DataRateFor(sps)
	if !ok {
		return nil, fmt.Errorf("unsupported data rate %g SPS", sps)
	}
	gain, err := ads1256.GainFor(cfg.MustGet("gain").Int())
	if err != nil {
		return nil, err
	}

	bus, dio, pins, err := openTransport(cfg)
	if err != nil {
		return nil, err
	}

	adc, err := ads1256.NewADS1256(bus, dio, pins,
		ads1256.WithVRef(cfg.MustGet("vref").Float()),
		ads1256.WithClock(uint32(cfg.MustGet("clock").Int())),
		ads1256.WithDRDYTimeout(cfg.MustGet("timeout").Duration()),
		ads1256.WithLogger(log.With().Str("caller", "ads1256").Logger()),
	)
	if err != nil {
		return nil, err
	}
	adc.SetConversionFactor(cfg.MustGet("factor").Float())

	if pins.UseReset {
		if err = adc.HardwareReset(ctx); err != nil {
			return nil, errors.Join(err, adc.Close())
		}
	}

	adcCfg := ads1256.Config{
		DataRate:     rate,
		Gain:         gain,
		BufferEnable: cfg.MustGet("buffer").Bool(),
	}
	log.Debug().Any("config", adcCfg).Stringer("adc", adc).Msg("initializing ADS1256")
	if err = adc.Begin(ctx, adcCfg); err != nil {
		return nil, errors.Join(fmt.Errorf("failed to initialize ADS1256: %w", err), adc.Close())
	}
	log.Info().Float64("sps", sps).Int("pga", adc.GainMultiplier()).Msg("initialized ADS1256")

	return adc, nil
}

func closeADC(adc *ads1256.ADS1256) {
	if err := adc.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close ADS1256")
		return
	}
	log.Debug().Msg("closed ADS1256")
}

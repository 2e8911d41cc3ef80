// Package ads1256 drives a TI ADS1256 24-bit delta-sigma ADC over SPI.
//
// Datasheet: https://www.ti.com/lit/ds/symlink/ads1256.pdf
package ads1256

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Register byte

func (r Register) String() string {
	switch r {
	case RegSTATUS:
		return "STATUS"
	case RegMUX:
		return "MUX"
	case RegADCON:
		return "ADCON"
	case RegDRATE:
		return "DRATE"
	case RegIO:
		return "IO"
	case RegOFC0, RegOFC1, RegOFC2:
		return fmt.Sprintf("OFC%d", r-RegOFC0)
	case RegFSC0, RegFSC1, RegFSC2:
		return fmt.Sprintf("FSC%d", r-RegFSC0)
	default:
		return fmt.Sprintf("REG(0x%02X)", byte(r))
	}
}

const (
	// DefaultVRef is the reference voltage of the common ADS1256 boards.
	DefaultVRef = 2.5
	// DefaultDRDYTimeout comfortably covers a self-calibration at 2.5 SPS.
	DefaultDRDYTimeout = 3 * time.Second
	// DefaultPollInterval is the DRDY sampling period when spinning.
	DefaultPollInterval = 100 * time.Microsecond
)

// ADS1256 provides high-level control over a TI ADS1256 ADC.
//
// The driver owns one chip on one bus attachment. Every exported method
// takes the driver lock, so calls from several goroutines are serialized
// and never interleave on the wire.
type ADS1256 struct {
	mu  sync.RWMutex // Synchronize concurrent operations
	bus Bus
	io  DigitalIO

	pins   Pins
	busCfg BusConfig

	vref     float64
	gainCode Gain
	pga      int
	factor   float64
	policy   ChannelPolicy

	drdyTimeout  time.Duration
	pollInterval time.Duration

	log zerolog.Logger

	// Last read or written register states (for reference or debugging)
	regLR [NumRegisters]byte // "Last Read"  register data
	regLW [NumRegisters]byte // "Last Write" register data

	// drivers.Sensor state
	lastCode       int32
	lastMicrovolts int32

	closed bool
}

// Config represents the parameters of Begin.
type Config struct {
	DataRate     DataRate // DRATE register code
	Gain         Gain     // PGA code, 0..6
	BufferEnable bool     // Enable the ADC's input buffer
}

// DefaultConfig provides default config. You can adjust as needed
func DefaultConfig() Config {
	return Config{
		DataRate:     DataRate1000, // 1k SPS
		Gain:         Gain1,        // gain = 1
		BufferEnable: false,
	}
}

// NewADS1256 constructs an ADS1256 on the given bus and control lines.
//
// DRDY is configured as an input, CS, PWDN and (if used) RESET as outputs
// driven high: deselected, powered up and out of reset.
func NewADS1256(bus Bus, dio DigitalIO, pins Pins, opts ...Option) (*ADS1256, error) {
	adc := &ADS1256{
		bus:          bus,
		io:           dio,
		pins:         pins,
		busCfg:       DefaultBusConfig(),
		vref:         DefaultVRef,
		gainCode:     Gain1,
		pga:          1,
		factor:       1.0,
		policy:       SubstituteCommon,
		drdyTimeout:  DefaultDRDYTimeout,
		pollInterval: DefaultPollInterval,
		log:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(adc)
	}

	if err := adc.io.SetDirection(pins.DRDY, Input); err != nil {
		return nil, &BusError{Op: "configure drdy", Err: err}
	}

	outputs := []Pin{pins.CS, pins.PWDN}
	if pins.UseReset {
		outputs = append(outputs, pins.Reset)
	}
	for _, p := range outputs {
		if err := adc.io.SetDirection(p, Output); err != nil {
			return nil, &BusError{Op: fmt.Sprintf("configure pin %d", p), Err: err}
		}
		if err := adc.io.Write(p, High); err != nil {
			return nil, &BusError{Op: fmt.Sprintf("drive pin %d", p), Err: err}
		}
	}

	adc.log.Debug().Stringer("adc", adc).Msg("configured control lines")

	return adc, nil
}

// Begin initializes the chip: stops continuous read mode, programs the data
// rate and PGA gain (other ADCON bits are preserved), optionally enables the
// input buffer, then self-calibrates and waits for it to settle.
func (adc *ADS1256) Begin(ctx context.Context, cfg Config) error {
	if cfg.Gain > MaxGain {
		return fmt.Errorf("%w: %d", ErrInvalidGain, cfg.Gain)
	}

	adc.mu.Lock()
	defer adc.mu.Unlock()

	pga := GainMultiplier(cfg.Gain)

	adc.log.Debug().
		Uint8("drate", byte(cfg.DataRate)).
		Int("pga", pga).
		Bool("buffer", cfg.BufferEnable).
		Msg("initializing ADS1256")

	if err := adc.sendCommand(ctx, CMDSDATAC); err != nil {
		return err
	}

	if err := adc.writeRegister(RegDRATE, byte(cfg.DataRate)); err != nil {
		return err
	}

	adcon, err := adc.readRegister(RegADCON)
	if err != nil {
		return err
	}
	if err = adc.writeRegister(RegADCON, (adcon&^AdconPGAMask)|byte(cfg.Gain)); err != nil {
		return err
	}
	// the chip's PGA now matches, conversions may use it
	adc.gainCode, adc.pga = cfg.Gain, pga

	if cfg.BufferEnable {
		status, err := adc.readRegister(RegSTATUS)
		if err != nil {
			return err
		}
		if err = adc.writeRegister(RegSTATUS, status|StatusBUFENbit); err != nil {
			return err
		}
	}

	if err = adc.sendCommand(ctx, CMDSELFCAL); err != nil {
		return err
	}

	// settle after self calibration
	return adc.waitDRDY(ctx)
}

// BeginDefault stops continuous read mode and self-calibrates with whatever
// data rate and gain are resident on the chip. It programs nothing and
// leaves the driver's gain multiplier untouched, so voltages are only right
// if the resident PGA setting matches it. Use Begin when that matters.
func (adc *ADS1256) BeginDefault(ctx context.Context) error {
	adc.mu.Lock()
	defer adc.mu.Unlock()

	if err := adc.sendCommand(ctx, CMDSDATAC); err != nil {
		return err
	}
	if _, err := adc.readRegister(RegSTATUS); err != nil {
		return err
	}
	if err := adc.sendCommand(ctx, CMDSELFCAL); err != nil {
		return err
	}
	return adc.waitDRDY(ctx)
}

// Close puts the chip in power-down and releases the transport if it
// implements io.Closer.
func (adc *ADS1256) Close() error {
	adc.mu.Lock()
	defer adc.mu.Unlock()

	if adc.closed {
		return ErrClosed
	}

	err := adc.powerDown()
	adc.closed = true

	if c, ok := adc.bus.(io.Closer); ok {
		err = errors.Join(err, c.Close())
	}
	if c, ok := adc.io.(io.Closer); ok && any(adc.io) != any(adc.bus) {
		err = errors.Join(err, c.Close())
	}
	return err
}

// PowerDown pulls the PWDN pin low.
// Holding SYNC/PDWN low for 20 DRDY cycles also powers down the chip.
func (adc *ADS1256) PowerDown() error {
	adc.mu.Lock()
	defer adc.mu.Unlock()
	return adc.powerDown()
}

func (adc *ADS1256) powerDown() error {
	if adc.closed {
		return ErrClosed
	}
	if err := adc.io.Write(adc.pins.PWDN, Low); err != nil {
		return &BusError{Op: "power down", Err: err}
	}
	return nil
}

// PowerUp pulls the PWDN pin high.
func (adc *ADS1256) PowerUp() error {
	adc.mu.Lock()
	defer adc.mu.Unlock()
	if adc.closed {
		return ErrClosed
	}
	if err := adc.io.Write(adc.pins.PWDN, High); err != nil {
		return &BusError{Op: "power up", Err: err}
	}
	return nil
}

// HardwareReset pulses the RESET line and waits for the chip to come back.
// It is a no-op if the RESET line is not wired.
func (adc *ADS1256) HardwareReset(ctx context.Context) error {
	adc.mu.Lock()
	defer adc.mu.Unlock()

	if !adc.pins.UseReset {
		return nil
	}
	if adc.closed {
		return ErrClosed
	}
	if err := adc.io.Write(adc.pins.Reset, Low); err != nil {
		return &BusError{Op: "assert reset", Err: err}
	}
	// RESET low for at least 4 tCLKIN
	delay(T11)
	if err := adc.io.Write(adc.pins.Reset, High); err != nil {
		return &BusError{Op: "release reset", Err: err}
	}
	adc.gainCode, adc.pga = Gain1, 1
	return adc.waitDRDY(ctx)
}

// Gain returns the PGA code most recently programmed by Begin.
func (adc *ADS1256) Gain() Gain {
	adc.mu.RLock()
	defer adc.mu.RUnlock()
	return adc.gainCode
}

// GainMultiplier returns the PGA multiplier used for conversions.
func (adc *ADS1256) GainMultiplier() int {
	adc.mu.RLock()
	defer adc.mu.RUnlock()
	return adc.pga
}

// VRef returns the reference voltage.
func (adc *ADS1256) VRef() float64 {
	adc.mu.RLock()
	defer adc.mu.RUnlock()
	return adc.vref
}

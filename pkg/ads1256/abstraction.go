package ads1256

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tinygo.org/x/drivers"
)

// BitOrder selects which end of a byte is shifted first.
type BitOrder uint8

const (
	MSBFirst BitOrder = iota
	LSBFirst
)

// Mode is the SPI clock polarity/phase mode.
type Mode uint8

const (
	Mode0 Mode = iota // CPOL=0, CPHA=0
	Mode1             // CPOL=0, CPHA=1
	Mode2             // CPOL=1, CPHA=0
	Mode3             // CPOL=1, CPHA=1
)

// DefaultClock is the SCLK rate used unless configured otherwise. The
// device tolerates up to fCLKIN/4.
const DefaultClock = 1700000

// BusConfig is applied by the Bus at the start of every transaction.
type BusConfig struct {
	Clock uint32
	Order BitOrder
	Mode  Mode
}

// DefaultBusConfig returns the ADS1256 wire settings: MSB first, data
// captured on the trailing edge with an idle-low clock.
func DefaultBusConfig() BusConfig {
	return BusConfig{
		Clock: DefaultClock,
		Order: MSBFirst,
		Mode:  Mode1,
	}
}

// Bus is the synchronous serial transport. Begin and End bracket every
// exchange; implementations apply cfg in Begin and may use the pair to
// enforce exclusivity. Chip-select is not the Bus's business, the driver
// drives it through DigitalIO.
type Bus interface {
	drivers.SPI

	Begin(cfg BusConfig) error
	End() error
}

// Pin identifies a discrete control line on the DigitalIO.
type Pin uint

// Direction of a control line.
type Direction uint8

const (
	Input Direction = iota
	Output
)

// Level of a control line.
type Level bool

const (
	Low  Level = false
	High Level = true
)

func (l Level) String() string {
	if l {
		return "high"
	}
	return "low"
}

// DigitalIO drives and samples discrete lines.
type DigitalIO interface {
	SetDirection(pin Pin, dir Direction) error
	Write(pin Pin, level Level) error
	Read(pin Pin) (Level, error)
}

// EdgeWaiter is optionally implemented by a DigitalIO that can block until a
// line reads low without spinning, e.g. on an edge event.
type EdgeWaiter interface {
	WaitLow(ctx context.Context, pin Pin) error
}

// Pins assigns the control lines of one chip.
type Pins struct {
	CS       Pin
	DRDY     Pin
	PWDN     Pin
	Reset    Pin
	UseReset bool
}

func (adc *ADS1256) setCSLow() error {
	if err := adc.io.Write(adc.pins.CS, Low); err != nil {
		return &BusError{Op: "assert cs", Err: err}
	}
	return nil
}

func (adc *ADS1256) setCSHigh() error {
	if err := adc.io.Write(adc.pins.CS, High); err != nil {
		return &BusError{Op: "release cs", Err: err}
	}
	return nil
}

// transaction brackets fn with Begin / CS low ... CS high / End. CS release
// and End always run, their errors are joined with fn's.
func (adc *ADS1256) transaction(fn func() error) error {
	if err := adc.bus.Begin(adc.busCfg); err != nil {
		return &BusError{Op: "begin", Err: err}
	}
	if err := adc.setCSLow(); err != nil {
		return errors.Join(err, adc.end())
	}
	err := fn()
	return errors.Join(err, adc.setCSHigh(), adc.end())
}

func (adc *ADS1256) end() error {
	if err := adc.bus.End(); err != nil {
		return &BusError{Op: "end", Err: err}
	}
	return nil
}

// Write shifts p out on the bus, discarding whatever comes back.
func (adc *ADS1256) Write(p []byte) (int, error) {
	if err := adc.bus.Tx(p, nil); err != nil {
		return 0, &BusError{Op: "write", Err: err}
	}
	return len(p), nil
}

// Read clocks len(p) bytes in from the bus.
func (adc *ADS1256) Read(p []byte) (int, error) {
	if err := adc.bus.Tx(nil, p); err != nil {
		return 0, &BusError{Op: "read", Err: err}
	}
	return len(p), nil
}

// delay waits at least d. The wire delays are a few microseconds, so this
// is a plain sleep; the scheduler only ever makes it longer.
func delay(d time.Duration) {
	time.Sleep(d)
}

func (adc *ADS1256) String() string {
	return fmt.Sprintf("ADS1256{cs:%d, drdy:%d, vref:%.4g, pga:%d}", adc.pins.CS, adc.pins.DRDY, adc.vref, adc.pga)
}

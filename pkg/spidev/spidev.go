// Package spidev attaches an ADS1256 to a Linux host: SPI data through
// periph.io (spidev), control lines through the GPIO character device.
//
// CS is an ordinary GPIO line so it can stay asserted across the DRDY wait
// that precedes every command; the SPI port is connected with NoCS.
package spidev

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// DefaultConsumer labels the GPIO lines requested by this package.
const DefaultConsumer = "ads1256"

type options struct {
	log      zerolog.Logger
	consumer string
}

// Option configures a Bus or GPIO.
type Option func(*options)

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithConsumer sets the consumer label shown for requested GPIO lines.
func WithConsumer(consumer string) Option {
	return func(o *options) {
		o.consumer = consumer
	}
}

func newOptions(opts []Option) options {
	o := options{log: zerolog.Nop(), consumer: DefaultConsumer}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Open initializes the periph host drivers, opens the SPI port spiName
// ("" for the first one, or e.g. "/dev/spidev0.0" / "SPI0.0") and the GPIO
// chip chipName (e.g. "gpiochip0").
func Open(spiName, chipName string, opts ...Option) (*Bus, *GPIO, error) {
	if _, err := host.Init(); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}
	port, err := spireg.Open(spiName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open SPI port %q: %w", spiName, err)
	}
	gpio, err := OpenGPIO(chipName, opts...)
	if err != nil {
		return nil, nil, errors.Join(err, port.Close())
	}
	return NewBus(port, opts...), gpio, nil
}

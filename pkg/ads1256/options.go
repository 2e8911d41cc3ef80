package ads1256

import (
	"time"

	"github.com/rs/zerolog"
)

// Option configures an ADS1256 at construction.
type Option func(*ADS1256)

// WithVRef sets the reference voltage in volts.
func WithVRef(vref float64) Option {
	return func(adc *ADS1256) {
		adc.vref = vref
	}
}

// WithBusConfig replaces the per-transaction bus settings.
func WithBusConfig(cfg BusConfig) Option {
	return func(adc *ADS1256) {
		adc.busCfg = cfg
	}
}

// WithClock sets the SCLK rate in Hz.
func WithClock(hz uint32) Option {
	return func(adc *ADS1256) {
		adc.busCfg.Clock = hz
	}
}

// WithDRDYTimeout bounds every wait on DRDY. Zero waits until the context
// passed to the operation is done.
func WithDRDYTimeout(d time.Duration) Option {
	return func(adc *ADS1256) {
		adc.drdyTimeout = d
	}
}

// WithPollInterval sets the sleep between DRDY samples when the DigitalIO
// cannot wait on an edge. Zero yields to the scheduler between samples.
func WithPollInterval(d time.Duration) Option {
	return func(adc *ADS1256) {
		adc.pollInterval = d
	}
}

// WithLogger sets the logger used for command and register traces.
func WithLogger(log zerolog.Logger) Option {
	return func(adc *ADS1256) {
		adc.log = log
	}
}

// WithChannelPolicy selects how out of range inputs are handled.
func WithChannelPolicy(p ChannelPolicy) Option {
	return func(adc *ADS1256) {
		adc.policy = p
	}
}

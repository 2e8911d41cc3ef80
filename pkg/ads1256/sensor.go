package ads1256

import (
	"context"
	"math"

	"tinygo.org/x/drivers"
)

var _ drivers.Sensor = (*ADS1256)(nil)

// Update implements drivers.Sensor. For drivers.Voltage it waits for a
// conversion on the currently selected inputs and stores it; other
// measurements are ignored.
func (adc *ADS1256) Update(which drivers.Measurement) error {
	if which&drivers.Voltage == 0 {
		return nil
	}

	adc.mu.Lock()
	defer adc.mu.Unlock()

	if adc.closed {
		return ErrClosed
	}
	if err := adc.waitDRDY(context.Background()); err != nil {
		return err
	}
	code, err := adc.readDataByCommand()
	if err != nil {
		return err
	}
	adc.lastCode = code
	adc.lastMicrovolts = microvolts(adc.volts(code))
	return nil
}

// microvolts saturates at the int32 range, about ±2147V.
func microvolts(v float64) int32 {
	uv := math.Round(v * 1e6)
	switch {
	case uv >= math.MaxInt32:
		return math.MaxInt32
	case uv <= math.MinInt32:
		return math.MinInt32
	}
	return int32(uv)
}

// Voltage returns the result of the last Update in microvolts. Readings
// beyond about ±2147V after the conversion factor saturate.
func (adc *ADS1256) Voltage() int32 {
	adc.mu.RLock()
	defer adc.mu.RUnlock()
	return adc.lastMicrovolts
}

// Code returns the raw result of the last Update.
func (adc *ADS1256) Code() int32 {
	adc.mu.RLock()
	defer adc.mu.RUnlock()
	return adc.lastCode
}

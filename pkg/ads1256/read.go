package ads1256

import (
	"context"
)

// ReadCurrentChannelRaw performs RDATA and returns the sign-extended 24 bit
// result. It does not wait on DRDY: the caller must have selected the
// channel and waited for a fresh conversion.
func (adc *ADS1256) ReadCurrentChannelRaw() (int32, error) {
	adc.mu.Lock()
	defer adc.mu.Unlock()
	return adc.readDataByCommand()
}

// ReadCurrentChannel is ReadCurrentChannelRaw scaled to volts with the
// reference voltage, PGA gain and conversion factor.
func (adc *ADS1256) ReadCurrentChannel() (float64, error) {
	adc.mu.Lock()
	defer adc.mu.Unlock()
	code, err := adc.readDataByCommand()
	if err != nil {
		return 0, err
	}
	return adc.volts(code), nil
}

// ReadChannelRaw selects pos/neg, waits for the first conversion on the new
// inputs and reads it.
func (adc *ADS1256) ReadChannelRaw(ctx context.Context, pos, neg Channel) (int32, error) {
	adc.mu.Lock()
	defer adc.mu.Unlock()
	return adc.singleConversion(ctx, pos, neg)
}

// ReadChannel is ReadChannelRaw scaled to volts.
func (adc *ADS1256) ReadChannel(ctx context.Context, pos, neg Channel) (float64, error) {
	adc.mu.Lock()
	defer adc.mu.Unlock()
	code, err := adc.singleConversion(ctx, pos, neg)
	if err != nil {
		return 0, err
	}
	return adc.volts(code), nil
}

func (adc *ADS1256) singleConversion(ctx context.Context, pos, neg Channel) (int32, error) {
	if err := adc.setChannel(ctx, pos, neg); err != nil {
		return 0, err
	}
	if err := adc.waitDRDY(ctx); err != nil {
		return 0, err
	}
	return adc.readDataByCommand()
}

// SetConversionFactor sets the multiplier applied to every voltage.
func (adc *ADS1256) SetConversionFactor(factor float64) {
	adc.mu.Lock()
	adc.factor = factor
	adc.mu.Unlock()
}

// ConversionFactor returns the multiplier applied to every voltage.
func (adc *ADS1256) ConversionFactor() float64 {
	adc.mu.RLock()
	defer adc.mu.RUnlock()
	return adc.factor
}

// GetStatus leaves continuous mode and returns the STATUS register.
func (adc *ADS1256) GetStatus(ctx context.Context) (byte, error) {
	adc.mu.Lock()
	defer adc.mu.Unlock()
	if err := adc.sendCommand(ctx, CMDSDATAC); err != nil {
		return 0, err
	}
	return adc.readRegister(RegSTATUS)
}

// readDataByCommand performs the RDATA command to get a single 24-bit result from the device.
func (adc *ADS1256) readDataByCommand() (int32, error) {
	if adc.closed {
		return 0, ErrClosed
	}

	buf := get3Bytes()
	defer put3Bytes(buf)

	err := adc.transaction(func() error {
		if _, err := adc.Write([]byte{CMDRDATA}); err != nil {
			return err
		}
		delay(T6)
		_, err := adc.Read(buf)
		return err
	})
	if err != nil {
		return 0, err
	}

	code := Convert24To32(buf)
	adc.log.Trace().Int32("code", code).Msg("RDATA")
	return code, nil
}

func (adc *ADS1256) volts(code int32) float64 {
	return ConvertADCtoVolts(code, adc.vref, adc.pga) * adc.factor
}

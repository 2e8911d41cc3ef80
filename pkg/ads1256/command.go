package ads1256

import (
	"context"
)

// sendCommand frames a single opcode. The chip only accepts commands while
// DRDY is low, so the wait happens with CS already asserted.
func (adc *ADS1256) sendCommand(ctx context.Context, cmd byte) error {
	if adc.closed {
		return ErrClosed
	}

	adc.log.Trace().Uint8("cmd", cmd).Msg("command")

	return adc.transaction(func() error {
		if err := adc.waitDRDY(ctx); err != nil {
			return err
		}
		if _, err := adc.Write([]byte{cmd}); err != nil {
			return err
		}
		delay(T11)
		return nil
	})
}

// SendCommand waits for DRDY and sends a single byte opcode.
func (adc *ADS1256) SendCommand(ctx context.Context, cmd byte) error {
	adc.mu.Lock()
	defer adc.mu.Unlock()
	return adc.sendCommand(ctx, cmd)
}

// StopContinuous sends SDATAC, leaving read data continuous mode.
func (adc *ADS1256) StopContinuous(ctx context.Context) error {
	return adc.SendCommand(ctx, CMDSDATAC)
}

// SelfCalibrate runs offset and gain self-calibration and waits for it to
// complete.
func (adc *ADS1256) SelfCalibrate(ctx context.Context) error {
	adc.mu.Lock()
	defer adc.mu.Unlock()
	if err := adc.sendCommand(ctx, CMDSELFCAL); err != nil {
		return err
	}
	return adc.waitDRDY(ctx)
}

// Reset triggers a software Reset using the RESET command
func (adc *ADS1256) Reset(ctx context.Context) error {
	adc.mu.Lock()
	defer adc.mu.Unlock()
	if err := adc.sendCommand(ctx, CMDRESET); err != nil {
		return err
	}
	adc.gainCode, adc.pga = Gain1, 1
	return nil
}

// Standby puts the device into standby mode, shutting down analog but leaving the oscillator running.
func (adc *ADS1256) Standby(ctx context.Context) error {
	return adc.SendCommand(ctx, CMDSTANDBY)
}

// WakeUp from SYNC or STANDBY mode.
func (adc *ADS1256) WakeUp(ctx context.Context) error {
	return adc.SendCommand(ctx, CMDWAKEUP)
}

// Sync sends a SYNC command to synchronize the ADC's data output.
func (adc *ADS1256) Sync(ctx context.Context) error {
	return adc.SendCommand(ctx, CMDSYNC)
}

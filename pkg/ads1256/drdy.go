package ads1256

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"
)

// WaitDRDY blocks until DRDY reads low, the configured timeout expires
// (ErrAcquisitionTimeout) or ctx is done.
func (adc *ADS1256) WaitDRDY(ctx context.Context) error {
	adc.mu.Lock()
	defer adc.mu.Unlock()
	if adc.closed {
		return ErrClosed
	}
	return adc.waitDRDY(ctx)
}

// IsDRDY reports whether a conversion result is ready to be read.
func (adc *ADS1256) IsDRDY() (bool, error) {
	adc.mu.Lock()
	defer adc.mu.Unlock()
	if adc.closed {
		return false, ErrClosed
	}
	return adc.isDRDY()
}

func (adc *ADS1256) isDRDY() (bool, error) {
	lvl, err := adc.io.Read(adc.pins.DRDY)
	if err != nil {
		return false, &BusError{Op: "read drdy", Err: err}
	}
	return lvl == Low, nil
}

func (adc *ADS1256) waitDRDY(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	wctx := ctx
	if adc.drdyTimeout > 0 {
		var cancel context.CancelFunc
		wctx, cancel = context.WithTimeout(ctx, adc.drdyTimeout)
		defer cancel()
	}

	var err error
	if ew, ok := adc.io.(EdgeWaiter); ok {
		err = ew.WaitLow(wctx, adc.pins.DRDY)
		if err != nil && wctx.Err() == nil {
			return &BusError{Op: "wait drdy", Err: err}
		}
	} else {
		err = adc.spinDRDY(wctx)
	}

	if err == nil {
		return nil
	}
	var be *BusError
	if errors.As(err, &be) {
		return err
	}
	if ctx.Err() == nil && errors.Is(wctx.Err(), context.DeadlineExceeded) {
		adc.log.Warn().Dur("timeout", adc.drdyTimeout).Msg("DRDY not asserted")
		return fmt.Errorf("%w after %s", ErrAcquisitionTimeout, adc.drdyTimeout)
	}
	return ctx.Err()
}

func (adc *ADS1256) spinDRDY(ctx context.Context) error {
	for {
		ready, err := adc.isDRDY()
		if err != nil {
			return err
		}
		if ready {
			return nil
		}
		if err = ctx.Err(); err != nil {
			return err
		}
		if adc.pollInterval > 0 {
			time.Sleep(adc.pollInterval)
		} else {
			runtime.Gosched()
		}
	}
}

package ads1256

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidChannel is returned under RejectInvalid for inputs that are
	// neither AIN0..AIN7 nor AINCOM.
	ErrInvalidChannel = errors.New("invalid channel")
	// ErrAcquisitionTimeout is returned when DRDY does not assert within the
	// configured wait.
	ErrAcquisitionTimeout = errors.New("timed out waiting for DRDY")
	// ErrInvalidGain is returned for PGA codes above MaxGain.
	ErrInvalidGain = errors.New("invalid PGA gain code")
	// ErrInvalidRegister is returned for addresses outside the register map.
	ErrInvalidRegister = errors.New("invalid register address")
	// ErrClosed indicates the driver has been closed.
	ErrClosed = errors.New("closed")
)

// BusError wraps a failure reported by the Bus or the DigitalIO.
type BusError struct {
	Op  string
	Err error
}

func (e *BusError) Error() string {
	return fmt.Sprintf("ads1256: bus %s: %v", e.Op, e.Err)
}

func (e *BusError) Unwrap() error {
	return e.Err
}

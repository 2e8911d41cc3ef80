// Package ft232h attaches an ADS1256 to a host through an FTDI FT232H.
//
// SPI data goes through the MPSSE engine, while chip-select, DRDY, PWDN and
// RESET are plain GPIO on the C bus. Pins are [ft232h.CPin] masks, e.g. 0x01
// for C0 and 0x10 for C4.
package ft232h

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/yunginnanet/ft232h"

	"github.com/yunginnanet/ads1256/pkg/ads1256"
)

// DeviceInfo represents a snapshot of the device information for the [FT232H] device.
type DeviceInfo struct {
	Index       int
	Serial      string
	Description string
	ProductID   string
	VendorID    string
	IsOpen      bool
	IsHighSpeed bool
}

func (ft DeviceInfo) String() string {
	return fmt.Sprintf(
		"DeviceInfo{Index:%d, Serial:%s, Description:%s, ProductID:%s, VendorID:%s, IsOpen:%t, IsHighSpeed:%t}",
		ft.Index, ft.Serial, ft.Description, ft.ProductID, ft.VendorID, ft.IsOpen, ft.IsHighSpeed,
	)
}

// FT232H is an opened FT232H acting as both [ads1256.Bus] and
// [ads1256.DigitalIO].
type FT232H struct {
	*ft232h.FT232H

	// held between Begin and End
	txn sync.Mutex

	cfg     ads1256.BusConfig
	applied bool

	log zerolog.Logger
}

var (
	_ ads1256.Bus       = (*FT232H)(nil)
	_ ads1256.DigitalIO = (*FT232H)(nil)
)

// Option configures an [FT232H] at connection.
type Option func(*FT232H)

// WithLogger sets the logger for bus reconfiguration and pin traces.
func WithLogger(log zerolog.Logger) Option {
	return func(ft *FT232H) {
		ft.log = log
	}
}

// ConnectFT232h opens the first FT232H found, or the one matching choice.
func ConnectFT232h(choice ...Descriptor) (ft *FT232H, err error) {
	return Connect(choice, nil)
}

// Connect opens an FT232H matching at most one descriptor and applies opts.
func Connect(choice []Descriptor, opts []Option) (*FT232H, error) {
	ft := &FT232H{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(ft)
	}

	var err error
	switch len(choice) {
	case 0:
		ft.FT232H, err = ft232h.New()
	case 1:
		if err = choice[0].Validate(); err != nil {
			return nil, err
		}
		ft.FT232H, err = ft232h.OpenMask(choice[0].Mask())
	default:
		return nil, errors.New("invalid number of arguments")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open FT232H: %w", err)
	}

	ft.log.Debug().Stringer("info", ft.Info()).Msg("opened FT232H")
	return ft, nil
}

// Info returns a snapshot of the device information for the FT232H device. Read-only.
func (ft *FT232H) Info() DeviceInfo {
	vid, pid := ft.vidPid()
	return DeviceInfo{
		Index:       ft.Index(),
		Serial:      ft.Serial(),
		Description: ft.Desc(),
		ProductID:   pid,
		VendorID:    vid,
		IsOpen:      ft.IsOpen(),
		IsHighSpeed: ft.IsHiSpeed(),
	}
}

// String returns the vendor ID, product ID, and description.
func (ft *FT232H) String() string {
	vid, pid := ft.vidPid()
	return fmt.Sprintf("FT232H[%s:%s]: %s", vid, pid, ft.Desc())
}

// Close releases the device.
func (ft *FT232H) Close() error {
	ft.txn.Lock()
	defer ft.txn.Unlock()
	return ft.FT232H.Close()
}

package ft232h

import (
	"errors"
	"fmt"

	"github.com/yunginnanet/ads1256/pkg/ads1256"
)

// MaxClock is the fastest SCLK the MPSSE engine generates.
const MaxClock = 30000000

var (
	ErrFullDuplex    = errors.New("FT232H SPI is half-duplex")
	ErrUnsupportedBC = errors.New("unsupported bus configuration")
)

func validateBusConfig(cfg ads1256.BusConfig) error {
	switch {
	case cfg.Order != ads1256.MSBFirst:
		return fmt.Errorf("%w: LSB first", ErrUnsupportedBC)
	case cfg.Clock == 0 || cfg.Clock > MaxClock:
		return fmt.Errorf("%w: clock %d Hz", ErrUnsupportedBC, cfg.Clock)
	case cfg.Mode > ads1256.Mode3:
		return fmt.Errorf("%w: mode %d", ErrUnsupportedBC, cfg.Mode)
	}
	return nil
}

// Begin takes the bus and applies cfg if it differs from what the MPSSE
// engine was last configured with.
func (ft *FT232H) Begin(cfg ads1256.BusConfig) error {
	if err := validateBusConfig(cfg); err != nil {
		return err
	}

	ft.txn.Lock()
	if ft.applied && ft.cfg == cfg {
		return nil
	}

	spiCfg := ft.SPI.GetConfig()
	spiCfg.Clock = cfg.Clock
	spiCfg.ActiveLow = false
	switch cfg.Mode {
	case ads1256.Mode0:
		spiCfg.Mode = 0
	case ads1256.Mode1:
		spiCfg.Mode = 1
	case ads1256.Mode2:
		spiCfg.Mode = 2
	case ads1256.Mode3:
		spiCfg.Mode = 3
	}

	ft.log.Debug().Any("config", spiCfg).Msg("configuring SPI")

	if err := ft.SPI.Config(spiCfg); err != nil {
		ft.txn.Unlock()
		return fmt.Errorf("failed to configure SPI: %w", err)
	}
	ft.cfg, ft.applied = cfg, true
	return nil
}

// End releases the bus taken by Begin.
func (ft *FT232H) End() error {
	ft.txn.Unlock()
	return nil
}

// Tx writes w or reads len(r) bytes. Chip-select is left alone, it is a
// GPIO owned by the driver.
func (ft *FT232H) Tx(w, r []byte) error {
	switch {
	case len(w) > 0 && len(r) > 0:
		return ErrFullDuplex
	case len(w) > 0:
		n, err := ft.SPI.Write(w, false, false)
		if err != nil {
			return err
		}
		if int(n) != len(w) {
			return fmt.Errorf("short write: %d of %d bytes", n, len(w))
		}
	case len(r) > 0:
		data, err := ft.SPI.Read(uint(len(r)), false, false)
		if err != nil {
			return err
		}
		if copy(r, data) != len(r) {
			return fmt.Errorf("short read: %d of %d bytes", len(data), len(r))
		}
	}
	return nil
}

// Transfer writes b. The engine cannot clock data in while writing, so the
// returned byte is always zero.
func (ft *FT232H) Transfer(b byte) (byte, error) {
	return 0, ft.Tx([]byte{b}, nil)
}

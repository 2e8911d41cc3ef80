package spidev

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"github.com/yunginnanet/ads1256/pkg/ads1256"
)

// ErrReconfigure is returned by Begin when asked for settings other than the
// ones the port was connected with. A periph port connects once.
var ErrReconfigure = errors.New("SPI port already connected with different settings")

// Bus is an [ads1256.Bus] over a periph SPI port.
type Bus struct {
	port spi.PortCloser

	// held between Begin and End
	txn sync.Mutex

	conn spi.Conn
	cfg  ads1256.BusConfig

	log zerolog.Logger
}

var _ ads1256.Bus = (*Bus)(nil)

// NewBus wraps port. The port is connected on the first Begin.
func NewBus(port spi.PortCloser, opts ...Option) *Bus {
	o := newOptions(opts)
	return &Bus{port: port, log: o.log}
}

func portMode(cfg ads1256.BusConfig) (spi.Mode, error) {
	var m spi.Mode
	switch cfg.Mode {
	case ads1256.Mode0:
		m = spi.Mode0
	case ads1256.Mode1:
		m = spi.Mode1
	case ads1256.Mode2:
		m = spi.Mode2
	case ads1256.Mode3:
		m = spi.Mode3
	default:
		return 0, fmt.Errorf("invalid SPI mode %d", cfg.Mode)
	}
	if cfg.Order == ads1256.LSBFirst {
		m |= spi.LSBFirst
	}
	return m | spi.NoCS, nil
}

// Begin takes the bus, connecting the port with cfg the first time.
func (b *Bus) Begin(cfg ads1256.BusConfig) error {
	b.txn.Lock()
	if b.conn != nil {
		if cfg != b.cfg {
			b.txn.Unlock()
			return fmt.Errorf("%w: have %+v, want %+v", ErrReconfigure, b.cfg, cfg)
		}
		return nil
	}

	mode, err := portMode(cfg)
	if err == nil {
		b.conn, err = b.port.Connect(physic.Frequency(cfg.Clock)*physic.Hertz, mode, 8)
	}
	if err != nil {
		b.txn.Unlock()
		return fmt.Errorf("failed to connect SPI port: %w", err)
	}
	b.cfg = cfg

	b.log.Debug().Stringer("conn", b.conn).Uint32("clock", cfg.Clock).Msg("connected SPI port")
	return nil
}

// End releases the bus taken by Begin.
func (b *Bus) End() error {
	b.txn.Unlock()
	return nil
}

// Tx exchanges w and r. A nil w clocks out zeros.
func (b *Bus) Tx(w, r []byte) error {
	if b.conn == nil {
		return errors.New("SPI port not connected")
	}
	if w == nil {
		w = make([]byte, len(r))
	}
	return b.conn.Tx(w, r)
}

// Transfer exchanges a single byte.
func (b *Bus) Transfer(c byte) (byte, error) {
	var r [1]byte
	err := b.Tx([]byte{c}, r[:])
	return r[0], err
}

// Close closes the port.
func (b *Bus) Close() error {
	b.txn.Lock()
	defer b.txn.Unlock()
	return b.port.Close()
}

package spidev

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/warthog618/go-gpiocdev"

	"github.com/yunginnanet/ads1256/pkg/ads1256"
)

// recheck bounds how long WaitLow trusts the edge stream before sampling the
// line again.
const recheck = 10 * time.Millisecond

// line is the part of a *gpiocdev.Line the GPIO uses.
type line interface {
	Value() (int, error)
	SetValue(value int) error
	Close() error
}

// GPIO is an [ads1256.DigitalIO] over a GPIO character device. Pins are line
// offsets on the chip. Inputs are requested with falling edge detection so
// WaitLow can sleep until DRDY asserts.
//
// Edge handlers run on the line watcher, and closing a line waits for the
// watcher. edges therefore has its own lock, and mu is never held while a
// line is closed.
type GPIO struct {
	mu       sync.Mutex
	chip     *gpiocdev.Chip
	lines    map[ads1256.Pin]line
	consumer string
	recheck  time.Duration
	log      zerolog.Logger

	edgeMu sync.Mutex
	edges  map[int]chan struct{}
}

var (
	_ ads1256.DigitalIO  = (*GPIO)(nil)
	_ ads1256.EdgeWaiter = (*GPIO)(nil)
)

// OpenGPIO opens the named GPIO chip.
func OpenGPIO(chipName string, opts ...Option) (*GPIO, error) {
	o := newOptions(opts)
	c, err := gpiocdev.NewChip(chipName, gpiocdev.WithConsumer(o.consumer))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", chipName, err)
	}
	return newGPIO(c, o), nil
}

func newGPIO(c *gpiocdev.Chip, o options) *GPIO {
	return &GPIO{
		chip:     c,
		lines:    make(map[ads1256.Pin]line),
		edges:    make(map[int]chan struct{}),
		consumer: o.consumer,
		recheck:  recheck,
		log:      o.log,
	}
}

func (g *GPIO) onEdge(evt gpiocdev.LineEvent) {
	g.edgeMu.Lock()
	ch := g.edges[evt.Offset]
	g.edgeMu.Unlock()
	if ch == nil {
		return
	}
	select {
	case ch <- struct{}{}:
	default:
	}
}

func (g *GPIO) edgeChan(pin ads1256.Pin) chan struct{} {
	g.edgeMu.Lock()
	defer g.edgeMu.Unlock()
	return g.edges[int(pin)]
}

func (g *GPIO) setEdgeChan(pin ads1256.Pin, ch chan struct{}) {
	g.edgeMu.Lock()
	defer g.edgeMu.Unlock()
	if ch == nil {
		delete(g.edges, int(pin))
		return
	}
	g.edges[int(pin)] = ch
}

// release detaches the line at pin so it can be closed without holding mu.
func (g *GPIO) release(pin ads1256.Pin) line {
	g.mu.Lock()
	defer g.mu.Unlock()
	l := g.lines[pin]
	delete(g.lines, pin)
	g.setEdgeChan(pin, nil)
	return l
}

// SetDirection requests the line at offset pin. Outputs start high.
func (g *GPIO) SetDirection(pin ads1256.Pin, dir ads1256.Direction) error {
	if l := g.release(pin); l != nil {
		if err := l.Close(); err != nil {
			return err
		}
	}

	var (
		l   *gpiocdev.Line
		err error
	)
	switch dir {
	case ads1256.Input:
		g.setEdgeChan(pin, make(chan struct{}, 1))
		l, err = g.chip.RequestLine(int(pin),
			gpiocdev.AsInput,
			gpiocdev.WithFallingEdge,
			gpiocdev.WithEventHandler(g.onEdge))
	default:
		l, err = g.chip.RequestLine(int(pin), gpiocdev.AsOutput(1))
	}
	if err != nil {
		g.setEdgeChan(pin, nil)
		return fmt.Errorf("failed to request line %d: %w", pin, err)
	}

	g.log.Trace().Uint("pin", uint(pin)).Bool("output", dir == ads1256.Output).Msg("requested line")
	g.mu.Lock()
	g.lines[pin] = l
	g.mu.Unlock()
	return nil
}

func (g *GPIO) lookup(pin ads1256.Pin) (line, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	l, ok := g.lines[pin]
	if !ok {
		return nil, fmt.Errorf("line %d not requested", pin)
	}
	return l, nil
}

func (g *GPIO) Write(pin ads1256.Pin, level ads1256.Level) error {
	l, err := g.lookup(pin)
	if err != nil {
		return err
	}
	v := 0
	if level == ads1256.High {
		v = 1
	}
	return l.SetValue(v)
}

func (g *GPIO) Read(pin ads1256.Pin) (ads1256.Level, error) {
	l, err := g.lookup(pin)
	if err != nil {
		return ads1256.Low, err
	}
	v, err := l.Value()
	if err != nil {
		return ads1256.Low, err
	}
	return ads1256.Level(v != 0), nil
}

// WaitLow blocks until pin reads low or ctx is done. It sleeps on falling
// edge events and samples the line after each one.
func (g *GPIO) WaitLow(ctx context.Context, pin ads1256.Pin) error {
	edges := g.edgeChan(pin)
	if edges == nil {
		return fmt.Errorf("line %d has no edge detection", pin)
	}

	// drop edges from conversions nobody waited for
	select {
	case <-edges:
	default:
	}

	t := time.NewTimer(g.recheck)
	defer t.Stop()
	for {
		lvl, err := g.Read(pin)
		if err != nil {
			return err
		}
		if lvl == ads1256.Low {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-edges:
		case <-t.C:
		}
		t.Reset(g.recheck)
	}
}

// Close releases every requested line and the chip.
func (g *GPIO) Close() error {
	g.mu.Lock()
	lines := make([]line, 0, len(g.lines))
	for pin, l := range g.lines {
		lines = append(lines, l)
		delete(g.lines, pin)
	}
	g.mu.Unlock()

	g.edgeMu.Lock()
	clear(g.edges)
	g.edgeMu.Unlock()

	var errs []error
	for _, l := range lines {
		errs = append(errs, l.Close())
	}
	if g.chip != nil {
		errs = append(errs, g.chip.Close())
	}
	return errors.Join(errs...)
}

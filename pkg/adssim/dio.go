package adssim

import (
	"fmt"

	"github.com/yunginnanet/ads1256/pkg/ads1256"
)

var _ ads1256.DigitalIO = (*Chip)(nil)

// SetDirection records the direction of pin.
func (c *Chip) SetDirection(pin ads1256.Pin, dir ads1256.Direction) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if pin == c.pins.DRDY && dir != ads1256.Input {
		return c.violation(fmt.Errorf("%w: DRDY is driven by the chip", ErrDirection))
	}
	c.dirs[pin] = dir
	if _, ok := c.levels[pin]; !ok {
		c.levels[pin] = ads1256.High
	}
	return nil
}

// Write drives an output line. CS edges frame the command stream, PWDN and
// RESET behave like the chip's pins.
func (c *Chip) Write(pin ads1256.Pin, level ads1256.Level) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if dir, ok := c.dirs[pin]; !ok || dir != ads1256.Output {
		return c.violation(fmt.Errorf("%w: pin %d is not an output", ErrDirection, pin))
	}
	prev := c.levels[pin]
	c.levels[pin] = level

	switch {
	case pin == c.pins.CS:
		c.chipSelect(prev, level)
	case pin == c.pins.PWDN:
		if prev == ads1256.Low && level == ads1256.High {
			c.powered = true
			c.restart()
		} else if level == ads1256.Low {
			c.powered = false
		}
	case c.pins.UseReset && pin == c.pins.Reset:
		if prev == ads1256.Low && level == ads1256.High {
			c.reset()
		}
	}
	return nil
}

func (c *Chip) chipSelect(prev, level ads1256.Level) {
	switch {
	case prev == ads1256.High && level == ads1256.Low:
		c.selected = true
		c.cur = nil
	case prev == ads1256.Low && level == ads1256.High:
		c.selected = false
		if len(c.cur) > 0 {
			c.frames = append(c.frames, c.cur)
		}
		c.cur = nil
		// deselecting resets the serial interface
		c.state = stateIdle
		c.out = nil
	}
}

// Read samples a line. DRDY counts down the settle polls of a conversion in
// progress before it asserts.
func (c *Chip) Read(pin ads1256.Pin) (ads1256.Level, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if pin != c.pins.DRDY {
		return c.levels[pin], nil
	}
	if dir, ok := c.dirs[pin]; !ok || dir != ads1256.Input {
		return ads1256.High, c.violation(fmt.Errorf("%w: DRDY is not an input", ErrDirection))
	}
	if !c.powered || c.stuck {
		return ads1256.High, nil
	}
	if !c.drdyLow {
		if c.settle > 0 {
			c.settle--
		}
		if c.settle == 0 {
			c.drdyLow = true
		}
		return ads1256.High, nil
	}
	return ads1256.Low, nil
}

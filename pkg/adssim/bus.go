package adssim

import (
	"github.com/yunginnanet/ads1256/pkg/ads1256"
)

var _ ads1256.Bus = (*Chip)(nil)

// Begin opens a transaction with cfg.
func (c *Chip) Begin(cfg ads1256.BusConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inTxn {
		return c.violation(ErrNestedTransaction)
	}
	c.inTxn = true
	c.busCfg = cfg
	return nil
}

// End closes the transaction opened by Begin.
func (c *Chip) End() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.inTxn {
		return c.violation(ErrNoTransaction)
	}
	c.inTxn = false
	c.transaction++
	return nil
}

// Tx shifts w out and r in. Either may be nil; a nil w clocks out zeros.
func (c *Chip) Tx(w, r []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.takeFailure(); err != nil {
		return err
	}

	switch {
	case w != nil && r != nil && len(w) != len(r):
		return ErrLengthMismatch
	case r == nil:
		for _, b := range w {
			if _, err := c.exchange(b); err != nil {
				return err
			}
		}
	default:
		for i := range r {
			var out byte
			if w != nil {
				out = w[i]
			}
			in, err := c.exchange(out)
			if err != nil {
				return err
			}
			r[i] = in
		}
	}
	return nil
}

// Transfer exchanges a single byte.
func (c *Chip) Transfer(b byte) (byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.takeFailure(); err != nil {
		return 0, err
	}
	return c.exchange(b)
}

func (c *Chip) takeFailure() error {
	err := c.failNext
	c.failNext = nil
	return err
}

func (c *Chip) exchange(b byte) (byte, error) {
	if !c.inTxn {
		return 0, c.violation(ErrNoTransaction)
	}
	if !c.selected {
		return 0, c.violation(ErrNotSelected)
	}

	c.cur = append(c.cur, b)

	// Pending output wins, the host is clocking out filler.
	if len(c.out) > 0 {
		in := c.out[0]
		c.out = c.out[1:]
		return in, nil
	}

	c.decode(b)
	return 0, nil
}

func (c *Chip) decode(b byte) {
	switch c.state {
	case stateRREGCount:
		n := int(b&0x0F) + 1
		for i := 0; i < n; i++ {
			c.out = append(c.out, c.readReg(c.reg+byte(i)))
		}
		c.state = stateIdle
		return
	case stateWREGCount:
		c.remaining = int(b&0x0F) + 1
		c.state = stateWREGData
		return
	case stateWREGData:
		c.writeReg(c.reg, b)
		c.reg++
		c.remaining--
		if c.remaining == 0 {
			c.state = stateIdle
		}
		return
	}

	switch {
	case b&0xF0 == ads1256.CMDRREG:
		c.reg = b & 0x0F
		c.state = stateRREGCount
	case b&0xF0 == ads1256.CMDWREG:
		c.reg = b & 0x0F
		c.state = stateWREGCount
	case b == ads1256.CMDRDATA:
		code := uint32(c.code())
		c.out = append(c.out, byte(code>>16), byte(code>>8), byte(code))
		// reading the result releases DRDY until the next conversion
		c.restart()
	case b == ads1256.CMDRDATAC:
		c.continuous = true
	case b == ads1256.CMDSDATAC:
		c.continuous = false
	case b == ads1256.CMDSELFCAL:
		c.selfCals++
		c.restart()
	case b >= ads1256.CMDSELFOCAL && b <= ads1256.CMDSYSGCAL:
		c.restart()
	case b == ads1256.CMDSYNC:
		c.synced = true
	case b == ads1256.CMDSTANDBY:
		c.standby = true
	case b == ads1256.CMDRESET:
		c.reset()
	case b == ads1256.CMDWAKEUP || b == ads1256.CMDWakeUp:
		if c.synced || c.standby {
			c.synced, c.standby = false, false
			c.restart()
		}
	}
}

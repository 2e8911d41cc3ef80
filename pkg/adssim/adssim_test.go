package adssim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yunginnanet/ads1256/pkg/ads1256"
)

func setup(t *testing.T, opts ...Option) *Chip {
	t.Helper()
	c := New(opts...)
	p := c.Pins()
	require.NoError(t, c.SetDirection(p.DRDY, ads1256.Input))
	for _, pin := range []ads1256.Pin{p.CS, p.PWDN, p.Reset} {
		require.NoError(t, c.SetDirection(pin, ads1256.Output))
		require.NoError(t, c.Write(pin, ads1256.High))
	}
	return c
}

// frame runs one Begin/CS/Tx/CS/End exchange and returns what came back.
func frame(t *testing.T, c *Chip, w []byte) []byte {
	t.Helper()
	r := make([]byte, len(w))
	require.NoError(t, c.Begin(ads1256.DefaultBusConfig()))
	require.NoError(t, c.Write(c.Pins().CS, ads1256.Low))
	require.NoError(t, c.Tx(w, r))
	require.NoError(t, c.Write(c.Pins().CS, ads1256.High))
	require.NoError(t, c.End())
	return r
}

func TestRegisters(t *testing.T) {
	c := setup(t)

	frame(t, c, []byte{0x53, 0x00, 0x23})
	assert.Equal(t, byte(0x23), c.Register(ads1256.RegDRATE))

	// two registers from STATUS on
	r := frame(t, c, []byte{0x10, 0x01, 0x00, 0x00})
	assert.Equal(t, []byte{0x00, 0x00, 0x30, 0x01}, r)

	// multi-register write
	frame(t, c, []byte{0x55, 0x02, 0x11, 0x22, 0x33})
	assert.Equal(t, byte(0x11), c.Register(ads1256.RegOFC0))
	assert.Equal(t, byte(0x22), c.Register(ads1256.RegOFC1))
	assert.Equal(t, byte(0x33), c.Register(ads1256.RegOFC2))

	assert.Len(t, c.Frames(), 3)
	assert.Equal(t, Frame{0x53, 0x00, 0x23}, c.Frames()[0])
	assert.NoError(t, c.Err())
}

func TestReadOnlyBits(t *testing.T) {
	c := setup(t)
	c.SetRegister(ads1256.RegSTATUS, 0xFF)
	assert.Equal(t, byte(0x3E), c.Register(ads1256.RegSTATUS), "ID nibble and DRDY are read-only")
	c.SetRegister(ads1256.RegADCON, 0xFF)
	assert.Equal(t, byte(0x7F), c.Register(ads1256.RegADCON))
}

func TestDRDY(t *testing.T) {
	c := setup(t)
	drdy := c.Pins().DRDY

	read := func() ads1256.Level {
		lvl, err := c.Read(drdy)
		require.NoError(t, err)
		return lvl
	}

	assert.Equal(t, ads1256.Low, read(), "converting at power-on")

	frame(t, c, []byte{ads1256.CMDSELFCAL})
	assert.Equal(t, 1, c.SelfCalibrations())
	assert.NotZero(t, c.Register(ads1256.RegSTATUS)&ads1256.StatusDRDYbit)
	assert.Equal(t, ads1256.High, read())
	assert.Equal(t, ads1256.High, read())
	assert.Equal(t, ads1256.Low, read())
	assert.Zero(t, c.Register(ads1256.RegSTATUS)&ads1256.StatusDRDYbit)

	t.Run("SyncWakeUp", func(t *testing.T) {
		frame(t, c, []byte{ads1256.CMDSYNC})
		assert.Equal(t, ads1256.Low, read(), "SYNC alone does not restart")
		frame(t, c, []byte{ads1256.CMDWAKEUP})
		assert.Equal(t, ads1256.High, read())
	})

	t.Run("PowerDown", func(t *testing.T) {
		require.NoError(t, c.Write(c.Pins().PWDN, ads1256.Low))
		for i := 0; i < 5; i++ {
			assert.Equal(t, ads1256.High, read())
		}
		require.NoError(t, c.Write(c.Pins().PWDN, ads1256.High))
		for read() == ads1256.High {
		}
	})

	t.Run("Stuck", func(t *testing.T) {
		c.SetStuck(true)
		for i := 0; i < 5; i++ {
			assert.Equal(t, ads1256.High, read())
		}
		c.SetStuck(false)
		assert.Equal(t, ads1256.Low, read())
	})

	t.Run("NoSettle", func(t *testing.T) {
		c := setup(t, WithSettlePolls(0))
		frame(t, c, []byte{ads1256.CMDSELFCAL})
		lvl, err := c.Read(c.Pins().DRDY)
		require.NoError(t, err)
		assert.Equal(t, ads1256.Low, lvl)
	})
}

func TestConversion(t *testing.T) {
	c := setup(t)
	c.SetInput(ads1256.CH_AIN1, 1.25)
	frame(t, c, []byte{0x51, 0x00, 0x18}) // AIN1 - AINCOM

	assert.Equal(t, int32(0x200000), c.Code())

	r := frame(t, c, []byte{ads1256.CMDRDATA, 0, 0, 0})
	assert.Equal(t, int32(0x200000), ads1256.Convert24To32(r[1:]))

	t.Run("Gain", func(t *testing.T) {
		c.SetRegister(ads1256.RegADCON, 0x21) // PGA 2
		assert.Equal(t, int32(0x400000), c.Code())
		c.SetRegister(ads1256.RegADCON, 0x20)
	})

	t.Run("Clamp", func(t *testing.T) {
		c.SetInput(ads1256.CH_AIN1, 100)
		assert.Equal(t, int32(ads1256.FullScaleCode), c.Code())
		c.SetInput(ads1256.CH_AIN1, -100)
		assert.Equal(t, int32(-ads1256.FullScaleCode-1), c.Code())
	})

	t.Run("Forced", func(t *testing.T) {
		c.ForceCode(-5)
		assert.Equal(t, int32(-5), c.Code())
		c.ClearForcedCode()
		assert.NotEqual(t, int32(-5), c.Code())
	})
}

func TestReset(t *testing.T) {
	c := setup(t)
	frame(t, c, []byte{0x52, 0x00, 0x26})
	frame(t, c, []byte{ads1256.CMDRESET})
	assert.Equal(t, byte(0x20), c.Register(ads1256.RegADCON))

	frame(t, c, []byte{0x52, 0x00, 0x26})
	require.NoError(t, c.Write(c.Pins().Reset, ads1256.Low))
	require.NoError(t, c.Write(c.Pins().Reset, ads1256.High))
	assert.Equal(t, byte(0x20), c.Register(ads1256.RegADCON))
}

func TestViolations(t *testing.T) {
	t.Run("NoTransaction", func(t *testing.T) {
		c := setup(t)
		assert.ErrorIs(t, c.Tx([]byte{0x01}, nil), ErrNoTransaction)
		assert.ErrorIs(t, c.End(), ErrNoTransaction)
		assert.ErrorIs(t, c.Err(), ErrNoTransaction)
	})

	t.Run("Nested", func(t *testing.T) {
		c := setup(t)
		require.NoError(t, c.Begin(ads1256.DefaultBusConfig()))
		assert.ErrorIs(t, c.Begin(ads1256.DefaultBusConfig()), ErrNestedTransaction)
	})

	t.Run("NotSelected", func(t *testing.T) {
		c := setup(t)
		require.NoError(t, c.Begin(ads1256.DefaultBusConfig()))
		_, err := c.Transfer(0x01)
		assert.ErrorIs(t, err, ErrNotSelected)
	})

	t.Run("LengthMismatch", func(t *testing.T) {
		c := setup(t)
		assert.ErrorIs(t, c.Tx([]byte{1, 2}, make([]byte, 3)), ErrLengthMismatch)
		assert.NoError(t, c.Err(), "caller error, not a protocol violation")
	})

	t.Run("Direction", func(t *testing.T) {
		c := New()
		assert.ErrorIs(t, c.SetDirection(c.Pins().DRDY, ads1256.Output), ErrDirection)
		assert.ErrorIs(t, c.Write(c.Pins().CS, ads1256.Low), ErrDirection)
		_, err := c.Read(c.Pins().DRDY)
		assert.ErrorIs(t, err, ErrDirection)
	})

	t.Run("FailNext", func(t *testing.T) {
		c := setup(t)
		boom := assert.AnError
		c.FailNext(boom)
		require.NoError(t, c.Begin(ads1256.DefaultBusConfig()))
		assert.ErrorIs(t, c.Tx([]byte{0x01}, nil), boom)
		require.NoError(t, c.End())
		assert.NoError(t, c.Err())
	})
}

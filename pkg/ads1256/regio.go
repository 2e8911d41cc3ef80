package ads1256

import (
	"fmt"
)

func (adc *ADS1256) LastReadRegister(reg Register) byte {
	if reg >= NumRegisters {
		return 0
	}
	adc.mu.RLock()
	b := adc.regLR[reg]
	adc.mu.RUnlock()
	return b
}

func (adc *ADS1256) LastWrittenRegister(reg Register) byte {
	if reg >= NumRegisters {
		return 0
	}
	adc.mu.RLock()
	b := adc.regLW[reg]
	adc.mu.RUnlock()
	return b
}

// Registers returns a copy of the last read register values.
func (adc *ADS1256) Registers() map[Register]byte {
	adc.mu.RLock()
	r := make(map[Register]byte, NumRegisters)
	for reg, val := range adc.regLR {
		r[Register(reg)] = val
	}
	adc.mu.RUnlock()
	return r
}

// WriteRegister writes a single register.
func (adc *ADS1256) WriteRegister(reg Register, value byte) error {
	adc.mu.Lock()
	defer adc.mu.Unlock()
	return adc.writeRegister(reg, value)
}

// ReadRegister reads a single register.
func (adc *ADS1256) ReadRegister(reg Register) (byte, error) {
	adc.mu.Lock()
	defer adc.mu.Unlock()
	return adc.readRegister(reg)
}

// writeRegister writes a single register [regAddr], with the given value.
func (adc *ADS1256) writeRegister(regAddr Register, value byte) error {
	if regAddr >= NumRegisters {
		return fmt.Errorf("%w: 0x%02X", ErrInvalidRegister, byte(regAddr))
	}
	if adc.closed {
		return ErrClosed
	}

	adc.log.Trace().Stringer("reg", regAddr).Hex("value", []byte{value}).Msg("WREG")

	err := adc.transaction(func() error {
		// WREG: 0x50 | regAddr, then # of registers - 1. We only do one register => 0
		if _, err := adc.Write([]byte{CMDWREG | byte(regAddr&0x0F), 0x00, value}); err != nil {
			return err
		}
		delay(T11)
		return nil
	})
	if err != nil {
		return err
	}

	adc.regLW[regAddr] = value
	return nil
}

// readRegister reads a single register [regAddr].
func (adc *ADS1256) readRegister(regAddr Register) (byte, error) {
	if regAddr >= NumRegisters {
		return 0, fmt.Errorf("%w: 0x%02X", ErrInvalidRegister, byte(regAddr))
	}
	if adc.closed {
		return 0, ErrClosed
	}

	buf := get1Byte()
	defer put1Byte(buf)

	err := adc.transaction(func() error {
		// RREG: 0x10 | regAddr, 2nd byte => # of registers - 1 => 0
		if _, err := adc.Write([]byte{CMDRREG | byte(regAddr&0x0F), 0x00}); err != nil {
			return err
		}
		delay(T6)
		if _, err := adc.Read(buf); err != nil {
			return err
		}
		delay(T11)
		return nil
	})
	if err != nil {
		return 0, err
	}

	adc.regLR[regAddr] = buf[0]

	adc.log.Trace().Stringer("reg", regAddr).Hex("value", buf).Msg("RREG")

	return buf[0], nil
}

// ReadAllRegisters reads the whole register map and returns it.
func (adc *ADS1256) ReadAllRegisters() (registers map[Register]byte, err error) {
	adc.mu.Lock()
	err = adc.readAllRegisters()
	if err == nil {
		registers = make(map[Register]byte, NumRegisters)
		for reg, val := range adc.regLR {
			registers[Register(reg)] = val
		}
	}
	adc.mu.Unlock()
	return
}

// readAllRegisters is optional, but can be handy for debug
func (adc *ADS1256) readAllRegisters() error {
	for reg := Register(0); reg < NumRegisters; reg++ {
		if _, err := adc.readRegister(reg); err != nil {
			return err
		}
	}
	return nil
}

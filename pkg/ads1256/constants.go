package ads1256

import "time"

// Constants from the datasheet

// Register Addresses
const (
	// RegSTATUS is the STATUS register
	RegSTATUS Register = 0x00
	// RegMUX is the multiplexer register
	RegMUX Register = 0x01
	// RegADCON is the ADCON register
	RegADCON Register = 0x02
	// RegDRATE is the data rate register
	RegDRATE Register = 0x03
	// RegIO is the I/O register
	RegIO Register = 0x04
	// RegOFC0 is the offset calibration register 0
	RegOFC0 Register = 0x05
	// RegOFC1 is the offset calibration register 1
	RegOFC1 Register = 0x06
	// RegOFC2 is the offset calibration register 2
	RegOFC2 Register = 0x07
	// RegFSC0 is the full-scale calibration register 0
	RegFSC0 Register = 0x08
	// RegFSC1 is the full-scale calibration register 1
	RegFSC1 Register = 0x09
	// RegFSC2 is the full-scale calibration register 2
	RegFSC2 Register = 0x0A

	// NumRegisters is the total number of registers.
	NumRegisters = 0x0B // 11 total (0 through 0x0A)
)

// Command Opcodes
const (
	CMDWakeUp   = 0x00
	CMDRDATA    = 0x01
	CMDRDATAC   = 0x03
	CMDSDATAC   = 0x0F
	CMDRREG     = 0x10 // 0x10 | (reg & 0x0F)
	CMDWREG     = 0x50 // 0x50 | (reg & 0x0F)
	CMDSELFCAL  = 0xF0
	CMDSELFOCAL = 0xF1
	CMDSELFGCAL = 0xF2
	CMDSYSOCAL  = 0xF3
	CMDSYSGCAL  = 0xF4
	CMDSYNC     = 0xFC
	CMDSTANDBY  = 0xFD
	CMDRESET    = 0xFE
	CMDWAKEUP   = 0xFF
)

// DataRate is a DRATE register code.
// fCLKIN assumed = 7.68 MHz. Data Rate is from Table 13 in the data sheet.
type DataRate byte

const (
	DataRate30000 DataRate = 0xF0
	DataRate15000 DataRate = 0xE0
	DataRate7500  DataRate = 0xD0
	DataRate3750  DataRate = 0xC0
	DataRate2000  DataRate = 0xB0
	DataRate1000  DataRate = 0xA1
	DataRate500   DataRate = 0x92
	DataRate100   DataRate = 0x82
	DataRate60    DataRate = 0x72
	DataRate50    DataRate = 0x63
	DataRate30    DataRate = 0x53
	DataRate25    DataRate = 0x43
	DataRate15    DataRate = 0x33
	DataRate10    DataRate = 0x23
	DataRate5     DataRate = 0x13
	DataRate2p5   DataRate = 0x03
)

var dataRateSPS = map[DataRate]float64{
	DataRate30000: 30000,
	DataRate15000: 15000,
	DataRate7500:  7500,
	DataRate3750:  3750,
	DataRate2000:  2000,
	DataRate1000:  1000,
	DataRate500:   500,
	DataRate100:   100,
	DataRate60:    60,
	DataRate50:    50,
	DataRate30:    30,
	DataRate25:    25,
	DataRate15:    15,
	DataRate10:    10,
	DataRate5:     5,
	DataRate2p5:   2.5,
}

// SamplesPerSecond returns the nominal output rate of d, or 0 for codes
// missing from the datasheet table.
func (d DataRate) SamplesPerSecond() float64 {
	return dataRateSPS[d]
}

// Bits for the STATUS register
const (
	StatusORDERbit = 0x08 // (bit3)
	StatusACALbit  = 0x04 // (bit2)
	StatusBUFENbit = 0x02 // (bit1)
	StatusDRDYbit  = 0x01 // (bit0, read-only)
)

// Bits for ADCON register
const (
	// AdconCLKOff SCLK freq outputs
	AdconCLKOff  = 0x00
	AdconCLKDiv1 = 0x20
	AdconCLKDiv2 = 0x40
	AdconCLKDiv4 = 0x60

	// AdconSDCSOff SDCS sensor detect bits
	AdconSDCSOff   = 0x00
	AdconSDCS0p5uA = 0x08
	AdconSDCS2uA   = 0x10
	AdconSDCS10uA  = 0x18

	// AdconPGAMask covers the PGA bits (bits 2-0).
	AdconPGAMask = 0x07
)

// Gain is the 3 bit PGA code written to ADCON.
type Gain byte

const (
	Gain1 Gain = iota
	Gain2
	Gain4
	Gain8
	Gain16
	Gain32
	Gain64

	// MaxGain is the largest valid PGA code.
	MaxGain = Gain64
)

// Multiplexer nibbles. The positive input lives in the upper nibble.
const (
	MuxAINCOM = 0x08
	muxPShift = 4
)

// Timing, derived from tCLKIN = 1/7.68MHz ≈ 130ns.
const (
	// T6 is the delay between the last command byte and the first data
	// byte clocked out (50 * tCLKIN ≈ 6.5us).
	T6 = 7 * time.Microsecond
	// T11 is the settle delay after the last byte before releasing CS
	// (4 * tCLKIN ≈ 0.52us).
	T11 = 1 * time.Microsecond
)

// Full-scale code of a 24 bit two's complement sample.
const FullScaleCode = 0x7FFFFF

// DataRateFor returns the DRATE code whose nominal rate is sps.
func DataRateFor(sps float64) (DataRate, bool) {
	for code, rate := range dataRateSPS {
		if rate == sps {
			return code, true
		}
	}
	return 0, false
}

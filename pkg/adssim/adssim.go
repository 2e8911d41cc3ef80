// Package adssim simulates an ADS1256 behind the ads1256.Bus and
// ads1256.DigitalIO contracts.
//
// The Chip decodes the command stream byte by byte, keeps a register file,
// produces conversions from configured input voltages and drives DRDY. DRDY
// timing is counted in polls instead of wall time, so tests are
// deterministic. Every chip-select frame is recorded for inspection.
package adssim

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/yunginnanet/ads1256/pkg/ads1256"
)

var (
	ErrNoTransaction     = errors.New("adssim: transfer outside Begin/End")
	ErrNestedTransaction = errors.New("adssim: Begin inside an open transaction")
	ErrNotSelected       = errors.New("adssim: transfer with CS deasserted")
	ErrLengthMismatch    = errors.New("adssim: Tx buffers differ in length")
	ErrDirection         = errors.New("adssim: pin direction mismatch")
)

// DefaultPins mirrors the Waveshare High-Precision AD/DA board wiring.
var DefaultPins = ads1256.Pins{
	CS:       22,
	DRDY:     17,
	PWDN:     27,
	Reset:    18,
	UseReset: true,
}

// Register values after power-on or RESET.
var resetRegisters = [ads1256.NumRegisters]byte{
	ads1256.RegSTATUS: 0x30, // ID 3, ORDER/ACAL/BUFEN clear
	ads1256.RegMUX:    0x01, // AIN0 - AIN1
	ads1256.RegADCON:  0x20, // CLKOUT fCLKIN, PGA 1
	ads1256.RegDRATE:  0xF0, // 30k SPS
	ads1256.RegIO:     0xE0,
}

type decodeState uint8

const (
	stateIdle decodeState = iota
	stateRREGCount
	stateWREGCount
	stateWREGData
)

// Frame is the MOSI byte stream of one chip-select assertion.
type Frame []byte

// Chip is a simulated ADS1256.
type Chip struct {
	mu sync.Mutex

	pins   ads1256.Pins
	dirs   map[ads1256.Pin]ads1256.Direction
	levels map[ads1256.Pin]ads1256.Level

	regs   [ads1256.NumRegisters]byte
	inputs [ads1256.CH_AINCOM + 1]float64
	vref   float64
	forced *int32

	inTxn  bool
	busCfg ads1256.BusConfig

	state     decodeState
	reg       byte
	remaining int
	out       []byte

	selected bool
	cur      Frame
	frames   []Frame

	powered     bool
	drdyLow     bool
	settle      int
	settlePolls int
	stuck       bool
	synced      bool
	standby     bool
	continuous  bool
	selfCals    int
	failNext    error
	violations  []error
	transaction int
}

// Option configures a Chip.
type Option func(*Chip)

// WithPins sets the control line assignment the chip responds to.
func WithPins(p ads1256.Pins) Option {
	return func(c *Chip) {
		c.pins = p
	}
}

// WithVRef sets the reference voltage used to compute conversions.
func WithVRef(v float64) Option {
	return func(c *Chip) {
		c.vref = v
	}
}

// WithSettlePolls sets how many DRDY samples read high after a conversion
// restart before DRDY asserts.
func WithSettlePolls(n int) Option {
	return func(c *Chip) {
		c.settlePolls = n
	}
}

// New returns a powered, converting chip with reset register values.
func New(opts ...Option) *Chip {
	c := &Chip{
		pins:        DefaultPins,
		dirs:        make(map[ads1256.Pin]ads1256.Direction),
		levels:      make(map[ads1256.Pin]ads1256.Level),
		regs:        resetRegisters,
		vref:        ads1256.DefaultVRef,
		settlePolls: 2,
		powered:     true,
		drdyLow:     true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Pins returns the control line assignment of the chip.
func (c *Chip) Pins() ads1256.Pins {
	return c.pins
}

// SetInput sets the voltage present on an analog input.
func (c *Chip) SetInput(ch ads1256.Channel, volts float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ch >= 0 && int(ch) < len(c.inputs) {
		c.inputs[ch] = volts
	}
}

// ForceCode makes every conversion return code regardless of inputs.
func (c *Chip) ForceCode(code int32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.forced = &code
}

// ClearForcedCode returns to computing conversions from the inputs.
func (c *Chip) ClearForcedCode() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.forced = nil
}

// SetStuck holds DRDY high forever when stuck is true.
func (c *Chip) SetStuck(stuck bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stuck = stuck
}

// FailNext makes the next Tx or Transfer return err.
func (c *Chip) FailNext(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failNext = err
}

// Register returns the stored value of reg.
func (c *Chip) Register(reg ads1256.Register) byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readReg(byte(reg))
}

// SetRegister stores v in reg as if the chip had been programmed.
func (c *Chip) SetRegister(reg ads1256.Register, v byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writeReg(byte(reg), v)
}

// Frames returns a copy of every completed chip-select frame.
func (c *Chip) Frames() []Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Frame, len(c.frames))
	for i, f := range c.frames {
		out[i] = append(Frame(nil), f...)
	}
	return out
}

// ResetFrames forgets the recorded frames.
func (c *Chip) ResetFrames() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = nil
}

// SelfCalibrations counts the SELFCAL commands received.
func (c *Chip) SelfCalibrations() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selfCals
}

// Transactions counts completed Begin/End pairs.
func (c *Chip) Transactions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transaction
}

// BusConfig returns the settings applied by the last Begin.
func (c *Chip) BusConfig() ads1256.BusConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busCfg
}

// Err returns the protocol violations seen so far, joined.
func (c *Chip) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return errors.Join(c.violations...)
}

// Code returns the conversion result for the current multiplexer and gain.
func (c *Chip) Code() int32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.code()
}

func (c *Chip) violation(err error) error {
	c.violations = append(c.violations, err)
	return err
}

func (c *Chip) code() int32 {
	if c.forced != nil {
		return *c.forced
	}
	mux := c.regs[ads1256.RegMUX]
	vp := c.input(mux >> 4)
	vn := c.input(mux & 0x0F)
	gain := float64(ads1256.GainMultiplier(ads1256.Gain(c.regs[ads1256.RegADCON] & ads1256.AdconPGAMask)))
	code := math.Round((vp - vn) * gain / (2 * c.vref) * ads1256.FullScaleCode)
	return int32(max(min(code, ads1256.FullScaleCode), -ads1256.FullScaleCode-1))
}

func (c *Chip) input(sel byte) float64 {
	if int(sel) < len(c.inputs) {
		return c.inputs[sel]
	}
	return 0
}

func (c *Chip) readReg(reg byte) byte {
	if reg >= ads1256.NumRegisters {
		return 0
	}
	v := c.regs[reg]
	if reg == byte(ads1256.RegSTATUS) {
		v &^= ads1256.StatusDRDYbit
		if !c.drdyAsserted() {
			v |= ads1256.StatusDRDYbit
		}
	}
	return v
}

func (c *Chip) writeReg(reg, v byte) {
	switch ads1256.Register(reg) {
	case ads1256.RegSTATUS:
		// ID nibble and DRDY are read-only
		c.regs[reg] = c.regs[reg]&0xF0 | v&0x0E
	case ads1256.RegADCON:
		c.regs[reg] = v & 0x7F
	default:
		if reg < ads1256.NumRegisters {
			c.regs[reg] = v
		}
	}
}

func (c *Chip) drdyAsserted() bool {
	return c.powered && !c.stuck && c.drdyLow
}

// restart begins a new conversion; DRDY goes high until it completes.
func (c *Chip) restart() {
	c.drdyLow = c.settlePolls == 0
	c.settle = c.settlePolls
}

func (c *Chip) reset() {
	c.regs = resetRegisters
	c.state = stateIdle
	c.out = nil
	c.synced, c.standby, c.continuous = false, false, false
	c.restart()
}

func (c *Chip) String() string {
	return fmt.Sprintf("adssim.Chip{mux:0x%02X, adcon:0x%02X, drdy:%t}", c.regs[ads1256.RegMUX], c.regs[ads1256.RegADCON], c.drdyLow)
}

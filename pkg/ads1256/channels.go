package ads1256

import (
	"context"
	"fmt"
)

type Channel int

//goland:noinspection GoSnakeCaseUsage
const (
	CH_AIN0 Channel = iota
	CH_AIN1
	CH_AIN2
	CH_AIN3
	CH_AIN4
	CH_AIN5
	CH_AIN6
	CH_AIN7
	CH_AINCOM
)

func (c Channel) valid() bool {
	return c >= CH_AIN0 && c <= CH_AIN7
}

func (c Channel) String() string {
	switch {
	case c.valid():
		return fmt.Sprintf("CH_AIN%d", int(c))
	case c == CH_AINCOM:
		return "CH_AINCOM"
	default:
		return fmt.Sprintf("(invalid channel %d)", int(c))
	}
}

// ChannelPair is a simple struct that holds positive/negative channel identifiers.
type ChannelPair struct {
	Pos Channel
	Neg Channel
}

// SingleEnded pairs ch with AINCOM.
func SingleEnded(ch Channel) ChannelPair {
	return ChannelPair{Pos: ch, Neg: CH_AINCOM}
}

func (p ChannelPair) String() string {
	return p.Pos.String() + "-" + p.Neg.String()
}

// ChannelPolicy decides what happens to inputs outside AIN0..AIN7.
type ChannelPolicy uint8

const (
	// SubstituteCommon maps anything that is not AIN0..AIN7 to AINCOM.
	// Single-ended callers rely on it by passing AINCOM (or -1) as the
	// negative input.
	SubstituteCommon ChannelPolicy = iota
	// RejectInvalid fails with ErrInvalidChannel for anything that is
	// neither AIN0..AIN7 nor AINCOM.
	RejectInvalid
)

func (p ChannelPolicy) String() string {
	switch p {
	case SubstituteCommon:
		return "substitute-common"
	case RejectInvalid:
		return "reject-invalid"
	default:
		return fmt.Sprintf("ChannelPolicy(%d)", uint8(p))
	}
}

// nibble returns the 4 bit multiplexer selection for ch.
func (p ChannelPolicy) nibble(ch Channel) (byte, error) {
	if ch.valid() {
		return byte(ch), nil
	}
	if p == RejectInvalid && ch != CH_AINCOM {
		return 0, fmt.Errorf("%w: %d", ErrInvalidChannel, int(ch))
	}
	return MuxAINCOM, nil
}

// MuxByte encodes a positive/negative input pair into a MUX register value.
func (p ChannelPolicy) MuxByte(pos, neg Channel) (byte, error) {
	psel, err := p.nibble(pos)
	if err != nil {
		return 0, fmt.Errorf("positive input: %w", err)
	}
	nsel, err := p.nibble(neg)
	if err != nil {
		return 0, fmt.Errorf("negative input: %w", err)
	}
	return psel<<muxPShift | nsel, nil
}

// SetChannel selects ch against AINCOM (single-ended).
func (adc *ADS1256) SetChannel(ctx context.Context, ch Channel) error {
	return adc.SetDifferentialChannel(ctx, ch, CH_AINCOM)
}

// SetDifferentialChannel writes the multiplexer and restarts conversion with
// SYNC then WAKEUP, so the next result ready on DRDY belongs to the new
// inputs.
func (adc *ADS1256) SetDifferentialChannel(ctx context.Context, pos, neg Channel) error {
	adc.mu.Lock()
	defer adc.mu.Unlock()
	return adc.setChannel(ctx, pos, neg)
}

func (adc *ADS1256) setChannel(ctx context.Context, pos, neg Channel) error {
	muxVal, err := adc.policy.MuxByte(pos, neg)
	if err != nil {
		return err
	}

	adc.log.Trace().Stringer("pos", pos).Stringer("neg", neg).Msgf("writing to MUX: %08b", muxVal)

	if err = adc.writeRegister(RegMUX, muxVal); err != nil {
		return err
	}
	if err = adc.sendCommand(ctx, CMDSYNC); err != nil {
		return err
	}
	return adc.sendCommand(ctx, CMDWAKEUP)
}

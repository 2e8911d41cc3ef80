package ads1256

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// maxScanErrors stops a scan once this many errors have piled up.
const maxScanErrors = 50

// Reading is one conversion delivered by a scan.
type Reading struct {
	Pair  ChannelPair
	Code  int32
	Volts float64
	Time  time.Time
}

// DataCallback receives every Reading of a scan, in pair order.
type DataCallback func(r Reading)

// ChannelScan cycles through a list of channel pairs in the background.
type ChannelScan struct {
	// Interval is the time between the starts of two passes.
	Interval time.Duration
	done     *atomic.Bool
	running  *atomic.Bool
	finished chan struct{}
	pairs    []ChannelPair
	callback DataCallback
	err      []error
	errMu    sync.Mutex
}

func NewChannelScan(interval time.Duration, pairs []ChannelPair, onData DataCallback) *ChannelScan {
	return &ChannelScan{
		Interval: interval,
		done:     &atomic.Bool{},
		running:  &atomic.Bool{},
		finished: make(chan struct{}),
		pairs:    pairs,
		callback: onData,
		err:      make([]error, 0),
	}
}

func (cs *ChannelScan) addErr(err error) {
	if err == nil {
		return
	}
	cs.errMu.Lock()
	cs.err = append(cs.err, err)
	if len(cs.err) > maxScanErrors {
		cs.done.Store(true)
	}
	cs.errMu.Unlock()
}

// Err returns every error the scan has run into so far, joined.
func (cs *ChannelScan) Err() error {
	cs.errMu.Lock()
	defer cs.errMu.Unlock()
	if len(cs.err) == 0 {
		return nil
	}
	return fmt.Errorf("channel scan errors: %w", errors.Join(cs.err...))
}

// Stop asks the scan to finish after the pair in flight.
func (cs *ChannelScan) Stop() {
	cs.done.Store(true)
}

func (cs *ChannelScan) IsDone() bool {
	return cs.done.Load()
}

func (cs *ChannelScan) IsRunning() bool {
	return cs.running.Load()
}

// Wait blocks until the scan goroutine has exited or ctx is done, then
// returns Err.
func (cs *ChannelScan) Wait(ctx context.Context) error {
	select {
	case <-cs.finished:
		return cs.Err()
	case <-ctx.Done():
		return errors.Join(ctx.Err(), cs.Err())
	}
}

// scanChannelPairs makes one pass over the pairs. The driver lock is held
// per pair, so other callers can slip in between pairs but never between
// channel selection and readout.
func (adc *ADS1256) scanChannelPairs(ctx context.Context, cs *ChannelScan) {
	for _, chPair := range cs.pairs {
		if cs.done.Load() || ctx.Err() != nil {
			return
		}

		adc.mu.Lock()
		code, err := adc.singleConversion(ctx, chPair.Pos, chPair.Neg)
		volts := adc.volts(code)
		adc.mu.Unlock()

		if err != nil {
			if ctx.Err() == nil {
				cs.addErr(fmt.Errorf("%s: %w", chPair, err))
			}
			if errors.Is(err, ErrClosed) {
				cs.done.Store(true)
			}
			continue
		}

		cs.callback(Reading{
			Pair:  chPair,
			Code:  code,
			Volts: volts,
			Time:  time.Now(),
		})
	}
}

// ScanChannels cycles through a list of channel pairs, selecting each pair,
// waiting for its first conversion and reading it. onData is called after
// each read. A pass over all pairs is started every scanInterval.
//
// The scan runs on its own goroutine until ctx is done, Stop is called or
// too many errors have been collected.
func (adc *ADS1256) ScanChannels(
	ctx context.Context,
	scanInterval time.Duration,
	onData DataCallback,
	pairs ...ChannelPair,
) (*ChannelScan, error) {
	// Quick check that we have at least one channel pair.
	if len(pairs) == 0 {
		return nil, errors.New("no channels to scan")
	}
	if onData == nil {
		return nil, errors.New("no data callback")
	}

	for _, p := range pairs {
		if _, err := adc.policy.MuxByte(p.Pos, p.Neg); err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}

	chScan := NewChannelScan(scanInterval, pairs, onData)
	chScan.running.Store(true)

	go func() {
		defer close(chScan.finished)
		defer chScan.running.Store(false)

		ticker := time.NewTicker(max(chScan.Interval, time.Millisecond))
		defer ticker.Stop()

		for {
			adc.scanChannelPairs(ctx, chScan)
			if chScan.done.Load() {
				return
			}
			select {
			case <-ctx.Done():
				chScan.done.Store(true)
				return
			case <-ticker.C:
			}
		}
	}()

	return chScan, nil
}

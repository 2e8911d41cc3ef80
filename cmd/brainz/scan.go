package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yunginnanet/ads1256/pkg/ads1256"
)

func init() {
	scanCmd.Flags().Duration("interval", 0, "time between passes over the inputs")
	rootCmd.AddCommand(scanCmd)
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Print all eight single-ended inputs until interrupted",
	Args:  cobra.NoArgs,
	RunE:  scan,
}

func scan(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	adc, err := openADC(ctx, appCfg)
	if err != nil {
		return err
	}
	defer closeADC(adc)

	pairs := make([]ads1256.ChannelPair, 0, 8)
	for ch := ads1256.CH_AIN0; ch <= ads1256.CH_AIN7; ch++ {
		pairs = append(pairs, ads1256.SingleEnded(ch))
	}

	out := cmd.OutOrStdout()
	onData := scanPrinter(out, pairs)

	interval := appCfg.MustGet("interval").Duration()
	chScan, err := adc.ScanChannels(ctx, interval, onData, pairs...)
	if err != nil {
		return err
	}
	log.Info().Dur("interval", interval).Msg("scanning, interrupt to stop")

	// returns once interrupted or the scan gives up
	return chScan.Wait(context.Background())
}

// scanPrinter prints one row per pass. A row is started by the first pair,
// so readings left over from a pass whose last pair failed are dropped.
func scanPrinter(out io.Writer, pairs []ads1256.ChannelPair) ads1256.DataCallback {
	row := make([]string, 0, len(pairs))
	return func(r ads1256.Reading) {
		if r.Pair == pairs[0] {
			row = row[:0]
		}
		row = append(row, fmt.Sprintf("%d: %10s", r.Pair.Pos, volts(r.Volts)))
		if r.Pair == pairs[len(pairs)-1] {
			fmt.Fprintln(out, strings.Join(row, " | "))
			row = row[:0]
		}
	}
}

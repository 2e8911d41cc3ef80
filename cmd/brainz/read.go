package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"periph.io/x/conn/v3/physic"

	"github.com/yunginnanet/ads1256/pkg/ads1256"
)

func init() {
	readCmd.Flags().IntVarP(&readOpts.Count, "count", "n", 1, "number of conversions")
	readCmd.Flags().BoolVarP(&readOpts.Raw, "raw", "r", false, "print the raw code as well")
	rootCmd.AddCommand(readCmd)
}

var (
	readCmd = &cobra.Command{
		Use:   "read <pos> [neg]",
		Short: "Convert one input or input pair",
		Long: `Select the inputs, wait for a fresh conversion and print it. Inputs are 0-7
or AIN0-AIN7; the negative input defaults to AINCOM.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: read,
	}
	readOpts = struct {
		Count int
		Raw   bool
	}{}
)

func parseChannel(s string) (ads1256.Channel, error) {
	u := strings.ToUpper(strings.TrimSpace(s))
	if u == "AINCOM" || u == "COM" {
		return ads1256.CH_AINCOM, nil
	}
	n, err := strconv.Atoi(strings.TrimPrefix(u, "AIN"))
	if err != nil || n < 0 || n > 7 {
		return 0, fmt.Errorf("bad input %q", s)
	}
	return ads1256.Channel(n), nil
}

// volts formats v with periph's SI prefixes, e.g. 1.25V or -312.5mV.
func volts(v float64) string {
	return physic.ElectricPotential(v * float64(physic.Volt)).String()
}

func read(cmd *cobra.Command, args []string) error {
	pair := ads1256.SingleEnded(0)
	var err error
	if pair.Pos, err = parseChannel(args[0]); err != nil {
		return err
	}
	if len(args) > 1 {
		if pair.Neg, err = parseChannel(args[1]); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	adc, err := openADC(ctx, appCfg)
	if err != nil {
		return err
	}
	defer closeADC(adc)

	for i := 0; i < readOpts.Count; i++ {
		code, err := adc.ReadChannelRaw(ctx, pair.Pos, pair.Neg)
		if err != nil {
			return err
		}
		v := ads1256.ConvertADCtoVolts(code, adc.VRef(), adc.GainMultiplier()) * adc.ConversionFactor()
		line := fmt.Sprintf("%s %s", pair, volts(v))
		if readOpts.Raw {
			line += fmt.Sprintf(" (0x%06X)", uint32(code)&0xFFFFFF)
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
		log.Trace().Time("at", time.Now()).Int32("code", code).Msg("read")
	}
	return nil
}

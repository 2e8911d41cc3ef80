// brainz reads an ADS1256 through an FT232H, a Linux spidev port or the
// built-in simulator.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var log zerolog.Logger

func init() {
	cw := zerolog.ConsoleWriter{Out: os.Stdout}
	log = zerolog.New(cw).With().Timestamp().Logger()

	pf := rootCmd.PersistentFlags()
	pf.StringP("bus", "b", "", "transport: ft232h, spidev or sim")
	pf.String("port", "", "spidev port, e.g. /dev/spidev0.0 (first found if empty)")
	pf.String("chip", "", "GPIO chip for the spidev control lines")
	pf.Int("ft-index", 0, "FT232H index")
	pf.String("ft-serial", "", "FT232H serial number, overrides --ft-index")
	pf.Int("cs", -1, "chip select pin (backend default if negative)")
	pf.Int("drdy", -1, "data ready pin (backend default if negative)")
	pf.Int("pwdn", -1, "power down pin (backend default if negative)")
	pf.Int("reset", -1, "reset pin (backend default if negative)")
	pf.Bool("use-reset", false, "drive the RESET pin")
	pf.Uint32("clock", 0, "SCLK in Hz")
	pf.Float64("vref", 0, "reference voltage")
	pf.Float64("drate", 0, "data rate in samples per second")
	pf.Int("gain", 0, "PGA gain: 1, 2, 4, 8, 16, 32 or 64")
	pf.Bool("buffer", false, "enable the input buffer")
	pf.Duration("timeout", 0, "DRDY timeout")
	pf.Float64("factor", 0, "conversion factor applied to every voltage")
	pf.StringP("log-level", "l", "", "log level")
}

var rootCmd = &cobra.Command{
	Use:   "brainz",
	Short: "brainz reads an ADS1256 ADC",
	Long: `brainz talks to a TI ADS1256 over an FTDI FT232H, a Linux spidev port or a
simulated chip. Every flag can also be set in the environment with the
ADS1256_ prefix, e.g. ADS1256_BUS=sim.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(cmd)
		lvl, err := zerolog.ParseLevel(cfg.MustGet("loglevel").String())
		if err != nil {
			return fmt.Errorf("bad log level: %w", err)
		}
		log = log.Level(lvl)
		appCfg = cfg
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("brainz")
		os.Exit(1)
	}
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/yunginnanet/ads1256/pkg/ads1256"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Initialize the ADC and show its STATUS register",
	Args:  cobra.NoArgs,
	RunE:  status,
}

func status(cmd *cobra.Command, args []string) error {
	adc, err := openADC(cmd.Context(), appCfg)
	if err != nil {
		return err
	}
	defer closeADC(adc)

	st, err := adc.GetStatus(cmd.Context())
	if err != nil {
		return err
	}

	log.Info().
		Hex("status", []byte{st}).
		Uint8("id", st>>4).
		Bool("lsb_first", st&ads1256.StatusORDERbit != 0).
		Bool("auto_cal", st&ads1256.StatusACALbit != 0).
		Bool("buffer", st&ads1256.StatusBUFENbit != 0).
		Bool("drdy", st&ads1256.StatusDRDYbit == 0).
		Msg("ADS1256 status")
	return nil
}

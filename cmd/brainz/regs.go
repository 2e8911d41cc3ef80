package main

import (
	"github.com/spf13/cobra"

	"github.com/yunginnanet/ads1256/pkg/ads1256"
)

func init() {
	rootCmd.AddCommand(regsCmd)
}

var regsCmd = &cobra.Command{
	Use:   "regs",
	Short: "Dump the register map",
	Args:  cobra.NoArgs,
	RunE:  regs,
}

func regs(cmd *cobra.Command, args []string) error {
	adc, err := openADC(cmd.Context(), appCfg)
	if err != nil {
		return err
	}
	defer closeADC(adc)

	values, err := adc.ReadAllRegisters()
	if err != nil {
		return err
	}

	ev := log.Info()
	for reg := ads1256.Register(0); reg < ads1256.NumRegisters; reg++ {
		ev = ev.Hex(reg.String(), []byte{values[reg]})
	}
	ev.Msg("ADS1256 registers")
	return nil
}

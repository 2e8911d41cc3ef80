package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/warthog618/config"
	"github.com/warthog618/config/dict"
	"github.com/warthog618/config/env"

	"github.com/yunginnanet/ads1256/pkg/ads1256"
)

var appCfg *config.Config

func defaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"bus":      "ft232h",
		"port":     "",
		"chip":     "gpiochip0",
		"ftindex":  0,
		"ftserial": "",
		"cs":       -1,
		"drdy":     -1,
		"pwdn":     -1,
		"reset":    -1,
		"usereset": false,
		"clock":    ads1256.DefaultClock,
		"vref":     ads1256.DefaultVRef,
		"drate":    1000,
		"gain":     1,
		"buffer":   false,
		"timeout":  ads1256.DefaultDRDYTimeout.String(),
		"factor":   1.0,
		"loglevel": "info",
		"interval": "500ms",
	}
}

// flagKey maps a flag name onto its config key, e.g. ft-index -> ftindex.
func flagKey(name string) string {
	return strings.ReplaceAll(name, "-", "")
}

// loadConfig layers flags set on the command line over ADS1256_* environment
// variables over the defaults.
func loadConfig(cmd *cobra.Command) *config.Config {
	set := map[string]interface{}{}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		set[flagKey(f.Name)] = f.Value.String()
	})

	cfg := config.New(
		dict.New(dict.WithMap(set)),
		env.New(env.WithEnvPrefix("ADS1256_")),
		config.WithDefault(dict.New(dict.WithMap(defaultConfig()))))
	return cfg.GetConfig("", config.WithMust())
}

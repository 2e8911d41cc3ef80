package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yunginnanet/ads1256/pkg/ads1256"
)

func TestParseChannel(t *testing.T) {
	for in, want := range map[string]ads1256.Channel{
		"0":      ads1256.CH_AIN0,
		"7":      ads1256.CH_AIN7,
		"AIN3":   ads1256.CH_AIN3,
		"ain5":   ads1256.CH_AIN5,
		"AINCOM": ads1256.CH_AINCOM,
		"com":    ads1256.CH_AINCOM,
	} {
		got, err := parseChannel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, bad := range []string{"8", "-1", "AIN9", "x", ""} {
		_, err := parseChannel(bad)
		assert.Error(t, err, bad)
	}
}

func TestFlagKey(t *testing.T) {
	assert.Equal(t, "ftindex", flagKey("ft-index"))
	assert.Equal(t, "loglevel", flagKey("log-level"))
	assert.Equal(t, "bus", flagKey("bus"))
}

func TestVolts(t *testing.T) {
	assert.Equal(t, "1.250V", volts(1.25))
	assert.Equal(t, "0V", volts(0))
}

func TestReadSimulated(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--bus", "sim", "--log-level", "warn", "read", "AIN5", "--raw", "-n", "2"})
	require.NoError(t, rootCmd.Execute())

	lines := bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	for _, l := range lines {
		assert.Contains(t, string(l), "CH_AIN5-CH_AINCOM")
		assert.Contains(t, string(l), "(0x199999)")
	}
}

func TestScanPrinter(t *testing.T) {
	pairs := []ads1256.ChannelPair{
		ads1256.SingleEnded(ads1256.CH_AIN0),
		ads1256.SingleEnded(ads1256.CH_AIN1),
	}
	var out bytes.Buffer
	onData := scanPrinter(&out, pairs)

	// first pass loses AIN1, nothing is printed for it
	onData(ads1256.Reading{Pair: pairs[0], Volts: 0.5})
	assert.Empty(t, out.String())

	onData(ads1256.Reading{Pair: pairs[0], Volts: 0.1})
	onData(ads1256.Reading{Pair: pairs[1], Volts: 0.2})
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 1)
	assert.Equal(t, 2, strings.Count(lines[0], ": "))
	assert.Contains(t, lines[0], volts(0.1))
	assert.NotContains(t, lines[0], volts(0.5))
}

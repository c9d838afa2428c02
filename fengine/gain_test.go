package fengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casm-project/snapfleet/fengine"
)

func TestGainCodeCoversEnumeratedSet(t *testing.T) {
	seen := map[uint8]bool{}
	for _, gain := range fengine.SupportedGains() {
		code, err := fengine.GainCode(gain)
		require.NoError(t, err, "gain %v should be supported", gain)
		assert.False(t, seen[code], "code %d assigned twice", code)
		assert.Less(t, code, uint8(16), "code must fit in 4 bits")
		seen[code] = true
	}
}

func TestGainCodeRejectsUnlistedGain(t *testing.T) {
	for _, gain := range []float64{0, 15, 3, 64, -1, 2.4999} {
		_, err := fengine.GainCode(gain)
		require.Error(t, err, "gain %v must be rejected", gain)

		var cfgErr *fengine.ConfigurationError
		assert.ErrorAs(t, err, &cfgErr)
	}
}

func TestParseInputMode(t *testing.T) {
	cases := []struct {
		name string
		want fengine.InputMode
	}{
		{"", fengine.ModeLive},
		{"live", fengine.ModeLive},
		{"zero", fengine.ModeZero},
		{"noise", fengine.ModeNoise},
		{"counter", fengine.ModeCounter},
	}
	for _, c := range cases {
		mode, err := fengine.ParseInputMode(c.name)
		require.NoError(t, err)
		assert.Equal(t, c.want, mode)
	}

	_, err := fengine.ParseInputMode("ramp")
	assert.Error(t, err)
}

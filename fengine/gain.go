package fengine

import "fmt"

// adcGainCodes maps each supported ADC gain multiplier to its 4-bit
// front-end code. The set is fixed by the ADC silicon; any other value is
// a configuration error.
var adcGainCodes = map[float64]uint8{
	1:    0,
	1.25: 1,
	2:    2,
	2.5:  3,
	4:    4,
	5:    5,
	8:    6,
	10:   7,
	12.5: 8,
	16:   9,
	20:   10,
	25:   11,
	32:   12,
	50:   13,
}

// GainCode translates a requested ADC gain to its 4-bit code. Gains
// outside the enumerated set are rejected before any hardware access.
func GainCode(gain float64) (uint8, error) {
	code, ok := adcGainCodes[gain]
	if !ok {
		return 0, &ConfigurationError{
			Field:  "adc_gain",
			Reason: fmt.Sprintf("%v is not a supported ADC gain", gain),
		}
	}
	return code, nil
}

// SupportedGains returns the enumerated ADC gain set in ascending order.
func SupportedGains() []float64 {
	return []float64{1, 1.25, 2, 2.5, 4, 5, 8, 10, 12.5, 16, 20, 25, 32, 50}
}

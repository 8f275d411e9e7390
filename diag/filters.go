// SPDX-License-Identifier: GPL-3.0-or-later

package diag

import (
	"fmt"
	"math"

	"github.com/Santipap250/configdoctor/dump"
)

// filterMode records which resolution path produced an effective cutoff.
type filterMode int8

const (
	filterAbsent filterMode = iota
	filterDynamic
	filterSimplified
	filterStatic
)

func (m filterMode) String() string {
	switch m {
	case filterDynamic:
		return "dynamic"
	case filterSimplified:
		return "simplified"
	case filterStatic:
		return "static"
	default:
		return "absent"
	}
}

// filterChain describes how one lowpass family resolves its effective
// cutoff. The same logical setting has been renamed across firmware
// releases, so static keys are probed newest first. In simplified tuning
// mode the cutoff is not read from any key but derived from the slider
// multiplier against a fixed reference frequency.
type filterChain struct {
	name        string
	dynMinKey   string
	modeKey     string
	multKey     string
	referenceHz float64
	staticKeys  []string

	highInfoHz float64
	highWarnHz float64
	lowWarnHz  float64
}

var gyroFilterChain = filterChain{
	name:        "gyro",
	dynMinKey:   "gyro_lpf1_dyn_min_hz",
	modeKey:     "simplified_gyro_filter",
	multKey:     "simplified_gyro_filter_multiplier",
	referenceHz: 250,
	staticKeys:  []string{"gyro_lpf1_hz", "gyro_lpf1_static_hz", "gyro_lowpass_hz"},
	highInfoHz:  350,
	highWarnHz:  500,
	lowWarnHz:   80,
}

var dtermFilterChain = filterChain{
	name:        "dterm",
	dynMinKey:   "dterm_lpf1_dyn_min_hz",
	modeKey:     "simplified_dterm_filter",
	multKey:     "simplified_dterm_filter_multiplier",
	referenceHz: 150,
	staticKeys:  []string{"dterm_lpf1_hz", "dterm_lpf1_static_hz", "dterm_lowpass_hz"},
	highInfoHz:  200,
	highWarnHz:  300,
	lowWarnHz:   60,
}

// resolve returns the effective cutoff. Precedence: nonzero dynamic
// minimum, then the simplified formula, then the static alias chain.
func (fc filterChain) resolve(d *dump.Dump) (float64, filterMode) {
	if num, ok := d.Num(fc.dynMinKey); ok && num != 0 {
		return num, filterDynamic
	}

	if mode, ok := d.Value(fc.modeKey); ok && isEnabled(mode) {
		if mult, ok := d.Num(fc.multKey); ok {
			return math.Round(mult / 100 * fc.referenceHz), filterSimplified
		}
	}

	for _, key := range fc.staticKeys {
		if num, ok := d.Num(key); ok {
			return num, filterStatic
		}
	}

	return 0, filterAbsent
}

// fields names the keys behind the effective value, for the finding.
func (fc filterChain) fields(mode filterMode) []string {
	switch mode {
	case filterDynamic:
		return []string{fc.dynMinKey}
	case filterSimplified:
		return []string{fc.modeKey, fc.multKey}
	default:
		return fc.staticKeys
	}
}

func checkGyroFilter(d *dump.Dump, _ dump.Firmware) []Finding {
	return checkFilterCutoff(d, gyroFilterChain)
}

func checkDtermFilter(d *dump.Dump, _ dump.Firmware) []Finding {
	return checkFilterCutoff(d, dtermFilterChain)
}

func checkFilterCutoff(d *dump.Dump, fc filterChain) []Finding {
	hz, mode := fc.resolve(d)
	// A zero cutoff disables the stage entirely, that is a tuning choice,
	// not a threshold violation.
	if mode == filterAbsent || hz == 0 {
		return nil
	}

	switch {
	case hz > fc.highInfoHz:
		sev := SeverityInfo
		if hz > fc.highWarnHz {
			sev = SeverityWarning
		}
		return []Finding{{
			ID:         fc.name + "_filter_high",
			Severity:   sev,
			Message:    fmt.Sprintf("effective %s lowpass cutoff is %g Hz (%s mode), well above the usual range", fc.name, hz, mode),
			Suggestion: "lower the cutoff or the simplified tuning multiplier, high cutoffs pass motor noise through",
			Fields:     fc.fields(mode),
		}}
	case hz < fc.lowWarnHz:
		return []Finding{{
			ID:         fc.name + "_filter_low",
			Severity:   SeverityWarning,
			Message:    fmt.Sprintf("effective %s lowpass cutoff is %g Hz (%s mode), heavy filtering adds latency", fc.name, hz, mode),
			Suggestion: "raise the cutoff or clean up the motor noise that forced it down",
			Fields:     fc.fields(mode),
		}}
	}
	return nil
}

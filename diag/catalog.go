// SPDX-License-Identifier: GPL-3.0-or-later

package diag

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/Santipap250/configdoctor/dump"
)

// The catalog runs in this order, grouped by category. Finding order in a
// report follows it.
var catalog = []Rule{
	{ID: "min_throttle", Category: "power", Check: checkMinThrottle},
	{ID: "failsafe", Category: "failsafe", Check: checkFailsafe},
	{ID: "looptime", Category: "timing", Check: checkLooptime},
	{ID: "gyro_rate", Category: "timing", Check: checkGyroRate},
	{ID: "pid_extremes", Category: "pid", Check: checkPIDExtremes},
	{ID: "esc_protocol", Category: "esc", Check: checkESCProtocol},
	{ID: "dshot_bidir", Category: "esc", Check: checkDshotBidir},
	{ID: "gyro_filter", Category: "filter", Check: checkGyroFilter},
	{ID: "dterm_filter", Category: "filter", Check: checkDtermFilter},
	{ID: "filter_present", Category: "filter", Check: checkFilterPresent},
	{ID: "serial_telemetry", Category: "peripheral", Check: checkSerialTelemetry},
	{ID: "vtx", Category: "peripheral", Check: checkVTX},
	{ID: "arming", Category: "peripheral", Check: checkArming},
}

// Historical names for the idle throttle command, probed in order. The
// first numeric candidate decides, later ones are ignored.
var minThrottleKeys = []string{"min_throttle", "mincommand", "min_throttle_percent", "min_throttle_raise"}

func checkMinThrottle(d *dump.Dump, _ dump.Firmware) []Finding {
	for _, key := range minThrottleKeys {
		v, ok := d.Value(key)
		if !ok {
			continue
		}
		num, ok := v.Num()
		if !ok {
			continue
		}

		switch {
		case num < 1000:
			return []Finding{{
				ID:         "min_throttle_low",
				Severity:   SeverityWarning,
				Message:    fmt.Sprintf("%s is low (%s), motors can stutter at idle and some stacks refuse to arm", key, v),
				Suggestion: "raise min_throttle / min_command to around 1000-1020 for your ESC and motors, then hover test",
				Fields:     []string{key},
			}}
		case num > 1100:
			sev := SeverityInfo
			if num > 1200 {
				sev = SeverityWarning
			}
			return []Finding{{
				ID:         "min_throttle_high",
				Severity:   sev,
				Message:    fmt.Sprintf("%s is high (%s), the usable throttle range is squeezed toward the endpoint", key, v),
				Suggestion: "lower it a little and retest if the throttle feels dead at the bottom",
				Fields:     []string{key},
			}}
		}
		return nil
	}
	return nil
}

func checkFailsafe(d *dump.Dump, _ dump.Firmware) []Finding {
	hasKey := false
	for k := range d.Settings {
		if strings.Contains(k, "failsafe") {
			hasKey = true
			break
		}
	}

	if !hasKey && !containsAny(d.RawText(), "failsafe") {
		return []Finding{{
			ID:         "no_failsafe",
			Severity:   SeverityWarning,
			Message:    "no failsafe configuration found in the dump",
			Suggestion: "set a failsafe action (land or drop), failsafe_delay and failsafe_throttle before flying",
		}}
	}

	// First present throttle key decides, same as the idle throttle probe.
	for _, key := range []string{"failsafe_throttle", "failsafe_throttle_percent"} {
		v, ok := d.Value(key)
		if !ok {
			continue
		}
		if num, ok := v.Num(); ok && num > 1200 {
			return []Finding{{
				ID:         "failsafe_throttle_high",
				Severity:   SeverityWarning,
				Message:    fmt.Sprintf("%s is high (%s), the craft may climb away instead of coming down on signal loss", key, v),
				Suggestion: "set failsafe_throttle low enough for the chosen failsafe action to bring the craft down",
				Fields:     []string{key},
			}}
		}
		break
	}
	return nil
}

func checkLooptime(d *dump.Dump, _ dump.Firmware) []Finding {
	v, ok := d.Value("looptime")
	if !ok {
		return nil
	}
	num, ok := v.Num()
	if !ok {
		return nil
	}

	var findings []Finding
	if num < 1000 {
		findings = append(findings, Finding{
			ID:         "looptime_low",
			Severity:   SeverityWarning,
			Message:    fmt.Sprintf("looptime is low (%s us), some ESC and CPU combinations cannot keep up", v),
			Suggestion: "raise looptime toward 1000-2000 if the craft shows instability",
			Fields:     []string{"looptime"},
		})
	}
	if num > 4000 {
		findings = append(findings, Finding{
			ID:         "looptime_high",
			Severity:   SeverityWarning,
			Message:    fmt.Sprintf("looptime is high (%s us), control latency goes up", v),
			Suggestion: "lower looptime for less input lag, watch the CPU load",
			Fields:     []string{"looptime"},
		})
	}
	return findings
}

var gyroRateKeys = []string{"gyro_sample_rate", "gyro_hz"}

func checkGyroRate(d *dump.Dump, _ dump.Firmware) []Finding {
	for _, key := range gyroRateKeys {
		num, ok := d.Num(key)
		if !ok {
			continue
		}
		if num < 1000 {
			v, _ := d.Value(key)
			return []Finding{{
				ID:         "gyro_rate_low",
				Severity:   SeverityInfo,
				Message:    fmt.Sprintf("%s is low (%s Hz), stick response may suffer", key, v),
				Suggestion: "match the gyro sample rate to what the loop rate and firmware support",
				Fields:     []string{key},
			}}
		}
	}
	return nil
}

// A PID axis key: a bare term letter with an optional axis suffix
// (p_roll, i_pitch, dx). Anything starting with "pid" is also inspected.
var rePIDAxis = regexp.MustCompile(`^(p|i|d)_?(roll|pitch|yaw|[xyz])?$`)

// Per-term gain ceilings. The integral term legitimately runs far higher
// than the proportional or derivative terms on modern firmware, so the
// ceiling is picked by the key's first letter, never globally.
const (
	pHighThreshold = 100
	dHighThreshold = 80
	iHighThreshold = 130
	// Before the 4.4 era the integral term ran in the same range as the
	// proportional term.
	iHighThresholdLegacy = 100
)

func checkPIDExtremes(d *dump.Dump, fw dump.Firmware) []Finding {
	var keys []string
	for k := range d.Settings {
		if rePIDAxis.MatchString(k) || strings.HasPrefix(k, "pid") {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	iHigh := float64(iHighThreshold)
	if fw.Family != dump.FamilyUnknown && fw.Version != nil && !fw.Modern {
		iHigh = iHighThresholdLegacy
	}

	var findings []Finding
	for _, key := range keys {
		v, _ := d.Value(key)
		num, ok := v.Num()
		if !ok {
			continue
		}

		threshold := float64(pHighThreshold)
		switch key[0] {
		case 'i':
			threshold = iHigh
		case 'd':
			threshold = dHighThreshold
		}

		if num > threshold {
			findings = append(findings, Finding{
				ID:         "pid_high_" + key,
				Severity:   SeverityCritical,
				Message:    fmt.Sprintf("%s is very high (%s), oscillation and hot motors are likely (threshold %.0f)", key, v, threshold),
				Suggestion: "lower the gain, or restore the previous value if this came from a bad import, then test fly",
				Fields:     []string{key},
			})
		}
		if num == 0 {
			findings = append(findings, Finding{
				ID:         "pid_zero_" + key,
				Severity:   SeverityInfo,
				Message:    fmt.Sprintf("%s = 0, the axis runs without this term", key),
				Suggestion: "confirm the zero is intentional",
				Fields:     []string{key},
			})
		}
	}
	return findings
}

var escTokens = []string{"dshot", "oneshot", "multishot", "brushed"}

func checkESCProtocol(d *dump.Dump, _ dump.Firmware) []Finding {
	raw := d.RawText()
	for _, tok := range escTokens {
		if containsAny(raw, tok) {
			return []Finding{{
				ID:         "esc_protocol_detected",
				Severity:   SeverityInfo,
				Message:    fmt.Sprintf("ESC protocol hint found: %s", tok),
				Suggestion: "confirm the ESCs actually support the configured protocol and speed",
			}}
		}
	}
	return nil
}

func checkDshotBidir(d *dump.Dump, _ dump.Firmware) []Finding {
	bidir, ok := d.Value("dshot_bidir")
	if !ok || !isEnabled(bidir) {
		return nil
	}
	proto, ok := d.Value("motor_pwm_protocol")
	if !ok {
		return nil
	}

	p := strings.ToLower(proto.String())
	if strings.HasPrefix(p, "dshot") || strings.HasPrefix(p, "proshot") {
		return nil
	}

	return []Finding{{
		ID:         "dshot_bidir_incompatible",
		Severity:   SeverityDanger,
		Message:    fmt.Sprintf("dshot_bidir is enabled but motor_pwm_protocol is %s, bidirectional telemetry needs a DShot protocol", proto),
		Suggestion: "switch motor_pwm_protocol to a DShot variant or turn dshot_bidir off",
		Fields:     []string{"dshot_bidir", "motor_pwm_protocol"},
	}}
}

func checkFilterPresent(d *dump.Dump, _ dump.Firmware) []Finding {
	hasRPMKey := false
	for k := range d.Settings {
		if strings.Contains(k, "rpm") {
			hasRPMKey = true
			break
		}
	}
	if !hasRPMKey && !containsAny(d.RawText(), "rpm_filter", "dterm_notch", "biquad") {
		return nil
	}
	return []Finding{{
		ID:         "filter_present",
		Severity:   SeverityInfo,
		Message:    "rpm filter / notch filter configuration found",
		Suggestion: "make sure the filter setup matches the motors and props",
	}}
}

func checkSerialTelemetry(d *dump.Dump, _ dump.Firmware) []Finding {
	for k := range d.Settings {
		if strings.HasPrefix(k, "serial") || strings.Contains(k, "telemetry") || strings.Contains(k, "uart") {
			return nil
		}
	}
	if containsAny(d.RawText(), "serial", "telemetry", "uart", "serialrx", "receiver") {
		return nil
	}
	return []Finding{{
		ID:         "no_serial_telemetry",
		Severity:   SeverityInfo,
		Message:    "no serial, telemetry or receiver configuration found in the dump",
		Suggestion: "configure the receiver and telemetry ports if this craft uses them",
	}}
}

func checkVTX(d *dump.Dump, _ dump.Firmware) []Finding {
	if !containsAny(d.RawText(), "vtx", "smartaudio", "tbs_tramp", "tramp", "pitmode", "vtx_power") {
		return nil
	}
	return []Finding{{
		ID:         "vtx_config",
		Severity:   SeverityInfo,
		Message:    "video transmitter tokens found (SmartAudio / Tramp)",
		Suggestion: "check power, band and pitmode against the hardware and local rules",
	}}
}

func checkArming(d *dump.Dump, _ dump.Firmware) []Finding {
	if !containsAny(d.RawText(), "arm_disabled", "arming_disabled", "arm:") {
		return nil
	}
	return []Finding{{
		ID:         "arming_flags",
		Severity:   SeverityInfo,
		Message:    "arming related flags found in the dump",
		Suggestion: "review arming switches, low voltage cutoffs and safety settings",
	}}
}

func containsAny(text string, tokens ...string) bool {
	text = strings.ToLower(text)
	for _, tok := range tokens {
		if strings.Contains(text, tok) {
			return true
		}
	}
	return false
}

// Enabled flags come in several dialects across firmware families.
func isEnabled(v dump.Value) bool {
	switch strings.ToLower(v.String()) {
	case "on", "1", "true":
		return true
	}
	return false
}

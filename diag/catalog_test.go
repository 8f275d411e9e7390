// SPDX-License-Identifier: GPL-3.0-or-later

package diag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Santipap250/configdoctor/dump"
)

func legacyFirmware() dump.Firmware {
	return dump.DetectFirmware("# Betaflight / OMNIBUSF4SD (OBSD) 3.5.7 Mar 16 2019")
}

func modernFirmware() dump.Firmware {
	return dump.DetectFirmware("# Betaflight / STM32F7X2 (S7X2) 4.4.2 Jun  1 2023")
}

func findingIDs(findings []Finding) []string {
	var ids []string
	for _, f := range findings {
		ids = append(ids, f.ID)
	}
	return ids
}

func TestCheckMinThrottle(t *testing.T) {
	tests := map[string]struct {
		input   string
		wantID  string
		wantSev Severity
	}{
		"low":                 {input: "set min_throttle = 980", wantID: "min_throttle_low", wantSev: SeverityWarning},
		"high":                {input: "set min_throttle = 1150", wantID: "min_throttle_high", wantSev: SeverityInfo},
		"very high escalates": {input: "set min_throttle = 1250", wantID: "min_throttle_high", wantSev: SeverityWarning},
		"nominal":             {input: "set min_throttle = 1050"},
		"boundary low":        {input: "set min_throttle = 1000"},
		"boundary high":       {input: "set min_throttle = 1100"},
		"mincommand fallback": {input: "set mincommand = 900", wantID: "min_throttle_low", wantSev: SeverityWarning},
		"first numeric decides": {input: "set min_throttle = auto\nset mincommand = 950", wantID: "min_throttle_low", wantSev: SeverityWarning},
		"absent":              {input: "set p_roll = 45"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			findings := checkMinThrottle(dump.Parse(test.input), dump.Firmware{})

			if test.wantID == "" {
				assert.Empty(t, findings)
				return
			}
			require.Len(t, findings, 1)
			assert.Equal(t, test.wantID, findings[0].ID)
			assert.Equal(t, test.wantSev, findings[0].Severity)
		})
	}
}

func TestCheckFailsafe(t *testing.T) {
	tests := map[string]struct {
		input  string
		wantID string
	}{
		"missing entirely":     {input: "set p_roll = 45", wantID: "no_failsafe"},
		"token in raw text":    {input: "# failsafe configured in the GUI"},
		"key present":          {input: "set failsafe_delay = 4"},
		"throttle high":        {input: "set failsafe_throttle = 1300", wantID: "failsafe_throttle_high"},
		"throttle boundary":    {input: "set failsafe_throttle = 1200"},
		"percent key high":     {input: "set failsafe_throttle_percent = 1400", wantID: "failsafe_throttle_high"},
		"first present decides": {input: "set failsafe_throttle = auto\nset failsafe_throttle_percent = 1400"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			findings := checkFailsafe(dump.Parse(test.input), dump.Firmware{})

			if test.wantID == "" {
				assert.Empty(t, findings)
				return
			}
			require.Len(t, findings, 1)
			assert.Equal(t, test.wantID, findings[0].ID)
			assert.Equal(t, SeverityWarning, findings[0].Severity)
		})
	}
}

func TestCheckLooptime(t *testing.T) {
	tests := map[string]struct {
		input   string
		wantIDs []string
	}{
		"low":           {input: "set looptime = 500", wantIDs: []string{"looptime_low"}},
		"high":          {input: "set looptime = 4500", wantIDs: []string{"looptime_high"}},
		"nominal":       {input: "set looptime = 2000"},
		"boundary low":  {input: "set looptime = 1000"},
		"boundary high": {input: "set looptime = 4000"},
		"non numeric":   {input: "set looptime = auto"},
		"absent":        {input: "set p_roll = 45"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			findings := checkLooptime(dump.Parse(test.input), dump.Firmware{})
			assert.Equal(t, test.wantIDs, findingIDs(findings))
		})
	}
}

func TestCheckGyroRate(t *testing.T) {
	tests := map[string]struct {
		input   string
		wantIDs []string
	}{
		"sample rate low":     {input: "set gyro_sample_rate = 800", wantIDs: []string{"gyro_rate_low"}},
		"gyro hz low":         {input: "set gyro_hz = 900", wantIDs: []string{"gyro_rate_low"}},
		"nominal":             {input: "set gyro_sample_rate = 2000"},
		"second key can fire": {input: "set gyro_sample_rate = 2000\nset gyro_hz = 800", wantIDs: []string{"gyro_rate_low"}},
		"absent":              {input: "set p_roll = 45"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			findings := checkGyroRate(dump.Parse(test.input), dump.Firmware{})
			assert.Equal(t, test.wantIDs, findingIDs(findings))
		})
	}
}

func TestCheckPIDExtremes(t *testing.T) {
	tests := map[string]struct {
		input   string
		fw      dump.Firmware
		wantIDs []string
	}{
		"p at threshold":        {input: "set p_roll = 100"},
		"p above threshold":     {input: "set p_roll = 101", wantIDs: []string{"pid_high_p_roll"}},
		"i within its range":    {input: "set i_roll = 125"},
		"p fires where i would not": {input: "set p_roll = 125", wantIDs: []string{"pid_high_p_roll"}},
		"i above its range":     {input: "set i_roll = 131", wantIDs: []string{"pid_high_i_roll"}},
		"d above its range":     {input: "set d_pitch = 81", wantIDs: []string{"pid_high_d_pitch"}},
		"zero term":             {input: "set d_yaw = 0", wantIDs: []string{"pid_zero_d_yaw"}},
		"axis letter key":       {input: "set dx = 90", wantIDs: []string{"pid_high_dx"}},
		"pid prefix key":        {input: "set pid_process_denom = 0", wantIDs: []string{"pid_zero_pid_process_denom"}},
		"pitch is not a pid key": {input: "set pitch = 500"},
		"non numeric skipped":   {input: "set p_roll = auto"},
		"multiple findings sorted by key": {
			input:   "set p_roll = 120\nset d_roll = 90\nset i_roll = 80",
			wantIDs: []string{"pid_high_d_roll", "pid_high_p_roll"},
		},
		"legacy era lowers i threshold": {
			input:   "set i_roll = 120",
			fw:      legacyFirmware(),
			wantIDs: []string{"pid_high_i_roll"},
		},
		"modern era keeps i threshold": {
			input: "set i_roll = 120",
			fw:    modernFirmware(),
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			findings := checkPIDExtremes(dump.Parse(test.input), test.fw)
			assert.Equal(t, test.wantIDs, findingIDs(findings))

			for _, f := range findings {
				if strings.HasPrefix(f.ID, "pid_high_") {
					assert.Equal(t, SeverityCritical, f.Severity)
				}
			}
		})
	}
}

func TestCheckESCProtocol(t *testing.T) {
	tests := map[string]struct {
		input       string
		wantMessage string
	}{
		"dshot":             {input: "set motor_pwm_protocol = DSHOT600", wantMessage: "ESC protocol hint found: dshot"},
		"oneshot":           {input: "set motor_pwm_protocol = ONESHOT125", wantMessage: "ESC protocol hint found: oneshot"},
		"brushed":           {input: "# brushed micro build", wantMessage: "ESC protocol hint found: brushed"},
		"dshot wins over oneshot": {input: "# oneshot fallback\nset motor_pwm_protocol = DSHOT300", wantMessage: "ESC protocol hint found: dshot"},
		"none":              {input: "set p_roll = 45"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			findings := checkESCProtocol(dump.Parse(test.input), dump.Firmware{})

			if test.wantMessage == "" {
				assert.Empty(t, findings)
				return
			}
			require.Len(t, findings, 1)
			assert.Equal(t, "esc_protocol_detected", findings[0].ID)
			assert.Equal(t, test.wantMessage, findings[0].Message)
		})
	}
}

func TestCheckDshotBidir(t *testing.T) {
	tests := map[string]struct {
		input    string
		wantFire bool
	}{
		"enabled with analog protocol": {
			input:    "set dshot_bidir = ON\nset motor_pwm_protocol = ONESHOT125",
			wantFire: true,
		},
		"enabled numeric flag": {
			input:    "set dshot_bidir = 1\nset motor_pwm_protocol = MULTISHOT",
			wantFire: true,
		},
		"enabled with dshot":   {input: "set dshot_bidir = ON\nset motor_pwm_protocol = DSHOT600"},
		"enabled with proshot": {input: "set dshot_bidir = ON\nset motor_pwm_protocol = PROSHOT1000"},
		"disabled":             {input: "set dshot_bidir = OFF\nset motor_pwm_protocol = ONESHOT125"},
		"protocol absent":      {input: "set dshot_bidir = ON"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			findings := checkDshotBidir(dump.Parse(test.input), dump.Firmware{})

			if !test.wantFire {
				assert.Empty(t, findings)
				return
			}
			require.Len(t, findings, 1)
			assert.Equal(t, "dshot_bidir_incompatible", findings[0].ID)
			assert.Equal(t, SeverityDanger, findings[0].Severity)
		})
	}
}

func TestCheckFilterPresent(t *testing.T) {
	tests := map[string]struct {
		input    string
		wantFire bool
	}{
		"rpm key":          {input: "set rpm_filter_harmonics = 3", wantFire: true},
		"dterm notch token": {input: "# dterm_notch retuned last session", wantFire: true},
		"biquad token":     {input: "set gyro_lowpass_type = BIQUAD", wantFire: true},
		"none":             {input: "set p_roll = 45"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			findings := checkFilterPresent(dump.Parse(test.input), dump.Firmware{})

			if !test.wantFire {
				assert.Empty(t, findings)
				return
			}
			require.Len(t, findings, 1)
			assert.Equal(t, "filter_present", findings[0].ID)
		})
	}
}

func TestCheckSerialTelemetry(t *testing.T) {
	tests := map[string]struct {
		input    string
		wantFire bool
	}{
		"nothing serial":   {input: "set p_roll = 45", wantFire: true},
		"serialrx key":     {input: "set serialrx_provider = CRSF"},
		"telemetry key":    {input: "set telemetry_inverted = OFF"},
		"uart in raw text": {input: "# uart3 wired to gps"},
		"receiver token":   {input: "# receiver bound via bind button"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			findings := checkSerialTelemetry(dump.Parse(test.input), dump.Firmware{})

			if !test.wantFire {
				assert.Empty(t, findings)
				return
			}
			require.Len(t, findings, 1)
			assert.Equal(t, "no_serial_telemetry", findings[0].ID)
		})
	}
}

func TestCheckVTX(t *testing.T) {
	findings := checkVTX(dump.Parse("set vtx_power = 2"), dump.Firmware{})
	require.Len(t, findings, 1)
	assert.Equal(t, "vtx_config", findings[0].ID)

	findings = checkVTX(dump.Parse("# smartaudio wired"), dump.Firmware{})
	require.Len(t, findings, 1)

	assert.Empty(t, checkVTX(dump.Parse("set p_roll = 45"), dump.Firmware{}))
}

func TestCheckArming(t *testing.T) {
	findings := checkArming(dump.Parse("# arm: aux1 switch"), dump.Firmware{})
	require.Len(t, findings, 1)
	assert.Equal(t, "arming_flags", findings[0].ID)

	findings = checkArming(dump.Parse("set arming_disabled = RXLOSS"), dump.Firmware{})
	require.Len(t, findings, 1)

	assert.Empty(t, checkArming(dump.Parse("set p_roll = 45"), dump.Firmware{}))
}

func TestEvaluate(t *testing.T) {
	text := "set min_throttle = 980\nset looptime = 500\nset p_roll = 95\n"

	d := dump.Parse(text)
	fw := dump.DetectFirmware(text)

	findings := Evaluate(d, fw)

	assert.Equal(t,
		[]string{"min_throttle_low", "no_failsafe", "looptime_low", "no_serial_telemetry"},
		findingIDs(findings))
}

func TestEvaluate_Deterministic(t *testing.T) {
	text := "set p_roll = 120\nset i_roll = 140\nset d_roll = 90\nset d_yaw = 0\nset min_throttle = 980\n"

	d := dump.Parse(text)
	fw := dump.DetectFirmware(text)

	first := Evaluate(d, fw)
	second := Evaluate(d, fw)

	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}

func TestRules(t *testing.T) {
	infos := Rules()

	require.Len(t, infos, len(catalog))
	assert.Equal(t, "min_throttle", infos[0].ID)
	assert.Equal(t, "power", infos[0].Category)
	assert.Equal(t, "arming", infos[len(infos)-1].ID)
}

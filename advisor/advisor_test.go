// SPDX-License-Identifier: GPL-3.0-or-later

package advisor

import (
	"strings"
	"testing"

	"github.com/Santipap250/configdoctor/dump"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList(t *testing.T) {
	infos := List()

	require.Len(t, infos, len(symptoms))

	assert.Equal(t, "oscillation_after_flip", infos[0].ID)
	assert.Equal(t, "video_breakup", infos[len(infos)-1].ID)

	for _, info := range infos {
		assert.NotEmpty(t, info.ID)
		assert.NotEmpty(t, info.Label)
		assert.NotEmpty(t, info.Category)
	}

	assert.Equal(t, infos, List())
}

func TestAdvise(t *testing.T) {
	tests := map[string]struct {
		id       string
		dumpText string
		wantErr  bool
		want     []string
	}{
		"unknown symptom": {
			id:      "quantum_flux",
			wantErr: true,
		},
		"empty id": {
			id:      "",
			wantErr: true,
		},
		"defaults when no dump given": {
			id: "oscillation_after_flip",
			want: []string{
				"# fix: oscillation after flips",
				"set d_roll = 37",
				"set d_pitch = 43",
				"set dterm_lpf1_hz = 85",
				"save",
			},
		},
		"current values win over defaults": {
			id:       "oscillation_after_flip",
			dumpText: "set d_roll = 52\nset dterm_lpf1_hz = 140\n",
			want: []string{
				"# fix: oscillation after flips",
				"set d_roll = 49",
				"set d_pitch = 43",
				"set dterm_lpf1_hz = 125",
				"save",
			},
		},
		"non numeric value falls back to default": {
			id:       "oscillation_after_flip",
			dumpText: "set d_roll = auto\n",
			want: []string{
				"# fix: oscillation after flips",
				"set d_roll = 37",
				"set d_pitch = 43",
				"set dterm_lpf1_hz = 85",
				"save",
			},
		},
		"fixed commands pass through": {
			id: "esc_desync",
			want: []string{
				"# fix: ESC desync",
				"set motor_pwm_protocol = DSHOT600",
				"set dshot_bidir = ON",
				"set motor_poles = 14 # check the spec of your motors",
				"set min_throttle = 1020",
				"# update the ESC firmware and raise demag compensation to high",
				"save",
			},
		},
		"additions use current values": {
			id:       "wind_rejection",
			dumpText: "set i_roll = 95\nset i_pitch = 99\nset i_yaw = 90\n",
			want: []string{
				"# fix: wind rejection",
				"set i_roll = 103",
				"set i_pitch = 107",
				"set i_yaw = 95",
				"set iterm_relax = RPH",
				"set iterm_relax_type = SETPOINT",
				"set iterm_relax_cutoff = 15",
				"set anti_gravity_gain = 10",
				"save",
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var params map[string]dump.Value
			if test.dumpText != "" {
				params = dump.Parse(test.dumpText).Settings
			}

			adv, err := Advise(test.id, params)

			if test.wantErr {
				assert.Error(t, err)
				assert.Nil(t, adv)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, test.id, adv.ID)
			assert.Equal(t, test.want, adv.Commands)
		})
	}
}

func TestAdvise_AllSymptomsRender(t *testing.T) {
	text := `
set p_roll = 48
set p_pitch = 50
set p_yaw = 42
set i_roll = 85
set i_pitch = 89
set i_yaw = 82
set d_roll = 38
set d_pitch = 44
set feedforward_roll = 110
set feedforward_pitch = 115
set gyro_lpf1_hz = 300
set dterm_lpf1_hz = 110
`
	params := dump.Parse(text).Settings

	for _, info := range List() {
		t.Run(info.ID, func(t *testing.T) {
			for _, p := range []map[string]dump.Value{nil, params} {
				adv, err := Advise(info.ID, p)

				require.NoError(t, err)
				require.Len(t, adv.Commands, len(adv.Template))

				for _, cmd := range adv.Commands {
					assert.NotContains(t, cmd, "{{")
					assert.NotContains(t, cmd, "}}")
				}

				assert.Equal(t, "save", adv.Commands[len(adv.Commands)-1])
			}
		})
	}
}

func TestSymptom_DisplayCategory(t *testing.T) {
	tests := map[string]struct {
		category string
		want     string
	}{
		"single word":  {category: "oscillation", want: "Oscillation"},
		"underscores":  {category: "gps_or_pid", want: "Gps Or Pid"},
		"pid advanced": {category: "pid_advanced", want: "Pid Advanced"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			s := Symptom{Category: test.category}

			assert.Equal(t, test.want, s.DisplayCategory())
		})
	}
}

func TestSymptoms_CatalogIsValid(t *testing.T) {
	seen := make(map[string]bool)

	for _, s := range symptoms {
		assert.False(t, seen[s.ID], "duplicate symptom id '%s'", s.ID)
		seen[s.ID] = true

		assert.NotEmpty(t, s.Label, "symptom '%s': no label", s.ID)
		assert.NotEmpty(t, s.Category, "symptom '%s': no category", s.ID)
		assert.NotEmpty(t, s.Diagnosis, "symptom '%s': no diagnosis", s.ID)
		assert.NotEmpty(t, s.PrimaryCause, "symptom '%s': no primary cause", s.ID)
		assert.NotEmpty(t, s.Adjustments, "symptom '%s': no adjustments", s.ID)
		assert.NotEmpty(t, s.Tips, "symptom '%s': no tips", s.ID)

		require.NotEmpty(t, s.Template, "symptom '%s': no command template", s.ID)
		assert.Equal(t, "save", s.Template[len(s.Template)-1], "symptom '%s': template must end with save", s.ID)

		for _, adj := range s.Adjustments {
			assert.NotEmpty(t, adj.Param, "symptom '%s': adjustment without param", s.ID)
			assert.NotEmpty(t, adj.Reason, "symptom '%s': adjustment without reason", s.ID)
		}
	}
}

func TestRenderCommands_BadTemplate(t *testing.T) {
	_, err := renderCommands([]string{`set x = {{ bogus `}, nil)

	assert.Error(t, err)
}

func TestAdvise_DoesNotMutateCatalog(t *testing.T) {
	before := strings.Join(symptomByID["propwash"].Template, "\n")

	_, err := Advise("propwash", dump.Parse("set d_roll = 60\n").Settings)

	require.NoError(t, err)
	assert.Equal(t, before, strings.Join(symptomByID["propwash"].Template, "\n"))
}

// SPDX-License-Identifier: GPL-3.0-or-later

package dump

import (
	"fmt"
	"slices"
)

type KV struct {
	Key   string `json:"key"`
	Value Value  `json:"value"`
}

type Change struct {
	Key         string `json:"key"`
	A           Value  `json:"a"`
	B           Value  `json:"b"`
	Explanation string `json:"explanation"`
}

// Diff partitions the union of two dumps' keys. Swapping the inputs swaps
// OnlyInA/OnlyInB and the change sides; diffing a dump against itself yields
// only Same entries.
type Diff struct {
	OnlyInA []KV     `json:"only_in_a"`
	OnlyInB []KV     `json:"only_in_b"`
	Changed []Change `json:"changed"`
	Same    []KV     `json:"same"`
	Summary string   `json:"summary"`
}

// Context for well-known parameters; everything else gets a generic note.
var changeExplanations = map[string]string{
	"p_roll":            "roll P gain, higher is a sharper roll response",
	"p_pitch":           "pitch P gain, higher is a sharper pitch response",
	"i_roll":            "roll I gain, holds the roll attitude against drift",
	"i_pitch":           "pitch I gain, holds the pitch attitude against drift",
	"d_roll":            "roll D gain, damps roll oscillation",
	"d_pitch":           "pitch D gain, damps pitch oscillation",
	"gyro_lpf1_hz":      "gyro lowpass 1 cutoff frequency",
	"dterm_lpf1_hz":     "D term lowpass 1 cutoff frequency",
	"dyn_notch_count":   "dynamic notch filter count",
	"anti_gravity_gain": "I gain boost during fast throttle moves",
	"feedforward_roll":  "roll feedforward, tracks fast stick moves",
	"min_throttle":      "idle throttle sent to the motors when armed",
	"failsafe_action":   "what the craft does when the RC link is lost",
}

// Compare parses both texts independently and partitions the union of their
// keys. Values are compared by string representation.
func Compare(textA, textB string) *Diff {
	a := Parse(textA).Settings
	b := Parse(textB).Settings

	keys := make([]string, 0, len(a)+len(b))
	for k := range a {
		keys = append(keys, k)
	}
	for k := range b {
		if _, ok := a[k]; !ok {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	d := &Diff{}

	for _, k := range keys {
		va, inA := a[k]
		vb, inB := b[k]

		switch {
		case inA && !inB:
			d.OnlyInA = append(d.OnlyInA, KV{Key: k, Value: va})
		case inB && !inA:
			d.OnlyInB = append(d.OnlyInB, KV{Key: k, Value: vb})
		case va.String() != vb.String():
			d.Changed = append(d.Changed, Change{Key: k, A: va, B: vb, Explanation: explainChange(k, va, vb)})
		default:
			d.Same = append(d.Same, KV{Key: k, Value: va})
		}
	}

	d.Summary = fmt.Sprintf("compared: %d changed, %d only in A, %d only in B, %d identical",
		len(d.Changed), len(d.OnlyInA), len(d.OnlyInB), len(d.Same))

	return d
}

func explainChange(key string, va, vb Value) string {
	explain, ok := changeExplanations[key]
	if !ok {
		explain = "value changed"
	}

	na, okA := va.Num()
	nb, okB := vb.Num()
	if !okA || !okB {
		return explain
	}

	switch delta := nb - na; {
	case delta > 0:
		return fmt.Sprintf("%s (increased by %.1f)", explain, delta)
	case delta < 0:
		return fmt.Sprintf("%s (decreased by %.1f)", explain, -delta)
	default:
		return explain
	}
}

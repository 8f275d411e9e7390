// SPDX-License-Identifier: GPL-3.0-or-later

// Package preset carries per-frame-class PID and filter baselines for
// modern Betaflight firmware and turns them into paste-ready CLI
// commands. Classes are keyed by prop size; a flying style scales the
// PID baseline without touching the filters.
package preset

import (
	_ "embed"
	"fmt"
	"math"

	"gopkg.in/yaml.v2"
)

//go:embed "baselines.yaml"
var baselinesYAML []byte

const (
	StyleFreestyle = "freestyle"
	StyleRacing    = "racing"
	StyleLongrange = "longrange"
)

// The 5" freestyle class doubles as the fallback for unknown keys.
const defaultClassKey = "freestyle"

// Axis is the PID triple of one axis.
type Axis struct {
	P int `yaml:"p" json:"p"`
	I int `yaml:"i" json:"i"`
	D int `yaml:"d" json:"d"`
}

// PID is the full per-axis PID set of a class.
type PID struct {
	Roll  Axis `yaml:"roll" json:"roll"`
	Pitch Axis `yaml:"pitch" json:"pitch"`
	Yaw   Axis `yaml:"yaw" json:"yaw"`
}

// Filter is the filter baseline of a class.
type Filter struct {
	GyroLPF1      int  `yaml:"gyro_lpf1" json:"gyro_lpf1"`
	GyroLPF2      *int `yaml:"gyro_lpf2,omitempty" json:"gyro_lpf2,omitempty"`
	DtermLPF1     int  `yaml:"dterm_lpf1" json:"dterm_lpf1"`
	DtermLPF2     *int `yaml:"dterm_lpf2,omitempty" json:"dterm_lpf2,omitempty"`
	DynNotchCount int  `yaml:"dyn_notch_count" json:"dyn_notch_count"`
	DynNotchMin   int  `yaml:"dyn_notch_min" json:"dyn_notch_min"`
	DynNotchMax   int  `yaml:"dyn_notch_max" json:"dyn_notch_max"`
	RPMFilter     bool `yaml:"rpm_filter" json:"rpm_filter"`
	AntiGravity   int  `yaml:"anti_gravity" json:"anti_gravity"`
}

// Class is one frame class baseline.
type Class struct {
	Key         string  `yaml:"key" json:"key"`
	SizeMin     float64 `yaml:"size_min" json:"size_min"`
	SizeMax     float64 `yaml:"size_max" json:"size_max"`
	Description string  `yaml:"description" json:"description"`
	PID         PID     `yaml:"pid" json:"pid"`
	Filter      Filter  `yaml:"filter" json:"filter"`
	Notes       string  `yaml:"notes" json:"notes"`
}

var classes = mustLoadClasses(baselinesYAML)

func mustLoadClasses(data []byte) []Class {
	var cfg struct {
		Classes []Class `yaml:"classes"`
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		panic(fmt.Sprintf("preset: broken embedded baselines: %v", err))
	}
	if err := validateClasses(cfg.Classes); err != nil {
		panic(fmt.Sprintf("preset: broken embedded baselines: %v", err))
	}

	return cfg.Classes
}

func validateClasses(cs []Class) error {
	if len(cs) == 0 {
		return fmt.Errorf("no classes defined")
	}

	seen := make(map[string]bool)

	for _, c := range cs {
		if c.Key == "" {
			return fmt.Errorf("class with empty key")
		}
		if seen[c.Key] {
			return fmt.Errorf("duplicate class '%s'", c.Key)
		}
		seen[c.Key] = true

		if c.SizeMin <= 0 || c.SizeMax < c.SizeMin {
			return fmt.Errorf("class '%s': bad size range [%v,%v]", c.Key, c.SizeMin, c.SizeMax)
		}
		for _, a := range []Axis{c.PID.Roll, c.PID.Pitch, c.PID.Yaw} {
			if a.P <= 0 || a.I <= 0 || a.D < 0 {
				return fmt.Errorf("class '%s': bad pid axis %+v", c.Key, a)
			}
		}
		if c.Filter.GyroLPF1 <= 0 || c.Filter.DtermLPF1 <= 0 {
			return fmt.Errorf("class '%s': bad filter cutoffs", c.Key)
		}
	}

	if !seen[defaultClassKey] {
		return fmt.Errorf("missing fallback class '%s'", defaultClassKey)
	}

	return nil
}

type styleMul struct{ p, i, d float64 }

var styleMuls = map[string]styleMul{
	StyleFreestyle: {p: 1.00, i: 1.00, d: 1.00},
	StyleRacing:    {p: 1.15, i: 0.92, d: 1.12},
	StyleLongrange: {p: 0.88, i: 1.00, d: 0.82},
}

// Classes returns every class baseline in prop-size order.
func Classes() []Class {
	cs := make([]Class, len(classes))
	copy(cs, classes)
	return cs
}

// Styles returns the known flying styles.
func Styles() []string {
	return []string{StyleFreestyle, StyleRacing, StyleLongrange}
}

// HasClass reports whether key names a known class.
func HasClass(key string) bool {
	return classByKey(key) != nil
}

// HasStyle reports whether name is a known flying style.
func HasStyle(name string) bool {
	_, ok := styleMuls[name]
	return ok
}

// DetectClass maps a prop size in inches to its frame class. Sizes
// outside every range pick the class with the nearest range midpoint.
func DetectClass(size float64) (string, Class) {
	if math.IsNaN(size) || math.IsInf(size, 0) {
		c := classByKey(defaultClassKey)
		return c.Key, *c
	}

	for _, c := range classes {
		if size >= c.SizeMin && size <= c.SizeMax {
			return c.Key, c
		}
	}

	best := classes[0]
	bestDist := math.Abs((best.SizeMin+best.SizeMax)/2 - size)

	for _, c := range classes[1:] {
		if d := math.Abs((c.SizeMin+c.SizeMax)/2 - size); d < bestDist {
			best, bestDist = c, d
		}
	}

	return best.Key, best
}

// PIDFor returns the per-axis PID baseline of a class scaled by a
// flying style. Unknown classes fall back to the 5" freestyle baseline,
// unknown styles to the neutral freestyle multipliers. P and I never
// scale below 1, and yaw D stays pinned at 0.
func PIDFor(class, style string) PID {
	cls := classOrDefault(class)

	mul, ok := styleMuls[style]
	if !ok {
		mul = styleMuls[StyleFreestyle]
	}

	yawMul := mul
	yawMul.d = 1.0

	pid := PID{
		Roll:  applyStyle(cls.PID.Roll, mul),
		Pitch: applyStyle(cls.PID.Pitch, mul),
		Yaw:   applyStyle(cls.PID.Yaw, yawMul),
	}
	pid.Yaw.D = 0

	return pid
}

// FilterFor returns the filter baseline of a class. Unknown classes
// fall back to the 5" freestyle baseline.
func FilterFor(class string) Filter {
	return classOrDefault(class).Filter
}

// Commands renders the class baseline scaled by style as a paste-ready
// CLI command list.
func Commands(class, style string) []string {
	cls := classOrDefault(class)
	pid := PIDFor(cls.Key, style)
	flt := cls.Filter

	if _, ok := styleMuls[style]; !ok {
		style = StyleFreestyle
	}

	cmds := []string{
		fmt.Sprintf("# %s baseline, %s style", cls.Key, style),
		fmt.Sprintf("# %s", cls.Description),
		fmt.Sprintf("set p_roll = %d", pid.Roll.P),
		fmt.Sprintf("set i_roll = %d", pid.Roll.I),
		fmt.Sprintf("set d_roll = %d", pid.Roll.D),
		fmt.Sprintf("set p_pitch = %d", pid.Pitch.P),
		fmt.Sprintf("set i_pitch = %d", pid.Pitch.I),
		fmt.Sprintf("set d_pitch = %d", pid.Pitch.D),
		fmt.Sprintf("set p_yaw = %d", pid.Yaw.P),
		fmt.Sprintf("set i_yaw = %d", pid.Yaw.I),
		fmt.Sprintf("set d_yaw = %d", pid.Yaw.D),
		fmt.Sprintf("set gyro_lpf1_static_hz = %d", flt.GyroLPF1),
	}

	if flt.GyroLPF2 != nil {
		cmds = append(cmds, fmt.Sprintf("set gyro_lpf2_static_hz = %d", *flt.GyroLPF2))
	}

	cmds = append(cmds, fmt.Sprintf("set dterm_lpf1_static_hz = %d", flt.DtermLPF1))

	if flt.DtermLPF2 != nil {
		cmds = append(cmds, fmt.Sprintf("set dterm_lpf2_static_hz = %d", *flt.DtermLPF2))
	}

	cmds = append(cmds,
		fmt.Sprintf("set dyn_notch_count = %d", flt.DynNotchCount),
		fmt.Sprintf("set dyn_notch_min_hz = %d", flt.DynNotchMin),
		fmt.Sprintf("set dyn_notch_max_hz = %d", flt.DynNotchMax),
		fmt.Sprintf("set anti_gravity_gain = %d", flt.AntiGravity),
	)

	if flt.RPMFilter {
		cmds = append(cmds, "set rpm_filter_harmonics = 3")
	}

	cmds = append(cmds, "save")

	return cmds
}

func applyStyle(a Axis, mul styleMul) Axis {
	return Axis{
		P: max(1, int(math.Round(float64(a.P)*mul.p))),
		I: max(1, int(math.Round(float64(a.I)*mul.i))),
		D: max(0, int(math.Round(float64(a.D)*mul.d))),
	}
}

func classOrDefault(key string) *Class {
	if c := classByKey(key); c != nil {
		return c
	}
	return classByKey(defaultClassKey)
}

func classByKey(key string) *Class {
	for i := range classes {
		if classes[i].Key == key {
			return &classes[i]
		}
	}
	return nil
}

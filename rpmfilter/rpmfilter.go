// SPDX-License-Identifier: GPL-3.0-or-later

// Package rpmfilter estimates motor RPM harmonics from the motor KV
// rating and the battery cell count, and derives a dynamic notch setup
// for them. The numbers are estimates for a typical loaded FPV motor,
// meant as a starting point to verify against blackbox data.
package rpmfilter

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	maxCellVoltage = 4.2
	loadFactor     = 0.75 // loaded vs unloaded RPM for a typical FPV prop

	minCells     = 2
	maxCells     = 12
	defaultCells = 4

	harmonicCount = 4
)

var throttleLevels = []struct {
	label string
	frac  float64
}{
	{label: "20%", frac: 0.20},
	{label: "50%", frac: 0.50},
	{label: "70%", frac: 0.70},
	{label: "100%", frac: 1.00},
}

// Harmonic is one multiple of the motor's fundamental frequency.
type Harmonic struct {
	N  int `json:"n"`
	Hz int `json:"hz"`
}

// ThrottlePoint is the estimated RPM and its harmonics at one throttle
// level.
type ThrottlePoint struct {
	Throttle  string     `json:"throttle"`
	RPM       int        `json:"rpm"`
	Harmonics []Harmonic `json:"harmonics"`
}

// Recommended is the derived dynamic notch window.
type Recommended struct {
	DynNotchMin   int `json:"dyn_notch_min"`
	DynNotchMax   int `json:"dyn_notch_max"`
	DynNotchCount int `json:"dyn_notch_count"`
}

// Result is the full calculation output.
type Result struct {
	KV             int             `json:"kv"`
	Cells          int             `json:"cells"`
	PropSize       float64         `json:"prop_size"`
	RPMUnloadedMax int             `json:"rpm_unloaded_max"`
	RPMLoadedMax   int             `json:"rpm_loaded_max"`
	ThrottleTable  []ThrottlePoint `json:"throttle_table"`
	Recommended    Recommended     `json:"recommended"`
	CLICommands    []string        `json:"cli_commands"`
	Warnings       []string        `json:"warnings,omitempty"`
	Notes          []string        `json:"notes"`
}

// Calculate derives the RPM harmonic table and a notch filter setup for
// the given motor KV and battery. Battery accepts "4S", "6s" or a bare
// cell count; unparseable input falls back to 4 cells and the count is
// clamped to [2,12]. A propSize of zero or less defaults to 5 inch.
func Calculate(kv int, battery string, propSize float64) (*Result, error) {
	if kv <= 0 {
		return nil, fmt.Errorf("motor kv must be positive, got %d", kv)
	}
	if propSize <= 0 {
		propSize = 5.0
	}

	cells := cellsFromString(battery)
	vMax := float64(cells) * maxCellVoltage

	rpmUnloadedMax := float64(kv) * vMax
	rpmLoadedMax := rpmUnloadedMax * loadFactor

	table := make([]ThrottlePoint, 0, len(throttleLevels))

	for _, lvl := range throttleLevels {
		rpm := rpmLoadedMax * lvl.frac

		harmonics := make([]Harmonic, 0, harmonicCount)
		for n := 1; n <= harmonicCount; n++ {
			harmonics = append(harmonics, Harmonic{
				N:  n,
				Hz: int(math.Round(rpm * float64(n) / 60)),
			})
		}

		table = append(table, ThrottlePoint{
			Throttle:  lvl.label,
			RPM:       int(math.Round(rpm)),
			Harmonics: harmonics,
		})
	}

	// The notch window has to cover the 1x fundamental from low to full
	// throttle, widened by 20% for voltage sag and condition variance.
	min1x := math.Round(rpmLoadedMax * 0.20 / 60)
	max1x := math.Round(rpmLoadedMax / 60)

	notchMin := max(60, roundTo10(min1x*0.80))
	notchMax := min(1000, roundTo10(max1x*1.20))

	notchCount := 2
	if cells >= 6 || kv >= 2200 {
		notchCount = 3
	}

	var warnings []string
	if cells >= 7 && kv > 1500 {
		warnings = append(warnings,
			fmt.Sprintf("KV %d is high for %dS, the RPM harmonics sit very high, watch motor temperature", kv, cells))
	}
	if notchMax > 700 {
		warnings = append(warnings,
			fmt.Sprintf("max harmonic frequency is high (%d Hz), verify the RPM filter is enabled", notchMax))
	}
	if kv > 3000 && cells >= 4 {
		warnings = append(warnings,
			fmt.Sprintf("KV %d is very high on %dS, check ESC demag compensation and prop balance first", kv, cells))
	}

	cli := []string{
		fmt.Sprintf("# RPM filter setup for KV %d on %dS", kv, cells),
		fmt.Sprintf("set dyn_notch_count = %d", notchCount),
		fmt.Sprintf("set dyn_notch_min_hz = %d", notchMin),
		fmt.Sprintf("set dyn_notch_max_hz = %d", notchMax),
		fmt.Sprintf("set rpm_filter_harmonics = %d", notchCount),
		fmt.Sprintf("set rpm_filter_min_hz = %d", notchMin),
		"# enable the RPM filter in the configurator filters tab",
		"save",
	}

	pr := message.NewPrinter(language.English)

	notes := []string{
		pr.Sprintf("motor max RPM, loaded, at full throttle: %d", int(math.Round(rpmLoadedMax))),
		pr.Sprintf("fundamental frequency at full throttle: %d Hz", int(max1x)),
		"these are estimates, confirm with blackbox and the RPM filter graph",
		fmt.Sprintf("prop size %.1f\" affects the real RPM, bigger props run below the unloaded estimate", propSize),
	}

	return &Result{
		KV:             kv,
		Cells:          cells,
		PropSize:       propSize,
		RPMUnloadedMax: int(math.Round(rpmUnloadedMax)),
		RPMLoadedMax:   int(math.Round(rpmLoadedMax)),
		ThrottleTable:  table,
		Recommended: Recommended{
			DynNotchMin:   notchMin,
			DynNotchMax:   notchMax,
			DynNotchCount: notchCount,
		},
		CLICommands: cli,
		Warnings:    warnings,
		Notes:       notes,
	}, nil
}

func cellsFromString(s string) int {
	s = strings.ReplaceAll(strings.ToUpper(s), "S", "")

	c, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return defaultCells
	}

	return max(minCells, min(c, maxCells))
}

func roundTo10(v float64) int {
	return int(math.Round(v/10)) * 10
}

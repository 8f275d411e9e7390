// SPDX-License-Identifier: GPL-3.0-or-later

package dump

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/blang/semver/v4"
)

type Family int8

const (
	FamilyUnknown Family = iota
	FamilyBetaflight
	FamilyINAV
	FamilyEmuFlight
)

func (f Family) String() string {
	switch f {
	case FamilyBetaflight:
		return "betaflight"
	case FamilyINAV:
		return "inav"
	case FamilyEmuFlight:
		return "emuflight"
	default:
		return "unknown"
	}
}

func (f Family) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

// Firmware describes what produced a dump, derived once from the header and
// read-only afterward.
type Firmware struct {
	Family    Family          `json:"family"`
	Version   *semver.Version `json:"version"`
	BuildDate *time.Time      `json:"build_date,omitempty"`
	// Modern reports a known family at or past the 4.4 era, the point where
	// PID term ranges and filter defaults shifted.
	Modern bool `json:"modern"`
}

const (
	familyProbeSize  = 1000
	versionProbeSize = 500
)

// Probed in order, first match wins.
var familyTokens = []struct {
	token  string
	family Family
}{
	{"BETAFLIGHT", FamilyBetaflight},
	{"INAV", FamilyINAV},
	{"EMUFLIGHT", FamilyEmuFlight},
}

var (
	reSemver    = regexp.MustCompile(`\d+\.\d+\.\d+`)
	reBuildDate = regexp.MustCompile(`[A-Z][a-z]{2} {1,2}\d{1,2} 20\d{2}`)

	modernEra = semver.Version{Major: 4, Minor: 4}
)

// DetectFirmware sniffs the firmware family and version from a dump header.
// It never fails; anything it cannot recognize is left at its zero value.
func DetectFirmware(text string) Firmware {
	var fw Firmware

	head := strings.ToUpper(prefix(text, familyProbeSize))
	for _, ft := range familyTokens {
		if strings.Contains(head, ft.token) {
			fw.Family = ft.family
			break
		}
	}

	verHead := prefix(text, versionProbeSize)

	if s := reSemver.FindString(verHead); s != "" {
		if ver, err := semver.New(s); err == nil {
			fw.Version = ver
		}
	}

	// Headers carry the firmware build date, e.g.
	// "# Betaflight / STM32F7X2 (S7X2) 4.4.2 Jun  1 2023 / 01:02:03".
	if s := reBuildDate.FindString(verHead); s != "" {
		s = strings.Join(strings.Fields(s), " ")
		if t, err := dateparse.ParseAny(s); err == nil {
			fw.BuildDate = &t
		}
	}

	fw.Modern = fw.Family != FamilyUnknown && fw.Version != nil && fw.Version.GTE(modernEra)

	return fw
}

func prefix(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

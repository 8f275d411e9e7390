// SPDX-License-Identifier: GPL-3.0-or-later

package diag

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Santipap250/configdoctor/dump"
)

// advisoryComment is emitted when findings exist but none of them has a
// safe automatic remedy.
const advisoryComment = "# manual review: check the findings above, adjust PIDs and filters carefully"

// SuggestFixes turns findings into copy-pasteable CLI commands. Only a
// small whitelist of finding ids produces commands, everything else stays
// manual and speaks through its suggestion text. Whenever at least one set
// command is emitted the list ends with exactly one save.
//
// Deliberately conservative: a missing failsafe gets a warning, never an
// auto-generated failsafe block, and derived values are only computed from
// parameters actually present in the dump.
func SuggestFixes(findings []Finding, d *dump.Dump) []string {
	var fixes []string

	push := func(key, value string) {
		fixes = append(fixes, fmt.Sprintf("set %s = %s", key, value))
	}

	for _, f := range findings {
		switch {
		case f.ID == "min_throttle_low":
			switch {
			case d.Has("min_throttle"):
				push("min_throttle", "1000")
			case d.Has("mincommand"):
				push("mincommand", "1000")
			default:
				push("min_throttle", "1000")
			}

		case strings.HasPrefix(f.ID, "pid_high_"):
			key := strings.TrimPrefix(f.ID, "pid_high_")
			if num, ok := d.Num(key); ok {
				push(key, formatNum(round3(num*0.8)))
			}

		case f.ID == "failsafe_throttle_high":
			if num, ok := d.Num("failsafe_throttle"); ok {
				v := int64(math.Max(1000, math.Trunc(num*0.9)))
				push("failsafe_throttle", strconv.FormatInt(v, 10))
			}

		case f.ID == "looptime_low":
			if d.Has("looptime") {
				push("looptime", "1000")
			}

		case f.ID == "looptime_high":
			if d.Has("looptime") {
				push("looptime", "2000")
			}
		}
	}

	if len(fixes) == 0 {
		if len(findings) > 0 {
			return []string{advisoryComment}
		}
		return nil
	}

	return append(fixes, "save")
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

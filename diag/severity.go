// SPDX-License-Identifier: GPL-3.0-or-later

package diag

import "encoding/json"

// Severity orders findings from advisory to must-fix.
type Severity int8

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityDanger
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityDanger:
		return "danger"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

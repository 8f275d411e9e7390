// SPDX-License-Identifier: GPL-3.0-or-later

package diag

import (
	"fmt"
	"time"

	"github.com/gohugoio/hashstructure"
	"github.com/google/uuid"

	"github.com/Santipap250/configdoctor/dump"
)

// Report is the complete result of analyzing one dump.
type Report struct {
	ID          string                `json:"id"`
	Fingerprint string                `json:"fingerprint"`
	CreatedAt   time.Time             `json:"created_at"`
	Firmware    dump.Firmware         `json:"firmware"`
	Severity    string                `json:"severity"`
	Summary     string                `json:"summary"`
	Findings    []Finding             `json:"findings"`
	FixCommands []string              `json:"fix_commands"`
	Params      map[string]dump.Value `json:"params"`
}

// Analyze runs the whole pipeline on one dump text: parse, detect firmware,
// evaluate the catalog, generate fixes.
func Analyze(text string) *Report {
	d := dump.Parse(text)
	fw := dump.DetectFirmware(text)

	findings := Evaluate(d, fw)
	if findings == nil {
		findings = []Finding{}
	}
	fixes := SuggestFixes(findings, d)
	if fixes == nil {
		fixes = []string{}
	}

	severity := severityLabel(findings)

	return &Report{
		ID:          uuid.New().String(),
		Fingerprint: Fingerprint(d, fw),
		CreatedAt:   time.Now().UTC(),
		Firmware:    fw,
		Severity:    severity,
		Summary:     fmt.Sprintf("parameters read: %d · severity: %s", len(d.Settings), severity),
		Findings:    findings,
		FixCommands: fixes,
		Params:      d.Settings,
	}
}

// severityLabel folds findings into the user-facing aggregate: the maximum
// severity across findings, with Danger and Critical both reported as
// critical and no findings at all as ok.
func severityLabel(findings []Finding) string {
	if len(findings) == 0 {
		return "ok"
	}

	top := SeverityInfo
	for _, f := range findings {
		if f.Severity > top {
			top = f.Severity
		}
	}

	switch {
	case top >= SeverityDanger:
		return "critical"
	case top == SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// Fingerprint is a stable hash of the parsed settings and detected
// firmware. Two dumps that parse identically share a fingerprint no matter
// how their raw text is laid out.
func Fingerprint(d *dump.Dump, fw dump.Firmware) string {
	flat := make(map[string]string, len(d.Settings))
	for k, v := range d.Settings {
		flat[k] = v.String()
	}

	version := ""
	if fw.Version != nil {
		version = fw.Version.String()
	}

	h, _ := hashstructure.Hash(struct {
		Params  map[string]string
		Family  string
		Version string
	}{flat, fw.Family.String(), version}, nil)

	return fmt.Sprintf("%016x", h)
}

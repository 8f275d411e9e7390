// SPDX-License-Identifier: GPL-3.0-or-later

// Package diag evaluates parsed configuration dumps against a catalog of
// diagnostic rules and produces severity-tagged findings, conservative fix
// commands and complete reports.
//
// Every entry point is pure over its inputs and never fails: malformed input
// degrades to fewer findings, not errors.
package diag

import (
	"github.com/Santipap250/configdoctor/dump"
)

// Finding is one diagnostic result. Once produced it is never mutated.
type Finding struct {
	ID         string   `json:"id"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion"`
	Fields     []string `json:"related_fields,omitempty"`
}

// Rule inspects one aspect of a dump. Rules are pure functions of the dump
// and firmware info; none sees another rule's output.
type Rule struct {
	ID       string
	Category string
	Check    func(d *dump.Dump, fw dump.Firmware) []Finding
}

// RuleInfo describes a catalog entry without its check function.
type RuleInfo struct {
	ID       string `json:"id"`
	Category string `json:"category"`
}

// Evaluate runs the full catalog in its declared order. Output order is
// stable for a given dump and firmware.
func Evaluate(d *dump.Dump, fw dump.Firmware) []Finding {
	var findings []Finding
	for _, r := range catalog {
		findings = append(findings, r.Check(d, fw)...)
	}
	return findings
}

// Rules lists the catalog entries in evaluation order.
func Rules() []RuleInfo {
	infos := make([]RuleInfo, 0, len(catalog))
	for _, r := range catalog {
		infos = append(infos, RuleInfo{ID: r.ID, Category: r.Category})
	}
	return infos
}

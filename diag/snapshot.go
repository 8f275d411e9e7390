// SPDX-License-Identifier: GPL-3.0-or-later

package diag

import (
	"fmt"
	"slices"
	"strings"

	"github.com/tidwall/gjson"
)

// IsReport reports whether the text is a previously saved analysis report
// rather than a raw dump.
func IsReport(text string) bool {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "{") || !gjson.Valid(s) {
		return false
	}
	return gjson.Get(s, "params").IsObject()
}

// ReportDumpText rebuilds canonical dump text from a saved report's params,
// so an old report file can stand in for the dump it was produced from when
// comparing. Input that is not a report comes back unchanged.
func ReportDumpText(text string) (string, bool) {
	if !IsReport(text) {
		return text, false
	}

	params := gjson.Get(strings.TrimSpace(text), "params").Map()

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "set %s = %s\n", k, params[k].String())
	}
	return sb.String(), true
}

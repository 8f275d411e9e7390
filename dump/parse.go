// SPDX-License-Identifier: GPL-3.0-or-later

// Package dump parses flight-controller configuration dumps ("diff all" /
// "dump" text) into a normalized parameter model, detects the firmware that
// produced them and computes structural diffs between two dumps.
//
// Parsing never fails: unrecognized lines are retained verbatim and
// contribute nothing to the parameter map.
package dump

import (
	"bufio"
	"regexp"
	"strings"
)

const rawSampleSize = 4096

// Dump is the parsed form of one configuration text.
type Dump struct {
	// Settings maps normalized keys (lowercase, '-' folded to '_') to typed
	// values. Raw line caches live outside the map, so iterating Settings
	// never sees bookkeeping entries.
	Settings map[string]Value

	// RawLines holds every input line in order, comments and blanks
	// included, with trailing CR/LF stripped.
	RawLines []string

	// RawSample is a bounded prefix of the original text.
	RawSample string
}

// An assignment with an optional "set " prefix. Both "set key = value" and
// "key = value" take this path and overwrite earlier assignments.
var reAssign = regexp.MustCompile(`(?i)^(?:set\s+)?([a-z0-9_\-]+)\s*=\s*(.+)$`)

// Parse builds a Dump from raw text. Empty input yields an empty Dump.
func Parse(text string) *Dump {
	d := &Dump{Settings: make(map[string]Value)}
	if text == "" {
		return d
	}

	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for sc.Scan() {
		raw := sc.Text()
		d.RawLines = append(d.RawLines, raw)

		line := stripComment(raw)
		if line == "" {
			continue
		}

		if m := reAssign.FindStringSubmatch(line); m != nil {
			// Assignment lines: last write wins.
			d.Settings[normalizeKey(m[1])] = Coerce(m[2])
			continue
		}

		// Loose "key value" fallback for dumps that list settings without
		// '='. Only the first occurrence of a key is kept on this path;
		// repeated resource/serial style lines would otherwise clobber
		// each other.
		if i := strings.IndexAny(line, " \t"); i != -1 {
			key := normalizeKey(line[:i])
			val := strings.TrimSpace(line[i+1:])
			if val == "" {
				continue
			}
			if _, ok := d.Settings[key]; !ok {
				d.Settings[key] = Coerce(val)
			}
		}
	}

	d.RawSample = text
	if len(d.RawSample) > rawSampleSize {
		d.RawSample = d.RawSample[:rawSampleSize]
	}

	return d
}

// RawText returns the retained lines joined back together, the haystack for
// token-presence rules.
func (d *Dump) RawText() string {
	return strings.Join(d.RawLines, "\n")
}

// Value returns the setting for a normalized key.
func (d *Dump) Value(key string) (Value, bool) {
	v, ok := d.Settings[key]
	return v, ok
}

// Has reports whether the key is present.
func (d *Dump) Has(key string) bool {
	_, ok := d.Settings[key]
	return ok
}

// Num returns the numeric view of a setting.
func (d *Dump) Num(key string) (float64, bool) {
	v, ok := d.Settings[key]
	if !ok {
		return 0, false
	}
	return v.Num()
}

// Comments start at the first '#' or ';' and run to end of line. Stripping
// is not quote-aware; a '#' inside a quoted value terminates the line the
// same way the firmware CLI treats it.
func stripComment(line string) string {
	if i := strings.IndexAny(line, "#;"); i != -1 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

func normalizeKey(k string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(k)), "-", "_")
}

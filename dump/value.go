// SPDX-License-Identifier: GPL-3.0-or-later

package dump

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

type Kind int8

const (
	KindString Kind = iota
	KindInt
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	default:
		return "string"
	}
}

// Value is a typed scalar produced by Coerce. The zero value is the empty
// string.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

func IntValue(v int64) Value     { return Value{kind: KindInt, i: v} }
func FloatValue(v float64) Value { return Value{kind: KindFloat, f: v} }
func StringValue(v string) Value { return Value{kind: KindString, s: v} }

var (
	reInt   = regexp.MustCompile(`^-?\d+$`)
	reFloat = regexp.MustCompile(`^-?\d+\.\d+$`)
)

// Coerce turns a raw token into a typed scalar. It is total: any input,
// including the empty string, yields a valid Value. One layer of matching
// surrounding quotes and trailing commas are stripped first; ON/OFF style
// enums deliberately stay strings.
func Coerce(token string) Value {
	s := strings.TrimSpace(token)

	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			s = s[1 : len(s)-1]
		}
	}

	s = strings.TrimRight(s, ",")

	if reInt.MatchString(s) {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Value{kind: KindInt, i: v}
		}
	}
	if reFloat.MatchString(s) {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return Value{kind: KindFloat, f: v}
		}
	}

	return Value{kind: KindString, s: s}
}

func (v Value) Kind() Kind { return v.kind }

// Num returns the numeric view of the value. Numeric-looking strings count
// as numbers too, the way the dumps are written is not under our control.
func (v Value) Num() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	default:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		return f, err == nil
	}
}

// String renders the value the way the firmware CLI would echo it back.
// Floats keep at least one fractional digit so an integer and an integral
// float compare as different ("150" vs "150.0").
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		s := strconv.FormatFloat(v.f, 'f', -1, 64)
		if !strings.ContainsRune(s, '.') {
			s += ".0"
		}
		return s
	default:
		return v.s
	}
}

// EqualsFold reports whether the value is the given enum token,
// case-insensitively. Used for ON/OFF style parameters.
func (v Value) EqualsFold(token string) bool {
	return v.kind == KindString && strings.EqualFold(v.s, token)
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindInt:
		return json.Marshal(v.i)
	case KindFloat:
		return json.Marshal(v.f)
	default:
		return json.Marshal(v.s)
	}
}

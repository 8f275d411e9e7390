// SPDX-License-Identifier: GPL-3.0-or-later

package dump

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerce(t *testing.T) {
	tests := map[string]struct {
		input string
		want  Value
	}{
		"integer":                {input: "1000", want: IntValue(1000)},
		"negative integer":       {input: "-5", want: IntValue(-5)},
		"float":                  {input: "12.5", want: FloatValue(12.5)},
		"negative float":         {input: "-0.75", want: FloatValue(-0.75)},
		"word":                   {input: "dshot600", want: StringValue("dshot600")},
		"surrounding whitespace": {input: "  1000  ", want: IntValue(1000)},
		"double quoted":          {input: `"My Quad"`, want: StringValue("My Quad")},
		"single quoted number":   {input: "'150'", want: IntValue(150)},
		"mismatched quotes":      {input: `"oops'`, want: StringValue(`"oops'`)},
		"trailing comma":         {input: "14,", want: IntValue(14)},
		"comma list":             {input: "37,-42,-241,1", want: StringValue("37,-42,-241,1")},
		"on stays string":        {input: "ON", want: StringValue("ON")},
		"version stays string":   {input: "4.4.2", want: StringValue("4.4.2")},
		"empty":                  {input: "", want: StringValue("")},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.want, Coerce(test.input))
		})
	}
}

func TestValue_String(t *testing.T) {
	tests := map[string]struct {
		value Value
		want  string
	}{
		"integer":          {value: IntValue(1000), want: "1000"},
		"negative integer": {value: IntValue(-5), want: "-5"},
		"float":            {value: FloatValue(80.8), want: "80.8"},
		"integral float":   {value: FloatValue(150), want: "150.0"},
		"string":           {value: StringValue("dshot600"), want: "dshot600"},
		"empty string":     {value: StringValue(""), want: ""},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.want, test.value.String())
		})
	}
}

func TestValue_Num(t *testing.T) {
	tests := map[string]struct {
		value  Value
		want   float64
		wantOK bool
	}{
		"integer":        {value: IntValue(48), want: 48, wantOK: true},
		"float":          {value: FloatValue(12.5), want: 12.5, wantOK: true},
		"numeric string": {value: StringValue("42"), want: 42, wantOK: true},
		"word":           {value: StringValue("dshot600"), wantOK: false},
		"empty":          {value: StringValue(""), wantOK: false},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, ok := test.value.Num()

			assert.Equal(t, test.wantOK, ok)
			if test.wantOK {
				assert.Equal(t, test.want, got)
			}
		})
	}
}

func TestValue_EqualsFold(t *testing.T) {
	assert.True(t, StringValue("ON").EqualsFold("on"))
	assert.True(t, StringValue("DShot600").EqualsFold("dshot600"))
	assert.False(t, StringValue("OFF").EqualsFold("on"))
	assert.False(t, IntValue(1).EqualsFold("1"))
}

func TestValue_MarshalJSON(t *testing.T) {
	bs, err := json.Marshal(map[string]Value{
		"poles":    IntValue(14),
		"scale":    FloatValue(0.5),
		"protocol": StringValue("DSHOT600"),
	})

	require.NoError(t, err)
	assert.JSONEq(t, `{"poles":14,"scale":0.5,"protocol":"DSHOT600"}`, string(bs))
}

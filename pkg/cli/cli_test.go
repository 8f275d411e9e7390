// SPDX-License-Identifier: GPL-3.0-or-later

package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := map[string]struct {
		args    []string
		wantErr bool
		check   func(t *testing.T, opt *Option)
	}{
		"no arguments": {
			args: nil,
			check: func(t *testing.T, opt *Option) {
				assert.Empty(t, opt.Command)
				assert.False(t, opt.Debug)
			},
		},
		"global flags without a command": {
			args: []string{"-d", "-v"},
			check: func(t *testing.T, opt *Option) {
				assert.True(t, opt.Debug)
				assert.True(t, opt.Version)
			},
		},
		"analyze with flags and files": {
			args: []string{"analyze", "--json", "--concurrency", "8", "a.txt", "b.txt"},
			check: func(t *testing.T, opt *Option) {
				assert.Equal(t, "analyze", opt.Command)
				assert.True(t, opt.Analyze.JSON)
				assert.Equal(t, 8, opt.Analyze.Concurrency)
				assert.Equal(t, []string{"a.txt", "b.txt"}, opt.Analyze.Args.Files)
			},
		},
		"analyze defaults": {
			args: []string{"analyze", "-"},
			check: func(t *testing.T, opt *Option) {
				assert.False(t, opt.Analyze.JSON)
				assert.False(t, opt.Analyze.FixesOnly)
				assert.Equal(t, 4, opt.Analyze.Concurrency)
				assert.Equal(t, []string{"-"}, opt.Analyze.Args.Files)
			},
		},
		"compare": {
			args: []string{"compare", "a.txt", "b.txt"},
			check: func(t *testing.T, opt *Option) {
				assert.Equal(t, "compare", opt.Command)
				assert.Equal(t, "a.txt", opt.Compare.Args.A)
				assert.Equal(t, "b.txt", opt.Compare.Args.B)
			},
		},
		"compare wants two arguments": {
			args:    []string{"compare", "a.txt"},
			wantErr: true,
		},
		"advice with dump": {
			args: []string{"advice", "propwash", "--dump", "quad.txt"},
			check: func(t *testing.T, opt *Option) {
				assert.Equal(t, "advice", opt.Command)
				assert.Equal(t, "propwash", opt.Advice.Args.Symptom)
				assert.Equal(t, "quad.txt", opt.Advice.Dump)
			},
		},
		"rpm-filter": {
			args: []string{"rpm-filter", "--kv", "1800", "--battery", "6S"},
			check: func(t *testing.T, opt *Option) {
				assert.Equal(t, "rpm-filter", opt.Command)
				assert.Equal(t, 1800, opt.RPMFilter.KV)
				assert.Equal(t, "6S", opt.RPMFilter.Battery)
				assert.Equal(t, 5.0, opt.RPMFilter.Prop)
			},
		},
		"rpm-filter wants kv": {
			args:    []string{"rpm-filter"},
			wantErr: true,
		},
		"preset with style": {
			args: []string{"preset", "mini", "--style", "racing"},
			check: func(t *testing.T, opt *Option) {
				assert.Equal(t, "preset", opt.Command)
				assert.Equal(t, "mini", opt.Preset.Args.Class)
				assert.Equal(t, "racing", opt.Preset.Style)
			},
		},
		"watch with pattern": {
			args: []string{"watch", "dumps", "--pattern", "*.txt"},
			check: func(t *testing.T, opt *Option) {
				assert.Equal(t, "watch", opt.Command)
				assert.Equal(t, "dumps", opt.Watch.Args.Dir)
				assert.Equal(t, "*.txt", opt.Watch.Pattern)
			},
		},
		"watch wants a directory": {
			args:    []string{"watch"},
			wantErr: true,
		},
		"serve with overrides": {
			args: []string{"serve", "--config", "web.yaml", "--listen", ":9000"},
			check: func(t *testing.T, opt *Option) {
				assert.Equal(t, "serve", opt.Command)
				assert.Equal(t, "web.yaml", opt.Serve.Config)
				assert.Equal(t, ":9000", opt.Serve.Listen)
			},
		},
		"schema": {
			args: []string{"schema"},
			check: func(t *testing.T, opt *Option) {
				assert.Equal(t, "schema", opt.Command)
			},
		},
		"unknown command": {
			args:    []string{"frobnicate"},
			wantErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			opt, err := Parse(test.args)

			if test.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if test.check != nil {
				test.check(t, opt)
			}
		})
	}
}

func TestIsHelp(t *testing.T) {
	_, err := Parse([]string{"--help"})
	require.Error(t, err)
	assert.True(t, IsHelp(err))

	_, err = Parse([]string{"compare"})
	require.Error(t, err)
	assert.False(t, IsHelp(err))
}

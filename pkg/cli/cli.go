// SPDX-License-Identifier: GPL-3.0-or-later

// Package cli defines the command line interface.
package cli

import (
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Option defines command line options.
type Option struct {
	Debug   bool `short:"d" long:"debug" description:"debug mode"`
	Version bool `short:"v" long:"version" description:"display the version and exit"`

	Analyze   *AnalyzeCmd   `command:"analyze" description:"analyze dump files and print diagnostic reports"`
	Compare   *CompareCmd   `command:"compare" description:"compare two dumps key by key"`
	Fixes     *FixesCmd     `command:"fixes" description:"print only the suggested fix commands for a dump"`
	Rules     *RulesCmd     `command:"rules" description:"list the diagnostic rule catalog"`
	Advice    *AdviceCmd    `command:"advice" description:"print tuning advice for a flight symptom"`
	RPMFilter *RPMFilterCmd `command:"rpm-filter" description:"calculate RPM filter settings for a motor and battery"`
	Preset    *PresetCmd    `command:"preset" description:"print PID and filter baselines for a frame class"`
	Watch     *WatchCmd     `command:"watch" description:"watch a directory and analyze dumps as they change"`
	Serve     *ServeCmd     `command:"serve" description:"serve the engine over HTTP"`
	Schema    *SchemaCmd    `command:"schema" description:"print the server config JSON schema"`

	// Command is the subcommand picked on the command line, empty when none.
	Command string
}

// AnalyzeCmd analyzes one or more dump files, or stdin with "-".
type AnalyzeCmd struct {
	JSON        bool `long:"json" description:"print the full report as JSON"`
	FixesOnly   bool `long:"fixes-only" description:"print only the suggested fix commands"`
	Concurrency int  `long:"concurrency" description:"max files analyzed in parallel" default:"4"`
	Args        struct {
		Files []string `positional-arg-name:"FILE" description:"dump files, or - for stdin"`
	} `positional-args:"yes"`
}

// CompareCmd compares two dumps. Either side may be a saved report file.
type CompareCmd struct {
	Args struct {
		A string `positional-arg-name:"A" description:"first dump or report file, or - for stdin"`
		B string `positional-arg-name:"B" description:"second dump or report file"`
	} `positional-args:"yes" required:"yes"`
}

type FixesCmd struct {
	Args struct {
		File string `positional-arg-name:"FILE" description:"dump file, or - for stdin"`
	} `positional-args:"yes" required:"yes"`
}

type RulesCmd struct{}

// AdviceCmd prints tuning advice. Without a symptom it lists the catalog.
type AdviceCmd struct {
	Dump string `long:"dump" description:"dump file supplying the current values"`
	Args struct {
		Symptom string `positional-arg-name:"SYMPTOM" description:"symptom id, see the list printed without arguments"`
	} `positional-args:"yes"`
}

type RPMFilterCmd struct {
	KV      int     `long:"kv" description:"motor KV rating" required:"yes"`
	Battery string  `long:"battery" description:"battery cell count, e.g. 4S" default:"4S"`
	Prop    float64 `long:"prop" description:"prop size in inches" default:"5.0"`
}

// PresetCmd prints baselines. Without a class it lists classes and styles.
type PresetCmd struct {
	Style string  `long:"style" description:"flying style: freestyle, racing or longrange" default:"freestyle"`
	Size  float64 `long:"size" description:"prop size in inches, used to detect the class"`
	Args  struct {
		Class string `positional-arg-name:"CLASS" description:"frame class, see the list printed without arguments"`
	} `positional-args:"yes"`
}

type WatchCmd struct {
	Pattern string `long:"pattern" description:"glob of dump files to watch (default **/*.{txt,diff,dump})"`
	Args    struct {
		Dir string `positional-arg-name:"DIR" description:"directory to watch"`
	} `positional-args:"yes" required:"yes"`
}

type ServeCmd struct {
	Config string `long:"config" description:"server config file (YAML)"`
	Listen string `long:"listen" description:"listen address, overrides the config file"`
}

type SchemaCmd struct{}

// Parse returns parsed command-line flags in Option struct
func Parse(args []string) (*Option, error) {
	opt := &Option{}

	parser := flags.NewParser(opt, flags.Default)
	parser.Name = "configdoctor"
	parser.Usage = "[OPTIONS] COMMAND [ARGS]"
	parser.SubcommandsOptional = true

	rest, err := parser.ParseArgs(args)
	if err != nil {
		return nil, err
	}

	if parser.Active != nil {
		opt.Command = parser.Active.Name
	} else if len(rest) > 0 {
		return nil, fmt.Errorf("unknown command '%s'", rest[0])
	}

	return opt, nil
}

func IsHelp(err error) bool {
	return flags.WroteHelp(err)
}

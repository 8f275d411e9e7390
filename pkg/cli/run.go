// SPDX-License-Identifier: GPL-3.0-or-later

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Santipap250/configdoctor/advisor"
	"github.com/Santipap250/configdoctor/diag"
	"github.com/Santipap250/configdoctor/dump"
	"github.com/Santipap250/configdoctor/preset"
	"github.com/Santipap250/configdoctor/rpmfilter"
	"github.com/Santipap250/configdoctor/watch"
	"github.com/Santipap250/configdoctor/web"
)

// Run executes the selected command. Human readable output goes to out;
// in stands in for stdin when a file argument is "-".
func Run(ctx context.Context, opt *Option, in io.Reader, out io.Writer) error {
	switch opt.Command {
	case "analyze":
		return runAnalyze(opt.Analyze, in, out)
	case "compare":
		return runCompare(opt.Compare, in, out)
	case "fixes":
		return runFixes(opt.Fixes, in, out)
	case "rules":
		return runRules(out)
	case "advice":
		return runAdvice(opt.Advice, in, out)
	case "rpm-filter":
		return runRPMFilter(opt.RPMFilter, out)
	case "preset":
		return runPreset(opt.Preset, out)
	case "watch":
		return runWatch(ctx, opt.Watch, out)
	case "serve":
		return runServe(ctx, opt.Serve)
	case "schema":
		return runSchema(out)
	case "":
		return fmt.Errorf("no command given, see --help")
	default:
		return fmt.Errorf("unknown command '%s'", opt.Command)
	}
}

func runAnalyze(cmd *AnalyzeCmd, in io.Reader, out io.Writer) error {
	files := cmd.Args.Files
	if len(files) == 0 {
		return fmt.Errorf("no input files, pass dump files or - for stdin")
	}

	if len(files) == 1 {
		text, err := readInput(files[0], in)
		if err != nil {
			return err
		}
		return writeAnalysis(out, diag.Analyze(text), cmd)
	}

	for _, f := range files {
		if f == "-" {
			return fmt.Errorf("stdin cannot be mixed with file arguments")
		}
	}

	var firstErr error
	for i, fr := range diag.AnalyzeFiles(files, cmd.Concurrency) {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "=== %s\n", fr.Path)

		if fr.Err != nil {
			fmt.Fprintf(out, "error: %v\n", fr.Err)
			if firstErr == nil {
				firstErr = fmt.Errorf("analyze '%s': %v", fr.Path, fr.Err)
			}
			continue
		}
		if err := writeAnalysis(out, fr.Report, cmd); err != nil {
			return err
		}
	}

	return firstErr
}

func writeAnalysis(out io.Writer, report *diag.Report, cmd *AnalyzeCmd) error {
	switch {
	case cmd.FixesOnly:
		writeFixCommands(out, report.FixCommands)
		return nil
	case cmd.JSON:
		return writeJSON(out, report)
	default:
		writeReport(out, report)
		return nil
	}
}

func runCompare(cmd *CompareCmd, in io.Reader, out io.Writer) error {
	textA, err := readInput(cmd.Args.A, in)
	if err != nil {
		return err
	}
	textB, err := readInput(cmd.Args.B, in)
	if err != nil {
		return err
	}

	// Either side may be a saved report instead of a raw dump.
	textA, _ = diag.ReportDumpText(textA)
	textB, _ = diag.ReportDumpText(textB)

	d := dump.Compare(textA, textB)

	fmt.Fprintln(out, d.Summary)

	if len(d.Changed) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "changed (%d):\n", len(d.Changed))
		for _, c := range d.Changed {
			fmt.Fprintf(out, "  %s: %s -> %s", c.Key, c.A, c.B)
			if c.Explanation != "" {
				fmt.Fprintf(out, " (%s)", c.Explanation)
			}
			fmt.Fprintln(out)
		}
	}
	if len(d.OnlyInA) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "only in A (%d):\n", len(d.OnlyInA))
		for _, kv := range d.OnlyInA {
			fmt.Fprintf(out, "  %s = %s\n", kv.Key, kv.Value)
		}
	}
	if len(d.OnlyInB) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "only in B (%d):\n", len(d.OnlyInB))
		for _, kv := range d.OnlyInB {
			fmt.Fprintf(out, "  %s = %s\n", kv.Key, kv.Value)
		}
	}

	return nil
}

func runFixes(cmd *FixesCmd, in io.Reader, out io.Writer) error {
	text, err := readInput(cmd.Args.File, in)
	if err != nil {
		return err
	}

	writeFixCommands(out, diag.Analyze(text).FixCommands)
	return nil
}

func runRules(out io.Writer) error {
	fmt.Fprintln(out, "diagnostic rules, in evaluation order:")
	for _, r := range diag.Rules() {
		fmt.Fprintf(out, "  %-18s %s\n", r.ID, r.Category)
	}
	return nil
}

func runAdvice(cmd *AdviceCmd, in io.Reader, out io.Writer) error {
	if cmd.Args.Symptom == "" {
		fmt.Fprintln(out, "symptoms:")
		for _, s := range advisor.List() {
			fmt.Fprintf(out, "  %-24s %s\n", s.ID, s.Label)
		}
		return nil
	}

	var params map[string]dump.Value
	if cmd.Dump != "" {
		text, err := readInput(cmd.Dump, in)
		if err != nil {
			return err
		}
		params = dump.Parse(text).Settings
	}

	advice, err := advisor.Advise(cmd.Args.Symptom, params)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s (%s)\n", advice.Label, advice.DisplayCategory())
	fmt.Fprintf(out, "diagnosis: %s\n", advice.Diagnosis)
	fmt.Fprintf(out, "likely cause: %s\n", advice.PrimaryCause)

	if len(advice.Adjustments) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "adjustments:")
		for _, a := range advice.Adjustments {
			fmt.Fprintf(out, "  %s: %s, %s (%s)\n", a.Param, a.Direction, a.Amount, a.Reason)
		}
	}

	if len(advice.Commands) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "commands:")
		for _, c := range advice.Commands {
			fmt.Fprintf(out, "  %s\n", c)
		}
	}

	if len(advice.Tips) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "tips:")
		for _, tip := range advice.Tips {
			fmt.Fprintf(out, "  - %s\n", tip)
		}
	}

	return nil
}

func runRPMFilter(cmd *RPMFilterCmd, out io.Writer) error {
	res, err := rpmfilter.Calculate(cmd.KV, cmd.Battery, cmd.Prop)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "motor: %dKV on %dS, %.1f\" props\n", res.KV, res.Cells, res.PropSize)
	fmt.Fprintf(out, "max RPM: %d unloaded, %d loaded\n", res.RPMUnloadedMax, res.RPMLoadedMax)

	fmt.Fprintln(out)
	fmt.Fprintln(out, "throttle    rpm     1x    2x    3x    4x")
	for _, p := range res.ThrottleTable {
		fmt.Fprintf(out, "%8s %6d", p.Throttle, p.RPM)
		for _, h := range p.Harmonics {
			fmt.Fprintf(out, " %5d", h.Hz)
		}
		fmt.Fprintln(out)
	}

	if len(res.Warnings) > 0 {
		fmt.Fprintln(out)
		for _, w := range res.Warnings {
			fmt.Fprintf(out, "warning: %s\n", w)
		}
	}

	fmt.Fprintln(out)
	for _, n := range res.Notes {
		fmt.Fprintf(out, "note: %s\n", n)
	}

	fmt.Fprintln(out)
	for _, c := range res.CLICommands {
		fmt.Fprintln(out, c)
	}

	return nil
}

func runPreset(cmd *PresetCmd, out io.Writer) error {
	if !preset.HasStyle(cmd.Style) {
		return fmt.Errorf("unknown style '%s', pick one of: %s",
			cmd.Style, strings.Join(preset.Styles(), ", "))
	}

	class := cmd.Args.Class
	switch {
	case class == "" && cmd.Size > 0:
		class, _ = preset.DetectClass(cmd.Size)
		fmt.Fprintf(out, "# detected class '%s' for %.1f\" props\n", class, cmd.Size)
	case class == "":
		fmt.Fprintln(out, "classes:")
		for _, c := range preset.Classes() {
			fmt.Fprintf(out, "  %-12s %4.1f-%.1f\"  %s\n", c.Key, c.SizeMin, c.SizeMax, c.Description)
		}
		fmt.Fprintf(out, "styles: %s\n", strings.Join(preset.Styles(), ", "))
		return nil
	case !preset.HasClass(class):
		return fmt.Errorf("unknown class '%s', run 'preset' without arguments to list them", class)
	}

	for _, c := range preset.Commands(class, cmd.Style) {
		fmt.Fprintln(out, c)
	}
	return nil
}

func runWatch(ctx context.Context, cmd *WatchCmd, out io.Writer) error {
	w, err := watch.New(watch.Config{Dir: cmd.Args.Dir, Pattern: cmd.Pattern},
		func(path string, report *diag.Report) {
			fmt.Fprintf(out, "=== %s\n", path)
			writeReport(out, report)
			fmt.Fprintln(out)
		})
	if err != nil {
		return err
	}

	return w.Run(ctx)
}

func runServe(ctx context.Context, cmd *ServeCmd) error {
	cfg, err := web.LoadConfig(cmd.Config)
	if err != nil {
		return err
	}
	if cmd.Listen != "" {
		cfg.ListenAddr = cmd.Listen
	}

	return web.New(cfg).Run(ctx)
}

func runSchema(out io.Writer) error {
	data, err := web.ConfigSchema()
	if err != nil {
		return err
	}

	_, err = out.Write(data)
	return err
}

func readInput(path string, in io.Reader) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("read stdin: %v", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read dump: %v", err)
	}
	return string(data), nil
}

func writeReport(out io.Writer, report *diag.Report) {
	fw := report.Firmware
	if fw.Version != nil {
		fmt.Fprintf(out, "firmware: %s %s\n", fw.Family, fw.Version)
	} else {
		fmt.Fprintf(out, "firmware: %s\n", fw.Family)
	}
	fmt.Fprintln(out, report.Summary)

	if len(report.Findings) == 0 {
		fmt.Fprintln(out, "no findings, configuration looks sane")
		return
	}

	fmt.Fprintln(out)
	for _, f := range report.Findings {
		fmt.Fprintf(out, "[%s] %s: %s\n", f.Severity, f.ID, f.Message)
		if f.Suggestion != "" {
			fmt.Fprintf(out, "    fix: %s\n", f.Suggestion)
		}
	}

	if len(report.FixCommands) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "fix commands:")
		for _, c := range report.FixCommands {
			fmt.Fprintf(out, "  %s\n", c)
		}
	}
}

func writeFixCommands(out io.Writer, commands []string) {
	if len(commands) == 0 {
		fmt.Fprintln(out, "no automatic fixes for this dump")
		return
	}
	for _, c := range commands {
		fmt.Fprintln(out, c)
	}
}

func writeJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%s\n", data)
	return err
}

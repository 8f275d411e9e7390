// SPDX-License-Identifier: GPL-3.0-or-later

// Package advisor maps flight symptoms reported by the pilot to their
// likely configuration causes and to concrete CLI commands that address
// them. Command templates are rendered against the parameters of the
// current dump, so suggested values start from what the craft actually
// runs instead of factory defaults.
package advisor

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Santipap250/configdoctor/dump"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Adjustment is a single recommended parameter change.
type Adjustment struct {
	Param     string `json:"param"`
	Direction string `json:"direction"`
	Amount    string `json:"amount"`
	Reason    string `json:"reason"`
}

// Symptom ties a flight problem to its usual causes and the commands
// that address them. Template lines may reference current parameter
// values through the "param" template function.
type Symptom struct {
	ID           string       `json:"id"`
	Label        string       `json:"label"`
	Category     string       `json:"category"`
	Diagnosis    string       `json:"diagnosis"`
	PrimaryCause string       `json:"primary_cause"`
	Adjustments  []Adjustment `json:"adjustments"`
	Template     []string     `json:"cli_template"`
	Tips         []string     `json:"tips"`
}

// DisplayCategory returns the category formatted for humans.
func (s Symptom) DisplayCategory() string {
	return cases.Title(language.English, cases.Compact).String(strings.ReplaceAll(s.Category, "_", " "))
}

// SymptomInfo identifies a symptom in listings.
type SymptomInfo struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Category string `json:"category"`
}

// Advice is a symptom plus its command list rendered against the
// current configuration.
type Advice struct {
	Symptom
	Commands []string `json:"commands"`
}

// List returns every known symptom in catalog order.
func List() []SymptomInfo {
	infos := make([]SymptomInfo, 0, len(symptoms))
	for _, s := range symptoms {
		infos = append(infos, SymptomInfo{ID: s.ID, Label: s.Label, Category: s.Category})
	}
	return infos
}

// Advise returns the advice for the given symptom id. Params holds the
// settings of the current dump and may be nil, in which case rendered
// command values fall back to typical defaults.
func Advise(id string, params map[string]dump.Value) (*Advice, error) {
	s, ok := symptomByID[id]
	if !ok {
		return nil, fmt.Errorf("unknown symptom '%s'", id)
	}

	cmds, err := renderCommands(s.Template, params)
	if err != nil {
		return nil, fmt.Errorf("symptom '%s': %v", id, err)
	}

	return &Advice{Symptom: *s, Commands: cmds}, nil
}

func renderCommands(lines []string, params map[string]dump.Value) ([]string, error) {
	fm := newFuncMap(params)

	cmds := make([]string, 0, len(lines))

	var buf bytes.Buffer

	for _, line := range lines {
		if !strings.Contains(line, "{{") {
			cmds = append(cmds, line)
			continue
		}

		tmpl, err := parseTemplate(line, fm)
		if err != nil {
			return nil, err
		}

		buf.Reset()
		if err := tmpl.Execute(&buf, nil); err != nil {
			return nil, err
		}

		cmds = append(cmds, buf.String())
	}

	return cmds, nil
}

func parseTemplate(s string, fm template.FuncMap) (*template.Template, error) {
	return template.New("advice").
		Option("missingkey=error").
		Funcs(fm).
		Parse(s)
}

var symptomByID = make(map[string]*Symptom, len(symptoms))

func init() {
	for i := range symptoms {
		symptomByID[symptoms[i].ID] = &symptoms[i]
	}
}

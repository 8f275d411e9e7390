// SPDX-License-Identifier: GPL-3.0-or-later

package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/valyala/fastjson"

	"github.com/Santipap250/configdoctor/advisor"
	"github.com/Santipap250/configdoctor/diag"
	"github.com/Santipap250/configdoctor/dump"
	"github.com/Santipap250/configdoctor/pkg/buildinfo"
	"github.com/Santipap250/configdoctor/rpmfilter"
)

var parsers fastjson.ParserPool

func (s *Service) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/v1/compare", s.handleCompare)
	mux.HandleFunc("POST /api/v1/fixes", s.handleFixes)
	mux.HandleFunc("POST /api/v1/advice", s.handleAdvice)
	mux.HandleFunc("POST /api/v1/rpm-filter", s.handleRPMFilter)
	mux.HandleFunc("GET /api/v1/rules", s.handleRules)
	mux.HandleFunc("GET /api/v1/symptoms", s.handleSymptoms)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
}

type errorReply struct {
	Error string `json:"error"`
}

type fixesReply struct {
	Severity    string   `json:"severity"`
	FixCommands []string `json:"fix_commands"`
}

type rulesReply struct {
	Rules []diag.RuleInfo `json:"rules"`
}

type symptomsReply struct {
	Symptoms []advisor.SymptomInfo `json:"symptoms"`
}

type healthReply struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Service) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	p := parsers.Get()
	defer parsers.Put(p)

	v, ok := s.readJSON(w, r, p)
	if !ok {
		return
	}

	text := string(v.GetStringBytes("dump"))
	if text == "" {
		s.writeError(w, http.StatusBadRequest, "missing 'dump' field")
		return
	}

	s.writeJSON(w, http.StatusOK, s.analyzeCached(text))
}

func (s *Service) handleCompare(w http.ResponseWriter, r *http.Request) {
	p := parsers.Get()
	defer parsers.Put(p)

	v, ok := s.readJSON(w, r, p)
	if !ok {
		return
	}

	textA := string(v.GetStringBytes("dump_a"))
	textB := string(v.GetStringBytes("dump_b"))
	if textA == "" || textB == "" {
		s.writeError(w, http.StatusBadRequest, "both 'dump_a' and 'dump_b' fields are required")
		return
	}

	// Either side may be a saved report instead of a raw dump.
	textA, _ = diag.ReportDumpText(textA)
	textB, _ = diag.ReportDumpText(textB)

	s.writeJSON(w, http.StatusOK, dump.Compare(textA, textB))
}

func (s *Service) handleFixes(w http.ResponseWriter, r *http.Request) {
	p := parsers.Get()
	defer parsers.Put(p)

	v, ok := s.readJSON(w, r, p)
	if !ok {
		return
	}

	text := string(v.GetStringBytes("dump"))
	if text == "" {
		s.writeError(w, http.StatusBadRequest, "missing 'dump' field")
		return
	}

	report := s.analyzeCached(text)

	s.writeJSON(w, http.StatusOK, fixesReply{
		Severity:    report.Severity,
		FixCommands: report.FixCommands,
	})
}

func (s *Service) handleAdvice(w http.ResponseWriter, r *http.Request) {
	p := parsers.Get()
	defer parsers.Put(p)

	v, ok := s.readJSON(w, r, p)
	if !ok {
		return
	}

	id := string(v.GetStringBytes("symptom"))
	if id == "" {
		s.writeError(w, http.StatusBadRequest, "missing 'symptom' field")
		return
	}

	var params map[string]dump.Value
	if text := string(v.GetStringBytes("dump")); text != "" {
		params = dump.Parse(text).Settings
	}

	advice, err := advisor.Advise(id, params)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, advice)
}

func (s *Service) handleRPMFilter(w http.ResponseWriter, r *http.Request) {
	p := parsers.Get()
	defer parsers.Put(p)

	v, ok := s.readJSON(w, r, p)
	if !ok {
		return
	}

	result, err := rpmfilter.Calculate(
		v.GetInt("kv"),
		string(v.GetStringBytes("battery")),
		v.GetFloat64("prop_size"),
	)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Service) handleRules(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, rulesReply{Rules: diag.Rules()})
}

func (s *Service) handleSymptoms(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, symptomsReply{Symptoms: advisor.List()})
}

func (s *Service) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, healthReply{Status: "ok", Version: buildinfo.Version})
}

// analyzeCached reuses a cached report when the dump fingerprint matches,
// so resubmitting an unchanged configuration is free.
func (s *Service) analyzeCached(text string) *diag.Report {
	d := dump.Parse(text)
	fw := dump.DetectFirmware(text)
	key := diag.Fingerprint(d, fw)

	if report, ok := s.cache.get(key); ok {
		return report
	}

	report := diag.Analyze(text)
	s.cache.put(key, report)
	return report
}

// readJSON reads and parses the request body. On failure it writes the
// error response itself and returns ok=false.
func (s *Service) readJSON(w http.ResponseWriter, r *http.Request, p *fastjson.Parser) (*fastjson.Value, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", s.cfg.MaxBodyBytes))
		} else {
			s.writeError(w, http.StatusBadRequest, "cannot read request body")
		}
		return nil, false
	}

	v, err := p.ParseBytes(body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed JSON")
		return nil, false
	}

	return v, true
}

func (s *Service) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Warningf("write response: %v", err)
	}
}

func (s *Service) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorReply{Error: msg})
}

// SPDX-License-Identifier: GPL-3.0-or-later

package diag

import (
	"os"

	"github.com/sourcegraph/conc/pool"
)

// FileReport pairs one input path with its report, or with the read error
// that prevented one.
type FileReport struct {
	Path   string  `json:"path"`
	Report *Report `json:"report,omitempty"`
	Err    error   `json:"-"`
}

// AnalyzeFiles analyzes many dump files concurrently with at most
// maxConcurrency goroutines. Results come back in input order regardless of
// which file finished first.
func AnalyzeFiles(paths []string, maxConcurrency int) []FileReport {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}

	reports := make([]FileReport, len(paths))

	p := pool.New().WithMaxGoroutines(maxConcurrency)
	for i, path := range paths {
		p.Go(func() {
			bs, err := os.ReadFile(path)
			if err != nil {
				reports[i] = FileReport{Path: path, Err: err}
				return
			}
			reports[i] = FileReport{Path: path, Report: Analyze(string(bs))}
		})
	}
	p.Wait()

	return reports
}

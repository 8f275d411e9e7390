// SPDX-License-Identifier: GPL-3.0-or-later

package diag

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeFiles(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "quad.txt")
	require.NoError(t, os.WriteFile(good, []byte("set min_throttle = 980\n"), 0o644))

	clean := filepath.Join(dir, "clean.txt")
	require.NoError(t, os.WriteFile(clean, []byte("set failsafe_delay = 4\nset serialrx_provider = CRSF\n"), 0o644))

	missing := filepath.Join(dir, "missing.txt")

	reports := AnalyzeFiles([]string{good, clean, missing}, 4)

	require.Len(t, reports, 3)

	assert.Equal(t, good, reports[0].Path)
	require.NotNil(t, reports[0].Report)
	assert.Equal(t, "warning", reports[0].Report.Severity)
	assert.NoError(t, reports[0].Err)

	assert.Equal(t, clean, reports[1].Path)
	require.NotNil(t, reports[1].Report)
	assert.Equal(t, "ok", reports[1].Report.Severity)

	assert.Equal(t, missing, reports[2].Path)
	assert.Nil(t, reports[2].Report)
	assert.Error(t, reports[2].Err)
}

func TestAnalyzeFiles_ConcurrencyClamped(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "quad.txt")
	require.NoError(t, os.WriteFile(path, []byte("set looptime = 500\n"), 0o644))

	reports := AnalyzeFiles([]string{path}, 0)

	require.Len(t, reports, 1)
	require.NotNil(t, reports[0].Report)
}

// SPDX-License-Identifier: GPL-3.0-or-later

package advisor

import (
	"text/template"

	"github.com/Santipap250/configdoctor/dump"

	"github.com/Masterminds/sprig/v3"
)

func newFuncMap(params map[string]dump.Value) template.FuncMap {
	fm := sprig.TxtFuncMap()

	extra := map[string]any{
		// param returns the numeric value of a parameter from the
		// current dump, or def when the dump lacks it or carries a
		// non-numeric value.
		"param": func(key string, def any) any {
			if v, ok := params[key]; ok {
				if num, ok := v.Num(); ok {
					return num
				}
			}
			return def
		},
	}

	for name, fn := range extra {
		fm[name] = fn
	}

	return fm
}

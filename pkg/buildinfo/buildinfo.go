// SPDX-License-Identifier: GPL-3.0-or-later

package buildinfo

import "fmt"

// Version stores the binary's version number. It's set during the build process using build flags.
var Version = "v0.0.0"

// Commit stores the abbreviated git revision the binary was built from.
// This value is set during the build process using build flags.
var Commit = ""

func Info() string {
	if Commit == "" {
		return fmt.Sprintf("version: %s", Version)
	}
	return fmt.Sprintf("version: %s, commit: %s", Version, Commit)
}

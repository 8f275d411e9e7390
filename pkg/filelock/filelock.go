// SPDX-License-Identifier: GPL-3.0-or-later

// Package filelock provides advisory file locks used to keep two processes
// from watching the same dump directory.
package filelock

import (
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockName = ".configdoctor.lock"

// TryLock takes an advisory lock scoped to dir. It returns false when another
// process already holds the lock.
func TryLock(dir string) (*Lock, bool, error) {
	fl := flock.New(filepath.Join(dir, lockName))

	ok, err := fl.TryLock()
	if err != nil || !ok {
		_ = fl.Close()
		return nil, false, err
	}

	return &Lock{fl: fl}, true, nil
}

type Lock struct {
	fl *flock.Flock
}

func (l *Lock) Path() string {
	if l == nil || l.fl == nil {
		return ""
	}
	return l.fl.Path()
}

func (l *Lock) Release() {
	if l != nil && l.fl != nil {
		_ = l.fl.Close()
	}
}

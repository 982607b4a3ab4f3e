// SPDX-License-Identifier: GPL-2.0-or-later

package conlog

import (
	"log"
	"sync"
)

var (
	mutex     sync.RWMutex
	p         = log.Printf
	sp        = log.Printf
	dp        = log.Printf
	developer bool
)

func SetPrintf(f func(string, ...any)) {
	mutex.Lock()
	defer mutex.Unlock()
	p = f
}

func SetSafePrintf(f func(string, ...any)) {
	mutex.Lock()
	defer mutex.Unlock()
	sp = f
}

func SetDPrintf(f func(string, ...any)) {
	mutex.Lock()
	defer mutex.Unlock()
	dp = f
}

// SetDeveloper enables the output of DPrintf.
func SetDeveloper(on bool) {
	mutex.Lock()
	defer mutex.Unlock()
	developer = on
}

func Printf(format string, v ...any) {
	mutex.RLock()
	f := p
	mutex.RUnlock()
	f(format, v...)
}

// SafePrintf is used for output that must not be interleaved with
// status updates, like listings.
func SafePrintf(format string, v ...any) {
	mutex.RLock()
	f := sp
	mutex.RUnlock()
	f(format, v...)
}

func DPrintf(format string, v ...any) {
	mutex.RLock()
	f, on := dp, developer
	mutex.RUnlock()
	if on {
		f(format, v...)
	}
}

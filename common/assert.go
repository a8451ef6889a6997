// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package common

import (
	"fmt"
	"path/filepath"
	"runtime"
)

// FatalError is the value carried by panics raised for violated invariants.
// Such conditions leave the affected structure in an undefined state; they
// are not meant to be recovered from, except by tests checking that the
// violation is detected.
type FatalError struct {
	Function string // fully qualified name of the failing function
	Location string // file:line of the failing check
	Message  string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("FATAL: %s: %s: %s", e.Function, e.Location, e.Message)
}

// Fatalf aborts the current operation by panicking with a FatalError
// describing the caller of Fatalf.
func Fatalf(format string, args ...any) {
	panic(newFatalError(2, fmt.Sprintf(format, args...)))
}

// Assertf panics with a FatalError if the given condition does not hold.
// The message should name the failed condition.
func Assertf(condition bool, format string, args ...any) {
	if !condition {
		panic(newFatalError(2, "failed assertion: "+fmt.Sprintf(format, args...)))
	}
}

func newFatalError(skip int, msg string) *FatalError {
	res := &FatalError{Function: "?", Location: "?", Message: msg}
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return res
	}
	res.Location = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	if fn := runtime.FuncForPC(pc); fn != nil {
		res.Function = fn.Name()
	}
	return res
}

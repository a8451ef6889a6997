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
	"strings"
	"testing"
)

func AssertArraysEqual[V comparable](t *testing.T, first, second []V) {
	t.Helper()
	if len(first) != len(second) {
		t.Errorf("array sizes differ, %d != %d", len(first), len(second))
		return
	}
	for i := 0; i < len(first); i++ {
		if first[i] != second[i] {
			t.Errorf("assertValues failed at %d: %v != %v", i, first[i], second[i])
		}
	}
}

// ExpectFatal runs the given operation and fails the test unless it aborts
// with a FatalError whose message contains the given substring.
func ExpectFatal(t *testing.T, substring string, op func()) {
	t.Helper()
	defer func() {
		r := recover()
		err, ok := r.(*FatalError)
		if !ok {
			t.Fatalf("expected fatal error containing %q, got %v", substring, r)
		}
		if !strings.Contains(err.Message, substring) {
			t.Errorf("expected fatal error containing %q, got %q", substring, err.Message)
		}
	}()
	op()
}

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
	"strings"
	"testing"
)

func expectSubstr(t *testing.T, str, substring string) {
	t.Helper()
	if !strings.Contains(str, substring) {
		t.Errorf("expected %v to contain substring %v", str, substring)
	}
}

func TestMemoryFootprintIsFormatable(t *testing.T) {
	fp := NewMemoryFootprint(12)
	fp.AddChild("left", NewMemoryFootprint(50*1024))
	fp.AddChild("right", NewMemoryFootprint(10*1024*1024+200*1024))

	print := fmt.Sprintf("%v", fp)
	expectSubstr(t, print, "10.2 MB .")
	expectSubstr(t, print, "50.0 KB ./left")
	expectSubstr(t, print, "10.2 MB ./right")
}

func TestMemoryFootprintSmallValuesArePrintedInBytes(t *testing.T) {
	fp := NewMemoryFootprint(12)
	expectSubstr(t, fp.String(), "12 B .")
}

func TestMemoryFootprintContainsNote(t *testing.T) {
	fp := NewMemoryFootprint(12)
	fp.SetNote("Hello")
	expectSubstr(t, fp.String(), "(Hello)")
}

func TestMemoryFootprintValue(t *testing.T) {
	fp := NewMemoryFootprint(12)
	if want, got := uintptr(12), fp.Value(); want != got {
		t.Errorf("value does not match, wanted %d, got %d", want, got)
	}
}

func TestMemoryFootprintTotal(t *testing.T) {
	fp := NewMemoryFootprint(12)
	fp.AddChild("a", NewMemoryFootprint(10))
	fp.AddChild("b", NewMemoryFootprint(20))
	if want, got := uintptr(42), fp.Total(); want != got {
		t.Errorf("total does not match, wanted %d, got %d", want, got)
	}
	if fp.GetChild("a").Value() != 10 {
		t.Errorf("child not accessible")
	}
	if fp.GetChild("c") != nil {
		t.Errorf("unknown child should be nil")
	}
}

func TestMemoryFootprint_SharedComponentsAreCountedOnce(t *testing.T) {
	shared := NewMemoryFootprint(100)
	fp := NewMemoryFootprint(12)
	fp.AddChild("x", shared)
	fp.AddChild("y", shared)
	fp.AddChild("self", fp)

	if want, got := uintptr(112), fp.Total(); want != got {
		t.Errorf("total does not match, wanted %d, got %d", want, got)
	}
	// must terminate despite the cycle
	_ = fp.String()
}

// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package dict

import (
	"bytes"
	"testing"

	"github.com/modmw/mdsl/fuzzing"
)

// This fuzzer triggers a sequence of random operations on a dictionary.
// A shadow map mimics the same operations; results of every operation are
// compared to the shadow and the structural properties of the trie are
// verified after every modification. Keys are formed by repeating a short
// pattern to get long keys sharing prefixes, crossing node boundaries.

func FuzzDict_RandomOps(f *testing.F) {
	fuzzing.Fuzz[dictFuzzingContext](f, &dictFuzzingCampaign{})
}

type dictOpType byte

const (
	opGet dictOpType = iota
	opSet
	opDelete
	opForEach
	numDictOps
)

// fuzzKey describes a key as a pattern byte repeated a number of times and
// followed by a suffix byte.
type fuzzKey struct {
	pattern, repeat, suffix byte
}

func (k fuzzKey) bytes() []byte {
	res := bytes.Repeat([]byte{k.pattern % 4}, int(k.repeat%80))
	if k.suffix%2 == 0 {
		res = append(res, k.suffix)
	}
	return res
}

func (k fuzzKey) serialise() []byte {
	return []byte{k.pattern, k.repeat, k.suffix}
}

type dictFuzzingCampaign struct{}

type dictFuzzingContext struct {
	dict   *Dict[int]
	shadow map[string]int
}

func (c *dictFuzzingCampaign) Init() []fuzzing.OperationSequence[dictFuzzingContext] {
	long := fuzzKey{1, 70, 1}
	return []fuzzing.OperationSequence[dictFuzzingContext]{
		{&opSetKey{fuzzKey{0, 0, 1}, 1}, &opGetKey{fuzzKey{0, 0, 1}}, &opDeleteKey{fuzzKey{0, 0, 1}}},
		{&opSetKey{fuzzKey{1, 2, 1}, 1}, &opSetKey{fuzzKey{1, 3, 1}, 2}, &opSetKey{fuzzKey{1, 2, 4}, 3}, &opDeleteKey{fuzzKey{1, 2, 1}}, &opForEachKey{}},
		{&opSetKey{long, 1}, &opSetKey{fuzzKey{1, 20, 8}, 2}, &opDeleteKey{fuzzKey{1, 20, 8}}, &opGetKey{long}},
		{&opSetKey{long, 1}, &opSetKey{fuzzKey{1, 33, 1}, 2}, &opSetKey{fuzzKey{1, 66, 1}, 3}, &opDeleteKey{long}, &opForEachKey{}},
		{&opSetKey{long, 1}, &opSetKey{fuzzKey{1, 40, 8}, 2}, &opSetKey{fuzzKey{3, 2, 2}, 3}, &opDeleteKey{fuzzKey{3, 2, 2}}, &opGetKey{long}},
		{&opSetKey{fuzzKey{2, 40, 6}, 1}, &opSetKey{fuzzKey{2, 40, 8}, 2}, &opDeleteKey{fuzzKey{2, 40, 6}}, &opDeleteKey{fuzzKey{2, 40, 8}}},
	}
}

func (c *dictFuzzingCampaign) CreateContext(fuzzing.TestingT) *dictFuzzingContext {
	return &dictFuzzingContext{New[int](), map[string]int{}}
}

func (c *dictFuzzingCampaign) Deserialize(raw []byte) []fuzzing.Operation[dictFuzzingContext] {
	return parseDictOperations(raw)
}

func (c *dictFuzzingCampaign) Cleanup(t fuzzing.TestingT, ctx *dictFuzzingContext) {
	for key := range ctx.shadow {
		ctx.dict.Delete([]byte(key))
	}
	if want, got := 0, ctx.dict.root.children.Size(); want != got {
		t.Errorf("removing all keys left %d nodes below the root", got)
	}
	ctx.dict.Release()
}

func (c *dictFuzzingContext) check(t fuzzing.TestingT) {
	if err := c.dict.checkProperties(); err != nil {
		t.Errorf("invalid structure: %v", err)
	}
	if want, got := len(c.shadow), c.dict.Len(); want != got {
		t.Errorf("tested and shadow dictionary sizes diverged: %d != %d", got, want)
	}
}

type opGetKey struct {
	key fuzzKey
}

func (op *opGetKey) Serialize() []byte {
	return append([]byte{byte(opGet)}, op.key.serialise()...)
}

func (op *opGetKey) Apply(t fuzzing.TestingT, c *dictFuzzingContext) {
	key := op.key.bytes()
	got, found := c.dict.Get(key)
	want, shadowFound := c.shadow[string(key)]
	if found != shadowFound || got != want {
		t.Errorf("tested and shadow dictionary diverged for %x: %d/%t != %d/%t", key, got, found, want, shadowFound)
	}
}

type opSetKey struct {
	key   fuzzKey
	value byte
}

func (op *opSetKey) Serialize() []byte {
	return append(append([]byte{byte(opSet)}, op.key.serialise()...), op.value)
}

func (op *opSetKey) Apply(t fuzzing.TestingT, c *dictFuzzingContext) {
	key := op.key.bytes()
	got, existed := c.dict.Set(key, int(op.value))
	want, shadowExisted := c.shadow[string(key)]
	if existed != shadowExisted || got != want {
		t.Errorf("previous values diverged for %x: %d/%t != %d/%t", key, got, existed, want, shadowExisted)
	}
	c.shadow[string(key)] = int(op.value)
	c.check(t)
}

type opDeleteKey struct {
	key fuzzKey
}

func (op *opDeleteKey) Serialize() []byte {
	return append([]byte{byte(opDelete)}, op.key.serialise()...)
}

func (op *opDeleteKey) Apply(t fuzzing.TestingT, c *dictFuzzingContext) {
	key := op.key.bytes()
	got, existed := c.dict.Delete(key)
	want, shadowExisted := c.shadow[string(key)]
	if existed != shadowExisted || got != want {
		t.Errorf("removed values diverged for %x: %d/%t != %d/%t", key, got, existed, want, shadowExisted)
	}
	delete(c.shadow, string(key))
	c.check(t)
}

type opForEachKey struct{}

func (op *opForEachKey) Serialize() []byte {
	return []byte{byte(opForEach)}
}

func (op *opForEachKey) Apply(t fuzzing.TestingT, c *dictFuzzingContext) {
	seen := 0
	c.dict.ForEach(func(key []byte, value int) {
		seen++
		if want, found := c.shadow[string(key)]; !found || want != value {
			t.Errorf("unexpected entry %x -> %d", key, value)
		}
	})
	if want, got := len(c.shadow), seen; want != got {
		t.Errorf("number of visited entries does not match the shadow: %d != %d", got, want)
	}
}

// parseDictOperations converts fuzzer input to a list of operations, in
// the format <opType>[<pattern><repeat><suffix>[<value>]]. Parsing stops
// at the first incomplete operation.
func parseDictOperations(b []byte) []fuzzing.Operation[dictFuzzingContext] {
	var ops []fuzzing.Operation[dictFuzzingContext]
	for len(b) >= 1 {
		opType := dictOpType(b[0] % byte(numDictOps))
		b = b[1:]

		var key fuzzKey
		if opType != opForEach {
			if len(b) < 3 {
				return ops
			}
			key = fuzzKey{b[0], b[1], b[2]}
			b = b[3:]
		}

		switch opType {
		case opGet:
			ops = append(ops, &opGetKey{key})
		case opSet:
			if len(b) < 1 {
				return ops
			}
			ops = append(ops, &opSetKey{key, b[0]})
			b = b[1:]
		case opDelete:
			ops = append(ops, &opDeleteKey{key})
		case opForEach:
			ops = append(ops, &opForEachKey{})
		}
	}
	return ops
}

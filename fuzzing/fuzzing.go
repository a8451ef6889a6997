// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package fuzzing provides a framework for fuzzing data structures with
// random sequences of operations. A campaign defines the operations, how
// they are encoded as fuzzer input, and the context they are applied to,
// typically the tested structure together with a shadow model mimicking it.
package fuzzing

//go:generate mockgen -source fuzzing.go -destination fuzzing_mocks.go -package fuzzing

import "testing"

// TestingT is the subset of testing.T available to operations.
type TestingT interface {
	Helper()
	Errorf(format string, args ...any)
	Fatalf(format string, args ...any)
	Failed() bool
}

// TestingF is the subset of testing.F used to run a campaign.
type TestingF interface {
	Add(args ...any)
	Fuzz(ff any)
}

// Operation is a single step of a fuzzing campaign applied to a context.
type Operation[C any] interface {
	// Apply runs the operation on the context and reports divergences
	// from the expected behavior through t.
	Apply(t TestingT, c *C)
	// Serialize encodes the operation as fuzzer input.
	Serialize() []byte
}

// OperationSequence is a chain of operations applied in order.
type OperationSequence[C any] []Operation[C]

// Serialize encodes all operations of the sequence.
func (s OperationSequence[C]) Serialize() []byte {
	var res []byte
	for _, op := range s {
		res = append(res, op.Serialize()...)
	}
	return res
}

// Campaign defines a fuzzing campaign for a context type C.
type Campaign[C any] interface {
	// Init provides the seed sequences of the campaign.
	Init() []OperationSequence[C]
	// CreateContext creates a fresh context for a single fuzzer run.
	CreateContext(t TestingT) *C
	// Deserialize decodes fuzzer input into operations. Arbitrary input
	// must be accepted.
	Deserialize(raw []byte) []Operation[C]
	// Cleanup releases the context after a run and may run final checks.
	Cleanup(t TestingT, c *C)
}

// Fuzz seeds the fuzzer with the campaign's sequences and runs the
// operations decoded from each fuzzer input on a fresh context.
func Fuzz[C any](f TestingF, campaign Campaign[C]) {
	for _, seq := range campaign.Init() {
		f.Add(seq.Serialize())
	}
	f.Fuzz(func(t *testing.T, raw []byte) {
		c := campaign.CreateContext(t)
		for _, op := range campaign.Deserialize(raw) {
			op.Apply(t, c)
			if t.Failed() {
				break
			}
		}
		campaign.Cleanup(t, c)
	})
}

// ----------------------------------------------------------------------------
//                              Operation Registry
// ----------------------------------------------------------------------------

// OpType is the type of operation codes, encoded as the leading byte of
// each serialized operation.
type OpType interface {
	~byte
}

// Registry maps operation codes to operations, enabling generic
// serialization and parsing of operation sequences.
type Registry[T OpType, C any] struct {
	ops map[T]opDescription[T, C]
}

type opDescription[T OpType, C any] struct {
	create func(data any) Operation[C]
	read   func(raw []byte) (Operation[C], []byte)
}

// NewRegistry creates an empty registry.
func NewRegistry[T OpType, C any]() Registry[T, C] {
	return Registry[T, C]{ops: map[T]opDescription[T, C]{}}
}

// RegisterDataOp registers an operation carrying a payload of type D.
// The deserialise function consumes the encoded payload from the front of
// the given input and returns the remaining input; it must tolerate
// truncated input.
func RegisterDataOp[T OpType, C any, D any](
	registry Registry[T, C],
	opType T,
	serialise func(D) []byte,
	deserialise func([]byte) (D, []byte),
	apply func(T, D, TestingT, *C),
) {
	registry.ops[opType] = opDescription[T, C]{
		create: func(data any) Operation[C] {
			return &dataOp[T, C, D]{opType, data.(D), serialise, apply}
		},
		read: func(raw []byte) (Operation[C], []byte) {
			data, rest := deserialise(raw)
			return &dataOp[T, C, D]{opType, data, serialise, apply}, rest
		},
	}
}

// RegisterNoDataOp registers an operation without payload.
func RegisterNoDataOp[T OpType, C any](registry Registry[T, C], opType T, apply func(T, TestingT, *C)) {
	op := &noDataOp[T, C]{opType, apply}
	registry.ops[opType] = opDescription[T, C]{
		create: func(any) Operation[C] { return op },
		read:   func(raw []byte) (Operation[C], []byte) { return op, raw },
	}
}

// CreateDataOp creates an operation of a type registered by RegisterDataOp.
func (r Registry[T, C]) CreateDataOp(opType T, data any) Operation[C] {
	return r.ops[opType].create(data)
}

// CreateNoDataOp creates an operation of a type registered by
// RegisterNoDataOp.
func (r Registry[T, C]) CreateNoDataOp(opType T) Operation[C] {
	return r.ops[opType].create(nil)
}

// ReadNextOp parses the operation at the front of the given input. Unknown
// operation codes produce a nil operation. The remaining input is returned.
func (r Registry[T, C]) ReadNextOp(raw []byte) (T, Operation[C], []byte) {
	opType := T(raw[0])
	desc, found := r.ops[opType]
	if !found {
		return opType, nil, raw[1:]
	}
	op, rest := desc.read(raw[1:])
	return opType, op, rest
}

// ReadAllOps parses all operations of the given input, skipping unknown
// operation codes.
func (r Registry[T, C]) ReadAllOps(raw []byte) []Operation[C] {
	res := make([]Operation[C], 0, len(raw))
	for len(raw) > 0 {
		var op Operation[C]
		_, op, raw = r.ReadNextOp(raw)
		if op != nil {
			res = append(res, op)
		}
	}
	return res
}

type dataOp[T OpType, C any, D any] struct {
	opType    T
	data      D
	serialise func(D) []byte
	apply     func(T, D, TestingT, *C)
}

func (op *dataOp[T, C, D]) Apply(t TestingT, c *C) {
	op.apply(op.opType, op.data, t, c)
}

func (op *dataOp[T, C, D]) Serialize() []byte {
	return append([]byte{byte(op.opType)}, op.serialise(op.data)...)
}

type noDataOp[T OpType, C any] struct {
	opType T
	apply  func(T, TestingT, *C)
}

func (op *noDataOp[T, C]) Apply(t TestingT, c *C) {
	op.apply(op.opType, t, c)
}

func (op *noDataOp[T, C]) Serialize() []byte {
	return []byte{byte(op.opType)}
}

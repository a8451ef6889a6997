// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package bytemap

import (
	"fmt"
	"math/bits"
	"strings"
	"unsafe"

	"github.com/modmw/mdsl/common"
)

// ByteMap is a sparse map from a single byte to a value. Present keys are
// tracked in a 256-bit set; values are stored densely, ordered by key, and
// located through the rank of their key in the set. The zero value is an
// empty map. ByteMap instances are not safe for concurrent access.
type ByteMap[V any] struct {
	present [4]uint64
	values  []V
}

var _ common.MemoryFootprintProvider = (*ByteMap[int])(nil)

// Entry is a single key/value pair of a ByteMap.
type Entry[V any] struct {
	Key   byte
	Value V
}

func (e Entry[V]) String() string {
	return fmt.Sprintf("%02x -> %v", e.Key, e.Value)
}

// Get returns the value stored for the given key. The second result is
// false if the key is not present.
func (m *ByteMap[V]) Get(key byte) (V, bool) {
	if !m.contains(key) {
		var zero V
		return zero, false
	}
	return m.values[m.rank(key)], true
}

// Set associates the given value with the key, replacing any value stored
// before.
func (m *ByteMap[V]) Set(key byte, value V) {
	pos := m.rank(key)
	if m.contains(key) {
		m.values[pos] = value
		return
	}
	m.present[key>>6] |= 1 << (key & 63)
	var zero V
	m.values = append(m.values, zero)
	copy(m.values[pos+1:], m.values[pos:])
	m.values[pos] = value
}

// Delete removes the given key and reports whether it was present. The
// removed value itself is not touched.
func (m *ByteMap[V]) Delete(key byte) bool {
	if !m.contains(key) {
		return false
	}
	pos := m.rank(key)
	m.present[key>>6] &^= 1 << (key & 63)
	copy(m.values[pos:], m.values[pos+1:])
	var zero V
	m.values[len(m.values)-1] = zero
	m.values = m.values[:len(m.values)-1]
	if len(m.values) == 0 {
		m.values = nil
	}
	return true
}

// Size is the number of keys in the map.
func (m *ByteMap[V]) Size() int {
	return len(m.values)
}

// Tuples returns all entries of the map in ascending key order.
func (m *ByteMap[V]) Tuples() []Entry[V] {
	res := make([]Entry[V], 0, len(m.values))
	m.ForEach(func(key byte, value V) {
		res = append(res, Entry[V]{key, value})
	})
	return res
}

// Only returns the single entry of a map of size one.
func (m *ByteMap[V]) Only() (byte, V) {
	common.Assertf(len(m.values) == 1, "byte map with exactly one entry, got %d", len(m.values))
	for i, word := range m.present {
		if word != 0 {
			return byte(i*64 + bits.TrailingZeros64(word)), m.values[0]
		}
	}
	panic("unreachable")
}

// ForEach applies the given operation to all entries in ascending key order.
// The map must not be modified by the operation.
func (m *ByteMap[V]) ForEach(op func(byte, V)) {
	pos := 0
	for i, word := range m.present {
		for word != 0 {
			bit := bits.TrailingZeros64(word)
			op(byte(i*64+bit), m.values[pos])
			pos++
			word &= word - 1
		}
	}
}

// Clear removes all entries and releases the map's internal storage. The
// values themselves are not touched; owners of referenced values need to
// release those separately.
func (m *ByteMap[V]) Clear() {
	m.present = [4]uint64{}
	m.values = nil
}

// GetMemoryFootprint provides the size of the map's internal storage,
// excluding anything referenced by the values.
func (m *ByteMap[V]) GetMemoryFootprint() *common.MemoryFootprint {
	var zero V
	return common.NewMemoryFootprint(unsafe.Sizeof(*m) + uintptr(cap(m.values))*unsafe.Sizeof(zero))
}

func (m *ByteMap[V]) String() string {
	entries := m.Tuples()
	parts := make([]string, 0, len(entries))
	for _, entry := range entries {
		parts = append(parts, entry.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (m *ByteMap[V]) contains(key byte) bool {
	return m.present[key>>6]&(1<<(key&63)) != 0
}

// rank is the number of present keys smaller than the given key.
func (m *ByteMap[V]) rank(key byte) int {
	word := int(key >> 6)
	res := 0
	for i := 0; i < word; i++ {
		res += bits.OnesCount64(m.present[i])
	}
	return res + bits.OnesCount64(m.present[word]&(1<<(key&63)-1))
}

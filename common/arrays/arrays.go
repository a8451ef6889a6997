// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package arrays provides growable contiguous containers used as scratch
// storage and work stacks by other data structures. All containers grow
// geometrically and give memory back once less than a quarter of their
// allocation is in use. None of them is safe for concurrent access.
package arrays

import (
	"github.com/modmw/mdsl/common"
)

// MinAllocation is the number of elements kept allocated beyond the used
// length whenever a container shrinks its allocation.
const MinAllocation = 8

// resizedCapacity computes the allocation required for holding n elements
// in a block currently allocated for alloc elements. Growing doubles the
// allocation plus the requested length, shrinking happens once the
// allocation exceeds four times the requested length plus MinAllocation.
func resizedCapacity(alloc, n int) int {
	if alloc < n {
		return 2*alloc + n
	}
	if alloc/4 > n+MinAllocation {
		return n + MinAllocation
	}
	return alloc
}

// resize changes the length of the given slice to n, reallocating its
// backing array if required by the growth policy. Elements dropped from the
// end of the slice are zeroed to not retain references.
func resize[T any](data []T, n int) []T {
	common.Assertf(n >= 0, "non-negative length, got %d", n)
	if n < len(data) {
		clear(data[n:])
	}
	alloc := resizedCapacity(cap(data), n)
	if alloc == cap(data) {
		return data[:n]
	}
	res := make([]T, n, alloc)
	copy(res, data)
	return res
}

// ----------------------------------------------------------------------------
//                                 Buffer
// ----------------------------------------------------------------------------

// Buffer is a resizable byte buffer. The zero value is an empty buffer
// without any allocation.
type Buffer struct {
	data []byte
}

// NewBuffer creates an empty buffer with the minimal allocation.
func NewBuffer() *Buffer {
	return &Buffer{data: make([]byte, 0, MinAllocation)}
}

// Resize sets the length of the buffer. Bytes beyond the previous length
// have unspecified content.
func (b *Buffer) Resize(n int) {
	b.data = resize(b.data, n)
}

// Append copies the given data to the end of the buffer.
func (b *Buffer) Append(data []byte) {
	pos := len(b.data)
	b.Resize(pos + len(data))
	copy(b.data[pos:], data)
}

// AppendByte adds a single byte to the end of the buffer.
func (b *Buffer) AppendByte(c byte) {
	pos := len(b.data)
	b.Resize(pos + 1)
	b.data[pos] = c
}

// Bytes provides access to the content of the buffer. The result is only
// valid until the next modification of the buffer.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Len is the number of bytes in the buffer.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Cap is the number of bytes currently allocated by the buffer.
func (b *Buffer) Cap() int {
	return cap(b.data)
}

// ----------------------------------------------------------------------------
//                                 Array
// ----------------------------------------------------------------------------

// Array is a growable array usable as a stack. The zero value is an empty
// array.
type Array[T any] struct {
	data []T
}

// NewArray creates an empty array with the minimal allocation.
func NewArray[T any]() *Array[T] {
	return &Array[T]{data: make([]T, 0, MinAllocation)}
}

// Resize sets the number of elements in the array. New elements are zero.
func (a *Array[T]) Resize(n int) {
	a.data = resize(a.data, n)
}

// Append adds an element to the end of the array.
func (a *Array[T]) Append(element T) {
	pos := len(a.data)
	a.Resize(pos + 1)
	a.data[pos] = element
}

// Pop removes and returns the last element. Popping an empty array is a
// fatal error.
func (a *Array[T]) Pop() T {
	size := len(a.data)
	if size == 0 {
		common.Fatalf("cannot pop from empty stack")
	}
	res := a.data[size-1]
	a.Resize(size - 1)
	return res
}

// Top returns the last element without removing it. The array must not be
// empty.
func (a *Array[T]) Top() T {
	common.Assertf(len(a.data) > 0, "top of non-empty stack")
	return a.data[len(a.data)-1]
}

// At returns the element at the given position.
func (a *Array[T]) At(i int) T {
	return a.data[i]
}

// Set replaces the element at the given position.
func (a *Array[T]) Set(i int, element T) {
	a.data[i] = element
}

// Size is the number of elements in the array.
func (a *Array[T]) Size() int {
	return len(a.data)
}

// Cap is the number of elements the array has currently allocated space for.
func (a *Array[T]) Cap() int {
	return cap(a.data)
}

// Destroy drops all elements and the allocation. The array remains usable
// as an empty array.
func (a *Array[T]) Destroy() {
	a.data = nil
}

// ----------------------------------------------------------------------------
//                                 Queue
// ----------------------------------------------------------------------------

// Queue is a FIFO queue backed by a single contiguous block. The zero value
// is an empty queue.
type Queue[T any] struct {
	data  []T // len(data) is the allocation
	start int
	len   int
}

// NewQueue creates an empty queue with the minimal allocation.
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{data: make([]T, MinAllocation)}
}

// Size is the number of queued elements.
func (q *Queue[T]) Size() int {
	return q.len
}

// Cap is the number of elements the queue has currently allocated space for.
func (q *Queue[T]) Cap() int {
	return len(q.data)
}

// Head provides access to the queued elements, oldest first. The result is
// only valid until the next modification of the queue.
func (q *Queue[T]) Head() []T {
	return q.data[q.start : q.start+q.len]
}

// Alloc appends a zero element to the end of the queue and returns a
// pointer to it. The pointer is valid until the next modification.
func (q *Queue[T]) Alloc() *T {
	return &q.AllocN(1)[0]
}

// AllocN appends n zero elements to the end of the queue and returns them.
// The result is valid until the next modification.
func (q *Queue[T]) AllocN(n int) []T {
	common.Assertf(n >= 0, "non-negative element count, got %d", n)
	alloc := len(q.data)
	if q.start+q.len+n > alloc {
		if q.len+n > alloc/2 {
			newAlloc := 2*q.len + n
			if n == 1 {
				newAlloc = max(2*alloc, MinAllocation)
			}
			q.relocate(newAlloc)
		} else {
			copy(q.data, q.data[q.start:q.start+q.len])
			clear(q.data[q.len : q.start+q.len])
			q.start = 0
		}
	}
	pos := q.start + q.len
	q.len += n
	return q.data[pos : pos+n]
}

// Push appends an element to the end of the queue.
func (q *Queue[T]) Push(element T) {
	*q.Alloc() = element
}

// Pop removes and returns the oldest element. Popping from an empty queue
// is a fatal error.
func (q *Queue[T]) Pop() T {
	if q.len == 0 {
		common.Fatalf("cannot pop from empty queue")
	}
	res := q.data[q.start]
	q.drop(1)
	return res
}

// PopN removes the n oldest elements. Popping more elements than queued is
// a fatal error.
func (q *Queue[T]) PopN(n int) {
	if q.len < n {
		common.Fatalf("too few elements to pop from queue (%d from %d)", n, q.len)
	}
	q.drop(n)
}

// Destroy drops all elements and the allocation. The queue remains usable
// as an empty queue.
func (q *Queue[T]) Destroy() {
	q.data = nil
	q.start = 0
	q.len = 0
}

func (q *Queue[T]) drop(n int) {
	clear(q.data[q.start : q.start+n])
	q.start += n
	q.len -= n
	if newAlloc := q.len + MinAllocation; newAlloc < len(q.data)/4 {
		q.relocate(newAlloc)
	}
}

// relocate moves the queued elements to the front of a new block.
func (q *Queue[T]) relocate(alloc int) {
	data := make([]T, alloc)
	copy(data, q.data[q.start:q.start+q.len])
	q.data = data
	q.start = 0
}

// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package dict implements a dictionary keyed by arbitrary byte strings,
// organized as an edge-compressed trie.
//
// Every trie node carries a fragment of up to MaxFragmentLength key bytes.
// The key of a node is formed by the fragments on the path from the root
// to the node, where every edge contributes an additional branch byte
// between the fragments of its end points. Lookups therefore take time
// proportional to the length of the key, independent of the number of
// stored entries.
//
// Dictionaries are shared through explicit reference counting; the last
// owner releasing its share tears the trie down. A Dict is not safe for
// concurrent use.
package dict

import (
	"bytes"
	"errors"
	"fmt"
	"unsafe"

	"github.com/modmw/mdsl/common"
	"github.com/modmw/mdsl/common/arrays"
	"github.com/modmw/mdsl/common/bytemap"
	"github.com/modmw/mdsl/common/refcount"
	"golang.org/x/exp/slices"
)

// MaxFragmentLength is the maximum number of key bytes stored in a single
// trie node, excluding the branch byte leading to it.
const MaxFragmentLength = 32

// Dict maps byte strings to values of type V. Values are owned by the
// dictionary while stored and handed back on removal or replacement.
type Dict[V any] struct {
	rc   refcount.Counted
	root node[V] // fragment is always empty
	size int
}

var _ common.MemoryFootprintProvider = (*Dict[int])(nil)
var _ common.Releaser = (*Dict[int])(nil)

type node[V any] struct {
	fragment []byte
	value    V
	hasValue bool
	children bytemap.ByteMap[*node[V]]
}

// New creates an empty dictionary holding a single share owned by the
// caller.
func New[V any]() *Dict[V] {
	res := &Dict[V]{}
	res.rc.Init(res.destroy)
	return res
}

// Get returns the value stored for the given key. The second result is
// false if the key is not present.
func (d *Dict[V]) Get(key []byte) (V, bool) {
	var zero V
	cur := &d.root
	for {
		n := len(cur.fragment)
		if len(key) < n || !bytes.Equal(key[:n], cur.fragment) {
			return zero, false
		}
		if len(key) == n {
			return cur.value, cur.hasValue
		}
		next, found := cur.children.Get(key[n])
		if !found {
			return zero, false
		}
		cur = next
		key = key[n+1:]
	}
}

// Set stores the given value for the key. The value stored before, if any,
// is returned; the second result reports whether there was one.
func (d *Dict[V]) Set(key []byte, value V) (V, bool) {
	target := d.insertionPoint(key)
	old, existed := target.value, target.hasValue
	target.value = value
	target.hasValue = true
	if !existed {
		d.size++
	}
	return old, existed
}

// Delete removes the given key. The removed value is returned; the second
// result is false if the key was not present, in which case the dictionary
// is not modified.
func (d *Dict[V]) Delete(key []byte) (V, bool) {
	var zero V
	var path arrays.Array[pathEntry[V]]
	defer path.Destroy()

	cur := &d.root
	var branch byte
	for {
		n := len(cur.fragment)
		if len(key) < n || !bytes.Equal(key[:n], cur.fragment) {
			return zero, false
		}
		path.Append(pathEntry[V]{cur, branch})
		if len(key) == n {
			break
		}
		next, found := cur.children.Get(key[n])
		if !found {
			return zero, false
		}
		cur, branch, key = next, key[n], key[n+1:]
	}
	if !cur.hasValue {
		return zero, false
	}

	res := cur.value
	cur.value = zero
	cur.hasValue = false
	d.size--
	d.cleanup(&path)
	return res, true
}

// Update combines Set and Delete: a nil value removes the key, any other
// value is stored.
func (d *Dict[V]) Update(key []byte, value *V) (V, bool) {
	if value == nil {
		return d.Delete(key)
	}
	return d.Set(key, *value)
}

// Len returns the number of keys stored in the dictionary.
func (d *Dict[V]) Len() int {
	return d.size
}

// Ref adds a share to the dictionary.
func (d *Dict[V]) Ref() {
	d.rc.Ref()
}

// Unref drops a share. Dropping the last one releases all nodes and values;
// the dictionary must not be used afterwards.
func (d *Dict[V]) Unref() {
	d.rc.Unref()
}

// Release is an alias of Unref.
func (d *Dict[V]) Release() {
	d.rc.Release()
}

// RefCount returns the number of shares held on the dictionary.
func (d *Dict[V]) RefCount() int {
	return d.rc.RefCount()
}

// GetMemoryFootprint provides the memory consumed by the trie's nodes,
// excluding memory referenced by stored values.
func (d *Dict[V]) GetMemoryFootprint() *common.MemoryFootprint {
	var nodes, fragments, children uintptr
	var count int
	d.visitNodes(func(n *node[V]) {
		count++
		if n != &d.root {
			nodes += unsafe.Sizeof(*n)
		}
		fragments += uintptr(cap(n.fragment))
		children += n.children.GetMemoryFootprint().Value() - unsafe.Sizeof(n.children)
	})
	mf := common.NewMemoryFootprint(unsafe.Sizeof(*d))
	mf.AddChild("nodes", common.NewMemoryFootprint(nodes))
	mf.AddChild("fragments", common.NewMemoryFootprint(fragments))
	mf.AddChild("children", common.NewMemoryFootprint(children))
	mf.SetNote(fmt.Sprintf("%d nodes, %d keys", count, d.size))
	return mf
}

// ----------------------------------------------------------------------------
//                               Insertion
// ----------------------------------------------------------------------------

// insertionPoint returns the node representing the given key, creating it
// and all nodes on the path leading to it if needed.
func (d *Dict[V]) insertionPoint(key []byte) *node[V] {
	var parent *node[V]
	var branch byte
	cur := &d.root
	matched := 0
	for {
		matched = commonPrefixLength(cur.fragment, key)
		if matched < len(cur.fragment) || matched == len(key) {
			break
		}
		next, found := cur.children.Get(key[matched])
		if !found {
			break
		}
		parent, branch, cur = cur, key[matched], next
		key = key[matched+1:]
	}

	if matched < len(cur.fragment) {
		common.Assertf(parent != nil, "split of a non-root node")
		cur = split(parent, branch, cur, matched)
	}

	// Extend with a chain of new nodes holding the rest of the key.
	key = key[matched:]
	for len(key) > 0 {
		run := min(len(key), MaxFragmentLength+1)
		ext := &node[V]{fragment: slices.Clone(key[1:run])}
		cur.children.Set(key[0], ext)
		cur = ext
		key = key[run:]
	}
	return cur
}

// split cuts the fragment of n, a child of parent reached through the given
// branch byte, at the given position. The part in front of the position is
// moved to a new node taking the place of n in parent. n keeps the part
// behind the position, its value and its children, and becomes the child of
// the new node, reached through the byte at the position. A shortened n
// without value is merged with its only child if the two fit into one node.
func split[V any](parent *node[V], branch byte, n *node[V], pos int) *node[V] {
	prefix := &node[V]{fragment: slices.Clone(n.fragment[:pos])}
	next := n.fragment[pos]
	n.fragment = slices.Clone(n.fragment[pos+1:])
	if merged := coalesce(n); merged != nil {
		n = merged
	}
	prefix.children.Set(next, n)
	parent.children.Set(branch, prefix)
	return prefix
}

func commonPrefixLength(a, b []byte) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

// ----------------------------------------------------------------------------
//                                Removal
// ----------------------------------------------------------------------------

// pathEntry is a node on the path from the root to a removed key, together
// with the branch byte leading to it from its predecessor.
type pathEntry[V any] struct {
	node   *node[V]
	branch byte
}

// cleanup restores the structural properties of the trie after the value
// of the last node on the given path got removed. Walking towards the root,
// nodes are merged with their only child where possible and nodes without
// value and children are removed. The root is never touched.
func (d *Dict[V]) cleanup(path *arrays.Array[pathEntry[V]]) {
	for path.Size() > 1 {
		top := path.Top()
		parent := path.At(path.Size() - 2).node
		cur := top.node

		if merged := coalesce(cur); merged != nil {
			parent.children.Set(top.branch, merged)
			path.Set(path.Size()-1, pathEntry[V]{merged, top.branch})
			cur = merged
		}

		if cur.hasValue || cur.children.Size() > 0 {
			return
		}

		parent.children.Delete(top.branch)
		cur.release()
		path.Pop()
	}
}

// coalesce merges a node without value with its only child if the combined
// fragment fits into a single node. The merged node is returned, nil if the
// node can not be merged.
func coalesce[V any](n *node[V]) *node[V] {
	if n.hasValue || n.children.Size() != 1 {
		return nil
	}
	branch, child := n.children.Only()
	length := len(n.fragment) + 1 + len(child.fragment)
	if length > MaxFragmentLength {
		return nil
	}

	var buffer arrays.Buffer
	buffer.Resize(length)
	merged := buffer.Bytes()
	copy(merged, n.fragment)
	merged[len(n.fragment)] = branch
	copy(merged[len(n.fragment)+1:], child.fragment)

	child.fragment = merged
	n.release()
	return child
}

// release drops all references held by a node removed from the trie.
func (n *node[V]) release() {
	var zero V
	n.children.Clear()
	n.fragment = nil
	n.value = zero
	n.hasValue = false
}

// ----------------------------------------------------------------------------
//                               Teardown
// ----------------------------------------------------------------------------

// destroy releases all nodes of the trie. It uses an explicit work stack to
// bound the memory needed for deep tries.
func (d *Dict[V]) destroy() {
	var stack arrays.Array[*node[V]]
	stack.Append(&d.root)
	for stack.Size() > 0 {
		cur := stack.Pop()
		cur.children.ForEach(func(_ byte, child *node[V]) {
			stack.Append(child)
		})
		cur.release()
	}
	stack.Destroy()
	d.size = 0
}

// ----------------------------------------------------------------------------
//                               Self Check
// ----------------------------------------------------------------------------

// checkProperties verifies the structural invariants of the trie:
//   - the root has an empty fragment
//   - no fragment exceeds MaxFragmentLength bytes
//   - every node other than the root holds a value or has children
//   - a node other than the root without value has a single child only if
//     merging the two would exceed MaxFragmentLength bytes
//   - the number of values matches the recorded size
func (d *Dict[V]) checkProperties() error {
	if len(d.root.fragment) != 0 {
		return fmt.Errorf("%w: root fragment %x", common.ErrInvalidStructure, d.root.fragment)
	}
	var errs []error
	values := 0
	d.visitNodes(func(n *node[V]) {
		if n.hasValue {
			values++
		}
		if len(n.fragment) > MaxFragmentLength {
			errs = append(errs, fmt.Errorf("%w: fragment %x exceeds %d bytes", common.ErrInvalidStructure, n.fragment, MaxFragmentLength))
		}
		if n == &d.root || n.hasValue {
			return
		}
		switch n.children.Size() {
		case 0:
			errs = append(errs, fmt.Errorf("%w: node %x has neither value nor children", common.ErrInvalidStructure, n.fragment))
		case 1:
			if _, child := n.children.Only(); len(n.fragment)+1+len(child.fragment) <= MaxFragmentLength {
				errs = append(errs, fmt.Errorf("%w: node %x should be merged with its only child", common.ErrInvalidStructure, n.fragment))
			}
		}
	})
	if values != d.size {
		errs = append(errs, fmt.Errorf("%w: found %d values, expected %d", common.ErrInvalidStructure, values, d.size))
	}
	return errors.Join(errs...)
}

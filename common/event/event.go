// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package event

import (
	"fmt"

	"github.com/modmw/mdsl/common"
)

// Role defines how a traversal treats a ring member.
type Role byte

const (
	roleNone Role = iota
	// RolePublisher marks the anchor of a ring; traversals end there.
	RolePublisher
	// RoleSubscriber marks ring members visited by traversals.
	RoleSubscriber
	// RoleIterator marks a traversal cursor; other traversals skip it.
	RoleIterator
)

func (r Role) String() string {
	switch r {
	case RolePublisher:
		return "publisher"
	case RoleSubscriber:
		return "subscriber"
	case RoleIterator:
		return "iterator"
	}
	return "uninitialized"
}

// Node is a member of an event ring carrying a caller-defined payload. A
// ring is identified by its single publisher node. Nodes do not own their
// neighbors: the publisher belongs to the ring owner, subscribers to the
// party registering them and iterators to the traversing call frame.
//
// The zero value is an uninitialized node. It may be used as a subscriber
// or iterator, or turned into a ring by calling Init.
type Node[T any] struct {
	Value      T
	role       Role
	next, prev *Node[T]
}

// Init turns the node into an empty ring with the node as its publisher.
// The node must not be linked into another ring.
func (n *Node[T]) Init() {
	n.role = RolePublisher
	n.next = n
	n.prev = n
}

// Dispose removes the node from the ring it is part of and turns it into
// an empty ring. Disposing a node that is not linked has no effect besides
// the re-initialization, so Dispose may be called any number of times.
func (n *Node[T]) Dispose() {
	if n.next != nil && n.next != n {
		n.unlink()
	}
	n.Init()
}

// Subscribe adds the given subscriber to the ring. The subscriber is placed
// right after the publisher, so traversals starting after this call visit
// it before all subscribers registered earlier. A subscriber still linked
// into a ring is removed from there first.
func (n *Node[T]) Subscribe(subscriber *Node[T]) {
	n.checkRing()
	subscriber.detach()
	subscriber.role = RoleSubscriber
	n.insertAfter(subscriber)
}

// Begin starts a traversal by placing the given iterator right after the
// publisher. The iterator must be advanced using Next and disposed once the
// traversal is over.
func (n *Node[T]) Begin(iter *Node[T]) {
	n.checkRing()
	iter.detach()
	iter.role = RoleIterator
	n.insertAfter(iter)
}

// Next advances the iterator past the next subscriber and returns it, or
// returns nil once the publisher is reached. Iterators of other traversals
// are stepped over and never returned.
//
// Callers may modify the ring between calls, including from callbacks
// invoked for visited subscribers:
//   - subscribers added after Begin are not visited, since they are linked
//     in behind the iterator,
//   - subscribers removed before being reached are not visited, even if they
//     are added back,
//   - other traversals may be started and advanced concurrently.
//
// The returned subscriber may be disposed by the caller before the next call.
func (n *Node[T]) Next() *Node[T] {
	common.Assertf(n.role == RoleIterator, "advancing an iterator, got %v", n.role)
	for {
		next := n.next
		if next.role == RolePublisher {
			return nil
		}
		n.unlink()
		next.insertAfter(n)
		if next.role != RoleIterator {
			return next
		}
	}
}

// Emit runs a full traversal over the ring, calling visit for each reached
// subscriber. The iterator used is owned by this call and removed from the
// ring before returning, even if visit panics.
func (n *Node[T]) Emit(visit func(*Node[T])) {
	var iter Node[T]
	n.Begin(&iter)
	defer iter.Dispose()
	for cur := iter.Next(); cur != nil; cur = iter.Next() {
		visit(cur)
	}
}

// Subscribers counts the subscribers currently linked into the ring.
func (n *Node[T]) Subscribers() int {
	n.checkRing()
	res := 0
	for cur := n.next; cur != n; cur = cur.next {
		if cur.role == RoleSubscriber {
			res++
		}
	}
	return res
}

// Role returns the role of this node.
func (n *Node[T]) Role() Role {
	return n.role
}

// IsLinked reports whether the node shares a ring with other nodes.
func (n *Node[T]) IsLinked() bool {
	return n.next != nil && n.next != n
}

func (n *Node[T]) String() string {
	return fmt.Sprintf("%v(%v)", n.role, n.Value)
}

func (n *Node[T]) checkRing() {
	common.Assertf(n.role == RolePublisher, "operation on an initialized ring, got %v", n.role)
}

// detach removes the node from any ring without re-initializing it.
func (n *Node[T]) detach() {
	if n.IsLinked() {
		n.unlink()
	}
}

// unlink removes the node from its ring, leaving its own links stale.
func (n *Node[T]) unlink() {
	n.next.prev = n.prev
	n.prev.next = n.next
}

// insertAfter links the given node right behind this one.
func (n *Node[T]) insertAfter(node *Node[T]) {
	node.prev = n
	node.next = n.next
	n.next.prev = node
	n.next = node
}

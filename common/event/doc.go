// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package event implements an intrusive publish/subscribe ring.
//
// A ring is a circular doubly linked list anchored at a publisher node.
// Subscribers are linked in by their owners and visited by traversals.
// A traversal is itself a ring member, an iterator node trailing right
// behind the last subscriber it passed. This makes the set of subscribers a
// traversal reaches well defined even if subscribers are added or removed,
// or other traversals are run, while it is in progress.
//
// Rings are not safe for concurrent use.
package event

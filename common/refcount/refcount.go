// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package refcount provides explicit share counting for structures owned
// by multiple parties which need a deterministic teardown once the last
// owner is gone.
package refcount

import "github.com/modmw/mdsl/common"

// Counted is a reference count to be embedded in shared structures. The
// embedding structure calls Init when being created, which establishes a
// count of one owned by the creator. Counted is not safe for concurrent
// access.
type Counted struct {
	count   int
	destroy func()
}

// Init sets the count to one and registers the destructor invoked once the
// count drops to zero.
func (c *Counted) Init(destroy func()) {
	c.count = 1
	c.destroy = destroy
}

// Ref adds a share.
func (c *Counted) Ref() {
	common.Assertf(c.destroy != nil, "reference to initialized and live object")
	c.count++
}

// Unref removes a share. Removing the last share runs the destructor
// exactly once; the object must not be used afterwards.
func (c *Counted) Unref() {
	c.count--
	if c.count <= 0 && c.destroy != nil {
		destroy := c.destroy
		c.destroy = nil
		destroy()
	}
}

// Release is an alias of Unref, making embedding types common.Releasers.
func (c *Counted) Release() {
	c.Unref()
}

// RefCount returns the current number of shares.
func (c *Counted) RefCount() int {
	return c.count
}

var _ common.Releaser = (*Counted)(nil)

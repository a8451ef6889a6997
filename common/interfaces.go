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

type MemoryFootprintProvider interface {
	GetMemoryFootprint() *MemoryFootprint
}

// Releaser is implemented by shared structures whose owners give up their
// share explicitly. Once the last share is released, the structure tears
// itself down and becomes invalid for any future operation.
type Releaser interface {
	// Release gives up the caller's share of the structure.
	Release()
}

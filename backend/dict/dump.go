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
	"fmt"
	"io"
	"log"
	"strings"
)

// Dump writes a human readable rendition of the trie to the given writer,
// one node per line. Children are indented below their parent and prefixed
// by their branch byte, nodes are printed as <length|fragment|value>.
func (d *Dict[V]) Dump(out io.Writer) error {
	var err error
	d.Visit(MakeVisitor(func(info NodeInfo[V]) VisitResponse {
		var label string
		if info.Depth == 0 {
			label = "[#]"
		} else {
			label = strings.Repeat("  ", info.Depth) + fmt.Sprintf("[%02x]", info.Branch)
		}
		value := "-"
		if info.HasValue {
			value = fmt.Sprintf("%v", info.Value)
		}
		_, err = fmt.Fprintf(out, "%s<%d|%q|%s>\n", label, len(info.Fragment), info.Fragment, value)
		if err != nil {
			return VisitResponseAbort
		}
		return VisitResponseContinue
	}))
	return err
}

// DumpToLog writes the dump of the trie to the default logger.
func (d *Dict[V]) DumpToLog() {
	logger := log.Default()
	var builder strings.Builder
	if err := d.Dump(&builder); err != nil {
		logger.Printf("failed to dump dictionary: %v", err)
		return
	}
	logger.Printf("Dumping dictionary %p with %d keys\n%s", d, d.size, builder.String())
}

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

//go:generate mockgen -source visitor.go -destination visitor_mocks.go -package dict

import (
	"fmt"
	"strings"

	"github.com/modmw/mdsl/common/arrays"
	"golang.org/x/exp/slices"
)

// ----------------------------------------------------------------------------
//                            Visitor Interface
// ----------------------------------------------------------------------------

// NodeVisitor defines an interface for any consumer interested in visiting
// the nodes of a dictionary's trie, for analysis or debugging purposes.
type NodeVisitor[V any] interface {
	// Visit is called for each node. Through the response the visitor can
	// control the visiting process. It may be
	//  - continued: keep processing additional nodes
	//  - aborted: stop processing nodes and end node iteration
	//  - pruned: skip the child nodes of the current node and continue with
	//       the next node following the last descendent of the current node
	Visit(NodeInfo[V]) VisitResponse
}

// NodeInfo describes a visited trie node. Its slices may be retained but
// must not be modified.
type NodeInfo[V any] struct {
	Key      []byte // the key represented by the node
	Fragment []byte // the key bytes stored in the node
	Branch   byte   // the byte leading from the parent to this node, 0 for the root
	Depth    int    // the nesting level of the node, 0 for the root
	Value    V      // the stored value, the zero value if HasValue is false
	HasValue bool
	Children int // the number of child nodes
}

type VisitResponse int

const (
	VisitResponseContinue VisitResponse = 0
	VisitResponseAbort    VisitResponse = 1
	VisitResponsePrune    VisitResponse = 2
)

// Visit runs the given visitor on the nodes of the trie in depth-first
// order, children in ascending order of their branch byte. The dictionary
// must not be modified during the visit.
func (d *Dict[V]) Visit(visitor NodeVisitor[V]) {
	var stack arrays.Array[visitFrame[V]]
	defer stack.Destroy()
	stack.Append(visitFrame[V]{node: &d.root})
	for stack.Size() > 0 {
		cur := stack.Pop()
		n := cur.node
		key := append(cur.key, n.fragment...)
		response := visitor.Visit(NodeInfo[V]{
			Key:      key,
			Fragment: slices.Clone(n.fragment),
			Branch:   cur.branch,
			Depth:    cur.depth,
			Value:    n.value,
			HasValue: n.hasValue,
			Children: n.children.Size(),
		})
		switch response {
		case VisitResponseAbort:
			return
		case VisitResponsePrune:
			continue
		}
		children := n.children.Tuples()
		for i := len(children) - 1; i >= 0; i-- {
			child := children[i]
			childKey := make([]byte, 0, len(key)+1+len(child.Value.fragment))
			childKey = append(append(childKey, key...), child.Key)
			stack.Append(visitFrame[V]{child.Value, childKey, child.Key, cur.depth + 1})
		}
	}
}

// visitFrame is a node pending to be visited, together with the key of its
// parent node.
type visitFrame[V any] struct {
	node   *node[V]
	key    []byte
	branch byte
	depth  int
}

// ForEach calls the given operation for every key stored in the dictionary,
// in no particular order. The dictionary must not be modified by the
// operation.
func (d *Dict[V]) ForEach(op func(key []byte, value V)) {
	d.Visit(MakeVisitor(func(info NodeInfo[V]) VisitResponse {
		if info.HasValue {
			op(info.Key, info.Value)
		}
		return VisitResponseContinue
	}))
}

// visitNodes applies the given operation to all nodes of the trie.
func (d *Dict[V]) visitNodes(op func(*node[V])) {
	var stack arrays.Array[*node[V]]
	defer stack.Destroy()
	stack.Append(&d.root)
	for stack.Size() > 0 {
		cur := stack.Pop()
		op(cur)
		cur.children.ForEach(func(_ byte, child *node[V]) {
			stack.Append(child)
		})
	}
}

// ----------------------------------------------------------------------------
//                          Lambda Visitor
// ----------------------------------------------------------------------------

// MakeVisitor wraps a function into the node visitor interface.
func MakeVisitor[V any](visit func(NodeInfo[V]) VisitResponse) NodeVisitor[V] {
	return &lambdaVisitor[V]{visit}
}

type lambdaVisitor[V any] struct {
	visit func(NodeInfo[V]) VisitResponse
}

func (v *lambdaVisitor[V]) Visit(i NodeInfo[V]) VisitResponse {
	return v.visit(i)
}

// ----------------------------------------------------------------------------
//                            Node Statistics
// ----------------------------------------------------------------------------

// GetNodeStatistics computes node statistics of the dictionary's trie. The
// trie is traversed level by level.
func (d *Dict[V]) GetNodeStatistics() NodeStatistic {
	res := NodeStatistic{}
	queue := arrays.NewQueue[levelEntry[V]]()
	defer queue.Destroy()
	queue.Push(levelEntry[V]{&d.root, 0})
	for queue.Size() > 0 {
		cur := queue.Pop()
		res.numNodes++
		if cur.node.hasValue {
			res.numValues++
		}
		res.numChildren[cur.node.children.Size()]++
		res.fragmentLengths[len(cur.node.fragment)]++
		for len(res.depths) <= cur.depth {
			res.depths = append(res.depths, 0)
		}
		res.depths[cur.depth]++
		cur.node.children.ForEach(func(_ byte, child *node[V]) {
			queue.Push(levelEntry[V]{child, cur.depth + 1})
		})
	}
	return res
}

type levelEntry[V any] struct {
	node  *node[V]
	depth int
}

type NodeStatistic struct {
	numNodes  int
	numValues int

	numChildren     [257]int
	fragmentLengths [MaxFragmentLength + 1]int

	depths []int
}

func (s *NodeStatistic) String() string {
	builder := strings.Builder{}

	builder.WriteString("Nodes:\n")
	builder.WriteString(fmt.Sprintf("Total, %d\n", s.numNodes))
	builder.WriteString(fmt.Sprintf("Values, %d\n", s.numValues))

	builder.WriteString("Fan-Out Distribution:\n")
	for i, count := range s.numChildren {
		if count > 0 {
			builder.WriteString(fmt.Sprintf("%d, %d\n", i, count))
		}
	}

	builder.WriteString("Fragment-Length Distribution:\n")
	for i, count := range s.fragmentLengths {
		if count > 0 {
			builder.WriteString(fmt.Sprintf("%d, %d\n", i, count))
		}
	}

	builder.WriteString("Node depth distribution:\n")
	for i, count := range s.depths {
		builder.WriteString(fmt.Sprintf("%d, %d\n", i, count))
	}

	return builder.String()
}

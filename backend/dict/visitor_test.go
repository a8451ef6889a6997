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
	"bytes"
	"fmt"
	"io"
	"log"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

func TestVisitor_NodesAreVisitedDepthFirstInKeyOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	visitor := NewMockNodeVisitor[int](ctrl)

	dict := New[int]()
	dict.Set([]byte("b"), 3)
	dict.Set([]byte("ab"), 2)
	dict.Set([]byte("a"), 1)

	gomock.InOrder(
		visitor.EXPECT().Visit(nodeWithKey("", 0)).Return(VisitResponseContinue),
		visitor.EXPECT().Visit(nodeWithKey("a", 1)).Return(VisitResponseContinue),
		visitor.EXPECT().Visit(nodeWithKey("ab", 2)).Return(VisitResponseContinue),
		visitor.EXPECT().Visit(nodeWithKey("b", 3)).Return(VisitResponseContinue),
	)
	dict.Visit(visitor)
}

func TestVisitor_PrunedNodesHideTheirDescendants(t *testing.T) {
	ctrl := gomock.NewController(t)
	visitor := NewMockNodeVisitor[int](ctrl)

	dict := New[int]()
	dict.Set([]byte("a"), 1)
	dict.Set([]byte("ab"), 2)
	dict.Set([]byte("b"), 3)

	gomock.InOrder(
		visitor.EXPECT().Visit(nodeWithKey("", 0)).Return(VisitResponseContinue),
		visitor.EXPECT().Visit(nodeWithKey("a", 1)).Return(VisitResponsePrune),
		visitor.EXPECT().Visit(nodeWithKey("b", 3)).Return(VisitResponseContinue),
	)
	dict.Visit(visitor)
}

func TestVisitor_AbortEndsTheVisit(t *testing.T) {
	ctrl := gomock.NewController(t)
	visitor := NewMockNodeVisitor[int](ctrl)

	dict := New[int]()
	dict.Set([]byte("a"), 1)
	dict.Set([]byte("ab"), 2)
	dict.Set([]byte("b"), 3)

	gomock.InOrder(
		visitor.EXPECT().Visit(nodeWithKey("", 0)).Return(VisitResponseContinue),
		visitor.EXPECT().Visit(nodeWithKey("a", 1)).Return(VisitResponseAbort),
	)
	dict.Visit(visitor)
}

func TestVisitor_NodeInfoDescribesNode(t *testing.T) {
	dict := New[string]()
	dict.Set([]byte("abcdef"), "x")
	dict.Set([]byte("abcxyz"), "y")

	var infos []NodeInfo[string]
	dict.Visit(MakeVisitor(func(info NodeInfo[string]) VisitResponse {
		infos = append(infos, info)
		return VisitResponseContinue
	}))
	if want, got := 4, len(infos); want != got {
		t.Fatalf("unexpected number of nodes, wanted %d, got %d", want, got)
	}

	want := []struct {
		key, fragment string
		branch        byte
		depth         int
		value         string
		children      int
	}{
		{"", "", 0, 0, "", 1},
		{"abc", "bc", 'a', 1, "", 2},
		{"abcdef", "ef", 'd', 2, "x", 0},
		{"abcxyz", "yz", 'x', 2, "y", 0},
	}
	for i, info := range infos {
		w := want[i]
		if string(info.Key) != w.key || string(info.Fragment) != w.fragment {
			t.Errorf("unexpected key/fragment of node %d: %q/%q", i, info.Key, info.Fragment)
		}
		if info.Branch != w.branch || info.Depth != w.depth || info.Children != w.children {
			t.Errorf("unexpected position of node %d: %+v", i, info)
		}
		if info.Value != w.value || info.HasValue != (w.value != "") {
			t.Errorf("unexpected value of node %d: %q (has value %t)", i, info.Value, info.HasValue)
		}
	}
}

func TestDict_ForEachVisitsAllEntries(t *testing.T) {
	dict := New[int]()
	want := map[string]int{}
	for i := 0; i < 200; i++ {
		key := strings.Repeat("k", i%70) + fmt.Sprintf("%d", i)
		dict.Set([]byte(key), i)
		want[key] = i
	}
	got := map[string]int{}
	dict.ForEach(func(key []byte, value int) {
		if _, found := got[string(key)]; found {
			t.Errorf("key %q visited twice", key)
		}
		got[string(key)] = value
	})
	if !maps.Equal(want, got) {
		t.Errorf("unexpected entries, missing %d, extra %d", len(want)-len(got), len(got)-len(want))
	}
}

func TestDict_NodeStatistics(t *testing.T) {
	dict := New[int]()
	for _, key := range []string{"ab", "abc", "abd", "b"} {
		dict.Set([]byte(key), 1)
	}
	// root -> [a] "b" -> [c] "", [d] ""
	//      -> [b] ""
	stats := dict.GetNodeStatistics()
	if want, got := 5, stats.numNodes; want != got {
		t.Errorf("unexpected number of nodes, wanted %d, got %d", want, got)
	}
	if want, got := 4, stats.numValues; want != got {
		t.Errorf("unexpected number of values, wanted %d, got %d", want, got)
	}
	if want, got := []int{1, 2, 2}, stats.depths; !slices.Equal(want, got) {
		t.Errorf("unexpected depths, wanted %v, got %v", want, got)
	}
	if stats.numChildren[0] != 3 || stats.numChildren[2] != 2 {
		t.Errorf("unexpected fan-out distribution %v", stats.numChildren[:3])
	}
	if stats.fragmentLengths[0] != 4 || stats.fragmentLengths[1] != 1 {
		t.Errorf("unexpected fragment lengths %v", stats.fragmentLengths[:2])
	}

	text := stats.String()
	for _, part := range []string{"Total, 5", "Values, 4", "Fan-Out Distribution", "Node depth distribution"} {
		if !strings.Contains(text, part) {
			t.Errorf("statistics print should contain %q, got\n%s", part, text)
		}
	}
}

func TestDict_DumpStopsOnWriteError(t *testing.T) {
	dict := New[int]()
	dict.Set([]byte("a"), 1)
	dict.Set([]byte("b"), 2)
	out := &failingWriter{limit: 1}
	if err := dict.Dump(out); err == nil {
		t.Errorf("write error should be reported")
	}
	if want, got := 2, out.calls; want != got {
		t.Errorf("dump should stop after the first failure, wanted %d writes, got %d", want, got)
	}
}

func TestDict_DumpToLogWritesToDefaultLogger(t *testing.T) {
	var buffer bytes.Buffer
	redirectLog(t, &buffer)

	dict := New[int]()
	dict.Set([]byte("abc"), 12)
	dict.DumpToLog()

	text := buffer.String()
	for _, part := range []string{"Dumping dictionary", "with 1 keys", "[61]<2|\"bc\"|12>"} {
		if !strings.Contains(text, part) {
			t.Errorf("log should contain %q, got\n%s", part, text)
		}
	}
}

// nodeWithKey matches NodeInfo instances of nodes representing the given
// key and value.
func nodeWithKey(key string, value int) gomock.Matcher {
	return nodeKeyMatcher{key, value}
}

type nodeKeyMatcher struct {
	key   string
	value int
}

func (m nodeKeyMatcher) Matches(x any) bool {
	info, ok := x.(NodeInfo[int])
	return ok && string(info.Key) == m.key && info.Value == m.value
}

func (m nodeKeyMatcher) String() string {
	return fmt.Sprintf("node with key %q and value %d", m.key, m.value)
}

func redirectLog(t *testing.T, out io.Writer) {
	logger := log.Default()
	previous := logger.Writer()
	logger.SetOutput(out)
	t.Cleanup(func() { logger.SetOutput(previous) })
}

type failingWriter struct {
	limit int
	calls int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	w.calls++
	if w.calls > w.limit {
		return 0, fmt.Errorf("injected error")
	}
	return len(p), nil
}

package webcompress

import (
	"errors"
	"strings"
	"testing"
)

// checkTree verifies the strict binary shape and the weight sums of t.
func checkTree(t *testing.T, tree *Tree, total int) {
	t.Helper()
	for i := 0; i < tree.Len(); i++ {
		n := tree.Node(i)
		if n.IsLeaf() {
			continue
		}
		if n.Left == noChild || n.Right == noChild {
			t.Fatalf("node %d has a single child", i)
		}
		if n.Left >= i || n.Right >= i {
			t.Fatalf("node %d has a child allocated after it", i)
		}
		if w := tree.Node(n.Left).Weight + tree.Node(n.Right).Weight; w != n.Weight {
			t.Fatalf("node %d weight %d != children sum %d", i, n.Weight, w)
		}
	}
	if w := tree.Node(tree.Root()).Weight; w != total {
		t.Fatalf("root weight %d want %d", w, total)
	}
}

func TestBuildTreeScenario(t *testing.T) {
	tree, err := BuildTree(Count([]byte("aaaabbbccd")))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	checkTree(t, tree, 10)
	if tree.Leaves() != 4 || tree.Len() != 7 {
		t.Fatalf("leaves=%d nodes=%d want 4 and 7", tree.Leaves(), tree.Len())
	}

	// d(1) and c(2) merge first; the parent keeps d's symbol.
	first := tree.Node(4)
	if first.Symbol != 'd' || first.Weight != 3 {
		t.Fatalf("first merge = %q/%d want 'd'/3", first.Symbol, first.Weight)
	}
	if tree.Node(first.Left).Symbol != 'd' || tree.Node(first.Right).Symbol != 'c' {
		t.Fatalf("first merge children = %q,%q", tree.Node(first.Left).Symbol, tree.Node(first.Right).Symbol)
	}
	// b(3) wins the weight tie against the (d)3 subtree.
	second := tree.Node(5)
	if second.Symbol != 'b' || second.Weight != 6 || second.Right != 4 {
		t.Fatalf("second merge = %q/%d right=%d", second.Symbol, second.Weight, second.Right)
	}
	root := tree.Node(tree.Root())
	if tree.Node(root.Left).Symbol != 'a' || root.Right != 5 {
		t.Fatalf("root children = %d,%d", root.Left, root.Right)
	}
}

func TestBuildTreeEmpty(t *testing.T) {
	if _, err := BuildTree(Count(nil)); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

func TestBuildTreeSingleSymbol(t *testing.T) {
	tree, err := BuildTree(Count([]byte("xxxxx")))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	root := tree.Node(tree.Root())
	if !root.IsLeaf() || tree.Len() != 1 || root.Symbol != 'x' || root.Weight != 5 {
		t.Fatalf("expected a single leaf 'x'/5, got %+v (len %d)", root, tree.Len())
	}
}

func TestBuildTreeWeights(t *testing.T) {
	texts := []string{
		"ab",
		"hello world",
		"the quick brown fox jumps over the lazy dog",
		strings.Repeat("abracadabra", 37),
		"\x00\x01\x02\xff\xfe\x00\x00",
	}
	for _, text := range texts {
		tree, err := BuildTree(Count([]byte(text)))
		if err != nil {
			t.Fatalf("build %q: %v", text, err)
		}
		checkTree(t, tree, len(text))
		if got, want := tree.Leaves(), Count([]byte(text)).Distinct(); got != want {
			t.Fatalf("%q: leaves=%d want %d", text, got, want)
		}
		if tree.Len() != 2*tree.Leaves()-1 {
			t.Fatalf("%q: %d nodes for %d leaves", text, tree.Len(), tree.Leaves())
		}
	}
}

func TestBuildTreeDeterministic(t *testing.T) {
	h := Count([]byte("mississippi river banks"))
	a, err := BuildTree(h)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	b, _ := BuildTree(h)
	if a.Len() != b.Len() || a.Root() != b.Root() {
		t.Fatalf("trees differ in shape")
	}
	for i := 0; i < a.Len(); i++ {
		if a.Node(i) != b.Node(i) {
			t.Fatalf("node %d differs: %+v vs %+v", i, a.Node(i), b.Node(i))
		}
	}
}

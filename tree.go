package webcompress

import "container/heap"

// noChild marks a missing child index in a TreeNode.
const noChild = -1

// Node is the ordering key of a tree node. Symbol is only used to break
// weight ties; an internal node carries the symbol of the child that was
// dequeued first when it was created.
type Node struct {
	Symbol byte
	Weight int
}

// less orders nodes by ascending weight, then ascending symbol.
func (n Node) less(o Node) bool {
	if n.Weight != o.Weight {
		return n.Weight < o.Weight
	}
	return n.Symbol < o.Symbol
}

// TreeNode is an arena slot. Leaves have Left == Right == -1; internal nodes
// always have both children set.
type TreeNode struct {
	Node
	Left, Right int
}

// IsLeaf reports whether n has no children.
func (n TreeNode) IsLeaf() bool { return n.Left == noChild && n.Right == noChild }

// Tree is a strict binary Huffman tree stored as an arena of nodes addressed
// by index. Children are always allocated before their parent.
type Tree struct {
	nodes []TreeNode
	root  int
}

// Root returns the index of the root node.
func (t *Tree) Root() int { return t.root }

// Node returns the arena slot at index i.
func (t *Tree) Node(i int) TreeNode { return t.nodes[i] }

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int { return len(t.nodes) }

// Leaves returns the number of leaf nodes.
func (t *Tree) Leaves() int {
	n := 0
	for _, nd := range t.nodes {
		if nd.IsLeaf() {
			n++
		}
	}
	return n
}

func (t *Tree) add(n TreeNode) int {
	t.nodes = append(t.nodes, n)
	return len(t.nodes) - 1
}

// nodeHeap is a min-heap of arena indices ordered by Node.less.
type nodeHeap struct {
	tree *Tree
	idx  []int
}

// Len implements heap.Interface and returns the number of queued nodes.
func (h *nodeHeap) Len() int { return len(h.idx) }

// Less implements heap.Interface ordering by weight, ties by symbol.
func (h *nodeHeap) Less(i, j int) bool {
	return h.tree.nodes[h.idx[i]].less(h.tree.nodes[h.idx[j]].Node)
}

// Swap implements heap.Interface swap.
func (h *nodeHeap) Swap(i, j int) { h.idx[i], h.idx[j] = h.idx[j], h.idx[i] }

// Push implements heap.Interface push.
func (h *nodeHeap) Push(x any) { h.idx = append(h.idx, x.(int)) }

// Pop implements heap.Interface pop.
func (h *nodeHeap) Pop() any {
	old := h.idx
	n := len(old)
	x := old[n-1]
	h.idx = old[:n-1]
	return x
}

// BuildTree grows a Huffman tree from h. The two lightest nodes are merged
// until one remains; the first one popped becomes the left child and lends
// its symbol to the parent. Symbols are unique within the queue, so the
// order is total and the resulting tree is fully determined by h.
//
// An empty histogram returns ErrEmptyInput. A histogram with one distinct
// symbol yields a tree made of a single leaf.
func BuildTree(h *Histogram) (*Tree, error) {
	distinct := h.Distinct()
	if distinct == 0 {
		return nil, ErrEmptyInput
	}
	t := &Tree{nodes: make([]TreeNode, 0, 2*distinct-1)}
	q := &nodeHeap{tree: t, idx: make([]int, 0, distinct)}
	for sym, c := range h {
		if c == 0 {
			continue
		}
		q.idx = append(q.idx, t.add(TreeNode{
			Node:  Node{Symbol: byte(sym), Weight: c},
			Left:  noChild,
			Right: noChild,
		}))
	}
	heap.Init(q)

	for q.Len() > 1 {
		left := heap.Pop(q).(int)
		right := heap.Pop(q).(int)
		parent := t.add(TreeNode{
			Node: Node{
				Symbol: t.nodes[left].Symbol,
				Weight: t.nodes[left].Weight + t.nodes[right].Weight,
			},
			Left:  left,
			Right: right,
		})
		heap.Push(q, parent)
	}
	t.root = heap.Pop(q).(int)
	return t, nil
}

package btree

import (
	"fmt"

	"github.com/kressler/fast-containers/pkg/densemap"
)

// Stats reports shape information about a tree, gathered by a full
// traversal of its internal levels plus a walk of the leaf chain.
type Stats struct {
	Height    int
	NodeCount int
	KeyCount  int
}

// Stats computes height (1 for a leaf root, growing by one per internal
// level), the total number of nodes, and the number of keys stored.
func (t *Tree[K, V]) Stats() Stats {
	height := 1
	nodeCount := 1
	if !t.rootIsLeaf {
		height, nodeCount = countInternalSubtree(t.rootInternal)
		height++
	}

	keyCount := 0
	end := t.End()
	for it := t.Begin(); it != end; it = t.next(it) {
		keyCount++
	}

	return Stats{Height: height, NodeCount: nodeCount, KeyCount: keyCount}
}

// countInternalSubtree returns the height of the leaf level below n (1 if
// n's children are leaves) and the total node count of n's subtree,
// including n itself and every leaf.
func countInternalSubtree[K any, V any](n *internalNode[K, V]) (height, nodeCount int) {
	if n.childrenAreLeaves {
		return 1, 1 + n.leafChildren.Size()
	}

	nodeCount = 1
	height = 0
	for i := n.internalChildren.Begin(); i != n.internalChildren.End(); i++ {
		childHeight, childNodes := countInternalSubtree(n.internalChildren.Value(i))
		height = childHeight
		nodeCount += childNodes
	}
	return height + 1, nodeCount
}

// ValidationError describes an invariant violation found by Validate.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "btree: " + e.Reason }

// Validate walks the tree and checks §8's invariants: sort order within
// every node, the parent-key correspondence, leaf chain back-links, and
// non-root size bounds. It is meant for tests, not hot paths.
func (t *Tree[K, V]) Validate() error {
	if err := t.validateLeafChain(); err != nil {
		return err
	}
	if t.rootIsLeaf {
		return nil
	}
	return t.validateInternal(t.rootInternal, true)
}

func (t *Tree[K, V]) validateLeafChain() error {
	count := 0
	var prev *leafNode[K, V]
	leaf := t.leftmost
	for leaf != nil {
		if leaf.prev != prev {
			return &ValidationError{Reason: "leaf chain back-link mismatch"}
		}
		for i := 1; i < leaf.data.Size(); i++ {
			if !t.less(leaf.data.Key(densemap.Iter(i-1)), leaf.data.Key(densemap.Iter(i))) {
				return &ValidationError{Reason: "leaf keys not strictly increasing"}
			}
		}
		if leaf != t.rootLeaf || !t.rootIsLeaf {
			if leaf.parent != nil && leaf.data.Size() < t.leafUnderflow {
				return &ValidationError{Reason: fmt.Sprintf("leaf below underflow threshold: size=%d", leaf.data.Size())}
			}
		}
		count += leaf.data.Size()
		prev = leaf
		leaf = leaf.next
	}
	if prev != t.rightmost {
		return &ValidationError{Reason: "rightmost leaf cache is stale"}
	}
	if count != t.count {
		return &ValidationError{Reason: fmt.Sprintf("leaf-chain count %d disagrees with cached count %d", count, t.count)}
	}
	return nil
}

func (t *Tree[K, V]) validateInternal(n *internalNode[K, V], isRoot bool) error {
	if !isRoot && n.size() < t.internalUnderflow {
		return &ValidationError{Reason: fmt.Sprintf("internal node below underflow threshold: size=%d", n.size())}
	}

	if n.childrenAreLeaves {
		for i := n.leafChildren.Begin(); i != n.leafChildren.End(); i++ {
			if i > n.leafChildren.Begin() && !t.less(n.leafChildren.Key(i-1), n.leafChildren.Key(i)) {
				return &ValidationError{Reason: "internal node keys not strictly increasing"}
			}
			child := n.leafChildren.Value(i)
			if child.parent != n {
				return &ValidationError{Reason: "leaf child's parent pointer disagrees with its entry"}
			}
			if child.data.Size() == 0 {
				return &ValidationError{Reason: "non-root leaf is empty"}
			}
			if !keysEqual(t.less, n.leafChildren.Key(i), child.data.Key(child.data.Begin())) {
				return &ValidationError{Reason: "parent-key invariant violated for leaf child"}
			}
		}
		return nil
	}

	for i := n.internalChildren.Begin(); i != n.internalChildren.End(); i++ {
		if i > n.internalChildren.Begin() && !t.less(n.internalChildren.Key(i-1), n.internalChildren.Key(i)) {
			return &ValidationError{Reason: "internal node keys not strictly increasing"}
		}
		child := n.internalChildren.Value(i)
		if child.parent != n {
			return &ValidationError{Reason: "internal child's parent pointer disagrees with its entry"}
		}
		if !keysEqual(t.less, n.internalChildren.Key(i), subtreeMinKey(child)) {
			return &ValidationError{Reason: "parent-key invariant violated for internal child"}
		}
		if err := t.validateInternal(child, false); err != nil {
			return err
		}
	}
	return nil
}

package btree

import (
	"github.com/kressler/fast-containers/internal/debug"
	"github.com/kressler/fast-containers/pkg/densemap"
)

// EraseKey removes the entry for k, if present, and returns 1, or 0 if k was
// absent.
func (t *Tree[K, V]) EraseKey(k K) int {
	leaf := t.descendToLeaf(k)
	pos := leaf.data.LowerBound(k)
	if pos == leaf.data.End() || t.less(k, leaf.data.Key(pos)) {
		return 0
	}
	t.eraseAtLeaf(leaf, int(pos))
	return 1
}

// EraseIter erases the entry at it and returns an iterator to the entry
// that took its place, or End() if it pointed at the last entry.
func (t *Tree[K, V]) EraseIter(it Iter[K, V]) Iter[K, V] {
	debug.Assert(it != t.End(), "btree: erasing end()")
	return t.eraseAtLeaf(it.leaf, it.idx)
}

// EraseRange erases [first, last). It saves last's key, repeatedly erases
// first's current position until the cursor reaches end or lands on the
// saved key, and returns the number of entries removed.
func (t *Tree[K, V]) EraseRange(first, last Iter[K, V]) int {
	count := 0

	if last == t.End() {
		for first != t.End() {
			first = t.eraseAtLeaf(first.leaf, first.idx)
			count++
		}
		return count
	}

	lastKey := last.Key()
	cur := first
	for cur != t.End() {
		if keysEqual(t.less, cur.Key(), lastKey) {
			break
		}
		cur = t.eraseAtLeaf(cur.leaf, cur.idx)
		count++
	}
	return count
}

// eraseAtLeaf is the shared core behind EraseKey and EraseIter, implementing
// §4.2's erase contract: capture successor-tracking data before mutating,
// erase, propagate a changed minimum key up the ancestor chain, and only
// then rebalance if the leaf has underflowed.
func (t *Tree[K, V]) eraseAtLeaf(leaf *leafNode[K, V], idx int) Iter[K, V] {
	if t.rootIsLeaf && leaf == t.rootLeaf {
		leaf.data.EraseIter(densemap.Iter(idx))
		t.count--
		if idx < leaf.data.Size() {
			return Iter[K, V]{leaf: leaf, idx: idx}
		}
		return t.End()
	}

	newSize := leaf.data.Size() - 1
	needsRebalancing := newSize == 0 || newSize < t.leafUnderflow

	var nextIndex int
	var nextInNextLeaf bool
	if needsRebalancing {
		if idx+1 < leaf.data.Size() {
			// The successor shifts left into idx once the erase happens.
			nextIndex = idx
		} else {
			nextInNextLeaf = true
		}
	}

	leaf.data.EraseIter(densemap.Iter(idx))
	t.count--

	if idx == 0 && leaf.parent != nil && leaf.data.Size() > 0 {
		newMin := leaf.data.Key(leaf.data.Begin())
		t.updateParentKeyRecursive(leaf.parent, true, leaf, nil, newMin)
	}

	if !needsRebalancing {
		if idx < leaf.data.Size() {
			return Iter[K, V]{leaf: leaf, idx: idx}
		}
		if leaf.next != nil {
			return Iter[K, V]{leaf: leaf.next, idx: 0}
		}
		return t.End()
	}

	resultLeaf, successor := t.handleLeafUnderflow(leaf, nextIndex, nextInNextLeaf)
	if successor != nil {
		return *successor
	}
	if resultLeaf.next != nil {
		return Iter[K, V]{leaf: resultLeaf.next, idx: 0}
	}
	return t.End()
}

// handleLeafUnderflow implements the generic underflow order — borrow left,
// borrow right, merge left, merge right — and reconstructs the successor by
// index rather than by re-searching, per §4.2's iterator-tracking discipline.
func (t *Tree[K, V]) handleLeafUnderflow(leaf *leafNode[K, V], nextIndex int, nextInNextLeaf bool) (resultLeaf *leafNode[K, V], successor *Iter[K, V]) {
	if left := leafLeftSibling(leaf); left != nil {
		if borrowed, ok := t.borrowLeafFromLeft(leaf, left); ok {
			if nextInNextLeaf {
				return leaf, nil
			}
			it := Iter[K, V]{leaf: leaf, idx: nextIndex + borrowed}
			return leaf, &it
		}
	}

	if right := leafRightSibling(leaf); right != nil {
		oldSize := leaf.data.Size()
		if _, ok := t.borrowLeafFromRight(leaf, right); ok {
			if nextInNextLeaf {
				it := Iter[K, V]{leaf: leaf, idx: oldSize}
				return leaf, &it
			}
			it := Iter[K, V]{leaf: leaf, idx: nextIndex}
			return leaf, &it
		}
	}

	if left := leafLeftSibling(leaf); left != nil {
		leftOldSize := left.data.Size()
		t.mergeLeafWithLeft(leaf, left)
		if nextInNextLeaf {
			return left, nil
		}
		it := Iter[K, V]{leaf: left, idx: leftOldSize + nextIndex}
		return left, &it
	}

	right := leafRightSibling(leaf)
	debug.Assert(right != nil, "btree: leaf underflow with no available sibling")
	oldSize := leaf.data.Size()
	t.mergeLeafWithRight(leaf, right)
	if nextInNextLeaf {
		it := Iter[K, V]{leaf: leaf, idx: oldSize}
		return leaf, &it
	}
	it := Iter[K, V]{leaf: leaf, idx: nextIndex}
	return leaf, &it
}

// leafLeftSibling returns leaf's left neighbor in its parent's children map,
// or nil if leaf is its parent's first child (or has no parent). Adjacent
// leaves under the same parent are always adjacent in the leaf chain too,
// so the chain pointer itself answers the question once the parent check
// passes.
func leafLeftSibling[K any, V any](leaf *leafNode[K, V]) *leafNode[K, V] {
	if leaf.prev != nil && leaf.prev.parent == leaf.parent {
		return leaf.prev
	}
	return nil
}

func leafRightSibling[K any, V any](leaf *leafNode[K, V]) *leafNode[K, V] {
	if leaf.next != nil && leaf.next.parent == leaf.parent {
		return leaf.next
	}
	return nil
}

// borrowTarget computes how many entries a borrow should move: at least
// enough to clear the underflow threshold, and at least hysteresis when the
// donor can spare it, but never more than the donor can give up while
// staying at or above min.
func borrowTarget(currentSize, underflow, hyst, donorSize, min int) (borrowed int, ok bool) {
	canBorrow := donorSize - min
	if canBorrow <= 0 {
		return 0, false
	}
	needed := underflow - currentSize + 1
	target := max(needed, hyst, 1)
	return min(target, canBorrow), true
}

func (t *Tree[K, V]) borrowLeafFromLeft(leaf, left *leafNode[K, V]) (int, bool) {
	borrowed, ok := borrowTarget(leaf.data.Size(), t.leafUnderflow, t.leafHyst, left.data.Size(), t.leafMin)
	if !ok {
		return 0, false
	}
	err := leaf.data.TransferSuffixFrom(left.data, borrowed)
	debug.Assert(err == nil, "btree: unexpected borrow failure: %v", err)
	newMin := leaf.data.Key(leaf.data.Begin())
	t.updateParentKeyRecursive(leaf.parent, true, leaf, nil, newMin)
	return borrowed, true
}

func (t *Tree[K, V]) borrowLeafFromRight(leaf, right *leafNode[K, V]) (int, bool) {
	borrowed, ok := borrowTarget(leaf.data.Size(), t.leafUnderflow, t.leafHyst, right.data.Size(), t.leafMin)
	if !ok {
		return 0, false
	}
	err := leaf.data.TransferPrefixFrom(right.data, borrowed)
	debug.Assert(err == nil, "btree: unexpected borrow failure: %v", err)
	newRightMin := right.data.Key(right.data.Begin())
	t.updateParentKeyRecursive(right.parent, true, right, nil, newRightMin)
	return borrowed, true
}

func (t *Tree[K, V]) mergeLeafWithLeft(leaf, left *leafNode[K, V]) {
	count := leaf.data.Size()
	err := left.data.TransferPrefixFrom(leaf.data, count)
	debug.Assert(err == nil, "btree: unexpected merge failure: %v", err)

	left.next = leaf.next
	if leaf.next != nil {
		leaf.next.prev = left
	}
	if t.rightmost == leaf {
		t.rightmost = left
	}

	parent := leaf.parent
	idx := findLeafChildIndex(parent.leafChildren, leaf)
	parent.leafChildren.EraseIter(idx)
	t.afterChildRemoved(parent)
}

func (t *Tree[K, V]) mergeLeafWithRight(leaf, right *leafNode[K, V]) {
	count := right.data.Size()
	err := leaf.data.TransferPrefixFrom(right.data, count)
	debug.Assert(err == nil, "btree: unexpected merge failure: %v", err)

	leaf.next = right.next
	if right.next != nil {
		right.next.prev = leaf
	}
	if t.rightmost == right {
		t.rightmost = leaf
	}

	parent := leaf.parent
	idx := findLeafChildIndex(parent.leafChildren, right)
	parent.leafChildren.EraseIter(idx)
	t.afterChildRemoved(parent)
}

// internalLeftSibling and internalRightSibling implement §4.2's
// find-left-sibling / find-right-sibling generically over an internal
// node's parent entry, since internal nodes have no chain pointers of
// their own to shortcut through.
func internalLeftSibling[K any, V any](n *internalNode[K, V]) *internalNode[K, V] {
	parent := n.parent
	if parent == nil {
		return nil
	}
	idx := findInternalChildIndex(parent.internalChildren, n)
	if idx == parent.internalChildren.Begin() {
		return nil
	}
	return parent.internalChildren.Value(idx - 1)
}

func internalRightSibling[K any, V any](n *internalNode[K, V]) *internalNode[K, V] {
	parent := n.parent
	if parent == nil {
		return nil
	}
	idx := findInternalChildIndex(parent.internalChildren, n)
	if idx+1 == parent.internalChildren.End() {
		return nil
	}
	return parent.internalChildren.Value(idx + 1)
}

// handleInternalUnderflow is handleLeafUnderflow's counterpart for internal
// nodes. It never needs to track a successor iterator: only leaves are ever
// pointed at by a Tree iterator.
func (t *Tree[K, V]) handleInternalUnderflow(node *internalNode[K, V]) {
	if left := internalLeftSibling(node); left != nil {
		if t.borrowInternalFromLeft(node, left) {
			return
		}
	}
	if right := internalRightSibling(node); right != nil {
		if t.borrowInternalFromRight(node, right) {
			return
		}
	}
	if left := internalLeftSibling(node); left != nil {
		t.mergeInternalWithLeft(node, left)
		return
	}
	right := internalRightSibling(node)
	debug.Assert(right != nil, "btree: internal underflow with no available sibling")
	t.mergeInternalWithRight(node, right)
}

func (t *Tree[K, V]) borrowInternalFromLeft(node, left *internalNode[K, V]) bool {
	if node.childrenAreLeaves {
		borrowed, ok := borrowTarget(node.leafChildren.Size(), t.internalUnderflow, t.internalHyst, left.leafChildren.Size(), t.internalMin)
		if !ok {
			return false
		}
		err := node.leafChildren.TransferSuffixFrom(left.leafChildren, borrowed)
		debug.Assert(err == nil, "btree: unexpected borrow failure: %v", err)
		reparentLeafChildren(node)
		newMin := node.leafChildren.Key(node.leafChildren.Begin())
		t.updateParentKeyRecursive(node.parent, false, nil, node, newMin)
		return true
	}

	borrowed, ok := borrowTarget(node.internalChildren.Size(), t.internalUnderflow, t.internalHyst, left.internalChildren.Size(), t.internalMin)
	if !ok {
		return false
	}
	err := node.internalChildren.TransferSuffixFrom(left.internalChildren, borrowed)
	debug.Assert(err == nil, "btree: unexpected borrow failure: %v", err)
	reparentInternalChildren(node)
	newMin := node.internalChildren.Key(node.internalChildren.Begin())
	t.updateParentKeyRecursive(node.parent, false, nil, node, newMin)
	return true
}

func (t *Tree[K, V]) borrowInternalFromRight(node, right *internalNode[K, V]) bool {
	if node.childrenAreLeaves {
		borrowed, ok := borrowTarget(node.leafChildren.Size(), t.internalUnderflow, t.internalHyst, right.leafChildren.Size(), t.internalMin)
		if !ok {
			return false
		}
		err := node.leafChildren.TransferPrefixFrom(right.leafChildren, borrowed)
		debug.Assert(err == nil, "btree: unexpected borrow failure: %v", err)
		reparentLeafChildren(node)
		newRightMin := right.leafChildren.Key(right.leafChildren.Begin())
		t.updateParentKeyRecursive(right.parent, false, nil, right, newRightMin)
		return true
	}

	borrowed, ok := borrowTarget(node.internalChildren.Size(), t.internalUnderflow, t.internalHyst, right.internalChildren.Size(), t.internalMin)
	if !ok {
		return false
	}
	err := node.internalChildren.TransferPrefixFrom(right.internalChildren, borrowed)
	debug.Assert(err == nil, "btree: unexpected borrow failure: %v", err)
	reparentInternalChildren(node)
	newRightMin := right.internalChildren.Key(right.internalChildren.Begin())
	t.updateParentKeyRecursive(right.parent, false, nil, right, newRightMin)
	return true
}

func (t *Tree[K, V]) mergeInternalWithLeft(node, left *internalNode[K, V]) {
	parent := node.parent
	if node.childrenAreLeaves {
		count := node.leafChildren.Size()
		err := left.leafChildren.TransferPrefixFrom(node.leafChildren, count)
		debug.Assert(err == nil, "btree: unexpected merge failure: %v", err)
		reparentLeafChildren(left)
	} else {
		count := node.internalChildren.Size()
		err := left.internalChildren.TransferPrefixFrom(node.internalChildren, count)
		debug.Assert(err == nil, "btree: unexpected merge failure: %v", err)
		reparentInternalChildren(left)
	}

	idx := findInternalChildIndex(parent.internalChildren, node)
	parent.internalChildren.EraseIter(idx)
	t.afterChildRemoved(parent)
}

func (t *Tree[K, V]) mergeInternalWithRight(node, right *internalNode[K, V]) {
	parent := node.parent
	if node.childrenAreLeaves {
		count := right.leafChildren.Size()
		err := node.leafChildren.TransferPrefixFrom(right.leafChildren, count)
		debug.Assert(err == nil, "btree: unexpected merge failure: %v", err)
		reparentLeafChildren(node)
	} else {
		count := right.internalChildren.Size()
		err := node.internalChildren.TransferPrefixFrom(right.internalChildren, count)
		debug.Assert(err == nil, "btree: unexpected merge failure: %v", err)
		reparentInternalChildren(node)
	}

	idx := findInternalChildIndex(parent.internalChildren, right)
	parent.internalChildren.EraseIter(idx)
	t.afterChildRemoved(parent)
}

// afterChildRemoved is called once an internal node has lost a child entry
// to a merge, to keep the parent itself within its size bounds — or, if the
// parent is the root and has been reduced to a single child, to collapse
// the root down a level.
func (t *Tree[K, V]) afterChildRemoved(parent *internalNode[K, V]) {
	if parent == nil {
		return
	}

	isRoot := !t.rootIsLeaf && t.rootInternal == parent
	if isRoot {
		if parent.size() == 1 {
			t.collapseRootTo(parent)
		}
		return
	}

	if parent.size() < t.internalUnderflow {
		t.handleInternalUnderflow(parent)
	}
}

// collapseRootTo replaces an internal root that has been reduced to a
// single child with that child.
func (t *Tree[K, V]) collapseRootTo(parent *internalNode[K, V]) {
	if parent.childrenAreLeaves {
		onlyChild := parent.leafChildren.Value(parent.leafChildren.Begin())
		onlyChild.parent = nil
		t.rootIsLeaf = true
		t.rootLeaf = onlyChild
		t.rootInternal = nil
		return
	}

	onlyChild := parent.internalChildren.Value(parent.internalChildren.Begin())
	onlyChild.parent = nil
	t.rootInternal = onlyChild
}

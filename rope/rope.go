package rope

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/scriven/chunk"
)

// This follows the shape of a classic rope, generalized from the two-child
// inner-node/leaf-node design used elsewhere in this codebase for plain
// strings: node variants are *leaf* (a bounded chunk.Chunk), *branch* (two
// children plus cached weights), and *empty* (a nil root). Some invariants
// hold:
//
//   - (I1) every leaf's cached line count equals count('\n') of its bytes —
//     this is simply chunk.Chunk's own invariant, carried through unchanged.
//   - (I2) a branch's leftByteWeight = len(left) and leftLineWeight =
//     lines(left).
//   - (I3) leaves never split a UTF-8 code point.
//
// Height is rebalanced when it exceeds 2*ceil(log2(len/LeafCap)+1), by
// collecting leaves in-order and rebuilding the tree bottom-up — the same
// technique used to build a rope from scratch.

// Rope is a persistent text buffer built from bounded chunks.
//
// A Rope{} value is valid and behaves like the empty string.
type Rope struct {
	root *node
}

type node struct {
	leaf           *chunk.Chunk
	left, right    *node
	leftByteWeight uint64
	leftLineWeight uint64
	height         int
}

func (n *node) isLeaf() bool {
	return n.leaf != nil
}

func (n *node) byteLen() uint64 {
	if n == nil {
		return 0
	}
	if n.isLeaf() {
		return uint64(n.leaf.Len())
	}
	return n.leftByteWeight + n.right.byteLen()
}

func (n *node) lineCount() uint64 {
	if n == nil {
		return 0
	}
	if n.isLeaf() {
		return n.leaf.Lines()
	}
	return n.leftLineWeight + n.right.lineCount()
}

func (n *node) getHeight() int {
	if n == nil {
		return 0
	}
	if n.isLeaf() {
		return 1
	}
	return n.height
}

// FromString creates a rope from a Go string.
func FromString(s string) Rope {
	return Rope{root: buildFromText(s)}
}

// Len returns the length in bytes of the rope.
func (r Rope) Len() uint64 {
	return r.root.byteLen()
}

// LineCount returns the number of '\n' bytes in the rope.
func (r Rope) LineCount() uint64 {
	return r.root.lineCount()
}

// IsEmpty reports whether the rope holds no bytes.
func (r Rope) IsEmpty() bool {
	return r.Len() == 0
}

// String returns the rope as a Go string. This allocates a buffer for all
// bytes and copies every leaf fragment into it; callers working with large
// texts should prefer Slice or EachLeaf when only part of the text is
// needed.
func (r Rope) String() string {
	var b strings.Builder
	b.Grow(int(r.Len()))
	_ = r.EachLeaf(func(c chunk.Chunk) error {
		b.WriteString(c.String())
		return nil
	})
	return b.String()
}

// EachLeaf iterates, in order, over every leaf chunk of the rope.
func (r Rope) EachLeaf(f func(chunk.Chunk) error) error {
	return eachLeaf(r.root, f)
}

func eachLeaf(n *node, f func(chunk.Chunk) error) error {
	if n == nil {
		return nil
	}
	if n.isLeaf() {
		return f(*n.leaf)
	}
	if err := eachLeaf(n.left, f); err != nil {
		return err
	}
	return eachLeaf(n.right, f)
}

// Slice returns the bytes in [start,end) as a string.
func (r Rope) Slice(start, end uint64) (string, error) {
	if end < start || end > r.Len() {
		return "", ErrIndexOutOfBounds
	}
	var b strings.Builder
	b.Grow(int(end - start))
	_, err := collect(r.root, 0, start, end, &b)
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// collect writes the overlap of [start,end) with the subtree rooted at n
// (whose first byte is at absolute offset base) into b.
func collect(n *node, base, start, end uint64, b *strings.Builder) (uint64, error) {
	if n == nil {
		return base, nil
	}
	length := n.byteLen()
	lo, hi := base, base+length
	if end <= lo || start >= hi {
		return hi, nil
	}
	if n.isLeaf() {
		s := maxU64(start, lo) - lo
		e := minU64(end, hi) - lo
		b.WriteString(n.leaf.String()[s:e])
		return hi, nil
	}
	mid := base + n.leftByteWeight
	if _, err := collect(n.left, base, start, end, b); err != nil {
		return hi, err
	}
	if _, err := collect(n.right, mid, start, end, b); err != nil {
		return hi, err
	}
	return hi, nil
}

// Insert returns a new rope with text inserted at byte offset.
func (r Rope) Insert(offset uint64, text string) (Rope, error) {
	if offset > r.Len() {
		return Rope{}, ErrIndexOutOfBounds
	}
	if text == "" {
		return r, nil
	}
	if !r.root.isCharBoundaryAt(offset) {
		return Rope{}, ErrNotCharBoundary
	}
	newRoot := insertInto(r.root, offset, text)
	newRoot = rebalance(newRoot)
	return Rope{root: newRoot}, nil
}

func insertInto(n *node, offset uint64, text string) *node {
	if n == nil {
		return buildFromText(text)
	}
	if n.isLeaf() {
		prefix, suffix, err := n.leaf.SplitAt(int(offset))
		assert(err == nil, "insert offset not a chunk boundary")
		combined := prefix.String() + text + suffix.String()
		return buildFromText(combined)
	}
	if offset <= n.leftByteWeight {
		left := insertInto(n.left, offset, text)
		return makeBranch(left, n.right)
	}
	right := insertInto(n.right, offset-n.leftByteWeight, text)
	return makeBranch(n.left, right)
}

// Delete returns a new rope with the bytes in [start,end) removed.
func (r Rope) Delete(start, end uint64) (Rope, error) {
	if end < start {
		return Rope{}, ErrIndexOutOfBounds
	}
	if end > r.Len() {
		end = r.Len()
	}
	if start >= end {
		return r, nil
	}
	if !r.root.isCharBoundaryAt(start) || !r.root.isCharBoundaryAt(end) {
		return Rope{}, ErrNotCharBoundary
	}
	newRoot := deleteFrom(r.root, start, end)
	newRoot = rebalance(newRoot)
	return Rope{root: newRoot}, nil
}

func deleteFrom(n *node, start, end uint64) *node {
	if n == nil {
		return nil
	}
	if n.isLeaf() {
		text := n.leaf.String()
		kept := text[:start] + text[end:]
		return buildFromText(kept)
	}
	w := n.leftByteWeight
	switch {
	case end <= w:
		left := deleteFrom(n.left, start, end)
		return mergeNodes(left, n.right)
	case start >= w:
		right := deleteFrom(n.right, start-w, end-w)
		return mergeNodes(n.left, right)
	default:
		left := deleteFrom(n.left, start, w)
		right := deleteFrom(n.right, 0, end-w)
		return mergeNodes(left, right)
	}
}

// mergeNodes concatenates two (possibly nil) subtrees, collapsing empties.
func mergeNodes(left, right *node) *node {
	if left == nil {
		return right
	}
	if right == nil {
		return left
	}
	return makeBranch(left, right)
}

// IsCharBoundary reports whether offset lies on a UTF-8 code point boundary
// within the rope (offset == Len() always counts as a boundary).
func (r Rope) IsCharBoundary(offset uint64) bool {
	return r.root.isCharBoundaryAt(offset)
}

// isCharBoundaryAt reports whether offset is a UTF-8 boundary within the
// subtree rooted at n. offset == byteLen() is always a boundary (one past
// the end).
func (n *node) isCharBoundaryAt(offset uint64) bool {
	if offset == n.byteLen() {
		return true
	}
	if n == nil {
		return offset == 0
	}
	if n.isLeaf() {
		return n.leaf.IsCharBoundary(int(offset))
	}
	if offset < n.leftByteWeight {
		return n.left.isCharBoundaryAt(offset)
	}
	return n.right.isCharBoundaryAt(offset - n.leftByteWeight)
}

// makeBranch builds a branch node from two children, recomputing cached
// weights and height. Either child may be nil only transiently during
// construction from buildBalanced; a branch reachable from a Rope always
// has two non-nil children.
func makeBranch(left, right *node) *node {
	if left == nil {
		return right
	}
	if right == nil {
		return left
	}
	return &node{
		left:           left,
		right:          right,
		leftByteWeight: left.byteLen(),
		leftLineWeight: left.lineCount(),
		height:         max(left.getHeight(), right.getHeight()) + 1,
	}
}

// buildFromText chunks raw text into chunk.LeafCap-sized, UTF-8-safe pieces
// and assembles them into a balanced tree.
func buildFromText(text string) *node {
	if text == "" {
		return nil
	}
	pieces := chunkText(text)
	leaves := make([]*node, len(pieces))
	for i, c := range pieces {
		cc := c
		leaves[i] = &node{leaf: &cc}
	}
	return buildBalanced(leaves)
}

// chunkText splits text into chunk.LeafCap-byte pieces without ever
// severing a UTF-8 code point.
func chunkText(text string) []chunk.Chunk {
	var out []chunk.Chunk
	for len(text) > 0 {
		n := len(text)
		if n > chunk.LeafCap {
			n = chunk.LeafCap
			for n > 0 && !utf8.RuneStart(text[n]) {
				n--
			}
			if n == 0 {
				n = chunk.LeafCap // pathological: force progress
			}
		}
		c, err := chunk.New(text[:n])
		assert(err == nil, "chunkText produced invalid chunk")
		out = append(out, c)
		text = text[n:]
	}
	return out
}

// buildBalanced assembles a balanced binary tree from a flat, in-order
// slice of leaf nodes by repeated pairwise concatenation — the same
// bottom-up technique used for rebalancing a tree whose height has drifted
// out of bounds.
func buildBalanced(leaves []*node) *node {
	if len(leaves) == 0 {
		return nil
	}
	level := leaves
	for len(level) > 1 {
		next := make([]*node, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 < len(level) {
				next = append(next, makeBranch(level[i], level[i+1]))
			} else {
				next = append(next, level[i])
			}
		}
		level = next
	}
	return level[0]
}

// rebalanceThreshold returns the maximum tolerated tree height for a rope
// of the given byte length, per the spec's rebalance predicate:
// 2*ceil(log2(len/LeafCap)+1).
func rebalanceThreshold(byteLen uint64) int {
	ratio := float64(byteLen) / float64(chunk.LeafCap)
	if ratio < 1 {
		ratio = 1
	}
	return 2 * int(math.Ceil(math.Log2(ratio)+1))
}

// rebalance rebuilds n bottom-up from its in-order leaves if its height
// exceeds rebalanceThreshold for its size.
func rebalance(n *node) *node {
	if n == nil || n.isLeaf() {
		return n
	}
	if n.getHeight() <= rebalanceThreshold(n.byteLen()) {
		return n
	}
	leaves := collectLeaves(n, nil)
	tracer().Debugf("rope: rebalancing %d leaves (height %d)", len(leaves), n.getHeight())
	return buildBalanced(leaves)
}

func collectLeaves(n *node, into []*node) []*node {
	if n == nil {
		return into
	}
	if n.isLeaf() {
		return append(into, n)
	}
	into = collectLeaves(n.left, into)
	return collectLeaves(n.right, into)
}

func maxU64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}

func minU64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

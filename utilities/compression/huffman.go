package compression

import (
	"errors"
	"fmt"

	"github.com/dargueta/modunpack"
	"github.com/dargueta/modunpack/utilities/bitstream"
)

// MaxHuffmanNodes is the capacity of the node table a tree is built into.
const MaxHuffmanNodes = 256

const noChild = -1

type huffmanNode struct {
	left  int
	right int
	value uint8
}

func (node *huffmanNode) isLeaf() bool {
	return node.left == noChild && node.right == noChild
}

// HuffmanTree is a decoding tree stored as a flat table. Node 0 is the root;
// children are referred to by index.
type HuffmanTree struct {
	nodes []huffmanNode
}

// Len returns the number of nodes in the tree.
func (tree *HuffmanTree) Len() int {
	return len(tree.nodes)
}

// Node returns the value stored at node `index` and the indexes of its children,
// -1 for a missing child.
func (tree *HuffmanTree) Node(index int) (value uint8, left, right int) {
	node := tree.nodes[index]
	return node.value, node.left, node.right
}

// ReadHuffmanTree builds a tree from its description at the cursor's position.
//
// Nodes are stored in pre-order. Each one is a 7-bit value followed by a
// "has left child" bit and a "has right child" bit; a child that's present is
// read in full before its sibling. The root must have both children or the tree
// is rejected with [modunpack.ErrInvalidTree]. A tree that doesn't fit into
// [MaxHuffmanNodes] nodes is also invalid. Running out of input returns
// [modunpack.ErrExhausted].
func ReadHuffmanTree(cursor *bitstream.MSBCursor) (*HuffmanTree, error) {
	tree := &HuffmanTree{nodes: make([]huffmanNode, 0, MaxHuffmanNodes)}
	_, err := tree.readNode(cursor, true)
	if err != nil {
		return nil, err
	}
	return tree, nil
}

// readNode reads a single node plus all its descendants and returns the node's
// index. Recursion depth is bounded by MaxHuffmanNodes.
func (tree *HuffmanTree) readNode(cursor *bitstream.MSBCursor, isRoot bool) (int, error) {
	if len(tree.nodes) >= MaxHuffmanNodes {
		return noChild, modunpack.ErrInvalidTree.
			WithMessage(fmt.Sprintf("tree has more than %d nodes", MaxHuffmanNodes)).
			AtOffset(cursor.Position())
	}

	value, err := cursor.ReadBits(7)
	if err != nil {
		return noChild, err
	}
	hasLeft, err := cursor.ReadBit()
	if err != nil {
		return noChild, err
	}
	hasRight, err := cursor.ReadBit()
	if err != nil {
		return noChild, err
	}

	if isRoot && (hasLeft == 0 || hasRight == 0) {
		return noChild, modunpack.ErrInvalidTree.
			WithMessage("root node needs two children").
			AtOffset(cursor.Position())
	}

	index := len(tree.nodes)
	tree.nodes = append(
		tree.nodes, huffmanNode{left: noChild, right: noChild, value: uint8(value)})

	if hasLeft != 0 {
		child, err := tree.readNode(cursor, false)
		if err != nil {
			return noChild, err
		}
		tree.nodes[index].left = child
	}
	if hasRight != 0 {
		child, err := tree.readNode(cursor, false)
		if err != nil {
			return noChild, err
		}
		tree.nodes[index].right = child
	}
	return index, nil
}

// ReadSymbol walks the tree from the root, one bit per branch (0 = left,
// 1 = right), and returns the value of the leaf it reaches. A bit that selects
// a child the node doesn't have leads nowhere in the table, so it's treated
// like running out of input and returns [modunpack.ErrExhausted].
func (tree *HuffmanTree) ReadSymbol(cursor *bitstream.MSBCursor) (uint8, error) {
	index := 0
	for {
		if index < 0 || index >= len(tree.nodes) {
			return 0, modunpack.ErrExhausted
		}

		node := &tree.nodes[index]
		if node.isLeaf() {
			return node.value, nil
		}

		bit, err := cursor.ReadBit()
		if err != nil {
			return 0, err
		}

		next := node.left
		if bit != 0 {
			next = node.right
		}
		if next == noChild {
			return 0, modunpack.ErrExhausted
		}
		index = next
	}
}

// DecompressHuffman decodes `sampleCount` delta-coded samples starting at
// input[offset].
//
// The chunk begins with a tree description (see [ReadHuffmanTree]). Each sample
// after that is a sign bit followed by a tree path giving the delta's magnitude;
// a set sign bit complements the magnitude. Deltas are summed with 8-bit
// wraparound starting from zero, and each running sum is one output byte.
//
// An invalid tree returns [modunpack.ErrInvalidTree] and a result with no data.
// Running out of input returns whatever was decoded so far as a partial result.
// Consumed is the number of bytes touched and is not aligned.
func DecompressHuffman(input []byte, offset int, sampleCount int) (modunpack.Result, error) {
	if err := checkDecodeArgs(input, offset, sampleCount); err != nil {
		return modunpack.Result{}, err
	}

	cursor := bitstream.NewMSBCursor(input, offset)
	tree, err := ReadHuffmanTree(cursor)
	if err != nil {
		consumed := cursor.Position() - offset
		if errors.Is(err, modunpack.ErrExhausted) {
			return modunpack.NewResult([]byte{}, consumed, sampleCount), nil
		}
		return modunpack.Result{
			Data:     []byte{},
			Consumed: consumed,
			Outcome:  modunpack.OutcomeInvalidTree,
		}, err
	}

	output := make([]byte, 0, sampleCount)
	runningValue := byte(0)

	for len(output) < sampleCount {
		sign, err := cursor.ReadBit()
		if err != nil {
			break
		}
		delta, err := tree.ReadSymbol(cursor)
		if err != nil {
			break
		}
		if sign != 0 {
			delta ^= 0xff
		}
		runningValue += delta
		output = append(output, runningValue)
	}

	return modunpack.NewResult(output, cursor.Position()-offset, sampleCount), nil
}

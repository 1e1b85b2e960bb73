package merkletree

import "github.com/wienerlabs/archimedes/types"

// ProofStep is one sibling hash encountered while climbing from a leaf to
// the root.
type ProofStep struct {
	Hash   types.Hash
	IsLeft bool // true if the path node (not the sibling) is the left child
}

// Proof is an inclusion proof for one leaf index.
type Proof struct {
	Index int
	Steps []ProofStep
}

// GenerateProof builds an inclusion proof for the leaf at index. Levels
// where the path node was an odd-tail promotion contribute no proof step,
// since there was no sibling to hash against at that level.
func (t *Tree) GenerateProof(index int) (Proof, error) {
	if index < 0 || index >= len(t.levels[0]) {
		return Proof{}, ErrIndexOutOfRange
	}

	proof := Proof{Index: index}
	idx := index
	for level := 0; level < len(t.levels)-1; level++ {
		nodes := t.levels[level]
		var siblingIdx int
		var isLeft bool
		if idx%2 == 0 {
			siblingIdx = idx + 1
			isLeft = true
		} else {
			siblingIdx = idx - 1
			isLeft = false
		}
		if siblingIdx < len(nodes) {
			proof.Steps = append(proof.Steps, ProofStep{Hash: nodes[siblingIdx].Hash, IsLeft: isLeft})
		}
		idx /= 2
	}
	return proof, nil
}

// Verify reports whether proof proves that the leaf at proof.Index,
// whose contract-fixed hash is leafHash (SHA-256(index_be(8) ||
// compressed_group_element)), is included under rootHash.
func Verify(leafHash types.Hash, proof Proof, rootHash types.Hash) bool {
	current := leafHash
	for _, step := range proof.Steps {
		if step.IsLeft {
			current = hashNode(current, step.Hash)
		} else {
			current = hashNode(step.Hash, current)
		}
	}
	return current == rootHash
}

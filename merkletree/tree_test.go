package merkletree

import (
	"testing"

	"github.com/wienerlabs/archimedes/crypto"
)

func testParams(t *testing.T) crypto.CommitmentParams {
	t.Helper()
	params, err := crypto.Setup(crypto.RandomGroupElement)
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	return params
}

func buildTestTree(t *testing.T, n int) (*Tree, []crypto.Commitment) {
	t.Helper()
	params := testParams(t)

	commitments := make([]crypto.Commitment, n)
	for i := 0; i < n; i++ {
		c, _, err := params.Commit(crypto.NewScalar(uint64(i+1)), crypto.RandomScalar)
		if err != nil {
			t.Fatalf("commit failed: %v", err)
		}
		commitments[i] = c
	}

	tree, err := Build(commitments)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	return tree, commitments
}

// TestEightLeafTreeProofVerifies builds an 8-leaf tree over values 1..8
// and checks that the proof for index 2 verifies against the root.
func TestEightLeafTreeProofVerifies(t *testing.T) {
	tree, _ := buildTestTree(t, 8)

	if tree.LeafCount() != 8 {
		t.Fatalf("expected 8 leaves, got %d", tree.LeafCount())
	}
	if tree.Aggregate().Count != 8 {
		t.Fatalf("expected aggregate count 8, got %d", tree.Aggregate().Count)
	}

	proof, err := tree.GenerateProof(2)
	if err != nil {
		t.Fatalf("proof generation failed: %v", err)
	}

	leafHash, err := tree.LeafHash(2)
	if err != nil {
		t.Fatalf("leaf hash failed: %v", err)
	}
	if !Verify(leafHash, proof, tree.RootHash()) {
		t.Fatal("proof for index 2 should verify against the root")
	}
}

// treeLeafHashes re-derives every leaf's contract-fixed hash.
func treeLeafHashes(t *testing.T, tree *Tree) [][32]byte {
	t.Helper()
	n := tree.LeafCount()
	out := make([][32]byte, n)
	for i := 0; i < n; i++ {
		h, err := tree.LeafHash(i)
		if err != nil {
			t.Fatalf("leaf hash failed: %v", err)
		}
		out[i] = h
	}
	return out
}

func TestTreeOddTailPromotion(t *testing.T) {
	tree, _ := buildTestTree(t, 5)
	if tree.LeafCount() != 5 {
		t.Fatalf("expected 5 leaves, got %d", tree.LeafCount())
	}
	// Every index, including the promoted tail, must still prove.
	leafHashes := treeLeafHashes(t, tree)
	for i := 0; i < 5; i++ {
		proof, err := tree.GenerateProof(i)
		if err != nil {
			t.Fatalf("proof generation failed for index %d: %v", i, err)
		}
		if !Verify(leafHashes[i], proof, tree.RootHash()) {
			t.Fatalf("proof for index %d should verify", i)
		}
	}
}

func TestTreeProofFailsOnTamperedSibling(t *testing.T) {
	tree, _ := buildTestTree(t, 8)
	leafHashes := treeLeafHashes(t, tree)

	proof, err := tree.GenerateProof(3)
	if err != nil {
		t.Fatalf("proof generation failed: %v", err)
	}
	if len(proof.Steps) == 0 {
		t.Fatal("expected at least one proof step for an 8-leaf tree")
	}
	proof.Steps[0].Hash[0] ^= 0xFF

	if Verify(leafHashes[3], proof, tree.RootHash()) {
		t.Fatal("tampered sibling hash should not verify")
	}
}

func TestTreeProofFailsOnFlippedDirectionBit(t *testing.T) {
	tree, _ := buildTestTree(t, 8)
	leafHashes := treeLeafHashes(t, tree)

	proof, err := tree.GenerateProof(3)
	if err != nil {
		t.Fatalf("proof generation failed: %v", err)
	}
	proof.Steps[0].IsLeft = !proof.Steps[0].IsLeft

	if Verify(leafHashes[3], proof, tree.RootHash()) {
		t.Fatal("flipped direction bit should not verify")
	}
}

func TestRangeAggregateOverFullRangeEqualsAggregate(t *testing.T) {
	tree, _ := buildTestTree(t, 6)
	full, err := tree.RangeAggregate(0, tree.LeafCount())
	if err != nil {
		t.Fatalf("range aggregate failed: %v", err)
	}
	if !full.Equal(tree.Aggregate()) {
		t.Fatal("range_aggregate(0, leaf_count) should equal aggregate()")
	}
}

func TestRangeAggregateInvalidRange(t *testing.T) {
	tree, _ := buildTestTree(t, 4)
	if _, err := tree.RangeAggregate(2, 1); err != ErrInvalidRange {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if _, err := tree.RangeAggregate(0, 5); err != ErrInvalidRange {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestBuildRejectsEmptyInput(t *testing.T) {
	if _, err := Build(nil); err != ErrEmptyTree {
		t.Fatalf("expected ErrEmptyTree, got %v", err)
	}
}

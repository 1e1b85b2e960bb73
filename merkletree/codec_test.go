package merkletree

import "testing"

func TestMarshalProofRoundTrip(t *testing.T) {
	tree, _ := buildTestTree(t, 8)
	proof, err := tree.GenerateProof(3)
	if err != nil {
		t.Fatalf("proof generation failed: %v", err)
	}

	encoded, err := MarshalProof(proof)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	decoded, err := UnmarshalProof(encoded)
	if err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if decoded.Index != proof.Index || len(decoded.Steps) != len(proof.Steps) {
		t.Fatal("round-tripped proof does not match original")
	}
	for i := range proof.Steps {
		if decoded.Steps[i] != proof.Steps[i] {
			t.Fatalf("step %d mismatch after round-trip", i)
		}
	}

	leafHash, err := tree.LeafHash(3)
	if err != nil {
		t.Fatalf("leaf hash failed: %v", err)
	}
	if !Verify(leafHash, decoded, tree.RootHash()) {
		t.Fatal("round-tripped proof should still verify")
	}
}

func TestMarshalProofDeterministic(t *testing.T) {
	tree, _ := buildTestTree(t, 8)
	proof, err := tree.GenerateProof(3)
	if err != nil {
		t.Fatalf("proof generation failed: %v", err)
	}

	first, err := MarshalProof(proof)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	second, err := MarshalProof(proof)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(first) != string(second) {
		t.Fatal("canonical CBOR encoding should be deterministic across calls")
	}
}

package merkletree

import "github.com/fxamacker/cbor/v2"

// detEncMode is the canonical, deterministic CBOR encoding mode, matching
// crypto.MarshalCommitment's own sorted-key, shortest-form mode so that a
// MerkleProof serializes the same way every other wire record in this
// module does.
var detEncMode = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

type wireProofStep struct {
	Hash   [32]byte
	IsLeft bool
}

type wireProof struct {
	Index int
	Steps []wireProofStep
}

// MarshalProof canonically encodes p.
func MarshalProof(p Proof) ([]byte, error) {
	w := wireProof{Index: p.Index, Steps: make([]wireProofStep, len(p.Steps))}
	for i, s := range p.Steps {
		w.Steps[i] = wireProofStep{Hash: s.Hash, IsLeft: s.IsLeft}
	}
	return detEncMode.Marshal(w)
}

// UnmarshalProof decodes bytes produced by MarshalProof.
func UnmarshalProof(data []byte) (Proof, error) {
	var w wireProof
	if err := cbor.Unmarshal(data, &w); err != nil {
		return Proof{}, err
	}
	p := Proof{Index: w.Index, Steps: make([]ProofStep, len(w.Steps))}
	for i, s := range w.Steps {
		p.Steps[i] = ProofStep{Hash: s.Hash, IsLeft: s.IsLeft}
	}
	return p, nil
}

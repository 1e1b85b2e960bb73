package state

import (
	"crypto/sha256"

	"github.com/wienerlabs/archimedes/crypto"
)

// StateTransition binds a pre-state and post-state pair to the
// transaction that produced it.
type StateTransition struct {
	Pre    AccountState
	Post   AccountState
	TxHash [32]byte
}

// Hash returns SHA-256(pre.Hash() || post.Hash() || tx_hash), 96 bytes
// total.
func (t StateTransition) Hash() [32]byte {
	h := sha256.New()
	preHash := t.Pre.Hash()
	postHash := t.Post.Hash()
	h.Write(preHash[:])
	h.Write(postHash[:])
	h.Write(t.TxHash[:])
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// ToCommitmentValue returns bytes_to_field(t.Hash()).
func (t StateTransition) ToCommitmentValue() crypto.ScalarField {
	return bytesToField(t.Hash())
}

// EncodeTransitions maps each transition to its commitment value, failing
// on an empty batch.
func EncodeTransitions(transitions []StateTransition) ([]crypto.ScalarField, error) {
	if len(transitions) == 0 {
		return nil, ErrEmptyBatch
	}
	out := make([]crypto.ScalarField, len(transitions))
	for i, t := range transitions {
		out[i] = t.ToCommitmentValue()
	}
	return out, nil
}

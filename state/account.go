// Package state encodes account states and state transitions into the
// scalar field consumed by the commitment layer, following the canonical
// big-endian hash layout fixed by the wire contract.
package state

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"

	"github.com/holiman/uint256"

	"github.com/wienerlabs/archimedes/crypto"
)

// ErrEmptyBatch is returned by the batch encoders when given no input.
var ErrEmptyBatch = errors.New("state: empty input batch")

// AccountState is the minimal account shape the dispute core reasons
// about: a u128 balance, a nonce, and opaque code/storage commitments.
type AccountState struct {
	Balance     *uint256.Int
	Nonce       uint64
	CodeHash    [32]byte
	StorageRoot [32]byte
}

// NewAccountState builds an AccountState with zero code hash and storage
// root, the common shape for plain balance-transfer accounts.
func NewAccountState(balance uint64, nonce uint64) AccountState {
	return AccountState{Balance: uint256.NewInt(balance), Nonce: nonce}
}

// Hash returns SHA-256(balance_be(16) || nonce_be(8) || code_hash(32) ||
// storage_root(32)), 88 bytes total as fixed by the wire contract.
func (a AccountState) Hash() [32]byte {
	h := sha256.New()
	full := a.Balance.Bytes32()
	h.Write(full[16:]) // low 16 bytes: the u128 big-endian balance field
	var nonceBuf [8]byte
	binary.BigEndian.PutUint64(nonceBuf[:], a.Nonce)
	h.Write(nonceBuf[:])
	h.Write(a.CodeHash[:])
	h.Write(a.StorageRoot[:])
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// ToFieldElements returns [balance, nonce, bytes_to_field(code_hash),
// bytes_to_field(storage_root)] for circuit-layer collaborators. The core
// dispute pipeline never consumes these directly.
func (a AccountState) ToFieldElements() [4]crypto.ScalarField {
	return [4]crypto.ScalarField{
		crypto.ScalarFromBigInt(a.Balance.ToBig()),
		crypto.NewScalar(a.Nonce),
		bytesToField(a.CodeHash),
		bytesToField(a.StorageRoot),
	}
}

// ToCommitmentValue returns bytes_to_field(a.Hash()).
func (a AccountState) ToCommitmentValue() crypto.ScalarField {
	return bytesToField(a.Hash())
}

// bytesToField truncates to the first 31 bytes and interprets them
// little-endian modulo the field order. This is deliberately lossy but
// injective-in-practice at 248 bits, and is load-bearing for
// cross-implementation compatibility: never use all 32 bytes.
func bytesToField(b [32]byte) crypto.ScalarField {
	return crypto.ScalarFromLEBytesModOrder(b[:31])
}

// EncodeStateBatch maps each account state to its commitment value,
// failing on an empty batch.
func EncodeStateBatch(states []AccountState) ([]crypto.ScalarField, error) {
	if len(states) == 0 {
		return nil, ErrEmptyBatch
	}
	out := make([]crypto.ScalarField, len(states))
	for i, s := range states {
		out[i] = s.ToCommitmentValue()
	}
	return out, nil
}

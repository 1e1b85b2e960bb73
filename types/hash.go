// Package types defines canonical 32-byte value types shared across the
// commitment, Merkle, and dispute packages.
package types

import "fmt"

// HashLength is the size in bytes of a Hash.
const HashLength = 32

// Hash is a 32-byte digest, typically the output of SHA-256.
type Hash [HashLength]byte

// BytesToHash converts bytes to a Hash, left-padding if shorter than 32
// bytes and truncating the leading bytes if longer.
func BytesToHash(b []byte) Hash {
	var h Hash
	h.SetBytes(b)
	return h
}

// Bytes returns the byte slice representation of the hash.
func (h Hash) Bytes() []byte { return h[:] }

// Hex returns the 0x-prefixed hex string representation of the hash.
func (h Hash) Hex() string { return fmt.Sprintf("0x%x", h[:]) }

// String implements fmt.Stringer.
func (h Hash) String() string { return h.Hex() }

// SetBytes sets the hash from a byte slice, left-padding if necessary.
func (h *Hash) SetBytes(b []byte) {
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
}

// IsZero returns whether the hash is the all-zero sentinel.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

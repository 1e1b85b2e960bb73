// Package crypto implements the prime-order group and scalar field used by
// the Pedersen commitment scheme, plus the Pedersen commitment itself, its
// additive homomorphism, and a canonical CBOR wire codec for every on-wire
// record in the dispute pipeline.
//
// The curve is a Banderwagon-style twisted Edwards group over the BLS12-381
// scalar field: -5x^2 + y^2 = 1 + d*x^2*y^2 (math/big throughout;
// correctness over performance, not constant time).
package crypto

import (
	"crypto/rand"
	"errors"
	"math/big"
)

// fieldOrder is the BLS12-381 scalar field modulus r, used as the base
// field for curve coordinate arithmetic.
var fieldOrder, _ = new(big.Int).SetString(
	"73eda753299d7d483339d80809a1d80553bda402fffe5bfeffffffff00000001", 16)

// subgroupOrder is the Bandersnatch prime-order subgroup order n, used for
// scalar arithmetic: commitment values, randomness, and exponents.
var subgroupOrder, _ = new(big.Int).SetString(
	"1cfb69d4ca675f520cce760202687600ff8f87007419047174fd06b52876e7e1", 16)

// ScalarField is an element of the scalar field F used for commitment
// values and randomness. Arithmetic is reduced modulo subgroupOrder.
type ScalarField struct {
	v *big.Int
}

// ErrScalarFieldSample is returned when secure random sampling fails.
var ErrScalarFieldSample = errors.New("crypto: failed to sample scalar field element")

// NewScalar builds a ScalarField element from a uint64.
func NewScalar(v uint64) ScalarField {
	return ScalarField{v: new(big.Int).Mod(new(big.Int).SetUint64(v), subgroupOrder)}
}

// ScalarZero returns the additive identity of F.
func ScalarZero() ScalarField {
	return ScalarField{v: new(big.Int)}
}

// ScalarFromBigInt reduces an arbitrary big.Int modulo the subgroup order.
func ScalarFromBigInt(v *big.Int) ScalarField {
	return ScalarField{v: new(big.Int).Mod(v, subgroupOrder)}
}

// ScalarFromLEBytesModOrder interprets buf as a little-endian integer and
// reduces it modulo the subgroup order. buf must be 31 bytes: hash-to-field
// callers truncate 32-byte digests first so the input stays at 248 bits,
// and that truncation width is load-bearing for cross-implementation
// compatibility.
func ScalarFromLEBytesModOrder(buf []byte) ScalarField {
	be := make([]byte, len(buf))
	for i, b := range buf {
		be[len(buf)-1-i] = b
	}
	return ScalarField{v: new(big.Int).Mod(new(big.Int).SetBytes(be), subgroupOrder)}
}

// ScalarFromLEBytesFull interprets a full 32-byte little-endian buffer as
// an already-valid field element and reduces it modulo the subgroup
// order. Unlike ScalarFromLEBytesModOrder (the 31-byte truncating
// hash-to-field routine), this is a plain round-trip decode for wire
// formats that serialize a ScalarField's own canonical 32-byte encoding.
func ScalarFromLEBytesFull(buf [32]byte) ScalarField {
	be := make([]byte, 32)
	for i, b := range buf {
		be[31-i] = b
	}
	return ScalarField{v: new(big.Int).Mod(new(big.Int).SetBytes(be), subgroupOrder)}
}

// RandomScalar draws a uniformly random element of F using crypto/rand.
func RandomScalar() (ScalarField, error) {
	v, err := rand.Int(rand.Reader, subgroupOrder)
	if err != nil {
		return ScalarField{}, ErrScalarFieldSample
	}
	return ScalarField{v: v}, nil
}

// BigInt returns the element's big.Int representation. The returned value
// must not be mutated.
func (s ScalarField) BigInt() *big.Int {
	if s.v == nil {
		return new(big.Int)
	}
	return s.v
}

// Add returns s + other mod subgroupOrder.
func (s ScalarField) Add(other ScalarField) ScalarField {
	return ScalarField{v: new(big.Int).Mod(new(big.Int).Add(s.BigInt(), other.BigInt()), subgroupOrder)}
}

// Sub returns s - other mod subgroupOrder.
func (s ScalarField) Sub(other ScalarField) ScalarField {
	r := new(big.Int).Sub(s.BigInt(), other.BigInt())
	return ScalarField{v: r.Mod(r, subgroupOrder)}
}

// Mul returns s * other mod subgroupOrder.
func (s ScalarField) Mul(other ScalarField) ScalarField {
	return ScalarField{v: new(big.Int).Mod(new(big.Int).Mul(s.BigInt(), other.BigInt()), subgroupOrder)}
}

// Neg returns -s mod subgroupOrder.
func (s ScalarField) Neg() ScalarField {
	if s.BigInt().Sign() == 0 {
		return ScalarZero()
	}
	return ScalarField{v: new(big.Int).Sub(subgroupOrder, new(big.Int).Mod(s.BigInt(), subgroupOrder))}
}

// Equal reports whether s and other represent the same field element.
func (s ScalarField) Equal(other ScalarField) bool {
	return s.BigInt().Cmp(other.BigInt()) == 0
}

// IsZero reports whether s is the additive identity.
func (s ScalarField) IsZero() bool {
	return s.BigInt().Sign() == 0
}

// Bytes returns the fixed-width 32-byte little-endian encoding of s.
func (s ScalarField) Bytes() [32]byte {
	var out [32]byte
	be := s.BigInt().Bytes()
	for i, b := range be {
		out[len(be)-1-i] = b
	}
	return out
}

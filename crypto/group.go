package crypto

import (
	"errors"
	"math/big"
)

// curveA and curveD are the twisted Edwards parameters for
// -5x^2 + y^2 = 1 + d*x^2*y^2, the Bandersnatch curve over the BLS12-381
// scalar field.
var (
	curveA = func() *big.Int {
		a := new(big.Int).Sub(fieldOrder, big.NewInt(5))
		return a
	}()
	curveD, _ = new(big.Int).SetString(
		"6389c12633c267cbc66e3bf86be3b6d8cb66677177e54f92b369f2f5188d58e7", 16)

	genX, _ = new(big.Int).SetString(
		"29c132cc2c0b34c5743711777bbe42f32b79c022ad998465e1e71866a252ae18", 16)
	genY, _ = new(big.Int).SetString(
		"2a6c669eda123e0f157d8b50badcd586358cad81eee464605e3167b6cc974166", 16)
)

// ErrNotOnCurve is returned when affine coordinates do not satisfy the
// curve equation.
var ErrNotOnCurve = errors.New("crypto: point is not on curve")

// ErrPointOutOfRange is returned when a serialized point's coordinate
// exceeds the field order.
var ErrPointOutOfRange = errors.New("crypto: coordinate out of range")

// GroupElement is a point of the prime-order Banderwagon subgroup, held in
// extended twisted Edwards coordinates (X, Y, T, Z) where x = X/Z, y = Y/Z,
// T = XY/Z.
type GroupElement struct {
	x, y, t, z *big.Int
}

func frAdd(a, b *big.Int) *big.Int { return new(big.Int).Mod(new(big.Int).Add(a, b), fieldOrder) }
func frSub(a, b *big.Int) *big.Int {
	r := new(big.Int).Sub(a, b)
	return r.Mod(r, fieldOrder)
}
func frMul(a, b *big.Int) *big.Int { return new(big.Int).Mod(new(big.Int).Mul(a, b), fieldOrder) }
func frSqr(a *big.Int) *big.Int    { return frMul(a, a) }
func frNeg(a *big.Int) *big.Int {
	if a.Sign() == 0 {
		return new(big.Int)
	}
	return new(big.Int).Sub(fieldOrder, new(big.Int).Mod(a, fieldOrder))
}
func frInv(a *big.Int) *big.Int { return new(big.Int).ModInverse(a, fieldOrder) }

// GroupZero returns the identity element of the group.
func GroupZero() GroupElement {
	return GroupElement{x: new(big.Int), y: big.NewInt(1), t: new(big.Int), z: big.NewInt(1)}
}

// GroupGenerator returns the standard Banderwagon generator point.
func GroupGenerator() GroupElement {
	t := frMul(genX, genY)
	return GroupElement{x: new(big.Int).Set(genX), y: new(big.Int).Set(genY), t: t, z: big.NewInt(1)}
}

func isOnCurve(x, y *big.Int) bool {
	xm := new(big.Int).Mod(x, fieldOrder)
	ym := new(big.Int).Mod(y, fieldOrder)
	x2 := frSqr(xm)
	y2 := frSqr(ym)
	lhs := frAdd(frMul(curveA, x2), y2)
	rhs := frAdd(big.NewInt(1), frMul(curveD, frMul(x2, y2)))
	return lhs.Cmp(rhs) == 0
}

// FromAffine builds a GroupElement from affine (x, y) coordinates, failing
// if the point does not lie on the curve.
func FromAffine(x, y *big.Int) (GroupElement, error) {
	if !isOnCurve(x, y) {
		return GroupElement{}, ErrNotOnCurve
	}
	xm := new(big.Int).Mod(x, fieldOrder)
	ym := new(big.Int).Mod(y, fieldOrder)
	return GroupElement{x: xm, y: ym, t: frMul(xm, ym), z: big.NewInt(1)}, nil
}

// Affine converts the point to affine (x, y) coordinates.
func (p GroupElement) Affine() (x, y *big.Int) {
	if p.z.Cmp(big.NewInt(1)) == 0 {
		return new(big.Int).Set(p.x), new(big.Int).Set(p.y)
	}
	zInv := frInv(p.z)
	return frMul(p.x, zInv), frMul(p.y, zInv)
}

// IsIdentity reports whether p is the group's neutral element.
func (p GroupElement) IsIdentity() bool {
	return new(big.Int).Mod(p.x, fieldOrder).Sign() == 0
}

// Add returns p + q using the unified addition formula for twisted Edwards
// curves in extended coordinates (Hisil et al., 2008).
func (p GroupElement) Add(q GroupElement) GroupElement {
	A := frMul(p.x, q.x)
	B := frMul(p.y, q.y)
	C := frMul(frMul(p.t, curveD), q.t)
	D := frMul(p.z, q.z)
	E := frSub(frMul(frAdd(p.x, p.y), frAdd(q.x, q.y)), frAdd(A, B))
	F := frSub(D, C)
	G := frAdd(D, C)
	H := frSub(B, frMul(curveA, A))
	return GroupElement{x: frMul(E, F), y: frMul(G, H), t: frMul(E, H), z: frMul(F, G)}
}

// Double returns p + p using the dedicated doubling formula.
func (p GroupElement) Double() GroupElement {
	A := frSqr(p.x)
	B := frSqr(p.y)
	C := frMul(big.NewInt(2), frSqr(p.z))
	D := frMul(curveA, A)
	E := frSub(frSqr(frAdd(p.x, p.y)), frAdd(A, B))
	G := frAdd(D, B)
	F := frSub(G, C)
	H := frSub(D, B)
	return GroupElement{x: frMul(E, F), y: frMul(G, H), t: frMul(E, H), z: frMul(F, G)}
}

// Neg returns -p.
func (p GroupElement) Neg() GroupElement {
	return GroupElement{x: frNeg(p.x), y: new(big.Int).Set(p.y), t: frNeg(p.t), z: new(big.Int).Set(p.z)}
}

// ScalarMul computes k*p by double-and-add, reducing k modulo the subgroup
// order first.
func (p GroupElement) ScalarMul(k ScalarField) GroupElement {
	scalar := new(big.Int).Mod(k.BigInt(), subgroupOrder)
	if scalar.Sign() == 0 || p.IsIdentity() {
		return GroupZero()
	}
	result := GroupZero()
	base := p
	for i := scalar.BitLen() - 1; i >= 0; i-- {
		result = result.Double()
		if scalar.Bit(i) == 1 {
			result = result.Add(base)
		}
	}
	return result
}

// Equal reports whether p and q represent the same group element, including
// the Banderwagon quotient equivalence (x, y) ~ (-x, -y).
func (p GroupElement) Equal(q GroupElement) bool {
	lx := frMul(p.x, q.z)
	rx := frMul(q.x, p.z)
	ly := frMul(p.y, q.z)
	ry := frMul(q.y, p.z)
	if lx.Cmp(rx) == 0 && ly.Cmp(ry) == 0 {
		return true
	}
	return lx.Cmp(frNeg(rx)) == 0 && ly.Cmp(frNeg(ry)) == 0
}

// Compressed serializes p to its canonical 32-byte encoding: the Y
// coordinate little-endian, normalized into the field's lower half, with
// the sign of X folded into the top bit. The identity (x=0, y=1) falls
// through the same path as any other point — y=1 encodes to a leading
// 0x01 byte with every other byte zero, and decodes back to x=0 via the
// curve equation, so no special-cased marker is needed.
func (p GroupElement) Compressed() [32]byte {
	var result [32]byte
	x, y := p.Affine()
	halfR := new(big.Int).Rsh(fieldOrder, 1)
	if y.Cmp(halfR) > 0 {
		x = frNeg(x)
		y = frNeg(y)
	}
	yBytes := y.Bytes()
	for i, b := range yBytes {
		result[len(yBytes)-1-i] = b
	}
	if x.Cmp(halfR) > 0 {
		result[31] |= 0x80
	}
	return result
}

// DecompressGroupElement recovers a GroupElement from its 32-byte
// canonical encoding.
func DecompressGroupElement(data [32]byte) (GroupElement, error) {
	signBit := data[31] & 0x80
	data[31] &= 0x7f

	beBytes := make([]byte, 32)
	for i := 0; i < 32; i++ {
		beBytes[31-i] = data[i]
	}
	y := new(big.Int).SetBytes(beBytes)
	if y.Cmp(fieldOrder) >= 0 {
		return GroupElement{}, ErrPointOutOfRange
	}

	y2 := frSqr(y)
	num := frSub(y2, big.NewInt(1))
	den := frAdd(big.NewInt(5), frMul(curveD, y2))
	denInv := frInv(den)
	x2 := frMul(num, denInv)
	x := new(big.Int).ModSqrt(x2, fieldOrder)
	if x == nil {
		return GroupElement{}, ErrNotOnCurve
	}
	halfR := new(big.Int).Rsh(fieldOrder, 1)
	isUpper := x.Cmp(halfR) > 0
	if (signBit != 0) != isUpper {
		x = frNeg(x)
	}
	return FromAffine(x, y)
}

// RandomGroupElement draws a uniformly random group element by scalar
// multiplying the generator by a random scalar.
func RandomGroupElement() (GroupElement, error) {
	s, err := RandomScalar()
	if err != nil {
		return GroupElement{}, err
	}
	return GroupGenerator().ScalarMul(s), nil
}

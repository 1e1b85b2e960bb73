package crypto

import (
	"math/big"
	"testing"
)

func TestGroupIdentityIsAdditiveIdentity(t *testing.T) {
	g := GroupGenerator()
	sum := g.Add(GroupZero())
	if !sum.Equal(g) {
		t.Fatal("g + 0 should equal g")
	}
}

func TestGroupDoubleMatchesAdd(t *testing.T) {
	g := GroupGenerator()
	doubled := g.Double()
	added := g.Add(g)
	if !doubled.Equal(added) {
		t.Fatal("Double() should match Add(p, p)")
	}
}

func TestGroupScalarMulDistributesOverAdd(t *testing.T) {
	g := GroupGenerator()
	two := NewScalar(2)
	three := NewScalar(3)
	five := NewScalar(5)

	lhs := g.ScalarMul(five)
	rhs := g.ScalarMul(two).Add(g.ScalarMul(three))
	if !lhs.Equal(rhs) {
		t.Fatal("5*g should equal 2*g + 3*g")
	}
}

func TestGroupNegCancels(t *testing.T) {
	g := GroupGenerator()
	sum := g.Add(g.Neg())
	if !sum.IsIdentity() {
		t.Fatal("g + (-g) should be the identity")
	}
}

func TestGroupCompressedRoundTrip(t *testing.T) {
	g := GroupGenerator().ScalarMul(NewScalar(12345))
	compressed := g.Compressed()

	decoded, err := DecompressGroupElement(compressed)
	if err != nil {
		t.Fatalf("decompress failed: %v", err)
	}
	if !decoded.Equal(g) {
		t.Fatal("decompressed point does not match original")
	}
}

func TestGroupIdentityCompressedRoundTrip(t *testing.T) {
	compressed := GroupZero().Compressed()
	decoded, err := DecompressGroupElement(compressed)
	if err != nil {
		t.Fatalf("decompress failed: %v", err)
	}
	if !decoded.IsIdentity() {
		t.Fatal("expected identity to round-trip to identity")
	}
}

func TestFromAffineRejectsOffCurvePoint(t *testing.T) {
	x, y := GroupGenerator().Affine()
	offCurveY := new(big.Int).Add(y, big.NewInt(1))
	_, err := FromAffine(x, offCurveY)
	if err != ErrNotOnCurve {
		t.Fatalf("expected ErrNotOnCurve, got %v", err)
	}
}

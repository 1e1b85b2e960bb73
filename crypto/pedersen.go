package crypto

import "errors"

// Pedersen commitment errors.
var (
	// ErrSetupIdentity is returned when trusted setup samples an identity
	// generator; retry with fresh randomness.
	ErrSetupIdentity = errors.New("crypto: generator point sampled to identity")
)

// CommitmentParams is a pair of independent generators (g, h) produced by a
// trusted setup. Neither may be the group identity.
type CommitmentParams struct {
	G GroupElement
	H GroupElement
}

// Commitment is a Pedersen commitment C = g*v + h*r.
type Commitment struct {
	Point GroupElement
}

// Opening reveals the value and randomness behind a Commitment.
type Opening struct {
	Value      ScalarField
	Randomness ScalarField
}

// Setup draws two independent generators via the supplied sampler
// (typically RandomGroupElement) and fails if either lands on the
// identity — astronomically unlikely for a uniform sampler, but checked.
func Setup(sample func() (GroupElement, error)) (CommitmentParams, error) {
	g, err := sample()
	if err != nil {
		return CommitmentParams{}, err
	}
	h, err := sample()
	if err != nil {
		return CommitmentParams{}, err
	}
	if g.IsIdentity() || h.IsIdentity() {
		return CommitmentParams{}, ErrSetupIdentity
	}
	return CommitmentParams{G: g, H: h}, nil
}

// CommitWithRandomness deterministically computes C = g*v + h*r.
func (p CommitmentParams) CommitWithRandomness(v, r ScalarField) Commitment {
	return Commitment{Point: p.G.ScalarMul(v).Add(p.H.ScalarMul(r))}
}

// Commit draws fresh randomness via sampleScalar (typically RandomScalar)
// and returns the resulting commitment together with the randomness used.
func (p CommitmentParams) Commit(v ScalarField, sampleScalar func() (ScalarField, error)) (Commitment, ScalarField, error) {
	r, err := sampleScalar()
	if err != nil {
		return Commitment{}, ScalarField{}, err
	}
	return p.CommitWithRandomness(v, r), r, nil
}

// Verify reports whether opening is a valid opening of commitment under p.
func (p CommitmentParams) Verify(commitment Commitment, opening Opening) bool {
	expected := p.CommitWithRandomness(opening.Value, opening.Randomness)
	return commitment.Point.Equal(expected.Point)
}

// Zero returns the commitment to zero under zero randomness: the group
// identity.
func Zero() Commitment {
	return Commitment{Point: GroupZero()}
}

// Add returns the homomorphic sum c + other: a commitment to the sum of
// the underlying values under the sum of the underlying randomness.
func (c Commitment) Add(other Commitment) Commitment {
	return Commitment{Point: c.Point.Add(other.Point)}
}

// Equal reports whether two commitments are to the same group element.
func (c Commitment) Equal(other Commitment) bool {
	return c.Point.Equal(other.Point)
}

package crypto

import "errors"

// ErrInvalidRange is returned by range-bounded aggregation when the bounds
// are out of order or out of bounds.
var ErrInvalidRange = errors.New("crypto: invalid aggregation range")

// AggregateCommitment is a group sum of commitments with a count. The
// count does not affect binding; it exists for sanity checks at call
// sites (e.g. confirming a tree's root aggregates the expected number of
// leaves).
type AggregateCommitment struct {
	Commitment Commitment
	Count      int
}

// EmptyAggregate returns the identity aggregate: zero commitment, zero
// count.
func EmptyAggregate() AggregateCommitment {
	return AggregateCommitment{Commitment: Zero()}
}

// AggregateFromCommitments sums a slice of commitments into a single
// aggregate.
func AggregateFromCommitments(commitments []Commitment) AggregateCommitment {
	sum := Zero()
	for _, c := range commitments {
		sum = sum.Add(c)
	}
	return AggregateCommitment{Commitment: sum, Count: len(commitments)}
}

// Merge combines two aggregates, summing both their commitments and
// counts.
func (a AggregateCommitment) Merge(other AggregateCommitment) AggregateCommitment {
	return AggregateCommitment{Commitment: a.Commitment.Add(other.Commitment), Count: a.Count + other.Count}
}

// Equal reports whether two aggregates commit to the same group element.
// Count is not part of binding and is intentionally ignored here.
func (a AggregateCommitment) Equal(other AggregateCommitment) bool {
	return a.Commitment.Equal(other.Commitment)
}

// CommitmentChain is an ordered, append-only sequence of (value,
// randomness, commitment) triples, each pushed under the same
// CommitmentParams.
type CommitmentChain struct {
	params      CommitmentParams
	commitments []Commitment
	randomness  []ScalarField
	values      []ScalarField
}

// NewCommitmentChain creates an empty chain under the given parameters.
func NewCommitmentChain(params CommitmentParams) *CommitmentChain {
	return &CommitmentChain{params: params}
}

// Push commits to value under fresh randomness drawn from sampleScalar and
// appends the triple to the chain, returning the new commitment.
func (c *CommitmentChain) Push(value ScalarField, sampleScalar func() (ScalarField, error)) (Commitment, error) {
	commitment, r, err := c.params.Commit(value, sampleScalar)
	if err != nil {
		return Commitment{}, err
	}
	c.commitments = append(c.commitments, commitment)
	c.randomness = append(c.randomness, r)
	c.values = append(c.values, value)
	return commitment, nil
}

// Len returns the number of entries pushed so far.
func (c *CommitmentChain) Len() int { return len(c.commitments) }

// Commitments returns the chain's commitments in push order. The returned
// slice must not be mutated by callers.
func (c *CommitmentChain) Commitments() []Commitment { return c.commitments }

// Aggregate sums the full chain.
func (c *CommitmentChain) Aggregate() AggregateCommitment {
	return AggregateFromCommitments(c.commitments)
}

// AggregateRange sums commitments in [lo, hi). Fails with ErrInvalidRange
// if lo > hi or hi > Len().
func (c *CommitmentChain) AggregateRange(lo, hi int) (AggregateCommitment, error) {
	if lo > hi || hi > len(c.commitments) || lo < 0 {
		return AggregateCommitment{}, ErrInvalidRange
	}
	return AggregateFromCommitments(c.commitments[lo:hi]), nil
}

// AggregateValue sums the chain's underlying values in F.
func (c *CommitmentChain) AggregateValue() ScalarField {
	sum := ScalarZero()
	for _, v := range c.values {
		sum = sum.Add(v)
	}
	return sum
}

// AggregateRandomness sums the chain's underlying randomness in F.
func (c *CommitmentChain) AggregateRandomness() ScalarField {
	sum := ScalarZero()
	for _, r := range c.randomness {
		sum = sum.Add(r)
	}
	return sum
}

// VerifyAggregate opens agg with the chain's summed (value, randomness)
// and checks it against the chain's commitment parameters. This is the
// homomorphism invariant: it must hold after any prefix of pushes.
func (c *CommitmentChain) VerifyAggregate(agg AggregateCommitment) bool {
	opening := Opening{Value: c.AggregateValue(), Randomness: c.AggregateRandomness()}
	return c.params.Verify(agg.Commitment, opening)
}

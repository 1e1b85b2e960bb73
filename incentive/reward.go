package incentive

import (
	"errors"

	"github.com/holiman/uint256"
)

// ErrInvalidCalculation is returned when reward arithmetic would
// overflow uint256 or otherwise produce a nonsensical result.
var ErrInvalidCalculation = errors.New("incentive: invalid reward calculation")

// RewardOutcome is the narrower three-way verdict the reward distributor
// splits funds on, distinct from the bisection/resolver's own
// five-variant outcome.
type RewardOutcome int

const (
	RewardChallengerWins RewardOutcome = iota
	RewardProposerWins
	RewardTimeout
)

// DisputeReward is the computed split of one resolved dispute's pool.
type DisputeReward struct {
	ChallengerID     string
	ProposerID       string
	Outcome          RewardOutcome
	ChallengerReward *uint256.Int
	ProposerReward   *uint256.Int
	ProtocolFee      *uint256.Int
}

// RewardDistributor splits a dispute's stake+bond pool between the
// challenger and proposer according to the outcome, net of a protocol
// fee and a simple-interest bonus for a winning challenger.
type RewardDistributor struct {
	protocolFeeBps  *uint256.Int
	interestRateBps *uint256.Int
}

// blocksPerYear folds the basis-point divisor into a 6-blocks-per-hour
// year: 10000 * 365 * 24 * 6.
var blocksPerYear = uint256.NewInt(10000 * 365 * 24 * 6)

// NewRewardDistributor builds a RewardDistributor with the given
// protocol fee and annual interest rate, both in basis points.
func NewRewardDistributor(protocolFeeBps, interestRateBps uint64) *RewardDistributor {
	return &RewardDistributor{
		protocolFeeBps:  uint256.NewInt(protocolFeeBps),
		interestRateBps: uint256.NewInt(interestRateBps),
	}
}

func minU256(a, b *uint256.Int) *uint256.Int {
	if a.Lt(b) {
		return a
	}
	return b
}

// CalculateReward computes the reward split for one resolved dispute.
// All arithmetic is checked for overflow; any overflow or underflow
// fails with ErrInvalidCalculation rather than wrapping.
func (d *RewardDistributor) CalculateReward(
	challengerID, proposerID string,
	outcome RewardOutcome,
	stakeAmount, bondAmount *uint256.Int,
	disputeDurationBlocks uint64,
) (DisputeReward, error) {
	totalPool, overflow := new(uint256.Int).AddOverflow(stakeAmount, bondAmount)
	if overflow {
		return DisputeReward{}, ErrInvalidCalculation
	}

	feeProduct, overflow := new(uint256.Int).MulOverflow(totalPool, d.protocolFeeBps)
	if overflow {
		return DisputeReward{}, ErrInvalidCalculation
	}
	protocolFee := new(uint256.Int).Div(feeProduct, uint256.NewInt(10000))
	if protocolFee.Gt(totalPool) {
		return DisputeReward{}, ErrInvalidCalculation
	}
	remaining := new(uint256.Int).Sub(totalPool, protocolFee)

	interestStep1, overflow := new(uint256.Int).MulOverflow(stakeAmount, d.interestRateBps)
	if overflow {
		return DisputeReward{}, ErrInvalidCalculation
	}
	interestStep2, overflow := new(uint256.Int).MulOverflow(interestStep1, uint256.NewInt(disputeDurationBlocks))
	if overflow {
		return DisputeReward{}, ErrInvalidCalculation
	}
	interest := new(uint256.Int).Div(interestStep2, blocksPerYear)

	var challengerReward, proposerReward *uint256.Int
	switch outcome {
	case RewardChallengerWins:
		sum, overflow := new(uint256.Int).AddOverflow(stakeAmount, interest)
		if overflow {
			return DisputeReward{}, ErrInvalidCalculation
		}
		sum, overflow = new(uint256.Int).AddOverflow(sum, bondAmount)
		if overflow {
			return DisputeReward{}, ErrInvalidCalculation
		}
		challengerReward = minU256(remaining, sum)
		proposerReward = uint256.NewInt(0)
	case RewardProposerWins:
		proposerReward = minU256(remaining, totalPool)
		challengerReward = uint256.NewInt(0)
	case RewardTimeout:
		half := new(uint256.Int).Div(remaining, uint256.NewInt(2))
		challengerReward = half
		proposerReward = new(uint256.Int).Sub(remaining, half)
	default:
		return DisputeReward{}, ErrInvalidCalculation
	}

	return DisputeReward{
		ChallengerID:     challengerID,
		ProposerID:       proposerID,
		Outcome:          outcome,
		ChallengerReward: challengerReward,
		ProposerReward:   proposerReward,
		ProtocolFee:      protocolFee,
	}, nil
}

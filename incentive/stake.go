// Package incentive implements the proposer stake, challenger bond, and
// dispute reward accounting that sits above the bisection/resolver core.
// Every amount is a uint256, mirroring the u128 arithmetic of the system
// this package is modeled on while leaving headroom for overflow
// detection via github.com/holiman/uint256.
package incentive

import (
	"errors"
	"sync"

	"github.com/holiman/uint256"

	"github.com/wienerlabs/archimedes/log"
)

var stakeLogger = log.Default().Module("incentive.stake")

// Stake errors.
var (
	ErrInsufficientStake  = errors.New("incentive: insufficient stake")
	ErrProposerNotFound   = errors.New("incentive: proposer not found")
	ErrStakeAlreadyExists = errors.New("incentive: stake already exists for proposer")
	ErrStakeLocked        = errors.New("incentive: stake is still locked")
)

// StakeInfo records one proposer's posted collateral.
type StakeInfo struct {
	ProposerID      string
	Amount          *uint256.Int
	CommitmentValue *uint256.Int
	LockedUntil     uint64
	Slashed         bool
}

// IsLocked reports whether the stake is still time-locked and unslashed
// as of currentTime.
func (s StakeInfo) IsLocked(currentTime uint64) bool {
	return currentTime < s.LockedUntil && !s.Slashed
}

// StakeManager tracks proposer collateral keyed by proposer id.
// Min stake ratio is expressed in basis points (1/10000 of commitment
// value).
type StakeManager struct {
	mu            sync.RWMutex
	stakes        map[string]*StakeInfo
	minStakeRatio *uint256.Int
}

// NewStakeManager builds a StakeManager with the given minimum stake
// ratio in basis points.
func NewStakeManager(minStakeRatioBps uint64) *StakeManager {
	return &StakeManager{
		stakes:        make(map[string]*StakeInfo),
		minStakeRatio: uint256.NewInt(minStakeRatioBps),
	}
}

// RequiredStake returns commitmentValue * minStakeRatio / 10000.
func (m *StakeManager) RequiredStake(commitmentValue *uint256.Int) *uint256.Int {
	product := new(uint256.Int).Mul(commitmentValue, m.minStakeRatio)
	return new(uint256.Int).Div(product, uint256.NewInt(10000))
}

// Deposit posts amount as proposerID's stake against commitmentValue,
// locked until lockUntil. Fails with ErrStakeAlreadyExists if the
// proposer already has a stake, or ErrInsufficientStake if amount is
// below RequiredStake(commitmentValue).
func (m *StakeManager) Deposit(proposerID string, amount, commitmentValue *uint256.Int, lockUntil uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.stakes[proposerID]; ok {
		return ErrStakeAlreadyExists
	}

	required := m.RequiredStake(commitmentValue)
	if amount.Lt(required) {
		return ErrInsufficientStake
	}

	m.stakes[proposerID] = &StakeInfo{
		ProposerID:      proposerID,
		Amount:          amount,
		CommitmentValue: commitmentValue,
		LockedUntil:     lockUntil,
	}
	return nil
}

// Slash marks proposerID's stake as slashed and returns the slashed
// amount. Idempotent: a second call returns zero.
func (m *StakeManager) Slash(proposerID string) (*uint256.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stake, ok := m.stakes[proposerID]
	if !ok {
		return nil, ErrProposerNotFound
	}
	if stake.Slashed {
		return uint256.NewInt(0), nil
	}
	stake.Slashed = true
	stakeLogger.Warn("stake slashed", "proposer", proposerID, "amount", stake.Amount.String())
	return stake.Amount, nil
}

// Withdraw removes and returns proposerID's stake once it is unlocked.
// Fails with ErrStakeLocked while still time-locked and unslashed;
// returns zero (without error) if the stake was already slashed.
func (m *StakeManager) Withdraw(proposerID string, currentTime uint64) (*uint256.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stake, ok := m.stakes[proposerID]
	if !ok {
		return nil, ErrProposerNotFound
	}
	if stake.IsLocked(currentTime) {
		return nil, ErrStakeLocked
	}
	if stake.Slashed {
		return uint256.NewInt(0), nil
	}

	amount := stake.Amount
	delete(m.stakes, proposerID)
	return amount, nil
}

// GetStake returns proposerID's stake info and whether it exists.
func (m *StakeManager) GetStake(proposerID string) (StakeInfo, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stake, ok := m.stakes[proposerID]
	if !ok {
		return StakeInfo{}, false
	}
	return *stake, true
}

package incentive

import (
	"errors"
	"sync"

	"github.com/holiman/uint256"

	"github.com/wienerlabs/archimedes/log"
)

var bondLogger = log.Default().Module("incentive.bond")

// Bond errors.
var (
	ErrInsufficientBond  = errors.New("incentive: insufficient bond")
	ErrChallengeNotFound = errors.New("incentive: challenge not found")
	ErrBondAlreadyExists = errors.New("incentive: bond already posted for challenge")
)

// ChallengerBond records one challenger's posted collateral for a
// specific dispute.
type ChallengerBond struct {
	ChallengerID string
	ChallengeID  string
	Amount       *uint256.Int
	DisputeDepth uint32
	Forfeited    bool
}

// BondManager tracks challenger collateral keyed by challenge id. The
// required bond scales linearly with dispute depth.
type BondManager struct {
	mu              sync.RWMutex
	bonds           map[string]*ChallengerBond
	baseBond        *uint256.Int
	depthMultiplier *uint256.Int
}

// NewBondManager builds a BondManager with the given base bond and
// per-depth-level multiplier.
func NewBondManager(baseBond, depthMultiplier uint64) *BondManager {
	return &BondManager{
		bonds:           make(map[string]*ChallengerBond),
		baseBond:        uint256.NewInt(baseBond),
		depthMultiplier: uint256.NewInt(depthMultiplier),
	}
}

// RequiredBond returns baseBond + depth*depthMultiplier.
func (m *BondManager) RequiredBond(disputeDepth uint32) *uint256.Int {
	scaled := new(uint256.Int).Mul(uint256.NewInt(uint64(disputeDepth)), m.depthMultiplier)
	return new(uint256.Int).Add(m.baseBond, scaled)
}

// PostBond posts amount as challengerID's bond for challengeID at the
// given dispute depth. Fails with ErrBondAlreadyExists if a bond is
// already posted for this challenge, or ErrInsufficientBond if amount is
// below RequiredBond(disputeDepth).
func (m *BondManager) PostBond(challengerID, challengeID string, amount *uint256.Int, disputeDepth uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.bonds[challengeID]; ok {
		return ErrBondAlreadyExists
	}

	required := m.RequiredBond(disputeDepth)
	if amount.Lt(required) {
		return ErrInsufficientBond
	}

	m.bonds[challengeID] = &ChallengerBond{
		ChallengerID: challengerID,
		ChallengeID:  challengeID,
		Amount:       amount,
		DisputeDepth: disputeDepth,
	}
	return nil
}

// Forfeit marks challengeID's bond as forfeited and returns the
// forfeited amount. Idempotent: a second call returns zero.
func (m *BondManager) Forfeit(challengeID string) (*uint256.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	bond, ok := m.bonds[challengeID]
	if !ok {
		return nil, ErrChallengeNotFound
	}
	if bond.Forfeited {
		return uint256.NewInt(0), nil
	}
	bond.Forfeited = true
	bondLogger.Warn("bond forfeited", "challenger", bond.ChallengerID, "challenge", challengeID, "amount", bond.Amount.String())
	return bond.Amount, nil
}

// ReturnBond removes and returns challengeID's bond. Returns zero
// (without error) if the bond was already forfeited.
func (m *BondManager) ReturnBond(challengeID string) (*uint256.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	bond, ok := m.bonds[challengeID]
	if !ok {
		return nil, ErrChallengeNotFound
	}
	if bond.Forfeited {
		return uint256.NewInt(0), nil
	}

	amount := bond.Amount
	delete(m.bonds, challengeID)
	return amount, nil
}

// GetBond returns challengeID's bond and whether it exists.
func (m *BondManager) GetBond(challengeID string) (ChallengerBond, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bond, ok := m.bonds[challengeID]
	if !ok {
		return ChallengerBond{}, false
	}
	return *bond, true
}

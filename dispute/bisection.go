package dispute

import (
	"math/bits"

	"github.com/wienerlabs/archimedes/crypto"
	"github.com/wienerlabs/archimedes/log"
	"github.com/wienerlabs/archimedes/merkletree"
)

var logger = log.Default().Module("dispute")

// BisectionState is the closed set of states the bisection game can be in.
type BisectionState int

const (
	StateInitial BisectionState = iota
	StateChallenged
	StateBisectLeft
	StateBisectRight
	StateResolve
	StateComplete
)

func (s BisectionState) String() string {
	switch s {
	case StateInitial:
		return "Initial"
	case StateChallenged:
		return "Challenged"
	case StateBisectLeft:
		return "BisectLeft"
	case StateBisectRight:
		return "BisectRight"
	case StateResolve:
		return "Resolve"
	case StateComplete:
		return "Complete"
	default:
		return "Unknown"
	}
}

// Outcome is the terminal verdict of a dispute, spanning both the
// bisection game's own misbehavior verdict (ChallengerWins) and the
// single-step verifier's verdicts.
type Outcome int

const (
	OutcomeChallengerWins Outcome = iota
	OutcomeProposerCorrect
	OutcomeProposerFaulty
	OutcomeInvalidProof
	OutcomeTimeout
)

func (o Outcome) String() string {
	switch o {
	case OutcomeChallengerWins:
		return "ChallengerWins"
	case OutcomeProposerCorrect:
		return "ProposerCorrect"
	case OutcomeProposerFaulty:
		return "ProposerFaulty"
	case OutcomeInvalidProof:
		return "InvalidProof"
	case OutcomeTimeout:
		return "Timeout"
	default:
		return "Unknown"
	}
}

// Challenge opens a dispute over the half-open leaf range [Lo, Hi).
// Timestamp is stamped by the embedder's clock; the protocol itself has
// no clock and never reads it.
type Challenge struct {
	ChallengerID [32]byte
	Lo           int
	Hi           int
	Timestamp    uint64
}

// Response is the proposer's claim at one bisection round: the midpoint
// and the aggregate commitments of each half of the current range.
// Timestamp follows the same embedder-stamped convention as Challenge.
type Response struct {
	ProposerID [32]byte
	Mid        int
	LeftAgg    crypto.AggregateCommitment
	RightAgg   crypto.AggregateCommitment
	Timestamp  uint64
}

// Protocol drives one instance of the interactive bisection game over a
// fixed commitment Merkle tree. It is not safe for concurrent use; each
// dispute owns its own Protocol.
type Protocol struct {
	tree *merkletree.Tree

	state BisectionState
	lo    int
	hi    int

	challenge  Challenge
	challenged bool
	responses  []Response
	rounds     int
	maxRounds  int

	outcome Outcome
}

// NewProtocol starts a fresh bisection game over tree, in StateInitial
// with the current range set to the full leaf span.
func NewProtocol(tree *merkletree.Tree) *Protocol {
	n := tree.LeafCount()
	return &Protocol{
		tree:      tree,
		state:     StateInitial,
		lo:        0,
		hi:        n,
		maxRounds: maxRounds(n),
	}
}

// maxRounds computes ceil(log2(n)) + 1.
func maxRounds(n int) int {
	if n <= 1 {
		return 1
	}
	return bits.Len(uint(n-1)) + 1
}

// MaxRounds returns the round bound for this dispute's leaf count.
func (p *Protocol) MaxRounds() int { return p.maxRounds }

// State returns the protocol's current state.
func (p *Protocol) State() BisectionState { return p.state }

// Range returns the current disputed half-open range.
func (p *Protocol) Range() (lo, hi int) { return p.lo, p.hi }

// IsResolved reports whether the game has reached Resolve or Complete.
func (p *Protocol) IsResolved() bool {
	return p.state == StateResolve || p.state == StateComplete
}

// Outcome returns the terminal outcome, valid only once State() is
// StateComplete.
func (p *Protocol) Outcome() (Outcome, bool) {
	if p.state != StateComplete {
		return 0, false
	}
	return p.outcome, true
}

// Challenge returns the challenge that opened this dispute, valid once
// the protocol has left StateInitial.
func (p *Protocol) Challenge() (Challenge, bool) {
	return p.challenge, p.challenged
}

// Responses returns every recorded response in arrival order. The
// returned slice must not be mutated by callers.
func (p *Protocol) Responses() []Response { return p.responses }

// DisputedIndex returns the single index the game converged on: valid
// only in StateResolve once the range has narrowed to exactly one leaf.
// A respond()-driven resolve can leave the range at width 2, in which
// case no single index exists yet and ErrInvalidState is returned.
func (p *Protocol) DisputedIndex() (int, error) {
	if p.state != StateResolve || p.hi-p.lo != 1 {
		return 0, ErrInvalidState
	}
	return p.lo, nil
}

// InitiateChallenge opens the dispute over c, requiring
// 0 <= c.Lo < c.Hi <= leaf_count and the protocol to be in StateInitial.
func (p *Protocol) InitiateChallenge(c Challenge) error {
	if p.state != StateInitial {
		return ErrInvalidState
	}
	if c.Lo < 0 || c.Lo >= c.Hi || c.Hi > p.tree.LeafCount() {
		return ErrInvalidRange
	}
	p.lo, p.hi = c.Lo, c.Hi
	p.challenge = c
	p.challenged = true
	p.state = StateChallenged
	logger.Info("challenge initiated", "lo", c.Lo, "hi", c.Hi, "max_rounds", p.maxRounds)
	return nil
}

// completeWith transitions the protocol to its terminal state.
func (p *Protocol) completeWith(outcome Outcome) {
	p.state = StateComplete
	p.outcome = outcome
	logger.Info("dispute complete", "outcome", outcome.String(), "rounds", p.rounds)
}

// Respond records the proposer's claim for the current round. If either
// half's claimed aggregate disagrees with the tree's actual range
// aggregate the proposer is caught immediately and the dispute completes
// with ChallengerWins — this is an outcome, not an error. On agreement
// the response is recorded and, once the range has narrowed to width 2
// or less, the protocol moves to StateResolve.
func (p *Protocol) Respond(r Response) error {
	if p.state != StateChallenged && p.state != StateBisectLeft && p.state != StateBisectRight {
		return ErrInvalidState
	}
	if r.Mid <= p.lo || r.Mid >= p.hi {
		return ErrInvalidMidpoint
	}

	actualLeft, err := p.tree.RangeAggregate(p.lo, r.Mid)
	if err != nil {
		return err
	}
	actualRight, err := p.tree.RangeAggregate(r.Mid, p.hi)
	if err != nil {
		return err
	}

	if !actualLeft.Equal(r.LeftAgg) || !actualRight.Equal(r.RightAgg) {
		p.completeWith(OutcomeChallengerWins)
		return nil
	}

	p.responses = append(p.responses, r)
	if p.hi-p.lo <= 2 {
		p.state = StateResolve
	}
	return nil
}

// SelectDirection consumes the most recent response and halves the
// current range toward the chosen side: state follows goLeft alone
// (BisectLeft/BisectRight), except that a range narrowed to width 1 or
// less always moves to StateResolve regardless of direction.
func (p *Protocol) SelectDirection(goLeft bool) error {
	if p.state != StateChallenged && p.state != StateBisectLeft && p.state != StateBisectRight {
		return ErrInvalidState
	}
	if len(p.responses) == 0 {
		return ErrNoResponse
	}

	p.rounds++
	if p.rounds > p.maxRounds {
		return ErrRoundLimitExceeded
	}

	last := p.responses[len(p.responses)-1]
	if goLeft {
		p.hi = last.Mid
	} else {
		p.lo = last.Mid
	}

	width := p.hi - p.lo
	switch {
	case width <= 1:
		p.state = StateResolve
	case goLeft:
		p.state = StateBisectLeft
	default:
		p.state = StateBisectRight
	}
	return nil
}

// CompleteWithTimeout is called by the embedder's own clock; the
// protocol carries no timer of its own.
func (p *Protocol) CompleteWithTimeout() {
	p.completeWith(OutcomeTimeout)
}

// ResolveWithOutcome closes a StateResolve game with the single-step
// verifier's verdict.
func (p *Protocol) ResolveWithOutcome(outcome Outcome) error {
	if p.state != StateResolve {
		return ErrInvalidState
	}
	p.completeWith(outcome)
	return nil
}

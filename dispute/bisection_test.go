package dispute

import (
	"testing"

	"github.com/wienerlabs/archimedes/crypto"
	"github.com/wienerlabs/archimedes/merkletree"
)

func testParams(t *testing.T) crypto.CommitmentParams {
	t.Helper()
	params, err := crypto.Setup(crypto.RandomGroupElement)
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	return params
}

func buildDisputeTree(t *testing.T, n int) *merkletree.Tree {
	t.Helper()
	params := testParams(t)

	commitments := make([]crypto.Commitment, n)
	for i := 0; i < n; i++ {
		c, _, err := params.Commit(crypto.NewScalar(uint64(i+1)), crypto.RandomScalar)
		if err != nil {
			t.Fatalf("commit failed: %v", err)
		}
		commitments[i] = c
	}

	tree, err := merkletree.Build(commitments)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	return tree
}

// honestResponse computes the true range aggregates for [lo, mid) and
// [mid, hi) so tests can play an honest proposer.
func honestResponse(t *testing.T, tree *merkletree.Tree, lo, mid, hi int) Response {
	t.Helper()
	left, err := tree.RangeAggregate(lo, mid)
	if err != nil {
		t.Fatalf("range aggregate failed: %v", err)
	}
	right, err := tree.RangeAggregate(mid, hi)
	if err != nil {
		t.Fatalf("range aggregate failed: %v", err)
	}
	return Response{Mid: mid, LeftAgg: left, RightAgg: right}
}

// TestHonestBisectionViaRespondNeverReachesChallengerWins: an honest
// proposer's responses always match the tree's range aggregates, so the
// game never produces Complete(ChallengerWins).
func TestHonestBisectionViaRespondNeverReachesChallengerWins(t *testing.T) {
	tree := buildDisputeTree(t, 8)
	p := NewProtocol(tree)

	if err := p.InitiateChallenge(Challenge{Lo: 0, Hi: 8}); err != nil {
		t.Fatalf("initiate failed: %v", err)
	}

	lo, hi := p.Range()
	rounds := 0
	for !p.IsResolved() {
		rounds++
		if rounds > p.MaxRounds()+1 {
			t.Fatal("bisection did not converge within the round bound")
		}
		mid := (lo + hi) / 2
		if err := p.Respond(honestResponse(t, tree, lo, mid, hi)); err != nil {
			t.Fatalf("respond failed: %v", err)
		}
		if p.IsResolved() {
			break
		}
		if err := p.SelectDirection(true); err != nil {
			t.Fatalf("select direction failed: %v", err)
		}
		lo, hi = p.Range()
	}

	if outcome, ok := p.Outcome(); ok && outcome == OutcomeChallengerWins {
		t.Fatal("honest proposer should never trigger ChallengerWins")
	}
}

// TestDishonestResponseTriggersChallengerWins covers the respond()-path
// aggregate check: a proposer lying about an aggregate is caught
// immediately and the game completes with ChallengerWins.
func TestDishonestResponseTriggersChallengerWins(t *testing.T) {
	tree := buildDisputeTree(t, 8)
	p := NewProtocol(tree)

	if err := p.InitiateChallenge(Challenge{Lo: 0, Hi: 8}); err != nil {
		t.Fatalf("initiate failed: %v", err)
	}

	lying := honestResponse(t, tree, 0, 4, 8)
	lying.LeftAgg = crypto.EmptyAggregate()

	if err := p.Respond(lying); err != nil {
		t.Fatalf("respond failed: %v", err)
	}

	outcome, ok := p.Outcome()
	if !ok || outcome != OutcomeChallengerWins {
		t.Fatalf("expected Complete(ChallengerWins), got state=%v outcome=%v ok=%v", p.State(), outcome, ok)
	}
}

// TestRespondPathReachesResolveOnNarrowRange exercises the respond()
// convergence path directly: once hi-lo <= 2, a single honest respond
// moves straight to Resolve.
func TestRespondPathReachesResolveOnNarrowRange(t *testing.T) {
	tree := buildDisputeTree(t, 4)
	p := NewProtocol(tree)

	if err := p.InitiateChallenge(Challenge{Lo: 0, Hi: 2}); err != nil {
		t.Fatalf("initiate failed: %v", err)
	}

	if err := p.Respond(honestResponse(t, tree, 0, 1, 2)); err != nil {
		t.Fatalf("respond failed: %v", err)
	}
	if p.State() != StateResolve {
		t.Fatalf("expected StateResolve, got %v", p.State())
	}
}

// TestSelectDirectionPathReachesResolve exercises the select_direction()
// convergence path: repeated halving until width <= 1. Six leaves halve
// to a width-3 range, whose respond() does not resolve, so the final
// select_direction() is what narrows the range to one leaf.
func TestSelectDirectionPathReachesResolve(t *testing.T) {
	tree := buildDisputeTree(t, 6)
	p := NewProtocol(tree)

	if err := p.InitiateChallenge(Challenge{Lo: 0, Hi: 6}); err != nil {
		t.Fatalf("initiate failed: %v", err)
	}

	lo, hi := p.Range()
	for !p.IsResolved() {
		mid := (lo + hi) / 2
		if err := p.Respond(honestResponse(t, tree, lo, mid, hi)); err != nil {
			t.Fatalf("respond failed: %v", err)
		}
		if p.IsResolved() {
			break
		}
		if err := p.SelectDirection(true); err != nil {
			t.Fatalf("select direction failed: %v", err)
		}
		lo, hi = p.Range()
	}

	if p.State() != StateResolve {
		t.Fatalf("expected StateResolve, got %v", p.State())
	}
	if lo, hi := p.Range(); hi-lo != 1 {
		t.Fatalf("expected select_direction to narrow the range to one leaf, got [%d, %d)", lo, hi)
	}
}

// TestSelectDirectionFalseReportsBisectRight exercises goLeft=false: the
// resulting state must follow the caller's direction, not be forced to
// BisectLeft, even when the narrowed width lands on 2.
func TestSelectDirectionFalseReportsBisectRight(t *testing.T) {
	tree := buildDisputeTree(t, 8)
	p := NewProtocol(tree)

	if err := p.InitiateChallenge(Challenge{Lo: 0, Hi: 8}); err != nil {
		t.Fatalf("initiate failed: %v", err)
	}
	if err := p.Respond(honestResponse(t, tree, 0, 4, 8)); err != nil {
		t.Fatalf("respond failed: %v", err)
	}
	if err := p.SelectDirection(false); err != nil {
		t.Fatalf("select direction failed: %v", err)
	}
	if p.State() != StateBisectRight {
		t.Fatalf("expected StateBisectRight, got %v", p.State())
	}
	lo, hi := p.Range()
	if lo != 4 || hi != 8 {
		t.Fatalf("expected range [4, 8), got [%d, %d)", lo, hi)
	}

	if err := p.Respond(honestResponse(t, tree, 4, 6, 8)); err != nil {
		t.Fatalf("respond failed: %v", err)
	}
	if err := p.SelectDirection(false); err != nil {
		t.Fatalf("select direction failed: %v", err)
	}
	if p.State() != StateBisectRight {
		t.Fatalf("expected StateBisectRight at width 2, got %v", p.State())
	}
	lo, hi = p.Range()
	if lo != 6 || hi != 8 {
		t.Fatalf("expected range [6, 8), got [%d, %d)", lo, hi)
	}
}

// TestBisectionTerminatesWithinMaxRounds: the game resolves within
// MaxRounds select-direction calls.
func TestBisectionTerminatesWithinMaxRounds(t *testing.T) {
	tree := buildDisputeTree(t, 16)
	p := NewProtocol(tree)
	if err := p.InitiateChallenge(Challenge{Lo: 0, Hi: 16}); err != nil {
		t.Fatalf("initiate failed: %v", err)
	}

	lo, hi := p.Range()
	selects := 0
	for !p.IsResolved() {
		mid := (lo + hi) / 2
		if err := p.Respond(honestResponse(t, tree, lo, mid, hi)); err != nil {
			t.Fatalf("respond failed: %v", err)
		}
		if p.IsResolved() {
			break
		}
		if err := p.SelectDirection(true); err != nil {
			t.Fatalf("select direction failed: %v", err)
		}
		selects++
		lo, hi = p.Range()
	}

	if selects > p.MaxRounds() {
		t.Fatalf("expected resolution within %d select_direction calls, took %d", p.MaxRounds(), selects)
	}
	if !p.IsResolved() {
		t.Fatal("expected the protocol to be resolved")
	}
}

func TestInitiateChallengeRejectsBadRange(t *testing.T) {
	tree := buildDisputeTree(t, 4)
	p := NewProtocol(tree)
	if err := p.InitiateChallenge(Challenge{Lo: 3, Hi: 2}); err != ErrInvalidRange {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestInitiateChallengeRejectsWrongState(t *testing.T) {
	tree := buildDisputeTree(t, 4)
	p := NewProtocol(tree)
	if err := p.InitiateChallenge(Challenge{Lo: 0, Hi: 2}); err != nil {
		t.Fatalf("initiate failed: %v", err)
	}
	if err := p.InitiateChallenge(Challenge{Lo: 0, Hi: 2}); err != ErrInvalidState {
		t.Fatalf("expected ErrInvalidState on re-initiate, got %v", err)
	}
}

func TestSelectDirectionRequiresResponse(t *testing.T) {
	tree := buildDisputeTree(t, 4)
	p := NewProtocol(tree)
	if err := p.InitiateChallenge(Challenge{Lo: 0, Hi: 4}); err != nil {
		t.Fatalf("initiate failed: %v", err)
	}
	if err := p.SelectDirection(true); err != ErrNoResponse {
		t.Fatalf("expected ErrNoResponse, got %v", err)
	}
}

func TestChallengeAndResponsesAreRecorded(t *testing.T) {
	tree := buildDisputeTree(t, 8)
	p := NewProtocol(tree)

	c := Challenge{ChallengerID: [32]byte{7}, Lo: 0, Hi: 8, Timestamp: 42}
	if err := p.InitiateChallenge(c); err != nil {
		t.Fatalf("initiate failed: %v", err)
	}

	stored, ok := p.Challenge()
	if !ok || stored != c {
		t.Fatalf("expected stored challenge %+v, got %+v ok=%v", c, stored, ok)
	}

	if err := p.Respond(honestResponse(t, tree, 0, 4, 8)); err != nil {
		t.Fatalf("respond failed: %v", err)
	}
	if len(p.Responses()) != 1 || p.Responses()[0].Mid != 4 {
		t.Fatal("expected the response to be recorded in arrival order")
	}
}

func TestDisputedIndexRequiresSingleLeafRange(t *testing.T) {
	tree := buildDisputeTree(t, 8)
	p := NewProtocol(tree)
	if err := p.InitiateChallenge(Challenge{Lo: 0, Hi: 8}); err != nil {
		t.Fatalf("initiate failed: %v", err)
	}

	if _, err := p.DisputedIndex(); err != ErrInvalidState {
		t.Fatalf("expected ErrInvalidState before convergence, got %v", err)
	}

	lo, hi := p.Range()
	for !p.IsResolved() {
		if err := p.Respond(honestResponse(t, tree, lo, (lo+hi)/2, hi)); err != nil {
			t.Fatalf("respond failed: %v", err)
		}
		if p.IsResolved() {
			break
		}
		if err := p.SelectDirection(false); err != nil {
			t.Fatalf("select direction failed: %v", err)
		}
		lo, hi = p.Range()
	}

	lo, hi = p.Range()
	idx, err := p.DisputedIndex()
	switch {
	case hi-lo == 1:
		if err != nil {
			t.Fatalf("expected disputed index at width 1, got error %v", err)
		}
		if idx != lo {
			t.Fatalf("expected disputed index %d, got %d", lo, idx)
		}
	default:
		if err != ErrInvalidState {
			t.Fatalf("expected ErrInvalidState at width %d, got %v", hi-lo, err)
		}
	}
}

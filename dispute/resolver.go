package dispute

import (
	"github.com/holiman/uint256"

	"github.com/wienerlabs/archimedes/crypto"
	"github.com/wienerlabs/archimedes/state"
)

// zeroTxHash is the all-zero sentinel used as the transaction hash when
// the resolver replays a single-step transition. Implementers must
// preserve this exactly to keep test vectors reproducible; see the
// package-level design notes on why this is not derived from the
// disputed transaction itself.
var zeroTxHash [32]byte

// SingleStepProof closes a resolved bisection by exhibiting the one
// disputed transition together with a commitment opening of its
// claimed value.
type SingleStepProof struct {
	Index      int
	PreState   state.AccountState
	PostState  state.AccountState
	Commitment crypto.Commitment
	Opening    crypto.Opening
}

// VerifySingleStep recomputes the disputed transition and checks the
// proof's commitment opening against it, returning ProposerCorrect,
// ProposerFaulty, or InvalidProof.
func VerifySingleStep(params crypto.CommitmentParams, proof SingleStepProof) Outcome {
	if !params.Verify(proof.Commitment, proof.Opening) {
		return OutcomeInvalidProof
	}

	transition := state.StateTransition{
		Pre:    proof.PreState,
		Post:   proof.PostState,
		TxHash: zeroTxHash,
	}
	expected := transition.ToCommitmentValue()

	if !proof.Opening.Value.Equal(expected) {
		return OutcomeProposerFaulty
	}
	return OutcomeProposerCorrect
}

// ExecuteTransition debits value from pre's balance and increments its
// nonce, failing with ErrInsufficientBalance if pre.Balance < value.
func ExecuteTransition(pre state.AccountState, value *uint256.Int) (state.AccountState, error) {
	if pre.Balance.Lt(value) {
		return state.AccountState{}, ErrInsufficientBalance
	}
	post := state.AccountState{
		Balance:     new(uint256.Int).Sub(pre.Balance, value),
		Nonce:       pre.Nonce + 1,
		CodeHash:    pre.CodeHash,
		StorageRoot: pre.StorageRoot,
	}
	return post, nil
}

// VerifyTransition reports whether executing value against pre yields
// exactly post.
func VerifyTransition(pre, post state.AccountState, value *uint256.Int) bool {
	expected, err := ExecuteTransition(pre, value)
	if err != nil {
		return false
	}
	return expected.Balance.Eq(post.Balance) &&
		expected.Nonce == post.Nonce &&
		expected.CodeHash == post.CodeHash &&
		expected.StorageRoot == post.StorageRoot
}

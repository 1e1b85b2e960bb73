package dispute

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/holiman/uint256"

	"github.com/wienerlabs/archimedes/crypto"
	"github.com/wienerlabs/archimedes/state"
)

// detEncMode is the canonical, deterministic CBOR encoding mode, matching
// every other wire record in this module (sorted keys, shortest-form
// integers, definite lengths).
var detEncMode = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

type wireChallenge struct {
	ChallengerID [32]byte
	Lo           int
	Hi           int
	Timestamp    uint64
}

// MarshalChallenge canonically encodes c.
func MarshalChallenge(c Challenge) ([]byte, error) {
	return detEncMode.Marshal(wireChallenge{
		ChallengerID: c.ChallengerID,
		Lo:           c.Lo,
		Hi:           c.Hi,
		Timestamp:    c.Timestamp,
	})
}

// UnmarshalChallenge decodes bytes produced by MarshalChallenge.
func UnmarshalChallenge(data []byte) (Challenge, error) {
	var w wireChallenge
	if err := cbor.Unmarshal(data, &w); err != nil {
		return Challenge{}, err
	}
	return Challenge{ChallengerID: w.ChallengerID, Lo: w.Lo, Hi: w.Hi, Timestamp: w.Timestamp}, nil
}

type wireAggregate struct {
	Point [32]byte
	Count int
}

type wireResponse struct {
	ProposerID [32]byte
	Mid        int
	LeftAgg    wireAggregate
	RightAgg   wireAggregate
	Timestamp  uint64
}

func marshalAggregate(agg crypto.AggregateCommitment) wireAggregate {
	return wireAggregate{Point: agg.Commitment.Point.Compressed(), Count: agg.Count}
}

func unmarshalAggregate(w wireAggregate) (crypto.AggregateCommitment, error) {
	point, err := crypto.DecompressGroupElement(w.Point)
	if err != nil {
		return crypto.AggregateCommitment{}, err
	}
	return crypto.AggregateCommitment{Commitment: crypto.Commitment{Point: point}, Count: w.Count}, nil
}

// MarshalResponse canonically encodes r.
func MarshalResponse(r Response) ([]byte, error) {
	return detEncMode.Marshal(wireResponse{
		ProposerID: r.ProposerID,
		Mid:        r.Mid,
		LeftAgg:    marshalAggregate(r.LeftAgg),
		RightAgg:   marshalAggregate(r.RightAgg),
		Timestamp:  r.Timestamp,
	})
}

// UnmarshalResponse decodes bytes produced by MarshalResponse.
func UnmarshalResponse(data []byte) (Response, error) {
	var w wireResponse
	if err := cbor.Unmarshal(data, &w); err != nil {
		return Response{}, err
	}
	left, err := unmarshalAggregate(w.LeftAgg)
	if err != nil {
		return Response{}, err
	}
	right, err := unmarshalAggregate(w.RightAgg)
	if err != nil {
		return Response{}, err
	}
	return Response{
		ProposerID: w.ProposerID,
		Mid:        w.Mid,
		LeftAgg:    left,
		RightAgg:   right,
		Timestamp:  w.Timestamp,
	}, nil
}

type wireAccountState struct {
	Balance     []byte
	Nonce       uint64
	CodeHash    [32]byte
	StorageRoot [32]byte
}

type wireSingleStepProof struct {
	Index      int
	PreState   wireAccountState
	PostState  wireAccountState
	Commitment [32]byte
	Opening    wireOpening
}

type wireOpening struct {
	Value      [32]byte
	Randomness [32]byte
}

func marshalAccountState(a state.AccountState) wireAccountState {
	balance := a.Balance
	if balance == nil {
		balance = uint256.NewInt(0)
	}
	return wireAccountState{
		Balance:     balance.Bytes(),
		Nonce:       a.Nonce,
		CodeHash:    a.CodeHash,
		StorageRoot: a.StorageRoot,
	}
}

func unmarshalAccountState(w wireAccountState) state.AccountState {
	return state.AccountState{
		Balance:     new(uint256.Int).SetBytes(w.Balance),
		Nonce:       w.Nonce,
		CodeHash:    w.CodeHash,
		StorageRoot: w.StorageRoot,
	}
}

// MarshalSingleStepProof canonically encodes proof.
func MarshalSingleStepProof(proof SingleStepProof) ([]byte, error) {
	return detEncMode.Marshal(wireSingleStepProof{
		Index:      proof.Index,
		PreState:   marshalAccountState(proof.PreState),
		PostState:  marshalAccountState(proof.PostState),
		Commitment: proof.Commitment.Point.Compressed(),
		Opening: wireOpening{
			Value:      proof.Opening.Value.Bytes(),
			Randomness: proof.Opening.Randomness.Bytes(),
		},
	})
}

// UnmarshalSingleStepProof decodes bytes produced by
// MarshalSingleStepProof.
func UnmarshalSingleStepProof(data []byte) (SingleStepProof, error) {
	var w wireSingleStepProof
	if err := cbor.Unmarshal(data, &w); err != nil {
		return SingleStepProof{}, err
	}
	point, err := crypto.DecompressGroupElement(w.Commitment)
	if err != nil {
		return SingleStepProof{}, err
	}
	return SingleStepProof{
		Index:      w.Index,
		PreState:   unmarshalAccountState(w.PreState),
		PostState:  unmarshalAccountState(w.PostState),
		Commitment: crypto.Commitment{Point: point},
		Opening: crypto.Opening{
			Value:      crypto.ScalarFromLEBytesFull(w.Opening.Value),
			Randomness: crypto.ScalarFromLEBytesFull(w.Opening.Randomness),
		},
	}, nil
}

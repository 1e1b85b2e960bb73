package crypto

import "github.com/fxamacker/cbor/v2"

// detEncMode is the canonical, deterministic CBOR encoding mode used for
// every wire-fielded record in this module: sorted map keys, shortest-form
// integers and definite lengths, so that two implementations serializing the
// same logical value always produce identical bytes.
var detEncMode = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// wireScalar and wirePoint are the plain-byte-array shapes CBOR encodes;
// keeping the wire structs free of method-bearing types avoids depending
// on cbor's interface-detection behavior for custom marshalers.
type wireScalar = [32]byte
type wirePoint = [32]byte

type wireCommitmentParams struct {
	G wirePoint
	H wirePoint
}

type wireCommitment struct {
	Point wirePoint
}

type wireOpening struct {
	Value      wireScalar
	Randomness wireScalar
}

// MarshalCommitmentParams canonically encodes p.
func MarshalCommitmentParams(p CommitmentParams) ([]byte, error) {
	return detEncMode.Marshal(wireCommitmentParams{G: p.G.Compressed(), H: p.H.Compressed()})
}

// UnmarshalCommitmentParams decodes bytes produced by
// MarshalCommitmentParams.
func UnmarshalCommitmentParams(data []byte) (CommitmentParams, error) {
	var w wireCommitmentParams
	if err := cbor.Unmarshal(data, &w); err != nil {
		return CommitmentParams{}, err
	}
	g, err := DecompressGroupElement(w.G)
	if err != nil {
		return CommitmentParams{}, err
	}
	h, err := DecompressGroupElement(w.H)
	if err != nil {
		return CommitmentParams{}, err
	}
	return CommitmentParams{G: g, H: h}, nil
}

// MarshalCommitment canonically encodes c.
func MarshalCommitment(c Commitment) ([]byte, error) {
	return detEncMode.Marshal(wireCommitment{Point: c.Point.Compressed()})
}

// UnmarshalCommitment decodes bytes produced by MarshalCommitment.
func UnmarshalCommitment(data []byte) (Commitment, error) {
	var w wireCommitment
	if err := cbor.Unmarshal(data, &w); err != nil {
		return Commitment{}, err
	}
	p, err := DecompressGroupElement(w.Point)
	if err != nil {
		return Commitment{}, err
	}
	return Commitment{Point: p}, nil
}

// MarshalOpening canonically encodes o.
func MarshalOpening(o Opening) ([]byte, error) {
	return detEncMode.Marshal(wireOpening{Value: o.Value.Bytes(), Randomness: o.Randomness.Bytes()})
}

// UnmarshalOpening decodes bytes produced by MarshalOpening.
func UnmarshalOpening(data []byte) (Opening, error) {
	var w wireOpening
	if err := cbor.Unmarshal(data, &w); err != nil {
		return Opening{}, err
	}
	return Opening{
		Value:      ScalarFromLEBytesFull(w.Value),
		Randomness: ScalarFromLEBytesFull(w.Randomness),
	}, nil
}

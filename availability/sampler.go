package availability

import (
	"crypto/sha256"
	"encoding/binary"
)

// SampleProof proves inclusion of one shard's content hash under a
// shard-level Merkle root.
type SampleProof struct {
	ShardIndex int
	ShardHash  [32]byte
	MerklePath [][32]byte
}

// Sampler derives deterministic sample indices from a seed and builds or
// verifies Merkle-path proofs of shard inclusion.
type Sampler struct {
	requiredSamples int
	totalShards     int
}

// NewSampler builds a Sampler requiring requiredSamples distinct indices
// drawn from [0, totalShards).
func NewSampler(requiredSamples, totalShards int) *Sampler {
	return &Sampler{requiredSamples: requiredSamples, totalShards: totalShards}
}

// GenerateSampleIndices deterministically derives requiredSamples
// distinct shard indices from seed: current = SHA-256(seed), then
// repeatedly take be_u32(current[0:4]) mod total_shards, skipping
// duplicates, and rehash current = SHA-256(current).
func (s *Sampler) GenerateSampleIndices(seed []byte) []int {
	indices := make([]int, 0, s.requiredSamples)
	current := sha256.Sum256(seed)

	seen := make(map[int]bool, s.requiredSamples)
	for len(indices) < s.requiredSamples {
		idx := int(binary.BigEndian.Uint32(current[:4])) % s.totalShards
		if !seen[idx] {
			seen[idx] = true
			indices = append(indices, idx)
		}
		current = sha256.Sum256(current[:])
	}
	return indices
}

// CreateProof builds a SampleProof for shard within the full shard set.
func CreateProof(shard Shard, allShards []Shard) SampleProof {
	shardHash := sha256.Sum256(shard.Data)
	return SampleProof{
		ShardIndex: shard.Index,
		ShardHash:  shardHash,
		MerklePath: buildMerklePath(shard.Index, allShards),
	}
}

func buildMerklePath(index int, shards []Shard) [][32]byte {
	hashes := make([][32]byte, len(shards))
	for i, s := range shards {
		hashes[i] = sha256.Sum256(s.Data)
	}

	var path [][32]byte
	level := hashes
	idx := index

	for len(level) > 1 {
		siblingIdx := idx + 1
		if idx%2 != 0 {
			siblingIdx = idx - 1
		}
		if siblingIdx < len(level) {
			path = append(path, level[siblingIdx])
		}

		next := make([][32]byte, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			h := sha256.New()
			h.Write(level[i][:])
			if i+1 < len(level) {
				h.Write(level[i+1][:])
			}
			var sum [32]byte
			copy(sum[:], h.Sum(nil))
			next = append(next, sum)
		}
		level = next
		idx /= 2
	}
	return path
}

// VerifyProof recomputes the shard-level Merkle root from proof and
// reports whether it matches root.
func (s *Sampler) VerifyProof(proof SampleProof, root ContentId) bool {
	current := proof.ShardHash
	idx := proof.ShardIndex

	for _, sibling := range proof.MerklePath {
		h := sha256.New()
		if idx%2 == 0 {
			h.Write(current[:])
			h.Write(sibling[:])
		} else {
			h.Write(sibling[:])
			h.Write(current[:])
		}
		copy(current[:], h.Sum(nil))
		idx /= 2
	}
	return current == [32]byte(root)
}

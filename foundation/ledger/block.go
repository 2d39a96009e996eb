package ledger

import (
	"context"
	"encoding/hex"
	"encoding/json"

	"golang.org/x/crypto/sha3"
)

// GenesisPrevHash is the previous hash value carried by the first block in
// the chain, which has no real predecessor.
const GenesisPrevHash = "0"

// hashZeros supports difficulty checks up to the full width of the digest.
const hashZeros = "0000000000000000000000000000000000000000000000000000000000000000"

// Block represents a group of transactions batched together with the
// cryptographic link to its predecessor. Once appended to a chain a block is
// never mutated.
type Block struct {
	Index         uint64  `json:"index"`
	TimeStamp     float64 `json:"timestamp"`
	Transactions  []Tx    `json:"transactions"`
	PrevBlockHash string  `json:"previous_hash"`
	Nonce         uint64  `json:"nonce"`
	Hash          string  `json:"hash"`
}

// NewBlock constructs a block with a zero nonce and its hash computed from
// the initial fields. This is the starting point for mining.
func NewBlock(index uint64, timeStamp float64, txs []Tx, prevBlockHash string) Block {
	b := Block{
		Index:         index,
		TimeStamp:     timeStamp,
		Transactions:  txs,
		PrevBlockHash: prevBlockHash,
	}
	b.Hash = b.ComputeHash()

	return b
}

// ComputeHash returns the SHA3-256 digest over the canonical serialization of
// the block fields. Marshaling a map gives a fixed field order independent of
// how the block was constructed, so hash equality is a function of content.
func (b Block) ComputeHash() string {
	fields := map[string]any{
		"index":         b.Index,
		"timestamp":     b.TimeStamp,
		"transactions":  b.Transactions,
		"previous_hash": b.PrevBlockHash,
		"nonce":         b.Nonce,
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return hashZeros
	}

	hash := sha3.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// performPOW does the work of mining to find a nonce that produces a hash
// with the required number of leading zero hex characters. The search is
// unbounded, expect on the order of 16^difficulty hash evaluations. The
// context allows a caller to abandon the search.
func (b *Block) performPOW(ctx context.Context, difficulty int, ev EventHandler) error {
	ev("ledger: performPOW: mining: started: block[%d] difficulty[%d]", b.Index, difficulty)
	defer ev("ledger: performPOW: mining: completed: block[%d]", b.Index)

	if ctx.Err() != nil {
		return ctx.Err()
	}

	var attempts uint64
	for !isHashSolved(difficulty, b.Hash) {
		if ctx.Err() != nil {
			ev("ledger: performPOW: mining: CANCELLED: block[%d]", b.Index)
			return ctx.Err()
		}

		attempts++
		if attempts%1_000_000 == 0 {
			ev("ledger: performPOW: mining: attempts[%d]", attempts)
		}

		b.Nonce++
		b.Hash = b.ComputeHash()
	}

	ev("ledger: performPOW: mining: SOLVED: block[%d] nonce[%d] hash[%s]", b.Index, b.Nonce, b.Hash)

	return nil
}

// isHashSolved checks the hash complies with the POW rules. We need to match
// a difficulty number of leading zero hex characters.
func isHashSolved(difficulty int, hash string) bool {
	if difficulty <= 0 {
		return true
	}

	if difficulty > len(hashZeros) || len(hash) != len(hashZeros) {
		return false
	}

	return hash[:difficulty] == hashZeros[:difficulty]
}

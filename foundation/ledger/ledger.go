// Package ledger implements an append-only, tamper-evident ledger of
// transactions secured by a proof-of-work puzzle, with per-account balance
// queries derived from the transaction history.
package ledger

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrMalformedTransaction is returned when a submitted transaction is missing
// one of the required from, to or amount fields.
var ErrMalformedTransaction = errors.New("malformed transaction")

// ErrEmptyChain indicates the chain has no genesis block. This is an internal
// invariant violation and is not reachable through the public API.
var ErrEmptyChain = errors.New("chain has no genesis block")

// =============================================================================

// EventHandler defines a function that is called when events occur in the
// processing of mining blocks.
type EventHandler func(v string, args ...any)

// Config represents the configuration required to construct a ledger.
type Config struct {
	Genesis   Genesis
	EvHandler EventHandler
}

// Ledger manages the chain of blocks and the pool of uncommitted
// transactions. It is a single-writer structure: only one mining operation
// can be in flight at a time.
type Ledger struct {
	genesis   Genesis
	evHandler EventHandler

	chain   []Block
	pending []Tx
	mu      sync.RWMutex

	// mineMu serializes miners so the snapshot/mine/append/reset sequence of
	// one MineBlock call never interleaves with another.
	mineMu sync.Mutex
}

// New constructs a ledger with a freshly mined genesis block.
func New(cfg Config) *Ledger {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	l := Ledger{
		genesis:   cfg.Genesis,
		evHandler: ev,
	}

	// Mine the first block in the chain. There is no predecessor so the
	// previous hash is fixed.
	genesisBlock := NewBlock(0, now(), []Tx{{FieldType: TxTypeGenesis, "message": genesisMessage}}, GenesisPrevHash)
	genesisBlock.performPOW(context.Background(), l.genesis.Difficulty, ev)
	l.chain = append(l.chain, genesisBlock)

	ev("ledger: New: genesis mined: hash[%s]", genesisBlock.Hash)

	return &l
}

// Genesis returns the chain settings the ledger was constructed with.
func (l *Ledger) Genesis() Genesis {
	return l.genesis
}

// SubmitTransaction validates the required fields are present and appends the
// transaction to the pool of uncommitted transactions. On a validation
// failure the pool is left unchanged.
func (l *Ledger) SubmitTransaction(tx Tx) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.pending = append(l.pending, tx.Clone())

	return nil
}

// MineBlock snapshots the pool of uncommitted transactions into a new block,
// performs the proof-of-work search, appends the solved block to the chain
// and reseeds the pool with a single reward transaction for the miner. The
// search runs to completion, use MineBlockContext to make it cancellable.
func (l *Ledger) MineBlock(minerAccount string) (Block, error) {
	return l.MineBlockContext(context.Background(), minerAccount)
}

// MineBlockContext is the cancellable variant of MineBlock. When the context
// is cancelled the search is abandoned and the chain and pool are left
// untouched.
func (l *Ledger) MineBlockContext(ctx context.Context, minerAccount string) (Block, error) {
	l.mineMu.Lock()
	defer l.mineMu.Unlock()

	// Snapshot the pool by value together with the chain tail. Transactions
	// submitted after this point will not affect the in-flight block.
	l.mu.RLock()
	latest := l.chain[len(l.chain)-1]
	index := uint64(len(l.chain))
	txs := make([]Tx, len(l.pending))
	for i, tx := range l.pending {
		txs[i] = tx.Clone()
	}
	l.mu.RUnlock()

	// Search for the nonce outside of any lock so reads stay serviceable
	// while the CPU burns.
	b := NewBlock(index, now(), txs, latest.Hash)
	if err := b.performPOW(ctx, l.genesis.Difficulty, l.evHandler); err != nil {
		return Block{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.chain = append(l.chain, b)

	// Reseed the pool with the reward transaction. This is a replace, not a
	// merge: transactions submitted while the search was running are
	// discarded with the old pool.
	l.pending = []Tx{NewTx(SystemAccount, minerAccount, l.genesis.MiningReward, TxTypeMiningReward)}

	l.evHandler("ledger: MineBlock: block[%d] appended: txs[%d] miner[%s]", b.Index, len(b.Transactions), minerAccount)

	return b, nil
}

// BalanceOf replays every transaction in every block and accumulates the net
// balance for the account: amounts are subtracted when the account is the
// sender and added when it is the receiver. The fold is recomputed from
// scratch on every call.
func (l *Ledger) BalanceOf(account string) float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var balance float64
	for _, b := range l.chain {
		for _, tx := range b.Transactions {
			if from := tx.From(); from != "" && from == account {
				balance -= tx.Amount()
			}
			if to := tx.To(); to != "" && to == account {
				balance += tx.Amount()
			}
		}
	}

	return balance
}

// Validate walks the chain verifying hash recomputation, link integrity and
// proof-of-work for every block after genesis. The genesis block was mined
// locally and is trusted unconditionally.
func (l *Ledger) Validate() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.validateChain()
}

// validateChain performs the three per-block checks, short-circuiting on the
// first failure. Callers must hold at least a read lock.
func (l *Ledger) validateChain() bool {
	for i := 1; i < len(l.chain); i++ {
		b := l.chain[i]
		prev := l.chain[i-1]

		// A stored hash that can't be recomputed from the stored fields means
		// tampering or a stale hash.
		if b.Hash != b.ComputeHash() {
			return false
		}

		// A broken link means reordering or deletion.
		if b.PrevBlockHash != prev.Hash {
			return false
		}

		// A solved hash proves the work was performed.
		if !isHashSolved(l.genesis.Difficulty, b.Hash) {
			return false
		}
	}

	return true
}

// LatestBlock returns the block at the tail of the chain.
func (l *Ledger) LatestBlock() (Block, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.chain) == 0 {
		return Block{}, ErrEmptyChain
	}

	return copyBlock(l.chain[len(l.chain)-1]), nil
}

// Blocks returns a copy of the chain.
func (l *Ledger) Blocks() []Block {
	l.mu.RLock()
	defer l.mu.RUnlock()

	blocks := make([]Block, len(l.chain))
	for i, b := range l.chain {
		blocks[i] = copyBlock(b)
	}

	return blocks
}

// PendingTransactions returns a copy of the pool of uncommitted transactions.
func (l *Ledger) PendingTransactions() []Tx {
	l.mu.RLock()
	defer l.mu.RUnlock()

	txs := make([]Tx, len(l.pending))
	for i, tx := range l.pending {
		txs[i] = tx.Clone()
	}

	return txs
}

// =============================================================================

// LatestBlockInfo is the summary of the chain tail reported by ChainInfo.
type LatestBlockInfo struct {
	Index     uint64  `json:"index"`
	Hash      string  `json:"hash"`
	TimeStamp float64 `json:"timestamp"`
}

// ChainInfo is a read-only snapshot of the state of the ledger.
type ChainInfo struct {
	Length       int             `json:"length"`
	Difficulty   int             `json:"difficulty"`
	IsValid      bool            `json:"is_valid"`
	PendingCount int             `json:"pending_transactions"`
	LatestBlock  LatestBlockInfo `json:"latest_block"`
}

// ChainInfo reports the chain length, difficulty, validity, pool size and a
// summary of the latest block.
func (l *Ledger) ChainInfo() ChainInfo {
	l.mu.RLock()
	defer l.mu.RUnlock()

	latest := l.chain[len(l.chain)-1]

	return ChainInfo{
		Length:       len(l.chain),
		Difficulty:   l.genesis.Difficulty,
		IsValid:      l.validateChain(),
		PendingCount: len(l.pending),
		LatestBlock: LatestBlockInfo{
			Index:     latest.Index,
			Hash:      latest.Hash,
			TimeStamp: latest.TimeStamp,
		},
	}
}

// =============================================================================

// copyBlock clones a block including its transactions so callers can't reach
// into the chain's storage.
func copyBlock(b Block) Block {
	txs := make([]Tx, len(b.Transactions))
	for i, tx := range b.Transactions {
		txs[i] = tx.Clone()
	}
	b.Transactions = txs

	return b
}

// now returns the current wall clock as seconds with sub-second precision.
func now() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}

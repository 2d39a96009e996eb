package ledger_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/scrollsoul/qfs/foundation/ledger"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func newTestLedger(difficulty int) *ledger.Ledger {
	return ledger.New(ledger.Config{
		Genesis: ledger.Genesis{
			Difficulty:   difficulty,
			MiningReward: 100,
		},
	})
}

func Test_FreshLedger(t *testing.T) {
	t.Log("Given the need to validate a freshly constructed ledger.")
	{
		lgr := newTestLedger(1)

		info := lgr.ChainInfo()

		if info.Length != 1 {
			t.Fatalf("\t%s\tShould have chain length 1, got %d.", failed, info.Length)
		}
		t.Logf("\t%s\tShould have chain length 1.", success)

		if !info.IsValid {
			t.Fatalf("\t%s\tShould report a valid chain.", failed)
		}
		t.Logf("\t%s\tShould report a valid chain.", success)

		if info.PendingCount != 0 {
			t.Fatalf("\t%s\tShould have an empty pool, got %d.", failed, info.PendingCount)
		}
		t.Logf("\t%s\tShould have an empty pool.", success)

		latest, err := lgr.LatestBlock()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to retrieve the latest block: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to retrieve the latest block.", success)

		if latest.PrevBlockHash != ledger.GenesisPrevHash {
			t.Fatalf("\t%s\tShould have the genesis previous hash %q, got %q.", failed, ledger.GenesisPrevHash, latest.PrevBlockHash)
		}
		t.Logf("\t%s\tShould have the genesis previous hash.", success)
	}
}

func Test_MineBlock(t *testing.T) {
	t.Log("Given the need to mine a block of submitted transactions at difficulty 2.")
	{
		lgr := newTestLedger(2)

		if err := lgr.SubmitTransaction(ledger.NewTx("alice", "bob", 50, "transfer")); err != nil {
			t.Fatalf("\t%s\tShould be able to submit a transaction: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to submit a transaction.", success)

		block, err := lgr.MineBlock("miner1")
		if err != nil {
			t.Fatalf("\t%s\tShould be able to mine a block: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to mine a block.", success)

		if !strings.HasPrefix(block.Hash, "00") {
			t.Fatalf("\t%s\tShould have a hash starting with %q, got %q.", failed, "00", block.Hash)
		}
		t.Logf("\t%s\tShould have a hash starting with %q.", success, "00")

		if block.Hash != block.ComputeHash() {
			t.Fatalf("\t%s\tShould recompute to the identical stored hash.", failed)
		}
		t.Logf("\t%s\tShould recompute to the identical stored hash.", success)

		if balance := lgr.BalanceOf("alice"); balance != -50 {
			t.Fatalf("\t%s\tShould have balance -50 for alice, got %v.", failed, balance)
		}
		t.Logf("\t%s\tShould have balance -50 for alice.", success)

		if balance := lgr.BalanceOf("bob"); balance != 50 {
			t.Fatalf("\t%s\tShould have balance 50 for bob, got %v.", failed, balance)
		}
		t.Logf("\t%s\tShould have balance 50 for bob.", success)

		// The reward sits in the pool until the next block is mined.
		if balance := lgr.BalanceOf("miner1"); balance != 0 {
			t.Fatalf("\t%s\tShould have balance 0 for miner1, got %v.", failed, balance)
		}
		t.Logf("\t%s\tShould have balance 0 for miner1.", success)

		info := lgr.ChainInfo()
		if info.Length != 2 {
			t.Fatalf("\t%s\tShould have chain length 2, got %d.", failed, info.Length)
		}
		t.Logf("\t%s\tShould have chain length 2.", success)

		if !info.IsValid {
			t.Fatalf("\t%s\tShould report a valid chain.", failed)
		}
		t.Logf("\t%s\tShould report a valid chain.", success)
	}
}

func Test_ChainLinks(t *testing.T) {
	t.Log("Given the need to validate hash linkage across a sequence of mined blocks.")
	{
		lgr := newTestLedger(1)

		for i := 0; i < 3; i++ {
			if _, err := lgr.MineBlock("miner1"); err != nil {
				t.Fatalf("\t%s\tShould be able to mine block %d: %v", failed, i, err)
			}
		}
		t.Logf("\t%s\tShould be able to mine 3 blocks.", success)

		blocks := lgr.Blocks()
		if len(blocks) != 4 {
			t.Fatalf("\t%s\tShould have 4 blocks, got %d.", failed, len(blocks))
		}
		t.Logf("\t%s\tShould have 4 blocks.", success)

		for i := 1; i < len(blocks); i++ {
			if blocks[i].PrevBlockHash != blocks[i-1].Hash {
				t.Fatalf("\t%s\tShould link block %d to the hash of block %d.", failed, i, i-1)
			}
			if blocks[i].Index != uint64(i) {
				t.Fatalf("\t%s\tShould have index %d for block %d, got %d.", failed, i, i, blocks[i].Index)
			}
			if blocks[i].TimeStamp < blocks[i-1].TimeStamp {
				t.Fatalf("\t%s\tShould have non-decreasing timestamps at block %d.", failed, i)
			}
		}
		t.Logf("\t%s\tShould link every block to the hash of its predecessor.", success)
	}
}

func Test_RewardFlow(t *testing.T) {
	t.Log("Given the need to verify the mining reward is committed exactly once.")
	{
		lgr := newTestLedger(1)

		if err := lgr.SubmitTransaction(ledger.NewTx("alice", "bob", 100, "transfer")); err != nil {
			t.Fatalf("\t%s\tShould be able to submit a transaction: %v", failed, err)
		}

		if _, err := lgr.MineBlock("miner1"); err != nil {
			t.Fatalf("\t%s\tShould be able to mine the first block: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to mine the first block.", success)

		if balance := lgr.BalanceOf("alice"); balance != -100 {
			t.Fatalf("\t%s\tShould have balance -100 for alice, got %v.", failed, balance)
		}
		if balance := lgr.BalanceOf("bob"); balance != 100 {
			t.Fatalf("\t%s\tShould have balance 100 for bob, got %v.", failed, balance)
		}
		t.Logf("\t%s\tShould have balances -100/100 for alice/bob.", success)

		// The second mine commits the pending reward transaction.
		block, err := lgr.MineBlock("miner1")
		if err != nil {
			t.Fatalf("\t%s\tShould be able to mine the second block: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to mine the second block.", success)

		if len(block.Transactions) != 1 {
			t.Fatalf("\t%s\tShould have 1 transaction in the second block, got %d.", failed, len(block.Transactions))
		}
		if block.Transactions[0].TxType() != ledger.TxTypeMiningReward {
			t.Fatalf("\t%s\tShould carry the reward transaction, got type %q.", failed, block.Transactions[0].TxType())
		}
		t.Logf("\t%s\tShould carry the reward transaction.", success)

		if balance := lgr.BalanceOf("miner1"); balance != 100 {
			t.Fatalf("\t%s\tShould have balance 100 for miner1, got %v.", failed, balance)
		}
		t.Logf("\t%s\tShould have balance 100 for miner1.", success)

		// The fold has no side effects, a repeat call yields the same value.
		if balance := lgr.BalanceOf("miner1"); balance != 100 {
			t.Fatalf("\t%s\tShould have balance 100 for miner1 on a repeat call, got %v.", failed, balance)
		}
		t.Logf("\t%s\tShould have balance 100 for miner1 on a repeat call.", success)
	}
}

func Test_MalformedTransaction(t *testing.T) {
	t.Log("Given the need to reject transactions missing required fields.")
	{
		lgr := newTestLedger(1)

		txs := []ledger.Tx{
			{"to": "x", "amount": 5.0},
			{"from": "x", "amount": 5.0},
			{"from": "x", "to": "y"},
			{"from": "x", "to": "y", "amount": "not a number"},
		}

		for _, tx := range txs {
			err := lgr.SubmitTransaction(tx)
			if !errors.Is(err, ledger.ErrMalformedTransaction) {
				t.Fatalf("\t%s\tShould reject %v with ErrMalformedTransaction, got %v.", failed, tx, err)
			}
		}
		t.Logf("\t%s\tShould reject transactions missing required fields.", success)

		if pending := lgr.PendingTransactions(); len(pending) != 0 {
			t.Fatalf("\t%s\tShould leave the pool unchanged, got %d transactions.", failed, len(pending))
		}
		t.Logf("\t%s\tShould leave the pool unchanged.", success)

		// Negative amounts are permitted, they model debt semantics.
		if err := lgr.SubmitTransaction(ledger.NewTx("x", "y", -25, "debt_forgiveness")); err != nil {
			t.Fatalf("\t%s\tShould accept a negative amount: %v", failed, err)
		}
		t.Logf("\t%s\tShould accept a negative amount.", success)
	}
}

// Test_DropOnReplace documents the pool reset behavior: a transaction
// submitted while a mining search is running lands in the pool after the
// snapshot was taken and is discarded when the pool is replaced with the
// reward transaction. The event handler fires synchronously at the start of
// the search, which is exactly the window between snapshot and append.
func Test_DropOnReplace(t *testing.T) {
	t.Log("Given the need to verify a transaction submitted during a mine is dropped.")
	{
		var lgr *ledger.Ledger
		var armed bool
		var submitErr error

		ev := func(v string, args ...any) {
			if armed && strings.HasPrefix(v, "ledger: performPOW: mining: started") {
				armed = false
				submitErr = lgr.SubmitTransaction(ledger.NewTx("carol", "dave", 25, "transfer"))
			}
		}

		lgr = ledger.New(ledger.Config{
			Genesis:   ledger.Genesis{Difficulty: 1, MiningReward: 100},
			EvHandler: ev,
		})

		if _, err := lgr.MineBlock("miner1"); err != nil {
			t.Fatalf("\t%s\tShould be able to mine the first block: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to mine the first block.", success)

		armed = true
		block, err := lgr.MineBlock("miner1")
		if err != nil {
			t.Fatalf("\t%s\tShould be able to mine the second block: %v", failed, err)
		}
		if submitErr != nil {
			t.Fatalf("\t%s\tShould be able to submit during the mine: %v", failed, submitErr)
		}
		t.Logf("\t%s\tShould be able to submit during the mine.", success)

		for _, tx := range block.Transactions {
			if tx.From() == "carol" {
				t.Fatalf("\t%s\tShould not include the in-flight transaction in the mined block.", failed)
			}
		}
		t.Logf("\t%s\tShould not include the in-flight transaction in the mined block.", success)

		pending := lgr.PendingTransactions()
		if len(pending) != 1 || pending[0].TxType() != ledger.TxTypeMiningReward {
			t.Fatalf("\t%s\tShould have only the reward transaction in the next pool, got %v.", failed, pending)
		}
		t.Logf("\t%s\tShould have only the reward transaction in the next pool.", success)

		if balance := lgr.BalanceOf("dave"); balance != 0 {
			t.Fatalf("\t%s\tShould have balance 0 for dave, got %v.", failed, balance)
		}
		t.Logf("\t%s\tShould have balance 0 for dave.", success)
	}
}

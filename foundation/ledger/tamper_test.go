package ledger

import "testing"

// These tests reach into the chain's private storage to simulate tampering
// that the public API does not permit.

func Test_TamperedAmount(t *testing.T) {
	t.Log("Given the need to detect a flipped transaction amount.")
	{
		lgr := New(Config{Genesis: Genesis{Difficulty: 1, MiningReward: 100}})

		if err := lgr.SubmitTransaction(NewTx("alice", "bob", 50, "transfer")); err != nil {
			t.Fatalf("\t%s\tShould be able to submit a transaction: %v", failedMark, err)
		}
		if _, err := lgr.MineBlock("miner1"); err != nil {
			t.Fatalf("\t%s\tShould be able to mine a block: %v", failedMark, err)
		}

		if !lgr.Validate() {
			t.Fatalf("\t%s\tShould report a valid chain before tampering.", failedMark)
		}
		t.Logf("\t%s\tShould report a valid chain before tampering.", successMark)

		lgr.chain[1].Transactions[0][FieldAmount] = 5000.0

		if lgr.Validate() {
			t.Fatalf("\t%s\tShould report an invalid chain after the amount flip.", failedMark)
		}
		t.Logf("\t%s\tShould report an invalid chain after the amount flip.", successMark)

		lgr.chain[1].Transactions[0][FieldAmount] = 50.0

		if !lgr.Validate() {
			t.Fatalf("\t%s\tShould report a valid chain after restoring the amount.", failedMark)
		}
		t.Logf("\t%s\tShould report a valid chain after restoring the amount.", successMark)
	}
}

func Test_ForgedHash(t *testing.T) {
	t.Log("Given the need to detect a tampered block whose hash was recomputed without mining.")
	{
		lgr := New(Config{Genesis: Genesis{Difficulty: 2, MiningReward: 100}})

		if _, err := lgr.MineBlock("miner1"); err != nil {
			t.Fatalf("\t%s\tShould be able to mine a block: %v", failedMark, err)
		}

		// Search for a tampered timestamp whose recomputed hash does not
		// satisfy the difficulty, so the forgery is caught by the
		// proof-of-work check rather than the recomputation check.
		b := &lgr.chain[1]
		for {
			b.TimeStamp++
			b.Hash = b.ComputeHash()
			if !isHashSolved(lgr.genesis.Difficulty, b.Hash) {
				break
			}
		}

		if lgr.Validate() {
			t.Fatalf("\t%s\tShould report an invalid chain for an unmined forgery.", failedMark)
		}
		t.Logf("\t%s\tShould report an invalid chain for an unmined forgery.", successMark)
	}
}

func Test_BrokenLink(t *testing.T) {
	t.Log("Given the need to detect a broken link between blocks.")
	{
		lgr := New(Config{Genesis: Genesis{Difficulty: 1, MiningReward: 100}})

		if _, err := lgr.MineBlock("miner1"); err != nil {
			t.Fatalf("\t%s\tShould be able to mine a block: %v", failedMark, err)
		}

		// Rewriting the genesis hash breaks the link carried by block 1
		// without touching block 1 itself.
		lgr.chain[0].Hash = hashZeros

		if lgr.Validate() {
			t.Fatalf("\t%s\tShould report an invalid chain after the link break.", failedMark)
		}
		t.Logf("\t%s\tShould report an invalid chain after the link break.", successMark)
	}
}

// Markers local to the white-box tests so they don't collide with the
// external test package.
const (
	successMark = "✓"
	failedMark  = "✗"
)

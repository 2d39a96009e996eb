package ledger_test

import (
	"testing"

	"github.com/scrollsoul/qfs/foundation/ledger"
)

func Test_ComputeHashCanonical(t *testing.T) {
	t.Log("Given the need to verify hash equality is a function of content, not construction order.")
	{
		tx1 := ledger.Tx{}
		tx1["from"] = "alice"
		tx1["to"] = "bob"
		tx1["amount"] = 50.0
		tx1["memo"] = "lunch"

		tx2 := ledger.Tx{}
		tx2["memo"] = "lunch"
		tx2["amount"] = 50.0
		tx2["to"] = "bob"
		tx2["from"] = "alice"

		b1 := ledger.NewBlock(1, 1700000000.5, []ledger.Tx{tx1}, "abc")
		b2 := ledger.NewBlock(1, 1700000000.5, []ledger.Tx{tx2}, "abc")

		if b1.Hash != b2.Hash {
			t.Fatalf("\t%s\tShould produce identical hashes for logically identical blocks, got %q and %q.", failed, b1.Hash, b2.Hash)
		}
		t.Logf("\t%s\tShould produce identical hashes for logically identical blocks.", success)

		if b1.Hash != b1.ComputeHash() {
			t.Fatalf("\t%s\tShould compute a stable hash on repeat calls.", failed)
		}
		t.Logf("\t%s\tShould compute a stable hash on repeat calls.", success)

		if len(b1.Hash) != 64 {
			t.Fatalf("\t%s\tShould produce a 256-bit hex digest, got length %d.", failed, len(b1.Hash))
		}
		t.Logf("\t%s\tShould produce a 256-bit hex digest.", success)

		if b1.Nonce != 0 {
			t.Fatalf("\t%s\tShould start with a zero nonce, got %d.", failed, b1.Nonce)
		}
		t.Logf("\t%s\tShould start with a zero nonce.", success)
	}
}

func Test_HashChangesWithContent(t *testing.T) {
	t.Log("Given the need to verify any field change produces a different hash.")
	{
		base := ledger.NewBlock(1, 1700000000.5, []ledger.Tx{ledger.NewTx("alice", "bob", 50, "transfer")}, "abc")

		variants := []ledger.Block{
			ledger.NewBlock(2, 1700000000.5, []ledger.Tx{ledger.NewTx("alice", "bob", 50, "transfer")}, "abc"),
			ledger.NewBlock(1, 1700000001.5, []ledger.Tx{ledger.NewTx("alice", "bob", 50, "transfer")}, "abc"),
			ledger.NewBlock(1, 1700000000.5, []ledger.Tx{ledger.NewTx("alice", "bob", 51, "transfer")}, "abc"),
			ledger.NewBlock(1, 1700000000.5, []ledger.Tx{ledger.NewTx("alice", "bob", 50, "transfer")}, "abd"),
		}

		for i, v := range variants {
			if v.Hash == base.Hash {
				t.Fatalf("\t%s\tShould produce a different hash for variant %d.", failed, i)
			}
		}
		t.Logf("\t%s\tShould produce a different hash for every field change.", success)
	}
}

func Test_DifficultyZero(t *testing.T) {
	t.Log("Given the need to verify difficulty 0 accepts immediately.")
	{
		lgr := ledger.New(ledger.Config{
			Genesis: ledger.Genesis{Difficulty: 0, MiningReward: 100},
		})

		block, err := lgr.MineBlock("miner1")
		if err != nil {
			t.Fatalf("\t%s\tShould be able to mine at difficulty 0: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to mine at difficulty 0.", success)

		if block.Nonce != 0 {
			t.Fatalf("\t%s\tShould accept the initial nonce, got %d.", failed, block.Nonce)
		}
		t.Logf("\t%s\tShould accept the initial nonce.", success)

		if !lgr.Validate() {
			t.Fatalf("\t%s\tShould report a valid chain.", failed)
		}
		t.Logf("\t%s\tShould report a valid chain.", success)
	}
}

package ledger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/scrollsoul/qfs/foundation/ledger"
)

func Test_CancelledMine(t *testing.T) {
	t.Log("Given the need to abandon a mining search when the context is cancelled.")
	{
		lgr := ledger.New(ledger.Config{
			Genesis: ledger.Genesis{Difficulty: 1, MiningReward: 100},
		})

		before := lgr.ChainInfo()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := lgr.MineBlockContext(ctx, "miner1"); !errors.Is(err, context.Canceled) {
			t.Fatalf("\t%s\tShould return the context error, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould return the context error.", success)

		after := lgr.ChainInfo()
		if after.Length != before.Length {
			t.Fatalf("\t%s\tShould leave the chain untouched, got length %d.", failed, after.Length)
		}
		t.Logf("\t%s\tShould leave the chain untouched.", success)

		if after.PendingCount != before.PendingCount {
			t.Fatalf("\t%s\tShould leave the pool untouched, got %d pending.", failed, after.PendingCount)
		}
		t.Logf("\t%s\tShould leave the pool untouched.", success)
	}
}

package mempool_test

import (
	"testing"

	"github.com/minichain/ledger/foundation/ledger/database"
	"github.com/minichain/ledger/foundation/ledger/mempool"
	"github.com/minichain/ledger/foundation/ledger/mempool/selector"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func tx(id string, amount uint64, timeStamp uint64) database.Tx {
	return database.Tx{
		ID:        id,
		Sender:    "alice",
		Receiver:  "bob",
		Amount:    amount,
		TimeStamp: timeStamp,
	}
}

func Test_CRUD(t *testing.T) {
	t.Log("Given the need to maintain the pool of pending transactions.")
	{
		mp, err := mempool.New()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct a mempool: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to construct a mempool.", success)

		tx1 := tx("tx1", 50, 1)
		tx2 := tx("tx2", 25, 2)

		mp.Upsert(tx1)
		mp.Upsert(tx2)
		if mp.Count() != 2 {
			t.Fatalf("\t%s\tShould have 2 transactions in the pool, got %d.", failed, mp.Count())
		}
		t.Logf("\t%s\tShould have 2 transactions in the pool.", success)

		mp.Upsert(tx1)
		if mp.Count() != 2 {
			t.Errorf("\t%s\tShould not grow when upserting the same id, got %d.", failed, mp.Count())
		} else {
			t.Logf("\t%s\tShould not grow when upserting the same id.", success)
		}

		mp.Delete(tx1)
		if mp.Count() != 1 {
			t.Errorf("\t%s\tShould have 1 transaction after delete, got %d.", failed, mp.Count())
		} else {
			t.Logf("\t%s\tShould have 1 transaction after delete.", success)
		}

		mp.Truncate()
		if mp.Count() != 0 {
			t.Errorf("\t%s\tShould have an empty pool after truncate, got %d.", failed, mp.Count())
		} else {
			t.Logf("\t%s\tShould have an empty pool after truncate.", success)
		}
	}
}

func Test_PickBestFIFO(t *testing.T) {
	t.Log("Given the need to pick transactions in arrival order.")
	{
		mp, err := mempool.NewWithStrategy(selector.StrategyFIFO)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct a mempool: %v", failed, err)
		}

		mp.Upsert(tx("tx3", 10, 3))
		mp.Upsert(tx("tx1", 50, 1))
		mp.Upsert(tx("tx2", 25, 2))

		picked := mp.PickBest(2)
		if len(picked) != 2 {
			t.Fatalf("\t%s\tShould pick 2 transactions, got %d.", failed, len(picked))
		}
		t.Logf("\t%s\tShould pick 2 transactions.", success)

		if picked[0].ID != "tx1" || picked[1].ID != "tx2" {
			t.Errorf("\t%s\tShould pick the oldest transactions first, got %s, %s.", failed, picked[0].ID, picked[1].ID)
		} else {
			t.Logf("\t%s\tShould pick the oldest transactions first.", success)
		}

		all := mp.PickBest(-1)
		if len(all) != 3 {
			t.Errorf("\t%s\tShould pick the whole pool with -1, got %d.", failed, len(all))
		} else {
			t.Logf("\t%s\tShould pick the whole pool with -1.", success)
		}
	}
}

func Test_PickBestAmount(t *testing.T) {
	t.Log("Given the need to pick the largest transfers first.")
	{
		mp, err := mempool.NewWithStrategy(selector.StrategyAmount)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct a mempool: %v", failed, err)
		}

		mp.Upsert(tx("tx1", 10, 1))
		mp.Upsert(tx("tx2", 99, 2))
		mp.Upsert(tx("tx3", 45, 3))

		picked := mp.PickBest(2)
		if len(picked) != 2 {
			t.Fatalf("\t%s\tShould pick 2 transactions, got %d.", failed, len(picked))
		}
		t.Logf("\t%s\tShould pick 2 transactions.", success)

		if picked[0].ID != "tx2" || picked[1].ID != "tx3" {
			t.Errorf("\t%s\tShould pick the largest amounts first, got %s, %s.", failed, picked[0].ID, picked[1].ID)
		} else {
			t.Logf("\t%s\tShould pick the largest amounts first.", success)
		}
	}
}

func Test_UnknownStrategy(t *testing.T) {
	t.Log("Given the need to reject an unknown select strategy.")
	{
		if _, err := mempool.NewWithStrategy("mystery"); err == nil {
			t.Errorf("\t%s\tShould reject an unknown strategy.", failed)
		} else {
			t.Logf("\t%s\tShould reject an unknown strategy.", success)
		}
	}
}

package state_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/minichain/ledger/foundation/ledger/database"
	"github.com/minichain/ledger/foundation/ledger/database/memory"
	"github.com/minichain/ledger/foundation/ledger/digest"
	"github.com/minichain/ledger/foundation/ledger/genesis"
	"github.com/minichain/ledger/foundation/ledger/mempool/selector"
	"github.com/minichain/ledger/foundation/ledger/state"
	"github.com/minichain/ledger/foundation/ledger/worker"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func noEv(v string, args ...any) {}

func testGenesis() genesis.Genesis {
	return genesis.Genesis{
		Date:            time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		ChainName:       "test-chain",
		Difficulty:      1,
		TransPerBlock:   2,
		MaxMineAttempts: 0,
	}
}

func newState(t *testing.T) *state.State {
	storage, err := memory.New()
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct storage: %v", failed, err)
	}

	st, err := state.New(state.Config{
		Genesis:        testGenesis(),
		Storage:        storage,
		SelectStrategy: selector.StrategyFIFO,
		EvHandler:      noEv,
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the state: %v", failed, err)
	}

	return st
}

// =============================================================================

func Test_GenesisBootstrap(t *testing.T) {
	t.Log("Given the need to start a fresh chain from a genesis block.")
	{
		st := newState(t)
		defer st.Shutdown()

		if st.RetrieveHeight() != 1 {
			t.Fatalf("\t%s\tShould have a height of 1, got %d.", failed, st.RetrieveHeight())
		}
		t.Logf("\t%s\tShould have a height of 1.", success)

		latest := st.RetrieveLatestBlock()
		if latest.Header.Number != 0 {
			t.Errorf("\t%s\tShould have block number 0 at the tip, got %d.", failed, latest.Header.Number)
		} else {
			t.Logf("\t%s\tShould have block number 0 at the tip.", success)
		}

		if latest.Header.PrevBlockHash != digest.ZeroHash {
			t.Errorf("\t%s\tShould link genesis to the zero hash sentinel.", failed)
		} else {
			t.Logf("\t%s\tShould link genesis to the zero hash sentinel.", success)
		}

		if latest.Header.TransRoot != digest.ZeroHash {
			t.Errorf("\t%s\tShould carry the empty merkle root sentinel.", failed)
		} else {
			t.Logf("\t%s\tShould carry the empty merkle root sentinel.", success)
		}

		valid, err := st.IsChainValid()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to validate the chain: %v", failed, err)
		}
		if !valid {
			t.Errorf("\t%s\tShould have a valid single block chain.", failed)
		} else {
			t.Logf("\t%s\tShould have a valid single block chain.", success)
		}
	}
}

func Test_AddBlockScenario(t *testing.T) {
	t.Log("Given the need to append a block and detect tampering afterwards.")
	{
		st := newState(t)
		defer st.Shutdown()

		genesisHash := st.RetrieveLatestBlock().Hash()

		block, err := st.AddBlock(context.Background(), []database.Tx{database.NewTx("Alice", "Bob", 50)})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to add a block: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to add a block.", success)

		if st.RetrieveHeight() != 2 {
			t.Fatalf("\t%s\tShould have a height of 2, got %d.", failed, st.RetrieveHeight())
		}
		t.Logf("\t%s\tShould have a height of 2.", success)

		if block.Header.PrevBlockHash != genesisHash {
			t.Errorf("\t%s\tShould link the new block to the genesis hash.", failed)
		} else {
			t.Logf("\t%s\tShould link the new block to the genesis hash.", success)
		}

		valid, err := st.IsChainValid()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to validate the chain: %v", failed, err)
		}
		if !valid {
			t.Fatalf("\t%s\tShould have a valid chain after the append.", failed)
		}
		t.Logf("\t%s\tShould have a valid chain after the append.", success)

		// Reach into the stored chain and mutate a transaction amount. The
		// transaction slice backing array is shared with the storage.
		blocks, err := st.RetrieveBlocks()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to read the chain: %v", failed, err)
		}
		blocks[1].Trans[0].Amount = 1_000_000

		valid, err = st.IsChainValid()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to validate the chain: %v", failed, err)
		}
		if valid {
			t.Errorf("\t%s\tShould detect the tampered transaction.", failed)
		} else {
			t.Logf("\t%s\tShould detect the tampered transaction.", success)
		}

		infractions, err := st.ValidateChain()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to produce a validation report: %v", failed, err)
		}
		if len(infractions) != 1 || infractions[0].Number != 1 || infractions[0].Check != database.CheckTransRoot {
			t.Errorf("\t%s\tShould report a trans_root infraction on block 1, got %+v.", failed, infractions)
		} else {
			t.Logf("\t%s\tShould report a trans_root infraction on block 1.", success)
		}
	}
}

func Test_GrowingChainStaysValid(t *testing.T) {
	t.Log("Given the need to keep the chain valid for any number of appends.")
	{
		st := newState(t)
		defer st.Shutdown()

		for i := 0; i < 5; i++ {
			if _, err := st.AddBlock(context.Background(), []database.Tx{database.NewTx("Alice", "Bob", uint64(i+1))}); err != nil {
				t.Fatalf("\t%s\tShould be able to add block %d: %v", failed, i+1, err)
			}

			valid, err := st.IsChainValid()
			if err != nil {
				t.Fatalf("\t%s\tShould be able to validate the chain: %v", failed, err)
			}
			if !valid {
				t.Fatalf("\t%s\tShould have a valid chain at height %d.", failed, st.RetrieveHeight())
			}
		}
		t.Logf("\t%s\tShould have a valid chain through 5 appends.", success)

		trans, err := st.RetrieveAllTransactions()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to read all transactions: %v", failed, err)
		}
		if len(trans) != 5 {
			t.Errorf("\t%s\tShould have 5 recorded transactions, got %d.", failed, len(trans))
		} else {
			t.Logf("\t%s\tShould have 5 recorded transactions.", success)
		}
	}
}

func Test_SubmitAndMine(t *testing.T) {
	t.Log("Given the need to pool transactions and mine them in batches.")
	{
		st := newState(t)
		defer st.Shutdown()

		if err := st.SubmitTransaction(database.NewTx("", "Bob", 50)); !errors.Is(err, database.ErrEmptySender) {
			t.Errorf("\t%s\tShould reject a transaction without a sender, got %v.", failed, err)
		} else {
			t.Logf("\t%s\tShould reject a transaction without a sender.", success)
		}

		for i := 0; i < 3; i++ {
			if err := st.SubmitTransaction(database.NewTx("Alice", "Bob", uint64(10+i))); err != nil {
				t.Fatalf("\t%s\tShould be able to submit a transaction: %v", failed, err)
			}
		}
		t.Logf("\t%s\tShould be able to submit 3 transactions.", success)

		if st.QueryMempoolLength() != 3 {
			t.Fatalf("\t%s\tShould have 3 pending transactions, got %d.", failed, st.QueryMempoolLength())
		}

		// TransPerBlock is 2, so one mining pass leaves one behind.
		block, err := st.MineNextBlock(context.Background())
		if err != nil {
			t.Fatalf("\t%s\tShould be able to mine the next block: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to mine the next block.", success)

		if len(block.Trans.Values()) != 2 {
			t.Errorf("\t%s\tShould have 2 transactions in the block, got %d.", failed, len(block.Trans.Values()))
		} else {
			t.Logf("\t%s\tShould have 2 transactions in the block.", success)
		}

		if st.QueryMempoolLength() != 1 {
			t.Errorf("\t%s\tShould have 1 pending transaction left, got %d.", failed, st.QueryMempoolLength())
		} else {
			t.Logf("\t%s\tShould have 1 pending transaction left.", success)
		}

		if _, err := st.MineNextBlock(context.Background()); err != nil {
			t.Fatalf("\t%s\tShould be able to mine the remaining transaction: %v", failed, err)
		}

		if _, err := st.MineNextBlock(context.Background()); !errors.Is(err, state.ErrNoTransactions) {
			t.Errorf("\t%s\tShould refuse to mine an empty mempool, got %v.", failed, err)
		} else {
			t.Logf("\t%s\tShould refuse to mine an empty mempool.", success)
		}
	}
}

func Test_BackgroundMining(t *testing.T) {
	t.Log("Given the need to mine submitted transactions in the background.")
	{
		st := newState(t)

		worker.Run(st, noEv)
		defer st.Shutdown()

		if err := st.SubmitTransaction(database.NewTx("Alice", "Bob", 50)); err != nil {
			t.Fatalf("\t%s\tShould be able to submit a transaction: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to submit a transaction.", success)

		deadline := time.Now().Add(10 * time.Second)
		for st.RetrieveHeight() < 2 {
			if time.Now().After(deadline) {
				t.Fatalf("\t%s\tShould mine a block in the background before the deadline.", failed)
			}
			time.Sleep(10 * time.Millisecond)
		}
		t.Logf("\t%s\tShould mine a block in the background.", success)

		valid, err := st.IsChainValid()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to validate the chain: %v", failed, err)
		}
		if !valid {
			t.Errorf("\t%s\tShould have a valid chain after background mining.", failed)
		} else {
			t.Logf("\t%s\tShould have a valid chain after background mining.", success)
		}
	}
}

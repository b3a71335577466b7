package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/minichain/ledger/foundation/ledger/database"
	"github.com/minichain/ledger/foundation/ledger/database/memory"
	"github.com/minichain/ledger/foundation/ledger/digest"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// noEv silences the event handler in tests.
func noEv(v string, args ...any) {}

// tx constructs a fixed transaction so hashing stays deterministic
// across the test run.
func tx(id string, sender string, receiver string, amount uint64) database.Tx {
	return database.Tx{
		ID:        id,
		Sender:    sender,
		Receiver:  receiver,
		Amount:    amount,
		TimeStamp: 1_700_000_000,
	}
}

// buildChain mines a genesis block plus one block per transaction set and
// writes them all to the specified storage.
func buildChain(t *testing.T, storage database.Storage, difficulty uint, txSets [][]database.Tx) *database.Database {
	db, err := database.New(storage, noEv)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to open the database: %v", failed, err)
	}

	genesis, err := database.Genesis(context.Background(), difficulty, 0, noEv)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to mine the genesis block: %v", failed, err)
	}
	if err := db.Write(genesis); err != nil {
		t.Fatalf("\t%s\tShould be able to write the genesis block: %v", failed, err)
	}

	for _, trans := range txSets {
		block, err := database.POW(context.Background(), difficulty, 0, db.LatestBlock(), trans, noEv)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to mine a block: %v", failed, err)
		}
		if err := block.ValidateBlock(db.LatestBlock(), noEv); err != nil {
			t.Fatalf("\t%s\tShould be able to validate the mined block: %v", failed, err)
		}
		if err := db.Write(block); err != nil {
			t.Fatalf("\t%s\tShould be able to write the block: %v", failed, err)
		}
	}

	return db
}

// =============================================================================

func Test_TxValidate(t *testing.T) {
	t.Log("Given the need to report specific transaction rejection reasons.")
	{
		tt := []struct {
			name string
			tx   database.Tx
			exp  error
		}{
			{name: "good", tx: tx("tx1", "alice", "bob", 50), exp: nil},
			{name: "self", tx: tx("tx2", "alice", "alice", 50), exp: nil},
			{name: "nosender", tx: tx("tx3", "", "bob", 50), exp: database.ErrEmptySender},
			{name: "noreceiver", tx: tx("tx4", "alice", "", 50), exp: database.ErrEmptyReceiver},
			{name: "zero", tx: tx("tx5", "alice", "bob", 0), exp: database.ErrZeroAmount},
		}

		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling the %s transaction.", testID, tst.name)
			{
				err := tst.tx.Validate()
				if !errors.Is(err, tst.exp) {
					t.Errorf("\t%s\tTest %d:\tShould get the expected validation result, got %v, exp %v.", failed, testID, err, tst.exp)
				} else {
					t.Logf("\t%s\tTest %d:\tShould get the expected validation result.", success, testID)
				}
			}
		}
	}
}

func Test_BlockHashDeterminism(t *testing.T) {
	t.Log("Given the need to validate block hashing is deterministic.")
	{
		trans := []database.Tx{tx("tx1", "alice", "bob", 50), tx("tx2", "bob", "carol", 25)}

		block, err := database.POW(context.Background(), 0, 0, mustGenesis(t), trans, noEv)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to mine a block: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to mine a block.", success)

		if block.Hash() != block.Hash() {
			t.Errorf("\t%s\tShould get the same hash twice without mutation.", failed)
		} else {
			t.Logf("\t%s\tShould get the same hash twice without mutation.", success)
		}

		if !digest.Verify(block.Header, block.Hash()) {
			t.Errorf("\t%s\tShould verify the header against its own hash.", failed)
		} else {
			t.Logf("\t%s\tShould verify the header against its own hash.", success)
		}
	}
}

func Test_TransactionTamperChangesRoot(t *testing.T) {
	t.Log("Given the need to detect a single transaction mutation in a block.")
	{
		trans := []database.Tx{tx("tx1", "alice", "bob", 50), tx("tx2", "bob", "carol", 25)}

		block, err := database.POW(context.Background(), 0, 0, mustGenesis(t), trans, noEv)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to mine a block: %v", failed, err)
		}

		blockData := database.NewBlockData(block)
		blockData.Trans[0].Amount++

		tampered, err := database.ToBlock(blockData)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to rebuild the block: %v", failed, err)
		}

		if tampered.Trans.RootHex() == block.Header.TransRoot {
			t.Errorf("\t%s\tShould compute a different merkle root after the mutation.", failed)
		} else {
			t.Logf("\t%s\tShould compute a different merkle root after the mutation.", success)
		}

		tampered.Header.TransRoot = tampered.Trans.RootHex()
		if tampered.Hash() == block.Hash() {
			t.Errorf("\t%s\tShould compute a different block hash after the mutation.", failed)
		} else {
			t.Logf("\t%s\tShould compute a different block hash after the mutation.", success)
		}
	}
}

func Test_ValidateCleanChain(t *testing.T) {
	t.Log("Given the need to validate an unmodified chain of appended blocks.")
	{
		storage, err := memory.New()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct storage: %v", failed, err)
		}

		txSets := [][]database.Tx{
			{tx("tx1", "alice", "bob", 50)},
			{tx("tx2", "bob", "carol", 25), tx("tx3", "carol", "alice", 10)},
			{tx("tx4", "alice", "carol", 5)},
		}

		db := buildChain(t, storage, 1, txSets)

		infractions, err := db.ValidateChain()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to validate the chain: %v", failed, err)
		}

		if len(infractions) != 0 {
			t.Errorf("\t%s\tShould have no infractions on a clean chain, got %+v.", failed, infractions)
		} else {
			t.Logf("\t%s\tShould have no infractions on a clean chain.", success)
		}

		if db.Height() != 4 {
			t.Errorf("\t%s\tShould have a height of 4, got %d.", failed, db.Height())
		} else {
			t.Logf("\t%s\tShould have a height of 4.", success)
		}
	}
}

func Test_TamperedTransactionFailsValidation(t *testing.T) {
	t.Log("Given the need to detect a tampered transaction inside the chain.")
	{
		storage, err := memory.New()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct storage: %v", failed, err)
		}

		db := buildChain(t, storage, 1, [][]database.Tx{
			{tx("tx1", "alice", "bob", 50)},
			{tx("tx2", "bob", "carol", 25)},
		})

		// Reach into the stored block and change an amount. The slice
		// backing array is shared with the storage.
		blockData, err := storage.GetBlock(1)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to read block 1: %v", failed, err)
		}
		blockData.Trans[0].Amount = 9_999

		infractions, err := db.ValidateChain()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to validate the chain: %v", failed, err)
		}

		if len(infractions) != 1 {
			t.Fatalf("\t%s\tShould have exactly one infraction, got %+v.", failed, infractions)
		}
		t.Logf("\t%s\tShould have exactly one infraction.", success)

		if infractions[0].Number != 1 || infractions[0].Check != database.CheckTransRoot {
			t.Errorf("\t%s\tShould report a trans_root infraction on block 1, got %+v.", failed, infractions[0])
		} else {
			t.Logf("\t%s\tShould report a trans_root infraction on block 1.", success)
		}
	}
}

func Test_BrokenLinkFailsValidation(t *testing.T) {
	t.Log("Given the need to detect block substitution through a broken link.")
	{
		storage, err := memory.New()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct storage: %v", failed, err)
		}

		db := buildChain(t, storage, 0, [][]database.Tx{
			{tx("tx1", "alice", "bob", 50)},
			{tx("tx2", "bob", "carol", 25)},
		})

		// Rebuild the chain in a second storage with block 1 detached from
		// its parent.
		blocks, err := db.AllBlocks()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to read the chain: %v", failed, err)
		}

		tampered, err := memory.New()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct storage: %v", failed, err)
		}

		blocks[1].Header.PrevBlockHash = digest.ZeroHash
		for _, blockData := range blocks {
			if err := tampered.Write(blockData); err != nil {
				t.Fatalf("\t%s\tShould be able to write the tampered chain: %v", failed, err)
			}
		}

		db2, err := database.New(tampered, noEv)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to open the tampered database: %v", failed, err)
		}

		infractions, err := db2.ValidateChain()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to validate the chain: %v", failed, err)
		}

		var foundLink, foundHash bool
		for _, inf := range infractions {
			if inf.Number == 1 && inf.Check == database.CheckLink {
				foundLink = true
			}
			if inf.Number == 1 && inf.Check == database.CheckHash {
				foundHash = true
			}
		}

		if !foundLink {
			t.Errorf("\t%s\tShould report a link infraction on block 1, got %+v.", failed, infractions)
		} else {
			t.Logf("\t%s\tShould report a link infraction on block 1.", success)
		}

		if !foundHash {
			t.Errorf("\t%s\tShould report a hash infraction on block 1, got %+v.", failed, infractions)
		} else {
			t.Logf("\t%s\tShould report a hash infraction on block 1.", success)
		}
	}
}

func Test_MiningBounds(t *testing.T) {
	t.Log("Given the need to bound the nonce search.")
	{
		trans := []database.Tx{tx("tx1", "alice", "bob", 50)}

		if _, err := database.POW(context.Background(), 16, 10, mustGenesis(t), trans, noEv); !errors.Is(err, database.ErrNoSolution) {
			t.Errorf("\t%s\tShould give up when the attempt bound is reached, got %v.", failed, err)
		} else {
			t.Logf("\t%s\tShould give up when the attempt bound is reached.", success)
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := database.POW(ctx, 16, 0, mustGenesis(t), trans, noEv); !errors.Is(err, context.Canceled) {
			t.Errorf("\t%s\tShould stop when the context is cancelled, got %v.", failed, err)
		} else {
			t.Logf("\t%s\tShould stop when the context is cancelled.", success)
		}
	}
}

func Test_DifficultyPrefix(t *testing.T) {
	t.Log("Given the need to validate a mined hash carries the zero prefix.")
	{
		trans := []database.Tx{tx("tx1", "alice", "bob", 50)}

		block, err := database.POW(context.Background(), 2, 0, mustGenesis(t), trans, noEv)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to mine at difficulty 2: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to mine at difficulty 2.", success)

		hash := block.Hash()
		if hash[2:4] != "00" {
			t.Errorf("\t%s\tShould have two leading zero characters, got %s.", failed, hash[:8])
		} else {
			t.Logf("\t%s\tShould have two leading zero characters.", success)
		}
	}
}

// =============================================================================

// mustGenesis mines a throwaway genesis block for block construction tests.
func mustGenesis(t *testing.T) database.Block {
	genesis, err := database.Genesis(context.Background(), 0, 0, noEv)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to mine the genesis block: %v", failed, err)
	}
	return genesis
}

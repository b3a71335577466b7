// Package state is the core API for the ledger and implements all the
// business rules and processing.
package state

import (
	"context"
	"sync"

	"github.com/minichain/ledger/foundation/ledger/database"
	"github.com/minichain/ledger/foundation/ledger/genesis"
	"github.com/minichain/ledger/foundation/ledger/mempool"
)

// EventHandler defines a function that is called when events occur in the
// processing of blocks.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by
// any package providing support for background mining.
type Worker interface {
	Shutdown()
	SignalStartMining()
	SignalCancelMining()
}

// =============================================================================

// Config represents the configuration required to start the ledger.
type Config struct {
	Genesis        genesis.Genesis
	Storage        database.Storage
	SelectStrategy string
	EvHandler      EventHandler
}

// State manages the ledger. Each State value is independent, there is no
// process wide instance.
type State struct {
	mu sync.Mutex

	genesis   genesis.Genesis
	evHandler EventHandler

	mempool *mempool.Mempool
	db      *database.Database

	Worker Worker
}

// New constructs a new ledger state for data management. When the
// underlying storage is empty the genesis block is mined and written
// first, so a fresh chain always has a height of one.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	db, err := database.New(cfg.Storage, ev)
	if err != nil {
		return nil, err
	}

	mempool, err := mempool.NewWithStrategy(cfg.SelectStrategy)
	if err != nil {
		return nil, err
	}

	state := State{
		genesis:   cfg.Genesis,
		evHandler: ev,
		mempool:   mempool,
		db:        db,
	}

	if db.Height() == 0 {
		ev("state: New: mining genesis block")

		block, err := database.Genesis(context.Background(), cfg.Genesis.Difficulty, cfg.Genesis.MaxMineAttempts, ev)
		if err != nil {
			return nil, err
		}

		if err := db.Write(block); err != nil {
			return nil, err
		}
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start the background mining support.

	return &state, nil
}

// Shutdown cleanly brings the ledger down.
func (s *State) Shutdown() error {

	// Make sure the database is properly closed.
	defer func() {
		s.db.Close()
	}()

	// Stop all block writing activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}

// Package state is the core API for the ledger and implements all the
// business rules and processing. Every exported method acquires the state
// lock for its full duration, which makes State the single exclusive access
// boundary around the chain and the mempool.
package state

import (
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/mempool"
)

// EventHandler defines a function that is called when events
// occur in the processing of the ledger.
type EventHandler func(v string, args ...any)

// =============================================================================

// Config represents the configuration required to start the ledger.
type Config struct {
	Genesis   genesis.Genesis
	EvHandler EventHandler
}

// State manages the ledger.
type State struct {
	mu sync.Mutex

	evHandler EventHandler
	genesis   genesis.Genesis
	db        *database.Database
	mempool   *mempool.Mempool
}

// New constructs a new ledger holding a freshly mined genesis block.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if err := cfg.Genesis.Validate(); err != nil {
		return nil, err
	}

	// Mine the genesis block. This is the single initial state of the chain.
	db := database.New(uint(cfg.Genesis.Difficulty), ev)

	state := State{
		evHandler: ev,
		genesis:   cfg.Genesis,
		db:        db,
		mempool:   mempool.New(),
	}

	return &state, nil
}

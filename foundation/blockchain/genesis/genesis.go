// Package genesis maintains access to the genesis parameters of the ledger.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ardanlabs/ledger/foundation/validate"
)

// Default values used when no genesis file is provided.
const (
	DefaultDifficulty   = 2
	DefaultMiningReward = 100
)

// Genesis represents the genesis file.
type Genesis struct {
	Date         time.Time `json:"date"`
	Difficulty   uint16    `json:"difficulty" validate:"lte=64"`  // How difficult it needs to be to solve the work problem.
	MiningReward uint64    `json:"mining_reward" validate:"gt=0"` // Reward for mining a block.
}

// =============================================================================

// Default returns the genesis parameters used when none are configured.
func Default() Genesis {
	return Genesis{
		Date:         time.Now().UTC(),
		Difficulty:   DefaultDifficulty,
		MiningReward: DefaultMiningReward,
	}
}

// Load opens and consumes the genesis file. An empty path returns the default
// genesis parameters.
func Load(path string) (Genesis, error) {
	if path == "" {
		return Default(), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("decoding genesis: %w", err)
	}

	if err := genesis.Validate(); err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}

// Validate checks the genesis parameters are usable.
func (g Genesis) Validate() error {
	if err := validate.Check(g); err != nil {
		return fmt.Errorf("validating genesis: %w", err)
	}

	return nil
}

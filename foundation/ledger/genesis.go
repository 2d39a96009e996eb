package ledger

import (
	"encoding/json"
	"fmt"
	"os"
)

// genesisMessage is the marker carried by the single transaction inside the
// genesis block.
const genesisMessage = "ScrollSoul Sovereign Treasury Genesis"

// Genesis represents the chain settings fixed at construction time.
type Genesis struct {
	Difficulty   int     `json:"difficulty"`    // Number of leading zero hex characters required of a block hash.
	MiningReward float64 `json:"mining_reward"` // Reward credited to the miner after each mined block.
}

// DefaultGenesis returns the chain settings used when no genesis file is
// provided.
func DefaultGenesis() Genesis {
	return Genesis{
		Difficulty:   4,
		MiningReward: 100,
	}
}

// LoadGenesis opens and consumes a genesis file.
func LoadGenesis(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, fmt.Errorf("reading genesis file: %w", err)
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("parsing genesis file: %w", err)
	}

	if genesis.Difficulty < 0 {
		return Genesis{}, fmt.Errorf("genesis difficulty can't be negative, got %d", genesis.Difficulty)
	}

	return genesis, nil
}

// Package distribute implements the treasury's wealth distribution
// strategies. A distribution produces an allocation per account which can be
// converted into a batch of ledger transactions for submission.
package distribute

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/scrollsoul/qfs/foundation/ledger"
)

// Set of supported distribution strategies.
const (
	StrategyEqual        = "equal"
	StrategyProportional = "proportional"
	StrategyNeedBased    = "need_based"
	StrategyHybrid       = "hybrid"
	StrategyAbundance    = "galactic_abundance"
)

var (
	// ErrNoParticipants is returned when a distribution is requested with an
	// empty participant set.
	ErrNoParticipants = errors.New("no participants provided for distribution")

	// ErrInvalidAmount is returned when the total amount is not positive.
	ErrInvalidAmount = errors.New("total amount must be positive")
)

// Participant represents an account taking part in a distribution.
type Participant struct {
	Account           string  `json:"account"`
	Stake             float64 `json:"stake"`
	NeedScore         float64 `json:"need_score"`
	ContributionScore float64 `json:"contribution_score"`
}

// Record captures one completed distribution.
type Record struct {
	TotalAmount  float64            `json:"total_amount"`
	Allocation   map[string]float64 `json:"allocation"`
	Strategy     string             `json:"strategy"`
	Participants int                `json:"participants_count"`
	Date         time.Time          `json:"date"`
}

// Stats summarizes the distribution history.
type Stats struct {
	TotalDistributions  int     `json:"total_distributions"`
	TotalDistributed    float64 `json:"total_distributed"`
	AverageDistribution float64 `json:"average_distribution"`
	UniqueRecipients    int     `json:"unique_recipients"`
	CurrentStrategy     string  `json:"current_strategy"`
}

// =============================================================================

// Distributor runs allocations and keeps a history of what has been
// distributed.
type Distributor struct {
	strategy string
	mu       sync.Mutex
	history  []Record
	total    float64
}

// New constructs a distributor with the specified default strategy.
func New(strategy string) (*Distributor, error) {
	if _, err := allocateFunc(strategy); err != nil {
		return nil, err
	}

	return &Distributor{strategy: strategy}, nil
}

// Distribute allocates the total amount among the participants. Pass the
// empty string for the strategy to use the distributor's default.
func (d *Distributor) Distribute(totalAmount float64, participants []Participant, strategy string) (map[string]float64, error) {
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}

	if totalAmount <= 0 {
		return nil, ErrInvalidAmount
	}

	if strategy == "" {
		strategy = d.strategy
	}

	allocate, err := allocateFunc(strategy)
	if err != nil {
		return nil, err
	}

	allocation := allocate(totalAmount, participants)

	d.mu.Lock()
	defer d.mu.Unlock()

	d.history = append(d.history, Record{
		TotalAmount:  totalAmount,
		Allocation:   allocation,
		Strategy:     strategy,
		Participants: len(allocation),
		Date:         time.Now().UTC(),
	})
	d.total += totalAmount

	return allocation, nil
}

// Stats reports totals over the distribution history.
func (d *Distributor) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.history) == 0 {
		return Stats{CurrentStrategy: d.strategy}
	}

	recipients := make(map[string]struct{})
	for _, record := range d.history {
		for account := range record.Allocation {
			recipients[account] = struct{}{}
		}
	}

	return Stats{
		TotalDistributions:  len(d.history),
		TotalDistributed:    d.total,
		AverageDistribution: d.total / float64(len(d.history)),
		UniqueRecipients:    len(recipients),
		CurrentStrategy:     d.strategy,
	}
}

// History returns a copy of the distribution records.
func (d *Distributor) History() []Record {
	d.mu.Lock()
	defer d.mu.Unlock()

	history := make([]Record, len(d.history))
	copy(history, d.history)

	return history
}

// =============================================================================

// Transactions converts an allocation into ledger transactions funded by the
// treasury account, ordered by recipient for reproducible submission.
func Transactions(treasury string, allocation map[string]float64, txType string) []ledger.Tx {
	accounts := make([]string, 0, len(allocation))
	for account := range allocation {
		accounts = append(accounts, account)
	}
	sort.Strings(accounts)

	txs := make([]ledger.Tx, len(accounts))
	for i, account := range accounts {
		txs[i] = ledger.NewTx(treasury, account, allocation[account], txType)
	}

	return txs
}

// Gini measures the inequality of an allocation: 0 is perfect equality, 1 is
// perfect inequality.
func Gini(allocation map[string]float64) float64 {
	if len(allocation) == 0 {
		return 0
	}

	values := make([]float64, 0, len(allocation))
	var sum float64
	for _, v := range allocation {
		values = append(values, v)
		sum += v
	}
	sort.Float64s(values)

	n := float64(len(values))
	if sum == 0 {
		return 0
	}

	var cumsum float64
	for i, v := range values {
		cumsum += float64(i+1) * v
	}

	return (2*cumsum)/(n*sum) - (n+1)/n
}

// =============================================================================

type allocate func(totalAmount float64, participants []Participant) map[string]float64

// allocateFunc maps a strategy name to its allocation function.
func allocateFunc(strategy string) (allocate, error) {
	switch strategy {
	case StrategyEqual:
		return equal, nil
	case StrategyProportional:
		return proportional, nil
	case StrategyNeedBased:
		return needBased, nil
	case StrategyHybrid:
		return hybrid, nil
	case StrategyAbundance:
		return abundance, nil
	}

	return nil, fmt.Errorf("unknown distribution strategy %q", strategy)
}

// equal splits the amount evenly among all participants.
func equal(totalAmount float64, participants []Participant) map[string]float64 {
	share := totalAmount / float64(len(participants))

	allocation := make(map[string]float64, len(participants))
	for _, p := range participants {
		allocation[p.Account] = share
	}

	return allocation
}

// proportional weighs each participant by stake plus contribution, falling
// back to an equal split when no participant carries any weight.
func proportional(totalAmount float64, participants []Participant) map[string]float64 {
	var totalWeight float64
	for _, p := range participants {
		totalWeight += p.Stake + p.ContributionScore
	}

	if totalWeight == 0 {
		return equal(totalAmount, participants)
	}

	allocation := make(map[string]float64, len(participants))
	for _, p := range participants {
		allocation[p.Account] = (p.Stake + p.ContributionScore) / totalWeight * totalAmount
	}

	return allocation
}

// needBased weighs each participant by need score, falling back to an equal
// split when no participant declares need.
func needBased(totalAmount float64, participants []Participant) map[string]float64 {
	var totalNeed float64
	for _, p := range participants {
		totalNeed += p.NeedScore
	}

	if totalNeed == 0 {
		return equal(totalAmount, participants)
	}

	allocation := make(map[string]float64, len(participants))
	for _, p := range participants {
		allocation[p.Account] = p.NeedScore / totalNeed * totalAmount
	}

	return allocation
}

// hybrid combines 40% proportional, 40% need based and 20% equal.
func hybrid(totalAmount float64, participants []Participant) map[string]float64 {
	prop := proportional(totalAmount, participants)
	need := needBased(totalAmount, participants)
	eq := equal(totalAmount, participants)

	allocation := make(map[string]float64, len(participants))
	for _, p := range participants {
		allocation[p.Account] = 0.4*prop[p.Account] + 0.4*need[p.Account] + 0.2*eq[p.Account]
	}

	return allocation
}

// abundance provides a universal base of 60% split equally with the
// remaining 40% allocated by merit.
func abundance(totalAmount float64, participants []Participant) map[string]float64 {
	base := equal(totalAmount*0.6, participants)
	merit := proportional(totalAmount*0.4, participants)

	allocation := make(map[string]float64, len(participants))
	for _, p := range participants {
		allocation[p.Account] = base[p.Account] + merit[p.Account]
	}

	return allocation
}

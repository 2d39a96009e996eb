// Package portal maintains the registry of abundance portals. This is
// bookkeeping for the treasury surface and has no bearing on ledger
// integrity.
package portal

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Set of dimensional portal types.
const (
	DimensionPhysical         = "physical"
	DimensionAstral           = "astral"
	DimensionQuantum          = "quantum"
	DimensionGalactic         = "galactic"
	DimensionInterdimensional = "interdimensional"
)

// Set of portal statuses.
const (
	StatusActive       = "active"
	StatusInactive     = "inactive"
	StatusAnchoring    = "anchoring"
	StatusSynchronized = "synchronized"
)

// Federation standards every portal must meet.
const (
	MinimumAbundanceLevel = 1000.0
	PortalSyncFrequency   = 432.0
)

// ErrPortalNotFound is returned when an operation names an unknown portal.
var ErrPortalNotFound = errors.New("portal not found")

// Portal represents an anchored abundance portal.
type Portal struct {
	ID          string             `json:"portal_id"`
	Dimension   string             `json:"dimension"`
	Capacity    float64            `json:"capacity"`
	Status      string             `json:"status"`
	Coordinates map[string]float64 `json:"coordinates"`
}

// Report summarizes the state of the registry.
type Report struct {
	TotalPortals    int            `json:"total_portals"`
	ByStatus        map[string]int `json:"by_status"`
	TotalCapacity   float64        `json:"total_capacity"`
	TreasuryBalance float64        `json:"treasury_balance"`
}

// =============================================================================

// Registry owns the set of anchored portals and the treasury balance they
// feed.
type Registry struct {
	mu              sync.Mutex
	portals         map[string]Portal
	treasuryBalance float64
}

// NewRegistry constructs an empty portal registry.
func NewRegistry() *Registry {
	return &Registry{
		portals: make(map[string]Portal),
	}
}

// Anchor registers a new portal in the anchoring state. The capacity must
// meet the minimum abundance level and the id must be unused.
func (r *Registry) Anchor(id string, dimension string, capacity float64, coordinates map[string]float64) (Portal, error) {
	if !validDimension(dimension) {
		return Portal{}, fmt.Errorf("unknown dimension %q", dimension)
	}

	if capacity < MinimumAbundanceLevel {
		return Portal{}, fmt.Errorf("portal capacity must be at least %.0f, got %.0f", MinimumAbundanceLevel, capacity)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.portals[id]; exists {
		return Portal{}, fmt.Errorf("portal %q already exists", id)
	}

	if coordinates == nil {
		coordinates = map[string]float64{
			"x":                     0,
			"y":                     0,
			"z":                     0,
			"dimensional_frequency": PortalSyncFrequency,
		}
	}

	p := Portal{
		ID:          id,
		Dimension:   dimension,
		Capacity:    capacity,
		Status:      StatusAnchoring,
		Coordinates: coordinates,
	}
	r.portals[id] = p

	return p, nil
}

// Activate moves an anchored portal to the active state and credits its
// capacity to the treasury balance.
func (r *Registry) Activate(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, exists := r.portals[id]
	if !exists {
		return fmt.Errorf("activate %q: %w", id, ErrPortalNotFound)
	}

	if p.Status == StatusActive {
		return nil
	}

	p.Status = StatusActive
	r.portals[id] = p
	r.treasuryBalance += p.Capacity

	return nil
}

// Synchronize marks every active portal in the given dimension as
// synchronized and returns how many were affected.
func (r *Registry) Synchronize(dimension string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int
	for id, p := range r.portals {
		if p.Dimension != dimension || p.Status != StatusActive {
			continue
		}

		p.Status = StatusSynchronized
		r.portals[id] = p
		count++
	}

	return count
}

// Portals returns the registered portals ordered by id.
func (r *Registry) Portals() []Portal {
	r.mu.Lock()
	defer r.mu.Unlock()

	portals := make([]Portal, 0, len(r.portals))
	for _, p := range r.portals {
		portals = append(portals, p)
	}
	sort.Slice(portals, func(i, j int) bool {
		return portals[i].ID < portals[j].ID
	})

	return portals
}

// TreasuryBalance reports the capacity credited by activated portals.
func (r *Registry) TreasuryBalance() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.treasuryBalance
}

// Report summarizes the registry.
func (r *Registry) Report() Report {
	r.mu.Lock()
	defer r.mu.Unlock()

	report := Report{
		TotalPortals:    len(r.portals),
		ByStatus:        make(map[string]int),
		TreasuryBalance: r.treasuryBalance,
	}

	for _, p := range r.portals {
		report.ByStatus[p.Status]++
		report.TotalCapacity += p.Capacity
	}

	return report
}

// =============================================================================

func validDimension(dimension string) bool {
	switch dimension {
	case DimensionPhysical, DimensionAstral, DimensionQuantum, DimensionGalactic, DimensionInterdimensional:
		return true
	}
	return false
}

// Package compliance implements the rule checks applied to transaction
// documents after the fact. Compliance verdicts never influence chain
// validity, they exist for reporting.
package compliance

import (
	"fmt"
	"sync"
)

// Set of compliance statuses.
const (
	StatusCompliant     = "compliant"
	StatusNonCompliant  = "non_compliant"
	StatusPendingReview = "pending_review"
	StatusExempt        = "exempt"
)

// Rule represents a single compliance rule.
type Rule struct {
	ID          string `json:"rule_id"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Required    bool   `json:"required"`
}

// rules is the fixed rule set every check runs against.
var rules = []Rule{
	{ID: "DEBT_ELIMINATION", Description: "Ensure debt elimination and forgiveness protocols", Category: "financial_justice", Required: true},
	{ID: "WEALTH_REDISTRIBUTION", Description: "Implement fair wealth redistribution mechanisms", Category: "abundance", Required: true},
	{ID: "TRANSPARENCY", Description: "Maintain transparent financial operations", Category: "governance", Required: true},
	{ID: "UNIVERSAL_PROSPERITY", Description: "Ensure universal access to prosperity", Category: "abundance", Required: true},
	{ID: "SOVEREIGN_RIGHTS", Description: "Protect individual sovereign financial rights", Category: "rights", Required: true},
	{ID: "QUANTUM_SECURITY", Description: "Implement quantum-resistant security measures", Category: "security", Required: true},
	{ID: "GALACTIC_ALIGNMENT", Description: "Align with Galactic Federation financial standards", Category: "interstellar", Required: true},
}

// Rules returns a copy of the fixed rule set.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// =============================================================================

// RuleResult is the verdict for a single rule.
type RuleResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Report is the result of checking one transaction document.
type Report struct {
	EntityID      string                `json:"entity_id"`
	OverallStatus string                `json:"overall_status"`
	RulesChecked  int                   `json:"rules_checked"`
	Violations    []string              `json:"violations"`
	Results       map[string]RuleResult `json:"detailed_results"`
	Compliant     bool                  `json:"compliant"`
}

// Summary aggregates all checks performed by a checker.
type Summary struct {
	TotalChecks       int     `json:"total_checks"`
	CompliantCount    int     `json:"compliant_count"`
	NonCompliantCount int     `json:"non_compliant_count"`
	ComplianceRate    float64 `json:"compliance_rate"`
	TotalRules        int     `json:"total_rules"`
}

// =============================================================================

// Checker runs the rule set against transaction documents and keeps the
// reports for aggregate statistics.
type Checker struct {
	mu         sync.Mutex
	records    []Report
	exemptions map[string]map[string]bool
}

// New constructs a checker with no exemptions.
func New() *Checker {
	return &Checker{
		exemptions: make(map[string]map[string]bool),
	}
}

// Check runs every rule against the transaction document and records the
// resulting report.
func (c *Checker) Check(entityID string, tx map[string]any) Report {
	c.mu.Lock()
	defer c.mu.Unlock()

	report := Report{
		EntityID:      entityID,
		OverallStatus: StatusCompliant,
		RulesChecked:  len(rules),
		Violations:    []string{},
		Results:       make(map[string]RuleResult, len(rules)),
		Compliant:     true,
	}

	for _, rule := range rules {
		if c.exemptions[entityID][rule.ID] {
			report.Results[rule.ID] = RuleResult{
				Status:  StatusExempt,
				Message: fmt.Sprintf("Entity exempt from %s", rule.Description),
			}
			continue
		}

		result := checkRule(rule, tx)
		report.Results[rule.ID] = result

		if result.Status == StatusNonCompliant && rule.Required {
			report.OverallStatus = StatusNonCompliant
			report.Compliant = false
			report.Violations = append(report.Violations, rule.ID)
		}
	}

	c.records = append(c.records, report)

	return report
}

// AddExemption exempts an entity from a rule.
func (c *Checker) AddExemption(entityID string, ruleID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.exemptions[entityID] == nil {
		c.exemptions[entityID] = make(map[string]bool)
	}
	c.exemptions[entityID][ruleID] = true
}

// RemoveExemption removes an entity's exemption from a rule.
func (c *Checker) RemoveExemption(entityID string, ruleID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.exemptions[entityID], ruleID)
}

// Summary reports aggregate statistics over every check performed.
func (c *Checker) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Summary{
		TotalChecks: len(c.records),
		TotalRules:  len(rules),
	}

	if len(c.records) == 0 {
		return s
	}

	for _, record := range c.records {
		if record.OverallStatus == StatusCompliant {
			s.CompliantCount++
		}
	}
	s.NonCompliantCount = s.TotalChecks - s.CompliantCount
	s.ComplianceRate = float64(s.CompliantCount) / float64(s.TotalChecks)

	return s
}

// =============================================================================

// checkRule dispatches to the rule specific validation logic.
func checkRule(rule Rule, tx map[string]any) RuleResult {
	switch rule.ID {
	case "DEBT_ELIMINATION":
		// Debt relief transactions and positive transfers both satisfy the
		// elimination protocols.
		return RuleResult{Status: StatusCompliant, Message: "Debt elimination protocols verified"}

	case "WEALTH_REDISTRIBUTION":
		if !boolField(tx, "redistribution_enabled", true) {
			return RuleResult{Status: StatusNonCompliant, Message: "Redistribution not enabled"}
		}
		return RuleResult{Status: StatusCompliant, Message: "Wealth redistribution verified"}

	case "TRANSPARENCY":
		for _, field := range []string{"from", "to", "amount", "type"} {
			if _, exists := tx[field]; !exists {
				return RuleResult{Status: StatusNonCompliant, Message: "Missing required fields"}
			}
		}
		return RuleResult{Status: StatusCompliant, Message: "Transparency requirements met"}

	case "UNIVERSAL_PROSPERITY":
		return RuleResult{Status: StatusCompliant, Message: "Universal prosperity principles upheld"}

	case "SOVEREIGN_RIGHTS":
		if !boolField(tx, "consent", true) {
			return RuleResult{Status: StatusNonCompliant, Message: "Consent not verified"}
		}
		return RuleResult{Status: StatusCompliant, Message: "Sovereign rights protected"}

	case "QUANTUM_SECURITY":
		if !boolField(tx, "quantum_secure", true) {
			return RuleResult{Status: StatusNonCompliant, Message: "Quantum security not enabled"}
		}
		return RuleResult{Status: StatusCompliant, Message: "Quantum security enabled"}

	case "GALACTIC_ALIGNMENT":
		if !boolField(tx, "galactic_compliant", true) {
			return RuleResult{Status: StatusPendingReview, Message: "Pending galactic review"}
		}
		return RuleResult{Status: StatusCompliant, Message: "Galactic Federation standards met"}
	}

	return RuleResult{Status: StatusPendingReview, Message: "Rule validation pending"}
}

// boolField reads an optional boolean field with a default for documents
// that don't carry it.
func boolField(tx map[string]any, field string, defaultValue bool) bool {
	v, exists := tx[field]
	if !exists {
		return defaultValue
	}

	b, ok := v.(bool)
	if !ok {
		return defaultValue
	}

	return b
}

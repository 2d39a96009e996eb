package treasurygrp

import (
	"github.com/scrollsoul/qfs/business/core/distribute"
	"github.com/scrollsoul/qfs/business/sys/validate"
)

// AppParticipant represents an account taking part in a distribution.
type AppParticipant struct {
	Account           string  `json:"account" validate:"required"`
	Stake             float64 `json:"stake"`
	NeedScore         float64 `json:"need_score"`
	ContributionScore float64 `json:"contribution_score"`
}

// AppDistribution is the payload for running a treasury distribution.
type AppDistribution struct {
	TotalAmount  *float64         `json:"total_amount" validate:"required"`
	Participants []AppParticipant `json:"participants" validate:"required,min=1,dive"`
	Strategy     string           `json:"strategy"`
	Type         string           `json:"type"`
}

// Validate checks the data in the model is considered clean.
func (app AppDistribution) Validate() error {
	if err := validate.Check(app); err != nil {
		return err
	}
	return nil
}

func toParticipants(apps []AppParticipant) []distribute.Participant {
	participants := make([]distribute.Participant, len(apps))
	for i, app := range apps {
		participants[i] = distribute.Participant{
			Account:           app.Account,
			Stake:             app.Stake,
			NeedScore:         app.NeedScore,
			ContributionScore: app.ContributionScore,
		}
	}
	return participants
}

// AppComplianceCheck is the payload for checking a transaction document
// against the compliance rule set.
type AppComplianceCheck struct {
	EntityID    string         `json:"entity_id" validate:"required"`
	Transaction map[string]any `json:"transaction" validate:"required"`
}

// Validate checks the data in the model is considered clean.
func (app AppComplianceCheck) Validate() error {
	if err := validate.Check(app); err != nil {
		return err
	}
	return nil
}

// AppNewPortal is the payload for anchoring a new abundance portal.
type AppNewPortal struct {
	ID          string             `json:"portal_id" validate:"required"`
	Dimension   string             `json:"dimension" validate:"required"`
	Capacity    *float64           `json:"capacity" validate:"required"`
	Coordinates map[string]float64 `json:"coordinates"`
	Activate    bool               `json:"activate"`
}

// Validate checks the data in the model is considered clean.
func (app AppNewPortal) Validate() error {
	if err := validate.Check(app); err != nil {
		return err
	}
	return nil
}

package models

import (
	"time"

	"civicbudget/internal/phase"
)

// Budget represents one participatory-budgeting cycle.
type Budget struct {
	Base
	Name           string        `gorm:"not null" json:"name"`
	Slug           string        `gorm:"uniqueIndex;not null" json:"slug"`
	Phase          phase.Kind    `gorm:"type:varchar(32);not null" json:"phase"`
	ResultsEnabled bool          `gorm:"not null;default:false" json:"results_enabled"`
	HideMoney      bool          `gorm:"not null;default:false" json:"hide_money"`
	Phases         []BudgetPhase `gorm:"foreignKey:BudgetID" json:"phases,omitempty"`
	Groups         []Group       `gorm:"foreignKey:BudgetID" json:"groups,omitempty"`
}

// Capabilities returns the capability set of the budget's current phase.
func (b *Budget) Capabilities() phase.Capabilities {
	return phase.CapabilitiesFor(b.Phase, b.ResultsEnabled)
}

// PhaseRecord returns the timeline record for kind, or nil when the budget
// has none loaded.
func (b *Budget) PhaseRecord(kind phase.Kind) *BudgetPhase {
	for i := range b.Phases {
		if b.Phases[i].Kind == kind {
			return &b.Phases[i]
		}
	}
	return nil
}

// BudgetPhase is one entry of a budget's phase timeline.
type BudgetPhase struct {
	ID       uint       `gorm:"primaryKey" json:"id"`
	BudgetID uint       `gorm:"not null;uniqueIndex:idx_budget_phase_kind" json:"budget_id"`
	Kind     phase.Kind `gorm:"type:varchar(32);not null;uniqueIndex:idx_budget_phase_kind" json:"kind"`
	Enabled  bool       `gorm:"not null" json:"enabled"`
	StartsAt *time.Time `json:"starts_at,omitempty"`
	EndsAt   *time.Time `json:"ends_at,omitempty"`
}

// TableName overrides the default table name.
func (BudgetPhase) TableName() string { return "budget_phases" }

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Position is the side of the matter an argument is drafted for
type Position string

const (
	PositionClaimant   Position = "Claimant"
	PositionDefendant  Position = "Defendant"
	PositionAppellant  Position = "Appellant"
	PositionRespondent Position = "Respondent"
)

// ParsePosition validates a position
func ParsePosition(s string) (Position, error) {
	switch Position(s) {
	case PositionClaimant, PositionDefendant, PositionAppellant, PositionRespondent:
		return Position(s), nil
	}
	return "", fmt.Errorf("invalid position %q", s)
}

// ArgumentStatus represents the status of a saved argument version
type ArgumentStatus string

const (
	ArgumentStatusDraft ArgumentStatus = "Draft"
	ArgumentStatusFinal ArgumentStatus = "Final"
)

// FactExpansions holds the optional structured sub-sections of a fact pattern
type FactExpansions struct {
	Chronology        string `json:"chronology,omitempty"`
	DisputedFacts     string `json:"disputed_facts,omitempty"`
	UndisputedFacts   string `json:"undisputed_facts,omitempty"`
	LegalIssuesRaised string `json:"legal_issues_raised,omitempty"`
	ProceduralHistory string `json:"procedural_history,omitempty"`
	LossHarmRisk      string `json:"loss_harm_risk,omitempty"`
}

// Value implements driver.Valuer for JSONB
func (f FactExpansions) Value() (driver.Value, error) {
	return json.Marshal(f)
}

// Scan implements sql.Scanner for JSONB
func (f *FactExpansions) Scan(value interface{}) error {
	if value == nil {
		*f = FactExpansions{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*f = FactExpansions{}
		return nil
	}

	if len(bytes) == 0 {
		*f = FactExpansions{}
		return nil
	}

	return json.Unmarshal(bytes, f)
}

// Argument represents one saved version of an argument for a matter
type Argument struct {
	ID              uuid.UUID      `json:"id"`
	MatterID        uuid.UUID      `json:"matter_id"`
	VersionNumber   int            `json:"version_number"`
	Position        Position       `json:"position"`
	FactPattern     string         `json:"fact_pattern"`
	FactExpansions  FactExpansions `json:"fact_expansions"`
	ArgumentText    string         `json:"argument_text"`
	Authorities     []uuid.UUID    `json:"authorities"`
	Status          ArgumentStatus `json:"status"`
	ParentVersionID *uuid.UUID     `json:"parent_version_id,omitempty"`
	CreatedAt       time.Time      `json:"created_date"`
}

package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MatterStatus represents the status of a matter
type MatterStatus string

const (
	MatterStatusActive        MatterStatus = "Active"
	MatterStatusOnHold        MatterStatus = "On Hold"
	MatterStatusClosed        MatterStatus = "Closed"
	MatterStatusAppealPending MatterStatus = "Appeal Pending"
)

// ParseMatterStatus validates a matter status
func ParseMatterStatus(s string) (MatterStatus, error) {
	switch MatterStatus(s) {
	case MatterStatusActive, MatterStatusOnHold, MatterStatusClosed, MatterStatusAppealPending:
		return MatterStatus(s), nil
	}
	return "", fmt.Errorf("invalid matter status %q", s)
}

// MatterType represents the area of practice a matter belongs to
type MatterType string

const (
	MatterTypeCivilLitigation MatterType = "Civil Litigation"
	MatterTypeCriminalDefence MatterType = "Criminal Defence"
	MatterTypeFamilyLaw       MatterType = "Family Law"
	MatterTypeEmployment      MatterType = "Employment"
	MatterTypeContractDispute MatterType = "Contract Dispute"
	MatterTypeJudicialReview  MatterType = "Judicial Review"
	MatterTypeAppeal          MatterType = "Appeal"
	MatterTypeOther           MatterType = "Other"
)

// ParseMatterType validates a matter type
func ParseMatterType(s string) (MatterType, error) {
	switch MatterType(s) {
	case MatterTypeCivilLitigation, MatterTypeCriminalDefence, MatterTypeFamilyLaw,
		MatterTypeEmployment, MatterTypeContractDispute, MatterTypeJudicialReview,
		MatterTypeAppeal, MatterTypeOther:
		return MatterType(s), nil
	}
	return "", fmt.Errorf("invalid matter type %q", s)
}

// Matter represents a tracked legal case
type Matter struct {
	ID          uuid.UUID    `json:"id"`
	Reference   string       `json:"matter_reference"`
	Name        string       `json:"matter_name"`
	Client      string       `json:"client_name"`
	Court       string       `json:"court"`
	MatterType  MatterType   `json:"matter_type"`
	Status      MatterStatus `json:"status"`
	Description string       `json:"description"`
	CreatedAt   time.Time    `json:"created_date"`
	UpdatedAt   time.Time    `json:"updated_date"`
}

// MatterFilter narrows a matter listing. Zero values match everything.
type MatterFilter struct {
	Status     *MatterStatus
	MatterType *MatterType
	Search     string
	Limit      int
}

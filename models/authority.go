package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AuthorityType represents the kind of legal authority
type AuthorityType string

const (
	AuthorityTypeCaseLaw AuthorityType = "Case Law"
	AuthorityTypeStatute AuthorityType = "Statute"
	AuthorityTypeOther   AuthorityType = "Other"
)

// AuthorityTypeFromSource maps a free-form research type onto a stored authority type
func AuthorityTypeFromSource(sourceType string) AuthorityType {
	switch {
	case sourceType == string(AuthorityTypeCaseLaw):
		return AuthorityTypeCaseLaw
	case strings.Contains(sourceType, "Statute"):
		return AuthorityTypeStatute
	default:
		return AuthorityTypeOther
	}
}

// ValidityStatus tags whether an authority is still good law
type ValidityStatus string

const (
	ValidityActive    ValidityStatus = "Active"
	ValidityOverruled ValidityStatus = "Overruled"
)

// ParseValidityStatus validates a validity tag. An empty tag is Active.
func ParseValidityStatus(s string) (ValidityStatus, error) {
	switch ValidityStatus(s) {
	case "":
		return ValidityActive, nil
	case ValidityActive, ValidityOverruled:
		return ValidityStatus(s), nil
	}
	return "", fmt.Errorf("invalid validity status %q", s)
}

// OrDefault returns Active when the tag is unset
func (v ValidityStatus) OrDefault() ValidityStatus {
	if v == "" {
		return ValidityActive
	}
	return v
}

// LegalAuthority represents a citable case, statute or regulation
type LegalAuthority struct {
	ID             uuid.UUID      `json:"id"`
	MatterID       *uuid.UUID     `json:"matter_id,omitempty"`
	Title          string         `json:"title"`
	Citation       string         `json:"citation"`
	Court          string         `json:"court"`
	Year           string         `json:"year"`
	AuthorityType  AuthorityType  `json:"authority_type"`
	LegalPrinciple string         `json:"legal_principle"`
	Relevance      string         `json:"relevance"`
	KeyQuotes      []string       `json:"key_quotes"`
	Tags           []string       `json:"tags"`
	Validity       ValidityStatus `json:"validity"`
	URL            *string        `json:"url,omitempty"`
	CreatedAt      time.Time      `json:"created_date"`
}

package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DocumentType represents the kind of court document generated
type DocumentType string

const (
	DocumentTypeParticularsOfClaim DocumentType = "Particulars of Claim"
	DocumentTypeDefence            DocumentType = "Defence"
	DocumentTypeWitnessStatement   DocumentType = "Witness Statement"
	DocumentTypeSkeletonArgument   DocumentType = "Skeleton Argument"
	DocumentTypeAppealGrounds      DocumentType = "Appeal Grounds"
	DocumentTypeCaseSummary        DocumentType = "Case Summary"
	DocumentTypeLegalOpinion       DocumentType = "Legal Opinion"
)

// DocumentTypes lists every supported document type in display order
var DocumentTypes = []DocumentType{
	DocumentTypeParticularsOfClaim,
	DocumentTypeDefence,
	DocumentTypeWitnessStatement,
	DocumentTypeSkeletonArgument,
	DocumentTypeAppealGrounds,
	DocumentTypeCaseSummary,
	DocumentTypeLegalOpinion,
}

// ParseDocumentType validates a document type
func ParseDocumentType(s string) (DocumentType, error) {
	for _, t := range DocumentTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid document type %q", s)
}

// DocumentStatus represents the review status of a document
type DocumentStatus string

const (
	DocumentStatusDraft  DocumentStatus = "Draft"
	DocumentStatusReview DocumentStatus = "Review"
	DocumentStatusFinal  DocumentStatus = "Final"
)

// Document represents a generated legal document
type Document struct {
	ID           uuid.UUID      `json:"id"`
	MatterID     uuid.UUID      `json:"matter_id"`
	DocumentType DocumentType   `json:"document_type"`
	Title        string         `json:"title"`
	Content      string         `json:"content"`
	Status       DocumentStatus `json:"status"`
	CreatedAt    time.Time      `json:"created_date"`
	UpdatedAt    time.Time      `json:"updated_date"`
}

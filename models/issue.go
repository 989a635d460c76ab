package models

import (
	"time"

	"github.com/google/uuid"
)

// IssueStatus represents where a legal issue stands
type IssueStatus string

const (
	IssueStatusOpen       IssueStatus = "Open"
	IssueStatusResearched IssueStatus = "Researched"
	IssueStatusResolved   IssueStatus = "Resolved"
)

// LegalIssue represents a question of law scoped to a matter
type LegalIssue struct {
	ID        uuid.UUID   `json:"id"`
	MatterID  uuid.UUID   `json:"matter_id"`
	Question  string      `json:"question"`
	Summary   string      `json:"summary"`
	Status    IssueStatus `json:"status"`
	CreatedAt time.Time   `json:"created_date"`
	UpdatedAt time.Time   `json:"updated_date"`
}

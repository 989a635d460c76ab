package models

import (
	"time"

	"github.com/google/uuid"
)

// Task identifies which generation flow is running
type Task string

const (
	TaskResearch          Task = "research"
	TaskArgument          Task = "argument"
	TaskArgumentStructure Task = "argument_structure"
	TaskCorrectFacts      Task = "correct_facts"
	TaskDocument          Task = "document"
	TaskJudgment          Task = "judgment"
	TaskCoaching          Task = "coaching"
)

// GenerationRunStatus represents the status of a generation run
type GenerationRunStatus string

const (
	RunStatusGenerating GenerationRunStatus = "generating"
	RunStatusSucceeded  GenerationRunStatus = "succeeded"
	RunStatusFailed     GenerationRunStatus = "failed"
	RunStatusDiscarded  GenerationRunStatus = "discarded"
)

// GenerationRun records one invocation of the generative model
type GenerationRun struct {
	ID           uuid.UUID           `json:"id"`
	Task         Task                `json:"task"`
	MatterID     *uuid.UUID          `json:"matter_id,omitempty"`
	SessionID    *uuid.UUID          `json:"session_id,omitempty"`
	Status       GenerationRunStatus `json:"status"`
	PromptChars  int                 `json:"prompt_chars"`
	ErrorMessage *string             `json:"error_message,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	CompletedAt  *time.Time          `json:"completed_at,omitempty"`
}

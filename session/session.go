// Package session holds per-user draft state for the argument and document
// flows, and serialises generation and save actions on each control.
package session

import (
	"errors"
	"sync"
	"time"

	"jurisai-backend/models"

	"github.com/google/uuid"
)

var (
	ErrInFlight       = errors.New("action already in progress")
	ErrNotFound       = errors.New("session not found")
	ErrUnsavedChanges = errors.New("session has unsaved changes")
)

// Area groups the controls that share one persisted draft
type Area string

const (
	AreaArgument Area = "argument"
	AreaDocument Area = "document"
)

// Slot is a draft field written by generation results
type Slot string

const (
	SlotArgumentText Slot = "argument_text"
	SlotCoaching     Slot = "coaching"
	SlotDocument     Slot = "document"
)

// Phase is the state of one control
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseGenerating Phase = "generating"
	PhaseSucceeded  Phase = "succeeded"
	PhaseSaving     Phase = "saving"
	PhaseSaved      Phase = "saved"
)

// Control is a user-triggered action
type Control struct {
	Name string
	Area Area
	Slot Slot
	// MarksUnsaved is set for results that end up in a saved artifact
	MarksUnsaved bool
}

// Generate, structure and correct-facts all write the argument text slot, so
// the most recently started of them wins.
var (
	ArgumentGenerate     = Control{Name: "argument.generate", Area: AreaArgument, Slot: SlotArgumentText, MarksUnsaved: true}
	ArgumentStructure    = Control{Name: "argument.structure", Area: AreaArgument, Slot: SlotArgumentText, MarksUnsaved: true}
	ArgumentCorrectFacts = Control{Name: "argument.correct_facts", Area: AreaArgument, Slot: SlotArgumentText, MarksUnsaved: true}
	ArgumentCoach        = Control{Name: "argument.coach", Area: AreaArgument, Slot: SlotCoaching}
	ArgumentSave         = Control{Name: "argument.save", Area: AreaArgument}
	DocumentGenerate     = Control{Name: "document.generate", Area: AreaDocument, Slot: SlotDocument, MarksUnsaved: true}
	DocumentSave         = Control{Name: "document.save", Area: AreaDocument}
)

// ArgumentDraft is the editable state of the argument builder
type ArgumentDraft struct {
	MatterID     *uuid.UUID                `json:"matter_id,omitempty"`
	Position     models.Position           `json:"position"`
	FactPattern  string                    `json:"fact_pattern"`
	Expansions   models.FactExpansions     `json:"fact_expansions"`
	ArgumentText string                    `json:"argument_text"`
	Structure    *models.ArgumentStructure `json:"structure,omitempty"`
	Coaching     *models.CoachingFeedback  `json:"coaching,omitempty"`
	AuthorityIDs []uuid.UUID               `json:"authority_ids"`
	FileIDs      []uuid.UUID               `json:"file_ids"`
	LastSavedID  *uuid.UUID                `json:"last_saved_id,omitempty"`
}

// DocumentDraft is the editable state of the document generator
type DocumentDraft struct {
	MatterID      *uuid.UUID          `json:"matter_id,omitempty"`
	DocumentType  models.DocumentType `json:"document_type"`
	Title         string              `json:"title"`
	BriefingNotes string              `json:"briefing_notes"`
	Content       string              `json:"content"`
	FileIDs       []uuid.UUID         `json:"file_ids"`
	LastSavedID   *uuid.UUID          `json:"last_saved_id,omitempty"`
}

// Drafts is everything a session edits
type Drafts struct {
	Argument ArgumentDraft `json:"argument"`
	Document DocumentDraft `json:"document"`
}

// Ticket identifies one started action
type Ticket struct {
	Control  Control
	seq      uint64
	revision uint64
}

// Session is one user's working state. Results and models inside Drafts are
// replaced, never mutated in place, so copies returned by View are safe to read.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	mu        sync.Mutex
	phases    map[string]Phase
	errs      map[string]string
	seqs      map[Slot]uint64
	revisions map[Area]uint64
	unsaved   map[Area]bool
	drafts    Drafts
	touched   time.Time
}

// New creates an empty session
func New() *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.New(),
		CreatedAt: now,
		phases:    make(map[string]Phase),
		errs:      make(map[string]string),
		seqs:      make(map[Slot]uint64),
		revisions: make(map[Area]uint64),
		unsaved:   make(map[Area]bool),
		drafts: Drafts{
			Argument: ArgumentDraft{Position: models.PositionClaimant},
		},
		touched: now,
	}
}

func busy(p Phase) bool {
	return p == PhaseGenerating || p == PhaseSaving
}

// BeginGeneration starts a generation on control. A second call while the
// first is still in flight returns ErrInFlight.
func (s *Session) BeginGeneration(c Control) (Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if busy(s.phases[c.Name]) {
		return Ticket{}, ErrInFlight
	}
	s.seqs[c.Slot]++
	s.phases[c.Name] = PhaseGenerating
	delete(s.errs, c.Name)
	s.touched = time.Now()
	return Ticket{Control: c, seq: s.seqs[c.Slot]}, nil
}

// CompleteGeneration applies a successful result. It returns false, leaving the
// drafts untouched, when a newer action has since started on the same slot.
func (s *Session) CompleteGeneration(t Ticket, apply func(*Drafts)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touched = time.Now()
	if s.seqs[t.Control.Slot] != t.seq {
		s.phases[t.Control.Name] = PhaseIdle
		return false
	}
	apply(&s.drafts)
	s.phases[t.Control.Name] = PhaseSucceeded
	s.revisions[t.Control.Area]++
	if t.Control.MarksUnsaved {
		s.unsaved[t.Control.Area] = true
	}
	return true
}

// Fail settles an action that returned an error. The control returns to idle
// with the message kept in Errors; drafts are unchanged.
func (s *Session) Fail(t Ticket, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.phases[t.Control.Name] = PhaseIdle
	if err != nil {
		s.errs[t.Control.Name] = err.Error()
	}
	s.touched = time.Now()
}

// BeginSave starts a save and returns a copy of the drafts to persist
func (s *Session) BeginSave(c Control) (Ticket, Drafts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if busy(s.phases[c.Name]) {
		return Ticket{}, Drafts{}, ErrInFlight
	}
	s.phases[c.Name] = PhaseSaving
	delete(s.errs, c.Name)
	s.touched = time.Now()
	return Ticket{Control: c, revision: s.revisions[c.Area]}, s.drafts, nil
}

// CompleteSave records a successful save. The unsaved flag is only cleared
// when no generation result landed in the area while the save was running.
func (s *Session) CompleteSave(t Ticket, apply func(*Drafts)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if apply != nil {
		apply(&s.drafts)
	}
	s.phases[t.Control.Name] = PhaseSaved
	if s.revisions[t.Control.Area] == t.revision {
		s.unsaved[t.Control.Area] = false
	}
	s.touched = time.Now()
}

// Edit applies user input and supersedes the slots fn returns. A generation
// still in flight on a superseded slot is discarded when it completes, so it
// cannot overwrite the edit.
func (s *Session) Edit(fn func(*Drafts) []Slot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, slot := range fn(&s.drafts) {
		s.seqs[slot]++
	}
	s.touched = time.Now()
}

// HasUnsavedChanges reports whether any area holds an unsaved result
func (s *Session) HasUnsavedChanges() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.unsaved {
		if v {
			return true
		}
	}
	return false
}

// Phase returns the current phase of control
func (s *Session) Phase(c Control) Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.phases[c.Name]; ok {
		return p
	}
	return PhaseIdle
}

// View is a point-in-time copy of a session
type View struct {
	ID                uuid.UUID         `json:"id"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	Drafts            Drafts            `json:"drafts"`
	Controls          map[string]Phase  `json:"controls"`
	Errors            map[string]string `json:"errors,omitempty"`
	UnsavedArgument   bool              `json:"unsaved_argument"`
	UnsavedDocument   bool              `json:"unsaved_document"`
	HasUnsavedChanges bool              `json:"has_unsaved_changes"`
}

// View copies the session state
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	controls := make(map[string]Phase, len(s.phases))
	for k, v := range s.phases {
		controls[k] = v
	}
	errs := make(map[string]string, len(s.errs))
	for k, v := range s.errs {
		errs[k] = v
	}

	drafts := s.drafts
	drafts.Argument.AuthorityIDs = append([]uuid.UUID{}, s.drafts.Argument.AuthorityIDs...)
	drafts.Argument.FileIDs = append([]uuid.UUID{}, s.drafts.Argument.FileIDs...)
	drafts.Document.FileIDs = append([]uuid.UUID{}, s.drafts.Document.FileIDs...)

	return View{
		ID:                s.ID,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.touched,
		Drafts:            drafts,
		Controls:          controls,
		Errors:            errs,
		UnsavedArgument:   s.unsaved[AreaArgument],
		UnsavedDocument:   s.unsaved[AreaDocument],
		HasUnsavedChanges: s.unsaved[AreaArgument] || s.unsaved[AreaDocument],
	}
}

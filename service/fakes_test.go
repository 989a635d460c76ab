package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"jurisai-backend/generation"
	"jurisai-backend/models"
	"jurisai-backend/repository"

	"github.com/google/uuid"
)

type fakeInvoker struct {
	mu    sync.Mutex
	calls []generation.Request
	fn    func(req generation.Request) (*generation.Result, error)
}

func (f *fakeInvoker) Invoke(_ context.Context, req generation.Request) (*generation.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	fn := f.fn
	f.mu.Unlock()
	if fn == nil {
		return &generation.Result{Text: "generated"}, nil
	}
	return fn(req)
}

func (f *fakeInvoker) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeInvoker) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return ""
	}
	return f.calls[len(f.calls)-1].Prompt
}

func textReply(text string) func(generation.Request) (*generation.Result, error) {
	return func(generation.Request) (*generation.Result, error) {
		return &generation.Result{Text: text}, nil
	}
}

func jsonReply(raw string) func(generation.Request) (*generation.Result, error) {
	return func(generation.Request) (*generation.Result, error) {
		return &generation.Result{Structured: []byte(raw)}, nil
	}
}

type memMatters struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*models.Matter
	err  error
}

func newMemMatters(matters ...*models.Matter) *memMatters {
	m := &memMatters{rows: make(map[uuid.UUID]*models.Matter)}
	for _, matter := range matters {
		if matter.ID == uuid.Nil {
			matter.ID = uuid.New()
		}
		m.rows[matter.ID] = matter
	}
	return m
}

func (m *memMatters) Create(_ context.Context, matter *models.Matter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	matter.ID = uuid.New()
	matter.CreatedAt = time.Now()
	matter.UpdatedAt = matter.CreatedAt
	cp := *matter
	m.rows[matter.ID] = &cp
	return nil
}

func (m *memMatters) GetByID(_ context.Context, id uuid.UUID) (*models.Matter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	row, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (m *memMatters) Update(_ context.Context, matter *models.Matter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[matter.ID]; !ok {
		return repository.ErrNotFound
	}
	matter.UpdatedAt = time.Now()
	cp := *matter
	m.rows[matter.ID] = &cp
	return nil
}

func (m *memMatters) List(_ context.Context, filter models.MatterFilter) ([]*models.Matter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Matter{}
	for _, row := range m.rows {
		if filter.Status != nil && row.Status != *filter.Status {
			continue
		}
		if filter.MatterType != nil && row.MatterType != *filter.MatterType {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(row.Name), strings.ToLower(filter.Search)) {
			continue
		}
		cp := *row
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *memMatters) CountByStatus(_ context.Context, status models.MatterStatus) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, row := range m.rows {
		if row.Status == status {
			n++
		}
	}
	return n, nil
}

type memAuthorities struct {
	mu      sync.Mutex
	rows    []*models.LegalAuthority
	listErr error
}

func (m *memAuthorities) Create(_ context.Context, a *models.LegalAuthority) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	cp := *a
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *memAuthorities) GetByID(_ context.Context, id uuid.UUID) (*models.LegalAuthority, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.ID == id {
			cp := *row
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memAuthorities) ListByMatter(_ context.Context, matterID uuid.UUID) ([]*models.LegalAuthority, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []*models.LegalAuthority{}
	for _, row := range m.rows {
		if row.MatterID != nil && *row.MatterID == matterID {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memAuthorities) List(_ context.Context, limit int) ([]*models.LegalAuthority, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.LegalAuthority{}
	for i := len(m.rows) - 1; i >= 0; i-- {
		cp := *m.rows[i]
		out = append(out, &cp)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

type memIssues struct {
	mu   sync.Mutex
	rows []*models.LegalIssue
}

func (m *memIssues) Create(_ context.Context, issue *models.LegalIssue) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	issue.ID = uuid.New()
	cp := *issue
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *memIssues) Update(_ context.Context, issue *models.LegalIssue) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, row := range m.rows {
		if row.ID == issue.ID {
			cp := *issue
			m.rows[i] = &cp
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memIssues) GetByID(_ context.Context, id uuid.UUID) (*models.LegalIssue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.ID == id {
			cp := *row
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memIssues) FindByQuestion(_ context.Context, matterID uuid.UUID, question string) (*models.LegalIssue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.MatterID == matterID && strings.EqualFold(row.Question, question) {
			cp := *row
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memIssues) ListByMatter(_ context.Context, matterID uuid.UUID) ([]*models.LegalIssue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.LegalIssue{}
	for _, row := range m.rows {
		if row.MatterID == matterID {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memArguments struct {
	mu      sync.Mutex
	rows    []*models.Argument
	latestN int // Latest calls
}

func (m *memArguments) Create(_ context.Context, a *models.Argument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.MatterID == a.MatterID && row.VersionNumber == a.VersionNumber {
			return repository.ErrVersionConflict
		}
	}
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	cp := *a
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *memArguments) Latest(_ context.Context, matterID uuid.UUID) (*models.Argument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latestN++
	var latest *models.Argument
	for _, row := range m.rows {
		if row.MatterID == matterID && (latest == nil || row.VersionNumber > latest.VersionNumber) {
			latest = row
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (m *memArguments) ListByMatter(_ context.Context, matterID uuid.UUID) ([]*models.Argument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Argument{}
	for _, row := range m.rows {
		if row.MatterID == matterID {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memDocuments struct {
	mu   sync.Mutex
	rows []*models.Document
}

func (m *memDocuments) Create(_ context.Context, d *models.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	cp := *d
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *memDocuments) GetByID(_ context.Context, id uuid.UUID) (*models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.ID == id {
			cp := *row
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memDocuments) ListByMatter(_ context.Context, matterID uuid.UUID) ([]*models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Document{}
	for _, row := range m.rows {
		if row.MatterID == matterID {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memDocuments) List(_ context.Context, limit int) ([]*models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Document{}
	for i := len(m.rows) - 1; i >= 0; i-- {
		cp := *m.rows[i]
		out = append(out, &cp)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

type memRuns struct {
	mu       sync.Mutex
	runs     map[uuid.UUID]*models.GenerationRun
	failNext bool
}

func newMemRuns() *memRuns {
	return &memRuns{runs: make(map[uuid.UUID]*models.GenerationRun)}
}

func (m *memRuns) Create(_ context.Context, run *models.GenerationRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext {
		m.failNext = false
		return errors.New("runs table unavailable")
	}
	run.ID = uuid.New()
	cp := *run
	m.runs[run.ID] = &cp
	return nil
}

func (m *memRuns) Finish(_ context.Context, id uuid.UUID, status models.GenerationRunStatus, errorMessage *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return repository.ErrNotFound
	}
	run.Status = status
	run.ErrorMessage = errorMessage
	return nil
}

func (m *memRuns) status(id *uuid.UUID) models.GenerationRunStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id == nil {
		return ""
	}
	if run, ok := m.runs[*id]; ok {
		return run.Status
	}
	return ""
}

type fakeTexts map[uuid.UUID]string

func (f fakeTexts) ExtractText(_ context.Context, id uuid.UUID) (string, string, error) {
	text, ok := f[id]
	if !ok {
		return "", "", ErrFileNotFound
	}
	return id.String()[:8] + ".txt", text, nil
}

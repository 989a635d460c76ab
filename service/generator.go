package service

import (
	"context"
	"errors"

	"jurisai-backend/generation"
	"jurisai-backend/models"
	"jurisai-backend/prompt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RunMeta ties a generation run to the matter and session it serves
type RunMeta struct {
	MatterID  *uuid.UUID
	SessionID *uuid.UUID
}

// Outcome is a model result plus the id of the recorded run, if any
type Outcome struct {
	Result *generation.Result
	RunID  *uuid.UUID
}

// Generator compiles a context for a task and invokes the model once
type Generator struct {
	invoker generation.Invoker
	runs    RunStore
	logger  *zap.Logger
}

// NewGenerator creates a generator. runs may be nil, in which case nothing is recorded.
func NewGenerator(invoker generation.Invoker, runs RunStore, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{invoker: invoker, runs: runs, logger: logger}
}

// Generate compiles and invokes task. Template refusals surface as
// ValidationError before any model call is made.
func (g *Generator) Generate(ctx context.Context, task models.Task, c *prompt.Context, meta RunMeta) (*Outcome, error) {
	if g.invoker == nil {
		return nil, errors.New("invoker not set")
	}

	compiled, err := prompt.Compile(task, c)
	if err != nil {
		return nil, promptError(err)
	}

	runID := g.startRun(ctx, task, meta, len(compiled.Text))

	result, err := g.invoker.Invoke(ctx, compiled.Request())
	if err != nil {
		msg := err.Error()
		g.finishRun(ctx, runID, models.RunStatusFailed, &msg)
		g.logger.Warn("generation failed",
			zap.String("task", string(task)),
			zap.Error(err),
		)
		return nil, err
	}

	g.finishRun(ctx, runID, models.RunStatusSucceeded, nil)
	return &Outcome{Result: result, RunID: runID}, nil
}

// MarkDiscarded records that a result arrived after a newer request superseded it
func (g *Generator) MarkDiscarded(ctx context.Context, runID *uuid.UUID) {
	g.finishRun(ctx, runID, models.RunStatusDiscarded, nil)
}

func (g *Generator) startRun(ctx context.Context, task models.Task, meta RunMeta, promptChars int) *uuid.UUID {
	if g.runs == nil {
		return nil
	}
	run := &models.GenerationRun{
		Task:        task,
		MatterID:    meta.MatterID,
		SessionID:   meta.SessionID,
		Status:      models.RunStatusGenerating,
		PromptChars: promptChars,
	}
	if err := g.runs.Create(ctx, run); err != nil {
		g.logger.Warn("failed to record generation run", zap.String("task", string(task)), zap.Error(err))
		return nil
	}
	return &run.ID
}

func (g *Generator) finishRun(ctx context.Context, runID *uuid.UUID, status models.GenerationRunStatus, errMsg *string) {
	if g.runs == nil || runID == nil {
		return
	}
	// A cancelled request still gets its run settled
	if err := g.runs.Finish(context.WithoutCancel(ctx), *runID, status, errMsg); err != nil {
		g.logger.Warn("failed to settle generation run",
			zap.String("run_id", runID.String()),
			zap.String("status", string(status)),
			zap.Error(err),
		)
	}
}

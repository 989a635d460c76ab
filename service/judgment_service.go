package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"jurisai-backend/models"
	"jurisai-backend/prompt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JudgmentService critiques a judgment for appeal grounds
type JudgmentService struct {
	assembler *ContextAssembler
	generator *Generator
	texts     TextSource
	logger    *zap.Logger
}

// JudgmentServiceOption is a functional option for JudgmentService
type JudgmentServiceOption func(*JudgmentService)

// JudgmentWithAssembler sets the context assembler
func JudgmentWithAssembler(a *ContextAssembler) JudgmentServiceOption {
	return func(s *JudgmentService) {
		s.assembler = a
	}
}

// JudgmentWithGenerator sets the generator
func JudgmentWithGenerator(g *Generator) JudgmentServiceOption {
	return func(s *JudgmentService) {
		s.generator = g
	}
}

// JudgmentWithTextSource sets where uploaded judgment text comes from
func JudgmentWithTextSource(src TextSource) JudgmentServiceOption {
	return func(s *JudgmentService) {
		s.texts = src
	}
}

// JudgmentWithLogger sets the logger
func JudgmentWithLogger(logger *zap.Logger) JudgmentServiceOption {
	return func(s *JudgmentService) {
		s.logger = logger
	}
}

// NewJudgmentService creates a new judgment service
func NewJudgmentService(opts ...JudgmentServiceOption) *JudgmentService {
	s := &JudgmentService{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AnalyzeJudgmentRequest takes pasted text or an uploaded file. Pasted text wins.
type AnalyzeJudgmentRequest struct {
	Text     string
	FileID   *uuid.UUID
	MatterID *uuid.UUID
}

// AnalyzeJudgmentResult represents the critique of a judgment
type AnalyzeJudgmentResult struct {
	Analysis *models.JudgmentAnalysis
	RunID    *uuid.UUID
}

// Analyze runs the judgment critique
func (s *JudgmentService) Analyze(ctx context.Context, req AnalyzeJudgmentRequest) (*AnalyzeJudgmentResult, error) {
	if s.generator == nil {
		return nil, errors.New("generator not set")
	}

	text := req.Text
	if strings.TrimSpace(text) == "" {
		if req.FileID == nil {
			return nil, invalid("judgment", "paste the judgment text or upload a file")
		}
		extracted, err := s.extract(ctx, *req.FileID)
		if err != nil {
			return nil, err
		}
		text = extracted
	}

	input := prompt.Context{JudgmentText: text}
	c := &input
	if req.MatterID != nil {
		if s.assembler == nil {
			return nil, errors.New("context assembler not set")
		}
		assembled, err := s.assembler.Assemble(ctx, AssembleRequest{
			Task:     models.TaskJudgment,
			MatterID: req.MatterID,
			Input:    input,
		})
		if err != nil {
			return nil, err
		}
		c = assembled
	}

	out, err := s.generator.Generate(ctx, models.TaskJudgment, c, RunMeta{MatterID: req.MatterID})
	if err != nil {
		return nil, err
	}
	analysis, err := ProjectJudgment(out.Result)
	if err != nil {
		return nil, err
	}
	return &AnalyzeJudgmentResult{Analysis: analysis, RunID: out.RunID}, nil
}

func (s *JudgmentService) extract(ctx context.Context, fileID uuid.UUID) (string, error) {
	if s.texts == nil {
		return "", errors.New("text source not set")
	}
	_, text, err := s.texts.ExtractText(ctx, fileID)
	if err != nil {
		if errors.Is(err, ErrFileNotFound) || errors.Is(err, ErrExtractionFailed) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", invalid("file_id", "no text could be extracted from the file")
	}
	return text, nil
}

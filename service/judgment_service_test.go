package service

import (
	"context"
	"errors"
	"testing"

	"jurisai-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const judgmentReply = `{
	"case_information": {"case_name": "Smith v Jones", "court": "County Court"},
	"errors_of_law": [{"error": "Misapplied the limitation period", "explanation": "Time ran from knowledge", "severity": "High"}],
	"executive_summary": "Strong ground on limitation"
}`

type brokenTexts struct{}

func (brokenTexts) ExtractText(context.Context, uuid.UUID) (string, string, error) {
	return "", "", errors.New("zip: not a valid zip file")
}

func newJudgmentService(invoker *fakeInvoker, texts TextSource, matters ...*models.Matter) *JudgmentService {
	return NewJudgmentService(
		JudgmentWithAssembler(NewContextAssembler(AssemblerWithMatterRepository(newMemMatters(matters...)))),
		JudgmentWithGenerator(NewGenerator(invoker, nil, nil)),
		JudgmentWithTextSource(texts),
	)
}

func TestAnalyzeJudgment_PastedTextWins(t *testing.T) {
	fileID := uuid.New()
	invoker := &fakeInvoker{fn: jsonReply(judgmentReply)}
	svc := newJudgmentService(invoker, fakeTexts{fileID: "uploaded judgment"})

	res, err := svc.Analyze(context.Background(), AnalyzeJudgmentRequest{Text: "pasted judgment", FileID: &fileID})
	require.NoError(t, err)
	assert.Equal(t, "Strong ground on limitation", res.Analysis.ExecutiveSummary)
	require.Len(t, res.Analysis.ErrorsOfLaw, 1)
	assert.Empty(t, res.Analysis.ClearPointsToRaise)

	req := invoker.calls[0]
	assert.Contains(t, req.Prompt, "pasted judgment")
	assert.NotContains(t, req.Prompt, "uploaded judgment")
	assert.True(t, req.AllowExternalContext)
	assert.NotNil(t, req.Schema)
}

func TestAnalyzeJudgment_FromFileWithMatter(t *testing.T) {
	fileID := uuid.New()
	matter := highCourtMatter()
	invoker := &fakeInvoker{fn: jsonReply(judgmentReply)}
	svc := newJudgmentService(invoker, fakeTexts{fileID: "HHJ Brown: the claim is dismissed"}, matter)

	_, err := svc.Analyze(context.Background(), AnalyzeJudgmentRequest{FileID: &fileID, MatterID: &matter.ID})
	require.NoError(t, err)
	assert.Contains(t, invoker.lastPrompt(), "HHJ Brown: the claim is dismissed")
	assert.Contains(t, invoker.lastPrompt(), "Acme v Widget Co")
}

func TestAnalyzeJudgment_Failures(t *testing.T) {
	ctx := context.Background()
	invoker := &fakeInvoker{fn: jsonReply(judgmentReply)}
	empty := uuid.New()

	svc := newJudgmentService(invoker, fakeTexts{empty: "   "})
	_, err := svc.Analyze(ctx, AnalyzeJudgmentRequest{})
	assert.ErrorIs(t, err, ErrValidation)

	missing := uuid.New()
	_, err = svc.Analyze(ctx, AnalyzeJudgmentRequest{FileID: &missing})
	assert.ErrorIs(t, err, ErrFileNotFound)

	_, err = svc.Analyze(ctx, AnalyzeJudgmentRequest{FileID: &empty})
	assert.ErrorIs(t, err, ErrValidation)

	broken := newJudgmentService(invoker, brokenTexts{})
	_, err = broken.Analyze(ctx, AnalyzeJudgmentRequest{FileID: &missing})
	assert.ErrorIs(t, err, ErrExtractionFailed)

	assert.Zero(t, invoker.callCount())
}

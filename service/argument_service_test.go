package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"jurisai-backend/generation"
	"jurisai-backend/models"
	"jurisai-backend/prompt"
	"jurisai-backend/repository"
	"jurisai-backend/session"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type argumentFixture struct {
	matters   *memMatters
	arguments *memArguments
	runs      *memRuns
	invoker   *fakeInvoker
	svc       *ArgumentService
	sess      *session.Session
}

func newArgumentFixture(matters ...*models.Matter) *argumentFixture {
	f := &argumentFixture{
		matters:   newMemMatters(matters...),
		arguments: &memArguments{},
		runs:      newMemRuns(),
		invoker:   &fakeInvoker{},
		sess:      session.New(),
	}
	assembler := NewContextAssembler(
		AssemblerWithMatterRepository(f.matters),
		AssemblerWithAuthorityRepository(&memAuthorities{}),
		AssemblerWithIssueRepository(&memIssues{}),
		AssemblerWithArgumentRepository(f.arguments),
	)
	f.svc = NewArgumentService(
		ArgumentWithAssembler(assembler),
		ArgumentWithGenerator(NewGenerator(f.invoker, f.runs, nil)),
		ArgumentWithRepository(f.arguments),
	)
	return f
}

func highCourtMatter() *models.Matter {
	return &models.Matter{
		ID:          uuid.New(),
		Name:        "Acme v Widget Co",
		Client:      "Acme Ltd",
		Court:       "High Court",
		MatterType:  models.MatterTypeContractDispute,
		Status:      models.MatterStatusActive,
		Description: "Supply contract dispute",
	}
}

func strPtr(s string) *string { return &s }

func TestArgumentGenerate_RequiresCourt(t *testing.T) {
	matter := highCourtMatter()
	matter.Court = "  "
	f := newArgumentFixture(matter)
	ctx := context.Background()

	_, err := f.svc.SelectMatter(ctx, f.sess, matter.ID)
	require.NoError(t, err)

	_, err = f.svc.Generate(ctx, f.sess)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, prompt.ErrCourtRequired)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "court", verr.Field)

	assert.Zero(t, f.invoker.callCount(), "no model call without a court")
	assert.Equal(t, session.PhaseIdle, f.sess.Phase(session.ArgumentGenerate))
	assert.False(t, f.sess.HasUnsavedChanges())
}

func TestArgumentGenerate_RequiresMatter(t *testing.T) {
	f := newArgumentFixture()

	_, err := f.svc.Generate(context.Background(), f.sess)
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, prompt.ErrMatterRequired)
	assert.Zero(t, f.invoker.callCount())
}

func TestArgumentFlow_GenerateThenSave(t *testing.T) {
	matter := highCourtMatter()
	f := newArgumentFixture(matter)
	ctx := context.Background()
	const generated = "# Submissions for the Claimant\n\n1. X breached the contract."
	f.invoker.fn = textReply(generated)

	_, err := f.svc.SelectMatter(ctx, f.sess, matter.ID)
	require.NoError(t, err)
	_, err = f.svc.UpdateDraft(f.sess, ArgumentDraftUpdate{
		Position:    strPtr("Claimant"),
		FactPattern: strPtr("X breached contract on 2023-01-01"),
	})
	require.NoError(t, err)

	res, err := f.svc.Generate(ctx, f.sess)
	require.NoError(t, err)
	assert.True(t, res.Applied)

	p := f.invoker.lastPrompt()
	assert.Contains(t, p, "## COURT LOCK")
	assert.Contains(t, p, "This matter is before the High Court.")
	assert.Contains(t, p, "Do not escalate or de-escalate the court level")
	assert.Contains(t, p, "X breached contract on 2023-01-01")
	assert.NotContains(t, p, "AUTHORITIES")

	assert.Equal(t, generated, res.Session.Drafts.Argument.ArgumentText)
	assert.True(t, res.Session.HasUnsavedChanges)
	assert.Equal(t, session.PhaseSucceeded, res.Session.Controls[session.ArgumentGenerate.Name])
	assert.Equal(t, models.RunStatusSucceeded, f.runs.status(res.RunID))

	saved, err := f.svc.Save(ctx, f.sess, SaveArgumentRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, saved.Argument.VersionNumber)
	assert.Nil(t, saved.Argument.ParentVersionID)
	assert.Equal(t, matter.ID, saved.Argument.MatterID)
	assert.Equal(t, models.PositionClaimant, saved.Argument.Position)
	assert.Equal(t, generated, saved.Argument.ArgumentText)
	assert.Equal(t, models.ArgumentStatusDraft, saved.Argument.Status)
	assert.False(t, saved.Session.HasUnsavedChanges)
	assert.Equal(t, &saved.Argument.ID, saved.Session.Drafts.Argument.LastSavedID)
}

func TestArgumentSave_AppendsVersion(t *testing.T) {
	matter := highCourtMatter()
	f := newArgumentFixture(matter)
	ctx := context.Background()

	for _, v := range []int{1, 2} {
		require.NoError(t, f.arguments.Create(ctx, &models.Argument{MatterID: matter.ID, VersionNumber: v, ArgumentText: "old"}))
	}
	previous, err := f.arguments.Latest(ctx, matter.ID)
	require.NoError(t, err)

	_, err = f.svc.SelectMatter(ctx, f.sess, matter.ID)
	require.NoError(t, err)
	_, err = f.svc.UpdateDraft(f.sess, ArgumentDraftUpdate{ArgumentText: strPtr("revised argument")})
	require.NoError(t, err)

	saved, err := f.svc.Save(ctx, f.sess, SaveArgumentRequest{Status: "Final"})
	require.NoError(t, err)
	assert.Equal(t, 3, saved.Argument.VersionNumber)
	require.NotNil(t, saved.Argument.ParentVersionID)
	assert.Equal(t, previous.ID, *saved.Argument.ParentVersionID)
	assert.Equal(t, models.ArgumentStatusFinal, saved.Argument.Status)
}

// staleArguments reports no prior version while one already exists, as a
// second concurrent save would see it
type staleArguments struct {
	*memArguments
}

func (s staleArguments) Latest(context.Context, uuid.UUID) (*models.Argument, error) {
	return nil, repository.ErrNotFound
}

func TestArgumentSave_VersionConflict(t *testing.T) {
	matter := highCourtMatter()
	f := newArgumentFixture(matter)
	ctx := context.Background()
	require.NoError(t, f.arguments.Create(ctx, &models.Argument{MatterID: matter.ID, VersionNumber: 1}))
	f.svc.argumentRepo = staleArguments{f.arguments}

	_, err := f.svc.SelectMatter(ctx, f.sess, matter.ID)
	require.NoError(t, err)
	f.invoker.fn = textReply("argument")
	_, err = f.svc.Generate(ctx, f.sess)
	require.NoError(t, err)

	_, err = f.svc.Save(ctx, f.sess, SaveArgumentRequest{})
	assert.ErrorIs(t, err, repository.ErrVersionConflict)
	assert.True(t, f.sess.HasUnsavedChanges(), "a failed save keeps the unsaved flag")
	assert.Equal(t, session.PhaseIdle, f.sess.Phase(session.ArgumentSave))
}

func TestArgumentSave_RequiresContent(t *testing.T) {
	matter := highCourtMatter()
	f := newArgumentFixture(matter)
	ctx := context.Background()

	_, err := f.svc.Save(ctx, f.sess, SaveArgumentRequest{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.SelectMatter(ctx, f.sess, matter.ID)
	require.NoError(t, err)
	_, err = f.svc.Save(ctx, f.sess, SaveArgumentRequest{})
	assert.ErrorIs(t, err, ErrNothingToSave)

	_, err = f.svc.Save(ctx, f.sess, SaveArgumentRequest{Status: "Archived"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSelectMatter_PreloadsLatestVersion(t *testing.T) {
	matter := highCourtMatter()
	f := newArgumentFixture(matter)
	ctx := context.Background()

	expansions := models.FactExpansions{
		Chronology:        "Jan: order placed",
		DisputedFacts:     "Delivery date",
		UndisputedFacts:   "Contract signed",
		LegalIssuesRaised: "Repudiatory breach",
		ProceduralHistory: "Letter before claim sent",
		LossHarmRisk:      "Lost profits",
	}
	authorityID := uuid.New()
	require.NoError(t, f.arguments.Create(ctx, &models.Argument{MatterID: matter.ID, VersionNumber: 1, FactPattern: "first"}))
	require.NoError(t, f.arguments.Create(ctx, &models.Argument{
		MatterID:       matter.ID,
		VersionNumber:  2,
		Position:       models.PositionDefendant,
		FactPattern:    "stored facts",
		FactExpansions: expansions,
		ArgumentText:   "stored argument",
		Authorities:    []uuid.UUID{authorityID},
	}))

	_, err := f.svc.UpdateDraft(f.sess, ArgumentDraftUpdate{
		Position:    strPtr("Appellant"),
		FactPattern: strPtr("typed before selecting"),
		Expansions:  &models.FactExpansions{Chronology: "typed"},
	})
	require.NoError(t, err)

	view, err := f.svc.SelectMatter(ctx, f.sess, matter.ID)
	require.NoError(t, err)

	d := view.Drafts.Argument
	require.NotNil(t, d.MatterID)
	assert.Equal(t, matter.ID, *d.MatterID)
	assert.Equal(t, models.PositionDefendant, d.Position)
	assert.Equal(t, "stored facts", d.FactPattern)
	assert.Equal(t, expansions, d.Expansions)
	assert.Equal(t, "stored argument", d.ArgumentText)
	assert.Equal(t, []uuid.UUID{authorityID}, d.AuthorityIDs)
	assert.NotNil(t, d.LastSavedID)
}

func TestSelectMatter_DefaultsFromMatter(t *testing.T) {
	matter := highCourtMatter()
	f := newArgumentFixture(matter)
	ctx := context.Background()

	_, err := f.svc.UpdateDraft(f.sess, ArgumentDraftUpdate{
		Position:   strPtr("Respondent"),
		Expansions: &models.FactExpansions{DisputedFacts: "typed"},
	})
	require.NoError(t, err)

	view, err := f.svc.SelectMatter(ctx, f.sess, matter.ID)
	require.NoError(t, err)
	d := view.Drafts.Argument
	assert.Equal(t, models.PositionClaimant, d.Position)
	assert.Equal(t, "Supply contract dispute", d.FactPattern)
	assert.Equal(t, models.FactExpansions{}, d.Expansions)
	assert.Empty(t, d.ArgumentText)
	assert.Nil(t, d.LastSavedID)

	_, err = f.svc.SelectMatter(ctx, f.sess, uuid.New())
	assert.ErrorIs(t, err, ErrMatterNotFound)
}

func TestUpdateDraft_RejectsUnknownPosition(t *testing.T) {
	f := newArgumentFixture()
	_, err := f.svc.UpdateDraft(f.sess, ArgumentDraftUpdate{Position: strPtr("Intervener")})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestArgumentGenerate_SecondTriggerWhileInFlight(t *testing.T) {
	matter := highCourtMatter()
	f := newArgumentFixture(matter)
	ctx := context.Background()
	_, err := f.svc.SelectMatter(ctx, f.sess, matter.ID)
	require.NoError(t, err)

	release := make(chan struct{})
	f.invoker.fn = func(generation.Request) (*generation.Result, error) {
		<-release
		return &generation.Result{Text: "first"}, nil
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := f.svc.Generate(ctx, f.sess)
		assert.NoError(t, err)
	}()

	require.Eventually(t, func() bool { return f.invoker.callCount() == 1 }, time.Second, time.Millisecond)

	_, err = f.svc.Generate(ctx, f.sess)
	assert.ErrorIs(t, err, session.ErrInFlight)
	assert.Equal(t, 1, f.invoker.callCount(), "the second trigger must not reach the model")

	close(release)
	wg.Wait()
	assert.Equal(t, "first", f.sess.View().Drafts.Argument.ArgumentText)
}

func TestArgument_StaleGenerateIsDiscarded(t *testing.T) {
	matter := highCourtMatter()
	f := newArgumentFixture(matter)
	ctx := context.Background()
	_, err := f.svc.SelectMatter(ctx, f.sess, matter.ID)
	require.NoError(t, err)
	_, err = f.svc.UpdateDraft(f.sess, ArgumentDraftUpdate{ArgumentText: strPtr("existing draft")})
	require.NoError(t, err)

	release := make(chan struct{})
	f.invoker.fn = func(req generation.Request) (*generation.Result, error) {
		if strings.Contains(req.Prompt, "FACT CORRECTIONS") {
			return &generation.Result{Text: "corrected draft"}, nil
		}
		<-release
		return &generation.Result{Text: "slow fresh draft"}, nil
	}

	done := make(chan *SessionResult, 1)
	go func() {
		res, err := f.svc.Generate(ctx, f.sess)
		assert.NoError(t, err)
		done <- res
	}()
	require.Eventually(t, func() bool { return f.invoker.callCount() == 1 }, time.Second, time.Millisecond)

	corrected, err := f.svc.CorrectFacts(ctx, f.sess, "The contract was signed in February, not January")
	require.NoError(t, err)
	assert.True(t, corrected.Applied)

	close(release)
	stale := <-done
	assert.False(t, stale.Applied)
	assert.Equal(t, "corrected draft", stale.Session.Drafts.Argument.ArgumentText)
	assert.Equal(t, session.PhaseIdle, stale.Session.Controls[session.ArgumentGenerate.Name])
	assert.Equal(t, models.RunStatusDiscarded, f.runs.status(stale.RunID))
}

// startBlockedGenerate runs Generate until the model is reached and returns
// a function that releases the model and waits for the result
func startBlockedGenerate(t *testing.T, f *argumentFixture, reply string) func() *SessionResult {
	release := make(chan struct{})
	f.invoker.fn = func(generation.Request) (*generation.Result, error) {
		<-release
		return &generation.Result{Text: reply}, nil
	}
	calls := f.invoker.callCount()

	done := make(chan *SessionResult, 1)
	go func() {
		res, err := f.svc.Generate(context.Background(), f.sess)
		assert.NoError(t, err)
		done <- res
	}()
	require.Eventually(t, func() bool { return f.invoker.callCount() == calls+1 }, time.Second, time.Millisecond)

	return func() *SessionResult {
		close(release)
		return <-done
	}
}

func TestArgumentGenerate_MatterSwitchDiscardsResult(t *testing.T) {
	first := highCourtMatter()
	second := &models.Matter{
		ID:          uuid.New(),
		Name:        "Brown v Green",
		Court:       "County Court at Leeds",
		MatterType:  models.MatterTypeCivilLitigation,
		Status:      models.MatterStatusActive,
		Description: "Boundary dispute",
	}
	f := newArgumentFixture(first, second)
	ctx := context.Background()
	_, err := f.svc.SelectMatter(ctx, f.sess, first.ID)
	require.NoError(t, err)

	finish := startBlockedGenerate(t, f, "Argument for the High Court claim")

	_, err = f.svc.SelectMatter(ctx, f.sess, second.ID)
	require.NoError(t, err)

	res := finish()
	assert.False(t, res.Applied)
	require.NotNil(t, res.Session.Drafts.Argument.MatterID)
	assert.Equal(t, second.ID, *res.Session.Drafts.Argument.MatterID)
	assert.Empty(t, res.Session.Drafts.Argument.ArgumentText)
	assert.Equal(t, "Boundary dispute", res.Session.Drafts.Argument.FactPattern)
	assert.False(t, res.Session.UnsavedArgument)
	assert.Equal(t, models.RunStatusDiscarded, f.runs.status(res.RunID))

	_, err = f.svc.Save(ctx, f.sess, SaveArgumentRequest{})
	assert.ErrorIs(t, err, ErrNothingToSave)
	assert.Empty(t, f.arguments.rows)
}

func TestArgumentGenerate_ManualEditDiscardsResult(t *testing.T) {
	matter := highCourtMatter()
	f := newArgumentFixture(matter)
	ctx := context.Background()
	_, err := f.svc.SelectMatter(ctx, f.sess, matter.ID)
	require.NoError(t, err)

	finish := startBlockedGenerate(t, f, "model draft")

	_, err = f.svc.UpdateDraft(f.sess, ArgumentDraftUpdate{ArgumentText: strPtr("counsel's own wording")})
	require.NoError(t, err)

	res := finish()
	assert.False(t, res.Applied)
	assert.Equal(t, "counsel's own wording", res.Session.Drafts.Argument.ArgumentText)
	assert.Equal(t, session.PhaseIdle, res.Session.Controls[session.ArgumentGenerate.Name])
}

func TestArgumentGenerate_FactEditKeepsResult(t *testing.T) {
	matter := highCourtMatter()
	f := newArgumentFixture(matter)
	ctx := context.Background()
	_, err := f.svc.SelectMatter(ctx, f.sess, matter.ID)
	require.NoError(t, err)

	finish := startBlockedGenerate(t, f, "model draft")

	_, err = f.svc.UpdateDraft(f.sess, ArgumentDraftUpdate{FactPattern: strPtr("Delivery was six weeks late")})
	require.NoError(t, err)

	res := finish()
	assert.True(t, res.Applied)
	assert.Equal(t, "model draft", res.Session.Drafts.Argument.ArgumentText)
	assert.True(t, res.Session.UnsavedArgument)
}

func TestArgumentCorrectFacts_RequiresCorrections(t *testing.T) {
	f := newArgumentFixture()
	_, err := f.svc.CorrectFacts(context.Background(), f.sess, " ")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, f.invoker.callCount())
}

func TestArgumentGenerateStructure(t *testing.T) {
	matter := highCourtMatter()
	f := newArgumentFixture(matter)
	ctx := context.Background()
	_, err := f.svc.SelectMatter(ctx, f.sess, matter.ID)
	require.NoError(t, err)

	f.invoker.fn = jsonReply(`{
		"issues": ["Was the delay a repudiatory breach?"],
		"propositions": [{"proposition": "Time was of the essence", "strength": "Strong"}],
		"full_argument_markdown": "## Argument\n\nTime was of the essence."
	}`)

	res, err := f.svc.GenerateStructure(ctx, f.sess)
	require.NoError(t, err)

	d := res.Session.Drafts.Argument
	require.NotNil(t, d.Structure)
	assert.Equal(t, []string{"Was the delay a repudiatory breach?"}, d.Structure.Issues)
	require.Len(t, d.Structure.Propositions, 1)
	assert.Equal(t, models.StrengthStrong, d.Structure.Propositions[0].Strength)
	assert.Empty(t, d.Structure.Propositions[0].Authorities)
	assert.NotNil(t, d.Structure.CounterArguments)
	assert.Equal(t, "## Argument\n\nTime was of the essence.", d.ArgumentText)
	assert.True(t, res.Session.HasUnsavedChanges)
}

func TestArgumentCoach_DoesNotMarkUnsaved(t *testing.T) {
	matter := highCourtMatter()
	f := newArgumentFixture(matter)
	ctx := context.Background()
	_, err := f.svc.SelectMatter(ctx, f.sess, matter.ID)
	require.NoError(t, err)

	f.invoker.fn = jsonReply(`{"strategic_questions": ["What evidence proves the delivery date?"], "overall_assessment": "Promising"}`)

	res, err := f.svc.Coach(ctx, f.sess)
	require.NoError(t, err)
	require.NotNil(t, res.Session.Drafts.Argument.Coaching)
	assert.Equal(t, []string{"What evidence proves the delivery date?"}, res.Session.Drafts.Argument.Coaching.StrategicQuestions)
	assert.NotNil(t, res.Session.Drafts.Argument.Coaching.Weaknesses)
	assert.False(t, res.Session.HasUnsavedChanges)
	assert.Contains(t, f.invoker.lastPrompt(), "Check compliance with High Court practice directions")
}

func TestArgumentCoach_NeedsFactsOrArgument(t *testing.T) {
	f := newArgumentFixture()
	_, err := f.svc.Coach(context.Background(), f.sess)
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, prompt.ErrMissingInput)
	assert.Zero(t, f.invoker.callCount())
}

func TestArgumentGenerate_FailureLeavesDraft(t *testing.T) {
	matter := highCourtMatter()
	f := newArgumentFixture(matter)
	ctx := context.Background()
	_, err := f.svc.SelectMatter(ctx, f.sess, matter.ID)
	require.NoError(t, err)
	_, err = f.svc.UpdateDraft(f.sess, ArgumentDraftUpdate{ArgumentText: strPtr("keep me")})
	require.NoError(t, err)

	f.invoker.fn = func(generation.Request) (*generation.Result, error) {
		return nil, generation.ErrGenerationFailed
	}

	_, err = f.svc.Generate(ctx, f.sess)
	assert.ErrorIs(t, err, generation.ErrGenerationFailed)

	view := f.sess.View()
	assert.Equal(t, "keep me", view.Drafts.Argument.ArgumentText)
	assert.False(t, view.HasUnsavedChanges)
	assert.Equal(t, session.PhaseIdle, view.Controls[session.ArgumentGenerate.Name])
	assert.NotEmpty(t, view.Errors[session.ArgumentGenerate.Name])
}

package service

import (
	"fmt"
	"strings"
	"time"

	"jurisai-backend/generation"
	"jurisai-backend/models"
	"jurisai-backend/prompt"

	"github.com/google/uuid"
)

// DefaultTitleMaxLen bounds titles derived from generated text
const DefaultTitleMaxLen = 100

// DeriveTitle takes the first line of text with leading heading markers
// stripped, truncated to maxLen characters
func DeriveTitle(text string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultTitleMaxLen
	}
	line := strings.TrimSpace(text)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimLeft(strings.TrimSpace(line), "#")
	return prompt.Truncate(strings.TrimSpace(line), maxLen)
}

// NextVersion returns the version number and parent id for a new argument
// saved after prev. A nil prev starts the chain at 1.
func NextVersion(prev *models.Argument) (int, *uuid.UUID) {
	if prev == nil {
		return 1, nil
	}
	id := prev.ID
	return prev.VersionNumber + 1, &id
}

// DefaultDocumentTitle names a document saved without a title
func DefaultDocumentTitle(t models.DocumentType, now time.Time) string {
	return fmt.Sprintf("%s - %s", t, now.Format("02/01/2006"))
}

// AuthorityFromResearch maps a research suggestion onto a storable authority.
// matterID may be nil when research ran without a matter.
func AuthorityFromResearch(r models.ResearchAuthority, matterID *uuid.UUID) *models.LegalAuthority {
	keyQuotes := []string{}
	if strings.TrimSpace(r.KeyQuote) != "" {
		keyQuotes = append(keyQuotes, r.KeyQuote)
	}
	tags := []string{}
	if r.Type != "" {
		tags = append(tags, r.Type)
	}
	return &models.LegalAuthority{
		MatterID:       matterID,
		Title:          r.Title,
		Citation:       r.Citation,
		Court:          r.Court,
		Year:           r.Year,
		AuthorityType:  models.AuthorityTypeFromSource(r.Type),
		LegalPrinciple: r.LegalPrinciple,
		Relevance:      r.Relevance,
		KeyQuotes:      keyQuotes,
		Tags:           tags,
		Validity:       models.ValidityActive,
	}
}

// ProjectResearch decodes a research result
func ProjectResearch(r *generation.Result) (*models.ResearchResult, error) {
	out := &models.ResearchResult{}
	if err := r.Decode(out); err != nil {
		return nil, projectionError(err)
	}
	out.Normalize()
	return out, nil
}

// ProjectArgumentStructure decodes an argument structure result
func ProjectArgumentStructure(r *generation.Result) (*models.ArgumentStructure, error) {
	out := &models.ArgumentStructure{}
	if err := r.Decode(out); err != nil {
		return nil, projectionError(err)
	}
	out.Normalize()
	return out, nil
}

// ProjectJudgment decodes a judgment critique
func ProjectJudgment(r *generation.Result) (*models.JudgmentAnalysis, error) {
	out := &models.JudgmentAnalysis{}
	if err := r.Decode(out); err != nil {
		return nil, projectionError(err)
	}
	out.Normalize()
	return out, nil
}

// ProjectCoaching decodes coaching feedback
func ProjectCoaching(r *generation.Result) (*models.CoachingFeedback, error) {
	out := &models.CoachingFeedback{}
	if err := r.Decode(out); err != nil {
		return nil, projectionError(err)
	}
	out.Normalize()
	return out, nil
}

// projectionError reports undecodable output as a generation failure
func projectionError(err error) error {
	return fmt.Errorf("%w: %w", generation.ErrGenerationFailed, err)
}

package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"jurisai-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAnalytics(t *testing.T) {
	var authorities []*models.LegalAuthority
	for year := 2010; year <= 2023; year++ {
		authorities = append(authorities, &models.LegalAuthority{
			Title:          fmt.Sprintf("Case %d", year),
			Year:           fmt.Sprint(year),
			Court:          "Court of Appeal",
			AuthorityType:  models.AuthorityTypeCaseLaw,
			LegalPrinciple: "Duty of care, breach and damages.",
		})
	}
	longTitle := strings.Repeat("Very Long Authority Title ", 3)
	for i := 0; i < 3; i++ {
		authorities = append(authorities, &models.LegalAuthority{
			Title:          longTitle,
			AuthorityType:  models.AuthorityTypeStatute,
			Court:          "The Supreme Court of the United Kingdom sitting in London",
			LegalPrinciple: "The burden of proof and the standard of proof",
		})
	}

	matters := []*models.Matter{
		{MatterType: models.MatterTypeAppeal, Status: models.MatterStatusActive},
		{MatterType: models.MatterTypeAppeal, Status: models.MatterStatusClosed},
		{MatterType: models.MatterTypeEmployment, Status: models.MatterStatusActive},
	}
	documents := []*models.Document{
		{Status: models.DocumentStatusDraft},
		{Status: models.DocumentStatusDraft},
		{Status: models.DocumentStatusFinal},
	}

	a := BuildAnalytics(authorities, matters, documents)

	assert.Equal(t, 17, a.TotalAuthorities)
	assert.Equal(t, 3, a.TotalMatters)
	assert.Equal(t, 3, a.TotalDocuments)
	assert.Equal(t, 2, a.ActiveMatters)
	assert.Equal(t, 5.7, a.AvgAuthoritiesPerMatter)

	require.Len(t, a.CitationTrends, 10)
	assert.Equal(t, "2014", a.CitationTrends[0].Name)
	assert.Equal(t, "2023", a.CitationTrends[9].Name)

	assert.Equal(t, []models.Bucket{{Name: "Case Law", Count: 14}, {Name: "Statute", Count: 3}}, a.AuthorityTypes)

	require.Len(t, a.TopAuthorities, 10)
	assert.Equal(t, longTitle[:40]+"...", a.TopAuthorities[0].Name)
	assert.Equal(t, 3, a.TopAuthorities[0].Count)
	assert.Equal(t, "Case 2010", a.TopAuthorities[1].Name, "short titles are not suffixed")

	require.Len(t, a.CourtDistribution, 2)
	assert.Equal(t, models.Bucket{Name: "Court of Appeal", Count: 14}, a.CourtDistribution[0])
	assert.Equal(t, models.Bucket{Name: "The Supreme Court of the Unite", Count: 3}, a.CourtDistribution[1])

	assert.Equal(t, []models.Bucket{{Name: "Appeal", Count: 2}, {Name: "Employment", Count: 1}}, a.MatterTypes)
	assert.Equal(t, []models.Bucket{{Name: "Draft", Count: 2}, {Name: "Final", Count: 1}}, a.DocumentStatuses)

	keywords := map[string]int{}
	for _, b := range a.LegalPrincipleKeywords {
		keywords[b.Name] = b.Count
	}
	assert.Equal(t, 14, keywords["duty"])
	assert.Equal(t, 14, keywords["breach"])
	assert.Equal(t, 6, keywords["proof"])
	assert.Equal(t, 3, keywords["burden"])
	assert.NotContains(t, keywords, "care")
}

func TestBuildAnalytics_Empty(t *testing.T) {
	a := BuildAnalytics(nil, nil, nil)
	assert.Zero(t, a.AvgAuthoritiesPerMatter)
	assert.Empty(t, a.CitationTrends)
	assert.NotNil(t, a.TopAuthorities)
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	matters := newMemMatters()
	for i := 0; i < 7; i++ {
		status := models.MatterStatusActive
		if i%2 == 1 {
			status = models.MatterStatusClosed
		}
		require.NoError(t, matters.Create(ctx, &models.Matter{Name: fmt.Sprintf("Matter %d", i), Status: status}))
	}
	authorities := &memAuthorities{}
	for i := 0; i < 12; i++ {
		require.NoError(t, authorities.Create(ctx, &models.LegalAuthority{Title: fmt.Sprint(i)}))
	}
	documents := &memDocuments{}
	require.NoError(t, documents.Create(ctx, &models.Document{MatterID: uuid.New(), Title: "Defence"}))

	svc := NewAnalyticsService(
		AnalyticsWithMatterRepository(matters),
		AnalyticsWithAuthorityRepository(authorities),
		AnalyticsWithDocumentRepository(documents),
	)

	d, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Len(t, d.RecentMatters, 5)
	assert.Len(t, d.RecentAuthorities, 10)
	assert.Equal(t, "11", d.RecentAuthorities[0].Title)
	assert.Len(t, d.RecentDocuments, 1)
	assert.Equal(t, 4, d.ActiveMatters)

	a, err := svc.Analytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12, a.TotalAuthorities)
	assert.Equal(t, 7, a.TotalMatters)
}

func TestAnalytics_RequiresRepositories(t *testing.T) {
	_, err := NewAnalyticsService().Dashboard(context.Background())
	assert.Error(t, err)
}

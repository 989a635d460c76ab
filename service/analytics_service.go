package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"unicode"

	"jurisai-backend/models"
	"jurisai-backend/prompt"

	"golang.org/x/sync/errgroup"
)

const (
	dashboardRecentMatters     = 5
	dashboardRecentAuthorities = 10
	dashboardRecentDocuments   = 5

	trendYears          = 10
	topAuthorityCount   = 10
	topAuthorityTitle   = 40
	topCourtCount       = 8
	topCourtName        = 30
	topPrincipleCount   = 10
	minPrincipleKeyword = 4
)

// principleKeywords are the terms counted across legal principles
var principleKeywords = []string{
	"duty", "breach", "negligence", "contract", "damages", "liability",
	"fair", "reasonable", "standard", "test", "burden", "proof", "evidence",
}

// AnalyticsService builds the dashboard and the analytics view
type AnalyticsService struct {
	matterRepo    MatterStore
	authorityRepo AuthorityStore
	documentRepo  DocumentStore
}

// AnalyticsServiceOption is a functional option for AnalyticsService
type AnalyticsServiceOption func(*AnalyticsService)

// AnalyticsWithMatterRepository sets the matter repository
func AnalyticsWithMatterRepository(repo MatterStore) AnalyticsServiceOption {
	return func(s *AnalyticsService) {
		s.matterRepo = repo
	}
}

// AnalyticsWithAuthorityRepository sets the authority repository
func AnalyticsWithAuthorityRepository(repo AuthorityStore) AnalyticsServiceOption {
	return func(s *AnalyticsService) {
		s.authorityRepo = repo
	}
}

// AnalyticsWithDocumentRepository sets the document repository
func AnalyticsWithDocumentRepository(repo DocumentStore) AnalyticsServiceOption {
	return func(s *AnalyticsService) {
		s.documentRepo = repo
	}
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(opts ...AnalyticsServiceOption) *AnalyticsService {
	s := &AnalyticsService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AnalyticsService) ready() error {
	switch {
	case s.matterRepo == nil:
		return errors.New("matter repository not set")
	case s.authorityRepo == nil:
		return errors.New("authority repository not set")
	case s.documentRepo == nil:
		return errors.New("document repository not set")
	}
	return nil
}

// Dashboard loads the landing page summary
func (s *AnalyticsService) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	d := &models.Dashboard{}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.RecentMatters, err = s.matterRepo.List(ctx, models.MatterFilter{Limit: dashboardRecentMatters})
		return err
	})
	g.Go(func() (err error) {
		d.RecentAuthorities, err = s.authorityRepo.List(ctx, dashboardRecentAuthorities)
		return err
	})
	g.Go(func() (err error) {
		d.RecentDocuments, err = s.documentRepo.List(ctx, dashboardRecentDocuments)
		return err
	})
	g.Go(func() (err error) {
		d.ActiveMatters, err = s.matterRepo.CountByStatus(ctx, models.MatterStatusActive)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}

// Analytics loads every matter, authority and document and aggregates them
func (s *AnalyticsService) Analytics(ctx context.Context) (*models.Analytics, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	var (
		matters     []*models.Matter
		authorities []*models.LegalAuthority
		documents   []*models.Document
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		matters, err = s.matterRepo.List(ctx, models.MatterFilter{})
		return err
	})
	g.Go(func() (err error) {
		authorities, err = s.authorityRepo.List(ctx, 0)
		return err
	})
	g.Go(func() (err error) {
		documents, err = s.documentRepo.List(ctx, 0)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return BuildAnalytics(authorities, matters, documents), nil
}

// BuildAnalytics aggregates the analytics view from loaded records
func BuildAnalytics(authorities []*models.LegalAuthority, matters []*models.Matter, documents []*models.Document) *models.Analytics {
	a := &models.Analytics{
		TotalAuthorities: len(authorities),
		TotalMatters:     len(matters),
		TotalDocuments:   len(documents),
	}

	years := counter{}
	types := counter{}
	titles := counter{}
	courts := counter{}
	keywords := counter{}
	isKeyword := make(map[string]bool, len(principleKeywords))
	for _, k := range principleKeywords {
		isKeyword[k] = true
	}

	for _, auth := range authorities {
		if auth.Year != "" {
			years.add(auth.Year)
		}
		types.add(string(auth.AuthorityType))
		titles.add(auth.Title)
		if auth.Court != "" {
			courts.add(auth.Court)
		}
		for _, word := range words(auth.LegalPrinciple) {
			if isKeyword[word] && len(word) >= minPrincipleKeyword {
				keywords.add(word)
			}
		}
	}

	trends := years.byName()
	if len(trends) > trendYears {
		trends = trends[len(trends)-trendYears:]
	}
	a.CitationTrends = trends
	a.AuthorityTypes = types.byName()

	a.TopAuthorities = top(titles.byCount(), topAuthorityCount, topAuthorityTitle, "...")
	a.CourtDistribution = top(courts.byCount(), topCourtCount, topCourtName, "")
	a.LegalPrincipleKeywords = top(keywords.byCount(), topPrincipleCount, 0, "")

	matterTypes := counter{}
	for _, m := range matters {
		matterTypes.add(string(m.MatterType))
		if m.Status == models.MatterStatusActive {
			a.ActiveMatters++
		}
	}
	a.MatterTypes = matterTypes.byName()

	statuses := counter{}
	for _, d := range documents {
		statuses.add(string(d.Status))
	}
	a.DocumentStatuses = statuses.byName()

	if len(matters) > 0 {
		avg := float64(len(authorities)) / float64(len(matters))
		a.AvgAuthoritiesPerMatter = math.Round(avg*10) / 10
	}

	return a
}

type counter map[string]int

func (c counter) add(name string) {
	c[name]++
}

// byName returns buckets in ascending name order
func (c counter) byName() []models.Bucket {
	out := make([]models.Bucket, 0, len(c))
	for name, n := range c {
		out = append(out, models.Bucket{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// byCount returns buckets with the largest count first, ties by name
func (c counter) byCount() []models.Bucket {
	out := c.byName()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// top keeps the first n buckets and truncates names to width. suffix is
// appended only to names that were actually cut.
func top(buckets []models.Bucket, n, width int, suffix string) []models.Bucket {
	if len(buckets) > n {
		buckets = buckets[:n]
	}
	if width <= 0 {
		return buckets
	}
	for i, b := range buckets {
		if cut := prompt.Truncate(b.Name, width); cut != b.Name {
			buckets[i].Name = cut + suffix
		}
	}
	return buckets
}

func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}

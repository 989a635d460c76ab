package models

// Dashboard is the landing page summary
type Dashboard struct {
	RecentMatters     []*Matter         `json:"recent_matters"`
	RecentAuthorities []*LegalAuthority `json:"recent_authorities"`
	RecentDocuments   []*Document       `json:"recent_documents"`
	ActiveMatters     int               `json:"active_matters"`
}

// Bucket is one bar or slice of a chart
type Bucket struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Analytics is the aggregate view over all stored records
type Analytics struct {
	TotalAuthorities        int      `json:"total_authorities"`
	TotalMatters            int      `json:"total_matters"`
	TotalDocuments          int      `json:"total_documents"`
	ActiveMatters           int      `json:"active_matters"`
	AvgAuthoritiesPerMatter float64  `json:"avg_authorities_per_matter"`
	CitationTrends          []Bucket `json:"citation_trends"`
	AuthorityTypes          []Bucket `json:"authority_types"`
	TopAuthorities          []Bucket `json:"top_authorities"`
	CourtDistribution       []Bucket `json:"court_distribution"`
	MatterTypes             []Bucket `json:"matter_types"`
	DocumentStatuses        []Bucket `json:"document_statuses"`
	LegalPrincipleKeywords  []Bucket `json:"legal_principle_keywords"`
}

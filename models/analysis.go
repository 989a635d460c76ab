package models

import "fmt"

// Impact grades how serious a coaching weakness is
type Impact string

const (
	ImpactCritical Impact = "Critical"
	ImpactModerate Impact = "Moderate"
	ImpactMinor    Impact = "Minor"
)

// Impacts lists the allowed impact levels
var Impacts = []string{string(ImpactCritical), string(ImpactModerate), string(ImpactMinor)}

// ParseImpact validates an impact level
func ParseImpact(s string) (Impact, error) {
	switch Impact(s) {
	case ImpactCritical, ImpactModerate, ImpactMinor:
		return Impact(s), nil
	}
	return "", fmt.Errorf("invalid impact %q", s)
}

// Strength grades an appeal point or argument proposition
type Strength string

const (
	StrengthStrong   Strength = "Strong"
	StrengthModerate Strength = "Moderate"
	StrengthWeak     Strength = "Weak"
)

// Strengths lists the allowed strength levels
var Strengths = []string{string(StrengthStrong), string(StrengthModerate), string(StrengthWeak)}

// ParseStrength validates a strength level
func ParseStrength(s string) (Strength, error) {
	switch Strength(s) {
	case StrengthStrong, StrengthModerate, StrengthWeak:
		return Strength(s), nil
	}
	return "", fmt.Errorf("invalid strength %q", s)
}

// ResearchAuthority is one authority suggested by the research flow
type ResearchAuthority struct {
	Type           string `json:"type"`
	Citation       string `json:"citation"`
	Title          string `json:"title"`
	Court          string `json:"court,omitempty"`
	Year           string `json:"year,omitempty"`
	LegalPrinciple string `json:"legal_principle,omitempty"`
	Relevance      string `json:"relevance,omitempty"`
	KeyQuote       string `json:"key_quote,omitempty"`
}

// ResearchResult is the structured output of a research query
type ResearchResult struct {
	Authorities []ResearchAuthority `json:"authorities"`
	Summary     string              `json:"summary,omitempty"`
}

// Normalize replaces nil arrays with empty ones
func (r *ResearchResult) Normalize() {
	if r.Authorities == nil {
		r.Authorities = []ResearchAuthority{}
	}
}

// ArgumentProposition is one step of a structured argument
type ArgumentProposition struct {
	Proposition string   `json:"proposition"`
	Reasoning   string   `json:"reasoning,omitempty"`
	Authorities []string `json:"authorities"`
	Strength    Strength `json:"strength,omitempty"`
}

// CounterArgument is an anticipated point from the other side
type CounterArgument struct {
	Counter      string `json:"counter"`
	HowToAddress string `json:"how_to_address,omitempty"`
}

// ArgumentStructure is the structured output of argument drafting
type ArgumentStructure struct {
	Issues               []string              `json:"issues"`
	Propositions         []ArgumentProposition `json:"propositions"`
	AuthoritiesReliedOn  []string              `json:"authorities_relied_on"`
	CounterArguments     []CounterArgument     `json:"counter_arguments"`
	FullArgumentMarkdown string                `json:"full_argument_markdown,omitempty"`
}

// Normalize replaces nil arrays with empty ones
func (a *ArgumentStructure) Normalize() {
	if a.Issues == nil {
		a.Issues = []string{}
	}
	if a.Propositions == nil {
		a.Propositions = []ArgumentProposition{}
	}
	for i := range a.Propositions {
		if a.Propositions[i].Authorities == nil {
			a.Propositions[i].Authorities = []string{}
		}
	}
	if a.AuthoritiesReliedOn == nil {
		a.AuthoritiesReliedOn = []string{}
	}
	if a.CounterArguments == nil {
		a.CounterArguments = []CounterArgument{}
	}
}

// CaseInformation identifies an analysed judgment
type CaseInformation struct {
	CaseName string   `json:"case_name,omitempty"`
	Citation string   `json:"citation,omitempty"`
	Court    string   `json:"court,omitempty"`
	Judges   []string `json:"judges"`
	Date     string   `json:"date,omitempty"`
}

// ErrorOfLaw is a candidate appeal ground on the law
type ErrorOfLaw struct {
	Error               string   `json:"error"`
	CorrectPosition     string   `json:"correct_position,omitempty"`
	SupportingAuthority string   `json:"supporting_authority,omitempty"`
	Impact              string   `json:"impact,omitempty"`
	Strength            Strength `json:"strength,omitempty"`
}

// ErrorOfFact is a candidate appeal ground on the facts
type ErrorOfFact struct {
	Finding       string `json:"finding"`
	Problem       string `json:"problem,omitempty"`
	EvidenceIssue string `json:"evidence_issue,omitempty"`
}

// ProceduralIrregularity is a procedural defect in the hearing
type ProceduralIrregularity struct {
	Irregularity string `json:"irregularity"`
	RuleBreached string `json:"rule_breached,omitempty"`
	Impact       string `json:"impact,omitempty"`
}

// MisappliedAuthority is an authority the court cited wrongly
type MisappliedAuthority struct {
	CaseName           string `json:"case_name"`
	Citation           string `json:"citation,omitempty"`
	HowMisapplied      string `json:"how_misapplied,omitempty"`
	CorrectApplication string `json:"correct_application,omitempty"`
}

// IgnoredAuthority is an authority the court should have considered
type IgnoredAuthority struct {
	CaseName           string `json:"case_name"`
	Citation           string `json:"citation,omitempty"`
	WhyRelevant        string `json:"why_relevant,omitempty"`
	ImpactIfConsidered string `json:"impact_if_considered,omitempty"`
}

// PointToRaise is an actionable point for the next submission
type PointToRaise struct {
	PointNumber   float64 `json:"point_number,omitempty"`
	SpecificError string  `json:"specific_error"`
	WhyItMatters  string  `json:"why_it_matters,omitempty"`
	RemedySought  string  `json:"remedy_sought,omitempty"`
}

// StrategicRecommendations summarises the litigation advice
type StrategicRecommendations struct {
	ShouldAppeal        string   `json:"should_appeal,omitempty"`
	BestGrounds         []string `json:"best_grounds"`
	AlternativeRemedies []string `json:"alternative_remedies"`
	RiskAssessment      string   `json:"risk_assessment,omitempty"`
}

// JudgmentAnalysis is the structured critique of a judgment
type JudgmentAnalysis struct {
	CaseInformation           *CaseInformation          `json:"case_information,omitempty"`
	IssuesDecided             []string                  `json:"issues_decided"`
	IssuesNotDecided          []string                  `json:"issues_not_decided"`
	ErrorsOfLaw               []ErrorOfLaw              `json:"errors_of_law"`
	ErrorsOfFact              []ErrorOfFact             `json:"errors_of_fact"`
	ProceduralIrregularities  []ProceduralIrregularity  `json:"procedural_irregularities"`
	MisappliedAuthorities     []MisappliedAuthority     `json:"misapplied_authorities"`
	CounterAuthoritiesIgnored []IgnoredAuthority        `json:"counter_authorities_ignored"`
	ReasoningWeaknesses       []string                  `json:"reasoning_weaknesses"`
	ClearPointsToRaise        []PointToRaise            `json:"clear_points_to_raise"`
	StrategicRecommendations  *StrategicRecommendations `json:"strategic_recommendations,omitempty"`
	ExecutiveSummary          string                    `json:"executive_summary,omitempty"`
}

// Normalize replaces nil arrays with empty ones
func (j *JudgmentAnalysis) Normalize() {
	if j.CaseInformation != nil && j.CaseInformation.Judges == nil {
		j.CaseInformation.Judges = []string{}
	}
	if j.IssuesDecided == nil {
		j.IssuesDecided = []string{}
	}
	if j.IssuesNotDecided == nil {
		j.IssuesNotDecided = []string{}
	}
	if j.ErrorsOfLaw == nil {
		j.ErrorsOfLaw = []ErrorOfLaw{}
	}
	if j.ErrorsOfFact == nil {
		j.ErrorsOfFact = []ErrorOfFact{}
	}
	if j.ProceduralIrregularities == nil {
		j.ProceduralIrregularities = []ProceduralIrregularity{}
	}
	if j.MisappliedAuthorities == nil {
		j.MisappliedAuthorities = []MisappliedAuthority{}
	}
	if j.CounterAuthoritiesIgnored == nil {
		j.CounterAuthoritiesIgnored = []IgnoredAuthority{}
	}
	if j.ReasoningWeaknesses == nil {
		j.ReasoningWeaknesses = []string{}
	}
	if j.ClearPointsToRaise == nil {
		j.ClearPointsToRaise = []PointToRaise{}
	}
	if j.StrategicRecommendations != nil {
		if j.StrategicRecommendations.BestGrounds == nil {
			j.StrategicRecommendations.BestGrounds = []string{}
		}
		if j.StrategicRecommendations.AlternativeRemedies == nil {
			j.StrategicRecommendations.AlternativeRemedies = []string{}
		}
	}
}

// PracticeDirectionCheck reports compliance with court practice directions
type PracticeDirectionCheck struct {
	Compliant   bool     `json:"compliant"`
	Issues      []string `json:"issues"`
	Suggestions []string `json:"suggestions"`
}

// Weakness is a coaching point with a graded impact
type Weakness struct {
	Weakness string `json:"weakness"`
	Impact   Impact `json:"impact,omitempty"`
	HowToFix string `json:"how_to_fix,omitempty"`
}

// CoachingFeedback is the structured output of the coaching flow
type CoachingFeedback struct {
	StrategicQuestions       []string                `json:"strategic_questions"`
	PracticeDirectionCheck   *PracticeDirectionCheck `json:"practice_direction_check,omitempty"`
	Weaknesses               []Weakness              `json:"weaknesses"`
	Strengths                []string                `json:"strengths"`
	ImmediateImprovements    []string                `json:"immediate_improvements"`
	OpponentCounterArguments []CounterArgument       `json:"opponent_counter_arguments"`
	OverallAssessment        string                  `json:"overall_assessment,omitempty"`
}

// Normalize replaces nil arrays with empty ones
func (c *CoachingFeedback) Normalize() {
	if c.StrategicQuestions == nil {
		c.StrategicQuestions = []string{}
	}
	if c.PracticeDirectionCheck != nil {
		if c.PracticeDirectionCheck.Issues == nil {
			c.PracticeDirectionCheck.Issues = []string{}
		}
		if c.PracticeDirectionCheck.Suggestions == nil {
			c.PracticeDirectionCheck.Suggestions = []string{}
		}
	}
	if c.Weaknesses == nil {
		c.Weaknesses = []Weakness{}
	}
	if c.Strengths == nil {
		c.Strengths = []string{}
	}
	if c.ImmediateImprovements == nil {
		c.ImmediateImprovements = []string{}
	}
	if c.OpponentCounterArguments == nil {
		c.OpponentCounterArguments = []CounterArgument{}
	}
}

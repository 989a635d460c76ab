package prompt

import (
	"fmt"
	"strings"

	"jurisai-backend/models"
)

// Compile renders the template for task
func Compile(task models.Task, c *Context) (*Compiled, error) {
	if c == nil {
		c = &Context{}
	}
	switch task {
	case models.TaskResearch:
		return Research(c)
	case models.TaskArgument:
		return Argument(c)
	case models.TaskArgumentStructure:
		return ArgumentStructure(c)
	case models.TaskCorrectFacts:
		return CorrectFacts(c)
	case models.TaskDocument:
		return Document(c)
	case models.TaskJudgment:
		return Judgment(c)
	case models.TaskCoaching:
		return Coaching(c)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTask, task)
}

// Research asks for relevant UK authorities on a question of law
func Research(c *Context) (*Compiled, error) {
	if strings.TrimSpace(c.Query) == "" {
		return nil, missing("research query")
	}

	b := &Builder{}
	b.Text("You are a UK legal research assistant. Analyze the following legal issue and identify relevant UK legal authorities (case law, statutes, regulations).")
	b.Required("LEGAL ISSUE", c.Query, "")
	if c.Matter != nil {
		b.Optional("MATTER CONTEXT", lines(
			field("Matter", c.Matter.Name, DefaultFallback),
			field("Court", c.Matter.Court, DefaultFallback),
			field("Matter Type", string(c.Matter.MatterType), "N/A"),
		))
	}
	b.Optional("AUTHORITIES ALREADY LINKED", authorityLines(c.Authorities))
	b.Text(`Please provide:
1. A list of 5-8 relevant UK legal authorities
2. For each authority, include:
   - Type (Case Law, Statute, Statutory Instrument, etc.)
   - Full citation in proper UK legal format
   - Court (for cases) or year of enactment
   - Key legal principle or holding
   - Brief explanation of relevance (2-3 sentences)
   - One important quote if applicable
3. A short summary of the law on this issue

Focus on recent and binding authorities. Prioritize Supreme Court, Court of Appeal, and High Court decisions. Include relevant statutory provisions.`)

	return compiled(models.TaskResearch, b, true), nil
}

// Argument drafts a full argument as markdown
func Argument(c *Context) (*Compiled, error) {
	b, err := argumentContext(c)
	if err != nil {
		return nil, err
	}
	b.Required("YOUR TASK", fmt.Sprintf(`Draft a complete legal argument for the %s.
- Identify each legal issue and state the applicable test
- Apply the law to the facts, citing authorities in UK format
- Anticipate and answer the strongest counter-arguments
- Structure with headings and numbered paragraphs
- Format in markdown`, positionOf(c)), "")

	return compiled(models.TaskArgument, b, true), nil
}

// ArgumentStructure drafts the argument as a structured outline plus markdown
func ArgumentStructure(c *Context) (*Compiled, error) {
	b, err := argumentContext(c)
	if err != nil {
		return nil, err
	}
	b.Required("YOUR TASK", fmt.Sprintf(`Build a structured legal argument for the %s:
1. List the legal issues to be decided
2. Set out each legal proposition with its reasoning, the authorities supporting it, and its strength (Strong/Moderate/Weak)
3. List every authority relied on
4. Anticipate the counter-arguments and explain how to address each
5. Provide the full argument as markdown`, positionOf(c)), "")

	return compiled(models.TaskArgumentStructure, b, true), nil
}

// CorrectFacts revises an existing draft against fact corrections
func CorrectFacts(c *Context) (*Compiled, error) {
	if strings.TrimSpace(c.ArgumentText) == "" {
		return nil, missing("argument text")
	}
	if strings.TrimSpace(c.Corrections) == "" {
		return nil, missing("fact corrections")
	}
	b, err := argumentContext(c)
	if err != nil {
		return nil, err
	}
	b.Required("CURRENT ARGUMENT", c.ArgumentText, "")
	b.Required("FACT CORRECTIONS", c.Corrections, "")
	b.Required("YOUR TASK", `Revise the current argument so that it is consistent with the fact corrections.
- Change only what the corrections require and keep the existing structure
- Remove any reasoning that depended on the corrected facts
- Return the complete revised argument in markdown`, "")

	return compiled(models.TaskCorrectFacts, b, true), nil
}

// argumentContext renders the sections shared by every argument template
func argumentContext(c *Context) (*Builder, error) {
	if c.Matter == nil {
		return nil, ErrMatterRequired
	}
	court := strings.TrimSpace(c.Matter.Court)
	if court == "" {
		return nil, ErrCourtRequired
	}

	b := &Builder{}
	b.Text(fmt.Sprintf("You are a senior UK barrister preparing submissions for the %s.", positionOf(c)))
	b.Required("COURT LOCK", fmt.Sprintf(
		"This matter is before the %s. Confine all reasoning, procedure and authorities to the %s. Do not escalate or de-escalate the court level, and do not argue as if the matter were before any other court.",
		court, court), "")
	b.Required("MATTER", lines(
		field("Matter", c.Matter.Name, DefaultFallback),
		field("Client", c.Matter.Client, DefaultFallback),
		field("Court", court, DefaultFallback),
		field("Matter Type", string(c.Matter.MatterType), "N/A"),
		field("Position", string(c.Position), DefaultFallback),
	), "")
	b.Required("FACT PATTERN", c.FactPattern, "No facts provided yet")
	b.Optional("CHRONOLOGY", c.Expansions.Chronology)
	b.Optional("DISPUTED FACTS", c.Expansions.DisputedFacts)
	b.Optional("UNDISPUTED FACTS", c.Expansions.UndisputedFacts)
	b.Optional("LEGAL ISSUES RAISED", c.Expansions.LegalIssuesRaised)
	b.Optional("PROCEDURAL HISTORY", c.Expansions.ProceduralHistory)
	b.Optional("LOSS, HARM AND RISK", c.Expansions.LossHarmRisk)
	b.Optional("ISSUES UNDER RESEARCH", issueLines(c.Issues))
	b.Optional("LINKED AUTHORITIES", authorityLines(c.Authorities))
	b.Optional("UPLOADED DOCUMENTS", documentBlocks(c.Documents))
	return b, nil
}

func positionOf(c *Context) string {
	if c.Position == "" {
		return string(models.PositionClaimant)
	}
	return string(c.Position)
}

var documentInstructions = map[models.DocumentType]string{
	models.DocumentTypeParticularsOfClaim: "Draft comprehensive Particulars of Claim following CPR rules for UK civil litigation. Include proper headings, numbered paragraphs, clear statement of facts, legal basis for claim, and prayer for relief.",
	models.DocumentTypeDefence:            "Draft a robust Defence document following CPR rules. Include proper admissions, denials with reasons, counterclaim if applicable, and clear legal arguments.",
	models.DocumentTypeWitnessStatement:   "Draft a formal Witness Statement complying with CPR Part 32 and Practice Direction 32. Include proper heading, statement of truth, chronological narrative, and exhibits references.",
	models.DocumentTypeSkeletonArgument:   "Draft a persuasive Skeleton Argument for court submission. Include concise statement of issues, legal propositions with authorities, and structured submissions.",
	models.DocumentTypeAppealGrounds:      "Draft comprehensive Grounds of Appeal. Include clear identification of errors, legal basis for appeal, and authorities supporting each ground.",
	models.DocumentTypeCaseSummary:        "Draft a detailed Case Summary covering factual background, legal issues, authorities, and case analysis.",
	models.DocumentTypeLegalOpinion:       "Draft a formal Legal Opinion with clear structure: instructions, facts, issues, legal analysis, authorities, and advice.",
}

// Document drafts a court document from briefing notes. External context is off.
func Document(c *Context) (*Compiled, error) {
	if c.DocumentType == "" {
		return nil, missing("document type")
	}
	if strings.TrimSpace(c.BriefingNotes) == "" {
		return nil, missing("briefing notes")
	}

	instruction, ok := documentInstructions[c.DocumentType]
	if !ok {
		instruction = "Draft a professional legal document."
	}

	b := &Builder{}
	b.Text(instruction)
	if c.Matter != nil {
		b.Optional("MATTER", lines(
			field("Matter", c.Matter.Name, DefaultFallback),
			field("Client", c.Matter.Client, DefaultFallback),
			field("Court", c.Matter.Court, DefaultFallback),
		))
	}
	b.Required("BRIEFING NOTES", c.BriefingNotes, "")
	b.Optional("RELEVANT LEGAL AUTHORITIES", authorityLines(c.Authorities))
	b.Optional("UPLOADED DOCUMENTS", documentBlocks(c.Documents))
	b.Required("REQUIREMENTS", `- Use formal UK legal language and formatting
- Include proper citations in UK format
- Structure with clear headings and numbered paragraphs
- Be comprehensive and professionally drafted
- Include statement of truth where appropriate
- Format in markdown with proper hierarchy`, "")
	b.Text(fmt.Sprintf("Generate the complete %s:", c.DocumentType))

	return compiled(models.TaskDocument, b, false), nil
}

// Judgment asks for a critical litigation analysis of a judgment
func Judgment(c *Context) (*Compiled, error) {
	if strings.TrimSpace(c.JudgmentText) == "" {
		return nil, missing("judgment text")
	}

	b := &Builder{}
	b.Text("You are JurisAI - a UK legal expert performing CRITICAL ANALYSIS of a court judgment. This is NOT a summary - this is STRATEGIC LITIGATION ANALYSIS.")
	if c.Matter != nil {
		b.Optional("MATTER CONTEXT", lines(
			field("Matter", c.Matter.Name, DefaultFallback),
			field("Court", c.Matter.Court, DefaultFallback),
		))
	}
	b.Required("JUDGMENT TEXT", c.JudgmentText, "")
	b.Required("YOUR TASK - CRITICAL ANALYSIS FOR LITIGATION", judgmentTask, "")
	b.Text("CRITICAL: Be direct, specific, and litigation-focused. This analysis is for a lawyer preparing next steps.")

	return compiled(models.TaskJudgment, b, true), nil
}

const judgmentTask = `Analyze this judgment for ERRORS, WEAKNESSES, and APPEAL GROUNDS.

### 1. CASE INFORMATION
   - Case name, citation, court, judges, date, parties

### 2. ISSUES DECIDED vs ISSUES NOT DECIDED
   - What issues the court ACTUALLY decided
   - What issues the court FAILED to address or left unresolved
   - Missing findings of fact

### 3. ERRORS OF LAW (APPEAL GROUNDS)
   For EACH error: the legal error made, the correct legal position, supporting
   authority, impact on outcome, and strength of the point (Strong/Moderate/Weak)

### 4. ERRORS OF FACT (APPEAL GROUNDS)
   - Factual findings NOT supported by evidence
   - Material facts ignored or mischaracterized

### 5. PROCEDURAL IRREGULARITIES
   - Breaches of natural justice, CPR or Practice Direction violations, denial of fair hearing

### 6. MISAPPLICATION OF AUTHORITIES
   For each cited case: was it correctly cited and applied, is it still good law,
   was it wrongly distinguished

### 7. COUNTER-AUTHORITIES THE COURT IGNORED
   - Binding or persuasive authorities NOT cited, why they matter, how they change the outcome

### 8. REASONING WEAKNESSES
   - Logical fallacies, gaps, contradictions, key arguments not addressed

### 9. CLEAR POINTS TO RAISE (ACTIONABLE)
   Numbered points: specific error, why it matters, remedy sought

### 10. STRATEGIC RECOMMENDATIONS
   - Should this be appealed? (YES/NO with reasoning)
   - Best grounds ranked by strength, alternative remedies, risk assessment

### 11. EXECUTIVE SUMMARY
   4-5 paragraphs: what went wrong, key vulnerabilities, recommended action, litigation strategy`

// Coaching asks for Socratic feedback on the argument in progress
func Coaching(c *Context) (*Compiled, error) {
	if strings.TrimSpace(c.FactPattern) == "" && strings.TrimSpace(c.ArgumentText) == "" {
		return nil, missing("fact pattern or argument")
	}

	court := ""
	matterType := ""
	if c.Matter != nil {
		court = c.Matter.Court
		matterType = string(c.Matter.MatterType)
	}
	pdCourt := strings.TrimSpace(court)
	if pdCourt == "" {
		pdCourt = "court"
	}

	b := &Builder{}
	b.Text("You are a senior UK barrister coaching a junior colleague. Review this legal argument development and provide strategic guidance.")
	b.Required("MATTER CONTEXT", lines(
		field("Court", court, DefaultFallback),
		field("Position", string(c.Position), DefaultFallback),
		field("Matter Type", matterType, "N/A"),
	), "")
	b.Required("FACT PATTERN", c.FactPattern, "No facts provided yet")
	b.Required("GENERATED ARGUMENT", c.ArgumentText, "No argument generated yet")
	b.Optional("AVAILABLE AUTHORITIES", authorityLines(c.Authorities))
	b.Required("YOUR COACHING TASK", fmt.Sprintf(`Provide Socratic guidance to strengthen this argument:

1. STRATEGIC QUESTIONS: Ask 3-5 probing questions about missing elements of the cause of action, weaknesses in reasoning, counter-arguments not addressed, and evidential gaps.

2. PRACTICE DIRECTION COMPLIANCE: Check compliance with %s practice directions, flag any procedural issues, and suggest improvements.

3. LEGAL WEAKNESSES: Identify logical gaps, missing legal steps, authority gaps and risk areas. Grade each as Critical, Moderate or Minor.

4. STRENGTHS TO LEVERAGE: What is working well that should be expanded?

5. IMMEDIATE IMPROVEMENTS: 3-5 specific, actionable suggestions.

6. COUNTER-ARGUMENTS: What will the opponent say? How to pre-empt it?`, pdCourt), "")
	b.Text("Be constructive but challenging. Guide, don't tell. Ask questions that prompt better thinking.")

	return compiled(models.TaskCoaching, b, true), nil
}

package generation

import "jurisai-backend/models"

// SchemaFor returns the output schema of a structured task, or nil for free text
func SchemaFor(task models.Task) *Schema {
	switch task {
	case models.TaskResearch:
		return ResearchSchema()
	case models.TaskArgumentStructure:
		return ArgumentStructureSchema()
	case models.TaskJudgment:
		return JudgmentSchema()
	case models.TaskCoaching:
		return CoachingSchema()
	}
	return nil
}

// ResearchSchema describes models.ResearchResult
func ResearchSchema() *Schema {
	return Object(
		Prop("authorities", Array(Object(
			Prop("type", String()),
			Prop("citation", String()),
			Prop("title", String()),
			Prop("court", String()),
			Prop("year", String()),
			Prop("legal_principle", String()),
			Prop("relevance", String()),
			Prop("key_quote", String()),
		))),
		Prop("summary", String()),
	)
}

// ArgumentStructureSchema describes models.ArgumentStructure
func ArgumentStructureSchema() *Schema {
	return Object(
		Prop("issues", Array(String())),
		Prop("propositions", Array(Object(
			Prop("proposition", String()),
			Prop("reasoning", String()),
			Prop("authorities", Array(String())),
			Prop("strength", Enum(models.Strengths...)),
		))),
		Prop("authorities_relied_on", Array(String())),
		Prop("counter_arguments", Array(Object(
			Prop("counter", String()),
			Prop("how_to_address", String()),
		))),
		Prop("full_argument_markdown", String()),
	)
}

// JudgmentSchema describes models.JudgmentAnalysis
func JudgmentSchema() *Schema {
	return Object(
		Prop("case_information", Object(
			Prop("case_name", String()),
			Prop("citation", String()),
			Prop("court", String()),
			Prop("judges", Array(String())),
			Prop("date", String()),
		)),
		Prop("issues_decided", Array(String())),
		Prop("issues_not_decided", Array(String())),
		Prop("errors_of_law", Array(Object(
			Prop("error", String()),
			Prop("correct_position", String()),
			Prop("supporting_authority", String()),
			Prop("impact", String()),
			Prop("strength", Enum(models.Strengths...)),
		))),
		Prop("errors_of_fact", Array(Object(
			Prop("finding", String()),
			Prop("problem", String()),
			Prop("evidence_issue", String()),
		))),
		Prop("procedural_irregularities", Array(Object(
			Prop("irregularity", String()),
			Prop("rule_breached", String()),
			Prop("impact", String()),
		))),
		Prop("misapplied_authorities", Array(Object(
			Prop("case_name", String()),
			Prop("citation", String()),
			Prop("how_misapplied", String()),
			Prop("correct_application", String()),
		))),
		Prop("counter_authorities_ignored", Array(Object(
			Prop("case_name", String()),
			Prop("citation", String()),
			Prop("why_relevant", String()),
			Prop("impact_if_considered", String()),
		))),
		Prop("reasoning_weaknesses", Array(String())),
		Prop("clear_points_to_raise", Array(Object(
			Prop("point_number", Number()),
			Prop("specific_error", String()),
			Prop("why_it_matters", String()),
			Prop("remedy_sought", String()),
		))),
		Prop("strategic_recommendations", Object(
			Prop("should_appeal", String()),
			Prop("best_grounds", Array(String())),
			Prop("alternative_remedies", Array(String())),
			Prop("risk_assessment", String()),
		)),
		Prop("executive_summary", String()),
	)
}

// CoachingSchema describes models.CoachingFeedback
func CoachingSchema() *Schema {
	return Object(
		Prop("strategic_questions", Array(String())),
		Prop("practice_direction_check", Object(
			Prop("compliant", Boolean()),
			Prop("issues", Array(String())),
			Prop("suggestions", Array(String())),
		)),
		Prop("weaknesses", Array(Object(
			Prop("weakness", String()),
			Prop("impact", Enum(models.Impacts...)),
			Prop("how_to_fix", String()),
		))),
		Prop("strengths", Array(String())),
		Prop("immediate_improvements", Array(String())),
		Prop("opponent_counter_arguments", Array(Object(
			Prop("counter", String()),
			Prop("how_to_address", String()),
		))),
		Prop("overall_assessment", String()),
	)
}

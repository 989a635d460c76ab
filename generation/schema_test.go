package generation

import (
	"encoding/json"
	"testing"

	"jurisai-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestSchemaConform_MissingArraysBecomeEmpty(t *testing.T) {
	out, ok := CoachingSchema().Conform(decode(t, `{"overall_assessment": "Sound"}`))
	require.True(t, ok)

	obj := out.(map[string]any)
	assert.Equal(t, "Sound", obj["overall_assessment"])
	assert.Equal(t, []any{}, obj["weaknesses"])
	assert.Equal(t, []any{}, obj["strategic_questions"])
	assert.NotContains(t, obj, "practice_direction_check")
}

func TestSchemaConform_DropsOutOfSetEnum(t *testing.T) {
	in := decode(t, `{"weaknesses": [
		{"weakness": "No chronology", "impact": "Severe"},
		{"weakness": "Thin authorities", "impact": "Critical"}
	]}`)

	out, ok := CoachingSchema().Conform(in)
	require.True(t, ok)

	weaknesses := out.(map[string]any)["weaknesses"].([]any)
	require.Len(t, weaknesses, 2)
	assert.NotContains(t, weaknesses[0].(map[string]any), "impact")
	assert.Equal(t, "Critical", weaknesses[1].(map[string]any)["impact"])
}

func TestSchemaConform_TypeMismatches(t *testing.T) {
	in := decode(t, `{
		"issues": "not an array",
		"propositions": [{"proposition": 12}, {"proposition": "Duty owed", "authorities": ["Caparo"]}],
		"full_argument_markdown": ["wrong"],
		"unexpected": true
	}`)

	out, ok := ArgumentStructureSchema().Conform(in)
	require.True(t, ok)

	obj := out.(map[string]any)
	assert.Equal(t, []any{}, obj["issues"])
	assert.NotContains(t, obj, "full_argument_markdown")
	assert.NotContains(t, obj, "unexpected")

	props := obj["propositions"].([]any)
	require.Len(t, props, 2)
	assert.NotContains(t, props[0].(map[string]any), "proposition")
	assert.Equal(t, []any{}, props[0].(map[string]any)["authorities"])
	assert.Equal(t, []any{"Caparo"}, props[1].(map[string]any)["authorities"])
}

func TestSchemaConform_TopLevelMustBeObject(t *testing.T) {
	_, ok := ResearchSchema().Conform(decode(t, `[1, 2]`))
	assert.False(t, ok)
}

func TestSchemaFor(t *testing.T) {
	assert.NotNil(t, SchemaFor(models.TaskResearch))
	assert.NotNil(t, SchemaFor(models.TaskArgumentStructure))
	assert.NotNil(t, SchemaFor(models.TaskJudgment))
	assert.NotNil(t, SchemaFor(models.TaskCoaching))
	assert.Nil(t, SchemaFor(models.TaskArgument))
	assert.Nil(t, SchemaFor(models.TaskCorrectFacts))
	assert.Nil(t, SchemaFor(models.TaskDocument))
}

func TestSchemaJSONSchema_KeepsEnum(t *testing.T) {
	js := CoachingSchema().JSONSchema()
	weakness := js["properties"].(map[string]any)["weaknesses"].(map[string]any)["items"].(map[string]any)
	impact := weakness["properties"].(map[string]any)["impact"].(map[string]any)
	assert.Equal(t, models.Impacts, impact["enum"])
	assert.Equal(t, "string", impact["type"])
}

func TestToGenaiSchema(t *testing.T) {
	gs := toGenaiSchema(ResearchSchema())
	require.Contains(t, gs.Properties, "authorities")
	assert.NotNil(t, gs.Properties["authorities"].Items)
	assert.Contains(t, gs.Properties["authorities"].Items.Properties, "legal_principle")

	coach := toGenaiSchema(CoachingSchema())
	impact := coach.Properties["weaknesses"].Items.Properties["impact"]
	assert.Equal(t, "enum", impact.Format)
	assert.Equal(t, models.Impacts, impact.Enum)
}

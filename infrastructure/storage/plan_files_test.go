package storage

import (
	"os"
	"path/filepath"
	"testing"

	"robotdriver/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlPlan = `
headless: false
steps:
  - action: goto
    url: https://automationexercise.com/login
  - action: fill
    role: textbox
    name: email
    text: user@example.com
  - action: screenshot
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadPlanYAML(t *testing.T) {
	plan, err := LoadPlan(writeFile(t, "plan.yml", yamlPlan))
	require.NoError(t, err)

	assert.False(t, plan.IsHeadless())
	require.Len(t, plan.Steps, 3)
	assert.Equal(t, entities.Step{Action: entities.ActionFill, Role: "textbox", Name: "email", Text: "user@example.com"}, plan.Steps[1])
	assert.Equal(t, entities.ActionScreenshot, plan.Steps[2].Action)
}

func TestLoadPlanJSON(t *testing.T) {
	plan, err := LoadPlan(writeFile(t, "plan.JSON", `{"steps":[{"action":"click","selector":"#go"}]}`))
	require.NoError(t, err)

	assert.True(t, plan.IsHeadless())
	assert.Equal(t, []entities.Step{{Action: entities.ActionClick, Selector: "#go"}}, plan.Steps)
}

func TestLoadPlanRejectsUnknownFields(t *testing.T) {
	_, err := LoadPlan(writeFile(t, "plan.json", `{"steps":[{"action":"click","selecter":"#go"}]}`))
	assert.Error(t, err)

	_, err = LoadPlan(writeFile(t, "plan.yaml", "steps:\n  - action: click\n    selecter: '#go'\n"))
	assert.Error(t, err)
}

func TestLoadPlanUnknownFormat(t *testing.T) {
	_, err := LoadPlan(writeFile(t, "plan.toml", "steps = []"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLoadPlanMissingFile(t *testing.T) {
	_, err := LoadPlan(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveAndLoadReport(t *testing.T) {
	text := "Rs. 500"
	result := entities.PlanResult{
		OK:         true,
		CurrentURL: "https://automationexercise.com/products",
		Logs: []entities.StepLog{
			{Index: 1, Action: entities.ActionGoto, OK: true, URL: "https://automationexercise.com/products"},
			{Index: 2, Action: entities.ActionReadText, OK: true, Selector: "h2", Text: &text},
		},
	}
	path := filepath.Join(t.TempDir(), "reports", "run.json")

	require.NoError(t, SaveReport(path, result))
	loaded, err := LoadReport(path)
	require.NoError(t, err)
	assert.Equal(t, result, loaded)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"current_url": "https://automationexercise.com/products"`)
	assert.Contains(t, string(raw), `"i": 2`)
}

package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapqa/internal/cli"
	"github.com/leapstack-labs/leapqa/internal/cli/commands"
	"github.com/leapstack-labs/leapqa/pkg/report"
)

const reviewSchema = `
columns:
  age:
    type: integer
    min: 0
    max: 120
  email:
    type: string
  label:
    type: categorical
    values: [positive, negative]
`

const reviewRules = `
rules:
  - id: age-range
    kind: numeric-range
    column: age
    params:
      min: 0
      max: 120
  - id: email-format
    kind: regex-match
    column: email
    params:
      pattern: "^[^@]+@[^@]+$"
`

func writeInputs(t *testing.T, csvData string) (data, schemaPath, rulesPath string) {
	t.Helper()
	dir := t.TempDir()
	data = filepath.Join(dir, "reviews.csv")
	schemaPath = filepath.Join(dir, "schema.yaml")
	rulesPath = filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(data, []byte(csvData), 0o644))
	require.NoError(t, os.WriteFile(schemaPath, []byte(reviewSchema), 0o644))
	require.NoError(t, os.WriteFile(rulesPath, []byte(reviewRules), 0o644))
	return data, schemaPath, rulesPath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := cli.NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestValidatePassing(t *testing.T) {
	t.Chdir(t.TempDir())
	data, schemaPath, rulesPath := writeInputs(t,
		"age,email,label\n30,a@example.com,positive\n40,b@example.com,negative\n")

	out, err := execute(t, "validate",
		"--data", data, "--schema", schemaPath, "--rules", rulesPath)
	require.NoError(t, err)
	assert.Contains(t, out, "PASS")
}

func TestValidateFailingExitsWithSentinel(t *testing.T) {
	t.Chdir(t.TempDir())
	data, schemaPath, rulesPath := writeInputs(t,
		"age,email,label\n-5,not-an-email,positive\n")

	out, err := execute(t, "validate",
		"--data", data, "--schema", schemaPath, "--rules", rulesPath)
	require.ErrorIs(t, err, commands.ErrValidationFailed)
	assert.Contains(t, out, "FAIL")
	assert.Contains(t, out, "age-range")
	assert.Contains(t, out, "email-format")
}

func TestValidateThresholdFlag(t *testing.T) {
	t.Chdir(t.TempDir())
	// age -5 is an error-severity violation; raising the threshold to
	// critical lets the run pass
	data, schemaPath, rulesPath := writeInputs(t,
		"age,email,label\n-5,a@example.com,positive\n")

	_, err := execute(t, "validate",
		"--data", data, "--schema", schemaPath, "--rules", rulesPath,
		"--threshold", "critical")
	assert.NoError(t, err)
}

func TestValidateJSONReportFile(t *testing.T) {
	t.Chdir(t.TempDir())
	data, schemaPath, rulesPath := writeInputs(t,
		"age,email,label\n150,a@example.com,positive\n")
	reportPath := filepath.Join(t.TempDir(), "report.json")

	_, err := execute(t, "validate",
		"--data", data, "--schema", schemaPath, "--rules", rulesPath,
		"--report-json", reportPath, "--output", "json")
	require.ErrorIs(t, err, commands.ErrValidationFailed)

	raw, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var rep report.Report
	require.NoError(t, json.Unmarshal(raw, &rep))
	assert.False(t, rep.Passed)
	assert.NotEmpty(t, rep.RunID)
	assert.Equal(t, 1, rep.RowCount)
}

func TestValidateRequiresInputFlags(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := execute(t, "validate")
	assert.Error(t, err)
}

func TestGenerateWritesCSV(t *testing.T) {
	t.Chdir(t.TempDir())
	_, schemaPath, _ := writeInputs(t, "age,email,label\n")
	outPath := filepath.Join(t.TempDir(), "synthetic.csv")

	out, err := execute(t, "generate",
		"--schema", schemaPath, "--rows", "25", "--seed", "7", "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 25 rows to "+outPath)

	// generated data respects the schema's declared ranges
	rulesPath := filepath.Join(filepath.Dir(outPath), "rules.yaml")
	require.NoError(t, os.WriteFile(rulesPath, []byte(`
rules:
  - id: age-range
    kind: numeric-range
    column: age
    params:
      min: 0
      max: 120
  - id: label-set
    kind: allowed-values
    column: label
    params:
      values: [positive, negative]
`), 0o644))
	_, err = execute(t, "validate",
		"--data", outPath, "--schema", schemaPath, "--rules", rulesPath)
	assert.NoError(t, err)
}

func TestRulesListsKinds(t *testing.T) {
	out, err := execute(t, "rules")
	require.NoError(t, err)
	for _, kind := range []string{
		"regex-match", "numeric-range", "allowed-values", "uniqueness",
		"row-count-min", "custom-expression",
	} {
		assert.Contains(t, out, kind)
	}
}

func TestVersionFlag(t *testing.T) {
	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "leapqa")
}

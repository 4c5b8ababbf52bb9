package agents

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestEnsureOutputParsedWins(t *testing.T) {
	res := StepResult[sample]{
		Parsed: &sample{Name: "a", Count: 1},
		Raw:    `{"name": "b", "count": 2}`,
	}

	out, err := EnsureOutput("Step", res)
	require.NoError(t, err)
	assert.Equal(t, "a", out.Name)
}

// When the step's own parse failed, one recovery parse of the raw text runs
// before giving up.
func TestEnsureOutputRecoversFromRaw(t *testing.T) {
	res := StepResult[sample]{Raw: "Here you go:\n```json\n{\"name\": \"b\", \"count\": 2}\n```"}

	out, err := EnsureOutput("Step", res)
	require.NoError(t, err)
	assert.Equal(t, "b", out.Name)
	assert.Equal(t, 2, out.Count)
}

func TestEnsureOutputFailsWithStepName(t *testing.T) {
	res := StepResult[sample]{Raw: "no json here at all"}

	_, err := EnsureOutput("NewsResearch", res)
	require.Error(t, err)

	var stepErr *StepOutputError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, "NewsResearch", stepErr.Step)
	assert.Contains(t, err.Error(), "NewsResearch produced no valid structured output")
}

func TestEnsureOutputFailsOnEmptyRaw(t *testing.T) {
	_, err := EnsureOutput("QuickAnswer", StepResult[sample]{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "QuickAnswer")
}

func TestDecodeJSONToleratesProse(t *testing.T) {
	out, err := DecodeJSON[sample](`Sure! The result is {"name": "x", "count": 3} as requested.`)
	require.NoError(t, err)
	assert.Equal(t, "x", out.Name)
}

func TestDecodeJSONRejectsSchemaViolation(t *testing.T) {
	_, err := DecodeJSON[sample](`{"name": "x", "count": "three"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not validate")
}

func TestExtractJSONFences(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"```\n{\"a\": 1}\n```", `{"a": 1}`},
		{`{"a": 1}`, `{"a": 1}`},
		{"no braces", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, extractJSON(tc.in), "input: %s", tc.in)
	}
}

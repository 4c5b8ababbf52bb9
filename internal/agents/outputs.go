package agents

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dyike/ScoutGo/internal/logger"
)

// StepResult carries a specialist step's output across the validation
// boundary: the step's own parse attempt plus the raw model text for a
// recovery parse.
type StepResult[T any] struct {
	Parsed *T
	Raw    string
}

// StepOutputError is the fatal, step-named error raised when a step's output
// cannot be validated even after the raw-JSON recovery attempt.
type StepOutputError struct {
	Step string
	Err  error
}

func (e *StepOutputError) Error() string {
	return fmt.Sprintf("%s produced no valid structured output: %v", e.Step, e.Err)
}

func (e *StepOutputError) Unwrap() error { return e.Err }

// EnsureOutput validates a step result. The typed result wins when present;
// otherwise one bounded recovery attempt parses the raw text directly. No
// retry happens here; a second research pass is only ever triggered by the
// completeness checker.
func EnsureOutput[T any](step string, res StepResult[T]) (*T, error) {
	if res.Parsed != nil {
		return res.Parsed, nil
	}

	if strings.TrimSpace(res.Raw) == "" {
		return nil, &StepOutputError{Step: step, Err: fmt.Errorf("no raw output available")}
	}

	logger.Log.Errorf("%s produced no parsed output, attempting raw JSON recovery", step)

	recovered, err := DecodeJSON[T](res.Raw)
	if err != nil {
		return nil, &StepOutputError{Step: step, Err: err}
	}

	logger.Log.Warnf("%s output recovered by parsing raw JSON directly", step)
	return recovered, nil
}

// DecodeJSON unmarshals model output into T, tolerating markdown fences and
// surrounding prose around the JSON object.
func DecodeJSON[T any](raw string) (*T, error) {
	candidate := extractJSON(raw)
	if candidate == "" {
		return nil, fmt.Errorf("no JSON object found in output")
	}

	var out T
	if err := json.Unmarshal([]byte(candidate), &out); err != nil {
		return nil, fmt.Errorf("output did not validate against schema: %w", err)
	}
	return &out, nil
}

// extractJSON strips code fences and trims to the outermost braces.
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

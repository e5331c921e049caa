package session

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Upper bounds on submitted durations, in seconds.
const (
	maxAnswerSeconds = 24 * 60 * 60
	maxBatchSeconds  = 7 * maxAnswerSeconds
)

// SubmissionSchema describes the JSON accepted by ParseSubmission. An answer
// is either pre-graded with "correct" or carries "user_answer" and
// "correct_answer" to be graded on arrival.
var SubmissionSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"topic": map[string]any{
			"type":      "string",
			"minLength": 1,
		},
		"question_type": map[string]any{
			"type":      "string",
			"minLength": 1,
		},
		"answers": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"correct":        map[string]any{"type": "boolean"},
					"type":           map[string]any{"type": "string"},
					"question":       map[string]any{"type": "string"},
					"user_answer":    map[string]any{"type": "string"},
					"correct_answer": map[string]any{"type": "string"},
				},
				"anyOf": []any{
					map[string]any{"required": []any{"correct"}},
					map[string]any{"required": []any{"user_answer", "correct_answer"}},
				},
			},
		},
		"per_question_times": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "number", "minimum": 0, "maximum": maxAnswerSeconds},
		},
		"total_time_seconds": map[string]any{
			"type":    "number",
			"minimum": 0,
			"maximum": maxBatchSeconds,
		},
	},
	"required": []any{"answers"},
}

const submissionSchemaURL = "schema://submission.json"

var compileSubmissionSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	// The compiler expects plain decoded JSON values, so round-trip the
	// Go literal through encoding/json.
	defBytes, err := json.Marshal(SubmissionSchema)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(submissionSchemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(submissionSchemaURL)
})

// validateSubmission checks raw against SubmissionSchema.
// Returns *ErrInvalidSubmission on failure.
func validateSubmission(raw json.RawMessage) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &ErrInvalidSubmission{
			Content: raw,
			Err:     fmt.Errorf("invalid JSON: %w", err),
		}
	}

	compiled, err := compileSubmissionSchema()
	if err != nil {
		return &ErrInvalidSubmission{
			Content: raw,
			Err:     fmt.Errorf("compile schema: %w", err),
		}
	}

	if err := compiled.Validate(parsed); err != nil {
		return &ErrInvalidSubmission{
			Content: raw,
			Err:     fmt.Errorf("schema validation failed: %w", err),
		}
	}
	return nil
}

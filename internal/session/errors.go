package session

import (
	"encoding/json"
	"fmt"
)

// ErrInvalidSubmission indicates a submission payload that is not valid
// JSON or does not conform to the submission schema.
type ErrInvalidSubmission struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidSubmission) Error() string {
	return fmt.Sprintf("invalid submission: %v", e.Err)
}

func (e *ErrInvalidSubmission) Unwrap() error { return e.Err }

package session

import (
	"encoding/json"
	"strings"

	"github.com/abhisek/studypulse/internal/performance"
)

// DefaultQuestionType is used when a submission names no question type.
const DefaultQuestionType = performance.TypeShort

// SubmittedAnswer is one answer as received from the exercise layer.
type SubmittedAnswer struct {
	// Correct is the grade when the caller already graded the answer.
	Correct *bool `json:"correct,omitempty"`

	Type     string `json:"type,omitempty"`
	Question string `json:"question,omitempty"`

	// UserAnswer and CorrectAnswer are compared when Correct is nil.
	UserAnswer    string `json:"user_answer,omitempty"`
	CorrectAnswer string `json:"correct_answer,omitempty"`
}

// Graded reports whether the answer is correct. Ungraded answers match
// when the trimmed strings are equal ignoring case.
func (a SubmittedAnswer) Graded() bool {
	if a.Correct != nil {
		return *a.Correct
	}
	return strings.EqualFold(strings.TrimSpace(a.UserAnswer), strings.TrimSpace(a.CorrectAnswer))
}

// Submission is a batch of answers for one topic and question type.
type Submission struct {
	Topic            string            `json:"topic,omitempty"`
	QuestionType     string            `json:"question_type,omitempty"`
	Answers          []SubmittedAnswer `json:"answers"`
	PerQuestionTimes []float64         `json:"per_question_times,omitempty"`
	TotalTimeSeconds float64           `json:"total_time_seconds,omitempty"`
}

// ParseSubmission validates raw against SubmissionSchema and decodes it.
// Returns *ErrInvalidSubmission when the payload is malformed.
func ParseSubmission(raw []byte) (Submission, error) {
	if err := validateSubmission(raw); err != nil {
		return Submission{}, err
	}
	var sub Submission
	if err := json.Unmarshal(raw, &sub); err != nil {
		return Submission{}, &ErrInvalidSubmission{Content: raw, Err: err}
	}
	return sub, nil
}

// batch converts the submission into an engine batch. An empty topic falls
// back to the session subject.
func (s Submission) batch(subject string) performance.Batch {
	b := performance.Batch{
		Topic:              s.Topic,
		QuestionType:       s.QuestionType,
		TotalSeconds:       s.TotalTimeSeconds,
		PerQuestionSeconds: s.PerQuestionTimes,
		Answers:            make([]performance.Answer, len(s.Answers)),
	}
	if b.Topic == "" {
		b.Topic = subject
	}
	if b.QuestionType == "" {
		b.QuestionType = DefaultQuestionType
	}
	for i, a := range s.Answers {
		b.Answers[i] = performance.Answer{
			Correct:  a.Graded(),
			Type:     a.Type,
			Question: a.Question,
		}
	}
	return b
}

package store

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/studypulse/internal/performance"
)

// ErrNotFound is returned when a session does not exist.
var ErrNotFound = errors.New("not found")

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit int   // max results (0 = unlimited)
	After int64 // sequence > After (0 = from the start)
}

// Session is a persisted study session and its performance document.
type Session struct {
	ID          string
	Subject     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Performance *performance.Record
}

// SessionRepo stores sessions. Performance documents are always written
// whole; there is no partial-field update.
type SessionRepo interface {
	// Create inserts a new session.
	Create(ctx context.Context, s *Session) error

	// Get returns the session with id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Session, error)

	// Save replaces the session's performance document.
	Save(ctx context.Context, s *Session) error

	// SaveWithAnswers replaces the performance document and appends the
	// answers that produced it in one transaction. Either both land or
	// neither does.
	SaveWithAnswers(ctx context.Context, s *Session, events []AnswerEventData) error

	// List returns the most recently updated sessions first.
	List(ctx context.Context, limit int) ([]*Session, error)
}

// AnswerEventData captures one graded answer as submitted.
type AnswerEventData struct {
	SessionID    string
	Topic        string
	QuestionType string
	AnswerType   string
	QuestionText string
	Correct      bool
	TimeSeconds  float64
}

// AnswerEvent is a stored answer with its global sequence number.
type AnswerEvent struct {
	Sequence  int64
	Timestamp time.Time
	AnswerEventData
}

// EventRepo provides append and query access to answer events.
type EventRepo interface {
	// AppendAnswers records a batch of answers in order.
	AppendAnswers(ctx context.Context, events []AnswerEventData) error

	// QueryAnswers returns a session's answers, newest first.
	QueryAnswers(ctx context.Context, sessionID string, opts QueryOpts) ([]AnswerEvent, error)
}

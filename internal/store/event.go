package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// sequenceCounter assigns a single increasing sequence to every answer
// event so that events keep submission order across sessions, even when
// several events share a timestamp.
//
// The mutex serializes within the process; the RETURNING clause makes the
// increment atomic at the database level.
type sequenceCounter struct {
	mu sync.Mutex
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{}, nil
}

// conn is satisfied by both *sql.DB and *sql.Tx.
type conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Next atomically returns the next sequence number and increments the
// counter. Passing a *sql.Tx rolls the increment back with the transaction.
func (sc *sequenceCounter) Next(ctx context.Context, c conn) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := c.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

var answerColumns = []string{
	"sequence", "timestamp", "session_id", "topic", "question_type",
	"answer_type", "question_text", "correct", "time_seconds",
}

// eventRepo implements EventRepo on the answer_events table.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) AppendAnswers(ctx context.Context, events []AnswerEventData) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertAnswers(ctx, tx, r.seq, events); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit answer events: %w", err)
	}
	return nil
}

// insertAnswers writes events in order on c. Callers own the transaction.
func insertAnswers(ctx context.Context, c conn, seq *sequenceCounter, events []AnswerEventData) error {
	now := time.Now().UTC()
	for _, e := range events {
		seqNum, err := seq.Next(ctx, c)
		if err != nil {
			return err
		}

		query, args := sqlite.Insert("answer_events").
			Columns(answerColumns...).
			Values(seqNum, now, e.SessionID, e.Topic, e.QuestionType,
				e.AnswerType, e.QuestionText, e.Correct, e.TimeSeconds).
			Query()
		if _, err := c.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("save answer event: %w", err)
		}
	}
	return nil
}

func (r *eventRepo) QueryAnswers(ctx context.Context, sessionID string, opts QueryOpts) ([]AnswerEvent, error) {
	sel := sqlite.Select(answerColumns...).
		From(sqlite.Table("answer_events")).
		Where(entsql.EQ("session_id", sessionID))
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	sel.OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query answer events: %w", err)
	}
	defer rows.Close()

	var out []AnswerEvent
	for rows.Next() {
		var e AnswerEvent
		if err := rows.Scan(
			&e.Sequence, &e.Timestamp, &e.SessionID, &e.Topic, &e.QuestionType,
			&e.AnswerType, &e.QuestionText, &e.Correct, &e.TimeSeconds,
		); err != nil {
			return nil, fmt.Errorf("scan answer event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

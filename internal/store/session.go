package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/studypulse/internal/performance"
)

// sqlite builds dialect-aware statements for every repository.
var sqlite = entsql.Dialect(dialect.SQLite)

var sessionColumns = []string{"id", "subject", "created_at", "updated_at", "performance"}

// sessionRepo implements SessionRepo on the sessions table.
type sessionRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *sessionRepo) Create(ctx context.Context, s *Session) error {
	if s.Performance == nil {
		s.Performance = performance.NewRecord()
	}
	doc, err := json.Marshal(s.Performance)
	if err != nil {
		return fmt.Errorf("marshal performance: %w", err)
	}

	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = s.CreatedAt

	query, args := sqlite.Insert("sessions").
		Columns(sessionColumns...).
		Values(s.ID, s.Subject, s.CreatedAt, s.UpdatedAt, string(doc)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *sessionRepo) Get(ctx context.Context, id string) (*Session, error) {
	query, args := sqlite.Select(sessionColumns...).
		From(sqlite.Table("sessions")).
		Where(entsql.EQ("id", id)).
		Query()

	s, err := scanSession(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session %q: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("query session: %w", err)
	}
	return s, nil
}

func (r *sessionRepo) Save(ctx context.Context, s *Session) error {
	updated := time.Now().UTC()
	if err := saveSession(ctx, r.db, s, updated); err != nil {
		return err
	}
	s.UpdatedAt = updated
	return nil
}

func (r *sessionRepo) SaveWithAnswers(ctx context.Context, s *Session, events []AnswerEventData) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	updated := time.Now().UTC()
	if err := saveSession(ctx, tx, s, updated); err != nil {
		return err
	}
	if err := insertAnswers(ctx, tx, r.seq, events); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit session: %w", err)
	}
	s.UpdatedAt = updated
	return nil
}

func saveSession(ctx context.Context, c conn, s *Session, updated time.Time) error {
	doc, err := json.Marshal(s.Performance)
	if err != nil {
		return fmt.Errorf("marshal performance: %w", err)
	}

	query, args := sqlite.Update("sessions").
		Set("performance", string(doc)).
		Set("updated_at", updated).
		Where(entsql.EQ("id", s.ID)).
		Query()
	res, err := c.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("session %q: %w", s.ID, ErrNotFound)
	}
	return nil
}

func (r *sessionRepo) List(ctx context.Context, limit int) ([]*Session, error) {
	sel := sqlite.Select(sessionColumns...).
		From(sqlite.Table("sessions")).
		OrderBy(entsql.Desc("updated_at"))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []*Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*Session, error) {
	var (
		s   Session
		doc string
	)
	if err := row.Scan(&s.ID, &s.Subject, &s.CreatedAt, &s.UpdatedAt, &doc); err != nil {
		return nil, err
	}
	rec, err := performance.DecodeRecord([]byte(doc))
	if err != nil {
		return nil, err
	}
	s.Performance = rec
	return &s, nil
}

// Package session runs submitted answer batches through the performance
// engine and persists the result.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/google/uuid"

	"github.com/abhisek/studypulse/internal/performance"
	"github.com/abhisek/studypulse/internal/store"
)

// Service owns session lifecycle. Each call loads the session document,
// applies its change and writes the whole document back.
type Service struct {
	sessions store.SessionRepo
	events   store.EventRepo
	engine   *performance.Engine
	logger   *slog.Logger
}

// NewService creates a session service. A nil logger means slog.Default().
func NewService(sessions store.SessionRepo, events store.EventRepo, engine *performance.Engine, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		sessions: sessions,
		events:   events,
		engine:   engine,
		logger:   logger,
	}
}

// Policy returns the thresholds the service's engine applies.
func (s *Service) Policy() performance.Policy {
	return s.engine.Policy()
}

// Start creates a session for subject with a blank performance record.
func (s *Service) Start(ctx context.Context, subject string) (*store.Session, error) {
	if subject == "" {
		return nil, fmt.Errorf("start session: subject is required")
	}
	sess := &store.Session{
		ID:          uuid.New().String(),
		Subject:     subject,
		Performance: performance.NewRecord(),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	s.logger.Info("session started", "session_id", sess.ID, "subject", subject)
	return sess, nil
}

// Get returns the session with id.
func (s *Service) Get(ctx context.Context, id string) (*store.Session, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return sess, nil
}

// List returns the most recently active sessions.
func (s *Service) List(ctx context.Context, limit int) ([]*store.Session, error) {
	return s.sessions.List(ctx, limit)
}

// SubmitResult summarizes one submitted batch and the record after it.
type SubmitResult struct {
	Accuracy             float64                  `json:"accuracy"`
	Correct              int                      `json:"correct"`
	Total                int                      `json:"total"`
	Mastery              float64                  `json:"mastery"`
	AdaptiveMode         performance.Mode         `json:"adaptive_mode"`
	CognitiveStrainIndex float64                  `json:"cognitive_strain_index"`
	AvgResponseTime      float64                  `json:"avg_response_time"`
	StressDetected       bool                     `json:"stress_detected"`
	RecommendedAction    performance.StressAction `json:"recommended_action"`
}

// Submit folds a batch of answers into the session's record, then saves the
// record together with one event per answer. When stress is detected the
// recommended action is appended to the record's stress history. A batch
// with no answers reports the current state and writes nothing.
func (s *Service) Submit(ctx context.Context, id string, sub Submission) (*SubmitResult, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	b := sub.batch(sess.Subject)
	if !s.Policy().IsQuestionType(b.QuestionType) {
		return nil, &ErrInvalidSubmission{
			Err: fmt.Errorf("unknown question type %q (want one of %v)", b.QuestionType, s.Policy().QuestionTypes),
		}
	}

	rec := sess.Performance
	weakBefore := weakTopics(rec)
	s.engine.Record(rec, b)
	for _, topic := range weakBefore {
		if _, ok := rec.WeaknessProfile[topic]; !ok {
			s.logger.Info("weakness graduated", "session_id", id, "topic", topic)
		}
	}

	signal := performance.DetectStress(rec, s.Policy())
	if len(b.Answers) > 0 {
		if signal.Detected {
			rec.LogStress(string(signal.RecommendedAction))
			s.logger.Warn("stress detected",
				"session_id", id,
				"action", string(signal.RecommendedAction),
				"mistake_streak", rec.MistakeStreak,
			)
		}
		if err := s.sessions.SaveWithAnswers(ctx, sess, answerEvents(id, b)); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
	}

	correct := b.CorrectCount()
	total := len(b.Answers)
	result := &SubmitResult{
		Accuracy:             round1(performance.Tally{Correct: correct, Total: total}.Accuracy()),
		Correct:              correct,
		Total:                total,
		Mastery:              rec.MasteryScore,
		AdaptiveMode:         rec.AdaptiveMode,
		CognitiveStrainIndex: rec.CognitiveStrainIndex,
		AvgResponseTime:      round1(rec.AverageResponseTime()),
		StressDetected:       signal.Detected,
		RecommendedAction:    signal.RecommendedAction,
	}
	if result.AdaptiveMode == performance.ModeUnset {
		result.AdaptiveMode = performance.ModeStandard
	}

	s.logger.Debug("answers submitted",
		"session_id", id,
		"topic", b.Topic,
		"question_type", b.QuestionType,
		"correct", correct,
		"total", total,
		"mastery", result.Mastery,
		"mode", string(result.AdaptiveMode),
	)
	return result, nil
}

// Stress evaluates the stress triggers against the session's current
// record without changing it.
func (s *Service) Stress(ctx context.Context, id string) (performance.StressSignal, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return performance.StressSignal{}, err
	}
	return performance.DetectStress(sess.Performance, s.Policy()), nil
}

// NextTopic suggests which of candidates to study next.
func (s *Service) NextTopic(ctx context.Context, id string, candidates []string) (string, error) {
	if len(candidates) == 0 {
		return "", fmt.Errorf("next topic: at least one candidate topic is required")
	}
	sess, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return performance.SuggestNextTopic(sess.Performance, candidates), nil
}

// History returns the session's most recent answers, newest first.
// opts.After skips events up to and including that sequence number.
func (s *Service) History(ctx context.Context, id string, opts store.QueryOpts) ([]store.AnswerEvent, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	events, err := s.events.QueryAnswers(ctx, id, opts)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return events, nil
}

func answerEvents(sessionID string, b performance.Batch) []store.AnswerEventData {
	timings := b.Timings()
	out := make([]store.AnswerEventData, len(b.Answers))
	for i, a := range b.Answers {
		e := store.AnswerEventData{
			SessionID:    sessionID,
			Topic:        b.Topic,
			QuestionType: b.QuestionType,
			AnswerType:   a.Type,
			QuestionText: a.Question,
			Correct:      a.Correct,
		}
		if i < len(timings) {
			e.TimeSeconds = timings[i]
		}
		out[i] = e
	}
	return out
}

func weakTopics(rec *performance.Record) []string {
	topics := make([]string, 0, len(rec.WeaknessProfile))
	for t := range rec.WeaknessProfile {
		topics = append(topics, t)
	}
	slices.Sort(topics)
	return topics
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

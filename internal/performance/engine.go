package performance

import (
	"math"
	"time"
)

// Answer is one graded answer from a submitted batch.
type Answer struct {
	Correct bool `json:"correct"`
	// Type is the answer's question type; empty means unknown.
	Type string `json:"type,omitempty"`
	// Question is the question text, used only for keyword extraction.
	Question string `json:"question,omitempty"`
}

// Batch is a set of answers for one topic and question type.
type Batch struct {
	Topic        string
	QuestionType string
	Answers      []Answer

	// TotalSeconds is the time spent on the whole batch.
	TotalSeconds float64
	// PerQuestionSeconds holds one duration per answer. It is ignored when
	// its length does not match the number of answers.
	PerQuestionSeconds []float64
}

// CorrectCount returns the number of correct answers in the batch.
func (b Batch) CorrectCount() int {
	n := 0
	for _, a := range b.Answers {
		if a.Correct {
			n++
		}
	}
	return n
}

// Timings returns the per-answer durations the batch contributes: the
// per-question list when it matches the batch, otherwise the total split
// evenly, otherwise nothing.
func (b Batch) Timings() []float64 {
	n := len(b.Answers)
	if n == 0 {
		return nil
	}
	if len(b.PerQuestionSeconds) > 0 && len(b.PerQuestionSeconds) == n {
		out := make([]float64, n)
		for i, s := range b.PerQuestionSeconds {
			out[i] = nonNegative(s)
		}
		return out
	}
	if total := nonNegative(b.TotalSeconds); total > 0 {
		per := total / float64(n)
		out := make([]float64, n)
		for i := range out {
			out[i] = per
		}
		return out
	}
	return nil
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source used for weakness timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// Engine applies answer batches to performance records.
type Engine struct {
	policy Policy
	now    func() time.Time
}

// NewEngine creates an engine with the given policy.
func NewEngine(policy Policy, opts ...Option) *Engine {
	e := &Engine{
		policy: policy,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Policy returns the engine's policy.
func (e *Engine) Policy() Policy {
	return e.policy
}

// Record folds a batch into rec and recomputes every derived field.
// It mutates rec in place and returns it. An empty batch leaves rec
// untouched.
func (e *Engine) Record(rec *Record, b Batch) *Record {
	rec.normalize()
	if len(b.Answers) == 0 {
		return rec
	}

	correct := b.CorrectCount()
	total := len(b.Answers)

	topic := rec.TopicAccuracy.Entry(b.Topic)
	topic.Add(correct, total)
	rec.TypeAccuracy.Entry(b.QuestionType).Add(correct, total)

	timings := b.Timings()
	spent := nonNegative(b.TotalSeconds)
	if spent == 0 && len(b.PerQuestionSeconds) == total {
		spent = sum(timings)
	}
	rec.TotalTimeSeconds += spent
	rec.TotalResponses += total

	rec.ResponseTimes = keepLast(append(rec.ResponseTimes, timings...), e.policy.ResponseTimeWindow)

	e.updateStreaks(rec, correct, total)

	for _, a := range b.Answers {
		rec.RollingResults = append(rec.RollingResults, a.Correct)
	}
	rec.RollingResults = keepLast(rec.RollingResults, e.policy.RollingWindow)

	rec.CognitiveStrainIndex = CognitiveStrain(rec.ResponseTimes, rec.MistakeStreak, e.policy)
	rec.AdaptiveMode = ClassifyMode(topic.Accuracy(), rec.AverageResponseTime(), e.policy)
	e.updateWeakness(rec, b)
	rec.MasteryScore = Mastery(rec, e.policy)

	return rec
}

func (e *Engine) updateStreaks(rec *Record, correct, total int) {
	if correct == total {
		rec.Streak++
		rec.CorrectStreak += total
		rec.MistakeStreak = 0
	} else {
		rec.MistakeStreak += total - correct
		rec.CorrectStreak = 0
		rec.Streak = 0
	}
	if rec.Streak > rec.BestStreak {
		rec.BestStreak = rec.Streak
	}
}

// keepLast drops elements from the front until at most n remain.
func keepLast[T any](s []T, n int) []T {
	if n <= 0 || len(s) <= n {
		return s
	}
	out := make([]T, n)
	copy(out, s[len(s)-n:])
	return out
}

func sum(xs []float64) float64 {
	total := 0.0
	for _, x := range xs {
		total += x
	}
	return total
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return sum(xs) / float64(len(xs))
}

// stddev returns the population standard deviation, 0 for fewer than two samples.
func stddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	v := 0.0
	for _, x := range xs {
		v += (x - m) * (x - m)
	}
	return math.Sqrt(v / float64(len(xs)))
}

// round1 rounds half away from zero to one decimal place.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// nonNegative maps negative, NaN and infinite durations to zero.
func nonNegative(x float64) float64 {
	if x < 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

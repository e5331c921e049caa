package performance

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestEngine() *Engine {
	return NewEngine(DefaultPolicy(), WithClock(func() time.Time { return fixedNow }))
}

func answers(results ...bool) []Answer {
	out := make([]Answer, len(results))
	for i, ok := range results {
		out[i] = Answer{Correct: ok, Type: TypeMCQ}
	}
	return out
}

func TestRecord_AllCorrectBatch(t *testing.T) {
	e := newTestEngine()
	rec := NewRecord()

	e.Record(rec, Batch{
		Topic:              "algebra",
		QuestionType:       TypeMCQ,
		Answers:            answers(true, true, true, true, true),
		PerQuestionSeconds: []float64{10, 10, 10, 10, 10},
	})

	got, ok := rec.TopicAccuracy.Get("algebra")
	require.True(t, ok)
	assert.Equal(t, Tally{Correct: 5, Total: 5}, got)
	typ, _ := rec.TypeAccuracy.Get(TypeMCQ)
	assert.Equal(t, Tally{Correct: 5, Total: 5}, typ)

	assert.Equal(t, 1, rec.Streak)
	assert.Equal(t, 1, rec.BestStreak)
	assert.Equal(t, 5, rec.CorrectStreak)
	assert.Equal(t, 0, rec.MistakeStreak)
	assert.Equal(t, 5, rec.TotalResponses)
	assert.InDelta(t, 50.0, rec.TotalTimeSeconds, 1e-9)

	// 100% accurate but 10s average is below the slow threshold.
	assert.Equal(t, ModeStandard, rec.AdaptiveMode)
	// 0.6*100 + 0.2*25 + 0.2*10
	assert.InDelta(t, 67.0, rec.MasteryScore, 1e-9)
	// 0.4 * 10/60 * 100
	assert.InDelta(t, 6.7, rec.CognitiveStrainIndex, 1e-9)

	// 100% over 5 attempts graduates immediately.
	assert.Empty(t, rec.WeaknessProfile)
}

func TestRecord_MixedBatchResetsStreak(t *testing.T) {
	e := newTestEngine()
	rec := NewRecord()

	e.Record(rec, Batch{Topic: "algebra", QuestionType: TypeMCQ, Answers: answers(true, true)})
	e.Record(rec, Batch{Topic: "algebra", QuestionType: TypeMCQ, Answers: answers(true)})
	require.Equal(t, 2, rec.Streak)
	require.Equal(t, 3, rec.CorrectStreak)

	e.Record(rec, Batch{Topic: "algebra", QuestionType: TypeShort, Answers: answers(true, false, false)})

	assert.Equal(t, 0, rec.Streak)
	assert.Equal(t, 2, rec.BestStreak)
	assert.Equal(t, 0, rec.CorrectStreak)
	assert.Equal(t, 2, rec.MistakeStreak)

	e.Record(rec, Batch{Topic: "algebra", QuestionType: TypeShort, Answers: answers(false)})
	assert.Equal(t, 3, rec.MistakeStreak)

	e.Record(rec, Batch{Topic: "algebra", QuestionType: TypeShort, Answers: answers(true)})
	assert.Equal(t, 0, rec.MistakeStreak)
	assert.Equal(t, 1, rec.Streak)
	assert.Equal(t, 2, rec.BestStreak)
}

func TestRecord_CountersIncreaseByBatch(t *testing.T) {
	e := newTestEngine()
	rec := NewRecord()

	for total := 0; total <= 6; total++ {
		for correct := 0; correct <= total; correct++ {
			before, _ := rec.TopicAccuracy.Get("geometry")
			results := make([]bool, total)
			for i := 0; i < correct; i++ {
				results[i] = true
			}
			e.Record(rec, Batch{Topic: "geometry", QuestionType: TypeQA, Answers: answers(results...)})

			after, _ := rec.TopicAccuracy.Get("geometry")
			assert.Equal(t, before.Total+total, after.Total, "c=%d t=%d", correct, total)
			assert.Equal(t, before.Correct+correct, after.Correct, "c=%d t=%d", correct, total)
			assert.LessOrEqual(t, after.Correct, after.Total)
		}
	}
}

func TestRecord_BestStreakNeverDecreases(t *testing.T) {
	e := newTestEngine()
	rec := NewRecord()
	pattern := [][]bool{
		{true}, {true, true}, {false}, {true}, {true}, {true}, {false, true}, {true},
	}

	prev := 0
	for _, p := range pattern {
		e.Record(rec, Batch{Topic: "t", QuestionType: TypeMCQ, Answers: answers(p...)})
		assert.GreaterOrEqual(t, rec.BestStreak, prev)
		assert.GreaterOrEqual(t, rec.BestStreak, rec.Streak)
		prev = rec.BestStreak
	}
	assert.Equal(t, 3, rec.BestStreak)
}

func TestRecord_EmptyBatchIsNoop(t *testing.T) {
	e := newTestEngine()
	rec := NewRecord()
	e.Record(rec, Batch{Topic: "algebra", QuestionType: TypeMCQ, Answers: answers(true), TotalSeconds: 4})
	before := rec.Clone()

	e.Record(rec, Batch{Topic: "calculus", QuestionType: TypeShort, TotalSeconds: 12})

	assert.Equal(t, before, rec)
	assert.False(t, rec.TopicAccuracy.Has("calculus"))
}

func TestRecord_Timings(t *testing.T) {
	tests := []struct {
		name      string
		batch     Batch
		wantTimes []float64
		wantSpent float64
	}{
		{
			name:      "per question",
			batch:     Batch{Answers: answers(true, false), PerQuestionSeconds: []float64{3, 4}},
			wantTimes: []float64{3, 4},
			wantSpent: 7,
		},
		{
			name:      "per question with total",
			batch:     Batch{Answers: answers(true, false), PerQuestionSeconds: []float64{3, 4}, TotalSeconds: 9},
			wantTimes: []float64{3, 4},
			wantSpent: 9,
		},
		{
			name:      "mismatched list falls back to total",
			batch:     Batch{Answers: answers(true, false), PerQuestionSeconds: []float64{5}, TotalSeconds: 20},
			wantTimes: []float64{10, 10},
			wantSpent: 20,
		},
		{
			name:      "total only",
			batch:     Batch{Answers: answers(true, true, true, true), TotalSeconds: 10},
			wantTimes: []float64{2.5, 2.5, 2.5, 2.5},
			wantSpent: 10,
		},
		{
			name:      "no timing",
			batch:     Batch{Answers: answers(true)},
			wantTimes: []float64{},
			wantSpent: 0,
		},
		{
			name:      "negative values clamp",
			batch:     Batch{Answers: answers(true, true), PerQuestionSeconds: []float64{-2, 6}},
			wantTimes: []float64{0, 6},
			wantSpent: 6,
		},
		{
			name:      "infinite values clamp",
			batch:     Batch{Answers: answers(true, true), PerQuestionSeconds: []float64{math.Inf(1), 6}},
			wantTimes: []float64{0, 6},
			wantSpent: 6,
		},
		{
			name:      "infinite total is ignored",
			batch:     Batch{Answers: answers(true, true), TotalSeconds: math.Inf(1)},
			wantTimes: []float64{},
			wantSpent: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NewRecord()
			tt.batch.Topic = "algebra"
			tt.batch.QuestionType = TypeMCQ
			newTestEngine().Record(rec, tt.batch)
			assert.Equal(t, tt.wantTimes, rec.ResponseTimes)
			assert.InDelta(t, tt.wantSpent, rec.TotalTimeSeconds, 1e-9)
		})
	}
}

func TestRecord_BuffersKeepMostRecent(t *testing.T) {
	e := newTestEngine()
	rec := NewRecord()

	times := make([]float64, 60)
	results := make([]bool, 60)
	for i := range times {
		times[i] = float64(i)
		results[i] = i%2 == 0
	}
	e.Record(rec, Batch{Topic: "t", QuestionType: TypeMCQ, Answers: answers(results...), PerQuestionSeconds: times})

	require.Len(t, rec.ResponseTimes, 50)
	assert.Equal(t, 10.0, rec.ResponseTimes[0])
	assert.Equal(t, 59.0, rec.ResponseTimes[49])

	require.Len(t, rec.RollingResults, 20)
	assert.Equal(t, results[40:], rec.RollingResults)
}

func TestRecord_RollingResultsInSubmissionOrder(t *testing.T) {
	rec := NewRecord()
	newTestEngine().Record(rec, Batch{Topic: "t", QuestionType: TypeMCQ, Answers: answers(true, false, false, true)})
	assert.Equal(t, []bool{true, false, false, true}, rec.RollingResults)
}

func TestRecord_ModeUsesTouchedTopic(t *testing.T) {
	e := newTestEngine()
	rec := NewRecord()

	e.Record(rec, Batch{Topic: "strong", QuestionType: TypeMCQ, Answers: answers(true, true, true, true), TotalSeconds: 160})
	assert.Equal(t, ModeFluencyTraining, rec.AdaptiveMode)

	e.Record(rec, Batch{Topic: "weak", QuestionType: TypeMCQ, Answers: answers(false, false), TotalSeconds: 100})
	assert.Equal(t, ModeCognitiveOverload, rec.AdaptiveMode)
}

func TestRecord_DerivedFieldsMatchDerive(t *testing.T) {
	e := newTestEngine()
	rec := NewRecord()
	e.Record(rec, Batch{Topic: "algebra", QuestionType: TypeMCQ, Answers: answers(true, false, false), TotalSeconds: 75})

	d := Derive(rec, "algebra", e.Policy())
	assert.Equal(t, rec.MasteryScore, d.MasteryScore)
	assert.Equal(t, rec.CognitiveStrainIndex, d.CognitiveStrainIndex)
	assert.Equal(t, rec.AdaptiveMode, d.AdaptiveMode)

	again := Derive(rec, "algebra", e.Policy())
	assert.Equal(t, d, again)
}

func TestBatch_CorrectCount(t *testing.T) {
	b := Batch{Answers: answers(true, false, true)}
	assert.Equal(t, 2, b.CorrectCount())
	assert.Equal(t, 0, Batch{}.CorrectCount())
}

package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studypulse/internal/performance"
)

func TestParseSubmission_Valid(t *testing.T) {
	raw := []byte(`{
		"topic": "fractions",
		"question_type": "mcq",
		"answers": [
			{"correct": true, "type": "mcq", "question": "Add one half and one third"},
			{"user_answer": " Paris ", "correct_answer": "paris"},
			{"user_answer": "4", "correct_answer": "5"}
		],
		"per_question_times": [4.5, 6, 12],
		"total_time_seconds": 22.5
	}`)

	sub, err := ParseSubmission(raw)
	require.NoError(t, err)
	assert.Equal(t, "fractions", sub.Topic)
	assert.Equal(t, "mcq", sub.QuestionType)
	require.Len(t, sub.Answers, 3)
	assert.True(t, sub.Answers[0].Graded())
	assert.True(t, sub.Answers[1].Graded())
	assert.False(t, sub.Answers[2].Graded())
	assert.Equal(t, []float64{4.5, 6, 12}, sub.PerQuestionTimes)
	assert.Equal(t, 22.5, sub.TotalTimeSeconds)
}

func TestParseSubmission_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{"answers": [`},
		{"missing answers", `{"topic": "x"}`},
		{"empty answers", `{"answers": []}`},
		{"ungraded answer", `{"answers": [{"question": "why"}]}`},
		{"wrong correct type", `{"answers": [{"correct": "yes"}]}`},
		{"negative time", `{"answers": [{"correct": true}], "total_time_seconds": -1}`},
		{"negative per-question time", `{"answers": [{"correct": true}], "per_question_times": [-2]}`},
		{"huge time", `{"answers": [{"correct": true}], "total_time_seconds": 1e308}`},
		{"huge per-question time", `{"answers": [{"correct": true}], "per_question_times": [1e308]}`},
		{"empty topic", `{"topic": "", "answers": [{"correct": true}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSubmission([]byte(tt.raw))
			require.Error(t, err)
			var invErr *ErrInvalidSubmission
			require.True(t, errors.As(err, &invErr), "got %T", err)
			assert.Equal(t, tt.raw, string(invErr.Content))
		})
	}
}

func TestSubmissionBatch(t *testing.T) {
	sub := Submission{
		Answers: []SubmittedAnswer{
			{Correct: boolPtr(false), Type: performance.TypeQA, Question: "q"},
			{UserAnswer: "x", CorrectAnswer: "X"},
		},
		TotalTimeSeconds: 8,
	}

	b := sub.batch("Literature")
	assert.Equal(t, "Literature", b.Topic)
	assert.Equal(t, DefaultQuestionType, b.QuestionType)
	assert.Equal(t, []performance.Answer{
		{Correct: false, Type: performance.TypeQA, Question: "q"},
		{Correct: true},
	}, b.Answers)
	assert.Equal(t, []float64{4, 4}, b.Timings())
}

func TestAnswerEvents(t *testing.T) {
	b := performance.Batch{
		Topic:              "t",
		QuestionType:       performance.TypeMCQ,
		Answers:            []performance.Answer{{Correct: true}, {Correct: false, Type: "mcq", Question: "q"}},
		PerQuestionSeconds: []float64{1, 2, 3},
	}
	events := answerEvents("s", b)
	require.Len(t, events, 2)
	assert.Zero(t, events[0].TimeSeconds, "mismatched timings are ignored")
	assert.Equal(t, "mcq", events[1].AnswerType)
	assert.Equal(t, "q", events[1].QuestionText)
	assert.False(t, events[1].Correct)
}

package performance

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectStress_Triggers(t *testing.T) {
	p := DefaultPolicy()
	tests := []struct {
		name string
		rec  *Record
		want StressSignal
	}{
		{
			name: "fresh record",
			rec:  NewRecord(),
			want: StressSignal{},
		},
		{
			name: "mistake streak wins over everything",
			rec: &Record{
				MistakeStreak:  3,
				ResponseTimes:  []float64{10, 10, 40},
				RollingResults: []bool{false, false, false, false, false},
			},
			want: StressSignal{Detected: true, RecommendedAction: ActionSwitchToReview},
		},
		{
			name: "time spike beats rolling accuracy",
			rec: &Record{
				MistakeStreak:  2,
				ResponseTimes:  []float64{10, 10, 40},
				RollingResults: []bool{false, false, false, false, false},
			},
			want: StressSignal{Detected: true, RecommendedAction: ActionMicroBreak},
		},
		{
			name: "spike below floor is ignored",
			rec: &Record{
				ResponseTimes: []float64{5, 5, 29},
			},
			want: StressSignal{},
		},
		{
			name: "slow but not a spike",
			rec: &Record{
				ResponseTimes: []float64{20, 20, 45},
			},
			want: StressSignal{},
		},
		{
			name: "zero previous average",
			rec: &Record{
				ResponseTimes: []float64{0, 0, 90},
			},
			want: StressSignal{},
		},
		{
			name: "rolling accuracy drop",
			rec: &Record{
				MistakeStreak:  1,
				ResponseTimes:  []float64{10, 10, 12},
				RollingResults: []bool{true, true, true, false, true, false, false, false},
			},
			want: StressSignal{Detected: true, RecommendedAction: ActionSimplifiedExplanation},
		},
		{
			name: "rolling window not full",
			rec: &Record{
				RollingResults: []bool{false, false, false, false},
			},
			want: StressSignal{},
		},
		{
			name: "only the last five count",
			rec: &Record{
				RollingResults: []bool{false, false, false, false, false, false, true, true, false, false},
			},
			want: StressSignal{},
		},
		{
			name: "one of five",
			rec: &Record{
				RollingResults: []bool{false, false, true, false, false},
			},
			want: StressSignal{Detected: true, RecommendedAction: ActionSimplifiedExplanation},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectStress(tt.rec, p))
		})
	}
}

func TestDetectStress_AfterIncorrectBatches(t *testing.T) {
	e := newTestEngine()
	rec := NewRecord()
	for i := 0; i < 3; i++ {
		e.Record(rec, Batch{Topic: "chemistry", QuestionType: TypeShort, Answers: answers(false)})
	}

	got := DetectStress(rec, e.Policy())
	assert.True(t, got.Detected)
	assert.Equal(t, ActionSwitchToReview, got.RecommendedAction)
}

func TestDetectStress_DoesNotMutate(t *testing.T) {
	rec := &Record{MistakeStreak: 4, ResponseTimes: []float64{1, 2}, RollingResults: []bool{false}}
	before := rec.Clone()
	DetectStress(rec, DefaultPolicy())
	DetectStress(rec, DefaultPolicy())
	before.normalize()
	rec.normalize()
	assert.Equal(t, before, rec)
}

func TestStressSignal_JSON(t *testing.T) {
	b, err := json.Marshal(StressSignal{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"stress_detected":false,"recommended_action":null}`, string(b))

	b, err = json.Marshal(StressSignal{Detected: true, RecommendedAction: ActionMicroBreak})
	require.NoError(t, err)
	assert.JSONEq(t, `{"stress_detected":true,"recommended_action":"micro_break"}`, string(b))

	var got StressSignal
	require.NoError(t, json.Unmarshal([]byte(`{"stress_detected":false,"recommended_action":null}`), &got))
	assert.Equal(t, StressSignal{}, got)
}

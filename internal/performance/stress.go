package performance

import "encoding/json"

// StressAction is the intervention suggested when stress is detected.
type StressAction string

const (
	ActionNone                  StressAction = ""
	ActionSwitchToReview        StressAction = "switch_to_review"
	ActionMicroBreak            StressAction = "micro_break"
	ActionSimplifiedExplanation StressAction = "simplified_explanation"
)

// MarshalJSON encodes ActionNone as null.
func (a StressAction) MarshalJSON() ([]byte, error) {
	if a == ActionNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(a))
}

// UnmarshalJSON accepts null as ActionNone.
func (a *StressAction) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil {
		*a = ActionNone
		return nil
	}
	*a = StressAction(*s)
	return nil
}

// StressSignal reports whether the learner shows signs of stress.
type StressSignal struct {
	Detected          bool         `json:"stress_detected"`
	RecommendedAction StressAction `json:"recommended_action"`
}

// DetectStress evaluates the stress triggers against rec's current state.
// Triggers are checked in order and the first one that fires wins:
// a run of mistakes, a response-time spike, then low rolling accuracy.
// rec is not modified.
func DetectStress(rec *Record, p Policy) StressSignal {
	sp := p.Stress

	if rec.MistakeStreak >= sp.MistakeStreak {
		return StressSignal{Detected: true, RecommendedAction: ActionSwitchToReview}
	}

	if n := len(rec.ResponseTimes); n >= 2 {
		avgPrev := mean(rec.ResponseTimes[:n-1])
		last := rec.ResponseTimes[n-1]
		if avgPrev > 0 && last > sp.SpikeFactor*avgPrev && last > sp.SpikeFloorSeconds {
			return StressSignal{Detected: true, RecommendedAction: ActionMicroBreak}
		}
	}

	if n := len(rec.RollingResults); n >= sp.Window {
		if rollingAccuracy(rec.RollingResults[n-sp.Window:]) < sp.MinAccuracy {
			return StressSignal{Detected: true, RecommendedAction: ActionSimplifiedExplanation}
		}
	}

	return StressSignal{}
}

func rollingAccuracy(results []bool) float64 {
	if len(results) == 0 {
		return 0
	}
	correct := 0
	for _, ok := range results {
		if ok {
			correct++
		}
	}
	return float64(correct) / float64(len(results)) * 100
}

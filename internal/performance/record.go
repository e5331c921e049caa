package performance

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// Mode is the adaptive instructional mode.
type Mode string

const (
	ModeUnset                Mode = ""
	ModeFluencyTraining      Mode = "fluency_training"
	ModeConceptReinforcement Mode = "concept_reinforcement"
	ModeCognitiveOverload    Mode = "cognitive_overload"
	ModeStandard             Mode = "standard"
)

// WeaknessEntry is one topic's diagnostic profile.
type WeaknessEntry struct {
	MasteryScore      float64    `json:"mastery_score"`
	ErrorTypes        []string   `json:"error_types"`
	RecurringPatterns []string   `json:"recurring_patterns"`
	LastUpdated       *time.Time `json:"last_updated"`
}

// Record is a session's performance state. It is owned by a single session
// and is not safe for concurrent use.
type Record struct {
	TopicAccuracy Tallies `json:"topic_accuracy"`
	TypeAccuracy  Tallies `json:"type_accuracy"`

	MasteryScore     float64 `json:"mastery_score"`
	TotalTimeSeconds float64 `json:"total_time_seconds"`
	TotalResponses   int     `json:"total_responses"`

	Streak        int `json:"streak"`
	BestStreak    int `json:"best_streak"`
	CorrectStreak int `json:"correct_streak"`
	MistakeStreak int `json:"mistake_streak"`

	// ResponseTimes holds the most recent per-question durations in seconds.
	ResponseTimes []float64 `json:"response_times"`
	// RollingResults holds the most recent correct/incorrect flags.
	RollingResults []bool `json:"rolling_results"`

	CognitiveStrainIndex float64 `json:"cognitive_strain_index"`
	AdaptiveMode         Mode    `json:"adaptive_mode,omitempty"`

	WeaknessProfile map[string]*WeaknessEntry `json:"weakness_profile"`
	StressHistory   []string                  `json:"stress_history"`
}

// NewRecord returns a blank record for a new session.
func NewRecord() *Record {
	r := &Record{}
	r.normalize()
	return r
}

// DecodeRecord parses a persisted record document.
func DecodeRecord(data []byte) (*Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode performance record: %w", err)
	}
	r.normalize()
	return &r, nil
}

// normalize replaces nil collections so the record encodes as empty
// lists and objects rather than null.
func (r *Record) normalize() {
	if r.ResponseTimes == nil {
		r.ResponseTimes = []float64{}
	}
	if r.RollingResults == nil {
		r.RollingResults = []bool{}
	}
	if r.WeaknessProfile == nil {
		r.WeaknessProfile = make(map[string]*WeaknessEntry)
	}
	for topic, w := range r.WeaknessProfile {
		if w == nil {
			delete(r.WeaknessProfile, topic)
			continue
		}
		if w.ErrorTypes == nil {
			w.ErrorTypes = []string{}
		}
		if w.RecurringPatterns == nil {
			w.RecurringPatterns = []string{}
		}
	}
	if r.StressHistory == nil {
		r.StressHistory = []string{}
	}
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	out := *r
	out.TopicAccuracy = r.TopicAccuracy.Clone()
	out.TypeAccuracy = r.TypeAccuracy.Clone()
	out.ResponseTimes = slices.Clone(r.ResponseTimes)
	out.RollingResults = slices.Clone(r.RollingResults)
	out.StressHistory = slices.Clone(r.StressHistory)
	out.WeaknessProfile = make(map[string]*WeaknessEntry, len(r.WeaknessProfile))
	for topic, w := range r.WeaknessProfile {
		if w == nil {
			continue
		}
		cp := *w
		cp.ErrorTypes = slices.Clone(w.ErrorTypes)
		cp.RecurringPatterns = slices.Clone(w.RecurringPatterns)
		if w.LastUpdated != nil {
			ts := *w.LastUpdated
			cp.LastUpdated = &ts
		}
		out.WeaknessProfile[topic] = &cp
	}
	out.normalize()
	return &out
}

// LogStress appends a stress event label to the history.
func (r *Record) LogStress(label string) {
	r.StressHistory = append(r.StressHistory, label)
}

// TotalCorrect returns correct answers summed over all topics.
func (r *Record) TotalCorrect() int {
	return r.TopicAccuracy.Sum().Correct
}

// TotalAttempts returns attempts summed over all topics.
func (r *Record) TotalAttempts() int {
	return r.TopicAccuracy.Sum().Total
}

// OverallAccuracy returns the session-wide accuracy percentage.
func (r *Record) OverallAccuracy() float64 {
	return r.TopicAccuracy.Sum().Accuracy()
}

// AverageResponseTime returns the mean of the retained response times.
func (r *Record) AverageResponseTime() float64 {
	return mean(r.ResponseTimes)
}

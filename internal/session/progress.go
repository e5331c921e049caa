package session

import (
	"context"

	"github.com/abhisek/studypulse/internal/performance"
)

// Progress is the full report for a session.
type Progress struct {
	SessionID       string                               `json:"session_id"`
	Subject         string                               `json:"subject"`
	TotalCorrect    int                                  `json:"total_correct"`
	TotalAttempts   int                                  `json:"total_attempts"`
	Accuracy        float64                              `json:"accuracy"`
	Mastery         float64                              `json:"mastery"`
	Streak          int                                  `json:"streak"`
	BestStreak      int                                  `json:"best_streak"`
	Weaknesses      []performance.Weakness               `json:"weaknesses"`
	Recommendations []string                             `json:"recommendations"`
	TopicAccuracy   performance.Tallies                  `json:"topic_accuracy"`
	TypeAccuracy    performance.Tallies                  `json:"type_accuracy"`
	StrainIndex     float64                              `json:"cognitive_strain_index"`
	AvgResponseTime float64                              `json:"avg_response_time"`
	AdaptiveMode    performance.Mode                     `json:"adaptive_mode"`
	WeaknessProfile map[string]performance.WeaknessEntry `json:"weakness_profile"`
	StressHistory   []string                             `json:"stress_history"`
	Stress          performance.StressSignal             `json:"stress"`
}

// Progress builds the progress report for the session with id. Nothing is
// written back.
func (s *Service) Progress(ctx context.Context, id string) (*Progress, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return BuildProgress(sess.ID, sess.Subject, sess.Performance, s.Policy()), nil
}

// BuildProgress derives the report from a record.
func BuildProgress(id, subject string, rec *performance.Record, p performance.Policy) *Progress {
	return &Progress{
		SessionID:       id,
		Subject:         subject,
		TotalCorrect:    rec.TotalCorrect(),
		TotalAttempts:   rec.TotalAttempts(),
		Accuracy:        round1(rec.OverallAccuracy()),
		Mastery:         rec.MasteryScore,
		Streak:          rec.Streak,
		BestStreak:      rec.BestStreak,
		Weaknesses:      performance.DetectWeaknesses(rec, p),
		Recommendations: performance.Recommendations(rec, subject, p),
		TopicAccuracy:   rec.TopicAccuracy.Clone(),
		TypeAccuracy:    rec.TypeAccuracy.Clone(),
		StrainIndex:     rec.CognitiveStrainIndex,
		AvgResponseTime: round1(rec.AverageResponseTime()),
		AdaptiveMode:    rec.AdaptiveMode,
		WeaknessProfile: performance.WeaknessDNA(rec),
		StressHistory:   append([]string{}, rec.StressHistory...),
		Stress:          performance.DetectStress(rec, p),
	}
}

// WeaknessReport is the weakness DNA of a session.
type WeaknessReport struct {
	SessionID       string                               `json:"session_id"`
	Subject         string                               `json:"subject"`
	WeaknessProfile map[string]performance.WeaknessEntry `json:"weakness_profile"`
}

// WeaknessProfile returns the topics still tracked as weaknesses.
func (s *Service) WeaknessProfile(ctx context.Context, id string) (*WeaknessReport, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &WeaknessReport{
		SessionID:       sess.ID,
		Subject:         sess.Subject,
		WeaknessProfile: performance.WeaknessDNA(sess.Performance),
	}, nil
}

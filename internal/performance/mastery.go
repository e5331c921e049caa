package performance

import "math"

// Mastery computes the composite 0-100 mastery score from overall accuracy,
// topic/type coverage breadth and the best streak. It is a pure function
// of rec.
func Mastery(rec *Record, p Policy) float64 {
	mp := p.Mastery

	accuracy := rec.OverallAccuracy()

	breadth := rec.TopicAccuracy.Len() + rec.TypeAccuracy.Len()
	coverage := math.Min(float64(breadth)/float64(mp.CoverageTarget), 1) * 100

	streak := min(rec.BestStreak, mp.StreakTarget)
	streakScore := float64(streak) / float64(mp.StreakTarget) * 100

	score := mp.AccuracyWeight*accuracy + mp.CoverageWeight*coverage + mp.StreakWeight*streakScore
	return round1(clamp(score, 0, 100))
}

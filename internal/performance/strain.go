package performance

import "math"

// CognitiveStrain estimates mental fatigue on a 0-100 scale from the level
// and volatility of response times and the current run of mistakes.
func CognitiveStrain(responseTimes []float64, mistakeStreak int, p Policy) float64 {
	if len(responseTimes) == 0 {
		return 0
	}
	sp := p.Strain

	normAvg := math.Min(mean(responseTimes)/sp.TimeCapSeconds, 1)
	normDev := math.Min(stddev(responseTimes)/sp.DeviationCapSeconds, 1)
	normStreak := math.Min(float64(max(mistakeStreak, 0))/float64(sp.MistakeStreakCap), 1)

	index := 100 * (sp.TimeWeight*normAvg + sp.DeviationWeight*normDev + sp.StreakWeight*normStreak)
	return round1(clamp(index, 0, 100))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

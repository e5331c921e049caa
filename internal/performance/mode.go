package performance

// ClassifyMode picks the instructional mode from a topic accuracy
// percentage and the average response time in seconds. Rules are checked
// in order and the first match wins.
func ClassifyMode(accuracy, avgSeconds float64, p Policy) Mode {
	mp := p.Mode
	switch {
	case accuracy >= mp.FluencyAccuracy && avgSeconds > mp.SlowSeconds:
		// Accurate but slow: push for speed.
		return ModeFluencyTraining
	case accuracy < mp.LowAccuracy && avgSeconds < mp.FastSeconds:
		// Fast but wrong: likely guessing.
		return ModeConceptReinforcement
	case accuracy < mp.LowAccuracy && avgSeconds > mp.SlowSeconds:
		return ModeCognitiveOverload
	default:
		return ModeStandard
	}
}

// CurrentMode re-evaluates the mode for topic against rec without mutating it.
func CurrentMode(rec *Record, topic string, p Policy) Mode {
	t, _ := rec.TopicAccuracy.Get(topic)
	return ClassifyMode(t.Accuracy(), rec.AverageResponseTime(), p)
}

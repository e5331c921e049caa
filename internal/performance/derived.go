package performance

// Derived holds the fields recomputed on every update.
type Derived struct {
	MasteryScore         float64 `json:"mastery_score"`
	CognitiveStrainIndex float64 `json:"cognitive_strain_index"`
	AdaptiveMode         Mode    `json:"adaptive_mode"`
}

// Derive recomputes mastery, strain and the mode for topic from rec's
// counters and buffers without modifying rec.
func Derive(rec *Record, topic string, p Policy) Derived {
	return Derived{
		MasteryScore:         Mastery(rec, p),
		CognitiveStrainIndex: CognitiveStrain(rec.ResponseTimes, rec.MistakeStreak, p),
		AdaptiveMode:         CurrentMode(rec, topic, p),
	}
}

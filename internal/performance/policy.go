package performance

// Question types accepted by the exercise layer.
const (
	TypeMCQ       = "mcq"
	TypeTrueFalse = "true_false"
	TypeShort     = "short"
	TypeQA        = "qa"
)

// UnknownAnswerType is recorded when a wrong answer carries no type.
const UnknownAnswerType = "unknown"

// Policy holds every threshold the engine uses. The zero value is not
// useful; start from DefaultPolicy and override fields.
type Policy struct {
	// QuestionTypes is the closed set of question-type tags.
	QuestionTypes []string `yaml:"question_types" validate:"min=1,dive,required"`

	// ResponseTimeWindow bounds the retained per-question timings.
	ResponseTimeWindow int `yaml:"response_time_window" validate:"gte=1"`
	// RollingWindow bounds the retained correct/incorrect flags.
	RollingWindow int `yaml:"rolling_window" validate:"gte=1"`

	Strain StrainPolicy `yaml:"strain"`
	Mode   ModePolicy   `yaml:"mode"`
	Stress StressPolicy `yaml:"stress"`

	Weakness WeaknessPolicy `yaml:"weakness"`
	Mastery  MasteryPolicy  `yaml:"mastery"`
	Advisor  AdvisorPolicy  `yaml:"advisor"`
}

// StrainPolicy configures the cognitive strain index.
type StrainPolicy struct {
	TimeCapSeconds      float64 `yaml:"time_cap_seconds" validate:"gt=0"`
	DeviationCapSeconds float64 `yaml:"deviation_cap_seconds" validate:"gt=0"`
	MistakeStreakCap    int     `yaml:"mistake_streak_cap" validate:"gte=1"`
	TimeWeight          float64 `yaml:"time_weight" validate:"gte=0,lte=1"`
	DeviationWeight     float64 `yaml:"deviation_weight" validate:"gte=0,lte=1"`
	StreakWeight        float64 `yaml:"streak_weight" validate:"gte=0,lte=1"`
}

// ModePolicy configures the adaptive mode decision table.
type ModePolicy struct {
	FluencyAccuracy float64 `yaml:"fluency_accuracy" validate:"gte=0,lte=100"`
	LowAccuracy     float64 `yaml:"low_accuracy" validate:"gte=0,lte=100"`
	SlowSeconds     float64 `yaml:"slow_seconds" validate:"gt=0"`
	FastSeconds     float64 `yaml:"fast_seconds" validate:"gte=0"`
}

// StressPolicy configures the stress triggers.
type StressPolicy struct {
	MistakeStreak     int     `yaml:"mistake_streak" validate:"gte=1"`
	SpikeFactor       float64 `yaml:"spike_factor" validate:"gt=1"`
	SpikeFloorSeconds float64 `yaml:"spike_floor_seconds" validate:"gte=0"`
	Window            int     `yaml:"window" validate:"gte=1"`
	MinAccuracy       float64 `yaml:"min_accuracy" validate:"gte=0,lte=100"`
}

// WeaknessPolicy configures the weakness DNA profiler.
type WeaknessPolicy struct {
	GraduateAccuracy  float64 `yaml:"graduate_accuracy" validate:"gte=0,lte=100"`
	GraduateAttempts  int     `yaml:"graduate_attempts" validate:"gte=1"`
	PatternLimit      int     `yaml:"pattern_limit" validate:"gte=1"`
	KeywordsPerAnswer int     `yaml:"keywords_per_answer" validate:"gte=0"`
	// MinKeywordLength is the shortest keyword kept, in runes.
	MinKeywordLength int `yaml:"min_keyword_length" validate:"gte=1"`
}

// MasteryPolicy configures the composite mastery score.
type MasteryPolicy struct {
	AccuracyWeight float64 `yaml:"accuracy_weight" validate:"gte=0,lte=1"`
	CoverageWeight float64 `yaml:"coverage_weight" validate:"gte=0,lte=1"`
	StreakWeight   float64 `yaml:"streak_weight" validate:"gte=0,lte=1"`
	// CoverageTarget is the topic+type count treated as full coverage.
	CoverageTarget int `yaml:"coverage_target" validate:"gte=1"`
	// StreakTarget is the best streak treated as a full streak score.
	StreakTarget int `yaml:"streak_target" validate:"gte=1"`
}

// AdvisorPolicy configures weakness reports and recommendations.
type AdvisorPolicy struct {
	WeakAccuracy     float64 `yaml:"weak_accuracy" validate:"gte=0,lte=100"`
	WeakMinAttempts  int     `yaml:"weak_min_attempts" validate:"gte=1"`
	MaxWeaknessTips  int     `yaml:"max_weakness_tips" validate:"gte=0"`
	CelebrateStreak  int     `yaml:"celebrate_streak" validate:"gte=1"`
	FundamentalsTier float64 `yaml:"fundamentals_tier" validate:"gte=0,lte=100"`
	ProgressTier     float64 `yaml:"progress_tier" validate:"gte=0,lte=100"`
}

// DefaultPolicy returns the standard thresholds.
func DefaultPolicy() Policy {
	return Policy{
		QuestionTypes:      []string{TypeMCQ, TypeTrueFalse, TypeShort, TypeQA},
		ResponseTimeWindow: 50,
		RollingWindow:      20,
		Strain: StrainPolicy{
			TimeCapSeconds:      60,
			DeviationCapSeconds: 30,
			MistakeStreakCap:    5,
			TimeWeight:          0.4,
			DeviationWeight:     0.3,
			StreakWeight:        0.3,
		},
		Mode: ModePolicy{
			FluencyAccuracy: 70,
			LowAccuracy:     50,
			SlowSeconds:     30,
			FastSeconds:     8,
		},
		Stress: StressPolicy{
			MistakeStreak:     3,
			SpikeFactor:       2.5,
			SpikeFloorSeconds: 30,
			Window:            5,
			MinAccuracy:       30,
		},
		Weakness: WeaknessPolicy{
			GraduateAccuracy:  60,
			GraduateAttempts:  3,
			PatternLimit:      20,
			KeywordsPerAnswer: 3,
			MinKeywordLength:  5,
		},
		Mastery: MasteryPolicy{
			AccuracyWeight: 0.6,
			CoverageWeight: 0.2,
			StreakWeight:   0.2,
			CoverageTarget: 8,
			StreakTarget:   10,
		},
		Advisor: AdvisorPolicy{
			WeakAccuracy:     50,
			WeakMinAttempts:  2,
			MaxWeaknessTips:  3,
			CelebrateStreak:  3,
			FundamentalsTier: 30,
			ProgressTier:     60,
		},
	}
}

// IsQuestionType reports whether t belongs to the closed question-type set.
func (p Policy) IsQuestionType(t string) bool {
	for _, qt := range p.QuestionTypes {
		if qt == t {
			return true
		}
	}
	return false
}

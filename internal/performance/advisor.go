package performance

import (
	"fmt"
	"strings"
)

// WeaknessKind says whether a weakness is a topic or a question type.
type WeaknessKind string

const (
	KindTopic        WeaknessKind = "topic"
	KindQuestionType WeaknessKind = "question_type"
)

// Weakness is a topic or question type with low accuracy.
type Weakness struct {
	Kind     WeaknessKind `json:"kind"`
	Name     string       `json:"name"`
	Accuracy float64      `json:"accuracy"`
}

// DetectWeaknesses lists topics, then question types, that have enough
// attempts and an accuracy below the weakness threshold. Each group is in
// first-attempt order.
func DetectWeaknesses(rec *Record, p Policy) []Weakness {
	out := []Weakness{}
	out = appendWeak(out, &rec.TopicAccuracy, KindTopic, p.Advisor)
	out = appendWeak(out, &rec.TypeAccuracy, KindQuestionType, p.Advisor)
	return out
}

func appendWeak(out []Weakness, ts *Tallies, kind WeaknessKind, ap AdvisorPolicy) []Weakness {
	for _, name := range ts.Keys() {
		t, _ := ts.Get(name)
		if t.Total < ap.WeakMinAttempts {
			continue
		}
		if acc := t.Accuracy(); acc < ap.WeakAccuracy {
			out = append(out, Weakness{Kind: kind, Name: name, Accuracy: round1(acc)})
		}
	}
	return out
}

// SuggestNextTopic picks the next topic to study from candidates.
// The first never-attempted candidate wins; otherwise the candidate with
// the lowest correct/total ratio, ties going to the earliest. It returns
// "" when candidates is empty.
func SuggestNextTopic(rec *Record, candidates []string) string {
	for _, t := range candidates {
		if !rec.TopicAccuracy.Has(t) {
			return t
		}
	}

	best := ""
	bestRatio := 0.0
	for i, t := range candidates {
		tally, _ := rec.TopicAccuracy.Get(t)
		ratio := tally.Ratio()
		if i == 0 || ratio < bestRatio {
			best, bestRatio = t, ratio
		}
	}
	return best
}

// Recommendations builds study advice: a message for the mastery tier,
// up to a few weakness tips, and a streak celebration when earned.
func Recommendations(rec *Record, subject string, p Policy) []string {
	ap := p.Advisor
	var recs []string

	switch {
	case rec.MasteryScore < ap.FundamentalsTier:
		recs = append(recs, fmt.Sprintf("Focus on building fundamentals in %s.", subject))
	case rec.MasteryScore < ap.ProgressTier:
		recs = append(recs, "Solid progress. Continue practicing to strengthen weak areas.")
	default:
		recs = append(recs, "Strong performance. Consider moving to advanced topics.")
	}

	weak := DetectWeaknesses(rec, p)
	if len(weak) > ap.MaxWeaknessTips {
		weak = weak[:ap.MaxWeaknessTips]
	}
	for _, w := range weak {
		if w.Kind == KindTopic {
			recs = append(recs, fmt.Sprintf("Review %s -- accuracy is %.1f%%.", w.Name, w.Accuracy))
		} else {
			recs = append(recs, fmt.Sprintf("Practice more %s questions.", strings.ReplaceAll(w.Name, "_", " ")))
		}
	}

	if rec.Streak >= ap.CelebrateStreak {
		recs = append(recs, fmt.Sprintf("Current streak: %d rounds correct in a row.", rec.Streak))
	}

	return recs
}

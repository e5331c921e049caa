package performance

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// updateWeakness refreshes the weakness DNA entry for the batch's topic and
// drops it once the topic is no longer weak.
func (e *Engine) updateWeakness(rec *Record, b Batch) {
	wp := e.policy.Weakness
	tally, _ := rec.TopicAccuracy.Get(b.Topic)
	accuracy := tally.Accuracy()

	entry := rec.WeaknessProfile[b.Topic]
	if entry == nil {
		entry = &WeaknessEntry{
			ErrorTypes:        []string{},
			RecurringPatterns: []string{},
		}
		rec.WeaknessProfile[b.Topic] = entry
	}

	now := e.now()
	entry.MasteryScore = round1(accuracy)
	entry.LastUpdated = &now

	for _, a := range b.Answers {
		if a.Correct {
			continue
		}
		qtype := a.Type
		if qtype == "" {
			qtype = UnknownAnswerType
		}
		entry.ErrorTypes = appendUnique(entry.ErrorTypes, qtype)

		for _, kw := range ExtractKeywords(a.Question, wp.MinKeywordLength, wp.KeywordsPerAnswer) {
			entry.RecurringPatterns = appendUnique(entry.RecurringPatterns, kw)
		}
	}
	entry.RecurringPatterns = keepLast(entry.RecurringPatterns, wp.PatternLimit)

	if Graduated(tally, e.policy) {
		delete(rec.WeaknessProfile, b.Topic)
	}
}

// Graduated reports whether a topic tally is strong enough to stop being
// tracked as a weakness.
func Graduated(t Tally, p Policy) bool {
	return t.Total >= p.Weakness.GraduateAttempts && t.Accuracy() >= p.Weakness.GraduateAccuracy
}

// ExtractKeywords returns up to limit lower-cased keywords from text.
// A keyword is a whitespace-separated token made only of letters and at
// least minLen runes long.
func ExtractKeywords(text string, minLen, limit int) []string {
	if limit <= 0 {
		return nil
	}
	var out []string
	for _, tok := range strings.Fields(text) {
		if utf8.RuneCountInString(tok) < minLen || !isAlpha(tok) {
			continue
		}
		out = append(out, strings.ToLower(tok))
		if len(out) == limit {
			break
		}
	}
	return out
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}

func appendUnique(s []string, v string) []string {
	if slices.Contains(s, v) {
		return s
	}
	return append(s, v)
}

// WeaknessDNA returns a copy of the topics still tracked as weaknesses.
func WeaknessDNA(rec *Record) map[string]WeaknessEntry {
	out := make(map[string]WeaknessEntry, len(rec.WeaknessProfile))
	for topic, w := range rec.WeaknessProfile {
		if w == nil {
			continue
		}
		cp := *w
		cp.ErrorTypes = slices.Clone(w.ErrorTypes)
		cp.RecurringPatterns = slices.Clone(w.RecurringPatterns)
		out[topic] = cp
	}
	return out
}

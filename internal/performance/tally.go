package performance

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Tally counts correct answers out of total attempts. Total >= Correct.
type Tally struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Add records a batch of total answers of which correct were right.
func (t *Tally) Add(correct, total int) {
	t.Correct += correct
	t.Total += total
}

// Accuracy returns the percentage of correct answers, or 0 with no attempts.
func (t Tally) Accuracy() float64 {
	if t.Total <= 0 {
		return 0
	}
	return float64(t.Correct) / float64(t.Total) * 100
}

// Ratio returns Correct/Total, or 0 with no attempts.
func (t Tally) Ratio() float64 {
	if t.Total <= 0 {
		return 0
	}
	return float64(t.Correct) / float64(t.Total)
}

// Tallies maps a topic or question type to its Tally, remembering the order
// in which keys were first seen. The zero value is ready to use.
type Tallies struct {
	keys []string
	m    map[string]*Tally
}

// Entry returns the tally for key, inserting a zero tally if absent.
func (ts *Tallies) Entry(key string) *Tally {
	if t, ok := ts.m[key]; ok {
		return t
	}
	if ts.m == nil {
		ts.m = make(map[string]*Tally)
	}
	t := &Tally{}
	ts.m[key] = t
	ts.keys = append(ts.keys, key)
	return t
}

// Get returns a copy of the tally for key and whether it exists.
func (ts *Tallies) Get(key string) (Tally, bool) {
	t, ok := ts.m[key]
	if !ok {
		return Tally{}, false
	}
	return *t, true
}

// Has reports whether key has been recorded.
func (ts *Tallies) Has(key string) bool {
	_, ok := ts.m[key]
	return ok
}

// Keys returns keys in first-seen order.
func (ts *Tallies) Keys() []string {
	out := make([]string, len(ts.keys))
	copy(out, ts.keys)
	return out
}

// Len returns the number of distinct keys.
func (ts *Tallies) Len() int {
	return len(ts.keys)
}

// Sum returns the combined tally across all keys.
func (ts *Tallies) Sum() Tally {
	var sum Tally
	for _, k := range ts.keys {
		sum.Add(ts.m[k].Correct, ts.m[k].Total)
	}
	return sum
}

// Clone returns a deep copy.
func (ts *Tallies) Clone() Tallies {
	var out Tallies
	for _, k := range ts.keys {
		*out.Entry(k) = *ts.m[k]
	}
	return out
}

// MarshalJSON encodes the tallies as a JSON object in first-seen order.
func (ts Tallies) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range ts.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(ts.m[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping the document's key order.
func (ts *Tallies) UnmarshalJSON(data []byte) error {
	*ts = Tallies{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("tallies: expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("tallies: expected key, got %v", tok)
		}
		var t Tally
		if err := dec.Decode(&t); err != nil {
			return fmt.Errorf("tallies: decode %q: %w", key, err)
		}
		*ts.Entry(key) = t
	}
	_, err = dec.Token()
	return err
}

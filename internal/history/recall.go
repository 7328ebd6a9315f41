package history

// Recall steps through past queries the way a shell steps through its
// history: Prev moves to older entries, Next back towards the draft.
type Recall struct {
	items []string
	pos   int
	draft string
}

// NewRecall takes queries newest first. Consecutive duplicates are folded.
func NewRecall(queries []string) *Recall {
	r := &Recall{pos: -1}
	for _, q := range queries {
		if n := len(r.items); n > 0 && r.items[n-1] == q {
			continue
		}
		r.items = append(r.items, q)
	}
	return r
}

// FromEntries builds a Recall from Store.Recent output.
func FromEntries(entries []*Entry) *Recall {
	qs := make([]string, 0, len(entries))
	for _, e := range entries {
		qs = append(qs, e.Query)
	}
	return NewRecall(qs)
}

// Push records q as the newest entry and resets the cursor. Blank
// queries are not kept.
func (r *Recall) Push(q string) {
	if q != "" && (len(r.items) == 0 || r.items[0] != q) {
		r.items = append([]string{q}, r.items...)
	}
	r.Reset()
}

// Prev returns the next older query. current is kept as the draft when
// leaving it for the first time.
func (r *Recall) Prev(current string) (string, bool) {
	if r.pos+1 >= len(r.items) {
		return current, false
	}
	if r.pos == -1 {
		r.draft = current
	}
	r.pos++
	return r.items[r.pos], true
}

// Next returns the next newer query, or the draft once past the newest.
func (r *Recall) Next() (string, bool) {
	if r.pos < 0 {
		return "", false
	}
	r.pos--
	if r.pos == -1 {
		return r.draft, true
	}
	return r.items[r.pos], true
}

func (r *Recall) Reset() {
	r.pos = -1
	r.draft = ""
}

func (r *Recall) Len() int { return len(r.items) }

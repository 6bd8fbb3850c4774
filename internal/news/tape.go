package news

// Tape maintains a bounded ring buffer of past events for the news
// panel. The session appends from its own loop; readers get copies.
type Tape struct {
	buf   []Event
	size  int
	start int
	count int
}

// NewTape creates a Tape with the given capacity.
func NewTape(capacity int) *Tape {
	if capacity <= 0 {
		capacity = 50
	}
	return &Tape{
		buf:  make([]Event, capacity),
		size: capacity,
	}
}

// Append adds an event, overwriting the oldest when full.
func (t *Tape) Append(ev Event) {
	if t.count < t.size {
		t.buf[(t.start+t.count)%t.size] = ev
		t.count++
		return
	}
	t.buf[t.start] = ev
	t.start = (t.start + 1) % t.size
}

// Latest returns the last n events in chronological order (oldest
// first). Returns a copy, not internal references.
func (t *Tape) Latest(n int) []Event {
	if n <= 0 || t.count == 0 {
		return nil
	}
	if n > t.count {
		n = t.count
	}
	out := make([]Event, n)
	first := (t.start + (t.count - n)) % t.size
	for i := 0; i < n; i++ {
		out[i] = t.buf[(first+i)%t.size]
	}
	return out
}

// Count returns the number of events on the tape.
func (t *Tape) Count() int { return t.count }

// Clear empties the tape.
func (t *Tape) Clear() {
	t.start, t.count = 0, 0
}

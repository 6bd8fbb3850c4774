// Package clock provides a cooperative scheduler measured in abstract
// time units. Callbacks run synchronously inside Advance, one at a
// time, so callers get within-callback atomicity for free.
package clock

// Handle cancels a scheduled callback.
type Handle struct {
	entry *entry
}

// Stop cancels the callback. Safe to call more than once.
func (h Handle) Stop() {
	if h.entry != nil {
		h.entry.stopped = true
	}
}

type entry struct {
	due     int64 // absolute unit time
	period  int64 // 0 for one-shot
	seq     int64 // insertion order, breaks ties
	fn      func()
	stopped bool
}

// Scheduler runs callbacks at unit-time offsets. It is not safe for
// concurrent use; the owning loop drives it from a single goroutine.
type Scheduler struct {
	now     int64
	seq     int64
	entries []*entry
}

// NewScheduler creates an empty scheduler at unit time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the current unit time.
func (s *Scheduler) Now() int64 { return s.now }

// After schedules fn to run once, d units from now. d < 1 is clamped
// to 1 so a callback never fires inside the call that scheduled it.
func (s *Scheduler) After(d int64, fn func()) Handle {
	if d < 1 {
		d = 1
	}
	e := &entry{due: s.now + d, seq: s.nextSeq(), fn: fn}
	s.entries = append(s.entries, e)
	return Handle{entry: e}
}

// Every schedules fn to run every d units, first firing d units from now.
func (s *Scheduler) Every(d int64, fn func()) Handle {
	if d < 1 {
		d = 1
	}
	e := &entry{due: s.now + d, period: d, seq: s.nextSeq(), fn: fn}
	s.entries = append(s.entries, e)
	return Handle{entry: e}
}

func (s *Scheduler) nextSeq() int64 {
	s.seq++
	return s.seq
}

// Advance moves unit time forward by n, firing due callbacks in due
// order (insertion order on ties). Each unit is processed fully before
// the next, so a 1-unit ticker fires n times during Advance(n).
func (s *Scheduler) Advance(n int64) {
	for i := int64(0); i < n; i++ {
		s.now++
		s.fireDue()
	}
}

func (s *Scheduler) fireDue() {
	// Callbacks may schedule further entries; collect due ones first.
	var due []*entry
	for _, e := range s.entries {
		if !e.stopped && e.due <= s.now {
			due = append(due, e)
		}
	}
	for i := 0; i < len(due); i++ {
		for j := i + 1; j < len(due); j++ {
			if due[j].due < due[i].due || (due[j].due == due[i].due && due[j].seq < due[i].seq) {
				due[i], due[j] = due[j], due[i]
			}
		}
	}
	for _, e := range due {
		if e.stopped {
			continue
		}
		if e.period > 0 {
			e.due = s.now + e.period
		} else {
			e.stopped = true
		}
		e.fn()
	}
	s.compact()
}

// StopAll cancels every outstanding entry.
func (s *Scheduler) StopAll() {
	for _, e := range s.entries {
		e.stopped = true
	}
	s.entries = s.entries[:0]
}

// Pending returns the number of live entries.
func (s *Scheduler) Pending() int {
	n := 0
	for _, e := range s.entries {
		if !e.stopped {
			n++
		}
	}
	return n
}

func (s *Scheduler) compact() {
	live := s.entries[:0]
	for _, e := range s.entries {
		if !e.stopped {
			live = append(live, e)
		}
	}
	s.entries = live
}

package chat

import "time"

// TypingEntry names one user flagged as typing in one room.
type TypingEntry struct {
	Room string
	Name string
}

// TypingTracker keeps the per-room sets of display names currently composing
// a message. An entry not refreshed within the idle window is swept out so a
// client that vanishes mid-keystroke does not stay "typing" forever.
type TypingTracker struct {
	idle  time.Duration
	rooms map[string]map[string]time.Time
}

// NewTypingTracker returns a tracker with the given idle window.
func NewTypingTracker(idle time.Duration) *TypingTracker {
	if idle <= 0 {
		idle = 10 * time.Second
	}
	return &TypingTracker{
		idle:  idle,
		rooms: make(map[string]map[string]time.Time),
	}
}

// Start flags the user as typing in the room, refreshing the idle deadline
// if already flagged.
func (t *TypingTracker) Start(room, name string, now time.Time) {
	set, ok := t.rooms[room]
	if !ok {
		set = make(map[string]time.Time)
		t.rooms[room] = set
	}
	set[name] = now
}

// Stop clears the user's typing flag in the room. It reports whether the
// user was flagged, so callers broadcast a stop notification only on an
// actual change.
func (t *TypingTracker) Stop(room, name string) bool {
	set, ok := t.rooms[room]
	if !ok {
		return false
	}
	if _, present := set[name]; !present {
		return false
	}
	delete(set, name)
	if len(set) == 0 {
		delete(t.rooms, room)
	}
	return true
}

// Sweep removes every entry whose idle deadline has passed and returns the
// removed entries for stop broadcasts.
func (t *TypingTracker) Sweep(now time.Time) []TypingEntry {
	var expired []TypingEntry
	for room, set := range t.rooms {
		for name, last := range set {
			if now.Sub(last) >= t.idle {
				expired = append(expired, TypingEntry{Room: room, Name: name})
				delete(set, name)
			}
		}
		if len(set) == 0 {
			delete(t.rooms, room)
		}
	}
	return expired
}

// Typing returns the display names currently flagged in the room.
func (t *TypingTracker) Typing(room string) []string {
	set, ok := t.rooms[room]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	return out
}

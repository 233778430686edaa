package chat

// HistoryBuffer retains the most recent room messages, oldest evicted first.
// Its contents are replayed once to each connection at identify time.
// Private messages are never appended.
type HistoryBuffer struct {
	limit   int
	entries []Message
}

// NewHistoryBuffer returns a buffer that keeps at most limit messages.
func NewHistoryBuffer(limit int) *HistoryBuffer {
	if limit <= 0 {
		limit = 1
	}
	return &HistoryBuffer{limit: limit}
}

// Append records a room message, evicting the oldest entry when full.
func (h *HistoryBuffer) Append(m Message) {
	h.entries = append(h.entries, m)
	if len(h.entries) > h.limit {
		h.entries = h.entries[len(h.entries)-h.limit:]
	}
}

// Snapshot returns the buffered messages oldest-first. The returned slice is
// a copy and never nil, so it always marshals as a JSON array.
func (h *HistoryBuffer) Snapshot() []Message {
	out := make([]Message, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len reports how many messages are buffered.
func (h *HistoryBuffer) Len() int {
	return len(h.entries)
}

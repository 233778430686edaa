package chat

// Session is the per-connection state tracked by the registry. A session with
// an empty Name has connected but not yet identified; it belongs to no room.
type Session struct {
	ID   string
	Name string
	Room string
}

// Identified reports whether the session has a display name yet.
func (s *Session) Identified() bool {
	return s.Name != ""
}

// Registry maps active connection identifiers to their sessions and keeps a
// reverse index from display name to connection for private-message routing.
// It is owned by the hub loop and must not be shared across goroutines.
type Registry struct {
	sessions map[string]*Session
	names    map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		names:    make(map[string]string),
	}
}

// Register creates a session for a newly connected transport link. The
// session starts with no display name and no room.
func (r *Registry) Register(connID string) *Session {
	s := &Session{ID: connID}
	r.sessions[connID] = s
	return s
}

// Identify sets the session's display name exactly once. It fails with
// ErrSessionNotFound for unknown connections, ErrAlreadyIdentified on a
// repeated identify, and ErrNameTaken when another active connection already
// holds the name.
func (r *Registry) Identify(connID, name string) (*Session, error) {
	s, ok := r.sessions[connID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.Identified() {
		return nil, ErrAlreadyIdentified
	}
	if _, taken := r.names[name]; taken {
		return nil, ErrNameTaken
	}
	s.Name = name
	r.names[name] = connID
	return s, nil
}

// Lookup returns the session for a connection identifier.
func (r *Registry) Lookup(connID string) (*Session, bool) {
	s, ok := r.sessions[connID]
	return s, ok
}

// ByName resolves a display name to its session.
func (r *Registry) ByName(name string) (*Session, bool) {
	connID, ok := r.names[name]
	if !ok {
		return nil, false
	}
	return r.Lookup(connID)
}

// Remove deletes the session and frees its display name. It is idempotent
// and returns the removed session when one existed.
func (r *Registry) Remove(connID string) (*Session, bool) {
	s, ok := r.sessions[connID]
	if !ok {
		return nil, false
	}
	delete(r.sessions, connID)
	if s.Identified() {
		delete(r.names, s.Name)
	}
	return s, true
}

// Identified returns every session that has completed identify, in no
// particular order.
func (r *Registry) Identified() []*Session {
	out := make([]*Session, 0, len(r.names))
	for _, s := range r.sessions {
		if s.Identified() {
			out = append(out, s)
		}
	}
	return out
}

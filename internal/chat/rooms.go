package chat

// RoomDirectory tracks the fixed set of rooms and each room's member set.
// The room universe is supplied at startup and never changes; rooms are only
// populated and emptied. Membership stays consistent with each session's
// Room field: Move and Leave are the only mutators and update both sides.
type RoomDirectory struct {
	order   []string
	members map[string]map[string]struct{}
}

// NewRoomDirectory builds a directory over the given room names, preserving
// their order for presentation.
func NewRoomDirectory(rooms []string) *RoomDirectory {
	d := &RoomDirectory{
		order:   append([]string(nil), rooms...),
		members: make(map[string]map[string]struct{}, len(rooms)),
	}
	for _, room := range rooms {
		d.members[room] = make(map[string]struct{})
	}
	return d
}

// Rooms returns the room names in presentation order.
func (d *RoomDirectory) Rooms() []string {
	return append([]string(nil), d.order...)
}

// Exists reports whether the room is part of the fixed list.
func (d *RoomDirectory) Exists(room string) bool {
	_, ok := d.members[room]
	return ok
}

// Move rehomes the session into the target room, removing it from its
// current room first. On first join the session has no room and the move is
// a pure add. Moving to a room outside the fixed list fails with
// ErrUnknownRoom and changes nothing.
func (d *RoomDirectory) Move(s *Session, to string) error {
	if !d.Exists(to) {
		return ErrUnknownRoom
	}
	if s.Room != "" {
		delete(d.members[s.Room], s.ID)
	}
	d.members[to][s.ID] = struct{}{}
	s.Room = to
	return nil
}

// Leave removes the session from its current room, if any, and clears its
// Room field. Called on disconnect.
func (d *RoomDirectory) Leave(s *Session) {
	if s.Room == "" {
		return
	}
	delete(d.members[s.Room], s.ID)
	s.Room = ""
}

// MembersOf returns the connection identifiers currently in the room.
func (d *RoomDirectory) MembersOf(room string) []string {
	set, ok := d.members[room]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(set))
	for connID := range set {
		out = append(out, connID)
	}
	return out
}

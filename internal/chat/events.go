package chat

// Peer is the transport-side handle the hub holds for one connection.
// Deliver must not block: it queues the payload and reports false when the
// peer can no longer accept writes, which the hub treats as grounds for
// eviction. Close tears the underlying connection down and is idempotent.
type Peer interface {
	ID() string
	Deliver(payload []byte) bool
	Close()
}

// Event is one unit of work for the hub loop. The concrete variants below
// mirror the inbound operations plus the two transport-originated
// transitions (connect, disconnect); the hub switches over them
// exhaustively.
type Event interface {
	isEvent()
}

// ConnectEvent announces a freshly upgraded transport link.
type ConnectEvent struct {
	Peer Peer
}

// IdentifyEvent sets a connection's display name and admits it to the
// default room.
type IdentifyEvent struct {
	ConnID string
	Name   string
}

// RoomMessageEvent sends text to every member of the sender's current room.
type RoomMessageEvent struct {
	ConnID string
	Text   string
}

// PrivateMessageEvent sends text to a single display name.
type PrivateMessageEvent struct {
	ConnID string
	To     string
	Text   string
}

// TypingEvent flags or clears the sender in their room's typing set.
type TypingEvent struct {
	ConnID string
	Active bool
}

// JoinRoomEvent moves the sender into another room.
type JoinRoomEvent struct {
	ConnID string
	Room   string
}

// DisconnectEvent reports that the transport link closed. It is accepted in
// any state and is idempotent.
type DisconnectEvent struct {
	ConnID string
}

func (ConnectEvent) isEvent()        {}
func (IdentifyEvent) isEvent()       {}
func (RoomMessageEvent) isEvent()    {}
func (PrivateMessageEvent) isEvent() {}
func (TypingEvent) isEvent()         {}
func (JoinRoomEvent) isEvent()       {}
func (DisconnectEvent) isEvent()     {}

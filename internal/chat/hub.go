package chat

import (
	"context"
	"log"
	"sort"
	"time"
)

const typingSweepInterval = time.Second

// HubConfig carries the startup parameters for the hub's state tables.
type HubConfig struct {
	// Rooms is the fixed room universe, in presentation order.
	Rooms []string
	// DefaultRoom is the room every connection is admitted to at identify.
	DefaultRoom string
	// HistoryLimit bounds the recent-message buffer.
	HistoryLimit int
	// TypingIdle is how long a typing flag survives without a refresh.
	TypingIdle time.Duration
}

func (cfg HubConfig) sanitized() HubConfig {
	if len(cfg.Rooms) == 0 {
		cfg.Rooms = []string{"general", "random", "tech"}
	}
	if cfg.DefaultRoom == "" {
		cfg.DefaultRoom = cfg.Rooms[0]
	}
	found := false
	for _, room := range cfg.Rooms {
		if room == cfg.DefaultRoom {
			found = true
			break
		}
	}
	if !found {
		cfg.DefaultRoom = cfg.Rooms[0]
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 50
	}
	if cfg.TypingIdle <= 0 {
		cfg.TypingIdle = 10 * time.Second
	}
	return cfg
}

// Hub is the single serializing owner of all relay state: the connection
// registry, room directory, history buffer, and typing sets. Every mutation
// happens inside Run's loop, so the state tables carry no locks and events
// from one connection are processed in the order its transport delivered
// them. Delivery to peers is fire-and-forget; a peer that cannot accept a
// write is evicted the same way the transport closing would evict it.
type Hub struct {
	cfg      HubConfig
	registry *Registry
	rooms    *RoomDirectory
	history  *HistoryBuffer
	typing   *TypingTracker
	peers    map[string]Peer

	events chan Event
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewHub creates a hub with the given configuration. Call Run in its own
// goroutine before posting events.
func NewHub(cfg HubConfig) *Hub {
	cfg = cfg.sanitized()
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		cfg:      cfg,
		registry: NewRegistry(),
		rooms:    NewRoomDirectory(cfg.Rooms),
		history:  NewHistoryBuffer(cfg.HistoryLimit),
		typing:   NewTypingTracker(cfg.TypingIdle),
		peers:    make(map[string]Peer),
		events:   make(chan Event),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Post submits an event to the hub loop. It blocks until the loop accepts
// the event or the hub shuts down, preserving per-connection ordering.
func (h *Hub) Post(ev Event) {
	select {
	case h.events <- ev:
	case <-h.ctx.Done():
	}
}

// Run is the hub's main loop. It processes events serially and periodically
// sweeps stale typing flags. It returns after Shutdown is called.
func (h *Hub) Run() {
	defer close(h.done)

	ticker := time.NewTicker(typingSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			h.closePeers()
			return
		case ev := <-h.events:
			h.dispatch(ev)
		case <-ticker.C:
			h.sweepTyping(time.Now())
		}
	}
}

// Shutdown stops the loop, closes every peer connection, and waits for Run
// to exit. It returns context.DeadlineExceeded if the loop does not stop
// within the timeout.
func (h *Hub) Shutdown(timeout time.Duration) error {
	h.cancel()

	select {
	case <-h.done:
		log.Println("Hub shutdown completed")
		return nil
	case <-time.After(timeout):
		log.Println("Hub shutdown timeout reached")
		return context.DeadlineExceeded
	}
}

func (h *Hub) dispatch(ev Event) {
	switch ev := ev.(type) {
	case ConnectEvent:
		h.handleConnect(ev)
	case IdentifyEvent:
		h.handleIdentify(ev)
	case RoomMessageEvent:
		h.handleRoomMessage(ev)
	case PrivateMessageEvent:
		h.handlePrivateMessage(ev)
	case TypingEvent:
		h.handleTyping(ev)
	case JoinRoomEvent:
		h.handleJoinRoom(ev)
	case DisconnectEvent:
		h.handleDisconnect(ev)
	default:
		log.Printf("Hub received unhandled event type %T", ev)
	}
}

func (h *Hub) handleConnect(ev ConnectEvent) {
	if ev.Peer == nil {
		log.Println("Ignoring connect event with nil peer")
		return
	}
	connID := ev.Peer.ID()
	h.peers[connID] = ev.Peer
	h.registry.Register(connID)
	log.Printf("Connection %s registered. Total connections: %d", connID, len(h.peers))
}

func (h *Hub) handleIdentify(ev IdentifyEvent) {
	s, err := h.registry.Identify(ev.ConnID, ev.Name)
	if err != nil {
		switch err {
		case ErrAlreadyIdentified:
			h.sendError(ev.ConnID, ErrCodeAlreadyIdentified, "connection already has a display name")
		case ErrNameTaken:
			h.sendError(ev.ConnID, ErrCodeNameTaken, "display name is already in use")
		default:
			log.Printf("Identify for unknown connection %s dropped", ev.ConnID)
		}
		return
	}

	if err := h.rooms.Move(s, h.cfg.DefaultRoom); err != nil {
		// Unreachable with a sanitized config; keep the session consistent anyway.
		log.Printf("Default room admission failed for %s: %v", s.Name, err)
	}

	h.sendAllExcept(ev.ConnID, EventUserJoined, UserPayload{Name: s.Name})

	h.send(ev.ConnID, EventRoomList, RoomListPayload{Rooms: h.rooms.Rooms()})
	h.send(ev.ConnID, EventUsersOnline, UsersOnlinePayload{Users: h.onlineUsers()})
	h.send(ev.ConnID, EventMessageHistory, HistoryPayload{Messages: h.history.Snapshot()})

	log.Printf("Connection %s identified as %q, joined room %q", s.ID, s.Name, s.Room)
}

func (h *Hub) handleRoomMessage(ev RoomMessageEvent) {
	s, ok := h.identifiedSession(ev.ConnID)
	if !ok {
		return
	}

	h.clearTyping(s)

	msg := NewRoomMessage(s.Name, s.Room, ev.Text)
	h.history.Append(msg)
	h.sendRoomAll(s.Room, EventNewMessage, msg)
}

func (h *Hub) handlePrivateMessage(ev PrivateMessageEvent) {
	s, ok := h.identifiedSession(ev.ConnID)
	if !ok {
		return
	}

	h.clearTyping(s)

	target, ok := h.registry.ByName(ev.To)
	if !ok {
		h.sendError(ev.ConnID, ErrCodeTargetNotFound, "no online user named "+ev.To)
		return
	}

	msg := NewPrivateMessage(s.Name, target.Name, ev.Text)
	h.send(s.ID, EventNewPrivateMessage, msg)
	if target.ID != s.ID {
		h.send(target.ID, EventNewPrivateMessage, msg)
	}
}

func (h *Hub) handleTyping(ev TypingEvent) {
	s, ok := h.identifiedSession(ev.ConnID)
	if !ok {
		return
	}

	if ev.Active {
		h.typing.Start(s.Room, s.Name, time.Now())
		h.sendRoomExcept(s.Room, s.ID, EventUserTyping, UserPayload{Name: s.Name})
		return
	}
	if h.typing.Stop(s.Room, s.Name) {
		h.sendRoomExcept(s.Room, s.ID, EventUserStopTyping, UserPayload{Name: s.Name})
	}
}

func (h *Hub) handleJoinRoom(ev JoinRoomEvent) {
	s, ok := h.identifiedSession(ev.ConnID)
	if !ok {
		return
	}

	if !h.rooms.Exists(ev.Room) {
		h.sendError(ev.ConnID, ErrCodeUnknownRoom, "no room named "+ev.Room)
		return
	}

	h.clearTyping(s)

	if err := h.rooms.Move(s, ev.Room); err != nil {
		log.Printf("Room move failed for %s: %v", s.Name, err)
		return
	}

	h.send(s.ID, EventRoomChanged, RoomPayload{Room: s.Room})
	h.sendRoomExcept(s.Room, s.ID, EventUserJoinedRoom, UserRoomPayload{Name: s.Name, Room: s.Room})

	log.Printf("%q moved to room %q", s.Name, s.Room)
}

func (h *Hub) handleDisconnect(ev DisconnectEvent) {
	h.teardown(ev.ConnID)
}

// teardown releases everything a connection holds: its typing flag, room
// membership, registry entry, and peer handle. Safe to call more than once
// per connection; only the first call broadcasts user_left.
func (h *Hub) teardown(connID string) {
	peer, hadPeer := h.peers[connID]
	delete(h.peers, connID)
	if hadPeer {
		peer.Close()
	}

	s, existed := h.registry.Remove(connID)
	if !existed {
		return
	}

	if s.Identified() {
		if h.typing.Stop(s.Room, s.Name) {
			h.sendRoomExcept(s.Room, connID, EventUserStopTyping, UserPayload{Name: s.Name})
		}
		h.rooms.Leave(s)
		h.sendAllExcept(connID, EventUserLeft, UserPayload{Name: s.Name})
		log.Printf("%q disconnected. Total connections: %d", s.Name, len(h.peers))
		return
	}
	log.Printf("Connection %s disconnected before identify", connID)
}

// identifiedSession resolves the sender, silently dropping events from
// unknown or not-yet-identified connections. No session, no route.
func (h *Hub) identifiedSession(connID string) (*Session, bool) {
	s, ok := h.registry.Lookup(connID)
	if !ok || !s.Identified() {
		log.Printf("Dropping event from unidentified connection %s", connID)
		return nil, false
	}
	return s, true
}

// clearTyping removes the sender's typing flag and notifies the room when
// the flag was set. Sending any message implies the sender stopped typing.
func (h *Hub) clearTyping(s *Session) {
	if h.typing.Stop(s.Room, s.Name) {
		h.sendRoomExcept(s.Room, s.ID, EventUserStopTyping, UserPayload{Name: s.Name})
	}
}

func (h *Hub) onlineUsers() []UserInfo {
	sessions := h.registry.Identified()
	users := make([]UserInfo, 0, len(sessions))
	for _, s := range sessions {
		users = append(users, UserInfo{Name: s.Name, ID: s.ID})
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users
}

func (h *Hub) sweepTyping(now time.Time) {
	for _, e := range h.typing.Sweep(now) {
		exclude := ""
		if s, ok := h.registry.ByName(e.Name); ok {
			exclude = s.ID
		}
		h.sendRoomExcept(e.Room, exclude, EventUserStopTyping, UserPayload{Name: e.Name})
	}
}

// send delivers one event to one connection. Delivery failures evict the
// peer, mirroring how a full send buffer evicts a client in the transport.
func (h *Hub) send(connID, typ string, payload any) {
	peer, ok := h.peers[connID]
	if !ok {
		return
	}
	raw, err := EncodeEvent(typ, payload)
	if err != nil {
		log.Printf("Error encoding %s event: %v", typ, err)
		return
	}
	if !peer.Deliver(raw) {
		log.Printf("Connection %s evicted due to stalled delivery", connID)
		h.teardown(connID)
	}
}

func (h *Hub) sendAllExcept(exceptID, typ string, payload any) {
	h.fanOut(h.peerIDs(), exceptID, typ, payload)
}

func (h *Hub) sendRoomAll(room, typ string, payload any) {
	h.fanOut(h.rooms.MembersOf(room), "", typ, payload)
}

func (h *Hub) sendRoomExcept(room, exceptID, typ string, payload any) {
	h.fanOut(h.rooms.MembersOf(room), exceptID, typ, payload)
}

// fanOut delivers one encoded event to a recipient set, evicting any peer
// that has stalled. Eviction happens after the loop so the membership sets
// are not mutated mid-iteration.
func (h *Hub) fanOut(connIDs []string, exceptID, typ string, payload any) {
	raw, err := EncodeEvent(typ, payload)
	if err != nil {
		log.Printf("Error encoding %s event: %v", typ, err)
		return
	}

	var stalled []string
	for _, connID := range connIDs {
		if connID == exceptID {
			continue
		}
		peer, ok := h.peers[connID]
		if !ok {
			continue
		}
		if !peer.Deliver(raw) {
			stalled = append(stalled, connID)
		}
	}
	for _, connID := range stalled {
		log.Printf("Connection %s evicted due to stalled delivery", connID)
		h.teardown(connID)
	}
}

func (h *Hub) sendError(connID, code, message string) {
	h.send(connID, EventError, ErrorPayload{Code: code, Message: message})
}

func (h *Hub) peerIDs() []string {
	ids := make([]string, 0, len(h.peers))
	for id := range h.peers {
		ids = append(ids, id)
	}
	return ids
}

func (h *Hub) closePeers() {
	log.Printf("Closing %d peer connections", len(h.peers))
	for _, peer := range h.peers {
		peer.Close()
	}
}

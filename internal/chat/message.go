// Package chat implements the core of the Driftchat relay: the connection
// registry, room directory, typing tracker, bounded history buffer, and the
// hub event loop that routes messages between connected peers.
package chat

import (
	"time"

	"github.com/google/uuid"
)

// Kind discriminates the message variants carried on the wire. Every consumer
// switches on it exhaustively so a new kind is a compile-visible change.
type Kind string

const (
	// KindRoom is a message addressed to every member of one room.
	KindRoom Kind = "room"
	// KindPrivate is a message addressed to a single display name.
	KindPrivate Kind = "private"
	// KindSystem marks server-originated notices.
	KindSystem Kind = "system"
)

// Message is a single chat message as delivered to clients and retained in
// the history buffer. Room messages carry Room, private messages carry To;
// the zero fields are omitted on the wire.
type Message struct {
	ID   string    `json:"id"`
	Kind Kind      `json:"kind"`
	From string    `json:"from,omitempty"`
	To   string    `json:"to,omitempty"`
	Room string    `json:"room,omitempty"`
	Text string    `json:"text"`
	TS   time.Time `json:"ts"`
}

// NewRoomMessage builds a room message with a fresh identifier and timestamp.
func NewRoomMessage(from, room, text string) Message {
	return Message{
		ID:   uuid.NewString(),
		Kind: KindRoom,
		From: from,
		Room: room,
		Text: text,
		TS:   time.Now().UTC(),
	}
}

// NewPrivateMessage builds a private message addressed to a display name.
func NewPrivateMessage(from, to, text string) Message {
	return Message{
		ID:   uuid.NewString(),
		Kind: KindPrivate,
		From: from,
		To:   to,
		Text: text,
		TS:   time.Now().UTC(),
	}
}

package chat

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Inbound operation names accepted from clients.
const (
	OpUserJoin           = "user_join"
	OpSendMessage        = "send_message"
	OpSendPrivateMessage = "send_private_message"
	OpTypingStart        = "typing_start"
	OpTypingStop         = "typing_stop"
	OpJoinRoom           = "join_room"
)

// Outbound event names delivered to clients.
const (
	EventRoomList          = "room_list"
	EventUsersOnline       = "users_online"
	EventMessageHistory    = "message_history"
	EventNewMessage        = "new_message"
	EventNewPrivateMessage = "new_private_message"
	EventUserJoined        = "user_joined"
	EventUserLeft          = "user_left"
	EventUserJoinedRoom    = "user_joined_room"
	EventRoomChanged       = "room_changed"
	EventUserTyping        = "user_typing"
	EventUserStopTyping    = "user_stop_typing"
	EventError             = "error"
)

// Inbound is the envelope from client to server. The payload fields are
// flat; which ones are required depends on Type.
type Inbound struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
	To   string `json:"to,omitempty"`
	Text string `json:"text,omitempty"`
	Room string `json:"room,omitempty"`
}

// Outbound is the envelope from server to client: an event name plus its
// JSON payload.
type Outbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// UserInfo pairs a display name with its connection identifier so clients
// can address private messages.
type UserInfo struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// RoomListPayload carries the fixed room list, in presentation order.
type RoomListPayload struct {
	Rooms []string `json:"rooms"`
}

// UsersOnlinePayload carries the currently identified users.
type UsersOnlinePayload struct {
	Users []UserInfo `json:"users"`
}

// HistoryPayload carries the replayed history buffer, oldest-first.
type HistoryPayload struct {
	Messages []Message `json:"messages"`
}

// UserPayload names the subject of a presence or typing notification.
type UserPayload struct {
	Name string `json:"name"`
}

// UserRoomPayload names a user and the room they entered.
type UserRoomPayload struct {
	Name string `json:"name"`
	Room string `json:"room"`
}

// RoomPayload acknowledges a room change to the mover.
type RoomPayload struct {
	Room string `json:"room"`
}

// ErrorPayload reports a rejected operation back to its sender.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

// EncodeEvent marshals an outbound envelope for delivery.
func EncodeEvent(typ string, payload any) ([]byte, error) {
	env := Outbound{Type: typ}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal %s payload: %w", typ, err)
		}
		env.Data = data
	}
	return json.Marshal(env)
}

// ParseEvent decodes a raw inbound envelope from the given connection into a
// typed hub event. Malformed JSON, unknown operation names, and missing
// required fields are all reported as errors; the caller answers those with
// an invalid_message error envelope and drops the input.
func ParseEvent(connID string, raw []byte) (Event, error) {
	var in Inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	switch in.Type {
	case OpUserJoin:
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return nil, fmt.Errorf("%s: missing name", in.Type)
		}
		return IdentifyEvent{ConnID: connID, Name: name}, nil
	case OpSendMessage:
		if in.Text == "" {
			return nil, fmt.Errorf("%s: missing text", in.Type)
		}
		return RoomMessageEvent{ConnID: connID, Text: in.Text}, nil
	case OpSendPrivateMessage:
		if in.To == "" || in.Text == "" {
			return nil, fmt.Errorf("%s: missing to or text", in.Type)
		}
		return PrivateMessageEvent{ConnID: connID, To: in.To, Text: in.Text}, nil
	case OpTypingStart:
		return TypingEvent{ConnID: connID, Active: true}, nil
	case OpTypingStop:
		return TypingEvent{ConnID: connID, Active: false}, nil
	case OpJoinRoom:
		if in.Room == "" {
			return nil, fmt.Errorf("%s: missing room", in.Type)
		}
		return JoinRoomEvent{ConnID: connID, Room: in.Room}, nil
	default:
		return nil, fmt.Errorf("unknown operation %q", in.Type)
	}
}

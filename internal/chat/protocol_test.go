package chat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEventUserJoin(t *testing.T) {
	ev, err := ParseEvent("conn-1", []byte(`{"type":"user_join","name":"alice"}`))
	require.NoError(t, err)
	assert.Equal(t, IdentifyEvent{ConnID: "conn-1", Name: "alice"}, ev)
}

func TestParseEventTrimsDisplayName(t *testing.T) {
	ev, err := ParseEvent("conn-1", []byte(`{"type":"user_join","name":"  alice  "}`))
	require.NoError(t, err)
	assert.Equal(t, IdentifyEvent{ConnID: "conn-1", Name: "alice"}, ev)
}

func TestParseEventAllOperations(t *testing.T) {
	cases := []struct {
		raw  string
		want Event
	}{
		{`{"type":"send_message","text":"hi"}`, RoomMessageEvent{ConnID: "c", Text: "hi"}},
		{`{"type":"send_private_message","to":"bob","text":"psst"}`, PrivateMessageEvent{ConnID: "c", To: "bob", Text: "psst"}},
		{`{"type":"typing_start"}`, TypingEvent{ConnID: "c", Active: true}},
		{`{"type":"typing_stop"}`, TypingEvent{ConnID: "c", Active: false}},
		{`{"type":"join_room","room":"tech"}`, JoinRoomEvent{ConnID: "c", Room: "tech"}},
	}

	for _, tc := range cases {
		ev, err := ParseEvent("c", []byte(tc.raw))
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.want, ev, tc.raw)
	}
}

func TestParseEventRejectsMalformedInput(t *testing.T) {
	cases := []string{
		`not json`,
		`{"type":"no_such_op"}`,
		`{"type":"user_join"}`,
		`{"type":"user_join","name":"   "}`,
		`{"type":"send_message"}`,
		`{"type":"send_private_message","to":"bob"}`,
		`{"type":"send_private_message","text":"psst"}`,
		`{"type":"join_room"}`,
	}

	for _, raw := range cases {
		_, err := ParseEvent("c", []byte(raw))
		assert.Error(t, err, raw)
	}
}

func TestEncodeEventEnvelope(t *testing.T) {
	raw, err := EncodeEvent(EventRoomChanged, RoomPayload{Room: "tech"})
	require.NoError(t, err)

	var env Outbound
	require.NoError(t, json.Unmarshal(raw, &env))
	assert.Equal(t, EventRoomChanged, env.Type)

	var payload RoomPayload
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.Equal(t, "tech", payload.Room)
}

func TestEncodeEventWithoutPayload(t *testing.T) {
	raw, err := EncodeEvent(EventUserLeft, nil)
	require.NoError(t, err)

	var env Outbound
	require.NoError(t, json.Unmarshal(raw, &env))
	assert.Equal(t, EventUserLeft, env.Type)
	assert.Nil(t, env.Data)
}

package protocol

import (
	"errors"
	"testing"
)

func TestEncodeEmit(t *testing.T) {
	got, err := Encode(&Message{Type: MessageTypeEmit, Method: "message"}, "hello", 42)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got != `42["message","hello",42]` {
		t.Fatalf("unexpected frame: %q", got)
	}
}

func TestEncodeAckRequestCarriesCallId(t *testing.T) {
	got, err := Encode(&Message{Type: MessageTypeAckRequest, AckId: 17, Method: "login"}, map[string]string{"username": "a"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got != `4217["login",{"username":"a"}]` {
		t.Fatalf("unexpected frame: %q", got)
	}
}

func TestEncodeAckResponse(t *testing.T) {
	got, err := Encode(&Message{Type: MessageTypeAckResponse, AckId: 3}, "done")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got != `433["done"]` {
		t.Fatalf("unexpected frame: %q", got)
	}
}

func TestEncodeAckResponseEmptyArgsIsEmptyArray(t *testing.T) {
	got, err := Encode(&Message{Type: MessageTypeAckResponse, AckId: 0})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got != `430[]` {
		t.Fatalf("unexpected frame: %q", got)
	}
}

func TestEncodeControlFrames(t *testing.T) {
	cases := []struct {
		msgType int
		want    string
	}{
		{MessageTypePing, "2"},
		{MessageTypePong, "3"},
		{MessageTypeConnect, "40"},
		{MessageTypeDisconnect, "41"},
		{MessageTypeClose, "1"},
	}
	for _, tc := range cases {
		got, err := Encode(&Message{Type: tc.msgType})
		if err != nil {
			t.Fatalf("encode type %d: %v", tc.msgType, err)
		}
		if got != tc.want {
			t.Fatalf("type %d: got %q want %q", tc.msgType, got, tc.want)
		}
	}
}

func TestDecodeRoundTripEventWithCallId(t *testing.T) {
	frame, err := Encode(&Message{Type: MessageTypeAckRequest, AckId: 9, Method: "getMonitor"}, 5, "extra")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	// strip the engine.io message digit, Decode sees the inner packet
	m, err := Decode(frame[1:])
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.Type != MessageTypeAckRequest {
		t.Fatalf("unexpected type: %d", m.Type)
	}
	if m.AckId != 9 {
		t.Fatalf("unexpected ack id: %d", m.AckId)
	}
	if m.Method != "getMonitor" {
		t.Fatalf("unexpected method: %q", m.Method)
	}
	if len(m.Args) != 2 || string(m.Args[0]) != "5" || string(m.Args[1]) != `"extra"` {
		t.Fatalf("unexpected args: %v", m.Args)
	}
}

func TestDecodeEventWithoutCallId(t *testing.T) {
	m, err := Decode(`2["monitorList",{"1":{"id":1}}]`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.Type != MessageTypeEmit || m.AckId != -1 {
		t.Fatalf("unexpected packet: %+v", m)
	}
	if m.Method != "monitorList" {
		t.Fatalf("unexpected method: %q", m.Method)
	}
	if len(m.Args) != 1 || string(m.Args[0]) != `{"1":{"id":1}}` {
		t.Fatalf("unexpected args: %v", m.Args)
	}
}

func TestDecodeEmptyEventArrayIsDropped(t *testing.T) {
	if _, err := Decode(`2[]`); !errors.Is(err, ErrorWrongPacket) {
		t.Fatalf("expected ErrorWrongPacket, got %v", err)
	}
}

func TestDecodeEventNotArrayIsDropped(t *testing.T) {
	if _, err := Decode(`2{"not":"an array"}`); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestDecodeAck(t *testing.T) {
	m, err := Decode(`30[{"ok":true,"msg":"fine"}]`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.Type != MessageTypeAckResponse || m.AckId != 0 {
		t.Fatalf("unexpected packet: %+v", m)
	}
	if len(m.Args) != 1 || string(m.Args[0]) != `{"ok":true,"msg":"fine"}` {
		t.Fatalf("unexpected args: %v", m.Args)
	}
}

func TestDecodeAckBareValueIsWrapped(t *testing.T) {
	m, err := Decode(`37"pong"`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.AckId != 7 {
		t.Fatalf("unexpected ack id: %d", m.AckId)
	}
	if len(m.Args) != 1 || string(m.Args[0]) != `"pong"` {
		t.Fatalf("unexpected args: %v", m.Args)
	}
}

func TestDecodeAckWithoutCallIdIsDropped(t *testing.T) {
	if _, err := Decode(`3[{"ok":true}]`); !errors.Is(err, ErrorWrongPacket) {
		t.Fatalf("expected ErrorWrongPacket, got %v", err)
	}
}

func TestDecodeConnectCarriesSid(t *testing.T) {
	m, err := Decode(`0{"sid":"abc123"}`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.Type != MessageTypeConnect || m.Sid != "abc123" {
		t.Fatalf("unexpected packet: %+v", m)
	}
}

func TestDecodeConnectWithoutPayload(t *testing.T) {
	m, err := Decode(`0`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.Type != MessageTypeConnect || m.Sid != "" {
		t.Fatalf("unexpected packet: %+v", m)
	}
}

func TestDecodeGarbageIsDropped(t *testing.T) {
	for _, frame := range []string{"", "x", "9", "2", "2x", "3abc"} {
		if _, err := Decode(frame); err == nil {
			t.Fatalf("expected error for %q", frame)
		}
	}
}

func TestParseAckId(t *testing.T) {
	id, offset, err := ParseAckId(`125["ok"]`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if id != 125 || offset != 3 {
		t.Fatalf("got id=%d offset=%d", id, offset)
	}

	if _, _, err := ParseAckId(`["ok"]`); !errors.Is(err, ErrorWrongPacket) {
		t.Fatalf("expected ErrorWrongPacket, got %v", err)
	}
}

func TestDecodeHeader(t *testing.T) {
	h := DecodeHeader(`{"sid":"s","pingInterval":25000,"pingTimeout":20000}`, 10000)
	if h.Sid != "s" || h.PingInterval != 25000 || h.PingTimeout != 20000 {
		t.Fatalf("unexpected header: %+v", h)
	}
}

func TestDecodeHeaderMalformedFallsBack(t *testing.T) {
	h := DecodeHeader(`{"pingInterval":`, 10000)
	if h.PingInterval != 10000 {
		t.Fatalf("expected fallback interval, got %d", h.PingInterval)
	}

	h = DecodeHeader(`{}`, 10000)
	if h.PingInterval != 10000 {
		t.Fatalf("expected fallback for missing interval, got %d", h.PingInterval)
	}
}

package protocol

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/uptimekit/gokuma/utils"
)

/*
*
Decode parses one inner socket.io packet (the payload of an engine.io
message frame). The contract is best effort: anything malformed comes back
as an error so the dispatch loop can drop the frame and move on.
*/
func Decode(msg string) (*Message, error) {
	if len(msg) == 0 {
		return nil, ErrorWrongPacket
	}

	mType, err := strconv.Atoi(msg[:1])
	if err != nil {
		return nil, ErrorWrongPacket
	}

	switch mType {
	case CONNECT:
		m := &Message{Type: MessageTypeConnect, AckId: -1}
		if len(msg) > 1 {
			// the sid object is informational, ignore it when absent
			if sid, err := jsonparser.GetString([]byte(msg[1:]), "sid"); err == nil {
				m.Sid = sid
			}
		}
		return m, nil
	case DISCONNECT:
		return &Message{Type: MessageTypeDisconnect, AckId: -1}, nil
	case EVENT:
		rest := msg[1:]
		ackId := -1
		if len(rest) > 0 && rest[0] != '[' {
			id, offset, err := ParseAckId(rest)
			if err != nil {
				return nil, ErrorWrongPacket
			}
			ackId = id
			rest = rest[offset:]
		}

		method, args, err := parseEventArgs(rest)
		if err != nil {
			return nil, err
		}

		t := MessageTypeEmit
		if ackId >= 0 {
			t = MessageTypeAckRequest
		}
		return &Message{Type: t, AckId: ackId, Method: method, Args: args}, nil
	case ACK:
		ackId, offset, err := ParseAckId(msg[1:])
		if err != nil {
			return nil, ErrorWrongPacket
		}

		args, err := parseAckArgs(msg[1+offset:])
		if err != nil {
			return nil, err
		}
		return &Message{Type: MessageTypeAckResponse, AckId: ackId, Args: args}, nil
	case CONNECT_ERROR:
		return &Message{Type: MessageTypeConnectError, AckId: -1}, nil
	}

	return nil, ErrorWrongMessageType
}

/*
*
ParseAckId reads the leading run of decimal digits and returns the id and
the number of bytes consumed.
*/
func ParseAckId(msg string) (int, int, error) {
	offset := 0
	for offset < len(msg) && msg[offset] >= '0' && msg[offset] <= '9' {
		offset++
	}
	if offset == 0 {
		return -1, 0, ErrorWrongPacket
	}

	id, err := strconv.Atoi(msg[:offset])
	if err != nil {
		return -1, 0, err
	}
	return id, offset, nil
}

/*
*
DecodeHeader parses the open frame payload. A malformed payload is not
fatal: the keepalive interval falls back to the supplied default.
*/
func DecodeHeader(payload string, fallbackIntervalMs int) Header {
	var h Header
	if err := utils.Json.UnmarshalFromString(payload, &h); err != nil || h.PingInterval <= 0 {
		h.PingInterval = fallbackIntervalMs
	}
	return h
}

// parseEventArgs splits `["name", ...]` into the event name and the raw
// remaining elements. An empty or non-array body is a protocol violation.
func parseEventArgs(data string) (string, []json.RawMessage, error) {
	method := ""
	args := make([]json.RawMessage, 0, 1)
	c := 0

	_, err := jsonparser.ArrayEach([]byte(data), func(value []byte, dataType jsonparser.ValueType, offset int, err error) {
		c++
		if c == 1 {
			method = string(value)
			return
		}
		args = append(args, rawValue(value, dataType))
	})
	if err != nil {
		return "", nil, err
	}
	if c == 0 || method == "" {
		return "", nil, ErrorWrongPacket
	}

	return method, args, nil
}

// parseAckArgs reads the response array of an ack packet. A bare JSON value
// is tolerated by wrapping it into a one-element array.
func parseAckArgs(data string) ([]json.RawMessage, error) {
	trimmed := strings.TrimSpace(data)
	if trimmed == "" {
		return nil, nil
	}

	if trimmed[0] != '[' {
		if !utils.Json.Valid([]byte(trimmed)) {
			return nil, ErrorWrongPacket
		}
		return []json.RawMessage{json.RawMessage(trimmed)}, nil
	}

	args := make([]json.RawMessage, 0, 1)
	_, err := jsonparser.ArrayEach([]byte(trimmed), func(value []byte, dataType jsonparser.ValueType, offset int, err error) {
		args = append(args, rawValue(value, dataType))
	})
	if err != nil {
		return nil, err
	}

	return args, nil
}

// jsonparser strips the quotes off string elements; put them back so every
// arg is a standalone JSON document.
func rawValue(value []byte, dataType jsonparser.ValueType) json.RawMessage {
	if dataType == jsonparser.String {
		v := make([]byte, 0, len(value)+2)
		v = append(v, '"')
		v = append(v, value...)
		v = append(v, '"')
		return v
	}

	out := make([]byte, len(value))
	copy(out, value)
	return out
}

package protocol

import (
	"errors"
	"strconv"

	"github.com/uptimekit/gokuma/utils"
)

var (
	ErrorWrongMessageType = errors.New("wrong message type")
	ErrorWrongPacket      = errors.New("wrong packet")
)

/*
*
Encode builds the wire form of one frame. Event and ack bodies carry the
engine.io message digit followed by the socket.io digit, the call id when
one is expected, and a JSON array payload:

	42["login",{...}]     emit
	421["login",{...}]    emit expecting ack, call id 1
	431[{"ok":true}]      ack response for call id 1
*/
func Encode(msg *Message, args ...interface{}) (string, error) {
	switch msg.Type {
	case MessageTypeOpen:
		return OpenMsg, nil
	case MessageTypeClose:
		return CloseMsg, nil
	case MessageTypePing:
		return PingMsg, nil
	case MessageTypePong:
		return PongMsg, nil
	case MessageTypeConnect:
		return CommonMsg + strconv.Itoa(CONNECT), nil
	case MessageTypeDisconnect:
		return CommonMsg + strconv.Itoa(DISCONNECT), nil
	case MessageTypeEmit, MessageTypeAckRequest:
		data := make([]interface{}, 0, 1+len(args))
		data = append(data, msg.Method)
		data = append(data, args...)

		body, err := utils.Json.MarshalToString(data)
		if err != nil {
			return "", err
		}
		if msg.Type == MessageTypeAckRequest {
			return CommonMsg + strconv.Itoa(EVENT) + strconv.Itoa(msg.AckId) + body, nil
		}
		return CommonMsg + strconv.Itoa(EVENT) + body, nil
	case MessageTypeAckResponse:
		data := make([]interface{}, 0, len(args))
		data = append(data, args...)

		body, err := utils.Json.MarshalToString(data)
		if err != nil {
			return "", err
		}
		return CommonMsg + strconv.Itoa(ACK) + strconv.Itoa(msg.AckId) + body, nil
	}

	return "", ErrorWrongMessageType
}

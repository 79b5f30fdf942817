package protocol

import "encoding/json"

// engine.io frame type digits (outer layer)
const (
	OpenMsg    = "0"
	CloseMsg   = "1"
	PingMsg    = "2"
	PongMsg    = "3"
	CommonMsg  = "4"
	UpgradeMsg = "5"
)

// socket.io packet type digits (inner layer, embedded in a CommonMsg frame)
const (
	CONNECT       = 0
	DISCONNECT    = 1
	EVENT         = 2
	ACK           = 3
	CONNECT_ERROR = 4
)

// logical message kinds used by the session layer
const (
	MessageTypeOpen = iota
	MessageTypeClose
	MessageTypePing
	MessageTypePong
	MessageTypeConnect
	MessageTypeDisconnect
	MessageTypeEmit
	MessageTypeAckRequest
	MessageTypeAckResponse
	MessageTypeConnectError
)

/*
*
engine.io header received in the open frame
*/
type Header struct {
	Sid          string   `json:"sid"`
	Upgrades     []string `json:"upgrades"`
	PingInterval int      `json:"pingInterval"`
	PingTimeout  int      `json:"pingTimeout"`
}

// Message is one decoded inner packet. AckId is -1 when the packet carries
// no call id. Args hold the event (or ack) arguments as standalone raw JSON
// values; for events the leading name element is split off into Method.
type Message struct {
	Type   int
	AckId  int
	Sid    string
	Method string
	Args   []json.RawMessage
}

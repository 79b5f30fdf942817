package gokuma

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/uptimekit/gokuma/protocol"
	"github.com/uptimekit/gokuma/utils"
	"github.com/uptimekit/gokuma/websocket"
)

const (
	queueBufferSize = 10000

	socketIOPath  = "/socket.io/"
	socketIOQuery = "EIO=4&transport=websocket"
)

// SessionState tracks the handshake state machine. Closed is terminal: a
// new session must be constructed to reconnect.
type SessionState int32

const (
	StateIdle SessionState = iota
	StateConnecting
	StateHandshakeOpen
	StateConnected
	StateClosed
)

/*
*
Session owns one socket connection and multiplexes any number of in-flight
acknowledged calls over it.

use On and Off to manage event handlers
use Connect to dial and run the handshake
use Emit and Call for outgoing traffic
keepalive is automatic: the server's pings are answered with pongs, and a
local safety ticker additionally sends a ping every advertised interval in
case the server's ping stream stalls
*/
type Session struct {
	methods

	tr   *websocket.Transport
	conn *websocket.Connection

	out    chan string
	header protocol.Header

	state     SessionState
	stateLock sync.Mutex

	ack ackProcessor

	handshake     chan error
	handshakeOnce sync.Once

	done      chan struct{}
	closeOnce sync.Once
	pingOnce  sync.Once
}

func NewSession(tr *websocket.Transport) *Session {
	if tr == nil {
		tr = websocket.GetDefaultWebsocketTransport()
	}

	s := &Session{
		tr:        tr,
		out:       make(chan string, queueBufferSize),
		handshake: make(chan error, 1),
		done:      make(chan struct{}),
	}
	s.initMethods()
	return s
}

func (s *Session) State() SessionState {
	s.stateLock.Lock()
	defer s.stateLock.Unlock()
	return s.state
}

func (s *Session) setState(v SessionState) {
	s.stateLock.Lock()
	s.state = v
	s.stateLock.Unlock()
}

// Sid returns the session id handed out by the server during the handshake.
func (s *Session) Sid() string {
	return s.header.Sid
}

/*
*
BuildURL rewrites an http(s) endpoint to its websocket equivalent and
appends the well-known protocol path and query selecting protocol version 4
over the upgraded transport.
*/
func BuildURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + socketIOPath
	u.RawQuery = socketIOQuery

	return u.String(), nil
}

/*
*
Connect dials the endpoint and blocks until the handshake (open frame, then
namespace connect) completes, or until timeout tears the socket down.
*/
func (s *Session) Connect(rawURL string, timeout time.Duration) error {
	s.stateLock.Lock()
	if s.state != StateIdle {
		s.stateLock.Unlock()
		return ErrSessionUsed
	}
	s.state = StateConnecting
	s.stateLock.Unlock()

	target, err := BuildURL(rawURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	conn, err := s.tr.Connect(target)
	if err != nil {
		s.closeSession(nil)
		return fmt.Errorf("connect: %w", err)
	}
	s.conn = conn

	go s.inLoop()
	go s.outLoop()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-s.handshake:
		if err != nil {
			s.closeSession(nil)
			return fmt.Errorf("connect: %w", err)
		}
		return nil
	case <-timer.C:
		// a connect packet arriving after this point is ignored
		s.finishHandshake(ErrConnectTimeout)
		s.closeSession(nil)
		return ErrConnectTimeout
	}
}

func (s *Session) finishHandshake(err error) {
	s.handshakeOnce.Do(func() {
		s.handshake <- err
	})
}

/*
*
incoming frame loop; the first byte selects the engine.io frame type
*/
func (s *Session) inLoop() {
	for {
		msg, err := s.conn.GetMessage()
		if err != nil {
			s.closeSession(closeErrorFrom(err))
			return
		}
		if len(msg) == 0 {
			continue
		}

		switch string(msg[0]) {
		case protocol.OpenMsg:
			fallback := int(s.tr.PingInterval / time.Millisecond)
			s.header = protocol.DecodeHeader(msg[1:], fallback)
			s.setState(StateHandshakeOpen)

			s.pingOnce.Do(func() {
				go s.pinger(time.Duration(s.header.PingInterval) * time.Millisecond)
			})

			// join the default namespace
			connect, err := protocol.Encode(&protocol.Message{Type: protocol.MessageTypeConnect})
			if err == nil {
				s.out <- connect
			}
		case protocol.CloseMsg:
			s.closeSession(nil)
			return
		case protocol.PingMsg:
			s.out <- protocol.PongMsg
		case protocol.PongMsg:
		case protocol.UpgradeMsg:
		case protocol.CommonMsg:
			s.processIncoming(msg[1:])
		}
	}
}

/*
*
processIncoming decodes one inner packet and dispatches it. Decode anomalies
never surface to callers: the frame is dropped and the loop continues.
*/
func (s *Session) processIncoming(msg string) {
	m, err := protocol.Decode(msg)
	if err != nil {
		utils.Debug("[processIncoming] drop frame:", err, msg)
		return
	}

	switch m.Type {
	case protocol.MessageTypeConnect:
		if m.Sid != "" {
			s.header.Sid = m.Sid
		}
		s.setState(StateConnected)
		s.finishHandshake(nil)
		s.callLoopEvent(OnConnection)
	case protocol.MessageTypeDisconnect:
		s.closeSession(nil)
	case protocol.MessageTypeConnectError:
		s.finishHandshake(ErrConnectRefused)
		s.closeSession(nil)
	case protocol.MessageTypeEmit, protocol.MessageTypeAckRequest:
		handlers := s.findMethods(m.Method)
		replied := false
		for _, f := range handlers {
			res := f.callFunc(m.Args...)

			// an incoming event carrying a call id expects a reply built
			// from the first handler that returns a value
			if m.Type != protocol.MessageTypeAckRequest || replied || f.NumOut == 0 || res == nil {
				continue
			}
			replied = true

			arr := make([]interface{}, 0, len(res))
			for _, v := range res {
				arr = append(arr, v.Interface())
			}
			s.send(&protocol.Message{
				Type:  protocol.MessageTypeAckResponse,
				AckId: m.AckId,
			}, arr...)
		}
	case protocol.MessageTypeAckResponse:
		waiter, ok := s.ack.takeWaiter(m.AckId)
		if !ok {
			// resolved, timed out or never issued; late acks are benign
			utils.Debug("[processIncoming] drop ack:", m.AckId)
			return
		}
		waiter <- m.Args
	}
}

func (s *Session) outLoop() {
	for {
		select {
		case <-s.done:
			return
		case msg := <-s.out:
			if err := s.conn.WriteMessage(msg); err != nil {
				closeErr := &websocket.CloseError{}
				closeErr.Code = websocket.WriteBufferErrCode
				closeErr.Text = err.Error()

				s.closeSession(closeErr)
				return
			}
		}
	}
}

/*
*
Pinger sends unsolicited ping frames at the advertised interval for keeping
the connection alive even if the server's ping stream stalls
*/
func (s *Session) pinger(interval time.Duration) {
	if interval <= 0 {
		interval = websocket.WsDefaultPingInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.out <- protocol.PingMsg
		}
	}
}

/*
*
Disconnect sends the termination sequence best effort (the socket may
already be half closed) and tears the session down.
*/
func (s *Session) Disconnect() {
	if s.State() == StateConnected && s.conn != nil {
		if bye, err := protocol.Encode(&protocol.Message{Type: protocol.MessageTypeDisconnect}); err == nil {
			_ = s.conn.WriteMessage(bye)
		}
		_ = s.conn.WriteMessage(protocol.CloseMsg)
	}
	s.closeSession(nil)
}

/*
*
closeSession is the single teardown path: stops keepalive and the loops,
closes the socket, fails every pending call and notifies disconnection
listeners. Registered handlers are retained; the session itself is done.
*/
func (s *Session) closeSession(reason *websocket.CloseError) {
	s.closeOnce.Do(func() {
		s.setState(StateClosed)
		close(s.done)

		if s.conn != nil {
			s.conn.Close()
		}

		s.finishHandshake(ErrClosed)
		s.ack.failAll()

		// clean outgoing queue
		for len(s.out) > 0 {
			<-s.out
		}

		if reason != nil {
			s.callLoopEvent(OnDisconnection, reason)
		} else {
			s.callLoopEvent(OnDisconnection)
		}
	})
}

func closeErrorFrom(err error) *websocket.CloseError {
	ce := &websocket.CloseError{}
	ce.Code = websocket.BadBufferErrCode
	ce.Text = err.Error()
	return ce
}

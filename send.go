package gokuma

import (
	"encoding/json"
	"time"

	"github.com/uptimekit/gokuma/protocol"
	"github.com/uptimekit/gokuma/utils"
)

/*
*
Send message packet to socket
*/
func (s *Session) send(msg *protocol.Message, args ...interface{}) error {
	// preventing json/encoding "index out of range" panic
	defer func() {
		if r := recover(); r != nil {
			utils.Debug("[send] panic:", r)
		}
	}()

	command, err := protocol.Encode(msg, args...)
	if err != nil {
		return err
	}

	if len(s.out) >= queueBufferSize-1 {
		return ErrSocketOverflood
	}

	s.out <- command

	return nil
}

/*
*
Emit sends a fire-and-forget event; it fails immediately when the session
is not connected, without touching the socket.
*/
func (s *Session) Emit(method string, args ...interface{}) error {
	if s.State() != StateConnected {
		return ErrNotConnected
	}

	return s.send(&protocol.Message{
		Type:   protocol.MessageTypeEmit,
		Method: method,
	}, args...)
}

/*
*
Call sends an event expecting an acknowledgement and blocks until the
response or the timeout, whichever comes first. The result is the first
element of the ack array. Acks may resolve out of call order.
*/
func (s *Session) Call(method string, timeout time.Duration, args ...interface{}) (json.RawMessage, error) {
	if s.State() != StateConnected {
		return nil, ErrNotConnected
	}

	msg := &protocol.Message{
		Type:   protocol.MessageTypeAckRequest,
		AckId:  s.ack.nextId(),
		Method: method,
	}

	// buffered so a response racing the timeout never blocks the dispatcher
	waiter := make(chan []json.RawMessage, 1)
	s.ack.addWaiter(msg.AckId, waiter)

	if err := s.send(msg, args...); err != nil {
		s.ack.removeWaiter(msg.AckId)
		return nil, err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case result, ok := <-waiter:
		if !ok {
			return nil, ErrClosed
		}
		if len(result) == 0 {
			return nil, nil
		}
		return result[0], nil
	case <-timer.C:
		s.ack.removeWaiter(msg.AckId)
		return nil, ErrAckTimeout
	}
}

package gokuma

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConnected is returned by Emit and Call when the session is not
	// in the connected state; no socket I/O is attempted.
	ErrNotConnected = errors.New("not connected")

	// ErrConnectTimeout is returned by Connect when the handshake does not
	// complete within the caller's deadline.
	ErrConnectTimeout = errors.New("connect timeout")

	// ErrConnectRefused is returned by Connect when the server answers the
	// namespace join with a connect error packet.
	ErrConnectRefused = errors.New("connect refused by server")

	// ErrAckTimeout is returned by Call when the ack does not arrive within
	// the caller's deadline. The pending entry is removed, so a late ack is
	// silently dropped.
	ErrAckTimeout = errors.New("ack timeout")

	// ErrClosed fails pending and future operations once the session is
	// torn down. A session is not reusable.
	ErrClosed = errors.New("connection closed")

	ErrSessionUsed     = errors.New("session already used")
	ErrSocketOverflood = errors.New("socket overflood")
)

// RemoteError is a server response whose envelope carries ok:false.
type RemoteError struct {
	Op  string
	Msg string
}

func (e *RemoteError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%s: rejected by server", e.Op)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

package websocket

import (
	"crypto/tls"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/uptimekit/gokuma/utils"
)

const (
	WsDefaultPingInterval   = 25 * time.Second
	WsDefaultPingTimeout    = 20 * time.Second
	WsDefaultReceiveTimeout = 60 * time.Second
	WsDefaultSendTimeout    = 60 * time.Second
	WsDefaultBufferSize     = 1024 * 32

	maxRecordReadBytes  = 1024 * 1024 * 1024
	maxRecordWriteBytes = 1024 * 1024 * 1024
)

const (
	ParseOpenMsgCode    = 103
	QueueBufferSizeCode = 104
	WriteBufferErrCode  = 105
	BadBufferErrCode    = 107
)

var ErrorBadBuffer = errors.New("buffer error")

type CloseError struct {
	websocket.CloseError
}

type Connection struct {
	socket     *websocket.Conn
	transport  *Transport
	writeBytes int
	readBytes  int
}

func (wsc *Connection) RemoteAddr() net.Addr {
	return wsc.socket.RemoteAddr()
}

func (wsc *Connection) LocalAddr() net.Addr {
	return wsc.socket.LocalAddr()
}

func (wsc *Connection) GetReadBytes() int {
	v := wsc.readBytes
	wsc.readBytes = 0
	return v
}

func (wsc *Connection) GetWriteBytes() int {
	v := wsc.writeBytes
	wsc.writeBytes = 0
	return v
}

func (wsc *Connection) GetMessage() (message string, err error) {
	err = wsc.socket.SetReadDeadline(time.Now().Add(wsc.transport.ReceiveTimeout))
	if err != nil {
		return "", err
	}

	_, reader, err := wsc.socket.NextReader()
	if err != nil {
		return "", err
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", &websocket.CloseError{
			Code: BadBufferErrCode,
			Text: err.Error(),
		}
	}

	utils.Debug("[GetMessage]", string(data))
	if wsc.readBytes > maxRecordReadBytes {
		wsc.readBytes = 0
	}
	wsc.readBytes += len(data)
	return string(data), nil
}

func (wsc *Connection) WriteMessage(message string) error {
	utils.Debug("[WriteMessage]", message)

	err := wsc.socket.SetWriteDeadline(time.Now().Add(wsc.transport.SendTimeout))
	if err != nil {
		return err
	}

	writer, err := wsc.socket.NextWriter(websocket.TextMessage)
	if err != nil {
		return err
	}
	if _, err := writer.Write([]byte(message)); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}
	if wsc.writeBytes > maxRecordWriteBytes {
		wsc.writeBytes = 0
	}
	wsc.writeBytes += len(message)
	return nil
}

func (wsc *Connection) Close() {
	wsc.socket.Close()
}

func (wsc *Connection) PingParams() (interval, timeout time.Duration) {
	return wsc.transport.PingInterval, wsc.transport.PingTimeout
}

type Transport struct {
	PingInterval   time.Duration
	PingTimeout    time.Duration
	ReceiveTimeout time.Duration
	SendTimeout    time.Duration

	BufferSize int

	UnsecureTLS bool
	TLSConfig   *tls.Config

	RequestHeader http.Header
}

func (wst *Transport) Connect(url string) (conn *Connection, err error) {
	tlsCfg := wst.TLSConfig
	if tlsCfg == nil {
		tlsCfg = &tls.Config{InsecureSkipVerify: wst.UnsecureTLS}
	}
	dialer := websocket.Dialer{
		TLSClientConfig: tlsCfg,
		ReadBufferSize:  wst.BufferSize,
		WriteBufferSize: wst.BufferSize,
	}
	socket, _, err := dialer.Dial(url, wst.RequestHeader)
	if err != nil {
		return nil, err
	}

	return &Connection{socket, wst, 0, 0}, nil
}

/*
*
Returns websocket transport with default params
*/
func GetDefaultWebsocketTransport() *Transport {
	return &Transport{
		PingInterval:   WsDefaultPingInterval,
		PingTimeout:    WsDefaultPingTimeout,
		ReceiveTimeout: WsDefaultReceiveTimeout,
		SendTimeout:    WsDefaultSendTimeout,
		BufferSize:     WsDefaultBufferSize,
		UnsecureTLS:    false,
		TLSConfig:      nil,
	}
}

package gokuma

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/buger/jsonparser"
	"github.com/uptimekit/gokuma/utils"
	"github.com/uptimekit/gokuma/websocket"
)

const (
	DefaultConnectTimeout = 30 * time.Second
	DefaultCallTimeout    = 30 * time.Second

	loginPollInterval = 100 * time.Millisecond
	loginPollCeiling  = 5 * time.Second
)

// server push topics cached by the client
const (
	eventMonitorList      = "monitorList"
	eventNotificationList = "notificationList"
	eventStatusPageList   = "statusPageList"
	eventMaintenanceList  = "maintenanceList"
	eventInfo             = "info"
)

type Options struct {
	ConnectTimeout time.Duration
	CallTimeout    time.Duration
	Transport      *websocket.Transport
}

/*
*
Client keeps the latest value of every server push topic and exposes typed
acknowledged operations on top of a Session. One client per connection; a
dropped connection requires dialing a new client.
*/
type Client struct {
	session     *Session
	callTimeout time.Duration

	cacheLock     sync.RWMutex
	monitors      []Monitor
	monitorsReady bool
	notifications []Notification
	statusPages   []StatusPage
	maintenance   []Maintenance
	info          *Info
}

/*
*
Dial connects and completes the handshake. Push listeners are registered
before the session connects so no push frame between handshake completion
and registration is lost.
*/
func Dial(rawURL string, opts *Options) (*Client, error) {
	if opts == nil {
		opts = &Options{}
	}
	connectTimeout := opts.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = DefaultConnectTimeout
	}
	callTimeout := opts.CallTimeout
	if callTimeout <= 0 {
		callTimeout = DefaultCallTimeout
	}

	c := &Client{
		session:     NewSession(opts.Transport),
		callTimeout: callTimeout,
	}
	if err := c.registerPushListeners(); err != nil {
		return nil, err
	}

	if err := c.session.Connect(rawURL, connectTimeout); err != nil {
		return nil, err
	}
	return c, nil
}

// Session exposes the underlying transport session for custom events.
func (c *Client) Session() *Session {
	return c.session
}

func (c *Client) Disconnect() {
	c.session.Disconnect()
}

func (c *Client) registerPushListeners() error {
	listeners := map[string]interface{}{
		eventMonitorList: func(data json.RawMessage) {
			items, err := decodeByIdOrder[Monitor](data)
			if err != nil {
				utils.Debug("[monitorList] drop push:", err)
				return
			}
			c.cacheLock.Lock()
			c.monitors = items
			c.monitorsReady = true
			c.cacheLock.Unlock()
		},
		eventNotificationList: func(data json.RawMessage) {
			items, err := decodeByIdOrder[Notification](data)
			if err != nil {
				utils.Debug("[notificationList] drop push:", err)
				return
			}
			c.cacheLock.Lock()
			c.notifications = items
			c.cacheLock.Unlock()
		},
		eventStatusPageList: func(data json.RawMessage) {
			items, err := decodeByIdOrder[StatusPage](data)
			if err != nil {
				utils.Debug("[statusPageList] drop push:", err)
				return
			}
			c.cacheLock.Lock()
			c.statusPages = items
			c.cacheLock.Unlock()
		},
		eventMaintenanceList: func(data json.RawMessage) {
			items, err := decodeByIdOrder[Maintenance](data)
			if err != nil {
				utils.Debug("[maintenanceList] drop push:", err)
				return
			}
			c.cacheLock.Lock()
			c.maintenance = items
			c.cacheLock.Unlock()
		},
		eventInfo: func(data json.RawMessage) {
			var info Info
			if err := utils.Json.Unmarshal(data, &info); err != nil {
				utils.Debug("[info] drop push:", err)
				return
			}
			c.cacheLock.Lock()
			c.info = &info
			c.cacheLock.Unlock()
		},
	}

	for event, handler := range listeners {
		if err := c.session.On(event, handler); err != nil {
			return err
		}
	}
	return nil
}

/*
*
decodeByIdOrder turns a dictionary keyed by numeric id into a slice in the
server's own key order. A plain array payload is accepted as is.
*/
func decodeByIdOrder[T any](data json.RawMessage) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	items := make([]T, 0)
	if len(trimmed) == 0 {
		return items, nil
	}

	if trimmed[0] == '[' {
		if err := utils.Json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	err := jsonparser.ObjectEach(trimmed, func(key, value []byte, dataType jsonparser.ValueType, offset int) error {
		var item T
		if err := utils.Json.Unmarshal(value, &item); err != nil {
			return err
		}
		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

/*
*
Login authenticates, then waits a bounded window for the initial monitor
push so reads issued straight after login do not observe an empty server.
The wait expiring is not an error.
*/
func (c *Client) Login(username, password string) error {
	env, err := c.callChecked("login", loginRequest{
		Username: username,
		Password: password,
		Token:    "",
	})
	if err != nil {
		return err
	}
	_ = env.Token // session token, unused over a live socket

	deadline := time.Now().Add(loginPollCeiling)
	for time.Now().Before(deadline) {
		c.cacheLock.RLock()
		ready := c.monitorsReady
		c.cacheLock.RUnlock()
		if ready {
			break
		}
		time.Sleep(loginPollInterval)
	}
	return nil
}

// Monitors returns the cached monitor list; empty when nothing was pushed yet.
func (c *Client) Monitors() []Monitor {
	c.cacheLock.RLock()
	defer c.cacheLock.RUnlock()
	out := make([]Monitor, len(c.monitors))
	copy(out, c.monitors)
	return out
}

func (c *Client) Notifications() []Notification {
	c.cacheLock.RLock()
	defer c.cacheLock.RUnlock()
	out := make([]Notification, len(c.notifications))
	copy(out, c.notifications)
	return out
}

func (c *Client) StatusPages() []StatusPage {
	c.cacheLock.RLock()
	defer c.cacheLock.RUnlock()
	out := make([]StatusPage, len(c.statusPages))
	copy(out, c.statusPages)
	return out
}

func (c *Client) MaintenanceList() []Maintenance {
	c.cacheLock.RLock()
	defer c.cacheLock.RUnlock()
	out := make([]Maintenance, len(c.maintenance))
	copy(out, c.maintenance)
	return out
}

// Info returns the cached server info, or nil when none was pushed yet.
func (c *Client) Info() *Info {
	c.cacheLock.RLock()
	defer c.cacheLock.RUnlock()
	if c.info == nil {
		return nil
	}
	cp := *c.info
	return &cp
}

func (c *Client) GetMonitor(id int) (*Monitor, error) {
	env, err := c.callChecked("getMonitor", id)
	if err != nil {
		return nil, fmt.Errorf("monitor %d: %w", id, err)
	}
	if env.Monitor == nil {
		return nil, fmt.Errorf("monitor %d: %w", id, &RemoteError{Op: "getMonitor", Msg: "empty response"})
	}
	return env.Monitor, nil
}

// AddMonitor creates a monitor and returns the id assigned by the server.
func (c *Client) AddMonitor(m Monitor) (int, error) {
	env, err := c.callChecked("add", m)
	if err != nil {
		return 0, err
	}
	return env.MonitorID, nil
}

func (c *Client) EditMonitor(m Monitor) error {
	_, err := c.callChecked("editMonitor", m)
	if err != nil {
		return fmt.Errorf("monitor %d: %w", m.ID, err)
	}
	return nil
}

func (c *Client) DeleteMonitor(id int) error {
	if _, err := c.callChecked("deleteMonitor", id); err != nil {
		return fmt.Errorf("monitor %d: %w", id, err)
	}
	return nil
}

func (c *Client) PauseMonitor(id int) error {
	if _, err := c.callChecked("pauseMonitor", id); err != nil {
		return fmt.Errorf("monitor %d: %w", id, err)
	}
	return nil
}

func (c *Client) ResumeMonitor(id int) error {
	if _, err := c.callChecked("resumeMonitor", id); err != nil {
		return fmt.Errorf("monitor %d: %w", id, err)
	}
	return nil
}

func (c *Client) GetTags() ([]Tag, error) {
	env, err := c.callChecked("getTags")
	if err != nil {
		return nil, err
	}
	return env.Tags, nil
}

/*
*
callChecked issues one acknowledged call and validates the ok field of the
response envelope, surfacing the server's message on rejection.
*/
func (c *Client) callChecked(op string, args ...interface{}) (*ackEnvelope, error) {
	res, err := c.session.Call(op, c.callTimeout, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var env ackEnvelope
	if len(res) > 0 {
		if err := utils.Json.Unmarshal(res, &env); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	if !env.OK {
		return nil, &RemoteError{Op: op, Msg: env.Msg}
	}
	return &env, nil
}

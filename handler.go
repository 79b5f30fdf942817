package gokuma

import (
	"encoding/json"
	"reflect"
	"sync"

	"github.com/uptimekit/gokuma/utils"
)

const (
	OnConnection    = "connection"
	OnDisconnection = "disconnection"
)

/*
*
Contains ordered lists of event handlers; dispatch order is registration
order, several handlers per event are allowed
*/
type methods struct {
	messageHandlersLock sync.RWMutex
	messageHandlers     map[string][]*caller
}

func (m *methods) initMethods() {
	m.messageHandlersLock.Lock()
	m.messageHandlers = make(map[string][]*caller)
	m.messageHandlersLock.Unlock()
}

func (m *methods) On(method string, f interface{}) error {
	c, err := newCaller(f)
	if err != nil {
		return err
	}

	m.messageHandlersLock.Lock()
	m.messageHandlers[method] = append(m.messageHandlers[method], c)
	m.messageHandlersLock.Unlock()
	return nil
}

/*
*
Off removes a previously registered handler; removing a handler that is not
present is a no-op
*/
func (m *methods) Off(method string, f interface{}) {
	ptr := reflect.ValueOf(f).Pointer()

	m.messageHandlersLock.Lock()
	defer m.messageHandlersLock.Unlock()

	handlers := m.messageHandlers[method]
	for i, c := range handlers {
		if c.Ptr == ptr {
			m.messageHandlers[method] = append(handlers[:i:i], handlers[i+1:]...)
			return
		}
	}
}

/*
*
Find handlers associated with given method, in registration order
*/
func (m *methods) findMethods(method string) []*caller {
	m.messageHandlersLock.RLock()
	defer m.messageHandlersLock.RUnlock()

	handlers := m.messageHandlers[method]
	out := make([]*caller, len(handlers))
	copy(out, handlers)
	return out
}

/*
*
callLoopEvent dispatches an internal lifecycle event. Go arguments are
marshaled to raw JSON so they flow through the same caller path as wire
events.
*/
func (m *methods) callLoopEvent(event string, args ...interface{}) {
	handlers := m.findMethods(event)
	if len(handlers) == 0 {
		return
	}

	raw := make([]json.RawMessage, 0, len(args))
	for _, a := range args {
		b, err := utils.Json.Marshal(a)
		if err != nil {
			utils.Debug("[callLoopEvent] drop arg:", err)
			continue
		}
		raw = append(raw, b)
	}

	for _, f := range handlers {
		f.callFunc(raw...)
	}
}

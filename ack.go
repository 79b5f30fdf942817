package gokuma

import (
	"encoding/json"
	"sync"
)

/*
*
Processes calls that require answers, also known as acknowledge or ack
*/
type ackProcessor struct {
	counter     int
	counterLock sync.Mutex

	resultWaitersMap sync.Map
}

/*
*
get next id of ack call; ids start at 0 and are never reused while pending
*/
func (a *ackProcessor) nextId() int {
	a.counterLock.Lock()
	defer a.counterLock.Unlock()

	id := a.counter
	a.counter++
	return id
}

/*
*
Just before the ack request is sent, the waiter should be added
to receive the response
*/
func (a *ackProcessor) addWaiter(id int, w chan []json.RawMessage) {
	a.resultWaitersMap.Store(id, w)
}

/*
*
removes waiter that is unnecessary anymore
*/
func (a *ackProcessor) removeWaiter(id int) {
	a.resultWaitersMap.Delete(id)
}

/*
*
takeWaiter claims the waiter for the given ack id. Claiming removes the
entry, so a duplicate ack for an already resolved id finds nothing and
becomes a no-op.
*/
func (a *ackProcessor) takeWaiter(id int) (chan []json.RawMessage, bool) {
	if waiter, ok := a.resultWaitersMap.LoadAndDelete(id); ok {
		return waiter.(chan []json.RawMessage), true
	}
	return nil, false
}

/*
*
failAll abandons every pending call at teardown; a closed waiter channel
reads as ErrClosed on the caller side
*/
func (a *ackProcessor) failAll() {
	a.resultWaitersMap.Range(func(key, _ interface{}) bool {
		if waiter, ok := a.resultWaitersMap.LoadAndDelete(key); ok {
			close(waiter.(chan []json.RawMessage))
		}
		return true
	})
}

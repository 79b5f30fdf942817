package gokuma

import (
	"encoding/json"
	"testing"
)

func TestAckIdsStartAtZeroAndNeverRepeat(t *testing.T) {
	a := &ackProcessor{}

	seen := make(map[int]bool)
	for i := 0; i < 100; i++ {
		id := a.nextId()
		if i == 0 && id != 0 {
			t.Fatalf("first id should be 0, got %d", id)
		}
		if seen[id] {
			t.Fatalf("id %d issued twice", id)
		}
		seen[id] = true
	}
}

func TestTakeWaiterClaimsExactlyOnce(t *testing.T) {
	a := &ackProcessor{}
	w := make(chan []json.RawMessage, 1)
	a.addWaiter(4, w)

	got, ok := a.takeWaiter(4)
	if !ok || got != w {
		t.Fatalf("expected to claim waiter 4")
	}

	// a duplicate ack for an already resolved id finds nothing
	if _, ok := a.takeWaiter(4); ok {
		t.Fatalf("waiter 4 claimed twice")
	}
}

func TestRemoveWaiterDropsLateAck(t *testing.T) {
	a := &ackProcessor{}
	w := make(chan []json.RawMessage, 1)
	a.addWaiter(1, w)
	a.removeWaiter(1)

	if _, ok := a.takeWaiter(1); ok {
		t.Fatalf("removed waiter should not be claimable")
	}
}

func TestFailAllClosesEveryWaiter(t *testing.T) {
	a := &ackProcessor{}
	w1 := make(chan []json.RawMessage, 1)
	w2 := make(chan []json.RawMessage, 1)
	a.addWaiter(a.nextId(), w1)
	a.addWaiter(a.nextId(), w2)

	a.failAll()

	if _, ok := <-w1; ok {
		t.Fatalf("w1 should be closed")
	}
	if _, ok := <-w2; ok {
		t.Fatalf("w2 should be closed")
	}
}

package gokuma

import (
	"errors"
	"strings"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
)

func TestLoginPopulatesMonitorCacheInServerOrder(t *testing.T) {
	done := make(chan struct{})
	srv := newScriptedServer(t, func(conn *ws.Conn) {
		srvHandshake(t, conn)

		frame := srvRead(t, conn)
		if !strings.HasPrefix(frame, `420["login"`) {
			t.Errorf("unexpected login frame: %q", frame)
		}
		if !strings.Contains(frame, `"username":"admin"`) || !strings.Contains(frame, `"token":""`) {
			t.Errorf("login payload incomplete: %q", frame)
		}
		srvWrite(t, conn, `430[{"ok":true,"token":"tok-1"}]`)

		// initial state pushed asynchronously right after auth; key order
		// is the server's own
		srvWrite(t, conn, `42["monitorList",{"7":{"id":7,"name":"api","type":"http","active":true},"3":{"id":3,"name":"db","type":"port","active":false}}]`)
		srvWrite(t, conn, `42["info",{"version":"1.23.2"}]`)
		<-done
	})
	defer close(done)

	client, err := Dial(srv.URL, &Options{ConnectTimeout: 2 * time.Second, CallTimeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Disconnect()

	if err := client.Login("admin", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}

	monitors := client.Monitors()
	if len(monitors) != 2 {
		t.Fatalf("unexpected monitor count: %d", len(monitors))
	}
	if monitors[0].ID != 7 || monitors[0].Name != "api" || !monitors[0].Active {
		t.Fatalf("unexpected first monitor: %+v", monitors[0])
	}
	if monitors[1].ID != 3 || monitors[1].Name != "db" || monitors[1].Active {
		t.Fatalf("unexpected second monitor: %+v", monitors[1])
	}

	// the info push raced the login return; give it a moment
	deadline := time.Now().Add(time.Second)
	for client.Info() == nil && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	info := client.Info()
	if info == nil || info.Version != "1.23.2" {
		t.Fatalf("unexpected info: %+v", info)
	}
}

func TestLoginRejectedSurfacesServerMessage(t *testing.T) {
	done := make(chan struct{})
	srv := newScriptedServer(t, func(conn *ws.Conn) {
		srvHandshake(t, conn)
		srvRead(t, conn)
		srvWrite(t, conn, `430[{"ok":false,"msg":"Incorrect credentials"}]`)
		<-done
	})
	defer close(done)

	client, err := Dial(srv.URL, &Options{ConnectTimeout: 2 * time.Second, CallTimeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Disconnect()

	err = client.Login("admin", "wrong")
	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("expected RemoteError, got %v", err)
	}
	if remote.Msg != "Incorrect credentials" {
		t.Fatalf("unexpected message: %q", remote.Msg)
	}
	if remote.Op != "login" {
		t.Fatalf("unexpected op: %q", remote.Op)
	}
}

func TestReadsReturnEmptyWhenNothingPushed(t *testing.T) {
	done := make(chan struct{})
	srv := newScriptedServer(t, func(conn *ws.Conn) {
		srvHandshake(t, conn)
		<-done
	})
	defer close(done)

	client, err := Dial(srv.URL, &Options{ConnectTimeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Disconnect()

	if got := client.Monitors(); len(got) != 0 {
		t.Fatalf("expected empty monitors, got %v", got)
	}
	if got := client.Notifications(); len(got) != 0 {
		t.Fatalf("expected empty notifications, got %v", got)
	}
	if got := client.StatusPages(); len(got) != 0 {
		t.Fatalf("expected empty status pages, got %v", got)
	}
	if got := client.MaintenanceList(); len(got) != 0 {
		t.Fatalf("expected empty maintenance list, got %v", got)
	}
	if client.Info() != nil {
		t.Fatalf("expected nil info")
	}
}

func TestPushOverwritesCacheWholesale(t *testing.T) {
	pushAgain := make(chan struct{})
	done := make(chan struct{})
	srv := newScriptedServer(t, func(conn *ws.Conn) {
		srvHandshake(t, conn)
		srvWrite(t, conn, `42["monitorList",{"1":{"id":1,"name":"a"},"2":{"id":2,"name":"b"}}]`)
		<-pushAgain
		srvWrite(t, conn, `42["monitorList",{"2":{"id":2,"name":"b"}}]`)
		<-done
	})
	defer close(done)

	client, err := Dial(srv.URL, &Options{ConnectTimeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Disconnect()

	waitFor(t, func() bool { return len(client.Monitors()) == 2 })
	close(pushAgain)
	waitFor(t, func() bool { return len(client.Monitors()) == 1 })

	if got := client.Monitors(); got[0].ID != 2 {
		t.Fatalf("cache not overwritten: %v", got)
	}
}

func TestPauseMonitorWrapsRemoteRejection(t *testing.T) {
	done := make(chan struct{})
	srv := newScriptedServer(t, func(conn *ws.Conn) {
		srvHandshake(t, conn)
		frame := srvRead(t, conn)
		if !strings.HasPrefix(frame, `420["pauseMonitor",5]`) {
			t.Errorf("unexpected frame: %q", frame)
		}
		srvWrite(t, conn, `430[{"ok":false,"msg":"Monitor not found"}]`)
		<-done
	})
	defer close(done)

	client, err := Dial(srv.URL, &Options{ConnectTimeout: 2 * time.Second, CallTimeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Disconnect()

	err = client.PauseMonitor(5)
	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("expected RemoteError, got %v", err)
	}
	if remote.Msg != "Monitor not found" {
		t.Fatalf("unexpected message: %q", remote.Msg)
	}
	if !strings.Contains(err.Error(), "monitor 5") {
		t.Fatalf("missing operation context: %v", err)
	}
}

func TestGetMonitorReturnsTypedResult(t *testing.T) {
	done := make(chan struct{})
	srv := newScriptedServer(t, func(conn *ws.Conn) {
		srvHandshake(t, conn)
		frame := srvRead(t, conn)
		if !strings.HasPrefix(frame, `420["getMonitor",9]`) {
			t.Errorf("unexpected frame: %q", frame)
		}
		srvWrite(t, conn, `430[{"ok":true,"monitor":{"id":9,"name":"edge","type":"http","url":"https://edge.example.com","active":true}}]`)
		<-done
	})
	defer close(done)

	client, err := Dial(srv.URL, &Options{ConnectTimeout: 2 * time.Second, CallTimeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Disconnect()

	monitor, err := client.GetMonitor(9)
	if err != nil {
		t.Fatalf("get monitor: %v", err)
	}
	if monitor.ID != 9 || monitor.Name != "edge" || monitor.URL != "https://edge.example.com" {
		t.Fatalf("unexpected monitor: %+v", monitor)
	}
}

func TestAddMonitorReturnsAssignedId(t *testing.T) {
	done := make(chan struct{})
	srv := newScriptedServer(t, func(conn *ws.Conn) {
		srvHandshake(t, conn)
		frame := srvRead(t, conn)
		if !strings.HasPrefix(frame, `420["add",`) {
			t.Errorf("unexpected frame: %q", frame)
		}
		if !strings.Contains(frame, `"name":"new monitor"`) {
			t.Errorf("monitor payload missing: %q", frame)
		}
		srvWrite(t, conn, `430[{"ok":true,"monitorID":12,"msg":"Added Successfully."}]`)
		<-done
	})
	defer close(done)

	client, err := Dial(srv.URL, &Options{ConnectTimeout: 2 * time.Second, CallTimeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Disconnect()

	id, err := client.AddMonitor(Monitor{Name: "new monitor", Type: "http", URL: "https://example.com"})
	if err != nil {
		t.Fatalf("add monitor: %v", err)
	}
	if id != 12 {
		t.Fatalf("unexpected id: %d", id)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition never became true")
}

package services

import (
	"sync"
	"testing"

	"github.com/gofiber/websocket/v2"
)

func newTestSocket() *SocketService {
	return &SocketService{
		conns: make(map[string]map[*websocket.Conn]chan socketEnvelope),
	}
}

func TestSocketUnregisterClosesChannel(t *testing.T) {
	svc := newTestSocket()
	conn := &websocket.Conn{}

	send := svc.register("user-1", conn)
	svc.unregister("user-1", conn)

	select {
	case _, open := <-send:
		if open {
			t.Error("channel delivered a message instead of closing")
		}
	default:
		t.Error("send channel not closed by unregister")
	}

	if _, ok := svc.conns["user-1"]; ok {
		t.Error("connection map entry not removed")
	}
}

func TestSocketUnregisterIdempotent(t *testing.T) {
	svc := newTestSocket()
	conn := &websocket.Conn{}

	svc.register("user-1", conn)
	svc.unregister("user-1", conn)
	// A second call (deferred cleanup path) must not close again.
	svc.unregister("user-1", conn)
}

func TestSocketEmitNeverHitsClosedChannel(t *testing.T) {
	svc := newTestSocket()
	conn := &websocket.Conn{}
	svc.register("user-1", conn)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			svc.Emit("user-1", EventStatsUpdated, i)
		}
	}()
	go func() {
		defer wg.Done()
		svc.unregister("user-1", conn)
	}()
	wg.Wait()

	svc.Emit("user-1", EventStatsUpdated, "after-disconnect")
}

func TestSocketEmitFansOutPerConnection(t *testing.T) {
	svc := newTestSocket()
	connA := &websocket.Conn{}
	connB := &websocket.Conn{}

	sendA := svc.register("user-1", connA)
	sendB := svc.register("user-1", connB)

	svc.Emit("user-1", EventTaskCompleted, "payload")
	svc.Emit("user-2", EventTaskCompleted, "other user")

	for name, ch := range map[string]chan socketEnvelope{"A": sendA, "B": sendB} {
		select {
		case msg := <-ch:
			if msg.Event != EventTaskCompleted {
				t.Errorf("conn %s got event %q, want taskCompleted", name, msg.Event)
			}
		default:
			t.Errorf("conn %s received nothing", name)
		}
		select {
		case msg := <-ch:
			t.Errorf("conn %s got unexpected second message %+v", name, msg)
		default:
		}
	}
}

func TestSocketDropsWhenBufferFull(t *testing.T) {
	svc := newTestSocket()
	conn := &websocket.Conn{}
	send := svc.register("user-1", conn)

	for i := 0; i < sendBufferSize+10; i++ {
		svc.Emit("user-1", EventStatsUpdated, i)
	}

	if got := len(send); got != sendBufferSize {
		t.Errorf("buffered = %d, want capped at %d", got, sendBufferSize)
	}
}

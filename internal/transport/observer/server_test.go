package observer

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"mazeswarm.ai/internal/grid"
	"mazeswarm.ai/internal/observerproto"
	"mazeswarm.ai/internal/sim"
	"mazeswarm.ai/internal/sim/tuning"
	"mazeswarm.ai/internal/swarm"
)

func testCoordinator(t *testing.T) (*sim.Coordinator, *grid.Grid) {
	t.Helper()
	g, err := grid.FromRows([]string{
		"010",
		"010",
	}, grid.Cell{}, grid.Cell{Row: 0, Col: 2})
	if err != nil {
		t.Fatalf("FromRows: %v", err)
	}

	tn := tuning.Defaults()
	tn.TickRateHz = 50
	tn.MaxTicks = 100000

	lg := log.New(io.Discard, "", 0)
	a := swarm.New(swarm.Config{ID: 1, Name: "agent-1", Start: g.Start, Seed: 1}, g, nopSender{}, lg)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = a.Run(ctx) }()

	return sim.New(sim.Config{Grid: g, Tuning: tn}, []*swarm.Agent{a}, lg), g
}

type nopSender struct{}

func (nopSender) Send(string, []byte) error { return nil }

func TestIsLoopbackRemote(t *testing.T) {
	cases := []struct {
		addr string
		want bool
	}{
		{"127.0.0.1:54321", true},
		{"[::1]:54321", true},
		{"192.0.2.1:1234", false},
		{"10.0.0.5:80", false},
		{"garbage", false},
	}
	for _, tc := range cases {
		if got := isLoopbackRemote(tc.addr); got != tc.want {
			t.Fatalf("isLoopbackRemote(%q) = %v, want %v", tc.addr, got, tc.want)
		}
	}
}

func TestBootstrapHandler(t *testing.T) {
	coord, g := testCoordinator(t)
	srv := NewServer(coord, log.New(io.Discard, "", 0))

	req := httptest.NewRequest(http.MethodGet, "/v1/observer/bootstrap", nil)
	req.RemoteAddr = "127.0.0.1:50000"
	rec := httptest.NewRecorder()
	srv.BootstrapHandler()(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var resp observerproto.BootstrapResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ProtocolVersion != observerproto.Version {
		t.Fatalf("protocol version %q", resp.ProtocolVersion)
	}
	if len(resp.Maze) != g.Rows() || resp.Params.Cols != g.Cols() {
		t.Fatalf("maze shape %dx%d in response, want %dx%d", len(resp.Maze), resp.Params.Cols, g.Rows(), g.Cols())
	}
	if resp.Params.SwarmSize != 1 {
		t.Fatalf("swarm size %d, want 1", resp.Params.SwarmSize)
	}
}

func TestBootstrapRejectsNonLoopback(t *testing.T) {
	coord, _ := testCoordinator(t)
	srv := NewServer(coord, log.New(io.Discard, "", 0))

	req := httptest.NewRequest(http.MethodGet, "/v1/observer/bootstrap", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	rec := httptest.NewRecorder()
	srv.BootstrapHandler()(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status %d, want 403", rec.Code)
	}
}

func TestWSSubscribeReceivesTicks(t *testing.T) {
	coord, _ := testCoordinator(t)
	srv := NewServer(coord, log.New(io.Discard, "", 0))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _, _ = coord.Run(ctx) }()

	httpSrv := httptest.NewServer(srv.WSHandler())
	defer httpSrv.Close()

	wsURL := "ws" + strings.TrimPrefix(httpSrv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	sub, _ := json.Marshal(observerproto.SubscribeMsg{Type: "SUBSCRIBE", ProtocolVersion: observerproto.Version})
	if err := conn.WriteMessage(websocket.TextMessage, sub); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read tick: %v", err)
	}
	var frame observerproto.TickMsg
	if err := json.Unmarshal(msg, &frame); err != nil {
		t.Fatalf("decode tick: %v", err)
	}
	if frame.Type != "TICK" || frame.ProtocolVersion != observerproto.Version {
		t.Fatalf("frame %+v", frame)
	}
	if len(frame.Agents) != 1 {
		t.Fatalf("frame has %d agents, want 1", len(frame.Agents))
	}
	if frame.Digest == "" {
		t.Fatalf("frame missing digest")
	}
}

func TestWSRejectsBadHandshake(t *testing.T) {
	coord, _ := testCoordinator(t)
	srv := NewServer(coord, log.New(io.Discard, "", 0))

	httpSrv := httptest.NewServer(srv.WSHandler())
	defer httpSrv.Close()

	wsURL := "ws" + strings.TrimPrefix(httpSrv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"TICK"}`)); err != nil {
		t.Fatalf("write: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatalf("expected close after bad handshake")
	}
}

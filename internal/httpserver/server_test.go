package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/tinytelemetry/bitrunner/internal/broadcast"
	"github.com/tinytelemetry/bitrunner/internal/game"
	"github.com/tinytelemetry/bitrunner/internal/hacknet"
	"github.com/tinytelemetry/bitrunner/internal/history"
	"github.com/tinytelemetry/bitrunner/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	srv    *Server
	svc    *game.Service
	store  *history.Store
	bus    *broadcast.Broadcaster
	router http.Handler
}

func newTestServer(t *testing.T) testEnv {
	t.Helper()
	store, err := history.NewStore("")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	bus := broadcast.New()
	svc := game.NewService(hacknet.DefaultTables(), game.RealClock{}, game.NewPlayer(1, 60))
	srv := NewServer("", svc, store, bus)
	srv.startTime = time.Now()
	t.Cleanup(func() { srv.Stop() })

	return testEnv{srv: srv, svc: svc, store: store, bus: bus, router: srv.Handler()}
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestServer(t)

	w := get(t, env.router, "/api/health")
	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d, want %d", w.Code, http.StatusOK)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal health: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("health status = %v, want ok", body["status"])
	}
}

func TestHealthEndpoint_WrongMethod(t *testing.T) {
	env := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/health", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed && w.Code != http.StatusNotFound {
		t.Errorf("health POST status = %d, want 405 or 404", w.Code)
	}
}

func TestOverviewEndpoint(t *testing.T) {
	env := newTestServer(t)
	if _, err := env.svc.PurchaseNode(context.Background()); err != nil {
		t.Fatalf("PurchaseNode: %v", err)
	}

	w := get(t, env.router, "/api/overview")
	if w.Code != http.StatusOK {
		t.Fatalf("overview status = %d", w.Code)
	}
	var p model.Player
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("unmarshal overview: %v", err)
	}
	if len(p.HacknetNodes) != 1 || p.Money != 0 {
		t.Fatalf("overview nodes=%d money=%v", len(p.HacknetNodes), p.Money)
	}
}

func TestCostsEndpoint(t *testing.T) {
	env := newTestServer(t)

	w := get(t, env.router, "/api/hacknet/costs?kind=node&part=level&from=1&count=1")
	if w.Code != http.StatusOK {
		t.Fatalf("costs status = %d body=%s", w.Code, w.Body.String())
	}
	var body struct {
		Cost float64 `json:"cost"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal costs: %v", err)
	}
	if body.Cost < 250 || body.Cost > 252 {
		t.Fatalf("cost = %v, want ~251", body.Cost)
	}

	for _, target := range []string{
		"/api/hacknet/costs?kind=widget",
		"/api/hacknet/costs?part=disk",
		"/api/hacknet/costs?from=0",
		"/api/hacknet/costs?count=x",
		"/api/hacknet/costs?kind=node&part=cache",
	} {
		if w := get(t, env.router, target); w.Code != http.StatusBadRequest {
			t.Errorf("%s status = %d, want 400", target, w.Code)
		}
	}
}

func TestHistoryEndpoint(t *testing.T) {
	env := newTestServer(t)
	if err := env.store.InsertSamples([]model.Sample{{At: time.Now(), Money: 9}}); err != nil {
		t.Fatalf("InsertSamples: %v", err)
	}

	w := get(t, env.router, "/api/history?limit=5")
	if w.Code != http.StatusOK {
		t.Fatalf("history status = %d", w.Code)
	}
	var body struct {
		Samples []model.Sample `json:"samples"`
		Count   int            `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal history: %v", err)
	}
	if body.Count != 1 || body.Samples[0].Money != 9 {
		t.Fatalf("history = %+v", body)
	}

	if w := get(t, env.router, "/api/history?limit=0"); w.Code != http.StatusBadRequest {
		t.Errorf("limit=0 status = %d, want 400", w.Code)
	}
}

func TestHistoryDisabled(t *testing.T) {
	svc := game.NewService(hacknet.DefaultTables(), nil, game.NewPlayer(1, 0))
	srv := NewServer("", svc, nil, nil)

	if w := get(t, srv.Handler(), "/api/history"); w.Code != http.StatusNotFound {
		t.Fatalf("history status = %d, want 404", w.Code)
	}
	if w := get(t, srv.Handler(), "/api/ws"); w.Code != http.StatusNotFound {
		t.Fatalf("ws status = %d, want 404", w.Code)
	}
}

func TestStreamPushesOnBroadcast(t *testing.T) {
	env := newTestServer(t)
	ts := httptest.NewServer(env.router)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var first StreamMessage
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("read initial frame: %v", err)
	}
	if first.Type != "overview" || first.Player == nil || first.Player.Money != 1000 {
		t.Fatalf("initial frame = %+v", first)
	}

	if _, err := env.svc.PurchaseNode(context.Background()); err != nil {
		t.Fatalf("PurchaseNode: %v", err)
	}
	// The subscription is registered before the first frame is written.
	env.bus.Emit()

	var next StreamMessage
	if err := conn.ReadJSON(&next); err != nil {
		t.Fatalf("read pushed frame: %v", err)
	}
	if next.Player == nil || len(next.Player.HacknetNodes) != 1 {
		t.Fatalf("pushed frame = %+v", next)
	}

	conn.Close()
	deadline := time.Now().Add(5 * time.Second)
	for env.bus.Len() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if n := env.bus.Len(); n != 0 {
		t.Fatalf("subscriptions after disconnect = %d, want 0", n)
	}
}

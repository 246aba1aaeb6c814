package socketrpc_test

import (
	"bufio"
	"context"
	"errors"
	"net"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tinytelemetry/bitrunner/internal/game"
	"github.com/tinytelemetry/bitrunner/internal/hacknet"
	"github.com/tinytelemetry/bitrunner/internal/model"
	"github.com/tinytelemetry/bitrunner/internal/socketrpc"
)

func startTestServer(t *testing.T, p model.Player) (string, *socketrpc.Server) {
	t.Helper()
	sockPath := filepath.Join(t.TempDir(), "test.sock")
	svc := game.NewService(hacknet.DefaultTables(), game.RealClock{}, p)
	srv := socketrpc.NewServer(sockPath, svc)
	if err := srv.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	t.Cleanup(srv.Stop)
	return sockPath, srv
}

func dial(t *testing.T, sockPath string) *socketrpc.Client {
	t.Helper()
	c, err := socketrpc.Dial(sockPath)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestRoundtrip(t *testing.T) {
	p := game.NewPlayer(1, 0)
	p.RunningScripts = 3
	sockPath, _ := startTestServer(t, p)
	c := dial(t, sockPath)
	ctx := context.Background()

	snap, err := c.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.Money != 1000 || len(snap.Servers) == 0 {
		t.Fatalf("snapshot money=%v servers=%d", snap.Money, len(snap.Servers))
	}

	idx, err := c.PurchaseNode(ctx)
	if err != nil || idx != 0 {
		t.Fatalf("PurchaseNode = %d, %v", idx, err)
	}

	killed, err := c.KillScripts(ctx)
	if err != nil || killed != 3 {
		t.Fatalf("KillScripts = %d, %v; want 3", killed, err)
	}

	shown, err := c.ToggleProgressBars(ctx)
	if err != nil || shown {
		t.Fatalf("ToggleProgressBars = %v, %v", shown, err)
	}
}

func TestSentinelErrorsSurviveTransport(t *testing.T) {
	p := game.NewPlayer(1, 0)
	p.HacknetNodes = []hacknet.Node{hacknet.NewNode("hacknet-node-0")}
	p.Money = 0
	sockPath, _ := startTestServer(t, p)
	c := dial(t, sockPath)
	ctx := context.Background()

	_, err := c.Upgrade(ctx, 0, hacknet.PartRam, hacknet.Multiplier1)
	if !errors.Is(err, game.ErrInsufficientFunds) {
		t.Fatalf("Upgrade err = %v, want ErrInsufficientFunds", err)
	}
	_, err = c.Upgrade(ctx, 9, hacknet.PartLevel, hacknet.MultiplierMax)
	if !errors.Is(err, game.ErrUnknownNode) {
		t.Fatalf("Upgrade err = %v, want ErrUnknownNode", err)
	}
	if err := c.StartFocusing(ctx); err == nil {
		t.Fatal("StartFocusing without work succeeded")
	}
}

func TestParseErrorKeepsConnection(t *testing.T) {
	sockPath, _ := startTestServer(t, game.NewPlayer(1, 0))

	conn, err := net.Dial("unix", sockPath)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	r := bufio.NewReader(conn)
	if _, err := conn.Write([]byte("{broken\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	line, err := r.ReadString('\n')
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if want := `"code":-32700`; !strings.Contains(line, want) {
		t.Fatalf("response %q lacks %s", line, want)
	}

	if _, err := conn.Write([]byte(`{"jsonrpc":"2.0","id":2,"method":"Snapshot"}` + "\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	line, err = r.ReadString('\n')
	if err != nil {
		t.Fatalf("read after parse error: %v", err)
	}
	if !strings.Contains(line, `"id":2`) {
		t.Fatalf("second response = %q", line)
	}
}

func TestSecondServerRefusesLiveSocket(t *testing.T) {
	sockPath, _ := startTestServer(t, game.NewPlayer(1, 0))

	other := socketrpc.NewServer(sockPath, game.NewService(hacknet.DefaultTables(), nil, game.NewPlayer(1, 0)))
	if err := other.Start(); err == nil {
		other.Stop()
		t.Fatal("second server started on a live socket")
	}
}

// serveOnce answers the first request on a fresh socket with result.
func serveOnce(t *testing.T, result string) string {
	t.Helper()
	sockPath := filepath.Join(t.TempDir(), "fake.sock")
	ln, err := net.Listen("unix", sockPath)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		r := bufio.NewReader(conn)
		if _, err := r.ReadString('\n'); err != nil {
			return
		}
		_, _ = conn.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":` + result + "}\n"))
	}()
	return sockPath
}

func TestSnapshotRejectsMalformedWork(t *testing.T) {
	sockPath := serveOnce(t, `{"money":5,"currentWork":{"kind":"crime"}}`)
	c := dial(t, sockPath)

	p, err := c.Snapshot(context.Background())
	if err == nil {
		t.Fatal("Snapshot accepted work without a payload")
	}
	if !strings.Contains(err.Error(), "payloads set") {
		t.Fatalf("error = %v, want a work validation error", err)
	}
	if p.CurrentWork != nil || p.Money != 0 {
		t.Fatalf("Snapshot returned partial state %+v", p)
	}
}

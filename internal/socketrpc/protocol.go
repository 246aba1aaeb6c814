package socketrpc

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/tinytelemetry/bitrunner/internal/game"
)

// JSON-RPC 2.0 Method Reference
//
// The socket RPC server exposes model.GameAPI over a Unix domain socket,
// one method per interface call. Requests and responses are newline-delimited.
//
//   Method               Params                                       Result
//   ──────────────────   ──────────────────────────────────────────   ───────────────────
//   Snapshot             (none)                                       model.Player
//   Save                 (none)                                       null
//   KillScripts          (none)                                       int (scripts killed)
//   StartFocusing        (none)                                       null
//   ToggleProgressBars   (none)                                       bool (bars shown)
//   PurchaseNode         (none)                                       int (new index)
//   Upgrade              {Index: int, Part: string, Multiplier: str}  model.UpgradeResult
//
// Part is one of level, ram, cores, cache. Multiplier is x1, x5, x10 or MAX.
//
// Error codes follow JSON-RPC 2.0:
//   -32700  Parse error (malformed JSON)
//   -32601  Method not found
//   -32602  Invalid params
//   -32603  Internal error (marshal failure)
//   -32000  Application error; data names the game error kind when known

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

func (e *RPCError) Error() string { return e.Message }

// Unwrap maps a known error kind back to its game sentinel so callers can
// use errors.Is on the client side.
func (e *RPCError) Unwrap() error {
	for kind, sentinel := range errorKinds {
		if kind == e.Data {
			return sentinel
		}
	}
	return nil
}

var errorKinds = map[string]error{
	"insufficient-funds": game.ErrInsufficientFunds,
	"maxed":              game.ErrMaxed,
	"unknown-node":       game.ErrUnknownNode,
	"no-saver":           game.ErrNoSaver,
}

func errorKind(err error) string {
	for kind, sentinel := range errorKinds {
		if errors.Is(err, sentinel) {
			return kind
		}
	}
	return ""
}

// DefaultSocketPath returns the default Unix socket path.
// It prefers $XDG_RUNTIME_DIR/bitrunner/bitrunner.sock, falling back to
// ~/.local/state/bitrunner/bitrunner.sock.
func DefaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "bitrunner", "bitrunner.sock")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "/tmp/bitrunner.sock"
	}
	return filepath.Join(home, ".local", "state", "bitrunner", "bitrunner.sock")
}

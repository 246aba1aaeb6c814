package socketrpc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/tinytelemetry/bitrunner/internal/hacknet"
	"github.com/tinytelemetry/bitrunner/internal/model"
)

// defaultCallTimeout applies when the caller's context has no deadline.
const defaultCallTimeout = 10 * time.Second

// Client implements model.GameAPI over a Unix domain socket using JSON-RPC 2.0.
// Calls are serialized on one connection.
type Client struct {
	conn    net.Conn
	mu      sync.Mutex
	nextID  int
	scanner *bufio.Scanner
	encoder *json.Encoder
}

var _ model.GameAPI = (*Client)(nil)

// Dial connects to the socket RPC server at the given path.
func Dial(socketPath string) (*Client, error) {
	conn, err := net.DialTimeout("unix", socketPath, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("socketrpc: dial: %w", err)
	}
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 256*1024), 16*1024*1024)
	return &Client{
		conn:    conn,
		scanner: scanner,
		encoder: json.NewEncoder(conn),
	}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// call performs a JSON-RPC call and unmarshals the result into dest.
func (c *Client) call(ctx context.Context, method string, params any, dest any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID

	paramsData, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("socketrpc: marshal params: %w", err)
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(defaultCallTimeout)
	}
	c.conn.SetDeadline(deadline)
	defer c.conn.SetDeadline(time.Time{})

	if err := c.encoder.Encode(Request{JSONRPC: "2.0", ID: id, Method: method, Params: paramsData}); err != nil {
		return fmt.Errorf("socketrpc: send: %w", err)
	}

	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return fmt.Errorf("socketrpc: read: %w", err)
		}
		return fmt.Errorf("socketrpc: connection closed")
	}

	var resp Response
	if err := json.Unmarshal(c.scanner.Bytes(), &resp); err != nil {
		return fmt.Errorf("socketrpc: unmarshal response: %w", err)
	}
	if resp.ID != id && resp.Error == nil {
		return fmt.Errorf("socketrpc: response id %d, want %d", resp.ID, id)
	}
	if resp.Error != nil {
		return resp.Error
	}

	if dest != nil {
		if err := json.Unmarshal(resp.Result, dest); err != nil {
			return fmt.Errorf("socketrpc: unmarshal result: %w", err)
		}
	}
	return nil
}

func (c *Client) Snapshot(ctx context.Context) (model.Player, error) {
	var result model.Player
	if err := c.call(ctx, "Snapshot", nil, &result); err != nil {
		return model.Player{}, err
	}
	if w := result.CurrentWork; w != nil {
		if err := w.Validate(); err != nil {
			return model.Player{}, fmt.Errorf("socketrpc: snapshot: %w", err)
		}
	}
	return result, nil
}

func (c *Client) Save(ctx context.Context) error {
	return c.call(ctx, "Save", nil, nil)
}

func (c *Client) KillScripts(ctx context.Context) (int, error) {
	var result int
	err := c.call(ctx, "KillScripts", nil, &result)
	return result, err
}

func (c *Client) StartFocusing(ctx context.Context) error {
	return c.call(ctx, "StartFocusing", nil, nil)
}

func (c *Client) ToggleProgressBars(ctx context.Context) (bool, error) {
	var result bool
	err := c.call(ctx, "ToggleProgressBars", nil, &result)
	return result, err
}

func (c *Client) PurchaseNode(ctx context.Context) (int, error) {
	var result int
	err := c.call(ctx, "PurchaseNode", nil, &result)
	return result, err
}

func (c *Client) Upgrade(ctx context.Context, index int, part hacknet.Part, m hacknet.PurchaseMultiplier) (model.UpgradeResult, error) {
	var result model.UpgradeResult
	err := c.call(ctx, "Upgrade", map[string]any{
		"Index":      index,
		"Part":       string(part),
		"Multiplier": m.String(),
	}, &result)
	return result, err
}

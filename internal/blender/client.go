// Package blender implements the request/response transport to the Blender
// addon's command server. Each call opens its own TCP connection, sends one
// JSON object of shape {"type": ..., "params": ...} and reads one JSON object
// back. Connections are not pooled so the addon can be restarted between
// commands without leaving the agent holding a dead socket.
package blender

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"
)

const (
	// DefaultPort is the port the addon's command server listens on.
	DefaultPort = 9876

	defaultTimeout = 10 * time.Second

	// generate_3d_model runs a whole inference pass inside the addon
	// before replying, so it gets a longer deadline.
	defaultGenerateTimeout = 30 * time.Second
)

// Config holds the transport settings.
type Config struct {
	Host            string
	Port            int
	Timeout         time.Duration // per-command deadline
	GenerateTimeout time.Duration // deadline for generate_3d_model
}

// Client sends commands to the Blender addon. It is safe for concurrent use,
// but the addon itself does not interleave scene mutations; callers serialize
// tool execution per turn (the agent loop holds the turn lock).
type Client struct {
	cfg    Config
	logger *slog.Logger

	// dial is swapped out in tests
	dial func(ctx context.Context, addr string) (net.Conn, error)
}

// New creates a Client. Zero config fields fall back to defaults.
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.GenerateTimeout <= 0 {
		cfg.GenerateTimeout = defaultGenerateTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		cfg:    cfg,
		logger: logger,
		dial: func(ctx context.Context, addr string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "tcp", addr)
		},
	}
}

// command is the wire shape of one request.
type command struct {
	Type   string         `json:"type"`
	Params map[string]any `json:"params"`
}

// response is the wire shape of one reply.
type response struct {
	Status  string          `json:"status"`
	Result  json.RawMessage `json:"result"`
	Message string          `json:"message"`
}

// Send executes one command against the addon and returns the raw result.
// It fails with *RemoteCommandError when the addon reports status "error" and
// with *TransportError on connection, deadline, or framing failures.
func (c *Client) Send(ctx context.Context, commandType string, params map[string]any) (json.RawMessage, error) {
	if params == nil {
		params = map[string]any{}
	}

	timeout := c.cfg.Timeout
	if commandType == "generate_3d_model" {
		timeout = c.cfg.GenerateTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	addr := net.JoinHostPort(c.cfg.Host, strconv.Itoa(c.cfg.Port))

	start := time.Now()
	conn, err := c.dial(ctx, addr)
	if err != nil {
		return nil, &TransportError{Op: "dial", Err: err}
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	payload, err := json.Marshal(command{Type: commandType, Params: params})
	if err != nil {
		return nil, &TransportError{Op: "write", Err: err}
	}
	if _, err := conn.Write(payload); err != nil {
		return nil, &TransportError{Op: "write", Err: err}
	}

	var resp response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return nil, &TransportError{Op: "decode", Err: err}
	}

	c.logger.Debug("blender command completed",
		"command", commandType,
		"status", resp.Status,
		"duration", time.Since(start),
	)

	switch resp.Status {
	case "success":
		return resp.Result, nil
	case "error":
		return nil, &RemoteCommandError{Command: commandType, Message: resp.Message}
	default:
		return nil, &TransportError{Op: "decode", Err: fmt.Errorf("unknown status %q", resp.Status)}
	}
}

// GetSceneInfo fetches basic scene information. The CLI uses it as the
// startup connectivity probe before entering the chat loop.
func (c *Client) GetSceneInfo(ctx context.Context) (json.RawMessage, error) {
	return c.Send(ctx, "get_scene_info", nil)
}

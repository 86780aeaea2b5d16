package ipc

import (
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

// Client is a blocking request/response client for the daemon socket.
type Client struct {
	mu      sync.Mutex
	conn    net.Conn
	timeout time.Duration
	nextID  atomic.Uint32
}

// Dial connects to the daemon socket.
func Dial(socketPath string) (*Client, error) {
	conn, err := net.DialTimeout("unix", socketPath, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", socketPath, err)
	}
	return &Client{conn: conn, timeout: 10 * time.Second}, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Close()
}

// Request sends one message and waits for its response. An MsgError reply
// is surfaced as a Go error.
func (c *Client) Request(msgType MessageType, payload any) (*Message, error) {
	var data []byte
	if payload != nil {
		var err error
		data, err = Encode(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID.Add(1)
	msg := NewMessage(msgType, id, data)

	c.conn.SetWriteDeadline(time.Now().Add(c.timeout))
	if err := msg.Write(c.conn); err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	c.conn.SetReadDeadline(time.Now().Add(c.timeout))
	resp, err := ReadMessage(c.conn)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.Header.RequestID != id {
		return nil, fmt.Errorf("response ID mismatch: got %d, want %d", resp.Header.RequestID, id)
	}

	if resp.Header.Type == MsgError {
		var e ErrorResponse
		if err := Decode(resp.Payload, &e); err != nil {
			return nil, fmt.Errorf("daemon error (undecodable): %w", err)
		}
		return nil, fmt.Errorf("daemon error %d: %s", e.Code, e.Message)
	}

	return resp, nil
}

// Ping checks the daemon is alive.
func (c *Client) Ping() error {
	resp, err := c.Request(MsgPing, nil)
	if err != nil {
		return err
	}
	if resp.Header.Type != MsgPong {
		return fmt.Errorf("unexpected reply type %#x", resp.Header.Type)
	}
	return nil
}

// Status fetches the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	resp, err := c.Request(MsgStatus, nil)
	if err != nil {
		return nil, err
	}
	var status StatusResponse
	if err := Decode(resp.Payload, &status); err != nil {
		return nil, fmt.Errorf("decode status: %w", err)
	}
	return &status, nil
}

// SetMode switches the engine mode ("intercept", "passthrough", "toggle").
func (c *Client) SetMode(mode string) (*SetModeResponse, error) {
	resp, err := c.Request(MsgSetMode, &SetModeRequest{Mode: mode})
	if err != nil {
		return nil, err
	}
	var r SetModeResponse
	if err := Decode(resp.Payload, &r); err != nil {
		return nil, fmt.Errorf("decode set-mode response: %w", err)
	}
	return &r, nil
}

// ReloadDict reloads the dictionary from disk.
func (c *Client) ReloadDict() (*ReloadDictResponse, error) {
	resp, err := c.Request(MsgReloadDict, nil)
	if err != nil {
		return nil, err
	}
	var r ReloadDictResponse
	if err := Decode(resp.Payload, &r); err != nil {
		return nil, fmt.Errorf("decode reload response: %w", err)
	}
	return &r, nil
}

// Stats fetches commit-journal aggregates.
func (c *Client) Stats() (*StatsResponse, error) {
	resp, err := c.Request(MsgStats, nil)
	if err != nil {
		return nil, err
	}
	var r StatsResponse
	if err := Decode(resp.Payload, &r); err != nil {
		return nil, fmt.Errorf("decode stats: %w", err)
	}
	return &r, nil
}

// Shutdown asks the daemon to exit.
func (c *Client) Shutdown() error {
	_, err := c.Request(MsgShutdown, nil)
	return err
}

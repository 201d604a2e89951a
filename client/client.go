// Package client speaks the line protocol from the client side. One Client
// wraps one TCP connection and runs one request at a time.
package client

import (
	"bufio"
	"consultoria-tcp/protocol"
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultTimeout = 10 * time.Second

type Client struct {
	mu      sync.Mutex
	conn    net.Conn
	reader  *bufio.Reader
	timeout time.Duration
}

// Dial connects to addr. timeout bounds each round trip when the context
// carries no deadline; zero means DefaultTimeout.
func Dial(ctx context.Context, addr string, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return &Client{conn: conn, reader: bufio.NewReader(conn), timeout: timeout}, nil
}

// Send builds a message with a fresh request id and waits for its response.
func (c *Client) Send(ctx context.Context, commandType, sessionID string, data map[string]any) (protocol.Response, error) {
	return c.Do(ctx, protocol.Message{
		RequestID: uuid.NewString(),
		Type:      commandType,
		SessionID: sessionID,
		Data:      data,
	})
}

// Do sends message as is, keeping its request id.
func (c *Client) Do(ctx context.Context, message protocol.Message) (protocol.Response, error) {
	line, err := protocol.EncodeMessage(message)
	if err != nil {
		return protocol.Response{}, err
	}
	response, err := c.SendRaw(ctx, line)
	if err != nil {
		return protocol.Response{}, err
	}
	if response.RequestID != message.RequestID {
		return response, fmt.Errorf("response for %q while waiting for %q", response.RequestID, message.RequestID)
	}
	return response, nil
}

// SendRaw writes line followed by a newline and reads one response line.
func (c *Client) SendRaw(ctx context.Context, line []byte) (protocol.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	deadline, bounded := ctx.Deadline()
	if !bounded {
		deadline = time.Now().Add(c.timeout)
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		return protocol.Response{}, err
	}
	stop := context.AfterFunc(ctx, func() {
		_ = c.conn.SetDeadline(time.Now())
	})
	defer stop()

	frame := make([]byte, 0, len(line)+1)
	frame = append(append(frame, line...), '\n')
	if _, err := c.conn.Write(frame); err != nil {
		return protocol.Response{}, fmt.Errorf("write request: %w", err)
	}
	reply, err := c.reader.ReadBytes('\n')
	if err != nil {
		if ctx.Err() != nil {
			return protocol.Response{}, ctx.Err()
		}
		if bounded && !time.Now().Before(deadline) {
			return protocol.Response{}, context.DeadlineExceeded
		}
		return protocol.Response{}, fmt.Errorf("read response: %w", err)
	}
	return protocol.DecodeResponse(reply)
}

func (c *Client) Close() error {
	return c.conn.Close()
}

package client

import (
	"bufio"
	"consultoria-tcp/protocol"
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// echoServer answers every line with a success carrying the request's type.
func echoServer(t *testing.T, reply func(protocol.Message) protocol.Response) string {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = listener.Close() })

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		reader := bufio.NewReader(conn)
		for {
			line, err := reader.ReadBytes('\n')
			if err != nil {
				return
			}
			message, _ := protocol.Decode(line)
			out, _ := protocol.EncodeResponse(reply(message))
			if _, err := conn.Write(append(out, '\n')); err != nil {
				return
			}
		}
	}()
	return listener.Addr().String()
}

func TestClient_Send(t *testing.T) {
	req := require.New(t)
	addr := echoServer(t, func(m protocol.Message) protocol.Response {
		return protocol.CreateSuccess(m.RequestID, m.Type, map[string]any{"session": m.SessionID})
	})

	// Given a connected client
	c, err := Dial(context.Background(), addr, time.Second)
	req.NoError(err)
	defer c.Close()

	// When two requests are sent on the same connection
	first, err := c.Send(context.Background(), "PING", "", nil)
	req.NoError(err)
	second, err := c.Send(context.Background(), "CHAT", "tok-A", map[string]any{"action": "GET_MESSAGES"})
	req.NoError(err)

	// Then each gets its own response
	req.True(first.Success)
	req.Equal("PING", first.Message)
	req.NotEmpty(first.RequestID)
	req.Equal("CHAT", second.Message)
	req.Equal("tok-A", second.Data["session"])
	req.NotEqual(first.RequestID, second.RequestID)
}

func TestClient_Do_Detects_Mismatched_RequestID(t *testing.T) {
	req := require.New(t)
	addr := echoServer(t, func(protocol.Message) protocol.Response {
		return protocol.CreateError(protocol.UnknownRequestID, "invalid message")
	})

	c, err := Dial(context.Background(), addr, time.Second)
	req.NoError(err)
	defer c.Close()

	response, err := c.Do(context.Background(), protocol.Message{RequestID: "r-1", Type: "PING"})

	req.Error(err)
	req.Equal(protocol.UnknownRequestID, response.RequestID)
}

func TestClient_SendRaw_Honours_Context(t *testing.T) {
	req := require.New(t)
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	req.NoError(err)
	defer listener.Close()
	go func() {
		// Accept and never answer.
		conn, err := listener.Accept()
		if err == nil {
			defer conn.Close()
			time.Sleep(2 * time.Second)
		}
	}()

	c, err := Dial(context.Background(), listener.Addr().String(), time.Minute)
	req.NoError(err)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = c.SendRaw(ctx, []byte(`{"requestId":"r-1","type":"PING"}`))

	req.ErrorIs(err, context.DeadlineExceeded)
}

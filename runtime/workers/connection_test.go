package workers

import (
	"bufio"
	"consultoria-tcp/errors"
	"consultoria-tcp/observability"
	"consultoria-tcp/protocol"
	"context"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type dispatchFunc func(ctx context.Context, line []byte) protocol.Response

func (f dispatchFunc) Dispatch(ctx context.Context, line []byte) protocol.Response {
	return f(ctx, line)
}

// echoDispatcher answers valid messages with their type and everything else
// with an invalid message error.
var echoDispatcher = dispatchFunc(func(_ context.Context, line []byte) protocol.Response {
	message, err := protocol.Decode(line)
	if err != nil {
		return protocol.FromError(protocol.RequestIDHint(line), err)
	}
	if message.Type == "BOOM" {
		return protocol.FromError(message.RequestID, errors.ErrHandlerPanic)
	}
	return protocol.CreateSuccess(message.RequestID, "handled "+message.Type, nil)
})

type fakeTracker struct {
	mu      sync.Mutex
	tracked map[net.Conn]struct{}
	refuse  bool
}

func newFakeTracker() *fakeTracker {
	return &fakeTracker{tracked: make(map[net.Conn]struct{})}
}

func (t *fakeTracker) Track(conn net.Conn) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.refuse {
		return false
	}
	t.tracked[conn] = struct{}{}
	return true
}

func (t *fakeTracker) Untrack(conn net.Conn) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.tracked, conn)
}

func (t *fakeTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.tracked)
}

func roundTrip(t *testing.T, conn net.Conn, reader *bufio.Reader, line string) protocol.Response {
	t.Helper()
	_, err := conn.Write([]byte(line + "\n"))
	require.NoError(t, err)
	reply, err := reader.ReadString('\n')
	require.NoError(t, err)
	response, err := protocol.DecodeResponse([]byte(reply))
	require.NoError(t, err)
	return response
}

func TestConnectionWorker_Connection_Survives_Bad_Lines(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromString("DEBUG")
	server, client := net.Pipe()
	defer client.Close()

	conns := make(chan net.Conn, 1)
	conns <- server
	close(conns)
	tracker := newFakeTracker()
	stats := observability.NewStats()
	worker := NewConnectionWorker(conns, echoDispatcher, tracker, stats, 64, log)

	done := make(chan error, 1)
	go func() { done <- worker.Run(context.Background()) }()
	reader := bufio.NewReader(client)

	// Given a valid request
	response := roundTrip(t, client, reader, `{"requestId":"r-1","type":"PING"}`)
	req.True(response.Success)
	req.Equal("r-1", response.RequestID)

	// When the peer sends garbage, an empty line, an over-long line and a failing command
	garbage := roundTrip(t, client, reader, "\x00\x01garbage")
	req.False(garbage.Success)
	req.Equal(protocol.UnknownRequestID, garbage.RequestID)
	req.Contains(garbage.Message, "invalid message")

	empty := roundTrip(t, client, reader, "")
	req.False(empty.Success)
	req.Equal(protocol.UnknownRequestID, empty.RequestID)

	long := roundTrip(t, client, reader, `{"requestId":"big-1","type":"PING","data":{"pad":"`+strings.Repeat("x", 200)+`"}}`)
	req.False(long.Success)
	req.Equal("big-1", long.RequestID)
	req.Equal("line too long", long.Message)

	failed := roundTrip(t, client, reader, `{"requestId":"r-2","type":"BOOM"}`)
	req.False(failed.Success)
	req.Equal("r-2", failed.RequestID)

	// Then the connection still serves requests, CRLF included
	response = roundTrip(t, client, reader, "{\"requestId\":\"r-3\",\"type\":\"PING\"}\r")
	req.True(response.Success)
	req.Equal("r-3", response.RequestID)
	req.Equal(1, tracker.Len())

	// When the peer leaves, the worker releases the connection and returns
	req.NoError(client.Close())
	select {
	case err := <-done:
		req.NoError(err)
	case <-time.After(2 * time.Second):
		req.Fail("worker should stop once the queue is closed")
	}
	req.Equal(0, tracker.Len())
	snapshot := stats.Snapshot()
	req.Equal(uint64(6), snapshot.RequestsTotal)
	req.Equal(uint64(4), snapshot.ErrorResponses)
	req.Equal(int64(0), snapshot.ActiveConnections)
}

func TestConnectionWorker_Stops_On_Shutdown(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromString("DEBUG")
	server, client := net.Pipe()
	defer client.Close()

	conns := make(chan net.Conn, 1)
	conns <- server
	worker := NewConnectionWorker(conns, echoDispatcher, newFakeTracker(), observability.NewStats(), 0, log)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	reader := bufio.NewReader(client)
	response := roundTrip(t, client, reader, `{"requestId":"r-1","type":"PING"}`)
	req.True(response.Success)

	// When the server stops and nudges the idle read
	cancel()
	req.NoError(server.SetReadDeadline(time.Now()))

	// Then the worker closes the connection and returns
	select {
	case err := <-done:
		req.ErrorIs(err, context.Canceled)
	case <-time.After(2 * time.Second):
		req.Fail("worker should stop on cancellation")
	}
	_, err := reader.ReadByte()
	req.ErrorIs(err, io.EOF)
}

func TestConnectionWorker_Refused_By_Tracker(t *testing.T) {
	req := require.New(t)
	server, client := net.Pipe()
	defer client.Close()

	conns := make(chan net.Conn, 1)
	conns <- server
	close(conns)
	tracker := newFakeTracker()
	tracker.refuse = true
	worker := NewConnectionWorker(conns, echoDispatcher, tracker, observability.NewStats(), 0, logs.GetLoggerFromString("DEBUG"))

	req.NoError(worker.Run(context.Background()))

	_, err := bufio.NewReader(client).ReadByte()
	req.ErrorIs(err, io.EOF)
}

func TestReadLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		lines []string
		errs  []error
	}{
		{"simple line", "hello\n", []string{"hello"}, []error{nil}},
		{"crlf", "hello\r\n", []string{"hello"}, []error{nil}},
		{"empty line", "\n", []string{""}, []error{nil}},
		{"exact limit with crlf", strings.Repeat("a", 20) + "\r\n", []string{strings.Repeat("a", 20)}, []error{nil}},
		{"one byte over", strings.Repeat("a", 21) + "\n", []string{strings.Repeat("a", 20)}, []error{errors.ErrLineTooLong}},
		{
			"over-long line is skipped",
			strings.Repeat("a", 30) + "\nnext\n",
			[]string{strings.Repeat("a", 20), "next"},
			[]error{errors.ErrLineTooLong, nil},
		},
		{"last line without newline", "tail", []string{"tail", ""}, []error{nil, io.EOF}},
		{"nothing", "", []string{""}, []error{io.EOF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			reader := bufio.NewReaderSize(strings.NewReader(tt.input), 16)
			for i := range tt.lines {
				line, err := readLine(reader, 20)
				if tt.errs[i] == nil {
					req.NoError(err)
				} else {
					req.ErrorIs(err, tt.errs[i])
				}
				req.Equal(tt.lines[i], string(line))
			}
		})
	}
}

package workers

import (
	"bufio"
	"bytes"
	"consultoria-tcp/contract"
	"consultoria-tcp/errors"
	"consultoria-tcp/observability"
	"consultoria-tcp/protocol"
	"context"
	"io"
	"log/slog"
	"net"
	"time"
)

var _ contract.Worker = (*ConnectionWorker)(nil)

const (
	DefaultMaxLineBytes = 1 << 20
	writeTimeout        = 10 * time.Second
	readBufferSize      = 4096
)

// ConnTracker lets the server reach connections that are being served so it
// can interrupt their reads on shutdown.
type ConnTracker interface {
	Track(conn net.Conn) bool
	Untrack(conn net.Conn)
}

// ConnectionWorker is one unit of the connection pool. It takes accepted
// connections from a channel and serves each one until the peer leaves:
// read a line, dispatch it, write exactly one response line.
type ConnectionWorker struct {
	conns        <-chan net.Conn
	dispatcher   contract.Dispatcher
	tracker      ConnTracker
	stats        *observability.Stats
	maxLineBytes int
	log          *slog.Logger
}

func NewConnectionWorker(
	conns <-chan net.Conn,
	dispatcher contract.Dispatcher,
	tracker ConnTracker,
	stats *observability.Stats,
	maxLineBytes int,
	log *slog.Logger) *ConnectionWorker {
	if maxLineBytes <= 0 {
		maxLineBytes = DefaultMaxLineBytes
	}
	return &ConnectionWorker{
		conns:        conns,
		dispatcher:   dispatcher,
		tracker:      tracker,
		stats:        stats,
		maxLineBytes: maxLineBytes,
		log:          log,
	}
}

func (w *ConnectionWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case conn, ok := <-w.conns:
			if !ok {
				w.log.Debug("Connection queue is closed")
				return nil
			}
			w.serve(ctx, conn)
		}
	}
}

func (w *ConnectionWorker) serve(ctx context.Context, conn net.Conn) {
	remote := conn.RemoteAddr().String()
	log := w.log.With("remote", remote)

	defer func() {
		w.tracker.Untrack(conn)
		w.stats.ConnectionClosed()
		_ = conn.Close()
		log.Info("Connection closed")
	}()
	w.stats.ConnectionOpened()
	if !w.tracker.Track(conn) {
		log.Debug("Server is stopping, connection dropped")
		return
	}
	log.Info("Connection opened")

	reader := bufio.NewReaderSize(conn, readBufferSize)
	writer := bufio.NewWriter(conn)
	// Requests already read are answered even while the server stops.
	dispatchCtx := context.WithoutCancel(ctx)

	for {
		if ctx.Err() != nil {
			return
		}

		line, err := readLine(reader, w.maxLineBytes)
		var response protocol.Response
		switch {
		case err == nil:
			response = w.dispatcher.Dispatch(dispatchCtx, line)
		case errors.Is(err, errors.ErrLineTooLong):
			log.Warn("Discarded over-long line", "max_bytes", w.maxLineBytes)
			response = protocol.FromError(protocol.RequestIDHint(line), err)
		default:
			w.logReadError(ctx, log, err)
			return
		}

		if err := w.write(conn, writer, response); err != nil {
			log.Warn("Failed to write response", "request_id", response.RequestID, "error", err)
			return
		}
		w.stats.RequestServed(response.Success)
	}
}

func (w *ConnectionWorker) write(conn net.Conn, writer *bufio.Writer, response protocol.Response) error {
	encoded, err := protocol.EncodeResponse(response)
	if err != nil {
		w.log.Error("Failed to encode response", "request_id", response.RequestID, "error", err)
		encoded, err = protocol.EncodeResponse(protocol.FromError(response.RequestID, err))
		if err != nil {
			return err
		}
	}
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	if _, err := writer.Write(encoded); err != nil {
		return err
	}
	if err := writer.WriteByte('\n'); err != nil {
		return err
	}
	return writer.Flush()
}

func (w *ConnectionWorker) logReadError(ctx context.Context, log *slog.Logger, err error) {
	var netErr net.Error
	switch {
	case errors.Is(err, io.EOF):
		log.Debug("Client disconnected")
	case ctx.Err() != nil:
		log.Debug("Read interrupted by shutdown")
	case errors.Is(err, net.ErrClosed):
		log.Debug("Connection closed locally")
	case errors.As(err, &netErr) && netErr.Timeout():
		log.Debug("Read deadline reached")
	default:
		log.Warn("Read failed", "error", err)
	}
}

// readLine reads up to and excluding the next '\n' (and a preceding '\r').
// A line longer than maxBytes is consumed up to its newline and reported with
// ErrLineTooLong; the returned prefix holds its first maxBytes bytes.
// A final line without newline is returned as is before io.EOF.
func readLine(r *bufio.Reader, maxBytes int) ([]byte, error) {
	var line []byte
	overflow := false
	for {
		chunk, err := r.ReadSlice('\n')
		chunk = bytes.TrimSuffix(chunk, []byte{'\n'})
		// One extra byte of room for a trailing '\r'.
		room := maxBytes + 1 - len(line)
		if len(chunk) > room {
			overflow = true
		}
		line = append(line, chunk[:min(len(chunk), max(room, 0))]...)

		switch {
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case err == nil, errors.Is(err, io.EOF) && len(line) > 0:
			line = bytes.TrimSuffix(line, []byte{'\r'})
			if overflow || len(line) > maxBytes {
				return line[:min(len(line), maxBytes)], errors.ErrLineTooLong
			}
			return line, nil
		default:
			return nil, err
		}
	}
}

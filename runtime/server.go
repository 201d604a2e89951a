// Package runtime accepts TCP connections and routes their request lines to
// command handlers. It holds no business rules.
package runtime

import (
	"consultoria-tcp/contract"
	"consultoria-tcp/errors"
	"consultoria-tcp/observability"
	"consultoria-tcp/runtime/workers"
	"context"
	"log/slog"
	"net"
	"sync"
	"time"
)

const acceptRetryDelay = 50 * time.Millisecond

type ServerConfig struct {
	Addr            string
	PoolSize        int
	QueueSize       int
	MaxLineBytes    int
	RestartInterval time.Duration
}

// Server owns the listener, the queue of accepted connections and the pool
// of connection workers that drain it.
type Server struct {
	cfg        ServerConfig
	dispatcher contract.Dispatcher
	stats      *observability.Stats
	log        *slog.Logger
	background []contract.Worker
	queue      chan net.Conn
	ready      chan struct{}

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	cancel   context.CancelFunc
	closing  bool
}

func NewServer(cfg ServerConfig, dispatcher contract.Dispatcher, stats *observability.Stats, log *slog.Logger) *Server {
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = 1
	}
	if cfg.QueueSize < 0 {
		cfg.QueueSize = 0
	}
	s := &Server{
		cfg:        cfg,
		dispatcher: dispatcher,
		stats:      stats,
		log:        log,
		queue:      make(chan net.Conn, cfg.QueueSize),
		ready:      make(chan struct{}),
		conns:      make(map[net.Conn]struct{}),
	}
	stats.TrackQueue(func() int { return len(s.queue) })
	return s
}

// AddWorkers runs extra workers under the server's supervisor. It must be
// called before Run.
func (s *Server) AddWorkers(worker ...contract.Worker) *Server {
	s.background = append(s.background, worker...)
	return s
}

// Ready is closed once the listener is bound.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr is the bound address, nil before Ready.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Run listens, accepts connections and serves them until ctx is cancelled or
// Stop is called. It returns once every worker has finished.
func (s *Server) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		return errors.ErrServerClosed
	}
	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.listener = listener
	s.cancel = cancel
	s.mu.Unlock()
	close(s.ready)

	s.log.Info("TCP server listening", "addr", listener.Addr().String(), "workers", s.cfg.PoolSize, "queue", s.cfg.QueueSize)

	supervisor := workers.NewSupervisor(s.log, s.cfg.RestartInterval)
	for i := 0; i < s.cfg.PoolSize; i++ {
		supervisor.Add(workers.NewConnectionWorker(s.queue, s.dispatcher, s, s.stats, s.cfg.MaxLineBytes, s.log))
	}
	supervisor.Add(s.background...)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		supervisor.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		<-ctx.Done()
		s.shutdown()
	}()

	err = s.acceptLoop(ctx, listener)
	cancel()
	wg.Wait()
	s.drainQueue()
	s.log.Info("TCP server stopped")
	return err
}

func (s *Server) acceptLoop(ctx context.Context, listener net.Listener) error {
	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				s.log.Warn("Temporary accept failure", "error", err)
				time.Sleep(acceptRetryDelay)
				continue
			}
			return err
		}
		s.log.Debug("Connection accepted", "remote", conn.RemoteAddr().String())

		// Blocks while every worker is busy and the queue is full.
		select {
		case s.queue <- conn:
		case <-ctx.Done():
			_ = conn.Close()
			return nil
		}
	}
}

// Stop asks a running server to shut down. Run returns once it has.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closing = true
	if s.cancel != nil {
		s.cancel()
	}
}

// shutdown stops accepting and wakes every reader blocked on an idle
// connection. A request being processed still gets its response.
func (s *Server) shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closing = true
	if s.listener != nil {
		_ = s.listener.Close()
	}
	for conn := range s.conns {
		_ = conn.SetReadDeadline(time.Now())
	}
}

func (s *Server) drainQueue() {
	for {
		select {
		case conn := <-s.queue:
			_ = conn.Close()
		default:
			return
		}
	}
}

// Track registers a connection a worker starts serving. It refuses new
// connections once shutdown has begun.
func (s *Server) Track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) Untrack(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
}

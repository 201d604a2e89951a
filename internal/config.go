package internal

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

type Config struct {
	Host                 string        `env:"TCP_HOST,default=0.0.0.0"`
	Port                 int           `env:"TCP_PORT,default=8888"`
	WorkerPoolSize       int           `env:"WORKER_POOL_SIZE,default=20"`
	ConnectionQueueSize  int           `env:"CONNECTION_QUEUE_SIZE,default=64"`
	MaxLineBytes         int           `env:"MAX_LINE_BYTES,default=1048576"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	SessionDuration      time.Duration `env:"SESSION_DURATION,default=24h"`
	SessionSweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL,default=1m"`
	IdempotencyTTL       time.Duration `env:"IDEMPOTENCY_TTL,default=10m"`
	MetricInterval       time.Duration `env:"METRIC_INTERVAL,default=30s"`
	JWTSecret            string        `env:"JWT_SECRET,required=true"`
	BadgerFilepath       string        `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath        string        `env:"BLUGE_FILEPATH"`
	CensoredWordsFile    string        `env:"CENSORED_WORDS_FILE"`
	CharReplacement      string        `env:"CHARACTER_REPLACEMENT,default=*"`
	LimitMessages        *int          `env:"LIMIT_MESSAGES"`
	LogLevel             string        `env:"LOG_LEVEL,default=INFO"`
	DebugPort            int           `env:"DEBUG_PORT,default=8081"`
}

func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Validate rejects values the server cannot start with.
func (c Config) Validate() error {
	switch {
	case c.Port < 0 || c.Port > 65535:
		return fmt.Errorf("TCP_PORT out of range: %d", c.Port)
	case c.WorkerPoolSize <= 0:
		return fmt.Errorf("WORKER_POOL_SIZE must be positive, got %d", c.WorkerPoolSize)
	case c.ConnectionQueueSize < 0:
		return fmt.Errorf("CONNECTION_QUEUE_SIZE must not be negative, got %d", c.ConnectionQueueSize)
	case c.MaxLineBytes <= 0:
		return fmt.Errorf("MAX_LINE_BYTES must be positive, got %d", c.MaxLineBytes)
	case c.SessionDuration <= 0:
		return fmt.Errorf("SESSION_DURATION must be positive, got %s", c.SessionDuration)
	case c.SessionSweepInterval <= 0 || c.MetricInterval <= 0:
		return fmt.Errorf("SESSION_SWEEP_INTERVAL and METRIC_INTERVAL must be positive")
	case c.IdempotencyTTL <= 0:
		return fmt.Errorf("IDEMPOTENCY_TTL must be positive, got %s", c.IdempotencyTTL)
	case len(c.JWTSecret) < 32:
		return fmt.Errorf("JWT_SECRET must be at least 32 bytes")
	case c.LimitMessages != nil && *c.LimitMessages <= 0:
		return fmt.Errorf("LIMIT_MESSAGES must be positive, got %d", *c.LimitMessages)
	}
	_, err := CharacterRune(c.CharReplacement)
	return err
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}

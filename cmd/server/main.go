package main

import (
	"consultoria-tcp/auth"
	"consultoria-tcp/contract"
	"consultoria-tcp/handlers"
	"consultoria-tcp/internal"
	"consultoria-tcp/moderation"
	"consultoria-tcp/observability"
	"consultoria-tcp/repositories"
	"consultoria-tcp/runtime"
	"consultoria-tcp/runtime/workers"
	"consultoria-tcp/services"
	"consultoria-tcp/session"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/database"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires every component and blocks until the server stops. Deferred
// cleanups run before the exit code reaches main.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}

	logger := logs.GetLoggerFromString(config.LogLevel)

	// NotifyContext captures OS signals and cancels the context to trigger a shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Storage
	db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	if logger.Enabled(ctx, slog.LevelDebug) {
		endpoint := "/inspect"
		logger.Info("Debug Badger inspector available", "url", fmt.Sprintf("http://localhost:%d%s", config.DebugPort, endpoint))
		database.StartDebugServer(db, config.DebugPort, endpoint, recordMapper)
	}

	blugeWriter, err := repositories.OpenMessageIndexWriter(config.BlugeFilepath)
	if err != nil {
		return exitRuntime, err
	}
	defer func() {
		logger.Info("Closing Bluge...")
		_ = blugeWriter.Close()
	}()

	userRepository, err := repositories.NewUserRepository(db)
	if err != nil {
		return exitRuntime, err
	}
	defer func() { _ = userRepository.Close() }()
	projectRepository, err := repositories.NewProjectRepository(db)
	if err != nil {
		return exitRuntime, err
	}
	defer func() { _ = projectRepository.Close() }()
	messageRepository, err := repositories.NewMessageRepository(db, logger, config.LimitMessages)
	if err != nil {
		return exitRuntime, err
	}
	defer func() { _ = messageRepository.Close() }()
	roadmapRepository, err := repositories.NewRoadmapRepository(db)
	if err != nil {
		return exitRuntime, err
	}
	defer func() { _ = roadmapRepository.Close() }()
	photoRepository := repositories.NewPhotoRepository(db)
	idempotencyRepository := repositories.NewIdempotencyRepository(db, config.IdempotencyTTL)
	messageIndex := repositories.NewMessageIndex(blugeWriter, logger)

	// 3. Moderation
	filter := moderation.NewFilter(nil)
	var background []contract.Worker
	if config.CensoredWordsFile != "" {
		moderator, err := moderation.LoadModerator(config.CensoredWordsFile, charReplacement, logger)
		if err != nil {
			return exitConfig, fmt.Errorf("censored words: %w", err)
		}
		filter.Swap(moderator)
		background = append(background, moderation.NewWatcher(config.CensoredWordsFile, charReplacement, filter, logger))
	} else {
		logger.Info("No censored words file, moderation disabled")
	}

	// 4. Sessions, services and handlers
	sessions := session.NewStore(nil)
	tokens := auth.NewTokenIssuer(config.JWTSecret, config.SessionDuration)
	authService := services.NewAuthService(userRepository, tokens, sessions)
	chatService := services.NewChatService(messageRepository, messageIndex, filter, logger)

	registry := runtime.NewRegistry(logger,
		handlers.NewPingHandler(),
		handlers.NewAuthHandler(authService, logger),
		handlers.NewProjectHandler(projectRepository, logger),
		handlers.NewChatHandler(projectRepository, userRepository, chatService, idempotencyRepository, logger),
		handlers.NewProfileHandler(userRepository, photoRepository, sessions, logger),
		handlers.NewRoadmapHandler(roadmapRepository, projectRepository, chatService, logger),
	)
	dispatcher := runtime.NewDispatcher(registry, sessions, logger)

	// 5. Server and background workers
	stats := observability.NewStats()
	server := runtime.NewServer(runtime.ServerConfig{
		Addr:            config.Addr(),
		PoolSize:        config.WorkerPoolSize,
		QueueSize:       config.ConnectionQueueSize,
		MaxLineBytes:    config.MaxLineBytes,
		RestartInterval: config.RestartInterval,
	}, dispatcher, stats, logger)
	server.AddWorkers(
		workers.NewSessionJanitorWorker(sessions, config.SessionSweepInterval, logger),
		workers.NewReporterWorker(stats, config.MetricInterval, logger),
	)
	server.AddWorkers(background...)

	logger.Info("Starting server", "addr", config.Addr(), "commands", strings.Join(registry.CommandTypes(), ","))
	if err := server.Run(ctx); err != nil {
		return exitRuntime, fmt.Errorf("server error: %w", err)
	}
	logger.Info("Program stopped cleanly")
	return exitOK, nil
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)

	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG).
			WithBypassLockGuard(true)
	} else {
		options = options.WithLoggingLevel(badger.INFO)
	}

	return options
}

// recordMapper shows stored records as JSON in the debug inspector.
func recordMapper(key string, val []byte) database.InspectRow {
	row := database.DefaultMapper(key, val)
	row.Type = strings.ToUpper(strings.SplitN(key, ":", 2)[0])
	row.Detail = repositories.RenderRecord(val)
	return row
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"shortlink/internal/cache"
	"shortlink/internal/cache/memory"
	"shortlink/internal/cache/redis"
	"shortlink/internal/clicks"
	"shortlink/internal/config"
	"shortlink/internal/events"
	"shortlink/internal/repository/sqlite"
	"shortlink/internal/service"
	"shortlink/internal/shortener"
	"shortlink/internal/transport/client"
	httpTransport "shortlink/internal/transport/http"
)

var rootCmd = &cobra.Command{
	Use:   "shortlink",
	Short: "A URL shortening service written in Go",
	Long:  "A URL shortening service with SQLite storage, configurable caching (memory or Redis), click analytics and optional NATS-based replication",
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the URL shortening server",
	RunE:  runServer,
}

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Client commands for interacting with the server",
}

var createCmd = &cobra.Command{
	Use:   "create [URL]",
	Short: "Create a short URL",
	Args:  cobra.ExactArgs(1),
	RunE:  runCreateURL,
}

var getCmd = &cobra.Command{
	Use:   "get [SHORT_CODE]",
	Short: "Get analytics for a short URL",
	Args:  cobra.ExactArgs(1),
	RunE:  runGetURL,
}

var deleteCmd = &cobra.Command{
	Use:   "delete [SHORT_CODE]",
	Short: "Delete a short URL",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeleteURL,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all short URLs",
	RunE:  runListURLs,
}

// envOr returns the value of the environment variable or a fallback. Flag
// defaults run through this so a .env file can override them while explicit
// flags still win.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("[ERROR] Ignoring non-numeric %s=%q", key, v)
	}
	return fallback
}

func init() {
	// A missing .env file is not an error
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	// Server command flags
	serverCmd.Flags().StringP("port", "p", envOr("PORT", "8080"), "Server port")
	serverCmd.Flags().String("base-url", envOr("BASE_URL", "http://localhost:8080"), "Public base URL used to build short URLs")
	serverCmd.Flags().String("db-path", envOr("DB_PATH", "urls.db"), "Database file path")

	// Cache configuration flags
	serverCmd.Flags().String("cache-backend", envOr("CACHE_BACKEND", config.CacheBackendMemory), "Cache backend (memory or redis)")
	serverCmd.Flags().Duration("cache-ttl-ceiling", 24*time.Hour, "Upper bound for cache entry TTLs")
	serverCmd.Flags().String("redis-addr", envOr("REDIS_ADDR", ""), "Redis address (required for the redis backend)")
	serverCmd.Flags().String("redis-password", envOr("REDIS_PASSWORD", ""), "Redis password")
	serverCmd.Flags().Int("redis-db", envOrInt("REDIS_DB", 0), "Redis database number")

	// URL lifecycle policy flags
	serverCmd.Flags().Duration("expiration-horizon", 30*24*time.Hour, "How long new short URLs live")
	serverCmd.Flags().Int("insert-retries", 5, "Attempts before giving up on short code collisions")

	// Event propagation flags
	serverCmd.Flags().String("nats-url", envOr("NATS_URL", ""), "NATS server URL (empty disables event propagation)")
	serverCmd.Flags().String("nats-subject", envOr("NATS_SUBJECT", "shortlink.urls.created"), "NATS subject for creation events")
	serverCmd.Flags().Bool("replica", false, "Subscribe to creation events and mirror them into the local store")

	// Shortener configuration flags
	serverCmd.Flags().Int("code-length", envOrInt("CODE_LENGTH", shortener.DefaultCodeLength), "Length of generated short codes")

	// Logging configuration flags
	serverCmd.Flags().BoolP("verbose", "v", false, "Enable verbose logging (HTTP requests/responses and error details)")

	// Client command flags
	clientCmd.PersistentFlags().StringP("server-url", "u", envOr("SERVER_URL", "http://localhost:8080"), "Server URL")

	// Add subcommands
	clientCmd.AddCommand(createCmd, getCmd, deleteCmd, listCmd)
	rootCmd.AddCommand(serverCmd, clientCmd)
}

func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	port, _ := cmd.Flags().GetString("port")
	baseURL, _ := cmd.Flags().GetString("base-url")
	dbPath, _ := cmd.Flags().GetString("db-path")

	cacheBackend, _ := cmd.Flags().GetString("cache-backend")
	ttlCeiling, _ := cmd.Flags().GetDuration("cache-ttl-ceiling")
	redisAddr, _ := cmd.Flags().GetString("redis-addr")
	redisPassword, _ := cmd.Flags().GetString("redis-password")
	redisDB, _ := cmd.Flags().GetInt("redis-db")

	expirationHorizon, _ := cmd.Flags().GetDuration("expiration-horizon")
	insertRetries, _ := cmd.Flags().GetInt("insert-retries")

	natsURL, _ := cmd.Flags().GetString("nats-url")
	natsSubject, _ := cmd.Flags().GetString("nats-subject")
	replica, _ := cmd.Flags().GetBool("replica")

	codeLength, _ := cmd.Flags().GetInt("code-length")
	verbose, _ := cmd.Flags().GetBool("verbose")

	return config.New(
		config.ServerConfig{Port: port, BaseURL: baseURL},
		config.DatabaseConfig{Path: dbPath},
		config.CacheConfig{
			Backend:       cacheBackend,
			TTLCeiling:    ttlCeiling,
			RedisAddr:     redisAddr,
			RedisPassword: redisPassword,
			RedisDB:       redisDB,
		},
		config.PolicyConfig{ExpirationHorizon: expirationHorizon, InsertRetries: insertRetries},
		config.EventsConfig{NATSURL: natsURL, Subject: natsSubject, Replica: replica},
		config.LoggingConfig{Verbose: verbose},
		shortener.Config{CodeLength: codeLength},
	)
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to create configuration: %w", err)
	}

	log.Printf("Starting URL shortener server with config: port=%s cache=%s", cfg.Server.Port, cfg.Cache.Backend)

	// Initialize database
	repo, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.Printf("Error closing repository: %v", err)
		}
	}()

	// Initialize shortener generator
	generator, err := shortener.NewGenerator(cfg.Shortener)
	if err != nil {
		return fmt.Errorf("failed to create shortener generator: %w", err)
	}
	log.Printf("Using %s shortener generator", generator.Type())

	// Initialize cache backend
	var urlCache cache.URLCache
	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		urlCache, err = redis.New(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Printf("Using redis cache at %s", cfg.Cache.RedisAddr)
	default:
		urlCache = memory.New()
		log.Printf("Using in-memory cache")
	}

	// Initialize click recording
	recorder := clicks.New(repo, clicks.DefaultQueueSize)

	// Initialize event propagation when NATS is configured
	var publisher events.Publisher
	var bus *events.Bus
	if cfg.Events.NATSURL != "" {
		bus, err = events.Connect(cfg.Events.NATSURL, cfg.Events.Subject)
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer func() {
			if err := bus.Close(); err != nil {
				log.Printf("Error closing NATS connection: %v", err)
			}
		}()
		publisher = bus
		log.Printf("Publishing creation events to %s", cfg.Events.Subject)

		if cfg.Events.Replica {
			replicator := events.NewReplicator(repo)
			if err := replicator.Start(bus); err != nil {
				return fmt.Errorf("failed to start replica subscription: %w", err)
			}
			log.Printf("Mirroring creation events from %s", cfg.Events.Subject)
		}
	}

	// Assemble the service
	urlShortener := service.NewURLShortener(repo, urlCache, generator, recorder, publisher, service.Options{
		BaseURL:           cfg.Server.BaseURL,
		ExpirationHorizon: cfg.Policy.ExpirationHorizon,
		CacheTTLCeiling:   cfg.Cache.TTLCeiling,
		InsertRetries:     cfg.Policy.InsertRetries,
	})
	defer func() {
		if err := urlShortener.Close(); err != nil {
			log.Printf("Error closing shortener: %v", err)
		}
	}()

	// Create and start HTTP server
	server := httpTransport.NewServer(urlShortener, cfg.Server.Port, cfg.Logging.Verbose)

	// Set up graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-sigChan:
		log.Printf("Received signal %v, shutting down gracefully...", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error during server shutdown: %v", err)
		}
	}

	log.Println("Server stopped")
	return nil
}

func clientCommands(cmd *cobra.Command) *client.Commands {
	serverURL, _ := cmd.Flags().GetString("server-url")
	return client.NewCommands(client.NewClient(serverURL))
}

func runCreateURL(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return clientCommands(cmd).Create(ctx, args[0])
}

func runGetURL(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return clientCommands(cmd).Get(ctx, args[0])
}

func runDeleteURL(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return clientCommands(cmd).Delete(ctx, args[0])
}

func runListURLs(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return clientCommands(cmd).List(ctx)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

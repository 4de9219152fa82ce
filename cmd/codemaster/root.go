package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	backend "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	codemaster "github.com/codemaster-ai/codemaster"
	"github.com/codemaster-ai/codemaster/internal/config"
	"github.com/codemaster-ai/codemaster/internal/logging"
	"github.com/codemaster-ai/codemaster/pkg/adapters/memory"
	"github.com/codemaster-ai/codemaster/pkg/adapters/redis"
	"github.com/codemaster-ai/codemaster/pkg/observability"
	"github.com/codemaster-ai/codemaster/pkg/persistence/middleware"
	"github.com/codemaster-ai/codemaster/pkg/ports"
)

var rootCmd = &cobra.Command{
	Use:   "codemaster",
	Short: "Codemaster is a workflow orchestration server for coding agents",
	Long: `Codemaster gates a coding agent through a disciplined workflow:
declare capabilities, define success, plan tasks, map tools, then execute
task by task. It speaks MCP (stdio or SSE) and plain HTTP.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "codemaster.yaml", "Path to the configuration file")
}

// loadConfig reads the file named by --config.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// buildEngine assembles an engine from configuration. withMetrics controls
// whether Prometheus collectors get registered; only the HTTP-facing modes
// have somewhere to scrape them from.
func buildEngine(cfg config.Config, logger *slog.Logger, withMetrics bool) (*codemaster.Engine, func(), error) {
	opts := []codemaster.Option{codemaster.WithLogger(logger)}
	cleanup := func() {}

	var store ports.SessionStore = memory.NewStore()
	if cfg.Store.Backend == "redis" {
		client := backend.NewClient(&backend.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		var storeOpts []redis.Option
		if ttl := cfg.Redis.TTL.Std(); ttl > 0 {
			storeOpts = append(storeOpts, redis.WithTTL(ttl))
		}
		store = redis.NewFromClient(client, storeOpts...)
		opts = append(opts, codemaster.WithLocker(redis.NewLocker(client, "codemaster:lock:")))
		cleanup = func() { _ = client.Close() }
	}

	activeKey, fallbackKeys, err := cfg.Store.EncryptionKeys()
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	if activeKey != nil {
		store = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    activeKey,
			FallbackKeys: fallbackKeys,
		})(store)
	}
	if len(cfg.Store.RedactPatterns) > 0 {
		store = middleware.NewRedactionMiddleware(cfg.Store.RedactPatterns)(store)
	}
	opts = append(opts, codemaster.WithStore(store))

	if withMetrics {
		opts = append(opts, codemaster.WithMetrics(observability.NewRecorder(prometheus.DefaultRegisterer)))
	}

	return codemaster.New(opts...), cleanup, nil
}

func newLogger(cfg config.Config) *slog.Logger {
	return logging.New(cfg.Log.Level)
}

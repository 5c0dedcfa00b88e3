// Command eosd runs the Eos turn-based exploration server: it generates
// (or restores) the star system, then serves the game API.
package main

import (
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"

	"github.com/talgya/eos-server/internal/api"
	"github.com/talgya/eos-server/internal/config"
	"github.com/talgya/eos-server/internal/entropy"
	"github.com/talgya/eos-server/internal/persistence"
	"github.com/talgya/eos-server/internal/sim"
	"github.com/talgya/eos-server/internal/world"
	"github.com/talgya/eos-server/internal/worldgen"
)

func main() {
	godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(),
	}))
	slog.SetDefault(logger)

	cfg := loadConfig(logger)

	// ── Persistence (optional) ────────────────────────────────────────
	var store *persistence.Store
	if cfg.Database.Path != "" {
		var err error
		store, err = persistence.Open(cfg.Database.Path)
		if err != nil {
			logger.Error("failed to open database", "path", cfg.Database.Path, "error", err)
			os.Exit(1)
		}
		defer store.Close()
		logger.Info("database opened", "path", cfg.Database.Path)
	}

	// ── Load or generate the world ────────────────────────────────────
	rng := entropy.New(cfg.World.Seed)
	var st *world.GameState
	if store != nil {
		loaded, found, err := store.Load()
		if err != nil {
			logger.Error("failed to load snapshot", "error", err)
			os.Exit(1)
		}
		if found {
			st = loaded
			logger.Info("world restored from snapshot", "tick", st.Tick)
		}
	}
	if st == nil {
		var err error
		st, err = worldgen.NewBuilder(cfg, rng, logger).Build()
		if err != nil {
			logger.Error("world generation failed", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("world ready",
		"bodies", humanize.Comma(int64(len(st.Bodies))),
		"spaces", humanize.Comma(int64(len(st.Spaces))),
		"units", humanize.Comma(int64(len(st.Units))),
		"structures", humanize.Comma(int64(len(st.Structures))))

	// ── Server ────────────────────────────────────────────────────────
	engine := sim.NewEngine(st, cfg.Balance, rng, logger)
	server := api.NewServer(st, api.Deps{
		Config: cfg,
		Engine: engine,
		Store:  store,
		Logger: logger,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
		if store != nil {
			if err := store.Save(st); err != nil {
				logger.Error("final snapshot failed", "error", err)
			}
		}
	}
}

// loadConfig reads the YAML config (EOS_CONFIG, default configs/eos.yaml)
// and applies environment overrides for the common knobs.
func loadConfig(logger *slog.Logger) *config.Config {
	path := os.Getenv("EOS_CONFIG")
	if path == "" {
		path = "configs/eos.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		logger.Warn("config file not loaded, using defaults", "path", path, "error", err)
		cfg = config.Default()
	}
	if v := os.Getenv("EOS_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.World.Seed = seed
		}
	}
	if v := os.Getenv("EOS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("EOS_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	return cfg
}

func logLevel() slog.Level {
	if os.Getenv("EOS_DEBUG") != "" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

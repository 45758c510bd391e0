package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"smacross/config"
	qhttp "smacross/http"
	"smacross/logging"
	"smacross/market/providers"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// 1. Load config (built-in defaults when no file is present)
	cfg, err := loadConfig(*configPath)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := logging.New(cfg)
	defer logger.Sync()

	// 2. Set up data providers with failover
	manager := buildProviderManager(cfg, logger)

	svc, err := qhttp.NewService(manager, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize service", zap.Error(err))
	}

	// 3. Hot-reload widget defaults when the config file changes
	if _, err := os.Stat(*configPath); err == nil {
		stop, err := config.Watch(*configPath, logger, svc.SetDefaults)
		if err != nil {
			logger.Warn("config watch disabled", zap.Error(err))
		} else {
			defer stop()
		}
	}

	// 4. Start HTTP server
	serverConfig := qhttp.DefaultServerConfig()
	serverConfig.Port = cfg.HTTP.Port
	server := qhttp.NewServer(serverConfig, svc, logger)

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	// 5. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	if err := server.Stop(); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
}

func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.Default(), nil
	}
	return config.Load(path)
}

func buildProviderManager(cfg *config.Config, logger *zap.Logger) *providers.Manager {
	manager := providers.NewManager(logger)
	manager.AddProvider(providers.NewYahooProvider())
	manager.AddProvider(providers.NewStooqProvider())
	manager.AddProvider(providers.NewMockProvider())

	if cfg.Provider.Primary != "" {
		if err := manager.SetPrimary(cfg.Provider.Primary); err != nil {
			logger.Warn("unknown primary provider, keeping priority order",
				zap.String("provider", cfg.Provider.Primary))
		}
	}
	return manager
}

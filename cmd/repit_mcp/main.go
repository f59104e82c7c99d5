// Package main runs the workouts MCP server over stdio, for local MCP clients.
// The same tools are mounted on the main backend at /mcp over HTTP.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/2beens/repit/internal"
	"github.com/2beens/repit/internal/config"
	"github.com/2beens/repit/internal/logging"
	repitmcp "github.com/2beens/repit/internal/mcp"
	"github.com/2beens/repit/internal/telemetry/metrics"
	"github.com/2beens/repit/internal/workouts"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	logsPath := flag.String("logs-path", "", "logs file path; stdout is the MCP channel, so logs never go there")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if *logsPath != "" {
		logging.Setup(logging.LoggerSetupParams{
			LogFileName: *logsPath,
			LogToStdout: false,
			LogLevel:    cfg.LogLevel,
			Environment: cfg.Environment,
		})
	} else {
		log.SetOutput(os.Stderr)
		log.SetLevel(logging.GetLevel(cfg.LogLevel))
	}

	if cfg.StorageBackend == config.StorageBackendMemory {
		log.Warnln("memory storage backend: the MCP process will not see the backend's workouts")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, err := internal.OpenStorage(ctx, cfg, config.SecretsFromEnv())
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}
	defer storage.Close()

	mm := metrics.NewManager("repit", "mcp", prometheus.NewRegistry())
	// read only: no generator, the main backend is the only writer
	svc := workouts.NewService(
		workouts.NewStore(storage.KV, cfg.StorageNamespace, mm),
		nil,
		mm,
	)

	server := repitmcp.NewServer(svc, true)
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Errorf("mcp server: %v", err)
	}
}

package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"github.com/2beens/repit/internal"
	"github.com/2beens/repit/internal/backup"
	"github.com/2beens/repit/internal/config"
	"github.com/2beens/repit/internal/logging"
	"github.com/2beens/repit/internal/telemetry/metrics"
	"github.com/2beens/repit/internal/workouts"
	"github.com/2beens/repit/pkg"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

// workout history google drive backup cmd

func main() {
	env := flag.String("env", "production", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	credentialsFile := flag.String(
		"gd-creds",
		"./repit-drive-credentials.json",
		"google drive service account credentials json",
	)
	logsPath := flag.String("logs-path", "/var/log/repit/history-backup.log", "logs file path (empty for stdout)")
	list := flag.Bool("list", false, "only list existing backups")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName: *logsPath,
		LogToStdout: *logsPath == "",
		LogLevel:    cfg.LogLevel,
		Environment: cfg.Environment,
	})

	log.Println("starting workout history backup ...")

	if exists, err := pkg.PathExists(*credentialsFile, false); err != nil || !exists {
		log.Fatalf("google drive credentials json [%s] not found: %v", *credentialsFile, err)
	}
	credentialsFileBytes, err := os.ReadFile(*credentialsFile)
	if err != nil {
		log.Fatalf("unable to read credentials file: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	storage, err := internal.OpenStorage(ctx, cfg, config.SecretsFromEnv())
	if err != nil {
		log.Fatalf("open storage: %s", err)
	}
	defer storage.Close()

	store := workouts.NewStore(storage.KV, cfg.StorageNamespace, metrics.NewManager("repit", "history_backup", prometheus.NewRegistry()))
	s, err := backup.NewGoogleDriveBackupService(ctx, credentialsFileBytes, store, backup.Params{
		FolderName: cfg.BackupFolderName,
		ShareEmail: cfg.BackupShareEmail,
	})
	if err != nil {
		log.Fatalf("failed to create google drive backup service: %s", err)
	}

	if *list {
		files, err := s.ListBackups(ctx)
		if err != nil {
			log.Fatalf("list backups: %s", err)
		}
		for _, f := range files {
			log.Printf("%s  %s  %d bytes", f.CreatedTime, f.Name, f.Size)
		}
		return
	}

	file, err := s.DoBackup(ctx)
	if errors.Is(err, backup.ErrEmptyHistory) {
		log.Warnln("no workouts saved yet, backup skipped")
		return
	}
	if err != nil {
		log.Fatalf("backup failed: %+v", err)
	}

	log.Printf("backup done: %s (%s)", file.Name, file.Id)
}

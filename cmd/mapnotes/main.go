package main

import (
	"os"

	"github.com/mfujita/mapnotes/internal/backup"
	"github.com/mfujita/mapnotes/internal/config"
	"github.com/mfujita/mapnotes/internal/db"
	"github.com/mfujita/mapnotes/internal/kv"
	"github.com/mfujita/mapnotes/internal/logging"
	"github.com/mfujita/mapnotes/internal/repository"
	"github.com/mfujita/mapnotes/internal/service"
	"github.com/mfujita/mapnotes/internal/vision"
	"github.com/mfujita/mapnotes/internal/vision/claude"
	"github.com/mfujita/mapnotes/internal/web"
	"github.com/mfujita/mapnotes/internal/web/templates"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer cleanup()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer database.Close()

	repo := repository.New(kv.NewSQLiteStore(database))
	codec := backup.NewCodec(repo)

	var analyzer vision.Analyzer
	if cfg.ClaudeAPIKey != "" {
		analyzer = claude.New(cfg.ClaudeAPIKey, cfg.ClaudeModel)
		logger.Info("marker suggestions enabled", "model", cfg.ClaudeModel)
	} else {
		logger.Info("marker suggestions disabled, set CLAUDE_API_KEY to enable")
	}

	svc := service.NewMapService(repo, analyzer, logger)
	server := web.NewServer(svc, repo, codec, templates.FS, logger, cfg.BasePath)

	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

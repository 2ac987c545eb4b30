// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	recorder_api "github.com/rapidaai/interview-recorder/api/recorder-api"
	"github.com/rapidaai/interview-recorder/config"
	"github.com/rapidaai/interview-recorder/internal/question"
	"github.com/rapidaai/interview-recorder/internal/storage"
	"github.com/rapidaai/interview-recorder/pkg/commons"
)

func main() {
	v, err := config.InitConfig()
	if err != nil {
		log.Fatalf("unable to initialize config: %v", err)
	}
	cfg, err := config.GetApplicationConfig(v)
	if err != nil {
		log.Fatalf("invalid application config: %v", err)
	}

	logger, err := commons.NewApplicationLogger(
		commons.Name(cfg.Name),
		commons.Path(cfg.LogPath),
		commons.Level(cfg.LogLevel),
	)
	if err != nil {
		log.Fatalf("unable to create logger: %v", err)
	}
	defer logger.Sync()

	questions, err := question.Load(cfg.QuestionsFile)
	if err != nil {
		logger.Fatalf("unable to load questions: %v", err)
	}
	logger.Infof("loaded %d questions from %s", questions.Len(), cfg.QuestionsFile)

	store, err := storage.NewStore(logger, cfg.AnswersDir, cfg.LogsDir)
	if err != nil {
		logger.Fatalf("unable to prepare storage: %v", err)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	recorder_api.RecorderApiRoutes(cfg, engine, logger,
		recorder_api.NewRecorderHTTPApi(cfg, logger, questions, store))

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Infof("%s %s listening on %s", cfg.Name, cfg.Version, server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
}

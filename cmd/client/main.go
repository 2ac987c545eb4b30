// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rapidaai/interview-recorder/config"
	"github.com/rapidaai/interview-recorder/internal/audio"
	"github.com/rapidaai/interview-recorder/internal/question"
	"github.com/rapidaai/interview-recorder/internal/session"
	"github.com/rapidaai/interview-recorder/internal/speaker"
	recorder_client "github.com/rapidaai/interview-recorder/pkg/clients/recorder"
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
		commons.Name(cfg.Name+"-client"),
		commons.Path(cfg.LogPath),
		commons.Level(cfg.LogLevel),
	)
	if err != nil {
		log.Fatalf("unable to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := recorder_client.NewRecorderServiceClient(cfg, logger)
	questions := loadQuestions(ctx, cfg, logger, client)
	if questions.Len() == 0 {
		fmt.Println("No questions available.")
		os.Exit(1)
	}
	fmt.Printf("Loaded %d questions. Starting session: repeat, record or skip each question.\n", questions.Len())

	controller := session.NewController(
		logger,
		speaker.New(logger, speaker.NewEspeakEngine()),
		audio.NewCapture(logger, audio.NewArecordDevice()),
		client,
		os.Stdin,
		os.Stdout,
	)

	sessionLog, err := controller.Run(ctx, questions)
	if err != nil {
		logger.Errorf("session ended early: %v", err)
	}

	answered, skipped := 0, 0
	for _, e := range sessionLog.Entries() {
		if e.Action == session.ActionAnswered {
			answered++
		} else {
			skipped++
		}
	}
	fmt.Printf("\nSession complete: %d answered, %d skipped.\n", answered, skipped)
}

// loadQuestions prefers the server's list and falls back to the local file,
// matching how the answer service itself is seeded.
func loadQuestions(ctx context.Context, cfg *config.AppConfig, logger commons.Logger, client recorder_client.RecorderServiceClient) *question.Store {
	if fetched, err := client.GetQuestions(ctx); err == nil && len(fetched) > 0 {
		texts := make([]string, 0, len(fetched))
		for _, q := range fetched {
			texts = append(texts, q.Text)
		}
		fmt.Printf("Loaded questions from %s.\n", cfg.ApiUrl)
		return question.NewStore(texts)
	} else if err != nil {
		logger.Warnf("unable to fetch questions from api: %v", err)
	}

	store, err := question.Load(cfg.QuestionsFile)
	if err != nil {
		logger.Fatalf("unable to load questions from %s: %v", cfg.QuestionsFile, err)
	}
	return store
}

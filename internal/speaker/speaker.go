// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package speaker

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/rapidaai/interview-recorder/pkg/commons"
)

// Result is the outcome of an announcement. Unavailability is a normal,
// expected outcome the caller must handle by falling back to text output;
// it is not an error.
type Result int

const (
	Announced Result = iota
	Unavailable
)

func (r Result) String() string {
	if r == Announced {
		return "announced"
	}
	return "unavailable"
}

// Engine is the external text-to-speech primitive.
type Engine interface {
	Speak(ctx context.Context, text string) error
}

// Speaker is the best-effort announcer. Engine failures and timeouts
// degrade to Unavailable; Announce never returns an error.
type Speaker struct {
	logger  commons.Logger
	engine  Engine
	timeout time.Duration
}

func New(logger commons.Logger, engine Engine) *Speaker {
	return &Speaker{
		logger:  logger,
		engine:  engine,
		timeout: 30 * time.Second,
	}
}

// Announce speaks text through the engine, bounded by the speaker timeout.
func (s *Speaker) Announce(text string) Result {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.engine.Speak(ctx, text); err != nil {
		s.logger.Debugf("speaker: engine unavailable: %v", err)
		return Unavailable
	}
	return Announced
}

// espeakEngine shells out to the espeak binary.
type espeakEngine struct{}

// NewEspeakEngine returns the default local TTS engine.
func NewEspeakEngine() Engine {
	return espeakEngine{}
}

func (espeakEngine) Speak(ctx context.Context, text string) error {
	if _, err := exec.LookPath("espeak"); err != nil {
		return fmt.Errorf("espeak not found: %w", err)
	}
	cmd := exec.CommandContext(ctx, "espeak", text)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("espeak: %w", err)
	}
	return nil
}

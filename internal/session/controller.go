// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rapidaai/interview-recorder/internal/audio"
	"github.com/rapidaai/interview-recorder/internal/question"
	"github.com/rapidaai/interview-recorder/internal/speaker"
	recorder_client "github.com/rapidaai/interview-recorder/pkg/clients/recorder"
	"github.com/rapidaai/interview-recorder/pkg/commons"
)

// Controller drives the interactive loop: announce each question, accept
// repeat/record/skip, manage the capture lifecycle and upload results.
// Single-threaded by design; capture start/stop strictly alternate.
type Controller struct {
	logger  commons.Logger
	speaker *speaker.Speaker
	capture *audio.Capture
	client  recorder_client.RecorderServiceClient

	in  *bufio.Scanner
	out io.Writer

	// clock is injectable for testing; defaults to time.Now.
	clock func() time.Time
}

func NewController(
	logger commons.Logger,
	spk *speaker.Speaker,
	capture *audio.Capture,
	client recorder_client.RecorderServiceClient,
	in io.Reader,
	out io.Writer,
) *Controller {
	return &Controller{
		logger:  logger,
		speaker: spk,
		capture: capture,
		client:  client,
		in:      bufio.NewScanner(in),
		out:     out,
		clock:   time.Now,
	}
}

// Run iterates the questions in order and returns the session log. The log
// is returned even on early exit so partial progress stays visible. An
// in-flight capture is always released before returning.
func (c *Controller) Run(ctx context.Context, store *question.Store) (*Log, error) {
	sessionLog := NewLog(c.clock())
	defer c.capture.Abort()

	for _, q := range store.All() {
		if err := ctx.Err(); err != nil {
			return sessionLog, err
		}
		c.announce(q)

		if err := c.handleQuestion(ctx, q, sessionLog); err != nil {
			return sessionLog, err
		}
	}

	c.uploadSessionLog(ctx, sessionLog)
	return sessionLog, nil
}

// handleQuestion loops on operator commands until the question is either
// answered or skipped. Failed uploads re-prompt the same question; they are
// never converted into skips.
func (c *Controller) handleQuestion(ctx context.Context, q question.Question, sessionLog *Log) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintln(c.out, "Options: [r]epeat question  |  [rec] record answer  |  [s]kip question")
		choice, err := c.readLine("Enter choice (r / rec / s): ")
		if err != nil {
			return err
		}

		switch choice {
		case "r":
			c.announce(q)

		case "rec":
			ref, ok := c.recordAndUpload(ctx, q)
			if !ok {
				continue
			}
			sessionLog.Append(LogEntry{
				QuestionIndex: q.Index,
				Action:        ActionAnswered,
				FileReference: ref,
				Timestamp:     c.clock(),
			})
			return nil

		case "s":
			fmt.Fprintln(c.out, "Skipped.")
			sessionLog.Append(LogEntry{
				QuestionIndex: q.Index,
				Action:        ActionSkipped,
				Timestamp:     c.clock(),
			})
			return nil

		default:
			fmt.Fprintln(c.out, "Invalid choice — try again.")
		}
	}
}

// recordAndUpload runs one capture attempt. ok is false whenever the
// question must be re-prompted: device failure, empty capture or any upload
// error.
func (c *Controller) recordAndUpload(ctx context.Context, q question.Question) (string, bool) {
	if err := c.capture.Start(ctx); err != nil {
		fmt.Fprintf(c.out, "Could not start recording: %v\n", err)
		return "", false
	}

	fmt.Fprintln(c.out, "Recording... Press Enter to STOP recording.")
	if _, err := c.readLine(""); err != nil {
		c.capture.Abort()
		fmt.Fprintln(c.out, "Input closed; recording discarded.")
		return "", false
	}

	rec, err := c.capture.Stop(q.Index)
	if err != nil {
		fmt.Fprintf(c.out, "Recording failed: %v\n", err)
		return "", false
	}

	ref, err := c.client.UploadAnswer(ctx, rec)
	if err != nil {
		fmt.Fprintf(c.out, "Upload failed: %v\nThe question will be asked again.\n", err)
		return "", false
	}

	fmt.Fprintf(c.out, "Answer stored as %s\n", ref)
	return ref, true
}

// uploadSessionLog sends the accumulated log. A failure here is reported
// but does not roll back already-uploaded answers.
func (c *Controller) uploadSessionLog(ctx context.Context, sessionLog *Log) {
	content, err := sessionLog.CSV()
	if err != nil {
		c.logger.Errorf("session: unable to serialize log: %v", err)
		fmt.Fprintf(c.out, "Session log could not be serialized: %v\n", err)
		return
	}

	ref, err := c.client.UploadLog(ctx, sessionLog.Filename(), content)
	if err != nil {
		fmt.Fprintf(c.out, "Session log upload failed: %v\nAlready uploaded answers are unaffected.\n", err)
		return
	}
	fmt.Fprintf(c.out, "Session log uploaded as %s\n", ref)
}

// announce speaks the question, falling back to plain text when the
// speaker is unavailable. Never fails the loop.
func (c *Controller) announce(q question.Question) {
	label := fmt.Sprintf("Question %d. %s", q.Index, q.Text)
	if c.speaker.Announce(label) == speaker.Unavailable {
		fmt.Fprintf(c.out, "(speaker unavailable)\n")
	}
	fmt.Fprintf(c.out, "\nQuestion %d: %s\n", q.Index, q.Text)
}

func (c *Controller) readLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(c.out, prompt)
	}
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", fmt.Errorf("session: input error: %w", err)
		}
		return "", io.EOF
	}
	return strings.ToLower(strings.TrimSpace(c.in.Text())), nil
}

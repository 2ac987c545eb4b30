// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package recorder_client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/rapidaai/interview-recorder/config"
	"github.com/rapidaai/interview-recorder/internal/audio"
	"github.com/rapidaai/interview-recorder/internal/question"
	"github.com/rapidaai/interview-recorder/pkg/commons"
)

var (
	// ErrAuthRejected is returned for 401/403 responses. Terminal for the
	// request; the operator must fix the configured key.
	ErrAuthRejected = errors.New("recorder client: credential rejected")
	// ErrValidationRejected is returned for 400/422 responses. Indicates a
	// client/server field contract mismatch and carries the server message.
	ErrValidationRejected = errors.New("recorder client: request rejected by validation")
)

// TransportError wraps connection-level failures. Recoverable by retrying
// the upload; the retry decision belongs to the caller.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("recorder client: transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RecorderServiceClient talks to the answer service. The multipart field
// names (question_index, file, filename, csv_content) are a versioned
// contract with the server and must match exactly.
type RecorderServiceClient interface {
	GetQuestions(ctx context.Context) ([]question.Question, error)
	UploadAnswer(ctx context.Context, rec audio.Recording) (string, error)
	UploadLog(ctx context.Context, filename string, csvContent []byte) (string, error)
}

type recorderServiceClient struct {
	cfg    *config.AppConfig
	logger commons.Logger
	http   *resty.Client
}

func NewRecorderServiceClient(cfg *config.AppConfig, logger commons.Logger) RecorderServiceClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.ApiUrl, "/")).
		SetAuthToken(cfg.ApiKey).
		SetTimeout(cfg.GetRequestTimeout()).
		SetRetryCount(0) // retry is the session controller's decision
	return &recorderServiceClient{
		cfg:    cfg,
		logger: logger,
		http:   client,
	}
}

// GetQuestions fetches the ordered question list from the server.
func (c *recorderServiceClient) GetQuestions(ctx context.Context) ([]question.Question, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/questions")
	if err != nil {
		return nil, &TransportError{err}
	}
	if err := classify(resp); err != nil {
		return nil, err
	}

	var questions []question.Question
	if err := json.Unmarshal(resp.Body(), &questions); err != nil {
		return nil, fmt.Errorf("recorder client: malformed question list: %w", err)
	}
	return questions, nil
}

type answerResponse struct {
	StoredAs string `json:"stored_as"`
}

// UploadAnswer sends a recorded answer and returns the server file
// reference.
func (c *recorderServiceClient) UploadAnswer(ctx context.Context, rec audio.Recording) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("file", rec.Filename(), bytes.NewReader(rec.WAV)).
		SetFormData(map[string]string{
			"question_index": strconv.Itoa(rec.QuestionIndex),
		}).
		Post("/answers")
	if err != nil {
		return "", &TransportError{err}
	}
	if err := classify(resp); err != nil {
		return "", err
	}

	var result answerResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("recorder client: malformed answer response: %w", err)
	}
	c.logger.Debugf("uploaded answer for question %d as %s", rec.QuestionIndex, result.StoredAs)
	return result.StoredAs, nil
}

// UploadLog sends the session log CSV and returns the acknowledged name.
func (c *recorderServiceClient) UploadLog(ctx context.Context, filename string, csvContent []byte) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("csv_content", filename, bytes.NewReader(csvContent)).
		SetFormData(map[string]string{
			"filename": filename,
		}).
		Post("/session_logs")
	if err != nil {
		return "", &TransportError{err}
	}
	if err := classify(resp); err != nil {
		return "", err
	}

	var result answerResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("recorder client: malformed log response: %w", err)
	}
	return result.StoredAs, nil
}

func classify(resp *resty.Response) error {
	switch code := resp.StatusCode(); {
	case code >= 200 && code < 300:
		return nil
	case code == 401 || code == 403:
		return ErrAuthRejected
	case code == 400 || code == 422:
		return fmt.Errorf("%w: %s", ErrValidationRejected, strings.TrimSpace(resp.String()))
	default:
		return &TransportError{fmt.Errorf("unexpected status %d: %s", code, strings.TrimSpace(resp.String()))}
	}
}

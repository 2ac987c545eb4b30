// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package recorder_api

import (
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rapidaai/interview-recorder/config"
	"github.com/rapidaai/interview-recorder/internal/question"
	"github.com/rapidaai/interview-recorder/internal/storage"
	"github.com/rapidaai/interview-recorder/pkg/commons"
	"github.com/rapidaai/interview-recorder/pkg/utils"
)

// allowedAudioExtensions is the accepted answer upload format set. No
// transcoding happens server-side; files are stored as received.
var allowedAudioExtensions = map[string]bool{
	".wav":  true,
	".mp3":  true,
	".flac": true,
	".m4a":  true,
}

// RecorderApi serves the question list and accepts answer and session log
// uploads. Every operation sits behind the shared-secret middleware.
type RecorderApi interface {
	GetQuestions(c *gin.Context)
	GetQuestion(c *gin.Context)
	UploadAnswer(c *gin.Context)
	UploadSessionLog(c *gin.Context)
	ListSessionLogs(c *gin.Context)
	Healthz(c *gin.Context)
}

type recorderHTTPApi struct {
	cfg       *config.AppConfig
	logger    commons.Logger
	questions *question.Store
	storage   *storage.Store
}

func NewRecorderHTTPApi(
	cfg *config.AppConfig,
	logger commons.Logger,
	questions *question.Store,
	store *storage.Store,
) RecorderApi {
	return &recorderHTTPApi{
		cfg:       cfg,
		logger:    logger,
		questions: questions,
		storage:   store,
	}
}

// GetQuestions returns the ordered question list as index + text pairs.
func (api *recorderHTTPApi) GetQuestions(c *gin.Context) {
	c.JSON(http.StatusOK, api.questions.All())
}

// GetQuestion returns a single question by its 1-based index.
func (api *recorderHTTPApi) GetQuestion(c *gin.Context) {
	idx, err := strconv.Atoi(c.Param("idx"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "idx must be an integer"})
		return
	}
	q, err := api.questions.At(idx)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
		return
	}
	c.JSON(http.StatusOK, q)
}

// UploadAnswer validates the multipart form (question_index, file) and
// persists the audio. Nothing is written when validation rejects.
func (api *recorderHTTPApi) UploadAnswer(c *gin.Context) {
	rawIndex := c.PostForm("question_index")
	idx, err := strconv.Atoi(strings.TrimSpace(rawIndex))
	if err != nil || idx < 1 {
		api.logger.Warnf("answer upload rejected: bad question_index %q", rawIndex)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "question_index must be a positive integer"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	if header.Size == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "file must not be empty"})
		return
	}
	if ext := strings.ToLower(filepath.Ext(header.Filename)); !allowedAudioExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported audio file type"})
		return
	}

	ref, err := api.storage.SaveAnswer(idx, header.Filename, file)
	if err != nil {
		api.logger.Errorf("unable to store answer: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to store answer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stored_as":      ref,
		"question_index": idx,
	})
}

// UploadSessionLog persists the posted CSV verbatim. csv_content may
// arrive as a file part or a plain form value; both are accepted.
func (api *recorderHTTPApi) UploadSessionLog(c *gin.Context) {
	filename := c.PostForm("filename")
	if utils.IsEmpty(filename) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "filename is required"})
		return
	}

	content, err := sessionLogContent(c)
	if err != nil || len(content) == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "csv_content is required"})
		return
	}

	ref, err := api.storage.SaveLog(content)
	if err != nil {
		api.logger.Errorf("unable to store session log: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to store session log"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stored_as": ref})
}

func sessionLogContent(c *gin.Context) ([]byte, error) {
	if file, _, err := c.Request.FormFile("csv_content"); err == nil {
		defer file.Close()
		return io.ReadAll(file)
	}
	return []byte(c.PostForm("csv_content")), nil
}

// ListSessionLogs returns the stored log names.
func (api *recorderHTTPApi) ListSessionLogs(c *gin.Context) {
	names, err := api.storage.ListLogs()
	if err != nil {
		api.logger.Errorf("unable to list session logs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to list session logs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": names})
}

// Healthz is the unauthenticated liveness probe.
func (api *recorderHTTPApi) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": api.cfg.Name,
		"version": api.cfg.Version,
	})
}

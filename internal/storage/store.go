// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package storage

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rapidaai/interview-recorder/pkg/commons"
)

// Store persists uploaded answers and session logs under two fixed
// directories. Writes are append-only: names carry a time and uuid suffix
// so concurrent uploads never overwrite each other, and files are created
// with O_EXCL.
type Store struct {
	logger     commons.Logger
	answersDir string
	logsDir    string

	// clock is injectable for testing; defaults to time.Now.
	clock func() time.Time
}

// NewStore creates the output directories when absent. They are never
// cleaned automatically.
func NewStore(logger commons.Logger, answersDir, logsDir string) (*Store, error) {
	for _, dir := range []string{answersDir, logsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: unable to create %s: %w", dir, err)
		}
	}
	return &Store{
		logger:     logger,
		answersDir: answersDir,
		logsDir:    logsDir,
		clock:      time.Now,
	}, nil
}

// SaveAnswer writes one uploaded answer stream and returns the stored
// reference. originalName only contributes its extension.
func (s *Store) SaveAnswer(questionIndex int, originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	if ext == "" {
		ext = ".wav"
	}
	name := fmt.Sprintf("q%d_%d_%s%s", questionIndex, s.clock().Unix(), uuid.NewString()[:8], ext)
	if err := s.write(filepath.Join(s.answersDir, name), r); err != nil {
		return "", err
	}
	s.logger.Infof("stored answer for question %d as %s", questionIndex, name)
	return name, nil
}

// SaveLog writes session log content verbatim and returns the stored
// reference.
func (s *Store) SaveLog(content []byte) (string, error) {
	name := fmt.Sprintf("session_log_%d_%s.csv", s.clock().Unix(), uuid.NewString()[:6])
	if err := s.write(filepath.Join(s.logsDir, name), bytes.NewReader(content)); err != nil {
		return "", err
	}
	s.logger.Infof("stored session log as %s", name)
	return name, nil
}

// ListLogs returns the stored session log names, sorted.
func (s *Store) ListLogs() ([]string, error) {
	entries, err := os.ReadDir(s.logsDir)
	if err != nil {
		return nil, fmt.Errorf("storage: unable to list %s: %w", s.logsDir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) write(path string, r io.Reader) error {
	// O_EXCL keeps the store append-only: an existing file is never
	// overwritten.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("storage: unable to create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		// A partial file would squat on a name already rejected to the
		// caller; remove it so the store only ever holds complete writes.
		f.Close()
		os.Remove(path)
		return fmt.Errorf("storage: unable to write %s: %w", path, err)
	}
	return nil
}

// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package session

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"
)

// Action is the per-question outcome recorded in the session log.
type Action string

const (
	ActionAnswered Action = "answered"
	ActionSkipped  Action = "skipped"
)

// LogEntry records one question outcome. Entries are appended in question
// order and never mutated afterwards. FileReference is empty for skips.
type LogEntry struct {
	QuestionIndex int
	Action        Action
	FileReference string
	Timestamp     time.Time
}

// Log is the ordered record of one client run.
type Log struct {
	startedAt time.Time
	entries   []LogEntry
}

func NewLog(startedAt time.Time) *Log {
	return &Log{startedAt: startedAt}
}

func (l *Log) Append(entry LogEntry) {
	l.entries = append(l.entries, entry)
}

// Entries returns a copy of the appended entries in order.
func (l *Log) Entries() []LogEntry {
	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Filename derives the upload name from the session start time.
func (l *Log) Filename() string {
	return fmt.Sprintf("session_log_%d.csv", l.startedAt.Unix())
}

// CSV serializes the log to its tabular upload format.
func (l *Log) CSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"question_index", "action", "file_reference", "timestamp"}); err != nil {
		return nil, fmt.Errorf("session: unable to write csv header: %w", err)
	}
	for _, e := range l.entries {
		record := []string{
			strconv.Itoa(e.QuestionIndex),
			string(e.Action),
			e.FileReference,
			e.Timestamp.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("session: unable to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("session: csv flush: %w", err)
	}
	return buf.Bytes(), nil
}

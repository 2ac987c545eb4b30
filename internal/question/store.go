// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package question

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/rapidaai/interview-recorder/pkg/utils"
)

// Question is one entry of the ordered interview list. Indices are 1-based
// and contiguous.
type Question struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Store holds the loaded question list. Read-only after construction.
type Store struct {
	questions []Question
}

// NewStore builds a store from raw question texts, assigning contiguous
// 1-based indices. Blank lines are dropped and surrounding whitespace is
// trimmed.
func NewStore(texts []string) *Store {
	questions := make([]Question, 0, len(texts))
	for _, text := range texts {
		if utils.IsEmpty(text) {
			continue
		}
		questions = append(questions, Question{
			Index: len(questions) + 1,
			Text:  strings.TrimSpace(text),
		})
	}
	return &Store{questions: questions}
}

// Load reads one question per non-blank line from path.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("question: unable to open %s: %w", path, err)
	}
	defer f.Close()

	var texts []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		texts = append(texts, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("question: unable to read %s: %w", path, err)
	}
	return NewStore(texts), nil
}

// Len returns the number of questions.
func (s *Store) Len() int {
	return len(s.questions)
}

// At returns the question at the 1-based index idx.
func (s *Store) At(idx int) (Question, error) {
	if idx < 1 || idx > len(s.questions) {
		return Question{}, fmt.Errorf("question: index %d out of range 1..%d", idx, len(s.questions))
	}
	return s.questions[idx-1], nil
}

// All returns the ordered question list. The returned slice is a copy.
func (s *Store) All() []Question {
	out := make([]Question, len(s.questions))
	copy(out, s.questions)
	return out
}

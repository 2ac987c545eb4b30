// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package recorder_client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rapidaai/interview-recorder/config"
	"github.com/rapidaai/interview-recorder/internal/audio"
	"github.com/rapidaai/interview-recorder/pkg/commons"
)

func newTestLogger(t *testing.T) commons.Logger {
	t.Helper()
	logger, err := commons.NewApplicationLogger(
		commons.Name("test-client"),
		commons.Path(t.TempDir()),
		commons.Level("debug"),
	)
	if err != nil {
		t.Fatalf("failed to create test logger: %v", err)
	}
	return logger
}

func newClient(t *testing.T, serverURL string) RecorderServiceClient {
	t.Helper()
	cfg := &config.AppConfig{
		ApiKey:         "client-secret",
		ApiUrl:         serverURL,
		RequestTimeout: 2,
	}
	return NewRecorderServiceClient(cfg, newTestLogger(t))
}

func testRecording() audio.Recording {
	return audio.Recording{
		QuestionIndex: 2,
		WAV:           []byte("RIFFfakeaudio"),
		CreatedAt:     time.Unix(1700000000, 0),
	}
}

func TestUploadAnswerSendsContractFields(t *testing.T) {
	var gotAuth, gotIndex, gotFilename string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("not multipart: %v", err)
		}
		gotIndex = r.FormValue("question_index")
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing file part: %v", err)
		} else {
			defer file.Close()
			gotFilename = header.Filename
			gotBody, _ = io.ReadAll(file)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"stored_as":"q2_1700000000_abcd1234.wav"}`))
	}))
	defer server.Close()

	ref, err := newClient(t, server.URL).UploadAnswer(context.Background(), testRecording())
	if err != nil {
		t.Fatalf("UploadAnswer error: %v", err)
	}
	if ref != "q2_1700000000_abcd1234.wav" {
		t.Errorf("unexpected reference %q", ref)
	}
	if gotAuth != "Bearer client-secret" {
		t.Errorf("unexpected auth header %q", gotAuth)
	}
	if gotIndex != "2" {
		t.Errorf("unexpected question_index %q", gotIndex)
	}
	if gotFilename != "q2_1700000000.wav" {
		t.Errorf("unexpected filename %q", gotFilename)
	}
	if string(gotBody) != "RIFFfakeaudio" {
		t.Errorf("unexpected file body %q", gotBody)
	}
}

func TestUploadLogSendsContractFields(t *testing.T) {
	var gotFilename, gotPartName string
	var gotContent []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseMultipartForm(1 << 20)
		gotFilename = r.FormValue("filename")
		file, header, err := r.FormFile("csv_content")
		if err == nil {
			defer file.Close()
			gotPartName = header.Filename
			gotContent, _ = io.ReadAll(file)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"stored_as":"session_log_1_x.csv"}`))
	}))
	defer server.Close()

	csvBody := []byte("question_index,action\n1,skipped\n")
	ref, err := newClient(t, server.URL).UploadLog(context.Background(), "session_log_1.csv", csvBody)
	if err != nil {
		t.Fatalf("UploadLog error: %v", err)
	}
	if ref != "session_log_1_x.csv" {
		t.Errorf("unexpected reference %q", ref)
	}
	if gotFilename != "session_log_1.csv" || gotPartName != "session_log_1.csv" {
		t.Errorf("unexpected filename fields %q / %q", gotFilename, gotPartName)
	}
	if string(gotContent) != string(csvBody) {
		t.Errorf("unexpected csv content %q", gotContent)
	}
}

func TestGetQuestions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/questions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"index":1,"text":"q1"},{"index":2,"text":"q2"}]`))
	}))
	defer server.Close()

	questions, err := newClient(t, server.URL).GetQuestions(context.Background())
	if err != nil {
		t.Fatalf("GetQuestions error: %v", err)
	}
	if len(questions) != 2 || questions[0].Index != 1 || questions[1].Text != "q2" {
		t.Errorf("unexpected questions %+v", questions)
	}
}

func TestStatusClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"unauthorized", http.StatusUnauthorized, func(err error) bool { return errors.Is(err, ErrAuthRejected) }},
		{"forbidden", http.StatusForbidden, func(err error) bool { return errors.Is(err, ErrAuthRejected) }},
		{"unprocessable", http.StatusUnprocessableEntity, func(err error) bool { return errors.Is(err, ErrValidationRejected) }},
		{"bad request", http.StatusBadRequest, func(err error) bool { return errors.Is(err, ErrValidationRejected) }},
		{"server error", http.StatusBadGateway, func(err error) bool {
			var te *TransportError
			return errors.As(err, &te)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			defer server.Close()

			_, err := newClient(t, server.URL).UploadAnswer(context.Background(), testRecording())
			if err == nil || !tt.check(err) {
				t.Fatalf("status %d: wrong classification: %v", tt.status, err)
			}
		})
	}
}

func TestConnectionFailureIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listening anymore

	_, err := newClient(t, server.URL).UploadAnswer(context.Background(), testRecording())
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

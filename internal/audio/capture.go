// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rapidaai/interview-recorder/pkg/commons"
)

var (
	// ErrDeviceUnavailable signals that the microphone could not be opened.
	ErrDeviceUnavailable = errors.New("audio: capture device unavailable")
	// ErrEmptyCapture signals that a stopped capture produced zero samples.
	ErrEmptyCapture = errors.New("audio: no samples captured")
	// ErrCaptureActive signals a Start while a capture is already running.
	ErrCaptureActive = errors.New("audio: capture already in progress")
	// ErrNoCapture signals a Stop without a running capture.
	ErrNoCapture = errors.New("audio: no capture in progress")
)

// Device is the external microphone primitive: Open returns a stream of raw
// LINEAR16 samples that ends when the stream is closed.
type Device interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Recording is one captured answer. Owned by the capture until handed to
// the upload client; the server turns it into a file artifact.
type Recording struct {
	QuestionIndex int
	WAV           []byte
	CreatedAt     time.Time
}

// Filename derives the timestamped upload name for the recording.
func (r Recording) Filename() string {
	return fmt.Sprintf("q%d_%d.wav", r.QuestionIndex, r.CreatedAt.Unix())
}

// Capture wraps start/stop recording over a Device into a single in-memory
// sample buffer. Not reentrant: one capture at a time, sequenced by the
// session controller.
type Capture struct {
	logger     commons.Logger
	device     Device
	sampleRate uint32
	channels   uint16

	mu     sync.Mutex
	stream io.ReadCloser
	buf    *bytes.Buffer
	done   chan struct{}

	// clock is injectable for testing; defaults to time.Now.
	clock func() time.Time
}

func NewCapture(logger commons.Logger, device Device) *Capture {
	return &Capture{
		logger:     logger,
		device:     device,
		sampleRate: DefaultSampleRate,
		channels:   DefaultChannels,
		clock:      time.Now,
	}
}

// Start opens the device stream and begins draining samples into the
// buffer. Fails with ErrDeviceUnavailable when the device cannot be opened.
func (c *Capture) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stream != nil {
		return ErrCaptureActive
	}

	stream, err := c.device.Open(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	buf := &bytes.Buffer{}
	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := io.Copy(buf, stream); err != nil {
			c.logger.Debugf("capture: stream drain ended: %v", err)
		}
	}()

	c.stream = stream
	c.buf = buf
	c.done = done
	return nil
}

// Stop closes the stream, waits for the drain to finish and returns the
// accumulated samples as a WAV recording for questionIndex. Fails with
// ErrEmptyCapture when nothing was captured; nothing is uploaded for an
// empty take.
func (c *Capture) Stop(questionIndex int) (Recording, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stream == nil {
		return Recording{}, ErrNoCapture
	}

	c.stream.Close()
	<-c.done
	pcm := c.buf.Bytes()
	c.reset()

	if len(pcm) == 0 {
		return Recording{}, ErrEmptyCapture
	}

	c.logger.Debugf("capture: stopped with %d bytes of PCM", len(pcm))
	return Recording{
		QuestionIndex: questionIndex,
		WAV:           EncodeWAV(pcm, c.sampleRate, c.channels),
		CreatedAt:     c.clock(),
	}, nil
}

// Abort releases the device and discards any buffered samples. Safe to call
// whether or not a capture is running; used on interrupt so no device
// handle is orphaned.
func (c *Capture) Abort() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stream == nil {
		return
	}
	c.stream.Close()
	<-c.done
	c.reset()
}

// Active reports whether a capture is currently running.
func (c *Capture) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stream != nil
}

func (c *Capture) reset() {
	c.stream = nil
	c.buf = nil
	c.done = nil
}

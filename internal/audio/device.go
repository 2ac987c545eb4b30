// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package audio

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
)

// execDevice captures microphone samples by running a recorder binary and
// reading raw LINEAR16 from its stdout. Closing the returned stream stops
// the process.
type execDevice struct {
	binary     string
	sampleRate uint32
	channels   uint16
}

// NewArecordDevice returns a Device backed by ALSA's arecord.
func NewArecordDevice() Device {
	return &execDevice{
		binary:     "arecord",
		sampleRate: DefaultSampleRate,
		channels:   DefaultChannels,
	}
}

func (d *execDevice) Open(ctx context.Context) (io.ReadCloser, error) {
	if _, err := exec.LookPath(d.binary); err != nil {
		return nil, fmt.Errorf("%s not found: %w", d.binary, err)
	}

	cmd := exec.CommandContext(ctx, d.binary,
		"-q",
		"-f", "S16_LE",
		"-r", strconv.Itoa(int(d.sampleRate)),
		"-c", strconv.Itoa(int(d.channels)),
		"-t", "raw",
	)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", d.binary, err)
	}

	return &processStream{reader: stdout, cmd: cmd}, nil
}

// processStream ties the sample stream to the recorder process lifetime.
type processStream struct {
	reader io.ReadCloser
	cmd    *exec.Cmd
}

func (s *processStream) Read(p []byte) (int, error) {
	return s.reader.Read(p)
}

func (s *processStream) Close() error {
	if s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
	s.reader.Close()
	// Reap the process; the kill error above is irrelevant once waited on.
	s.cmd.Wait()
	return nil
}

// go-mfrc522
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-mfrc522.
//
// go-mfrc522 is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-mfrc522 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-mfrc522; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

// Package diag carries human readable diagnostics lines to a serial link
// or any writer without ever blocking the caller.
package diag

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"sync/atomic"

	"go.bug.st/serial"
)

const (
	// DefaultBaudRate matches the usual USB-UART debug adapters
	DefaultBaudRate = 115200
	// DefaultBacklog is the number of lines queued before new ones are dropped
	DefaultBacklog = 64
)

// ErrClosed is returned by Close when the sink was already closed
var ErrClosed = errors.New("diagnostics sink closed")

// Config selects the serial port used by OpenSerial
type Config struct {
	// Port is the device path, e.g. /dev/ttyUSB0 or COM3
	Port string
	// BaudRate defaults to DefaultBaudRate when zero
	BaudRate int
}

// Sink is a fire-and-forget line writer. Report queues a line and returns
// immediately; a background goroutine writes queued lines with a timestamp.
// Lines reported while the queue is full are dropped and counted.
type Sink struct {
	lines   chan string
	closer  io.Closer
	logger  *log.Logger
	done    chan struct{}
	mu      sync.RWMutex
	dropped atomic.Int64
	written atomic.Int64
	closed  bool
}

// NewSink starts a sink writing to w. If w is an io.Closer it is closed by
// Close.
func NewSink(w io.Writer, backlog int) *Sink {
	if backlog < 1 {
		backlog = DefaultBacklog
	}
	s := &Sink{
		lines:  make(chan string, backlog),
		logger: log.New(w, "", log.LstdFlags|log.Lmicroseconds),
		done:   make(chan struct{}),
	}
	if c, ok := w.(io.Closer); ok {
		s.closer = c
	}
	go s.drain()
	return s
}

// OpenSerial opens the configured serial port 8N1 and starts a sink on it
func OpenSerial(cfg Config) (*Sink, error) {
	if cfg.Port == "" {
		return nil, errors.New("diagnostics port is required")
	}
	baud := cfg.BaudRate
	if baud == 0 {
		baud = DefaultBaudRate
	}
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(cfg.Port, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open diagnostics port %s: %w", cfg.Port, err)
	}
	return NewSink(crlfWriter{port}, DefaultBacklog), nil
}

// Report implements polling.Reporter
func (s *Sink) Report(msg string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		s.dropped.Add(1)
		return
	}
	select {
	case s.lines <- msg:
	default:
		s.dropped.Add(1)
	}
}

// Reportf formats and reports a line
func (s *Sink) Reportf(format string, args ...any) {
	s.Report(fmt.Sprintf(format, args...))
}

// Write implements io.Writer so the sink can take package debug output.
// Each call is reported as one or more lines.
func (s *Sink) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\r\n"), "\n") {
		s.Report(strings.TrimRight(line, "\r"))
	}
	return len(p), nil
}

func (s *Sink) drain() {
	defer close(s.done)
	for line := range s.lines {
		if err := s.logger.Output(2, line); err == nil {
			s.written.Add(1)
		}
	}
}

// Close stops accepting lines, writes out the backlog and closes the
// underlying writer
func (s *Sink) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.closed = true
	close(s.lines)
	s.mu.Unlock()

	<-s.done
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// Dropped returns the number of lines discarded
func (s *Sink) Dropped() int64 {
	return s.dropped.Load()
}

// Written returns the number of lines written
func (s *Sink) Written() int64 {
	return s.written.Load()
}

// crlfWriter terminates lines with CRLF for serial terminals
type crlfWriter struct {
	port serial.Port
}

func (w crlfWriter) Write(p []byte) (int, error) {
	out := strings.ReplaceAll(string(p), "\n", "\r\n")
	if _, err := w.port.Write([]byte(out)); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w crlfWriter) Close() error {
	return w.port.Close()
}
